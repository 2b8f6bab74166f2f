// Package config resolves settings from defaults, an optional
// numeracy.yaml, NUMERACY_* environment variables and command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. NUMERACY_LOG_LEVEL.
const EnvPrefix = "NUMERACY"

// Keys.
const (
	KeyDBPath        = "db.path"
	KeyBankPath      = "bank.path"
	KeyLogLevel      = "log.level"
	KeyLogFormat     = "log.format"
	KeyLogFile       = "log.file"
	KeyGeneratorSeed = "generator.seed"
	KeyLintSamples   = "lint.samples"
	KeyLintWorkers   = "lint.workers"
)

type Config struct {
	DB        DBConfig
	Bank      BankConfig
	Log       LogConfig
	Generator GeneratorConfig
	Lint      LintConfig

	// File is the config file that was read, if any.
	File string
}

type DBConfig struct {
	// Path is the SQLite file. Empty means store.DefaultDBPath.
	Path string
}

type BankConfig struct {
	// Path is a catalog file. Empty means the embedded catalog.
	Path string
}

type LogConfig struct {
	Level  string
	Format string
	// File receives logs while the TUI owns the terminal.
	File string
}

type GeneratorConfig struct {
	Seed uint64
}

type LintConfig struct {
	Samples int
	Workers int
}

// New returns a viper instance with defaults, search paths and env
// binding set up.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault(KeyDBPath, "")
	v.SetDefault(KeyBankPath, "")
	v.SetDefault(KeyLogLevel, "warn")
	v.SetDefault(KeyLogFormat, "console")
	v.SetDefault(KeyLogFile, "")
	v.SetDefault(KeyGeneratorSeed, 0)
	v.SetDefault(KeyLintSamples, 200)
	v.SetDefault(KeyLintWorkers, 0)

	v.SetConfigName("numeracy")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if dir := configDir(); dir != "" {
		v.AddConfigPath(dir)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func configDir() string {
	if d := os.Getenv("XDG_CONFIG_HOME"); d != "" {
		return filepath.Join(d, "numeracy")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "numeracy")
}

// BindFlags binds command-line flags to keys. Flags that were not set
// fall through to the file, environment and defaults.
func BindFlags(v *viper.Viper, flags *pflag.FlagSet, keys map[string]string) error {
	for key, name := range keys {
		f := flags.Lookup(name)
		if f == nil {
			return fmt.Errorf("bind %s: no flag --%s", key, name)
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("bind %s: %w", key, err)
		}
	}
	return nil
}

// Load reads the config file, if any, and resolves the settings. An
// explicit file must exist; the search paths may hold none.
func Load(v *viper.Viper, file string) (*Config, error) {
	if file != "" {
		v.SetConfigFile(file)
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &Config{
		DB:   DBConfig{Path: v.GetString(KeyDBPath)},
		Bank: BankConfig{Path: v.GetString(KeyBankPath)},
		Log: LogConfig{
			Level:  v.GetString(KeyLogLevel),
			Format: v.GetString(KeyLogFormat),
			File:   v.GetString(KeyLogFile),
		},
		Generator: GeneratorConfig{Seed: v.GetUint64(KeyGeneratorSeed)},
		Lint: LintConfig{
			Samples: v.GetInt(KeyLintSamples),
			Workers: v.GetInt(KeyLintWorkers),
		},
		File: v.ConfigFileUsed(),
	}
	if cfg.Lint.Samples <= 0 {
		return nil, fmt.Errorf("%s must be positive, got %d", KeyLintSamples, cfg.Lint.Samples)
	}
	if cfg.Lint.Workers < 0 {
		return nil, fmt.Errorf("%s must not be negative, got %d", KeyLintWorkers, cfg.Lint.Workers)
	}
	return cfg, nil
}
