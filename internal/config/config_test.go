package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate keeps a developer's own config out of the test.
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Chdir(t.TempDir())
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "numeracy.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load(New(), "")
	require.NoError(t, err)
	assert.Equal(t, "", cfg.DB.Path)
	assert.Equal(t, "", cfg.Bank.Path)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, uint64(0), cfg.Generator.Seed)
	assert.Equal(t, 200, cfg.Lint.Samples)
	assert.Equal(t, 0, cfg.Lint.Workers)
	assert.Empty(t, cfg.File)
}

func TestLoad_File(t *testing.T) {
	isolate(t)
	path := writeConfig(t, `
db:
  path: /tmp/classroom.db
log:
  level: debug
  format: json
generator:
  seed: 42
lint:
  samples: 50
  workers: 2
`)

	cfg, err := Load(New(), path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/classroom.db", cfg.DB.Path)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, uint64(42), cfg.Generator.Seed)
	assert.Equal(t, 50, cfg.Lint.Samples)
	assert.Equal(t, 2, cfg.Lint.Workers)
	assert.Equal(t, path, cfg.File)
}

func TestLoad_SearchPath(t *testing.T) {
	isolate(t)
	dir := os.Getenv("XDG_CONFIG_HOME")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "numeracy"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "numeracy", "numeracy.yaml"),
		[]byte("bank:\n  path: custom.yaml\n"), 0o644))

	cfg, err := Load(New(), "")
	require.NoError(t, err)
	assert.Equal(t, "custom.yaml", cfg.Bank.Path)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	isolate(t)
	path := writeConfig(t, "log:\n  level: info\n")
	t.Setenv("NUMERACY_LOG_LEVEL", "error")
	t.Setenv("NUMERACY_LINT_WORKERS", "3")

	cfg, err := Load(New(), path)
	require.NoError(t, err)
	assert.Equal(t, "error", cfg.Log.Level)
	assert.Equal(t, 3, cfg.Lint.Workers)
}

func TestBindFlags(t *testing.T) {
	isolate(t)
	t.Setenv("NUMERACY_DB_PATH", "/env.db")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("db", "", "")
	flags.String("log-level", "", "")
	v := New()
	require.NoError(t, BindFlags(v, flags, map[string]string{
		KeyDBPath:   "db",
		KeyLogLevel: "log-level",
	}))
	require.NoError(t, flags.Parse([]string{"--db", "/flag.db"}))

	cfg, err := Load(v, "")
	require.NoError(t, err)
	assert.Equal(t, "/flag.db", cfg.DB.Path, "a set flag beats the environment")
	assert.Equal(t, "warn", cfg.Log.Level, "an unset flag falls through to the default")

	err = BindFlags(v, flags, map[string]string{KeyBankPath: "bank"})
	assert.ErrorContains(t, err, "no flag --bank")
}

func TestLoad_Errors(t *testing.T) {
	isolate(t)

	_, err := Load(New(), filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err, "an explicit config file must exist")

	t.Setenv("NUMERACY_LINT_SAMPLES", "0")
	_, err = Load(New(), "")
	assert.ErrorContains(t, err, "lint.samples")
}
