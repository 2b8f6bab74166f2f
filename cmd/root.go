package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/numeracy/internal/config"
	"github.com/abhisek/numeracy/internal/logger"
)

var (
	v   = config.New()
	cfg *config.Config
	log = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "numeracy",
	Short: "Numeracy practice tests for Years 3, 5 and 7",
	Long: `Numeracy generates randomised numeracy practice tests from a bank of
question templates, runs timed tests in the terminal, and keeps student
results in a local SQLite database.

Run without a command to open the student app.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd, "")
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "Config file (default ./numeracy.yaml or $XDG_CONFIG_HOME/numeracy/numeracy.yaml)")
	pf.String("db", "", "Path to SQLite database file (overrides NUMERACY_DB env var)")
	pf.String("bank", "", "Question bank file, JSON or YAML (default: built-in bank)")
	pf.String("log-level", "", "Log level: debug, info, warn or error")
	pf.String("log-file", "", "Write logs to this file while the app is open")

	rootCmd.AddCommand(takeCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(studentCmd)
	rootCmd.AddCommand(resultsCmd)
	rootCmd.AddCommand(analyticsCmd)
	rootCmd.AddCommand(adminCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(bankCmd)
	rootCmd.AddCommand(versionCmd)
}

// setup resolves configuration and builds the logger before any command runs.
func setup(cmd *cobra.Command, args []string) error {
	err := config.BindFlags(v, cmd.Root().PersistentFlags(), map[string]string{
		config.KeyDBPath:   "db",
		config.KeyBankPath: "bank",
		config.KeyLogLevel: "log-level",
		config.KeyLogFile:  "log-file",
	})
	if err != nil {
		return err
	}

	file, _ := cmd.Flags().GetString("config")
	c, err := config.Load(v, file)
	if err != nil {
		return err
	}
	l, err := logger.New(logger.Options{Level: c.Log.Level, Format: c.Log.Format, Output: cmd.ErrOrStderr()})
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	cfg, log = c, l
	if c.File != "" {
		log.Debug("config loaded", zap.String("file", c.File))
	}
	return nil
}
