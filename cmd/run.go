package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/numeracy/internal/app"
	"github.com/abhisek/numeracy/internal/bank"
	"github.com/abhisek/numeracy/internal/logger"
	"github.com/abhisek/numeracy/internal/questiongen"
	"github.com/abhisek/numeracy/internal/store"
)

// resolveDBPath returns the database path using --db / db.path (highest
// priority), then NUMERACY_DB env var, then the default XDG path.
func resolveDBPath() (string, error) {
	if cfg.DB.Path != "" {
		return cfg.DB.Path, store.EnsureDir(cfg.DB.Path)
	}
	return store.DefaultDBPath()
}

// openStore opens the configured database with l as its logger.
func openStore(l *zap.Logger) (*store.Store, error) {
	dbPath, err := resolveDBPath()
	if err != nil {
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath, store.WithLogger(l))
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return st, nil
}

// openCatalog loads the configured question bank.
func openCatalog() (*bank.Catalog, error) {
	c, err := bank.Open(cfg.Bank.Path)
	if err != nil {
		return nil, fmt.Errorf("load question bank: %w", err)
	}
	return c, nil
}

// newGenerator builds a generator. A zero seed falls back to generator.seed.
func newGenerator(l *zap.Logger, seed uint64, rec questiongen.Recorder) *questiongen.Generator {
	if seed == 0 {
		seed = cfg.Generator.Seed
	}
	gc := questiongen.DefaultConfig()
	gc.Seed = seed
	gc.Logger = l
	gc.Recorder = rec
	return questiongen.New(gc)
}

// runApp opens the store, builds dependencies, and launches the TUI. A
// non-empty studentID signs that student in first; otherwise a student
// still signed in from last time goes straight to home.
func runApp(cmd *cobra.Command, studentID string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	// The TUI owns the terminal, so logs go to a file or nowhere.
	tuiLog, closeLog, err := logger.File(cfg.Log.File, logger.Options{Level: cfg.Log.Level, Format: cfg.Log.Format})
	if err != nil {
		return err
	}
	defer closeLog()

	st, err := openStore(tuiLog)
	if err != nil {
		return err
	}
	defer st.Close()

	catalog, err := openCatalog()
	if err != nil {
		return err
	}

	opts := app.Options{
		Store:     st,
		Catalog:   catalog,
		Generator: newGenerator(tuiLog, 0, nil),
		Logger:    tuiLog,
	}

	switch {
	case studentID != "":
		if _, err := st.Login(ctx, studentID); err != nil {
			return fmt.Errorf("log in: %w", err)
		}
		opts.Student, err = st.GetStudent(ctx, studentID)
		if err != nil {
			return err
		}
	default:
		ls, err := st.CurrentSession(ctx)
		if err != nil {
			return err
		}
		if ls != nil {
			if s, err := st.GetStudent(ctx, ls.StudentID); err == nil {
				opts.Student = s
			} else {
				tuiLog.Warn("signed-in student is gone", zap.String("student_id", ls.StudentID), zap.Error(err))
			}
		}
	}

	return app.Run(opts)
}
