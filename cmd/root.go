package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Tiliavir/jtrack/internal/config"
	"github.com/Tiliavir/jtrack/internal/storage"
)

var (
	verbose bool
	logger  = zap.NewNop()
	cfg     config.Config
	nowFunc = time.Now
)

var rootCmd = &cobra.Command{
	Use:   "jtrack",
	Short: "jtrack – a file-based job application tracker",
	Long: `jtrack records job applications and per-day notes, shows dashboard
statistics and a month calendar, and can serve everything over a local HTTP API.
Data is stored in ~/.jtrack/ as JSON files or in a SQLite database.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}

		zcfg := zap.NewProductionConfig()
		zcfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
		if verbose {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		logger, err = zcfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

// Execute is the entry point called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(calendarCmd)
	rootCmd.AddCommand(noteCmd)
	rootCmd.AddCommand(clearCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(dashboardCmd)
	rootCmd.AddCommand(serveCmd)
}

// stores bundles the opened backend and the two record stores on it.
type stores struct {
	kv    storage.KV
	apps  *storage.Applications
	notes *storage.DateNotes
	loc   *time.Location
}

func (s *stores) Close() {
	if err := s.kv.Close(); err != nil {
		logger.Warn("closing storage", zap.Error(err))
	}
}

// openStores opens the configured backend. Storage errors are fatal with
// exit code 2.
func openStores() *stores {
	base := cfg.Storage.Dir
	if base == "" {
		var err error
		base, err = storage.BaseDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
	}

	kv, err := storage.Open(cfg.Storage.Backend, base)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	loc, err := cfg.Location()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v; using local time\n", err)
		loc = time.Local
	}

	logger.Debug("storage opened", zap.String("backend", cfg.Storage.Backend), zap.String("dir", base))
	return &stores{
		kv:    kv,
		apps:  storage.NewApplications(kv, logger),
		notes: storage.NewDateNotes(kv, logger),
		loc:   loc,
	}
}

// now returns the current time in the configured location.
func (s *stores) now() time.Time {
	return nowFunc().In(s.loc)
}
