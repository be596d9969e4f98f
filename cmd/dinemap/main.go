package main

import (
	"fmt"
	"os"

	"dinemap/internal/config"
	"dinemap/internal/gateway"
	"dinemap/internal/logging"
	"dinemap/internal/queue"
	"dinemap/internal/reconcile"
	"dinemap/internal/store"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Global flags
	cfgPath string
	verbose bool

	// Loaded config and logger, set by the root PersistentPreRunE
	cfg    *config.Config
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "dinemap",
	Short: "dinemap - offline-first restaurant directory",
	Long: `dinemap is an offline-first client for the restaurant directory API.

Reads are network-first with a local sqlite fallback, review submissions
survive connectivity loss in a durable replay queue, and the cache gateway
serves the app shell and images from versioned cache partitions while
offline.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgPath)
		if err != nil {
			return err
		}

		if err := logging.Initialize(logging.Options{
			Dir:     cfg.Logging.Dir,
			Level:   cfg.Logging.Level,
			Enabled: cfg.Logging.Enabled,
		}); err != nil {
			return err
		}

		zapCfg := zap.NewProductionConfig()
		if verbose {
			zapCfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		logger, err = zapCfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

// app bundles the wired subsystems a command needs.
type app struct {
	store      *store.LocalStore
	gateway    *gateway.Client
	reconciler *reconcile.Reconciler
	queue      *queue.Queue
}

// openApp opens the local store and wires the reconciler and queue over it.
// Callers must Close when done.
func openApp() (*app, error) {
	st, err := store.Open(cfg.Store.DatabasePath)
	if err != nil {
		return nil, err
	}
	gw := gateway.New(gateway.Config{
		BaseURL: cfg.API.BaseURL,
		Timeout: cfg.GetAPITimeout(),
	})
	return &app{
		store:      st,
		gateway:    gw,
		reconciler: reconcile.New(gw, st),
		queue:      queue.New(st, gw),
	}, nil
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		logger.Warn("failed to close local store", zap.Error(err))
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "dinemap.yaml", "path to config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(browseCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(favoriteCmd)
	rootCmd.AddCommand(reviewCmd)
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(cacheServeCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
