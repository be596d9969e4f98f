package main

import (
	"os"
	"os/signal"
	"syscall"

	"dinemap/internal/queue"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var syncWatch bool

// syncCmd replays queued reviews, either once or continuously via the
// connectivity monitor.
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Replay queued offline reviews",
	Long: `Replays reviews queued while offline. One-shot by default; with
--watch it keeps probing the API and replays on every offline-to-online
transition until interrupted.`,
	RunE: runSync,
}

func init() {
	syncCmd.Flags().BoolVar(&syncWatch, "watch", false, "keep watching connectivity and replay on reconnect")
}

func runSync(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()

	if !syncWatch {
		result, err := a.queue.Replay(ctx)
		if err != nil {
			return err
		}
		cmd.Printf("Replay: %d attempted, %d submitted, %d requeued\n",
			result.Attempted, result.Submitted, result.Requeued)
		return nil
	}

	monitor := queue.NewMonitor(a.gateway, a.queue, cfg.GetProbeInterval())
	monitor.Start(ctx)
	defer monitor.Stop()

	logger.Info("watching connectivity",
		zap.Duration("interval", cfg.GetProbeInterval()))
	cmd.Println("Watching connectivity; Ctrl-C to stop.")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sigCh:
	case <-ctx.Done():
	}

	stats := monitor.Stats()
	cmd.Printf("Stopped after %d probes, %d transitions, %d replays\n",
		stats.Probes, stats.Transitions, stats.Replays)
	return nil
}
