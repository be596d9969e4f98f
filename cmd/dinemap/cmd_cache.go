package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dinemap/internal/cachegw"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// cacheServeCmd runs the cache gateway: install, activate, then serve.
var cacheServeCmd = &cobra.Command{
	Use:   "cache-serve",
	Short: "Run the offline cache gateway",
	Long: `Serves the app shell and images cache-first in front of the upstream
origin. On startup the shell-asset manifest is precached (install) and
cache partitions from prior versions are evicted (activate).`,
	RunE: runCacheServe,
}

func runCacheServe(cmd *cobra.Command, args []string) error {
	assets := cfg.Cache.ShellAssets
	if cfg.Cache.ManifestPath != "" {
		loaded, err := cachegw.LoadManifest(cfg.Cache.ManifestPath)
		if err != nil {
			logger.Warn("could not load manifest file, using configured assets",
				zap.String("path", cfg.Cache.ManifestPath), zap.Error(err))
		} else {
			assets = loaded
		}
	}

	gw, err := cachegw.New(cachegw.Options{
		Root:            cfg.Cache.Dir,
		AppName:         cfg.Cache.AppName,
		ShellCacheName:  cfg.Cache.ShellCacheName(),
		ImagesCacheName: cfg.Cache.ImagesCacheName(),
		Upstream:        cfg.Cache.Upstream,
		ShellAssets:     assets,
		ImagePathPrefix: cfg.Cache.ImagePathPrefix,
	}, logger)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if err := gw.Install(ctx); err != nil {
		return err
	}
	if err := gw.Activate(); err != nil {
		return err
	}

	if cfg.Cache.ManifestPath != "" {
		watcher, err := cachegw.NewManifestWatcher(cfg.Cache.ManifestPath, gw, logger)
		if err != nil {
			return err
		}
		if err := watcher.Start(ctx); err != nil {
			return err
		}
		defer watcher.Stop()
	}

	server := &http.Server{
		Addr:    cfg.Cache.Listen,
		Handler: gw,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("cache gateway listening",
			zap.String("addr", cfg.Cache.Listen),
			zap.String("upstream", cfg.Cache.Upstream),
			zap.String("shell", gw.ShellName()),
			zap.String("images", gw.ImagesName()))
		errCh <- server.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return err
	case <-sigCh:
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
