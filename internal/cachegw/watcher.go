package cachegw

import (
	"context"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// ManifestWatcher re-runs Install when the shell-asset manifest file
// changes, so a deployed asset list refreshes the cache without restarting
// the gateway. The manifest is a plain text file, one asset path per line,
// with # comments.
type ManifestWatcher struct {
	mu          sync.Mutex
	watcher     *fsnotify.Watcher
	gateway     *Gateway
	path        string
	debounceDur time.Duration
	running     bool
	stopCh      chan struct{}
	doneCh      chan struct{}
	logger      *zap.Logger
}

// NewManifestWatcher creates a watcher for the manifest at path.
func NewManifestWatcher(path string, gw *Gateway, logger *zap.Logger) (*ManifestWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ManifestWatcher{
		watcher:     watcher,
		gateway:     gw,
		path:        path,
		debounceDur: 500 * time.Millisecond, // Coalesce editor save bursts
		logger:      logger,
	}, nil
}

// Start begins watching. Non-blocking; the watch loop runs in a goroutine.
func (mw *ManifestWatcher) Start(ctx context.Context) error {
	mw.mu.Lock()
	if mw.running {
		mw.mu.Unlock()
		return nil
	}
	mw.running = true
	mw.stopCh = make(chan struct{})
	mw.doneCh = make(chan struct{})
	mw.mu.Unlock()

	if err := mw.watcher.Add(mw.path); err != nil {
		mw.logger.Warn("manifest watch failed (file may not exist yet)",
			zap.String("path", mw.path), zap.Error(err))
	}

	go mw.run(ctx)
	return nil
}

// Stop stops the watcher and waits for the loop to exit.
func (mw *ManifestWatcher) Stop() {
	mw.mu.Lock()
	if !mw.running {
		mw.mu.Unlock()
		return
	}
	mw.running = false
	stopCh, doneCh := mw.stopCh, mw.doneCh
	mw.mu.Unlock()

	close(stopCh)
	<-doneCh
	_ = mw.watcher.Close()
}

func (mw *ManifestWatcher) run(ctx context.Context) {
	mw.mu.Lock()
	stopCh, doneCh := mw.stopCh, mw.doneCh
	mw.mu.Unlock()
	defer close(doneCh)

	var pending bool
	debounce := time.NewTimer(mw.debounceDur)
	if !debounce.Stop() {
		<-debounce.C
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-stopCh:
			return
		case event, ok := <-mw.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if !pending {
				pending = true
				debounce.Reset(mw.debounceDur)
			}
		case err, ok := <-mw.watcher.Errors:
			if !ok {
				return
			}
			mw.logger.Warn("manifest watcher error", zap.Error(err))
		case <-debounce.C:
			pending = false
			mw.reload(ctx)
		}
	}
}

func (mw *ManifestWatcher) reload(ctx context.Context) {
	assets, err := LoadManifest(mw.path)
	if err != nil {
		mw.logger.Warn("failed to reload manifest", zap.String("path", mw.path), zap.Error(err))
		return
	}
	mw.logger.Info("manifest changed, reinstalling shell cache", zap.Int("assets", len(assets)))
	mw.gateway.opts.ShellAssets = assets
	_ = mw.gateway.Install(ctx)
}

// LoadManifest parses a manifest file into a list of asset paths.
func LoadManifest(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var assets []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		assets = append(assets, line)
	}
	return assets, nil
}
