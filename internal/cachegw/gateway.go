package cachegw

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// offlineBody is the synthesized response served when the network request
// for an uncached asset fails.
const offlineBody = "Application is not connected to the internet."

// maxCachedBody caps how large a single response we are willing to cache.
const maxCachedBody = 16 << 20

// Options configures the cache gateway.
type Options struct {
	Root            string   // Directory holding the cache partitions
	AppName         string   // Prefix shared by all of this app's partitions
	ShellCacheName  string   // Versioned shell partition name
	ImagesCacheName string   // Versioned images partition name
	Upstream        string   // Origin to proxy to
	ShellAssets     []string // Paths precached at install time
	ImagePathPrefix string   // Requests under this path use the images partition
}

// Gateway intercepts requests, serving from the versioned cache partitions
// first and filling them from the network. Its lifecycle mirrors a service
// worker: Install precaches the shell, Activate evicts prior versions, then
// ServeHTTP handles fetches until a newer version supersedes it.
type Gateway struct {
	opts     Options
	upstream *url.URL
	shell    *Partition
	images   *Partition
	client   *http.Client
	logger   *zap.Logger
}

// New creates a Gateway with both partitions opened.
func New(opts Options, logger *zap.Logger) (*Gateway, error) {
	upstream, err := url.Parse(opts.Upstream)
	if err != nil || upstream.Host == "" {
		return nil, fmt.Errorf("invalid upstream %q", opts.Upstream)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.ImagePathPrefix == "" {
		opts.ImagePathPrefix = "/img/"
	}

	shell, err := OpenPartition(opts.Root, opts.ShellCacheName)
	if err != nil {
		return nil, err
	}
	images, err := OpenPartition(opts.Root, opts.ImagesCacheName)
	if err != nil {
		return nil, err
	}

	return &Gateway{
		opts:     opts,
		upstream: upstream,
		shell:    shell,
		images:   images,
		client:   &http.Client{Timeout: 30 * time.Second},
		logger:   logger,
	}, nil
}

// Install precaches the shell-asset manifest. Assets are fetched
// concurrently; a failed asset is logged and skipped, never fatal.
func (g *Gateway) Install(ctx context.Context) error {
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(4)

	for _, asset := range g.opts.ShellAssets {
		eg.Go(func() error {
			if err := g.precache(ctx, asset); err != nil {
				g.logger.Warn("failed to precache asset",
					zap.String("asset", asset),
					zap.Error(err))
			}
			return nil
		})
	}
	_ = eg.Wait()
	g.logger.Info("install complete",
		zap.String("cache", g.shell.Name()),
		zap.Int("entries", g.shell.Len()))
	return nil
}

func (g *Gateway) precache(ctx context.Context, asset string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.resolveUpstream(asset), nil)
	if err != nil {
		return err
	}
	resp, err := g.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("upstream returned %d", resp.StatusCode)
	}
	entry, err := entryFromResponse(asset, resp)
	if err != nil {
		return err
	}
	return g.partitionForPath(asset).Put(normalizeKey(asset), entry)
}

// Activate evicts this app's cache partitions from prior versions. Only
// partitions carrying the app-name prefix are considered, and the current
// shell and images partitions form the allow-list.
func (g *Gateway) Activate() error {
	names, err := ListPartitions(g.opts.Root)
	if err != nil {
		return err
	}

	allowed := map[string]bool{
		g.shell.Name():  true,
		g.images.Name(): true,
	}
	for _, name := range names {
		if !strings.HasPrefix(name, g.opts.AppName) || allowed[name] {
			continue
		}
		if err := RemovePartition(g.opts.Root, name); err != nil {
			g.logger.Warn("failed to evict stale cache", zap.String("cache", name), zap.Error(err))
			continue
		}
		g.logger.Info("evicted stale cache", zap.String("cache", name))
	}
	return nil
}

// ServeHTTP implements cache-first fetch handling.
func (g *Gateway) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	crossOrigin := r.URL.Host != "" && r.URL.Host != g.upstream.Host
	key := CacheKey(r)
	if crossOrigin {
		// Cross-origin entries keep scheme and host in the key; two
		// origins sharing a path must not share an entry.
		key = r.URL.String()
	}
	partition := g.partitionForPath(r.URL.Path)

	if entry, ok := partition.Get(key); ok {
		g.logger.Debug("cache hit",
			zap.String("key", key),
			zap.String("cache", partition.Name()))
		writeEntry(w, entry)
		return
	}

	entry, err := g.fetch(r, crossOrigin)
	if err != nil {
		g.logger.Info("network unavailable, synthesizing offline response",
			zap.String("key", key),
			zap.Error(err))
		http.Error(w, offlineBody, http.StatusNotFound)
		return
	}

	// Cross-origin responses are cached regardless of status: their
	// bodies are opaque to the page anyway, and tiles/fonts must survive
	// offline.
	if crossOrigin || (entry.Status >= 200 && entry.Status <= 299) {
		if err := partition.Put(key, entry); err != nil {
			g.logger.Warn("failed to store cache entry", zap.String("key", key), zap.Error(err))
		}
	}
	writeEntry(w, entry)
}

func (g *Gateway) fetch(r *http.Request, crossOrigin bool) (*Entry, error) {
	target := g.resolveUpstream(r.URL.RequestURI())
	if crossOrigin {
		target = r.URL.String()
	}
	req, err := http.NewRequestWithContext(r.Context(), r.Method, target, nil)
	if err != nil {
		return nil, err
	}
	req.Header = r.Header.Clone()
	req.Host = ""

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	return entryFromResponse(target, resp)
}

func (g *Gateway) resolveUpstream(pathAndQuery string) string {
	ref, err := url.Parse(pathAndQuery)
	if err != nil {
		return g.upstream.String() + pathAndQuery
	}
	return g.upstream.ResolveReference(ref).String()
}

func (g *Gateway) partitionForPath(path string) *Partition {
	if strings.HasPrefix(path, g.opts.ImagePathPrefix) {
		return g.images
	}
	return g.shell
}

// ShellEntries and ImageEntries expose partition sizes for status output.
func (g *Gateway) ShellEntries() int  { return g.shell.Len() }
func (g *Gateway) ImageEntries() int  { return g.images.Len() }
func (g *Gateway) ShellName() string  { return g.shell.Name() }
func (g *Gateway) ImagesName() string { return g.images.Name() }

// CacheKey derives the cache key for a same-origin request. Every
// restaurant detail page shares one cached shell, so restaurant.html
// requests collapse to a single key regardless of query string.
func CacheKey(r *http.Request) string {
	if strings.Contains(r.URL.Path, "restaurant.html") {
		return "/restaurant.html"
	}
	return normalizeKey(r.URL.RequestURI())
}

func normalizeKey(key string) string {
	if strings.Contains(key, "restaurant.html") {
		return "/restaurant.html"
	}
	return key
}

func entryFromResponse(target string, resp *http.Response) (*Entry, error) {
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxCachedBody))
	if err != nil {
		return nil, err
	}
	return &Entry{
		URL:    target,
		Status: resp.StatusCode,
		Header: resp.Header.Clone(),
		Body:   body,
	}, nil
}

func writeEntry(w http.ResponseWriter, entry *Entry) {
	for name, values := range entry.Header {
		for _, v := range values {
			w.Header().Add(name, v)
		}
	}
	w.WriteHeader(entry.Status)
	_, _ = w.Write(entry.Body)
}
