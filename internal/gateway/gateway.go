// Package gateway implements the offline cache layer: a versioned cache
// lifecycle (install, activate) behind an http.RoundTripper that applies
// per-request policy. Data-file requests are served network-first with an
// asynchronous cache write; everything else on the configured origin is
// served cache-first with the cached root document as the final fallback.
// Cross-origin requests pass through untouched.
package gateway

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"sync"

	dwerrors "github.com/dailywalk/dailywalk/core/errors"
	"github.com/dailywalk/dailywalk/internal/logging"
)

// State is the cache lifecycle phase.
type State int

const (
	// StateInstalling means the current version's bucket is being populated.
	StateInstalling State = iota
	// StateInstalled means every manifest URL is cached for the current version.
	StateInstalled
	// StateActivating means stale version buckets are being deleted.
	StateActivating
	// StateActive means the current version governs all requests.
	StateActive
)

func (s State) String() string {
	switch s {
	case StateInstalling:
		return "installing"
	case StateInstalled:
		return "installed"
	case StateActivating:
		return "activating"
	case StateActive:
		return "active"
	default:
		return "unknown"
	}
}

// Notifier receives lifecycle callbacks. The web layer's websocket hub
// implements this to push activation to open sessions immediately.
type Notifier interface {
	VersionActivated(version string)
}

// Config configures a Gateway.
type Config struct {
	// Version names the cache bucket for this deployment of the app.
	Version string
	// Origin is the scheme://host whose requests the gateway governs.
	Origin string
	// Manifest lists root-relative URLs prefetched at install time,
	// including the app shell and the primary data file.
	Manifest []string
	// DataSuffix identifies data-file requests by filename suffix.
	// Defaults to ".xml".
	DataSuffix string
	// RootPath is the cached document served as the single-page fallback.
	// Defaults to "/".
	RootPath string
	// Transport performs network fetches. Defaults to http.DefaultTransport.
	Transport http.RoundTripper
	// Store holds the version-named cache buckets.
	Store Store
	// Notifier, if set, is told when a version activates.
	Notifier Notifier
}

// Gateway routes requests between the network and a versioned cache store.
// It implements http.RoundTripper.
type Gateway struct {
	version    string
	origin     *url.URL
	manifest   []string
	dataSuffix string
	rootPath   string
	transport  http.RoundTripper
	store      Store
	notifier   Notifier

	mu     sync.Mutex
	state  State
	bucket Bucket

	writes sync.WaitGroup
}

// New validates cfg and returns a gateway in the INSTALLING state.
func New(cfg Config) (*Gateway, error) {
	if cfg.Version == "" {
		return nil, dwerrors.NewValidation("version", "cache version must not be empty")
	}
	if cfg.Store == nil {
		return nil, dwerrors.NewValidation("store", "cache store must not be nil")
	}
	origin, err := url.Parse(cfg.Origin)
	if err != nil || origin.Scheme == "" || origin.Host == "" {
		return nil, dwerrors.NewValidation("origin", "origin must be an absolute URL")
	}
	g := &Gateway{
		version:    cfg.Version,
		origin:     origin,
		manifest:   cfg.Manifest,
		dataSuffix: cfg.DataSuffix,
		rootPath:   cfg.RootPath,
		transport:  cfg.Transport,
		store:      cfg.Store,
		notifier:   cfg.Notifier,
		state:      StateInstalling,
	}
	if g.dataSuffix == "" {
		g.dataSuffix = ".xml"
	}
	if g.rootPath == "" {
		g.rootPath = "/"
	}
	if g.transport == nil {
		g.transport = http.DefaultTransport
	}
	return g, nil
}

// Version returns the gateway's cache version.
func (g *Gateway) Version() string {
	return g.version
}

// State returns the current lifecycle state.
func (g *Gateway) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

func (g *Gateway) setState(s State) {
	g.mu.Lock()
	g.state = s
	g.mu.Unlock()
}

// currentBucket opens the current version's bucket once and caches it.
func (g *Gateway) currentBucket() (Bucket, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.bucket == nil {
		b, err := g.store.Open(g.version)
		if err != nil {
			return nil, err
		}
		g.bucket = b
	}
	return g.bucket, nil
}

// Install prefetches every manifest URL into the current version's bucket.
// Any fetch failure, including a non-2xx status, aborts the installation and
// leaves the state at INSTALLING.
func (g *Gateway) Install(ctx context.Context) error {
	g.setState(StateInstalling)
	bucket, err := g.currentBucket()
	if err != nil {
		return err
	}
	for _, path := range g.manifest {
		if err := g.installOne(ctx, bucket, path); err != nil {
			logging.GatewayEvent("install_failed", g.version, "url", path, "error", err.Error())
			return dwerrors.Wrapf(err, "install %s", path)
		}
	}
	g.setState(StateInstalled)
	logging.GatewayEvent("installed", g.version, "urls", len(g.manifest))
	return nil
}

func (g *Gateway) installOne(ctx context.Context, bucket Bucket, path string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.origin.JoinPath(path).String(), nil)
	if err != nil {
		return err
	}
	resp, err := g.transport.RoundTrip(req)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return dwerrors.Wrapf(dwerrors.ErrInternal, "unexpected status %d", resp.StatusCode)
	}
	entry, err := snapshotEntry(requestKeyFromPath(path), resp)
	if err != nil {
		return err
	}
	return bucket.Put(entry)
}

// Activate deletes every store whose name differs from the current version,
// notifies subscribed clients, and moves to ACTIVE. Deletion of a stale
// bucket is best-effort: a failure is logged and the remaining buckets are
// still processed.
func (g *Gateway) Activate(ctx context.Context) error {
	g.setState(StateActivating)
	versions, err := g.store.List()
	if err != nil {
		return dwerrors.Wrap(err, "list cache versions")
	}
	deleted := 0
	for _, v := range versions {
		if v == g.version {
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := g.store.Delete(v); err != nil {
			logging.GatewayEvent("delete_failed", v, "error", err.Error())
			continue
		}
		deleted++
	}
	g.setState(StateActive)
	logging.GatewayEvent("activated", g.version, "deleted_versions", deleted)
	if g.notifier != nil {
		g.notifier.VersionActivated(g.version)
	}
	return nil
}

// Client returns an http.Client whose requests go through the gateway.
func (g *Gateway) Client() *http.Client {
	return &http.Client{Transport: g}
}

// RoundTrip applies the per-request cache policy. Only requests to the
// configured origin are governed; anything else goes straight to the network.
func (g *Gateway) RoundTrip(req *http.Request) (*http.Response, error) {
	if !g.sameOrigin(req.URL) {
		return g.transport.RoundTrip(req)
	}
	bucket, err := g.currentBucket()
	if err != nil {
		return nil, err
	}
	key := requestKey(req.URL)
	if strings.HasSuffix(req.URL.Path, g.dataSuffix) {
		return g.networkFirst(req, bucket, key)
	}
	return g.cacheFirst(req, bucket, key)
}

// networkFirst fetches fresh content, persists it asynchronously, and falls
// back to the cached copy when the network fails.
func (g *Gateway) networkFirst(req *http.Request, bucket Bucket, key string) (*http.Response, error) {
	resp, netErr := g.transport.RoundTrip(req)
	if netErr == nil {
		entry, err := snapshotEntry(key, resp)
		if err != nil {
			return nil, err
		}
		g.persist(bucket, entry)
		logging.CacheEvent("network_hit", key, "policy", "network_first")
		return entry.Response(req), nil
	}
	entry, err := bucket.Get(key)
	if err != nil {
		logging.CacheEvent("total_miss", key, "policy", "network_first")
		return nil, dwerrors.Wrapf(netErr, "fetch %s with no cached copy", key)
	}
	logging.CacheEvent("cache_fallback", key, "policy", "network_first")
	return entry.Response(req), nil
}

// cacheFirst serves from cache, then network, then the cached root document.
func (g *Gateway) cacheFirst(req *http.Request, bucket Bucket, key string) (*http.Response, error) {
	if entry, err := bucket.Get(key); err == nil {
		logging.CacheEvent("cache_hit", key, "policy", "cache_first")
		return entry.Response(req), nil
	}
	resp, netErr := g.transport.RoundTrip(req)
	if netErr == nil {
		entry, err := snapshotEntry(key, resp)
		if err != nil {
			return nil, err
		}
		g.persist(bucket, entry)
		logging.CacheEvent("network_hit", key, "policy", "cache_first")
		return entry.Response(req), nil
	}
	if entry, err := bucket.Get(g.rootPath); err == nil {
		logging.CacheEvent("root_fallback", key, "policy", "cache_first")
		return entry.Response(req), nil
	}
	logging.CacheEvent("total_miss", key, "policy", "cache_first")
	return nil, dwerrors.Wrapf(netErr, "fetch %s with no cached copy", key)
}

// persist writes the entry in the background. The response has already been
// returned to the caller, so durability here is eventual.
func (g *Gateway) persist(bucket Bucket, entry Entry) {
	g.writes.Add(1)
	go func() {
		defer g.writes.Done()
		if err := bucket.Put(entry); err != nil {
			logging.Warn("cache_write_failed", "key", entry.Key, "error", err.Error())
		}
	}()
}

// Flush blocks until all pending asynchronous cache writes have finished.
func (g *Gateway) Flush() {
	g.writes.Wait()
}

func (g *Gateway) sameOrigin(u *url.URL) bool {
	return u.Scheme == g.origin.Scheme && u.Host == g.origin.Host
}

// requestKey is the request identity inside a bucket: path plus raw query.
func requestKey(u *url.URL) string {
	if u.RawQuery != "" {
		return u.Path + "?" + u.RawQuery
	}
	return u.Path
}

// requestKeyFromPath normalizes a manifest path to its request key.
func requestKeyFromPath(path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return path
}
