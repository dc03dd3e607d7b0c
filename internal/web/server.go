// Package web provides the DailyWalk reading server: the app shell, the
// citation API, and the websocket channel that pushes offline-cache
// activation to open sessions.
package web

import (
	"context"
	"embed"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"path"
	"sync"

	dwerrors "github.com/dailywalk/dailywalk/core/errors"
	"github.com/dailywalk/dailywalk/core/scripture"
	"github.com/dailywalk/dailywalk/internal/gateway"
	"github.com/dailywalk/dailywalk/internal/logging"
	"github.com/dailywalk/dailywalk/internal/server"
)

//go:embed static/*
var staticFS embed.FS

// Config holds server configuration.
type Config struct {
	Port     int
	DataFile string   // local scripture document path (xml/json/sqlite, .xz accepted)
	Upstream string   // origin to fetch the document from; empty = local file only
	DataPath string   // upstream path of the data file, default /bible.xml
	CacheDir string   // offline store directory; empty = in-memory store
	Version  string   // offline cache version, default v1
	Origins  []string // allowed CORS origins, empty = allow all
}

// Server owns the loaded document and, when an upstream is configured, the
// offline gateway used to fetch and refresh it.
type Server struct {
	cfg Config
	hub *Hub
	gw  *gateway.Gateway

	mu          sync.RWMutex
	doc         scripture.Document
	fingerprint string
	source      string
	appliedSeq  uint64
	nextSeq     uint64
}

// NewServer builds a server from cfg. With an upstream configured the
// document is installed through the offline gateway; otherwise it is loaded
// from the local data file. A server with neither serves placeholders until
// a reload succeeds.
func NewServer(cfg Config) (*Server, error) {
	if cfg.DataPath == "" {
		cfg.DataPath = "/bible.xml"
	}
	if cfg.Version == "" {
		cfg.Version = "v1"
	}

	s := &Server{cfg: cfg, hub: NewHub()}

	if cfg.Upstream != "" {
		var store gateway.Store
		if cfg.CacheDir != "" {
			fsStore, err := gateway.NewFSStore(cfg.CacheDir)
			if err != nil {
				return nil, err
			}
			store = fsStore
		} else {
			store = gateway.NewMemStore()
		}
		gw, err := gateway.New(gateway.Config{
			Version:    cfg.Version,
			Origin:     cfg.Upstream,
			Manifest:   []string{"/", cfg.DataPath},
			DataSuffix: path.Ext(cfg.DataPath),
			Store:      store,
			Notifier:   s.hub,
		})
		if err != nil {
			return nil, err
		}
		s.gw = gw
	}

	return s, nil
}

// Hub returns the websocket hub, which also serves as the gateway's
// activation notifier.
func (s *Server) Hub() *Hub {
	return s.hub
}

// Gateway returns the offline gateway, or nil when no upstream is configured.
func (s *Server) Gateway() *gateway.Gateway {
	return s.gw
}

// Document returns the currently loaded document, which may be nil.
func (s *Server) Document() scripture.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.doc
}

// Fingerprint returns the content fingerprint of the loaded document.
func (s *Server) Fingerprint() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fingerprint
}

// LoadLocal loads the document from the configured local data file.
func (s *Server) LoadLocal() error {
	if s.cfg.DataFile == "" {
		return dwerrors.NewValidation("data", "no data file configured")
	}
	doc, fp, err := scripture.Load(s.cfg.DataFile)
	if err != nil {
		return err
	}
	s.apply(s.nextToken(), doc, fp, s.cfg.DataFile)
	return nil
}

// ReloadDocument fetches the data file through the gateway (network-first
// with offline fallback) and swaps it in. Overlapping reloads resolve
// latest-request-wins: a slow earlier fetch cannot overwrite the result of a
// later one.
func (s *Server) ReloadDocument(ctx context.Context) error {
	if s.gw == nil {
		return s.LoadLocal()
	}
	token := s.nextToken()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.cfg.Upstream+s.cfg.DataPath, nil)
	if err != nil {
		return err
	}
	resp, err := s.gw.RoundTrip(req)
	if err != nil {
		return dwerrors.Wrap(err, "fetch document")
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return dwerrors.Wrapf(dwerrors.ErrInternal, "fetch document: status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return dwerrors.NewIO("read", s.cfg.DataPath, err)
	}
	doc, fp, err := scripture.FromBytes(path.Base(s.cfg.DataPath), data)
	if err != nil {
		return err
	}
	if !s.apply(token, doc, fp, s.cfg.Upstream+s.cfg.DataPath) {
		logging.Debug("reload superseded", "token", token)
	}
	return nil
}

// nextToken issues a monotonically increasing load token.
func (s *Server) nextToken() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSeq++
	return s.nextSeq
}

// apply installs the document if no later load already finished.
func (s *Server) apply(token uint64, doc scripture.Document, fp, source string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if token < s.appliedSeq {
		return false
	}
	s.appliedSeq = token
	s.doc = doc
	s.fingerprint = fp
	s.source = source
	logging.DataLoaded(source, fp)
	return true
}

// Install pre-populates the offline store and activates the current version.
func (s *Server) Install(ctx context.Context) error {
	if s.gw == nil {
		return dwerrors.NewValidation("upstream", "no upstream configured")
	}
	if err := s.gw.Install(ctx); err != nil {
		return err
	}
	return s.gw.Activate(ctx)
}

// Handler builds the full HTTP handler with the middleware chain applied.
func (s *Server) Handler() http.Handler {
	mux := s.setupRoutes()
	cors := server.CORSConfig{AllowedOrigins: s.cfg.Origins}
	return logging.CombinedMiddleware(
		server.TimingMiddleware(
			server.SecurityHeadersMiddleware(
				server.CORSMiddleware(cors, mux))))
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/static/", s.handleStatic)
	mux.HandleFunc("/manifest.webmanifest", s.handleManifest)

	mux.HandleFunc("/api/render", s.handleRender)
	mux.HandleFunc("/api/parse", s.handleParse)
	mux.HandleFunc("/api/data/version", s.handleDataVersion)
	mux.HandleFunc("/api/reload", s.handleReload)

	mux.HandleFunc("/ws", s.hub.handleWS)

	return mux
}

// Start runs the configured server until the listener fails.
func Start(cfg Config) error {
	s, err := NewServer(cfg)
	if err != nil {
		return err
	}

	ctx := context.Background()
	if s.gw != nil {
		if err := s.Install(ctx); err != nil {
			logging.Warn("offline install failed, continuing with cached or local data",
				"error", err.Error())
		}
		if err := s.ReloadDocument(ctx); err != nil {
			logging.Warn("document fetch failed", "error", err.Error())
		}
	}
	if s.Document() == nil && cfg.DataFile != "" {
		if err := s.LoadLocal(); err != nil {
			logging.Warn("local document load failed", "error", err.Error())
		}
	}

	logging.ServerStartup("reading_server", "http", cfg.Port,
		"data_file", cfg.DataFile,
		"upstream", cfg.Upstream,
		"cache_version", cfg.Version)

	return http.ListenAndServe(fmt.Sprintf(":%d", cfg.Port), s.Handler())
}

// staticRoot exposes the embedded static directory.
func staticRoot() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}
