package web

import (
	"encoding/json"
	"net/http"

	"github.com/dailywalk/dailywalk/core/reference"
	"github.com/dailywalk/dailywalk/core/render"
	"github.com/dailywalk/dailywalk/internal/logging"
	"github.com/dailywalk/dailywalk/internal/server"
)

// maxCitationLength bounds the q parameter; real citations are a handful of
// characters.
const maxCitationLength = 64

// writeJSON encodes v as the response body.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Error("encode response", "error", err.Error())
	}
}

// citationParam extracts and sanitizes the q query parameter.
func citationParam(r *http.Request) string {
	q := server.SanitizeUserInput(r.URL.Query().Get("q"))
	return server.LimitStringLength(q, maxCitationLength)
}

// handleIndex serves the app shell at the root path only.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	data, err := staticFS.ReadFile("static/index.html")
	if err != nil {
		http.Error(w, "app shell unavailable", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(data)
}

// handleStatic serves the embedded static assets.
func (s *Server) handleStatic(w http.ResponseWriter, r *http.Request) {
	http.StripPrefix("/static/", http.FileServer(http.FS(staticRoot()))).ServeHTTP(w, r)
}

// handleManifest serves the PWA manifest with its proper media type.
func (s *Server) handleManifest(w http.ResponseWriter, r *http.Request) {
	data, err := staticFS.ReadFile("static/manifest.webmanifest")
	if err != nil {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "application/manifest+json")
	w.Write(data)
}

// handleRender renders a citation against the loaded document. All failure
// modes come back as placeholder text with status 200; the endpoint itself
// never errors on bad citations.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	citation := citationParam(r)
	out := render.Render(citation, s.Document())
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte(out))
}

// handleParse parses a citation and returns the structured reference, or 422
// when the citation does not parse.
func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	citation := citationParam(r)
	ref := reference.Parse(citation)
	if ref == nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{
			"error":    "unparseable citation",
			"citation": citation,
		})
		return
	}
	writeJSON(w, http.StatusOK, ref)
}

// handleDataVersion reports the fingerprint of the loaded document.
func (s *Server) handleDataVersion(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	fp, source := s.fingerprint, s.source
	s.mu.RUnlock()
	if fp == "" {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"error": "no document loaded",
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"fingerprint": fp,
		"source":      source,
	})
}

// handleReload refreshes the document through the gateway (or from the local
// file when no upstream is configured).
func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := s.ReloadDocument(r.Context()); err != nil {
		writeJSON(w, http.StatusBadGateway, map[string]string{
			"error": err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"fingerprint": s.Fingerprint(),
	})
}
