package web

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/dailywalk/dailywalk/core/scripture"
)

func testDocument() *scripture.MemDocument {
	doc := scripture.NewMemDocument()
	doc.SetVerses(1, 1, []scripture.Verse{
		{Number: 1, Text: "起初神创造天地。"},
	})
	doc.SetVerses(1, 2, []scripture.Verse{
		{Number: 1, Text: "天地万物都造齐了。"},
	})
	return doc
}

// newTestServer builds a server with a preloaded in-memory document.
func newTestServer(t *testing.T) *Server {
	t.Helper()
	s, err := NewServer(Config{})
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	s.apply(s.nextToken(), testDocument(), "fp-test", "mem")
	return s
}

func get(t *testing.T, h http.Handler, path string) (*httptest.ResponseRecorder, string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	body, err := io.ReadAll(w.Result().Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return w, string(body)
}

func TestHandleIndex(t *testing.T) {
	s := newTestServer(t)
	mux := s.setupRoutes()

	w, body := get(t, mux, "/")
	if w.Code != http.StatusOK {
		t.Errorf("status = %d", w.Code)
	}
	if !strings.Contains(body, "每日灵修") {
		t.Errorf("app shell missing title, got %q", body)
	}
	if !strings.Contains(w.Header().Get("Content-Type"), "text/html") {
		t.Errorf("Content-Type = %q", w.Header().Get("Content-Type"))
	}

	// Non-root paths are not swallowed by the shell handler.
	w, _ = get(t, mux, "/no-such-page")
	if w.Code != http.StatusNotFound {
		t.Errorf("unknown path status = %d, want 404", w.Code)
	}
}

func TestHandleStatic(t *testing.T) {
	s := newTestServer(t)
	mux := s.setupRoutes()

	w, body := get(t, mux, "/static/app.css")
	if w.Code != http.StatusOK {
		t.Errorf("status = %d", w.Code)
	}
	if !strings.Contains(body, "--accent") {
		t.Error("stylesheet not served")
	}
}

func TestHandleManifest(t *testing.T) {
	s := newTestServer(t)
	mux := s.setupRoutes()

	w, body := get(t, mux, "/manifest.webmanifest")
	if w.Code != http.StatusOK {
		t.Errorf("status = %d", w.Code)
	}
	if w.Header().Get("Content-Type") != "application/manifest+json" {
		t.Errorf("Content-Type = %q", w.Header().Get("Content-Type"))
	}
	var manifest map[string]any
	if err := json.Unmarshal([]byte(body), &manifest); err != nil {
		t.Fatalf("manifest is not valid JSON: %v", err)
	}
	if manifest["start_url"] != "/" {
		t.Errorf("start_url = %v", manifest["start_url"])
	}
}

func TestHandleRender(t *testing.T) {
	s := newTestServer(t)
	mux := s.setupRoutes()

	w, body := get(t, mux, "/api/render?q="+url.QueryEscape("创一至二章"))
	if w.Code != http.StatusOK {
		t.Errorf("status = %d", w.Code)
	}
	if !strings.Contains(body, "创世记 第1章") || !strings.Contains(body, "创世记 第2章") {
		t.Errorf("missing chapter headings in %q", body)
	}
	if !strings.Contains(body, "起初神创造天地。") {
		t.Errorf("missing verse text in %q", body)
	}
}

func TestHandleRenderUnparseable(t *testing.T) {
	s := newTestServer(t)
	mux := s.setupRoutes()

	// Bad citations are placeholders, not HTTP errors.
	w, body := get(t, mux, "/api/render?q=xyz")
	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
	if !strings.Contains(body, "无法识别的经文引用") {
		t.Errorf("want placeholder, got %q", body)
	}
}

func TestHandleRenderNoDocument(t *testing.T) {
	s, err := NewServer(Config{})
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	mux := s.setupRoutes()

	w, body := get(t, mux, "/api/render?q="+url.QueryEscape("创一章"))
	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
	if !strings.Contains(body, "经文数据尚未加载") {
		t.Errorf("want data-unavailable placeholder, got %q", body)
	}
}

func TestHandleParse(t *testing.T) {
	s := newTestServer(t)
	mux := s.setupRoutes()

	w, body := get(t, mux, "/api/parse?q="+url.QueryEscape("创一至二章"))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var got struct {
		BookID       int    `json:"book_id"`
		BookName     string `json:"book_name"`
		StartChapter int    `json:"start_chapter"`
		EndChapter   int    `json:"end_chapter"`
	}
	if err := json.Unmarshal([]byte(body), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.BookID != 1 || got.BookName != "创" || got.StartChapter != 1 || got.EndChapter != 2 {
		t.Errorf("parse result = %+v", got)
	}
}

func TestHandleParseUnprocessable(t *testing.T) {
	s := newTestServer(t)
	mux := s.setupRoutes()

	w, body := get(t, mux, "/api/parse?q=xyz")
	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422", w.Code)
	}
	if !strings.Contains(body, "unparseable citation") {
		t.Errorf("body = %q", body)
	}
}

func TestHandleDataVersion(t *testing.T) {
	s := newTestServer(t)
	mux := s.setupRoutes()

	w, body := get(t, mux, "/api/data/version")
	if w.Code != http.StatusOK {
		t.Errorf("status = %d", w.Code)
	}
	var got map[string]string
	if err := json.Unmarshal([]byte(body), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got["fingerprint"] != "fp-test" {
		t.Errorf("fingerprint = %q", got["fingerprint"])
	}
}

func TestHandleDataVersionUnavailable(t *testing.T) {
	s, err := NewServer(Config{})
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	mux := s.setupRoutes()

	w, _ := get(t, mux, "/api/data/version")
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", w.Code)
	}
}

func TestHandleReloadMethodNotAllowed(t *testing.T) {
	s := newTestServer(t)
	mux := s.setupRoutes()

	w, _ := get(t, mux, "/api/reload")
	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", w.Code)
	}
}

func TestHandlerMiddlewareChain(t *testing.T) {
	s := newTestServer(t)
	h := s.Handler()

	w, _ := get(t, h, "/api/parse?q="+url.QueryEscape("诗102"))
	if w.Code != http.StatusOK {
		t.Errorf("status = %d", w.Code)
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Error("expected request ID header from middleware chain")
	}
	if w.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Error("expected security headers from middleware chain")
	}
}

func TestApplyLatestWins(t *testing.T) {
	s, err := NewServer(Config{})
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}

	early := s.nextToken()
	late := s.nextToken()

	// The later load finishes first.
	if !s.apply(late, testDocument(), "fp-late", "late") {
		t.Fatal("late load should apply")
	}
	// The earlier load finishing afterwards must not overwrite it.
	if s.apply(early, testDocument(), "fp-early", "early") {
		t.Error("stale load should not apply")
	}
	if s.Fingerprint() != "fp-late" {
		t.Errorf("fingerprint = %q, want fp-late", s.Fingerprint())
	}
}

func TestCitationParamSanitized(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/parse?q="+url.QueryEscape("  创一章\x00  "), nil)
	if got := citationParam(req); got != "创一章" {
		t.Errorf("citationParam = %q", got)
	}

	long := strings.Repeat("创", 100)
	req = httptest.NewRequest(http.MethodGet, "/api/parse?q="+url.QueryEscape(long), nil)
	if got := citationParam(req); len(got) > maxCitationLength {
		t.Errorf("citation not truncated, len = %d", len(got))
	}
}
