package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestAbsPath(t *testing.T) {
	got := AbsPath("relative/path")
	if got == "relative/path" {
		t.Error("Expected absolute path for relative input")
	}
	if AbsPath("/already/abs") != "/already/abs" {
		t.Error("Expected absolute path to be unchanged")
	}
}

func TestCORSMiddlewareAllowAll(t *testing.T) {
	mw := CORSMiddleware(CORSConfig{}, okHandler())

	req := httptest.NewRequest("GET", "/api/render", nil)
	w := httptest.NewRecorder()
	mw.ServeHTTP(w, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Allow-Origin = %q, want *", got)
	}
	if w.Header().Get("Access-Control-Allow-Credentials") != "" {
		t.Error("Allow-Credentials should not be set with wildcard origin")
	}
}

func TestCORSMiddlewareAllowedOrigin(t *testing.T) {
	cfg := CORSConfig{AllowedOrigins: []string{"https://example.com"}}
	mw := CORSMiddleware(cfg, okHandler())

	req := httptest.NewRequest("GET", "/api/render", nil)
	req.Header.Set("Origin", "https://example.com")
	w := httptest.NewRecorder()
	mw.ServeHTTP(w, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://example.com" {
		t.Errorf("Allow-Origin = %q, want https://example.com", got)
	}
	if w.Header().Get("Access-Control-Allow-Credentials") != "true" {
		t.Error("Allow-Credentials should be set for a specific origin")
	}
}

func TestCORSMiddlewareDisallowedOrigin(t *testing.T) {
	cfg := CORSConfig{AllowedOrigins: []string{"https://example.com"}}
	mw := CORSMiddleware(cfg, okHandler())

	req := httptest.NewRequest("GET", "/api/render", nil)
	req.Header.Set("Origin", "https://evil.example")
	w := httptest.NewRecorder()
	mw.ServeHTTP(w, req)

	if w.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Error("CORS headers should not be set for a disallowed origin")
	}

	// Preflight from a disallowed origin is rejected outright.
	req = httptest.NewRequest("OPTIONS", "/api/render", nil)
	req.Header.Set("Origin", "https://evil.example")
	w = httptest.NewRecorder()
	mw.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Errorf("preflight status = %d, want %d", w.Code, http.StatusForbidden)
	}
}

func TestCORSMiddlewarePreflight(t *testing.T) {
	mw := CORSMiddleware(CORSConfig{}, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not run for preflight")
	}))

	req := httptest.NewRequest("OPTIONS", "/api/render", nil)
	w := httptest.NewRecorder()
	mw.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("preflight status = %d, want %d", w.Code, http.StatusOK)
	}
}

func TestSecurityHeadersMiddleware(t *testing.T) {
	mw := SecurityHeadersMiddleware(okHandler())

	req := httptest.NewRequest("GET", "/", nil)
	w := httptest.NewRecorder()
	mw.ServeHTTP(w, req)

	headers := map[string]string{
		"X-Content-Type-Options": "nosniff",
		"X-Frame-Options":        "DENY",
		"Referrer-Policy":        "strict-origin-when-cross-origin",
	}
	for name, want := range headers {
		if got := w.Header().Get(name); got != want {
			t.Errorf("%s = %q, want %q", name, got, want)
		}
	}
	if w.Header().Get("Content-Security-Policy") == "" {
		t.Error("Expected Content-Security-Policy header")
	}
}

func TestTimingMiddleware(t *testing.T) {
	mw := TimingMiddleware(okHandler())

	req := httptest.NewRequest("GET", "/api/render", nil)
	w := httptest.NewRecorder()
	mw.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}
}
