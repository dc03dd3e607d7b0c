// Package server provides security utilities for HTTP servers.
package server

import (
	"html"
	"net/http"
	"strings"
)

// CSPConfig holds Content-Security-Policy configuration.
type CSPConfig struct {
	// DefaultSrc specifies default source for all directives
	DefaultSrc []string
	// ScriptSrc specifies valid sources for JavaScript
	ScriptSrc []string
	// StyleSrc specifies valid sources for CSS
	StyleSrc []string
	// ImgSrc specifies valid sources for images
	ImgSrc []string
	// ConnectSrc specifies valid sources for fetch, XMLHttpRequest, WebSocket
	ConnectSrc []string
	// FrameAncestors specifies valid parents that may embed the page
	FrameAncestors []string
	// BaseURI restricts URLs that can be used in <base> element
	BaseURI []string
	// UpgradeInsecureRequests forces HTTPS
	UpgradeInsecureRequests bool
}

// WebUICSPConfig returns the CSP configuration for the reading UI.
// ConnectSrc includes ws: and wss: because the page holds a WebSocket
// open for cache-activation notifications.
func WebUICSPConfig() CSPConfig {
	return CSPConfig{
		DefaultSrc:     []string{"'self'"},
		ScriptSrc:      []string{"'self'"},
		StyleSrc:       []string{"'self'"},
		ImgSrc:         []string{"'self'", "data:"},
		ConnectSrc:     []string{"'self'", "ws:", "wss:"},
		FrameAncestors: []string{"'none'"},
		BaseURI:        []string{"'self'"},
	}
}

// APICSPConfig returns a strict CSP configuration for the JSON API.
func APICSPConfig() CSPConfig {
	return CSPConfig{
		DefaultSrc:     []string{"'none'"},
		FrameAncestors: []string{"'none'"},
		BaseURI:        []string{"'none'"},
	}
}

// BuildCSPHeader builds a Content-Security-Policy header value from config.
func (cfg CSPConfig) BuildCSPHeader() string {
	var directives []string

	if len(cfg.DefaultSrc) > 0 {
		directives = append(directives, "default-src "+strings.Join(cfg.DefaultSrc, " "))
	}
	if len(cfg.ScriptSrc) > 0 {
		directives = append(directives, "script-src "+strings.Join(cfg.ScriptSrc, " "))
	}
	if len(cfg.StyleSrc) > 0 {
		directives = append(directives, "style-src "+strings.Join(cfg.StyleSrc, " "))
	}
	if len(cfg.ImgSrc) > 0 {
		directives = append(directives, "img-src "+strings.Join(cfg.ImgSrc, " "))
	}
	if len(cfg.ConnectSrc) > 0 {
		directives = append(directives, "connect-src "+strings.Join(cfg.ConnectSrc, " "))
	}
	if len(cfg.FrameAncestors) > 0 {
		directives = append(directives, "frame-ancestors "+strings.Join(cfg.FrameAncestors, " "))
	}
	if len(cfg.BaseURI) > 0 {
		directives = append(directives, "base-uri "+strings.Join(cfg.BaseURI, " "))
	}
	if cfg.UpgradeInsecureRequests {
		directives = append(directives, "upgrade-insecure-requests")
	}

	return strings.Join(directives, "; ")
}

// CSPMiddleware adds Content-Security-Policy headers with custom configuration.
func CSPMiddleware(cfg CSPConfig, next http.Handler) http.Handler {
	cspHeader := cfg.BuildCSPHeader()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if cspHeader != "" {
			w.Header().Set("Content-Security-Policy", cspHeader)
		}
		next.ServeHTTP(w, r)
	})
}

// SanitizeUserInput performs general sanitization on user input.
// It trims whitespace and removes control characters.
func SanitizeUserInput(input string) string {
	input = strings.TrimSpace(input)
	input = strings.ReplaceAll(input, "\x00", "")

	var result strings.Builder
	for _, r := range input {
		// Allow printable characters, newline, and tab
		if r >= 0x20 || r == '\n' || r == '\t' {
			result.WriteRune(r)
		}
	}

	return result.String()
}

// LimitStringLength truncates a string to a maximum length.
func LimitStringLength(input string, maxLength int) string {
	if len(input) <= maxLength {
		return input
	}
	return input[:maxLength]
}

// SanitizeQueryParam sanitizes a query parameter value for safe HTML output.
func SanitizeQueryParam(input string) string {
	return html.EscapeString(SanitizeUserInput(input))
}
