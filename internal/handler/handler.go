package handler

import (
	"context"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mtlprog/welcome/internal/config"
	"github.com/mtlprog/welcome/internal/domain"
)

// Renderer writes the welcome page for the given settings.
type Renderer interface {
	Render(w io.Writer, s domain.Settings) error
}

// SettingsResolver returns the effective settings for a request.
type SettingsResolver interface {
	Resolve(ctx context.Context) domain.Settings
}

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler holds dependencies for HTTP handlers.
type Handler struct {
	renderer Renderer
	settings SettingsResolver
	build    fs.FS
	db       Pinger
}

// New creates a new Handler. build holds the front-end assets served under
// /build/; db may be nil when no database is configured.
func New(renderer Renderer, settings SettingsResolver, build fs.FS, db Pinger) *Handler {
	return &Handler{
		renderer: renderer,
		settings: settings,
		build:    build,
		db:       db,
	}
}

// RegisterRoutes registers all HTTP routes.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	// Welcome page
	mux.HandleFunc("GET /{$}", h.handleWelcome)

	// Built front-end assets
	mux.Handle("GET "+config.AssetsBaseURL, http.StripPrefix(config.AssetsBaseURL, filesOnly(cacheForever(http.FileServerFS(h.build)))))

	// Health check
	mux.HandleFunc("GET /healthz", h.handleHealthz)

	// Prometheus metrics
	mux.Handle("GET /metrics", promhttp.Handler())
}

// handleHealthz returns 200 OK if the database, when configured, is reachable.
func (h *Handler) handleHealthz(w http.ResponseWriter, r *http.Request) {
	if h.db != nil {
		if err := h.db.Ping(r.Context()); err != nil {
			slog.ErrorContext(r.Context(), "database health check failed", "error", err)
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, "ok\n")
}

// filesOnly answers 404 for directory paths so no listing is served.
func filesOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "" || strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// cacheForever marks content-hashed assets as immutable.
func cacheForever(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
		next.ServeHTTP(w, r)
	})
}
