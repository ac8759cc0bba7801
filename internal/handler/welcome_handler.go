package handler

import (
	"bytes"
	"log/slog"
	"net/http"

	"github.com/mtlprog/welcome/internal/metrics"
	"github.com/mtlprog/welcome/internal/middleware"
)

// handleWelcome renders the welcome page.
func (h *Handler) handleWelcome(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	settings := h.settings.Resolve(ctx)

	var buf bytes.Buffer
	if err := h.renderer.Render(&buf, settings); err != nil {
		metrics.PageRendersTotal.WithLabelValues(metrics.RenderError).Inc()
		slog.ErrorContext(ctx, "failed to render welcome page",
			"error", err,
			"request_id", middleware.GetRequestID(ctx),
		)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	metrics.PageRendersTotal.WithLabelValues(metrics.RenderOK).Inc()

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		slog.DebugContext(ctx, "failed to write welcome page", "error", err)
	}
}
