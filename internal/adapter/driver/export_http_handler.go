package driver

import (
	"bytes"
	"net/http"
	"strconv"

	"github.com/alorle/iptv-viewer/internal/application"
)

// ExportHTTPHandler serves the current playlist as an M3U document.
type ExportHTTPHandler struct {
	service *application.ExportService
}

// NewExportHTTPHandler creates a new HTTP handler for playlist export.
func NewExportHTTPHandler(service *application.ExportService) *ExportHTTPHandler {
	return &ExportHTTPHandler{service: service}
}

// ServeHTTP handles GET /playlist.m3u?favorites=1
func (h *ExportHTTPHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	onlyFavorites := false
	if raw := r.URL.Query().Get("favorites"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "favorites must be a boolean")
			return
		}
		onlyFavorites = parsed
	}

	var buf bytes.Buffer
	if err := h.service.WriteM3U(r.Context(), &buf, onlyFavorites); err != nil {
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	w.Header().Set("Content-Type", "audio/mpegurl")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}
