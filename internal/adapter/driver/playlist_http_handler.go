package driver

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/samber/lo"

	"github.com/alorle/iptv-viewer/internal/application"
	"github.com/alorle/iptv-viewer/internal/channel"
	"github.com/alorle/iptv-viewer/internal/port/driven"
)

// maxUploadBytes bounds playlists posted inline as text.
const maxUploadBytes = 32 << 20

// PlaylistHTTPHandler handles HTTP requests for loading playlists.
type PlaylistHTTPHandler struct {
	service *application.PlaylistService
	logger  *slog.Logger
}

// NewPlaylistHTTPHandler creates a new HTTP handler for playlists.
func NewPlaylistHTTPHandler(service *application.PlaylistService, logger *slog.Logger) *PlaylistHTTPHandler {
	return &PlaylistHTTPHandler{service: service, logger: logger}
}

// loadRequest represents the JSON body for loading a playlist.
// Exactly one source is used, checked in the order sample, url, path, text.
type loadRequest struct {
	URL    string `json:"url"`
	Path   string `json:"path"`
	Text   string `json:"text"`
	Name   string `json:"name"`
	Sample bool   `json:"sample"`
}

// playlistResponse represents the current playlist in JSON format.
type playlistResponse struct {
	Origin   string            `json:"origin"`
	Location string            `json:"location"`
	Count    int               `json:"count"`
	Dropped  int               `json:"dropped,omitempty"`
	Channels []channelResponse `json:"channels"`
}

// lastURLResponse represents the remembered playlist URL.
type lastURLResponse struct {
	URL string `json:"url"`
}

// ServeHTTP routes the request to the appropriate handler based on method and path.
func (h *PlaylistHTTPHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/playlist")

	switch {
	// POST /playlist - load a playlist
	case r.Method == http.MethodPost && path == "":
		h.handleLoad(w, r)
	// GET /playlist - current playlist
	case r.Method == http.MethodGet && path == "":
		h.handleCurrent(w, r)
	// GET /playlist/last-url - last successfully loaded URL
	case r.Method == http.MethodGet && path == "/last-url":
		h.handleLastURL(w, r)
	case path == "" || path == "/last-url":
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	default:
		writeError(w, http.StatusNotFound, "not found")
	}
}

// handleLoad handles POST /playlist
func (h *PlaylistHTTPHandler) handleLoad(w http.ResponseWriter, r *http.Request) {
	var req loadRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxUploadBytes)).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ctx := r.Context()
	var (
		result application.LoadResult
		err    error
	)
	switch {
	case req.Sample:
		result, err = h.service.LoadSample(ctx)
	case strings.TrimSpace(req.URL) != "":
		result, err = h.service.LoadFromURL(ctx, req.URL)
	case strings.TrimSpace(req.Path) != "":
		result, err = h.service.LoadFromFile(ctx, req.Path)
	case req.Text != "":
		result, err = h.service.LoadText(ctx, req.Text, lo.CoalesceOrEmpty(req.Name, "upload"))
	default:
		err = application.ErrNoSource
	}

	if err != nil {
		switch {
		case errors.Is(err, application.ErrNoSource), errors.Is(err, driven.ErrInvalidLocation):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, driven.ErrPlaylistNotFound):
			writeError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, driven.ErrPlaylistTooLarge):
			writeError(w, http.StatusRequestEntityTooLarge, err.Error())
		case errors.Is(err, application.ErrEmptyPlaylist):
			writeError(w, http.StatusUnprocessableEntity, err.Error())
		default:
			h.logger.Warn("playlist load failed", "error", err)
			writeError(w, http.StatusBadGateway, err.Error())
		}
		return
	}

	resp := toPlaylistResponse(result.Playlist.Origin, result.Playlist.Location, result.Playlist.Channels)
	resp.Dropped = result.Stats.Dropped
	writeJSON(w, http.StatusOK, resp)
}

// handleCurrent handles GET /playlist
func (h *PlaylistHTTPHandler) handleCurrent(w http.ResponseWriter, r *http.Request) {
	playlist, err := h.service.Current(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, toPlaylistResponse(playlist.Origin, playlist.Location, playlist.Channels))
}

// handleLastURL handles GET /playlist/last-url
func (h *PlaylistHTTPHandler) handleLastURL(w http.ResponseWriter, r *http.Request) {
	url, err := h.service.LastURL(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, lastURLResponse{URL: url})
}

func toPlaylistResponse(origin, location string, channels []channel.Channel) playlistResponse {
	return playlistResponse{
		Origin:   origin,
		Location: location,
		Count:    len(channels),
		Channels: lo.Map(channels, func(ch channel.Channel, _ int) channelResponse {
			return toChannelResponse(ch, false)
		}),
	}
}
