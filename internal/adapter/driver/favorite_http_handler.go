package driver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/samber/lo"

	"github.com/alorle/iptv-viewer/internal/application"
	"github.com/alorle/iptv-viewer/internal/channel"
)

// FavoriteHTTPHandler handles HTTP requests for favorite management.
type FavoriteHTTPHandler struct {
	service *application.FavoriteService
}

// NewFavoriteHTTPHandler creates a new HTTP handler for favorites.
func NewFavoriteHTTPHandler(service *application.FavoriteService) *FavoriteHTTPHandler {
	return &FavoriteHTTPHandler{service: service}
}

// toggleRequest represents the JSON body for toggling a favorite.
type toggleRequest struct {
	URL string `json:"url"`
}

// toggleResponse reports the favorite state after a toggle.
type toggleResponse struct {
	URL      string `json:"url"`
	Favorite bool   `json:"favorite"`
}

// ServeHTTP routes the request to the appropriate handler based on method and path.
func (h *FavoriteHTTPHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/favorites")

	switch {
	// GET /favorites - list favorites
	case r.Method == http.MethodGet && path == "":
		h.handleList(w, r)
	// POST /favorites/toggle - add or remove a favorite
	case r.Method == http.MethodPost && path == "/toggle":
		h.handleToggle(w, r)
	case path == "" || path == "/toggle":
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	default:
		writeError(w, http.StatusNotFound, "not found")
	}
}

// handleList handles GET /favorites
func (h *FavoriteHTTPHandler) handleList(w http.ResponseWriter, r *http.Request) {
	favorites, err := h.service.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, lo.Map(favorites, func(ch channel.Channel, _ int) channelResponse {
		return toChannelResponse(ch, true)
	}))
}

// handleToggle handles POST /favorites/toggle
func (h *FavoriteHTTPHandler) handleToggle(w http.ResponseWriter, r *http.Request) {
	var req toggleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	favorite, err := h.service.Toggle(r.Context(), req.URL)
	if err != nil {
		if errors.Is(err, channel.ErrEmptyURL) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if errors.Is(err, channel.ErrChannelNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, toggleResponse{URL: strings.TrimSpace(req.URL), Favorite: favorite})
}
