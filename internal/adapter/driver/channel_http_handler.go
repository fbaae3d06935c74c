package driver

import (
	"net/http"
	"strconv"

	"github.com/samber/lo"

	"github.com/alorle/iptv-viewer/internal/application"
	"github.com/alorle/iptv-viewer/internal/organizer"
)

// ChannelHTTPHandler handles HTTP requests for browsing the current playlist.
type ChannelHTTPHandler struct {
	service *application.BrowseService
}

// NewChannelHTTPHandler creates a new HTTP handler for channels.
func NewChannelHTTPHandler(service *application.BrowseService) *ChannelHTTPHandler {
	return &ChannelHTTPHandler{service: service}
}

// groupResponse represents one labelled section in JSON format.
type groupResponse struct {
	Label    string            `json:"label"`
	Channels []channelResponse `json:"channels"`
}

// ServeHTTP handles GET /channels?q=...&grouped=...
// Results are grouped unless grouped is false.
func (h *ChannelHTTPHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	query := r.URL.Query().Get("q")
	grouped := true
	if raw := r.URL.Query().Get("grouped"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "grouped must be a boolean")
			return
		}
		grouped = parsed
	}

	if !grouped {
		entries, err := h.service.Search(r.Context(), query)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}
		writeJSON(w, http.StatusOK, lo.Map(entries, toEntryResponse))
		return
	}

	groups, err := h.service.View(r.Context(), query)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, lo.Map(groups, func(g organizer.GroupView, _ int) groupResponse {
		return groupResponse{
			Label:    g.Label,
			Channels: lo.Map(g.Entries, toEntryResponse),
		}
	}))
}

func toEntryResponse(e organizer.Entry, _ int) channelResponse {
	return toChannelResponse(e.Channel, e.Favorite)
}
