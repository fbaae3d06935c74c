package driver

import (
	"encoding/json"
	"net/http"

	"github.com/alorle/iptv-viewer/internal/channel"
)

// errorResponse represents a JSON error response.
type errorResponse struct {
	Error string `json:"error"`
}

// channelResponse represents a channel in JSON format. Optional attributes
// are omitted when absent and kept when present but empty.
type channelResponse struct {
	Title    string  `json:"title"`
	URL      string  `json:"url"`
	Logo     *string `json:"logo,omitempty"`
	TVGID    *string `json:"tvg_id,omitempty"`
	Group    *string `json:"group,omitempty"`
	Favorite bool    `json:"favorite,omitempty"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// toChannelResponse converts a channel domain object to an API response.
func toChannelResponse(ch channel.Channel, favorite bool) channelResponse {
	return channelResponse{
		Title:    ch.Title(),
		URL:      ch.URL(),
		Logo:     ch.Logo().ToPointer(),
		TVGID:    ch.ID().ToPointer(),
		Group:    ch.Group().ToPointer(),
		Favorite: favorite,
	}
}
