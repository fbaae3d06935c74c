package driven

import (
	"context"

	"github.com/alorle/iptv-viewer/internal/channel"
)

// StoredPlaylist is a playlist together with where it was loaded from.
type StoredPlaylist struct {
	Channels []channel.Channel
	Origin   string // kind of source, such as "url" or "file"
	Location string // URL or path within the kind
}

// PlaylistRepository holds the playlist currently being browsed.
// The playlist is replaced wholesale on every load.
type PlaylistRepository interface {
	// Current returns a snapshot of the current playlist.
	// Returns an empty playlist before the first load.
	Current(ctx context.Context) (StoredPlaylist, error)

	// Replace swaps the current playlist.
	Replace(ctx context.Context, playlist StoredPlaylist) error
}
