// Package memory holds process-local adapters that do not survive restarts.
package memory

import (
	"context"
	"sync"

	"github.com/alorle/iptv-viewer/internal/channel"
	"github.com/alorle/iptv-viewer/internal/port/driven"
)

// PlaylistRepository keeps the current playlist in memory.
type PlaylistRepository struct {
	mu       sync.RWMutex
	playlist driven.StoredPlaylist
}

// NewPlaylistRepository returns an empty repository.
func NewPlaylistRepository() *PlaylistRepository {
	return &PlaylistRepository{
		playlist: driven.StoredPlaylist{Channels: []channel.Channel{}},
	}
}

// Current returns a copy of the stored playlist.
func (r *PlaylistRepository) Current(ctx context.Context) (driven.StoredPlaylist, error) {
	if err := ctx.Err(); err != nil {
		return driven.StoredPlaylist{}, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := r.playlist
	out.Channels = cloneChannels(r.playlist.Channels)
	return out, nil
}

// Replace stores a copy of playlist as the current one.
func (r *PlaylistRepository) Replace(ctx context.Context, playlist driven.StoredPlaylist) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	playlist.Channels = cloneChannels(playlist.Channels)

	r.mu.Lock()
	defer r.mu.Unlock()

	r.playlist = playlist
	return nil
}

func cloneChannels(channels []channel.Channel) []channel.Channel {
	out := make([]channel.Channel, len(channels))
	copy(out, channels)
	return out
}

// Ensure PlaylistRepository implements the driven.PlaylistRepository interface
var _ driven.PlaylistRepository = (*PlaylistRepository)(nil)
