package driven

import (
	"context"

	"github.com/alorle/iptv-viewer/internal/channel"
)

// FavoriteRepository defines the interface for favorite persistence operations.
// This is a driven port that will be implemented by concrete adapters (e.g., BoltDB).
type FavoriteRepository interface {
	// Load retrieves the persisted favorites in the order they were saved.
	// Returns an empty slice when nothing has been saved yet.
	Load(ctx context.Context) ([]channel.Channel, error)

	// Replace overwrites the persisted favorites with channels.
	Replace(ctx context.Context, channels []channel.Channel) error

	// Ping checks if the repository (database) is accessible and operational.
	Ping(ctx context.Context) error
}
