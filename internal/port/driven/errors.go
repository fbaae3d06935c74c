package driven

import "github.com/cockroachdb/errors"

// Retrieval errors caused by the request rather than by the source.
// Adapters wrap them so callers can tell a bad location from an outage.
var (
	// ErrInvalidLocation is returned for locations the source cannot address.
	ErrInvalidLocation = errors.New("invalid playlist location")
	// ErrPlaylistNotFound is returned when nothing readable exists at the location.
	ErrPlaylistNotFound = errors.New("playlist not found")
	// ErrPlaylistTooLarge is returned when a playlist exceeds the configured size limit.
	ErrPlaylistTooLarge = errors.New("playlist exceeds size limit")
)
