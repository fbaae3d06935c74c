package driven

import "context"

// PlaylistSource defines the interface for retrieving raw playlist text.
// This is a driven port that will be implemented by concrete adapters (e.g., HTTP client, file reader).
type PlaylistSource interface {
	// Fetch returns the whole playlist text found at location.
	// Retrieval failures are returned as errors and are never confused with
	// a successfully retrieved but empty playlist.
	Fetch(ctx context.Context, location string) (string, error)
}
