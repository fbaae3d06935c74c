package application

import "github.com/cockroachdb/errors"

// Use case errors
var (
	// ErrNoSource is returned when a load is requested without a location.
	ErrNoSource = errors.New("no playlist source given")
	// ErrEmptyPlaylist is returned when retrieval succeeded but no channel
	// could be parsed. It is never used for retrieval failures.
	ErrEmptyPlaylist = errors.New("playlist is empty or could not be parsed")
)
