package driven

import (
	"context"
	"io/fs"
	"log/slog"

	"github.com/cockroachdb/errors"
	"github.com/spf13/afero"

	"github.com/alorle/iptv-viewer/internal/metrics"
	"github.com/alorle/iptv-viewer/internal/port/driven"
)

// SourceFile labels playlist retrieval from the local library.
const SourceFile = "file"

// PlaylistFileSource implements the PlaylistSource port by reading playlists
// from a directory. Locations are resolved relative to that directory and
// cannot escape it.
type PlaylistFileSource struct {
	fs       afero.Fs
	maxBytes int64
	logger   *slog.Logger
}

// NewPlaylistFileSource creates a file-backed playlist source rooted at root.
func NewPlaylistFileSource(fs afero.Fs, root string, maxBytes int64, logger *slog.Logger) *PlaylistFileSource {
	return &PlaylistFileSource{
		fs:       afero.NewBasePathFs(fs, root),
		maxBytes: maxBytes,
		logger:   logger,
	}
}

// Fetch reads the playlist file at location.
func (s *PlaylistFileSource) Fetch(ctx context.Context, location string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	info, err := s.fs.Stat(location)
	if err != nil {
		metrics.RecordSourceFetchError(SourceFile)
		if errors.Is(err, fs.ErrNotExist) {
			return "", errors.Wrapf(driven.ErrPlaylistNotFound, "%s", location)
		}
		return "", errors.Wrapf(err, "failed to open %s", location)
	}
	if info.IsDir() {
		metrics.RecordSourceFetchError(SourceFile)
		return "", errors.Wrapf(driven.ErrPlaylistNotFound, "%s is a directory", location)
	}

	f, err := s.fs.Open(location)
	if err != nil {
		metrics.RecordSourceFetchError(SourceFile)
		return "", errors.Wrapf(err, "failed to open %s", location)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			s.logger.Warn("failed to close playlist file", "path", location, "error", closeErr)
		}
	}()

	text, err := decodePlaylist(f, s.maxBytes)
	if err != nil {
		metrics.RecordSourceFetchError(SourceFile)
		return "", errors.Wrapf(err, "failed to read %s", location)
	}

	s.logger.Debug("playlist read", "path", location, "bytes", len(text))

	return text, nil
}

// Ensure PlaylistFileSource implements the driven.PlaylistSource interface
var _ driven.PlaylistSource = (*PlaylistFileSource)(nil)
