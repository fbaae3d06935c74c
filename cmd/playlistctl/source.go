package main

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/spf13/afero"

	"github.com/alorle/iptv-viewer/internal/adapter/driven"
	"github.com/alorle/iptv-viewer/internal/channel"
	"github.com/alorle/iptv-viewer/internal/m3u"
)

var errNoChannels = errors.New("no channels found")

// isRemote reports whether source is fetched over HTTP rather than read from disk.
func isRemote(source string) bool {
	lower := strings.ToLower(source)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// loadPlaylist fetches source from the network or the filesystem and parses
// it. A playlist without channels is errNoChannels.
func loadPlaylist(ctx context.Context, logger *slog.Logger, source string, timeout time.Duration, maxBytes int64) ([]channel.Channel, m3u.Stats, error) {
	var (
		text string
		err  error
	)
	if isRemote(source) {
		text, err = driven.NewPlaylistHTTPSource(timeout, maxBytes, logger).Fetch(ctx, source)
	} else {
		abs, absErr := filepath.Abs(source)
		if absErr != nil {
			return nil, m3u.Stats{}, errors.Wrapf(absErr, "invalid path %q", source)
		}
		files := driven.NewPlaylistFileSource(afero.NewOsFs(), filepath.Dir(abs), maxBytes, logger)
		text, err = files.Fetch(ctx, filepath.Base(abs))
	}
	if err != nil {
		return nil, m3u.Stats{}, errors.Wrap(err, "failed to read playlist")
	}

	playlist, stats := m3u.ParseWithStats(text)
	logger.Debug("playlist parsed",
		"source", source,
		"lines", stats.Lines,
		"channels", stats.Channels,
		"dropped", stats.Dropped,
	)
	if len(playlist) == 0 {
		return nil, stats, errors.Wrapf(errNoChannels, "in %s", source)
	}
	return playlist, stats, nil
}
