package application

import (
	"context"
	"log/slog"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/alorle/iptv-viewer/internal/m3u"
	"github.com/alorle/iptv-viewer/internal/metrics"
	"github.com/alorle/iptv-viewer/internal/port/driven"
)

// Origins of a loaded playlist, used as metric labels.
const (
	OriginURL    = "url"
	OriginFile   = "file"
	OriginSample = "sample"
)

// LoadResult describes a successful load.
type LoadResult struct {
	Playlist driven.StoredPlaylist
	Stats    m3u.Stats
}

// PlaylistService provides use cases for loading playlists.
// It depends only on domain packages and port interfaces.
type PlaylistService struct {
	remote    driven.PlaylistSource
	files     driven.PlaylistSource
	playlists driven.PlaylistRepository
	settings  driven.SettingsRepository
	logger    *slog.Logger
}

// NewPlaylistService creates a new PlaylistService. remote serves URLs and
// files serves local paths.
func NewPlaylistService(
	remote driven.PlaylistSource,
	files driven.PlaylistSource,
	playlists driven.PlaylistRepository,
	settings driven.SettingsRepository,
	logger *slog.Logger,
) *PlaylistService {
	return &PlaylistService{
		remote:    remote,
		files:     files,
		playlists: playlists,
		settings:  settings,
		logger:    logger,
	}
}

// LoadFromURL downloads and parses the playlist at url and makes it current.
// The url is remembered as the last URL only when the playlist is not empty.
// Returns ErrNoSource for a blank url and ErrEmptyPlaylist when nothing could
// be parsed; in both cases the current playlist is left untouched.
func (s *PlaylistService) LoadFromURL(ctx context.Context, url string) (LoadResult, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return LoadResult{}, ErrNoSource
	}

	text, err := s.remote.Fetch(ctx, url)
	if err != nil {
		metrics.RecordPlaylistLoad(OriginURL, metrics.OutcomeFailed)
		return LoadResult{}, errors.Wrap(err, "failed to load playlist")
	}

	result, err := s.accept(ctx, text, OriginURL, url)
	if err != nil {
		return LoadResult{}, err
	}

	if err := s.settings.SetLastURL(ctx, url); err != nil {
		s.logger.Warn("failed to remember last playlist url", "url", url, "error", err)
	}

	return result, nil
}

// LoadFromFile reads and parses a playlist file from the library and makes it current.
func (s *PlaylistService) LoadFromFile(ctx context.Context, path string) (LoadResult, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return LoadResult{}, ErrNoSource
	}

	text, err := s.files.Fetch(ctx, path)
	if err != nil {
		metrics.RecordPlaylistLoad(OriginFile, metrics.OutcomeFailed)
		return LoadResult{}, errors.Wrap(err, "failed to load playlist")
	}

	return s.accept(ctx, text, OriginFile, path)
}

// LoadSample makes the built-in demo playlist current.
func (s *PlaylistService) LoadSample(ctx context.Context) (LoadResult, error) {
	return s.accept(ctx, samplePlaylist, OriginSample, OriginSample)
}

// LoadText parses text supplied by the caller and makes it current.
func (s *PlaylistService) LoadText(ctx context.Context, text, name string) (LoadResult, error) {
	return s.accept(ctx, text, OriginFile, name)
}

// LastURL returns the last URL that produced a non-empty playlist, or "".
func (s *PlaylistService) LastURL(ctx context.Context) (string, error) {
	return s.settings.LastURL(ctx)
}

// Current returns the playlist currently being browsed. Origin is empty
// before the first load.
func (s *PlaylistService) Current(ctx context.Context) (driven.StoredPlaylist, error) {
	return s.playlists.Current(ctx)
}

func (s *PlaylistService) accept(ctx context.Context, text, origin, location string) (LoadResult, error) {
	channels, stats := m3u.ParseWithStats(text)
	metrics.RecordDroppedDirectives(stats.Dropped)

	if len(channels) == 0 {
		metrics.RecordPlaylistLoad(origin, metrics.OutcomeEmpty)
		s.logger.Info("loaded playlist is empty",
			"origin", origin,
			"location", location,
			"lines", stats.Lines,
			"dropped", stats.Dropped,
		)
		return LoadResult{}, ErrEmptyPlaylist
	}

	playlist := driven.StoredPlaylist{Channels: channels, Origin: origin, Location: location}
	if err := s.playlists.Replace(ctx, playlist); err != nil {
		metrics.RecordPlaylistLoad(origin, metrics.OutcomeFailed)
		return LoadResult{}, errors.Wrap(err, "failed to store playlist")
	}

	metrics.RecordPlaylistLoad(origin, metrics.OutcomeLoaded)
	metrics.SetPlaylistChannels(len(channels))
	s.logger.Info("playlist loaded",
		"origin", origin,
		"location", location,
		"channels", len(channels),
		"dropped", stats.Dropped,
	)

	return LoadResult{Playlist: playlist, Stats: stats}, nil
}
