package application

import (
	"context"
	"io"

	"github.com/cockroachdb/errors"

	"github.com/alorle/iptv-viewer/internal/channel"
	"github.com/alorle/iptv-viewer/internal/favorite"
	"github.com/alorle/iptv-viewer/internal/m3u"
	"github.com/alorle/iptv-viewer/internal/port/driven"
)

// ExportService writes playlists back out as extended M3U.
type ExportService struct {
	playlists driven.PlaylistRepository
	favorites driven.FavoriteRepository
}

// NewExportService creates a new ExportService.
func NewExportService(playlists driven.PlaylistRepository, favorites driven.FavoriteRepository) *ExportService {
	return &ExportService{
		playlists: playlists,
		favorites: favorites,
	}
}

// WriteM3U encodes the current playlist to w, or every favorite when
// onlyFavorites is set. An empty selection still yields the header line.
func (s *ExportService) WriteM3U(ctx context.Context, w io.Writer, onlyFavorites bool) error {
	channels, err := s.selection(ctx, onlyFavorites)
	if err != nil {
		return err
	}

	encoder := m3u.NewEncoder()
	encoder.AddChannels(channels)
	if err := encoder.Encode(w); err != nil {
		return errors.Wrap(err, "failed to write playlist")
	}
	return nil
}

func (s *ExportService) selection(ctx context.Context, onlyFavorites bool) ([]channel.Channel, error) {
	if onlyFavorites {
		stored, err := s.favorites.Load(ctx)
		if err != nil {
			return nil, err
		}
		return favorite.NewSet(stored...).Channels(), nil
	}
	playlist, err := s.playlists.Current(ctx)
	if err != nil {
		return nil, err
	}
	return playlist.Channels, nil
}
