package application

import (
	"context"

	"github.com/samber/lo"

	"github.com/alorle/iptv-viewer/internal/channel"
	"github.com/alorle/iptv-viewer/internal/favorite"
	"github.com/alorle/iptv-viewer/internal/organizer"
	"github.com/alorle/iptv-viewer/internal/port/driven"
)

// BrowseService provides read-only views of the current playlist.
type BrowseService struct {
	playlists driven.PlaylistRepository
	favorites driven.FavoriteRepository
}

// NewBrowseService creates a new BrowseService.
func NewBrowseService(playlists driven.PlaylistRepository, favorites driven.FavoriteRepository) *BrowseService {
	return &BrowseService{
		playlists: playlists,
		favorites: favorites,
	}
}

// View returns the current playlist filtered by query and grouped, with
// favorites marked. An empty query keeps every channel.
func (s *BrowseService) View(ctx context.Context, query string) ([]organizer.GroupView, error) {
	channels, set, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return organizer.View(channels, set, query), nil
}

// Search returns the matching channels in playlist order, with favorites marked.
func (s *BrowseService) Search(ctx context.Context, query string) ([]organizer.Entry, error) {
	channels, set, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return lo.Map(organizer.Filter(channels, query), func(ch channel.Channel, _ int) organizer.Entry {
		return organizer.Entry{Channel: ch, Favorite: favorite.IsFavorite(set, ch)}
	}), nil
}

func (s *BrowseService) load(ctx context.Context) ([]channel.Channel, favorite.Set, error) {
	playlist, err := s.playlists.Current(ctx)
	if err != nil {
		return nil, favorite.Set{}, err
	}
	stored, err := s.favorites.Load(ctx)
	if err != nil {
		return nil, favorite.Set{}, err
	}
	return playlist.Channels, favorite.NewSet(stored...), nil
}
