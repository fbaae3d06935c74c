package application

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"

	"github.com/alorle/iptv-viewer/internal/channel"
	"github.com/alorle/iptv-viewer/internal/favorite"
	"github.com/alorle/iptv-viewer/internal/metrics"
	"github.com/alorle/iptv-viewer/internal/organizer"
	"github.com/alorle/iptv-viewer/internal/port/driven"
)

// Toggle actions, used as metric labels.
const (
	ActionAdded   = "added"
	ActionRemoved = "removed"
)

// FavoriteService provides use cases for managing favorite channels.
// Favorites outlive the playlist they were picked from.
type FavoriteService struct {
	favorites driven.FavoriteRepository
	playlists driven.PlaylistRepository
	logger    *slog.Logger

	// serializes read-modify-write cycles on the favorite repository
	mu sync.Mutex
}

// NewFavoriteService creates a new FavoriteService.
func NewFavoriteService(favorites driven.FavoriteRepository, playlists driven.PlaylistRepository, logger *slog.Logger) *FavoriteService {
	return &FavoriteService{
		favorites: favorites,
		playlists: playlists,
		logger:    logger,
	}
}

// Toggle flips the favorite state of the channel with the given url and
// reports whether it is a favorite afterwards. A url that is not a favorite
// must belong to the current playlist, otherwise channel.ErrChannelNotFound
// is returned.
func (s *FavoriteService) Toggle(ctx context.Context, url string) (bool, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return false, channel.ErrEmptyURL
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	set, err := s.set(ctx)
	if err != nil {
		return false, err
	}

	ch, ok := organizer.Find(set.Channels(), url)
	if !ok {
		playlist, err := s.playlists.Current(ctx)
		if err != nil {
			return false, err
		}
		ch, ok = organizer.Find(playlist.Channels, url)
		if !ok {
			return false, errors.Wrapf(channel.ErrChannelNotFound, "url %s", url)
		}
	}

	next := favorite.Toggle(set, ch)
	if err := s.favorites.Replace(ctx, next.Channels()); err != nil {
		return false, errors.Wrap(err, "failed to save favorites")
	}

	added := favorite.IsFavorite(next, ch)
	action := ActionRemoved
	if added {
		action = ActionAdded
	}
	metrics.RecordFavoriteToggle(action)
	s.logger.Info("favorite toggled", "url", url, "title", ch.Title(), "action", action)

	return added, nil
}

// List returns all favorites in the order they were added.
func (s *FavoriteService) List(ctx context.Context) ([]channel.Channel, error) {
	set, err := s.set(ctx)
	if err != nil {
		return nil, err
	}
	return set.Channels(), nil
}

// IsFavorite reports whether the channel with the given url is a favorite.
func (s *FavoriteService) IsFavorite(ctx context.Context, url string) (bool, error) {
	set, err := s.set(ctx)
	if err != nil {
		return false, err
	}
	return set.Contains(strings.TrimSpace(url)), nil
}

func (s *FavoriteService) set(ctx context.Context) (favorite.Set, error) {
	stored, err := s.favorites.Load(ctx)
	if err != nil {
		return favorite.Set{}, errors.Wrap(err, "failed to load favorites")
	}
	return favorite.NewSet(stored...), nil
}
