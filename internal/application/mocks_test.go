package application

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/alorle/iptv-viewer/internal/channel"
	"github.com/alorle/iptv-viewer/internal/port/driven"
)

// mockPlaylistSource is a mock implementation of driven.PlaylistSource for testing.
type mockPlaylistSource struct {
	fetchFunc func(ctx context.Context, location string) (string, error)
	locations []string
}

func (m *mockPlaylistSource) Fetch(ctx context.Context, location string) (string, error) {
	m.locations = append(m.locations, location)
	if m.fetchFunc != nil {
		return m.fetchFunc(ctx, location)
	}
	return "", nil
}

// mockPlaylistRepository is a mock implementation of driven.PlaylistRepository.
// Without overrides it behaves like an in-memory store.
type mockPlaylistRepository struct {
	currentFunc func(ctx context.Context) (driven.StoredPlaylist, error)
	replaceFunc func(ctx context.Context, playlist driven.StoredPlaylist) error
	stored      driven.StoredPlaylist
	replaced    int
}

func (m *mockPlaylistRepository) Current(ctx context.Context) (driven.StoredPlaylist, error) {
	if m.currentFunc != nil {
		return m.currentFunc(ctx)
	}
	return m.stored, nil
}

func (m *mockPlaylistRepository) Replace(ctx context.Context, playlist driven.StoredPlaylist) error {
	m.replaced++
	if m.replaceFunc != nil {
		return m.replaceFunc(ctx, playlist)
	}
	m.stored = playlist
	return nil
}

// mockFavoriteRepository is a mock implementation of driven.FavoriteRepository.
// Without overrides it behaves like an in-memory store.
type mockFavoriteRepository struct {
	loadFunc    func(ctx context.Context) ([]channel.Channel, error)
	replaceFunc func(ctx context.Context, channels []channel.Channel) error
	pingFunc    func(ctx context.Context) error
	stored      []channel.Channel
}

func (m *mockFavoriteRepository) Load(ctx context.Context) ([]channel.Channel, error) {
	if m.loadFunc != nil {
		return m.loadFunc(ctx)
	}
	out := make([]channel.Channel, len(m.stored))
	copy(out, m.stored)
	return out, nil
}

func (m *mockFavoriteRepository) Replace(ctx context.Context, channels []channel.Channel) error {
	if m.replaceFunc != nil {
		return m.replaceFunc(ctx, channels)
	}
	m.stored = channels
	return nil
}

func (m *mockFavoriteRepository) Ping(ctx context.Context) error {
	if m.pingFunc != nil {
		return m.pingFunc(ctx)
	}
	return nil
}

// mockSettingsRepository is a mock implementation of driven.SettingsRepository.
type mockSettingsRepository struct {
	setLastURLFunc func(ctx context.Context, url string) error
	lastURL        string
}

func (m *mockSettingsRepository) LastURL(ctx context.Context) (string, error) {
	return m.lastURL, nil
}

func (m *mockSettingsRepository) SetLastURL(ctx context.Context, url string) error {
	if m.setLastURLFunc != nil {
		return m.setLastURLFunc(ctx, url)
	}
	m.lastURL = url
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func mustChannel(t *testing.T, title, url string) channel.Channel {
	t.Helper()
	ch, err := channel.NewChannel(title, url)
	require.NoError(t, err)
	return ch
}

func titles(channels []channel.Channel) []string {
	out := make([]string, len(channels))
	for i, ch := range channels {
		out[i] = ch.Title()
	}
	return out
}
