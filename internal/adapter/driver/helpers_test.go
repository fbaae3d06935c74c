package driver

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/alorle/iptv-viewer/internal/application"
	"github.com/alorle/iptv-viewer/internal/channel"
	"github.com/alorle/iptv-viewer/internal/memory"
)

const twoChannels = `#EXTM3U
#EXTINF:-1 tvg-id="s1" tvg-logo="" group-title="News",Channel One
http://example.com/one.m3u8
#EXTINF:-1,Channel Two
http://example.com/two.mp4`

// mockPlaylistSource is a mock implementation of driven.PlaylistSource for testing.
type mockPlaylistSource struct {
	fetchFunc func(ctx context.Context, location string) (string, error)
}

func (m *mockPlaylistSource) Fetch(ctx context.Context, location string) (string, error) {
	if m.fetchFunc != nil {
		return m.fetchFunc(ctx, location)
	}
	return "", nil
}

// mockFavoriteRepository is an in-memory driven.FavoriteRepository for testing.
type mockFavoriteRepository struct {
	pingFunc func(ctx context.Context) error
	stored   []channel.Channel
}

func (m *mockFavoriteRepository) Load(ctx context.Context) ([]channel.Channel, error) {
	out := make([]channel.Channel, len(m.stored))
	copy(out, m.stored)
	return out, nil
}

func (m *mockFavoriteRepository) Replace(ctx context.Context, channels []channel.Channel) error {
	m.stored = channels
	return nil
}

func (m *mockFavoriteRepository) Ping(ctx context.Context) error {
	if m.pingFunc != nil {
		return m.pingFunc(ctx)
	}
	return nil
}

// mockSettingsRepository is an in-memory driven.SettingsRepository for testing.
type mockSettingsRepository struct {
	lastURL string
}

func (m *mockSettingsRepository) LastURL(ctx context.Context) (string, error) {
	return m.lastURL, nil
}

func (m *mockSettingsRepository) SetLastURL(ctx context.Context, url string) error {
	m.lastURL = url
	return nil
}

// testApp wires real services over in-memory collaborators.
type testApp struct {
	remote    *mockPlaylistSource
	files     *mockPlaylistSource
	favorites *mockFavoriteRepository
	settings  *mockSettingsRepository
	services  Services
	router    http.Handler
}

func newTestApp() *testApp {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	app := &testApp{
		remote:    &mockPlaylistSource{fetchFunc: func(context.Context, string) (string, error) { return twoChannels, nil }},
		files:     &mockPlaylistSource{fetchFunc: func(context.Context, string) (string, error) { return twoChannels, nil }},
		favorites: &mockFavoriteRepository{},
		settings:  &mockSettingsRepository{},
	}
	playlists := memory.NewPlaylistRepository()

	app.services = Services{
		Playlists: application.NewPlaylistService(app.remote, app.files, playlists, app.settings, logger),
		Browse:    application.NewBrowseService(playlists, app.favorites),
		Favorites: application.NewFavoriteService(app.favorites, playlists, logger),
		Export:    application.NewExportService(playlists, app.favorites),
		Health:    application.NewHealthService(app.favorites, playlists),
	}
	app.router = NewRouter(app.services, logger)
	return app
}

func (a *testApp) do(t *testing.T, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func (a *testApp) loadSample(t *testing.T) {
	t.Helper()
	_, err := a.services.Playlists.LoadFromURL(context.Background(), "http://example.com/list.m3u")
	require.NoError(t, err)
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v))
	return v
}
