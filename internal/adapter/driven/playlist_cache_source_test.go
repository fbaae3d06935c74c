package driven

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.etcd.io/bbolt"
)

// mockPlaylistSource is a mock implementation of PlaylistSource for testing.
type mockPlaylistSource struct {
	fetchFunc func(ctx context.Context, location string) (string, error)
	calls     int
}

func (m *mockPlaylistSource) Fetch(ctx context.Context, location string) (string, error) {
	m.calls++
	if m.fetchFunc != nil {
		return m.fetchFunc(ctx, location)
	}
	return "", nil
}

var errUpstream = errors.New("upstream down")

func newTestCache(t *testing.T, next *mockPlaylistSource, ttl time.Duration) (*CachedPlaylistSource, *time.Time) {
	t.Helper()

	db, cleanup := setupTestDB(t)
	t.Cleanup(cleanup)

	cache, err := NewCachedPlaylistSource(next, db, ttl, discardLogger())
	require.NoError(t, err)

	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return now }
	return cache, &now
}

func TestNewCachedPlaylistSource(t *testing.T) {
	t.Run("creates the bucket", func(t *testing.T) {
		db, cleanup := setupTestDB(t)
		defer cleanup()

		_, err := NewCachedPlaylistSource(&mockPlaylistSource{}, db, time.Hour, discardLogger())
		require.NoError(t, err)

		err = db.View(func(tx *bbolt.Tx) error {
			assert.NotNil(t, tx.Bucket([]byte(playlistCacheBucket)))
			return nil
		})
		require.NoError(t, err)
	})

	t.Run("rejects nil collaborators", func(t *testing.T) {
		db, cleanup := setupTestDB(t)
		defer cleanup()

		_, err := NewCachedPlaylistSource(nil, db, time.Hour, discardLogger())
		assert.Error(t, err)

		_, err = NewCachedPlaylistSource(&mockPlaylistSource{}, nil, time.Hour, discardLogger())
		assert.Error(t, err)
	})
}

func TestCachedPlaylistSource_Fetch(t *testing.T) {
	ctx := context.Background()
	const location = "http://example.com/list.m3u"

	t.Run("miss fetches and stores", func(t *testing.T) {
		next := &mockPlaylistSource{fetchFunc: func(ctx context.Context, loc string) (string, error) {
			assert.Equal(t, location, loc)
			return samplePlaylist, nil
		}}
		cache, _ := newTestCache(t, next, time.Hour)

		got, err := cache.Fetch(ctx, location)
		require.NoError(t, err)
		assert.Equal(t, samplePlaylist, got)

		entry, found, err := cache.get(location)
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, samplePlaylist, entry.Content)
	})

	t.Run("fresh entry skips the source", func(t *testing.T) {
		next := &mockPlaylistSource{fetchFunc: func(context.Context, string) (string, error) {
			return samplePlaylist, nil
		}}
		cache, now := newTestCache(t, next, time.Hour)

		_, err := cache.Fetch(ctx, location)
		require.NoError(t, err)

		*now = now.Add(30 * time.Minute)
		got, err := cache.Fetch(ctx, location)
		require.NoError(t, err)

		assert.Equal(t, samplePlaylist, got)
		assert.Equal(t, 1, next.calls)
	})

	t.Run("expired entry is refreshed", func(t *testing.T) {
		content := "#EXTM3U\nhttp://example.com/old.ts"
		next := &mockPlaylistSource{fetchFunc: func(context.Context, string) (string, error) {
			return content, nil
		}}
		cache, now := newTestCache(t, next, time.Hour)

		_, err := cache.Fetch(ctx, location)
		require.NoError(t, err)

		content = "#EXTM3U\nhttp://example.com/new.ts"
		*now = now.Add(2 * time.Hour)
		got, err := cache.Fetch(ctx, location)
		require.NoError(t, err)

		assert.Equal(t, content, got)
		assert.Equal(t, 2, next.calls)
	})

	t.Run("stale entry served when the source fails", func(t *testing.T) {
		fail := false
		next := &mockPlaylistSource{fetchFunc: func(context.Context, string) (string, error) {
			if fail {
				return "", errUpstream
			}
			return samplePlaylist, nil
		}}
		cache, now := newTestCache(t, next, time.Hour)

		_, err := cache.Fetch(ctx, location)
		require.NoError(t, err)

		fail = true
		*now = now.Add(48 * time.Hour)
		got, err := cache.Fetch(ctx, location)
		require.NoError(t, err)
		assert.Equal(t, samplePlaylist, got)
	})

	t.Run("failure without cache is an error", func(t *testing.T) {
		next := &mockPlaylistSource{fetchFunc: func(context.Context, string) (string, error) {
			return "", errUpstream
		}}
		cache, _ := newTestCache(t, next, time.Hour)

		_, err := cache.Fetch(ctx, location)
		assert.ErrorIs(t, err, errUpstream)
	})

	t.Run("zero ttl always asks the source", func(t *testing.T) {
		next := &mockPlaylistSource{fetchFunc: func(context.Context, string) (string, error) {
			return samplePlaylist, nil
		}}
		cache, _ := newTestCache(t, next, 0)

		_, err := cache.Fetch(ctx, location)
		require.NoError(t, err)
		_, err = cache.Fetch(ctx, location)
		require.NoError(t, err)

		assert.Equal(t, 2, next.calls)
	})

	t.Run("empty playlists are returned but not cached", func(t *testing.T) {
		next := &mockPlaylistSource{fetchFunc: func(context.Context, string) (string, error) {
			return "", nil
		}}
		cache, _ := newTestCache(t, next, time.Hour)

		got, err := cache.Fetch(ctx, location)
		require.NoError(t, err)
		assert.Empty(t, got)

		_, found, err := cache.get(location)
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("text without channels keeps the last good copy", func(t *testing.T) {
		responses := []struct {
			text string
			err  error
		}{
			{text: samplePlaylist},
			{text: "#EXTM3U\n# nothing but comments\n"},
			{err: errUpstream},
		}
		next := &mockPlaylistSource{}
		next.fetchFunc = func(context.Context, string) (string, error) {
			r := responses[next.calls-1]
			return r.text, r.err
		}
		cache, now := newTestCache(t, next, time.Hour)

		_, err := cache.Fetch(ctx, location)
		require.NoError(t, err)

		*now = now.Add(2 * time.Hour)
		junk, err := cache.Fetch(ctx, location)
		require.NoError(t, err)
		assert.Equal(t, responses[1].text, junk, "the caller still sees what the source returned")

		got, err := cache.Fetch(ctx, location)
		require.NoError(t, err)
		assert.Equal(t, samplePlaylist, got)
		assert.Equal(t, 3, next.calls)
	})
}

func TestCachedPlaylistSource_CaptivePortalKeepsGoodCopy(t *testing.T) {
	var requests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch requests.Add(1) {
		case 1:
			_, _ = w.Write([]byte(samplePlaylist))
		case 2:
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte("<html>captive portal</html>"))
		default:
			http.Error(w, "down", http.StatusServiceUnavailable)
		}
	}))
	defer server.Close()

	db, cleanup := setupTestDB(t)
	defer cleanup()
	cache, err := NewCachedPlaylistSource(NewPlaylistHTTPSource(5*time.Second, 1<<20, discardLogger()), db, 0, discardLogger())
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		got, err := cache.Fetch(context.Background(), server.URL)
		require.NoError(t, err, "fetch %d", i+1)
		assert.Equal(t, samplePlaylist, got, "fetch %d", i+1)
	}
	assert.Equal(t, int32(3), requests.Load())
}
