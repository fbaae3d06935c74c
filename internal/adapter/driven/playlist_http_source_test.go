package driven

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alorle/iptv-viewer/internal/port/driven"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestPlaylistHTTPSource_Fetch(t *testing.T) {
	fixture, err := os.ReadFile(filepath.Join("testdata", "playlist.m3u"))
	require.NoError(t, err)

	t.Run("returns the body text", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, userAgent, r.Header.Get("User-Agent"))
			w.Header().Set("Content-Type", "audio/x-mpegurl")
			_, _ = w.Write(fixture)
		}))
		defer server.Close()

		source := NewPlaylistHTTPSource(5*time.Second, 1<<20, discardLogger())

		got, err := source.Fetch(context.Background(), server.URL+"/list.m3u")
		require.NoError(t, err)
		assert.Equal(t, string(fixture), got)
	})

	t.Run("decompresses gzip bodies", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write(gzipped(t, samplePlaylist))
		}))
		defer server.Close()

		source := NewPlaylistHTTPSource(5*time.Second, 1<<20, discardLogger())

		got, err := source.Fetch(context.Background(), server.URL+"/list.m3u.gz")
		require.NoError(t, err)
		assert.Equal(t, samplePlaylist, got)
	})

	t.Run("empty body is a successful empty fetch", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		source := NewPlaylistHTTPSource(5*time.Second, 1<<20, discardLogger())

		got, err := source.Fetch(context.Background(), server.URL)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("missing remote playlist", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "gone", http.StatusNotFound)
		}))
		defer server.Close()

		source := NewPlaylistHTTPSource(5*time.Second, 1<<20, discardLogger())

		_, err := source.Fetch(context.Background(), server.URL)
		assert.ErrorIs(t, err, driven.ErrPlaylistNotFound)
		assert.Contains(t, err.Error(), "404")
	})

	t.Run("non 200 status", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusServiceUnavailable)
		}))
		defer server.Close()

		source := NewPlaylistHTTPSource(5*time.Second, 1<<20, discardLogger())

		_, err := source.Fetch(context.Background(), server.URL)
		var statusErr *StatusError
		require.ErrorAs(t, err, &statusErr)
		assert.Equal(t, http.StatusServiceUnavailable, statusErr.Code)
	})

	t.Run("html pages are not playlists", func(t *testing.T) {
		tests := []struct {
			name        string
			contentType string
			body        string
		}{
			{name: "html content type", contentType: "text/html; charset=utf-8", body: "portal"},
			{name: "sniffed markup", contentType: "application/octet-stream", body: "\n<!DOCTYPE html><html>captive portal</html>"},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					w.Header().Set("Content-Type", tt.contentType)
					_, _ = w.Write([]byte(tt.body))
				}))
				defer server.Close()

				source := NewPlaylistHTTPSource(5*time.Second, 1<<20, discardLogger())

				_, err := source.Fetch(context.Background(), server.URL)
				assert.ErrorIs(t, err, ErrNotPlaylist)
				assert.True(t, IsUpstreamFailure(err))
			})
		}
	})

	t.Run("body over the size limit", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(strings.Repeat("#", 64)))
		}))
		defer server.Close()

		source := NewPlaylistHTTPSource(5*time.Second, 32, discardLogger())

		_, err := source.Fetch(context.Background(), server.URL)
		assert.ErrorIs(t, err, driven.ErrPlaylistTooLarge)
	})

	t.Run("client timeout", func(t *testing.T) {
		release := make(chan struct{})
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			<-release
		}))
		defer server.Close()
		defer close(release)

		source := NewPlaylistHTTPSource(100*time.Millisecond, 1<<20, discardLogger())

		_, err := source.Fetch(context.Background(), server.URL)
		assert.Error(t, err)
	})

	t.Run("cancelled context", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write(fixture)
		}))
		defer server.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		source := NewPlaylistHTTPSource(5*time.Second, 1<<20, discardLogger())

		_, err := source.Fetch(ctx, server.URL)
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("unsupported locations", func(t *testing.T) {
		source := NewPlaylistHTTPSource(5*time.Second, 1<<20, discardLogger())

		for _, location := range []string{"", "ftp://example.com/list.m3u", "/local/list.m3u", "http://", "::bad"} {
			_, err := source.Fetch(context.Background(), location)
			assert.ErrorIs(t, err, driven.ErrInvalidLocation, "location %q", location)
		}
	})
}

func TestIsUpstreamFailure(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "transport error", err: errUpstream, want: true},
		{name: "server error", err: &StatusError{Code: http.StatusBadGateway}, want: true},
		{name: "rate limited", err: &StatusError{Code: http.StatusTooManyRequests}, want: true},
		{name: "forbidden", err: &StatusError{Code: http.StatusForbidden}, want: false},
		{name: "wrapped status", err: errors.Wrap(&StatusError{Code: http.StatusInternalServerError}, "fetching"), want: true},
		{name: "invalid location", err: errors.Wrap(driven.ErrInvalidLocation, "ftp://x"), want: false},
		{name: "not found", err: errors.Wrap(driven.ErrPlaylistNotFound, "404"), want: false},
		{name: "too large", err: errors.Wrap(driven.ErrPlaylistTooLarge, "limit"), want: false},
		{name: "cancelled by caller", err: errors.Wrap(context.Canceled, "fetching"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsUpstreamFailure(tt.err))
		})
	}
}
