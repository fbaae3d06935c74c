package driver

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestLogger(t *testing.T) {
	newLogged := func(buf *bytes.Buffer, status int) http.Handler {
		logger := slog.New(slog.NewJSONHandler(buf, nil))
		return RequestLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		}))
	}

	t.Run("issues a request id and logs the request", func(t *testing.T) {
		var buf bytes.Buffer
		handler := newLogged(&buf, http.StatusTeapot)

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

		requestID := rec.Header().Get(RequestIDHeader)
		_, err := uuid.Parse(requestID)
		require.NoError(t, err)

		assert.Equal(t, http.StatusTeapot, rec.Code)
		assert.Contains(t, buf.String(), `"request_id":"`+requestID+`"`)
		assert.Contains(t, buf.String(), `"status":418`)
		assert.Contains(t, buf.String(), `"path":"/api/health"`)
	})

	t.Run("reuses a valid incoming request id", func(t *testing.T) {
		var buf bytes.Buffer
		handler := newLogged(&buf, http.StatusOK)
		incoming := uuid.NewString()

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(RequestIDHeader, incoming)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, incoming, rec.Header().Get(RequestIDHeader))
	})

	t.Run("replaces a malformed incoming request id", func(t *testing.T) {
		var buf bytes.Buffer
		handler := newLogged(&buf, http.StatusOK)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(RequestIDHeader, "not-a-uuid\nforged")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.NotEqual(t, "not-a-uuid\nforged", rec.Header().Get(RequestIDHeader))
	})

	t.Run("server errors are logged at error level", func(t *testing.T) {
		var buf bytes.Buffer
		handler := newLogged(&buf, http.StatusInternalServerError)

		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Contains(t, buf.String(), `"level":"ERROR"`)
	})
}

func TestNewRouter_Metrics(t *testing.T) {
	app := newTestApp()

	rec := app.do(t, http.MethodGet, "/metrics", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "iptv_playlist_channels")
}
