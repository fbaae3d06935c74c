package driven

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/alorle/iptv-viewer/internal/metrics"
	"github.com/alorle/iptv-viewer/internal/port/driven"
)

const (
	// SourceHTTP labels remote playlist retrieval in logs and metrics.
	SourceHTTP = "http"

	userAgent = "iptv-viewer/1.0"
)

// ErrNotPlaylist is returned for HTML answers, such as captive portal or
// error pages served with 200 OK.
var ErrNotPlaylist = errors.New("response is an HTML page, not a playlist")

// StatusError is returned when the remote server does not answer 200 OK.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status code %d", e.Code)
}

// IsUpstreamFailure reports whether err means the remote side is unhealthy:
// transport errors, 5xx and 429 answers. Bad locations, other 4xx answers,
// oversized bodies and cancellations by the caller are not.
func IsUpstreamFailure(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, driven.ErrInvalidLocation) ||
		errors.Is(err, driven.ErrPlaylistNotFound) ||
		errors.Is(err, driven.ErrPlaylistTooLarge) ||
		errors.Is(err, context.Canceled) {
		return false
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Code >= http.StatusInternalServerError || statusErr.Code == http.StatusTooManyRequests
	}
	return true
}

// parseHTTPLocation accepts absolute http and https URLs only.
func parseHTTPLocation(location string) (*url.URL, error) {
	u, err := url.Parse(location)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, errors.Wrapf(driven.ErrInvalidLocation, "%q is not an absolute http or https URL", location)
	}
	return u, nil
}

// PlaylistHTTPSource implements the PlaylistSource port by downloading
// playlists over HTTP.
type PlaylistHTTPSource struct {
	httpClient *http.Client
	maxBytes   int64
	logger     *slog.Logger
}

// NewPlaylistHTTPSource creates a new HTTP-based playlist source.
// Bodies larger than maxBytes once decompressed are rejected.
func NewPlaylistHTTPSource(timeout time.Duration, maxBytes int64, logger *slog.Logger) *PlaylistHTTPSource {
	return &PlaylistHTTPSource{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		maxBytes: maxBytes,
		logger:   logger,
	}
}

// Fetch downloads the playlist at location and returns its text.
func (s *PlaylistHTTPSource) Fetch(ctx context.Context, location string) (string, error) {
	u, err := parseHTTPLocation(location)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return "", errors.Wrapf(err, "failed to create request for %s", location)
	}
	req.Header.Set("User-Agent", userAgent)

	start := time.Now()
	resp, err := s.httpClient.Do(req)
	if err != nil {
		metrics.RecordSourceFetchError(SourceHTTP)
		return "", errors.Wrapf(err, "failed to fetch %s", location)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			s.logger.Warn("failed to close response body", "url", location, "error", closeErr)
		}
	}()

	switch {
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
		metrics.RecordSourceFetchError(SourceHTTP)
		return "", errors.Wrapf(driven.ErrPlaylistNotFound, "%d from %s", resp.StatusCode, location)
	case resp.StatusCode != http.StatusOK:
		metrics.RecordSourceFetchError(SourceHTTP)
		return "", errors.Wrapf(&StatusError{Code: resp.StatusCode}, "fetching %s", location)
	}

	text, err := decodePlaylist(resp.Body, s.maxBytes)
	if err != nil {
		metrics.RecordSourceFetchError(SourceHTTP)
		return "", errors.Wrapf(err, "failed to read %s", location)
	}
	if isHTML(resp.Header.Get("Content-Type"), text) {
		metrics.RecordSourceFetchError(SourceHTTP)
		return "", errors.Wrapf(ErrNotPlaylist, "from %s", location)
	}

	s.logger.Debug("playlist downloaded",
		"url", location,
		"bytes", len(text),
		"duration", time.Since(start),
	)

	return text, nil
}

// isHTML reports whether a response is a web page. No playlist line starts with '<'.
func isHTML(contentType, text string) bool {
	if strings.HasPrefix(strings.ToLower(contentType), "text/html") {
		return true
	}
	return strings.HasPrefix(strings.TrimSpace(text), "<")
}

// Ensure PlaylistHTTPSource implements the driven.PlaylistSource interface
var _ driven.PlaylistSource = (*PlaylistHTTPSource)(nil)
