package driven

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/cockroachdb/errors"
	"go.etcd.io/bbolt"

	"github.com/alorle/iptv-viewer/internal/m3u"
	"github.com/alorle/iptv-viewer/internal/metrics"
	"github.com/alorle/iptv-viewer/internal/port/driven"
)

const (
	playlistCacheBucket = "playlist_cache"
)

// CachedPlaylistSource wraps a PlaylistSource with a BoltDB cache.
// Fresh entries are served without touching the wrapped source. When the
// wrapped source fails, any cached copy is served instead, however old.
// Only text that parses to at least one channel is cached, so an error page
// answered with 200 never replaces the last good copy.
type CachedPlaylistSource struct {
	next   driven.PlaylistSource
	db     *bbolt.DB
	ttl    time.Duration
	now    func() time.Time
	logger *slog.Logger
}

// NewCachedPlaylistSource creates a cache in front of next. A zero ttl
// always consults next first and keeps the cache only as a fallback.
func NewCachedPlaylistSource(next driven.PlaylistSource, db *bbolt.DB, ttl time.Duration, logger *slog.Logger) (*CachedPlaylistSource, error) {
	if next == nil {
		return nil, errors.New("source cannot be nil")
	}
	if db == nil {
		return nil, errors.New("db cannot be nil")
	}

	err := db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(playlistCacheBucket))
		return err
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create playlist cache bucket")
	}

	return &CachedPlaylistSource{
		next:   next,
		db:     db,
		ttl:    ttl,
		now:    time.Now,
		logger: logger,
	}, nil
}

// cacheEntryDTO is used for JSON serialization.
type cacheEntryDTO struct {
	Content   string    `json:"content"`
	FetchedAt time.Time `json:"fetched_at"`
}

// Fetch returns a fresh cached copy of location when there is one, otherwise
// fetches it from the wrapped source and caches the result.
func (s *CachedPlaylistSource) Fetch(ctx context.Context, location string) (string, error) {
	entry, found, err := s.get(location)
	if err != nil {
		s.logger.Warn("failed to read playlist cache", "location", location, "error", err)
	}

	if found {
		age := s.now().Sub(entry.FetchedAt)
		if s.ttl > 0 && age <= s.ttl {
			s.logger.Debug("serving fresh cached playlist", "location", location, "age", age)
			metrics.RecordCacheResult(metrics.CacheFresh)
			return entry.Content, nil
		}
	}

	text, fetchErr := s.next.Fetch(ctx, location)
	if fetchErr == nil {
		metrics.RecordCacheResult(metrics.CacheMiss)
		if len(m3u.Parse(text)) == 0 {
			s.logger.Warn("not caching text without channels", "location", location, "bytes", len(text))
			return text, nil
		}
		if setErr := s.set(location, text); setErr != nil {
			s.logger.Warn("failed to update playlist cache", "location", location, "error", setErr)
		}
		return text, nil
	}

	if !found {
		return "", errors.Wrap(fetchErr, "upstream fetch failed and no cache available")
	}

	s.logger.Warn("serving stale cached playlist",
		"location", location,
		"fetched_at", entry.FetchedAt.Format(time.RFC3339),
		"error", fetchErr,
	)
	metrics.RecordCacheResult(metrics.CacheStale)
	return entry.Content, nil
}

func (s *CachedPlaylistSource) get(location string) (cacheEntryDTO, bool, error) {
	var dto cacheEntryDTO
	found := false

	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(playlistCacheBucket))
		if bucket == nil {
			return errors.New("playlist cache bucket not found")
		}

		data := bucket.Get([]byte(location))
		if data == nil {
			return nil
		}
		if err := json.Unmarshal(data, &dto); err != nil {
			return err
		}
		found = true
		return nil
	})

	return dto, found, err
}

func (s *CachedPlaylistSource) set(location, text string) error {
	data, err := json.Marshal(cacheEntryDTO{Content: text, FetchedAt: s.now()})
	if err != nil {
		return err
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(playlistCacheBucket))
		if bucket == nil {
			return errors.New("playlist cache bucket not found")
		}
		return bucket.Put([]byte(location), data)
	})
}

// Ensure CachedPlaylistSource implements the driven.PlaylistSource interface
var _ driven.PlaylistSource = (*CachedPlaylistSource)(nil)
