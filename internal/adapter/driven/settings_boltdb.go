package driven

import (
	"context"

	"github.com/cockroachdb/errors"
	"go.etcd.io/bbolt"

	"github.com/alorle/iptv-viewer/internal/port/driven"
)

const (
	settingsBucket = "settings"
	lastURLKey     = "last_url"
)

// SettingsBoltDBRepository implements the SettingsRepository port using BoltDB.
type SettingsBoltDBRepository struct {
	db *bbolt.DB
}

// NewSettingsBoltDBRepository creates a new BoltDB-backed settings repository.
func NewSettingsBoltDBRepository(db *bbolt.DB) (*SettingsBoltDBRepository, error) {
	if db == nil {
		return nil, errors.New("db cannot be nil")
	}

	err := db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(settingsBucket))
		return err
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create settings bucket")
	}

	return &SettingsBoltDBRepository{db: db}, nil
}

// LastURL returns the last recorded playlist URL, or "" when none was recorded.
func (r *SettingsBoltDBRepository) LastURL(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var url string
	err := r.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(settingsBucket))
		if bucket == nil {
			return errors.New("settings bucket not found")
		}
		url = string(bucket.Get([]byte(lastURLKey)))
		return nil
	})

	return url, err
}

// SetLastURL records url as the last successfully loaded playlist URL.
func (r *SettingsBoltDBRepository) SetLastURL(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return r.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(settingsBucket))
		if bucket == nil {
			return errors.New("settings bucket not found")
		}
		return bucket.Put([]byte(lastURLKey), []byte(url))
	})
}

// Ensure SettingsBoltDBRepository implements the driven.SettingsRepository interface
var _ driven.SettingsRepository = (*SettingsBoltDBRepository)(nil)
