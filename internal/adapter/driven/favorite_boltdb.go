package driven

import (
	"context"
	"encoding/binary"
	"encoding/json"

	"github.com/cockroachdb/errors"
	"github.com/samber/mo"
	"go.etcd.io/bbolt"

	"github.com/alorle/iptv-viewer/internal/channel"
	"github.com/alorle/iptv-viewer/internal/port/driven"
)

const (
	favoritesBucket = "favorites"
)

// FavoriteBoltDBRepository implements the FavoriteRepository port using BoltDB.
// Favorites are stored under increasing sequence keys so that iteration
// returns them in the order they were saved.
type FavoriteBoltDBRepository struct {
	db *bbolt.DB
}

// NewFavoriteBoltDBRepository creates a new BoltDB-backed favorite repository.
// It initializes the required bucket if it doesn't exist.
func NewFavoriteBoltDBRepository(db *bbolt.DB) (*FavoriteBoltDBRepository, error) {
	if db == nil {
		return nil, errors.New("db cannot be nil")
	}

	err := db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(favoritesBucket))
		return err
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create favorites bucket")
	}

	return &FavoriteBoltDBRepository{db: db}, nil
}

// favoriteDTO is used for JSON serialization. Optional attributes are
// pointers so that "absent" and "empty" survive a round trip.
type favoriteDTO struct {
	Title string  `json:"title"`
	URL   string  `json:"url"`
	Logo  *string `json:"logo,omitempty"`
	ID    *string `json:"id,omitempty"`
	Group *string `json:"group,omitempty"`
}

func favoriteToDTO(ch channel.Channel) favoriteDTO {
	return favoriteDTO{
		Title: ch.Title(),
		URL:   ch.URL(),
		Logo:  ch.Logo().ToPointer(),
		ID:    ch.ID().ToPointer(),
		Group: ch.Group().ToPointer(),
	}
}

func dtoToFavorite(dto favoriteDTO) channel.Channel {
	return channel.ReconstructChannel(
		dto.Title,
		dto.URL,
		mo.PointerToOption(dto.Logo),
		mo.PointerToOption(dto.ID),
		mo.PointerToOption(dto.Group),
	)
}

// Load retrieves all favorites from BoltDB in saved order.
func (r *FavoriteBoltDBRepository) Load(ctx context.Context) ([]channel.Channel, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	channels := []channel.Channel{}

	err := r.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(favoritesBucket))
		if bucket == nil {
			return errors.New("favorites bucket not found")
		}

		return bucket.ForEach(func(k, v []byte) error {
			var dto favoriteDTO
			if err := json.Unmarshal(v, &dto); err != nil {
				return errors.Wrapf(err, "failed to decode favorite %x", k)
			}
			channels = append(channels, dtoToFavorite(dto))
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	return channels, nil
}

// Replace overwrites all favorites in a single transaction.
func (r *FavoriteBoltDBRepository) Replace(ctx context.Context, channels []channel.Channel) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return r.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.DeleteBucket([]byte(favoritesBucket)); err != nil && !errors.Is(err, bbolt.ErrBucketNotFound) {
			return err
		}
		bucket, err := tx.CreateBucket([]byte(favoritesBucket))
		if err != nil {
			return err
		}

		for _, ch := range channels {
			seq, err := bucket.NextSequence()
			if err != nil {
				return err
			}

			data, err := json.Marshal(favoriteToDTO(ch))
			if err != nil {
				return err
			}

			if err := bucket.Put(sequenceKey(seq), data); err != nil {
				return err
			}
		}
		return nil
	})
}

// Ping checks if the BoltDB database is accessible and operational.
func (r *FavoriteBoltDBRepository) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return r.db.View(func(tx *bbolt.Tx) error {
		if tx.Bucket([]byte(favoritesBucket)) == nil {
			return errors.New("favorites bucket not found")
		}
		return nil
	})
}

func sequenceKey(seq uint64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, seq)
	return key
}

// Ensure FavoriteBoltDBRepository implements the driven.FavoriteRepository interface
var _ driven.FavoriteRepository = (*FavoriteBoltDBRepository)(nil)
