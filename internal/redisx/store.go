package redisx

import (
	"context"
	"errors"
	"fmt"

	"github.com/ariefcatur/zander-storefront/internal/blob"
	"github.com/redis/go-redis/v9"
)

// Store is a blob.Store backed by plain Redis string keys.
type Store struct{ RDB *redis.Client }

var _ blob.Store = (*Store)(nil)

func (s *Store) key(k string) string { return fmt.Sprintf(KeyBlob, k) }

func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := s.RDB.Get(ctx, s.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (s *Store) Set(ctx context.Context, key, value string) error {
	return s.RDB.Set(ctx, s.key(key), value, 0).Err()
}

func (s *Store) Remove(ctx context.Context, key string) error {
	return s.RDB.Del(ctx, s.key(key)).Err()
}

// Update uses WATCH/MULTI: the write only lands if nobody touched the key since it was read.
func (s *Store) Update(ctx context.Context, key string, fn blob.UpdateFunc) error {
	k := s.key(key)
	txf := func(tx *redis.Tx) error {
		cur, err := tx.Get(ctx, k).Result()
		found := true
		if errors.Is(err, redis.Nil) {
			cur, found = "", false
		} else if err != nil {
			return err
		}
		next, err := fn(cur, found)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, k, next, 0)
			return nil
		})
		return err
	}

	for i := 0; i < maxUpdateRetries; i++ {
		err := s.RDB.Watch(ctx, txf, k)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return err
	}
	return blob.ErrConflict
}
