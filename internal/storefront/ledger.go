package storefront

import (
	"context"
	"encoding/json"

	"github.com/ariefcatur/zander-storefront/internal/blob"
	"go.uber.org/zap"
)

// loadJSON decodes the blob under key. A missing key and an undecodable value both yield the zero
// value; the latter is logged and otherwise ignored. Only store failures are returned.
func loadJSON[T any](ctx context.Context, store blob.Store, key string, log *zap.Logger) (T, error) {
	var out T
	raw, found, err := store.Get(ctx, key)
	if err != nil || !found || raw == "" {
		return out, err
	}
	return decodeJSON[T](raw, key, log), nil
}

func decodeJSON[T any](raw, key string, log *zap.Logger) T {
	var out T
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		log.Warn("discarding malformed stored blob", zap.String("key", key), zap.Error(err))
		var zero T
		return zero
	}
	return out
}

func saveJSON(ctx context.Context, store blob.Store, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return store.Set(ctx, key, string(b))
}
