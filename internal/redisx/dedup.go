package redisx

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Deduper remembers processed event ids per consuming service.
type Deduper struct {
	RDB     *redis.Client
	Service string
}

// FirstSeen reports true exactly once per event id within TTLDedup.
func (d *Deduper) FirstSeen(ctx context.Context, eventID string) (bool, error) {
	key := fmt.Sprintf(KeyDedup, d.Service, eventID)
	return d.RDB.SetNX(ctx, key, "1", TTLDedup).Result()
}
