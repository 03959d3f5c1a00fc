package redisx

import "time"

const (
	// Blob store namespace: blob:{key} -> raw value
	KeyBlob = "blob:%s"

	// Dedup event processing: dedup:{service}:{event_id}
	KeyDedup = "dedup:%s:%s"
)

var (
	TTLDedup = 48 * time.Hour
)

// optimistic transaction retries for Store.Update
const maxUpdateRetries = 8
