package ratelimit

import (
	"context"
	"time"
)

// Store counts requests per key inside a sliding window.
type Store interface {
	// Record registers a request under the key and returns how many
	// requests the key has made within the window, pruning expired entries.
	Record(ctx context.Context, key string, window time.Duration) (count int64, err error)
}
