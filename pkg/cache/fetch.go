package cache

import (
	"context"
	"time"

	"github.com/matzehuels/graphcore/pkg/observability"
)

// Fetch returns the entry for key, computing and storing it on a miss. The
// bool reports a hit. Cache failures never fail the call: a read error is
// treated as a miss and a write error is ignored.
func Fetch(ctx context.Context, c Cache, key string, ttl time.Duration, compute func() ([]byte, error)) ([]byte, bool, error) {
	keyType := KeyType(key)
	if data, hit, err := c.Get(ctx, key); err == nil && hit {
		observability.Cache().OnCacheHit(ctx, keyType)
		return data, true, nil
	}
	observability.Cache().OnCacheMiss(ctx, keyType)

	data, err := compute()
	if err != nil {
		return nil, false, err
	}
	if err := c.Set(ctx, key, data, ttl); err == nil {
		observability.Cache().OnCacheSet(ctx, keyType, len(data))
	}
	return data, false, nil
}
