package cache

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	logger "github.com/Aisenh037/MBC-sub002/logging"
)

// TTLClass is a named expiration bucket applied uniformly to a category of
// cached data.
type TTLClass int

const (
	TTLShort   TTLClass = iota // frequently-changing lists
	TTLMedium                  // moderately stable lists, dashboards
	TTLLong                    // rarely-changing reference data
	TTLSession                 // login session blobs
)

func (c TTLClass) String() string {
	switch c {
	case TTLShort:
		return "short"
	case TTLMedium:
		return "medium"
	case TTLLong:
		return "long"
	case TTLSession:
		return "session"
	}
	return "unknown"
}

// TTLs maps each class to its duration. Zero-valued entries fall back to the
// defaults below.
type TTLs struct {
	Short   time.Duration
	Medium  time.Duration
	Long    time.Duration
	Session time.Duration
}

func DefaultTTLs() TTLs {
	return TTLs{
		Short:   60 * time.Second,
		Medium:  5 * time.Minute,
		Long:    30 * time.Minute,
		Session: 24 * time.Hour,
	}
}

func (t TTLs) For(class TTLClass) time.Duration {
	d := DefaultTTLs()
	switch class {
	case TTLShort:
		if t.Short > 0 {
			return t.Short
		}
		return d.Short
	case TTLMedium:
		if t.Medium > 0 {
			return t.Medium
		}
		return d.Medium
	case TTLLong:
		if t.Long > 0 {
			return t.Long
		}
		return d.Long
	case TTLSession:
		if t.Session > 0 {
			return t.Session
		}
		return d.Session
	}
	return d.Medium
}

// Cache implements the cache-aside pattern over a Store. Every store failure
// is recovered locally: the layer degrades to computing fresh values and must
// never fail the read path.
type Cache struct {
	store  Store
	prefix string
	ttls   TTLs
}

func New(store Store, prefix string, ttls TTLs) *Cache {
	return &Cache{store: store, prefix: prefix, ttls: ttls}
}

// TTLFor exposes the duration configured for a class.
func (c *Cache) TTLFor(class TTLClass) time.Duration {
	return c.ttls.For(class)
}

func (c *Cache) namespaced(key string) string {
	if c.prefix == "" {
		return key
	}
	return c.prefix + ":" + key
}

// GetOrSet looks up prefix:key. On a hit it decodes the stored value into
// dest and returns hit=true. On a miss it runs compute, stores the JSON
// result with the class TTL, decodes it into dest and returns hit=false.
// Store errors are logged and the call falls through to compute.
func (c *Cache) GetOrSet(ctx context.Context, key string, class TTLClass, dest interface{}, compute func(ctx context.Context) (interface{}, error)) (bool, error) {
	full := c.namespaced(key)

	raw, err := c.store.Get(ctx, full)
	if err == nil {
		if uerr := json.Unmarshal(raw, dest); uerr == nil {
			logger.Debug("Cache hit", zap.String("key", full))
			return true, nil
		}
		// Corrupt entry: drop it and recompute.
		if _, derr := c.store.Del(ctx, full); derr != nil {
			logger.Warn("Failed to drop corrupt cache entry", zap.Error(derr), zap.String("key", full))
		}
	} else if err != ErrNotFound {
		logger.Warn("Cache store unavailable, computing fresh",
			zap.Error(err), zap.String("key", full))
	}

	value, err := compute(ctx)
	if err != nil {
		return false, err
	}

	encoded, err := json.Marshal(value)
	if err != nil {
		// Not a store failure: the computed value itself is unserializable.
		return false, err
	}

	if serr := c.store.Set(ctx, full, encoded, c.ttls.For(class)); serr != nil {
		logger.Warn("Failed to populate cache", zap.Error(serr), zap.String("key", full))
	} else {
		logger.Debug("Cache populated",
			zap.String("key", full),
			zap.String("ttlClass", class.String()))
	}

	return false, json.Unmarshal(encoded, dest)
}

// SetRaw stores an already-serialized payload under prefix:key. Used by the
// request-level page cache. Failures are logged, never returned upward.
func (c *Cache) SetRaw(ctx context.Context, key string, payload []byte, class TTLClass) {
	full := c.namespaced(key)
	if err := c.store.Set(ctx, full, payload, c.ttls.For(class)); err != nil {
		logger.Warn("Failed to populate cache", zap.Error(err), zap.String("key", full))
		return
	}
	logger.Debug("Cache populated", zap.String("key", full), zap.String("ttlClass", class.String()))
}

// GetRaw fetches the serialized payload for prefix:key, or nil on miss or
// store failure.
func (c *Cache) GetRaw(ctx context.Context, key string) []byte {
	full := c.namespaced(key)
	raw, err := c.store.Get(ctx, full)
	if err != nil {
		if err != ErrNotFound {
			logger.Warn("Cache store unavailable", zap.Error(err), zap.String("key", full))
		}
		return nil
	}
	return raw
}

// Delete removes a single key under the prefix.
func (c *Cache) Delete(ctx context.Context, key string) error {
	_, err := c.store.Del(ctx, c.namespaced(key))
	return err
}

// InvalidatePattern deletes every key matching the glob pattern under the
// prefix and returns the count deleted. Invalidating an already-empty
// pattern is a no-op returning zero.
func (c *Cache) InvalidatePattern(ctx context.Context, pattern string) (int64, error) {
	full := c.namespaced(pattern)
	count, err := c.store.DelPattern(ctx, full)
	if err != nil {
		logger.Warn("Cache invalidation failed", zap.Error(err), zap.String("pattern", full))
		return count, err
	}
	logger.Info("Cache invalidated",
		zap.String("pattern", full),
		zap.Int64("deleted", count))
	return count, nil
}
