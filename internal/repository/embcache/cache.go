package embcache

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/vedarag/internal/db"
)

// KeyPrefix namespaces embedding entries in a shared KV store.
const KeyPrefix = "embedding:"

// DefaultTTL is how long a cached embedding stays valid after a write.
const DefaultTTL = 7 * 24 * time.Hour

// store is the consumer interface for the embedding cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Cache maps embedding text to vectors. It never returns errors: backend and
// decode failures are logged, counted, and treated as a miss.
type Cache struct {
	store   store
	backend string
	ttl     time.Duration
	total   *prometheus.CounterVec
	logger  *zap.Logger
}

// Option configures a Cache.
type Option func(*Cache)

// WithTTL overrides DefaultTTL.
func WithTTL(ttl time.Duration) Option {
	return func(c *Cache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithMetrics sets the counter vec with labels "backend" and "result"
// (hit / miss / error).
func WithMetrics(total *prometheus.CounterVec) Option {
	return func(c *Cache) { c.total = total }
}

// NewCache wraps s. backend labels log lines and metrics.
func NewCache(s store, backend string, logger *zap.Logger, opts ...Option) *Cache {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Cache{
		store:   s,
		backend: backend,
		ttl:     DefaultTTL,
		logger:  logger,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Key returns the store key for text.
func Key(text string) string { return KeyPrefix + text }

// Get looks up the vector cached for text.
func (c *Cache) Get(ctx context.Context, text string) ([]float32, bool) {
	key := Key(text)
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			c.inc("miss")
		} else {
			c.inc("error")
			c.logger.Warn("Failed to get cached embedding",
				zap.String("backend", c.backend), zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}
	if len(data) == 0 {
		c.inc("miss")
		return nil, false
	}

	vec, err := bytesToVector(data)
	if err != nil {
		c.inc("error")
		c.logger.Warn("Failed to parse cached embedding",
			zap.String("backend", c.backend), zap.String("key", key), zap.Error(err))
		return nil, false
	}

	c.inc("hit")
	return vec, true
}

// Put stores vec for text. Failures are logged and swallowed.
func (c *Cache) Put(ctx context.Context, text string, vec []float32) {
	key := Key(text)
	if err := c.store.SetWithTTL(ctx, key, vectorToBytes(vec), c.ttl); err != nil {
		c.inc("error")
		c.logger.Warn("Failed to cache embedding",
			zap.String("backend", c.backend), zap.String("key", key), zap.Error(err))
	}
}

func (c *Cache) inc(result string) {
	if c.total != nil {
		c.total.WithLabelValues(c.backend, result).Inc()
	}
}

func vectorToBytes(v []float32) []byte {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

func bytesToVector(data []byte) ([]float32, error) {
	if len(data)%4 != 0 {
		return nil, fmt.Errorf("invalid embedding cache data: len=%d (not multiple of 4)", len(data))
	}
	vec := make([]float32, len(data)/4)
	for i := range vec {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return vec, nil
}
