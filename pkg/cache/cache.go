package cache

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/dgraph-io/ristretto"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
)

type Cacher interface {
	// Get returns true if get a hit in the cache and are able to deserialize
	// into the provided struct
	Get(key string, into any) bool

	// Set will serialize the provided data and store it in our cache
	Set(key string, val any)

	Stats() Statistics
}

type Statistics struct {
	TotalRequests int
	TotalHits     int
	TotalMisses   int
}

type Client struct {
	expiresAfter time.Duration
	cache        *ristretto.Cache
	log          zerolog.Logger

	requests *int32
	hits     *int32
}

func (c *Client) Get(key string, into any) bool {
	atomic.AddInt32(c.requests, 1)

	raw, found := c.cache.Get(key)
	if !found {
		c.log.Debug().Msgf("cache miss on: %s", key)
		return false
	}

	data, ok := raw.([]byte)
	if !ok {
		c.log.Info().Msgf("unexpected cached value type %T: %s", raw, key)
		return false
	}

	err := json.Unmarshal(data, into)
	if err != nil {
		c.log.Info().Err(err).Msgf("deserializing cached value: %s", key)
		return false
	}

	atomic.AddInt32(c.hits, 1)

	return true
}

// Set stores the serialized value and waits until it is visible to Get.
func (c *Client) Set(key string, val any) {
	data, err := json.Marshal(val)
	if err != nil {
		c.log.Info().Err(err).Msgf("serializing value for cache: %s", key)
		return
	}

	if !c.cache.SetWithTTL(key, data, 1, c.expiresAfter) {
		c.log.Info().Msgf("cache rejected value: %s", key)
		return
	}

	c.cache.Wait()
}

func (c *Client) Stats() Statistics {
	requests := atomic.LoadInt32(c.requests)
	hits := atomic.LoadInt32(c.hits)

	return Statistics{
		TotalRequests: int(requests),
		TotalHits:     int(hits),
		TotalMisses:   int(requests - hits),
	}
}

func (c *Client) Close() {
	c.cache.Close()
}

// New returns an in-memory cache holding at most maxEntries values, each
// expiring after expiresAfter.
func New(expiresAfter time.Duration, maxEntries int64, log zerolog.Logger) (*Client, error) {
	if maxEntries <= 0 {
		return nil, fmt.Errorf("max entries must be positive, got %d", maxEntries)
	}

	c, err := ristretto.NewCache(&ristretto.Config{
		NumCounters:        maxEntries * 10,
		MaxCost:            maxEntries,
		BufferItems:        64,
		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, fmt.Errorf("creating cache: %w", err)
	}

	return &Client{
		expiresAfter: expiresAfter,
		cache:        c,
		log:          log,
		hits:         new(int32),
		requests:     new(int32),
	}, nil
}
