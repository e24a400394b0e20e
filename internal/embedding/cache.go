package embedding

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// CachedProvider memoises embeddings in Redis. Cache failures are logged
// and fall through to the wrapped provider.
type CachedProvider struct {
	next      Provider
	client    *redis.Client
	ttl       time.Duration
	namespace string
}

func NewCachedProvider(next Provider, client *redis.Client, ttl time.Duration, namespace string) *CachedProvider {
	return &CachedProvider{
		next:      next,
		client:    client,
		ttl:       ttl,
		namespace: namespace,
	}
}

// Key is the cache key for text. The namespace keeps vectors of different
// models apart.
func (c *CachedProvider) Key(text string) string {
	sum := sha256.Sum256([]byte(text))
	return "embedding:" + c.namespace + ":" + hex.EncodeToString(sum[:])
}

func (c *CachedProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	key := c.Key(text)

	raw, err := c.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var vec []float32
		if jsonErr := json.Unmarshal(raw, &vec); jsonErr == nil && len(vec) > 0 {
			return vec, nil
		}
		log.Printf("[EMBED CACHE] dropping unreadable entry %s", key)
	case !errors.Is(err, redis.Nil):
		log.Printf("[EMBED CACHE] get failed: %v", err)
	}

	vec, err := c.next.Embed(ctx, text)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(vec); err == nil {
		if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
			log.Printf("[EMBED CACHE] set failed: %v", err)
		}
	}
	return vec, nil
}
