package cache

import (
	"fmt"

	gocache "github.com/patrickmn/go-cache"

	"portfolio_aggregator/internal/entity"
)

// MetadataCache is the persistent key-value store for resolved token
// metadata. Keys follow the Key format. Implementations must be safe for
// concurrent independent-key access; records are treated as immutable once
// stored, so concurrent same-key writes are idempotent.
type MetadataCache interface {
	Get(key string) (entity.TokenMetadata, bool)
	Set(key string, metadata entity.TokenMetadata)
}

// Key builds the canonical cache key for a token on a chain. An empty token
// address maps to the zero-address native sentinel.
func Key(tokenAddress, chainID string) string {
	if tokenAddress == "" {
		tokenAddress = entity.ZeroAddress
	}
	return fmt.Sprintf("%s-%s", tokenAddress, chainID)
}

// tokenMetadataCache backs MetadataCache with an in-process go-cache store.
type tokenMetadataCache struct {
	store *gocache.Cache
}

// NewTokenMetadataCache creates a metadata cache with unbounded entry
// lifetime. Metadata has no TTL or invalidation policy; a record is kept
// until process exit.
func NewTokenMetadataCache() MetadataCache {
	return &tokenMetadataCache{
		store: gocache.New(gocache.NoExpiration, 0),
	}
}

func (c *tokenMetadataCache) Get(key string) (entity.TokenMetadata, bool) {
	value, found := c.store.Get(key)
	if !found {
		return entity.TokenMetadata{}, false
	}
	metadata, ok := value.(entity.TokenMetadata)
	if !ok {
		return entity.TokenMetadata{}, false
	}
	return metadata, true
}

func (c *tokenMetadataCache) Set(key string, metadata entity.TokenMetadata) {
	c.store.Set(key, metadata, gocache.NoExpiration)
}
