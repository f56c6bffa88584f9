package port

import (
	"context"

	"portfolio_aggregator/internal/entity"
)

// TokenMetadataService resolves canonical token metadata, preferring the
// cache, then provider-supplied inline metadata, then the fallback lookup
// service.
type TokenMetadataService interface {
	// Enrich resolves metadata for a single raw balance on the given network.
	// It returns nil when no usable metadata can be obtained; the token is
	// then dropped from the portfolio, which is not fatal for the batch.
	Enrich(ctx context.Context, token entity.RawTokenBalance, network entity.NetworkDescriptor) *entity.TokenMetadata

	// ResolveMany resolves metadata for an explicit list of addresses on one
	// chain, fanning out lookups for cache misses concurrently. The result is
	// keyed by cache key; addresses that fail to resolve are excluded, and
	// partial results are always returned.
	ResolveMany(ctx context.Context, addresses []string, chainID string) map[string]entity.TokenMetadata
}
