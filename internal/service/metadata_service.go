package service

import (
	"context"
	"strconv"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"portfolio_aggregator/internal/cache"
	"portfolio_aggregator/internal/client"
	"portfolio_aggregator/internal/entity"
	"portfolio_aggregator/internal/metrics"
	"portfolio_aggregator/internal/pkg/utils"
	"portfolio_aggregator/internal/port"
)

// tokenMetadataServiceImpl implements the TokenMetadataService interface.
type tokenMetadataServiceImpl struct {
	lookupClient         client.TokenLookupClient
	metadataCache        cache.MetadataCache
	maxConcurrentLookups int
	logger               *zap.Logger
}

// NewTokenMetadataService creates a new instance of TokenMetadataService.
func NewTokenMetadataService(
	lookupClient client.TokenLookupClient,
	metadataCache cache.MetadataCache,
	maxConcurrentLookups int,
	logger *zap.Logger,
) port.TokenMetadataService {
	if maxConcurrentLookups <= 0 {
		maxConcurrentLookups = 1
	}
	return &tokenMetadataServiceImpl{
		lookupClient:         lookupClient,
		metadataCache:        metadataCache,
		maxConcurrentLookups: maxConcurrentLookups,
		logger:               logger.Named("TokenMetadataService"),
	}
}

// Enrich resolves metadata for one raw balance. Resolution order is strict:
// cache, then complete provider-supplied metadata, then the lookup service.
// The cache is only written on the two miss paths, never on a hit or a
// failure.
func (s *tokenMetadataServiceImpl) Enrich(ctx context.Context, token entity.RawTokenBalance, network entity.NetworkDescriptor) *entity.TokenMetadata {
	address := token.Address()
	cacheKey := cache.Key(address, network.ChainID)

	if cached, found := s.metadataCache.Get(cacheKey); found {
		metrics.MetadataCacheHits.Inc()
		return &cached
	}
	metrics.MetadataCacheMisses.Inc()

	chainID, err := strconv.Atoi(network.ChainID)
	if err != nil {
		s.logger.Warn("Network descriptor has non-numeric chain id",
			zap.String("chainId", network.ChainID))
	}

	if token.TokenMetadata.IsComplete() {
		metadata := entity.TokenMetadata{
			Address:  address,
			Name:     *token.TokenMetadata.Name,
			Symbol:   *token.TokenMetadata.Symbol,
			Decimals: *token.TokenMetadata.Decimals,
			LogoURI:  *token.TokenMetadata.Logo,
			ChainID:  chainID,
		}
		s.metadataCache.Set(cacheKey, metadata)
		return &metadata
	}

	looked := s.lookupClient.LookupToken(ctx, utils.ChecksumAddress(address), network.ChainID)
	if looked == nil || looked.Decimals == nil {
		reason := "not_found"
		if looked != nil {
			reason = "missing_decimals"
		}
		metrics.TokenLookupFailures.WithLabelValues(reason).Inc()
		s.logger.Warn("No usable metadata found for token",
			zap.String("tokenAddress", address),
			zap.String("chainId", network.ChainID),
			zap.String("reason", reason))
		return nil
	}

	metadata := entity.TokenMetadata{
		Address:  address,
		Name:     looked.Name,
		Symbol:   looked.Symbol,
		Decimals: *looked.Decimals,
		LogoURI:  looked.LogoURI,
		ChainID:  chainID,
	}
	s.metadataCache.Set(cacheKey, metadata)
	return &metadata
}

// ResolveMany resolves metadata for an explicit address list on one chain.
// Cache hits are collected first; misses fan out to the lookup service
// concurrently, bounded by maxConcurrentLookups. Individual failures are
// logged and excluded; the result always contains whatever resolved. Cache
// writes complete before ResolveMany returns, so callers may rely on the
// cache being up to date.
func (s *tokenMetadataServiceImpl) ResolveMany(ctx context.Context, addresses []string, chainID string) map[string]entity.TokenMetadata {
	result := make(map[string]entity.TokenMetadata, len(addresses))
	var toFetch []string

	for _, address := range addresses {
		cacheKey := cache.Key(address, chainID)
		if cached, found := s.metadataCache.Get(cacheKey); found {
			metrics.MetadataCacheHits.Inc()
			result[cacheKey] = cached
			continue
		}
		metrics.MetadataCacheMisses.Inc()
		toFetch = append(toFetch, address)
	}

	if len(toFetch) == 0 {
		return result
	}

	chainIDInt, err := strconv.Atoi(chainID)
	if err != nil {
		s.logger.Warn("Non-numeric chain id in batch metadata resolution",
			zap.String("chainId", chainID))
	}

	var mu sync.Mutex
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(s.maxConcurrentLookups)

	for _, address := range toFetch {
		addr := address
		eg.Go(func() error {
			looked := s.lookupClient.LookupToken(egCtx, utils.ChecksumAddress(addr), chainID)
			if looked == nil {
				metrics.TokenLookupFailures.WithLabelValues("not_found").Inc()
				s.logger.Warn("No metadata found for token",
					zap.String("tokenAddress", addr),
					zap.String("chainId", chainID))
				return nil
			}
			if looked.Decimals == nil {
				metrics.TokenLookupFailures.WithLabelValues("missing_decimals").Inc()
				s.logger.Warn("No decimals found for token",
					zap.String("tokenAddress", addr),
					zap.String("chainId", chainID))
				return nil
			}

			metadata := entity.TokenMetadata{
				Address:  addr,
				Name:     looked.Name,
				Symbol:   looked.Symbol,
				Decimals: *looked.Decimals,
				LogoURI:  looked.LogoURI,
				ChainID:  chainIDInt,
			}
			cacheKey := cache.Key(addr, chainID)
			s.metadataCache.Set(cacheKey, metadata)

			mu.Lock()
			result[cacheKey] = metadata
			mu.Unlock()
			return nil
		})
	}

	// Goroutines only ever return nil; Wait is for completion, not errors.
	_ = eg.Wait()
	return result
}
