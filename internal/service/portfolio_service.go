package service

import (
	"context"
	"fmt"
	"math/big"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"portfolio_aggregator/internal/chains"
	"portfolio_aggregator/internal/client"
	"portfolio_aggregator/internal/entity"
	"portfolio_aggregator/internal/metrics"
	"portfolio_aggregator/internal/pkg/utils"
	"portfolio_aggregator/internal/port"
)

// portfolioServiceImpl implements the PortfolioService interface.
type portfolioServiceImpl struct {
	balanceClient            client.BalanceClient
	metadataSvc              port.TokenMetadataService
	priceClient              client.PriceClient
	maxConcurrentEnrichments int
	logger                   *zap.Logger
}

// NewPortfolioService creates a new instance of PortfolioService.
func NewPortfolioService(
	balanceClient client.BalanceClient,
	metadataSvc port.TokenMetadataService,
	priceClient client.PriceClient,
	maxConcurrentEnrichments int,
	logger *zap.Logger,
) port.PortfolioService {
	if maxConcurrentEnrichments <= 0 {
		maxConcurrentEnrichments = 1
	}
	return &portfolioServiceImpl{
		balanceClient:            balanceClient,
		metadataSvc:              metadataSvc,
		priceClient:              priceClient,
		maxConcurrentEnrichments: maxConcurrentEnrichments,
		logger:                   logger.Named("PortfolioService"),
	}
}

// positiveBalance pairs a surviving raw balance with its parsed value so the
// big.Int is only parsed once.
type positiveBalance struct {
	raw     entity.RawTokenBalance
	balance *big.Int
}

// enrichedHolding is a holding that made it through metadata enrichment and
// decimal conversion, awaiting its price.
type enrichedHolding struct {
	metadata entity.TokenMetadata
	amount   float64
	chain    string
	address  string
}

// BuildPortfolio implements the PortfolioService interface. The pipeline is
// balance fetch, positivity filter, concurrent metadata enrichment, decimal
// conversion, one bulk price fetch, and dust filtering. Per-token failures
// inside the pipeline drop the token and continue; everything else is fatal
// for the request.
func (s *portfolioServiceImpl) BuildPortfolio(ctx context.Context, walletAddress string) ([]entity.PortfolioItem, error) {
	timer := prometheus.NewTimer(metrics.PortfolioBuildDuration)
	defer timer.ObserveDuration()

	s.logger.Info("Building portfolio", zap.String("walletAddress", walletAddress))

	response, err := s.balanceClient.GetTokenBalances(ctx, walletAddress, chains.NetworkIDs())
	if err != nil {
		metrics.PortfolioRequests.WithLabelValues("error").Inc()
		s.logger.Error("Failed to fetch token balances", zap.String("walletAddress", walletAddress), zap.Error(err))
		return nil, fmt.Errorf("failed to fetch token balances: %w", err)
	}

	positives, err := s.filterPositiveBalances(response.Data.Tokens)
	if err != nil {
		metrics.PortfolioRequests.WithLabelValues("error").Inc()
		s.logger.Error("Failed to filter balances", zap.String("walletAddress", walletAddress), zap.Error(err))
		return nil, err
	}

	holdings := s.enrichHoldings(ctx, positives)
	if len(holdings) == 0 {
		metrics.PortfolioRequests.WithLabelValues("ok").Inc()
		s.logger.Info("No resolvable holdings for wallet", zap.String("walletAddress", walletAddress))
		return []entity.PortfolioItem{}, nil
	}

	priceRequests := lo.Map(holdings, func(h enrichedHolding, _ int) entity.PriceRequest {
		return entity.PriceRequest{Address: h.address, Chain: h.chain}
	})
	prices, err := s.priceClient.FetchPrices(ctx, priceRequests)
	if err != nil {
		metrics.PortfolioRequests.WithLabelValues("error").Inc()
		s.logger.Error("Failed to fetch token prices", zap.String("walletAddress", walletAddress), zap.Error(err))
		return nil, fmt.Errorf("failed to fetch token prices: %w", err)
	}

	items := s.assembleItems(holdings, prices)
	metrics.PortfolioRequests.WithLabelValues("ok").Inc()
	s.logger.Info("Portfolio built",
		zap.String("walletAddress", walletAddress),
		zap.Int("holdingCount", len(holdings)),
		zap.Int("itemCount", len(items)))
	return items, nil
}

// filterPositiveBalances drops every balance that parses to an integer <= 0.
// Balances stay in arbitrary precision here; a balance string that does not
// parse as an integer at all violates the provider contract and is fatal.
func (s *portfolioServiceImpl) filterPositiveBalances(tokens []entity.RawTokenBalance) ([]positiveBalance, error) {
	positives := make([]positiveBalance, 0, len(tokens))
	for _, token := range tokens {
		balance, err := utils.ParseRawBalance(token.TokenBalance)
		if err != nil {
			return nil, fmt.Errorf("unparseable token balance %q on network %s: %w", token.TokenBalance, token.Network, err)
		}
		if balance.Sign() <= 0 {
			continue
		}
		positives = append(positives, positiveBalance{raw: token, balance: balance})
	}
	return positives, nil
}

// enrichHoldings resolves metadata for each surviving balance concurrently
// and converts raw balances into human-readable amounts. Tokens on unknown
// networks or without resolvable metadata are dropped.
func (s *portfolioServiceImpl) enrichHoldings(ctx context.Context, positives []positiveBalance) []enrichedHolding {
	holdings := make([]enrichedHolding, 0, len(positives))
	var mu sync.Mutex

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(s.maxConcurrentEnrichments)

	for _, candidate := range positives {
		c := candidate
		eg.Go(func() error {
			network, ok := chains.ByNetworkID(c.raw.Network)
			if !ok {
				s.logger.Debug("Dropping token on unknown network", zap.String("network", c.raw.Network))
				return nil
			}

			metadata := s.metadataSvc.Enrich(egCtx, c.raw, network)
			if metadata == nil {
				return nil
			}

			holding := enrichedHolding{
				metadata: *metadata,
				amount:   utils.AmountFromRaw(c.balance, metadata.Decimals),
				chain:    network.ChainSlug,
				address:  c.raw.Address(),
			}
			mu.Lock()
			holdings = append(holdings, holding)
			mu.Unlock()
			return nil
		})
	}

	// Enrichment goroutines never return errors; they drop and continue.
	_ = eg.Wait()
	return holdings
}

// assembleItems joins holdings with their price quotes and filters out dust:
// entries with no quote, or whose value rounds to zero at 2 decimal places,
// are excluded.
func (s *portfolioServiceImpl) assembleItems(holdings []enrichedHolding, prices map[string]entity.PriceQuote) []entity.PortfolioItem {
	items := make([]entity.PortfolioItem, 0, len(holdings))
	for _, holding := range holdings {
		quote, ok := prices[holding.address]
		if !ok {
			s.logger.Debug("Dropping token without price quote",
				zap.String("tokenAddress", holding.address),
				zap.String("chain", holding.chain))
			continue
		}

		value := decimal.NewFromFloat(quote.Price).Mul(decimal.NewFromFloat(holding.amount))
		if value.Round(2).IsZero() {
			s.logger.Debug("Dropping dust holding",
				zap.String("tokenAddress", holding.address),
				zap.String("chain", holding.chain),
				zap.Float64("price", quote.Price),
				zap.Float64("amount", holding.amount))
			continue
		}

		items = append(items, entity.PortfolioItem{
			Address:        holding.metadata.Address,
			Name:           holding.metadata.Name,
			Symbol:         holding.metadata.Symbol,
			Decimals:       holding.metadata.Decimals,
			LogoURI:        holding.metadata.LogoURI,
			ChainID:        holding.metadata.ChainID,
			Amount:         holding.amount,
			Chain:          holding.chain,
			Price:          quote.Price,
			PriceChange24h: quote.PriceChange24h,
		})
	}
	return items
}
