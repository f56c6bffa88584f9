package port

import (
	"context"

	"portfolio_aggregator/internal/entity"
)

// PortfolioService assembles a wallet's price-annotated portfolio across all
// supported networks.
type PortfolioService interface {
	// BuildPortfolio fetches, enriches and values the wallet's holdings.
	// Per-token failures silently exclude the token; a balance-provider
	// schema mismatch or any other orchestration failure is returned as an
	// error for the whole request. Item order is not guaranteed.
	BuildPortfolio(ctx context.Context, walletAddress string) ([]entity.PortfolioItem, error)
}
