package restapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"portfolio_aggregator/internal/entity"
	"portfolio_aggregator/internal/pkg/utils"
	"portfolio_aggregator/internal/port"
)

// APIPortfolioResponse is the response envelope of the portfolio endpoint.
type APIPortfolioResponse struct {
	Data struct {
		Items         []entity.PortfolioItem `json:"items"`
		TotalValueUSD float64                `json:"totalValueUSD"`
	} `json:"data"`
	StatusMessage string `json:"status_message"`
}

// PortfolioHandler handles portfolio-related HTTP requests.
type PortfolioHandler struct {
	portfolioService port.PortfolioService
	logger           *zap.Logger
}

// NewPortfolioHandler creates a new instance of PortfolioHandler.
func NewPortfolioHandler(ps port.PortfolioService, logger *zap.Logger) *PortfolioHandler {
	return &PortfolioHandler{
		portfolioService: ps,
		logger:           logger.Named("PortfolioHandler"),
	}
}

// GetPortfolioHandler serves GET /api/v1/portfolio/:address.
func (h *PortfolioHandler) GetPortfolioHandler(c *gin.Context) {
	ctx := c.Request.Context()

	address := c.Param("address")
	if !utils.IsHexAddress(address) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid wallet address"})
		return
	}

	items, err := h.portfolioService.BuildPortfolio(ctx, address)
	if err != nil {
		h.logger.Error("Portfolio build failed",
			zap.String("walletAddress", address),
			zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to build portfolio"})
		return
	}

	var totalValueUSD float64
	for _, item := range items {
		totalValueUSD += item.Price * item.Amount
	}

	response := APIPortfolioResponse{}
	response.Data.Items = items
	response.Data.TotalValueUSD = totalValueUSD
	if len(items) == 0 {
		response.StatusMessage = "No priced holdings found for this wallet."
	} else {
		response.StatusMessage = "Portfolio retrieved successfully."
	}

	c.JSON(http.StatusOK, response)
}
