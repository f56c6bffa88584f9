package client

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"portfolio_aggregator/internal/entity"
)

// BalanceClient fetches bulk token holdings for a wallet from the balance
// provider across a set of networks in a single call.
type BalanceClient interface {
	GetTokenBalances(ctx context.Context, walletAddress string, networkIDs []string) (*entity.BalanceProviderResponse, error)
}

// balanceRequestAddress is one wallet/networks pair in the provider request.
type balanceRequestAddress struct {
	Address  string   `json:"address"`
	Networks []string `json:"networks"`
}

// balanceRequest is the body of the bulk holdings request.
type balanceRequest struct {
	Addresses           []balanceRequestAddress `json:"addresses"`
	WithMetadata        bool                    `json:"withMetadata"`
	WithPrices          bool                    `json:"withPrices"`
	IncludeNativeTokens bool                    `json:"includeNativeTokens"`
}

// balanceClientImpl is the implementation of BalanceClient.
type balanceClientImpl struct {
	client  *fasthttp.Client
	baseURL string
	apiKey  string
	timeout time.Duration
	logger  *zap.Logger
}

// NewBalanceClient creates a new instance of balanceClientImpl.
func NewBalanceClient(baseURL, apiKey string, timeout time.Duration, logger *zap.Logger) BalanceClient {
	return &balanceClientImpl{
		client:  &fasthttp.Client{},
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		timeout: timeout,
		logger:  logger.Named("BalanceClient"),
	}
}

// GetTokenBalances implements the BalanceClient interface. A response that
// does not match the expected schema is a fatal error for the whole call.
func (c *balanceClientImpl) GetTokenBalances(ctx context.Context, walletAddress string, networkIDs []string) (*entity.BalanceProviderResponse, error) {
	if walletAddress == "" {
		return nil, fmt.Errorf("walletAddress cannot be empty")
	}
	if len(networkIDs) == 0 {
		return nil, fmt.Errorf("networkIDs cannot be empty")
	}

	requestURL := fmt.Sprintf("%s/data/v1/%s/assets/tokens/by-address", c.baseURL, c.apiKey)
	body := balanceRequest{
		Addresses: []balanceRequestAddress{
			{Address: walletAddress, Networks: networkIDs},
		},
		WithMetadata:        true,
		WithPrices:          true,
		IncludeNativeTokens: true,
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal balance request: %w", err)
	}

	c.logger.Debug("Requesting token balances from balance provider",
		zap.String("walletAddress", walletAddress),
		zap.Strings("networks", networkIDs))

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	req.SetRequestURI(requestURL)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentTypeBytes([]byte("application/json"))
	req.Header.Set("Accept", "application/json")
	req.SetBody(payload)

	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	if deadline, ok := ctx.Deadline(); ok {
		if err := c.client.DoDeadline(req, resp, deadline); err != nil {
			c.logger.Error("Failed to execute balance provider request", zap.Error(err))
			return nil, fmt.Errorf("failed to execute balance provider request: %w", err)
		}
	} else {
		if err := c.client.DoTimeout(req, resp, c.timeout); err != nil {
			c.logger.Error("Failed to execute balance provider request (with default timeout)", zap.Error(err))
			return nil, fmt.Errorf("failed to execute balance provider request with default timeout: %w", err)
		}
	}

	rawBody := resp.Body()
	if resp.StatusCode() != fasthttp.StatusOK {
		c.logger.Error("Balance provider request failed",
			zap.Int("statusCode", resp.StatusCode()),
			zap.ByteString("responseBody", rawBody))
		return nil, fmt.Errorf("balance provider request failed with status %d: %s", resp.StatusCode(), string(rawBody))
	}

	var providerResp entity.BalanceProviderResponse
	if err := json.Unmarshal(rawBody, &providerResp); err != nil {
		c.logger.Error("Failed to unmarshal balance provider response",
			zap.ByteString("responseBody", rawBody),
			zap.Error(err))
		return nil, fmt.Errorf("failed to unmarshal balance provider response: %w", err)
	}
	if err := providerResp.Validate(); err != nil {
		c.logger.Error("Balance provider response failed schema validation",
			zap.ByteString("responseBody", rawBody),
			zap.Error(err))
		return nil, fmt.Errorf("balance provider response failed schema validation: %w", err)
	}

	c.logger.Debug("Balance provider returned tokens",
		zap.String("walletAddress", walletAddress),
		zap.Int("tokenCount", len(providerResp.Data.Tokens)))
	return &providerResp, nil
}
