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

// PriceClient fetches live prices for a list of tokens in one bulk call.
// The result is keyed by token address; tokens the service has no price for
// are simply absent from the map.
type PriceClient interface {
	FetchPrices(ctx context.Context, requests []entity.PriceRequest) (map[string]entity.PriceQuote, error)
}

// priceRequestBody is the body of the bulk price request.
type priceRequestBody struct {
	Tokens []entity.PriceRequest `json:"tokens"`
}

// priceResponse is the expected envelope of the price service response.
type priceResponse struct {
	Prices map[string]entity.PriceQuote `json:"prices"`
}

// priceClientImpl is the implementation of PriceClient.
type priceClientImpl struct {
	client  *fasthttp.Client
	baseURL string
	timeout time.Duration
	logger  *zap.Logger
}

// NewPriceClient creates a new instance of priceClientImpl.
func NewPriceClient(baseURL string, timeout time.Duration, logger *zap.Logger) PriceClient {
	return &priceClientImpl{
		client:  &fasthttp.Client{},
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: timeout,
		logger:  logger.Named("PriceClient"),
	}
}

// FetchPrices implements the PriceClient interface.
func (c *priceClientImpl) FetchPrices(ctx context.Context, requests []entity.PriceRequest) (map[string]entity.PriceQuote, error) {
	if len(requests) == 0 {
		return map[string]entity.PriceQuote{}, nil
	}

	payload, err := json.Marshal(priceRequestBody{Tokens: requests})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal price request: %w", err)
	}

	requestURL := c.baseURL + "/v1/prices"
	c.logger.Debug("Requesting token prices", zap.Int("tokenCount", len(requests)))

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
			c.logger.Error("Failed to execute price request", zap.Error(err))
			return nil, fmt.Errorf("failed to execute price request: %w", err)
		}
	} else {
		if err := c.client.DoTimeout(req, resp, c.timeout); err != nil {
			c.logger.Error("Failed to execute price request (with default timeout)", zap.Error(err))
			return nil, fmt.Errorf("failed to execute price request with default timeout: %w", err)
		}
	}

	rawBody := resp.Body()
	if resp.StatusCode() != fasthttp.StatusOK {
		c.logger.Error("Price service request failed",
			zap.Int("statusCode", resp.StatusCode()),
			zap.ByteString("responseBody", rawBody))
		return nil, fmt.Errorf("price service request failed with status %d: %s", resp.StatusCode(), string(rawBody))
	}

	var parsed priceResponse
	if err := json.Unmarshal(rawBody, &parsed); err != nil {
		c.logger.Error("Failed to unmarshal price service response",
			zap.ByteString("responseBody", rawBody),
			zap.Error(err))
		return nil, fmt.Errorf("failed to unmarshal price service response: %w", err)
	}
	if parsed.Prices == nil {
		return map[string]entity.PriceQuote{}, nil
	}
	return parsed.Prices, nil
}
