package client

import (
	"context"
	"fmt"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"portfolio_aggregator/internal/chains"
	"portfolio_aggregator/internal/entity"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// TokenLookupClient fetches single-token metadata from the fallback lookup
// service. LookupToken never returns an error: any transport, status or
// schema failure yields nil, and callers treat nil as "metadata unavailable
// for this token" and keep processing the rest of the batch.
type TokenLookupClient interface {
	LookupToken(ctx context.Context, tokenAddress string, chainIdOrCaip2 string) *entity.LookupToken
}

// tokenLookupClientImpl is the implementation of TokenLookupClient.
type tokenLookupClientImpl struct {
	client  *fasthttp.Client
	baseURL string
	timeout time.Duration
	limiter *rate.Limiter
	logger  *zap.Logger
}

// NewTokenLookupClient creates a new instance of tokenLookupClientImpl.
// Outbound calls are throttled by the given rate limit to keep concurrent
// fan-outs from hammering the lookup service.
func NewTokenLookupClient(baseURL string, timeout time.Duration, rateLimit, burstLimit int, logger *zap.Logger) TokenLookupClient {
	return &tokenLookupClientImpl{
		client:  &fasthttp.Client{},
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: timeout,
		limiter: rate.NewLimiter(rate.Limit(rateLimit), burstLimit),
		logger:  logger.Named("TokenLookupClient"),
	}
}

// LookupToken implements the TokenLookupClient interface. The chain
// identifier may be a CAIP-2 id, a short chain id, or already in the lookup
// service's id space; it is translated via the chain registry before the call.
func (c *tokenLookupClientImpl) LookupToken(ctx context.Context, tokenAddress string, chainIdOrCaip2 string) *entity.LookupToken {
	chainID := chains.ResolveChainID(chainIdOrCaip2)

	if err := c.limiter.Wait(ctx); err != nil {
		c.logger.Warn("Rate limiter wait aborted for token lookup",
			zap.String("tokenAddress", tokenAddress),
			zap.Error(err))
		return nil
	}

	requestURL := fmt.Sprintf("%s/v1/token?token=%s&chain=%s", c.baseURL, tokenAddress, chainID)
	c.logger.Debug("Requesting token metadata from lookup service", zap.String("url", requestURL))

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	req.SetRequestURI(requestURL)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.SetContentTypeBytes([]byte("application/json"))
	req.Header.Set("Accept", "application/json")

	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	if deadline, ok := ctx.Deadline(); ok {
		if err := c.client.DoDeadline(req, resp, deadline); err != nil {
			c.logger.Warn("Failed to execute token lookup request",
				zap.String("url", requestURL),
				zap.Error(err))
			return nil
		}
	} else {
		if err := c.client.DoTimeout(req, resp, c.timeout); err != nil {
			c.logger.Warn("Failed to execute token lookup request (with default timeout)",
				zap.String("url", requestURL),
				zap.Error(err))
			return nil
		}
	}

	if resp.StatusCode() != fasthttp.StatusOK {
		c.logger.Warn("Token lookup service returned non-OK status",
			zap.String("url", requestURL),
			zap.Int("statusCode", resp.StatusCode()),
			zap.ByteString("responseBody", resp.Body()))
		return nil
	}

	var token entity.LookupToken
	if err := json.Unmarshal(resp.Body(), &token); err != nil {
		c.logger.Warn("Failed to unmarshal token lookup response",
			zap.String("url", requestURL),
			zap.ByteString("responseBody", resp.Body()),
			zap.Error(err))
		return nil
	}
	if token.Address == "" {
		c.logger.Warn("Token lookup response missing address field",
			zap.String("url", requestURL),
			zap.ByteString("responseBody", resp.Body()))
		return nil
	}

	c.logger.Debug("Token lookup succeeded",
		zap.String("tokenAddress", tokenAddress),
		zap.String("chainID", chainID),
		zap.String("symbol", token.Symbol))
	return &token
}
