package client

import (
	"context"
	stdjson "encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
)

func newBalanceTestServer(t *testing.T, handler http.HandlerFunc) BalanceClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewBalanceClient(server.URL, "test-api-key", 2*time.Second, zap.NewNop())
}

func TestGetTokenBalancesSuccess(t *testing.T) {
	var gotPath string
	var gotBody map[string]any
	c := newBalanceTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		raw, _ := io.ReadAll(r.Body)
		stdjson.Unmarshal(raw, &gotBody)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":{"tokens":[
			{"network":"eth-mainnet","tokenAddress":null,"tokenBalance":"1000000000000000000"},
			{"network":"base-mainnet","tokenAddress":"0x1111111111111111111111111111111111111111","tokenBalance":"42","tokenMetadata":{"symbol":"TST","decimals":18,"name":"Test","logo":"x"}}
		]}}`))
	})

	resp, err := c.GetTokenBalances(context.Background(), "0x2222222222222222222222222222222222222222", []string{"eth-mainnet", "base-mainnet"})
	if err != nil {
		t.Fatalf("GetTokenBalances() unexpected error: %v", err)
	}
	if len(resp.Data.Tokens) != 2 {
		t.Fatalf("got %d tokens, want 2", len(resp.Data.Tokens))
	}
	if !resp.Data.Tokens[0].IsNative() {
		t.Error("first token should be native (null address)")
	}

	if !strings.Contains(gotPath, "/data/v1/test-api-key/assets/tokens/by-address") {
		t.Errorf("request path = %q, want api-key path", gotPath)
	}
	for _, flag := range []string{"withMetadata", "withPrices", "includeNativeTokens"} {
		if v, ok := gotBody[flag].(bool); !ok || !v {
			t.Errorf("request body %s = %v, want true", flag, gotBody[flag])
		}
	}
}

func TestGetTokenBalancesSchemaMismatchIsError(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing data envelope", `{"tokens":[]}`},
		{"missing tokens list", `{"data":{}}`},
		{"token missing network", `{"data":{"tokens":[{"tokenAddress":null,"tokenBalance":"1"}]}}`},
		{"token missing balance", `{"data":{"tokens":[{"network":"eth-mainnet","tokenAddress":null}]}}`},
		{"not json", `<html>oops</html>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newBalanceTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
				w.Write([]byte(tt.body))
			})
			if _, err := c.GetTokenBalances(context.Background(), "0x2222222222222222222222222222222222222222", []string{"eth-mainnet"}); err == nil {
				t.Error("expected schema mismatch to be a fatal error")
			}
		})
	}
}

func TestGetTokenBalancesNonOKStatusIsError(t *testing.T) {
	c := newBalanceTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	})
	if _, err := c.GetTokenBalances(context.Background(), "0x2222222222222222222222222222222222222222", []string{"eth-mainnet"}); err == nil {
		t.Error("expected error for non-200 response")
	}
}

func TestGetTokenBalancesEmptyArgumentsRejected(t *testing.T) {
	c := NewBalanceClient("http://127.0.0.1:1", "key", time.Second, zap.NewNop())
	if _, err := c.GetTokenBalances(context.Background(), "", []string{"eth-mainnet"}); err == nil {
		t.Error("expected error for empty wallet address")
	}
	if _, err := c.GetTokenBalances(context.Background(), "0x2222222222222222222222222222222222222222", nil); err == nil {
		t.Error("expected error for empty network list")
	}
}
