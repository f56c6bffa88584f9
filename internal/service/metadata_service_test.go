package service

import (
	"context"
	"strings"
	"sync"
	"testing"

	"go.uber.org/zap"

	"portfolio_aggregator/internal/cache"
	"portfolio_aggregator/internal/entity"
)

// fakeLookupClient records calls and serves canned lookup results keyed by
// lowercased token address.
type fakeLookupClient struct {
	mu     sync.Mutex
	calls  int
	tokens map[string]*entity.LookupToken
}

func (f *fakeLookupClient) LookupToken(_ context.Context, tokenAddress, _ string) *entity.LookupToken {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	return f.tokens[strings.ToLower(tokenAddress)]
}

func (f *fakeLookupClient) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

var ethNetwork = entity.NetworkDescriptor{ChainID: "1", NetworkID: "eth-mainnet", ChainSlug: "ethereum"}

const usdcAddress = "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48"

func newMetadataServiceForTest(lookup *fakeLookupClient) (*tokenMetadataServiceImpl, cache.MetadataCache) {
	metadataCache := cache.NewTokenMetadataCache()
	svc := NewTokenMetadataService(lookup, metadataCache, 4, zap.NewNop()).(*tokenMetadataServiceImpl)
	return svc, metadataCache
}

func TestEnrichCacheHitSkipsAllFetching(t *testing.T) {
	lookup := &fakeLookupClient{}
	svc, metadataCache := newMetadataServiceForTest(lookup)

	cached := entity.TokenMetadata{Address: usdcAddress, Symbol: "USDC", Decimals: 6, ChainID: 1}
	metadataCache.Set(cache.Key(usdcAddress, "1"), cached)

	raw := entity.RawTokenBalance{Network: "eth-mainnet", TokenAddress: strPtr(usdcAddress), TokenBalance: "1"}
	got := svc.Enrich(context.Background(), raw, ethNetwork)
	if got == nil {
		t.Fatal("expected cached metadata, got nil")
	}
	if *got != cached {
		t.Errorf("Enrich() = %+v, want cached %+v", *got, cached)
	}
	if lookup.callCount() != 0 {
		t.Errorf("lookup client called %d times on cache hit, want 0", lookup.callCount())
	}
}

func TestEnrichCompleteInlineMetadataNeverCallsLookup(t *testing.T) {
	lookup := &fakeLookupClient{}
	svc, metadataCache := newMetadataServiceForTest(lookup)

	raw := entity.RawTokenBalance{
		Network:      "eth-mainnet",
		TokenAddress: strPtr(usdcAddress),
		TokenBalance: "1000000",
		TokenMetadata: &entity.InlineTokenMetadata{
			Name:     strPtr("USD Coin"),
			Symbol:   strPtr("USDC"),
			Decimals: intPtr(6),
			Logo:     strPtr("https://example.com/usdc.png"),
		},
	}

	got := svc.Enrich(context.Background(), raw, ethNetwork)
	if got == nil {
		t.Fatal("expected metadata from inline fields, got nil")
	}
	if got.Symbol != "USDC" || got.Decimals != 6 || got.ChainID != 1 || got.LogoURI != "https://example.com/usdc.png" {
		t.Errorf("unexpected metadata: %+v", *got)
	}
	if lookup.callCount() != 0 {
		t.Errorf("lookup client called %d times with complete inline metadata, want 0", lookup.callCount())
	}

	// Side effect: the record must be cached.
	if _, found := metadataCache.Get(cache.Key(usdcAddress, "1")); !found {
		t.Error("expected inline metadata to be cached")
	}
}

func TestEnrichSecondCallServedFromCache(t *testing.T) {
	lookup := &fakeLookupClient{tokens: map[string]*entity.LookupToken{
		strings.ToLower(usdcAddress): {
			Address:  usdcAddress,
			Symbol:   "USDC",
			Name:     "USD Coin",
			Decimals: intPtr(6),
		},
	}}
	svc, _ := newMetadataServiceForTest(lookup)

	raw := entity.RawTokenBalance{Network: "eth-mainnet", TokenAddress: strPtr(usdcAddress), TokenBalance: "1"}

	first := svc.Enrich(context.Background(), raw, ethNetwork)
	if first == nil {
		t.Fatal("expected metadata from lookup, got nil")
	}
	if lookup.callCount() != 1 {
		t.Fatalf("lookup client called %d times on first enrich, want 1", lookup.callCount())
	}

	second := svc.Enrich(context.Background(), raw, ethNetwork)
	if second == nil {
		t.Fatal("expected cached metadata on second enrich, got nil")
	}
	if *second != *first {
		t.Errorf("second enrich = %+v, want identical to first %+v", *second, *first)
	}
	if lookup.callCount() != 1 {
		t.Errorf("lookup client called %d times after second enrich, want still 1", lookup.callCount())
	}
}

func TestEnrichLookupFailureReturnsNilAndDoesNotCache(t *testing.T) {
	lookup := &fakeLookupClient{} // every lookup misses
	svc, metadataCache := newMetadataServiceForTest(lookup)

	raw := entity.RawTokenBalance{Network: "eth-mainnet", TokenAddress: strPtr(usdcAddress), TokenBalance: "1"}
	if got := svc.Enrich(context.Background(), raw, ethNetwork); got != nil {
		t.Errorf("expected nil for failed lookup, got %+v", *got)
	}
	if _, found := metadataCache.Get(cache.Key(usdcAddress, "1")); found {
		t.Error("failed lookup must not populate the cache")
	}
}

func TestEnrichMissingDecimalsReturnsNil(t *testing.T) {
	lookup := &fakeLookupClient{tokens: map[string]*entity.LookupToken{
		strings.ToLower(usdcAddress): {Address: usdcAddress, Symbol: "USDC", Name: "USD Coin"},
	}}
	svc, _ := newMetadataServiceForTest(lookup)

	raw := entity.RawTokenBalance{Network: "eth-mainnet", TokenAddress: strPtr(usdcAddress), TokenBalance: "1"}
	if got := svc.Enrich(context.Background(), raw, ethNetwork); got != nil {
		t.Errorf("expected nil when decimals are missing, got %+v", *got)
	}
}

func TestEnrichNativeAssetUsesZeroAddressKey(t *testing.T) {
	lookup := &fakeLookupClient{}
	svc, metadataCache := newMetadataServiceForTest(lookup)

	raw := entity.RawTokenBalance{
		Network:      "eth-mainnet",
		TokenAddress: nil,
		TokenBalance: "1000000000000000000",
		TokenMetadata: &entity.InlineTokenMetadata{
			Name:     strPtr("Ether"),
			Symbol:   strPtr("ETH"),
			Decimals: intPtr(18),
			Logo:     strPtr("https://example.com/eth.png"),
		},
	}

	got := svc.Enrich(context.Background(), raw, ethNetwork)
	if got == nil {
		t.Fatal("expected metadata for native asset, got nil")
	}
	if got.Address != entity.ZeroAddress {
		t.Errorf("native asset address = %q, want zero-address sentinel", got.Address)
	}
	if _, found := metadataCache.Get(cache.Key(entity.ZeroAddress, "1")); !found {
		t.Error("expected native metadata cached under the zero-address key")
	}
}

func TestResolveManyPartialResults(t *testing.T) {
	cachedAddr := "0x1111111111111111111111111111111111111111"
	okAddr := "0x2222222222222222222222222222222222222222"
	failAddr := "0x3333333333333333333333333333333333333333"

	lookup := &fakeLookupClient{tokens: map[string]*entity.LookupToken{
		okAddr: {Address: okAddr, Symbol: "OK", Name: "Okay Token", Decimals: intPtr(18)},
		// failAddr intentionally absent: its lookup fails.
	}}
	svc, metadataCache := newMetadataServiceForTest(lookup)

	cachedMetadata := entity.TokenMetadata{Address: cachedAddr, Symbol: "CCH", Decimals: 8, ChainID: 1}
	metadataCache.Set(cache.Key(cachedAddr, "1"), cachedMetadata)

	result := svc.ResolveMany(context.Background(), []string{cachedAddr, okAddr, failAddr}, "1")

	if len(result) != 2 {
		t.Fatalf("ResolveMany returned %d entries, want 2: %+v", len(result), result)
	}
	if got := result[cache.Key(cachedAddr, "1")]; got != cachedMetadata {
		t.Errorf("cached entry = %+v, want %+v", got, cachedMetadata)
	}
	if got, ok := result[cache.Key(okAddr, "1")]; !ok || got.Symbol != "OK" || got.Decimals != 18 {
		t.Errorf("resolved entry = %+v (present=%v), want OK/18", got, ok)
	}

	// The successful miss must be written back before ResolveMany returns.
	if _, found := metadataCache.Get(cache.Key(okAddr, "1")); !found {
		t.Error("expected successful resolution to be cached on return")
	}
	if _, found := metadataCache.Get(cache.Key(failAddr, "1")); found {
		t.Error("failed resolution must not be cached")
	}

	// Only the two misses hit the lookup service.
	if lookup.callCount() != 2 {
		t.Errorf("lookup client called %d times, want 2", lookup.callCount())
	}
}

func TestResolveManyAllCachedIssuesNoCalls(t *testing.T) {
	lookup := &fakeLookupClient{}
	svc, metadataCache := newMetadataServiceForTest(lookup)

	addr := "0x4444444444444444444444444444444444444444"
	metadataCache.Set(cache.Key(addr, "56"), entity.TokenMetadata{Address: addr, Decimals: 18, ChainID: 56})

	result := svc.ResolveMany(context.Background(), []string{addr}, "56")
	if len(result) != 1 {
		t.Fatalf("ResolveMany returned %d entries, want 1", len(result))
	}
	if lookup.callCount() != 0 {
		t.Errorf("lookup client called %d times for fully cached batch, want 0", lookup.callCount())
	}
}
