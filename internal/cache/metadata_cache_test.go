package cache

import (
	"testing"

	"portfolio_aggregator/internal/entity"
)

func TestKey(t *testing.T) {
	got := Key("0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48", "1")
	want := "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48-1"
	if got != want {
		t.Errorf("Key() = %q, want %q", got, want)
	}
}

func TestKeyNativeSentinel(t *testing.T) {
	got := Key("", "8453")
	want := entity.ZeroAddress + "-8453"
	if got != want {
		t.Errorf("Key() for native = %q, want %q", got, want)
	}
}

func TestCacheRoundTrip(t *testing.T) {
	c := NewTokenMetadataCache()

	metadata := entity.TokenMetadata{
		Address:  "0xdAC17F958D2ee523a2206206994597C13D831ec7",
		Name:     "Tether USD",
		Symbol:   "USDT",
		Decimals: 6,
		ChainID:  1,
	}
	key := Key(metadata.Address, "1")
	c.Set(key, metadata)

	got, found := c.Get(key)
	if !found {
		t.Fatal("expected cache hit after Set")
	}
	if got != metadata {
		t.Errorf("cached metadata = %+v, want %+v", got, metadata)
	}

	if _, found := c.Get(Key(metadata.Address, "56")); found {
		t.Error("expected miss for same address on a different chain")
	}
}
