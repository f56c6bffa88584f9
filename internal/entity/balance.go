package entity

import "fmt"

// TokenPrice is one price point attached to a raw balance by the provider.
type TokenPrice struct {
	Currency      string `json:"currency"`
	Value         string `json:"value"`
	LastUpdatedAt string `json:"lastUpdatedAt"`
}

// InlineTokenMetadata is the partial, possibly incomplete metadata the
// balance provider attaches to a raw balance. Any field may be absent.
type InlineTokenMetadata struct {
	Symbol   *string `json:"symbol"`
	Decimals *int    `json:"decimals"`
	Name     *string `json:"name"`
	Logo     *string `json:"logo"`
}

// IsComplete reports whether every metadata field is present and non-null,
// which allows the record to be used without a fallback lookup.
func (m *InlineTokenMetadata) IsComplete() bool {
	return m != nil &&
		m.Name != nil && *m.Name != "" &&
		m.Symbol != nil && *m.Symbol != "" &&
		m.Decimals != nil &&
		m.Logo != nil && *m.Logo != ""
}

// RawTokenBalance is one (wallet, network, token) holding as returned by the
// balance provider. A nil TokenAddress denotes the network's native asset.
// TokenBalance is an arbitrary-precision non-negative integer in base units
// and must never be parsed as a float before filtering.
type RawTokenBalance struct {
	Network       string               `json:"network"`
	TokenAddress  *string              `json:"tokenAddress"`
	TokenBalance  string               `json:"tokenBalance"`
	TokenMetadata *InlineTokenMetadata `json:"tokenMetadata,omitempty"`
	TokenPrices   []TokenPrice         `json:"tokenPrices,omitempty"`
}

// Address returns the token contract address, substituting the zero-address
// sentinel for native assets.
func (b *RawTokenBalance) Address() string {
	if b.TokenAddress == nil || *b.TokenAddress == "" {
		return ZeroAddress
	}
	return *b.TokenAddress
}

// IsNative reports whether the balance refers to the chain's base currency.
func (b *RawTokenBalance) IsNative() bool {
	return b.TokenAddress == nil || *b.TokenAddress == "" || *b.TokenAddress == ZeroAddress
}

// BalanceProviderResponse is the expected envelope of the bulk holdings call.
type BalanceProviderResponse struct {
	Data *BalanceProviderData `json:"data"`
}

// BalanceProviderData wraps the token list inside the provider envelope.
type BalanceProviderData struct {
	Tokens []RawTokenBalance `json:"tokens"`
}

// Validate enforces the structural contract of the provider response. Any
// deviation is a fatal error for the whole portfolio request.
func (r *BalanceProviderResponse) Validate() error {
	if r.Data == nil {
		return fmt.Errorf("balance provider response missing data envelope")
	}
	if r.Data.Tokens == nil {
		return fmt.Errorf("balance provider response missing tokens list")
	}
	for i, token := range r.Data.Tokens {
		if token.Network == "" {
			return fmt.Errorf("token at index %d has empty network", i)
		}
		if token.TokenBalance == "" {
			return fmt.Errorf("token at index %d has empty balance", i)
		}
	}
	return nil
}
