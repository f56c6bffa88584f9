package entity

// ZeroAddress is the sentinel address used for a chain's native asset.
const ZeroAddress = "0x0000000000000000000000000000000000000000"

// TokenMetadata is the canonical per-token record. A record is only usable
// downstream when Decimals is known; amount conversion is undefined otherwise.
type TokenMetadata struct {
	Address  string `json:"address"`
	Name     string `json:"name"`
	Symbol   string `json:"symbol"`
	Decimals int    `json:"decimals"`
	LogoURI  string `json:"logoURI"`
	ChainID  int    `json:"chainId"`
}

// PriceQuote holds the live price data for a single token.
type PriceQuote struct {
	Price          float64 `json:"price"`
	PriceChange24h float64 `json:"priceChange24h"`
}

// PriceRequest identifies one token whose price should be fetched.
type PriceRequest struct {
	Address string `json:"address"`
	Chain   string `json:"chain"`
}

// PortfolioItem is one valued holding in the final portfolio view.
type PortfolioItem struct {
	Address        string  `json:"address"`
	Name           string  `json:"name"`
	Symbol         string  `json:"symbol"`
	Decimals       int     `json:"decimals"`
	LogoURI        string  `json:"logoURI"`
	ChainID        int     `json:"chainId"`
	Amount         float64 `json:"amount"`
	Chain          string  `json:"chain"`
	Price          float64 `json:"price"`
	PriceChange24h float64 `json:"priceChange24h"`
}
