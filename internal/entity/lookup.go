package entity

// LookupToken is the token descriptor returned by the metadata lookup
// service. Name, Symbol and LogoURI may be absent; Decimals must be present
// for the record to be usable.
type LookupToken struct {
	Address  string  `json:"address"`
	ChainID  int     `json:"chainId"`
	Symbol   string  `json:"symbol"`
	Decimals *int    `json:"decimals"`
	Name     string  `json:"name"`
	LogoURI  string  `json:"logoURI"`
	PriceUSD *string `json:"priceUSD,omitempty"`
	CoinKey  *string `json:"coinKey,omitempty"`
}
