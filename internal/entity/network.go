package entity

// NetworkDescriptor maps one supported chain across its three identifier
// spaces: the numeric chain id (as a string), the balance provider's network
// id, and the human-readable chain slug. Descriptors are compiled in and
// never mutated.
type NetworkDescriptor struct {
	ChainID   string `json:"chainId"`
	NetworkID string `json:"networkId"`
	ChainSlug string `json:"chain"`
}
