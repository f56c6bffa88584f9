package chains

import (
	"strings"

	"portfolio_aggregator/internal/entity"
)

// supportedNetworks is the fixed set of chains the aggregator queries the
// balance provider for. The order here is the order networks are requested in.
var supportedNetworks = []entity.NetworkDescriptor{
	{ChainID: "1", NetworkID: "eth-mainnet", ChainSlug: "ethereum"},
	{ChainID: "42161", NetworkID: "arb-mainnet", ChainSlug: "arbitrum"},
	{ChainID: "56", NetworkID: "bnb-mainnet", ChainSlug: "bsc"},
	{ChainID: "8453", NetworkID: "base-mainnet", ChainSlug: "base"},
	{ChainID: "480", NetworkID: "worldchain-mainnet", ChainSlug: "worldchain"},
}

// caip2BySlug maps the short chain identifiers accepted at the API edge to
// their CAIP-2 form.
var caip2BySlug = map[string]string{
	"ethereum":   "eip155:1",
	"arbitrum":   "eip155:42161",
	"bsc":        "eip155:56",
	"base":       "eip155:8453",
	"worldchain": "eip155:480",
	"solana":     "solana:5eykt4UsFv8P8NJdTREpY1vzqKqZKvdp",
}

// lookupChainIDByCaip2 translates CAIP-2 identifiers into the id space of the
// metadata lookup service.
var lookupChainIDByCaip2 = map[string]string{
	"eip155:1":     "1",
	"eip155:42161": "42161",
	"eip155:56":    "56",
	"eip155:8453":  "8453",
	"eip155:480":   "480",

	"solana:5eykt4UsFv8P8NJdTREpY1vzqKqZKvdp": "1151111081099710",
}

// Supported returns the full set of network descriptors. Callers must not
// mutate the returned slice.
func Supported() []entity.NetworkDescriptor {
	return supportedNetworks
}

// NetworkIDs returns the provider-specific network ids of all supported
// chains, in registry order.
func NetworkIDs() []string {
	ids := make([]string, 0, len(supportedNetworks))
	for _, n := range supportedNetworks {
		ids = append(ids, n.NetworkID)
	}
	return ids
}

// ByNetworkID resolves a descriptor by the balance provider's network id.
func ByNetworkID(networkID string) (entity.NetworkDescriptor, bool) {
	for _, n := range supportedNetworks {
		if n.NetworkID == networkID {
			return n, true
		}
	}
	return entity.NetworkDescriptor{}, false
}

// ByChainID resolves a descriptor by its numeric chain id string.
func ByChainID(chainID string) (entity.NetworkDescriptor, bool) {
	for _, n := range supportedNetworks {
		if n.ChainID == chainID {
			return n, true
		}
	}
	return entity.NetworkDescriptor{}, false
}

// ResolveChainID translates a chain identifier into the metadata lookup
// service's id space. Inputs containing a colon are treated as CAIP-2;
// known short identifiers are first expanded to CAIP-2 and then translated.
// Unknown identifiers pass through unchanged, deferring any failure to the
// downstream lookup call.
func ResolveChainID(identifierOrCaip2 string) string {
	caip2 := identifierOrCaip2
	if !strings.Contains(identifierOrCaip2, ":") {
		mapped, ok := caip2BySlug[identifierOrCaip2]
		if !ok {
			return identifierOrCaip2
		}
		caip2 = mapped
	}
	if chainID, ok := lookupChainIDByCaip2[caip2]; ok {
		return chainID
	}
	return identifierOrCaip2
}
