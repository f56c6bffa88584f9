package utils

import (
	"github.com/ethereum/go-ethereum/common"
)

// ChecksumAddress normalizes a hex address to its EIP-55 checksummed form.
// External lookups require the checksummed encoding.
func ChecksumAddress(address string) string {
	return common.HexToAddress(address).Hex()
}

// IsHexAddress reports whether the string is a well-formed hex address.
func IsHexAddress(address string) bool {
	return common.IsHexAddress(address)
}
