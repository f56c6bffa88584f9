package utils

import (
	"fmt"
	"math/big"
	"strings"
)

// ParseRawBalance parses a raw base-unit balance string into a big.Int.
// It accepts both decimal and 0x-prefixed hexadecimal encodings, since
// balance providers use either. Balances must stay in arbitrary precision
// until after the positivity filter; converting to float first loses digits
// on large balances.
func ParseRawBalance(balance string) (*big.Int, error) {
	s := strings.TrimSpace(balance)
	if s == "" {
		return nil, fmt.Errorf("empty balance string")
	}

	value := new(big.Int)
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		if _, ok := value.SetString(s[2:], 16); !ok {
			return nil, fmt.Errorf("invalid hexadecimal balance %q", balance)
		}
		return value, nil
	}
	if _, ok := value.SetString(s, 10); !ok {
		return nil, fmt.Errorf("invalid decimal balance %q", balance)
	}
	return value, nil
}

// AmountFromRaw converts a raw base-unit balance into a human-readable
// amount using the token's decimal precision. The division is carried out in
// big.Float, so common precisions (6-18 decimals) keep their significant
// digits for display-grade amounts.
func AmountFromRaw(raw *big.Int, decimals int) float64 {
	if raw == nil || raw.Sign() == 0 {
		return 0
	}
	divisor := new(big.Float).SetInt(new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil))
	amount := new(big.Float).Quo(new(big.Float).SetInt(raw), divisor)
	result, _ := amount.Float64()
	return result
}
