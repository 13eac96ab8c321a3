// Package unit converts between human readable nominal amounts and the
// integer base units used on chain.
package unit

import (
	"math/big"

	"github.com/catalogfi/comitkit/pkg/token"
	"github.com/shopspring/decimal"
)

const (
	Bitcoin = "bitcoin"
	Ether   = "ether"

	BitcoinDecimals = 8
	EtherDecimals   = 18

	// MaxExponent bounds the decimal exponent and the number of significant
	// digits of a nominal amount.
	MaxExponent = 80
)

// ParseNominal parses a non-negative nominal amount. Amounts with more than
// MaxExponent significant digits or an exponent beyond MaxExponent in either
// direction are rejected.
func ParseNominal(nominal string) (decimal.Decimal, bool) {
	amount, err := decimal.NewFromString(nominal)
	if err != nil || amount.IsNegative() {
		return decimal.Zero, false
	}
	if exp := amount.Exponent(); exp > MaxExponent || exp < -MaxExponent {
		return decimal.Zero, false
	}
	if len(amount.Coefficient().String()) > MaxExponent {
		return decimal.Zero, false
	}
	return amount, true
}

// Decimals returns the precision of the asset. Native assets have a fixed
// precision, anything else takes it from the token.
func Decimals(asset string, tok *token.Token) (int32, bool) {
	switch asset {
	case Bitcoin:
		return BitcoinDecimals, true
	case Ether:
		return EtherDecimals, true
	}
	if tok == nil {
		return 0, false
	}
	return tok.Decimals, true
}

// FromNominal converts a nominal amount into base units. It reports false when
// the asset is unknown or the amount cannot be represented exactly in base
// units.
func FromNominal(asset, nominal string, tok *token.Token) (*big.Int, bool) {
	decimals, ok := Decimals(asset, tok)
	if !ok {
		return nil, false
	}
	amount, ok := ParseNominal(nominal)
	if !ok {
		return nil, false
	}
	base := amount.Shift(decimals)
	if !base.Equal(base.Truncate(0)) {
		return nil, false
	}
	return base.BigInt(), true
}

// ToNominal converts base units back into a nominal amount.
func ToNominal(asset string, base *big.Int, tok *token.Token) (string, bool) {
	decimals, ok := Decimals(asset, tok)
	if !ok || base == nil || base.Sign() < 0 {
		return "", false
	}
	return decimal.NewFromBigInt(base, -decimals).String(), true
}
