package wallet

import (
	"context"
	"fmt"
	"strconv"
)

type Ledger string

const (
	LedgerBitcoin  Ledger = "bitcoin"
	LedgerEthereum Ledger = "ethereum"
)

type Purpose string

const (
	PurposeAddress  Purpose = "address"
	PurposeFeePerWU Purpose = "feePerWU"
)

// Capability is a value a wallet can provide to fill an action field.
type Capability struct {
	Ledger  Ledger
	Purpose Purpose
}

var (
	BitcoinAddress  = Capability{Ledger: LedgerBitcoin, Purpose: PurposeAddress}
	BitcoinFeePerWU = Capability{Ledger: LedgerBitcoin, Purpose: PurposeFeePerWU}
	EthereumAddress = Capability{Ledger: LedgerEthereum, Purpose: PurposeAddress}
)

var capabilities = []Capability{BitcoinAddress, BitcoinFeePerWU, EthereumAddress}

func (c Capability) String() string {
	return fmt.Sprintf("%v/%v", c.Ledger, c.Purpose)
}

// CapabilityFromClasses maps the class tags of a field to the capability that
// can fill it.
func CapabilityFromClasses(classes []string) (Capability, bool) {
	tags := make(map[string]bool, len(classes))
	for _, class := range classes {
		tags[class] = true
	}
	for _, c := range capabilities {
		if tags[string(c.Ledger)] && tags[string(c.Purpose)] {
			return c, true
		}
	}
	return Capability{}, false
}

// Resolve asks the matching wallet for the value of the capability.
func (wallets Wallets) Resolve(ctx context.Context, c Capability) (string, error) {
	switch c {
	case BitcoinAddress:
		btcWallet, err := wallets.BitcoinWallet()
		if err != nil {
			return "", err
		}
		return btcWallet.Address(ctx)
	case BitcoinFeePerWU:
		btcWallet, err := wallets.BitcoinWallet()
		if err != nil {
			return "", err
		}
		return btcWallet.Fee(ctx)
	case EthereumAddress:
		ethWallet, err := wallets.EthereumWallet()
		if err != nil {
			return "", err
		}
		return ethWallet.Account(), nil
	default:
		return "", fmt.Errorf("unknown capability %v", c)
	}
}

// FeePerWU converts a fee rate in sat/vbyte into sat/weight unit, rounding up.
func FeePerWU(satPerVByte int) string {
	if satPerVByte <= 0 {
		return "0"
	}
	return strconv.Itoa((satPerVByte + 3) / 4)
}
