// Package negotiation holds the orders a maker publishes and the rules both
// sides use to decide whether an order, and later a swap, is acceptable.
package negotiation

import (
	"fmt"
	"time"

	"github.com/catalogfi/comitkit/pkg/unit"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	LedgerBitcoin  = "bitcoin"
	LedgerEthereum = "ethereum"
)

type OrderAsset struct {
	Ledger        string `json:"ledger"`
	Asset         string `json:"asset"`
	NominalAmount string `json:"nominalAmount"`
}

func (asset OrderAsset) String() string {
	return fmt.Sprintf("%v %v on %v", asset.NominalAmount, asset.Asset, asset.Ledger)
}

// Amount parses the nominal amount. Negative or out of range amounts are
// rejected.
func (asset OrderAsset) Amount() (decimal.Decimal, bool) {
	return unit.ParseNominal(asset.NominalAmount)
}

// Order is an offer of the maker: it asks for Ask and gives Bid in return.
type Order struct {
	ID         string     `json:"id"`
	ValidUntil int64      `json:"validUntil"`
	Ask        OrderAsset `json:"ask"`
	Bid        OrderAsset `json:"bid"`
}

// NewOrder creates an order with a random id that expires after validity.
func NewOrder(ask, bid OrderAsset, validity time.Duration) Order {
	return Order{
		ID:         uuid.New().String(),
		ValidUntil: time.Now().Add(validity).Unix(),
		Ask:        ask,
		Bid:        bid,
	}
}

// TradingPair returns the key the maker indexes the order under.
func (order Order) TradingPair() string {
	return TradingPair(order.Ask.Ledger, order.Ask.Asset, order.Bid.Ledger, order.Bid.Asset)
}

func TradingPair(askLedger, askAsset, bidLedger, bidAsset string) string {
	return fmt.Sprintf("%v-%v-%v-%v", askLedger, askAsset, bidLedger, bidAsset)
}

// Expired reports whether the order is past its validity. Nothing in the
// negotiation rejects expired orders, callers decide.
func (order Order) Expired(now time.Time) bool {
	return order.ValidUntil <= now.Unix()
}

func (order Order) IsValid() bool {
	return IsOrderValid(order)
}

// IsOrderValid reports whether every field of the order is set and both
// amounts are non-negative decimals.
func IsOrderValid(order Order) bool {
	if order.ID == "" || order.ValidUntil == 0 {
		return false
	}
	for _, asset := range []OrderAsset{order.Ask, order.Bid} {
		if asset.Ledger == "" || asset.Asset == "" {
			return false
		}
		if _, ok := asset.Amount(); !ok {
			return false
		}
	}
	return true
}

// Rate is the nominal amount of bid received per unit of ask.
func (order Order) Rate() (decimal.Decimal, bool) {
	ask, ok := order.Ask.Amount()
	if !ok || ask.IsZero() {
		return decimal.Zero, false
	}
	bid, ok := order.Bid.Amount()
	if !ok {
		return decimal.Zero, false
	}
	return bid.Div(ask), true
}
