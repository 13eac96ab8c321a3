package negotiation

import (
	"github.com/shopspring/decimal"
)

type CriteriaAsset struct {
	Ledger           string           `json:"ledger"`
	Asset            string           `json:"asset"`
	MinNominalAmount *decimal.Decimal `json:"minNominalAmount,omitempty"`
	MaxNominalAmount *decimal.Decimal `json:"maxNominalAmount,omitempty"`
}

// TakerCriteria are the bounds a taker accepts an order within. Buy is
// matched against the bid of the order and Sell against its ask.
type TakerCriteria struct {
	Buy     CriteriaAsset    `json:"buy"`
	Sell    CriteriaAsset    `json:"sell"`
	MinRate *decimal.Decimal `json:"minRate,omitempty"`
}

// TradingPair returns the key of the orders that can satisfy the criteria.
func (criteria TakerCriteria) TradingPair() string {
	return TradingPair(criteria.Sell.Ledger, criteria.Sell.Asset, criteria.Buy.Ledger, criteria.Buy.Asset)
}

// AssetMatches checks the ledger and asset names and the optional inclusive
// amount bounds.
func AssetMatches(criteria CriteriaAsset, asset OrderAsset) bool {
	if criteria.Ledger != asset.Ledger || criteria.Asset != asset.Asset {
		return false
	}
	if criteria.MinNominalAmount == nil && criteria.MaxNominalAmount == nil {
		return true
	}
	amount, ok := asset.Amount()
	if !ok {
		return false
	}
	if criteria.MinNominalAmount != nil && amount.LessThan(*criteria.MinNominalAmount) {
		return false
	}
	if criteria.MaxNominalAmount != nil && amount.GreaterThan(*criteria.MaxNominalAmount) {
		return false
	}
	return true
}

// RateMatches checks bid/ask >= minRate. The comparison is done as
// bid >= minRate*ask so no precision is lost on the division.
func RateMatches(criteria TakerCriteria, order Order) bool {
	if criteria.MinRate == nil {
		return true
	}
	ask, ok := order.Ask.Amount()
	if !ok {
		return false
	}
	bid, ok := order.Bid.Amount()
	if !ok {
		return false
	}
	if ask.IsZero() {
		// Any positive bid for nothing beats every rate.
		return bid.IsPositive()
	}
	return bid.GreaterThanOrEqual(criteria.MinRate.Mul(ask))
}

func Matches(criteria TakerCriteria, order Order) bool {
	return AssetMatches(criteria.Buy, order.Bid) &&
		AssetMatches(criteria.Sell, order.Ask) &&
		RateMatches(criteria, order)
}
