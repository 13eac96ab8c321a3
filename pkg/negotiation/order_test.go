package negotiation_test

import (
	"time"

	"github.com/catalogfi/comitkit/pkg/negotiation"
	"github.com/shopspring/decimal"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func etherForBitcoin(ether, bitcoin string) negotiation.Order {
	return negotiation.Order{
		ID:         "1",
		ValidUntil: 123456,
		Ask:        negotiation.OrderAsset{Ledger: "ethereum", Asset: "ether", NominalAmount: ether},
		Bid:        negotiation.OrderAsset{Ledger: "bitcoin", Asset: "bitcoin", NominalAmount: bitcoin},
	}
}

func dec(value string) *decimal.Decimal {
	d := decimal.RequireFromString(value)
	return &d
}

var _ = Describe("Order", func() {
	Context("validity", func() {
		It("should accept a complete order", func() {
			Expect(etherForBitcoin("5", "10").IsValid()).Should(BeTrue())
		})

		It("should reject missing fields", func() {
			order := etherForBitcoin("5", "10")
			order.ID = ""
			Expect(order.IsValid()).Should(BeFalse())

			order = etherForBitcoin("5", "10")
			order.ValidUntil = 0
			Expect(order.IsValid()).Should(BeFalse())

			order = etherForBitcoin("5", "10")
			order.Bid.Ledger = ""
			Expect(negotiation.IsOrderValid(order)).Should(BeFalse())
		})

		It("should reject amounts that are not non-negative numbers", func() {
			Expect(etherForBitcoin("five", "10").IsValid()).Should(BeFalse())
			Expect(etherForBitcoin("5", "NaN").IsValid()).Should(BeFalse())
			Expect(etherForBitcoin("-5", "10").IsValid()).Should(BeFalse())
			Expect(etherForBitcoin("0.5", "0").IsValid()).Should(BeTrue())
		})
	})

	It("should derive the trading pair from ask then bid", func() {
		Expect(etherForBitcoin("5", "10").TradingPair()).Should(Equal("ethereum-ether-bitcoin-bitcoin"))

		criteria := negotiation.TakerCriteria{
			Buy:  negotiation.CriteriaAsset{Ledger: "bitcoin", Asset: "bitcoin"},
			Sell: negotiation.CriteriaAsset{Ledger: "ethereum", Asset: "ether"},
		}
		Expect(criteria.TradingPair()).Should(Equal(etherForBitcoin("5", "10").TradingPair()))
	})

	It("should compute the rate as bid over ask", func() {
		rate, ok := etherForBitcoin("5", "10").Rate()
		Expect(ok).Should(BeTrue())
		Expect(rate.Equal(decimal.NewFromInt(2))).Should(BeTrue())

		_, ok = etherForBitcoin("0", "10").Rate()
		Expect(ok).Should(BeFalse())
	})

	It("should create orders with unique ids", func() {
		ask := negotiation.OrderAsset{Ledger: "ethereum", Asset: "ether", NominalAmount: "1"}
		bid := negotiation.OrderAsset{Ledger: "bitcoin", Asset: "bitcoin", NominalAmount: "0.1"}
		first := negotiation.NewOrder(ask, bid, time.Hour)
		second := negotiation.NewOrder(ask, bid, time.Hour)
		Expect(first.ID).ShouldNot(Equal(second.ID))
		Expect(first.IsValid()).Should(BeTrue())
		Expect(first.Expired(time.Now())).Should(BeFalse())
		Expect(first.Expired(time.Now().Add(2 * time.Hour))).Should(BeTrue())
	})
})

var _ = Describe("Taker criteria", func() {
	criteria := func(minRate *decimal.Decimal) negotiation.TakerCriteria {
		return negotiation.TakerCriteria{
			Buy:     negotiation.CriteriaAsset{Ledger: "bitcoin", Asset: "bitcoin"},
			Sell:    negotiation.CriteriaAsset{Ledger: "ethereum", Asset: "ether"},
			MinRate: minRate,
		}
	}

	Context("rate", func() {
		It("should accept a rate above the minimum", func() {
			Expect(negotiation.RateMatches(criteria(dec("0.01")), etherForBitcoin("5", "10"))).Should(BeTrue())
		})

		It("should accept a rate equal to the minimum", func() {
			Expect(negotiation.RateMatches(criteria(dec("2")), etherForBitcoin("5", "10"))).Should(BeTrue())
		})

		It("should reject a rate below the minimum", func() {
			Expect(negotiation.RateMatches(criteria(dec("3")), etherForBitcoin("5", "10"))).Should(BeFalse())
		})

		It("should always match without a minimum", func() {
			Expect(negotiation.RateMatches(criteria(nil), etherForBitcoin("5", "10"))).Should(BeTrue())
			Expect(negotiation.RateMatches(criteria(nil), etherForBitcoin("1000000", "0.00000001"))).Should(BeTrue())
		})

		It("should keep precision on tiny rates", func() {
			order := etherForBitcoin("3", "0.000000000000000001")
			Expect(negotiation.RateMatches(criteria(dec("0.000000000000000000333")), order)).Should(BeTrue())
			Expect(negotiation.RateMatches(criteria(dec("0.000000000000000000334")), order)).Should(BeFalse())
		})

		It("should match a zero ask only against a positive bid", func() {
			Expect(negotiation.RateMatches(criteria(dec("1000")), etherForBitcoin("0", "1"))).Should(BeTrue())
			Expect(negotiation.RateMatches(criteria(dec("0.01")), etherForBitcoin("0", "0"))).Should(BeFalse())
		})

		It("should refuse amounts with huge exponents without doing the arithmetic", func() {
			order := etherForBitcoin("5", "1e200000000")
			Expect(order.IsValid()).Should(BeFalse())

			done := make(chan bool)
			go func() {
				done <- negotiation.Matches(criteria(dec("0.01")), order)
			}()
			Eventually(done, time.Second).Should(Receive(BeFalse()))

			_, ok := negotiation.OrderAsset{Ledger: "bitcoin", Asset: "bitcoin", NominalAmount: "1e-200000000"}.Amount()
			Expect(ok).Should(BeFalse())
		})
	})

	Context("assets", func() {
		It("should require the same ledger and asset", func() {
			asset := negotiation.OrderAsset{Ledger: "bitcoin", Asset: "bitcoin", NominalAmount: "1"}
			Expect(negotiation.AssetMatches(negotiation.CriteriaAsset{Ledger: "bitcoin", Asset: "bitcoin"}, asset)).Should(BeTrue())
			Expect(negotiation.AssetMatches(negotiation.CriteriaAsset{Ledger: "ethereum", Asset: "bitcoin"}, asset)).Should(BeFalse())
			Expect(negotiation.AssetMatches(negotiation.CriteriaAsset{Ledger: "bitcoin", Asset: "ether"}, asset)).Should(BeFalse())
		})

		It("should compare bounds as numbers and inclusively", func() {
			asset := negotiation.OrderAsset{Ledger: "bitcoin", Asset: "bitcoin", NominalAmount: "10"}
			bounded := func(min, max *decimal.Decimal) negotiation.CriteriaAsset {
				return negotiation.CriteriaAsset{Ledger: "bitcoin", Asset: "bitcoin", MinNominalAmount: min, MaxNominalAmount: max}
			}
			Expect(negotiation.AssetMatches(bounded(dec("9"), nil), asset)).Should(BeTrue())
			Expect(negotiation.AssetMatches(bounded(dec("10"), dec("10")), asset)).Should(BeTrue())
			Expect(negotiation.AssetMatches(bounded(dec("11"), nil), asset)).Should(BeFalse())
			Expect(negotiation.AssetMatches(bounded(nil, dec("9.99")), asset)).Should(BeFalse())
			Expect(negotiation.AssetMatches(bounded(nil, dec("100")), asset)).Should(BeTrue())
		})
	})

	It("should match buy against bid and sell against ask", func() {
		Expect(negotiation.Matches(criteria(dec("0.01")), etherForBitcoin("5", "10"))).Should(BeTrue())

		reversed := criteria(nil)
		reversed.Buy, reversed.Sell = reversed.Sell, reversed.Buy
		Expect(negotiation.Matches(reversed, etherForBitcoin("5", "10"))).Should(BeFalse())
	})
})
