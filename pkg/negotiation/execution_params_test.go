package negotiation_test

import (
	"time"

	"github.com/catalogfi/comitkit/pkg/cnd"
	"github.com/catalogfi/comitkit/pkg/negotiation"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Execution params", func() {
	now := time.Unix(1700000000, 0)
	peer := cnd.Peer{PeerID: "QmMaker", AddressHint: "/ip4/127.0.0.1/tcp/9939"}
	testLedgers := map[string]negotiation.LedgerParams{
		"bitcoin":  {Network: "regtest"},
		"ethereum": {ChainID: 17},
	}

	params := func(alpha, beta time.Duration, ledgers map[string]negotiation.LedgerParams) negotiation.ExecutionParams {
		return negotiation.ExecutionParams{
			Peer:        peer,
			AlphaExpiry: now.Add(alpha).Unix(),
			BetaExpiry:  now.Add(beta).Unix(),
			Ledgers:     ledgers,
		}
	}

	It("should default to mainnet", func() {
		p := params(48*time.Hour, 24*time.Hour, nil)
		Expect(p.Mainnet()).Should(BeTrue())
		Expect(p.SwapLedger("bitcoin")).Should(Equal(cnd.Ledger{Name: "bitcoin", Network: "mainnet"}))
		Expect(p.SwapLedger("ethereum")).Should(Equal(cnd.Ledger{Name: "ethereum", ChainID: 1}))
	})

	It("should accept long expiries on mainnet", func() {
		Expect(params(48*time.Hour, 24*time.Hour, nil).Validate(now)).Should(Succeed())
	})

	It("should reject short expiries on mainnet", func() {
		Expect(params(2*time.Hour, time.Hour, nil).Validate(now)).ShouldNot(Succeed())
		Expect(params(30*time.Hour, 24*time.Hour, nil).Validate(now)).ShouldNot(Succeed())
	})

	It("should accept short expiries on test networks", func() {
		p := params(2*time.Hour, time.Hour, testLedgers)
		Expect(p.Validate(now)).Should(Succeed())
		Expect(p.SwapLedger("bitcoin")).Should(Equal(cnd.Ledger{Name: "bitcoin", Network: "regtest"}))
		Expect(p.SwapLedger("ethereum")).Should(Equal(cnd.Ledger{Name: "ethereum", ChainID: 17}))
	})

	It("should reject an alpha expiry before the beta expiry", func() {
		Expect(params(time.Hour, 3*time.Hour, testLedgers).Validate(now)).ShouldNot(Succeed())
	})

	It("should reject expiries in the past", func() {
		Expect(params(time.Hour, -time.Hour, testLedgers).Validate(now)).ShouldNot(Succeed())
	})

	It("should reject mixed networks", func() {
		mixed := map[string]negotiation.LedgerParams{"bitcoin": {Network: "testnet"}}
		Expect(params(48*time.Hour, 24*time.Hour, mixed).Validate(now)).Should(MatchError(negotiation.ErrInconsistentNetworks))
	})

	It("should reject a missing peer", func() {
		p := params(48*time.Hour, 24*time.Hour, nil)
		p.Peer = cnd.Peer{}
		Expect(p.Validate(now)).Should(MatchError(negotiation.ErrMissingPeer))
	})

	It("should check against the current time", func() {
		Expect(negotiation.NewExecutionParams(peer, 48*time.Hour, 24*time.Hour, nil).IsValid()).Should(BeTrue())
		Expect(negotiation.NewExecutionParams(peer, 2*time.Hour, time.Hour, nil).IsValid()).Should(BeFalse())
	})
})
