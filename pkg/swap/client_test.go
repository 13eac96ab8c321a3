package swap_test

import (
	"context"
	"errors"

	"github.com/catalogfi/comitkit/pkg/cnd"
	"github.com/catalogfi/comitkit/pkg/cnd/cndtest"
	"github.com/catalogfi/comitkit/pkg/swap"
	"github.com/catalogfi/comitkit/pkg/wallet"
	"github.com/catalogfi/comitkit/pkg/wallet/wallettest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Swap client", func() {
	var (
		daemon    *cndtest.Daemon
		ethWallet *wallettest.Ethereum
		client    *swap.Client
	)

	request := cnd.SwapRequest{
		AlphaLedger: cnd.Ledger{Name: "ethereum", ChainID: 17},
		AlphaAsset:  cnd.Asset{Name: "ether", Quantity: "5000000000000000000"},
		BetaLedger:  cnd.Ledger{Name: "bitcoin", Network: "regtest"},
		BetaAsset:   cnd.Asset{Name: "bitcoin", Quantity: "1000000000"},
		Peer:        cnd.Peer{PeerID: "QmMaker"},
	}

	BeforeEach(func() {
		daemon = cndtest.New("QmTaker")
		ethWallet = wallettest.NewEthereum()
		client = swap.NewClient(daemon, wallet.Wallets{Bitcoin: wallettest.NewBitcoin(), Ethereum: ethWallet}, logger)
	})

	It("should fill the ethereum identities of new swaps", func(ctx context.Context) {
		s, err := client.SendSwap(ctx, request)
		Expect(err).To(BeNil())
		Expect(s.Self()).To(Equal("/swaps/rfc003/swap-1"))

		requests := daemon.Requests()
		Expect(requests).To(HaveLen(1))
		Expect(requests[0].AlphaLedgerRefundIdentity).To(Equal(ethWallet.Addr))
		Expect(requests[0].BetaLedgerRedeemIdentity).To(BeEmpty())

		props, err := s.Properties(ctx)
		Expect(err).To(BeNil())
		Expect(props.ID).To(Equal("swap-1"))
	})

	It("should not send ethereum swaps without an ethereum wallet", func(ctx context.Context) {
		client = swap.NewClient(daemon, wallet.Wallets{}, logger)
		_, err := client.SendSwap(ctx, request)
		Expect(errors.Is(err, wallet.ErrWalletNotSet)).To(BeTrue())
		Expect(daemon.Requests()).To(BeEmpty())
	})

	It("should find swaps by id", func(ctx context.Context) {
		sent, err := client.SendSwap(ctx, request)
		Expect(err).To(BeNil())
		_, err = client.SendSwap(ctx, request)
		Expect(err).To(BeNil())

		found, ok, err := client.SwapByID(ctx, "swap-1")
		Expect(err).To(BeNil())
		Expect(ok).To(BeTrue())
		Expect(found.Self()).To(Equal(sent.Self()))

		_, ok, err = client.SwapByID(ctx, "swap-9")
		Expect(err).To(BeNil())
		Expect(ok).To(BeFalse())
	})

	It("should list new, ongoing and done swaps", func(ctx context.Context) {
		daemon.AddSwap("/swaps/rfc003/new", cnd.SwapProperties{ID: "new", Status: cnd.StatusInProgress})
		daemon.AddAction("/swaps/rfc003/new", cnd.ActionAccept, nil, 0, nil)
		daemon.AddSwap("/swaps/rfc003/ongoing", cnd.SwapProperties{ID: "ongoing", Status: cnd.StatusInProgress})
		daemon.AddSwap("/swaps/rfc003/swapped", cnd.SwapProperties{ID: "swapped", Status: cnd.StatusSwapped})
		daemon.AddSwap("/swaps/rfc003/failed", cnd.SwapProperties{ID: "failed", Status: cnd.StatusInternalFailure})

		selves := func(swaps []*swap.Swap) []string {
			hrefs := []string{}
			for _, s := range swaps {
				hrefs = append(hrefs, s.Self())
			}
			return hrefs
		}

		newSwaps, err := client.NewSwaps(ctx)
		Expect(err).To(BeNil())
		Expect(selves(newSwaps)).To(ConsistOf("/swaps/rfc003/new"))

		ongoing, err := client.OngoingSwaps(ctx)
		Expect(err).To(BeNil())
		Expect(selves(ongoing)).To(ConsistOf("/swaps/rfc003/new", "/swaps/rfc003/ongoing"))

		done, err := client.DoneSwaps(ctx)
		Expect(err).To(BeNil())
		Expect(selves(done)).To(ConsistOf("/swaps/rfc003/swapped", "/swaps/rfc003/failed"))
	})

	It("should return the identity of the daemon", func(ctx context.Context) {
		peerID, err := client.PeerID(ctx)
		Expect(err).To(BeNil())
		Expect(peerID).To(Equal("QmTaker"))

		addrs, err := client.PeerListenAddresses(ctx)
		Expect(err).To(BeNil())
		Expect(addrs).NotTo(BeEmpty())
	})
})
