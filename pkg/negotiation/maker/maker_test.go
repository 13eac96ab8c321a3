package maker_test

import (
	"sync"
	"time"

	"github.com/catalogfi/comitkit/pkg/cnd/cndtest"
	"github.com/catalogfi/comitkit/pkg/negotiation"
	"github.com/catalogfi/comitkit/pkg/negotiation/maker"
	"github.com/catalogfi/comitkit/pkg/swap"
	"github.com/catalogfi/comitkit/pkg/wallet"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Order book", func() {
	var (
		daemon   *cndtest.Daemon
		notifier *recordingNotifier
		book     *maker.OrderBook
	)

	BeforeEach(func() {
		daemon = cndtest.New(makerPeer.PeerID)
		notifier = &recordingNotifier{}
		client := swap.NewClient(daemon, wallet.Wallets{}, logger)
		book = maker.New(makerPeer, client, negotiation.NewMatcher(nil), maker.OptionsRegtest(17).WithTryParams(fastTry), notifier, logger)
	})

	AfterEach(func() {
		book.Stop()
	})

	Context("orders", func() {
		It("should index an order by trading pair and by id", func() {
			order := etherForBitcoin()
			Expect(book.AddOrder(order)).Should(BeTrue())

			byPair, ok := book.OrderByTradingPair("ethereum-ether-bitcoin-bitcoin")
			Expect(ok).Should(BeTrue())
			Expect(byPair).Should(Equal(order))

			byID, ok := book.OrderByID("1")
			Expect(ok).Should(BeTrue())
			Expect(byID).Should(Equal(order))
		})

		It("should reject invalid orders", func() {
			order := etherForBitcoin()
			order.Ask.NominalAmount = "five"
			Expect(book.AddOrder(order)).Should(BeFalse())

			_, ok := book.OrderByID("1")
			Expect(ok).Should(BeFalse())
			_, ok = book.OrderByTradingPair(order.TradingPair())
			Expect(ok).Should(BeFalse())
		})

		It("should replace the order of a trading pair", func() {
			first := etherForBitcoin()
			second := etherForBitcoin()
			second.ID = "2"
			second.Bid.NominalAmount = "11"
			Expect(book.AddOrder(first)).Should(BeTrue())
			Expect(book.AddOrder(second)).Should(BeTrue())

			order, ok := book.OrderByTradingPair(first.TradingPair())
			Expect(ok).Should(BeTrue())
			Expect(order.ID).Should(Equal("2"))
			_, ok = book.OrderByID("1")
			Expect(ok).Should(BeFalse())
			Expect(book.Orders()).Should(HaveLen(1))
		})

		It("should hand out execution params of its peer and networks", func() {
			params := book.ExecutionParams(etherForBitcoin())
			Expect(params.Peer).Should(Equal(makerPeer))
			Expect(params.Mainnet()).Should(BeFalse())
			Expect(params.Validate(time.Now())).Should(Succeed())
		})
	})

	Context("taking orders", func() {
		const href = "/swaps/rfc003/swap-1"

		It("should accept a matching swap", func() {
			daemon.AddSwap(href, swapOf("swap-1", "5000000000000000000", "1000000000"))
			daemon.AddAction(href, "accept", nil, 0, nil)

			Expect(book.TakeOrder("swap-1", etherForBitcoin())).Should(Succeed())
			Eventually(daemon.Executed).Should(HaveLen(1))
			Expect(daemon.Executed()[0].Action).Should(Equal("accept"))
			Eventually(notifier.Messages).Should(ContainElement(ContainSubstring("accepted")))
		})

		It("should wait for the swap to show up", func() {
			Expect(book.TakeOrder("swap-1", etherForBitcoin())).Should(Succeed())
			time.Sleep(50 * time.Millisecond)

			daemon.AddSwap(href, swapOf("swap-1", "5000000000000000000", "1000000000"))
			daemon.AddAction(href, "accept", nil, 2, nil)
			Eventually(daemon.Executed).Should(HaveLen(1))
		})

		It("should not accept a swap with different quantities", func() {
			daemon.AddSwap(href, swapOf("swap-1", "5000000000000000000", "10000000000"))
			daemon.AddAction(href, "accept", nil, 0, nil)

			Expect(book.TakeOrder("swap-1", etherForBitcoin())).Should(Succeed())
			Eventually(notifier.Messages).Should(ContainElement(ContainSubstring("not accepted")))
			Expect(daemon.Executed()).Should(BeEmpty())
		})

		It("should give up silently on a swap that never shows up", func() {
			book = maker.New(makerPeer, swap.NewClient(daemon, wallet.Wallets{}, logger), negotiation.NewMatcher(nil),
				maker.OptionsRegtest(17).WithTryParams(swap.TryParams{MaxTimeout: 100 * time.Millisecond, TryInterval: 10 * time.Millisecond}),
				notifier, logger)

			Expect(book.TakeOrder("swap-9", etherForBitcoin())).Should(Succeed())
			Consistently(notifier.Messages, 300*time.Millisecond).Should(BeEmpty())
			Expect(daemon.Executed()).Should(BeEmpty())
		})

		It("should stop pending accept tasks", func() {
			book = maker.New(makerPeer, swap.NewClient(daemon, wallet.Wallets{}, logger), negotiation.NewMatcher(nil),
				maker.OptionsRegtest(17).WithTryParams(swap.NewTryParams(60, 1)), notifier, logger)
			Expect(book.TakeOrder("swap-9", etherForBitcoin())).Should(Succeed())

			stopped := make(chan struct{})
			go func() {
				book.Stop()
				close(stopped)
			}()
			Eventually(stopped).Should(BeClosed())
			Expect(notifier.Messages()).Should(BeEmpty())
		})

		It("should refuse new accept tasks once stopped", func() {
			daemon.AddSwap(href, swapOf("swap-1", "5000000000000000000", "1000000000"))
			daemon.AddAction(href, "accept", nil, 0, nil)
			book.Stop()

			Expect(book.TakeOrder("swap-1", etherForBitcoin())).Should(MatchError(maker.ErrStopped))
			Consistently(daemon.Executed, 100*time.Millisecond).Should(BeEmpty())
		})

		It("should not race a stop with incoming takes", func() {
			var wg sync.WaitGroup
			for i := 0; i < 20; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					_ = book.TakeOrder("swap-9", etherForBitcoin())
				}()
			}
			book.Stop()
			wg.Wait()
			Expect(book.TakeOrder("swap-9", etherForBitcoin())).Should(MatchError(maker.ErrStopped))
		})
	})
})
