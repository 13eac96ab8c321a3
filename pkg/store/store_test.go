package store_test

import (
	"context"
	"fmt"
	"time"

	"github.com/catalogfi/comitkit/pkg/store"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func behavesLikeAStore(newStore func() store.Store) {
	It("should return recorded ledger actions", func(ctx context.Context) {
		s := newStore()
		swapID := fmt.Sprintf("/swaps/rfc003/%v", time.Now().UnixNano())

		_, ok, err := s.LedgerAction(ctx, swapID, "fund")
		Expect(err).To(BeNil())
		Expect(ok).To(BeFalse())

		Expect(s.RecordLedgerAction(ctx, swapID, "fund", "txid1")).To(Succeed())
		txID, ok, err := s.LedgerAction(ctx, swapID, "fund")
		Expect(err).To(BeNil())
		Expect(ok).To(BeTrue())
		Expect(txID).To(Equal("txid1"))

		By("Keeping actions of the same swap apart")
		_, ok, err = s.LedgerAction(ctx, swapID, "redeem")
		Expect(err).To(BeNil())
		Expect(ok).To(BeFalse())
	})
}

var _ = Describe("In memory store", func() {
	behavesLikeAStore(store.NewInMemStore)
})

var _ = Describe("Redis store", func() {
	It("should reject malformed urls", func() {
		_, err := store.NewRedisStore("localhost")
		Expect(err).To(HaveOccurred())
		_, err = store.NewRedisStore("redis://localhost:6379/abc")
		Expect(err).To(HaveOccurred())
	})

	Context("with a redis server", func() {
		BeforeEach(func() {
			if redisURL == "" {
				Skip("REDIS_URL not set")
			}
		})

		behavesLikeAStore(func() store.Store {
			s, err := store.NewRedisStore(redisURL)
			Expect(err).To(BeNil())
			return s
		})
	})
})
