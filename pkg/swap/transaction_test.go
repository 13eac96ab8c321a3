package swap_test

import (
	"context"

	"github.com/catalogfi/comitkit/pkg/swap"
	"github.com/catalogfi/comitkit/pkg/wallet"
	"github.com/catalogfi/comitkit/pkg/wallet/wallettest"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/core/types"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Transaction status", func() {
	var (
		ethWallet *wallettest.Ethereum
		wallets   wallet.Wallets
	)

	BeforeEach(func() {
		ethWallet = wallettest.NewEthereum()
		wallets = wallet.Wallets{Ethereum: ethWallet}
	})

	It("should report pending transactions", func(ctx context.Context) {
		ethWallet.Pending = true
		status, err := swap.NewTransaction(wallets, wallet.LedgerEthereum, "0x01").Status(ctx)
		Expect(err).To(BeNil())
		Expect(status).To(Equal(swap.TransactionPending))
	})

	It("should report confirmed and failed transactions from their receipt", func(ctx context.Context) {
		ethWallet.Receipts["0x01"] = &types.Receipt{Status: types.ReceiptStatusSuccessful}
		ethWallet.Receipts["0x02"] = &types.Receipt{Status: types.ReceiptStatusFailed}

		status, err := swap.NewTransaction(wallets, wallet.LedgerEthereum, "0x01").Status(ctx)
		Expect(err).To(BeNil())
		Expect(status).To(Equal(swap.TransactionConfirmed))

		status, err = swap.NewTransaction(wallets, wallet.LedgerEthereum, "0x02").Status(ctx)
		Expect(err).To(BeNil())
		Expect(status).To(Equal(swap.TransactionFailed))
	})

	It("should report unknown transactions", func(ctx context.Context) {
		ethWallet.Err = ethereum.NotFound
		status, err := swap.NewTransaction(wallets, wallet.LedgerEthereum, "0x03").Status(ctx)
		Expect(err).To(BeNil())
		Expect(status).To(Equal(swap.TransactionNotFound))
	})

	It("should not support bitcoin transactions", func(ctx context.Context) {
		_, err := swap.NewTransaction(wallets, wallet.LedgerBitcoin, "ab").Status(ctx)
		Expect(err).To(HaveOccurred())
	})
})
