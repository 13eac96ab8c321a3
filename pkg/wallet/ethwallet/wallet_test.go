package ethwallet_test

import (
	"context"
	"math/big"

	"github.com/catalogfi/comitkit/pkg/wallet"
	"github.com/catalogfi/comitkit/pkg/wallet/ethwallet"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient/simulated"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Ethereum wallet", func() {
	var (
		backend      *simulated.Backend
		fundedWallet wallet.EthereumWallet
	)
	simulatedChainID := big.NewInt(1337)

	BeforeEach(func() {
		key, err := crypto.GenerateKey()
		Expect(err).To(BeNil())
		funded := crypto.PubkeyToAddress(key.PublicKey)
		backend = simulated.NewBackend(types.GenesisAlloc{
			funded: {Balance: big.NewInt(1e18)},
		})
		DeferCleanup(backend.Close)

		fundedWallet, err = ethwallet.New(ethwallet.NewOptions(simulatedChainID), key, backend.Client())
		Expect(err).To(BeNil())
	})

	It("should refuse to connect to another chain", func() {
		key, err := crypto.GenerateKey()
		Expect(err).To(BeNil())
		_, err = ethwallet.New(ethwallet.OptionsMainnet(), key, backend.Client())
		Expect(err).To(HaveOccurred())
	})

	It("should report the balance of the account", func(ctx context.Context) {
		balance, err := fundedWallet.Balance(ctx)
		Expect(err).To(BeNil())
		Expect(balance.Cmp(big.NewInt(1e18))).To(Equal(0))
	})

	It("should deploy contracts and report their receipt", func(ctx context.Context) {
		hash, err := fundedWallet.DeployContract(ctx, []byte{0x00}, big.NewInt(0), 100000)
		Expect(err).To(BeNil())
		backend.Commit()

		receipt, err := fundedWallet.TransactionReceipt(ctx, hash)
		Expect(err).To(BeNil())
		Expect(receipt.Status).To(Equal(types.ReceiptStatusSuccessful))

		_, pending, err := fundedWallet.Transaction(ctx, hash)
		Expect(err).To(BeNil())
		Expect(pending).To(BeFalse())

		By("Calling the deployed contract with the next nonce")
		hash, err = fundedWallet.CallContract(ctx, []byte{0x01}, receipt.ContractAddress.Hex(), 100000)
		Expect(err).To(BeNil())
		backend.Commit()
		receipt, err = fundedWallet.TransactionReceipt(ctx, hash)
		Expect(err).To(BeNil())
		Expect(receipt.Status).To(Equal(types.ReceiptStatusSuccessful))
	})

	It("should reject malformed contract addresses", func(ctx context.Context) {
		_, err := fundedWallet.CallContract(ctx, nil, "0x1234", 21000)
		Expect(err).To(HaveOccurred())
	})
})
