package utils_test

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/catalogfi/comitkit/pkg/swap"
	"github.com/catalogfi/comitkit/utils"
	"go.uber.org/zap"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// Well known key of the first hardhat account.
const testKey = "ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"

var _ = Describe("Config", func() {
	var dir string

	BeforeEach(func() {
		var err error
		dir, err = os.MkdirTemp("", "comit")
		Expect(err).To(BeNil())
		DeferCleanup(os.RemoveAll, dir)
	})

	write := func(content string) string {
		path := filepath.Join(dir, "config.json")
		Expect(os.WriteFile(path, []byte(content), 0644)).Should(Succeed())
		return path
	}

	It("should use the defaults without a file", func() {
		config, err := utils.LoadConfig(filepath.Join(dir, "missing.json"))
		Expect(err).To(BeNil())
		Expect(config).Should(Equal(utils.DefaultConfig()))
		Expect(config.TryParams()).Should(Equal(swap.TryParams{MaxTimeout: 600 * time.Second, TryInterval: time.Second}))
	})

	It("should read the file over the defaults", func() {
		config, err := utils.LoadConfig(write(`{"network": "regtest", "ethereumChainId": 17, "maker": {"listen": ":9000"}}`))
		Expect(err).To(BeNil())
		Expect(config.Network).Should(Equal("regtest"))
		Expect(config.Maker.Listen).Should(Equal(":9000"))
		Expect(config.Cnd).Should(Equal("http://localhost:8000"))
		Expect(config.Ledgers()["ethereum"].ChainID).Should(Equal(uint64(17)))
	})

	It("should reject malformed files and try params", func() {
		_, err := utils.LoadConfig(write(`{"network": `))
		Expect(err).ShouldNot(BeNil())

		_, err = utils.LoadConfig(write(`{"maxTimeoutSecs": 1, "tryIntervalSecs": 5}`))
		Expect(err).Should(MatchError(swap.ErrInvalidTryParams))
	})

	It("should load the in memory store and default tokens without endpoints", func() {
		s, err := utils.LoadStore(utils.DefaultConfig())
		Expect(err).To(BeNil())
		Expect(s).ShouldNot(BeNil())

		registry, err := utils.LoadTokens(utils.DefaultConfig())
		Expect(err).To(BeNil())
		_, ok := registry.Token("PAY")
		Expect(ok).Should(BeTrue())

		wallets, err := utils.LoadWallets(context.Background(), utils.DefaultConfig(), nil, zap.NewNop())
		Expect(err).To(BeNil())
		Expect(wallets.Bitcoin).Should(BeNil())
		Expect(wallets.Ethereum).Should(BeNil())
	})

	It("should write json logs to the file", func() {
		file := filepath.Join(dir, "logs", "comit.log")
		logger, err := utils.NewLogger("debug", file)
		Expect(err).To(BeNil())
		logger.Info("hello")
		_ = logger.Sync()

		data, err := os.ReadFile(file)
		Expect(err).To(BeNil())
		Expect(string(data)).Should(ContainSubstring(`"msg":"hello"`))

		_, err = utils.NewLogger("loud", "")
		Expect(err).ShouldNot(BeNil())
	})

	It("should attach sentry only when a dsn is configured", func() {
		logger := zap.NewNop()
		attached, err := utils.AttachSentry(logger, "")
		Expect(err).To(BeNil())
		Expect(attached).Should(BeIdenticalTo(logger))

		attached, err = utils.AttachSentry(logger, "https://public@sentry.example.com/1")
		Expect(err).To(BeNil())
		Expect(attached).ShouldNot(BeIdenticalTo(logger))

		_, err = utils.AttachSentry(logger, "not a dsn")
		Expect(err).ShouldNot(BeNil())
	})
})

var _ = Describe("Key", func() {
	It("should derive the addresses of both ledgers", func() {
		key, err := utils.ParseKey("0x" + testKey)
		Expect(err).To(BeNil())
		Expect(key.EvmAddress().Hex()).Should(Equal("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"))

		addr, err := key.WitnessAddress(&chaincfg.RegressionNetParams)
		Expect(err).To(BeNil())
		Expect(addr.EncodeAddress()).Should(HavePrefix("bcrt1q"))
	})

	It("should reject malformed keys", func() {
		_, err := utils.ParseKey("zz")
		Expect(err).ShouldNot(BeNil())
	})
})
