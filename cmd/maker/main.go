package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/catalogfi/comitkit/pkg/cnd"
	"github.com/catalogfi/comitkit/pkg/negotiation"
	"github.com/catalogfi/comitkit/pkg/negotiation/maker"
	"github.com/catalogfi/comitkit/pkg/swap"
	"github.com/catalogfi/comitkit/utils"
	"go.uber.org/zap"
)

type orderConfig struct {
	Ask           negotiation.OrderAsset `json:"ask"`
	Bid           negotiation.OrderAsset `json:"bid"`
	ValidForHours int                    `json:"validForHours"`
}

func main() {
	configPath := os.Getenv("COMIT_CONFIG")
	if configPath == "" {
		configPath = utils.DefaultConfigPath()
	}
	config, err := utils.LoadConfig(configPath)
	if err != nil {
		panic(err)
	}
	logger, err := utils.NewLogger(config.LogLevel, config.LogFile)
	if err != nil {
		panic(err)
	}
	if logger, err = utils.AttachSentry(logger, config.Sentry); err != nil {
		panic(err)
	}
	defer logger.Sync()

	key, err := utils.ParseKey(parseRequiredEnv("PRIVATE_KEY"))
	if err != nil {
		panic(err)
	}
	orders, err := loadOrders(parseRequiredEnv("ORDERS_FILE"))
	if err != nil {
		panic(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	daemon, err := cnd.NewClient(config.Cnd, logger)
	if err != nil {
		panic(err)
	}
	info, err := daemon.Info(ctx)
	if err != nil {
		panic(fmt.Sprintf("daemon unreachable: %v", err))
	}
	wallets, err := utils.LoadWallets(ctx, config, key, logger)
	if err != nil {
		panic(err)
	}
	s, err := utils.LoadStore(config)
	if err != nil {
		panic(err)
	}
	registry, err := utils.LoadTokens(config)
	if err != nil {
		panic(err)
	}
	notifier, err := utils.LoadNotifier(config, logger)
	if err != nil {
		panic(err)
	}

	peer := cnd.Peer{PeerID: info.ID}
	if len(info.ListenAddresses) > 0 {
		peer.AddressHint = info.ListenAddresses[0]
	}
	alpha, beta := config.Expiries()
	options := maker.NewOptions().
		WithExpiries(alpha, beta).
		WithTryParams(config.TryParams())
	options.Ledgers = config.Ledgers()

	client := swap.NewClient(daemon, wallets, logger).WithStore(s)
	book := maker.New(peer, client, negotiation.NewMatcher(registry), options, notifier, logger)
	defer book.Stop()
	for _, order := range orders {
		if !book.AddOrder(order) {
			logger.Warn("skipping invalid order", zap.String("pair", order.TradingPair()))
		}
	}

	server := maker.NewServer(book, logger)
	go func() {
		if err := server.Run(ctx, config.Maker.Listen); err != nil {
			logger.Error("server stopped", zap.Error(err))
			cancel()
		}
	}()
	logger.Info("maker started", zap.String("listen", config.Maker.Listen), zap.String("peer", peer.PeerID))

	// waiting system signal
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGQUIT, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sigs:
	case <-ctx.Done():
	}
}

func loadOrders(path string) ([]negotiation.Order, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var configs []orderConfig
	if err := json.Unmarshal(data, &configs); err != nil {
		return nil, fmt.Errorf("invalid orders file: %w", err)
	}
	orders := make([]negotiation.Order, 0, len(configs))
	for _, c := range configs {
		validity := time.Duration(c.ValidForHours) * time.Hour
		if validity == 0 {
			validity = 24 * time.Hour
		}
		orders = append(orders, negotiation.NewOrder(c.Ask, c.Bid, validity))
	}
	return orders, nil
}

func parseRequiredEnv(name string) string {
	val := os.Getenv(name)
	if val == "" {
		panic(fmt.Sprintf("env '%v' not set", name))
	}
	return val
}
