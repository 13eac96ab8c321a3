package utils

import (
	"context"
	"fmt"
	"math/big"

	"github.com/catalogfi/blockchain/btc"
	"github.com/catalogfi/comitkit/pkg/notify"
	"github.com/catalogfi/comitkit/pkg/store"
	"github.com/catalogfi/comitkit/pkg/token"
	"github.com/catalogfi/comitkit/pkg/wallet"
	"github.com/catalogfi/comitkit/pkg/wallet/btcwallet"
	"github.com/catalogfi/comitkit/pkg/wallet/ethwallet"
	"github.com/ethereum/go-ethereum/ethclient"
	"go.uber.org/zap"
)

// LoadWallets creates the wallets the config has endpoints for.
func LoadWallets(ctx context.Context, config Config, key *Key, logger *zap.Logger) (wallet.Wallets, error) {
	wallets := wallet.Wallets{}

	if config.BitcoinIndexer != "" {
		opts, err := btcwallet.NewOptions(config.Network)
		if err != nil {
			return wallets, err
		}
		indexer := btc.NewElectrsIndexerClient(logger, config.BitcoinIndexer, btc.DefaultRetryInterval)
		var estimator btc.FeeEstimator
		if config.BitcoinFeeRate > 0 {
			estimator = btc.NewFixFeeEstimator(config.BitcoinFeeRate)
		} else {
			estimator = btc.NewMempoolFeeEstimator(opts.Network, btc.MempoolFeeAPI, btc.DefaultRetryInterval)
		}
		btcWallet, err := btcwallet.New(opts, indexer, key.BtcKey(), estimator)
		if err != nil {
			return wallets, fmt.Errorf("failed to create bitcoin wallet: %w", err)
		}
		wallets.Bitcoin = btcWallet
	}

	if config.EthereumURL != "" {
		client, err := ethclient.DialContext(ctx, config.EthereumURL)
		if err != nil {
			return wallets, fmt.Errorf("failed to dial ethereum: %w", err)
		}
		opts := ethwallet.NewOptions(new(big.Int).SetUint64(config.EthereumChainID))
		ethWallet, err := ethwallet.New(opts, key.ECDSA(), client)
		if err != nil {
			return wallets, fmt.Errorf("failed to create ethereum wallet: %w", err)
		}
		wallets.Ethereum = ethWallet
	}
	return wallets, nil
}

// LoadStore connects to redis when configured and keeps records in memory
// otherwise.
func LoadStore(config Config) (store.Store, error) {
	if config.Redis == "" {
		return store.NewInMemStore(), nil
	}
	return store.NewRedisStore(config.Redis)
}

func LoadTokens(config Config) (*token.Registry, error) {
	if config.Tokens == "" {
		return token.DefaultRegistry(), nil
	}
	return token.LoadRegistry(config.Tokens)
}

// LoadNotifier logs notifications and also posts them to discord when
// configured.
func LoadNotifier(config Config, logger *zap.Logger) (notify.Notifier, error) {
	notifiers := notify.Multi{notify.NewLogNotifier(logger)}
	if config.Discord.Token != "" {
		discord, err := notify.NewDiscord(config.Discord.Token, config.Discord.Channel)
		if err != nil {
			return nil, err
		}
		notifiers = append(notifiers, discord)
	}
	return notifiers, nil
}
