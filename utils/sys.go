package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/catalogfi/comitkit/pkg/negotiation"
	"github.com/catalogfi/comitkit/pkg/swap"
)

var HomeDir string

func init() {
	var err error
	HomeDir, err = os.UserHomeDir()
	if err != nil {
		log.Fatal("failed to get $HOME value")
	}
}

func DefaultComitDirectory() string {
	return filepath.Join(HomeDir, ".comit")
}

func DefaultConfigPath() string {
	return filepath.Join(HomeDir, ".comit", "config.json")
}

func DefaultLogPath() string {
	return filepath.Join(HomeDir, ".comit", "logs", "comit.log")
}

type MakerConfig struct {
	// Listen is the address the maker serves its orders on.
	Listen string `json:"listen"`
	// URL is the order service of the maker a taker negotiates with.
	URL              string `json:"url"`
	AlphaExpiryHours int    `json:"alphaExpiryHours"`
	BetaExpiryHours  int    `json:"betaExpiryHours"`
}

type DiscordConfig struct {
	Token   string `json:"token"`
	Channel string `json:"channel"`
}

type Config struct {
	Cnd             string        `json:"cnd"`
	Network         string        `json:"network"`
	BitcoinIndexer  string        `json:"bitcoinIndexer"`
	BitcoinFeeRate  int           `json:"bitcoinFeeRate,omitempty"`
	EthereumURL     string        `json:"ethereumURL"`
	EthereumChainID uint64        `json:"ethereumChainId"`
	Redis           string        `json:"redis,omitempty"`
	Tokens          string        `json:"tokens,omitempty"`
	MaxTimeoutSecs  int           `json:"maxTimeoutSecs"`
	TryIntervalSecs int           `json:"tryIntervalSecs"`
	LogLevel        string        `json:"logLevel"`
	LogFile         string        `json:"logFile,omitempty"`
	Sentry          string        `json:"sentry,omitempty"`
	Maker           MakerConfig   `json:"maker"`
	Discord         DiscordConfig `json:"discord"`
}

func DefaultConfig() Config {
	return Config{
		Cnd:             "http://localhost:8000",
		Network:         negotiation.NetworkMainnet,
		EthereumChainID: negotiation.EthereumMainnetChainID,
		MaxTimeoutSecs:  600,
		TryIntervalSecs: 1,
		LogLevel:        "info",
		Maker: MakerConfig{
			Listen:           ":2318",
			URL:              "http://localhost:2318",
			AlphaExpiryHours: 48,
			BetaExpiryHours:  24,
		},
	}
}

// LoadConfig reads the config at path over the defaults. A missing file
// gives the defaults.
func LoadConfig(path string) (Config, error) {
	config := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return config, nil
		}
		return config, err
	}
	if err := json.Unmarshal(data, &config); err != nil {
		return config, fmt.Errorf("invalid config %v: %w", path, err)
	}
	if err := config.TryParams().Validate(); err != nil {
		return config, err
	}
	return config, nil
}

func (config Config) TryParams() swap.TryParams {
	return swap.NewTryParams(config.MaxTimeoutSecs, config.TryIntervalSecs)
}

// Ledgers returns the networks the config puts the ledgers on.
func (config Config) Ledgers() map[string]negotiation.LedgerParams {
	return map[string]negotiation.LedgerParams{
		negotiation.LedgerBitcoin:  {Network: config.Network},
		negotiation.LedgerEthereum: {ChainID: config.EthereumChainID},
	}
}

func (config Config) Expiries() (time.Duration, time.Duration) {
	return time.Duration(config.Maker.AlphaExpiryHours) * time.Hour, time.Duration(config.Maker.BetaExpiryHours) * time.Hour
}
