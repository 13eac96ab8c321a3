package btcwallet

import (
	"fmt"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcwallet/waddrmgr"
)

type Options struct {
	Network     *chaincfg.Params
	AddressType waddrmgr.AddressType
	FeeTier     string
}

// NewOptions returns the default options of the network the daemon names
// "mainnet", "testnet" or "regtest".
func NewOptions(network string) (Options, error) {
	params, err := ParamsFromNetwork(network)
	if err != nil {
		return Options{}, err
	}
	switch params.Name {
	case chaincfg.MainNetParams.Name:
		return OptionsMainnet(), nil
	case chaincfg.TestNet3Params.Name:
		return OptionsTestnet(), nil
	default:
		return OptionsRegression(), nil
	}
}

func OptionsMainnet() Options {
	return Options{
		Network:     &chaincfg.MainNetParams,
		AddressType: waddrmgr.WitnessPubKey,
		FeeTier:     "high",
	}
}

func OptionsTestnet() Options {
	return Options{
		Network:     &chaincfg.TestNet3Params,
		AddressType: waddrmgr.WitnessPubKey,
		FeeTier:     "medium",
	}
}

func OptionsRegression() Options {
	return Options{
		Network:     &chaincfg.RegressionNetParams,
		AddressType: waddrmgr.WitnessPubKey,
		FeeTier:     "low",
	}
}

func (opts Options) WithFeeTier(feeTier string) Options {
	opts.FeeTier = feeTier
	return opts
}

func (opts Options) WithAddressType(addressType waddrmgr.AddressType) Options {
	opts.AddressType = addressType
	return opts
}

// ParamsFromNetwork maps the network names used by the daemon to chain params.
func ParamsFromNetwork(network string) (*chaincfg.Params, error) {
	switch network {
	case "mainnet", chaincfg.MainNetParams.Name:
		return &chaincfg.MainNetParams, nil
	case "testnet", chaincfg.TestNet3Params.Name:
		return &chaincfg.TestNet3Params, nil
	case "regtest", chaincfg.RegressionNetParams.Name:
		return &chaincfg.RegressionNetParams, nil
	default:
		return nil, fmt.Errorf("unknown bitcoin network = %v", network)
	}
}
