package ethwallet

import (
	"math/big"
)

type Options struct {
	ChainID *big.Int

	// GasPriceMultiplier scales the suggested gas price, in percent.
	GasPriceMultiplier uint64
}

func NewOptions(chainID *big.Int) Options {
	return Options{
		ChainID:            chainID,
		GasPriceMultiplier: 100,
	}
}

func OptionsMainnet() Options {
	return NewOptions(big.NewInt(1))
}

func (opts Options) WithChainID(id *big.Int) Options {
	opts.ChainID = id
	return opts
}

func (opts Options) WithGasPriceMultiplier(percent uint64) Options {
	opts.GasPriceMultiplier = percent
	return opts
}
