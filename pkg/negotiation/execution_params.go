package negotiation

import (
	"errors"
	"fmt"
	"time"

	"github.com/catalogfi/comitkit/pkg/cnd"
)

const (
	NetworkMainnet = "mainnet"
	NetworkTestnet = "testnet"
	NetworkRegtest = "regtest"

	EthereumMainnetChainID = 1

	// MinMainnetExpiryWindow is the least time each side of a mainnet swap
	// gets before its expiry.
	MinMainnetExpiryWindow = 12 * time.Hour
)

var (
	ErrMissingPeer          = errors.New("execution params have no peer id")
	ErrInconsistentNetworks = errors.New("execution params mix mainnet and test networks")
)

// LedgerParams selects the network of a ledger. Bitcoin is identified by its
// network name and ethereum by its chain id.
type LedgerParams struct {
	Network string `json:"network,omitempty"`
	ChainID uint64 `json:"chain_id,omitempty"`
}

func DefaultLedgerParams() map[string]LedgerParams {
	return map[string]LedgerParams{
		LedgerBitcoin:  {Network: NetworkMainnet},
		LedgerEthereum: {ChainID: EthereumMainnetChainID},
	}
}

// ExecutionParams are what the maker dictates for the swap of an order: who
// to swap with, when each side expires and which networks to use.
type ExecutionParams struct {
	Peer        cnd.Peer                `json:"peer"`
	AlphaExpiry int64                   `json:"alpha_expiry"`
	BetaExpiry  int64                   `json:"beta_expiry"`
	Ledgers     map[string]LedgerParams `json:"ledgers,omitempty"`
}

// NewExecutionParams gives the alpha side alphaWindow and the beta side
// betaWindow from now.
func NewExecutionParams(peer cnd.Peer, alphaWindow, betaWindow time.Duration, ledgers map[string]LedgerParams) ExecutionParams {
	now := time.Now()
	return ExecutionParams{
		Peer:        peer,
		AlphaExpiry: now.Add(alphaWindow).Unix(),
		BetaExpiry:  now.Add(betaWindow).Unix(),
		Ledgers:     ledgers,
	}
}

// Ledger returns the params of the named ledger, falling back to mainnet.
func (params ExecutionParams) Ledger(name string) LedgerParams {
	defaults := DefaultLedgerParams()[name]
	ledger, ok := params.Ledgers[name]
	if !ok {
		return defaults
	}
	if ledger.Network == "" {
		ledger.Network = defaults.Network
	}
	if ledger.ChainID == 0 {
		ledger.ChainID = defaults.ChainID
	}
	return ledger
}

// SwapLedger returns the ledger of a swap request on the named ledger.
func (params ExecutionParams) SwapLedger(name string) cnd.Ledger {
	ledger := params.Ledger(name)
	switch name {
	case LedgerBitcoin:
		return cnd.Ledger{Name: name, Network: ledger.Network}
	case LedgerEthereum:
		return cnd.Ledger{Name: name, ChainID: ledger.ChainID}
	default:
		return cnd.Ledger{Name: name, Network: ledger.Network, ChainID: ledger.ChainID}
	}
}

// Mainnet reports whether the bitcoin ledger is on mainnet.
func (params ExecutionParams) Mainnet() bool {
	return params.Ledger(LedgerBitcoin).Network == NetworkMainnet
}

func (params ExecutionParams) IsValid() bool {
	return params.Validate(time.Now()) == nil
}

// Validate checks the params against the time now.
func (params ExecutionParams) Validate(now time.Time) error {
	if params.Peer.PeerID == "" {
		return ErrMissingPeer
	}

	bitcoin := params.Ledger(LedgerBitcoin)
	ethereum := params.Ledger(LedgerEthereum)
	switch bitcoin.Network {
	case NetworkMainnet, NetworkTestnet, NetworkRegtest:
	default:
		return fmt.Errorf("unknown bitcoin network %v", bitcoin.Network)
	}
	if (bitcoin.Network == NetworkMainnet) != (ethereum.ChainID == EthereumMainnetChainID) {
		return ErrInconsistentNetworks
	}

	alpha := time.Unix(params.AlphaExpiry, 0)
	beta := time.Unix(params.BetaExpiry, 0)
	if !beta.After(now) {
		return fmt.Errorf("beta expiry %v is not in the future", params.BetaExpiry)
	}
	if !alpha.After(beta) {
		return fmt.Errorf("alpha expiry %v is not after beta expiry %v", params.AlphaExpiry, params.BetaExpiry)
	}
	if bitcoin.Network != NetworkMainnet {
		return nil
	}
	if beta.Sub(now) < MinMainnetExpiryWindow {
		return fmt.Errorf("beta expiry is less than %v away", MinMainnetExpiryWindow)
	}
	if alpha.Sub(beta) < MinMainnetExpiryWindow {
		return fmt.Errorf("alpha expiry is less than %v after beta expiry", MinMainnetExpiryWindow)
	}
	return nil
}
