package wallet

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/ethereum/go-ethereum/core/types"
)

var ErrWalletNotSet = errors.New("wallet not set")

type BitcoinWallet interface {
	// Address returns a receiving address of the wallet.
	Address(ctx context.Context) (string, error)

	// Balance returns the confirmed balance in satoshi.
	Balance(ctx context.Context) (int64, error)

	// SendToAddress pays the amount to the address and returns the tx id. The
	// network is checked against the network of the wallet.
	SendToAddress(ctx context.Context, address string, amount btcutil.Amount, network string) (string, error)

	// BroadcastTransaction submits a signed raw transaction and returns its id.
	BroadcastTransaction(ctx context.Context, txHex string, network string) (string, error)

	// Fee returns the fee rate per weight unit the wallet would pay.
	Fee(ctx context.Context) (string, error)
}

type EthereumWallet interface {
	// Account returns the hex address of the wallet.
	Account() string

	Balance(ctx context.Context) (*big.Int, error)

	DeployContract(ctx context.Context, data []byte, value *big.Int, gasLimit uint64) (string, error)

	CallContract(ctx context.Context, data []byte, contractAddress string, gasLimit uint64) (string, error)

	// Transaction returns the transaction and whether it is still pending.
	Transaction(ctx context.Context, hash string) (*types.Transaction, bool, error)

	TransactionReceipt(ctx context.Context, hash string) (*types.Receipt, error)
}

type LightningWallet interface {
	// AssertLndDetails makes sure the node behind the wallet is the one the
	// daemon expects.
	AssertLndDetails(ctx context.Context, selfPublicKey, chain, network string) error

	SendPayment(ctx context.Context, toPublicKey string, amount *big.Int, secretHash string, finalCltvDelta uint64) error

	// AddHoldInvoice returns the payment request of the invoice.
	AddHoldInvoice(ctx context.Context, amount *big.Int, secretHash string, expiry, cltvExpiry uint64) (string, error)

	SettleInvoice(ctx context.Context, secret string) error
}

// Wallets is the set of wallets available to execute swaps. Any of them can
// be nil when the ledger is not used. Leave a field unset rather than storing
// a nil pointer in it, a typed nil is treated as a configured wallet.
type Wallets struct {
	Bitcoin   BitcoinWallet
	Ethereum  EthereumWallet
	Lightning LightningWallet
}

func (wallets Wallets) BitcoinWallet() (BitcoinWallet, error) {
	if wallets.Bitcoin == nil {
		return nil, fmt.Errorf("bitcoin %w", ErrWalletNotSet)
	}
	return wallets.Bitcoin, nil
}

func (wallets Wallets) EthereumWallet() (EthereumWallet, error) {
	if wallets.Ethereum == nil {
		return nil, fmt.Errorf("ethereum %w", ErrWalletNotSet)
	}
	return wallets.Ethereum, nil
}

func (wallets Wallets) LightningWallet() (LightningWallet, error) {
	if wallets.Lightning == nil {
		return nil, fmt.Errorf("lightning %w", ErrWalletNotSet)
	}
	return wallets.Lightning, nil
}

// Error is returned when a wallet fails to perform an action on behalf of the
// daemon.
type Error struct {
	Attempted string
	Source    error
	Params    interface{}
}

func (err *Error) Error() string {
	return fmt.Sprintf("wallet failed to %v: %v", err.Attempted, err.Source)
}

func (err *Error) Unwrap() error {
	return err.Source
}
