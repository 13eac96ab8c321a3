// Package wallettest provides in-memory wallets which record every call.
package wallettest

import (
	"context"
	"fmt"
	"math/big"
	"sync"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/ethereum/go-ethereum/core/types"
)

// Call is a recorded wallet invocation.
type Call struct {
	Method string
	Args   []interface{}
}

type recorder struct {
	mu    sync.Mutex
	calls []Call
}

func (r *recorder) record(method string, args ...interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, Call{Method: method, Args: args})
}

// Calls returns a copy of the recorded calls.
func (r *recorder) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	calls := make([]Call, len(r.calls))
	copy(calls, r.calls)
	return calls
}

type Bitcoin struct {
	recorder
	Addr    string
	Network string
	FeeRate string
	TxID    string
	Err     error
}

func NewBitcoin() *Bitcoin {
	return &Bitcoin{
		Addr:    "bcrt1qq6l6uwc4wqdzfjqrx4ysykj95mx7mwjz3jqlhy",
		Network: "regtest",
		FeeRate: "10",
		TxID:    "1d5c2e9e3b0f8f7a4c1e7e6b5f8d9c0a1b2c3d4e5f60718293a4b5c6d7e8f901",
	}
}

func (w *Bitcoin) Address(ctx context.Context) (string, error) {
	w.record("Address")
	return w.Addr, w.Err
}

func (w *Bitcoin) Balance(ctx context.Context) (int64, error) {
	w.record("Balance")
	return 0, w.Err
}

func (w *Bitcoin) SendToAddress(ctx context.Context, address string, amount btcutil.Amount, network string) (string, error) {
	w.record("SendToAddress", address, amount, network)
	if w.Err != nil {
		return "", w.Err
	}
	if network != w.Network {
		return "", fmt.Errorf("wrong network, expect %v, got %v", w.Network, network)
	}
	return w.TxID, nil
}

func (w *Bitcoin) BroadcastTransaction(ctx context.Context, txHex string, network string) (string, error) {
	w.record("BroadcastTransaction", txHex, network)
	if w.Err != nil {
		return "", w.Err
	}
	return w.TxID, nil
}

func (w *Bitcoin) Fee(ctx context.Context) (string, error) {
	w.record("Fee")
	return w.FeeRate, w.Err
}

type Ethereum struct {
	recorder
	Addr     string
	TxHash   string
	Err      error
	Pending  bool
	Receipts map[string]*types.Receipt
}

func NewEthereum() *Ethereum {
	return &Ethereum{
		Addr:     "0x00a329c0648769A73afAc7F9381E08FB43dBEA72",
		TxHash:   "0x3c8f3fa4b3c1d0c2a1bd8e9f0e6f3a47d1c2b3a4958677889900aabbccddeeff",
		Receipts: map[string]*types.Receipt{},
	}
}

func (w *Ethereum) Account() string {
	w.record("Account")
	return w.Addr
}

func (w *Ethereum) Balance(ctx context.Context) (*big.Int, error) {
	w.record("Balance")
	return big.NewInt(0), w.Err
}

func (w *Ethereum) DeployContract(ctx context.Context, data []byte, value *big.Int, gasLimit uint64) (string, error) {
	w.record("DeployContract", data, value, gasLimit)
	if w.Err != nil {
		return "", w.Err
	}
	return w.TxHash, nil
}

func (w *Ethereum) CallContract(ctx context.Context, data []byte, contractAddress string, gasLimit uint64) (string, error) {
	w.record("CallContract", data, contractAddress, gasLimit)
	if w.Err != nil {
		return "", w.Err
	}
	return w.TxHash, nil
}

func (w *Ethereum) Transaction(ctx context.Context, hash string) (*types.Transaction, bool, error) {
	w.record("Transaction", hash)
	if w.Err != nil {
		return nil, false, w.Err
	}
	return types.NewTx(&types.LegacyTx{}), w.Pending, nil
}

func (w *Ethereum) TransactionReceipt(ctx context.Context, hash string) (*types.Receipt, error) {
	w.record("TransactionReceipt", hash)
	if w.Err != nil {
		return nil, w.Err
	}
	receipt, ok := w.Receipts[hash]
	if !ok {
		return nil, fmt.Errorf("receipt not found")
	}
	return receipt, nil
}

type Lightning struct {
	recorder
	PublicKey      string
	Chain          string
	Network        string
	PaymentRequest string
	Err            error
}

func NewLightning() *Lightning {
	return &Lightning{
		PublicKey:      "02ab6f1f7a4c7b0c0f4d0e6b6c1e0b4d1a9f3c8e7d6b5a4f3e2d1c0b9a8f7e6d5c",
		Chain:          "bitcoin",
		Network:        "regtest",
		PaymentRequest: "lnbcrt1u1pwxyz",
	}
}

func (w *Lightning) AssertLndDetails(ctx context.Context, selfPublicKey, chain, network string) error {
	w.record("AssertLndDetails", selfPublicKey, chain, network)
	if selfPublicKey != w.PublicKey || chain != w.Chain || network != w.Network {
		return fmt.Errorf("lnd details mismatch")
	}
	return nil
}

func (w *Lightning) SendPayment(ctx context.Context, toPublicKey string, amount *big.Int, secretHash string, finalCltvDelta uint64) error {
	w.record("SendPayment", toPublicKey, amount, secretHash, finalCltvDelta)
	return w.Err
}

func (w *Lightning) AddHoldInvoice(ctx context.Context, amount *big.Int, secretHash string, expiry, cltvExpiry uint64) (string, error) {
	w.record("AddHoldInvoice", amount, secretHash, expiry, cltvExpiry)
	if w.Err != nil {
		return "", w.Err
	}
	return w.PaymentRequest, nil
}

func (w *Lightning) SettleInvoice(ctx context.Context, secret string) error {
	w.record("SettleInvoice", secret)
	return w.Err
}
