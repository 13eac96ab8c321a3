package btcwallet

import (
	"bytes"
	"context"
	"encoding/hex"
	"fmt"
	"sync"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
	"github.com/catalogfi/blockchain/btc"
	"github.com/catalogfi/comitkit/pkg/wallet"
)

type btcWallet struct {
	mu           *sync.RWMutex
	opts         Options
	client       btc.IndexerClient
	feeEstimator btc.FeeEstimator
	key          *btcec.PrivateKey
	address      btcutil.Address
}

// New returns a single key bitcoin wallet backed by an indexer.
func New(opts Options, client btc.IndexerClient, key *btcec.PrivateKey, estimator btc.FeeEstimator) (wallet.BitcoinWallet, error) {
	addr, err := btc.PublicKeyAddress(opts.Network, opts.AddressType, key.PubKey())
	if err != nil {
		return nil, fmt.Errorf("fail to parse wallet address, %v", err)
	}

	return &btcWallet{
		mu:           new(sync.RWMutex),
		opts:         opts,
		client:       client,
		feeEstimator: estimator,
		key:          key,
		address:      addr,
	}, nil
}

func (w *btcWallet) Address(ctx context.Context) (string, error) {
	return w.address.EncodeAddress(), nil
}

func (w *btcWallet) Balance(ctx context.Context) (int64, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	utxos, err := w.client.GetUTXOs(ctx, w.address)
	if err != nil {
		return 0, err
	}
	total := int64(0)
	for _, utxo := range utxos {
		total += utxo.Amount
	}
	return total, nil
}

func (w *btcWallet) SendToAddress(ctx context.Context, address string, amount btcutil.Amount, network string) (string, error) {
	if err := w.checkNetwork(network); err != nil {
		return "", err
	}
	to, err := btcutil.DecodeAddress(address, w.opts.Network)
	if err != nil {
		return "", fmt.Errorf("invalid address %v: %w", address, err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	utxos, err := w.client.GetUTXOs(ctx, w.address)
	if err != nil {
		return "", err
	}
	feeRate, err := w.feeRate()
	if err != nil {
		return "", err
	}

	recipients := []btc.Recipient{
		{
			To:     to.EncodeAddress(),
			Amount: int64(amount),
		},
	}
	fromScript, err := txscript.PayToAddrScript(w.address)
	if err != nil {
		return "", err
	}
	tx, err := btc.BuildTransaction(w.opts.Network, feeRate, btc.NewRawInputs(), utxos, btc.P2wpkhUpdater, recipients, w.address)
	if err != nil {
		return "", err
	}

	// Sign the inputs
	fetcher := txscript.NewMultiPrevOutFetcher(nil)
	for _, utxo := range utxos {
		hash, err := chainhash.NewHashFromStr(utxo.TxID)
		if err != nil {
			return "", err
		}
		fetcher.AddPrevOut(wire.OutPoint{
			Hash:  *hash,
			Index: utxo.Vout,
		}, wire.NewTxOut(utxo.Amount, fromScript))
	}
	sigHashes := txscript.NewTxSigHashes(tx, fetcher)
	for i, in := range tx.TxIn {
		txOut := fetcher.FetchPrevOutput(in.PreviousOutPoint)
		witness, err := txscript.WitnessSignature(tx, sigHashes, i, txOut.Value, fromScript, txscript.SigHashAll, w.key, true)
		if err != nil {
			return "", err
		}
		tx.TxIn[i].Witness = witness
	}

	if err := w.client.SubmitTx(ctx, tx); err != nil {
		return "", err
	}
	return tx.TxHash().String(), nil
}

func (w *btcWallet) BroadcastTransaction(ctx context.Context, txHex string, network string) (string, error) {
	if err := w.checkNetwork(network); err != nil {
		return "", err
	}
	raw, err := hex.DecodeString(txHex)
	if err != nil {
		return "", fmt.Errorf("invalid transaction hex: %w", err)
	}
	tx := wire.NewMsgTx(wire.TxVersion)
	if err := tx.Deserialize(bytes.NewReader(raw)); err != nil {
		return "", fmt.Errorf("invalid transaction: %w", err)
	}
	if err := w.client.SubmitTx(ctx, tx); err != nil {
		return "", err
	}
	return tx.TxHash().String(), nil
}

func (w *btcWallet) Fee(ctx context.Context) (string, error) {
	feeRate, err := w.feeRate()
	if err != nil {
		return "", err
	}
	return wallet.FeePerWU(feeRate), nil
}

func (w *btcWallet) checkNetwork(network string) error {
	params, err := ParamsFromNetwork(network)
	if err != nil {
		return err
	}
	if params.Name != w.opts.Network.Name {
		return fmt.Errorf("wrong network, expect %v, got %v", w.opts.Network.Name, params.Name)
	}
	return nil
}

// feeRate returns the sat/vbyte rate of the configured tier.
func (w *btcWallet) feeRate() (int, error) {
	feeRates, err := w.feeEstimator.FeeSuggestion()
	if err != nil {
		return 0, err
	}

	switch w.opts.FeeTier {
	case "minimum":
		return feeRates.Minimum, nil
	case "economy":
		return feeRates.Economy, nil
	case "low":
		return feeRates.Low, nil
	case "medium":
		return feeRates.Medium, nil
	case "high":
		return feeRates.High, nil
	default:
		return feeRates.High, nil
	}
}
