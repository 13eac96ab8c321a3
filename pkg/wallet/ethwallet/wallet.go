package ethwallet

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/catalogfi/comitkit/pkg/wallet"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
)

// Client is the part of an ethereum rpc client the wallet needs.
// *ethclient.Client satisfies it.
type Client interface {
	ChainID(ctx context.Context) (*big.Int, error)
	BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error)
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	SendTransaction(ctx context.Context, tx *types.Transaction) error
	TransactionByHash(ctx context.Context, hash common.Hash) (*types.Transaction, bool, error)
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
}

type ethWallet struct {
	options Options
	key     *ecdsa.PrivateKey
	client  Client

	mu    *sync.Mutex
	addr  common.Address
	nonce uint64
}

func New(options Options, key *ecdsa.PrivateKey, client Client) (wallet.EthereumWallet, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Make sure the chain ID matches our expectation, so we know we are on the right chain.
	chainID, err := client.ChainID(ctx)
	if err != nil {
		return nil, err
	}
	if options.ChainID == nil || options.ChainID.Cmp(chainID) != 0 {
		return nil, fmt.Errorf("wrong chain ID, expect %v, got %v", options.ChainID, chainID)
	}

	w := &ethWallet{
		options: options,
		key:     key,
		client:  client,
		mu:      new(sync.Mutex),
		addr:    crypto.PubkeyToAddress(key.PublicKey),
	}

	// Get the pending nonce, and we'll manually manage the nonce with the wallet.
	w.nonce, err = client.PendingNonceAt(ctx, w.addr)
	if err != nil {
		return nil, err
	}
	return w, nil
}

func (w *ethWallet) Account() string {
	return w.addr.Hex()
}

func (w *ethWallet) Balance(ctx context.Context) (*big.Int, error) {
	return w.client.BalanceAt(ctx, w.addr, nil)
}

func (w *ethWallet) DeployContract(ctx context.Context, data []byte, value *big.Int, gasLimit uint64) (string, error) {
	return w.send(ctx, nil, data, value, gasLimit)
}

func (w *ethWallet) CallContract(ctx context.Context, data []byte, contractAddress string, gasLimit uint64) (string, error) {
	if !common.IsHexAddress(contractAddress) {
		return "", fmt.Errorf("invalid contract address %v", contractAddress)
	}
	to := common.HexToAddress(contractAddress)
	return w.send(ctx, &to, data, big.NewInt(0), gasLimit)
}

func (w *ethWallet) Transaction(ctx context.Context, hash string) (*types.Transaction, bool, error) {
	return w.client.TransactionByHash(ctx, common.HexToHash(hash))
}

func (w *ethWallet) TransactionReceipt(ctx context.Context, hash string) (*types.Receipt, error) {
	return w.client.TransactionReceipt(ctx, common.HexToHash(hash))
}

func (w *ethWallet) send(ctx context.Context, to *common.Address, data []byte, value *big.Int, gasLimit uint64) (string, error) {
	if value == nil {
		value = big.NewInt(0)
	}
	w.mu.Lock()
	defer w.mu.Unlock()

	gasPrice, err := w.client.SuggestGasPrice(ctx)
	if err != nil {
		return "", err
	}
	if w.options.GasPriceMultiplier != 0 && w.options.GasPriceMultiplier != 100 {
		gasPrice.Mul(gasPrice, new(big.Int).SetUint64(w.options.GasPriceMultiplier))
		gasPrice.Div(gasPrice, big.NewInt(100))
	}

	tx := types.NewTx(&types.LegacyTx{
		Nonce:    w.nonce,
		GasPrice: gasPrice,
		Gas:      gasLimit,
		To:       to,
		Value:    value,
		Data:     data,
	})
	signedTx, err := types.SignTx(tx, types.LatestSignerForChainID(w.options.ChainID), w.key)
	if err != nil {
		return "", err
	}
	if err := w.client.SendTransaction(ctx, signedTx); err != nil {
		if strings.Contains(err.Error(), "nonce too low") {
			if inErr := w.calibrateNonce(); inErr != nil {
				return "", fmt.Errorf("send failed = %v, reset nonce failed = %v", err, inErr)
			}
		}
		return "", err
	}
	w.nonce++
	return signedTx.Hash().Hex(), nil
}

func (w *ethWallet) calibrateNonce() error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	nonce, err := w.client.PendingNonceAt(ctx, w.addr)
	if err != nil {
		return err
	}
	w.nonce = nonce
	return nil
}
