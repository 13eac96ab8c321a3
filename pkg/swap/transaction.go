package swap

import (
	"context"
	"errors"
	"fmt"

	"github.com/catalogfi/comitkit/pkg/wallet"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/core/types"
)

type TransactionStatus string

const (
	TransactionFailed    TransactionStatus = "failed"
	TransactionPending   TransactionStatus = "pending"
	TransactionConfirmed TransactionStatus = "confirmed"
	TransactionNotFound  TransactionStatus = "not found"
)

// Transaction is a transaction sent by a ledger action.
type Transaction struct {
	Ledger  wallet.Ledger
	ID      string
	wallets wallet.Wallets
}

func NewTransaction(wallets wallet.Wallets, ledger wallet.Ledger, id string) *Transaction {
	return &Transaction{
		Ledger:  ledger,
		ID:      id,
		wallets: wallets,
	}
}

func (tx *Transaction) Status(ctx context.Context) (TransactionStatus, error) {
	switch tx.Ledger {
	case wallet.LedgerEthereum:
		ethWallet, err := tx.wallets.EthereumWallet()
		if err != nil {
			return "", err
		}
		_, pending, err := ethWallet.Transaction(ctx, tx.ID)
		if err != nil {
			if errors.Is(err, ethereum.NotFound) {
				return TransactionNotFound, nil
			}
			return "", err
		}
		if pending {
			return TransactionPending, nil
		}
		receipt, err := ethWallet.TransactionReceipt(ctx, tx.ID)
		if err != nil {
			return "", err
		}
		if receipt.Status == types.ReceiptStatusFailed {
			return TransactionFailed, nil
		}
		return TransactionConfirmed, nil
	default:
		return "", fmt.Errorf("transaction status not supported on %v", tx.Ledger)
	}
}
