package swap

import (
	"context"
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/catalogfi/comitkit/pkg/cnd"
	"github.com/catalogfi/comitkit/pkg/wallet"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

var ErrUnsupportedLedgerAction = errors.New("unsupported ledger action")

// DoLedgerAction executes the ledger action with the wallet of its ledger and
// returns the transaction id, or for lightning actions the secret hash,
// payment request or secret. Failures of the wallet are returned as
// *wallet.Error.
func DoLedgerAction(ctx context.Context, wallets wallet.Wallets, action cnd.LedgerAction) (string, error) {
	switch action.Type {
	case cnd.BitcoinSendAmountToAddress:
		var payload cnd.BitcoinSendAmountToAddressPayload
		if err := action.DecodePayload(&payload); err != nil {
			return "", err
		}
		amount, err := bitcoinAmount(payload.Amount)
		if err != nil {
			return "", err
		}
		btcWallet, err := wallets.BitcoinWallet()
		if err != nil {
			return "", err
		}
		return wrap(action, payload, func() (string, error) {
			return btcWallet.SendToAddress(ctx, payload.To, amount, payload.Network)
		})

	case cnd.BitcoinBroadcastSignedTransaction:
		var payload cnd.BitcoinBroadcastSignedTransactionPayload
		if err := action.DecodePayload(&payload); err != nil {
			return "", err
		}
		btcWallet, err := wallets.BitcoinWallet()
		if err != nil {
			return "", err
		}
		return wrap(action, payload, func() (string, error) {
			return btcWallet.BroadcastTransaction(ctx, payload.Hex, payload.Network)
		})

	case cnd.EthereumDeployContract:
		var payload cnd.EthereumDeployContractPayload
		if err := action.DecodePayload(&payload); err != nil {
			return "", err
		}
		data, err := hexutil.Decode(payload.Data)
		if err != nil {
			return "", fmt.Errorf("%v: invalid data: %w", action.Type, err)
		}
		value, err := payload.Amount.BigInt()
		if err != nil {
			return "", fmt.Errorf("%v: %w", action.Type, err)
		}
		gasLimit, err := payload.GasLimit.Uint64()
		if err != nil {
			return "", fmt.Errorf("%v: invalid gas limit: %w", action.Type, err)
		}
		ethWallet, err := wallets.EthereumWallet()
		if err != nil {
			return "", err
		}
		return wrap(action, payload, func() (string, error) {
			return ethWallet.DeployContract(ctx, data, value, gasLimit)
		})

	case cnd.EthereumCallContract:
		var payload cnd.EthereumCallContractPayload
		if err := action.DecodePayload(&payload); err != nil {
			return "", err
		}
		var data []byte
		if payload.Data != "" {
			var err error
			if data, err = hexutil.Decode(payload.Data); err != nil {
				return "", fmt.Errorf("%v: invalid data: %w", action.Type, err)
			}
		}
		gasLimit, err := payload.GasLimit.Uint64()
		if err != nil {
			return "", fmt.Errorf("%v: invalid gas limit: %w", action.Type, err)
		}
		ethWallet, err := wallets.EthereumWallet()
		if err != nil {
			return "", err
		}
		return wrap(action, payload, func() (string, error) {
			return ethWallet.CallContract(ctx, data, payload.ContractAddress, gasLimit)
		})

	case cnd.LndSendPayment:
		var payload cnd.LndSendPaymentPayload
		if err := action.DecodePayload(&payload); err != nil {
			return "", err
		}
		amount, err := payload.Amount.BigInt()
		if err != nil {
			return "", fmt.Errorf("%v: %w", action.Type, err)
		}
		finalCltvDelta, err := payload.FinalCltvDelta.Uint64()
		if err != nil {
			return "", fmt.Errorf("%v: invalid final cltv delta: %w", action.Type, err)
		}
		lnWallet, err := wallets.LightningWallet()
		if err != nil {
			return "", err
		}
		return wrap(action, payload, func() (string, error) {
			if err := lnWallet.AssertLndDetails(ctx, payload.SelfPublicKey, payload.Chain, payload.Network); err != nil {
				return "", err
			}
			if err := lnWallet.SendPayment(ctx, payload.ToPublicKey, amount, payload.SecretHash, finalCltvDelta); err != nil {
				return "", err
			}
			return payload.SecretHash, nil
		})

	case cnd.LndAddHoldInvoice:
		var payload cnd.LndAddHoldInvoicePayload
		if err := action.DecodePayload(&payload); err != nil {
			return "", err
		}
		amount, err := payload.Amount.BigInt()
		if err != nil {
			return "", fmt.Errorf("%v: %w", action.Type, err)
		}
		expiry, err := payload.Expiry.Uint64()
		if err != nil {
			return "", fmt.Errorf("%v: invalid expiry: %w", action.Type, err)
		}
		cltvExpiry, err := payload.CltvExpiry.Uint64()
		if err != nil {
			return "", fmt.Errorf("%v: invalid cltv expiry: %w", action.Type, err)
		}
		lnWallet, err := wallets.LightningWallet()
		if err != nil {
			return "", err
		}
		return wrap(action, payload, func() (string, error) {
			if err := lnWallet.AssertLndDetails(ctx, payload.SelfPublicKey, payload.Chain, payload.Network); err != nil {
				return "", err
			}
			return lnWallet.AddHoldInvoice(ctx, amount, payload.SecretHash, expiry, cltvExpiry)
		})

	case cnd.LndSettleInvoice:
		var payload cnd.LndSettleInvoicePayload
		if err := action.DecodePayload(&payload); err != nil {
			return "", err
		}
		lnWallet, err := wallets.LightningWallet()
		if err != nil {
			return "", err
		}
		return wrap(action, payload, func() (string, error) {
			if err := lnWallet.AssertLndDetails(ctx, payload.SelfPublicKey, payload.Chain, payload.Network); err != nil {
				return "", err
			}
			if err := lnWallet.SettleInvoice(ctx, payload.Secret); err != nil {
				return "", err
			}
			return payload.Secret, nil
		})

	default:
		return "", fmt.Errorf("%w: %v", ErrUnsupportedLedgerAction, action.Type)
	}
}

func wrap(action cnd.LedgerAction, params interface{}, call func() (string, error)) (string, error) {
	result, err := call()
	if err != nil {
		return "", &wallet.Error{Attempted: action.Type, Source: err, Params: params}
	}
	return result, nil
}

func bitcoinAmount(amount cnd.Scalar) (btcutil.Amount, error) {
	value, err := amount.BigInt()
	if err != nil {
		return 0, err
	}
	if !value.IsInt64() || value.Int64() > btcutil.MaxSatoshi {
		return 0, fmt.Errorf("bitcoin amount %v out of range", value)
	}
	return btcutil.Amount(value.Int64()), nil
}
