package cnd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/big"
	"strings"
)

// Swap statuses reported by the daemon.
const (
	StatusInProgress      = "IN_PROGRESS"
	StatusSwapped         = "SWAPPED"
	StatusNotSwapped      = "NOT_SWAPPED"
	StatusInternalFailure = "INTERNAL_FAILURE"
)

// Action names offered on a swap.
const (
	ActionAccept  = "accept"
	ActionDecline = "decline"
	ActionDeploy  = "deploy"
	ActionFund    = "fund"
	ActionRedeem  = "redeem"
	ActionRefund  = "refund"
)

// Info is what the daemon reports about itself on its root endpoint.
type Info struct {
	ID              string   `json:"id"`
	ListenAddresses []string `json:"listen_addresses"`
}

type Peer struct {
	PeerID      string `json:"peer_id"`
	AddressHint string `json:"address_hint,omitempty"`
}

type Ledger struct {
	Name    string `json:"name"`
	Network string `json:"network,omitempty"`
	ChainID uint64 `json:"chain_id,omitempty"`
}

type Asset struct {
	Name          string `json:"name"`
	Quantity      string `json:"quantity"`
	TokenContract string `json:"token_contract,omitempty"`
}

// QuantityInt parses the base unit quantity of the asset.
func (asset Asset) QuantityInt() (*big.Int, bool) {
	return new(big.Int).SetString(asset.Quantity, 10)
}

type SwapParameters struct {
	AlphaAsset  Asset  `json:"alpha_asset"`
	AlphaLedger Ledger `json:"alpha_ledger"`
	BetaAsset   Asset  `json:"beta_asset"`
	BetaLedger  Ledger `json:"beta_ledger"`
}

type SwapProperties struct {
	ID           string          `json:"id"`
	Counterparty string          `json:"counterparty,omitempty"`
	Role         string          `json:"role,omitempty"`
	Protocol     string          `json:"protocol,omitempty"`
	Status       string          `json:"status,omitempty"`
	Parameters   SwapParameters  `json:"parameters"`
	State        json.RawMessage `json:"state,omitempty"`
}

// SwapRequest is the body of a new rfc003 swap.
type SwapRequest struct {
	AlphaLedger               Ledger `json:"alpha_ledger"`
	BetaLedger                Ledger `json:"beta_ledger"`
	AlphaAsset                Asset  `json:"alpha_asset"`
	BetaAsset                 Asset  `json:"beta_asset"`
	AlphaExpiry               int64  `json:"alpha_expiry,omitempty"`
	BetaExpiry                int64  `json:"beta_expiry,omitempty"`
	AlphaLedgerRefundIdentity string `json:"alpha_ledger_refund_identity,omitempty"`
	BetaLedgerRedeemIdentity  string `json:"beta_ledger_redeem_identity,omitempty"`
	Peer                      Peer   `json:"peer"`
}

// Ledger action types the daemon hands out for execution.
const (
	BitcoinSendAmountToAddress        = "bitcoin-send-amount-to-address"
	BitcoinBroadcastSignedTransaction = "bitcoin-broadcast-signed-transaction"
	EthereumDeployContract            = "ethereum-deploy-contract"
	EthereumCallContract              = "ethereum-call-contract"
	LndSendPayment                    = "lnd-send-payment"
	LndAddHoldInvoice                 = "lnd-add-hold-invoice"
	LndSettleInvoice                  = "lnd-settle-invoice"
)

// LedgerAction is an instruction to move assets on a ledger. The payload
// depends on the type.
type LedgerAction struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

func (action LedgerAction) DecodePayload(v interface{}) error {
	if len(action.Payload) == 0 {
		return fmt.Errorf("%v: missing payload", action.Type)
	}
	if err := json.Unmarshal(action.Payload, v); err != nil {
		return fmt.Errorf("%v: invalid payload: %w", action.Type, err)
	}
	return nil
}

// Scalar holds a JSON string or number in its textual form. The daemon is not
// consistent about quoting amounts and network identifiers.
type Scalar string

func (s *Scalar) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*s = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*s = Scalar(str)
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return fmt.Errorf("expected string or number, got %s", data)
	}
	*s = Scalar(num.String())
	return nil
}

func (s Scalar) String() string {
	return string(s)
}

// Uint64 parses the scalar as a decimal or 0x prefixed hex integer.
func (s Scalar) Uint64() (uint64, error) {
	str := strings.TrimSpace(string(s))
	base := 10
	if strings.HasPrefix(str, "0x") || strings.HasPrefix(str, "0X") {
		str, base = str[2:], 16
	}
	value, ok := new(big.Int).SetString(str, base)
	if !ok || !value.IsUint64() {
		return 0, fmt.Errorf("invalid unsigned integer %q", string(s))
	}
	return value.Uint64(), nil
}

// BigInt parses the scalar as a non-negative decimal integer.
func (s Scalar) BigInt() (*big.Int, error) {
	value, ok := new(big.Int).SetString(strings.TrimSpace(string(s)), 10)
	if !ok || value.Sign() < 0 {
		return nil, fmt.Errorf("invalid amount %q", string(s))
	}
	return value, nil
}

type BitcoinSendAmountToAddressPayload struct {
	To      string `json:"to"`
	Amount  Scalar `json:"amount"`
	Network string `json:"network"`
}

type BitcoinBroadcastSignedTransactionPayload struct {
	Hex     string `json:"hex"`
	Network string `json:"network"`
}

type EthereumDeployContractPayload struct {
	Data     string `json:"data"`
	Amount   Scalar `json:"amount"`
	GasLimit Scalar `json:"gas_limit"`
	Network  Scalar `json:"network"`
}

type EthereumCallContractPayload struct {
	ContractAddress string `json:"contract_address"`
	Data            string `json:"data,omitempty"`
	GasLimit        Scalar `json:"gas_limit"`
	Network         Scalar `json:"network"`
}

type LndSendPaymentPayload struct {
	SelfPublicKey  string `json:"self_public_key"`
	ToPublicKey    string `json:"to_public_key"`
	Amount         Scalar `json:"amount"`
	SecretHash     string `json:"secret_hash"`
	FinalCltvDelta Scalar `json:"final_cltv_delta"`
	Chain          string `json:"chain"`
	Network        string `json:"network"`
}

type LndAddHoldInvoicePayload struct {
	SelfPublicKey string `json:"self_public_key"`
	Amount        Scalar `json:"amount"`
	SecretHash    string `json:"secret_hash"`
	Expiry        Scalar `json:"expiry"`
	CltvExpiry    Scalar `json:"cltv_expiry"`
	Chain         string `json:"chain"`
	Network       string `json:"network"`
}

type LndSettleInvoicePayload struct {
	SelfPublicKey string `json:"self_public_key"`
	Secret        string `json:"secret"`
	Chain         string `json:"chain"`
	Network       string `json:"network"`
}
