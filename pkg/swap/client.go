package swap

import (
	"context"
	"fmt"

	"github.com/catalogfi/comitkit/pkg/cnd"
	"github.com/catalogfi/comitkit/pkg/store"
	"github.com/catalogfi/comitkit/pkg/wallet"
	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
)

// Cnd is the daemon surface the client needs. *cnd.Client satisfies it.
type Cnd interface {
	Daemon
	Info(ctx context.Context) (cnd.Info, error)
	PostSwap(ctx context.Context, req cnd.SwapRequest) (string, error)
	Swaps(ctx context.Context) (cnd.Entity, error)
}

// Client creates and looks up swaps on the local daemon.
type Client struct {
	cnd     Cnd
	wallets wallet.Wallets
	store   store.Store
	logger  *zap.Logger
}

func NewClient(daemon Cnd, wallets wallet.Wallets, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		cnd:     daemon,
		wallets: wallets,
		logger:  logger,
	}
}

// WithStore makes every swap of the client record its ledger actions in s.
func (client *Client) WithStore(s store.Store) *Client {
	client.store = s
	return client
}

// SendSwap proposes a new swap to the peer of the request. The ethereum
// identities are filled with the account of the ethereum wallet when missing.
func (client *Client) SendSwap(ctx context.Context, req cnd.SwapRequest) (*Swap, error) {
	if req.AlphaLedger.Name == string(wallet.LedgerEthereum) && req.AlphaLedgerRefundIdentity == "" {
		account, err := client.ethereumAccount()
		if err != nil {
			return nil, err
		}
		req.AlphaLedgerRefundIdentity = account
	}
	if req.BetaLedger.Name == string(wallet.LedgerEthereum) && req.BetaLedgerRedeemIdentity == "" {
		account, err := client.ethereumAccount()
		if err != nil {
			return nil, err
		}
		req.BetaLedgerRedeemIdentity = account
	}

	href, err := client.cnd.PostSwap(ctx, req)
	if err != nil {
		return nil, err
	}
	client.logger.Info("swap sent", zap.String("swap", href), zap.String("peer", req.Peer.PeerID))
	return client.Swap(href), nil
}

// Swap returns a handle on the swap at the href.
func (client *Client) Swap(href string) *Swap {
	swap := New(client.cnd, href, client.wallets, client.logger)
	if client.store != nil {
		swap.WithStore(client.store)
	}
	return swap
}

// SwapByID finds the swap with the given id.
func (client *Client) SwapByID(ctx context.Context, id string) (*Swap, bool, error) {
	entities, err := client.swapEntities(ctx)
	if err != nil {
		return nil, false, err
	}
	for _, entity := range entities {
		props, err := entity.SwapProperties()
		if err != nil {
			continue
		}
		if props.ID != id {
			continue
		}
		href, ok := entity.SelfHref()
		if !ok {
			return nil, false, fmt.Errorf("swap %v has no self link", id)
		}
		return client.Swap(href), true, nil
	}
	return nil, false, nil
}

// NewSwaps returns the swaps waiting to be accepted.
func (client *Client) NewSwaps(ctx context.Context) ([]*Swap, error) {
	return client.filterSwaps(ctx, func(entity cnd.Entity, _ cnd.SwapProperties) bool {
		_, ok := entity.Action(cnd.ActionAccept)
		return ok
	})
}

func (client *Client) OngoingSwaps(ctx context.Context) ([]*Swap, error) {
	return client.filterSwaps(ctx, func(_ cnd.Entity, props cnd.SwapProperties) bool {
		return props.Status == cnd.StatusInProgress
	})
}

func (client *Client) DoneSwaps(ctx context.Context) ([]*Swap, error) {
	return client.filterSwaps(ctx, func(_ cnd.Entity, props cnd.SwapProperties) bool {
		switch props.Status {
		case cnd.StatusSwapped, cnd.StatusNotSwapped, cnd.StatusInternalFailure:
			return true
		default:
			return false
		}
	})
}

func (client *Client) PeerID(ctx context.Context) (string, error) {
	info, err := client.cnd.Info(ctx)
	if err != nil {
		return "", err
	}
	return info.ID, nil
}

func (client *Client) PeerListenAddresses(ctx context.Context) ([]string, error) {
	info, err := client.cnd.Info(ctx)
	if err != nil {
		return nil, err
	}
	return info.ListenAddresses, nil
}

func (client *Client) filterSwaps(ctx context.Context, keep func(cnd.Entity, cnd.SwapProperties) bool) ([]*Swap, error) {
	entities, err := client.swapEntities(ctx)
	if err != nil {
		return nil, err
	}
	swaps := []*Swap{}
	for _, entity := range entities {
		props, err := entity.SwapProperties()
		if err != nil {
			client.logger.Debug("skipping swap without properties", zap.Error(err))
			continue
		}
		href, ok := entity.SelfHref()
		if !ok || !keep(entity, props) {
			continue
		}
		swaps = append(swaps, client.Swap(href))
	}
	return swaps, nil
}

func (client *Client) swapEntities(ctx context.Context) ([]cnd.Entity, error) {
	collection, err := client.cnd.Swaps(ctx)
	if err != nil {
		return nil, err
	}
	return collection.Entities, nil
}

func (client *Client) ethereumAccount() (string, error) {
	ethWallet, err := client.wallets.EthereumWallet()
	if err != nil {
		return "", err
	}
	account := ethWallet.Account()
	if !common.IsHexAddress(account) {
		return "", fmt.Errorf("invalid ethereum account %v", account)
	}
	return account, nil
}
