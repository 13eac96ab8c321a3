// Package swap drives a swap through the actions its daemon offers and
// executes the resulting ledger actions with the local wallets.
package swap

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/catalogfi/comitkit/pkg/cnd"
	"github.com/catalogfi/comitkit/pkg/store"
	"github.com/catalogfi/comitkit/pkg/wallet"
	"go.uber.org/zap"
)

var ErrInvalidTryParams = errors.New("invalid try params")

// Daemon is the part of the daemon a swap needs. *cnd.Client satisfies it.
type Daemon interface {
	Fetch(ctx context.Context, path string, v interface{}) error
	ExecuteAction(ctx context.Context, action cnd.Action, resolve cnd.FieldResolver) (*cnd.Response, error)
}

// TryParams bounds how long and how often an action is polled for.
type TryParams struct {
	MaxTimeout  time.Duration
	TryInterval time.Duration
}

func NewTryParams(maxTimeoutSecs, tryIntervalSecs int) TryParams {
	return TryParams{
		MaxTimeout:  time.Duration(maxTimeoutSecs) * time.Second,
		TryInterval: time.Duration(tryIntervalSecs) * time.Second,
	}
}

func (params TryParams) Validate() error {
	if params.TryInterval <= 0 || params.MaxTimeout <= 0 {
		return fmt.Errorf("%w: interval and timeout must be positive", ErrInvalidTryParams)
	}
	if params.TryInterval >= params.MaxTimeout {
		return fmt.Errorf("%w: interval %v not below timeout %v", ErrInvalidTryParams, params.TryInterval, params.MaxTimeout)
	}
	return nil
}

// TimeoutError is returned when an action did not become available within
// the timeout.
type TimeoutError struct {
	Action  string
	Timeout time.Duration
}

func (err *TimeoutError) Error() string {
	return fmt.Sprintf("action %v not available after %v", err.Action, err.Timeout)
}

// Swap is a handle on a swap known to the local daemon.
type Swap struct {
	daemon  Daemon
	self    string
	wallets wallet.Wallets
	store   store.Store
	logger  *zap.Logger
}

func New(daemon Daemon, self string, wallets wallet.Wallets, logger *zap.Logger) *Swap {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Swap{
		daemon:  daemon,
		self:    self,
		wallets: wallets,
		logger:  logger.With(zap.String("swap", self)),
	}
}

// WithStore makes the swap record executed ledger actions in s and never
// execute a recorded one again.
func (swap *Swap) WithStore(s store.Store) *Swap {
	swap.store = s
	return swap
}

// Self returns the location of the swap on the daemon.
func (swap *Swap) Self() string {
	return swap.self
}

func (swap *Swap) FetchDetails(ctx context.Context) (cnd.Entity, error) {
	var entity cnd.Entity
	if err := swap.daemon.Fetch(ctx, swap.self, &entity); err != nil {
		return cnd.Entity{}, err
	}
	return entity, nil
}

func (swap *Swap) Properties(ctx context.Context) (cnd.SwapProperties, error) {
	entity, err := swap.FetchDetails(ctx)
	if err != nil {
		return cnd.SwapProperties{}, err
	}
	return entity.SwapProperties()
}

func (swap *Swap) Accept(ctx context.Context, params TryParams) error {
	_, err := swap.TryExecuteAction(ctx, cnd.ActionAccept, params)
	return err
}

func (swap *Swap) Decline(ctx context.Context, params TryParams) error {
	_, err := swap.TryExecuteAction(ctx, cnd.ActionDecline, params)
	return err
}

func (swap *Swap) Deploy(ctx context.Context, params TryParams) (string, error) {
	return swap.executeLedgerAction(ctx, cnd.ActionDeploy, params)
}

func (swap *Swap) Fund(ctx context.Context, params TryParams) (string, error) {
	return swap.executeLedgerAction(ctx, cnd.ActionFund, params)
}

func (swap *Swap) Redeem(ctx context.Context, params TryParams) (string, error) {
	return swap.executeLedgerAction(ctx, cnd.ActionRedeem, params)
}

func (swap *Swap) Refund(ctx context.Context, params TryParams) (string, error) {
	return swap.executeLedgerAction(ctx, cnd.ActionRefund, params)
}

// DoLedgerAction executes a ledger action with the wallets of the swap.
func (swap *Swap) DoLedgerAction(ctx context.Context, action cnd.LedgerAction) (string, error) {
	return DoLedgerAction(ctx, swap.wallets, action)
}

func (swap *Swap) executeLedgerAction(ctx context.Context, name string, params TryParams) (string, error) {
	if swap.store != nil {
		txID, ok, err := swap.store.LedgerAction(ctx, swap.self, name)
		if err != nil {
			return "", err
		}
		if ok {
			swap.logger.Info("ledger action already executed", zap.String("action", name), zap.String("tx", txID))
			return txID, nil
		}
	}

	resp, err := swap.TryExecuteAction(ctx, name, params)
	if err != nil {
		return "", err
	}
	var action cnd.LedgerAction
	if err := resp.Decode(&action); err != nil {
		return "", fmt.Errorf("invalid ledger action for %v: %w", name, err)
	}
	txID, err := swap.DoLedgerAction(ctx, action)
	if err != nil {
		return "", err
	}
	swap.logger.Info("executed ledger action", zap.String("action", name), zap.String("type", action.Type), zap.String("result", txID))

	if swap.store != nil {
		if err := swap.store.RecordLedgerAction(ctx, swap.self, name, txID); err != nil {
			swap.logger.Error("failed to record ledger action", zap.String("action", name), zap.String("tx", txID), zap.Error(err))
		}
	}
	return txID, nil
}
