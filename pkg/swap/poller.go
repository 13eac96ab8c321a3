package swap

import (
	"context"
	"errors"
	"time"

	"github.com/catalogfi/comitkit/pkg/cnd"
	"github.com/catalogfi/comitkit/pkg/wallet"
	"go.uber.org/zap"
)

type pollResult struct {
	resp *cnd.Response
	err  error
}

// TryExecuteAction waits for the daemon to offer the named action, fills its
// fields from the wallets and submits it. A *TimeoutError is returned when the
// action is not submitted within params.MaxTimeout. Polling stops once the
// timeout fires, but a submission already in flight is not cancelled and its
// outcome is discarded.
func (swap *Swap) TryExecuteAction(ctx context.Context, name string, params TryParams) (*cnd.Response, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	pollCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make(chan pollResult, 1)
	go func() {
		resp, err := swap.pollAndExecute(pollCtx, name, params.TryInterval)
		results <- pollResult{resp: resp, err: err}
	}()

	timer := time.NewTimer(params.MaxTimeout)
	defer timer.Stop()
	select {
	case result := <-results:
		return result.resp, result.err
	case <-timer.C:
		swap.logger.Debug("action timed out", zap.String("action", name), zap.Duration("timeout", params.MaxTimeout))
		return nil, &TimeoutError{Action: name, Timeout: params.MaxTimeout}
	}
}

func (swap *Swap) pollAndExecute(ctx context.Context, name string, interval time.Duration) (*cnd.Response, error) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}

		entity, err := swap.FetchDetails(ctx)
		if err != nil {
			return nil, err
		}
		action, ok := entity.Action(name)
		if !ok {
			continue
		}
		return swap.daemon.ExecuteAction(context.WithoutCancel(ctx), action, swap.resolver(name))
	}
}

// resolver fills fields whose class tags name a wallet capability. Other
// fields are left to the daemon.
func (swap *Swap) resolver(actionName string) cnd.FieldResolver {
	return func(ctx context.Context, field cnd.Field) (string, bool, error) {
		capability, ok := wallet.CapabilityFromClasses(field.Class)
		if !ok {
			return "", false, nil
		}
		value, err := swap.wallets.Resolve(ctx, capability)
		if err != nil {
			if errors.Is(err, wallet.ErrWalletNotSet) {
				return "", false, err
			}
			return "", false, &wallet.Error{Attempted: actionName, Source: err, Params: field}
		}
		return value, true, nil
	}
}
