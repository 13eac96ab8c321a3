// Package maker publishes orders and accepts the swaps takers create for
// them.
package maker

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/catalogfi/comitkit/pkg/cnd"
	"github.com/catalogfi/comitkit/pkg/negotiation"
	"github.com/catalogfi/comitkit/pkg/notify"
	"github.com/catalogfi/comitkit/pkg/swap"
	"go.uber.org/zap"
)

var (
	ErrSwapMismatch = errors.New("swap does not match the order")
	ErrStopped      = errors.New("order book is stopped")
)

// SwapFinder looks up swaps on the local daemon. *swap.Client satisfies it.
type SwapFinder interface {
	SwapByID(ctx context.Context, id string) (*swap.Swap, bool, error)
}

type Options struct {
	// AlphaExpiry and BetaExpiry are how far from the time of the request
	// the expiries of each side are set.
	AlphaExpiry time.Duration
	BetaExpiry  time.Duration
	Ledgers     map[string]negotiation.LedgerParams

	// TryParams bound both waiting for the swap of a taken order and
	// accepting it.
	TryParams swap.TryParams
}

func NewOptions() Options {
	return Options{
		AlphaExpiry: 48 * time.Hour,
		BetaExpiry:  24 * time.Hour,
		Ledgers:     negotiation.DefaultLedgerParams(),
		TryParams:   swap.NewTryParams(600, 1),
	}
}

// OptionsRegtest gives short expiries on local test networks.
func OptionsRegtest(chainID uint64) Options {
	return Options{
		AlphaExpiry: 2 * time.Hour,
		BetaExpiry:  time.Hour,
		Ledgers: map[string]negotiation.LedgerParams{
			negotiation.LedgerBitcoin:  {Network: negotiation.NetworkRegtest},
			negotiation.LedgerEthereum: {ChainID: chainID},
		},
		TryParams: swap.NewTryParams(60, 1),
	}
}

func (opts Options) WithTryParams(params swap.TryParams) Options {
	opts.TryParams = params
	return opts
}

func (opts Options) WithExpiries(alpha, beta time.Duration) Options {
	opts.AlphaExpiry = alpha
	opts.BetaExpiry = beta
	return opts
}

// OrderBook holds the orders of the maker, indexed by trading pair and by id.
type OrderBook struct {
	peer     cnd.Peer
	finder   SwapFinder
	matcher  *negotiation.Matcher
	notifier notify.Notifier
	options  Options
	logger   *zap.Logger

	mu     *sync.RWMutex
	byPair map[string]negotiation.Order
	byID   map[string]negotiation.Order
	ctx    context.Context
	cancel context.CancelFunc
	wg     *sync.WaitGroup
}

func New(peer cnd.Peer, finder SwapFinder, matcher *negotiation.Matcher, options Options, notifier notify.Notifier, logger *zap.Logger) *OrderBook {
	if logger == nil {
		logger = zap.NewNop()
	}
	if notifier == nil {
		notifier = notify.NewLogNotifier(logger)
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &OrderBook{
		peer:     peer,
		finder:   finder,
		matcher:  matcher,
		notifier: notifier,
		options:  options,
		logger:   logger.With(zap.String("service", "maker")),

		mu:     new(sync.RWMutex),
		byPair: map[string]negotiation.Order{},
		byID:   map[string]negotiation.Order{},
		ctx:    ctx,
		cancel: cancel,
		wg:     new(sync.WaitGroup),
	}
}

// AddOrder publishes a valid order. An order replaces the previous order of
// its trading pair.
func (book *OrderBook) AddOrder(order negotiation.Order) bool {
	if !order.IsValid() {
		book.logger.Debug("rejecting invalid order", zap.String("id", order.ID))
		return false
	}

	book.mu.Lock()
	defer book.mu.Unlock()
	pair := order.TradingPair()
	if previous, ok := book.byPair[pair]; ok {
		delete(book.byID, previous.ID)
	}
	book.byPair[pair] = order
	book.byID[order.ID] = order
	book.logger.Info("order added", zap.String("id", order.ID), zap.String("pair", pair))
	return true
}

func (book *OrderBook) OrderByTradingPair(pair string) (negotiation.Order, bool) {
	book.mu.RLock()
	defer book.mu.RUnlock()
	order, ok := book.byPair[pair]
	return order, ok
}

func (book *OrderBook) OrderByID(id string) (negotiation.Order, bool) {
	book.mu.RLock()
	defer book.mu.RUnlock()
	order, ok := book.byID[id]
	return order, ok
}

// Orders returns all published orders sorted by trading pair.
func (book *OrderBook) Orders() []negotiation.Order {
	book.mu.RLock()
	defer book.mu.RUnlock()
	orders := make([]negotiation.Order, 0, len(book.byPair))
	for _, order := range book.byPair {
		orders = append(orders, order)
	}
	sort.Slice(orders, func(i, j int) bool {
		return orders[i].TradingPair() < orders[j].TradingPair()
	})
	return orders
}

// ExecutionParams returns the params a taker must use to swap the order,
// with expiries counted from now.
func (book *OrderBook) ExecutionParams(order negotiation.Order) negotiation.ExecutionParams {
	return negotiation.NewExecutionParams(book.peer, book.options.AlphaExpiry, book.options.BetaExpiry, book.options.Ledgers)
}

// TakeOrder accepts the swap with the given id once it shows up on the
// daemon and matches the order. It returns immediately, the outcome is only
// logged and notified. Once the book is stopped it returns ErrStopped.
func (book *OrderBook) TakeOrder(swapID string, order negotiation.Order) error {
	book.mu.RLock()
	defer book.mu.RUnlock()
	if book.ctx.Err() != nil {
		return ErrStopped
	}
	book.wg.Add(1)
	go func() {
		defer book.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				book.logger.Error("accept task panicked", zap.String("swap", swapID), zap.Any("panic", r))
			}
		}()

		logger := book.logger.With(zap.String("swap", swapID), zap.String("order", order.ID))
		if err := book.acceptSwap(book.ctx, swapID, order); err != nil {
			var timeout *swap.TimeoutError
			switch {
			case errors.As(err, &timeout), errors.Is(err, context.Canceled):
				logger.Debug("giving up on swap", zap.Error(err))
			default:
				logger.Error("failed to accept swap", zap.Error(err))
				book.notify(fmt.Sprintf("❌ swap %v for order %v not accepted: %v", swapID, order.ID, err))
			}
			return
		}
		logger.Info("swap accepted")
		book.notify(fmt.Sprintf("✅ swap %v for order %v accepted", swapID, order.ID))
	}()
	return nil
}

// Stop cancels pending accept tasks and waits for them to return.
func (book *OrderBook) Stop() {
	book.mu.Lock()
	book.cancel()
	book.mu.Unlock()
	book.wg.Wait()
}

func (book *OrderBook) acceptSwap(ctx context.Context, swapID string, order negotiation.Order) error {
	found, err := book.waitForSwap(ctx, swapID)
	if err != nil {
		return err
	}
	props, err := found.Properties(ctx)
	if err != nil {
		return err
	}
	if !book.matcher.OrderMatchesSwapProperties(order, props) {
		return ErrSwapMismatch
	}
	return found.Accept(ctx, book.options.TryParams)
}

func (book *OrderBook) waitForSwap(ctx context.Context, swapID string) (*swap.Swap, error) {
	params := book.options.TryParams
	if err := params.Validate(); err != nil {
		return nil, err
	}

	ticker := time.NewTicker(params.TryInterval)
	defer ticker.Stop()
	timer := time.NewTimer(params.MaxTimeout)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
			return nil, &swap.TimeoutError{Action: "find swap " + swapID, Timeout: params.MaxTimeout}
		case <-ticker.C:
		}

		found, ok, err := book.finder.SwapByID(ctx, swapID)
		if err != nil {
			book.logger.Debug("failed to look up swap", zap.String("swap", swapID), zap.Error(err))
			continue
		}
		if ok {
			return found, nil
		}
	}
}

func (book *OrderBook) notify(msg string) {
	if err := book.notifier.Notify(book.ctx, msg); err != nil {
		book.logger.Debug("failed to notify", zap.Error(err))
	}
}
