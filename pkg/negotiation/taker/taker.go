// Package taker finds orders of a maker that fit the criteria of the taker
// and takes them by creating the swap on the local daemon.
package taker

import (
	"context"
	"fmt"
	"time"

	"github.com/catalogfi/comitkit/pkg/cnd"
	"github.com/catalogfi/comitkit/pkg/negotiation"
	"github.com/catalogfi/comitkit/pkg/swap"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// SwapSender creates swaps on the local daemon. *swap.Client satisfies it.
type SwapSender interface {
	SendSwap(ctx context.Context, req cnd.SwapRequest) (*swap.Swap, error)
}

type Negotiator struct {
	maker   MakerClient
	sender  SwapSender
	matcher *negotiation.Matcher
	logger  *zap.Logger
}

func NewNegotiator(maker MakerClient, sender SwapSender, matcher *negotiation.Matcher, logger *zap.Logger) *Negotiator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Negotiator{
		maker:   maker,
		sender:  sender,
		matcher: matcher,
		logger:  logger.With(zap.String("service", "taker")),
	}
}

// Order is an order of the maker seen through the criteria it was requested
// with.
type Order struct {
	negotiation.Order

	criteria   negotiation.TakerCriteria
	negotiator *Negotiator
}

// GetOrder fetches the order of the maker for the trading pair of the
// criteria. The order is returned whether or not it matches.
func (n *Negotiator) GetOrder(ctx context.Context, criteria negotiation.TakerCriteria) (*Order, error) {
	order, err := n.maker.OrderByTradingPair(ctx, criteria.TradingPair())
	if err != nil {
		return nil, err
	}
	return &Order{
		Order:      order,
		criteria:   criteria,
		negotiator: n,
	}, nil
}

func (order *Order) Criteria() negotiation.TakerCriteria {
	return order.criteria
}

func (order *Order) Matches() bool {
	return negotiation.Matches(order.criteria, order.Order)
}

func (order *Order) OfferedRate() (decimal.Decimal, bool) {
	return order.Rate()
}

// Take creates the swap of the order and tells the maker about it. Nothing is
// done and nil is returned when the order is invalid or does not match.
func (order *Order) Take(ctx context.Context) (*swap.Swap, error) {
	if !order.IsValid() || !order.Matches() {
		return nil, nil
	}
	return order.negotiator.take(ctx, order.Order)
}

func (n *Negotiator) take(ctx context.Context, order negotiation.Order) (*swap.Swap, error) {
	params, err := n.maker.ExecutionParams(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	if err := params.Validate(time.Now()); err != nil {
		return nil, fmt.Errorf("invalid execution params for order %v: %w", order.ID, err)
	}

	req, err := n.SwapRequest(order, params)
	if err != nil {
		return nil, err
	}
	sent, err := n.sender.SendSwap(ctx, req)
	if err != nil {
		return nil, err
	}
	props, err := sent.Properties(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read created swap: %w", err)
	}
	if err := n.maker.TakeOrder(ctx, order.ID, props.ID); err != nil {
		return nil, err
	}
	n.logger.Info("order taken", zap.String("order", order.ID), zap.String("swap", props.ID))
	return sent, nil
}

// SwapRequest builds the swap of an order: the taker sends the ask on the
// alpha ledger and receives the bid on the beta ledger.
func (n *Negotiator) SwapRequest(order negotiation.Order, params negotiation.ExecutionParams) (cnd.SwapRequest, error) {
	alpha, ok := n.matcher.AssetToSwap(order.Ask)
	if !ok {
		return cnd.SwapRequest{}, fmt.Errorf("cannot convert %v", order.Ask)
	}
	beta, ok := n.matcher.AssetToSwap(order.Bid)
	if !ok {
		return cnd.SwapRequest{}, fmt.Errorf("cannot convert %v", order.Bid)
	}
	return cnd.SwapRequest{
		AlphaLedger: params.SwapLedger(order.Ask.Ledger),
		BetaLedger:  params.SwapLedger(order.Bid.Ledger),
		AlphaAsset:  alpha,
		BetaAsset:   beta,
		AlphaExpiry: params.AlphaExpiry,
		BetaExpiry:  params.BetaExpiry,
		Peer:        params.Peer,
	}, nil
}
