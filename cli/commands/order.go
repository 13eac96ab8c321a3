package commands

import (
	"fmt"
	"strings"

	"github.com/catalogfi/comitkit/pkg/negotiation"
	"github.com/catalogfi/comitkit/pkg/negotiation/taker"
	"github.com/catalogfi/comitkit/pkg/unit"
	"github.com/catalogfi/comitkit/utils"
	"github.com/spf13/cobra"
)

func Order(env *Env) *cobra.Command {
	var (
		buy      string
		sell     string
		minRate  string
		makerURL string
		take     bool
	)
	var cmd = &cobra.Command{
		Use:   "order",
		Short: "Get the order of the maker for a trading pair and optionally take it",
		RunE: func(c *cobra.Command, args []string) error {
			criteria, err := parseCriteria(buy, sell, minRate)
			if err != nil {
				return err
			}
			if makerURL == "" {
				makerURL = env.Config.Maker.URL
			}
			makerClient, err := taker.NewMakerClient(makerURL)
			if err != nil {
				return err
			}

			ctx := c.Context()
			client, err := env.SwapClient(ctx)
			if err != nil {
				return err
			}
			registry, err := utils.LoadTokens(env.Config)
			if err != nil {
				return err
			}
			negotiator := taker.NewNegotiator(makerClient, client, negotiation.NewMatcher(registry), env.Logger)

			order, err := negotiator.GetOrder(ctx, criteria)
			if err != nil {
				return err
			}
			out := c.OutOrStdout()
			fmt.Fprintf(out, "order %v: asks %v, bids %v\n", order.ID, order.Ask, order.Bid)
			if rate, ok := order.OfferedRate(); ok {
				fmt.Fprintf(out, "rate %v\n", rate)
			}
			if !order.IsValid() || !order.Matches() {
				yellow.Fprintln(out, "order does not match the criteria")
				return nil
			}
			green.Fprintln(out, "order matches the criteria")
			if !take {
				return nil
			}

			created, err := order.Take(ctx)
			if err != nil {
				return err
			}
			green.Fprintf(out, "swap created: %v\n", created.Self())
			return nil
		}}
	cmd.Flags().StringVar(&buy, "buy", "", "ledger:asset to buy, e.g. bitcoin:bitcoin")
	cmd.Flags().StringVar(&sell, "sell", "", "ledger:asset to sell, e.g. ethereum:ether")
	cmd.Flags().StringVar(&minRate, "min-rate", "", "least amount bought per unit sold")
	cmd.Flags().StringVar(&makerURL, "maker", "", "order service of the maker (default from config)")
	cmd.Flags().BoolVar(&take, "take", false, "take the order when it matches")
	cmd.MarkFlagRequired("buy")
	cmd.MarkFlagRequired("sell")
	return cmd
}

func parseCriteria(buy, sell, minRate string) (negotiation.TakerCriteria, error) {
	criteria := negotiation.TakerCriteria{}
	var err error
	if criteria.Buy, err = parseCriteriaAsset(buy); err != nil {
		return criteria, err
	}
	if criteria.Sell, err = parseCriteriaAsset(sell); err != nil {
		return criteria, err
	}
	if minRate != "" {
		rate, ok := unit.ParseNominal(minRate)
		if !ok {
			return criteria, fmt.Errorf("invalid min rate %v", minRate)
		}
		criteria.MinRate = &rate
	}
	return criteria, nil
}

func parseCriteriaAsset(value string) (negotiation.CriteriaAsset, error) {
	ledger, asset, ok := strings.Cut(value, ":")
	if !ok || ledger == "" || asset == "" {
		return negotiation.CriteriaAsset{}, fmt.Errorf("expected ledger:asset, got %q", value)
	}
	return negotiation.CriteriaAsset{Ledger: ledger, Asset: asset}, nil
}
