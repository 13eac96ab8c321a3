package commands

import (
	"fmt"

	"github.com/catalogfi/comitkit/pkg/swap"
	"github.com/spf13/cobra"
)

func Swaps(env *Env) *cobra.Command {
	var status string
	var cmd = &cobra.Command{
		Use:   "swaps",
		Short: "List the swaps of the daemon",
		RunE: func(c *cobra.Command, args []string) error {
			ctx := c.Context()
			client, err := env.SwapClient(ctx)
			if err != nil {
				return err
			}

			var swaps []*swap.Swap
			switch status {
			case "new":
				swaps, err = client.NewSwaps(ctx)
			case "ongoing":
				swaps, err = client.OngoingSwaps(ctx)
			case "done":
				swaps, err = client.DoneSwaps(ctx)
			default:
				return fmt.Errorf("unknown status %v", status)
			}
			if err != nil {
				return err
			}

			out := c.OutOrStdout()
			if len(swaps) == 0 {
				yellow.Fprintf(out, "no %v swaps\n", status)
				return nil
			}
			for _, s := range swaps {
				props, err := s.Properties(ctx)
				if err != nil {
					return err
				}
				params := props.Parameters
				green.Fprintf(out, "%v ", props.ID)
				fmt.Fprintf(out, "%v %v %v on %v -> %v %v on %v\n", props.Status,
					params.AlphaAsset.Quantity, params.AlphaAsset.Name, params.AlphaLedger.Name,
					params.BetaAsset.Quantity, params.BetaAsset.Name, params.BetaLedger.Name)
			}
			return nil
		}}
	cmd.Flags().StringVar(&status, "status", "ongoing", "allowed: \"new\", \"ongoing\", \"done\"")
	return cmd
}
