package commands

import (
	"context"
	"fmt"

	"github.com/catalogfi/comitkit/pkg/cnd"
	"github.com/catalogfi/comitkit/pkg/swap"
	"github.com/spf13/cobra"
)

func Action(env *Env) *cobra.Command {
	var cmd = &cobra.Command{
		Use:   "action [swap-id] [accept|decline|deploy|fund|redeem|refund]",
		Short: "Wait for an action of a swap and execute it",
		Args:  cobra.ExactArgs(2),
		RunE: func(c *cobra.Command, args []string) error {
			swapID, name := args[0], args[1]
			execute, ok := actions[name]
			if !ok {
				return fmt.Errorf("unknown action %v", name)
			}

			ctx := c.Context()
			client, err := env.SwapClient(ctx)
			if err != nil {
				return err
			}
			found, ok, err := client.SwapByID(ctx, swapID)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("swap %v not found", swapID)
			}

			txID, err := execute(found, ctx, env.Config.TryParams())
			if err != nil {
				red.Fprintf(c.OutOrStdout(), "%v failed: %v\n", name, err)
				return err
			}
			if txID == "" {
				green.Fprintf(c.OutOrStdout(), "%v done\n", name)
			} else {
				green.Fprintf(c.OutOrStdout(), "%v done: %v\n", name, txID)
			}
			return nil
		}}
	return cmd
}

type actionFunc func(s *swap.Swap, ctx context.Context, params swap.TryParams) (string, error)

var actions = map[string]actionFunc{
	cnd.ActionAccept: func(s *swap.Swap, ctx context.Context, params swap.TryParams) (string, error) {
		return "", s.Accept(ctx, params)
	},
	cnd.ActionDecline: func(s *swap.Swap, ctx context.Context, params swap.TryParams) (string, error) {
		return "", s.Decline(ctx, params)
	},
	cnd.ActionDeploy: (*swap.Swap).Deploy,
	cnd.ActionFund:   (*swap.Swap).Fund,
	cnd.ActionRedeem: (*swap.Swap).Redeem,
	cnd.ActionRefund: (*swap.Swap).Refund,
}
