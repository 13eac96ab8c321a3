package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

func Config(env *Env, path string) *cobra.Command {
	var write bool
	var cmd = &cobra.Command{
		Use:   "config",
		Short: "Print the config in use, or write it to the config file",
		RunE: func(c *cobra.Command, args []string) error {
			data, err := json.MarshalIndent(env.Config, "", "  ")
			if err != nil {
				return err
			}
			if !write {
				fmt.Fprintln(c.OutOrStdout(), string(data))
				return nil
			}
			if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
				return err
			}
			if err := os.WriteFile(path, data, 0644); err != nil {
				return fmt.Errorf("failed to write config: %w", err)
			}
			green.Fprintf(c.OutOrStdout(), "config written to %v\n", path)
			return nil
		}}
	cmd.Flags().BoolVar(&write, "write", false, "write the config file")
	return cmd
}
