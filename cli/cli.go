package cli

import (
	"os"

	"github.com/catalogfi/comitkit/cli/commands"
	"github.com/catalogfi/comitkit/utils"
	"github.com/spf13/cobra"
)

// ConfigEnv overrides the path of the config file.
const ConfigEnv = "COMIT_CONFIG"

func Run(version string) error {
	var cmd = &cobra.Command{
		Use:   "comitctl",
		Short: "Negotiate and execute atomic swaps with a comit daemon",
		Run: func(c *cobra.Command, args []string) {
			c.HelpFunc()(c, args)
		},
		Version:           version,
		DisableAutoGenTag: true,
		SilenceUsage:      true,
	}

	path := utils.DefaultConfigPath()
	if override := os.Getenv(ConfigEnv); override != "" {
		path = override
	}
	config, err := utils.LoadConfig(path)
	if err != nil {
		return err
	}
	logger, err := utils.NewLogger(config.LogLevel, config.LogFile)
	if err != nil {
		return err
	}
	if logger, err = utils.AttachSentry(logger, config.Sentry); err != nil {
		return err
	}
	defer logger.Sync()

	env := &commands.Env{Config: config, Logger: logger}
	cmd.AddCommand(commands.Order(env))
	cmd.AddCommand(commands.Swaps(env))
	cmd.AddCommand(commands.Action(env))
	cmd.AddCommand(commands.Config(env, path))
	return cmd.Execute()
}
