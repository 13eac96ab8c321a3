package commands

import (
	"context"
	"os"

	"github.com/catalogfi/comitkit/pkg/cnd"
	"github.com/catalogfi/comitkit/pkg/swap"
	"github.com/catalogfi/comitkit/pkg/wallet"
	"github.com/catalogfi/comitkit/utils"
	"github.com/fatih/color"
	"go.uber.org/zap"
)

// KeyEnv holds the hex private key of the wallets.
const KeyEnv = "PRIVATE_KEY"

// Env is what the commands share. Daemon and Wallets are created from the
// config when not set.
type Env struct {
	Config  utils.Config
	Logger  *zap.Logger
	Daemon  swap.Cnd
	Wallets *wallet.Wallets
}

func (env *Env) daemon() (swap.Cnd, error) {
	if env.Daemon != nil {
		return env.Daemon, nil
	}
	client, err := cnd.NewClient(env.Config.Cnd, env.Logger)
	if err != nil {
		return nil, err
	}
	env.Daemon = client
	return client, nil
}

// wallets loads the wallets of the key in the environment. Without a key
// the commands can only run actions that need no wallet.
func (env *Env) wallets(ctx context.Context) (wallet.Wallets, error) {
	if env.Wallets != nil {
		return *env.Wallets, nil
	}
	keyHex := os.Getenv(KeyEnv)
	if keyHex == "" {
		env.Wallets = &wallet.Wallets{}
		return *env.Wallets, nil
	}
	key, err := utils.ParseKey(keyHex)
	if err != nil {
		return wallet.Wallets{}, err
	}
	wallets, err := utils.LoadWallets(ctx, env.Config, key, env.Logger)
	if err != nil {
		return wallet.Wallets{}, err
	}
	env.Wallets = &wallets
	return wallets, nil
}

func (env *Env) SwapClient(ctx context.Context) (*swap.Client, error) {
	daemon, err := env.daemon()
	if err != nil {
		return nil, err
	}
	wallets, err := env.wallets(ctx)
	if err != nil {
		return nil, err
	}
	s, err := utils.LoadStore(env.Config)
	if err != nil {
		return nil, err
	}
	return swap.NewClient(daemon, wallets, env.Logger).WithStore(s), nil
}

var (
	green  = color.New(color.FgGreen)
	yellow = color.New(color.FgYellow)
	red    = color.New(color.FgRed)
)
