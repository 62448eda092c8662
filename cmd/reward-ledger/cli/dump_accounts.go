package cli

import (
	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"

	"github.com/rewardlabs-io/reward-ledger/internal/config"
	"github.com/rewardlabs-io/reward-ledger/internal/db"
)

func DumpAccountsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dump-accounts",
		Short: "Dump stored accounts in registry order",
		Args:  cobra.ExactArgs(0),
		RunE:  dumpAccounts,
	}

	cmd.Flags().Int64("count", 0, "Number of accounts to dump (0 means all)")

	return cmd
}

func dumpAccounts(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := config.New(GetConfigPath())
	if err != nil {
		return err
	}

	dbClient, err := db.New(ctx, cfg.Db)
	if err != nil {
		return err
	}

	count, err := cmd.Flags().GetInt64("count")
	if err != nil {
		return err
	}
	if count == 0 {
		count, err = dbClient.GetAccountCount(ctx)
		if err != nil {
			return err
		}
	}

	accounts, err := dbClient.GetAccountsByPosition(ctx, count)
	if err != nil {
		return err
	}

	for _, account := range accounts {
		spew.Dump(account)
	}

	return nil
}
