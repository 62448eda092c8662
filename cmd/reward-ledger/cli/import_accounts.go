package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/rewardlabs-io/reward-ledger/internal/config"
	"github.com/rewardlabs-io/reward-ledger/internal/db"
	"github.com/rewardlabs-io/reward-ledger/internal/services"
	"github.com/rewardlabs-io/reward-ledger/internal/types"
)

func ImportAccountsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import-accounts",
		Short: "Import account balances from a JSON file",
		Args:  cobra.ExactArgs(1),
		RunE:  importAccounts,
	}

	return cmd
}

type importRecord struct {
	Address  string `json:"address"`
	Balance  int64  `json:"balance"`
	Referrer string `json:"referrer"`
}

// logEmitter stands in for the queue during offline imports.
type logEmitter struct{}

func (logEmitter) PushLedgerEvent(ctx context.Context, event *types.LedgerEvent) error {
	log.Ctx(ctx).Debug().
		Str("event_type", event.EventType.String()).
		Str("address", event.Address).
		Msg("skipping event publish during import")
	return nil
}

func importAccounts(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := config.New(GetConfigPath())
	if err != nil {
		return err
	}

	dbClient, err := db.New(ctx, cfg.Db)
	if err != nil {
		return err
	}

	fd, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer fd.Close()

	var records []importRecord
	if err := json.NewDecoder(fd).Decode(&records); err != nil {
		return fmt.Errorf("failed to decode import file: %w", err)
	}

	// The importer only touches local state, so no asset ledgers and no
	// live queue are wired.
	svc := services.NewService(cfg, dbClient, nil, nil, logEmitter{}, services.SystemClock{})

	for _, record := range records {
		if tErr := svc.SetAccountBalance(ctx, record.Address, record.Balance, record.Referrer); tErr != nil {
			fmt.Printf("Error: failed to import %q: %v\n", record.Address, tErr)
			continue
		}
		fmt.Printf("Account %q imported with balance %d\n", record.Address, record.Balance)
	}

	return nil
}
