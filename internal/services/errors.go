package services

import (
	"fmt"
	"net/http"

	"github.com/rewardlabs-io/reward-ledger/internal/db"
	"github.com/rewardlabs-io/reward-ledger/internal/types"
)

func accountLookupError(address string, err error) *types.Error {
	if db.IsNotFoundError(err) {
		return types.NewErrorWithMsg(
			http.StatusNotFound,
			types.NotRegistered,
			fmt.Sprintf("account %s is not registered", address),
		)
	}
	return types.NewInternalServiceError(
		fmt.Errorf("failed to load account %s: %w", address, err),
	)
}
