package assetledger

import "context"

// AssetLedger is the operation set of an external fungible-asset ledger.
// Success means the transfer is final on the ledger side; failures abort
// the enclosing ledger operation.
type AssetLedger interface {
	Transfer(ctx context.Context, to string, amount int64) error
	TransferFrom(ctx context.Context, from, to string, amount int64) error
	BalanceOf(ctx context.Context, address string) (int64, error)
}
