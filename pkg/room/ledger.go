package room

import (
	"context"

	"jokerhigh-server/pkg/game"
)

// Ledger is the economy/history collaborator. The room never writes currency
// itself; it requests debits and reports results.
type Ledger interface {
	// Reserve checks the player's balance and debits the buy-in atomically
	Reserve(ctx context.Context, playerID int64, amount int) error

	// Refund returns a previously reserved buy-in after a failed or cancelled
	// room entry
	Refund(ctx context.Context, playerID int64, amount int) error

	// RecordGameEnd stores the final ranking and credits each ranked
	// player's profit
	RecordGameEnd(ctx context.Context, roomUUID string, results []*game.PlayerResult) error
}
