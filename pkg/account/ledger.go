package account

import (
	"context"
	"database/sql"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"jokerhigh-server/pkg/db"
	"jokerhigh-server/pkg/game"
)

const pqCheckViolationErrorCode pq.ErrorCode = "23514"

// ErrInsufficientBalance happens when a reserve would take a balance below zero
var ErrInsufficientBalance = UserError("insufficient balance")

// ledger entry reasons
const (
	reasonBuyIn    = "buy-in"
	reasonRefund   = "refund"
	reasonWinnings = "winnings"
)

// Ledger performs all balance movements through the adjust_balance stored
// procedure, so every change leaves a player_ledger row
type Ledger struct {
	db *sql.DB
}

// NewLedger returns a ledger backed by the database instance
func NewLedger() *Ledger {
	return &Ledger{db: db.Instance()}
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

func adjustBalance(ctx context.Context, q execer, playerID int64, byAmount int, gameID *int64, reason string) error {
	const query = `SELECT adjust_balance($1, $2, $3, $4)`

	if _, err := q.ExecContext(ctx, query, playerID, byAmount, gameID, reason); err != nil {
		return translateBalanceError(err)
	}

	return nil
}

// translateBalanceError maps the balance check constraint violation to a
// user-safe error
func translateBalanceError(err error) error {
	if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == pqCheckViolationErrorCode {
		return ErrInsufficientBalance
	}

	return err
}

// Reserve debits the buy-in if the player can afford it
func (l *Ledger) Reserve(ctx context.Context, playerID int64, amount int) error {
	return adjustBalance(ctx, l.db, playerID, -amount, nil, reasonBuyIn)
}

// Refund returns a previously reserved buy-in
func (l *Ledger) Refund(ctx context.Context, playerID int64, amount int) error {
	return adjustBalance(ctx, l.db, playerID, amount, nil, reasonRefund)
}

// RecordGameEnd stores the final ranking and credits each ranked player's
// profit in a single transaction
func (l *Ledger) RecordGameEnd(ctx context.Context, roomUUID string, results []*game.PlayerResult) error {
	data, err := gameData(results)
	if err != nil {
		return err
	}

	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	commit := false
	defer func() {
		if !commit {
			if err := tx.Rollback(); err != nil {
				logrus.WithError(err).Error("could not rollback transaction")
			}
			return
		}

		if err := tx.Commit(); err != nil {
			logrus.WithError(err).Error("could not commit transaction")
		}
	}()

	const query = `
INSERT INTO games (room_uuid, data, ended)
VALUES ($1, $2, (NOW() AT TIME ZONE 'utc'))
RETURNING id`

	var gameID int64
	if err := tx.QueryRowContext(ctx, query, roomUUID, data).Scan(&gameID); err != nil {
		return err
	}

	for _, result := range creditedResults(results) {
		if err := adjustBalance(ctx, tx, result.PlayerID, result.Profit, &gameID, reasonWinnings); err != nil {
			return err
		}
	}

	commit = true
	return nil
}

// creditedResults filters to human players owed a payout. Bots have no
// economy rows, and disconnected seats forfeit their profit.
func creditedResults(results []*game.PlayerResult) []*game.PlayerResult {
	credited := make([]*game.PlayerResult, 0, len(results))
	for _, result := range results {
		if result.PlayerID == 0 || result.Rank == nil || result.Profit <= 0 {
			continue
		}

		credited = append(credited, result)
	}

	return credited
}
