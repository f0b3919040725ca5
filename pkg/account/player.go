package account

import (
	"context"
	"time"

	"jokerhigh-server/pkg/db"
)

const playerColumns = `
players.id,
players.display_name,
players.balance,
players.created,
players.updated`

// Player is a record in the `players` table
type Player struct {
	ID          int64     `json:"id"`
	DisplayName string    `json:"displayName"`
	Balance     int       `json:"balance"`
	Created     time.Time `json:"created"`
	Updated     time.Time `json:"updated"`
}

func getPlayerByRow(row db.Scanner) (*Player, error) {
	var player Player
	if err := row.Scan(&player.ID, &player.DisplayName, &player.Balance, &player.Created, &player.Updated); err != nil {
		return nil, err
	}

	return &player, nil
}

// GetPlayerByID returns a player based on the ID
func GetPlayerByID(ctx context.Context, id int64) (*Player, error) {
	const query = `
SELECT ` + playerColumns + `
FROM players
WHERE id = $1`

	row := db.Instance().QueryRowContext(ctx, query, id)
	return getPlayerByRow(row)
}

// CreatePlayer creates a new player with the starting balance
func CreatePlayer(ctx context.Context, displayName string, balance int) (*Player, error) {
	const query = `
INSERT INTO players (display_name, balance)
VALUES ($1, $2)
RETURNING ` + playerColumns

	row := db.Instance().QueryRowContext(ctx, query, displayName, balance)
	return getPlayerByRow(row)
}

// Save will persist any non-balance changes made to the player.
// Balance changes only happen through the ledger.
func (p *Player) Save(ctx context.Context) error {
	const query = `
UPDATE players
SET display_name = $1,
    updated = (NOW() AT TIME ZONE 'utc')
WHERE id = $2`

	_, err := db.Instance().ExecContext(ctx, query, p.DisplayName, p.ID)
	return err
}
