package account

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"jokerhigh-server/pkg/db"
	"jokerhigh-server/pkg/game"
)

// GameRecord is a record in the `games` table: one row per finished game
// with the final ranking as a JSON blob
type GameRecord struct {
	ID       int64
	RoomUUID string
	Ranking  []*game.PlayerResult
	Created  time.Time
	Ended    time.Time
}

const gameColumns = `id, room_uuid, data, created, ended`

// gameData serializes the final ranking for storage
func gameData(results []*game.PlayerResult) ([]byte, error) {
	return json.Marshal(results)
}

// GameRecordByID returns a game record by its ID
func GameRecordByID(ctx context.Context, id int64) (*GameRecord, error) {
	const query = `
SELECT ` + gameColumns + `
FROM games
WHERE id = $1`

	row := db.Instance().QueryRowContext(ctx, query, id)
	return getGameRecordByRow(row)
}

func getGameRecordByRow(row db.Scanner) (*GameRecord, error) {
	var record GameRecord
	var data []byte
	var ended sql.NullTime

	if err := row.Scan(&record.ID, &record.RoomUUID, &data, &record.Created, &ended); err != nil {
		return nil, err
	}

	if data != nil {
		if err := json.Unmarshal(data, &record.Ranking); err != nil {
			return nil, err
		}
	}

	record.Ended = ended.Time

	return &record, nil
}
