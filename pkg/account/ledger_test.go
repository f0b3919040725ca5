package account

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"

	"jokerhigh-server/pkg/game"
)

func intPtr(i int) *int {
	return &i
}

func TestUserError(t *testing.T) {
	var err error = UserError("nope")
	assert.Equal(t, "nope", err.Error())
}

func TestTranslateBalanceError(t *testing.T) {
	checkErr := &pq.Error{Code: pqCheckViolationErrorCode}
	assert.Equal(t, ErrInsufficientBalance, translateBalanceError(checkErr))

	otherPq := &pq.Error{Code: "23505"}
	assert.Equal(t, error(otherPq), translateBalanceError(otherPq))

	plain := errors.New("boom")
	assert.Equal(t, plain, translateBalanceError(plain))
}

func TestCreditedResults(t *testing.T) {
	results := []*game.PlayerResult{
		{Slot: 0, PlayerID: 1, FinalScore: 2200, Profit: 2200, Rank: intPtr(1)},
		{Slot: 1, PlayerID: 0, FinalScore: 500, Profit: 500, Rank: intPtr(2)}, // bot
		{Slot: 2, PlayerID: 3, FinalScore: 0, Profit: 0, Rank: intPtr(3)},
	}

	credited := creditedResults(results)
	assert.Equal(t, 1, len(credited))
	assert.Equal(t, int64(1), credited[0].PlayerID)

	// an unranked (still proxied) seat earns nothing even with a positive score
	results[0].Rank = nil
	assert.Equal(t, 0, len(creditedResults(results)))
}

func TestGameData(t *testing.T) {
	results := []*game.PlayerResult{
		{Slot: 0, PlayerID: 7, Name: "alpha", BuyIn: 1000, FinalScore: 1500, Profit: 1500, Rank: intPtr(1)},
		{Slot: 1, PlayerID: 8, Name: "bravo", BuyIn: 1000, FinalScore: 0, Rank: nil},
	}

	data, err := gameData(results)
	assert.NoError(t, err)

	var decoded []map[string]interface{}
	assert.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, 2, len(decoded))
	assert.Equal(t, "alpha", decoded[0]["name"])
	assert.Equal(t, float64(1), decoded[0]["rank"])
	assert.Nil(t, decoded[1]["rank"])
}
