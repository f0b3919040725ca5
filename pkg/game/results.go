package game

import "sort"

// PlayerResult is one row of the final ranking handed to the economy and
// history collaborators
type PlayerResult struct {
	Slot       int    `json:"slot"`
	PlayerID   int64  `json:"playerId"`
	Name       string `json:"name"`
	BuyIn      int    `json:"buyIn"`
	FinalScore int    `json:"finalScore"`
	Profit     int    `json:"profit"`

	// Rank is nil for a seat that was still proxied when the game ended
	Rank *int `json:"rank"`
}

// Results builds the final ranking. It returns nil while the game is still in
// progress.
//
// Proxied seats, humans who never reconnected, are reported unranked and
// earn no profit; their final score is still recorded.
func (g *Game) Results() []*PlayerResult {
	if g.state != StateGameOver {
		return nil
	}

	results := make([]*PlayerResult, NumPlayers)
	ranked := make([]*PlayerResult, 0, NumPlayers)
	for slot, player := range g.players {
		res := &PlayerResult{
			Slot:       slot,
			PlayerID:   player.PlayerID,
			Name:       player.Name,
			BuyIn:      player.BuyIn,
			FinalScore: player.Score,
		}

		results[slot] = res
		if !player.IsProxy {
			ranked = append(ranked, res)
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].FinalScore > ranked[j].FinalScore
	})

	for i, res := range ranked {
		rank := i + 1
		res.Rank = &rank
		if res.FinalScore > 0 {
			res.Profit = res.FinalScore
		}
	}

	return results
}
