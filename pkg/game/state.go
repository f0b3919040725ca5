package game

import "jokerhigh-server/pkg/deck"

// playerInfo is the public view of a player slot
type playerInfo struct {
	Slot      int    `json:"slot"`
	Name      string `json:"name"`
	Score     int    `json:"score"`
	WinCount  int    `json:"winCount"`
	CardCount int    `json:"cardCount"`
	Selected  bool   `json:"selected"`
	IsBot     bool   `json:"isBot"`
	IsProxy   bool   `json:"isProxy"`
}

// GameState is the shared, non-secret view of the game
type GameState struct {
	State        string        `json:"state"`
	Turn         int           `json:"turn"`
	SetTurnIndex int           `json:"setTurnIndex"`
	Multiplier   int           `json:"multiplier"`
	JokerCount   int           `json:"jokerCount"`
	LowDeck      bool          `json:"lowDeck"`
	Players      []*playerInfo `json:"players"`
	Reason       string        `json:"reason,omitempty"`
}

// PlayerState is the game state from one slot's perspective: the shared view
// plus that slot's own hand
type PlayerState struct {
	*GameState
	Slot int       `json:"slot"`
	Hand deck.Hand `json:"hand"`
}

func (g *Game) gameState() *GameState {
	players := make([]*playerInfo, NumPlayers)
	for slot, player := range g.players {
		players[slot] = &playerInfo{
			Slot:      slot,
			Name:      player.Name,
			Score:     player.Score,
			WinCount:  player.WinCount,
			CardCount: len(player.Hand),
			Selected:  g.selected[slot],
			IsBot:     player.IsBot,
			IsProxy:   player.IsProxy,
		}
	}

	return &GameState{
		State:        g.state.String(),
		Turn:         g.turn,
		SetTurnIndex: g.setTurnIndex,
		Multiplier:   g.currentMultiplier,
		JokerCount:   g.jokerCount,
		LowDeck:      g.lowDeck,
		Players:      players,
		Reason:       g.overReason,
	}
}

// PlayerStateFor returns the state visible to the given slot.
// Opponents' hands are reported only as counts.
func (g *Game) PlayerStateFor(slot int) (*PlayerState, error) {
	if slot < 0 || slot >= NumPlayers {
		return nil, ErrInvalidSlot
	}

	return &PlayerState{
		GameState: g.gameState(),
		Slot:      slot,
		Hand:      g.players[slot].Hand.Clone(),
	}, nil
}
