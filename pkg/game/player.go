package game

import "jokerhigh-server/pkg/deck"

// Player is a seated player slot in a game.
// PlayerID is 0 for bots; it is the persistent identity reference for humans.
type Player struct {
	Slot     int       `json:"slot"`
	PlayerID int64     `json:"playerId"`
	Name     string    `json:"name"`
	Hand     deck.Hand `json:"-"`
	Score    int       `json:"score"`
	WinCount int       `json:"winCount"`
	BuyIn    int       `json:"buyIn"`
	IsBot    bool      `json:"isBot"`
	IsProxy  bool      `json:"isProxy"`
}

// Seat describes who sits in a slot when a game is created
type Seat struct {
	PlayerID int64
	Name     string
	IsBot    bool
}

func newPlayer(slot int, seat Seat, buyIn int) *Player {
	return &Player{
		Slot:     slot,
		PlayerID: seat.PlayerID,
		Name:     seat.Name,
		Hand:     make(deck.Hand, 0, handSize),
		Score:    buyIn,
		BuyIn:    buyIn,
		IsBot:    seat.IsBot,
	}
}
