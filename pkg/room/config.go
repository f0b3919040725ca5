package room

import (
	"time"

	"jokerhigh-server/pkg/game"
)

// Config is the immutable per-room-type configuration
type Config struct {
	RoomType       string
	Ante           int
	AnteMultiplier int
	MaxJokerCount  int

	// TurnTime is how long players have to select a card before the round is
	// forced to resolution
	TurnTime time.Duration

	// BotFillDelay is how long a short-handed room waits before bots fill the
	// empty seats
	BotFillDelay time.Duration

	// BotThinkMin/Max bound the humanlike delay before a bot selects
	BotThinkMin time.Duration
	BotThinkMax time.Duration

	// RevealPause is the pause between a round result broadcast and the next
	// turn opening
	RevealPause time.Duration
}

// DefaultConfig returns the standard room configuration
func DefaultConfig() Config {
	return Config{
		RoomType:       "standard",
		Ante:           10,
		AnteMultiplier: 100,
		MaxJokerCount:  3,
		TurnTime:       time.Second * 15,
		BotFillDelay:   time.Second * 10,
		BotThinkMin:    time.Millisecond * 800,
		BotThinkMax:    time.Millisecond * 2500,
		RevealPause:    time.Second * 2,
	}
}

func (c Config) gameOptions() game.Options {
	return game.Options{
		Ante:           c.Ante,
		AnteMultiplier: c.AnteMultiplier,
		MaxJokerCount:  c.MaxJokerCount,
	}
}

// BuyIn returns the chip amount debited when a player takes a seat
func (c Config) BuyIn() int {
	return c.gameOptions().BuyIn()
}
