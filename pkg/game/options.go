package game

import "fmt"

// Options configure a single game. They are supplied per room-type and are
// immutable once the game starts.
type Options struct {
	// Ante is the base fee unit used to scale all fees and score deltas
	Ante int

	// AnteMultiplier determines the starting score (and buy-in): Ante * AnteMultiplier
	AnteMultiplier int

	// MaxJokerCount ends the game once this many joker sets have been completed
	MaxJokerCount int
}

// DefaultOptions returns the standard room options
func DefaultOptions() Options {
	return Options{
		Ante:           10,
		AnteMultiplier: 100,
		MaxJokerCount:  3,
	}
}

func (o Options) validate() error {
	if o.Ante <= 0 {
		return fmt.Errorf("ante must be > 0, got %d", o.Ante)
	}

	if o.AnteMultiplier <= 1 {
		return fmt.Errorf("ante multiplier must be > 1, got %d", o.AnteMultiplier)
	}

	if o.MaxJokerCount <= 0 {
		return fmt.Errorf("max joker count must be > 0, got %d", o.MaxJokerCount)
	}

	return nil
}

// BuyIn returns the chip amount a player must stake to sit down
func (o Options) BuyIn() int {
	return o.Ante * o.AnteMultiplier
}
