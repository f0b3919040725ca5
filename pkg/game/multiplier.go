package game

import (
	"sort"

	"jokerhigh-server/pkg/deck"
)

// MultiplierBonus inspects a completed round's cards and returns the bonus
// added to form the next round's multiplier. Nil entries are excluded.
//
//	+1 all cards share a suit
//	+1 the cards form a strictly consecutive run (no jokers in play)
//	+1 exactly two cards share a value, +2 if all three do
func MultiplierBonus(field []*deck.Card) int {
	cards := make([]*deck.Card, 0, len(field))
	for _, card := range field {
		if card != nil {
			cards = append(cards, card)
		}
	}

	if len(cards) < 2 {
		return 0
	}

	bonus := 0

	sameSuit := true
	for _, card := range cards[1:] {
		if card.Suit != cards[0].Suit {
			sameSuit = false
			break
		}
	}
	if sameSuit {
		bonus++
	}

	if isRun(cards) {
		bonus++
	}

	valueCount := make(map[int]int)
	for _, card := range cards {
		valueCount[card.Value()]++
	}
	for _, count := range valueCount {
		switch count {
		case 2:
			bonus++
		case 3:
			bonus += 2
		}
	}

	return bonus
}

// isRun returns true if the values form a strictly consecutive ascending run.
// A joker anywhere in play disqualifies the run.
func isRun(cards []*deck.Card) bool {
	values := make([]int, len(cards))
	for i, card := range cards {
		if card.IsJoker() {
			return false
		}

		values[i] = card.Value()
	}

	sort.Ints(values)
	for i := 1; i < len(values); i++ {
		if values[i] != values[i-1]+1 {
			return false
		}
	}

	return true
}
