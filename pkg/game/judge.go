package game

import "jokerhigh-server/pkg/deck"

// Judgment is the outcome of comparing the three field cards.
// On a draw all three slots are reported as winners and no reversal applies.
// OriginalWinner is only meaningful when IsReverse is true; it names the slot
// whose apparent win was overturned.
type Judgment struct {
	Winners        []int `json:"winners"`
	IsDraw         bool  `json:"isDraw"`
	IsReverse      bool  `json:"isReverse"`
	OriginalWinner int   `json:"originalWinner"`
}

// reversalCounters maps the winning card's value to the low values that
// overturn it: J↔{A,5}, Q↔{2,6}, K↔{3,7}, joker↔{4}
var reversalCounters = map[int][]int{
	deck.Jack:       {1, 5},
	deck.Queen:      {2, 6},
	deck.King:       {3, 7},
	deck.JokerValue: {4},
}

// Judge determines the winner of a round from the three field cards.
// The slice is indexed by player slot and must not contain nils.
//
// Both joker variants are normalized to one rank for the duplicate check,
// and the reversal candidate is the global minimum-value card.
func Judge(field []*deck.Card) *Judgment {
	rankCount := make(map[int]int)
	for _, card := range field {
		rankCount[card.NormalizedRank()]++
	}

	for _, count := range rankCount {
		if count > 1 {
			winners := make([]int, len(field))
			for i := range field {
				winners[i] = i
			}

			return &Judgment{
				Winners:        winners,
				IsDraw:         true,
				OriginalWinner: -1,
			}
		}
	}

	winner := 0
	for slot, card := range field {
		if card.Value() > field[winner].Value() {
			winner = slot
		}
	}

	j := &Judgment{
		Winners:        []int{winner},
		OriginalWinner: -1,
	}

	counters, ok := reversalCounters[field[winner].Value()]
	if !ok {
		return j
	}

	min := minValueSlot(field)
	for _, counter := range counters {
		if field[min].Value() == counter {
			j.Winners = []int{min}
			j.IsReverse = true
			j.OriginalWinner = winner
			break
		}
	}

	return j
}

// minValueSlot returns the slot holding the minimum-value card.
// Nil entries are skipped so the resolver can reuse it.
func minValueSlot(field []*deck.Card) int {
	min := -1
	for slot, card := range field {
		if card == nil {
			continue
		}

		if min == -1 || card.Value() < field[min].Value() {
			min = slot
		}
	}

	return min
}
