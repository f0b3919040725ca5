package game

import "jokerhigh-server/pkg/deck"

// ScoreDelta computes the points moved from the loser to the winner.
// The transfer is zero-sum; the fee ledger is handled separately.
func ScoreDelta(winner, loser *deck.Card, multiplier, ante int, isReverse bool) int {
	switch {
	case isReverse && loser.IsJoker():
		return 100 * multiplier * ante
	case isReverse:
		// the loser's face card was overturned; the bonus is keyed to the
		// winning counter-card's own value
		var bonus int
		switch winner.Value() {
		case 1, 2, 3:
			bonus = 30
		case 5, 6, 7:
			bonus = 25
		}

		return bonus * multiplier * ante
	case winner.IsJoker():
		return 50 * multiplier * ante
	default:
		return (winner.Value() - loser.Value()) * 2 * multiplier * ante
	}
}
