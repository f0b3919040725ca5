package game

import (
	"github.com/sirupsen/logrus"

	"jokerhigh-server/pkg/deck"
)

// Outcome is a concrete (winner, loser) pair derived from a Judgment,
// ready for scoring
type Outcome struct {
	WinnerSlot int        `json:"winnerSlot"`
	LoserSlot  int        `json:"loserSlot"`
	WinnerCard *deck.Card `json:"winnerCard"`
	LoserCard  *deck.Card `json:"loserCard"`
}

// Resolve converts a judgment into a concrete outcome.
// On a draw there is no outcome and nil is returned.
// A missing field card means the caller resolved an incomplete round; that is
// a caller bug, so we log it and return nil rather than guess at a score.
func Resolve(logger logrus.FieldLogger, field []*deck.Card, judgment *Judgment) *Outcome {
	if judgment.IsDraw {
		return nil
	}

	for slot, card := range field {
		if card == nil {
			logger.WithField("slot", slot).Error("cannot resolve a round with a missing field card")
			return nil
		}
	}

	winner := judgment.Winners[0]

	var loser int
	if judgment.IsReverse {
		loser = judgment.OriginalWinner
	} else {
		loser = minValueSlot(field)
	}

	return &Outcome{
		WinnerSlot: winner,
		LoserSlot:  loser,
		WinnerCard: field[winner],
		LoserCard:  field[loser],
	}
}
