package game

// TurnResult records who won and lost a resolved turn. A nil TurnResult
// means no turn has been resolved yet.
type TurnResult struct {
	WinnerSlot int  `json:"winnerSlot"`
	LoserSlot  int  `json:"loserSlot"`
	IsDraw     bool `json:"isDraw"`
}

// Fee returns the fee charged to a slot at the start of a turn, based on the
// previous turn's outcome. First turn and post-draw turns charge everyone the
// ante; the previous winner sits out; the previous loser pays double. Any
// other slot pays the ante (only reachable with more than 3 players).
func Fee(prev *TurnResult, slot, ante int) int {
	if prev == nil || prev.IsDraw {
		return ante
	}

	switch slot {
	case prev.WinnerSlot:
		return 0
	case prev.LoserSlot:
		return ante * 2
	default:
		return ante
	}
}
