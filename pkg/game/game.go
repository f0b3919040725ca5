package game

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/sirupsen/logrus"

	"jokerhigh-server/pkg/deck"
)

// NumPlayers is the only supported seat count
const NumPlayers = 3

const handSize = 5
const setTurns = 5

// State is the lifecycle state of a game
type State int

// lifecycle states
const (
	StateInitializing State = iota
	StateInProgress
	StateGameOver
)

func (s State) String() string {
	switch s {
	case StateInitializing:
		return "initializing"
	case StateInProgress:
		return "in-progress"
	case StateGameOver:
		return "game-over"
	}

	panic(fmt.Sprintf("unknown state: %d", int(s)))
}

// Game is a single three-player game. It owns its deck and player slots and
// is mutated once per resolved round. It is not safe for concurrent use; the
// room run loop serializes access.
type Game struct {
	options Options
	deck    *deck.Deck
	players [NumPlayers]*Player

	field    [NumPlayers]*deck.Card
	selected [NumPlayers]bool

	currentMultiplier int
	nextMultiplier    int
	setTurnIndex      int
	turn              int

	jokerCount        int
	jokerDealtThisSet bool
	lowDeck           bool
	prevResult        *TurnResult

	state      State
	overReason string

	logger logrus.FieldLogger
	rng    *rand.Rand
}

// NewGame creates a game, deals the first set, and charges the first turn's
// fees. The seats array is indexed by slot.
func NewGame(logger logrus.FieldLogger, seats [NumPlayers]Seat, opts Options) (*Game, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	g := &Game{
		options:           opts,
		deck:              deck.New(),
		currentMultiplier: 1,
		nextMultiplier:    1,
		turn:              1,
		state:             StateInitializing,
		logger:            logger,
		rng:               rand.New(rand.NewSource(time.Now().UnixNano())), // nolint:gosec
	}

	for slot, seat := range seats {
		g.players[slot] = newPlayer(slot, seat, opts.BuyIn())
	}

	g.deck.Shuffle()
	if err := g.deal(handSize); err != nil {
		return nil, err
	}

	g.jokerDealtThisSet = g.anyHandHasJoker()
	g.chargeFees()
	g.state = StateInProgress
	g.checkEndConditions(false)

	return g, nil
}

// deal draws n cards for every player, one at a time around the table
func (g *Game) deal(n int) error {
	for i := 0; i < n; i++ {
		for _, player := range g.players {
			card, err := g.deck.Draw()
			if err != nil {
				return err
			}

			player.Hand.AddCard(card)
		}
	}

	return nil
}

func (g *Game) anyHandHasJoker() bool {
	for _, player := range g.players {
		if player.Hand.HasJoker() {
			return true
		}
	}

	return false
}

// chargeFees charges every slot the new turn's fee and returns the amounts
func (g *Game) chargeFees() [NumPlayers]int {
	var fees [NumPlayers]int
	for slot, player := range g.players {
		fee := Fee(g.prevResult, slot, g.options.Ante)
		player.Score -= fee
		fees[slot] = fee
	}

	return fees
}

// PlayCard records the card selection for a slot. A second selection from an
// already-selected slot is rejected without mutating any state.
func (g *Game) PlayCard(slot int, card *deck.Card) error {
	if g.state != StateInProgress {
		return ErrGameOver
	}

	if slot < 0 || slot >= NumPlayers {
		return ErrInvalidSlot
	}

	if g.selected[slot] {
		return ErrAlreadySelected
	}

	if g.setTurnIndex == 0 && card.IsJoker() {
		return ErrJokerOnFirstTurn
	}

	player := g.players[slot]
	if !player.Hand.HasCard(card) {
		return ErrCardNotInHand
	}

	player.Hand.Discard(card)
	g.field[slot] = card
	g.selected[slot] = true

	return nil
}

// AutoPlay selects a uniformly random legal card for the slot.
// Used for turn timeouts and proxy bots.
func (g *Game) AutoPlay(slot int) (*deck.Card, error) {
	if slot < 0 || slot >= NumPlayers {
		return nil, ErrInvalidSlot
	}

	if g.selected[slot] {
		return nil, ErrAlreadySelected
	}

	legal := make([]*deck.Card, 0, handSize)
	for _, card := range g.players[slot].Hand {
		if g.setTurnIndex == 0 && card.IsJoker() {
			continue
		}

		legal = append(legal, card)
	}

	if len(legal) == 0 {
		// a five-card hand holds at most two jokers, so the first turn of a
		// set always has a legal play
		return nil, ErrCardNotInHand
	}

	card := legal[g.rng.Intn(len(legal))]
	if err := g.PlayCard(slot, card); err != nil {
		return nil, err
	}

	return card, nil
}

// HasSelected returns true if the slot played a card this turn
func (g *Game) HasSelected(slot int) bool {
	if slot < 0 || slot >= NumPlayers {
		return false
	}

	return g.selected[slot]
}

// AllSelected returns true once every slot has played a card this turn
func (g *Game) AllSelected() bool {
	for _, selected := range g.selected {
		if !selected {
			return false
		}
	}

	return true
}

// RoundResult describes a fully resolved round for broadcasting
type RoundResult struct {
	Turn           int          `json:"turn"`
	SetTurnIndex   int          `json:"setTurnIndex"`
	FieldCards     []*deck.Card `json:"fieldCards"`
	Judgment       *Judgment    `json:"judgment"`
	Outcome        *Outcome     `json:"outcome,omitempty"`
	Delta          int          `json:"delta"`
	Multiplier     int          `json:"multiplier"`
	NextMultiplier int          `json:"nextMultiplier"`
	Fees           []int        `json:"fees"`
	Replenished    bool         `json:"replenished"`
	FreshDeck      bool         `json:"freshDeck"`
	LowDeck        bool         `json:"lowDeck"`
	Scores         []int        `json:"scores"`
	GameOver       bool         `json:"gameOver"`
	Reason         string       `json:"reason,omitempty"`
}

// ResolveRound runs the full round pipeline: judge, resolve, score, advance
// the turn, replenish hands on a set boundary, charge the next turn's fees,
// and check the end conditions. Selection flags are reset before returning,
// so the next turn may begin as soon as this method returns.
func (g *Game) ResolveRound() (*RoundResult, error) {
	if g.state != StateInProgress {
		return nil, ErrGameOver
	}

	if !g.AllSelected() {
		g.logger.Error("round resolved before all players selected")
		return nil, ErrRoundNotComplete
	}

	field := make([]*deck.Card, NumPlayers)
	copy(field, g.field[:])

	result := &RoundResult{
		Turn:         g.turn,
		SetTurnIndex: g.setTurnIndex,
		FieldCards:   field,
		Multiplier:   g.currentMultiplier,
	}

	judgment := Judge(field)
	result.Judgment = judgment

	outcome := Resolve(g.logger, field, judgment)
	if outcome != nil {
		delta := ScoreDelta(outcome.WinnerCard, outcome.LoserCard, g.currentMultiplier, g.options.Ante, judgment.IsReverse)
		g.players[outcome.WinnerSlot].Score += delta
		g.players[outcome.LoserSlot].Score -= delta
		g.players[outcome.WinnerSlot].WinCount++

		g.prevResult = &TurnResult{
			WinnerSlot: outcome.WinnerSlot,
			LoserSlot:  outcome.LoserSlot,
		}

		result.Outcome = outcome
		result.Delta = delta
	} else {
		g.prevResult = &TurnResult{IsDraw: true}
	}

	g.nextMultiplier = 1 + MultiplierBonus(field)
	result.NextMultiplier = g.nextMultiplier

	g.turn++
	g.setTurnIndex++
	wrapped := g.setTurnIndex == setTurns
	if wrapped {
		// both multipliers reset at the set boundary
		g.setTurnIndex = 0
		g.currentMultiplier = 1
		g.nextMultiplier = 1
	} else {
		g.currentMultiplier = g.nextMultiplier
	}

	if wrapped {
		rep, err := g.replenish()
		if err != nil {
			return nil, err
		}

		result.Replenished = true
		result.FreshDeck = rep.FreshDeck
		result.LowDeck = rep.LowDeck
	}

	fees := g.chargeFees()
	result.Fees = fees[:]

	g.checkEndConditions(wrapped)

	scores := make([]int, NumPlayers)
	for slot, player := range g.players {
		scores[slot] = player.Score
	}
	result.Scores = scores

	if g.state == StateGameOver {
		result.GameOver = true
		result.Reason = g.overReason
	}

	for slot := range g.field {
		g.field[slot] = nil
		g.selected[slot] = false
	}

	return result, nil
}

// checkEndConditions transitions to GameOver when a player is bankrupt, or,
// only at a set boundary, when the joker limit has been reached.
// Bankruptcy ends the game immediately, even mid-set.
func (g *Game) checkEndConditions(setBoundary bool) {
	for _, player := range g.players {
		if player.Score <= 0 {
			g.state = StateGameOver
			g.overReason = fmt.Sprintf("%s is bankrupt", player.Name)
			return
		}
	}

	if setBoundary && g.jokerCount >= g.options.MaxJokerCount {
		g.state = StateGameOver
		g.overReason = fmt.Sprintf("the joker appeared %d times", g.jokerCount)
	}
}

// MarkProxy flags or clears the proxy status of a slot. The slot keeps its
// hand, score, and name either way.
func (g *Game) MarkProxy(slot int, isProxy bool) error {
	if slot < 0 || slot >= NumPlayers {
		return ErrInvalidSlot
	}

	g.players[slot].IsProxy = isProxy
	g.players[slot].IsBot = isProxy
	return nil
}

// Player returns the player in the given slot
func (g *Game) Player(slot int) (*Player, error) {
	if slot < 0 || slot >= NumPlayers {
		return nil, ErrInvalidSlot
	}

	return g.players[slot], nil
}

// PlayerBySlotOfID returns the slot seated by the given persistent identity,
// or -1 if no slot matches
func (g *Game) PlayerBySlotOfID(playerID int64) int {
	if playerID == 0 {
		return -1
	}

	for slot, player := range g.players {
		if player.PlayerID == playerID {
			return slot
		}
	}

	return -1
}

// State returns the lifecycle state
func (g *Game) State() State {
	return g.state
}

// OverReason returns the human-readable reason the game ended
func (g *Game) OverReason() string {
	return g.overReason
}

// SetTurnIndex returns the position within the current 5-turn set
func (g *Game) SetTurnIndex() int {
	return g.setTurnIndex
}

// Turn returns the 1-based overall turn number
func (g *Game) Turn() int {
	return g.turn
}

// CurrentMultiplier returns the multiplier in effect for the current turn
func (g *Game) CurrentMultiplier() int {
	return g.currentMultiplier
}

// JokerCount returns the number of completed sets in which a joker was dealt
func (g *Game) JokerCount() int {
	return g.jokerCount
}

// Options returns the game options
func (g *Game) Options() Options {
	return g.options
}
