package game

import "errors"

// ErrGameOver happens when an action is attempted after the game ended
var ErrGameOver = errors.New("the game is over")

// ErrAlreadySelected happens when a player tries to play a second card in the same turn
var ErrAlreadySelected = errors.New("you already played a card this turn")

// ErrJokerOnFirstTurn happens when a joker is played on the first turn of a set
var ErrJokerOnFirstTurn = errors.New("a joker cannot be played on the first turn of a set")

// ErrCardNotInHand happens when a player plays a card they do not hold
var ErrCardNotInHand = errors.New("that card is not in your hand")

// ErrInvalidSlot happens on a lookup with an out-of-range player slot
var ErrInvalidSlot = errors.New("invalid player slot")

// ErrRoundNotComplete happens when a round is resolved before all players played
var ErrRoundNotComplete = errors.New("not all players have played a card")
