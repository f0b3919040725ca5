package deck

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Suit represents a card suit
type Suit string

// suit constants
// Jokers carry NoSuit
const (
	Hearts   Suit = "hearts"
	Clubs    Suit = "clubs"
	Diamonds Suit = "diamonds"
	Spades   Suit = "spades"
	NoSuit   Suit = ""
)

// rank constants
// Ace is always low in this game. Joker1 and Joker2 exist only so the deck
// can hold two physical jokers; the rules treat them as the same card.
const (
	Ace    = 1
	Jack   = 11
	Queen  = 12
	King   = 13
	Joker1 = 14
	Joker2 = 15
)

// JokerValue is the battle value of either joker
const JokerValue = 15

// Card is an individual playing card
type Card struct {
	Rank int  `json:"rank"`
	Suit Suit `json:"suit"`
}

// IsJoker returns true for either joker variant
func (c *Card) IsJoker() bool {
	return c.Rank == Joker1 || c.Rank == Joker2
}

// Value returns the battle value of the card (A=1 … K=13, joker=15)
func (c *Card) Value() int {
	if c.IsJoker() {
		return JokerValue
	}

	return c.Rank
}

// NormalizedRank collapses both joker variants into a single rank.
// Use this for duplicate detection; two jokers count as the same rank.
func (c *Card) NormalizedRank() int {
	if c.IsJoker() {
		return Joker1
	}

	return c.Rank
}

func (c *Card) String() string {
	if c.IsJoker() {
		return "JOKER"
	}

	var rank string
	switch c.Rank {
	case Ace:
		rank = "A"
	case Jack:
		rank = "J"
	case Queen:
		rank = "Q"
	case King:
		rank = "K"
	default:
		rank = strconv.Itoa(c.Rank)
	}

	var suit string
	switch c.Suit {
	case Clubs:
		suit = "♣"
	case Diamonds:
		suit = "♢"
	case Hearts:
		suit = "♡"
	case Spades:
		suit = "♠"
	default:
		panic("unknown suit")
	}

	return fmt.Sprintf("%s%s", rank, suit)
}

// Equal returns true if the cards are equal (matches suit and rank)
func (c *Card) Equal(card *Card) bool {
	return c.Suit == card.Suit && c.Rank == card.Rank
}

// Clone returns a clone of the card
func (c *Card) Clone() *Card {
	cp := *c
	return &cp
}

var cardRx = regexp.MustCompile(`(?i)^(?:([1-9]|1[0-3])([cdhs])|j([12]))\z`)

// CardFromString returns a Card from the string.
// The string must be in the format of <rank><suit> where rank >= 1 and <= 13
// and suit in [cdhs], or j1/j2 for the jokers
func CardFromString(s string) *Card {
	if s == "" {
		return nil
	}

	match := cardRx.FindStringSubmatch(s)
	if match == nil {
		panic(fmt.Sprintf("could not parse card: %s", s))
	}

	if match[3] != "" {
		rank := Joker1
		if match[3] == "2" {
			rank = Joker2
		}

		return &Card{Rank: rank, Suit: NoSuit}
	}

	rank, err := strconv.Atoi(match[1])
	if err != nil {
		panic(fmt.Sprintf("could not parse card `%s`: %v", s, err))
	}

	var suit Suit
	switch strings.ToLower(match[2]) {
	case "c":
		suit = Clubs
	case "d":
		suit = Diamonds
	case "h":
		suit = Hearts
	case "s":
		suit = Spades
	default:
		// should never be hit due to the regexp
		panic("unknown suit")
	}

	return &Card{
		Rank: rank,
		Suit: suit,
	}
}

// CardsFromString will returns a slice of cards
func CardsFromString(s string) []*Card {
	if s == "" {
		return []*Card{}
	}

	cardStrings := strings.Split(s, ",")
	cards := make([]*Card, len(cardStrings))
	for i, card := range cardStrings {
		cards[i] = CardFromString(card)
	}

	return cards
}

// CardToString converts a card (Ace of Clubs) to a string (1c)
func CardToString(card *Card) string {
	if card == nil {
		return ""
	}

	switch card.Rank {
	case Joker1:
		return "j1"
	case Joker2:
		return "j2"
	}

	var suit string
	switch card.Suit {
	case Clubs:
		suit = "c"
	case Hearts:
		suit = "h"
	case Diamonds:
		suit = "d"
	case Spades:
		suit = "s"
	}

	return fmt.Sprintf("%d%s", card.Rank, suit)
}

// CardsToString will convert a slice of cards to a string in the format of 2c,3h,j1,...
func CardsToString(cards []*Card) string {
	c := make([]string, len(cards))
	for i, card := range cards {
		c[i] = CardToString(card)
	}

	return strings.Join(c, ",")
}
