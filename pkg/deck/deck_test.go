package deck

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewDeck(t *testing.T) {
	d := New()

	assert.Equal(t, 54, d.CardsLeft())
	assert.Equal(t, Card{Rank: Ace, Suit: Clubs}, *d.Cards[0])
	assert.Equal(t, Card{Rank: King, Suit: Spades}, *d.Cards[51])
	assert.Equal(t, Card{Rank: Joker1, Suit: NoSuit}, *d.Cards[52])
	assert.Equal(t, Card{Rank: Joker2, Suit: NoSuit}, *d.Cards[53])

	// every (rank,suit) pair exactly once, plus exactly one of each joker
	seen := make(map[Card]int)
	for _, card := range d.Cards {
		seen[*card]++
	}

	assert.Equal(t, 54, len(seen))
	for _, suit := range []Suit{Clubs, Diamonds, Hearts, Spades} {
		for rank := Ace; rank <= King; rank++ {
			assert.Equal(t, 1, seen[Card{Rank: rank, Suit: suit}])
		}
	}
	assert.Equal(t, 1, seen[Card{Rank: Joker1, Suit: NoSuit}])
	assert.Equal(t, 1, seen[Card{Rank: Joker2, Suit: NoSuit}])
}

func TestDeck_Shuffle(t *testing.T) {
	a := New()
	a.SetSeed(1)
	a.Shuffle()

	b := New()
	b.SetSeed(1)
	b.Shuffle()

	assert.Equal(t, a.HashCode(), b.HashCode())

	c := New()
	c.SetSeed(2)
	c.Shuffle()

	assert.NotEqual(t, a.HashCode(), c.HashCode())
	assert.Equal(t, 54, c.CardsLeft())

	// a shuffled deck is still a full deck
	seen := make(map[Card]bool)
	for _, card := range c.Cards {
		seen[*card] = true
	}
	assert.Equal(t, 54, len(seen))
}

func TestDeck_Draw(t *testing.T) {
	d := New()

	if !d.CanDraw(54) {
		t.Errorf("expected CanDraw(54) to be true")
	}

	if d.CanDraw(55) {
		t.Errorf("expected CanDraw(55) to be false")
	}

	for i := 0; i < 54; i++ {
		card, err := d.Draw()
		if card == nil {
			t.Error("expected card, got nil")
		}

		if err != nil {
			t.Errorf("expected err to be nil, got %v", err)
		}
	}

	card, err := d.Draw()
	assert.Nil(t, card)
	assert.Equal(t, ErrEndOfDeck, err)
}

func TestDeck_ShuffleCards(t *testing.T) {
	d := New()
	d.SetSeed(42)

	used := CardsFromString("1c,2c,3c,4c,5c,6c")
	d.ShuffleCards(used)

	assert.Equal(t, 6, d.CardsLeft())

	seen := make(map[Card]bool)
	for _, card := range d.Cards {
		seen[*card] = true
	}

	for _, card := range used {
		assert.True(t, seen[*card])
	}

	// the source slice must not be mutated
	assert.Equal(t, "1c,2c,3c,4c,5c,6c", CardsToString(used))
}
