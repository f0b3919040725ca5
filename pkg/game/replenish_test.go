package game

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"jokerhigh-server/pkg/deck"
)

func TestGame_replenish_dealsInOrder(t *testing.T) {
	g := testGame("", "", "")
	// unshuffled full deck, dealt one card at a time around the table

	res, err := g.replenish()
	assert.NoError(t, err)
	assert.False(t, res.FreshDeck)
	assert.False(t, res.LowDeck)

	assert.Equal(t, "1c,4c,7c,10c,13c", g.players[0].Hand.String())
	assert.Equal(t, "2c,5c,8c,11c,1d", g.players[1].Hand.String())
	assert.Equal(t, "3c,6c,9c,12c,2d", g.players[2].Hand.String())
	assert.Equal(t, 39, g.deck.CardsLeft())
	assert.False(t, g.jokerDealtThisSet)
}

func TestGame_replenish_jokerForcesFreshDeck(t *testing.T) {
	g := testGame("", "", "")
	g.deck.Cards = deck.CardsFromString("2c,3c,4c")
	g.jokerDealtThisSet = true

	res, err := g.replenish()
	assert.NoError(t, err)
	assert.True(t, res.FreshDeck)
	assert.Equal(t, 1, g.jokerCount)

	for _, player := range g.players {
		assert.Equal(t, 5, len(player.Hand))
	}
	assert.Equal(t, 39, g.deck.CardsLeft())
}

func TestGame_replenish_lowDeckWarning(t *testing.T) {
	g := testGame("", "", "")
	g.deck.Cards = deck.CardsFromString("1c,2c,3c,4c,5c,6c,7c,8c,9c,10c,11c,12c,13c,1d,2d,3d,4d,5d,6d,7d")

	res, err := g.replenish()
	assert.NoError(t, err)
	assert.False(t, res.FreshDeck)
	assert.True(t, res.LowDeck)

	for _, player := range g.players {
		assert.Equal(t, 5, len(player.Hand))
	}
	assert.Equal(t, 5, g.deck.CardsLeft())
}

func TestGame_replenish_evenSplitTopsUpFromUsed(t *testing.T) {
	g := testGame("", "", "")
	// 12 cards left: 3 players × 4, evenly divisible
	g.deck.Cards = deck.CardsFromString("1c,2c,3c,4c,5c,6c,7c,8c,9c,10c,11c,12c")

	res, err := g.replenish()
	assert.NoError(t, err)
	assert.False(t, res.FreshDeck)

	// each hand topped up to exactly 5; the remaining used pile is the deck
	seen := make(map[deck.Card]bool)
	for _, player := range g.players {
		assert.Equal(t, 5, len(player.Hand))
		for _, card := range player.Hand {
			assert.False(t, seen[*card], "card %s dealt twice", card)
			seen[*card] = true
		}
	}

	for _, card := range g.deck.Cards {
		assert.False(t, seen[*card], "card %s in a hand and in the deck", card)
		seen[*card] = true
	}

	assert.Equal(t, 39, g.deck.CardsLeft())
	assert.Equal(t, 54, len(seen))

	// the 12 deck cards were dealt before the top-up
	for _, s := range []string{"1c", "2c", "3c", "10c", "11c", "12c"} {
		card := deck.CardFromString(s)
		inHand := false
		for _, player := range g.players {
			if player.Hand.HasCard(card) {
				inHand = true
			}
		}
		assert.True(t, inHand, "expected %s to be dealt", s)
	}
}

func TestGame_replenish_unevenRemainderResets(t *testing.T) {
	g := testGame("", "", "")
	g.deck.Cards = deck.CardsFromString("1c,2c,3c,4c,5c,6c,7c,8c,9c,10c,11c,12c,13c")

	res, err := g.replenish()
	assert.NoError(t, err)
	assert.True(t, res.FreshDeck)

	// a forced reset does not count toward the joker limit
	assert.Equal(t, 0, g.jokerCount)

	for _, player := range g.players {
		assert.Equal(t, 5, len(player.Hand))
	}
	assert.Equal(t, 39, g.deck.CardsLeft())
}

func TestGame_replenish_rescansForJokers(t *testing.T) {
	g := testGame("", "", "")
	// put the jokers right at the top so they land in the new hands
	g.deck.Cards = append(deck.CardsFromString("j1,j2"), deck.New().Cards[:40]...)

	res, err := g.replenish()
	assert.NoError(t, err)
	assert.False(t, res.FreshDeck)
	assert.True(t, g.jokerDealtThisSet)
}
