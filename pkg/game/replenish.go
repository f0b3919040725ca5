package game

import "jokerhigh-server/pkg/deck"

// replenishResult describes how the hands were refilled at a set boundary
type replenishResult struct {
	// FreshDeck is true if a brand-new shuffled deck replaced the old one
	FreshDeck bool

	// LowDeck is true if the deck is running low and observers should be warned
	LowDeck bool
}

// replenish refills every hand at a set boundary. All hands are empty when
// this is called.
//
// Priority order: a joker seen during the finished set forces a fresh deck
// (and counts toward the joker limit); a healthy deck deals in order; a deck
// under 15 cards is split evenly when possible, topping hands back up to five
// from the reshuffled used pile, and otherwise resets without counting a joker.
func (g *Game) replenish() (*replenishResult, error) {
	res := &replenishResult{}

	left := g.deck.CardsLeft()
	switch {
	case g.jokerDealtThisSet:
		g.jokerCount++
		g.freshDeal()
		res.FreshDeck = true
	case left >= 30:
		if err := g.deal(handSize); err != nil {
			return nil, err
		}
	case left >= 15:
		if err := g.deal(handSize); err != nil {
			return nil, err
		}

		res.LowDeck = true
	case left%NumPlayers == 0:
		if err := g.deal(left / NumPlayers); err != nil {
			return nil, err
		}

		if err := g.topUpFromUsed(); err != nil {
			return nil, err
		}
	default:
		// the remainder cannot be split fairly
		g.freshDeal()
		res.FreshDeck = true
	}

	g.lowDeck = res.LowDeck
	g.jokerDealtThisSet = g.anyHandHasJoker()

	return res, nil
}

// freshDeal rebuilds and shuffles a full deck, then deals five cards to each
// player
func (g *Game) freshDeal() {
	g.deck.Shuffle()

	// a freshly shuffled 54-card deck always covers three 5-card hands
	if err := g.deal(handSize); err != nil {
		panic(err)
	}
}

// topUpFromUsed reconstructs the used pile (the full 54-card set minus the
// cards in any hand and minus the cards still in the deck), shuffles it, and
// tops each hand back up to five cards
func (g *Game) topUpFromUsed() error {
	inPlay := make(map[deck.Card]bool)
	for _, player := range g.players {
		for _, card := range player.Hand {
			inPlay[*card] = true
		}
	}
	for _, card := range g.deck.Cards {
		inPlay[*card] = true
	}

	used := make([]*deck.Card, 0, deck.Size)
	for _, card := range deck.New().Cards {
		if !inPlay[*card] {
			used = append(used, card)
		}
	}

	g.deck.ShuffleCards(used)

	for _, player := range g.players {
		for len(player.Hand) < handSize {
			card, err := g.deck.Draw()
			if err != nil {
				return err
			}

			player.Hand.AddCard(card)
		}
	}

	return nil
}
