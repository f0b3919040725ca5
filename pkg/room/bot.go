package room

import (
	"math/rand"
	"time"

	"jokerhigh-server/pkg/deck"
)

// Strategy selects how a bot picks its card
type Strategy string

// bot strategies
const (
	StrategyRandom     Strategy = "random"
	StrategyAggressive Strategy = "aggressive"
	StrategyPassive    Strategy = "passive"
	StrategyAdaptive   Strategy = "adaptive"
)

var strategies = []Strategy{StrategyRandom, StrategyAggressive, StrategyPassive, StrategyAdaptive}

// botAgent plays a seat automatically, either as a backfilled bot or as a
// zero-delay proxy for a disconnected human. The adaptive strategy's per-set
// choice is cached on the agent itself, so it lives and dies with the game.
type botAgent struct {
	strategy Strategy
	proxy    bool
	rng      *rand.Rand

	cachedSet      int
	cachedStrategy Strategy
}

func newBotAgent(strategy Strategy) *botAgent {
	return &botAgent{
		strategy:  strategy,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())), // nolint:gosec
		cachedSet: -1,
	}
}

// newProxyAgent returns the zero-delay stand-in for a disconnected human
func newProxyAgent() *botAgent {
	agent := newBotAgent(StrategyRandom)
	agent.proxy = true
	return agent
}

// randomStrategy picks a strategy for a backfilled bot
func randomStrategy(rng *rand.Rand) Strategy {
	return strategies[rng.Intn(len(strategies))]
}

// chooseCard picks a card from the hand. setNumber identifies the current
// 5-turn set so the adaptive strategy can re-roll once per set.
func (b *botAgent) chooseCard(hand deck.Hand, setTurnIndex, setNumber int) *deck.Card {
	legal := make([]*deck.Card, 0, len(hand))
	for _, card := range hand {
		if setTurnIndex == 0 && card.IsJoker() {
			continue
		}

		legal = append(legal, card)
	}

	if len(legal) == 0 {
		return nil
	}

	strategy := b.strategy
	if strategy == StrategyAdaptive {
		if b.cachedSet != setNumber {
			b.cachedSet = setNumber
			b.cachedStrategy = []Strategy{StrategyRandom, StrategyAggressive, StrategyPassive}[b.rng.Intn(3)]
		}

		strategy = b.cachedStrategy
	}

	switch strategy {
	case StrategyAggressive:
		best := legal[0]
		for _, card := range legal[1:] {
			if card.Value() > best.Value() {
				best = card
			}
		}
		return best
	case StrategyPassive:
		worst := legal[0]
		for _, card := range legal[1:] {
			if card.Value() < worst.Value() {
				worst = card
			}
		}
		return worst
	default:
		return legal[b.rng.Intn(len(legal))]
	}
}

// thinkDelay returns the humanlike pause before the bot selects.
// Proxies never delay.
func (b *botAgent) thinkDelay(min, max time.Duration) time.Duration {
	if b.proxy {
		return 0
	}

	if max <= min {
		return min
	}

	return min + time.Duration(b.rng.Int63n(int64(max-min)))
}
