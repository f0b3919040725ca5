package game

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"jokerhigh-server/pkg/deck"
)

func TestResolve(t *testing.T) {
	logger := logrus.New()

	f := field("2c,9h,6s")
	outcome := Resolve(logger, f, Judge(f))
	assert.NotNil(t, outcome)
	assert.Equal(t, 1, outcome.WinnerSlot)
	assert.Equal(t, 0, outcome.LoserSlot)
	assert.Equal(t, deck.CardFromString("9h"), outcome.WinnerCard)
	assert.Equal(t, deck.CardFromString("2c"), outcome.LoserCard)
}

func TestResolve_reversal(t *testing.T) {
	logger := logrus.New()

	// the 3 overturns the K; the loser is the original winner
	f := field("13s,3h,9c")
	outcome := Resolve(logger, f, Judge(f))
	assert.NotNil(t, outcome)
	assert.Equal(t, 1, outcome.WinnerSlot)
	assert.Equal(t, 0, outcome.LoserSlot)
	assert.Equal(t, deck.CardFromString("3h"), outcome.WinnerCard)
	assert.Equal(t, deck.CardFromString("13s"), outcome.LoserCard)
}

func TestResolve_draw(t *testing.T) {
	logger := logrus.New()

	f := field("5c,5h,13s")
	assert.Nil(t, Resolve(logger, f, Judge(f)))
}

func TestResolve_missingCardFailsSafe(t *testing.T) {
	logger := logrus.New()

	f := field("13s,3h,9c")
	judgment := Judge(f)
	f[2] = nil

	assert.Nil(t, Resolve(logger, f, judgment))
}
