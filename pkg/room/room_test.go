package room

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"jokerhigh-server/pkg/deck"
	"jokerhigh-server/pkg/game"
)

type recordedGame struct {
	roomUUID string
	results  []*game.PlayerResult
}

type fakeLedger struct {
	mu         sync.Mutex
	reserves   map[int64]int
	refunds    map[int64]int
	reserveErr error
	records    []recordedGame
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{
		reserves: make(map[int64]int),
		refunds:  make(map[int64]int),
	}
}

func (f *fakeLedger) Reserve(_ context.Context, playerID int64, amount int) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.reserveErr != nil {
		return f.reserveErr
	}

	f.reserves[playerID] += amount
	return nil
}

func (f *fakeLedger) Refund(_ context.Context, playerID int64, amount int) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.refunds[playerID] += amount
	return nil
}

func (f *fakeLedger) RecordGameEnd(_ context.Context, roomUUID string, results []*game.PlayerResult) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.records = append(f.records, recordedGame{roomUUID: roomUUID, results: results})
	return nil
}

func (f *fakeLedger) refunded(playerID int64) int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.refunds[playerID]
}

func (f *fakeLedger) recorded() []recordedGame {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.records
}

// roomEnv drives a room synchronously: the run loop is never started, and
// work submitted through exec is drained by the test itself
type roomEnv struct {
	t      *testing.T
	ledger *fakeLedger
	boss   *PitBoss
	room   *Room
	clock  *fakeClock
}

func newRoomEnv(t *testing.T, config Config) *roomEnv {
	t.Helper()

	ledger := newFakeLedger()
	boss := NewPitBoss(ledger, map[string]Config{"standard": config})
	r := NewRoom(boss, config)

	clock := &fakeClock{}
	r.sched.afterFunc = clock.AfterFunc

	return &roomEnv{
		t:      t,
		ledger: ledger,
		boss:   boss,
		room:   r,
		clock:  clock,
	}
}

func (e *roomEnv) drain() {
	for {
		select {
		case fn := <-e.room.execCh:
			fn()
		default:
			return
		}
	}
}

func (e *roomEnv) seatHumans(n int) []*Client {
	e.t.Helper()

	clients := make([]*Client, n)
	for i := range clients {
		c := NewClient(nil, int64(i+1), fmt.Sprintf("player-%d", i+1))
		c.pitBoss = e.boss
		e.room.addHuman(c, "")
		clients[i] = c
	}

	return clients
}

func drainMessages(c *Client) []*Response {
	var msgs []*Response
	for {
		select {
		case m := <-c.SendChan():
			msgs = append(msgs, m.(*Response))
		default:
			return msgs
		}
	}
}

func findKey(t *testing.T, msgs []*Response, key string) *Response {
	t.Helper()

	for _, msg := range msgs {
		if msg.Key == key {
			return msg
		}
	}

	t.Fatalf("no message with key %q in %d messages", key, len(msgs))
	return nil
}

func hasKey(msgs []*Response, key string) bool {
	for _, msg := range msgs {
		if msg.Key == key {
			return true
		}
	}

	return false
}

// firstLegal picks a card the engine will accept for the current turn
func firstLegal(state *game.PlayerState) *deck.Card {
	for _, card := range state.Hand {
		if state.SetTurnIndex == 0 && card.IsJoker() {
			continue
		}

		return card
	}

	return nil
}

func TestRoom_threeHumansStartGame(t *testing.T) {
	e := newRoomEnv(t, DefaultConfig())
	clients := e.seatHumans(3)

	assert.NotNil(t, e.room.game)
	assert.Equal(t, e.room, <-e.boss.filled)

	for i, c := range clients {
		msgs := drainMessages(c)
		assert.Equal(t, "OK", findKey(t, msgs, "status").Value)

		state := findKey(t, msgs, "gameStart").Data.(*game.PlayerState)
		assert.Equal(t, i, state.Slot)
		assert.Equal(t, 5, len(state.Hand))
		assert.Equal(t, 1, state.Turn)
	}

	// the selection window is open
	assert.Equal(t, 1, e.clock.pending(e.room.config.TurnTime))
}

func TestRoom_joinAfterStartIsRejected(t *testing.T) {
	e := newRoomEnv(t, DefaultConfig())
	e.seatHumans(3)

	late := NewClient(nil, 99, "late")
	e.room.addHuman(late, "join-ctx")

	msgs := drainMessages(late)
	res := findKey(t, msgs, "error")
	assert.Equal(t, ErrGameInProgress.Error(), res.Value)
	assert.Equal(t, "join-ctx", res.Context)
	assert.Equal(t, e.room.config.BuyIn(), e.ledger.refunded(99))
}

func TestRoom_botFillStartsShortHandedGame(t *testing.T) {
	config := DefaultConfig()
	config.BotThinkMin = config.BotThinkMax // deterministic bot schedule

	e := newRoomEnv(t, config)
	clients := e.seatHumans(1)

	// the lone player starts the bot-fill countdown
	assert.Equal(t, 1, e.clock.pending(config.BotFillDelay))

	e.clock.fire(t, config.BotFillDelay)
	e.drain()

	assert.NotNil(t, e.room.game)
	assert.Equal(t, 3, len(e.room.seats))
	assert.True(t, e.room.seats[1].isBot())
	assert.True(t, e.room.seats[2].isBot())

	msgs := drainMessages(clients[0])
	state := findKey(t, msgs, "gameStart").Data.(*game.PlayerState)
	assert.True(t, state.GameState.Players[1].IsBot)
	assert.True(t, state.GameState.Players[2].IsBot)

	// both bots are scheduled to think
	assert.Equal(t, 2, e.clock.pending(config.BotThinkMin))

	e.clock.fire(t, config.BotThinkMin)
	e.clock.fire(t, config.BotThinkMin)
	e.drain()

	assert.True(t, e.room.game.HasSelected(1))
	assert.True(t, e.room.game.HasSelected(2))
	assert.False(t, e.room.game.HasSelected(0))

	// the human completes the turn
	card := firstLegal(state)
	e.room.playCard(clients[0], &PayloadIn{Action: "playCard", Card: card, Context: "play-1"})

	msgs = drainMessages(clients[0])
	assert.Equal(t, "play-1", findKey(t, msgs, "status").Context)
	assert.True(t, hasKey(msgs, "roundResult"))

	if e.room.game.State() == game.StateInProgress {
		// the next turn opens after the reveal pause
		assert.Equal(t, 1, e.clock.pending(config.RevealPause))
	}
}

func TestRoom_playCardSecondSelectionRejected(t *testing.T) {
	e := newRoomEnv(t, DefaultConfig())
	clients := e.seatHumans(3)

	state := findKey(t, drainMessages(clients[0]), "gameStart").Data.(*game.PlayerState)
	card := firstLegal(state)

	e.room.playCard(clients[0], &PayloadIn{Action: "playCard", Card: card, Context: "first"})
	assert.Equal(t, "first", findKey(t, drainMessages(clients[0]), "status").Context)

	e.room.playCard(clients[0], &PayloadIn{Action: "playCard", Card: card, Context: "second"})
	res := findKey(t, drainMessages(clients[0]), "error")
	assert.Equal(t, game.ErrAlreadySelected.Error(), res.Value)
	assert.Equal(t, "second", res.Context)

	// the duplicate was not broadcast as a new selection
	assert.False(t, hasKey(drainMessages(clients[1]), "error"))
}

func TestRoom_playCardGuards(t *testing.T) {
	e := newRoomEnv(t, DefaultConfig())
	clients := e.seatHumans(3)
	for _, c := range clients {
		drainMessages(c)
	}

	// no card in the payload
	e.room.playCard(clients[0], &PayloadIn{Action: "playCard", Context: "ctx"})
	assert.Equal(t, "no card specified", findKey(t, drainMessages(clients[0]), "error").Value)

	// a client that is not seated
	stranger := NewClient(nil, 55, "stranger")
	e.room.playCard(stranger, &PayloadIn{Action: "playCard", Card: deck.CardFromString("2c")})
	assert.Equal(t, ErrNotSeated.Error(), findKey(t, drainMessages(stranger), "error").Value)
}

func TestRoom_turnTimeoutAutoPlays(t *testing.T) {
	e := newRoomEnv(t, DefaultConfig())
	clients := e.seatHumans(3)
	for _, c := range clients {
		drainMessages(c)
	}

	e.clock.fire(t, e.room.config.TurnTime)
	e.drain()

	for _, c := range clients {
		msgs := drainMessages(c)
		result := findKey(t, msgs, "roundResult").Data.(*game.RoundResult)
		assert.Equal(t, 1, result.Turn)
	}
}

func TestRoom_expiredTurnTimerCannotResolveNextTurn(t *testing.T) {
	e := newRoomEnv(t, DefaultConfig())
	clients := e.seatHumans(3)

	states := make([]*game.PlayerState, len(clients))
	for i, c := range clients {
		states[i] = findKey(t, drainMessages(c), "gameStart").Data.(*game.PlayerState)
	}

	e.room.playCard(clients[0], &PayloadIn{Action: "playCard", Card: firstLegal(states[0])})
	e.room.playCard(clients[1], &PayloadIn{Action: "playCard", Card: firstLegal(states[1])})

	// the timer expires while the final selection is still in flight
	e.clock.fire(t, e.room.config.TurnTime)
	e.room.playCard(clients[2], &PayloadIn{Action: "playCard", Card: firstLegal(states[2])})
	assert.Equal(t, 2, e.room.game.Turn())

	// the queued callback was armed for turn 1 and must leave turn 2 open
	e.drain()
	assert.Equal(t, 2, e.room.game.Turn())
	for slot := 0; slot < game.NumPlayers; slot++ {
		assert.False(t, e.room.game.HasSelected(slot))
	}
}

func TestRoom_gameOverRecordsAndRetires(t *testing.T) {
	config := DefaultConfig()
	// a tiny buy-in guarantees the game ends on the first round
	config.AnteMultiplier = 2

	e := newRoomEnv(t, config)
	clients := e.seatHumans(3)
	for _, c := range clients {
		drainMessages(c)
	}

	e.clock.fire(t, config.TurnTime)
	e.drain()

	for _, c := range clients {
		msgs := drainMessages(c)
		over := findKey(t, msgs, "gameOver")
		assert.NotEmpty(t, over.Value)
		assert.NotNil(t, over.Data)
	}

	records := e.ledger.recorded()
	assert.Equal(t, 1, len(records))
	assert.Equal(t, e.room.UUID, records[0].roomUUID)

	// each connection is asked to close with a reason frame
	for _, c := range clients {
		select {
		case reason := <-c.Close:
			assert.Equal(t, "game over", reason)
		default:
			t.Fatal("no close was requested for the client")
		}
	}

	// retired and torn down
	assert.Equal(t, e.room, <-e.boss.retired)
	select {
	case <-e.room.close:
	default:
		t.Fatal("room run loop was not closed")
	}
}

func TestRoom_disconnectSeatsProxy(t *testing.T) {
	e := newRoomEnv(t, DefaultConfig())
	clients := e.seatHumans(3)
	for _, c := range clients {
		drainMessages(c)
	}

	e.room.handleDisconnect(clients[1])

	// the proxy selects with zero delay
	assert.True(t, e.room.game.HasSelected(1))
	assert.True(t, e.room.seats[1].agent.proxy)
	assert.Nil(t, e.room.seats[1].client)

	msgs := drainMessages(clients[0])
	assert.Equal(t, "player-2", findKey(t, msgs, "playerDisconnected").Value)

	state := findKey(t, msgs, "turnState").Data.(*game.PlayerState)
	assert.True(t, state.GameState.Players[1].IsProxy)
}

func TestRoom_reconnectRestoresSeat(t *testing.T) {
	e := newRoomEnv(t, DefaultConfig())
	clients := e.seatHumans(3)
	for _, c := range clients {
		drainMessages(c)
	}

	e.room.handleDisconnect(clients[1])
	drainMessages(clients[0])
	drainMessages(clients[2])

	// same identity, new connection
	back := NewClient(nil, 2, "player-2")
	e.room.handleReconnect(back)

	assert.Equal(t, back, e.room.seats[1].client)
	assert.Nil(t, e.room.seats[1].agent)

	msgs := drainMessages(back)
	assert.Equal(t, "OK", findKey(t, msgs, "status").Value)
	state := findKey(t, msgs, "turnState").Data.(*game.PlayerState)
	assert.Equal(t, 1, state.Slot)
	assert.False(t, state.GameState.Players[1].IsProxy)

	assert.Equal(t, "player-2", findKey(t, drainMessages(clients[0]), "playerReconnected").Value)
}

func TestRoom_reconnectGuards(t *testing.T) {
	e := newRoomEnv(t, DefaultConfig())
	clients := e.seatHumans(3)

	stranger := NewClient(nil, 55, "stranger")
	e.room.handleReconnect(stranger)
	assert.Equal(t, ErrNotSeated.Error(), findKey(t, drainMessages(stranger), "error").Value)

	// the seat still has a live connection
	imposter := NewClient(nil, 2, "player-2")
	e.room.handleReconnect(imposter)
	assert.Equal(t, ErrSeatOccupied.Error(), findKey(t, drainMessages(imposter), "error").Value)
	assert.Equal(t, clients[1], e.room.seats[1].client)
}

func TestRoom_disconnectBeforeGameReleasesSeat(t *testing.T) {
	e := newRoomEnv(t, DefaultConfig())
	clients := e.seatHumans(1)

	e.room.handleDisconnect(clients[0])

	assert.Nil(t, e.room.game)
	assert.Equal(t, 0, len(e.room.seats))
	assert.Equal(t, e.room.config.BuyIn(), e.ledger.refunded(1))

	// the empty room retires itself
	assert.Equal(t, e.room, <-e.boss.retired)
}

func TestRoom_staleDisconnectIgnored(t *testing.T) {
	e := newRoomEnv(t, DefaultConfig())
	clients := e.seatHumans(3)
	for _, c := range clients {
		drainMessages(c)
	}

	e.room.handleDisconnect(clients[1])
	back := NewClient(nil, 2, "player-2")
	e.room.handleReconnect(back)

	// the old connection's disconnect arrives after the seat was reclaimed
	e.room.handleDisconnect(clients[1])
	assert.Equal(t, back, e.room.seats[1].client)
}

func TestRoom_cancelMatch(t *testing.T) {
	e := newRoomEnv(t, DefaultConfig())
	clients := e.seatHumans(2)
	for _, c := range clients {
		drainMessages(c)
	}

	e.room.cancelMatch(clients[0], "cancel-ctx")

	msgs := drainMessages(clients[0])
	assert.Equal(t, "cancel-ctx", findKey(t, msgs, "status").Context)
	assert.Equal(t, e.room.config.BuyIn(), e.ledger.refunded(1))
	assert.Equal(t, 1, len(e.room.seats))

	update := findKey(t, drainMessages(clients[1]), "roomUpdate").Data.(*roomUpdate)
	assert.Equal(t, 1, update.Seated)
	assert.Equal(t, []string{"player-2"}, update.Players)

	// the last player leaving retires the room
	e.room.cancelMatch(clients[1], "")
	assert.Equal(t, e.room, <-e.boss.retired)
}

func TestRoom_cancelMatchAfterStartRejected(t *testing.T) {
	e := newRoomEnv(t, DefaultConfig())
	clients := e.seatHumans(3)
	for _, c := range clients {
		drainMessages(c)
	}

	e.room.cancelMatch(clients[0], "ctx")
	assert.Equal(t, ErrGameInProgress.Error(), findKey(t, drainMessages(clients[0]), "error").Value)
	assert.Equal(t, 0, e.ledger.refunded(1))
}
