package room

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"jokerhigh-server/internal/util"
	"jokerhigh-server/pkg/game"
)

// scheduler task names
const (
	taskBotFill   = "bot-fill"
	taskTurnTimer = "turn-timer"
	taskReveal    = "reveal-pause"
)

// ErrRoomFull happens when a player tries to join a room with no open seats
var ErrRoomFull = errors.New("the room is full")

// ErrGameInProgress happens when a pre-game action arrives after the game started
var ErrGameInProgress = errors.New("the game has already started")

// ErrNotSeated happens when a player acts in a room they are not seated in
var ErrNotSeated = errors.New("you are not seated in this room")

// ErrSeatOccupied happens when a player connects while their seat still has a
// live connection
var ErrSeatOccupied = errors.New("your seat already has an active connection")

// seat is one of the three positions in a room
type seat struct {
	playerID int64
	name     string
	buyIn    int

	// client is nil for bots and for disconnected humans
	client *Client

	// agent is nil for connected humans
	agent *botAgent
}

func (s *seat) isBot() bool {
	return s.agent != nil && !s.agent.proxy
}

// Room is a matchmaking/session container for up to three players and the
// game they play. All room state is owned by the run loop; the pit boss and
// scheduler submit work through exec.
type Room struct {
	// UUID identifies the room
	UUID string

	config  Config
	pitBoss *PitBoss
	logger  logrus.FieldLogger

	seats []*seat
	game  *game.Game

	sched *scheduler
	rng   *rand.Rand

	execCh chan func()
	close  chan bool
}

// NewRoom creates a room for the given room type configuration
func NewRoom(pitBoss *PitBoss, config Config) *Room {
	u := uuid.New().String()
	return &Room{
		UUID:    u,
		config:  config,
		pitBoss: pitBoss,
		logger: logrus.WithFields(logrus.Fields{
			"room":     u,
			"roomType": config.RoomType,
		}),
		seats:  make([]*seat, 0, game.NumPlayers),
		sched:  newScheduler(),
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())), // nolint:gosec
		execCh: make(chan func(), 256),
		close:  make(chan bool),
	}
}

// StartShift starts the run loop
func (r *Room) StartShift() {
	go r.runLoop()
}

func (r *Room) runLoop() {
	r.logger.Debug("creating room run loop")
	for {
		select {
		case fn := <-r.execCh:
			fn()
		case <-r.close:
			r.logger.Debug("terminating room run loop")
			return
		}
	}
}

// exec submits a function to the run loop. Work submitted after teardown is
// dropped.
func (r *Room) exec(fn func()) {
	select {
	case r.execCh <- fn:
	case <-r.close:
	}
}

// teardown cancels all timers and stops the run loop
func (r *Room) teardown() {
	r.sched.stop()
	close(r.close)
}

func (r *Room) broadcast(msg *Response) {
	for _, st := range r.seats {
		if st.client != nil {
			st.client.Send(msg)
		}
	}
}

// sendStates sends each connected player their own view of the game
func (r *Room) sendStates(key string) {
	for slot, st := range r.seats {
		if st.client == nil {
			continue
		}

		state, err := r.game.PlayerStateFor(slot)
		if err != nil {
			r.logger.WithError(err).Error("could not get player state")
			continue
		}

		st.client.Send(&Response{Key: key, Data: state})
	}
}

func (r *Room) seatBySlotOfID(playerID int64) (int, *seat) {
	for slot, st := range r.seats {
		if st.playerID == playerID && playerID != 0 {
			return slot, st
		}
	}

	return -1, nil
}

type roomUpdate struct {
	UUID     string   `json:"uuid"`
	RoomType string   `json:"roomType"`
	Players  []string `json:"players"`
	Seated   int      `json:"seated"`
}

func (r *Room) broadcastRoomUpdate() {
	names := make([]string, len(r.seats))
	for i, st := range r.seats {
		names[i] = st.name
	}

	r.broadcast(&Response{
		Key: "roomUpdate",
		Data: &roomUpdate{
			UUID:     r.UUID,
			RoomType: r.config.RoomType,
			Players:  names,
			Seated:   len(r.seats),
		},
	})
}

// addHuman seats a connected player. The buy-in has already been reserved by
// the pit boss; if the seat cannot be granted the reserve is refunded here.
func (r *Room) addHuman(c *Client, ctx string) {
	if r.game != nil {
		r.refund(c.PlayerID)
		r.pitBoss.releasePlayer(c.PlayerID)
		c.Send(newErrorResponse(ctx, ErrGameInProgress))
		return
	}

	if len(r.seats) >= game.NumPlayers {
		r.refund(c.PlayerID)
		r.pitBoss.releasePlayer(c.PlayerID)
		c.Send(newErrorResponse(ctx, ErrRoomFull))
		return
	}

	r.seats = append(r.seats, &seat{
		playerID: c.PlayerID,
		name:     c.Name,
		buyIn:    r.config.BuyIn(),
		client:   c,
	})

	c.Send(OK(ctx))
	r.broadcastRoomUpdate()

	if len(r.seats) == game.NumPlayers {
		r.sched.cancel(taskBotFill)
		r.pitBoss.roomFilled(r)
		r.startGame()
		return
	}

	// the first player starts the bot-fill countdown
	if len(r.seats) == 1 {
		r.sched.schedule(taskBotFill, r.config.BotFillDelay, func() {
			r.exec(r.fillWithBots)
		})
	}
}

// fillWithBots tops the room up to three seats and starts the game
func (r *Room) fillWithBots() {
	if r.game != nil || len(r.seats) == 0 {
		return
	}

	for len(r.seats) < game.NumPlayers {
		r.seats = append(r.seats, &seat{
			name:  util.GetRandomName(),
			buyIn: r.config.BuyIn(),
			agent: newBotAgent(randomStrategy(r.rng)),
		})
	}

	r.broadcastRoomUpdate()
	r.pitBoss.roomFilled(r)
	r.startGame()
}

// cancelMatch removes a waiting player from the room and refunds the buy-in.
// Not available once the game has started.
func (r *Room) cancelMatch(c *Client, ctx string) {
	if r.game != nil {
		c.Send(newErrorResponse(ctx, ErrGameInProgress))
		return
	}

	slot, st := r.seatBySlotOfID(c.PlayerID)
	if st == nil {
		c.Send(newErrorResponse(ctx, ErrNotSeated))
		return
	}

	r.seats = append(r.seats[:slot], r.seats[slot+1:]...)
	r.refund(c.PlayerID)
	r.pitBoss.releasePlayer(c.PlayerID)
	c.Send(OK(ctx))

	if len(r.seats) == 0 {
		r.pitBoss.retireRoom(r)
		r.teardown()
		return
	}

	r.broadcastRoomUpdate()
}

func (r *Room) refund(playerID int64) {
	if err := r.pitBoss.ledger.Refund(context.Background(), playerID, r.config.BuyIn()); err != nil {
		r.logger.WithError(err).WithField("playerID", playerID).Error("could not refund buy-in")
	}
}

func (r *Room) startGame() {
	var seats [game.NumPlayers]game.Seat
	for slot, st := range r.seats {
		seats[slot] = game.Seat{
			PlayerID: st.playerID,
			Name:     st.name,
			IsBot:    st.agent != nil,
		}
	}

	g, err := game.NewGame(r.logger, seats, r.config.gameOptions())
	if err != nil {
		r.logger.WithError(err).Error("could not start game")
		for _, st := range r.seats {
			if st.client != nil {
				r.refund(st.playerID)
				st.client.Send(newErrorResponse("", err))
			}
		}

		r.pitBoss.retireRoom(r)
		r.teardown()
		return
	}

	r.game = g
	r.logger.Info("game started")
	r.sendStates("gameStart")
	r.openTurn()
}

// openTurn opens the selection window: broadcast state, arm the turn timer,
// and schedule the bots
func (r *Room) openTurn() {
	r.sendStates("turnState")

	turn := r.game.Turn()
	r.sched.schedule(taskTurnTimer, r.config.TurnTime, func() {
		r.exec(func() { r.turnTimedOut(turn) })
	})

	for slot, st := range r.seats {
		if st.agent == nil || r.game.HasSelected(slot) {
			continue
		}

		slot, agent := slot, st.agent
		delay := agent.thinkDelay(r.config.BotThinkMin, r.config.BotThinkMax)
		r.sched.schedule(botTask(slot), delay, func() {
			r.exec(func() { r.botPlay(slot, agent) })
		})
	}
}

func botTask(slot int) string {
	return fmt.Sprintf("bot-seat-%d", slot)
}

// setNumber identifies the current 5-turn set, for the adaptive bot cache
func (r *Room) setNumber() int {
	return (r.game.Turn() - 1) / 5
}

func (r *Room) botPlay(slot int, agent *botAgent) {
	if r.game == nil || r.game.State() != game.StateInProgress || r.game.HasSelected(slot) {
		return
	}

	// the seat may have been handed back to a human since this was scheduled
	if len(r.seats) <= slot || r.seats[slot].agent != agent {
		return
	}

	player, err := r.game.Player(slot)
	if err != nil {
		r.logger.WithError(err).Error("could not find bot's player slot")
		return
	}

	card := agent.chooseCard(player.Hand, r.game.SetTurnIndex(), r.setNumber())
	if card == nil {
		r.logger.WithField("slot", slot).Error("bot has no legal card")
		return
	}

	if err := r.game.PlayCard(slot, card); err != nil {
		r.logger.WithError(err).WithField("slot", slot).Error("bot could not play card")
		return
	}

	r.afterSelection()
}

// playCard handles a human card selection
func (r *Room) playCard(c *Client, msg *PayloadIn) {
	if r.game == nil {
		c.Send(newErrorResponse(msg.Context, errors.New("the game has not started")))
		return
	}

	slot, st := r.seatBySlotOfID(c.PlayerID)
	if st == nil || st.client != c {
		c.Send(newErrorResponse(msg.Context, ErrNotSeated))
		return
	}

	if msg.Card == nil {
		c.Send(newErrorResponse(msg.Context, errors.New("no card specified")))
		return
	}

	if err := r.game.PlayCard(slot, msg.Card); err != nil {
		// protocol violations are surfaced to the offender only
		c.Send(newErrorResponse(msg.Context, err))
		return
	}

	c.Send(OK(msg.Context))
	r.afterSelection()
}

// afterSelection broadcasts the updated selection flags and resolves the
// round once everyone has played
func (r *Room) afterSelection() {
	if r.game.AllSelected() {
		r.sched.cancel(taskTurnTimer)
		r.resolveRound()
		return
	}

	r.sendStates("turnState")
}

// turnTimedOut auto-plays every slot that has not selected and forces the
// round to resolution. The turn number pins the callback to the turn that
// armed it: a callback already queued when the final selection lands must
// not resolve the following turn.
func (r *Room) turnTimedOut(turn int) {
	if r.game == nil || r.game.State() != game.StateInProgress || r.game.Turn() != turn {
		return
	}

	for slot := 0; slot < game.NumPlayers; slot++ {
		if r.game.HasSelected(slot) {
			continue
		}

		if _, err := r.game.AutoPlay(slot); err != nil {
			r.logger.WithError(err).WithField("slot", slot).Error("could not auto-play")
			return
		}
	}

	r.resolveRound()
}

// resolveRound runs the engine's round pipeline and broadcasts the result.
// No new selections are possible until this returns; the run loop serializes
// everything.
func (r *Room) resolveRound() {
	for slot := 0; slot < game.NumPlayers; slot++ {
		r.sched.cancel(botTask(slot))
	}

	result, err := r.game.ResolveRound()
	if err != nil {
		r.logger.WithError(err).Error("could not resolve round")
		return
	}

	r.broadcast(&Response{Key: "roundResult", Data: result})

	if result.LowDeck {
		r.broadcast(&Response{
			Key:   "lowDeckWarning",
			Value: "the deck is running low",
		})
	}

	if result.Replenished {
		r.sendStates("handUpdate")
	}

	if result.GameOver {
		r.finishGame()
		return
	}

	r.sched.schedule(taskReveal, r.config.RevealPause, func() {
		r.exec(r.openTurn)
	})
}

// finishGame reports the final ranking to the economy/history collaborator
// and retires the room
func (r *Room) finishGame() {
	results := r.game.Results()
	r.broadcast(&Response{
		Key:   "gameOver",
		Value: r.game.OverReason(),
		Data:  results,
	})

	if err := r.pitBoss.ledger.RecordGameEnd(context.Background(), r.UUID, results); err != nil {
		r.logger.WithError(err).Error("could not record game end")
	}

	r.logger.WithField("reason", r.game.OverReason()).Info("game over")

	for _, st := range r.seats {
		if st.client != nil {
			st.client.RequestClose("game over")
		}
	}

	r.pitBoss.retireRoom(r)
	r.teardown()
}

// handleDisconnect substitutes a zero-delay proxy bot for a disconnected
// human so the round is never blocked. Before the game starts the seat is
// simply released and refunded.
func (r *Room) handleDisconnect(c *Client) {
	slot, st := r.seatBySlotOfID(c.PlayerID)
	if st == nil || st.client != c {
		// a stale disconnect for a connection that was already replaced
		return
	}

	if r.game == nil {
		r.seats = append(r.seats[:slot], r.seats[slot+1:]...)
		r.refund(c.PlayerID)
		r.pitBoss.releasePlayer(c.PlayerID)

		if len(r.seats) == 0 {
			r.pitBoss.retireRoom(r)
			r.teardown()
			return
		}

		r.broadcastRoomUpdate()
		return
	}

	st.client = nil
	if r.game.State() != game.StateInProgress {
		return
	}

	agent := newProxyAgent()
	st.agent = agent
	if err := r.game.MarkProxy(slot, true); err != nil {
		r.logger.WithError(err).Error("could not mark proxy")
	}

	r.logger.WithField("playerID", c.PlayerID).Info("player disconnected, proxy seated")
	r.broadcast(&Response{
		Key:   "playerDisconnected",
		Value: st.name,
	})

	if !r.game.HasSelected(slot) {
		r.botPlay(slot, agent)
	}
}

// handleReconnect restores a returning human's control of their seat,
// matched by persistent identity
func (r *Room) handleReconnect(c *Client) {
	slot, st := r.seatBySlotOfID(c.PlayerID)
	if st == nil {
		c.Send(newErrorResponse("", ErrNotSeated))
		return
	}

	if st.client != nil {
		c.Send(newErrorResponse("", ErrSeatOccupied))
		return
	}

	st.client = c
	c.Send(OK())

	if r.game == nil {
		r.broadcastRoomUpdate()
		return
	}

	st.agent = nil
	if err := r.game.MarkProxy(slot, false); err != nil {
		r.logger.WithError(err).Error("could not clear proxy")
	}

	r.logger.WithField("playerID", c.PlayerID).Info("player reconnected")
	r.broadcast(&Response{
		Key:   "playerReconnected",
		Value: st.name,
	})

	state, err := r.game.PlayerStateFor(slot)
	if err != nil {
		r.logger.WithError(err).Error("could not get player state")
		return
	}

	c.Send(&Response{Key: "turnState", Data: state})
}
