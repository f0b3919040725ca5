package room

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
)

// PitBoss matches players to rooms and routes their messages. It owns the
// room registry and the pending-disconnect table; each room owns its own
// state, so rooms never share anything mutable.
type PitBoss struct {
	ledger  Ledger
	configs map[string]Config

	rooms   map[string]*Room
	waiting map[string]*Room
	// byPlayer maps persistent identity to the player's room. Entries
	// survive a disconnect while a game is running, which is what lets a
	// reconnecting player reclaim their seat.
	byPlayer map[int64]*Room

	connect    chan *Client
	disconnect chan *Client
	messages   chan clientMessage
	release    chan int64
	filled     chan *Room
	retired    chan *Room
}

type clientMessage struct {
	client *Client
	msg    *PayloadIn
}

// NewPitBoss returns a new pit boss. The configs map is keyed by room type;
// a "standard" entry is required as the default.
func NewPitBoss(ledger Ledger, configs map[string]Config) *PitBoss {
	if _, ok := configs["standard"]; !ok {
		panic("room configs must include the standard room type")
	}

	return &PitBoss{
		ledger:     ledger,
		configs:    configs,
		rooms:      make(map[string]*Room),
		waiting:    make(map[string]*Room),
		byPlayer:   make(map[int64]*Room),
		connect:    make(chan *Client, 256),
		disconnect: make(chan *Client, 256),
		messages:   make(chan clientMessage, 256),
		release:    make(chan int64, 256),
		filled:     make(chan *Room, 256),
		retired:    make(chan *Room, 256),
	}
}

// StartShift starts the pit boss run loop
func (p *PitBoss) StartShift() {
	go p.runLoop()
}

func (p *PitBoss) runLoop() {
	for {
		select {
		case client := <-p.connect:
			p.handleConnect(client)
		case client := <-p.disconnect:
			p.handleDisconnect(client)
		case cm := <-p.messages:
			p.handleMessage(cm.client, cm.msg)
		case playerID := <-p.release:
			delete(p.byPlayer, playerID)
		case room := <-p.filled:
			if p.waiting[room.config.RoomType] == room {
				delete(p.waiting, room.config.RoomType)
			}
		case room := <-p.retired:
			p.handleRetired(room)
		}
	}
}

// ClientConnected is called when a client connects to the server
func (p *PitBoss) ClientConnected(client *Client) {
	client.pitBoss = p
	p.connect <- client
}

// ClientDisconnected is called when a client disconnects from the server
func (p *PitBoss) ClientDisconnected(client *Client) {
	p.disconnect <- client
}

// ReceivedMessage is called when a client sends a message to the server
func (p *PitBoss) ReceivedMessage(client *Client, msg *PayloadIn) {
	p.messages <- clientMessage{client: client, msg: msg}
}

// releasePlayer drops the player's room association. Called by rooms.
func (p *PitBoss) releasePlayer(playerID int64) {
	if playerID != 0 {
		p.release <- playerID
	}
}

// roomFilled tells the pit boss the room no longer accepts players. Called by rooms.
func (p *PitBoss) roomFilled(room *Room) {
	p.filled <- room
}

// retireRoom removes the room from the registry. Called by rooms.
func (p *PitBoss) retireRoom(room *Room) {
	p.retired <- room
}

func (p *PitBoss) handleConnect(client *Client) {
	logrus.WithField("player", client.String()).Debug("client connected")

	// a returning player is routed straight back to their room
	if room, ok := p.byPlayer[client.PlayerID]; ok {
		room.exec(func() { room.handleReconnect(client) })
	}
}

func (p *PitBoss) handleDisconnect(client *Client) {
	logrus.WithField("player", client.String()).Debug("client disconnected")

	// the byPlayer entry is kept; it is the pending-disconnect record the
	// reconnect path matches on. Rooms release it when the seat is gone for
	// good.
	if room, ok := p.byPlayer[client.PlayerID]; ok {
		room.exec(func() { room.handleDisconnect(client) })
	}
}

func (p *PitBoss) handleMessage(client *Client, msg *PayloadIn) {
	switch msg.Action {
	case "joinRoom":
		p.handleJoin(client, msg)
	case "playCard":
		if room, ok := p.byPlayer[client.PlayerID]; ok {
			room.exec(func() { room.playCard(client, msg) })
			return
		}

		client.Send(newErrorResponse(msg.Context, errors.New("you are not in a room")))
	case "cancelMatch":
		if room, ok := p.byPlayer[client.PlayerID]; ok {
			room.exec(func() { room.cancelMatch(client, msg.Context) })
			return
		}

		client.Send(newErrorResponse(msg.Context, errors.New("you are not in a room")))
	default:
		logrus.WithField("msg", msg).Warn("unknown message")
		client.Send(newErrorResponse(msg.Context, fmt.Errorf("unknown action: %s", msg.Action)))
	}
}

func (p *PitBoss) handleJoin(client *Client, msg *PayloadIn) {
	if room, ok := p.byPlayer[client.PlayerID]; ok {
		// joining again while seated acts as a reconnect attempt
		room.exec(func() { room.handleReconnect(client) })
		return
	}

	roomType := msg.RoomType
	if roomType == "" {
		roomType = "standard"
	}

	config, ok := p.configs[roomType]
	if !ok {
		client.Send(newErrorResponse(msg.Context, fmt.Errorf("unknown room type: %s", roomType)))
		return
	}

	// the buy-in is reserved before the seat is granted; the room refunds it
	// if seating fails
	if err := p.ledger.Reserve(context.Background(), client.PlayerID, config.BuyIn()); err != nil {
		client.Send(newErrorResponse(msg.Context, err))
		return
	}

	room, ok := p.waiting[roomType]
	if !ok {
		room = NewRoom(p, config)
		room.StartShift()
		p.rooms[room.UUID] = room
		p.waiting[roomType] = room
		logrus.WithField("room", room.UUID).WithField("roomType", roomType).Debug("room created")
	}

	p.byPlayer[client.PlayerID] = room
	ctx := msg.Context
	room.exec(func() { room.addHuman(client, ctx) })
}

func (p *PitBoss) handleRetired(room *Room) {
	delete(p.rooms, room.UUID)
	if p.waiting[room.config.RoomType] == room {
		delete(p.waiting, room.config.RoomType)
	}

	for playerID, r := range p.byPlayer {
		if r == room {
			delete(p.byPlayer, playerID)
		}
	}

	logrus.WithField("room", room.UUID).Debug("room retired")
}
