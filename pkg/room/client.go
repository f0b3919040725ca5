package room

import (
	"fmt"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// Client is a player connected to the server via websockets.
// PlayerID is the persistent identity supplied by the external identity
// collaborator; reconnects are matched on it, never on the connection itself.
type Client struct {
	// Conn is the underlying websocket connection
	Conn *websocket.Conn

	// send is a channel for sending messages to the client
	send chan interface{}

	// Close carries the reason the server wants the connection closed; the
	// websocket write loop turns it into a close frame
	Close chan string

	// CloseError contains the reason why the connection was closed
	CloseError error

	PlayerID int64
	Name     string

	pitBoss *PitBoss
}

// NewClient returns a new client object
func NewClient(conn *websocket.Conn, playerID int64, name string) *Client {
	return &Client{
		Conn:     conn,
		send:     make(chan interface{}, 256),
		Close:    make(chan string, 1),
		PlayerID: playerID,
		Name:     name,
	}
}

// Send sends a message to the web client without blocking.
// Returns false if the client's buffer is full.
func (c *Client) Send(msg interface{}) bool {
	select {
	case c.send <- msg:
		return true
	default:
		return false
	}
}

// RequestClose asks the websocket write loop to close the connection with a
// reason frame. Does not block when nothing is draining the channel.
func (c *Client) RequestClose(reason string) {
	select {
	case c.Close <- reason:
	default:
	}
}

// SendChan returns a read-only channel of outgoing messages
func (c *Client) SendChan() <-chan interface{} {
	return c.send
}

// String returns a traceable identifier for the player
func (c *Client) String() string {
	return fmt.Sprintf("%s:%d", c.Name, c.PlayerID)
}

// ReceivedMessage is called when the server receives a message from a connected client
func (c *Client) ReceivedMessage(msg *PayloadIn) {
	if c.pitBoss == nil {
		logrus.WithField("msg", msg).Warn("received message, but client is not registered")
		return
	}

	c.pitBoss.ReceivedMessage(c, msg)
}
