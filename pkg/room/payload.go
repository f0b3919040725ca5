package room

import "jokerhigh-server/pkg/deck"

// PayloadIn is the format we expect from the client
type PayloadIn struct {
	Action   string     `json:"action"`
	RoomType string     `json:"roomType"`
	Card     *deck.Card `json:"card"`

	// Context will be passed back on any outgoing message
	Context string `json:"context"`
}

// Response is a message destined for a connected client
type Response struct {
	Key     string      `json:"key"`
	Value   string      `json:"value"`
	Data    interface{} `json:"data,omitempty"`
	Context string      `json:"context,omitempty"`
}

// OK returns a generic success response
func OK(ctx ...string) *Response {
	res := &Response{
		Key:   "status",
		Value: "OK",
	}

	if len(ctx) == 1 {
		res.Context = ctx[0]
	}

	return res
}

func newErrorResponse(ctx string, err error) *Response {
	return &Response{
		Key:     "error",
		Value:   err.Error(),
		Context: ctx,
	}
}
