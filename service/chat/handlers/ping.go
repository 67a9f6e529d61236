package handlers

import (
	"time"

	"snappy/service/chat"
)

// PingHandler answers application-level pings so clients behind proxies
// that swallow websocket control frames can still probe liveness.
type PingHandler struct{}

func NewPingHandler() chat.Handler { return &PingHandler{} }

func (h *PingHandler) Type() string { return chat.FramePing }

func (h *PingHandler) Handle(_ *chat.Context, _ *chat.Frame, c *chat.Client) error {
	c.Enqueue(chat.NewPongFrame(time.Now().UnixMilli()).Encode())
	return nil
}
