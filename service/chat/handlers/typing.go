package handlers

import (
	"snappy/logger"
	"snappy/service/chat"
)

// TypingHandler forwards ephemeral typing state to a specific recipient.
// Never persisted, never queued; an offline recipient simply loses the
// signal.
type TypingHandler struct{}

func NewTypingHandler() chat.Handler { return &TypingHandler{} }

func (h *TypingHandler) Type() string { return chat.FrameSetTyping }

func (h *TypingHandler) Handle(ctx *chat.Context, f *chat.Frame, c *chat.Client) error {
	from := c.UserID()
	if from == "" {
		return nil
	}
	if f.To == "" || f.IsTyping == nil {
		logger.Debugf("[typing] malformed frame from=%s conn=%s", from, c.ConnID)
		return nil
	}
	ctx.S.Router().ForwardTyping(from, f.To, *f.IsTyping)
	return nil
}
