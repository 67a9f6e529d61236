package handlers

import (
	"context"
	"time"

	"snappy/logger"
	"snappy/service/chat"
)

const persistTimeout = 3 * time.Second

// MessageHandler persists an inbound chat message and relays it to the
// recipient's live connection. Persist-then-relay, not transactional: a
// stored message with an offline recipient is recovered later via the
// history fetch, and a relay miss is never an error.
type MessageHandler struct{}

func NewMessageHandler() chat.Handler { return &MessageHandler{} }

func (h *MessageHandler) Type() string { return chat.FrameSendMessage }

func (h *MessageHandler) Handle(ctx *chat.Context, f *chat.Frame, c *chat.Client) error {
	from := c.UserID()
	if from == "" {
		// Only identified connections may send; discard.
		logger.Debugf("[message] unidentified sender conn=%s", c.ConnID)
		return nil
	}
	if f.To == "" || f.Content == "" {
		logger.Debugf("[message] malformed frame from=%s conn=%s", from, c.ConnID)
		return nil
	}
	kind := f.Kind
	if kind == "" {
		kind = chat.KindText
	}
	if !chat.ValidKind(kind) {
		logger.Debugf("[message] unknown kind=%q from=%s", f.Kind, from)
		return nil
	}

	if st := ctx.S.Store(); st != nil {
		sctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
		if err := st.Save(sctx, from, f.To, f.Content, kind); err != nil {
			// Relay is independent of persistence; log and keep going.
			logger.Errorf("[message] persist err from=%s to=%s: %v", from, f.To, err)
		}
		cancel()
	}

	outcome := ctx.S.Router().Route(from, f.To, f.Content, kind)
	logger.Debugf("[message] route from=%s to=%s kind=%s outcome=%s", from, f.To, kind, outcome)
	return nil
}
