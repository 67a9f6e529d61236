package handlers

import (
	"context"
	"time"

	"snappy/logger"
	"snappy/service/chat"
)

const mirrorTimeout = 2 * time.Second

// IdentifyHandler binds a user identity to an open connection. Registration
// always succeeds; a reconnect overwrites the previous entry for the same
// user and the replaced connection simply stops receiving relayed traffic.
type IdentifyHandler struct{}

func NewIdentifyHandler() chat.Handler { return &IdentifyHandler{} }

func (h *IdentifyHandler) Type() string { return chat.FrameIdentify }

func (h *IdentifyHandler) Handle(ctx *chat.Context, f *chat.Frame, c *chat.Client) error {
	if f.UserID == "" {
		// Malformed: discard the frame, keep the connection open.
		logger.Debugf("[identify] empty userId conn=%s", c.ConnID)
		return nil
	}

	c.Bind(f.UserID)
	changed := ctx.S.Registry().Register(f.UserID, c)
	logger.Infof("[identify] user=%s conn=%s rosterChanged=%v", f.UserID, c.ConnID, changed)

	if m := ctx.S.Mirror(); m != nil {
		mctx, cancel := context.WithTimeout(context.Background(), mirrorTimeout)
		if err := m.Online(mctx, f.UserID); err != nil {
			logger.Warnf("[identify] presence mirror online err user=%s: %v", f.UserID, err)
		}
		cancel()
	}

	// Fresh full view for the newly identified client, broadcast for the
	// rest only when the online set actually changed.
	c.Enqueue(chat.NewRosterFrame(ctx.S.Registry().Snapshot()).Encode())
	if changed {
		ctx.S.BroadcastRoster()
	}
	return nil
}
