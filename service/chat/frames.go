package chat

import (
	"encoding/json"
	"fmt"
)

// Frame types exchanged over each client's websocket.
const (
	FrameIdentify       = "identify"        // client -> server: bind a user identity
	FrameRoster         = "roster"          // server -> client: full online set
	FrameSendMessage    = "send-message"    // client -> server
	FrameDeliverMessage = "deliver-message" // server -> recipient only
	FrameSetTyping      = "set-typing"      // client -> server
	FrameTypingStatus   = "typing-status"   // server -> recipient only
	FramePing           = "ping"
	FramePong           = "pong"
)

// Payload kinds carried by relay messages. The payload itself is opaque.
const (
	KindText  = "text"
	KindImage = "image"
	KindAudio = "audio"
)

func ValidKind(k string) bool {
	switch k {
	case KindText, KindImage, KindAudio:
		return true
	}
	return false
}

// Frame is the single wire envelope; which fields matter depends on Type.
type Frame struct {
	Type     string   `json:"type"`
	UserID   string   `json:"userId,omitempty"`
	From     string   `json:"from,omitempty"`
	To       string   `json:"to,omitempty"`
	Content  string   `json:"content,omitempty"`
	Kind     string   `json:"kind,omitempty"`
	IsTyping *bool    `json:"isTyping,omitempty"`
	Online   []string `json:"online,omitempty"`
	Ts       int64    `json:"ts,omitempty"`
}

func ParseFrame(raw []byte) (*Frame, error) {
	f := &Frame{}
	if err := json.Unmarshal(raw, f); err != nil {
		return nil, fmt.Errorf("unmarshal frame failed: %w", err)
	}
	if f.Type == "" {
		return nil, fmt.Errorf("frame missing type")
	}
	return f, nil
}

func (f *Frame) Encode() []byte {
	data, _ := json.Marshal(f)
	return data
}

// ---- server-built frames ----

// NewRosterFrame carries the full online set; an absent online field means
// nobody is online (clients do a full replace either way).
func NewRosterFrame(online []string) *Frame {
	return &Frame{Type: FrameRoster, Online: online}
}

func NewDeliverFrame(from, content, kind string, ts int64) *Frame {
	return &Frame{Type: FrameDeliverMessage, From: from, Content: content, Kind: kind, Ts: ts}
}

func NewTypingStatusFrame(from string, isTyping bool) *Frame {
	return &Frame{Type: FrameTypingStatus, From: from, IsTyping: &isTyping}
}

func NewPongFrame(ts int64) *Frame {
	return &Frame{Type: FramePong, Ts: ts}
}
