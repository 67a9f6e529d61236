package chat

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFanout_BroadcastReachesAll(t *testing.T) {
	f := NewFanout(2, 16)
	defer f.Close()

	clients := []*Client{newTestClient("c1"), newTestClient("c2"), newTestClient("c3")}
	f.Broadcast(clients, []byte(`{"type":"roster"}`))

	for _, c := range clients {
		select {
		case payload := <-c.send:
			require.JSONEq(t, `{"type":"roster"}`, string(payload))
		case <-time.After(time.Second):
			t.Fatalf("client %s never received the broadcast", c.ConnID)
		}
	}
}

func TestFanout_EmptyBroadcastIsNoop(t *testing.T) {
	f := NewFanout(1, 1)
	defer f.Close()
	f.Broadcast(nil, []byte("x"))
	f.Broadcast([]*Client{newTestClient("c1")}, nil)
}

func TestServer_BroadcastRoster(t *testing.T) {
	s := NewServer(Options{FanoutWorkers: 1, FanoutQueue: 8})
	defer s.Close()

	c1 := newTestClient("c1")
	c2 := newTestClient("c2")
	s.Registry().AddConn(c1)
	s.Registry().AddConn(c2)
	s.Registry().Register("alice", c1)

	s.BroadcastRoster()

	// Every open connection gets the frame, identified or not.
	for _, c := range []*Client{c1, c2} {
		select {
		case payload := <-c.send:
			f, err := ParseFrame(payload)
			require.NoError(t, err)
			require.Equal(t, FrameRoster, f.Type)
			require.Equal(t, []string{"alice"}, f.Online)
		case <-time.After(time.Second):
			t.Fatalf("client %s missed the roster broadcast", c.ConnID)
		}
	}
}
