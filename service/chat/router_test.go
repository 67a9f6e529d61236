package chat

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func recvFrame(t *testing.T, c *Client) *Frame {
	t.Helper()
	select {
	case payload := <-c.send:
		f, err := ParseFrame(payload)
		require.NoError(t, err)
		return f
	default:
		t.Fatal("no frame enqueued")
		return nil
	}
}

func requireNoFrame(t *testing.T, c *Client) {
	t.Helper()
	select {
	case payload := <-c.send:
		t.Fatalf("unexpected frame: %s", payload)
	default:
	}
}

func TestRouter_RouteDelivered(t *testing.T) {
	reg := NewRegistry()
	router := NewRouter(reg)
	fixed := time.UnixMilli(1700000000000)
	router.now = func() time.Time { return fixed }

	bob := newTestClient("c-bob")
	reg.Register("bob", bob)

	outcome := router.Route("alice", "bob", "hi", KindText)
	require.Equal(t, Delivered, outcome)

	f := recvFrame(t, bob)
	require.Equal(t, FrameDeliverMessage, f.Type)
	require.Equal(t, "alice", f.From)
	require.Equal(t, "hi", f.Content)
	require.Equal(t, KindText, f.Kind)
	require.Equal(t, fixed.UnixMilli(), f.Ts)
}

func TestRouter_RouteDroppedWhenOffline(t *testing.T) {
	reg := NewRegistry()
	router := NewRouter(reg)

	alice := newTestClient("c-alice")
	reg.Register("alice", alice)

	// Recipient never registered: silent drop, no outbound anywhere.
	require.Equal(t, Dropped, router.Route("alice", "bob", "hi", KindText))
	requireNoFrame(t, alice)
}

func TestRouter_RouteDroppedAfterUnregister(t *testing.T) {
	reg := NewRegistry()
	router := NewRouter(reg)

	bob := newTestClient("c-bob")
	reg.Register("bob", bob)
	reg.Unregister(bob)

	require.Equal(t, Dropped, router.Route("alice", "bob", "hi", KindText))
	requireNoFrame(t, bob)
}

func TestRouter_RouteToReconnectedClient(t *testing.T) {
	reg := NewRegistry()
	router := NewRouter(reg)

	old := newTestClient("c-old")
	fresh := newTestClient("c-new")
	reg.Register("bob", old)
	reg.Register("bob", fresh)

	require.Equal(t, Delivered, router.Route("alice", "bob", "hi", KindText))
	requireNoFrame(t, old)
	f := recvFrame(t, fresh)
	require.Equal(t, "hi", f.Content)
}

func TestRouter_ForwardTyping(t *testing.T) {
	reg := NewRegistry()
	router := NewRouter(reg)

	bob := newTestClient("c-bob")
	reg.Register("bob", bob)

	require.Equal(t, Delivered, router.ForwardTyping("alice", "bob", true))
	f := recvFrame(t, bob)
	require.Equal(t, FrameTypingStatus, f.Type)
	require.Equal(t, "alice", f.From)
	require.NotNil(t, f.IsTyping)
	require.True(t, *f.IsTyping)
	// No timestamp, no kind on typing signals.
	require.Zero(t, f.Ts)
	require.Empty(t, f.Kind)

	require.Equal(t, Delivered, router.ForwardTyping("alice", "bob", false))
	f = recvFrame(t, bob)
	require.False(t, *f.IsTyping)
}

func TestRouter_ForwardTypingDroppedWhenOffline(t *testing.T) {
	reg := NewRegistry()
	router := NewRouter(reg)
	require.Equal(t, Dropped, router.ForwardTyping("alice", "bob", true))
}

func TestRouter_SaturatedQueueDoesNotBlock(t *testing.T) {
	reg := NewRegistry()
	router := NewRouter(reg)

	bob := NewClient("c-bob", nil, 1)
	reg.Register("bob", bob)

	// Fill the queue, then keep routing: the send is attempted once and
	// never blocks or retries.
	require.Equal(t, Delivered, router.Route("alice", "bob", "first", KindText))
	done := make(chan struct{})
	go func() {
		router.Route("alice", "bob", "second", KindText)
		router.Route("alice", "bob", "third", KindText)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("route blocked on a saturated recipient queue")
	}
}
