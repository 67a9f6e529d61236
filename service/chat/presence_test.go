package chat

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestClient(connID string) *Client {
	return NewClient(connID, nil, 8)
}

func TestRegistry_RegisterLookup(t *testing.T) {
	r := NewRegistry()
	c1 := newTestClient("c1")

	changed := r.Register("alice", c1)
	require.True(t, changed)

	got, ok := r.Lookup("alice")
	require.True(t, ok)
	require.Same(t, c1, got)

	_, ok = r.Lookup("bob")
	require.False(t, ok)
}

func TestRegistry_ReconnectOverwrites(t *testing.T) {
	r := NewRegistry()
	c1 := newTestClient("c1")
	c2 := newTestClient("c2")

	require.True(t, r.Register("alice", c1))
	// Reconnect: same user, new connection. Roster does not change.
	require.False(t, r.Register("alice", c2))

	got, ok := r.Lookup("alice")
	require.True(t, ok)
	require.Same(t, c2, got)
}

func TestRegistry_StaleDisconnectSafety(t *testing.T) {
	r := NewRegistry()
	c1 := newTestClient("c1")
	c2 := newTestClient("c2")

	r.Register("bob", c1)
	r.Register("bob", c2)

	// The close event for the replaced connection arrives late; it must not
	// evict the newer entry.
	removed := r.Unregister(c1)
	require.False(t, removed)

	got, ok := r.Lookup("bob")
	require.True(t, ok)
	require.Same(t, c2, got)
}

func TestRegistry_UnregisterRemovesOwnEntry(t *testing.T) {
	r := NewRegistry()
	c1 := newTestClient("c1")

	r.Register("alice", c1)
	removed := r.Unregister(c1)
	require.True(t, removed)

	_, ok := r.Lookup("alice")
	require.False(t, ok)
}

func TestRegistry_UnregisterIdempotent(t *testing.T) {
	r := NewRegistry()
	c1 := newTestClient("c1")

	r.Register("alice", c1)
	require.True(t, r.Unregister(c1))
	require.False(t, r.Unregister(c1))

	_, ok := r.Lookup("alice")
	require.False(t, ok)
}

func TestRegistry_UnregisterNeverIdentified(t *testing.T) {
	r := NewRegistry()
	c1 := newTestClient("c1")

	r.AddConn(c1)
	require.False(t, r.Unregister(c1))
}

func TestRegistry_ReidentifyAsDifferentUser(t *testing.T) {
	r := NewRegistry()
	c1 := newTestClient("c1")

	require.True(t, r.Register("alice", c1))
	// The second registration wins; the old entry goes away.
	require.True(t, r.Register("alicia", c1))

	_, ok := r.Lookup("alice")
	require.False(t, ok)
	got, ok := r.Lookup("alicia")
	require.True(t, ok)
	require.Same(t, c1, got)

	require.Equal(t, []string{"alicia"}, r.Snapshot())
}

func TestRegistry_Snapshot(t *testing.T) {
	r := NewRegistry()
	c1 := newTestClient("c1")
	c2 := newTestClient("c2")
	c3 := newTestClient("c3")

	require.Empty(t, r.Snapshot())

	r.Register("bob", c2)
	r.Register("alice", c1)
	r.Register("carol", c3)
	require.Equal(t, []string{"alice", "bob", "carol"}, r.Snapshot())

	r.Unregister(c2)
	require.Equal(t, []string{"alice", "carol"}, r.Snapshot())
}

func TestRegistry_ClientsTracksOpenConnections(t *testing.T) {
	r := NewRegistry()
	c1 := newTestClient("c1")
	c2 := newTestClient("c2")

	r.AddConn(c1)
	r.AddConn(c2)
	require.Len(t, r.Clients(), 2)

	// Roster membership is independent of the open-connection set.
	r.Register("alice", c1)
	require.Len(t, r.Clients(), 2)
	require.Equal(t, []string{"alice"}, r.Snapshot())

	r.DropConn(c2)
	require.Len(t, r.Clients(), 1)
}

// Concurrent reconnect/disconnect storms must never lose an update or
// resurrect a stale entry: after the dust settles, each user maps to the
// connection of its last registration still owning the entry.
func TestRegistry_ConcurrentChurn(t *testing.T) {
	r := NewRegistry()

	const users = 8
	const rounds = 200

	var wg sync.WaitGroup
	staleEvictions := make([]int64, users)
	for u := 0; u < users; u++ {
		u := u
		user := fmt.Sprintf("user-%d", u)
		wg.Add(1)
		go func() {
			defer wg.Done()
			var prev *Client
			for i := 0; i < rounds; i++ {
				c := newTestClient(fmt.Sprintf("%s-conn-%d", user, i))
				r.Register(user, c)
				if prev != nil && r.Unregister(prev) {
					// Late close of the replaced connection must be a no-op.
					staleEvictions[u]++
				}
				prev = c
			}
		}()
	}
	wg.Wait()

	for u := 0; u < users; u++ {
		require.Zero(t, staleEvictions[u], "stale disconnect evicted a newer entry for user-%d", u)
	}

	// Every user's final connection is still registered.
	require.Len(t, r.Snapshot(), users)
	for u := 0; u < users; u++ {
		user := fmt.Sprintf("user-%d", u)
		got, ok := r.Lookup(user)
		require.True(t, ok)
		require.Equal(t, fmt.Sprintf("%s-conn-%d", user, rounds-1), got.ConnID)
	}
}
