package chat

import (
	"sort"
	"sync"
)

// Registry is the single source of truth for live-connection ownership.
// Two indexes under one mutex: every open connection by conn ID, and the
// single live connection per identified user. All mutations are linearizable
// with respect to one another.
type Registry struct {
	mu     sync.RWMutex
	conns  map[string]*Client // conn_id -> every open connection
	byUser map[string]*Client // user_id -> current live connection
	userOf map[string]string  // conn_id -> identity it registered, for compare-and-delete
}

func NewRegistry() *Registry {
	return &Registry{
		conns:  make(map[string]*Client),
		byUser: make(map[string]*Client),
		userOf: make(map[string]string),
	}
}

// AddConn tracks a freshly opened connection before it has an identity.
func (r *Registry) AddConn(c *Client) {
	r.mu.Lock()
	r.conns[c.ConnID] = c
	r.mu.Unlock()
}

// DropConn forgets a closed connection. Registry cleanup is separate; see
// Unregister.
func (r *Registry) DropConn(c *Client) {
	r.mu.Lock()
	delete(r.conns, c.ConnID)
	r.mu.Unlock()
}

// Register binds userID to the given connection, overwriting any previous
// entry for that user (reconnect is the normal path, not an error). The
// returned flag is true when the online set changed.
func (r *Registry) Register(userID string, c *Client) (changed bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// A connection that re-identifies as someone else: the newer
	// registration wins, the old entry goes away.
	if old, ok := r.userOf[c.ConnID]; ok && old != userID {
		if cur := r.byUser[old]; cur == c {
			delete(r.byUser, old)
			changed = true
		}
	}

	if _, exists := r.byUser[userID]; !exists {
		changed = true
	}
	r.byUser[userID] = c
	r.userOf[c.ConnID] = userID
	return changed
}

// Unregister removes the entry owned by this connection, but only if the
// stored connection still is this one. A close event for a stale connection
// arriving after a newer registration is a no-op; calling twice has the same
// effect as once.
func (r *Registry) Unregister(c *Client) (removed bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	userID, ok := r.userOf[c.ConnID]
	if !ok {
		return false
	}
	delete(r.userOf, c.ConnID)

	if cur := r.byUser[userID]; cur == c {
		delete(r.byUser, userID)
		return true
	}
	return false
}

// Lookup returns the live connection for userID, if any. Pure read.
func (r *Registry) Lookup(userID string) (*Client, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.byUser[userID]
	return c, ok
}

// Snapshot returns the current roster, sorted for stable wire frames.
func (r *Registry) Snapshot() []string {
	r.mu.RLock()
	out := make([]string, 0, len(r.byUser))
	for u := range r.byUser {
		out = append(out, u)
	}
	r.mu.RUnlock()
	sort.Strings(out)
	return out
}

// Clients returns every open connection, identified or not.
func (r *Registry) Clients() []*Client {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Client, 0, len(r.conns))
	for _, c := range r.conns {
		out = append(out, c)
	}
	return out
}
