package chat

import "time"

// Outcome reports what a relay attempt did. There is no error case: a
// recipient without a live connection is expected and benign.
type Outcome int

const (
	Dropped Outcome = iota
	Delivered
)

func (o Outcome) String() string {
	switch o {
	case Delivered:
		return "delivered"
	case Dropped:
		return "dropped"
	}
	return "unknown"
}

// Router forwards directed events to the recipient's live connection, with
// best-effort, at-most-once, unordered semantics. It never blocks on the
// recipient and never retries; persistence is a separate concern handled by
// the caller before routing.
type Router struct {
	reg *Registry
	now func() time.Time // injectable clock for tests
}

func NewRouter(reg *Registry) *Router {
	return &Router{reg: reg, now: time.Now}
}

// Route delivers one chat message to whichever connection is registered for
// the recipient at call time, stamped with the server timestamp at the
// moment of forwarding. Offline recipient: silent drop.
func (r *Router) Route(from, to, content, kind string) Outcome {
	rc, ok := r.reg.Lookup(to)
	if !ok {
		return Dropped
	}
	frame := NewDeliverFrame(from, content, kind, r.now().UnixMilli())
	rc.Enqueue(frame.Encode())
	return Delivered
}

// ForwardTyping relays an ephemeral typing signal. No timestamp, no kind,
// never queued for offline recipients; a later signal supersedes an earlier
// one implicitly because nothing is buffered.
func (r *Router) ForwardTyping(from, to string, isTyping bool) Outcome {
	rc, ok := r.reg.Lookup(to)
	if !ok {
		return Dropped
	}
	rc.Enqueue(NewTypingStatusFrame(from, isTyping).Encode())
	return Delivered
}
