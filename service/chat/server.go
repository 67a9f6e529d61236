package chat

import "context"

// MessageStore is the durable-history collaborator. The gateway persists
// before relaying, but the two are not transactional: a stored message may
// never relay (recipient offline) and is recovered via history fetch.
type MessageStore interface {
	Save(ctx context.Context, from, to, content, kind string) error
}

// PresenceMirror reflects register/unregister into an external store (redis)
// so other processes can observe liveness. The in-process registry stays
// authoritative; mirror failures are logged, never surfaced to clients.
type PresenceMirror interface {
	Online(ctx context.Context, userID string) error
	Offline(ctx context.Context, userID string) error
}

// Options configures a gateway Server. Zero values get sane defaults; Store
// and Mirror may be nil (collaborators are optional at runtime).
type Options struct {
	SendQueueSize int
	FanoutWorkers int
	FanoutQueue   int
	Store         MessageStore
	Mirror        PresenceMirror
}

func (o *Options) norm() {
	if o.SendQueueSize <= 0 {
		o.SendQueueSize = 256
	}
	if o.FanoutWorkers <= 0 {
		o.FanoutWorkers = 4
	}
	if o.FanoutQueue <= 0 {
		o.FanoutQueue = 1024
	}
}

// Server ties the presence registry, relay router, roster fanout and frame
// dispatcher together behind the websocket endpoint.
type Server struct {
	opts   Options
	reg    *Registry
	router *Router
	fanout *Fanout
	disp   *Dispatcher
}

func NewServer(opts Options) *Server {
	opts.norm()
	reg := NewRegistry()
	return &Server{
		opts:   opts,
		reg:    reg,
		router: NewRouter(reg),
		fanout: NewFanout(opts.FanoutWorkers, opts.FanoutQueue),
		disp:   NewDispatcher(),
	}
}

func (s *Server) Registry() *Registry    { return s.reg }
func (s *Server) Router() *Router        { return s.router }
func (s *Server) Disp() *Dispatcher      { return s.disp }
func (s *Server) Store() MessageStore    { return s.opts.Store }
func (s *Server) Mirror() PresenceMirror { return s.opts.Mirror }
func (s *Server) SendQueueSize() int     { return s.opts.SendQueueSize }

// Use registers a frame handler.
func (s *Server) Use(h Handler) { s.disp.Register(h) }

// BroadcastRoster pushes the full current roster to every open connection.
// Full state each time: a missed broadcast heals on the next mutation.
func (s *Server) BroadcastRoster() {
	payload := NewRosterFrame(s.reg.Snapshot()).Encode()
	s.fanout.Broadcast(s.reg.Clients(), payload)
}

func (s *Server) Close() {
	s.fanout.Close()
	for _, c := range s.reg.Clients() {
		c.Close()
	}
}
