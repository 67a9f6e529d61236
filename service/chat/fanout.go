package chat

import (
	"sync"

	"snappy/tools/safe"
)

type fanoutJob struct {
	conns   []*Client
	payload []byte
}

// Fanout pushes one payload to many connections through a small worker
// pool, so a broadcast never runs on the mutating goroutine.
type Fanout struct {
	jobs     chan fanoutJob
	done     chan struct{}
	stopOnce sync.Once
}

func NewFanout(workers, queue int) *Fanout {
	if workers <= 0 {
		workers = 4
	}
	if queue <= 0 {
		queue = 1024
	}
	f := &Fanout{jobs: make(chan fanoutJob, queue), done: make(chan struct{})}
	for i := 0; i < workers; i++ {
		safe.Go(func() {
			for {
				select {
				case <-f.done:
					return
				case job := <-f.jobs:
					for _, c := range job.conns {
						// Enqueue is non-blocking; slow clients just miss
						// this broadcast and self-heal on the next one.
						c.Enqueue(job.payload)
					}
				}
			}
		})
	}
	return f
}

// Broadcast never blocks past shutdown; a broadcast racing Close is dropped.
func (f *Fanout) Broadcast(conns []*Client, payload []byte) {
	if len(conns) == 0 || len(payload) == 0 {
		return
	}
	select {
	case <-f.done:
	case f.jobs <- fanoutJob{conns: conns, payload: payload}:
	}
}

func (f *Fanout) Close() {
	f.stopOnce.Do(func() { close(f.done) })
}
