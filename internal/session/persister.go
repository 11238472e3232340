package session

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

const (
	opQueueSize = 256
	opTimeout   = 5 * time.Second
)

// Persister trails local snapshot mutations into durable storage without
// ever blocking the mutation path. Operations run on one background
// goroutine in enqueue order; a failed operation is logged and journaled,
// never retried, and never reported back into the local state. The snapshot
// always wins optimistically.
type Persister struct {
	ops     chan persistOp
	log     *slog.Logger
	journal *Journal // optional

	pending atomic.Int64
	failed  atomic.Int64
	dropped atomic.Int64

	mu        sync.RWMutex
	closed    bool
	closeOnce sync.Once
	done      chan struct{}
}

type persistOp struct {
	name string
	fn   func(context.Context) error
}

// NewPersister starts the background worker. journal may be nil.
func NewPersister(log *slog.Logger, journal *Journal) *Persister {
	p := &Persister{
		ops:     make(chan persistOp, opQueueSize),
		log:     log,
		journal: journal,
		done:    make(chan struct{}),
	}
	go p.run()
	return p
}

// Enqueue schedules a persistence operation. Never blocks: when the queue is
// full the operation is dropped and journaled as a failure, which keeps the
// logging UI responsive at the cost of a recorded sync gap.
func (p *Persister) Enqueue(name string, fn func(context.Context) error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		p.dropped.Add(1)
		p.log.Warn("persister closed, dropping op", "op", name)
		p.recordFailure(name, "persister closed, operation dropped")
		return
	}
	p.pending.Add(1)
	select {
	case p.ops <- persistOp{name: name, fn: fn}:
	default:
		p.pending.Add(-1)
		p.dropped.Add(1)
		p.log.Warn("persistence queue full, dropping op", "op", name)
		p.recordFailure(name, "queue full, operation dropped")
	}
}

func (p *Persister) run() {
	defer close(p.done)
	for op := range p.ops {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		err := op.fn(ctx)
		cancel()
		p.pending.Add(-1)
		if err != nil {
			p.failed.Add(1)
			p.log.Error("persistence op failed", "op", op.name, "error", err)
			p.recordFailure(op.name, err.Error())
		}
	}
}

func (p *Persister) recordFailure(name, detail string) {
	if p.journal == nil {
		return
	}
	if err := p.journal.RecordFailure(name, detail); err != nil {
		p.log.Error("journal write failed", "op", name, "error", err)
	}
}

// SyncStatus is a point-in-time view of the persistence trail, surfaced to
// the UI so silent divergence between snapshot and store is at least visible.
type SyncStatus struct {
	Pending int64 `json:"pending"`
	Failed  int64 `json:"failed"`
	Dropped int64 `json:"dropped"`
}

// Status reports queue depth and cumulative failure counts.
func (p *Persister) Status() SyncStatus {
	return SyncStatus{
		Pending: p.pending.Load(),
		Failed:  p.failed.Load(),
		Dropped: p.dropped.Load(),
	}
}

// Close stops accepting work and waits for queued operations to finish.
// A late Enqueue, as when a handler races a forced shutdown, is dropped and
// journaled rather than panicking.
func (p *Persister) Close() {
	p.closeOnce.Do(func() {
		p.mu.Lock()
		p.closed = true
		p.mu.Unlock()
		close(p.ops)
	})
	<-p.done
}
