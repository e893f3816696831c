package bus

import (
	"context"
	"sync"

	"conveyor/internal/model"
	"conveyor/pkg/exception"
)

// Envelope is the unit passed through the queue. Seq is assigned at publish
// time and increases by one per message.
type Envelope struct {
	Seq     uint64
	Message model.ChainMessage
}

// Queue is an unbounded FIFO of chain messages with one producer side and one
// consumer side. Publish never blocks.
type Queue struct {
	mu     sync.Mutex
	items  []Envelope
	head   int
	seq    uint64
	closed bool
	ready  chan struct{}
}

// NewQueue allocates an empty queue.
func NewQueue() *Queue {
	return &Queue{ready: make(chan struct{}, 1)}
}

// Publish appends a message. It fails only after Close.
func (q *Queue) Publish(m model.ChainMessage) (uint64, error) {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return 0, exception.ErrQueueClosed
	}
	q.seq++
	seq := q.seq
	q.items = append(q.items, Envelope{Seq: seq, Message: m})
	q.mu.Unlock()

	q.signal()
	return seq, nil
}

// Close stops the queue from accepting new messages. Messages already queued
// remain readable.
func (q *Queue) Close() {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()
	q.signal()
}

// Len returns the number of queued messages.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items) - q.head
}

// Next blocks until a message is available, the queue is closed and drained,
// or ctx is done. A done ctx wins over queued messages.
func (q *Queue) Next(ctx context.Context) (Envelope, error) {
	for {
		if err := ctx.Err(); err != nil {
			return Envelope{}, err
		}
		if e, ok, err := q.pop(); ok || err != nil {
			return e, err
		}
		select {
		case <-ctx.Done():
			return Envelope{}, ctx.Err()
		case <-q.ready:
		}
	}
}

// Run consumes messages until ctx is done, the queue is drained after Close,
// or handler fails. ctx is checked before every message; a handler already
// running is not interrupted by Run.
func (q *Queue) Run(ctx context.Context, handler func(context.Context, Envelope) error) error {
	for {
		e, err := q.Next(ctx)
		if err != nil {
			return err
		}
		if err := handler(ctx, e); err != nil {
			return err
		}
	}
}

func (q *Queue) pop() (Envelope, bool, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.head == len(q.items) {
		if q.closed {
			return Envelope{}, false, exception.ErrQueueClosed
		}
		return Envelope{}, false, nil
	}
	e := q.items[q.head]
	q.items[q.head] = Envelope{}
	q.head++
	if q.head == len(q.items) {
		q.items = q.items[:0]
		q.head = 0
	}
	return e, true, nil
}

func (q *Queue) signal() {
	select {
	case q.ready <- struct{}{}:
	default:
	}
}
