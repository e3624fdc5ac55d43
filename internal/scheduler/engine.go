package scheduler

import (
	"container/heap"
	"errors"
	"sync"
	"sync/atomic"
	"time"
)

var (
	ErrInvalidDeadline = errors.New("scheduler: invalid deadline")
	ErrStopped         = errors.New("scheduler: engine stopped")
)

// ExpiryEvent fires once its deadline passes. Key names what expires, for the
// UI a notice kind.
type ExpiryEvent struct {
	Key string
	At  time.Time
}

type expiryHeap []ExpiryEvent

func (h expiryHeap) Len() int           { return len(h) }
func (h expiryHeap) Less(i, j int) bool { return h[i].At.Before(h[j].At) }
func (h expiryHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *expiryHeap) Push(x any) {
	*h = append(*h, x.(ExpiryEvent))
}

func (h *expiryHeap) Pop() any {
	old := *h
	n := len(old)
	ev := old[n-1]
	*h = old[:n-1]
	return ev
}

// Engine delivers expiry events on C in deadline order. Delivery never blocks:
// when the consumer lags, events are dropped and counted.
type Engine struct {
	mu      sync.Mutex
	pending expiryHeap
	out     chan ExpiryEvent
	wakeup  chan struct{}
	stopCh  chan struct{}
	doneCh  chan struct{}
	started bool
	stopped bool
	dropped atomic.Uint64
}

func NewEngine(bufferSize int) *Engine {
	if bufferSize <= 0 {
		bufferSize = 1
	}
	return &Engine{
		pending: make(expiryHeap, 0),
		out:     make(chan ExpiryEvent, bufferSize),
		wakeup:  make(chan struct{}, 1),
		stopCh:  make(chan struct{}),
		doneCh:  make(chan struct{}),
	}
}

func (e *Engine) C() <-chan ExpiryEvent {
	return e.out
}

func (e *Engine) Start() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.started {
		return
	}
	e.started = true
	heap.Init(&e.pending)
	go e.run()
}

// Stop halts delivery and closes C. It is safe to call more than once.
func (e *Engine) Stop() {
	e.mu.Lock()
	if !e.started || e.stopped {
		e.stopped = true
		e.mu.Unlock()
		return
	}
	e.stopped = true
	close(e.stopCh)
	e.mu.Unlock()
	<-e.doneCh
}

func (e *Engine) Schedule(ev ExpiryEvent) error {
	if ev.At.IsZero() {
		return ErrInvalidDeadline
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.stopped {
		return ErrStopped
	}
	heap.Push(&e.pending, ev)
	select {
	case e.wakeup <- struct{}{}:
	default:
	}
	return nil
}

func (e *Engine) Pending() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.pending)
}

func (e *Engine) Dropped() uint64 {
	return e.dropped.Load()
}

func (e *Engine) run() {
	defer close(e.doneCh)
	defer close(e.out)

	timer := time.NewTimer(time.Hour)
	stopTimer(timer)
	for {
		next, ok := e.peek()
		if !ok {
			select {
			case <-e.wakeup:
				continue
			case <-e.stopCh:
				return
			}
		}

		wait := time.Until(next.At)
		if wait < 0 {
			wait = 0
		}
		stopTimer(timer)
		timer.Reset(wait)

		select {
		case <-timer.C:
			for _, ev := range e.popDue(time.Now()) {
				select {
				case e.out <- ev:
				default:
					e.dropped.Add(1)
				}
			}
		case <-e.wakeup:
		case <-e.stopCh:
			stopTimer(timer)
			return
		}
	}
}

func (e *Engine) peek() (ExpiryEvent, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.pending) == 0 {
		return ExpiryEvent{}, false
	}
	return e.pending[0], true
}

func (e *Engine) popDue(now time.Time) []ExpiryEvent {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]ExpiryEvent, 0)
	for len(e.pending) > 0 && !e.pending[0].At.After(now) {
		out = append(out, heap.Pop(&e.pending).(ExpiryEvent))
	}
	return out
}

func stopTimer(timer *time.Timer) {
	if !timer.Stop() {
		select {
		case <-timer.C:
		default:
		}
	}
}
