package async

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
)

// bridgeCapacity bounds the queue depth the editor loop's drain step is
// expected to walk in milliseconds; workers that would block past this
// are a sign something is producing faster than the loop can consume,
// not something this package should grow without limit to hide.
const bridgeCapacity = 256

// Bridge is the non-blocking multi-producer single-consumer channel of
// Message variants posted by worker goroutines and drained by the
// editor's main loop, one call per iteration.
type Bridge struct {
	ch chan Message

	group  *errgroup.Group
	gctx   context.Context
	cancel context.CancelFunc

	closeOnce sync.Once
}

// NewBridge creates a Bridge whose worker group derives its context
// from parent; cancelling parent (or calling Close) stops every worker
// registered with Go.
func NewBridge(parent context.Context) *Bridge {
	gctx, cancel := context.WithCancel(parent)
	group, gctx := errgroup.WithContext(gctx)
	return &Bridge{
		ch:     make(chan Message, bridgeCapacity),
		group:  group,
		gctx:   gctx,
		cancel: cancel,
	}
}

// Context returns the context workers should select on to notice
// shutdown: it is cancelled when any worker registered via Go returns
// a non-nil error, or when Close is called.
func (b *Bridge) Context() context.Context {
	return b.gctx
}

// Go registers a worker under the bridge's errgroup. If fn returns a
// non-nil error, every other worker's context is cancelled and Wait
// returns that error — the bridge treats this as a fatal,
// programming-error-class failure, distinct from a language-server
// crash (which a worker should instead report as an LspError message
// and keep running, letting its own supervisor decide to restart).
func (b *Bridge) Go(fn func(ctx context.Context) error) {
	b.group.Go(func() error { return fn(b.gctx) })
}

// Post enqueues msg for the next Drain. It never blocks: if the queue
// is full, the message is dropped and ok is false, so a worker can log
// or retry rather than stall the editor loop's producers.
func (b *Bridge) Post(msg Message) (ok bool) {
	select {
	case b.ch <- msg:
		return true
	default:
		return false
	}
}

// Drain returns every message queued since the last Drain without
// blocking. Meant to be called once per main-loop iteration.
func (b *Bridge) Drain() []Message {
	var out []Message
	for {
		select {
		case msg := <-b.ch:
			out = append(out, msg)
		default:
			return out
		}
	}
}

// Wait blocks until every worker registered via Go has returned,
// returning the first non-nil error if any. Call after Close so
// workers observe context cancellation and exit.
func (b *Bridge) Wait() error {
	return b.group.Wait()
}

// Close cancels every worker's context. It is safe to call more than
// once.
func (b *Bridge) Close() {
	b.closeOnce.Do(b.cancel)
}
