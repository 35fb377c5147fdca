// Package events carries "open the login dialog" requests from any screen to
// whichever component owns the dialog.
package events

import (
	"context"
	"errors"
	"sync"
)

// ErrClosed is returned by Next once the bus is closed and drained.
var ErrClosed = errors.New("events: bus closed")

// Target names a screen a successful login can return to.
type Target string

const (
	TargetNone      Target = ""
	TargetDashboard Target = "dashboard"
	TargetGenerator Target = "generator"
)

// Request asks for the login dialog to open. ReturnTo, when set, is where
// to go after the next successful login.
type Request struct {
	ReturnTo Target
}

// Bus is a FIFO of login requests. Every request is handed to exactly one
// Next call.
type Bus struct {
	mu     sync.Mutex
	queue  []Request
	ready  chan struct{}
	done   chan struct{}
	closed bool
}

// NewBus returns an empty bus.
func NewBus() *Bus {
	return &Bus{ready: make(chan struct{}, 1), done: make(chan struct{})}
}

// OpenLogin enqueues a request. It never blocks. Requests sent after Close
// are dropped.
func (b *Bus) OpenLogin(r Request) {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.queue = append(b.queue, r)
	b.mu.Unlock()
	b.signal()
}

// Next blocks until a request is available, ctx is done, or the bus is
// closed and empty.
func (b *Bus) Next(ctx context.Context) (Request, error) {
	for {
		b.mu.Lock()
		if len(b.queue) > 0 {
			r := b.queue[0]
			b.queue = b.queue[1:]
			more := len(b.queue) > 0
			b.mu.Unlock()
			if more {
				b.signal()
			}
			return r, nil
		}
		closed := b.closed
		b.mu.Unlock()
		if closed {
			return Request{}, ErrClosed
		}

		select {
		case <-b.ready:
		case <-b.done:
		case <-ctx.Done():
			return Request{}, ctx.Err()
		}
	}
}

// Pending returns the number of undelivered requests.
func (b *Bus) Pending() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.queue)
}

// Close wakes every blocked receiver. Queued requests can still be taken.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	close(b.done)
}

func (b *Bus) signal() {
	select {
	case b.ready <- struct{}{}:
	default:
	}
}
