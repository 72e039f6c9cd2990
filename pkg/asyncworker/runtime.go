package asyncworker

import (
	"context"
	"sync"
)

type Event int

const (
	// EventResumed means the job submitted under the token is done.
	EventResumed Event = iota + 1
	// EventRetry means the caller should call Allocate again.
	EventRetry
)

func (ev Event) String() string {
	switch ev {
	case EventResumed:
		return "resumed"
	case EventRetry:
		return "retry"
	default:
		return "unknown"
	}
}

// ChannelRuntime hosts callers on goroutines: each token owns a small
// buffered channel on which Resume and Retry are delivered.
type ChannelRuntime struct {
	mu     sync.Mutex
	next   Token
	parked map[Token]chan Event
}

func NewChannelRuntime() *ChannelRuntime {
	return &ChannelRuntime{parked: make(map[Token]chan Event)}
}

// NewToken registers a new caller.
func (r *ChannelRuntime) NewToken() Token {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.next++
	r.parked[r.next] = make(chan Event, 2)
	return r.next
}

// Release forgets token. Events delivered afterwards are dropped.
func (r *ChannelRuntime) Release(token Token) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.parked, token)
}

func (r *ChannelRuntime) Resume(token Token) { r.deliver(token, EventResumed) }

func (r *ChannelRuntime) Retry(token Token) { r.deliver(token, EventRetry) }

// deliver never blocks: the worker goroutine calls it.
func (r *ChannelRuntime) deliver(token Token, ev Event) {
	r.mu.Lock()
	c, ok := r.parked[token]
	r.mu.Unlock()
	if !ok {
		return
	}
	select {
	case c <- ev:
	default:
	}
}

// Wait suspends the calling goroutine until an event is delivered for token
// or ctx is done.
func (r *ChannelRuntime) Wait(ctx context.Context, token Token) (Event, error) {
	r.mu.Lock()
	c, ok := r.parked[token]
	r.mu.Unlock()
	if !ok {
		return 0, context.Canceled
	}

	select {
	case ev := <-c:
		return ev, nil
	case <-ctx.Done():
		return 0, ctx.Err()
	}
}
