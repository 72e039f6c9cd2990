package asyncworker

import (
	"errors"
	"time"
)

// ErrJobDeferred is returned by Allocate when the pool is exhausted and the
// caller has been parked in the waiting list. The runtime will Retry the
// caller's token once a slot is reserved for it.
var ErrJobDeferred = errors.New("job deferred: waiting for a free slot")

// Token identifies a suspended caller. It is handed out by the hosting
// runtime and used by the engine to resume or retry that caller.
type Token uint64

// Action runs on the worker goroutine. It reads its inputs from params and
// writes its results back into the same buffer.
type Action[P any] interface {
	Execute(params *P) error
}

type ActionFunc[P any] func(params *P) error

func (f ActionFunc[P]) Execute(params *P) error { return f(params) }

// Completion runs on the resumed caller once the action has finished. err is
// the error returned by the action (or the recovered panic).
type Completion[P any] interface {
	OnDone(params *P, err error) error
}

type CompletionFunc[P any] func(params *P, err error) error

func (f CompletionFunc[P]) OnDone(params *P, err error) error { return f(params, err) }

// Pending is returned by Submit. The caller stays suspended on Token until
// the runtime resumes it.
type Pending struct {
	Token Token
}

type jobState int

const (
	jobFree jobState = iota
	jobReserved
	jobAllocated
	jobQueued
	jobRunning
	jobDone
	jobCompleting
)

func (s jobState) String() string {
	switch s {
	case jobFree:
		return "free"
	case jobReserved:
		return "reserved"
	case jobAllocated:
		return "allocated"
	case jobQueued:
		return "queued"
	case jobRunning:
		return "running"
	case jobDone:
		return "done"
	case jobCompleting:
		return "completing"
	default:
		return "unknown"
	}
}

// Job is a pre-allocated slot of the pool. Params is owned by whoever holds
// the job: the caller until Submit, the worker while queued and running,
// the caller again from Complete.
type Job[P any] struct {
	Params P

	index      int
	token      Token
	state      jobState
	action     Action[P]
	completion Completion[P]
	err        error
	abandoned  bool
}

func (j *Job[P]) Token() Token { return j.token }

// bind resets the slot for a new owner. Params is zeroed in place.
func (j *Job[P]) bind(token Token, state jobState) {
	var zero P
	j.Params = zero
	j.token = token
	j.state = state
	j.action = nil
	j.completion = nil
	j.err = nil
	j.abandoned = false
}

// Record describes a finished action. Params is only valid for the duration
// of the observer call.
type Record[P any] struct {
	Engine   string
	Token    Token
	Params   *P
	Started  time.Time
	Duration time.Duration
	Err      error
}

type WorkerState string

const (
	WorkerStateIdle    WorkerState = "idle"
	WorkerStateRunning WorkerState = "running"
	WorkerStateClosed  WorkerState = "closed"
)

// Stats is a snapshot of an engine.
type Stats struct {
	Name            string
	State           WorkerState
	JobCount        int
	Busy            int
	Queued          int
	Waiting         int
	WaitingCapacity int
	Submitted       int64
	Completed       int64
	Failed          int64
	Refused         int64
}

// Config sizes an engine.
type Config struct {
	// JobCount is the number of pre-allocated job slots.
	JobCount int
	// WaitingListSize is the number of callers that may wait for a slot.
	WaitingListSize int
}
