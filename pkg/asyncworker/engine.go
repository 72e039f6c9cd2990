package asyncworker

import (
	"fmt"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	srvErrors "github.com/kubev2v/async-worker/pkg/errors"
)

// Runtime is the scheduler hosting the callers. The engine never blocks a
// caller itself: it asks the runtime to resume a token when its job is done
// and to retry a token when a slot has been reserved for it.
type Runtime interface {
	Resume(token Token)
	Retry(token Token)
}

type Option[P any] func(e *Engine[P])

// WithObserver registers fn to be called on the worker goroutine after each action.
func WithObserver[P any](fn func(Record[P])) Option[P] {
	return func(e *Engine[P]) {
		e.observer = fn
	}
}

type Engine[P any] struct {
	name     string
	runtime  Runtime
	observer func(Record[P])

	// mu guards the pool, the waiting list, byToken and job states.
	mu      sync.Mutex
	pool    *jobPool[P]
	waiting *waitingList
	byToken map[Token]*Job[P]
	queued  int
	closed  bool

	submissions chan *Job[P]
	close       chan any
	done        chan any
	once        sync.Once

	running   atomic.Bool
	submitted atomic.Int64
	completed atomic.Int64
	failed    atomic.Int64
	refused   atomic.Int64

	log *zap.SugaredLogger
}

// New validates cfg, allocates every job slot and starts the worker
// goroutine. It returns once the worker is waiting for submissions.
func New[P any](name string, cfg Config, runtime Runtime, opts ...Option[P]) (*Engine[P], error) {
	if cfg.JobCount < 1 {
		return nil, srvErrors.NewInvalidConfigurationError("JobCount", fmt.Sprintf("must be at least 1, got %d", cfg.JobCount))
	}
	if cfg.WaitingListSize < 0 {
		return nil, srvErrors.NewInvalidConfigurationError("WaitingListSize", fmt.Sprintf("must not be negative, got %d", cfg.WaitingListSize))
	}
	if runtime == nil {
		return nil, srvErrors.NewInvalidConfigurationError("Runtime", "a runtime is required")
	}

	e := &Engine[P]{
		name:        name,
		runtime:     runtime,
		pool:        newJobPool[P](cfg.JobCount),
		waiting:     newWaitingList(cfg.WaitingListSize),
		byToken:     make(map[Token]*Job[P], cfg.JobCount+cfg.WaitingListSize),
		submissions: make(chan *Job[P], cfg.JobCount),
		close:       make(chan any),
		done:        make(chan any),
		log:         zap.S().Named("async_worker").With("engine", name),
	}
	for _, o := range opts {
		o(e)
	}

	ready := make(chan any)
	go e.run(ready)
	<-ready

	e.log.Debugw("engine started", "jobs", cfg.JobCount, "waiting_list", cfg.WaitingListSize)
	return e, nil
}

func (e *Engine[P]) Name() string { return e.name }

// Allocate returns a job bound to token.
//
// It returns ErrJobDeferred when token has been parked in the waiting list
// and a *PoolExhaustedError when the waiting list is full as well.
func (e *Engine[P]) Allocate(token Token) (*Job[P], error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return nil, srvErrors.NewEngineClosedError(e.name)
	}

	if j, ok := e.byToken[token]; ok {
		if j.state != jobReserved {
			panic(fmt.Sprintf("asyncworker: token %d already owns a %s job", token, j.state))
		}
		j.state = jobAllocated
		return j, nil
	}

	if e.waiting.Contains(token) {
		return nil, ErrJobDeferred
	}

	// callers already waiting are served first
	if e.waiting.Len() == 0 {
		if j := e.pool.get(); j != nil {
			j.bind(token, jobAllocated)
			e.byToken[token] = j
			return j, nil
		}
	}

	if e.waiting.TryEnqueue(token) {
		return nil, ErrJobDeferred
	}

	e.refused.Add(1)
	return nil, srvErrors.NewPoolExhaustedError(e.name, e.pool.capacity(), e.waiting.Cap())
}

// Free gives back a job that was allocated but never submitted.
// Freeing a job the caller does not own is a contract violation and panics.
func (e *Engine[P]) Free(job *Job[P]) {
	e.mu.Lock()
	if !e.pool.owns(job) || job.state != jobAllocated {
		state := "foreign"
		if job != nil {
			state = job.state.String()
		}
		e.mu.Unlock()
		panic(fmt.Sprintf("asyncworker: free of a %s job", state))
	}
	next, retry := e.release(job)
	e.mu.Unlock()

	if retry {
		e.runtime.Retry(next)
	}
}

// release returns job to the pool or hands it to the oldest waiter.
// Must be called with mu held.
func (e *Engine[P]) release(job *Job[P]) (Token, bool) {
	delete(e.byToken, job.token)

	if next, ok := e.waiting.Dequeue(); ok {
		job.bind(next, jobReserved)
		e.byToken[next] = job
		return next, true
	}

	e.pool.put(job)
	return 0, false
}

// Submit queues job for execution on the worker. The caller must suspend on
// the returned token until the runtime resumes it, then call Complete.
func (e *Engine[P]) Submit(job *Job[P], action Action[P], completion Completion[P]) (Pending, error) {
	if action == nil || completion == nil {
		return Pending{}, srvErrors.NewInvalidConfigurationError("Submit", "action and completion are required")
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return Pending{}, srvErrors.NewEngineClosedError(e.name)
	}
	if !e.pool.owns(job) || job.state != jobAllocated {
		panic("asyncworker: submit of a job not owned by the caller")
	}

	job.action = action
	job.completion = completion
	job.state = jobQueued
	e.queued++

	// at most JobCount jobs exist, the channel never blocks
	e.submissions <- job
	e.submitted.Add(1)

	return Pending{Token: job.token}, nil
}

// Complete runs the completion of the job attached to token on the calling
// goroutine, frees the job and returns the completion's result.
func (e *Engine[P]) Complete(token Token) error {
	e.mu.Lock()
	job, ok := e.byToken[token]
	if !ok || job.state != jobDone {
		e.mu.Unlock()
		return srvErrors.NewUnknownTokenError(uint64(token))
	}
	job.state = jobCompleting
	e.mu.Unlock()

	return e.finish(job)
}

func (e *Engine[P]) finish(job *Job[P]) error {
	err := job.completion.OnDone(&job.Params, job.err)

	e.mu.Lock()
	next, retry := e.release(job)
	e.mu.Unlock()

	if retry {
		e.runtime.Retry(next)
	}
	return err
}

// Abandon is called by a caller that stops waiting on token. A waiting
// request is dropped, an unsubmitted or reserved job is released, and a
// submitted job is completed by the engine once its action returns.
func (e *Engine[P]) Abandon(token Token) {
	e.mu.Lock()

	if e.waiting.Remove(token) {
		e.mu.Unlock()
		return
	}

	job, ok := e.byToken[token]
	if !ok {
		e.mu.Unlock()
		return
	}

	switch job.state {
	case jobReserved, jobAllocated:
		next, retry := e.release(job)
		e.mu.Unlock()
		if retry {
			e.runtime.Retry(next)
		}
	case jobQueued, jobRunning:
		job.abandoned = true
		e.mu.Unlock()
	case jobDone:
		job.state = jobCompleting
		e.mu.Unlock()
		if err := e.finish(job); err != nil {
			e.log.Debugw("abandoned job completed with error", "token", token, "error", err)
		}
	default:
		e.mu.Unlock()
	}
}

// State reports whether the worker is idle, running an action or closed.
func (e *Engine[P]) State() WorkerState {
	select {
	case <-e.done:
		return WorkerStateClosed
	default:
	}
	if e.running.Load() {
		return WorkerStateRunning
	}
	return WorkerStateIdle
}

func (e *Engine[P]) Stats() Stats {
	e.mu.Lock()
	busy := e.pool.busyCount()
	waiting := e.waiting.Len()
	queued := e.queued
	e.mu.Unlock()

	return Stats{
		Name:            e.name,
		State:           e.State(),
		JobCount:        e.pool.capacity(),
		Busy:            busy,
		Queued:          queued,
		Waiting:         waiting,
		WaitingCapacity: e.waiting.Cap(),
		Submitted:       e.submitted.Load(),
		Completed:       e.completed.Load(),
		Failed:          e.failed.Load(),
		Refused:         e.refused.Load(),
	}
}

// Close stops the worker after the in-flight action returns. Jobs still
// queued are completed with an EngineClosedError and waiting callers are
// retried so that they observe the closed engine. Close is idempotent.
func (e *Engine[P]) Close() {
	e.once.Do(func() {
		e.mu.Lock()
		e.closed = true
		waiters := e.waiting.drain()
		e.mu.Unlock()

		close(e.close)
		<-e.done

		for _, t := range waiters {
			e.runtime.Retry(t)
		}
		e.log.Debugw("engine closed", "released_waiters", len(waiters))
	})
}
