package asyncworker

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v5"

	srvErrors "github.com/kubev2v/async-worker/pkg/errors"
)

const defaultMaxElapsedTime = 30 * time.Second

// Request is one call through an engine. Prepare copies the caller's
// arguments into the job's parameter buffer; an error from Prepare frees the
// job before anything is queued.
type Request[P any] struct {
	Prepare    func(params *P) error
	Action     Action[P]
	Completion Completion[P]
}

type callOptions struct {
	backOff        backoff.BackOff
	maxElapsedTime time.Duration
}

type CallOption func(o *callOptions)

// WithBackOff sets the policy used to retry when the engine refuses the
// request because the pool and the waiting list are both full.
func WithBackOff(b backoff.BackOff) CallOption {
	return func(o *callOptions) {
		o.backOff = b
	}
}

func WithMaxElapsedTime(d time.Duration) CallOption {
	return func(o *callOptions) {
		o.maxElapsedTime = d
	}
}

// Call runs req through e, suspending the calling goroutine on rt until the
// completion has run. When ctx is done before that, the token is abandoned
// and ctx's error is returned.
func Call[P any](ctx context.Context, e *Engine[P], rt *ChannelRuntime, req Request[P], opts ...CallOption) error {
	o := callOptions{maxElapsedTime: defaultMaxElapsedTime}
	for _, opt := range opts {
		opt(&o)
	}
	if o.backOff == nil {
		b := backoff.NewExponentialBackOff()
		b.InitialInterval = 5 * time.Millisecond
		b.MaxInterval = time.Second
		o.backOff = b
	}

	token := rt.NewToken()
	defer rt.Release(token)

	job, err := backoff.Retry(ctx, func() (*Job[P], error) {
		return allocate(ctx, e, rt, token)
	}, backoff.WithBackOff(o.backOff), backoff.WithMaxElapsedTime(o.maxElapsedTime))
	if err != nil {
		return err
	}

	if req.Prepare != nil {
		if err := req.Prepare(&job.Params); err != nil {
			e.Free(job)
			return err
		}
	}

	if _, err := e.Submit(job, req.Action, req.Completion); err != nil {
		e.Free(job)
		return err
	}

	for {
		ev, err := rt.Wait(ctx, token)
		if err != nil {
			e.Abandon(token)
			return err
		}
		if ev == EventResumed {
			return e.Complete(token)
		}
	}
}

// allocate waits in the engine's waiting list until a slot is handed over.
// Back-pressure is returned as a retryable error, everything else is permanent.
func allocate[P any](ctx context.Context, e *Engine[P], rt *ChannelRuntime, token Token) (*Job[P], error) {
	for {
		job, err := e.Allocate(token)
		switch {
		case err == nil:
			return job, nil
		case errors.Is(err, ErrJobDeferred):
			if _, werr := rt.Wait(ctx, token); werr != nil {
				e.Abandon(token)
				return nil, backoff.Permanent(werr)
			}
		case srvErrors.IsPoolExhaustedError(err):
			return nil, err
		default:
			return nil, backoff.Permanent(err)
		}
	}
}
