// Package asyncworker implements a job-worker engine that moves blocking
// operations off the calling goroutines onto a single dedicated worker.
//
// An engine owns a fixed number of pre-allocated job slots, a bounded
// waiting list for callers that arrive while every slot is busy, and one
// worker goroutine that executes the submitted actions one at a time, in
// submission order. Callers never block inside the engine: they are
// suspended and resumed through a Runtime using an opaque Token.
//
// # Architecture Overview
//
//	┌─────────────────────────────────────────────────────────────────────┐
//	│                              Engine                                 │
//	│                                                                     │
//	│  ┌───────────────────────────────┐   ┌───────────────────────────┐  │
//	│  │           Job Pool            │   │       Waiting List        │  │
//	│  │  [job0] [job1] ... [jobN-1]   │   │  [tok] [tok] ... (max M)  │  │
//	│  │  free/busy bitmap             │   │  FIFO of parked callers   │  │
//	│  └───────────────┬───────────────┘   └─────────────┬─────────────┘  │
//	│                  │ Allocate / Free                 │                │
//	│                  │                                 │                │
//	│                  ▼                                 │                │
//	│  ┌─────────────────────────────────────────────┐   │                │
//	│  │            Submission channel (N)           │   │                │
//	│  └──────────────────────┬──────────────────────┘   │                │
//	│                         ▼                          │                │
//	│                  ┌─────────────┐                   │                │
//	│                  │   Worker    │── Resume(token) ──┼──► Runtime     │
//	│                  │ (goroutine) │                   │                │
//	│                  └─────────────┘     Retry(token) ◄┘                │
//	└─────────────────────────────────────────────────────────────────────┘
//
// # Call Protocol
//
//  1. Caller obtains a Token from its runtime and calls Allocate(token)
//     │
//     ├── slot free              → *Job returned, slot marked busy
//     ├── pool full, list room   → ErrJobDeferred, token parked
//     └── pool full, list full   → *PoolExhaustedError (retry later)
//     │
//     ▼
//  2. Caller fills job.Params and calls Submit(job, action, completion)
//     │
//     ▼
//  3. Caller suspends on its token
//     │
//     ▼
//  4. Worker executes action.Execute(&job.Params) and calls Resume(token)
//     │
//     ▼
//  5. Resumed caller calls Complete(token): the completion reads the result
//     from job.Params, the job is freed and the completion's error returned.
//
// Call wraps the whole sequence for goroutine callers hosted by a
// ChannelRuntime.
//
// # Waiting List Hand-off
//
// When a job is freed while callers are waiting, the slot does not go back
// to the free set: it is reserved for the oldest waiter and the runtime is
// asked to Retry that waiter. The retried Allocate returns the reserved slot.
// A caller arriving later can therefore never overtake a waiting one.
//
// # Worker States
//
//	┌───────────┐    job submitted     ┌───────────┐
//	│   Idle    │ ───────────────────► │  Running  │
//	│           │                      │           │
//	└───────────┘                      └─────┬─────┘
//	      ▲                                  │
//	      │   action returned, Resume sent   │
//	      └──────────────────────────────────┘
//
// Actions run to completion. A panic is recovered and handed to the
// completion as an error.
//
// # Abandoning
//
// A caller that stops waiting calls Abandon(token). A parked token is removed
// from the waiting list; a job that is queued or running is completed by the
// engine itself once the action returns, so every completion still runs
// exactly once.
//
// # Shutdown
//
// Close waits for the in-flight action, completes the jobs still queued with
// an EngineClosedError and retries every waiting caller so that its next
// Allocate observes the closed engine.
//
// # Usage Example
//
//	rt := asyncworker.NewChannelRuntime()
//	engine, err := asyncworker.New[Params]("fs", asyncworker.Config{JobCount: 4, WaitingListSize: 16}, rt)
//	if err != nil {
//	    return err
//	}
//	defer engine.Close()
//
//	var size int64
//	err = asyncworker.Call(ctx, engine, rt, asyncworker.Request[Params]{
//	    Prepare: func(p *Params) error { return p.SetPath(path) },
//	    Action:  asyncworker.ActionFunc[Params](lengthAction),
//	    Completion: asyncworker.CompletionFunc[Params](func(p *Params, err error) error {
//	        size = p.Result
//	        return err
//	    }),
//	})
package asyncworker
