package asyncworker

import (
	"fmt"
	"time"

	srvErrors "github.com/kubev2v/async-worker/pkg/errors"
)

func (e *Engine[P]) run(ready chan any) {
	defer close(e.done)
	close(ready)

	for {
		// close wins over pending submissions
		select {
		case <-e.close:
			e.drain()
			return
		default:
		}

		select {
		case job := <-e.submissions:
			e.execute(job)
		case <-e.close:
			e.drain()
			return
		}
	}
}

// execute runs the action of job and hands the job back to its caller.
func (e *Engine[P]) execute(job *Job[P]) {
	e.mu.Lock()
	job.state = jobRunning
	e.queued--
	e.mu.Unlock()

	e.running.Store(true)
	defer e.running.Store(false)

	started := time.Now()
	err := e.invoke(job)
	elapsed := time.Since(started)

	if err != nil {
		e.failed.Add(1)
	} else {
		e.completed.Add(1)
	}

	if e.observer != nil {
		e.observer(Record[P]{
			Engine:   e.name,
			Token:    job.token,
			Params:   &job.Params,
			Started:  started,
			Duration: elapsed,
			Err:      err,
		})
	}

	e.handOff(job, err)
}

func (e *Engine[P]) invoke(job *Job[P]) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			e.log.Errorw("action panicked", "token", job.token, "panic", rec)
			err = fmt.Errorf("action panicked: %v", rec)
		}
	}()
	return job.action.Execute(&job.Params)
}

// handOff marks job done and resumes its caller, or completes it here when
// the caller is gone.
func (e *Engine[P]) handOff(job *Job[P], err error) {
	e.mu.Lock()
	job.err = err
	job.state = jobDone
	abandoned := job.abandoned
	if abandoned {
		job.state = jobCompleting
	}
	e.mu.Unlock()

	if abandoned {
		if cerr := e.finish(job); cerr != nil {
			e.log.Debugw("abandoned job completed with error", "token", job.token, "error", cerr)
		}
		return
	}

	e.runtime.Resume(job.token)
}

// drain fails the jobs that were queued when the engine was closed.
func (e *Engine[P]) drain() {
	for {
		select {
		case job := <-e.submissions:
			e.mu.Lock()
			e.queued--
			e.mu.Unlock()
			e.failed.Add(1)
			e.handOff(job, srvErrors.NewEngineClosedError(e.name))
		default:
			return
		}
	}
}
