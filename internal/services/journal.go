package services

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/kubev2v/async-worker/internal/fs"
	"github.com/kubev2v/async-worker/internal/models"
	"github.com/kubev2v/async-worker/internal/store"
	"github.com/kubev2v/async-worker/pkg/asyncworker"
)

const (
	JournalEngineName = "journal"

	defaultInsertTimeout = 5 * time.Second
)

type journalEntry struct {
	op models.Operation
}

// detachedRuntime hosts fire-and-forget callers: nobody waits on their
// tokens, the engine completes the abandoned jobs itself.
type detachedRuntime struct{}

func (detachedRuntime) Resume(asyncworker.Token) {}
func (detachedRuntime) Retry(asyncworker.Token)  {}

// Journal writes operation records to the store on its own engine so that
// database writes never run on the worker that produced them. When the
// journal engine is saturated the record is dropped.
type Journal struct {
	store   *store.Store
	engine  *asyncworker.Engine[journalEntry]
	timeout time.Duration

	tokens  atomic.Uint64
	dropped atomic.Int64

	log *zap.SugaredLogger
}

func NewJournal(st *store.Store, cfg asyncworker.Config) (*Journal, error) {
	j := &Journal{
		store:   st,
		timeout: defaultInsertTimeout,
		log:     zap.S().Named("journal"),
	}
	engine, err := asyncworker.New[journalEntry](JournalEngineName, cfg, detachedRuntime{})
	if err != nil {
		return nil, err
	}
	j.engine = engine
	return j, nil
}

// Engine exposes the journal engine for stats and metrics.
func (j *Journal) Engine() asyncworker.StatsProvider { return j.engine }

// Dropped returns how many records were lost to back-pressure.
func (j *Journal) Dropped() int64 { return j.dropped.Load() }

// Record queues op for insertion without blocking. It reports whether the
// record was accepted.
func (j *Journal) Record(op models.Operation) bool {
	token := asyncworker.Token(j.tokens.Add(1))

	job, err := j.engine.Allocate(token)
	if err != nil {
		if errors.Is(err, asyncworker.ErrJobDeferred) {
			j.engine.Abandon(token)
		}
		j.drop(op, err)
		return false
	}

	job.Params.op = op
	if _, err := j.engine.Submit(job, asyncworker.ActionFunc[journalEntry](j.insert), asyncworker.CompletionFunc[journalEntry](j.done)); err != nil {
		j.engine.Free(job)
		j.drop(op, err)
		return false
	}

	// the engine runs the completion once the insert returns
	j.engine.Abandon(token)
	return true
}

// ObserveFs turns a filesystem record into a journal entry. It runs on the
// filesystem worker and must not block.
func (j *Journal) ObserveFs(r asyncworker.Record[fs.Params]) {
	op := models.Operation{
		Engine:    r.Engine,
		Kind:      r.Params.Kind.String(),
		Path:      r.Params.PathString(),
		Result:    r.Params.Result,
		StartedAt: r.Started,
		Duration:  r.Duration,
	}
	if r.Err != nil {
		op.Error = r.Err.Error()
	}
	j.Record(op)
}

func (j *Journal) insert(e *journalEntry) error {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()
	return j.store.Operation().Insert(ctx, &e.op)
}

func (j *Journal) done(e *journalEntry, err error) error {
	if err != nil {
		j.log.Warnw("failed to write operation", "engine", e.op.Engine, "kind", e.op.Kind, "error", err)
	}
	return err
}

func (j *Journal) drop(op models.Operation, err error) {
	n := j.dropped.Add(1)
	j.log.Warnw("operation record dropped", "engine", op.Engine, "kind", op.Kind, "dropped_total", n, "error", err)
}

// Close waits for the insert in progress. Records still queued are dropped.
func (j *Journal) Close() {
	j.engine.Close()
}
