package services

import (
	"sort"
	"sync"

	"github.com/kubev2v/async-worker/internal/models"
	"github.com/kubev2v/async-worker/pkg/asyncworker"
	srvErrors "github.com/kubev2v/async-worker/pkg/errors"
)

// EngineRegistry keeps the engines running in the process and reports their
// status.
type EngineRegistry struct {
	mu      sync.Mutex
	engines map[string]asyncworker.StatsProvider
}

func NewEngineRegistry(engines ...asyncworker.StatsProvider) *EngineRegistry {
	r := &EngineRegistry{engines: make(map[string]asyncworker.StatsProvider)}
	for _, e := range engines {
		r.Add(e)
	}
	return r
}

func (r *EngineRegistry) Add(e asyncworker.StatsProvider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.engines[e.Stats().Name] = e
}

// List returns the status of every engine sorted by name.
func (r *EngineRegistry) List() []models.EngineStatus {
	r.mu.Lock()
	providers := make([]asyncworker.StatsProvider, 0, len(r.engines))
	for _, e := range r.engines {
		providers = append(providers, e)
	}
	r.mu.Unlock()

	out := make([]models.EngineStatus, 0, len(providers))
	for _, p := range providers {
		out = append(out, toEngineStatus(p.Stats()))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (r *EngineRegistry) Get(name string) (models.EngineStatus, error) {
	r.mu.Lock()
	e, ok := r.engines[name]
	r.mu.Unlock()
	if !ok {
		return models.EngineStatus{}, srvErrors.NewResourceNotFoundError("engine", name)
	}
	return toEngineStatus(e.Stats()), nil
}

// Collector returns a Prometheus collector over the engines registered so far.
func (r *EngineRegistry) Collector() *asyncworker.Collector {
	r.mu.Lock()
	defer r.mu.Unlock()
	providers := make([]asyncworker.StatsProvider, 0, len(r.engines))
	for _, e := range r.engines {
		providers = append(providers, e)
	}
	return asyncworker.NewCollector(providers...)
}

func toEngineStatus(s asyncworker.Stats) models.EngineStatus {
	return models.EngineStatus{
		Name:            s.Name,
		Worker:          models.WorkerStatusType(s.State),
		JobCount:        s.JobCount,
		Busy:            s.Busy,
		Queued:          s.Queued,
		Waiting:         s.Waiting,
		WaitingCapacity: s.WaitingCapacity,
		Submitted:       s.Submitted,
		Completed:       s.Completed,
		Failed:          s.Failed,
		Refused:         s.Refused,
	}
}
