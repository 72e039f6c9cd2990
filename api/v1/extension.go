package v1

import (
	"fmt"
	"strings"
	"time"

	"github.com/kubev2v/async-worker/internal/fs"
	"github.com/kubev2v/async-worker/internal/models"
	"github.com/kubev2v/async-worker/internal/store"
	"github.com/kubev2v/async-worker/internal/util"
)

// NewEngineFromModel converts a models.EngineStatus to an API Engine.
func NewEngineFromModel(m models.EngineStatus) Engine {
	var worker WorkerState
	switch m.Worker {
	case models.WorkerStatusRunning:
		worker = WorkerStateRunning
	case models.WorkerStatusClosed:
		worker = WorkerStateClosed
	default:
		worker = WorkerStateIdle
	}

	return Engine{
		Name:            m.Name,
		Worker:          worker,
		JobCount:        m.JobCount,
		Busy:            m.Busy,
		Queued:          m.Queued,
		Waiting:         m.Waiting,
		WaitingCapacity: m.WaitingCapacity,
		Submitted:       m.Submitted,
		Completed:       m.Completed,
		Failed:          m.Failed,
		Refused:         m.Refused,
	}
}

// NewOperationFromModel converts a models.Operation to an API Operation.
func NewOperationFromModel(op models.Operation) Operation {
	o := Operation{
		Id:         op.ID.String(),
		Engine:     op.Engine,
		Kind:       op.Kind,
		Result:     op.Result,
		StartedAt:  op.StartedAt,
		DurationMs: float64(op.Duration.Microseconds()) / 1000,
	}
	if op.Path != "" {
		o.Path = util.Ptr(op.Path)
	}
	if op.Error != "" {
		o.Error = util.Ptr(op.Error)
	}
	return o
}

func NewFileStat(info fs.FileInfo) FileStat {
	s := FileStat{
		Path:        info.Path,
		IsDirectory: info.IsDir,
		Hidden:      info.Hidden,
		Size:        info.Size,
		Readable:    info.Readable,
		Writable:    info.Writable,
	}
	if !info.Modified.IsZero() {
		s.LastModified = util.Ptr(info.Modified)
	}
	return s
}

// ToFilter builds the journal filter from the query parameters.
func (p GetOperationsParams) ToFilter() models.OperationFilter {
	return newFilter(p.Engine, p.Kind, p.Failed, p.Since)
}

func (p ExportOperationsParams) ToFilter() models.OperationFilter {
	return newFilter(p.Engine, p.Kind, p.Failed, p.Since)
}

func newFilter(engine *string, kinds *[]string, failed *bool, since *time.Time) models.OperationFilter {
	f := models.OperationFilter{Failed: failed, Since: since}
	if engine != nil {
		f.Engine = *engine
	}
	if kinds != nil {
		f.Kinds = *kinds
	}
	return f
}

var sortableFields = map[string]bool{
	"engine":    true,
	"kind":      true,
	"path":      true,
	"startedAt": true,
	"duration":  true,
}

// ParseSort converts "field:direction" values into store sort params.
func ParseSort(values []string) ([]store.SortParam, error) {
	sorts := make([]store.SortParam, 0, len(values))
	for _, v := range values {
		field, dir, ok := strings.Cut(v, ":")
		if !ok {
			return nil, fmt.Errorf("invalid sort format %q: expected field:direction", v)
		}
		if !sortableFields[field] {
			return nil, fmt.Errorf("invalid sort field %q", field)
		}
		switch dir {
		case "asc":
			sorts = append(sorts, store.SortParam{Field: field})
		case "desc":
			sorts = append(sorts, store.SortParam{Field: field, Desc: true})
		default:
			return nil, fmt.Errorf("invalid sort direction %q", dir)
		}
	}
	return sorts, nil
}
