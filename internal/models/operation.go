package models

import (
	"time"

	"github.com/google/uuid"
)

// Operation is one action executed by an engine worker, as kept in the journal.
type Operation struct {
	ID        uuid.UUID
	Engine    string
	Kind      string
	Path      string
	Result    int64
	Error     string
	StartedAt time.Time
	Duration  time.Duration
}

func (o Operation) Failed() bool {
	return o.Error != ""
}

type OperationFilter struct {
	Engine string
	Kinds  []string
	Failed *bool
	Since  *time.Time
}
