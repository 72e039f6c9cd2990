package models

import (
	"fmt"
	"time"
)

// Configuration is the persisted runtime configuration.
type Configuration struct {
	FsRoot    string
	UpdatedAt time.Time
}

type WorkerStatusType string

const (
	WorkerStatusIdle    WorkerStatusType = "idle"
	WorkerStatusRunning WorkerStatusType = "running"
	WorkerStatusClosed  WorkerStatusType = "closed"
)

func ParseWorkerStatusType(s string) (WorkerStatusType, error) {
	switch s {
	case "idle":
		return WorkerStatusIdle, nil
	case "running":
		return WorkerStatusRunning, nil
	case "closed":
		return WorkerStatusClosed, nil
	default:
		return "", fmt.Errorf("invalid worker status type: %s", s)
	}
}

// EngineStatus is a snapshot of one engine's occupancy and counters.
type EngineStatus struct {
	Name            string
	Worker          WorkerStatusType
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
