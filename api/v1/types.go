package v1

import (
	"time"
)

// Defines values for WorkerState.
const (
	WorkerStateClosed  WorkerState = "closed"
	WorkerStateIdle    WorkerState = "idle"
	WorkerStateRunning WorkerState = "running"
)

// WorkerState is the state of an engine worker.
type WorkerState string

// Engine occupancy and counters of one job engine.
type Engine struct {
	Busy            int         `json:"busy"`
	Completed       int64       `json:"completed"`
	Failed          int64       `json:"failed"`
	JobCount        int         `json:"jobCount"`
	Name            string      `json:"name"`
	Queued          int         `json:"queued"`
	Refused         int64       `json:"refused"`
	Submitted       int64       `json:"submitted"`
	Waiting         int         `json:"waiting"`
	WaitingCapacity int         `json:"waitingCapacity"`
	Worker          WorkerState `json:"worker"`
}

// EngineList defines model for EngineList.
type EngineList struct {
	Engines []Engine `json:"engines"`
}

// Operation is one journaled engine action.
type Operation struct {
	DurationMs float64   `json:"durationMs"`
	Engine     string    `json:"engine"`
	Error      *string   `json:"error,omitempty"`
	Id         string    `json:"id"`
	Kind       string    `json:"kind"`
	Path       *string   `json:"path,omitempty"`
	Result     int64     `json:"result"`
	StartedAt  time.Time `json:"startedAt"`
}

// OperationListResponse defines model for OperationListResponse.
type OperationListResponse struct {
	Operations []Operation `json:"operations"`
	Page       int         `json:"page"`
	PageCount  int         `json:"pageCount"`
	Total      int         `json:"total"`
}

// FileStat defines model for FileStat.
type FileStat struct {
	Hidden       bool       `json:"hidden"`
	IsDirectory  bool       `json:"isDirectory"`
	LastModified *time.Time `json:"lastModified,omitempty"`
	Path         string     `json:"path"`
	Readable     bool       `json:"readable"`
	Size         int64      `json:"size"`
	Writable     bool       `json:"writable"`
}

// DirectoryListing defines model for DirectoryListing.
type DirectoryListing struct {
	Entries []string `json:"entries"`
	Path    string   `json:"path"`
}

// FileWritten defines model for FileWritten.
type FileWritten struct {
	Path string `json:"path"`
	Size int64  `json:"size"`
}

// Space is the size of the mounted filesystem in bytes.
type Space struct {
	Free   int64 `json:"free"`
	Total  int64 `json:"total"`
	Usable int64 `json:"usable"`
}

// CreateDirectoryRequest defines model for CreateDirectoryRequest.
type CreateDirectoryRequest struct {
	Path string `json:"path"`
}

// RenameRequest defines model for RenameRequest.
type RenameRequest struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// ErrorResponse defines model for ErrorResponse.
type ErrorResponse struct {
	Error string `json:"error"`
}

// GetOperationsParams defines parameters for GetOperations.
type GetOperationsParams struct {
	// Engine filter by engine name
	Engine *string `form:"engine,omitempty" json:"engine,omitempty"`

	// Kind filter by operation kinds (OR logic)
	Kind *[]string `form:"kind,omitempty" json:"kind,omitempty"`

	// Failed only failed (true) or successful (false) operations
	Failed *bool `form:"failed,omitempty" json:"failed,omitempty"`

	// Since only operations started after this time
	Since *time.Time `form:"since,omitempty" json:"since,omitempty"`

	// Sort fields, "field:direction"
	Sort *[]string `form:"sort,omitempty" json:"sort,omitempty"`

	Page     *int `form:"page,omitempty" json:"page,omitempty"`
	PageSize *int `form:"pageSize,omitempty" json:"pageSize,omitempty"`
}

// ExportOperationsParams defines parameters for ExportOperations.
type ExportOperationsParams struct {
	Engine *string    `form:"engine,omitempty" json:"engine,omitempty"`
	Kind   *[]string  `form:"kind,omitempty" json:"kind,omitempty"`
	Failed *bool      `form:"failed,omitempty" json:"failed,omitempty"`
	Since  *time.Time `form:"since,omitempty" json:"since,omitempty"`
	Sort   *[]string  `form:"sort,omitempty" json:"sort,omitempty"`
}

// FsPathParams defines the path parameter shared by the filesystem endpoints.
type FsPathParams struct {
	Path string `form:"path" json:"path"`
}

// CreateFsDirectoryJSONRequestBody defines body for CreateFsDirectory for application/json ContentType.
type CreateFsDirectoryJSONRequestBody = CreateDirectoryRequest

// RenameFsFileJSONRequestBody defines body for RenameFsFile for application/json ContentType.
type RenameFsFileJSONRequestBody = RenameRequest
