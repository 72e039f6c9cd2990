// Package handlers implements the HTTP API layer for the async-worker.
//
// Handlers delegate to the services layer and the filesystem service, and
// focus on parameter parsing, response formatting and HTTP semantics.
//
//	HTTP Request (Gin)
//	    │
//	    ▼
//	Handler (this package)
//	    │  request validation, error mapping, model-to-API conversion
//	    ▼
//	EngineRegistry │ OperationService │ fs.Service
//
// The Handler implements v1.ServerInterface and is registered with:
//
//	v1.RegisterHandlers(router, handler)
//
// # API Endpoints
//
//	┌────────┬────────────────────┬──────────────────────────────────────────┐
//	│ Method │ Endpoint           │ Description                              │
//	├────────┼────────────────────┼──────────────────────────────────────────┤
//	│ GET    │ /engines           │ Occupancy and counters of every engine   │
//	│ GET    │ /engines/{name}    │ One engine                               │
//	│ GET    │ /operations        │ Journal with filtering and pagination    │
//	│ GET    │ /operations/export │ Journal as an xlsx workbook              │
//	│ GET    │ /fs/stat           │ Attributes of ?path=                     │
//	│ GET    │ /fs/list           │ Entries of the directory ?path=          │
//	│ GET    │ /fs/file           │ Content of the file ?path=               │
//	│ PUT    │ /fs/file           │ Replace the file ?path= with the body    │
//	│ DELETE │ /fs/file           │ Delete ?path=                            │
//	│ POST   │ /fs/dir            │ Create a directory                       │
//	│ POST   │ /fs/rename         │ Rename a path                            │
//	│ GET    │ /fs/space          │ Total, free and usable bytes             │
//	└────────┴────────────────────┴──────────────────────────────────────────┘
//
// Every filesystem endpoint goes through the filesystem engine: the request
// goroutine allocates a job, submits it and blocks until the worker has run
// the operation.
//
// # Operations Query Parameters
//
//	┌──────────┬──────────┬─────────────────────────────────────────┐
//	│ engine   │ string   │ Engine name                             │
//	│ kind     │ []string │ Operation kinds (OR logic)              │
//	│ failed   │ bool     │ Only failed or only successful          │
//	│ since    │ RFC3339  │ Started after                           │
//	│ sort     │ []string │ "field:direction"                       │
//	│ page     │ int      │ Page number (default: 1)                │
//	│ pageSize │ int      │ Items per page (default: 20, max: 100)  │
//	└──────────┴──────────┴─────────────────────────────────────────┘
//
// Valid sort fields: engine, kind, path, startedAt, duration.
//
// # Error Handling
//
// Errors are returned as:
//
//	{ "error": "error message" }
//
//	┌─────────────────────────────┬────────┐
//	│ Error Type                  │ Status │
//	├─────────────────────────────┼────────┤
//	│ Validation, path too long   │ 400    │
//	│ IOError permission          │ 403    │
//	│ ResourceNotFound, not found │ 404    │
//	│ IOError already exists      │ 409    │
//	│ PoolExhaustedError          │ 429    │
//	│ EngineClosedError           │ 503    │
//	│ Anything else               │ 500    │
//	└─────────────────────────────┴────────┘
//
// A 429 carries a Retry-After header: the engine refused the request because
// every job and every waiting list slot was taken.
package handlers
