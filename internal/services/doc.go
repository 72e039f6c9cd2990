// Package services implements the business logic layer for the async-worker.
//
// This package contains services that act as intermediaries between HTTP handlers,
// the engines and the data store.
//
// # Service Dependency Graph
//
//	Handlers (HTTP endpoints)
//	    │
//	    ▼
//	Services Layer
//	    ├── EngineRegistry ───► Engines (fs, journal)
//	    ├── Journal ──────────► Store, own Engine
//	    ├── OperationService ─► Store
//	    └── ResolveRoot ──────► Store
//
// # Journal
//
// Journal records every action run by the filesystem worker. It is plugged
// into the filesystem engine as an observer, so ObserveFs runs on the
// filesystem worker goroutine and must never block. The record is handed to
// a second engine dedicated to the journal whose worker performs the DuckDB
// insert:
//
//	fs worker ──ObserveFs──► Journal.Record
//	                             │ Allocate / Submit / Abandon
//	                             ▼
//	                      journal worker ──► operations table
//
// Callers of the journal engine never wait: the tokens are abandoned right
// after Submit and the engine runs the completion itself. When the journal
// engine has no free job the record is dropped and counted.
//
// # EngineRegistry
//
// Keeps every engine of the process by name and reports their occupancy
// and counters as models.EngineStatus. It also builds the Prometheus
// collector exported on /metrics.
//
// # OperationService
//
// Queries the journal with filtering, sorting and pagination, and exports
// the result as an xlsx workbook.
//
//	params := services.OperationListParams{
//	    Filter: models.OperationFilter{Engine: "fs", Kinds: []string{"read", "write"}},
//	    Limit:  50,
//	}
//	result, err := operationService.List(ctx, params)
//
// # Filesystem Root
//
// On startup the root to mount is resolved with the following priority:
//  1. Root from configuration (flag or environment), persisted for next runs
//  2. Root persisted by a previous run
//  3. Neither: startup fails with an InvalidConfigurationError
package services
