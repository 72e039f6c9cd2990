// Package store implements the data access layer for the async-worker.
//
// This package provides persistent storage using DuckDB. It keeps the runtime
// configuration and the journal of operations executed by the engine workers.
//
// # Architecture Overview
//
//	┌─────────────────────────────────────────────────────────────────┐
//	│                         Store (facade)                          │
//	├─────────────────────────────────────────────────────────────────┤
//	│       ConfigurationStore       │        OperationStore          │
//	│              ▼                 │             ▼                  │
//	│        configuration           │         operations             │
//	├────────────────────────────────┴────────────────────────────────┤
//	│                 QueryInterceptor (debug logging)                │
//	└─────────────────────────────────────────────────────────────────┘
//
// # Data Sources
//
// Tables created by migrations (internal/store/migrations/sql/):
//
//	┌────────────────────┬─────────────────────────────────────────────┐
//	│  Table             │  Purpose                                    │
//	├────────────────────┼─────────────────────────────────────────────┤
//	│  configuration     │  Last mounted filesystem root               │
//	│  operations        │  One row per action run by a worker         │
//	│  schema_migrations │  Migration version tracking                 │
//	└────────────────────┴─────────────────────────────────────────────┘
//
// # Initialization Flow
//
//	db, _ := NewDB(path)
//	migrations.Run(ctx, db)  → creates configuration, operations
//	NewStore(db)             → wraps db in a QueryInterceptor
//
// # ConfigurationStore
//
// Single-row table guarded by CHECK (id = 1) and written with
// INSERT ... ON CONFLICT (id) DO UPDATE.
//
// Methods:
//   - Get(ctx) → *models.Configuration
//   - Save(ctx, cfg) → error
//
// # OperationStore
//
// Methods:
//   - Insert(ctx, op) → error
//   - List(ctx, opts...) → []models.Operation
//   - Count(ctx, opts...) → int
//   - Prune(ctx, before) → rows deleted
//
// List and Count use the functional options pattern. Each ListOption
// modifies a squirrel.SelectBuilder:
//
//	ops, err := store.Operation().List(ctx,
//	    store.ByEngine("fs"),
//	    store.ByFailed(true),
//	    store.WithDefaultSort(),
//	    store.WithLimit(50),
//	)
//
// Filtering options: ByEngine, ByKind, ByFailed, ByPathPrefix, StartedAfter
// and WithFilter which applies a models.OperationFilter.
//
// Sorting options: WithDefaultSort (started_at DESC) and WithSort, which maps
// the API fields engine, kind, path, startedAt and duration to columns and
// always appends id as tie-breaker.
package store
