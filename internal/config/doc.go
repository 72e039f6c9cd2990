// Package config defines the configuration structure for the async-worker.
//
// Configuration is organized into logical sections and uses code generation
// via optgen to create functional option helpers.
//
// # Configuration Structure
//
//	Configuration
//	├── Server          - HTTP server settings
//	├── Engine          - Filesystem engine sizing
//	├── Filesystem      - Served root
//	├── Journal         - Operation history
//	├── Authentication  - Bearer token verification
//	├── LogFormat       - Logging format (console, json)
//	└── LogLevel        - Logging verbosity
//
// # Server Configuration
//
//	┌──────────────────┬─────────┬────────────────────────────────────────┐
//	│ Field            │ Default │ Description                            │
//	├──────────────────┼─────────┼────────────────────────────────────────┤
//	│ ServerMode       │ "dev"   │ Server mode: "prod" or "dev"           │
//	│ HTTPPort         │ 8000    │ HTTP server listen port                │
//	│ TLSCertFile      │ ""      │ Certificate, enables HTTPS with key    │
//	│ TLSKeyFile       │ ""      │ Private key of TLSCertFile             │
//	│ ShutdownTimeout  │ 10s     │ Grace period for in-flight requests    │
//	└──────────────────┴─────────┴────────────────────────────────────────┘
//
// # Engine Configuration
//
//	┌──────────────────┬─────────┬────────────────────────────────────────┐
//	│ JobCount         │ 4       │ Pre-allocated job slots                │
//	│ WaitingListSize  │ 16      │ Callers that may wait for a slot       │
//	│ MaxHandles       │ 32      │ Open file and directory handles        │
//	│ RetryMaxElapsed  │ 30s     │ How long a refused caller retries      │
//	└──────────────────┴─────────┴────────────────────────────────────────┘
//
// A JobCount below one or a negative WaitingListSize is rejected by
// Validate before any engine is started.
//
// # Filesystem Configuration
//
//	┌──────────────────┬─────────┬────────────────────────────────────────┐
//	│ Root             │ ""      │ Directory to serve, persisted          │
//	│ InMemory         │ false   │ Serve an in-memory filesystem          │
//	└──────────────────┴─────────┴────────────────────────────────────────┘
//
// # Journal Configuration
//
//	┌──────────────────┬─────────┬────────────────────────────────────────┐
//	│ DataFolder       │ ""      │ DuckDB location, in memory when empty  │
//	│ QueueSize        │ 64      │ Pending records before dropping        │
//	│ Retention        │ 168h    │ Age of the operations kept             │
//	│ PruneInterval    │ 1h      │ How often old operations are deleted   │
//	└──────────────────┴─────────┴────────────────────────────────────────┘
//
// # Authentication Configuration
//
//	┌────────────────┬─────────┬────────────────────────────────────────┐
//	│ Enabled        │ false   │ Require a bearer JWT on the API        │
//	│ SecretFilePath │ ""      │ HMAC secret used to verify the tokens  │
//	└────────────────┴─────────┴────────────────────────────────────────┘
//
// # Code Generation
//
//	//go:generate go run github.com/ecordell/optgen -output zz_generated.configuration.go . Configuration Server Engine Filesystem Journal Authentication
//
// Usage:
//
//	cfg := config.NewConfigurationWithOptionsAndDefaults(
//	    config.WithEngine(*config.NewEngineWithOptionsAndDefaults(
//	        config.WithJobCount(8),
//	    )),
//	    config.WithLogLevel("info"),
//	)
//
// All fields are tagged with `debugmap:"visible"` so the whole configuration
// can be logged at startup:
//
//	zap.S().Infow("configuration loaded", "config", cfg.DebugMap())
package config
