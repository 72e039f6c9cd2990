package config

import (
	"time"

	"github.com/kubev2v/async-worker/pkg/asyncworker"
	srvErrors "github.com/kubev2v/async-worker/pkg/errors"
)

//go:generate go run github.com/ecordell/optgen -output zz_generated.configuration.go . Configuration Server Engine Filesystem Journal Authentication

type Configuration struct {
	Server         Server         `debugmap:"visible"`
	Engine         Engine         `debugmap:"visible"`
	Filesystem     Filesystem     `debugmap:"visible"`
	Journal        Journal        `debugmap:"visible"`
	Authentication Authentication `debugmap:"visible"`
	LogFormat      string         `debugmap:"visible" default:"console"`
	LogLevel       string         `debugmap:"visible" default:"debug"`
}

type Server struct {
	ServerMode      string        `debugmap:"visible" default:"dev"`
	HTTPPort        int           `debugmap:"visible" default:"8000"`
	TLSCertFile     string        `debugmap:"visible"`
	TLSKeyFile      string        `debugmap:"visible"`
	ShutdownTimeout time.Duration `debugmap:"visible" default:"10s"`
}

// Engine sizes the filesystem engine.
type Engine struct {
	JobCount        int           `debugmap:"visible" default:"4"`
	WaitingListSize int           `debugmap:"visible" default:"16"`
	MaxHandles      int           `debugmap:"visible" default:"32"`
	RetryMaxElapsed time.Duration `debugmap:"visible" default:"30s"`
}

type Filesystem struct {
	// Root is the directory served by the filesystem engine. When empty the
	// root persisted by a previous run is used.
	Root     string `debugmap:"visible"`
	InMemory bool   `debugmap:"visible" default:"false"`
}

type Journal struct {
	// DataFolder holds the DuckDB file. When empty the journal lives in memory.
	DataFolder string `debugmap:"visible"`
	// QueueSize is the number of records waiting to be written before new
	// ones are dropped.
	QueueSize     int           `debugmap:"visible" default:"64"`
	Retention     time.Duration `debugmap:"visible" default:"168h"`
	PruneInterval time.Duration `debugmap:"visible" default:"1h"`
}

type Authentication struct {
	Enabled        bool   `debugmap:"visible" default:"false"`
	SecretFilePath string `debugmap:"visible"`
}

// EngineConfig returns the filesystem engine sizing.
func (c *Configuration) EngineConfig() asyncworker.Config {
	return asyncworker.Config{
		JobCount:        c.Engine.JobCount,
		WaitingListSize: c.Engine.WaitingListSize,
	}
}

// JournalConfig returns the journal engine sizing. The journal never waits
// for a slot so it has no waiting list.
func (c *Configuration) JournalConfig() asyncworker.Config {
	return asyncworker.Config{JobCount: c.Journal.QueueSize}
}

// Validate checks the settings that cannot be fixed by a default.
func (c *Configuration) Validate() error {
	switch c.Server.ServerMode {
	case "dev", "prod":
	default:
		return srvErrors.NewInvalidConfigurationError("Server.ServerMode", "must be dev or prod")
	}
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return srvErrors.NewInvalidConfigurationError("Server.HTTPPort", "out of range")
	}
	if (c.Server.TLSCertFile == "") != (c.Server.TLSKeyFile == "") {
		return srvErrors.NewInvalidConfigurationError("Server.TLSCertFile", "certificate and key must be set together")
	}
	if c.Engine.JobCount < 1 {
		return srvErrors.NewInvalidConfigurationError("Engine.JobCount", "at least one job is required")
	}
	if c.Engine.WaitingListSize < 0 {
		return srvErrors.NewInvalidConfigurationError("Engine.WaitingListSize", "must not be negative")
	}
	if c.Journal.PruneInterval <= 0 {
		return srvErrors.NewInvalidConfigurationError("Journal.PruneInterval", "must be positive")
	}
	if c.Journal.QueueSize < 1 {
		return srvErrors.NewInvalidConfigurationError("Journal.QueueSize", "must be positive")
	}
	if c.Authentication.Enabled && c.Authentication.SecretFilePath == "" {
		return srvErrors.NewInvalidConfigurationError("Authentication.SecretFilePath", "required when authentication is enabled")
	}
	switch c.LogFormat {
	case "console", "json":
	default:
		return srvErrors.NewInvalidConfigurationError("LogFormat", "must be console or json")
	}
	return nil
}
