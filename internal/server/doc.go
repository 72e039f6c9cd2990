// Package server provides the HTTP server for the async-worker.
//
// The server uses the Gin web framework. It serves HTTP, or HTTPS when a
// certificate and key are configured.
//
// # Architecture Overview
//
//	┌───────────────────────────────────────────────────────────────┐
//	│                         HTTP Server                           │
//	├───────────────────────────────────────────────────────────────┤
//	│  Recovery (ginzap.RecoveryWithZap)                            │
//	│                                                               │
//	│  /health              liveness                                │
//	│  /metrics             engine collectors (promhttp)            │
//	│                                                               │
//	│  /api/v1              Logger middleware                       │
//	│                       Authenticator (bearer JWT, optional)    │
//	│                       Handlers (registered via callback)      │
//	└───────────────────────────────────────────────────────────────┘
//
// # Server Modes
//
// Development Mode (ServerMode = "dev"): Gin runs in debug mode.
//
// Production Mode (ServerMode = "prod"): Gin runs in release mode.
//
// # Server Lifecycle
//
//	srv, err := server.NewServer(cfg, func(router *gin.RouterGroup) {
//	    v1.RegisterHandlers(router, handler)
//	}, server.WithGatherer(registry))
//
//	go func() {
//	    if err := srv.Start(ctx); err != nil {
//	        zap.S().Errorw("server error", "error", err)
//	    }
//	}()
//
//	<-ctx.Done()
//	srv.Stop(context.Background())
//
// Stop performs a graceful shutdown bounded by Server.ShutdownTimeout.
// Request contexts derive from the context given to Start, so a caller
// suspended on an engine is released when that context is cancelled.
//
// # Authentication
//
// When Authentication.Enabled is set every /api/v1 route requires an
// Authorization: Bearer header carrying a JWT signed with the HMAC secret
// read from Authentication.SecretFilePath. Tokens without an expiration are
// rejected. The token subject is stored in the gin context under
// middlewares.SubjectKey.
package server
