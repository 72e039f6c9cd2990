package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kubev2v/async-worker/internal/config"
	"github.com/kubev2v/async-worker/internal/server/middlewares"
	srvErrors "github.com/kubev2v/async-worker/pkg/errors"
)

type Option func(s *Server)

// WithGatherer exposes the gatherer's metrics on /metrics.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = g
	}
}

type Server struct {
	cfg      config.Server
	engine   *gin.Engine
	srv      *http.Server
	gatherer prometheus.Gatherer
	log      *zap.SugaredLogger
}

func NewServer(cfg *config.Configuration, registerHandlerFn func(router *gin.RouterGroup), opts ...Option) (*Server, error) {
	s := &Server{
		cfg: cfg.Server,
		log: zap.S().Named("server"),
	}
	for _, o := range opts {
		o(s)
	}

	if cfg.Server.ServerMode == "prod" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	engine := gin.New()
	engine.Use(ginzap.RecoveryWithZap(zap.L(), true))

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if s.gatherer != nil {
		engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})))
	}

	api := engine.Group("/api/v1", middlewares.Logger())
	if cfg.Authentication.Enabled {
		secret, err := os.ReadFile(cfg.Authentication.SecretFilePath)
		if err != nil {
			return nil, fmt.Errorf("failed to read authentication secret: %w", err)
		}
		secret = bytes.TrimSpace(secret)
		if len(secret) == 0 {
			return nil, srvErrors.NewInvalidConfigurationError("Authentication.SecretFilePath", "secret is empty")
		}
		api.Use(middlewares.Authenticator(secret))
	}
	registerHandlerFn(api)

	engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	})

	s.engine = engine
	s.srv = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.HTTPPort),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s, nil
}

// Handler returns the router, mostly for tests.
func (s *Server) Handler() http.Handler { return s.engine }

// Start blocks until the server fails or is stopped. Request contexts derive
// from ctx. It serves HTTPS when a certificate is configured.
func (s *Server) Start(ctx context.Context) error {
	s.srv.BaseContext = func(net.Listener) context.Context { return ctx }

	var err error
	if s.cfg.TLSCertFile != "" {
		s.log.Infow("starting https server", "addr", s.srv.Addr, "mode", s.cfg.ServerMode)
		err = s.srv.ListenAndServeTLS(s.cfg.TLSCertFile, s.cfg.TLSKeyFile)
	} else {
		s.log.Infow("starting http server", "addr", s.srv.Addr, "mode", s.cfg.ServerMode)
		err = s.srv.ListenAndServe()
	}
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Stop waits for in-flight requests up to the configured shutdown timeout.
func (s *Server) Stop(ctx context.Context) error {
	if s.cfg.ShutdownTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.ShutdownTimeout)
		defer cancel()
	}
	s.log.Info("server shutting down")
	return s.srv.Shutdown(ctx)
}
