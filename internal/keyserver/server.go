// Package keyserver serves the backend credential to clients running in
// proxy key mode, so the key never has to live on the client machine.
package keyserver

import (
	"context"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
)

// KeyPath is the route clients fetch the key from.
const KeyPath = "/api/get-key"

// MsgNotConfigured is the error body returned when the server holds no key.
const MsgNotConfigured = "API key is not configured on the server."

const DefaultAddr = "127.0.0.1:8787"

type Config struct {
	Addr   string
	APIKey string
}

type keyResponse struct {
	APIKey string `json:"apiKey"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type Server struct {
	app    *fiber.App
	cfg    Config
	logger *zap.Logger
}

func New(cfg Config, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	cfg.APIKey = strings.TrimSpace(cfg.APIKey)

	app := fiber.New(fiber.Config{
		AppName:               "studyguide-keyserver",
		DisableStartupMessage: true,
	})
	app.Use(recover.New())
	app.Use(requestLogger(logger))

	s := &Server{app: app, cfg: cfg, logger: logger}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	api := s.app.Group("/api")
	api.Get("/get-key", s.getKey)
}

// App exposes the fiber app, mainly for app.Test in tests.
func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) getKey(ctx *fiber.Ctx) error {
	if s.cfg.APIKey == "" {
		s.logger.Warn("key requested but none configured", zap.String("ip", ctx.IP()))
		return ctx.Status(fiber.StatusInternalServerError).JSON(errorResponse{Error: MsgNotConfigured})
	}
	return ctx.JSON(keyResponse{APIKey: s.cfg.APIKey})
}

// Run listens until the context is cancelled or the listener fails.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("key server listening",
			zap.String("addr", s.cfg.Addr),
			zap.Bool("key_configured", s.cfg.APIKey != ""),
		)
		errCh <- s.app.Listen(s.cfg.Addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.app.ShutdownWithContext(shutdownCtx)
	}
}

func requestLogger(logger *zap.Logger) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		start := time.Now()
		err := ctx.Next()
		logger.Info("request",
			zap.String("method", ctx.Method()),
			zap.String("path", ctx.Path()),
			zap.Int("status", ctx.Response().StatusCode()),
			zap.Duration("latency", time.Since(start)),
		)
		return err
	}
}
