package server

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/limiter"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/gofiber/storage/redis/v3"
	"go.uber.org/zap"

	"awardmatch/internal/apperr"
	"awardmatch/internal/config"
)

// Server wraps the Fiber app and configuration.
type Server struct {
	App    *fiber.App
	Cfg    *config.Config
	logger *zap.Logger

	// limiterStorage is nil when limiter state stays in process memory.
	limiterStorage fiber.Storage
}

// New creates a new server with middleware configured.
func New(cfg *config.Config, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}

	// Initialize Fiber
	app := fiber.New(fiber.Config{
		AppName: "awardmatch",
		ErrorHandler: func(c fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			kind := apperr.KindInternal
			message := "Internal Server Error"

			var e *fiber.Error
			if errors.As(err, &e) {
				code = e.Code
				message = e.Message
				if code == fiber.StatusNotFound {
					kind = apperr.KindNotFound
				} else if code < fiber.StatusInternalServerError {
					kind = apperr.KindValidation
				}
			} else {
				log.Error("unhandled error", zap.String("path", c.Path()), zap.Error(err))
			}

			return c.Status(code).JSON(fiber.Map{
				"status": "error",
				"error":  fiber.Map{"kind": kind, "message": message},
			})
		},
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(logger.New())

	// CORS middleware
	if cfg.CORSOrigins != "" {
		app.Use(cors.New(cors.Config{
			AllowOrigins: strings.Split(cfg.CORSOrigins, ","),
			AllowMethods: []string{"GET", "POST", "OPTIONS"},
			AllowHeaders: []string{"Origin", "Content-Type", "Accept"},
			MaxAge:       86400,
		}))
	}

	s := &Server{
		App:    app,
		Cfg:    cfg,
		logger: log,
	}
	if cfg.RedisURL != "" {
		s.limiterStorage = redis.New(redis.Config{URL: cfg.RedisURL})
		log.Info("rate limiter state stored in redis")
	}
	return s
}

// apiLimiter limits API requests per client IP. State lives in Redis when
// configured so limits hold across replicas.
func (s *Server) apiLimiter() fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        s.Cfg.RateLimitMax,
		Expiration: 1 * time.Minute,
		Storage:    s.limiterStorage,
		KeyGenerator: func(c fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"status": "error",
				"error": fiber.Map{
					"kind":    "rate_limited",
					"message": "Rate limit exceeded. Please try again later.",
				},
			})
		},
	})
}

// Start starts the server on the configured address.
func (s *Server) Start() error {
	s.logger.Info("server listening", zap.String("addr", s.Cfg.ServerAddr))
	return s.App.Listen(s.Cfg.ServerAddr, fiber.ListenConfig{DisableStartupMessage: true})
}

// Shutdown gracefully shuts down the server and releases limiter storage.
func (s *Server) Shutdown() error {
	err := s.App.Shutdown()
	if s.limiterStorage != nil {
		if cerr := s.limiterStorage.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}
