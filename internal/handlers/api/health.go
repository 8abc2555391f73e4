package api

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v3"

	"awardmatch/internal/models"
)

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler reports whether the engine can reach its state store.
type HealthHandler struct {
	store Pinger
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(store Pinger) *HealthHandler {
	return &HealthHandler{store: store}
}

// Check pings the state store and returns 503 when it is unreachable.
func (h *HealthHandler) Check(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
	defer cancel()

	resp := models.HealthResponse{
		Status:    "ok",
		Store:     "up",
		CheckedAt: time.Now().UTC(),
	}
	if err := h.store.Ping(ctx); err != nil {
		resp.Status = "degraded"
		resp.Store = "down"
		resp.Error = "state store unreachable"
		return c.Status(fiber.StatusServiceUnavailable).JSON(resp)
	}
	return c.JSON(resp)
}
