package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/astu-platform/complaint-service/internal/persistence"
)

// HealthHandler exposes liveness and readiness probes.
type HealthHandler struct {
	db    *persistence.Postgres
	cache *persistence.Redis
}

// NewHealthHandler constructs handler.
func NewHealthHandler(db *persistence.Postgres, cache *persistence.Redis) *HealthHandler {
	return &HealthHandler{db: db, cache: cache}
}

// Live GET /health/live. Always OK while the process serves traffic.
func (h *HealthHandler) Live(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// Ready GET /health/ready. Checks the backing stores. Redis is degraded-only
// since the portal stays usable without the chat rate limiter.
func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	checks := fiber.Map{"postgres": "ok", "redis": "ok"}
	healthy := true

	if err := h.db.Ping(c.UserContext()); err != nil {
		checks["postgres"] = err.Error()
		healthy = false
	}
	if err := h.cache.Ping(c.UserContext()); err != nil {
		checks["redis"] = err.Error()
	}

	if !healthy {
		return c.Status(http.StatusServiceUnavailable).JSON(fiber.Map{"status": "unavailable", "checks": checks})
	}
	return c.JSON(fiber.Map{"status": "ok", "checks": checks})
}
