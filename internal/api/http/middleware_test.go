package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	apperrors "github.com/astu-platform/complaint-service/pkg/util"
)

func TestRequestLogRecordsErrorStatus(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	app := fiber.New()
	RegisterMiddlewares(app, zap.New(core), nil, 0)
	app.Get("/missing", func(c *fiber.Ctx) error {
		return apperrors.NewNotFound("thing", nil)
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/missing", nil), 5000)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}

	var logged int64 = -1
	for _, entry := range logs.All() {
		if entry.Message != "request" {
			continue
		}
		if status, ok := entry.ContextMap()["status"].(int64); ok {
			logged = status
		}
	}
	if logged != http.StatusNotFound {
		t.Errorf("logged status = %d, want the status the error middleware wrote (404)", logged)
	}
}

func TestRequestTimeoutReachesHandlers(t *testing.T) {
	app := fiber.New()
	RegisterMiddlewares(app, zap.NewNop(), nil, 2*time.Second)
	var hasDeadline bool
	app.Get("/ctx", func(c *fiber.Ctx) error {
		_, hasDeadline = c.UserContext().Deadline()
		return c.SendStatus(http.StatusNoContent)
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/ctx", nil), 5000)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	resp.Body.Close()
	if !hasDeadline {
		t.Error("handler user context carries no deadline")
	}
}
