package controller

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/487058267/agent-cross-discipline/internal/pkg/serverutils"
)

type IHealthController interface {
	RegisterRoutes(r fiber.Router)
	Health(ctx *fiber.Ctx) error
}

type healthController struct {
	startedAt time.Time
}

func NewHealthController() IHealthController {
	return &healthController{startedAt: time.Now()}
}

func (c *healthController) RegisterRoutes(r fiber.Router) {
	r.Get("/health", c.Health)
}

func (c *healthController) Health(ctx *fiber.Ctx) error {
	return ctx.JSON(serverutils.SuccessResponse("ok", fiber.Map{
		"status":         "ok",
		"uptime_seconds": int(time.Since(c.startedAt).Seconds()),
	}))
}
