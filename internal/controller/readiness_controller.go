package controller

import (
	"time"

	"ai-coach-be/internal/pkg/serverutils"
	"ai-coach-be/internal/service"
	"ai-coach-be/pkg/plandoc"

	"github.com/gofiber/fiber/v2"
)

type IReadinessController interface {
	RegisterRoutes(r fiber.Router, jwtMiddleware fiber.Handler)
	Show(ctx *fiber.Ctx) error
}

type readinessController struct {
	readinessService service.IReadinessService
}

func NewReadinessController(readinessService service.IReadinessService) IReadinessController {
	return &readinessController{
		readinessService: readinessService,
	}
}

func (c *readinessController) RegisterRoutes(r fiber.Router, jwtMiddleware fiber.Handler) {
	r.Get("/readiness", jwtMiddleware, c.Show)
}

func (c *readinessController) Show(ctx *fiber.Ctx) error {
	userId, err := athleteID(ctx)
	if err != nil {
		return err
	}

	asOf := time.Now().UTC()
	if raw := ctx.Query("asOf"); raw != "" {
		asOf, err = plandoc.ParseDate(raw)
		if err != nil {
			return err
		}
	}

	res, err := c.readinessService.Evaluate(ctx.Context(), userId, asOf)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Readiness", res))
}
