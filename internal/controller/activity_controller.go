package controller

import (
	"ai-coach-be/internal/dto"
	"ai-coach-be/internal/pkg/serverutils"
	"ai-coach-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IActivityController interface {
	RegisterRoutes(r fiber.Router, jwtMiddleware fiber.Handler)
	CreateManual(ctx *fiber.Ctx) error
	Backfill(ctx *fiber.Ctx) error
}

type activityController struct {
	activityService service.IActivityService
}

func NewActivityController(activityService service.IActivityService) IActivityController {
	return &activityController{
		activityService: activityService,
	}
}

func (c *activityController) RegisterRoutes(r fiber.Router, jwtMiddleware fiber.Handler) {
	h := r.Group("/activities", jwtMiddleware)
	h.Post("/manual", c.CreateManual)
	h.Post("/backfill", c.Backfill)
}

func (c *activityController) CreateManual(ctx *fiber.Ctx) error {
	userId, err := athleteID(ctx)
	if err != nil {
		return err
	}

	var req dto.ManualActivityRequest
	if err := bind(ctx, &req); err != nil {
		return err
	}

	res, err := c.activityService.RecordManualActivity(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Activity recorded", res))
}

func (c *activityController) Backfill(ctx *fiber.Ctx) error {
	userId, err := athleteID(ctx)
	if err != nil {
		return err
	}

	res, err := c.activityService.BackfillComputed(ctx.Context(), userId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Backfill complete", res))
}
