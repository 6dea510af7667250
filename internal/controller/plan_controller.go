package controller

import (
	"ai-coach-be/internal/dto"
	"ai-coach-be/internal/pkg/serverutils"
	"ai-coach-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IPlanController interface {
	RegisterRoutes(r fiber.Router, jwtMiddleware fiber.Handler)
	GetActive(ctx *fiber.Ctx) error
	History(ctx *fiber.Ctx) error
	Draft(ctx *fiber.Ctx) error
	Accept(ctx *fiber.Ctx) error
	Revert(ctx *fiber.Ctx) error
	Diff(ctx *fiber.Ctx) error
	ToggleNutrition(ctx *fiber.Ctx) error
	UpsertSession(ctx *fiber.Ctx) error
	CompleteSession(ctx *fiber.Ctx) error
	MoveSession(ctx *fiber.Ctx) error
}

type planController struct {
	planService service.IPlanService
}

func NewPlanController(planService service.IPlanService) IPlanController {
	return &planController{
		planService: planService,
	}
}

func (c *planController) RegisterRoutes(r fiber.Router, jwtMiddleware fiber.Handler) {
	h := r.Group("/plan", jwtMiddleware)
	h.Get("", c.GetActive)
	h.Get("/history", c.History)
	h.Post("/draft", c.Draft)
	h.Post("/accept", c.Accept)
	h.Post("/revert", c.Revert)
	h.Post("/diff", c.Diff)

	r.Post("/nutrition/toggle", jwtMiddleware, c.ToggleNutrition)

	s := r.Group("/sessions", jwtMiddleware)
	s.Post("/upsert", c.UpsertSession)
	s.Post("/complete", c.CompleteSession)
	s.Post("/move", c.MoveSession)
}

func (c *planController) GetActive(ctx *fiber.Ctx) error {
	userId, err := athleteID(ctx)
	if err != nil {
		return err
	}

	plan, err := c.planService.GetActive(ctx.Context(), userId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Active plan", plan))
}

func (c *planController) History(ctx *fiber.Ctx) error {
	userId, err := athleteID(ctx)
	if err != nil {
		return err
	}

	res, err := c.planService.History(ctx.Context(), userId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Plan history", res))
}

func (c *planController) Draft(ctx *fiber.Ctx) error {
	userId, err := athleteID(ctx)
	if err != nil {
		return err
	}

	var req dto.DraftPlanRequest
	if err := bind(ctx, &req); err != nil {
		return err
	}

	res, err := c.planService.ApplyDraft(ctx.Context(), userId, &req.Plan)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Plan updated", res))
}

func (c *planController) Accept(ctx *fiber.Ctx) error {
	userId, err := athleteID(ctx)
	if err != nil {
		return err
	}

	var req dto.AcceptPlanRequest
	if len(ctx.Body()) > 0 {
		if err := bind(ctx, &req); err != nil {
			return err
		}
	}

	res, err := c.planService.Accept(ctx.Context(), userId, req.Plan)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Plan accepted", res))
}

func (c *planController) Revert(ctx *fiber.Ctx) error {
	userId, err := athleteID(ctx)
	if err != nil {
		return err
	}

	var req dto.RevertPlanRequest
	if err := bind(ctx, &req); err != nil {
		return err
	}

	res, err := c.planService.Revert(ctx.Context(), userId, req.Version)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Plan reverted", res))
}

func (c *planController) Diff(ctx *fiber.Ctx) error {
	userId, err := athleteID(ctx)
	if err != nil {
		return err
	}

	var req dto.DiffPlanRequest
	if err := bind(ctx, &req); err != nil {
		return err
	}

	if req.Prev != nil && req.Next != nil {
		diff, err := c.planService.Diff(req.Prev, req.Next)
		if err != nil {
			return err
		}
		return ctx.JSON(serverutils.SuccessResponse("Plan diff", diff))
	}

	diff, err := c.planService.DiffVersions(ctx.Context(), userId, req.From, req.To)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Plan diff", diff))
}

func (c *planController) ToggleNutrition(ctx *fiber.Ctx) error {
	userId, err := athleteID(ctx)
	if err != nil {
		return err
	}

	var req dto.ToggleNutritionRequest
	if err := bind(ctx, &req); err != nil {
		return err
	}

	res, err := c.planService.ToggleNutrition(ctx.Context(), userId, *req.Enabled)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Nutrition updated", res))
}

func (c *planController) UpsertSession(ctx *fiber.Ctx) error {
	userId, err := athleteID(ctx)
	if err != nil {
		return err
	}

	var req dto.UpsertSessionRequest
	if err := bind(ctx, &req); err != nil {
		return err
	}

	res, err := c.planService.UpsertSession(ctx.Context(), userId, req.Session)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Session saved", res))
}

func (c *planController) CompleteSession(ctx *fiber.Ctx) error {
	userId, err := athleteID(ctx)
	if err != nil {
		return err
	}

	var req dto.CompleteSessionRequest
	if err := bind(ctx, &req); err != nil {
		return err
	}

	res, err := c.planService.CompleteSession(ctx.Context(), userId, req.SessionId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Session completed", res))
}

func (c *planController) MoveSession(ctx *fiber.Ctx) error {
	userId, err := athleteID(ctx)
	if err != nil {
		return err
	}

	var req dto.MoveSessionRequest
	if err := bind(ctx, &req); err != nil {
		return err
	}

	res, err := c.planService.MoveSession(ctx.Context(), userId, req.SessionId, req.Date)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Session moved", res))
}
