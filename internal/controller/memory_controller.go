package controller

import (
	"time"

	"ai-coach-be/internal/dto"
	"ai-coach-be/internal/pkg/serverutils"
	"ai-coach-be/internal/service"
	"ai-coach-be/pkg/plandoc"

	"github.com/gofiber/fiber/v2"
)

type IMemoryController interface {
	RegisterRoutes(r fiber.Router, jwtMiddleware fiber.Handler)
	Init(ctx *fiber.Ctx) error
	Packet(ctx *fiber.Ctx) error
	Conversation(ctx *fiber.Ctx) error
}

type memoryController struct {
	memoryService service.IMemoryService
}

func NewMemoryController(memoryService service.IMemoryService) IMemoryController {
	return &memoryController{
		memoryService: memoryService,
	}
}

func (c *memoryController) RegisterRoutes(r fiber.Router, jwtMiddleware fiber.Handler) {
	h := r.Group("/memory", jwtMiddleware)
	h.Post("/init", c.Init)
	h.Get("/packet", c.Packet)
	h.Post("/conversation", c.Conversation)
}

func (c *memoryController) Init(ctx *fiber.Ctx) error {
	userId, err := athleteID(ctx)
	if err != nil {
		return err
	}

	res, err := c.memoryService.InitMemory(ctx.Context(), userId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Memory initialized", res))
}

// Packet returns the compacted coach packet as raw JSON inside the envelope.
func (c *memoryController) Packet(ctx *fiber.Ctx) error {
	userId, err := athleteID(ctx)
	if err != nil {
		return err
	}

	weekStart := ctx.Query("weekStart")
	if weekStart == "" {
		weekStart = plandoc.FormatDate(plandoc.WeekStartOf(time.Now().UTC()))
	}

	packet, err := c.memoryService.BuildCoachPacket(ctx.Context(), userId, weekStart)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Coach packet", packet))
}

func (c *memoryController) Conversation(ctx *fiber.Ctx) error {
	userId, err := athleteID(ctx)
	if err != nil {
		return err
	}

	var req dto.ConversationRequest
	if err := bind(ctx, &req); err != nil {
		return err
	}

	bullets, err := c.memoryService.RecordCoachTurn(ctx.Context(), userId, req.UserMessage, req.CoachMessage)
	if err != nil {
		return err
	}
	if bullets == nil {
		bullets = []string{}
	}
	return ctx.JSON(serverutils.SuccessResponse("Conversation recorded", dto.ConversationResponse{Bullets: bullets}))
}
