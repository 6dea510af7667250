package controller

import (
	"crypto/subtle"

	"ai-coach-be/internal/dto"
	"ai-coach-be/internal/pkg/serverutils"
	"ai-coach-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

const WebhookSecretHeader = "X-Webhook-Secret"

type IWebhookController interface {
	RegisterRoutes(r fiber.Router)
	Activity(ctx *fiber.Ctx) error
}

type webhookController struct {
	activityService service.IActivityService
	planService     service.IPlanService
	secret          string
}

// NewWebhookController builds the provider callback. An empty secret accepts
// every caller.
func NewWebhookController(activityService service.IActivityService, planService service.IPlanService, secret string) IWebhookController {
	return &webhookController{
		activityService: activityService,
		planService:     planService,
		secret:          secret,
	}
}

func (c *webhookController) RegisterRoutes(r fiber.Router) {
	r.Post("/webhooks/activity", c.Activity)
}

func (c *webhookController) Activity(ctx *fiber.Ctx) error {
	if c.secret != "" {
		got := ctx.Get(WebhookSecretHeader)
		if subtle.ConstantTimeCompare([]byte(got), []byte(c.secret)) != 1 {
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid webhook secret")
		}
	}

	var req dto.ActivityWebhookRequest
	if err := bind(ctx, &req); err != nil {
		return err
	}

	if req.Activity.MovingSeconds > 0 {
		if _, err := c.activityService.IngestSynced(ctx.Context(), req.UserId, req.Activity); err != nil {
			return err
		}
	}

	res, err := c.planService.ApplyActivity(ctx.Context(), req.UserId, req.Activity.Date)
	if err != nil {
		return err
	}

	out := dto.ActivityWebhookResponse{}
	if res != nil && res.Plan != nil {
		out.PlanUpdated = true
		out.Version = res.Plan.Meta.Version
	}
	return ctx.JSON(serverutils.SuccessResponse("Activity processed", out))
}
