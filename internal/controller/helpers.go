package controller

import (
	"ai-coach-be/internal/pkg/serverutils"
	"ai-coach-be/internal/service"
	"ai-coach-be/pkg/plandoc"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// ErrorMappings translates domain errors into HTTP statuses.
func ErrorMappings() []serverutils.ErrorStatus {
	return []serverutils.ErrorStatus{
		{Err: service.ErrNoActivePlan, Status: fiber.StatusNotFound},
		{Err: service.ErrVersionNotFound, Status: fiber.StatusNotFound},
		{Err: service.ErrSessionNotFound, Status: fiber.StatusNotFound},
		{Err: plandoc.ErrDuplicateSessionID, Status: fiber.StatusUnprocessableEntity},
		{Err: service.ErrConflict, Status: fiber.StatusConflict},
		{Err: service.ErrInvalidWeekStart, Status: fiber.StatusBadRequest},
		{Err: plandoc.ErrInvalidDate, Status: fiber.StatusBadRequest},
	}
}

// athleteID reads the id the JWT middleware stored in locals.
func athleteID(ctx *fiber.Ctx) (uuid.UUID, error) {
	userIdStr, ok := ctx.Locals("user_id").(string)
	if !ok {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
	}
	userId, err := uuid.Parse(userIdStr)
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "Invalid user ID")
	}
	return userId, nil
}

// bind decodes the body into req and validates it.
func bind(ctx *fiber.Ctx, req interface{}) error {
	if err := ctx.BodyParser(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	return serverutils.ValidateRequest(req)
}
