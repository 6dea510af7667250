package contract

import (
	"context"

	"ai-coach-be/internal/entity"
	"ai-coach-be/internal/repository/specification"

	"github.com/google/uuid"
)

type TrainingPlanRepository interface {
	// LockAthlete serializes plan writes for one athlete until the
	// surrounding transaction ends.
	LockAthlete(ctx context.Context, userId uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.TrainingPlan, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.TrainingPlan, error)
	MaxVersion(ctx context.Context, userId uuid.UUID) (int, error)
	DeactivateActive(ctx context.Context, userId uuid.UUID) error
	Create(ctx context.Context, plan *entity.TrainingPlan) error
}
