package contract

import (
	"context"

	"ai-coach-be/internal/entity"
	"ai-coach-be/internal/repository/specification"
)

type AthleteRepository interface {
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.AthleteProfile, error)
	Save(ctx context.Context, profile *entity.AthleteProfile) error
}
