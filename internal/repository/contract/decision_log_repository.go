package contract

import (
	"context"

	"ai-coach-be/internal/entity"
	"ai-coach-be/internal/repository/specification"
)

type DecisionLogRepository interface {
	Create(ctx context.Context, entry *entity.DecisionLog) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.DecisionLog, error)
}
