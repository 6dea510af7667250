package contract

import (
	"context"
	"time"

	"ai-coach-be/internal/entity"
	"ai-coach-be/internal/repository/specification"
	"ai-coach-be/pkg/metrics"

	"github.com/google/uuid"
)

type ActivityRepository interface {
	Create(ctx context.Context, activity *entity.Activity) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Activity, error)
	// SetComputed writes metadata.computed, keeping every other metadata key.
	SetComputed(ctx context.Context, id uuid.UUID, computed metrics.Computed) error
	// AggregateLoad sums stress and moving time over the 7 and 28 days
	// before asOf; the 28-day sums are divided by 4.
	AggregateLoad(ctx context.Context, userId uuid.UUID, asOf time.Time) (metrics.LoadAggregates, error)
}
