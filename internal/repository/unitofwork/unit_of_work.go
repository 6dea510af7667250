package unitofwork

import (
	"context"

	"ai-coach-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	AthleteRepository() contract.AthleteRepository
	ActivityRepository() contract.ActivityRepository
	TrainingPlanRepository() contract.TrainingPlanRepository
	MemoryRepository() contract.MemoryRepository
	DecisionLogRepository() contract.DecisionLogRepository
}
