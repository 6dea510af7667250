package implementation

import (
	"context"

	"ai-coach-be/internal/entity"
	"ai-coach-be/internal/mapper"
	"ai-coach-be/internal/model"
	"ai-coach-be/internal/repository/contract"
	"ai-coach-be/internal/repository/scope"
	"ai-coach-be/internal/repository/specification"

	"gorm.io/gorm"
)

type DecisionLogRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.MemoryMapper
}

func NewDecisionLogRepository(db *gorm.DB) contract.DecisionLogRepository {
	return &DecisionLogRepositoryImpl{
		db:     db,
		mapper: mapper.NewMemoryMapper(),
	}
}

func (r *DecisionLogRepositoryImpl) Create(ctx context.Context, entry *entity.DecisionLog) error {
	m := r.mapper.DecisionLogToModel(entry)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*entry = *r.mapper.DecisionLogToEntity(m)
	return nil
}

func (r *DecisionLogRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.DecisionLog, error) {
	var models []*model.DecisionLog
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Scopes(scope.OrderByAtDesc).Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.DecisionLogsToEntities(models), nil
}
