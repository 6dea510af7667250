package implementation

import (
	"context"
	"errors"

	"ai-coach-be/internal/entity"
	"ai-coach-be/internal/mapper"
	"ai-coach-be/internal/model"
	"ai-coach-be/internal/repository/contract"
	"ai-coach-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TrainingPlanRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.TrainingPlanMapper
}

func NewTrainingPlanRepository(db *gorm.DB) contract.TrainingPlanRepository {
	return &TrainingPlanRepositoryImpl{
		db:     db,
		mapper: mapper.NewTrainingPlanMapper(),
	}
}

// LockAthlete takes a transaction-scoped advisory lock keyed by the athlete
// id. Outside a transaction the lock is released immediately, so callers
// must Begin first.
func (r *TrainingPlanRepositoryImpl) LockAthlete(ctx context.Context, userId uuid.UUID) error {
	return r.db.WithContext(ctx).Exec(`SELECT pg_advisory_xact_lock(hashtextextended(?, 0))`, userId.String()).Error
}

func (r *TrainingPlanRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.TrainingPlan, error) {
	var m model.TrainingPlan
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *TrainingPlanRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.TrainingPlan, error) {
	var models []*model.TrainingPlan
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *TrainingPlanRepositoryImpl) MaxVersion(ctx context.Context, userId uuid.UUID) (int, error) {
	var max int
	err := r.db.WithContext(ctx).Model(&model.TrainingPlan{}).
		Where("user_id = ?", userId).
		Select("COALESCE(MAX(version), 0)").
		Scan(&max).Error
	return max, err
}

func (r *TrainingPlanRepositoryImpl) DeactivateActive(ctx context.Context, userId uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.TrainingPlan{}).
		Where("user_id = ? AND is_active = ?", userId, true).
		Update("is_active", false).Error
}

func (r *TrainingPlanRepositoryImpl) Create(ctx context.Context, plan *entity.TrainingPlan) error {
	m := r.mapper.ToModel(plan)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return translateError(err)
	}
	*plan = *r.mapper.ToEntity(m)
	return nil
}
