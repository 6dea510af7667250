package implementation

import (
	"context"
	"errors"

	"ai-coach-be/internal/entity"
	"ai-coach-be/internal/mapper"
	"ai-coach-be/internal/model"
	"ai-coach-be/internal/repository/contract"
	"ai-coach-be/internal/repository/specification"

	"gorm.io/gorm"
)

type AthleteRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.AthleteMapper
}

func NewAthleteRepository(db *gorm.DB) contract.AthleteRepository {
	return &AthleteRepositoryImpl{
		db:     db,
		mapper: mapper.NewAthleteMapper(),
	}
}

func (r *AthleteRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.AthleteProfile, error) {
	var m model.AthleteProfile
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *AthleteRepositoryImpl) Save(ctx context.Context, profile *entity.AthleteProfile) error {
	m := r.mapper.ToModel(profile)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*profile = *r.mapper.ToEntity(m)
	return nil
}
