package implementation

import (
	"context"
	"encoding/json"
	"time"

	"ai-coach-be/internal/entity"
	"ai-coach-be/internal/mapper"
	"ai-coach-be/internal/model"
	"ai-coach-be/internal/repository/contract"
	"ai-coach-be/internal/repository/specification"
	"ai-coach-be/pkg/metrics"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ActivityRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ActivityMapper
}

func NewActivityRepository(db *gorm.DB) contract.ActivityRepository {
	return &ActivityRepositoryImpl{
		db:     db,
		mapper: mapper.NewActivityMapper(),
	}
}

func (r *ActivityRepositoryImpl) Create(ctx context.Context, activity *entity.Activity) error {
	m := r.mapper.ToModel(activity)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return translateError(err)
	}
	*activity = *r.mapper.ToEntity(m)
	return nil
}

func (r *ActivityRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Activity, error) {
	var models []*model.Activity
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *ActivityRepositoryImpl) SetComputed(ctx context.Context, id uuid.UUID, computed metrics.Computed) error {
	payload, err := json.Marshal(computed)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Exec(`
		UPDATE activities
		SET metadata = COALESCE(metadata, '{}'::jsonb) || jsonb_build_object('computed', ?::jsonb)
		WHERE id = ?
	`, string(payload), id).Error
}

func (r *ActivityRepositoryImpl) AggregateLoad(ctx context.Context, userId uuid.UUID, asOf time.Time) (metrics.LoadAggregates, error) {
	var row struct {
		A7     float64 `gorm:"column:a7"`
		A7Secs float64 `gorm:"column:a7_secs"`
		C7     float64 `gorm:"column:c7"`
		C7Secs float64 `gorm:"column:c7_secs"`
	}
	err := r.db.WithContext(ctx).Raw(`
		WITH a AS (
			SELECT COALESCE(SUM((metadata->'computed'->>'stress')::float), 0) AS a7,
			       COALESCE(SUM(COALESCE(moving_time, 0)), 0) AS a7_secs
			FROM activities
			WHERE user_id = @user AND start_date >= @as_of::timestamptz - interval '7 days' AND start_date <= @as_of
		), c AS (
			SELECT COALESCE(SUM((metadata->'computed'->>'stress')::float), 0) / 4.0 AS c7,
			       COALESCE(SUM(COALESCE(moving_time, 0)), 0) / 4.0 AS c7_secs
			FROM activities
			WHERE user_id = @user AND start_date >= @as_of::timestamptz - interval '28 days' AND start_date <= @as_of
		)
		SELECT a.a7, a.a7_secs, c.c7, c.c7_secs FROM a, c
	`, map[string]interface{}{"user": userId, "as_of": asOf}).Scan(&row).Error
	if err != nil {
		return metrics.LoadAggregates{}, err
	}
	return metrics.LoadAggregates{
		Acute7dStress:            row.A7,
		Chronic28dStressPerWeek:  row.C7,
		Acute7dSeconds:           row.A7Secs,
		Chronic28dSecondsPerWeek: row.C7Secs,
	}, nil
}
