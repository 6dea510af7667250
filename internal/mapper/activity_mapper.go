package mapper

import (
	"ai-coach-be/internal/entity"
	"ai-coach-be/internal/model"

	"gorm.io/datatypes"
)

type ActivityMapper struct{}

func NewActivityMapper() *ActivityMapper {
	return &ActivityMapper{}
}

func (m *ActivityMapper) ToEntity(a *model.Activity) *entity.Activity {
	if a == nil {
		return nil
	}
	meta := map[string]interface{}(a.Metadata)
	if meta == nil {
		meta = make(map[string]interface{})
	}
	return &entity.Activity{
		Id:               a.Id,
		UserId:           a.UserId,
		ExternalId:       a.ExternalId,
		Source:           a.Source,
		Sport:            a.Sport,
		Name:             a.Name,
		StartDate:        a.StartDate,
		MovingTime:       a.MovingTime,
		Distance:         a.Distance,
		AveragePower:     a.AveragePower,
		AverageHeartrate: a.AverageHeartrate,
		Kilojoules:       a.Kilojoules,
		Metadata:         meta,
		CreatedAt:        a.CreatedAt,
	}
}

func (m *ActivityMapper) ToModel(a *entity.Activity) *model.Activity {
	if a == nil {
		return nil
	}
	meta := datatypes.JSONMap(a.Metadata)
	if meta == nil {
		meta = datatypes.JSONMap{}
	}
	return &model.Activity{
		Id:               a.Id,
		UserId:           a.UserId,
		ExternalId:       a.ExternalId,
		Source:           a.Source,
		Sport:            a.Sport,
		Name:             a.Name,
		StartDate:        a.StartDate,
		MovingTime:       a.MovingTime,
		Distance:         a.Distance,
		AveragePower:     a.AveragePower,
		AverageHeartrate: a.AverageHeartrate,
		Kilojoules:       a.Kilojoules,
		Metadata:         meta,
		CreatedAt:        a.CreatedAt,
	}
}

func (m *ActivityMapper) ToEntities(activities []*model.Activity) []*entity.Activity {
	entities := make([]*entity.Activity, len(activities))
	for i, a := range activities {
		entities[i] = m.ToEntity(a)
	}
	return entities
}
