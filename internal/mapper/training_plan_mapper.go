package mapper

import (
	"ai-coach-be/internal/entity"
	"ai-coach-be/internal/model"
	"ai-coach-be/pkg/plandoc"

	"gorm.io/datatypes"
)

type TrainingPlanMapper struct{}

func NewTrainingPlanMapper() *TrainingPlanMapper {
	return &TrainingPlanMapper{}
}

// ToEntity stamps the row's version onto the document so the two never
// disagree.
func (m *TrainingPlanMapper) ToEntity(p *model.TrainingPlan) *entity.TrainingPlan {
	if p == nil {
		return nil
	}
	doc := p.Document.Data()
	doc.Meta.Version = p.Version
	return &entity.TrainingPlan{
		Id:        p.Id,
		UserId:    p.UserId,
		Version:   p.Version,
		WeekStart: p.WeekStart,
		IsActive:  p.IsActive,
		PlanType:  p.PlanType,
		Reason:    p.Reason,
		Document:  &doc,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func (m *TrainingPlanMapper) ToModel(p *entity.TrainingPlan) *model.TrainingPlan {
	if p == nil {
		return nil
	}
	var doc plandoc.Plan
	if p.Document != nil {
		doc = *p.Document.Clone()
	}
	doc.Meta.Version = p.Version
	return &model.TrainingPlan{
		Id:        p.Id,
		UserId:    p.UserId,
		Version:   p.Version,
		WeekStart: p.WeekStart,
		IsActive:  p.IsActive,
		PlanType:  p.PlanType,
		Reason:    p.Reason,
		Document:  datatypes.NewJSONType(doc),
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func (m *TrainingPlanMapper) ToEntities(plans []*model.TrainingPlan) []*entity.TrainingPlan {
	entities := make([]*entity.TrainingPlan, len(plans))
	for i, p := range plans {
		entities[i] = m.ToEntity(p)
	}
	return entities
}
