package mapper

import (
	"ai-coach-be/internal/entity"
	"ai-coach-be/internal/model"
)

type AthleteMapper struct{}

func NewAthleteMapper() *AthleteMapper {
	return &AthleteMapper{}
}

func (m *AthleteMapper) ToEntity(p *model.AthleteProfile) *entity.AthleteProfile {
	if p == nil {
		return nil
	}
	return &entity.AthleteProfile{
		Id:              p.Id,
		FullName:        p.FullName,
		Email:           p.Email,
		Goals:           []string(p.Goals),
		Sports:          []string(p.Sports),
		ExperienceLevel: p.ExperienceLevel,
		WeeklyVolume:    p.WeeklyVolume,
		FtpWatts:        p.FtpWatts,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}

func (m *AthleteMapper) ToModel(p *entity.AthleteProfile) *model.AthleteProfile {
	if p == nil {
		return nil
	}
	return &model.AthleteProfile{
		Id:              p.Id,
		FullName:        p.FullName,
		Email:           p.Email,
		Goals:           p.Goals,
		Sports:          p.Sports,
		ExperienceLevel: p.ExperienceLevel,
		WeeklyVolume:    p.WeeklyVolume,
		FtpWatts:        p.FtpWatts,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}
