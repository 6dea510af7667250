package service

import (
	"context"
	"time"

	"ai-coach-be/internal/dto"
	"ai-coach-be/internal/repository/unitofwork"
	"ai-coach-be/pkg/metrics"

	"github.com/google/uuid"
)

type IReadinessService interface {
	Evaluate(ctx context.Context, userId uuid.UUID, asOf time.Time) (*dto.ReadinessResponse, error)
}

type readinessService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewReadinessService(uowFactory unitofwork.RepositoryFactory) IReadinessService {
	return &readinessService{uowFactory: uowFactory}
}

func (s *readinessService) Evaluate(ctx context.Context, userId uuid.UUID, asOf time.Time) (*dto.ReadinessResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	agg, err := uow.ActivityRepository().AggregateLoad(ctx, userId, asOf)
	if err != nil {
		return nil, err
	}

	r := metrics.ComputeReadiness(agg)
	return &dto.ReadinessResponse{
		Score:  r.Score,
		Ratio:  r.Ratio,
		Flag:   r.Flag,
		Basis:  r.Basis,
		Inputs: agg,
	}, nil
}
