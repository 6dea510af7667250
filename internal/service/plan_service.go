package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ai-coach-be/internal/dto"
	"ai-coach-be/internal/entity"
	"ai-coach-be/internal/events"
	"ai-coach-be/internal/pkg/logger"
	"ai-coach-be/internal/repository/specification"
	"ai-coach-be/internal/repository/unitofwork"
	"ai-coach-be/pkg/plandoc"

	"github.com/google/uuid"
)

type IPlanService interface {
	GetActive(ctx context.Context, userId uuid.UUID) (*plandoc.Plan, error)
	History(ctx context.Context, userId uuid.UUID) ([]*dto.PlanVersionResponse, error)
	ApplyDraft(ctx context.Context, userId uuid.UUID, draft *plandoc.Plan) (*dto.PlanWriteResponse, error)
	Accept(ctx context.Context, userId uuid.UUID, candidate *plandoc.Plan) (*dto.PlanWriteResponse, error)
	Revert(ctx context.Context, userId uuid.UUID, version int) (*dto.PlanWriteResponse, error)
	ToggleNutrition(ctx context.Context, userId uuid.UUID, enabled bool) (*dto.PlanWriteResponse, error)
	UpsertSession(ctx context.Context, userId uuid.UUID, session plandoc.Session) (*dto.PlanWriteResponse, error)
	CompleteSession(ctx context.Context, userId uuid.UUID, sessionId string) (*dto.PlanWriteResponse, error)
	MoveSession(ctx context.Context, userId uuid.UUID, sessionId, newDate string) (*dto.PlanWriteResponse, error)
	ApplyActivity(ctx context.Context, userId uuid.UUID, activityDate string) (*dto.PlanWriteResponse, error)
	DiffVersions(ctx context.Context, userId uuid.UUID, from, to int) (*plandoc.PlanDiff, error)
	Diff(prev, next *plandoc.Plan) (*plandoc.PlanDiff, error)
}

type planService struct {
	uowFactory unitofwork.RepositoryFactory
	publisher  IPublisherService
	logger     logger.ILogger
	now        func() time.Time
}

func NewPlanService(
	uowFactory unitofwork.RepositoryFactory,
	publisher IPublisherService,
	logger logger.ILogger,
) IPlanService {
	return &planService{
		uowFactory: uowFactory,
		publisher:  publisher,
		logger:     logger,
		now:        time.Now,
	}
}

// planWrite describes one version bump. mutate receives a clone of the
// active document (nil when there is none) and returns the next document
// plus the minimum version it must carry.
type planWrite struct {
	reason        string
	requireActive bool
	mutate        func(ctx context.Context, tx unitofwork.UnitOfWork, active *plandoc.Plan) (*plandoc.Plan, int, error)
}

// write is the only path that changes a plan: lock the athlete, read the
// active version, deactivate it, insert the successor, commit, then notify.
func (s *planService) write(ctx context.Context, userId uuid.UUID, w planWrite) (*dto.PlanWriteResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	repo := uow.TrainingPlanRepository()
	if err := repo.LockAthlete(ctx, userId); err != nil {
		return nil, fmt.Errorf("lock athlete: %w", err)
	}

	active, err := repo.FindOne(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.ActivePlan{},
	)
	if err != nil {
		return nil, err
	}
	if active == nil && w.requireActive {
		return nil, ErrNoActivePlan
	}

	prev := &plandoc.Plan{Weeks: []plandoc.Week{}}
	var working *plandoc.Plan
	if active != nil {
		prev = active.Document
		working = active.Document.Clone()
	}

	next, minVersion, err := w.mutate(ctx, uow, working)
	if err != nil {
		return nil, err
	}

	maxVersion, err := repo.MaxVersion(ctx, userId)
	if err != nil {
		return nil, err
	}
	next.Meta.Version = max(minVersion, maxVersion+1)
	next.AthleteID = userId.String()
	if next.ID == "" {
		next.ID = uuid.NewString()
	}
	if next.Meta.GeneratedAt == "" {
		next.Meta.GeneratedAt = s.now().UTC().Format(time.RFC3339)
	}

	diff, err := plandoc.Diff(prev, next)
	if err != nil {
		return nil, err
	}

	if err := repo.DeactivateActive(ctx, userId); err != nil {
		return nil, err
	}
	record := &entity.TrainingPlan{
		Id:        uuid.New(),
		UserId:    userId,
		Version:   next.Meta.Version,
		WeekStart: next.WeekStart,
		IsActive:  true,
		PlanType:  "weekly",
		Reason:    w.reason,
		Document:  next,
	}
	if err := repo.Create(ctx, record); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.logger.Info("PlanService", "Plan version written", map[string]interface{}{
		"athlete_id":   userId,
		"version_from": diff.VersionFrom,
		"version_to":   diff.VersionTo,
		"reason":       w.reason,
		"changes":      len(diff.Changes),
	})
	s.notify(ctx, userId, w.reason, next, diff)

	return &dto.PlanWriteResponse{Plan: next, Diff: diff}, nil
}

func (s *planService) notify(ctx context.Context, userId uuid.UUID, reason string, next *plandoc.Plan, diff plandoc.PlanDiff) {
	if s.publisher == nil {
		return
	}
	evt := events.PlanUpdated{
		AthleteID:   userId,
		VersionFrom: diff.VersionFrom,
		VersionTo:   diff.VersionTo,
		Reason:      reason,
		Diff:        diff,
		Range:       events.RangeOf(next),
		OccurredAt:  s.now().UTC(),
	}
	// The version is committed; a lost notification only delays cache refresh.
	if err := s.publisher.PublishPlanUpdated(context.WithoutCancel(ctx), evt); err != nil {
		s.logger.Error("PlanService", "Failed to publish plan updated", map[string]interface{}{
			"athlete_id": userId,
			"version":    diff.VersionTo,
			"error":      err.Error(),
		})
	}
}

func (s *planService) GetActive(ctx context.Context, userId uuid.UUID) (*plandoc.Plan, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	active, err := uow.TrainingPlanRepository().FindOne(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.ActivePlan{},
	)
	if err != nil {
		return nil, err
	}
	if active == nil {
		return nil, ErrNoActivePlan
	}
	return active.Document, nil
}

func (s *planService) History(ctx context.Context, userId uuid.UUID) ([]*dto.PlanVersionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	plans, err := uow.TrainingPlanRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "version", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	result := make([]*dto.PlanVersionResponse, 0, len(plans))
	for _, p := range plans {
		result = append(result, &dto.PlanVersionResponse{
			Version:   p.Version,
			WeekStart: p.WeekStart,
			IsActive:  p.IsActive,
			Reason:    p.Reason,
			CreatedAt: p.CreatedAt,
		})
	}
	return result, nil
}

func (s *planService) ApplyDraft(ctx context.Context, userId uuid.UUID, draft *plandoc.Plan) (*dto.PlanWriteResponse, error) {
	if draft == nil {
		return nil, fmt.Errorf("draft plan is required")
	}
	return s.write(ctx, userId, planWrite{
		reason: entity.PlanReasonCoachEdit,
		mutate: func(_ context.Context, _ unitofwork.UnitOfWork, active *plandoc.Plan) (*plandoc.Plan, int, error) {
			next := draft.Clone()
			next.AddSource(plandoc.SourceCoachEdit)
			if active == nil {
				return next, max(draft.Meta.Version, 1), nil
			}
			return next, active.Meta.Version + 1, nil
		},
	})
}

// Accept seals the active plan (or the given candidate) as a new version.
func (s *planService) Accept(ctx context.Context, userId uuid.UUID, candidate *plandoc.Plan) (*dto.PlanWriteResponse, error) {
	return s.write(ctx, userId, planWrite{
		reason:        entity.PlanReasonAccept,
		requireActive: true,
		mutate: func(_ context.Context, _ unitofwork.UnitOfWork, active *plandoc.Plan) (*plandoc.Plan, int, error) {
			next := active
			if candidate != nil {
				next = candidate.Clone()
			}
			return next, active.Meta.Version + 1, nil
		},
	})
}

// Revert restores the content of a stored version under a new, higher
// version number.
func (s *planService) Revert(ctx context.Context, userId uuid.UUID, version int) (*dto.PlanWriteResponse, error) {
	return s.write(ctx, userId, planWrite{
		reason: entity.PlanReasonRevert,
		mutate: func(ctx context.Context, tx unitofwork.UnitOfWork, active *plandoc.Plan) (*plandoc.Plan, int, error) {
			target, err := tx.TrainingPlanRepository().FindOne(ctx,
				specification.UserOwnedBy{UserID: userId},
				specification.ByVersion{Version: version},
			)
			if err != nil {
				return nil, 0, err
			}
			if target == nil {
				return nil, 0, fmt.Errorf("%w: %d", ErrVersionNotFound, version)
			}
			current := 0
			if active != nil {
				current = active.Meta.Version
			}
			return target.Document.Clone(), max(current, target.Version) + 1, nil
		},
	})
}

func (s *planService) ToggleNutrition(ctx context.Context, userId uuid.UUID, enabled bool) (*dto.PlanWriteResponse, error) {
	return s.edit(ctx, userId, entity.PlanReasonNutrition, func(p *plandoc.Plan) error {
		p.SetNutrition(enabled)
		return nil
	})
}

func (s *planService) UpsertSession(ctx context.Context, userId uuid.UUID, session plandoc.Session) (*dto.PlanWriteResponse, error) {
	if session.ID == "" {
		session.ID = uuid.NewString()
	}
	return s.edit(ctx, userId, entity.PlanReasonSession, func(p *plandoc.Plan) error {
		return p.UpsertSession(session)
	})
}

func (s *planService) CompleteSession(ctx context.Context, userId uuid.UUID, sessionId string) (*dto.PlanWriteResponse, error) {
	return s.edit(ctx, userId, entity.PlanReasonSession, func(p *plandoc.Plan) error {
		return p.SetSessionStatus(sessionId, plandoc.StatusCompleted)
	})
}

func (s *planService) MoveSession(ctx context.Context, userId uuid.UUID, sessionId, newDate string) (*dto.PlanWriteResponse, error) {
	return s.edit(ctx, userId, entity.PlanReasonSession, func(p *plandoc.Plan) error {
		return p.MoveSession(sessionId, newDate)
	})
}

// ApplyActivity marks the day's sessions completed. Without an active plan
// there is nothing to adapt and it returns nil, nil.
func (s *planService) ApplyActivity(ctx context.Context, userId uuid.UUID, activityDate string) (*dto.PlanWriteResponse, error) {
	res, err := s.edit(ctx, userId, entity.PlanReasonActivity, func(p *plandoc.Plan) error {
		p.MarkCompletedOn(activityDate)
		p.AddSource(plandoc.SourceStravaSync)
		return nil
	})
	if errors.Is(err, ErrNoActivePlan) {
		return nil, nil
	}
	return res, err
}

// edit applies an in-place change to the active plan and bumps its version.
func (s *planService) edit(ctx context.Context, userId uuid.UUID, reason string, change func(p *plandoc.Plan) error) (*dto.PlanWriteResponse, error) {
	return s.write(ctx, userId, planWrite{
		reason:        reason,
		requireActive: true,
		mutate: func(_ context.Context, _ unitofwork.UnitOfWork, active *plandoc.Plan) (*plandoc.Plan, int, error) {
			if err := change(active); err != nil {
				return nil, 0, err
			}
			return active, active.Meta.Version + 1, nil
		},
	})
}

func (s *planService) DiffVersions(ctx context.Context, userId uuid.UUID, from, to int) (*plandoc.PlanDiff, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	repo := uow.TrainingPlanRepository()

	load := func(version int) (*plandoc.Plan, error) {
		if version == 0 {
			return &plandoc.Plan{Weeks: []plandoc.Week{}}, nil
		}
		p, err := repo.FindOne(ctx,
			specification.UserOwnedBy{UserID: userId},
			specification.ByVersion{Version: version},
		)
		if err != nil {
			return nil, err
		}
		if p == nil {
			return nil, fmt.Errorf("%w: %d", ErrVersionNotFound, version)
		}
		return p.Document, nil
	}

	prev, err := load(from)
	if err != nil {
		return nil, err
	}
	next, err := load(to)
	if err != nil {
		return nil, err
	}
	return s.Diff(prev, next)
}

func (s *planService) Diff(prev, next *plandoc.Plan) (*plandoc.PlanDiff, error) {
	diff, err := plandoc.Diff(prev, next)
	if err != nil {
		return nil, err
	}
	return &diff, nil
}
