package service

import (
	"context"
	"fmt"
	"time"

	"ai-coach-be/internal/dto"
	"ai-coach-be/internal/entity"
	"ai-coach-be/internal/pkg/logger"
	"ai-coach-be/internal/repository/specification"
	"ai-coach-be/internal/repository/unitofwork"
	"ai-coach-be/pkg/metrics"
	"ai-coach-be/pkg/plandoc"

	"github.com/google/uuid"
)

// BackfillScanLimit is how many recent activities one backfill inspects.
const BackfillScanLimit = 200

type IActivityService interface {
	RecordManualActivity(ctx context.Context, userId uuid.UUID, req *dto.ManualActivityRequest) (*dto.ActivityResponse, error)
	IngestSynced(ctx context.Context, userId uuid.UUID, activity dto.WebhookActivity) (*dto.ActivityResponse, error)
	BackfillComputed(ctx context.Context, userId uuid.UUID) (*dto.BackfillResponse, error)
}

type activityService struct {
	uowFactory      unitofwork.RepositoryFactory
	defaultFtpWatts float64
	logger          logger.ILogger
}

// NewActivityService creates the service. defaultFtpWatts is used when the
// athlete profile has no threshold power; 0 means none.
func NewActivityService(uowFactory unitofwork.RepositoryFactory, defaultFtpWatts float64, logger logger.ILogger) IActivityService {
	return &activityService{
		uowFactory:      uowFactory,
		defaultFtpWatts: defaultFtpWatts,
		logger:          logger,
	}
}

func (s *activityService) thresholdPower(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID) (*float64, error) {
	profile, err := uow.AthleteRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return nil, err
	}
	if profile != nil && profile.FtpWatts != nil && *profile.FtpWatts > 0 {
		return profile.FtpWatts, nil
	}
	if s.defaultFtpWatts > 0 {
		ftp := s.defaultFtpWatts
		return &ftp, nil
	}
	return nil, nil
}

func (s *activityService) RecordManualActivity(ctx context.Context, userId uuid.UUID, req *dto.ManualActivityRequest) (*dto.ActivityResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	ftp, err := s.thresholdPower(ctx, uow, userId)
	if err != nil {
		return nil, err
	}

	computed := metrics.ComputeIntensityAndStress(metrics.StressInput{
		MovingSeconds:  float64(req.MovingSeconds),
		AvgPower:       req.AveragePower,
		ThresholdPower: ftp,
		Zones:          req.Zones,
	})

	metadata := map[string]interface{}{
		"source":   entity.ActivitySourceManual,
		"notes":    req.Notes,
		"computed": computed,
	}
	if req.Zones != nil {
		metadata["zoneSeconds"] = req.Zones
	}

	activity := &entity.Activity{
		Id:           uuid.New(),
		UserId:       userId,
		Source:       entity.ActivitySourceManual,
		Sport:        req.Sport,
		Name:         req.Name,
		StartDate:    req.StartDate,
		MovingTime:   req.MovingSeconds,
		Distance:     req.DistanceM,
		AveragePower: req.AveragePower,
		Kilojoules:   req.WorkKj,
		Metadata:     metadata,
	}
	if err := uow.ActivityRepository().Create(ctx, activity); err != nil {
		return nil, err
	}

	s.logger.Info("ActivityService", "Manual activity recorded", map[string]interface{}{
		"athlete_id":  userId,
		"activity_id": activity.Id,
		"stress":      computed.Stress,
	})

	return &dto.ActivityResponse{
		Id:        activity.Id,
		Sport:     activity.Sport,
		Name:      activity.Name,
		StartDate: activity.StartDate,
		Computed:  &computed,
	}, nil
}

// IngestSynced stores an activity pushed by the activity source. A repeated
// delivery of the same external id returns the stored row.
func (s *activityService) IngestSynced(ctx context.Context, userId uuid.UUID, in dto.WebhookActivity) (*dto.ActivityResponse, error) {
	start, err := parseActivityDate(in.Date)
	if err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	repo := uow.ActivityRepository()

	if in.Id != "" {
		existing, err := repo.FindAll(ctx,
			specification.UserOwnedBy{UserID: userId},
			specification.Filter("external_id", in.Id),
		)
		if err != nil {
			return nil, err
		}
		if len(existing) > 0 {
			a := existing[0]
			c, _ := a.Computed()
			return &dto.ActivityResponse{Id: a.Id, Sport: a.Sport, Name: a.Name, StartDate: a.StartDate, Computed: c}, nil
		}
	}

	ftp, err := s.thresholdPower(ctx, uow, userId)
	if err != nil {
		return nil, err
	}
	computed := metrics.ComputeIntensityAndStress(metrics.StressInput{
		MovingSeconds:  float64(in.MovingSeconds),
		AvgPower:       in.AveragePower,
		ThresholdPower: ftp,
	})

	activity := &entity.Activity{
		Id:           uuid.New(),
		UserId:       userId,
		Source:       entity.ActivitySourceStrava,
		Sport:        in.Sport,
		Name:         in.Name,
		StartDate:    start,
		MovingTime:   in.MovingSeconds,
		AveragePower: in.AveragePower,
		Metadata: map[string]interface{}{
			"source":   entity.ActivitySourceStrava,
			"computed": computed,
		},
	}
	if in.Id != "" {
		id := in.Id
		activity.ExternalId = &id
	}
	if err := repo.Create(ctx, activity); err != nil {
		return nil, err
	}

	return &dto.ActivityResponse{
		Id:        activity.Id,
		Sport:     activity.Sport,
		Name:      activity.Name,
		StartDate: activity.StartDate,
		Computed:  &computed,
	}, nil
}

func (s *activityService) BackfillComputed(ctx context.Context, userId uuid.UUID) (*dto.BackfillResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	ftp, err := s.thresholdPower(ctx, uow, userId)
	if err != nil {
		return nil, err
	}

	activities, err := uow.ActivityRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "start_date", Desc: true},
		specification.Pagination{Limit: BackfillScanLimit},
	)
	if err != nil {
		return nil, err
	}

	res := &dto.BackfillResponse{Scanned: len(activities)}
	for _, a := range activities {
		if _, ok := a.Computed(); ok {
			res.Skipped++
			continue
		}

		computed := metrics.ComputeIntensityAndStress(metrics.StressInput{
			MovingSeconds:  float64(a.MovingTime),
			AvgPower:       a.AveragePower,
			ThresholdPower: ftp,
			Zones:          a.ZoneSeconds(),
		})
		if err := uow.ActivityRepository().SetComputed(ctx, a.Id, computed); err != nil {
			return nil, fmt.Errorf("backfill activity %s: %w", a.Id, err)
		}
		res.Updated++
	}

	s.logger.Info("ActivityService", "Backfill finished", map[string]interface{}{
		"athlete_id": userId,
		"scanned":    res.Scanned,
		"updated":    res.Updated,
		"skipped":    res.Skipped,
	})
	return res, nil
}

func parseActivityDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	return plandoc.ParseDate(s)
}
