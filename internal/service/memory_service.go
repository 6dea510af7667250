package service

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"time"

	"ai-coach-be/internal/dto"
	"ai-coach-be/internal/entity"
	"ai-coach-be/internal/pkg/logger"
	"ai-coach-be/internal/repository/specification"
	"ai-coach-be/internal/repository/unitofwork"
	"ai-coach-be/pkg/compaction"
	"ai-coach-be/pkg/memory"
	"ai-coach-be/pkg/metrics"
	"ai-coach-be/pkg/plandoc"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const (
	DossierMaxBytes = 2 * 1024
	DigestMaxBytes  = 2500
	PacketMaxBytes  = 6 * 1024
	DigestWindow    = 90
	packetWindow    = 7
)

var (
	dossierDropOrder = []compaction.Path{
		{"email"},
		{"goals", "secondary"},
	}
	digestDropOrder = []compaction.Path{
		{"recentFlags"},
		{"loadBySport"},
		{"recentPRs"},
	}
	packetDropOrder = []compaction.Path{
		{"digest", "recentPRs"},
		{"digest", "recentFlags"},
		{"digest", "loadBySport"},
		{"dossier", "goals", "secondary"},
	}
)

type IMemoryService interface {
	BuildDossier(ctx context.Context, userId uuid.UUID) (json.RawMessage, error)
	BuildDigest(ctx context.Context, userId uuid.UUID) (json.RawMessage, error)
	RecordCoachTurn(ctx context.Context, userId uuid.UUID, userMessage, coachMessage string) ([]string, error)
	BuildCoachPacket(ctx context.Context, userId uuid.UUID, weekStart string) (json.RawMessage, error)
	InitMemory(ctx context.Context, userId uuid.UUID) (*dto.InitMemoryResponse, error)
	AppendDecisionLog(ctx context.Context, userId uuid.UUID, actions, messages, rng interface{}) error
}

type memoryService struct {
	uowFactory      unitofwork.RepositoryFactory
	extractor       memory.Extractor
	cache           PacketCache
	defaultFtpWatts float64
	logger          logger.ILogger
	now             func() time.Time
}

// NewMemoryService wires the packet builder. cache may be nil.
func NewMemoryService(
	uowFactory unitofwork.RepositoryFactory,
	extractor memory.Extractor,
	cache PacketCache,
	defaultFtpWatts float64,
	logger logger.ILogger,
) IMemoryService {
	if extractor == nil {
		extractor = memory.NewKeywordExtractor()
	}
	return &memoryService{
		uowFactory:      uowFactory,
		extractor:       extractor,
		cache:           cache,
		defaultFtpWatts: defaultFtpWatts,
		logger:          logger,
		now:             time.Now,
	}
}

func (s *memoryService) compact(userId uuid.UUID, artifact string, v any, maxBytes int, drop []compaction.Path) (json.RawMessage, error) {
	res, err := compaction.TrimToByteBudget(v, maxBytes, drop)
	if err != nil {
		return nil, err
	}
	if !res.Fits {
		s.logger.Warn("MemoryService", "Artifact over byte budget after compaction", map[string]interface{}{
			"athlete_id": userId,
			"artifact":   artifact,
			"bytes":      res.Bytes,
			"max_bytes":  maxBytes,
		})
	}
	return res.Data, nil
}

func (s *memoryService) invalidate(ctx context.Context, userId uuid.UUID) {
	if s.cache != nil {
		s.cache.Invalidate(ctx, userId)
	}
}

func (s *memoryService) BuildDossier(ctx context.Context, userId uuid.UUID) (json.RawMessage, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	profile, err := uow.AthleteRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return nil, err
	}
	plan, err := uow.TrainingPlanRepository().FindOne(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.ActivePlan{},
	)
	if err != nil {
		return nil, err
	}

	dossier := entity.Dossier{
		ID:             userId.String(),
		SportsEmphasis: []string{},
		Constraints:    []plandoc.Injury{},
		LastUpdated:    s.now().UTC().Format(time.RFC3339),
	}
	if profile != nil {
		dossier.Name = nonEmpty(profile.FullName)
		dossier.Email = nonEmpty(profile.Email)
		dossier.WeeklyHoursTarget = profile.WeeklyVolume
		if len(profile.Sports) > 0 {
			dossier.SportsEmphasis = profile.Sports
		}
		if len(profile.Goals) > 0 {
			dossier.Goals = &entity.DossierGoals{
				Primary:   nonEmpty(profile.Goals[0]),
				Secondary: append([]string{}, profile.Goals[1:]...),
			}
		}
		dossier.Thresholds.FtpWatts = profile.FtpWatts
	}
	if plan != nil && plan.Document != nil {
		if injuries := plan.Document.ActiveInjuries(); len(injuries) > 0 {
			dossier.Constraints = injuries
		}
		if len(plan.Document.Meta.Experience) > 0 {
			dossier.Experience = make(map[plandoc.Sport]string, len(plan.Document.Meta.Experience))
			for sport, level := range plan.Document.Meta.Experience {
				dossier.Experience[sport] = string(level)
			}
		}
	}

	data, err := s.compact(userId, "dossier", dossier, DossierMaxBytes, dossierDropOrder)
	if err != nil {
		return nil, err
	}
	if err := uow.MemoryRepository().UpsertDossier(ctx, userId, data); err != nil {
		return nil, err
	}
	s.invalidate(ctx, userId)
	return data, nil
}

// BuildDigest folds the last 90 calendar days, today included, through the
// load model one day at a time. Days without activities count as zero.
func (s *memoryService) BuildDigest(ctx context.Context, userId uuid.UUID) (json.RawMessage, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	now := s.now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	first := today.AddDate(0, 0, -(DigestWindow - 1))

	activities, err := uow.ActivityRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.StartedBetween{From: first, To: today.AddDate(0, 0, 1)},
		specification.OrderBy{Field: "start_date"},
	)
	if err != nil {
		return nil, err
	}

	var ftp *float64
	if profile, err := uow.AthleteRepository().FindOne(ctx, specification.ByID{ID: userId}); err != nil {
		return nil, err
	} else if profile != nil && profile.FtpWatts != nil && *profile.FtpWatts > 0 {
		ftp = profile.FtpWatts
	} else if s.defaultFtpWatts > 0 {
		v := s.defaultFtpWatts
		ftp = &v
	}

	dailyStress := make([]float64, DigestWindow)
	dailySeconds := make([]float64, DigestWindow)
	loadBySport := make(map[string]float64)
	prs := make(map[string]entity.PersonalRecord)

	for _, a := range activities {
		day := int(a.StartDate.UTC().Sub(first).Hours() / 24)
		if day < 0 || day >= DigestWindow {
			continue
		}

		stress := 0.0
		if c, ok := a.Computed(); ok {
			stress = c.Stress
		} else {
			stress = metrics.ComputeIntensityAndStress(metrics.StressInput{
				MovingSeconds:  float64(a.MovingTime),
				AvgPower:       a.AveragePower,
				ThresholdPower: ftp,
				Zones:          a.ZoneSeconds(),
			}).Stress
		}

		dailyStress[day] += stress
		dailySeconds[day] += float64(a.MovingTime)
		sport := a.Sport
		if sport == "" {
			sport = "other"
		}
		loadBySport[sport] += stress
		trackRecords(prs, sport, a)
	}

	load := metrics.FoldRollingLoad(dailyStress)
	last7 := dailyStress[DigestWindow-7:]
	readiness := metrics.ComputeReadiness(metrics.LoadAggregates{
		Acute7dStress:            sum(last7),
		Chronic28dStressPerWeek:  sum(dailyStress[DigestWindow-28:]) / 4,
		Acute7dSeconds:           sum(dailySeconds[DigestWindow-7:]),
		Chronic28dSecondsPerWeek: sum(dailySeconds[DigestWindow-28:]) / 4,
	})

	for sport, v := range loadBySport {
		loadBySport[sport] = metrics.Round1(v)
	}

	digest := entity.Digest{
		Chronic:     load.Chronic,
		Acute:       load.Acute,
		TSB:         load.TSB,
		Stress7d:    metrics.Round1(sum(last7)),
		Stress28d:   metrics.Round1(sum(dailyStress[DigestWindow-28:])),
		Stress90d:   metrics.Round1(sum(dailyStress)),
		Monotony:    metrics.Monotony(last7),
		Strain:      metrics.Strain(last7),
		LoadBySport: loadBySport,
		RecentPRs:   sortedRecords(prs),
		RecentFlags: &entity.DigestFlags{
			Readiness: readiness.Flag,
			Ratio:     readiness.Ratio,
			Basis:     readiness.Basis,
		},
		GeneratedAt: now.Format(time.RFC3339),
	}

	data, err := s.compact(userId, "digest", digest, DigestMaxBytes, digestDropOrder)
	if err != nil {
		return nil, err
	}
	if err := uow.MemoryRepository().UpsertDigest(ctx, userId, data); err != nil {
		return nil, err
	}
	s.invalidate(ctx, userId)
	return data, nil
}

func trackRecords(prs map[string]entity.PersonalRecord, sport string, a *entity.Activity) {
	date := plandoc.FormatDate(a.StartDate)
	key := sport + "|" + entity.RecordLongestMovingTime
	if cur, ok := prs[key]; !ok || float64(a.MovingTime) > cur.Value {
		if a.MovingTime > 0 {
			prs[key] = entity.PersonalRecord{
				Sport: sport, Kind: entity.RecordLongestMovingTime,
				Value: float64(a.MovingTime), Date: date, ActivityID: a.Id.String(),
			}
		}
	}
	if a.AveragePower == nil || *a.AveragePower <= 0 {
		return
	}
	key = sport + "|" + entity.RecordBestAveragePower
	if cur, ok := prs[key]; !ok || *a.AveragePower > cur.Value {
		prs[key] = entity.PersonalRecord{
			Sport: sport, Kind: entity.RecordBestAveragePower,
			Value: *a.AveragePower, Date: date, ActivityID: a.Id.String(),
		}
	}
}

func sortedRecords(prs map[string]entity.PersonalRecord) []entity.PersonalRecord {
	out := make([]entity.PersonalRecord, 0, len(prs))
	for _, pr := range prs {
		out = append(out, pr)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Sport != out[j].Sport {
			return out[i].Sport < out[j].Sport
		}
		return out[i].Kind < out[j].Kind
	})
	return out
}

func (s *memoryService) RecordCoachTurn(ctx context.Context, userId uuid.UUID, userMessage, coachMessage string) ([]string, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	repo := uow.MemoryRepository()

	existing, err := repo.FindConversation(ctx, userId)
	if err != nil {
		return nil, err
	}
	var bullets []string
	if existing != nil {
		bullets = existing.Bullets
	}

	candidates := s.extractor.Extract(strings.TrimSpace(userMessage + " " + coachMessage))
	merged := memory.MergeBullets(bullets, candidates)
	if err := repo.UpsertConversation(ctx, userId, merged); err != nil {
		return nil, err
	}
	s.invalidate(ctx, userId)

	entry := decisionEntry{
		messages: map[string]string{"user": userMessage, "coach": coachMessage},
	}
	if len(candidates) > 0 {
		entry.actions = []ConversationAction{{Type: "conversation_memory", Bullets: candidates}}
	}
	if err := appendDecisionLog(ctx, s.uowFactory, userId, entry, s.now().UTC()); err != nil {
		s.logger.Error("MemoryService", "Failed to append decision log", map[string]interface{}{
			"athlete_id": userId,
			"error":      err.Error(),
		})
	}
	return merged, nil
}

type planWindow struct {
	WeekStart string            `json:"weekStart"`
	Sessions  []plandoc.Session `json:"sessions"`
}

type coachPacket struct {
	Dossier      json.RawMessage `json:"dossier"`
	Digest       json.RawMessage `json:"digest"`
	PlanWindow   planWindow      `json:"planWindow"`
	Conversation []string        `json:"conversation"`
}

func (s *memoryService) BuildCoachPacket(ctx context.Context, userId uuid.UUID, weekStart string) (json.RawMessage, error) {
	start, err := plandoc.ParseDate(weekStart)
	if err != nil || len(weekStart) != len("2006-01-02") {
		return nil, ErrInvalidWeekStart
	}
	var gen uint64
	if s.cache != nil {
		if packet, ok := s.cache.Get(userId, weekStart); ok {
			return packet, nil
		}
		gen = s.cache.Generation(userId)
	}

	var (
		dossier, digest *entity.MemoryRecord
		conversation    *entity.ConversationMemory
		plan            *entity.TrainingPlan
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		dossier, err = s.uowFactory.NewUnitOfWork(gctx).MemoryRepository().FindDossier(gctx, userId)
		return err
	})
	g.Go(func() (err error) {
		digest, err = s.uowFactory.NewUnitOfWork(gctx).MemoryRepository().FindDigest(gctx, userId)
		return err
	})
	g.Go(func() (err error) {
		conversation, err = s.uowFactory.NewUnitOfWork(gctx).MemoryRepository().FindConversation(gctx, userId)
		return err
	})
	g.Go(func() (err error) {
		plan, err = s.uowFactory.NewUnitOfWork(gctx).TrainingPlanRepository().FindOne(gctx,
			specification.UserOwnedBy{UserID: userId},
			specification.ActivePlan{},
		)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	packet := coachPacket{
		PlanWindow:   planWindow{WeekStart: weekStart, Sessions: []plandoc.Session{}},
		Conversation: []string{},
	}
	if dossier != nil {
		packet.Dossier = dossier.Data
	}
	if digest != nil {
		packet.Digest = digest.Data
	}
	if conversation != nil && conversation.Bullets != nil {
		packet.Conversation = conversation.Bullets
	}
	if plan != nil && plan.Document != nil {
		packet.PlanWindow.Sessions = plan.Document.SessionsBetween(start, packetWindow)
	}

	data, err := s.compact(userId, "packet", packet, PacketMaxBytes, packetDropOrder)
	if err != nil {
		return nil, err
	}
	if s.cache != nil && !s.cache.SetIfGeneration(userId, weekStart, gen, data) {
		s.logger.Debug("MemoryService", "Packet invalidated while building, not cached", map[string]interface{}{
			"user_id":    userId,
			"week_start": weekStart,
		})
	}
	return data, nil
}

func (s *memoryService) InitMemory(ctx context.Context, userId uuid.UUID) (*dto.InitMemoryResponse, error) {
	var dossier, digest json.RawMessage
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		dossier, err = s.BuildDossier(gctx, userId)
		return err
	})
	g.Go(func() (err error) {
		digest, err = s.BuildDigest(gctx, userId)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	weekStart := plandoc.FormatDate(plandoc.WeekStartOf(s.now()))
	packet, err := s.BuildCoachPacket(ctx, userId, weekStart)
	if err != nil {
		return nil, err
	}

	return &dto.InitMemoryResponse{
		Dossier:     dossier,
		Digest:      digest,
		PacketBytes: len(packet),
		WeekStart:   weekStart,
	}, nil
}

func (s *memoryService) AppendDecisionLog(ctx context.Context, userId uuid.UUID, actions, messages, rng interface{}) error {
	return appendDecisionLog(ctx, s.uowFactory, userId, decisionEntry{
		actions:  actions,
		messages: messages,
		rng:      rng,
	}, s.now().UTC())
}

func nonEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func sum(values []float64) float64 {
	var total float64
	for _, v := range values {
		total += v
	}
	return total
}
