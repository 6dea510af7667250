package service

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"ai-coach-be/internal/entity"
	"ai-coach-be/internal/events"
	"ai-coach-be/internal/repository/contract"
	"ai-coach-be/internal/repository/specification"
	"ai-coach-be/internal/repository/unitofwork"
	"ai-coach-be/pkg/metrics"

	"github.com/google/uuid"
)

// fakeStore is an in-memory stand-in for the database behind the unit of work.
type fakeStore struct {
	txMu sync.Mutex

	mu            sync.Mutex
	profiles      map[uuid.UUID]*entity.AthleteProfile
	activities    []*entity.Activity
	plans         []*entity.TrainingPlan
	dossiers      map[uuid.UUID]json.RawMessage
	digests       map[uuid.UUID]json.RawMessage
	conversations map[uuid.UUID][]string
	decisionLogs  []*entity.DecisionLog
	aggregates    metrics.LoadAggregates

	// afterPlanRead runs once a plan lookup has finished.
	afterPlanRead func()
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		profiles:      make(map[uuid.UUID]*entity.AthleteProfile),
		dossiers:      make(map[uuid.UUID]json.RawMessage),
		digests:       make(map[uuid.UUID]json.RawMessage),
		conversations: make(map[uuid.UUID][]string),
	}
}

func (s *fakeStore) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &fakeUnitOfWork{store: s}
}

func (s *fakeStore) activePlans(userId uuid.UUID) []*entity.TrainingPlan {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*entity.TrainingPlan
	for _, p := range s.plans {
		if p.UserId == userId && p.IsActive {
			out = append(out, p)
		}
	}
	return out
}

type fakeUnitOfWork struct {
	store *fakeStore
	inTx  bool
}

func (u *fakeUnitOfWork) Begin(ctx context.Context) error {
	u.store.txMu.Lock()
	u.inTx = true
	return nil
}

func (u *fakeUnitOfWork) Commit() error {
	if u.inTx {
		u.inTx = false
		u.store.txMu.Unlock()
	}
	return nil
}

func (u *fakeUnitOfWork) Rollback() error {
	return u.Commit()
}

func (u *fakeUnitOfWork) AthleteRepository() contract.AthleteRepository {
	return &fakeAthleteRepo{u.store}
}

func (u *fakeUnitOfWork) ActivityRepository() contract.ActivityRepository {
	return &fakeActivityRepo{u.store}
}

func (u *fakeUnitOfWork) TrainingPlanRepository() contract.TrainingPlanRepository {
	return &fakePlanRepo{u.store}
}

func (u *fakeUnitOfWork) MemoryRepository() contract.MemoryRepository {
	return &fakeMemoryRepo{u.store}
}

func (u *fakeUnitOfWork) DecisionLogRepository() contract.DecisionLogRepository {
	return &fakeDecisionLogRepo{u.store}
}

// query is the subset of specifications the fakes understand.
type query struct {
	userId  *uuid.UUID
	id      *uuid.UUID
	active  bool
	version *int
	filters map[string]interface{}
	from    time.Time
	to      time.Time
	order   *specification.OrderBy
	limit   int
}

func parseSpecs(specs []specification.Specification) query {
	q := query{filters: map[string]interface{}{}}
	for _, sp := range specs {
		switch v := sp.(type) {
		case specification.UserOwnedBy:
			q.userId = &v.UserID
		case specification.ByID:
			q.id = &v.ID
		case specification.ActivePlan:
			q.active = true
		case specification.ByVersion:
			q.version = &v.Version
		case specification.FilterBy:
			q.filters[v.Field] = v.Value
		case specification.StartedBetween:
			q.from, q.to = v.From, v.To
		case specification.OrderBy:
			o := v
			q.order = &o
		case specification.Pagination:
			q.limit = v.Limit
		}
	}
	return q
}

type fakeAthleteRepo struct{ s *fakeStore }

func (r *fakeAthleteRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.AthleteProfile, error) {
	q := parseSpecs(specs)
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if q.id == nil {
		return nil, nil
	}
	p, ok := r.s.profiles[*q.id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *fakeAthleteRepo) Save(ctx context.Context, profile *entity.AthleteProfile) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *profile
	r.s.profiles[profile.Id] = &cp
	return nil
}

type fakeActivityRepo struct{ s *fakeStore }

func (r *fakeActivityRepo) Create(ctx context.Context, a *entity.Activity) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}
	cp := *a
	r.s.activities = append(r.s.activities, &cp)
	return nil
}

func (r *fakeActivityRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Activity, error) {
	q := parseSpecs(specs)
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []*entity.Activity
	for _, a := range r.s.activities {
		if q.userId != nil && a.UserId != *q.userId {
			continue
		}
		if ext, ok := q.filters["external_id"]; ok && (a.ExternalId == nil || *a.ExternalId != ext) {
			continue
		}
		if !q.from.IsZero() && a.StartDate.Before(q.from) {
			continue
		}
		if !q.to.IsZero() && !a.StartDate.Before(q.to) {
			continue
		}
		cp := *a
		out = append(out, &cp)
	}
	if q.order != nil && q.order.Field == "start_date" {
		desc := q.order.Desc
		sort.SliceStable(out, func(i, j int) bool {
			if desc {
				return out[i].StartDate.After(out[j].StartDate)
			}
			return out[i].StartDate.Before(out[j].StartDate)
		})
	}
	if q.limit > 0 && len(out) > q.limit {
		out = out[:q.limit]
	}
	return out, nil
}

func (r *fakeActivityRepo) SetComputed(ctx context.Context, id uuid.UUID, computed metrics.Computed) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, a := range r.s.activities {
		if a.Id == id {
			meta := make(map[string]interface{}, len(a.Metadata)+1)
			for k, v := range a.Metadata {
				meta[k] = v
			}
			meta["computed"] = computed
			a.Metadata = meta
		}
	}
	return nil
}

func (r *fakeActivityRepo) AggregateLoad(ctx context.Context, userId uuid.UUID, asOf time.Time) (metrics.LoadAggregates, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.aggregates, nil
}

type fakePlanRepo struct{ s *fakeStore }

func (r *fakePlanRepo) LockAthlete(ctx context.Context, userId uuid.UUID) error { return nil }

func (r *fakePlanRepo) match(q query, p *entity.TrainingPlan) bool {
	if q.userId != nil && p.UserId != *q.userId {
		return false
	}
	if q.active && !p.IsActive {
		return false
	}
	if q.version != nil && p.Version != *q.version {
		return false
	}
	return true
}

func clonePlan(p *entity.TrainingPlan) *entity.TrainingPlan {
	cp := *p
	cp.Document = p.Document.Clone()
	return &cp
}

func (r *fakePlanRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.TrainingPlan, error) {
	if r.s.afterPlanRead != nil {
		defer r.s.afterPlanRead()
	}
	q := parseSpecs(specs)
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range r.s.plans {
		if r.match(q, p) {
			return clonePlan(p), nil
		}
	}
	return nil, nil
}

func (r *fakePlanRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.TrainingPlan, error) {
	q := parseSpecs(specs)
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.TrainingPlan
	for _, p := range r.s.plans {
		if r.match(q, p) {
			out = append(out, clonePlan(p))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Version > out[j].Version })
	return out, nil
}

func (r *fakePlanRepo) MaxVersion(ctx context.Context, userId uuid.UUID) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	maxVersion := 0
	for _, p := range r.s.plans {
		if p.UserId == userId && p.Version > maxVersion {
			maxVersion = p.Version
		}
	}
	return maxVersion, nil
}

func (r *fakePlanRepo) DeactivateActive(ctx context.Context, userId uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range r.s.plans {
		if p.UserId == userId {
			p.IsActive = false
		}
	}
	return nil
}

func (r *fakePlanRepo) Create(ctx context.Context, plan *entity.TrainingPlan) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	plan.CreatedAt = time.Now()
	r.s.plans = append(r.s.plans, clonePlan(plan))
	return nil
}

type fakeMemoryRepo struct{ s *fakeStore }

func (r *fakeMemoryRepo) FindDossier(ctx context.Context, userId uuid.UUID) (*entity.MemoryRecord, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if d, ok := r.s.dossiers[userId]; ok {
		return &entity.MemoryRecord{UserId: userId, Data: d}, nil
	}
	return nil, nil
}

func (r *fakeMemoryRepo) UpsertDossier(ctx context.Context, userId uuid.UUID, data json.RawMessage) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.dossiers[userId] = data
	return nil
}

func (r *fakeMemoryRepo) FindDigest(ctx context.Context, userId uuid.UUID) (*entity.MemoryRecord, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if d, ok := r.s.digests[userId]; ok {
		return &entity.MemoryRecord{UserId: userId, Data: d}, nil
	}
	return nil, nil
}

func (r *fakeMemoryRepo) UpsertDigest(ctx context.Context, userId uuid.UUID, data json.RawMessage) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.digests[userId] = data
	return nil
}

func (r *fakeMemoryRepo) FindConversation(ctx context.Context, userId uuid.UUID) (*entity.ConversationMemory, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if b, ok := r.s.conversations[userId]; ok {
		return &entity.ConversationMemory{UserId: userId, Bullets: append([]string(nil), b...)}, nil
	}
	return nil, nil
}

func (r *fakeMemoryRepo) UpsertConversation(ctx context.Context, userId uuid.UUID, bullets []string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.conversations[userId] = append([]string(nil), bullets...)
	return nil
}

type fakeDecisionLogRepo struct{ s *fakeStore }

func (r *fakeDecisionLogRepo) Create(ctx context.Context, entry *entity.DecisionLog) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *entry
	r.s.decisionLogs = append(r.s.decisionLogs, &cp)
	return nil
}

func (r *fakeDecisionLogRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.DecisionLog, error) {
	q := parseSpecs(specs)
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.DecisionLog
	for _, e := range r.s.decisionLogs {
		if q.userId == nil || e.UserId == *q.userId {
			out = append(out, e)
		}
	}
	return out, nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.PlanUpdated
}

func (p *recordingPublisher) PublishPlanUpdated(ctx context.Context, evt events.PlanUpdated) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evt)
	return nil
}

type fakeCache struct {
	mu          sync.Mutex
	entries     map[string]json.RawMessage
	generations map[uuid.UUID]uint64
	invalidated []uuid.UUID
}

func newFakeCache() *fakeCache {
	return &fakeCache{
		entries:     make(map[string]json.RawMessage),
		generations: make(map[uuid.UUID]uint64),
	}
}

func (c *fakeCache) Get(athleteID uuid.UUID, weekStart string) (json.RawMessage, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.entries[athleteID.String()+"|"+weekStart]
	return v, ok
}

func (c *fakeCache) Set(athleteID uuid.UUID, weekStart string, packet json.RawMessage) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[athleteID.String()+"|"+weekStart] = packet
}

func (c *fakeCache) Generation(athleteID uuid.UUID) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generations[athleteID]
}

func (c *fakeCache) SetIfGeneration(athleteID uuid.UUID, weekStart string, gen uint64, packet json.RawMessage) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generations[athleteID] != gen {
		return false
	}
	c.entries[athleteID.String()+"|"+weekStart] = packet
	return true
}

func (c *fakeCache) Invalidate(ctx context.Context, athleteID uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generations[athleteID]++
	c.invalidated = append(c.invalidated, athleteID)
	for k := range c.entries {
		if len(k) > 36 && k[:36] == athleteID.String() {
			delete(c.entries, k)
		}
	}
}

type sentMessage struct {
	userID      uuid.UUID
	messageType string
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []sentMessage
}

func (n *fakeNotifier) Send(userID uuid.UUID, messageType string, data interface{}) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, sentMessage{userID: userID, messageType: messageType})
}
