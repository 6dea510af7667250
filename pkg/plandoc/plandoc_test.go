package plandoc

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func samplePlan(version int, sessions ...Session) *Plan {
	return &Plan{
		ID:        "plan-1",
		AthleteID: "athlete-1",
		WeekStart: "2024-06-03",
		Weeks:     []Week{{Start: "2024-06-03", Sessions: sessions}},
		Meta: Meta{
			GeneratedAt: "2024-06-01T00:00:00Z",
			Sources:     []Source{SourceUserInput},
			Version:     version,
			Goals:       []Goal{{Sport: SportCycling, Target: "Gran fondo"}},
		},
	}
}

func session(id, date, title string) Session {
	return Session{ID: id, Date: date, Sport: SportCycling, Title: title, Status: StatusPlanned}
}

func sessionSet(p *Plan) map[string]Session {
	out := make(map[string]Session)
	for _, w := range p.Weeks {
		for _, s := range w.Sessions {
			out[s.ID] = s
		}
	}
	return out
}

func TestDiff_SelfIsEmpty(t *testing.T) {
	p := samplePlan(3,
		session("a", "2024-06-03", "Endurance"),
		Session{ID: "b", Date: "2024-06-05", Sport: SportRunning, Title: "Tempo", Status: StatusPlanned,
			Metrics: SessionMetrics{DurationMin: intPtr(45), Grade: "5.10"}},
	)
	diff, err := Diff(p, p.Clone())
	require.NoError(t, err)
	assert.Empty(t, diff.Changes)
	assert.Equal(t, 3, diff.VersionFrom)
	assert.Equal(t, 3, diff.VersionTo)
}

func TestDiff_UpdateRemoveAdd(t *testing.T) {
	prev := samplePlan(3, session("A", "2024-06-03", "Endurance"), session("B", "2024-06-04", "Intervals"))
	next := samplePlan(4, session("A", "2024-06-03", "Long endurance"), session("C", "2024-06-06", "Recovery"))

	diff, err := Diff(prev, next)
	require.NoError(t, err)

	assert.Equal(t, 3, diff.VersionFrom)
	assert.Equal(t, 4, diff.VersionTo)
	require.Len(t, diff.Changes, 3)

	assert.Equal(t, ChangeUpdateSession, diff.Changes[0].Type)
	assert.Equal(t, "A", diff.Changes[0].SessionID)
	require.NotNil(t, diff.Changes[0].Patch)
	require.NotNil(t, diff.Changes[0].Patch.Title)
	assert.Equal(t, "Long endurance", *diff.Changes[0].Patch.Title)
	assert.Nil(t, diff.Changes[0].Patch.Date)
	assert.Nil(t, diff.Changes[0].Patch.Status)

	assert.Equal(t, ChangeAddSession, diff.Changes[1].Type)
	assert.Equal(t, "C", diff.Changes[1].Session.ID)
	assert.Equal(t, "2024-06-03", diff.Changes[1].WeekStart)

	assert.Equal(t, ChangeRemoveSession, diff.Changes[2].Type)
	assert.Equal(t, "B", diff.Changes[2].SessionID)
}

func TestDiff_PatchSerializesOnlyChangedFields(t *testing.T) {
	prev := samplePlan(1, session("A", "2024-06-03", "Endurance"))
	next := samplePlan(2, session("A", "2024-06-03", "Endurance"))
	next.Weeks[0].Sessions[0].Status = StatusCompleted

	diff, err := Diff(prev, next)
	require.NoError(t, err)
	require.Len(t, diff.Changes, 1)

	raw, err := json.Marshal(diff.Changes[0])
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"update-session","sessionId":"A","patch":{"status":"completed"}}`, string(raw))
}

func TestDiff_DuplicateIDsFail(t *testing.T) {
	dup := samplePlan(1, session("A", "2024-06-03", "x"), session("A", "2024-06-04", "y"))
	ok := samplePlan(2, session("A", "2024-06-03", "x"))

	_, err := Diff(dup, ok)
	assert.ErrorIs(t, err, ErrDuplicateSessionID)

	_, err = Diff(ok, dup)
	assert.ErrorIs(t, err, ErrDuplicateSessionID)
}

func TestDiff_DeterministicOrder(t *testing.T) {
	prev := samplePlan(1, session("x", "2024-06-03", "x"), session("y", "2024-06-04", "y"), session("z", "2024-06-05", "z"))
	next := samplePlan(2, session("c", "2024-06-03", "c"), session("b", "2024-06-04", "b"), session("a", "2024-06-05", "a"))

	first, err := Diff(prev, next)
	require.NoError(t, err)
	for i := 0; i < 20; i++ {
		again, err := Diff(prev, next)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
	ids := []string{}
	for _, ch := range first.Changes {
		if ch.Session != nil {
			ids = append(ids, ch.Session.ID)
		} else {
			ids = append(ids, ch.SessionID)
		}
	}
	assert.Equal(t, []string{"c", "b", "a", "x", "y", "z"}, ids)
}

func TestApply_RoundTrip(t *testing.T) {
	stress := 55.0
	prev := samplePlan(3,
		session("A", "2024-06-03", "Endurance"),
		Session{ID: "B", Date: "2024-06-04", Sport: SportRunning, Title: "Tempo", Description: "Hilly", Status: StatusPlanned,
			Metrics: SessionMetrics{Stress: &stress}},
		session("D", "2024-06-07", "Climb"),
	)
	next := prev.Clone()
	next.Meta.Version = 4
	next.Weeks[0].Sessions[0].Title = "Long endurance"
	next.Weeks[0].Sessions[1].Description = ""
	next.Weeks[0].Sessions[1].Metrics = SessionMetrics{}
	next.Weeks[0].Sessions = append(next.Weeks[0].Sessions[:2], session("C", "2024-06-08", "Recovery"))
	next.Weeks = append(next.Weeks, Week{Start: "2024-06-10", Sessions: []Session{session("E", "2024-06-11", "Openers")}})

	diff, err := Diff(prev, next)
	require.NoError(t, err)

	rebuilt, err := Apply(prev, diff)
	require.NoError(t, err)

	assert.Equal(t, sessionSet(next), sessionSet(rebuilt))
	assert.Equal(t, 4, rebuilt.Meta.Version)
	assert.Len(t, sessionSet(prev), 3, "base plan must not be mutated")
}

func TestApply_MissingSession(t *testing.T) {
	p := samplePlan(1, session("A", "2024-06-03", "x"))
	_, err := Apply(p, PlanDiff{VersionTo: 2, Changes: []Change{{Type: ChangeRemoveSession, SessionID: "nope"}}})
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestClone_IsDeep(t *testing.T) {
	pct := 0.9
	p := samplePlan(1, Session{ID: "A", Date: "2024-06-03", Title: "x", Status: StatusPlanned,
		Metrics: SessionMetrics{PowerTargets: &PowerTargets{FtpPct: &pct}}})
	p.Weeks[0].Nutrition = &Nutrition{Enabled: false, Tips: []string{"carbs"}}

	c := p.Clone()
	*c.Weeks[0].Sessions[0].Metrics.PowerTargets.FtpPct = 1.1
	c.Weeks[0].Nutrition.Tips[0] = "protein"
	c.Meta.Sources[0] = SourceCoachEdit

	assert.Equal(t, 0.9, *p.Weeks[0].Sessions[0].Metrics.PowerTargets.FtpPct)
	assert.Equal(t, "carbs", p.Weeks[0].Nutrition.Tips[0])
	assert.Equal(t, SourceUserInput, p.Meta.Sources[0])
}

func TestUpsertSession(t *testing.T) {
	p := samplePlan(1, session("A", "2024-06-03", "x"))

	require.NoError(t, p.UpsertSession(Session{ID: "A", Date: "2024-06-04", Title: "renamed"}))
	assert.Equal(t, "renamed", p.Weeks[0].Sessions[0].Title)
	assert.Equal(t, StatusPlanned, p.Weeks[0].Sessions[0].Status)

	require.NoError(t, p.UpsertSession(session("B", "2024-06-12", "next week")))
	require.Len(t, p.Weeks, 2)
	assert.Equal(t, "2024-06-10", p.Weeks[1].Start)

	require.NoError(t, p.UpsertSession(Session{ID: "A", Date: "2024-06-13", Title: "moved"}))
	assert.Empty(t, p.Weeks[0].Sessions)
	assert.Len(t, p.Weeks[1].Sessions, 2)

	assert.ErrorIs(t, p.UpsertSession(Session{ID: "Z", Date: "soon"}), ErrInvalidDate)
}

func TestMoveAndStatus(t *testing.T) {
	p := samplePlan(1, session("A", "2024-06-03", "x"))
	require.NoError(t, p.MoveSession("A", "2024-05-30"))
	require.Len(t, p.Weeks, 2)
	assert.Equal(t, "2024-05-27", p.Weeks[0].Start)

	require.NoError(t, p.SetSessionStatus("A", StatusSkipped))
	assert.Equal(t, StatusSkipped, p.Weeks[0].Sessions[0].Status)

	assert.ErrorIs(t, p.SetSessionStatus("missing", StatusSkipped), ErrSessionNotFound)
	assert.ErrorIs(t, p.MoveSession("missing", "2024-06-01"), ErrSessionNotFound)
}

func TestSetNutritionAndMarkCompleted(t *testing.T) {
	p := samplePlan(1, session("A", "2024-06-03", "x"), session("B", "2024-06-03T18:00:00Z", "y"), session("C", "2024-06-04", "z"))
	p.Weeks[0].Nutrition = &Nutrition{Tips: []string{"hydrate"}}
	p.Weeks = append(p.Weeks, Week{Start: "2024-06-10"})

	p.SetNutrition(true)
	assert.True(t, p.Weeks[0].Nutrition.Enabled)
	assert.Equal(t, []string{"hydrate"}, p.Weeks[0].Nutrition.Tips)
	assert.True(t, p.Weeks[1].Nutrition.Enabled)

	assert.Equal(t, 2, p.MarkCompletedOn("2024-06-03T07:12:00Z"))
	assert.Equal(t, 0, p.MarkCompletedOn("2024-06-03"))
	assert.Equal(t, StatusPlanned, p.Weeks[0].Sessions[2].Status)

	p.AddSource(SourceStravaSync)
	p.AddSource(SourceStravaSync)
	assert.Equal(t, []Source{SourceUserInput, SourceStravaSync}, p.Meta.Sources)
}

func TestSessionsBetweenAndWeekStart(t *testing.T) {
	p := samplePlan(1, session("A", "2024-06-02", "before"), session("B", "2024-06-03", "in"), session("C", "2024-06-09", "in"), session("D", "2024-06-10", "after"))
	from := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)

	got := p.SessionsBetween(from, 7)
	require.Len(t, got, 2)
	assert.Equal(t, "B", got[0].ID)
	assert.Equal(t, "C", got[1].ID)

	assert.Equal(t, "2024-06-03", FormatDate(WeekStartOf(time.Date(2024, 6, 9, 15, 0, 0, 0, time.UTC))))
	assert.Equal(t, "2024-06-03", FormatDate(WeekStartOf(from)))
}
