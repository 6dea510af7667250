package events

import (
	"context"
	"testing"
	"time"

	"ai-coach-be/pkg/plandoc"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRangeOf(t *testing.T) {
	p := &plandoc.Plan{Weeks: []plandoc.Week{{Start: "2024-06-10"}, {Start: "2024-06-03"}}}
	assert.Equal(t, &WeekRange{From: "2024-06-03", To: "2024-06-16"}, RangeOf(p))
	assert.Nil(t, RangeOf(&plandoc.Plan{}))
	assert.Nil(t, RangeOf(nil))
}

func TestPlanUpdated_MapRoundTrip(t *testing.T) {
	evt := PlanUpdated{
		AthleteID:   uuid.New(),
		VersionFrom: 5,
		VersionTo:   6,
		Reason:      "revert",
		Diff: plandoc.PlanDiff{VersionFrom: 5, VersionTo: 6, Changes: []plandoc.Change{
			{Type: plandoc.ChangeRemoveSession, SessionID: "B"},
		}},
		OccurredAt: time.Date(2024, 6, 3, 8, 0, 0, 0, time.UTC),
	}

	data, err := evt.ToMap()
	require.NoError(t, err)
	assert.Equal(t, float64(6), data["version_to"])

	back, err := PlanUpdatedFromMap(data)
	require.NoError(t, err)
	assert.Equal(t, evt, back)
}

func TestPlanUpdatedFromMap_MissingAthlete(t *testing.T) {
	_, err := PlanUpdatedFromMap(map[string]interface{}{"version_to": 2})
	assert.Error(t, err)
}

func TestNatsPublisher_DisabledIsNoop(t *testing.T) {
	var p *NatsPublisher
	assert.False(t, p.Enabled())
	assert.NoError(t, NewNatsPublisher(nil, nil).PublishPlanUpdated(context.Background(), PlanUpdated{}))
}
