package service

import (
	"context"
	"testing"
	"time"

	"ai-coach-be/internal/dto"
	"ai-coach-be/internal/entity"
	"ai-coach-be/internal/pkg/logger"
	"ai-coach-be/pkg/metrics"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActivityService_RecordManualActivity(t *testing.T) {
	tests := []struct {
		name        string
		profileFtp  *float64
		defaultFtp  float64
		req         dto.ManualActivityRequest
		wantStress  float64
		wantFactor  float64
		wantZoneKey bool
	}{
		{
			name:       "power with profile threshold",
			profileFtp: floatPtr(250),
			req:        dto.ManualActivityRequest{Sport: "cycling", Name: "Tempo", MovingSeconds: 3600, AveragePower: floatPtr(200)},
			wantStress: 64,
			wantFactor: 0.8,
		},
		{
			name:       "power with default threshold",
			defaultFtp: 200,
			req:        dto.ManualActivityRequest{Sport: "cycling", Name: "Threshold", MovingSeconds: 1800, AveragePower: floatPtr(200)},
			wantStress: 50,
			wantFactor: 1,
		},
		{
			name:       "power without any threshold",
			req:        dto.ManualActivityRequest{Sport: "cycling", Name: "Unknown", MovingSeconds: 3600, AveragePower: floatPtr(200)},
			wantStress: 0,
			wantFactor: 0,
		},
		{
			name:        "zones fallback",
			req:         dto.ManualActivityRequest{Sport: "running", Name: "Easy", MovingSeconds: 3600, Zones: &metrics.ZoneSeconds{Z2: 3600}},
			wantStress:  49,
			wantFactor:  0.7,
			wantZoneKey: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeStore()
			athlete := uuid.New()
			if tt.profileFtp != nil {
				store.profiles[athlete] = &entity.AthleteProfile{Id: athlete, FtpWatts: tt.profileFtp}
			}
			svc := NewActivityService(store, tt.defaultFtp, logger.NewNopLogger())

			req := tt.req
			req.StartDate = time.Date(2024, 6, 3, 7, 0, 0, 0, time.UTC)
			req.Notes = "felt good"
			res, err := svc.RecordManualActivity(context.Background(), athlete, &req)
			require.NoError(t, err)
			require.NotNil(t, res.Computed)
			assert.Equal(t, tt.wantStress, res.Computed.Stress)
			assert.Equal(t, tt.wantFactor, res.Computed.IntensityFactor)

			require.Len(t, store.activities, 1)
			stored := store.activities[0]
			assert.Equal(t, entity.ActivitySourceManual, stored.Source)
			assert.Equal(t, "manual", stored.Metadata["source"])
			assert.Equal(t, "felt good", stored.Metadata["notes"])
			c, ok := stored.Computed()
			require.True(t, ok)
			assert.Equal(t, tt.wantStress, c.Stress)
			_, hasZones := stored.Metadata["zoneSeconds"]
			assert.Equal(t, tt.wantZoneKey, hasZones)
		})
	}
}

func TestActivityService_IngestSyncedIsIdempotent(t *testing.T) {
	store := newFakeStore()
	athlete := uuid.New()
	svc := NewActivityService(store, 250, logger.NewNopLogger())
	in := dto.WebhookActivity{Id: "strava-1", Date: "2024-06-03T07:00:00Z", Sport: "cycling", Name: "Morning ride", MovingSeconds: 3600, AveragePower: floatPtr(200)}

	first, err := svc.IngestSynced(context.Background(), athlete, in)
	require.NoError(t, err)
	second, err := svc.IngestSynced(context.Background(), athlete, in)
	require.NoError(t, err)

	assert.Equal(t, first.Id, second.Id)
	require.Len(t, store.activities, 1)
	assert.Equal(t, entity.ActivitySourceStrava, store.activities[0].Source)
	assert.Equal(t, "strava-1", *store.activities[0].ExternalId)
	assert.Equal(t, 64.0, first.Computed.Stress)
	assert.Equal(t, 64.0, second.Computed.Stress)

	_, err = svc.IngestSynced(context.Background(), athlete, dto.WebhookActivity{Date: "yesterday"})
	assert.Error(t, err)
}

func TestActivityService_BackfillComputed(t *testing.T) {
	store := newFakeStore()
	athlete := uuid.New()
	store.profiles[athlete] = &entity.AthleteProfile{Id: athlete, FtpWatts: floatPtr(250)}

	base := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
	done := &entity.Activity{Id: uuid.New(), UserId: athlete, StartDate: base, MovingTime: 3600,
		Metadata: map[string]interface{}{"computed": map[string]interface{}{"intensityFactor": 0.5, "stress": 25.0}, "device": "x"}}
	power := &entity.Activity{Id: uuid.New(), UserId: athlete, StartDate: base.AddDate(0, 0, 1), MovingTime: 3600, AveragePower: floatPtr(200),
		Metadata: map[string]interface{}{"device": "garmin"}}
	zones := &entity.Activity{Id: uuid.New(), UserId: athlete, StartDate: base.AddDate(0, 0, 2), MovingTime: 3600,
		Metadata: map[string]interface{}{"zoneSeconds": map[string]interface{}{"z2": 3600.0}}}
	other := &entity.Activity{Id: uuid.New(), UserId: uuid.New(), StartDate: base, MovingTime: 3600, AveragePower: floatPtr(300)}
	store.activities = []*entity.Activity{done, power, zones, other}

	svc := NewActivityService(store, 0, logger.NewNopLogger())
	res, err := svc.BackfillComputed(context.Background(), athlete)
	require.NoError(t, err)
	assert.Equal(t, &dto.BackfillResponse{Scanned: 3, Updated: 2, Skipped: 1}, res)

	byID := make(map[uuid.UUID]*entity.Activity)
	for _, a := range store.activities {
		byID[a.Id] = a
	}

	c, ok := byID[power.Id].Computed()
	require.True(t, ok)
	assert.Equal(t, 64.0, c.Stress)
	assert.Equal(t, "garmin", byID[power.Id].Metadata["device"])

	c, ok = byID[zones.Id].Computed()
	require.True(t, ok)
	assert.Equal(t, 49.0, c.Stress)

	c, ok = byID[done.Id].Computed()
	require.True(t, ok)
	assert.Equal(t, 25.0, c.Stress)

	_, ok = byID[other.Id].Computed()
	assert.False(t, ok)
}
