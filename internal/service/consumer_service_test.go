package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"ai-coach-be/internal/events"
	"ai-coach-be/internal/pkg/logger"
	"ai-coach-be/pkg/plandoc"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsumerService_PlanUpdatedFlow(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	log := logger.NewNopLogger()
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	defer pubSub.Close()

	store := newFakeStore()
	cache := newFakeCache()
	notifier := &fakeNotifier{}
	auditor := NewPlanAuditWorker(nil, store, log)
	consumer := NewConsumerService(pubSub, events.PlanUpdatedTopic, cache, notifier,
		events.NewNatsPublisher(nil, log), auditor, log)
	require.NoError(t, consumer.Consume(ctx))
	require.NoError(t, auditor.Start(ctx))

	planService := NewPlanService(store, NewPublisherService(events.PlanUpdatedTopic, pubSub), log)
	athlete := uuid.New()
	cache.Set(athlete, "2024-06-03", json.RawMessage(`{}`))

	_, err := planService.ApplyDraft(ctx, athlete, draftPlan(planSession("a", "2024-06-03", "Endurance")))
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		store.mu.Lock()
		defer store.mu.Unlock()
		return len(store.decisionLogs) == 1
	}, 2*time.Second, 10*time.Millisecond)

	_, cached := cache.Get(athlete, "2024-06-03")
	assert.False(t, cached)

	notifier.mu.Lock()
	require.Len(t, notifier.sent, 1)
	assert.Equal(t, "plan_updated", notifier.sent[0].messageType)
	assert.Equal(t, athlete, notifier.sent[0].userID)
	notifier.mu.Unlock()

	store.mu.Lock()
	entry := store.decisionLogs[0]
	store.mu.Unlock()
	assert.Equal(t, athlete, entry.UserId)
	assert.JSONEq(t, `[{"type":"plan_updated","reason":"coach_edit","versionFrom":0,"versionTo":1,"changes":1}]`, string(entry.Actions))
	assert.JSONEq(t, `{"from":"2024-06-03","to":"2024-06-09"}`, string(entry.Range))
}

func TestConsumerService_AcksMalformedPayload(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	log := logger.NewNopLogger()
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	defer pubSub.Close()

	store := newFakeStore()
	consumer := NewConsumerService(pubSub, events.PlanUpdatedTopic, newFakeCache(), &fakeNotifier{},
		events.NewNatsPublisher(nil, log), NewPlanAuditWorker(nil, store, log), log)
	require.NoError(t, consumer.Consume(ctx))

	bad := newRawMessage([]byte("not json"))
	require.NoError(t, pubSub.Publish(events.PlanUpdatedTopic, bad))

	// A valid event after the bad one must still be processed.
	evt := events.PlanUpdated{AthleteID: uuid.New(), VersionTo: 1, Diff: plandoc.PlanDiff{Changes: []plandoc.Change{}}}
	require.NoError(t, NewPublisherService(events.PlanUpdatedTopic, pubSub).PublishPlanUpdated(ctx, evt))

	assert.Eventually(t, func() bool {
		store.mu.Lock()
		defer store.mu.Unlock()
		return len(store.decisionLogs) == 1
	}, 2*time.Second, 10*time.Millisecond)
}

func TestPlanAuditWorker_RecordWithoutRange(t *testing.T) {
	store := newFakeStore()
	worker := NewPlanAuditWorker(nil, store, logger.NewNopLogger())
	at := time.Date(2024, 6, 3, 9, 0, 0, 0, time.UTC)

	err := worker.Record(context.Background(), events.PlanUpdated{
		AthleteID: uuid.New(), VersionFrom: 4, VersionTo: 5, Reason: "accept", OccurredAt: at,
	})
	require.NoError(t, err)

	require.Len(t, store.decisionLogs, 1)
	assert.Equal(t, at, store.decisionLogs[0].At)
	assert.Nil(t, store.decisionLogs[0].Range)
	assert.Nil(t, store.decisionLogs[0].Messages)
}

func newRawMessage(payload []byte) *message.Message {
	return message.NewMessage(watermill.NewUUID(), payload)
}
