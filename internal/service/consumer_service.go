package service

import (
	"context"
	"encoding/json"
	"fmt"

	"ai-coach-be/internal/events"
	"ai-coach-be/internal/pkg/logger"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

// PacketCache stores compacted coach packets per athlete and week.
type PacketCache interface {
	Get(athleteID uuid.UUID, weekStart string) (json.RawMessage, bool)
	Generation(athleteID uuid.UUID) uint64
	SetIfGeneration(athleteID uuid.UUID, weekStart string, gen uint64, packet json.RawMessage) bool
	Invalidate(ctx context.Context, athleteID uuid.UUID)
}

// RealtimeNotifier pushes a typed message to the athlete's open sockets.
type RealtimeNotifier interface {
	Send(userID uuid.UUID, messageType string, data interface{})
}

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	pubSub    *gochannel.GoChannel
	topicName string
	cache     PacketCache
	notifier  RealtimeNotifier
	forwarder *events.NatsPublisher
	auditor   IPlanAuditWorker
	logger    logger.ILogger
}

// NewConsumerService reacts to committed plan versions. When forwarder has no
// NATS connection the decision log is written in-process through auditor.
func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	cache PacketCache,
	notifier RealtimeNotifier,
	forwarder *events.NatsPublisher,
	auditor IPlanAuditWorker,
	logger logger.ILogger,
) IConsumerService {
	return &consumerService{
		pubSub:    pubSub,
		topicName: topicName,
		cache:     cache,
		notifier:  notifier,
		forwarder: forwarder,
		auditor:   auditor,
		logger:    logger,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var evt events.PlanUpdated
	if err := json.Unmarshal(msg.Payload, &evt); err != nil {
		cs.logger.Error("ConsumerService", "Failed to unmarshal plan event", map[string]interface{}{
			"message_id": msg.UUID,
			"error":      err.Error(),
		})
		msg.Ack() // retrying cannot fix a bad payload
		return
	}

	if err := cs.handle(ctx, evt); err != nil {
		cs.logger.Error("ConsumerService", "Failed to handle plan event", map[string]interface{}{
			"athlete_id": evt.AthleteID,
			"version":    evt.VersionTo,
			"error":      err.Error(),
		})
	}
	// The version is already committed; redelivering would only repeat the
	// invalidation and the socket push.
	msg.Ack()
}

func (cs *consumerService) handle(ctx context.Context, evt events.PlanUpdated) error {
	if cs.cache != nil {
		cs.cache.Invalidate(ctx, evt.AthleteID)
	}

	if cs.notifier != nil {
		cs.notifier.Send(evt.AthleteID, "plan_updated", map[string]interface{}{
			"versionFrom": evt.VersionFrom,
			"versionTo":   evt.VersionTo,
			"reason":      evt.Reason,
			"diff":        evt.Diff,
		})
	}

	if cs.forwarder.Enabled() {
		if err := cs.forwarder.PublishPlanUpdated(ctx, evt); err != nil {
			return fmt.Errorf("forward plan event: %w", err)
		}
		return nil
	}
	if cs.auditor != nil {
		return cs.auditor.Record(ctx, evt)
	}
	return nil
}
