package service

import (
	"context"
	"encoding/json"

	"ai-coach-be/internal/events"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
)

// IPublisherService puts plan events on the in-process bus.
type IPublisherService interface {
	PublishPlanUpdated(ctx context.Context, evt events.PlanUpdated) error
}

type publisherService struct {
	topicName string
	publisher message.Publisher
}

func NewPublisherService(topicName string, publisher message.Publisher) IPublisherService {
	return &publisherService{
		topicName: topicName,
		publisher: publisher,
	}
}

func (p *publisherService) PublishPlanUpdated(ctx context.Context, evt events.PlanUpdated) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.SetContext(ctx)
	msg.Metadata.Set("athlete_id", evt.AthleteID.String())
	return p.publisher.Publish(p.topicName, msg)
}
