package service

import (
	"context"
	"time"

	"ai-coach-be/internal/events"
	"ai-coach-be/internal/pkg/logger"
	"ai-coach-be/internal/repository/unitofwork"
	pkgEvents "ai-coach-be/pkg/events"
	pktNats "ai-coach-be/pkg/nats"
)

// PlanAuditDurable is the JetStream durable consumer name.
const PlanAuditDurable = "plan-audit-worker"

// IPlanAuditWorker appends a decision log entry for every plan version.
type IPlanAuditWorker interface {
	Start(ctx context.Context) error
	Record(ctx context.Context, evt events.PlanUpdated) error
}

type planAuditWorker struct {
	subscriber *pktNats.Subscriber
	uowFactory unitofwork.RepositoryFactory
	logger     logger.ILogger
}

// NewPlanAuditWorker builds the worker; subscriber may be nil, in which case
// Start is a no-op and callers invoke Record directly.
func NewPlanAuditWorker(subscriber *pktNats.Subscriber, uowFactory unitofwork.RepositoryFactory, logger logger.ILogger) IPlanAuditWorker {
	return &planAuditWorker{
		subscriber: subscriber,
		uowFactory: uowFactory,
		logger:     logger,
	}
}

func (w *planAuditWorker) Start(ctx context.Context) error {
	if w.subscriber == nil {
		return nil
	}
	return w.subscriber.Subscribe(ctx, pktNats.Subject(events.PlanUpdatedType), PlanAuditDurable, w.handle)
}

func (w *planAuditWorker) handle(ctx context.Context, event pkgEvents.Event) error {
	evt, err := events.PlanUpdatedFromMap(event.Payload())
	if err != nil {
		w.logger.Error("PlanAuditWorker", "Malformed PLAN_UPDATED payload", map[string]interface{}{
			"error": err.Error(),
		})
		// Redelivery cannot fix a bad payload.
		return nil
	}
	return w.Record(ctx, evt)
}

func (w *planAuditWorker) Record(ctx context.Context, evt events.PlanUpdated) error {
	at := evt.OccurredAt
	if at.IsZero() {
		at = time.Now().UTC()
	}
	if err := appendDecisionLog(ctx, w.uowFactory, evt.AthleteID, planUpdatedEntry(evt), at); err != nil {
		w.logger.Error("PlanAuditWorker", "Failed to append decision log", map[string]interface{}{
			"athlete_id": evt.AthleteID,
			"version":    evt.VersionTo,
			"error":      err.Error(),
		})
		return err
	}
	return nil
}
