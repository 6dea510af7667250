package service

import (
	"context"
	"encoding/json"
	"time"

	"ai-coach-be/internal/entity"
	"ai-coach-be/internal/events"
	"ai-coach-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

// PlanUpdatedAction is logged once per committed plan version.
type PlanUpdatedAction struct {
	Type        string `json:"type"`
	Reason      string `json:"reason"`
	VersionFrom int    `json:"versionFrom"`
	VersionTo   int    `json:"versionTo"`
	Changes     int    `json:"changes"`
}

// ConversationAction records bullets learned from a coach turn.
type ConversationAction struct {
	Type    string   `json:"type"`
	Bullets []string `json:"bullets"`
}

type decisionEntry struct {
	actions  interface{}
	messages interface{}
	rng      interface{}
}

func appendDecisionLog(ctx context.Context, uowFactory unitofwork.RepositoryFactory, userId uuid.UUID, e decisionEntry, at time.Time) error {
	actions, err := nullableRaw(e.actions)
	if err != nil {
		return err
	}
	messages, err := nullableRaw(e.messages)
	if err != nil {
		return err
	}
	rng, err := nullableRaw(e.rng)
	if err != nil {
		return err
	}

	uow := uowFactory.NewUnitOfWork(ctx)
	return uow.DecisionLogRepository().Create(ctx, &entity.DecisionLog{
		Id:       uuid.New(),
		UserId:   userId,
		At:       at,
		Actions:  actions,
		Messages: messages,
		Range:    rng,
	})
}

func planUpdatedEntry(evt events.PlanUpdated) decisionEntry {
	e := decisionEntry{
		actions: []PlanUpdatedAction{{
			Type:        "plan_updated",
			Reason:      evt.Reason,
			VersionFrom: evt.VersionFrom,
			VersionTo:   evt.VersionTo,
			Changes:     len(evt.Diff.Changes),
		}},
	}
	if evt.Range != nil {
		e.rng = evt.Range
	}
	return e
}

func nullableRaw(v interface{}) (json.RawMessage, error) {
	if v == nil {
		return nil, nil
	}
	return json.Marshal(v)
}
