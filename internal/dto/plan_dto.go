package dto

import (
	"time"

	"ai-coach-be/pkg/plandoc"
)

type PlanWriteResponse struct {
	Plan *plandoc.Plan    `json:"plan"`
	Diff plandoc.PlanDiff `json:"diff"`
}

type PlanVersionResponse struct {
	Version   int       `json:"version"`
	WeekStart string    `json:"weekStart"`
	IsActive  bool      `json:"isActive"`
	Reason    string    `json:"reason,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

type DraftPlanRequest struct {
	Plan plandoc.Plan `json:"plan" validate:"required"`
}

// AcceptPlanRequest seals the active plan when Plan is omitted.
type AcceptPlanRequest struct {
	Plan *plandoc.Plan `json:"plan"`
}

type RevertPlanRequest struct {
	Version int `json:"version" validate:"required,gte=1"`
}

// DiffPlanRequest diffs two stored versions, or two inline documents when
// both Prev and Next are given.
type DiffPlanRequest struct {
	From int           `json:"from" validate:"omitempty,gte=0"`
	To   int           `json:"to" validate:"omitempty,gte=0"`
	Prev *plandoc.Plan `json:"prev"`
	Next *plandoc.Plan `json:"next"`
}

type ToggleNutritionRequest struct {
	Enabled *bool `json:"enabled" validate:"required"`
}

type UpsertSessionRequest struct {
	Session plandoc.Session `json:"session"`
}

type CompleteSessionRequest struct {
	SessionId string `json:"sessionId" validate:"required"`
}

type MoveSessionRequest struct {
	SessionId string `json:"sessionId" validate:"required"`
	Date      string `json:"date" validate:"required,datetime=2006-01-02"`
}
