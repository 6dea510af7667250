package entity

import (
	"time"

	"ai-coach-be/pkg/plandoc"

	"github.com/google/uuid"
)

const (
	PlanReasonAccept    = "accept"
	PlanReasonRevert    = "revert"
	PlanReasonCoachEdit = "coach_edit"
	PlanReasonNutrition = "nutrition_toggle"
	PlanReasonSession   = "session_edit"
	PlanReasonActivity  = "activity_sync"
)

type TrainingPlan struct {
	Id        uuid.UUID
	UserId    uuid.UUID
	Version   int
	WeekStart string
	IsActive  bool
	PlanType  string
	Reason    string
	Document  *plandoc.Plan
	CreatedAt time.Time
	UpdatedAt time.Time
}
