package service

import (
	"errors"

	"ai-coach-be/internal/repository/contract"
	"ai-coach-be/pkg/plandoc"
)

var (
	ErrNoActivePlan     = errors.New("no active plan")
	ErrVersionNotFound  = errors.New("version not found")
	ErrSessionNotFound  = plandoc.ErrSessionNotFound
	ErrInvalidWeekStart = errors.New("weekStart must be a YYYY-MM-DD date")
	ErrConflict         = contract.ErrConflict
)
