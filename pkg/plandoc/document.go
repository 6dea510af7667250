// Package plandoc defines the versioned training plan document, the
// session-level structural diff between two versions and the targeted
// mutations applied to a cloned plan before it is written back.
package plandoc

import (
	"errors"
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

var (
	ErrDuplicateSessionID = errors.New("duplicate session id in plan")
	ErrSessionNotFound    = errors.New("session not found")
	ErrInvalidDate        = errors.New("invalid date")
)

type Sport string

const (
	SportCycling  Sport = "cycling"
	SportClimbing Sport = "climbing"
	SportRunning  Sport = "running"
	SportStrength Sport = "strength"
)

type SessionStatus string

const (
	StatusPlanned   SessionStatus = "planned"
	StatusCompleted SessionStatus = "completed"
	StatusSkipped   SessionStatus = "skipped"
	StatusModified  SessionStatus = "modified"
)

// Source records what produced or edited a plan.
type Source string

const (
	SourceUserInput  Source = "user_input"
	SourceStravaSync Source = "strava_sync"
	SourceCoachEdit  Source = "coach_edit"
)

type Level string

const (
	LevelBeginner     Level = "beginner"
	LevelIntermediate Level = "intermediate"
	LevelAdvanced     Level = "advanced"
)

type PowerTargets struct {
	FtpPct *float64 `json:"ftpPct,omitempty"`
}

type SessionMetrics struct {
	DurationMin  *int          `json:"durationMin,omitempty"`
	Stress       *float64      `json:"tss,omitempty"`
	PowerTargets *PowerTargets `json:"powerTargets,omitempty"`
	Grade        string        `json:"grade,omitempty"`
}

// IsZero reports whether no metric is set.
func (m SessionMetrics) IsZero() bool {
	return m.DurationMin == nil && m.Stress == nil && m.PowerTargets == nil && m.Grade == ""
}

// Session is one planned workout. ID is stable across plan versions.
type Session struct {
	ID          string         `json:"id"`
	Date        string         `json:"date"`
	Sport       Sport          `json:"sport"`
	Title       string         `json:"title"`
	Description string         `json:"description,omitempty"`
	Metrics     SessionMetrics `json:"metrics,omitzero"`
	Status      SessionStatus  `json:"status"`
}

type Nutrition struct {
	Enabled bool     `json:"enabled"`
	Tips    []string `json:"tips,omitempty"`
}

type Week struct {
	Start     string     `json:"start"`
	Sessions  []Session  `json:"sessions"`
	Notes     string     `json:"notes,omitempty"`
	Nutrition *Nutrition `json:"nutrition,omitempty"`
}

type Goal struct {
	Sport    Sport  `json:"sport"`
	Target   string `json:"target"`
	Timeline string `json:"timeline,omitempty"`
}

type Injury struct {
	Name   string `json:"name"`
	Status string `json:"status"`
	Notes  string `json:"notes,omitempty"`
}

type Meta struct {
	GeneratedAt string          `json:"generatedAt"`
	Sources     []Source        `json:"sources"`
	Version     int             `json:"version"`
	Goals       []Goal          `json:"goals"`
	Injuries    []Injury        `json:"injuries,omitempty"`
	Experience  map[Sport]Level `json:"experience,omitempty"`
}

// Plan is the athlete's training schedule. Only Meta.Version orders plans;
// content may move backwards on revert while the version moves forward.
type Plan struct {
	ID        string `json:"id"`
	AthleteID string `json:"userId"`
	WeekStart string `json:"weekStart"`
	Weeks     []Week `json:"weeks"`
	Meta      Meta   `json:"meta"`
}

// Clone returns a deep copy so mutations never touch a stored snapshot.
func (p *Plan) Clone() *Plan {
	if p == nil {
		return nil
	}
	out := *p
	out.Weeks = make([]Week, len(p.Weeks))
	for i, w := range p.Weeks {
		out.Weeks[i] = w.clone()
	}
	out.Meta.Sources = cloneSlice(p.Meta.Sources)
	out.Meta.Goals = cloneSlice(p.Meta.Goals)
	out.Meta.Injuries = cloneSlice(p.Meta.Injuries)
	if p.Meta.Experience != nil {
		out.Meta.Experience = make(map[Sport]Level, len(p.Meta.Experience))
		for k, v := range p.Meta.Experience {
			out.Meta.Experience[k] = v
		}
	}
	return &out
}

func (w Week) clone() Week {
	out := w
	out.Sessions = make([]Session, len(w.Sessions))
	for i, s := range w.Sessions {
		out.Sessions[i] = s.Clone()
	}
	if w.Nutrition != nil {
		n := *w.Nutrition
		n.Tips = cloneSlice(w.Nutrition.Tips)
		out.Nutrition = &n
	}
	return out
}

// Clone deep-copies the session including metric pointers.
func (s Session) Clone() Session {
	s.Metrics = s.Metrics.clone()
	return s
}

func (m SessionMetrics) clone() SessionMetrics {
	out := m
	if m.DurationMin != nil {
		v := *m.DurationMin
		out.DurationMin = &v
	}
	if m.Stress != nil {
		v := *m.Stress
		out.Stress = &v
	}
	if m.PowerTargets != nil {
		pt := PowerTargets{}
		if m.PowerTargets.FtpPct != nil {
			v := *m.PowerTargets.FtpPct
			pt.FtpPct = &v
		}
		out.PowerTargets = &pt
	}
	return out
}

func cloneSlice[T any](in []T) []T {
	if in == nil {
		return nil
	}
	return append(make([]T, 0, len(in)), in...)
}

// ActiveInjuries returns injuries not marked recovered.
func (p *Plan) ActiveInjuries() []Injury {
	var out []Injury
	for _, inj := range p.Meta.Injuries {
		if inj.Status != "recovered" {
			out = append(out, inj)
		}
	}
	return out
}

// SessionsBetween returns sessions dated in [from, from+days), in plan order.
func (p *Plan) SessionsBetween(from time.Time, days int) []Session {
	to := from.AddDate(0, 0, days)
	out := make([]Session, 0)
	for _, w := range p.Weeks {
		for _, s := range w.Sessions {
			d, err := ParseDate(s.Date)
			if err != nil {
				continue
			}
			if !d.Before(from) && d.Before(to) {
				out = append(out, s.Clone())
			}
		}
	}
	return out
}

// ParseDate accepts a calendar date or any timestamp starting with one.
func ParseDate(s string) (time.Time, error) {
	if len(s) < len(dateLayout) {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	t, err := time.Parse(dateLayout, s[:len(dateLayout)])
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return t, nil
}

func FormatDate(t time.Time) string {
	return t.UTC().Format(dateLayout)
}

// WeekStartOf returns the Monday of t's week at midnight UTC.
func WeekStartOf(t time.Time) time.Time {
	t = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	offset := (int(t.Weekday()) + 6) % 7
	return t.AddDate(0, 0, -offset)
}
