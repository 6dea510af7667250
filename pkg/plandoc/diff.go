package plandoc

import (
	"fmt"
	"reflect"
)

type ChangeType string

const (
	ChangeAddSession    ChangeType = "add-session"
	ChangeRemoveSession ChangeType = "remove-session"
	ChangeUpdateSession ChangeType = "update-session"
	ChangeNote          ChangeType = "note"
)

// SessionPatch carries only the fields that changed. An empty Description or
// zero Metrics means the field was cleared.
type SessionPatch struct {
	Date        *string         `json:"date,omitempty"`
	Sport       *Sport          `json:"sport,omitempty"`
	Title       *string         `json:"title,omitempty"`
	Description *string         `json:"description,omitempty"`
	Metrics     *SessionMetrics `json:"metrics,omitempty"`
	Status      *SessionStatus  `json:"status,omitempty"`
}

func (p SessionPatch) IsEmpty() bool {
	return p.Date == nil && p.Sport == nil && p.Title == nil &&
		p.Description == nil && p.Metrics == nil && p.Status == nil
}

// Change is one entry of a PlanDiff; which fields are set depends on Type.
type Change struct {
	Type      ChangeType    `json:"type"`
	WeekStart string        `json:"weekStart,omitempty"`
	Session   *Session      `json:"session,omitempty"`
	SessionID string        `json:"sessionId,omitempty"`
	Patch     *SessionPatch `json:"patch,omitempty"`
	Text      string        `json:"text,omitempty"`
}

type PlanDiff struct {
	VersionFrom int      `json:"versionFrom"`
	VersionTo   int      `json:"versionTo"`
	Changes     []Change `json:"changes"`
}

type indexedSession struct {
	weekStart string
	session   Session
}

// sessionIndex maps ids to sessions and keeps the plan's nested order.
type sessionIndex struct {
	byID  map[string]indexedSession
	order []string
}

func indexSessions(p *Plan) (*sessionIndex, error) {
	idx := &sessionIndex{byID: make(map[string]indexedSession)}
	for _, w := range p.Weeks {
		for _, s := range w.Sessions {
			if _, dup := idx.byID[s.ID]; dup {
				return nil, fmt.Errorf("%w: %q", ErrDuplicateSessionID, s.ID)
			}
			idx.byID[s.ID] = indexedSession{weekStart: w.Start, session: s}
			idx.order = append(idx.order, s.ID)
		}
	}
	return idx, nil
}

// Diff computes the session-level changes turning prev into next. Versions
// are copied verbatim; enforcing monotonicity is the caller's job.
func Diff(prev, next *Plan) (PlanDiff, error) {
	prevIdx, err := indexSessions(prev)
	if err != nil {
		return PlanDiff{}, fmt.Errorf("previous plan: %w", err)
	}
	nextIdx, err := indexSessions(next)
	if err != nil {
		return PlanDiff{}, fmt.Errorf("next plan: %w", err)
	}

	changes := make([]Change, 0)
	for _, id := range nextIdx.order {
		entry := nextIdx.byID[id]
		before, ok := prevIdx.byID[id]
		if !ok {
			s := entry.session.Clone()
			changes = append(changes, Change{Type: ChangeAddSession, WeekStart: entry.weekStart, Session: &s})
			continue
		}
		if patch := diffSession(before.session, entry.session); !patch.IsEmpty() {
			changes = append(changes, Change{Type: ChangeUpdateSession, SessionID: id, Patch: &patch})
		}
	}
	for _, id := range prevIdx.order {
		if _, ok := nextIdx.byID[id]; !ok {
			changes = append(changes, Change{Type: ChangeRemoveSession, SessionID: id})
		}
	}

	return PlanDiff{
		VersionFrom: prev.Meta.Version,
		VersionTo:   next.Meta.Version,
		Changes:     changes,
	}, nil
}

func diffSession(a, b Session) SessionPatch {
	var patch SessionPatch
	if a.Date != b.Date {
		v := b.Date
		patch.Date = &v
	}
	if a.Sport != b.Sport {
		v := b.Sport
		patch.Sport = &v
	}
	if a.Title != b.Title {
		v := b.Title
		patch.Title = &v
	}
	if a.Description != b.Description {
		v := b.Description
		patch.Description = &v
	}
	if !reflect.DeepEqual(a.Metrics, b.Metrics) {
		v := b.Metrics.clone()
		patch.Metrics = &v
	}
	if a.Status != b.Status {
		v := b.Status
		patch.Status = &v
	}
	return patch
}
