package plandoc

import (
	"fmt"
	"sort"
)

// Apply replays a diff on a clone of base and stamps diff.VersionTo. Added
// sessions land in the week named by the change, created when missing.
func Apply(base *Plan, diff PlanDiff) (*Plan, error) {
	out := base.Clone()
	for _, ch := range diff.Changes {
		switch ch.Type {
		case ChangeAddSession:
			if ch.Session == nil {
				return nil, fmt.Errorf("add-session without session")
			}
			out.insertIntoWeek(ch.WeekStart, ch.Session.Clone())
		case ChangeRemoveSession:
			if !out.removeSession(ch.SessionID) {
				return nil, fmt.Errorf("%w: %q", ErrSessionNotFound, ch.SessionID)
			}
		case ChangeUpdateSession:
			wi, si, ok := out.findSession(ch.SessionID)
			if !ok {
				return nil, fmt.Errorf("%w: %q", ErrSessionNotFound, ch.SessionID)
			}
			if ch.Patch != nil {
				applyPatch(&out.Weeks[wi].Sessions[si], *ch.Patch)
			}
		case ChangeNote:
		default:
			return nil, fmt.Errorf("unknown change type %q", ch.Type)
		}
	}
	out.Meta.Version = diff.VersionTo
	return out, nil
}

func applyPatch(s *Session, p SessionPatch) {
	if p.Date != nil {
		s.Date = *p.Date
	}
	if p.Sport != nil {
		s.Sport = *p.Sport
	}
	if p.Title != nil {
		s.Title = *p.Title
	}
	if p.Description != nil {
		s.Description = *p.Description
	}
	if p.Metrics != nil {
		s.Metrics = p.Metrics.clone()
	}
	if p.Status != nil {
		s.Status = *p.Status
	}
}

func (p *Plan) findSession(id string) (int, int, bool) {
	for wi, w := range p.Weeks {
		for si, s := range w.Sessions {
			if s.ID == id {
				return wi, si, true
			}
		}
	}
	return 0, 0, false
}

func (p *Plan) removeSession(id string) bool {
	wi, si, ok := p.findSession(id)
	if !ok {
		return false
	}
	sessions := p.Weeks[wi].Sessions
	p.Weeks[wi].Sessions = append(sessions[:si:si], sessions[si+1:]...)
	return true
}

func (p *Plan) insertIntoWeek(weekStart string, s Session) {
	for i := range p.Weeks {
		if p.Weeks[i].Start == weekStart {
			p.Weeks[i].Sessions = append(p.Weeks[i].Sessions, s)
			return
		}
	}
	p.Weeks = append(p.Weeks, Week{Start: weekStart, Sessions: []Session{s}})
	sort.SliceStable(p.Weeks, func(i, j int) bool { return p.Weeks[i].Start < p.Weeks[j].Start })
}
