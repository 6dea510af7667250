package plandoc

import (
	"fmt"
	"strings"
)

// The mutators below edit the receiver in place; callers apply them to a
// Clone of the active plan and write the result as a new version.

// UpsertSession replaces the session with the same id, or inserts it into
// the week containing its date. A session whose date leaves its week is
// re-homed.
func (p *Plan) UpsertSession(s Session) error {
	day, err := ParseDate(s.Date)
	if err != nil {
		return err
	}
	if s.Status == "" {
		s.Status = StatusPlanned
	}

	if wi, si, ok := p.findSession(s.ID); ok {
		if weekContains(p.Weeks[wi].Start, s.Date) {
			p.Weeks[wi].Sessions[si] = s.Clone()
			return nil
		}
		p.removeSession(s.ID)
	}

	for i := range p.Weeks {
		if weekContains(p.Weeks[i].Start, s.Date) {
			p.Weeks[i].Sessions = append(p.Weeks[i].Sessions, s.Clone())
			return nil
		}
	}
	p.insertIntoWeek(FormatDate(WeekStartOf(day)), s.Clone())
	return nil
}

// SetSessionStatus updates one session's status.
func (p *Plan) SetSessionStatus(id string, status SessionStatus) error {
	wi, si, ok := p.findSession(id)
	if !ok {
		return fmt.Errorf("%w: %q", ErrSessionNotFound, id)
	}
	p.Weeks[wi].Sessions[si].Status = status
	return nil
}

// MoveSession changes a session's date, moving it to the containing week.
func (p *Plan) MoveSession(id, newDate string) error {
	wi, si, ok := p.findSession(id)
	if !ok {
		return fmt.Errorf("%w: %q", ErrSessionNotFound, id)
	}
	moved := p.Weeks[wi].Sessions[si]
	moved.Date = newDate
	return p.UpsertSession(moved)
}

// SetNutrition toggles nutrition guidance on every week, keeping tips.
func (p *Plan) SetNutrition(enabled bool) {
	for i := range p.Weeks {
		if p.Weeks[i].Nutrition == nil {
			p.Weeks[i].Nutrition = &Nutrition{}
		}
		p.Weeks[i].Nutrition.Enabled = enabled
	}
}

// MarkCompletedOn marks every session dated on day as completed and returns
// how many changed.
func (p *Plan) MarkCompletedOn(day string) int {
	if len(day) > len(dateLayout) {
		day = day[:len(dateLayout)]
	}
	changed := 0
	for wi := range p.Weeks {
		for si := range p.Weeks[wi].Sessions {
			s := &p.Weeks[wi].Sessions[si]
			if strings.HasPrefix(s.Date, day) && s.Status != StatusCompleted {
				s.Status = StatusCompleted
				changed++
			}
		}
	}
	return changed
}

// AddSource records src once in meta.sources.
func (p *Plan) AddSource(src Source) {
	for _, s := range p.Meta.Sources {
		if s == src {
			return
		}
	}
	p.Meta.Sources = append(p.Meta.Sources, src)
}

func weekContains(weekStart, date string) bool {
	start, err := ParseDate(weekStart)
	if err != nil {
		return false
	}
	d, err := ParseDate(date)
	if err != nil {
		return false
	}
	return !d.Before(start) && d.Before(start.AddDate(0, 0, 7))
}
