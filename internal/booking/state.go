package booking

import (
	"strings"
	"time"
)

// State is a temporal bucket used to filter booking listings.
type State string

const (
	StateAll      State = "ALL"
	StateCurrent  State = "CURRENT"
	StatePast     State = "PAST"
	StateFuture   State = "FUTURE"
	StateWaiting  State = "WAITING"
	StateRejected State = "REJECTED"
)

var states = []State{StateAll, StateCurrent, StatePast, StateFuture, StateWaiting, StateRejected}

// ParseState matches s case-insensitively. Empty means ALL.
func ParseState(s string) (State, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return StateAll, nil
	}
	for _, st := range states {
		if strings.EqualFold(s, string(st)) {
			return st, nil
		}
	}
	return "", ErrInvalidState
}

// Criteria is a State pinned to an instant. The repository translates the
// same predicate to SQL; Matches evaluates it in memory.
type Criteria struct {
	State State
	Now   time.Time
}

func NewCriteria(state State, now time.Time) Criteria {
	if state == "" {
		state = StateAll
	}
	return Criteria{State: state, Now: now}
}

func (c Criteria) Matches(b *Booking) bool {
	switch c.State {
	case StateCurrent:
		return b.Status == StatusApproved && b.StartTime.Before(c.Now) && b.EndTime.After(c.Now)
	case StateFuture:
		return b.Status == StatusApproved && b.StartTime.After(c.Now)
	case StatePast:
		return b.Status == StatusApproved && b.EndTime.Before(c.Now)
	case StateWaiting:
		return b.Status == StatusWaiting
	case StateRejected:
		return b.Status == StatusRejected
	default:
		return true
	}
}
