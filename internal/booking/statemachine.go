package booking

import (
	"time"

	"github.com/nekogravitycat/shareit-backend/internal/item"
	"github.com/nekogravitycat/shareit-backend/internal/user"
)

// NewWaiting validates a create request against the item, the window and
// the policy and returns the booking to persist. It never touches storage.
func NewWaiting(it *item.Item, booker *user.User, w Window, now time.Time, p Policy) (*Booking, error) {
	if !it.Available {
		return nil, ErrItemUnavailable
	}
	if err := w.Validate(); err != nil {
		return nil, err
	}
	if p.ForbidSelfBooking && it.OwnerID == booker.ID {
		return nil, ErrSelfBooking
	}
	if p.ForbidPastStart && w.Start.Before(now.Add(-p.PastStartTolerance)) {
		return nil, ErrStartTimePast
	}

	return &Booking{
		ItemID:     it.ID,
		ItemName:   it.Name,
		OwnerID:    it.OwnerID,
		BookerID:   booker.ID,
		BookerName: booker.Name(),
		StartTime:  w.Start,
		EndTime:    w.End,
		Status:     StatusWaiting,
	}, nil
}

// Decide applies an owner's approve/reject decision to b in place.
func Decide(b *Booking, actorID string, approved bool, p Policy) error {
	if b.OwnerID != actorID {
		return ErrNotItemOwner
	}

	next := StatusRejected
	if approved {
		next = StatusApproved
	}
	if !b.Status.CanTransitionTo(next, p.AllowReapproval) {
		return ErrAlreadyDecided
	}

	b.Status = next
	return nil
}
