package booking

import "time"

// Policy selects between the booking rule variants.
type Policy struct {
	// ForbidSelfBooking rejects bookings where the booker owns the item.
	ForbidSelfBooking bool
	// ForbidPastStart rejects windows starting before now minus PastStartTolerance.
	ForbidPastStart    bool
	PastStartTolerance time.Duration
	// AllowReapproval lets an owner flip an already decided booking.
	AllowReapproval bool
	// WaitingOccupies makes WAITING bookings block overlapping requests too.
	WaitingOccupies bool
}

// DefaultPolicy mirrors the configuration defaults.
func DefaultPolicy() Policy {
	return Policy{
		ForbidSelfBooking:  true,
		ForbidPastStart:    false,
		PastStartTolerance: time.Minute,
		AllowReapproval:    true,
		WaitingOccupies:    false,
	}
}

// OccupyingStatuses lists the statuses that hold an item's time slot.
func (p Policy) OccupyingStatuses() []Status {
	if p.WaitingOccupies {
		return []Status{StatusApproved, StatusWaiting}
	}
	return []Status{StatusApproved}
}

func (p Policy) occupies(s Status) bool {
	for _, o := range p.OccupyingStatuses() {
		if o == s {
			return true
		}
	}
	return false
}
