package booking

import (
	"slices"
	"time"
)

// LastNext is the owner-facing summary of an item's approved bookings.
// Last is the latest booking that started at or before now, which may still
// be running. Next is the earliest booking starting after now.
type LastNext struct {
	Last *Booking
	Next *Booking
}

// ResolveLastNext scans the approved bookings of one item in start order.
func ResolveLastNext(bookings []*Booking, now time.Time) LastNext {
	sorted := slices.Clone(bookings)
	slices.SortStableFunc(sorted, func(a, b *Booking) int {
		return a.StartTime.Compare(b.StartTime)
	})

	var res LastNext
	for _, b := range sorted {
		if b.Status != StatusApproved {
			continue
		}
		if b.StartTime.After(now) {
			res.Next = b
			break
		}
		res.Last = b
	}
	return res
}

// ttl bounds how long a resolved pair stays valid: it changes at the latest
// when Next starts.
func (ln LastNext) ttl(now time.Time, limit time.Duration) time.Duration {
	if ln.Next == nil {
		return limit
	}
	return min(limit, ln.Next.StartTime.Sub(now))
}
