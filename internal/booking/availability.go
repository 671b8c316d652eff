package booking

// HasConflict reports whether candidate overlaps any of the given bookings
// that occupies its item under p. Bookings of other statuses are ignored.
func HasConflict(existing []*Booking, candidate Window, p Policy) bool {
	return firstConflict(existing, candidate, p, "") != nil
}

func firstConflict(existing []*Booking, candidate Window, p Policy, excludeID string) *Booking {
	for _, b := range existing {
		if b.ID == excludeID && excludeID != "" {
			continue
		}
		if !p.occupies(b.Status) {
			continue
		}
		if b.Window().Overlaps(candidate) {
			return b
		}
	}
	return nil
}
