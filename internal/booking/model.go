package booking

import (
	"net/http"
	"time"

	"github.com/nekogravitycat/shareit-backend/internal/pkg/apperror"
)

var (
	ErrNotFound         = apperror.New(http.StatusNotFound, "booking not found")
	ErrItemNotFound     = apperror.New(http.StatusNotFound, "item not found")
	ErrBookerNotFound   = apperror.New(http.StatusNotFound, "booker not found")
	ErrUserNotFound     = apperror.New(http.StatusNotFound, "user not found")
	ErrItemUnavailable  = apperror.NewWithKind(apperror.KindConditionsNotMet, http.StatusBadRequest, "item is not available for booking")
	ErrInvalidTimeRange = apperror.NewWithKind(apperror.KindConditionsNotMet, http.StatusBadRequest, "start time must be before end time")
	ErrStartTimePast    = apperror.NewWithKind(apperror.KindConditionsNotMet, http.StatusBadRequest, "cannot create booking in the past")
	ErrSelfBooking      = apperror.NewWithKind(apperror.KindConditionsNotMet, http.StatusBadRequest, "owner cannot book their own item")
	ErrNotItemOwner     = apperror.NewWithKind(apperror.KindConditionsNotMet, http.StatusForbidden, "only the item owner can approve or reject a booking")
	ErrAccessDenied     = apperror.NewWithKind(apperror.KindConditionsNotMet, http.StatusForbidden, "only the booker or the item owner can view this booking")
	ErrAlreadyDecided   = apperror.NewWithKind(apperror.KindConditionsNotMet, http.StatusBadRequest, "booking has already been decided")
	ErrTimeConflict     = apperror.New(http.StatusConflict, "time slot already booked")
	ErrInvalidState     = apperror.New(http.StatusBadRequest, "unknown state")
)

type Status string

const (
	StatusWaiting  Status = "WAITING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusWaiting, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// CanTransitionTo reports whether a booking in status s may move to next.
// Nothing ever returns to WAITING. A decided booking may only be decided
// again when re-approval is allowed.
func (s Status) CanTransitionTo(next Status, allowReapproval bool) bool {
	if next != StatusApproved && next != StatusRejected {
		return false
	}
	switch s {
	case StatusWaiting:
		return true
	case StatusApproved, StatusRejected:
		return allowReapproval
	}
	return false
}

// Window is a booking period. Two windows overlap when they share an
// instant under half-open [Start, End) semantics, so touching windows do not.
type Window struct {
	Start time.Time
	End   time.Time
}

// Validate requires Start strictly before End.
func (w Window) Validate() error {
	if !w.Start.Before(w.End) {
		return ErrInvalidTimeRange
	}
	return nil
}

func (w Window) Overlaps(other Window) bool {
	return w.Start.Before(other.End) && w.End.After(other.Start)
}

type Booking struct {
	ID         string
	ItemID     string
	ItemName   string
	OwnerID    string
	BookerID   string
	BookerName string
	StartTime  time.Time
	EndTime    time.Time
	Status     Status
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (b *Booking) Window() Window {
	return Window{Start: b.StartTime, End: b.EndTime}
}

// Filter selects bookings for listing. Exactly one of BookerID and OwnerID
// is normally set.
type Filter struct {
	BookerID string
	OwnerID  string
	Criteria Criteria
	Page     int
	PageSize int
}
