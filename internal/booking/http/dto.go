package http

import (
	"time"

	"github.com/nekogravitycat/shareit-backend/internal/booking"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/request"
	userHttp "github.com/nekogravitycat/shareit-backend/internal/user/http"
)

// ListBookingsRequest defines query parameters for listing bookings.
type ListBookingsRequest struct {
	request.ListParams
	State string `form:"state"`
}

// ItemTag is a brief representation of the booked item.
type ItemTag struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	OwnerID string `json:"owner_id"`
}

type BookingResponse struct {
	ID        string           `json:"id"`
	Item      ItemTag          `json:"item"`
	Booker    userHttp.UserTag `json:"booker"`
	Start     time.Time        `json:"start"`
	End       time.Time        `json:"end"`
	Status    string           `json:"status"`
	CreatedAt time.Time        `json:"created_at"`
}

func NewBookingResponse(b *booking.Booking) BookingResponse {
	return BookingResponse{
		ID:        b.ID,
		Item:      ItemTag{ID: b.ItemID, Name: b.ItemName, OwnerID: b.OwnerID},
		Booker:    userHttp.UserTag{ID: b.BookerID, Name: b.BookerName},
		Start:     b.StartTime,
		End:       b.EndTime,
		Status:    string(b.Status),
		CreatedAt: b.CreatedAt,
	}
}

// BookingShort is the compact form embedded in item listings.
type BookingShort struct {
	ID       string    `json:"id"`
	BookerID string    `json:"booker_id"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
}

func NewBookingShort(b *booking.Booking) *BookingShort {
	if b == nil {
		return nil
	}
	return &BookingShort{ID: b.ID, BookerID: b.BookerID, Start: b.StartTime, End: b.EndTime}
}

type CreateBookingRequest struct {
	ItemID string    `json:"item_id" binding:"required,uuid"`
	Start  time.Time `json:"start" binding:"required"`
	End    time.Time `json:"end" binding:"required"`
}

// DecideBookingRequest carries the approved flag of PATCH /bookings/:id.
type DecideBookingRequest struct {
	Approved *bool `form:"approved" binding:"required"`
}
