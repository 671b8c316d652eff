package http

import (
	"time"

	bookingHttp "github.com/nekogravitycat/shareit-backend/internal/booking/http"
	commentHttp "github.com/nekogravitycat/shareit-backend/internal/comment/http"
	"github.com/nekogravitycat/shareit-backend/internal/item"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/request"
)

type ItemResponse struct {
	ID          string                        `json:"id"`
	Name        string                        `json:"name"`
	Description string                        `json:"description"`
	Available   bool                          `json:"available"`
	OwnerID     string                        `json:"owner_id"`
	OwnerName   string                        `json:"owner_name"`
	RequestID   *string                       `json:"request_id,omitempty"`
	CreatedAt   time.Time                     `json:"created_at"`
	LastBooking *bookingHttp.BookingShort     `json:"last_booking"`
	NextBooking *bookingHttp.BookingShort     `json:"next_booking"`
	Comments    []commentHttp.CommentResponse `json:"comments"`
}

func NewItemResponse(it *item.Item) ItemResponse {
	return ItemResponse{
		ID:          it.ID,
		Name:        it.Name,
		Description: it.Description,
		Available:   it.Available,
		OwnerID:     it.OwnerID,
		OwnerName:   it.OwnerName,
		RequestID:   it.RequestID,
		CreatedAt:   it.CreatedAt,
		Comments:    []commentHttp.CommentResponse{},
	}
}

type CreateItemRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description" binding:"required"`
	Available   *bool   `json:"available" binding:"required"`
	RequestID   *string `json:"request_id" binding:"omitempty,uuid"`
}

type UpdateItemRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Available   *bool   `json:"available"`
}

type ListItemsRequest struct {
	request.ListParams
}

type SearchItemsRequest struct {
	request.ListParams
	Text string `form:"text"`
}
