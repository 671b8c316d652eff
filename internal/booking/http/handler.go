package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/shareit-backend/internal/auth"
	"github.com/nekogravitycat/shareit-backend/internal/booking"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/request"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/response"
)

type Handler struct {
	service booking.Service
}

func NewHandler(service booking.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Create(c *gin.Context) {
	var body CreateBookingRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid request body", err)
		return
	}

	b, err := h.service.Create(c.Request.Context(), booking.CreateRequest{
		ItemID:    body.ItemID,
		BookerID:  auth.GetUserID(c),
		StartTime: body.Start.UTC(),
		EndTime:   body.End.UTC(),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewBookingResponse(b))
}

// Decide approves or rejects a booking; only the item owner may call it.
func (h *Handler) Decide(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	var query DecideBookingRequest
	if err := c.ShouldBindQuery(&query); err != nil {
		response.BadRequest(c, "invalid query parameters", err)
		return
	}

	b, err := h.service.Approve(c.Request.Context(), uri.ID, auth.GetUserID(c), *query.Approved)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewBookingResponse(b))
}

func (h *Handler) Get(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	b, err := h.service.Get(c.Request.Context(), uri.ID, auth.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewBookingResponse(b))
}

// ListMine lists the caller's bookings as a renter.
func (h *Handler) ListMine(c *gin.Context) {
	h.list(c, h.service.ListByBooker)
}

// ListOwned lists bookings of the caller's items.
func (h *Handler) ListOwned(c *gin.Context) {
	h.list(c, h.service.ListByOwner)
}

type listFunc func(ctx context.Context, userID string, state booking.State, page, pageSize int) ([]*booking.Booking, int, error)

func (h *Handler) list(c *gin.Context, fetch listFunc) {
	var req ListBookingsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "invalid query parameters", err)
		return
	}
	req.Normalize()

	state, err := booking.ParseState(req.State)
	if err != nil {
		response.Error(c, err)
		return
	}

	bookings, total, err := fetch(c.Request.Context(), auth.GetUserID(c), state, req.Page, req.PageSize)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]BookingResponse, len(bookings))
	for i, b := range bookings {
		items[i] = NewBookingResponse(b)
	}

	c.JSON(http.StatusOK, response.NewPageResponse(items, req.Page, req.PageSize, total))
}
