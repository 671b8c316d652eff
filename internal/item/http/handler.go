package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/shareit-backend/internal/auth"
	"github.com/nekogravitycat/shareit-backend/internal/booking"
	bookingHttp "github.com/nekogravitycat/shareit-backend/internal/booking/http"
	"github.com/nekogravitycat/shareit-backend/internal/comment"
	commentHttp "github.com/nekogravitycat/shareit-backend/internal/comment/http"
	"github.com/nekogravitycat/shareit-backend/internal/item"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/request"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/response"
)

type Handler struct {
	service        item.Service
	bookingService booking.Service
	commentService comment.Service
}

func NewHandler(service item.Service, bookingService booking.Service, commentService comment.Service) *Handler {
	return &Handler{
		service:        service,
		bookingService: bookingService,
		commentService: commentService,
	}
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body", err)
		return
	}

	it, err := h.service.Create(c.Request.Context(), item.CreateRequest{
		OwnerID:     auth.GetUserID(c),
		Name:        req.Name,
		Description: req.Description,
		Available:   req.Available,
		RequestID:   req.RequestID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewItemResponse(it))
}

func (h *Handler) Update(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	var req UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body", err)
		return
	}

	it, err := h.service.Update(c.Request.Context(), uri.ID, auth.GetUserID(c), item.UpdateRequest{
		Name:        req.Name,
		Description: req.Description,
		Available:   req.Available,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewItemResponse(it))
}

// Get returns an item with its comments. Booking summaries are only
// disclosed to the owner.
func (h *Handler) Get(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	ctx := c.Request.Context()
	it, err := h.service.GetByID(ctx, uri.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	resps, err := h.enrich(ctx, []*item.Item{it}, it.OwnerID == auth.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, resps[0])
}

// ListOwned lists the caller's items with booking summaries.
func (h *Handler) ListOwned(c *gin.Context) {
	var req ListItemsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "invalid query parameters", err)
		return
	}
	req.Normalize()

	ctx := c.Request.Context()
	items, total, err := h.service.ListByOwner(ctx, auth.GetUserID(c), req.Page, req.PageSize)
	if err != nil {
		response.Error(c, err)
		return
	}

	resps, err := h.enrich(ctx, items, true)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, response.NewPageResponse(resps, req.Page, req.PageSize, total))
}

func (h *Handler) Search(c *gin.Context) {
	var req SearchItemsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "invalid query parameters", err)
		return
	}
	req.Normalize()

	ctx := c.Request.Context()
	items, total, err := h.service.Search(ctx, req.Text, req.Page, req.PageSize)
	if err != nil {
		response.Error(c, err)
		return
	}

	resps, err := h.enrich(ctx, items, false)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, response.NewPageResponse(resps, req.Page, req.PageSize, total))
}

// enrich attaches comments and, when withBookings is set, the last and
// next approved bookings of each item.
func (h *Handler) enrich(ctx context.Context, items []*item.Item, withBookings bool) ([]ItemResponse, error) {
	ids := make([]string, len(items))
	for i, it := range items {
		ids[i] = it.ID
	}

	comments, err := h.commentService.ListByItems(ctx, ids)
	if err != nil {
		return nil, err
	}

	resps := make([]ItemResponse, len(items))
	for i, it := range items {
		resp := NewItemResponse(it)
		resp.Comments = commentHttp.NewCommentResponses(comments[it.ID])

		if withBookings {
			summary, err := h.bookingService.LastNext(ctx, it.ID)
			if err != nil {
				return nil, err
			}
			resp.LastBooking = bookingHttp.NewBookingShort(summary.Last)
			resp.NextBooking = bookingHttp.NewBookingShort(summary.Next)
		}
		resps[i] = resp
	}
	return resps, nil
}
