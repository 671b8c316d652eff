package http

import (
	"time"

	"github.com/nekogravitycat/shareit-backend/internal/itemrequest"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/request"
)

// AnswerResponse is an item listed in reply to a request.
type AnswerResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Available   bool   `json:"available"`
	OwnerID     string `json:"owner_id"`
}

type ItemRequestResponse struct {
	ID            string           `json:"id"`
	Description   string           `json:"description"`
	RequesterID   string           `json:"requester_id"`
	RequesterName string           `json:"requester_name"`
	Created       time.Time        `json:"created"`
	Items         []AnswerResponse `json:"items"`
}

func NewResponse(r *itemrequest.ItemRequest) ItemRequestResponse {
	answers := make([]AnswerResponse, len(r.Items))
	for i, it := range r.Items {
		answers[i] = AnswerResponse{
			ID:          it.ID,
			Name:        it.Name,
			Description: it.Description,
			Available:   it.Available,
			OwnerID:     it.OwnerID,
		}
	}
	return ItemRequestResponse{
		ID:            r.ID,
		Description:   r.Description,
		RequesterID:   r.RequesterID,
		RequesterName: r.RequesterName,
		Created:       r.CreatedAt,
		Items:         answers,
	}
}

func NewResponses(requests []*itemrequest.ItemRequest) []ItemRequestResponse {
	out := make([]ItemRequestResponse, len(requests))
	for i, r := range requests {
		out[i] = NewResponse(r)
	}
	return out
}

type CreateRequest struct {
	Description string `json:"description" binding:"required"`
}

type ListOthersRequest struct {
	request.ListParams
}
