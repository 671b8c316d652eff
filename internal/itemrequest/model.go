package itemrequest

import (
	"net/http"
	"time"

	"github.com/nekogravitycat/shareit-backend/internal/item"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/apperror"
)

var (
	ErrNotFound            = apperror.New(http.StatusNotFound, "item request not found")
	ErrRequesterNotFound   = apperror.New(http.StatusNotFound, "requester not found")
	ErrDescriptionRequired = apperror.New(http.StatusBadRequest, "description cannot be empty")
)

// ItemRequest is a "looking for" post that other users answer by listing
// items that reference it.
type ItemRequest struct {
	ID            string
	RequesterID   string
	RequesterName string
	Description   string
	CreatedAt     time.Time

	// Items answering this request; populated by the service on reads.
	Items []*item.Item
}

// Filter defines parameters for listing item requests.
type Filter struct {
	RequesterID        string
	ExcludeRequesterID string
	Page               int
	PageSize           int
}
