package item

import (
	"net/http"
	"time"

	"github.com/nekogravitycat/shareit-backend/internal/pkg/apperror"
)

var (
	ErrNotFound          = apperror.New(http.StatusNotFound, "item not found")
	ErrOwnerNotFound     = apperror.New(http.StatusNotFound, "owner not found")
	ErrRequestNotFound   = apperror.New(http.StatusNotFound, "item request not found")
	ErrEmptyName         = apperror.New(http.StatusBadRequest, "name cannot be empty")
	ErrEmptyDescription  = apperror.New(http.StatusBadRequest, "description cannot be empty")
	ErrAvailableRequired = apperror.New(http.StatusBadRequest, "available flag is required")
	ErrNotOwner          = apperror.NewWithKind(apperror.KindConditionsNotMet, http.StatusForbidden, "only the owner can modify this item")
)

// Item is a shareable object. Available is set by the owner and is
// independent of the item's bookings.
type Item struct {
	ID          string
	OwnerID     string
	OwnerName   string
	Name        string
	Description string
	Available   bool
	RequestID   *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Filter defines parameters for listing items.
type Filter struct {
	OwnerID       string
	Text          string // case-insensitive match on name or description
	AvailableOnly bool
	RequestIDs    []string
	Page          int
	PageSize      int
}
