package comment

import (
	"net/http"
	"time"

	"github.com/nekogravitycat/shareit-backend/internal/pkg/apperror"
)

var (
	ErrTextRequired   = apperror.New(http.StatusBadRequest, "comment text is required")
	ErrItemNotFound   = apperror.New(http.StatusNotFound, "item not found")
	ErrAuthorNotFound = apperror.New(http.StatusNotFound, "author not found")
	ErrNotRented      = apperror.NewWithKind(apperror.KindConditionsNotMet, http.StatusBadRequest, "only users who have finished a booking of this item can comment")
)

// Comment is feedback left on an item by a past renter.
type Comment struct {
	ID         string
	ItemID     string
	AuthorID   string
	AuthorName string
	Text       string
	CreatedAt  time.Time
}
