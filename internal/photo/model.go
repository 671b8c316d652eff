package photo

import (
	"net/http"
	"time"

	"github.com/nekogravitycat/shareit-backend/internal/pkg/apperror"
)

const MaxSizeBytes = 10 << 20

var (
	ErrNotFound             = apperror.New(http.StatusNotFound, "photo not found")
	ErrItemNotFound         = apperror.New(http.StatusNotFound, "item not found")
	ErrNotItemOwner         = apperror.NewWithKind(apperror.KindConditionsNotMet, http.StatusForbidden, "only the owner can add photos to this item")
	ErrNotImage             = apperror.New(http.StatusBadRequest, "only image uploads are accepted")
	ErrTooLarge             = apperror.New(http.StatusRequestEntityTooLarge, "photo exceeds the size limit")
	ErrThumbnailUnavailable = apperror.New(http.StatusNotFound, "thumbnail not available for this photo")
)

// Photo is an image attached to an item. Paths are relative to the blob store.
type Photo struct {
	ID            string
	ItemID        string
	UploaderID    string
	Filename      string
	StoragePath   string
	ThumbnailPath *string
	ContentType   string
	Size          int64
	CreatedAt     time.Time
}

// URL returns the public path serving the original image.
func URL(id string) string {
	return "/v1/photos/" + id
}

// ThumbnailURL returns the public path serving the thumbnail.
func ThumbnailURL(id string) string {
	return "/v1/photos/" + id + "/thumbnail"
}
