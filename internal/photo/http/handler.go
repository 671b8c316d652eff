package http

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/nekogravitycat/shareit-backend/internal/auth"
	"github.com/nekogravitycat/shareit-backend/internal/photo"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/request"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/response"
)

type Handler struct {
	service photo.Service
}

func NewHandler(service photo.Service) *Handler {
	return &Handler{service: service}
}

// Upload stores the multipart "file" field as a photo of the item.
func (h *Handler) Upload(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	header, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "file is required", err)
		return
	}
	src, err := header.Open()
	if err != nil {
		response.BadRequest(c, "failed to open uploaded file", err)
		return
	}
	defer src.Close()

	p, err := h.service.Upload(c.Request.Context(), photo.UploadInput{
		ItemID:      uri.ID,
		UploaderID:  auth.GetUserID(c),
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Content:     src,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	var thumbURL *string
	if p.ThumbnailPath != nil {
		t := photo.ThumbnailURL(p.ID)
		thumbURL = &t
	}
	c.JSON(http.StatusCreated, UploadResponse{
		ID:           p.ID,
		ItemID:       p.ItemID,
		URL:          photo.URL(p.ID),
		ThumbnailURL: thumbURL,
	})
}

func (h *Handler) Serve(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	stream, p, err := h.service.Download(c.Request.Context(), uri.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer stream.Close()

	h.stream(c, stream, p.ContentType, p.Filename)
}

func (h *Handler) ServeThumbnail(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	stream, p, err := h.service.DownloadThumbnail(c.Request.Context(), uri.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer stream.Close()

	// Thumbnails are always JPEG
	h.stream(c, stream, "image/jpeg", p.Filename+"_thumb.jpg")
}

func (h *Handler) stream(c *gin.Context, r io.Reader, contentType, filename string) {
	c.Header("Content-Type", contentType)
	c.Header("Content-Disposition", "inline; filename=\""+filename+"\"")
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, r); err != nil {
		// Response already started
		zerolog.Ctx(c.Request.Context()).Warn().Err(err).Msg("photo stream interrupted")
	}
}
