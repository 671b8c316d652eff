package photo

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/nekogravitycat/shareit-backend/internal/item"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/storage"
)

type UploadInput struct {
	ItemID      string
	UploaderID  string
	Filename    string
	ContentType string
	Content     io.Reader
}

type Service interface {
	Upload(ctx context.Context, in UploadInput) (*Photo, error)
	Download(ctx context.Context, id string) (io.ReadCloser, *Photo, error)
	DownloadThumbnail(ctx context.Context, id string) (io.ReadCloser, *Photo, error)
}

type service struct {
	repo        Repository
	itemService item.Service
	storage     storage.Storage
	imgProc     *storage.ImageProcessor
}

func NewService(repo Repository, itemService item.Service, store storage.Storage) Service {
	return &service{
		repo:        repo,
		itemService: itemService,
		storage:     store,
		imgProc:     storage.NewImageProcessor(200, 200),
	}
}

func (s *service) Upload(ctx context.Context, in UploadInput) (*Photo, error) {
	if !strings.HasPrefix(in.ContentType, "image/") {
		return nil, ErrNotImage
	}

	it, err := s.itemService.GetByID(ctx, in.ItemID)
	if err != nil {
		if errors.Is(err, item.ErrNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, err
	}
	if it.OwnerID != in.UploaderID {
		return nil, ErrNotItemOwner
	}

	// Read one byte past the limit to detect oversized uploads.
	content, err := io.ReadAll(io.LimitReader(in.Content, MaxSizeBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read photo content: %w", err)
	}
	if len(content) > MaxSizeBytes {
		return nil, ErrTooLarge
	}

	id := uuid.New().String()
	ext := strings.ToLower(filepath.Ext(in.Filename))

	// Sharded layout: items/<item>/<ab>/<uuid>.<ext>
	dir := fmt.Sprintf("items/%s/%s", it.ID, id[:2])
	storagePath := fmt.Sprintf("%s/%s%s", dir, id, ext)

	if err := s.storage.Save(ctx, storagePath, bytes.NewReader(content)); err != nil {
		return nil, fmt.Errorf("failed to save photo to storage: %w", err)
	}

	var thumbnailPath *string
	thumb, err := s.imgProc.Thumbnail(bytes.NewReader(content))
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("photo_id", id).Msg("thumbnail generation failed")
	} else {
		tPath := fmt.Sprintf("%s/%s_thumb.jpg", dir, id)
		if err := s.storage.Save(ctx, tPath, thumb); err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Str("photo_id", id).Msg("thumbnail save failed")
		} else {
			thumbnailPath = &tPath
		}
	}

	p := &Photo{
		ID:            id,
		ItemID:        it.ID,
		UploaderID:    in.UploaderID,
		Filename:      filepath.Base(in.Filename),
		StoragePath:   storagePath,
		ThumbnailPath: thumbnailPath,
		ContentType:   in.ContentType,
		Size:          int64(len(content)),
	}

	if err := s.repo.Create(ctx, p); err != nil {
		s.discard(ctx, storagePath)
		if thumbnailPath != nil {
			s.discard(ctx, *thumbnailPath)
		}
		return nil, err
	}
	return p, nil
}

// discard removes a file whose metadata was never recorded.
func (s *service) discard(ctx context.Context, path string) {
	if err := s.storage.Delete(ctx, path); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("path", path).Msg("photo cleanup failed")
	}
}

func (s *service) Download(ctx context.Context, id string) (io.ReadCloser, *Photo, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return s.open(ctx, p, p.StoragePath)
}

func (s *service) DownloadThumbnail(ctx context.Context, id string) (io.ReadCloser, *Photo, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if p.ThumbnailPath == nil {
		return nil, nil, ErrThumbnailUnavailable
	}
	return s.open(ctx, p, *p.ThumbnailPath)
}

func (s *service) open(ctx context.Context, p *Photo, path string) (io.ReadCloser, *Photo, error) {
	stream, err := s.storage.Get(ctx, path)
	if err != nil {
		if errors.Is(err, storage.ErrNotExist) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, fmt.Errorf("failed to retrieve photo from storage: %w", err)
	}
	return stream, p, nil
}
