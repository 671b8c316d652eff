package photo

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/shareit-backend/internal/item"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/storage"
)

type mockRepository struct {
	mock.Mock
}

func (m *mockRepository) Create(ctx context.Context, p *Photo) error {
	return m.Called(ctx, p).Error(0)
}

func (m *mockRepository) GetByID(ctx context.Context, id string) (*Photo, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(*Photo)
	return p, args.Error(1)
}

type mockItemService struct {
	item.Service
	mock.Mock
}

func (m *mockItemService) GetByID(ctx context.Context, id string) (*item.Item, error) {
	args := m.Called(ctx, id)
	it, _ := args.Get(0).(*item.Item)
	return it, args.Error(1)
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func setup(t *testing.T) (*mockRepository, *mockItemService, *storage.LocalStorage, Service) {
	t.Helper()
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	repo := new(mockRepository)
	items := new(mockItemService)
	return repo, items, store, NewService(repo, items, store)
}

func TestUploadAndDownload(t *testing.T) {
	ctx := context.Background()
	repo, items, store, svc := setup(t)

	items.On("GetByID", ctx, "item-1").Return(&item.Item{ID: "item-1", OwnerID: "owner"}, nil)
	repo.On("Create", ctx, mock.AnythingOfType("*photo.Photo")).Return(nil)

	content := pngBytes(t, 640, 480)
	p, err := svc.Upload(ctx, UploadInput{
		ItemID: "item-1", UploaderID: "owner", Filename: "drill.PNG",
		ContentType: "image/png", Content: bytes.NewReader(content),
	})
	require.NoError(t, err)
	require.NotNil(t, p.ThumbnailPath)
	assert.True(t, strings.HasSuffix(p.StoragePath, ".png"))
	assert.Equal(t, int64(len(content)), p.Size)

	// Thumbnail fits in 200x200
	thumb, err := store.Get(ctx, *p.ThumbnailPath)
	require.NoError(t, err)
	defer thumb.Close()
	cfg, _, err := image.DecodeConfig(thumb)
	require.NoError(t, err)
	assert.LessOrEqual(t, cfg.Width, 200)
	assert.LessOrEqual(t, cfg.Height, 200)

	repo.On("GetByID", ctx, p.ID).Return(p, nil)
	stream, got, err := svc.Download(ctx, p.ID)
	require.NoError(t, err)
	defer stream.Close()
	data, err := io.ReadAll(stream)
	require.NoError(t, err)
	assert.Equal(t, content, data)
	assert.Equal(t, p.ID, got.ID)
}

func TestUploadRejections(t *testing.T) {
	ctx := context.Background()

	t.Run("NotImage", func(t *testing.T) {
		_, _, _, svc := setup(t)
		_, err := svc.Upload(ctx, UploadInput{ItemID: "item-1", UploaderID: "owner", ContentType: "text/plain", Content: strings.NewReader("x")})
		assert.ErrorIs(t, err, ErrNotImage)
	})

	t.Run("NotOwner", func(t *testing.T) {
		_, items, _, svc := setup(t)
		items.On("GetByID", ctx, "item-1").Return(&item.Item{ID: "item-1", OwnerID: "owner"}, nil)

		_, err := svc.Upload(ctx, UploadInput{ItemID: "item-1", UploaderID: "stranger", ContentType: "image/png", Content: strings.NewReader("x")})
		assert.ErrorIs(t, err, ErrNotItemOwner)
	})

	t.Run("MissingItem", func(t *testing.T) {
		_, items, _, svc := setup(t)
		items.On("GetByID", ctx, "item-1").Return(nil, item.ErrNotFound)

		_, err := svc.Upload(ctx, UploadInput{ItemID: "item-1", UploaderID: "owner", ContentType: "image/png", Content: strings.NewReader("x")})
		assert.ErrorIs(t, err, ErrItemNotFound)
	})

	t.Run("TooLarge", func(t *testing.T) {
		_, items, _, svc := setup(t)
		items.On("GetByID", ctx, "item-1").Return(&item.Item{ID: "item-1", OwnerID: "owner"}, nil)

		big := bytes.NewReader(make([]byte, MaxSizeBytes+1))
		_, err := svc.Upload(ctx, UploadInput{ItemID: "item-1", UploaderID: "owner", ContentType: "image/png", Content: big})
		assert.ErrorIs(t, err, ErrTooLarge)
	})
}

func TestUndecodableImageHasNoThumbnail(t *testing.T) {
	ctx := context.Background()
	repo, items, _, svc := setup(t)

	items.On("GetByID", ctx, "item-1").Return(&item.Item{ID: "item-1", OwnerID: "owner"}, nil)
	repo.On("Create", ctx, mock.AnythingOfType("*photo.Photo")).Return(nil)

	p, err := svc.Upload(ctx, UploadInput{
		ItemID: "item-1", UploaderID: "owner", Filename: "broken.jpg",
		ContentType: "image/jpeg", Content: strings.NewReader("not really a jpeg"),
	})
	require.NoError(t, err)
	assert.Nil(t, p.ThumbnailPath)

	repo.On("GetByID", ctx, p.ID).Return(p, nil)
	_, _, err = svc.DownloadThumbnail(ctx, p.ID)
	assert.ErrorIs(t, err, ErrThumbnailUnavailable)
}

func TestCreateFailureCleansUpStorage(t *testing.T) {
	ctx := context.Background()
	repo, items, store, svc := setup(t)

	items.On("GetByID", ctx, "item-1").Return(&item.Item{ID: "item-1", OwnerID: "owner"}, nil)
	var stored *Photo
	repo.On("Create", ctx, mock.AnythingOfType("*photo.Photo")).
		Run(func(args mock.Arguments) { stored = args.Get(1).(*Photo) }).
		Return(assert.AnError)

	_, err := svc.Upload(ctx, UploadInput{
		ItemID: "item-1", UploaderID: "owner", Filename: "a.png",
		ContentType: "image/png", Content: bytes.NewReader(pngBytes(t, 10, 10)),
	})
	require.ErrorIs(t, err, assert.AnError)
	require.NotNil(t, stored)

	_, err = store.Get(ctx, stored.StoragePath)
	assert.ErrorIs(t, err, storage.ErrNotExist)
}

func TestCleanupFailureIsLogged(t *testing.T) {
	var logs bytes.Buffer
	logger := zerolog.New(&logs)
	ctx := logger.WithContext(context.Background())

	dir := t.TempDir()
	store, err := storage.NewLocalStorage(dir)
	require.NoError(t, err)
	repo := new(mockRepository)
	items := new(mockItemService)
	svc := NewService(repo, items, store)

	items.On("GetByID", ctx, "item-1").Return(&item.Item{ID: "item-1", OwnerID: "owner"}, nil)
	var stored *Photo
	repo.On("Create", ctx, mock.AnythingOfType("*photo.Photo")).
		Run(func(args mock.Arguments) {
			stored = args.Get(1).(*Photo)
			// A non-empty directory in place of the original cannot be removed.
			full := filepath.Join(dir, filepath.FromSlash(stored.StoragePath))
			require.NoError(t, os.Remove(full))
			require.NoError(t, os.MkdirAll(filepath.Join(full, "child"), 0o755))
		}).
		Return(assert.AnError)

	_, err = svc.Upload(ctx, UploadInput{
		ItemID: "item-1", UploaderID: "owner", Filename: "a.png",
		ContentType: "image/png", Content: bytes.NewReader(pngBytes(t, 10, 10)),
	})
	require.ErrorIs(t, err, assert.AnError)
	require.NotNil(t, stored)

	assert.Contains(t, logs.String(), `"level":"warn"`)
	assert.Contains(t, logs.String(), "photo cleanup failed")
	assert.Contains(t, logs.String(), stored.StoragePath)
}
