package comment

import (
	"context"
	"errors"
	"strings"

	"github.com/nekogravitycat/shareit-backend/internal/booking"
	"github.com/nekogravitycat/shareit-backend/internal/item"
	"github.com/nekogravitycat/shareit-backend/internal/user"
)

type PostRequest struct {
	ItemID   string
	AuthorID string
	Text     string
}

type Service interface {
	Post(ctx context.Context, req PostRequest) (*Comment, error)
	ListByItem(ctx context.Context, itemID string) ([]*Comment, error)
	// ListByItems groups comments by item id.
	ListByItems(ctx context.Context, itemIDs []string) (map[string][]*Comment, error)
}

type service struct {
	repo           Repository
	itemService    item.Service
	userService    user.Service
	bookingService booking.Service
}

func NewService(repo Repository, itemService item.Service, userService user.Service, bookingService booking.Service) Service {
	return &service{
		repo:           repo,
		itemService:    itemService,
		userService:    userService,
		bookingService: bookingService,
	}
}

func (s *service) Post(ctx context.Context, req PostRequest) (*Comment, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, ErrTextRequired
	}

	if _, err := s.itemService.GetByID(ctx, req.ItemID); err != nil {
		if errors.Is(err, item.ErrNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, err
	}

	author, err := s.userService.GetByID(ctx, req.AuthorID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, ErrAuthorNotFound
		}
		return nil, err
	}

	rented, err := s.bookingService.HasFinishedBooking(ctx, req.ItemID, author.ID)
	if err != nil {
		return nil, err
	}
	if !rented {
		return nil, ErrNotRented
	}

	c := &Comment{
		ItemID:     req.ItemID,
		AuthorID:   author.ID,
		AuthorName: author.Name(),
		Text:       text,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *service) ListByItem(ctx context.Context, itemID string) ([]*Comment, error) {
	return s.repo.ListByItems(ctx, []string{itemID})
}

func (s *service) ListByItems(ctx context.Context, itemIDs []string) (map[string][]*Comment, error) {
	grouped := make(map[string][]*Comment, len(itemIDs))
	if len(itemIDs) == 0 {
		return grouped, nil
	}

	comments, err := s.repo.ListByItems(ctx, itemIDs)
	if err != nil {
		return nil, err
	}
	for _, c := range comments {
		grouped[c.ItemID] = append(grouped[c.ItemID], c)
	}
	return grouped, nil
}
