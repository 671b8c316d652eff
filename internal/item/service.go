package item

import (
	"context"
	"errors"
	"strings"

	"github.com/nekogravitycat/shareit-backend/internal/user"
)

type CreateRequest struct {
	OwnerID     string
	Name        string
	Description string
	Available   *bool
	RequestID   *string
}

// UpdateRequest is a partial update; nil fields keep their current value.
type UpdateRequest struct {
	Name        *string
	Description *string
	Available   *bool
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Item, error)
	GetByID(ctx context.Context, id string) (*Item, error)
	Update(ctx context.Context, id, actorID string, req UpdateRequest) (*Item, error)
	ListByOwner(ctx context.Context, ownerID string, page, pageSize int) ([]*Item, int, error)
	Search(ctx context.Context, text string, page, pageSize int) ([]*Item, int, error)
	// ListByRequests groups the items answering each of the given requests.
	ListByRequests(ctx context.Context, requestIDs []string) (map[string][]*Item, error)
}

type service struct {
	repo        Repository
	userService user.Service
}

func NewService(repo Repository, userService user.Service) Service {
	return &service{
		repo:        repo,
		userService: userService,
	}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Item, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, ErrEmptyName
	}
	if strings.TrimSpace(req.Description) == "" {
		return nil, ErrEmptyDescription
	}
	if req.Available == nil {
		return nil, ErrAvailableRequired
	}

	owner, err := s.userService.GetByID(ctx, req.OwnerID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, ErrOwnerNotFound
		}
		return nil, err
	}

	it := &Item{
		OwnerID:     owner.ID,
		OwnerName:   owner.Name(),
		Name:        strings.TrimSpace(req.Name),
		Description: strings.TrimSpace(req.Description),
		Available:   *req.Available,
		RequestID:   req.RequestID,
	}

	// A dangling request id is rejected by the foreign key.
	if err := s.repo.Create(ctx, it); err != nil {
		return nil, err
	}
	return it, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Item, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) Update(ctx context.Context, id, actorID string, req UpdateRequest) (*Item, error) {
	it, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if it.OwnerID != actorID {
		return nil, ErrNotOwner
	}

	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, ErrEmptyName
		}
		it.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		if strings.TrimSpace(*req.Description) == "" {
			return nil, ErrEmptyDescription
		}
		it.Description = strings.TrimSpace(*req.Description)
	}
	if req.Available != nil {
		it.Available = *req.Available
	}

	if err := s.repo.Update(ctx, it); err != nil {
		return nil, err
	}
	return it, nil
}

func (s *service) ListByOwner(ctx context.Context, ownerID string, page, pageSize int) ([]*Item, int, error) {
	if _, err := s.userService.GetByID(ctx, ownerID); err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, 0, ErrOwnerNotFound
		}
		return nil, 0, err
	}
	return s.repo.List(ctx, Filter{
		OwnerID:  ownerID,
		Page:     page,
		PageSize: pageSize,
	})
}

func (s *service) Search(ctx context.Context, text string, page, pageSize int) ([]*Item, int, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return []*Item{}, 0, nil
	}
	return s.repo.List(ctx, Filter{
		Text:          text,
		AvailableOnly: true,
		Page:          page,
		PageSize:      pageSize,
	})
}

func (s *service) ListByRequests(ctx context.Context, requestIDs []string) (map[string][]*Item, error) {
	grouped := make(map[string][]*Item, len(requestIDs))
	if len(requestIDs) == 0 {
		return grouped, nil
	}

	items, _, err := s.repo.List(ctx, Filter{RequestIDs: requestIDs})
	if err != nil {
		return nil, err
	}
	for _, it := range items {
		if it.RequestID != nil {
			grouped[*it.RequestID] = append(grouped[*it.RequestID], it)
		}
	}
	return grouped, nil
}
