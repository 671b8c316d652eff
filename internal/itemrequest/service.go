package itemrequest

import (
	"context"
	"errors"
	"strings"

	"github.com/nekogravitycat/shareit-backend/internal/item"
	"github.com/nekogravitycat/shareit-backend/internal/user"
)

type CreateRequest struct {
	RequesterID string
	Description string
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*ItemRequest, error)
	GetByID(ctx context.Context, id, viewerID string) (*ItemRequest, error)
	// ListOwn returns every request of the viewer with its answering items.
	ListOwn(ctx context.Context, requesterID string) ([]*ItemRequest, error)
	// ListOthers pages through requests posted by everyone but the viewer.
	ListOthers(ctx context.Context, viewerID string, page, pageSize int) ([]*ItemRequest, int, error)
}

type service struct {
	repo        Repository
	itemService item.Service
	userService user.Service
}

func NewService(repo Repository, itemService item.Service, userService user.Service) Service {
	return &service{
		repo:        repo,
		itemService: itemService,
		userService: userService,
	}
}

func (s *service) requireUser(ctx context.Context, id string) (*user.User, error) {
	u, err := s.userService.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, ErrRequesterNotFound
		}
		return nil, err
	}
	return u, nil
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*ItemRequest, error) {
	description := strings.TrimSpace(req.Description)
	if description == "" {
		return nil, ErrDescriptionRequired
	}

	requester, err := s.requireUser(ctx, req.RequesterID)
	if err != nil {
		return nil, err
	}

	r := &ItemRequest{
		RequesterID:   requester.ID,
		RequesterName: requester.Name(),
		Description:   description,
		Items:         []*item.Item{},
	}
	if err := s.repo.Create(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *service) GetByID(ctx context.Context, id, viewerID string) (*ItemRequest, error) {
	if _, err := s.requireUser(ctx, viewerID); err != nil {
		return nil, err
	}

	r, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.attachItems(ctx, []*ItemRequest{r}); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *service) ListOwn(ctx context.Context, requesterID string) ([]*ItemRequest, error) {
	if _, err := s.requireUser(ctx, requesterID); err != nil {
		return nil, err
	}

	requests, _, err := s.repo.List(ctx, Filter{RequesterID: requesterID})
	if err != nil {
		return nil, err
	}
	if err := s.attachItems(ctx, requests); err != nil {
		return nil, err
	}
	return requests, nil
}

func (s *service) ListOthers(ctx context.Context, viewerID string, page, pageSize int) ([]*ItemRequest, int, error) {
	if _, err := s.requireUser(ctx, viewerID); err != nil {
		return nil, 0, err
	}

	requests, total, err := s.repo.List(ctx, Filter{
		ExcludeRequesterID: viewerID,
		Page:               page,
		PageSize:           pageSize,
	})
	if err != nil {
		return nil, 0, err
	}
	if err := s.attachItems(ctx, requests); err != nil {
		return nil, 0, err
	}
	return requests, total, nil
}

func (s *service) attachItems(ctx context.Context, requests []*ItemRequest) error {
	ids := make([]string, len(requests))
	for i, r := range requests {
		ids[i] = r.ID
	}

	grouped, err := s.itemService.ListByRequests(ctx, ids)
	if err != nil {
		return err
	}
	for _, r := range requests {
		r.Items = grouped[r.ID]
		if r.Items == nil {
			r.Items = []*item.Item{}
		}
	}
	return nil
}
