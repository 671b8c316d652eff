package booking

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/nekogravitycat/shareit-backend/internal/item"
	"github.com/nekogravitycat/shareit-backend/internal/metrics"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/clock"
	"github.com/nekogravitycat/shareit-backend/internal/user"
)

type CreateRequest struct {
	ItemID    string
	BookerID  string
	StartTime time.Time
	EndTime   time.Time
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Booking, error)
	Approve(ctx context.Context, bookingID, ownerID string, approved bool) (*Booking, error)
	Get(ctx context.Context, bookingID, requesterID string) (*Booking, error)
	ListByBooker(ctx context.Context, bookerID string, state State, page, pageSize int) ([]*Booking, int, error)
	ListByOwner(ctx context.Context, ownerID string, state State, page, pageSize int) ([]*Booking, int, error)
	// IsAvailable reports whether w is free of occupying bookings of the item.
	IsAvailable(ctx context.Context, itemID string, w Window) (bool, error)
	LastNext(ctx context.Context, itemID string) (LastNext, error)
	// HasFinishedBooking reports whether userID has an approved booking of itemID that already ended.
	HasFinishedBooking(ctx context.Context, itemID, userID string) (bool, error)
}

type service struct {
	repo        Repository
	itemService item.Service
	userService user.Service
	cache       SummaryCache
	clock       clock.Clock
	policy      Policy
	logger      zerolog.Logger
}

func NewService(
	repo Repository,
	itemService item.Service,
	userService user.Service,
	cache SummaryCache,
	clk clock.Clock,
	policy Policy,
	logger zerolog.Logger,
) Service {
	if cache == nil {
		cache = noopSummaryCache{}
	}
	return &service{
		repo:        repo,
		itemService: itemService,
		userService: userService,
		cache:       cache,
		clock:       clk,
		policy:      policy,
		logger:      logger.With().Str("component", "booking").Logger(),
	}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Booking, error) {
	it, err := s.itemService.GetByID(ctx, req.ItemID)
	if err != nil {
		if errors.Is(err, item.ErrNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, err
	}

	booker, err := s.userService.GetByID(ctx, req.BookerID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, ErrBookerNotFound
		}
		return nil, err
	}

	w := Window{Start: req.StartTime, End: req.EndTime}
	b, err := NewWaiting(it, booker, w, s.clock.Now(), s.policy)
	if err != nil {
		s.logger.Debug().Err(err).Str("item_id", it.ID).Str("booker_id", booker.ID).Msg("booking rejected")
		return nil, err
	}

	err = s.repo.InTx(ctx, func(tx TxRepository) error {
		if err := tx.LockItem(ctx, b.ItemID); err != nil {
			return err
		}
		conflict, err := tx.HasOverlap(ctx, b.ItemID, w, s.policy.OccupyingStatuses(), "")
		if err != nil {
			return err
		}
		if conflict {
			return ErrTimeConflict
		}
		return tx.Create(ctx, b)
	})
	if err != nil {
		return nil, err
	}

	metrics.IncBookingCreated()
	s.logger.Info().
		Str("booking_id", b.ID).
		Str("item_id", b.ItemID).
		Str("status", string(b.Status)).
		Msg("booking created")

	return b, nil
}

func (s *service) Approve(ctx context.Context, bookingID, ownerID string, approved bool) (*Booking, error) {
	var b *Booking
	err := s.repo.InTx(ctx, func(tx TxRepository) error {
		var err error
		b, err = tx.GetForUpdate(ctx, bookingID)
		if err != nil {
			return err
		}

		if err := Decide(b, ownerID, approved, s.policy); err != nil {
			return err
		}

		if b.Status == StatusApproved {
			if err := tx.LockItem(ctx, b.ItemID); err != nil {
				return err
			}
			conflict, err := tx.HasOverlap(ctx, b.ItemID, b.Window(), []Status{StatusApproved}, b.ID)
			if err != nil {
				return err
			}
			if conflict {
				return ErrTimeConflict
			}
		}

		return tx.UpdateStatus(ctx, b)
	})
	if err != nil {
		s.logger.Debug().Err(err).Str("booking_id", bookingID).Msg("booking decision rejected")
		return nil, err
	}

	if err := s.cache.Invalidate(ctx, b.ItemID); err != nil {
		s.logger.Warn().Err(err).Str("item_id", b.ItemID).Msg("failed to invalidate booking summary")
	}

	metrics.IncBookingDecision(string(b.Status))
	s.logger.Info().
		Str("booking_id", b.ID).
		Str("item_id", b.ItemID).
		Str("status", string(b.Status)).
		Msg("booking decided")

	return b, nil
}

func (s *service) Get(ctx context.Context, bookingID, requesterID string) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if _, err := s.userService.GetByID(ctx, requesterID); err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if b.BookerID != requesterID && b.OwnerID != requesterID {
		return nil, ErrAccessDenied
	}
	return b, nil
}

func (s *service) ListByBooker(ctx context.Context, bookerID string, state State, page, pageSize int) ([]*Booking, int, error) {
	return s.repo.List(ctx, Filter{
		BookerID: bookerID,
		Criteria: NewCriteria(state, s.clock.Now()),
		Page:     page,
		PageSize: pageSize,
	})
}

func (s *service) ListByOwner(ctx context.Context, ownerID string, state State, page, pageSize int) ([]*Booking, int, error) {
	if _, err := s.userService.GetByID(ctx, ownerID); err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, 0, ErrUserNotFound
		}
		return nil, 0, err
	}

	return s.repo.List(ctx, Filter{
		OwnerID:  ownerID,
		Criteria: NewCriteria(state, s.clock.Now()),
		Page:     page,
		PageSize: pageSize,
	})
}

func (s *service) IsAvailable(ctx context.Context, itemID string, w Window) (bool, error) {
	if err := w.Validate(); err != nil {
		return false, err
	}
	bookings, err := s.repo.ListByItem(ctx, itemID, s.policy.OccupyingStatuses())
	if err != nil {
		return false, err
	}
	return !HasConflict(bookings, w, s.policy), nil
}

func (s *service) LastNext(ctx context.Context, itemID string) (LastNext, error) {
	// gen is read before the store so a decision committed in between
	// leaves the pair below under an outdated generation.
	cached, gen, ok, err := s.cache.Get(ctx, itemID)
	if err != nil {
		s.logger.Warn().Err(err).Str("item_id", itemID).Msg("failed to read booking summary")
	} else if ok {
		return cached, nil
	}
	cacheable := err == nil

	bookings, err := s.repo.ListByItem(ctx, itemID, []Status{StatusApproved})
	if err != nil {
		return LastNext{}, err
	}

	now := s.clock.Now()
	ln := ResolveLastNext(bookings, now)

	if cacheable {
		if err := s.cache.Set(ctx, itemID, gen, ln, ln.ttl(now, s.cache.TTL())); err != nil {
			s.logger.Warn().Err(err).Str("item_id", itemID).Msg("failed to store booking summary")
		}
	}
	return ln, nil
}

func (s *service) HasFinishedBooking(ctx context.Context, itemID, userID string) (bool, error) {
	return s.repo.HasFinished(ctx, itemID, userID, s.clock.Now())
}
