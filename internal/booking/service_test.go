package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/nekogravitycat/shareit-backend/internal/item"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/clock"
	"github.com/nekogravitycat/shareit-backend/internal/user"
)

type ServiceSuite struct {
	suite.Suite

	ctx   context.Context
	now   time.Time
	clock *clock.MockClock
	repo  *mockRepository
	items *mockItemService
	users *mockUserService
	svc   Service
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.now = at(9)
	s.clock = clock.NewMockClock(s.now)
	s.repo = &mockRepository{tx: &mockTxRepository{}}
	s.items = new(mockItemService)
	s.users = new(mockUserService)
	s.svc = NewService(s.repo, s.items, s.users, nil, s.clock, DefaultPolicy(), zerolog.Nop())
}

func (s *ServiceSuite) TearDownTest() {
	s.repo.AssertExpectations(s.T())
	s.repo.tx.AssertExpectations(s.T())
	s.items.AssertExpectations(s.T())
	s.users.AssertExpectations(s.T())
}

func (s *ServiceSuite) createRequest(from, to int) CreateRequest {
	return CreateRequest{ItemID: "item-1", BookerID: "booker-1", StartTime: at(from), EndTime: at(to)}
}

func (s *ServiceSuite) expectLookups(available bool) {
	s.items.On("GetByID", s.ctx, "item-1").Return(testItem(available), nil)
	s.users.On("GetByID", s.ctx, "booker-1").Return(testBooker(), nil)
}

func (s *ServiceSuite) TestCreateSuccess() {
	s.expectLookups(true)
	w := Window{Start: at(10), End: at(12)}
	s.repo.tx.On("LockItem", s.ctx, "item-1").Return(nil)
	s.repo.tx.On("HasOverlap", s.ctx, "item-1", w, []Status{StatusApproved}, "").Return(false, nil)
	s.repo.tx.On("Create", s.ctx, mock.AnythingOfType("*booking.Booking")).
		Run(func(args mock.Arguments) { args.Get(1).(*Booking).ID = "b-new" }).
		Return(nil)

	b, err := s.svc.Create(s.ctx, s.createRequest(10, 12))
	s.Require().NoError(err)
	s.Equal("b-new", b.ID)
	s.Equal(StatusWaiting, b.Status)
}

func (s *ServiceSuite) TestCreateOverlapRejected() {
	s.expectLookups(true)
	w := Window{Start: at(11), End: at(13)}
	s.repo.tx.On("LockItem", s.ctx, "item-1").Return(nil)
	s.repo.tx.On("HasOverlap", s.ctx, "item-1", w, []Status{StatusApproved}, "").Return(true, nil)

	_, err := s.svc.Create(s.ctx, s.createRequest(11, 13))
	s.ErrorIs(err, ErrTimeConflict)
	s.repo.tx.AssertNotCalled(s.T(), "Create", mock.Anything, mock.Anything)
}

func (s *ServiceSuite) TestCreateInvalidWindowNeverPersists() {
	s.expectLookups(true)

	_, err := s.svc.Create(s.ctx, s.createRequest(12, 12))
	s.ErrorIs(err, ErrInvalidTimeRange)
	s.repo.tx.AssertNotCalled(s.T(), "LockItem", mock.Anything, mock.Anything)
}

func (s *ServiceSuite) TestCreateUnavailableItem() {
	s.expectLookups(false)

	_, err := s.svc.Create(s.ctx, s.createRequest(10, 12))
	s.ErrorIs(err, ErrItemUnavailable)
}

func (s *ServiceSuite) TestCreateMissingItem() {
	s.items.On("GetByID", s.ctx, "item-1").Return(nil, item.ErrNotFound)

	_, err := s.svc.Create(s.ctx, s.createRequest(10, 12))
	s.ErrorIs(err, ErrItemNotFound)
}

func (s *ServiceSuite) TestCreateMissingBooker() {
	s.items.On("GetByID", s.ctx, "item-1").Return(testItem(true), nil)
	s.users.On("GetByID", s.ctx, "booker-1").Return(nil, user.ErrNotFound)

	_, err := s.svc.Create(s.ctx, s.createRequest(10, 12))
	s.ErrorIs(err, ErrBookerNotFound)
}

func (s *ServiceSuite) TestCreateWaitingOccupiesPolicy() {
	policy := DefaultPolicy()
	policy.WaitingOccupies = true
	s.svc = NewService(s.repo, s.items, s.users, nil, s.clock, policy, zerolog.Nop())

	s.expectLookups(true)
	w := Window{Start: at(10), End: at(12)}
	s.repo.tx.On("LockItem", s.ctx, "item-1").Return(nil)
	s.repo.tx.On("HasOverlap", s.ctx, "item-1", w, []Status{StatusApproved, StatusWaiting}, "").Return(true, nil)

	_, err := s.svc.Create(s.ctx, s.createRequest(10, 12))
	s.ErrorIs(err, ErrTimeConflict)
}

func (s *ServiceSuite) waitingBooking() *Booking {
	return &Booking{
		ID: "b1", ItemID: "item-1", OwnerID: "owner-1", BookerID: "booker-1",
		StartTime: at(10), EndTime: at(12), Status: StatusWaiting,
	}
}

func (s *ServiceSuite) TestApprove() {
	b := s.waitingBooking()
	s.repo.tx.On("GetForUpdate", s.ctx, "b1").Return(b, nil)
	s.repo.tx.On("LockItem", s.ctx, "item-1").Return(nil)
	s.repo.tx.On("HasOverlap", s.ctx, "item-1", b.Window(), []Status{StatusApproved}, "b1").Return(false, nil)
	s.repo.tx.On("UpdateStatus", s.ctx, b).Return(nil)

	got, err := s.svc.Approve(s.ctx, "b1", "owner-1", true)
	s.Require().NoError(err)
	s.Equal(StatusApproved, got.Status)
}

func (s *ServiceSuite) TestReject() {
	b := s.waitingBooking()
	s.repo.tx.On("GetForUpdate", s.ctx, "b1").Return(b, nil)
	s.repo.tx.On("UpdateStatus", s.ctx, b).Return(nil)

	got, err := s.svc.Approve(s.ctx, "b1", "owner-1", false)
	s.Require().NoError(err)
	s.Equal(StatusRejected, got.Status)
	s.repo.tx.AssertNotCalled(s.T(), "HasOverlap", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *ServiceSuite) TestApproveByNonOwner() {
	s.repo.tx.On("GetForUpdate", s.ctx, "b1").Return(s.waitingBooking(), nil)

	_, err := s.svc.Approve(s.ctx, "b1", "booker-1", true)
	s.ErrorIs(err, ErrNotItemOwner)
	s.repo.tx.AssertNotCalled(s.T(), "UpdateStatus", mock.Anything, mock.Anything)
}

func (s *ServiceSuite) TestApproveMissing() {
	s.repo.tx.On("GetForUpdate", s.ctx, "nope").Return(nil, ErrNotFound)

	_, err := s.svc.Approve(s.ctx, "nope", "owner-1", true)
	s.ErrorIs(err, ErrNotFound)
}

func (s *ServiceSuite) TestApproveConflictWithApproved() {
	b := s.waitingBooking()
	s.repo.tx.On("GetForUpdate", s.ctx, "b1").Return(b, nil)
	s.repo.tx.On("LockItem", s.ctx, "item-1").Return(nil)
	s.repo.tx.On("HasOverlap", s.ctx, "item-1", b.Window(), []Status{StatusApproved}, "b1").Return(true, nil)

	_, err := s.svc.Approve(s.ctx, "b1", "owner-1", true)
	s.ErrorIs(err, ErrTimeConflict)
}

func (s *ServiceSuite) TestGet() {
	b := s.waitingBooking()

	s.Run("booker", func() {
		s.repo.On("GetByID", s.ctx, "b1").Return(b, nil).Once()
		s.users.On("GetByID", s.ctx, "booker-1").Return(&user.User{ID: "booker-1"}, nil).Once()
		got, err := s.svc.Get(s.ctx, "b1", "booker-1")
		s.Require().NoError(err)
		s.Equal("b1", got.ID)
	})

	s.Run("owner", func() {
		s.repo.On("GetByID", s.ctx, "b1").Return(b, nil).Once()
		s.users.On("GetByID", s.ctx, "owner-1").Return(&user.User{ID: "owner-1"}, nil).Once()
		_, err := s.svc.Get(s.ctx, "b1", "owner-1")
		s.NoError(err)
	})

	s.Run("third party", func() {
		s.repo.On("GetByID", s.ctx, "b1").Return(b, nil).Once()
		s.users.On("GetByID", s.ctx, "stranger").Return(&user.User{ID: "stranger"}, nil).Once()
		_, err := s.svc.Get(s.ctx, "b1", "stranger")
		s.ErrorIs(err, ErrAccessDenied)
	})

	s.Run("missing booking", func() {
		s.repo.On("GetByID", s.ctx, "nope").Return(nil, ErrNotFound).Once()
		_, err := s.svc.Get(s.ctx, "nope", "booker-1")
		s.ErrorIs(err, ErrNotFound)
	})
}

func (s *ServiceSuite) TestListByBookerUsesClock() {
	want := []*Booking{s.waitingBooking()}
	s.repo.On("List", s.ctx, Filter{
		BookerID: "booker-1",
		Criteria: Criteria{State: StatePast, Now: s.now},
		Page:     1,
		PageSize: 20,
	}).Return(want, 1, nil)

	got, total, err := s.svc.ListByBooker(s.ctx, "booker-1", StatePast, 1, 20)
	s.Require().NoError(err)
	s.Equal(1, total)
	s.Equal(want, got)
}

func (s *ServiceSuite) TestListByOwnerRequiresOwner() {
	s.users.On("GetByID", s.ctx, "ghost").Return(nil, user.ErrNotFound)

	_, _, err := s.svc.ListByOwner(s.ctx, "ghost", StateAll, 1, 20)
	s.ErrorIs(err, ErrUserNotFound)
}

func (s *ServiceSuite) TestListByOwner() {
	s.users.On("GetByID", s.ctx, "owner-1").Return(&user.User{ID: "owner-1"}, nil)
	s.repo.On("List", s.ctx, Filter{
		OwnerID:  "owner-1",
		Criteria: Criteria{State: StateWaiting, Now: s.now},
		Page:     2,
		PageSize: 5,
	}).Return([]*Booking{}, 0, nil)

	_, _, err := s.svc.ListByOwner(s.ctx, "owner-1", StateWaiting, 2, 5)
	s.NoError(err)
}

func (s *ServiceSuite) TestIsAvailable() {
	s.repo.On("ListByItem", s.ctx, "item-1", []Status{StatusApproved}).
		Return([]*Booking{booked("b1", StatusApproved, 10, 12)}, nil)

	ok, err := s.svc.IsAvailable(s.ctx, "item-1", Window{Start: at(11), End: at(13)})
	s.Require().NoError(err)
	s.False(ok)

	ok, err = s.svc.IsAvailable(s.ctx, "item-1", Window{Start: at(12), End: at(14)})
	s.Require().NoError(err)
	s.True(ok)
}

func (s *ServiceSuite) TestHasFinishedBooking() {
	s.repo.On("HasFinished", s.ctx, "item-1", "booker-1", s.now).Return(true, nil)

	ok, err := s.svc.HasFinishedBooking(s.ctx, "item-1", "booker-1")
	s.Require().NoError(err)
	s.True(ok)
}

func TestLastNextCaching(t *testing.T) {
	ctx := context.Background()
	now := at(48)

	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	repo := &mockRepository{tx: &mockTxRepository{}}
	svc := NewService(repo, new(mockItemService), new(mockUserService),
		NewRedisSummaryCache(client, 5*time.Minute), clock.NewMockClock(now), DefaultPolicy(), zerolog.Nop())

	approved := []*Booking{
		booked("y", StatusApproved, 20, 26),
		booked("t", StatusApproved, 70, 74),
	}
	approved[0].OwnerID = "owner-1"
	approved[1].OwnerID = "owner-1"
	repo.On("ListByItem", ctx, "item-1", []Status{StatusApproved}).Return(approved, nil).Once()

	first, err := svc.LastNext(ctx, "item-1")
	require.NoError(t, err)
	assert.Equal(t, "y", first.Last.ID)
	assert.Equal(t, "t", first.Next.ID)

	// Served from the cache: ListByItem is expected only once.
	second, err := svc.LastNext(ctx, "item-1")
	require.NoError(t, err)
	assert.Equal(t, "t", second.Next.ID)
	repo.AssertExpectations(t)

	// A decision invalidates the entry.
	waiting := &Booking{ID: "w", ItemID: "item-1", OwnerID: "owner-1", StartTime: at(80), EndTime: at(82), Status: StatusWaiting}
	repo.tx.On("GetForUpdate", ctx, "w").Return(waiting, nil)
	repo.tx.On("UpdateStatus", ctx, waiting).Return(nil)
	_, err = svc.Approve(ctx, "w", "owner-1", false)
	require.NoError(t, err)
	assert.False(t, mr.Exists(summaryKey("item-1", 0)))
}

func TestLastNextDoesNotCacheAcrossDecision(t *testing.T) {
	ctx := context.Background()
	now := at(48)

	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	repo := &mockRepository{tx: &mockTxRepository{}}
	svc := NewService(repo, new(mockItemService), new(mockUserService),
		NewRedisSummaryCache(client, 5*time.Minute), clock.NewMockClock(now), DefaultPolicy(), zerolog.Nop())

	past := booked("y", StatusApproved, 20, 26)
	past.OwnerID = "owner-1"
	waiting := &Booking{ID: "w", ItemID: "item-1", OwnerID: "owner-1", StartTime: at(80), EndTime: at(82), Status: StatusWaiting}

	repo.tx.On("GetForUpdate", ctx, "w").Return(waiting, nil)
	repo.tx.On("LockItem", ctx, "item-1").Return(nil)
	repo.tx.On("HasOverlap", ctx, "item-1", waiting.Window(), []Status{StatusApproved}, "w").Return(false, nil)
	repo.tx.On("UpdateStatus", ctx, waiting).Return(nil)

	// The approval commits while the first lookup is reading the store.
	repo.On("ListByItem", ctx, "item-1", []Status{StatusApproved}).
		Run(func(mock.Arguments) {
			_, err := svc.Approve(ctx, "w", "owner-1", true)
			require.NoError(t, err)
		}).
		Return([]*Booking{past}, nil).Once()
	approved := *waiting
	approved.Status = StatusApproved
	repo.On("ListByItem", ctx, "item-1", []Status{StatusApproved}).
		Return([]*Booking{past, &approved}, nil).Once()

	first, err := svc.LastNext(ctx, "item-1")
	require.NoError(t, err)
	assert.Nil(t, first.Next)

	second, err := svc.LastNext(ctx, "item-1")
	require.NoError(t, err)
	require.NotNil(t, second.Next)
	assert.Equal(t, "w", second.Next.ID)
	repo.AssertExpectations(t)
}

func TestLastNextRepositoryError(t *testing.T) {
	ctx := context.Background()
	repo := &mockRepository{tx: &mockTxRepository{}}
	svc := NewService(repo, new(mockItemService), new(mockUserService), nil,
		clock.NewMockClock(at(0)), DefaultPolicy(), zerolog.Nop())

	boom := errors.New("db down")
	repo.On("ListByItem", ctx, "item-1", []Status{StatusApproved}).Return(nil, boom)

	_, err := svc.LastNext(ctx, "item-1")
	assert.ErrorIs(t, err, boom)
}
