package booking

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/nekogravitycat/shareit-backend/internal/item"
	"github.com/nekogravitycat/shareit-backend/internal/user"
)

type mockRepository struct {
	mock.Mock
	tx *mockTxRepository
}

func (m *mockRepository) GetByID(ctx context.Context, id string) (*Booking, error) {
	args := m.Called(ctx, id)
	b, _ := args.Get(0).(*Booking)
	return b, args.Error(1)
}

func (m *mockRepository) List(ctx context.Context, filter Filter) ([]*Booking, int, error) {
	args := m.Called(ctx, filter)
	bookings, _ := args.Get(0).([]*Booking)
	return bookings, args.Int(1), args.Error(2)
}

func (m *mockRepository) ListByItem(ctx context.Context, itemID string, statuses []Status) ([]*Booking, error) {
	args := m.Called(ctx, itemID, statuses)
	bookings, _ := args.Get(0).([]*Booking)
	return bookings, args.Error(1)
}

func (m *mockRepository) HasFinished(ctx context.Context, itemID, bookerID string, now time.Time) (bool, error) {
	args := m.Called(ctx, itemID, bookerID, now)
	return args.Bool(0), args.Error(1)
}

// InTx hands the embedded transactional mock to fn, so tests set
// expectations on m.tx directly.
func (m *mockRepository) InTx(ctx context.Context, fn func(tx TxRepository) error) error {
	return fn(m.tx)
}

type mockTxRepository struct {
	mock.Mock
}

func (m *mockTxRepository) LockItem(ctx context.Context, itemID string) error {
	return m.Called(ctx, itemID).Error(0)
}

func (m *mockTxRepository) GetForUpdate(ctx context.Context, id string) (*Booking, error) {
	args := m.Called(ctx, id)
	b, _ := args.Get(0).(*Booking)
	return b, args.Error(1)
}

func (m *mockTxRepository) HasOverlap(ctx context.Context, itemID string, w Window, statuses []Status, excludeID string) (bool, error) {
	args := m.Called(ctx, itemID, w, statuses, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *mockTxRepository) Create(ctx context.Context, b *Booking) error {
	return m.Called(ctx, b).Error(0)
}

func (m *mockTxRepository) UpdateStatus(ctx context.Context, b *Booking) error {
	return m.Called(ctx, b).Error(0)
}

type mockItemService struct {
	mock.Mock
}

func (m *mockItemService) Create(ctx context.Context, req item.CreateRequest) (*item.Item, error) {
	args := m.Called(ctx, req)
	it, _ := args.Get(0).(*item.Item)
	return it, args.Error(1)
}

func (m *mockItemService) GetByID(ctx context.Context, id string) (*item.Item, error) {
	args := m.Called(ctx, id)
	it, _ := args.Get(0).(*item.Item)
	return it, args.Error(1)
}

func (m *mockItemService) Update(ctx context.Context, id, actorID string, req item.UpdateRequest) (*item.Item, error) {
	args := m.Called(ctx, id, actorID, req)
	it, _ := args.Get(0).(*item.Item)
	return it, args.Error(1)
}

func (m *mockItemService) ListByOwner(ctx context.Context, ownerID string, page, pageSize int) ([]*item.Item, int, error) {
	args := m.Called(ctx, ownerID, page, pageSize)
	items, _ := args.Get(0).([]*item.Item)
	return items, args.Int(1), args.Error(2)
}

func (m *mockItemService) Search(ctx context.Context, text string, page, pageSize int) ([]*item.Item, int, error) {
	args := m.Called(ctx, text, page, pageSize)
	items, _ := args.Get(0).([]*item.Item)
	return items, args.Int(1), args.Error(2)
}

func (m *mockItemService) ListByRequests(ctx context.Context, requestIDs []string) (map[string][]*item.Item, error) {
	args := m.Called(ctx, requestIDs)
	grouped, _ := args.Get(0).(map[string][]*item.Item)
	return grouped, args.Error(1)
}

type mockUserService struct {
	mock.Mock
}

func (m *mockUserService) Register(ctx context.Context, email, password, displayName string) (*user.User, error) {
	args := m.Called(ctx, email, password, displayName)
	u, _ := args.Get(0).(*user.User)
	return u, args.Error(1)
}

func (m *mockUserService) Login(ctx context.Context, email, password string) (*user.User, error) {
	args := m.Called(ctx, email, password)
	u, _ := args.Get(0).(*user.User)
	return u, args.Error(1)
}

func (m *mockUserService) GetByID(ctx context.Context, id string) (*user.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*user.User)
	return u, args.Error(1)
}

func (m *mockUserService) Update(ctx context.Context, id string, req user.UpdateRequest) (*user.User, error) {
	args := m.Called(ctx, id, req)
	u, _ := args.Get(0).(*user.User)
	return u, args.Error(1)
}

func (m *mockUserService) List(ctx context.Context, filter user.UserFilter) ([]*user.User, int, error) {
	args := m.Called(ctx, filter)
	users, _ := args.Get(0).([]*user.User)
	return users, args.Int(1), args.Error(2)
}
