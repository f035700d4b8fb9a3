package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"stock-service/internal/models"
	"stock-service/internal/repository"
)

// MockStockRepository is a mock implementation of repository.StockRepository
type MockStockRepository struct {
	mock.Mock
}

var _ repository.StockRepository = (*MockStockRepository)(nil)

// WithTransaction executes the callback with the mock itself, simulating a
// transaction without a real database
func (m *MockStockRepository) WithTransaction(ctx context.Context, fn func(txRepo repository.StockRepository) error) error {
	return fn(m)
}

func (m *MockStockRepository) CreateKind(ctx context.Context, societyID uuid.UUID, kind *models.StockItemKind) error {
	args := m.Called(ctx, societyID, kind)
	return args.Error(0)
}

func (m *MockStockRepository) ListKinds(ctx context.Context, societyID uuid.UUID) ([]models.StockItemKind, error) {
	args := m.Called(ctx, societyID)
	return args.Get(0).([]models.StockItemKind), args.Error(1)
}

func (m *MockStockRepository) GetKindByID(ctx context.Context, societyID, id uuid.UUID) (*models.StockItemKind, error) {
	args := m.Called(ctx, societyID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.StockItemKind), args.Error(1)
}

func (m *MockStockRepository) UpdateKind(ctx context.Context, societyID, id uuid.UUID, updates map[string]interface{}) error {
	args := m.Called(ctx, societyID, id, updates)
	return args.Error(0)
}

func (m *MockStockRepository) DeleteKind(ctx context.Context, societyID, id uuid.UUID) error {
	args := m.Called(ctx, societyID, id)
	return args.Error(0)
}

func (m *MockStockRepository) CreateItem(ctx context.Context, societyID uuid.UUID, item *models.StockItem) error {
	args := m.Called(ctx, societyID, item)
	return args.Error(0)
}

func (m *MockStockRepository) GetItemByID(ctx context.Context, societyID, id uuid.UUID) (*models.StockItem, error) {
	args := m.Called(ctx, societyID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.StockItem), args.Error(1)
}

func (m *MockStockRepository) ListItems(ctx context.Context, societyID uuid.UUID, activeOnly bool, page, limit int) ([]models.StockItem, int64, error) {
	args := m.Called(ctx, societyID, activeOnly, page, limit)
	return args.Get(0).([]models.StockItem), args.Get(1).(int64), args.Error(2)
}

func (m *MockStockRepository) UpdateItem(ctx context.Context, societyID, id uuid.UUID, updates map[string]interface{}) error {
	args := m.Called(ctx, societyID, id, updates)
	return args.Error(0)
}

func (m *MockStockRepository) DeleteItem(ctx context.Context, societyID, id uuid.UUID) error {
	args := m.Called(ctx, societyID, id)
	return args.Error(0)
}

func (m *MockStockRepository) CountItems(ctx context.Context, societyID uuid.UUID) (int64, error) {
	args := m.Called(ctx, societyID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStockRepository) CountLowStockItems(ctx context.Context, societyID uuid.UUID) (int64, error) {
	args := m.Called(ctx, societyID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStockRepository) AddStock(ctx context.Context, societyID, itemID uuid.UUID, quantity int) error {
	args := m.Called(ctx, societyID, itemID, quantity)
	return args.Error(0)
}

func (m *MockStockRepository) TakeStock(ctx context.Context, societyID, itemID uuid.UUID, quantity int) error {
	args := m.Called(ctx, societyID, itemID, quantity)
	return args.Error(0)
}

func (m *MockStockRepository) CreateDrawer(ctx context.Context, societyID uuid.UUID, drawer *models.Drawer) error {
	args := m.Called(ctx, societyID, drawer)
	return args.Error(0)
}

func (m *MockStockRepository) GetDrawerByID(ctx context.Context, societyID, id uuid.UUID) (*models.Drawer, error) {
	args := m.Called(ctx, societyID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Drawer), args.Error(1)
}

func (m *MockStockRepository) ListDrawers(ctx context.Context, societyID uuid.UUID) ([]models.Drawer, error) {
	args := m.Called(ctx, societyID)
	return args.Get(0).([]models.Drawer), args.Error(1)
}

func (m *MockStockRepository) UpdateDrawer(ctx context.Context, societyID, id uuid.UUID, updates map[string]interface{}) error {
	args := m.Called(ctx, societyID, id, updates)
	return args.Error(0)
}

func (m *MockStockRepository) DeleteDrawer(ctx context.Context, societyID, id uuid.UUID) error {
	args := m.Called(ctx, societyID, id)
	return args.Error(0)
}

func (m *MockStockRepository) UpsertPlacement(ctx context.Context, societyID, itemID, drawerID uuid.UUID, quantity int) error {
	args := m.Called(ctx, societyID, itemID, drawerID, quantity)
	return args.Error(0)
}

func (m *MockStockRepository) AddToPlacement(ctx context.Context, societyID, itemID, drawerID uuid.UUID, quantity int) error {
	args := m.Called(ctx, societyID, itemID, drawerID, quantity)
	return args.Error(0)
}

func (m *MockStockRepository) TakeFromPlacement(ctx context.Context, societyID, itemID, drawerID uuid.UUID, quantity int) error {
	args := m.Called(ctx, societyID, itemID, drawerID, quantity)
	return args.Error(0)
}

func (m *MockStockRepository) ListPlacementsForItem(ctx context.Context, societyID, itemID uuid.UUID) ([]models.DrawerPlacement, error) {
	args := m.Called(ctx, societyID, itemID)
	return args.Get(0).([]models.DrawerPlacement), args.Error(1)
}

func (m *MockStockRepository) ListPlacementsForItems(ctx context.Context, societyID uuid.UUID, itemIDs []uuid.UUID) ([]models.DrawerPlacement, error) {
	args := m.Called(ctx, societyID, itemIDs)
	return args.Get(0).([]models.DrawerPlacement), args.Error(1)
}

func (m *MockStockRepository) DeletePlacement(ctx context.Context, societyID, id uuid.UUID) error {
	args := m.Called(ctx, societyID, id)
	return args.Error(0)
}

func (m *MockStockRepository) CreateMovement(ctx context.Context, societyID uuid.UUID, movement *models.Movement) error {
	args := m.Called(ctx, societyID, movement)
	if args.Error(0) == nil {
		movement.ID = uuid.New()
		movement.Timestamp = time.Now()
	}
	return args.Error(0)
}

func (m *MockStockRepository) ListMovements(ctx context.Context, societyID uuid.UUID, page, limit int) ([]models.Movement, int64, error) {
	args := m.Called(ctx, societyID, page, limit)
	return args.Get(0).([]models.Movement), args.Get(1).(int64), args.Error(2)
}

func (m *MockStockRepository) ListMovementsForItem(ctx context.Context, societyID, itemID uuid.UUID, limit int) ([]models.Movement, error) {
	args := m.Called(ctx, societyID, itemID, limit)
	return args.Get(0).([]models.Movement), args.Error(1)
}

func (m *MockStockRepository) CreateObjectUser(ctx context.Context, societyID uuid.UUID, objectUser *models.ObjectUser) error {
	args := m.Called(ctx, societyID, objectUser)
	return args.Error(0)
}

func (m *MockStockRepository) GetObjectUserByID(ctx context.Context, societyID, id uuid.UUID) (*models.ObjectUser, error) {
	args := m.Called(ctx, societyID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ObjectUser), args.Error(1)
}

func (m *MockStockRepository) ListObjectUsers(ctx context.Context, societyID uuid.UUID) ([]models.ObjectUser, error) {
	args := m.Called(ctx, societyID)
	return args.Get(0).([]models.ObjectUser), args.Error(1)
}

func (m *MockStockRepository) UpdateObjectUser(ctx context.Context, societyID, id uuid.UUID, updates map[string]interface{}) error {
	args := m.Called(ctx, societyID, id, updates)
	return args.Error(0)
}

func (m *MockStockRepository) DeleteObjectUser(ctx context.Context, societyID, id uuid.UUID) error {
	args := m.Called(ctx, societyID, id)
	return args.Error(0)
}

func (m *MockStockRepository) CreateUsage(ctx context.Context, societyID uuid.UUID, usage *models.Usage) error {
	args := m.Called(ctx, societyID, usage)
	if args.Error(0) == nil {
		usage.ID = uuid.New()
		usage.LoggedAt = time.Now()
	}
	return args.Error(0)
}

func (m *MockStockRepository) ListUsages(ctx context.Context, societyID uuid.UUID, page, limit int) ([]models.Usage, int64, error) {
	args := m.Called(ctx, societyID, page, limit)
	return args.Get(0).([]models.Usage), args.Get(1).(int64), args.Error(2)
}

func (m *MockStockRepository) ListUsagesForItem(ctx context.Context, societyID, itemID uuid.UUID, limit int) ([]models.Usage, error) {
	args := m.Called(ctx, societyID, itemID, limit)
	return args.Get(0).([]models.Usage), args.Error(1)
}

func (m *MockStockRepository) SumUsageSince(ctx context.Context, societyID, itemID uuid.UUID, since time.Time) (int, error) {
	args := m.Called(ctx, societyID, itemID, since)
	return args.Int(0), args.Error(1)
}

func (m *MockStockRepository) CreateRefill(ctx context.Context, societyID uuid.UUID, refill *models.RefillSchedule) error {
	args := m.Called(ctx, societyID, refill)
	if args.Error(0) == nil {
		refill.ID = uuid.New()
	}
	return args.Error(0)
}

func (m *MockStockRepository) GetRefillByID(ctx context.Context, societyID, id uuid.UUID) (*models.RefillSchedule, error) {
	args := m.Called(ctx, societyID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RefillSchedule), args.Error(1)
}

func (m *MockStockRepository) ListRefills(ctx context.Context, societyID uuid.UUID, pendingOnly bool) ([]models.RefillSchedule, error) {
	args := m.Called(ctx, societyID, pendingOnly)
	return args.Get(0).([]models.RefillSchedule), args.Error(1)
}

func (m *MockStockRepository) ListRefillsForItem(ctx context.Context, societyID, itemID uuid.UUID, limit int) ([]models.RefillSchedule, error) {
	args := m.Called(ctx, societyID, itemID, limit)
	return args.Get(0).([]models.RefillSchedule), args.Error(1)
}

func (m *MockStockRepository) MarkRefillCompleted(ctx context.Context, societyID, id uuid.UUID, completedDate time.Time) error {
	args := m.Called(ctx, societyID, id, completedDate)
	return args.Error(0)
}

func (m *MockStockRepository) UpcomingRefills(ctx context.Context, societyID uuid.UUID, from time.Time, limit int) ([]models.RefillSchedule, error) {
	args := m.Called(ctx, societyID, from, limit)
	return args.Get(0).([]models.RefillSchedule), args.Error(1)
}

// MockSocietyRepository is a mock implementation of repository.SocietyRepository
type MockSocietyRepository struct {
	mock.Mock
}

var _ repository.SocietyRepository = (*MockSocietyRepository)(nil)

func (m *MockSocietyRepository) CreateSocietyWithAdmin(ctx context.Context, society *models.Society, admin *models.User, membership *models.Membership) error {
	args := m.Called(ctx, society, admin, membership)
	if args.Error(0) == nil {
		society.ID = uuid.New()
		admin.ID = uuid.New()
		membership.UserID = admin.ID
		membership.SocietyID = society.ID
	}
	return args.Error(0)
}

func (m *MockSocietyRepository) GetSocietyByID(ctx context.Context, id uuid.UUID) (*models.Society, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Society), args.Error(1)
}

func (m *MockSocietyRepository) GetSocietyByName(ctx context.Context, name string) (*models.Society, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Society), args.Error(1)
}

func (m *MockSocietyRepository) UpdateSociety(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	args := m.Called(ctx, id, updates)
	return args.Error(0)
}

func (m *MockSocietyRepository) FindUsersByIdentifier(ctx context.Context, identifier string) ([]models.User, error) {
	args := m.Called(ctx, identifier)
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *MockSocietyRepository) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockSocietyRepository) UpdateUserLastLogin(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockSocietyRepository) GetMembership(ctx context.Context, societyID, userID uuid.UUID) (*models.Membership, error) {
	args := m.Called(ctx, societyID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Membership), args.Error(1)
}

func (m *MockSocietyRepository) ListMembers(ctx context.Context, societyID uuid.UUID) ([]models.MemberInfo, error) {
	args := m.Called(ctx, societyID)
	return args.Get(0).([]models.MemberInfo), args.Error(1)
}

func (m *MockSocietyRepository) CountAdmins(ctx context.Context, societyID uuid.UUID, excludeUserID *uuid.UUID) (int64, error) {
	args := m.Called(ctx, societyID, excludeUserID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSocietyRepository) CountActiveUsers(ctx context.Context, societyID uuid.UUID, excludeUserID *uuid.UUID) (int64, error) {
	args := m.Called(ctx, societyID, excludeUserID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSocietyRepository) CreateMember(ctx context.Context, user *models.User, membership *models.Membership) error {
	args := m.Called(ctx, user, membership)
	if args.Error(0) == nil {
		user.ID = uuid.New()
		membership.UserID = user.ID
	}
	return args.Error(0)
}

func (m *MockSocietyRepository) UpdateMember(ctx context.Context, societyID, userID uuid.UUID, userUpdates, membershipUpdates map[string]interface{}) error {
	args := m.Called(ctx, societyID, userID, userUpdates, membershipUpdates)
	return args.Error(0)
}

func (m *MockSocietyRepository) DeleteMember(ctx context.Context, societyID, userID uuid.UUID) error {
	args := m.Called(ctx, societyID, userID)
	return args.Error(0)
}

func (m *MockSocietyRepository) UsernameTaken(ctx context.Context, username string) (bool, error) {
	args := m.Called(ctx, username)
	return args.Bool(0), args.Error(1)
}

func (m *MockSocietyRepository) EmailTaken(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}
