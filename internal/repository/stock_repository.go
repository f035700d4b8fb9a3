package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"stock-service/internal/models"
)

// StockRepository defines all stock-domain persistence for one society at a
// time. The society ID is a required argument on every method and is applied
// as a WHERE clause in exactly one place per query, so cross-tenant reads or
// writes are impossible to express through this interface.
type StockRepository interface {
	// WithTransaction runs fn against a repository bound to a single
	// database transaction. Any error rolls the whole transaction back.
	WithTransaction(ctx context.Context, fn func(txRepo StockRepository) error) error

	// Stock item kinds
	CreateKind(ctx context.Context, societyID uuid.UUID, kind *models.StockItemKind) error
	ListKinds(ctx context.Context, societyID uuid.UUID) ([]models.StockItemKind, error)
	GetKindByID(ctx context.Context, societyID, id uuid.UUID) (*models.StockItemKind, error)
	UpdateKind(ctx context.Context, societyID, id uuid.UUID, updates map[string]interface{}) error
	DeleteKind(ctx context.Context, societyID, id uuid.UUID) error

	// Stock items
	CreateItem(ctx context.Context, societyID uuid.UUID, item *models.StockItem) error
	GetItemByID(ctx context.Context, societyID, id uuid.UUID) (*models.StockItem, error)
	ListItems(ctx context.Context, societyID uuid.UUID, activeOnly bool, page, limit int) ([]models.StockItem, int64, error)
	UpdateItem(ctx context.Context, societyID, id uuid.UUID, updates map[string]interface{}) error
	DeleteItem(ctx context.Context, societyID, id uuid.UUID) error
	CountItems(ctx context.Context, societyID uuid.UUID) (int64, error)
	CountLowStockItems(ctx context.Context, societyID uuid.UUID) (int64, error)

	// Quantity mutation. Both are guarded single-statement updates: the
	// decrement refuses to take the on-hand count below zero.
	AddStock(ctx context.Context, societyID, itemID uuid.UUID, quantity int) error
	TakeStock(ctx context.Context, societyID, itemID uuid.UUID, quantity int) error

	// Drawers
	CreateDrawer(ctx context.Context, societyID uuid.UUID, drawer *models.Drawer) error
	GetDrawerByID(ctx context.Context, societyID, id uuid.UUID) (*models.Drawer, error)
	ListDrawers(ctx context.Context, societyID uuid.UUID) ([]models.Drawer, error)
	UpdateDrawer(ctx context.Context, societyID, id uuid.UUID, updates map[string]interface{}) error
	DeleteDrawer(ctx context.Context, societyID, id uuid.UUID) error

	// Drawer placements
	UpsertPlacement(ctx context.Context, societyID, itemID, drawerID uuid.UUID, quantity int) error
	AddToPlacement(ctx context.Context, societyID, itemID, drawerID uuid.UUID, quantity int) error
	TakeFromPlacement(ctx context.Context, societyID, itemID, drawerID uuid.UUID, quantity int) error
	ListPlacementsForItem(ctx context.Context, societyID, itemID uuid.UUID) ([]models.DrawerPlacement, error)
	ListPlacementsForItems(ctx context.Context, societyID uuid.UUID, itemIDs []uuid.UUID) ([]models.DrawerPlacement, error)
	DeletePlacement(ctx context.Context, societyID, id uuid.UUID) error

	// Movement ledger (append-only)
	CreateMovement(ctx context.Context, societyID uuid.UUID, movement *models.Movement) error
	ListMovements(ctx context.Context, societyID uuid.UUID, page, limit int) ([]models.Movement, int64, error)
	ListMovementsForItem(ctx context.Context, societyID, itemID uuid.UUID, limit int) ([]models.Movement, error)

	// Object users
	CreateObjectUser(ctx context.Context, societyID uuid.UUID, objectUser *models.ObjectUser) error
	GetObjectUserByID(ctx context.Context, societyID, id uuid.UUID) (*models.ObjectUser, error)
	ListObjectUsers(ctx context.Context, societyID uuid.UUID) ([]models.ObjectUser, error)
	UpdateObjectUser(ctx context.Context, societyID, id uuid.UUID, updates map[string]interface{}) error
	DeleteObjectUser(ctx context.Context, societyID, id uuid.UUID) error

	// Usage log
	CreateUsage(ctx context.Context, societyID uuid.UUID, usage *models.Usage) error
	ListUsages(ctx context.Context, societyID uuid.UUID, page, limit int) ([]models.Usage, int64, error)
	ListUsagesForItem(ctx context.Context, societyID, itemID uuid.UUID, limit int) ([]models.Usage, error)
	SumUsageSince(ctx context.Context, societyID, itemID uuid.UUID, since time.Time) (int, error)

	// Refill schedules
	CreateRefill(ctx context.Context, societyID uuid.UUID, refill *models.RefillSchedule) error
	GetRefillByID(ctx context.Context, societyID, id uuid.UUID) (*models.RefillSchedule, error)
	ListRefills(ctx context.Context, societyID uuid.UUID, pendingOnly bool) ([]models.RefillSchedule, error)
	ListRefillsForItem(ctx context.Context, societyID, itemID uuid.UUID, limit int) ([]models.RefillSchedule, error)
	MarkRefillCompleted(ctx context.Context, societyID, id uuid.UUID, completedDate time.Time) error
	UpcomingRefills(ctx context.Context, societyID uuid.UUID, from time.Time, limit int) ([]models.RefillSchedule, error)
}

type stockRepository struct {
	db *gorm.DB
}

// NewStockRepository creates a gorm-backed StockRepository
func NewStockRepository(db *gorm.DB) StockRepository {
	return &stockRepository{db: db}
}

func (r *stockRepository) WithTransaction(ctx context.Context, fn func(txRepo StockRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&stockRepository{db: tx})
	})
}

// scoped is the single place the tenant filter is applied
func (r *stockRepository) scoped(ctx context.Context, societyID uuid.UUID) *gorm.DB {
	return r.db.WithContext(ctx).Where("society_id = ?", societyID)
}

func notFoundOr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// ========== Stock Item Kinds ==========

func (r *stockRepository) CreateKind(ctx context.Context, societyID uuid.UUID, kind *models.StockItemKind) error {
	kind.SocietyID = societyID
	return r.db.WithContext(ctx).Create(kind).Error
}

func (r *stockRepository) ListKinds(ctx context.Context, societyID uuid.UUID) ([]models.StockItemKind, error) {
	var kinds []models.StockItemKind
	err := r.scoped(ctx, societyID).Order("name ASC").Find(&kinds).Error
	return kinds, err
}

func (r *stockRepository) GetKindByID(ctx context.Context, societyID, id uuid.UUID) (*models.StockItemKind, error) {
	var kind models.StockItemKind
	err := r.scoped(ctx, societyID).Where("id = ?", id).First(&kind).Error
	if err != nil {
		return nil, notFoundOr(err)
	}
	return &kind, nil
}

func (r *stockRepository) UpdateKind(ctx context.Context, societyID, id uuid.UUID, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now()
	return r.checkAffected(r.scoped(ctx, societyID).Model(&models.StockItemKind{}).Where("id = ?", id).Updates(updates))
}

func (r *stockRepository) DeleteKind(ctx context.Context, societyID, id uuid.UUID) error {
	return r.checkAffected(r.scoped(ctx, societyID).Where("id = ?", id).Delete(&models.StockItemKind{}))
}

// ========== Stock Items ==========

func (r *stockRepository) CreateItem(ctx context.Context, societyID uuid.UUID, item *models.StockItem) error {
	item.SocietyID = societyID
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *stockRepository) GetItemByID(ctx context.Context, societyID, id uuid.UUID) (*models.StockItem, error) {
	var item models.StockItem
	err := r.scoped(ctx, societyID).Where("id = ?", id).Preload("Kind").First(&item).Error
	if err != nil {
		return nil, notFoundOr(err)
	}
	return &item, nil
}

func (r *stockRepository) ListItems(ctx context.Context, societyID uuid.UUID, activeOnly bool, page, limit int) ([]models.StockItem, int64, error) {
	var items []models.StockItem
	var total int64

	query := r.scoped(ctx, societyID)
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}

	if err := query.Model(&models.StockItem{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if page > 0 && limit > 0 {
		offset := (page - 1) * limit
		query = query.Offset(offset).Limit(limit)
	}

	err := query.Preload("Kind").Order("name ASC").Find(&items).Error
	return items, total, err
}

func (r *stockRepository) UpdateItem(ctx context.Context, societyID, id uuid.UUID, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now()
	return r.checkAffected(r.scoped(ctx, societyID).Model(&models.StockItem{}).Where("id = ?", id).Updates(updates))
}

func (r *stockRepository) DeleteItem(ctx context.Context, societyID, id uuid.UUID) error {
	return r.checkAffected(r.scoped(ctx, societyID).Where("id = ?", id).Delete(&models.StockItem{}))
}

func (r *stockRepository) CountItems(ctx context.Context, societyID uuid.UUID) (int64, error) {
	var count int64
	err := r.scoped(ctx, societyID).Model(&models.StockItem{}).Count(&count).Error
	return count, err
}

func (r *stockRepository) CountLowStockItems(ctx context.Context, societyID uuid.UUID) (int64, error) {
	var count int64
	err := r.scoped(ctx, societyID).Model(&models.StockItem{}).
		Where("current_quantity < minimum_quantity").
		Count(&count).Error
	return count, err
}

// ========== Quantity Mutation ==========

func (r *stockRepository) AddStock(ctx context.Context, societyID, itemID uuid.UUID, quantity int) error {
	result := r.scoped(ctx, societyID).Model(&models.StockItem{}).
		Where("id = ?", itemID).
		Updates(map[string]interface{}{
			"current_quantity": gorm.Expr("current_quantity + ?", quantity),
			"updated_at":       time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// TakeStock decrements the on-hand count only when enough stock is present.
// The sufficiency check and the write are one UPDATE, so concurrent takers
// cannot drive the count negative regardless of isolation level.
func (r *stockRepository) TakeStock(ctx context.Context, societyID, itemID uuid.UUID, quantity int) error {
	result := r.scoped(ctx, societyID).Model(&models.StockItem{}).
		Where("id = ? AND current_quantity >= ?", itemID, quantity).
		Updates(map[string]interface{}{
			"current_quantity": gorm.Expr("current_quantity - ?", quantity),
			"updated_at":       time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := r.scoped(ctx, societyID).Model(&models.StockItem{}).Where("id = ?", itemID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrNotFound
		}
		return ErrInsufficientStock
	}
	return nil
}

// ========== Drawers ==========

func (r *stockRepository) CreateDrawer(ctx context.Context, societyID uuid.UUID, drawer *models.Drawer) error {
	drawer.SocietyID = societyID
	return r.db.WithContext(ctx).Create(drawer).Error
}

func (r *stockRepository) GetDrawerByID(ctx context.Context, societyID, id uuid.UUID) (*models.Drawer, error) {
	var drawer models.Drawer
	err := r.scoped(ctx, societyID).Where("id = ?", id).First(&drawer).Error
	if err != nil {
		return nil, notFoundOr(err)
	}
	return &drawer, nil
}

func (r *stockRepository) ListDrawers(ctx context.Context, societyID uuid.UUID) ([]models.Drawer, error) {
	var drawers []models.Drawer
	err := r.scoped(ctx, societyID).
		Order("cabinet_name ASC, drawer_letter_x ASC, drawer_number_y ASC").
		Find(&drawers).Error
	return drawers, err
}

func (r *stockRepository) UpdateDrawer(ctx context.Context, societyID, id uuid.UUID, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now()
	return r.checkAffected(r.scoped(ctx, societyID).Model(&models.Drawer{}).Where("id = ?", id).Updates(updates))
}

func (r *stockRepository) DeleteDrawer(ctx context.Context, societyID, id uuid.UUID) error {
	return r.checkAffected(r.scoped(ctx, societyID).Where("id = ?", id).Delete(&models.Drawer{}))
}

// ========== Drawer Placements ==========

// UpsertPlacement sets the absolute quantity of an item in a drawer,
// creating the placement row if needed.
func (r *stockRepository) UpsertPlacement(ctx context.Context, societyID, itemID, drawerID uuid.UUID, quantity int) error {
	result := r.scoped(ctx, societyID).Model(&models.DrawerPlacement{}).
		Where("stock_item_id = ? AND drawer_id = ?", itemID, drawerID).
		Updates(map[string]interface{}{
			"quantity":   quantity,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		placement := models.DrawerPlacement{
			SocietyID:   societyID,
			StockItemID: itemID,
			DrawerID:    drawerID,
			Quantity:    quantity,
		}
		return r.db.WithContext(ctx).Create(&placement).Error
	}
	return nil
}

// AddToPlacement increments an item's quantity in a drawer, creating the
// placement row on first use.
func (r *stockRepository) AddToPlacement(ctx context.Context, societyID, itemID, drawerID uuid.UUID, quantity int) error {
	result := r.scoped(ctx, societyID).Model(&models.DrawerPlacement{}).
		Where("stock_item_id = ? AND drawer_id = ?", itemID, drawerID).
		Updates(map[string]interface{}{
			"quantity":   gorm.Expr("quantity + ?", quantity),
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		placement := models.DrawerPlacement{
			SocietyID:   societyID,
			StockItemID: itemID,
			DrawerID:    drawerID,
			Quantity:    quantity,
		}
		return r.db.WithContext(ctx).Create(&placement).Error
	}
	return nil
}

// TakeFromPlacement decrements an item's quantity in a drawer with the same
// guarded-update pattern as TakeStock.
func (r *stockRepository) TakeFromPlacement(ctx context.Context, societyID, itemID, drawerID uuid.UUID, quantity int) error {
	result := r.scoped(ctx, societyID).Model(&models.DrawerPlacement{}).
		Where("stock_item_id = ? AND drawer_id = ? AND quantity >= ?", itemID, drawerID, quantity).
		Updates(map[string]interface{}{
			"quantity":   gorm.Expr("quantity - ?", quantity),
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrInsufficientDrawerStock
	}
	return nil
}

func (r *stockRepository) ListPlacementsForItem(ctx context.Context, societyID, itemID uuid.UUID) ([]models.DrawerPlacement, error) {
	var placements []models.DrawerPlacement
	err := r.scoped(ctx, societyID).
		Where("stock_item_id = ?", itemID).
		Preload("Drawer").
		Find(&placements).Error
	return placements, err
}

func (r *stockRepository) ListPlacementsForItems(ctx context.Context, societyID uuid.UUID, itemIDs []uuid.UUID) ([]models.DrawerPlacement, error) {
	var placements []models.DrawerPlacement
	if len(itemIDs) == 0 {
		return placements, nil
	}
	err := r.scoped(ctx, societyID).
		Where("stock_item_id IN ?", itemIDs).
		Preload("Drawer").
		Find(&placements).Error
	return placements, err
}

func (r *stockRepository) DeletePlacement(ctx context.Context, societyID, id uuid.UUID) error {
	return r.checkAffected(r.scoped(ctx, societyID).Where("id = ?", id).Delete(&models.DrawerPlacement{}))
}

// ========== Movement Ledger ==========

func (r *stockRepository) CreateMovement(ctx context.Context, societyID uuid.UUID, movement *models.Movement) error {
	movement.SocietyID = societyID
	movement.Timestamp = time.Now()
	return r.db.WithContext(ctx).Create(movement).Error
}

func (r *stockRepository) ListMovements(ctx context.Context, societyID uuid.UUID, page, limit int) ([]models.Movement, int64, error) {
	var movements []models.Movement
	var total int64

	query := r.scoped(ctx, societyID)
	if err := query.Model(&models.Movement{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if page > 0 && limit > 0 {
		offset := (page - 1) * limit
		query = query.Offset(offset).Limit(limit)
	}

	err := query.
		Preload("StockItem").
		Preload("MovedBy").
		Preload("Drawer").
		Order("timestamp DESC").
		Find(&movements).Error
	return movements, total, err
}

func (r *stockRepository) ListMovementsForItem(ctx context.Context, societyID, itemID uuid.UUID, limit int) ([]models.Movement, error) {
	var movements []models.Movement
	err := r.scoped(ctx, societyID).
		Where("stock_item_id = ?", itemID).
		Order("timestamp DESC").
		Limit(limit).
		Find(&movements).Error
	return movements, err
}

// ========== Object Users ==========

func (r *stockRepository) CreateObjectUser(ctx context.Context, societyID uuid.UUID, objectUser *models.ObjectUser) error {
	objectUser.SocietyID = societyID
	return r.db.WithContext(ctx).Create(objectUser).Error
}

func (r *stockRepository) GetObjectUserByID(ctx context.Context, societyID, id uuid.UUID) (*models.ObjectUser, error) {
	var objectUser models.ObjectUser
	err := r.scoped(ctx, societyID).Where("id = ?", id).First(&objectUser).Error
	if err != nil {
		return nil, notFoundOr(err)
	}
	return &objectUser, nil
}

func (r *stockRepository) ListObjectUsers(ctx context.Context, societyID uuid.UUID) ([]models.ObjectUser, error) {
	var objectUsers []models.ObjectUser
	err := r.scoped(ctx, societyID).Order("name ASC").Find(&objectUsers).Error
	return objectUsers, err
}

func (r *stockRepository) UpdateObjectUser(ctx context.Context, societyID, id uuid.UUID, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now()
	return r.checkAffected(r.scoped(ctx, societyID).Model(&models.ObjectUser{}).Where("id = ?", id).Updates(updates))
}

func (r *stockRepository) DeleteObjectUser(ctx context.Context, societyID, id uuid.UUID) error {
	return r.checkAffected(r.scoped(ctx, societyID).Where("id = ?", id).Delete(&models.ObjectUser{}))
}

// ========== Usage Log ==========

func (r *stockRepository) CreateUsage(ctx context.Context, societyID uuid.UUID, usage *models.Usage) error {
	usage.SocietyID = societyID
	usage.LoggedAt = time.Now()
	return r.db.WithContext(ctx).Create(usage).Error
}

func (r *stockRepository) ListUsages(ctx context.Context, societyID uuid.UUID, page, limit int) ([]models.Usage, int64, error) {
	var usages []models.Usage
	var total int64

	query := r.scoped(ctx, societyID)
	if err := query.Model(&models.Usage{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if page > 0 && limit > 0 {
		offset := (page - 1) * limit
		query = query.Offset(offset).Limit(limit)
	}

	err := query.
		Preload("StockItem").
		Preload("ObjectUser").
		Order("logged_at DESC").
		Find(&usages).Error
	return usages, total, err
}

func (r *stockRepository) ListUsagesForItem(ctx context.Context, societyID, itemID uuid.UUID, limit int) ([]models.Usage, error) {
	var usages []models.Usage
	err := r.scoped(ctx, societyID).
		Where("stock_item_id = ?", itemID).
		Preload("ObjectUser").
		Order("start_date DESC").
		Limit(limit).
		Find(&usages).Error
	return usages, err
}

func (r *stockRepository) SumUsageSince(ctx context.Context, societyID, itemID uuid.UUID, since time.Time) (int, error) {
	var total *int
	err := r.scoped(ctx, societyID).Model(&models.Usage{}).
		Select("SUM(quantity_used)").
		Where("stock_item_id = ? AND logged_at >= ?", itemID, since).
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	if total == nil {
		return 0, nil
	}
	return *total, nil
}

// ========== Refill Schedules ==========

func (r *stockRepository) CreateRefill(ctx context.Context, societyID uuid.UUID, refill *models.RefillSchedule) error {
	refill.SocietyID = societyID
	return r.db.WithContext(ctx).Create(refill).Error
}

func (r *stockRepository) GetRefillByID(ctx context.Context, societyID, id uuid.UUID) (*models.RefillSchedule, error) {
	var refill models.RefillSchedule
	err := r.scoped(ctx, societyID).Where("id = ?", id).Preload("StockItem").First(&refill).Error
	if err != nil {
		return nil, notFoundOr(err)
	}
	return &refill, nil
}

func (r *stockRepository) ListRefills(ctx context.Context, societyID uuid.UUID, pendingOnly bool) ([]models.RefillSchedule, error) {
	var refills []models.RefillSchedule
	query := r.scoped(ctx, societyID)
	if pendingOnly {
		query = query.Where("is_completed = ?", false)
	}
	err := query.Preload("StockItem").Order("scheduled_date ASC").Find(&refills).Error
	return refills, err
}

func (r *stockRepository) ListRefillsForItem(ctx context.Context, societyID, itemID uuid.UUID, limit int) ([]models.RefillSchedule, error) {
	var refills []models.RefillSchedule
	err := r.scoped(ctx, societyID).
		Where("stock_item_id = ?", itemID).
		Order("scheduled_date ASC").
		Limit(limit).
		Find(&refills).Error
	return refills, err
}

// MarkRefillCompleted flips the completion flag only when it is still
// pending, making the transition idempotent under concurrent completion.
func (r *stockRepository) MarkRefillCompleted(ctx context.Context, societyID, id uuid.UUID, completedDate time.Time) error {
	result := r.scoped(ctx, societyID).Model(&models.RefillSchedule{}).
		Where("id = ? AND is_completed = ?", id, false).
		Updates(map[string]interface{}{
			"is_completed":   true,
			"completed_date": completedDate,
			"updated_at":     time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *stockRepository) UpcomingRefills(ctx context.Context, societyID uuid.UUID, from time.Time, limit int) ([]models.RefillSchedule, error) {
	var refills []models.RefillSchedule
	err := r.scoped(ctx, societyID).
		Where("is_completed = ? AND scheduled_date >= ?", false, from).
		Preload("StockItem").
		Order("scheduled_date ASC").
		Limit(limit).
		Find(&refills).Error
	return refills, err
}

func (r *stockRepository) checkAffected(result *gorm.DB) error {
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
