package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"stock-service/internal/events"
	"stock-service/internal/models"
	"stock-service/internal/repository"
)

var (
	ErrItemInactive     = errors.New("stock item is inactive")
	ErrInvalidDateRange = errors.New("end date must not be before start date")
)

const dateLayout = "2006-01-02"

// StockService handles stock mutations. Every mutating operation runs in one
// database transaction; the movement ledger row is written in the same
// transaction as the quantity change so the two can never diverge.
type StockService struct {
	repo      repository.StockRepository
	publisher *events.Publisher
}

// NewStockService creates a new StockService
func NewStockService(repo repository.StockRepository, publisher *events.Publisher) *StockService {
	return &StockService{repo: repo, publisher: publisher}
}

// StockOut takes stock from an item and appends an out movement. With a
// drawer given and drawer management enabled, the drawer placement is
// decremented in the same transaction; a shortage in either place rolls
// everything back.
func (s *StockService) StockOut(ctx context.Context, society *models.Society, userID uuid.UUID, req models.StockMovementRequest) (*models.StockItem, error) {
	var item *models.StockItem

	err := s.repo.WithTransaction(ctx, func(tx repository.StockRepository) error {
		var err error
		item, err = tx.GetItemByID(ctx, society.ID, req.StockItemID)
		if err != nil {
			return err
		}
		if !item.IsActive {
			return ErrItemInactive
		}

		if err := tx.TakeStock(ctx, society.ID, req.StockItemID, req.Quantity); err != nil {
			return err
		}

		var drawerID *uuid.UUID
		if req.DrawerID != nil && society.CanManageDrawers {
			if err := tx.TakeFromPlacement(ctx, society.ID, req.StockItemID, *req.DrawerID, req.Quantity); err != nil {
				return err
			}
			drawerID = req.DrawerID
		}

		movement := &models.Movement{
			StockItemID:  req.StockItemID,
			MovementType: models.MovementOut,
			Quantity:     req.Quantity,
			MovedByID:    &userID,
			DrawerID:     drawerID,
			Notes:        req.Notes,
		}
		if err := tx.CreateMovement(ctx, society.ID, movement); err != nil {
			return err
		}

		item, err = tx.GetItemByID(ctx, society.ID, req.StockItemID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.publisher.PublishMovementRecorded(ctx, society.ID, item.ID, item.Name, string(models.MovementOut), req.Quantity, item.CurrentQuantity)
	if item.CurrentQuantity <= item.MinimumQuantity {
		s.publisher.PublishLowStock(ctx, society.ID, item.ID, item.Name, item.CurrentQuantity, item.MinimumQuantity)
	}
	return item, nil
}

// StockIn adds stock to an item and appends an in movement
func (s *StockService) StockIn(ctx context.Context, society *models.Society, userID uuid.UUID, req models.StockMovementRequest) (*models.StockItem, error) {
	var item *models.StockItem

	err := s.repo.WithTransaction(ctx, func(tx repository.StockRepository) error {
		var err error
		item, err = tx.GetItemByID(ctx, society.ID, req.StockItemID)
		if err != nil {
			return err
		}
		if !item.IsActive {
			return ErrItemInactive
		}

		if err := tx.AddStock(ctx, society.ID, req.StockItemID, req.Quantity); err != nil {
			return err
		}

		var drawerID *uuid.UUID
		if req.DrawerID != nil && society.CanManageDrawers {
			if err := tx.AddToPlacement(ctx, society.ID, req.StockItemID, *req.DrawerID, req.Quantity); err != nil {
				return err
			}
			drawerID = req.DrawerID
		}

		movement := &models.Movement{
			StockItemID:  req.StockItemID,
			MovementType: models.MovementIn,
			Quantity:     req.Quantity,
			MovedByID:    &userID,
			DrawerID:     drawerID,
			Notes:        req.Notes,
		}
		if err := tx.CreateMovement(ctx, society.ID, movement); err != nil {
			return err
		}

		item, err = tx.GetItemByID(ctx, society.ID, req.StockItemID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.publisher.PublishMovementRecorded(ctx, society.ID, item.ID, item.Name, string(models.MovementIn), req.Quantity, item.CurrentQuantity)
	return item, nil
}

// LogUsage records an object user consuming stock over a period. The
// consumption decrements the item's quantity and the usage row is written in
// the same transaction, mirroring the stock-out contract.
func (s *StockService) LogUsage(ctx context.Context, societyID, userID uuid.UUID, req models.LogUsageRequest) (*models.Usage, error) {
	startDate, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		return nil, fmt.Errorf("invalid start date: %w", err)
	}
	var endDate *time.Time
	if req.EndDate != nil && *req.EndDate != "" {
		parsed, err := time.Parse(dateLayout, *req.EndDate)
		if err != nil {
			return nil, fmt.Errorf("invalid end date: %w", err)
		}
		if parsed.Before(startDate) {
			return nil, ErrInvalidDateRange
		}
		endDate = &parsed
	}

	usage := &models.Usage{
		StockItemID:  req.StockItemID,
		ObjectUserID: req.ObjectUserID,
		QuantityUsed: req.QuantityUsed,
		StartDate:    startDate,
		EndDate:      endDate,
		Notes:        req.Notes,
		LoggedByID:   &userID,
	}

	var item *models.StockItem
	err = s.repo.WithTransaction(ctx, func(tx repository.StockRepository) error {
		var err error
		item, err = tx.GetItemByID(ctx, societyID, req.StockItemID)
		if err != nil {
			return err
		}
		if !item.IsActive {
			return ErrItemInactive
		}
		if _, err := tx.GetObjectUserByID(ctx, societyID, req.ObjectUserID); err != nil {
			return err
		}

		if err := tx.TakeStock(ctx, societyID, req.StockItemID, req.QuantityUsed); err != nil {
			return err
		}
		if err := tx.CreateUsage(ctx, societyID, usage); err != nil {
			return err
		}

		item, err = tx.GetItemByID(ctx, societyID, req.StockItemID)
		return err
	})
	if err != nil {
		return nil, err
	}

	if item.CurrentQuantity <= item.MinimumQuantity {
		s.publisher.PublishLowStock(ctx, societyID, item.ID, item.Name, item.CurrentQuantity, item.MinimumQuantity)
	}
	return usage, nil
}

// ListItems returns the society's stock list. When the society both manages
// drawers and shows them in the list, each row carries its drawer placements.
func (s *StockService) ListItems(ctx context.Context, society *models.Society, activeOnly bool, page, limit int) ([]models.StockItemListEntry, int64, error) {
	items, total, err := s.repo.ListItems(ctx, society.ID, activeOnly, page, limit)
	if err != nil {
		return nil, 0, err
	}

	entries := make([]models.StockItemListEntry, len(items))
	for i, item := range items {
		entries[i].StockItem = item
	}

	if society.CanManageDrawers && society.ShowsDrawersInList && len(items) > 0 {
		ids := make([]uuid.UUID, len(items))
		for i, item := range items {
			ids[i] = item.ID
		}
		placements, err := s.repo.ListPlacementsForItems(ctx, society.ID, ids)
		if err != nil {
			return nil, 0, err
		}

		byItem := make(map[uuid.UUID][]models.DrawerPlacement, len(items))
		for _, p := range placements {
			byItem[p.StockItemID] = append(byItem[p.StockItemID], p)
		}
		for i := range entries {
			entries[i].Placements = byItem[entries[i].ID]
		}
	}
	return entries, total, nil
}

const detailHistoryLimit = 20

// GetItemDetail returns an item with its recent movements, usages and
// refills. Placements are included only when the society manages drawers.
func (s *StockService) GetItemDetail(ctx context.Context, society *models.Society, itemID uuid.UUID) (*models.StockItemDetail, error) {
	item, err := s.repo.GetItemByID(ctx, society.ID, itemID)
	if err != nil {
		return nil, err
	}

	movements, err := s.repo.ListMovementsForItem(ctx, society.ID, itemID, detailHistoryLimit)
	if err != nil {
		return nil, err
	}
	usages, err := s.repo.ListUsagesForItem(ctx, society.ID, itemID, detailHistoryLimit)
	if err != nil {
		return nil, err
	}
	refills, err := s.repo.ListRefillsForItem(ctx, society.ID, itemID, detailHistoryLimit)
	if err != nil {
		return nil, err
	}

	detail := &models.StockItemDetail{
		StockItem: *item,
		Movements: movements,
		Usages:    usages,
		Refills:   refills,
	}

	if society.CanManageDrawers {
		placements, err := s.repo.ListPlacementsForItem(ctx, society.ID, itemID)
		if err != nil {
			return nil, err
		}
		detail.Placements = placements
	}
	return detail, nil
}

// Dashboard builds the per-society home summary
func (s *StockService) Dashboard(ctx context.Context, societyID uuid.UUID) (*models.DashboardSummary, error) {
	totalItems, err := s.repo.CountItems(ctx, societyID)
	if err != nil {
		return nil, err
	}
	lowStock, err := s.repo.CountLowStockItems(ctx, societyID)
	if err != nil {
		return nil, err
	}

	movements, _, err := s.repo.ListMovements(ctx, societyID, 1, 10)
	if err != nil {
		return nil, err
	}
	refills, err := s.repo.UpcomingRefills(ctx, societyID, todayDate(), 5)
	if err != nil {
		return nil, err
	}

	return &models.DashboardSummary{
		TotalStockItems: int(totalItems),
		LowStockItems:   int(lowStock),
		RecentMovements: movements,
		UpcomingRefills: refills,
	}, nil
}

// todayDate truncates now to the calendar date
func todayDate() time.Time {
	year, month, day := time.Now().Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
