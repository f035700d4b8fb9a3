package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"stock-service/internal/events"
	"stock-service/internal/models"
	"stock-service/internal/repository"
)

// ErrPastDate rejects refill schedules planned for a date already gone
var ErrPastDate = errors.New("scheduled date must not be in the past")

const usageWindowDays = 90

// RefillService manages refill schedules and the refill prediction report
type RefillService struct {
	repo      repository.StockRepository
	publisher *events.Publisher
}

// NewRefillService creates a new RefillService
func NewRefillService(repo repository.StockRepository, publisher *events.Publisher) *RefillService {
	return &RefillService{repo: repo, publisher: publisher}
}

// CreateSchedule plans a future restock for an active item
func (s *RefillService) CreateSchedule(ctx context.Context, societyID uuid.UUID, req models.CreateRefillScheduleRequest) (*models.RefillSchedule, error) {
	scheduledDate, err := time.Parse(dateLayout, req.ScheduledDate)
	if err != nil {
		return nil, fmt.Errorf("invalid scheduled date: %w", err)
	}
	if scheduledDate.Before(todayDate()) {
		return nil, ErrPastDate
	}

	item, err := s.repo.GetItemByID(ctx, societyID, req.StockItemID)
	if err != nil {
		return nil, err
	}
	if !item.IsActive {
		return nil, ErrItemInactive
	}

	refill := &models.RefillSchedule{
		StockItemID:      req.StockItemID,
		ScheduledDate:    scheduledDate,
		QuantityToRefill: req.QuantityToRefill,
		Notes:            req.Notes,
	}
	if err := s.repo.CreateRefill(ctx, societyID, refill); err != nil {
		return nil, err
	}
	return refill, nil
}

// GetSchedule returns one refill schedule
func (s *RefillService) GetSchedule(ctx context.Context, societyID, refillID uuid.UUID) (*models.RefillSchedule, error) {
	return s.repo.GetRefillByID(ctx, societyID, refillID)
}

// ListSchedules returns the society's refill schedules, optionally only the
// pending ones
func (s *RefillService) ListSchedules(ctx context.Context, societyID uuid.UUID, pendingOnly bool) ([]models.RefillSchedule, error) {
	return s.repo.ListRefills(ctx, societyID, pendingOnly)
}

// CompleteSchedule applies a pending refill: the quantity is added to stock
// and an in movement is appended, all in one transaction. Completing an
// already completed schedule is a no-op that returns it unchanged with
// applied false, so callers can tell the warning case apart.
func (s *RefillService) CompleteSchedule(ctx context.Context, societyID, refillID, userID uuid.UUID) (*models.RefillSchedule, bool, error) {
	refill, err := s.repo.GetRefillByID(ctx, societyID, refillID)
	if err != nil {
		return nil, false, err
	}
	if refill.IsCompleted {
		return refill, false, nil
	}

	applied := true
	err = s.repo.WithTransaction(ctx, func(tx repository.StockRepository) error {
		err := tx.MarkRefillCompleted(ctx, societyID, refillID, todayDate())
		if errors.Is(err, repository.ErrNotFound) {
			// Lost the race to a concurrent completion; nothing to apply.
			applied = false
			return nil
		}
		if err != nil {
			return err
		}

		if err := tx.AddStock(ctx, societyID, refill.StockItemID, refill.QuantityToRefill); err != nil {
			return err
		}

		movement := &models.Movement{
			StockItemID:  refill.StockItemID,
			MovementType: models.MovementIn,
			Quantity:     refill.QuantityToRefill,
			MovedByID:    &userID,
			Notes:        fmt.Sprintf("Refill completed (scheduled for %s)", refill.ScheduledDate.Format(dateLayout)),
		}
		return tx.CreateMovement(ctx, societyID, movement)
	})
	if err != nil {
		return nil, false, err
	}

	refill, err = s.repo.GetRefillByID(ctx, societyID, refillID)
	if err != nil {
		return nil, false, err
	}

	if applied {
		item, err := s.repo.GetItemByID(ctx, societyID, refill.StockItemID)
		if err != nil {
			return nil, false, err
		}
		s.publisher.PublishRefillCompleted(ctx, societyID, item.ID, refill.ID, item.Name, refill.QuantityToRefill, item.CurrentQuantity)
	}
	return refill, applied, nil
}

// Prediction builds the refill prediction report over every active item.
// The report is advisory only; it never mutates state or creates schedules.
func (s *RefillService) Prediction(ctx context.Context, societyID uuid.UUID) ([]models.RefillPrediction, error) {
	items, _, err := s.repo.ListItems(ctx, societyID, true, 0, 0)
	if err != nil {
		return nil, err
	}

	since := time.Now().AddDate(0, 0, -usageWindowDays)
	predictions := make([]models.RefillPrediction, 0, len(items))

	for _, item := range items {
		used, err := s.repo.SumUsageSince(ctx, societyID, item.ID, since)
		if err != nil {
			return nil, err
		}
		predictions = append(predictions, buildPrediction(item, used))
	}

	sortPredictions(predictions)
	return predictions, nil
}

// buildPrediction derives one report row from the trailing usage window
func buildPrediction(item models.StockItem, usedLast90Days int) models.RefillPrediction {
	p := models.RefillPrediction{
		StockItem:       item,
		CurrentQuantity: item.CurrentQuantity,
		MinimumQuantity: item.MinimumQuantity,
		UsedLast90Days:  usedLast90Days,
		DailyUsage:      float64(usedLast90Days) / float64(usageWindowDays),
	}

	if p.DailyUsage > 0 && item.CurrentQuantity > 0 {
		days := float64(item.CurrentQuantity) / p.DailyUsage
		p.DaysUntilEmpty = &days
		predicted := todayDate().AddDate(0, 0, int(days))
		p.PredictedDate = &predicted
	}

	switch {
	case item.CurrentQuantity <= 0:
		p.AlertLevel = models.AlertZero
		p.AlertMessage = "Out of stock, needs immediate refill"
	case p.DaysUntilEmpty != nil && *p.DaysUntilEmpty <= 7:
		p.AlertLevel = models.AlertUrgent
		p.AlertMessage = "Urgent: stock runs out within a week"
	case p.DaysUntilEmpty != nil && *p.DaysUntilEmpty <= 14:
		p.AlertLevel = models.AlertSoon
		p.AlertMessage = "Consider restocking soon"
	case item.CurrentQuantity <= item.MinimumQuantity:
		p.AlertLevel = models.AlertLowStock
		p.AlertMessage = "Below minimum quantity"
	}

	p.NeedsRefill = p.AlertLevel != models.AlertNone || item.CurrentQuantity <= item.MinimumQuantity
	return p
}

// sortPredictions orders the report so the most pressing items surface
// first: zero stock, then urgent, then soon, then below minimum, then by
// projected empty date, then by name.
func sortPredictions(predictions []models.RefillPrediction) {
	rank := func(level models.AlertLevel) int {
		switch level {
		case models.AlertZero:
			return 0
		case models.AlertUrgent:
			return 1
		case models.AlertSoon:
			return 2
		case models.AlertLowStock:
			return 3
		default:
			return 4
		}
	}

	sort.SliceStable(predictions, func(i, j int) bool {
		ri, rj := rank(predictions[i].AlertLevel), rank(predictions[j].AlertLevel)
		if ri != rj {
			return ri < rj
		}
		di, dj := predictions[i].PredictedDate, predictions[j].PredictedDate
		switch {
		case di != nil && dj != nil && !di.Equal(*dj):
			return di.Before(*dj)
		case di != nil && dj == nil:
			return true
		case di == nil && dj != nil:
			return false
		}
		return predictions[i].StockItem.Name < predictions[j].StockItem.Name
	})
}
