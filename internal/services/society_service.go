package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"stock-service/internal/models"
	"stock-service/internal/repository"
)

var (
	ErrSocietyExists       = errors.New("society name or slug already taken")
	ErrInvalidSubscription = errors.New("unknown subscription level")
	ErrFeatureNotInPlan    = errors.New("feature not included in subscription level")
)

// SocietyService handles tenant registration and settings
type SocietyService struct {
	repo repository.SocietyRepository
}

// NewSocietyService creates a new SocietyService
func NewSocietyService(repo repository.SocietyRepository) *SocietyService {
	return &SocietyService{repo: repo}
}

// Register creates a society on the free level together with its first admin
func (s *SocietyService) Register(ctx context.Context, req models.RegisterSocietyRequest) (*models.Society, *models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, err
	}

	society := &models.Society{
		Name:              strings.TrimSpace(req.Name),
		Slug:              strings.ToLower(strings.TrimSpace(req.Slug)),
		IsActive:          true,
		SubscriptionLevel: models.SubscriptionFree,
	}
	admin := &models.User{
		Username:     strings.TrimSpace(req.AdminUsername),
		Email:        strings.ToLower(strings.TrimSpace(req.AdminEmail)),
		PasswordHash: string(hash),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		IsActive:     true,
	}
	membership := &models.Membership{IsAdmin: true}

	if err := s.repo.CreateSocietyWithAdmin(ctx, society, admin, membership); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, nil, ErrSocietyExists
		}
		return nil, nil, err
	}
	return society, admin, nil
}

// GetSociety returns the society by ID
func (s *SocietyService) GetSociety(ctx context.Context, id uuid.UUID) (*models.Society, error) {
	return s.repo.GetSocietyByID(ctx, id)
}

// UpdateSettings toggles the drawer feature flags, refusing to enable a flag
// the subscription level does not include
func (s *SocietyService) UpdateSettings(ctx context.Context, societyID uuid.UUID, req models.UpdateSocietySettingsRequest) (*models.Society, error) {
	society, err := s.repo.GetSocietyByID(ctx, societyID)
	if err != nil {
		return nil, err
	}

	canManage, showsInList := allowedDrawerFlags(society.SubscriptionLevel)
	updates := map[string]interface{}{}

	if req.CanManageDrawers != nil {
		if *req.CanManageDrawers && !canManage {
			return nil, ErrFeatureNotInPlan
		}
		updates["can_manage_drawers"] = *req.CanManageDrawers
	}
	if req.ShowsDrawersInList != nil {
		if *req.ShowsDrawersInList && !showsInList {
			return nil, ErrFeatureNotInPlan
		}
		updates["shows_drawers_in_list"] = *req.ShowsDrawersInList
	}

	if len(updates) > 0 {
		if err := s.repo.UpdateSociety(ctx, societyID, updates); err != nil {
			return nil, err
		}
	}
	return s.repo.GetSocietyByID(ctx, societyID)
}

// ChangeSubscription moves the society to another level. Downgrading clears
// any feature flag the new level no longer includes.
func (s *SocietyService) ChangeSubscription(ctx context.Context, societyID uuid.UUID, level models.SubscriptionLevel) (*models.Society, error) {
	if !level.IsValid() {
		return nil, ErrInvalidSubscription
	}

	society, err := s.repo.GetSocietyByID(ctx, societyID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{"subscription_level": level}

	canManage, showsInList := allowedDrawerFlags(level)
	if society.CanManageDrawers && !canManage {
		updates["can_manage_drawers"] = false
	}
	if society.ShowsDrawersInList && !showsInList {
		updates["shows_drawers_in_list"] = false
	}

	if err := s.repo.UpdateSociety(ctx, societyID, updates); err != nil {
		return nil, err
	}
	return s.repo.GetSocietyByID(ctx, societyID)
}

// allowedDrawerFlags reports which drawer features a level may enable.
// Free societies get no drawer features, basic gets drawer management, and
// premium additionally lists drawer locations in the stock list.
func allowedDrawerFlags(level models.SubscriptionLevel) (canManage, showsInList bool) {
	switch level {
	case models.SubscriptionBasic:
		return true, false
	case models.SubscriptionPremium:
		return true, true
	default:
		return false, false
	}
}
