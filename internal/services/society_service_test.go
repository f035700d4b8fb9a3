package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"stock-service/internal/models"
	"stock-service/internal/repository"
)

func TestRegister_StartsOnFreeTier(t *testing.T) {
	ctx := context.Background()

	mockRepo := new(MockSocietyRepository)
	service := NewSocietyService(mockRepo)

	mockRepo.On("CreateSocietyWithAdmin", ctx,
		mock.MatchedBy(func(s *models.Society) bool {
			return s.Name == "Makers" && s.Slug == "makers" && s.SubscriptionLevel == models.SubscriptionFree && !s.CanManageDrawers
		}),
		mock.MatchedBy(func(u *models.User) bool {
			return u.Username == "alice" && u.PasswordHash != "password123"
		}),
		mock.MatchedBy(func(m *models.Membership) bool {
			return m.IsAdmin
		})).Return(nil)

	society, admin, err := service.Register(ctx, models.RegisterSocietyRequest{
		Name:          "Makers",
		Slug:          "Makers",
		AdminUsername: "alice",
		AdminEmail:    "Alice@Example.com",
		AdminPassword: "password123",
	})

	assert.NoError(t, err)
	assert.Equal(t, "alice@example.com", admin.Email)
	assert.Equal(t, models.SubscriptionFree, society.SubscriptionLevel)
	mockRepo.AssertExpectations(t)
}

func TestRegister_DuplicateName(t *testing.T) {
	ctx := context.Background()

	mockRepo := new(MockSocietyRepository)
	service := NewSocietyService(mockRepo)

	mockRepo.On("CreateSocietyWithAdmin", ctx, mock.Anything, mock.Anything, mock.Anything).
		Return(repository.ErrDuplicate)

	_, _, err := service.Register(ctx, models.RegisterSocietyRequest{
		Name:          "Makers",
		Slug:          "makers",
		AdminUsername: "alice",
		AdminEmail:    "alice@example.com",
		AdminPassword: "password123",
	})

	assert.ErrorIs(t, err, ErrSocietyExists)
}

func TestUpdateSettings_FreeTierCannotEnableDrawers(t *testing.T) {
	ctx := context.Background()
	society := &models.Society{ID: uuid.New(), SubscriptionLevel: models.SubscriptionFree}

	mockRepo := new(MockSocietyRepository)
	service := NewSocietyService(mockRepo)

	mockRepo.On("GetSocietyByID", ctx, society.ID).Return(society, nil)

	enable := true
	_, err := service.UpdateSettings(ctx, society.ID, models.UpdateSocietySettingsRequest{
		CanManageDrawers: &enable,
	})

	assert.ErrorIs(t, err, ErrFeatureNotInPlan)
	mockRepo.AssertNotCalled(t, "UpdateSociety", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateSettings_BasicTierCannotShowDrawersInList(t *testing.T) {
	ctx := context.Background()
	society := &models.Society{ID: uuid.New(), SubscriptionLevel: models.SubscriptionBasic, CanManageDrawers: true}

	mockRepo := new(MockSocietyRepository)
	service := NewSocietyService(mockRepo)

	mockRepo.On("GetSocietyByID", ctx, society.ID).Return(society, nil)

	enable := true
	_, err := service.UpdateSettings(ctx, society.ID, models.UpdateSocietySettingsRequest{
		ShowsDrawersInList: &enable,
	})

	assert.ErrorIs(t, err, ErrFeatureNotInPlan)
}

func TestUpdateSettings_BasicTierEnablesDrawerManagement(t *testing.T) {
	ctx := context.Background()
	society := &models.Society{ID: uuid.New(), SubscriptionLevel: models.SubscriptionBasic}

	mockRepo := new(MockSocietyRepository)
	service := NewSocietyService(mockRepo)

	mockRepo.On("GetSocietyByID", ctx, society.ID).Return(society, nil)
	mockRepo.On("UpdateSociety", ctx, society.ID, map[string]interface{}{
		"can_manage_drawers": true,
	}).Return(nil)

	enable := true
	_, err := service.UpdateSettings(ctx, society.ID, models.UpdateSocietySettingsRequest{
		CanManageDrawers: &enable,
	})

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestChangeSubscription_DowngradeToFreeClearsFlags(t *testing.T) {
	ctx := context.Background()
	society := &models.Society{
		ID:                 uuid.New(),
		SubscriptionLevel:  models.SubscriptionPremium,
		CanManageDrawers:   true,
		ShowsDrawersInList: true,
	}

	mockRepo := new(MockSocietyRepository)
	service := NewSocietyService(mockRepo)

	mockRepo.On("GetSocietyByID", ctx, society.ID).Return(society, nil)
	mockRepo.On("UpdateSociety", ctx, society.ID, map[string]interface{}{
		"subscription_level":    models.SubscriptionFree,
		"can_manage_drawers":    false,
		"shows_drawers_in_list": false,
	}).Return(nil)

	_, err := service.ChangeSubscription(ctx, society.ID, models.SubscriptionFree)

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestChangeSubscription_DowngradeToBasicClearsListFlag(t *testing.T) {
	ctx := context.Background()
	society := &models.Society{
		ID:                 uuid.New(),
		SubscriptionLevel:  models.SubscriptionPremium,
		CanManageDrawers:   true,
		ShowsDrawersInList: true,
	}

	mockRepo := new(MockSocietyRepository)
	service := NewSocietyService(mockRepo)

	mockRepo.On("GetSocietyByID", ctx, society.ID).Return(society, nil)
	mockRepo.On("UpdateSociety", ctx, society.ID, map[string]interface{}{
		"subscription_level":    models.SubscriptionBasic,
		"shows_drawers_in_list": false,
	}).Return(nil)

	_, err := service.ChangeSubscription(ctx, society.ID, models.SubscriptionBasic)

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestChangeSubscription_UnknownLevel(t *testing.T) {
	mockRepo := new(MockSocietyRepository)
	service := NewSocietyService(mockRepo)

	_, err := service.ChangeSubscription(context.Background(), uuid.New(), models.SubscriptionLevel("platinum"))

	assert.ErrorIs(t, err, ErrInvalidSubscription)
	mockRepo.AssertNotCalled(t, "UpdateSociety", mock.Anything, mock.Anything, mock.Anything)
}
