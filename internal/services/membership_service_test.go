package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"stock-service/internal/models"
)

func freeSociety() *models.Society {
	return &models.Society{
		ID:                uuid.New(),
		Name:              "Hackerspace",
		Slug:              "hackerspace",
		IsActive:          true,
		SubscriptionLevel: models.SubscriptionFree,
	}
}

func TestCreateMember_FreeTierUserLimit(t *testing.T) {
	ctx := context.Background()
	society := freeSociety()

	mockRepo := new(MockSocietyRepository)
	service := NewMembershipService(mockRepo)

	mockRepo.On("GetSocietyByID", ctx, society.ID).Return(society, nil)
	// Free tier allows 2 users total; 2 already active.
	mockRepo.On("CountActiveUsers", ctx, society.ID, (*uuid.UUID)(nil)).Return(int64(2), nil)

	_, err := service.CreateMember(ctx, society.ID, models.CreateUserRequest{
		Username: "third",
		Email:    "third@example.com",
		Password: "password123",
	})

	assert.ErrorIs(t, err, ErrUserLimitReached)
	mockRepo.AssertNotCalled(t, "CreateMember", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateMember_FreeTierAdminLimit(t *testing.T) {
	ctx := context.Background()
	society := freeSociety()

	mockRepo := new(MockSocietyRepository)
	service := NewMembershipService(mockRepo)

	mockRepo.On("GetSocietyByID", ctx, society.ID).Return(society, nil)
	mockRepo.On("CountActiveUsers", ctx, society.ID, (*uuid.UUID)(nil)).Return(int64(1), nil)
	// Free tier allows 1 admin; 1 already exists.
	mockRepo.On("CountAdmins", ctx, society.ID, (*uuid.UUID)(nil)).Return(int64(1), nil)

	_, err := service.CreateMember(ctx, society.ID, models.CreateUserRequest{
		Username: "second-admin",
		Email:    "admin2@example.com",
		Password: "password123",
		IsAdmin:  true,
	})

	assert.ErrorIs(t, err, ErrAdminLimitReached)
	mockRepo.AssertNotCalled(t, "CreateMember", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateMember_Success(t *testing.T) {
	ctx := context.Background()
	society := freeSociety()

	mockRepo := new(MockSocietyRepository)
	service := NewMembershipService(mockRepo)

	mockRepo.On("GetSocietyByID", ctx, society.ID).Return(society, nil)
	mockRepo.On("CountActiveUsers", ctx, society.ID, (*uuid.UUID)(nil)).Return(int64(1), nil)
	mockRepo.On("UsernameTaken", ctx, "newbie").Return(false, nil)
	mockRepo.On("EmailTaken", ctx, "newbie@example.com").Return(false, nil)
	mockRepo.On("CreateMember", ctx, mock.MatchedBy(func(u *models.User) bool {
		return u.Username == "newbie" && u.IsActive && u.PasswordHash != "" && u.PasswordHash != "password123"
	}), mock.MatchedBy(func(m *models.Membership) bool {
		return m.SocietyID == society.ID && !m.IsAdmin
	})).Return(nil)

	member, err := service.CreateMember(ctx, society.ID, models.CreateUserRequest{
		Username: "newbie",
		Email:    "newbie@example.com",
		Password: "password123",
	})

	assert.NoError(t, err)
	assert.NotNil(t, member)
	mockRepo.AssertExpectations(t)
}

func TestCreateMember_UsernameTaken(t *testing.T) {
	ctx := context.Background()
	society := freeSociety()

	mockRepo := new(MockSocietyRepository)
	service := NewMembershipService(mockRepo)

	mockRepo.On("GetSocietyByID", ctx, society.ID).Return(society, nil)
	mockRepo.On("CountActiveUsers", ctx, society.ID, (*uuid.UUID)(nil)).Return(int64(0), nil)
	mockRepo.On("UsernameTaken", ctx, "dupe").Return(true, nil)

	_, err := service.CreateMember(ctx, society.ID, models.CreateUserRequest{
		Username: "dupe",
		Email:    "dupe@example.com",
		Password: "password123",
	})

	assert.ErrorIs(t, err, ErrUsernameTaken)
}

func TestUpdateMember_DemoteLastAdminOnFreeTier(t *testing.T) {
	ctx := context.Background()
	society := freeSociety()
	userID := uuid.New()

	mockRepo := new(MockSocietyRepository)
	service := NewMembershipService(mockRepo)

	mockRepo.On("GetSocietyByID", ctx, society.ID).Return(society, nil)
	mockRepo.On("GetMembership", ctx, society.ID, userID).
		Return(&models.Membership{UserID: userID, SocietyID: society.ID, IsAdmin: true}, nil)
	mockRepo.On("GetUserByID", ctx, userID).
		Return(&models.User{ID: userID, Username: "solo", IsActive: true}, nil)
	// No other admins besides the one being demoted.
	mockRepo.On("CountAdmins", ctx, society.ID, &userID).Return(int64(0), nil)

	demote := false
	_, err := service.UpdateMember(ctx, society.ID, userID, models.UpdateUserRequest{
		IsAdmin: &demote,
	})

	assert.ErrorIs(t, err, ErrLastAdmin)
	mockRepo.AssertNotCalled(t, "UpdateMember", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateMember_PromotionBeyondAdminLimit(t *testing.T) {
	ctx := context.Background()
	society := freeSociety()
	userID := uuid.New()

	mockRepo := new(MockSocietyRepository)
	service := NewMembershipService(mockRepo)

	mockRepo.On("GetSocietyByID", ctx, society.ID).Return(society, nil)
	mockRepo.On("GetMembership", ctx, society.ID, userID).
		Return(&models.Membership{UserID: userID, SocietyID: society.ID, IsAdmin: false}, nil)
	mockRepo.On("GetUserByID", ctx, userID).
		Return(&models.User{ID: userID, Username: "member", IsActive: true}, nil)
	mockRepo.On("CountAdmins", ctx, society.ID, &userID).Return(int64(1), nil)

	promote := true
	_, err := service.UpdateMember(ctx, society.ID, userID, models.UpdateUserRequest{
		IsAdmin: &promote,
	})

	assert.ErrorIs(t, err, ErrAdminLimitReached)
}

func TestUpdateMember_ReactivationBeyondUserLimit(t *testing.T) {
	ctx := context.Background()
	society := freeSociety()
	userID := uuid.New()

	mockRepo := new(MockSocietyRepository)
	service := NewMembershipService(mockRepo)

	mockRepo.On("GetSocietyByID", ctx, society.ID).Return(society, nil)
	mockRepo.On("GetMembership", ctx, society.ID, userID).
		Return(&models.Membership{UserID: userID, SocietyID: society.ID, IsAdmin: false}, nil)
	mockRepo.On("GetUserByID", ctx, userID).
		Return(&models.User{ID: userID, Username: "dormant", IsActive: false}, nil)
	// Already 2 other active users on the free tier.
	mockRepo.On("CountActiveUsers", ctx, society.ID, &userID).Return(int64(2), nil)

	reactivate := true
	_, err := service.UpdateMember(ctx, society.ID, userID, models.UpdateUserRequest{
		IsActive: &reactivate,
	})

	assert.ErrorIs(t, err, ErrUserLimitReached)
}

func TestDeleteMember_LastAdminBlocked(t *testing.T) {
	ctx := context.Background()
	societyID := uuid.New()
	userID := uuid.New()

	mockRepo := new(MockSocietyRepository)
	service := NewMembershipService(mockRepo)

	mockRepo.On("GetMembership", ctx, societyID, userID).
		Return(&models.Membership{UserID: userID, SocietyID: societyID, IsAdmin: true}, nil)
	mockRepo.On("CountAdmins", ctx, societyID, &userID).Return(int64(0), nil)

	err := service.DeleteMember(ctx, societyID, userID)

	assert.ErrorIs(t, err, ErrLastAdmin)
	mockRepo.AssertNotCalled(t, "DeleteMember", mock.Anything, mock.Anything, mock.Anything)
}

func TestDeleteMember_Success(t *testing.T) {
	ctx := context.Background()
	societyID := uuid.New()
	userID := uuid.New()

	mockRepo := new(MockSocietyRepository)
	service := NewMembershipService(mockRepo)

	mockRepo.On("GetMembership", ctx, societyID, userID).
		Return(&models.Membership{UserID: userID, SocietyID: societyID, IsAdmin: false}, nil)
	mockRepo.On("DeleteMember", ctx, societyID, userID).Return(nil)

	err := service.DeleteMember(ctx, societyID, userID)

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}
