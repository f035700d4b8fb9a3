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
	ErrUserLimitReached  = errors.New("subscription user limit reached")
	ErrAdminLimitReached = errors.New("subscription admin limit reached")
	ErrLastAdmin         = errors.New("society must keep at least one admin")
	ErrUsernameTaken     = errors.New("username already taken")
	ErrEmailTaken        = errors.New("email already taken")
)

// MembershipService manages a society's members against its plan limits
type MembershipService struct {
	repo repository.SocietyRepository
}

// NewMembershipService creates a new MembershipService
func NewMembershipService(repo repository.SocietyRepository) *MembershipService {
	return &MembershipService{repo: repo}
}

// MemberList is the member roster with the current counts against the plan
type MemberList struct {
	Members    []models.MemberInfo
	TotalUsers int64
	AdminUsers int64
	Limits     models.PlanLimits
}

// ListMembers returns the roster with headcounts and plan limits
func (s *MembershipService) ListMembers(ctx context.Context, societyID uuid.UUID) (*MemberList, error) {
	society, err := s.repo.GetSocietyByID(ctx, societyID)
	if err != nil {
		return nil, err
	}

	members, err := s.repo.ListMembers(ctx, societyID)
	if err != nil {
		return nil, err
	}
	totalUsers, err := s.repo.CountActiveUsers(ctx, societyID, nil)
	if err != nil {
		return nil, err
	}
	adminUsers, err := s.repo.CountAdmins(ctx, societyID, nil)
	if err != nil {
		return nil, err
	}

	return &MemberList{
		Members:    members,
		TotalUsers: totalUsers,
		AdminUsers: adminUsers,
		Limits:     society.SubscriptionLevel.Limits(),
	}, nil
}

// CreateMember adds a user to the society, enforcing the plan headcount caps
// before any write
func (s *MembershipService) CreateMember(ctx context.Context, societyID uuid.UUID, req models.CreateUserRequest) (*models.MemberInfo, error) {
	society, err := s.repo.GetSocietyByID(ctx, societyID)
	if err != nil {
		return nil, err
	}
	limits := society.SubscriptionLevel.Limits()

	if limits.MaxUsers != models.Unlimited {
		count, err := s.repo.CountActiveUsers(ctx, societyID, nil)
		if err != nil {
			return nil, err
		}
		if count+1 > int64(limits.MaxUsers) {
			return nil, ErrUserLimitReached
		}
	}
	if req.IsAdmin && limits.MaxAdmins != models.Unlimited {
		count, err := s.repo.CountAdmins(ctx, societyID, nil)
		if err != nil {
			return nil, err
		}
		if count+1 > int64(limits.MaxAdmins) {
			return nil, ErrAdminLimitReached
		}
	}

	taken, err := s.repo.UsernameTaken(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrUsernameTaken
	}
	taken, err = s.repo.EmailTaken(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:     strings.TrimSpace(req.Username),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: string(hash),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		IsActive:     true,
	}
	membership := &models.Membership{
		SocietyID: societyID,
		IsAdmin:   req.IsAdmin,
	}

	if err := s.repo.CreateMember(ctx, user, membership); err != nil {
		return nil, err
	}
	return &models.MemberInfo{Membership: *membership, User: *user}, nil
}

// UpdateMember changes a member's account and membership, re-checking the
// plan caps for promotion and reactivation and refusing to demote the last
// admin of a free society
func (s *MembershipService) UpdateMember(ctx context.Context, societyID, userID uuid.UUID, req models.UpdateUserRequest) (*models.MemberInfo, error) {
	society, err := s.repo.GetSocietyByID(ctx, societyID)
	if err != nil {
		return nil, err
	}
	limits := society.SubscriptionLevel.Limits()

	membership, err := s.repo.GetMembership(ctx, societyID, userID)
	if err != nil {
		return nil, err
	}
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.IsAdmin != nil {
		if *req.IsAdmin && !membership.IsAdmin {
			if limits.MaxAdmins != models.Unlimited {
				count, err := s.repo.CountAdmins(ctx, societyID, &userID)
				if err != nil {
					return nil, err
				}
				if count+1 > int64(limits.MaxAdmins) {
					return nil, ErrAdminLimitReached
				}
			}
		}
		if !*req.IsAdmin && membership.IsAdmin && society.SubscriptionLevel == models.SubscriptionFree {
			count, err := s.repo.CountAdmins(ctx, societyID, &userID)
			if err != nil {
				return nil, err
			}
			if count == 0 {
				return nil, ErrLastAdmin
			}
		}
	}

	if req.IsActive != nil && *req.IsActive && !user.IsActive && limits.MaxUsers != models.Unlimited {
		count, err := s.repo.CountActiveUsers(ctx, societyID, &userID)
		if err != nil {
			return nil, err
		}
		if count+1 > int64(limits.MaxUsers) {
			return nil, ErrUserLimitReached
		}
	}

	userUpdates := map[string]interface{}{}
	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		if email != strings.ToLower(user.Email) {
			taken, err := s.repo.EmailTaken(ctx, email)
			if err != nil {
				return nil, err
			}
			if taken {
				return nil, ErrEmailTaken
			}
		}
		userUpdates["email"] = email
	}
	if req.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		userUpdates["password_hash"] = string(hash)
	}
	if req.FirstName != nil {
		userUpdates["first_name"] = *req.FirstName
	}
	if req.LastName != nil {
		userUpdates["last_name"] = *req.LastName
	}
	if req.IsActive != nil {
		userUpdates["is_active"] = *req.IsActive
	}

	membershipUpdates := map[string]interface{}{}
	if req.IsAdmin != nil {
		membershipUpdates["is_admin"] = *req.IsAdmin
	}

	if err := s.repo.UpdateMember(ctx, societyID, userID, userUpdates, membershipUpdates); err != nil {
		return nil, err
	}

	membership, err = s.repo.GetMembership(ctx, societyID, userID)
	if err != nil {
		return nil, err
	}
	user, err = s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &models.MemberInfo{Membership: *membership, User: *user}, nil
}

// DeleteMember removes a member, refusing to remove the last admin
func (s *MembershipService) DeleteMember(ctx context.Context, societyID, userID uuid.UUID) error {
	membership, err := s.repo.GetMembership(ctx, societyID, userID)
	if err != nil {
		return err
	}

	if membership.IsAdmin {
		count, err := s.repo.CountAdmins(ctx, societyID, &userID)
		if err != nil {
			return err
		}
		if count == 0 {
			return ErrLastAdmin
		}
	}

	return s.repo.DeleteMember(ctx, societyID, userID)
}
