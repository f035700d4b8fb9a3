package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"stock-service/internal/models"
)

// SocietyRepository defines tenant and membership persistence.
// Every tenant-scoped method takes the society ID explicitly so the scope
// cannot be forgotten in a handler.
type SocietyRepository interface {
	CreateSocietyWithAdmin(ctx context.Context, society *models.Society, admin *models.User, membership *models.Membership) error
	GetSocietyByID(ctx context.Context, id uuid.UUID) (*models.Society, error)
	GetSocietyByName(ctx context.Context, name string) (*models.Society, error)
	UpdateSociety(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error

	FindUsersByIdentifier(ctx context.Context, identifier string) ([]models.User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	UpdateUserLastLogin(ctx context.Context, id uuid.UUID) error

	GetMembership(ctx context.Context, societyID, userID uuid.UUID) (*models.Membership, error)
	ListMembers(ctx context.Context, societyID uuid.UUID) ([]models.MemberInfo, error)
	CountAdmins(ctx context.Context, societyID uuid.UUID, excludeUserID *uuid.UUID) (int64, error)
	CountActiveUsers(ctx context.Context, societyID uuid.UUID, excludeUserID *uuid.UUID) (int64, error)
	CreateMember(ctx context.Context, user *models.User, membership *models.Membership) error
	UpdateMember(ctx context.Context, societyID, userID uuid.UUID, userUpdates, membershipUpdates map[string]interface{}) error
	DeleteMember(ctx context.Context, societyID, userID uuid.UUID) error
	UsernameTaken(ctx context.Context, username string) (bool, error)
	EmailTaken(ctx context.Context, email string) (bool, error)
}

type societyRepository struct {
	db *gorm.DB
}

// NewSocietyRepository creates a gorm-backed SocietyRepository
func NewSocietyRepository(db *gorm.DB) SocietyRepository {
	return &societyRepository{db: db}
}

// CreateSocietyWithAdmin registers a society together with its first admin
// user and membership in one transaction.
func (r *societyRepository) CreateSocietyWithAdmin(ctx context.Context, society *models.Society, admin *models.User, membership *models.Membership) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Society{}).
			Where("name = ? OR slug = ?", society.Name, society.Slug).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrDuplicate
		}

		if err := tx.Create(society).Error; err != nil {
			return err
		}
		if err := tx.Create(admin).Error; err != nil {
			return err
		}
		membership.UserID = admin.ID
		membership.SocietyID = society.ID
		return tx.Create(membership).Error
	})
}

func (r *societyRepository) GetSocietyByID(ctx context.Context, id uuid.UUID) (*models.Society, error) {
	var society models.Society
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&society).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	return &society, err
}

func (r *societyRepository) GetSocietyByName(ctx context.Context, name string) (*models.Society, error) {
	var society models.Society
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&society).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	return &society, err
}

func (r *societyRepository) UpdateSociety(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now()
	return r.db.WithContext(ctx).Model(&models.Society{}).
		Where("id = ?", id).
		Updates(updates).Error
}

// FindUsersByIdentifier matches a username or email case-insensitively.
// More than one match is possible across tenants; the caller decides what an
// ambiguous match means.
func (r *societyRepository) FindUsersByIdentifier(ctx context.Context, identifier string) ([]models.User, error) {
	var users []models.User
	ident := strings.ToLower(identifier)
	err := r.db.WithContext(ctx).
		Where("LOWER(username) = ? OR LOWER(email) = ?", ident, ident).
		Find(&users).Error
	return users, err
}

func (r *societyRepository) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	return &user, err
}

func (r *societyRepository) UpdateUserLastLogin(ctx context.Context, id uuid.UUID) error {
	now := time.Now()
	return r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"last_login_at": &now, "updated_at": now}).Error
}

func (r *societyRepository) GetMembership(ctx context.Context, societyID, userID uuid.UUID) (*models.Membership, error) {
	var membership models.Membership
	err := r.db.WithContext(ctx).
		Where("society_id = ? AND user_id = ?", societyID, userID).
		First(&membership).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	return &membership, err
}

func (r *societyRepository) ListMembers(ctx context.Context, societyID uuid.UUID) ([]models.MemberInfo, error) {
	var memberships []models.Membership
	err := r.db.WithContext(ctx).
		Where("society_id = ?", societyID).
		Preload("User").
		Find(&memberships).Error
	if err != nil {
		return nil, err
	}

	members := make([]models.MemberInfo, 0, len(memberships))
	for _, m := range memberships {
		if m.User == nil {
			continue
		}
		user := *m.User
		m.User = nil
		members = append(members, models.MemberInfo{Membership: m, User: user})
	}
	return members, nil
}

func (r *societyRepository) CountAdmins(ctx context.Context, societyID uuid.UUID, excludeUserID *uuid.UUID) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.Membership{}).
		Where("society_id = ? AND is_admin = ?", societyID, true)
	if excludeUserID != nil {
		query = query.Where("user_id != ?", *excludeUserID)
	}
	err := query.Count(&count).Error
	return count, err
}

// CountActiveUsers counts active members of the society, joining users to
// honor the per-user active flag.
func (r *societyRepository) CountActiveUsers(ctx context.Context, societyID uuid.UUID, excludeUserID *uuid.UUID) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.Membership{}).
		Joins("JOIN users ON users.id = memberships.user_id").
		Where("memberships.society_id = ? AND users.is_active = ?", societyID, true).
		Where("memberships.deleted_at IS NULL")
	if excludeUserID != nil {
		query = query.Where("memberships.user_id != ?", *excludeUserID)
	}
	err := query.Count(&count).Error
	return count, err
}

func (r *societyRepository) CreateMember(ctx context.Context, user *models.User, membership *models.Membership) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		membership.UserID = user.ID
		return tx.Create(membership).Error
	})
}

func (r *societyRepository) UpdateMember(ctx context.Context, societyID, userID uuid.UUID, userUpdates, membershipUpdates map[string]interface{}) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var membership models.Membership
		err := tx.Where("society_id = ? AND user_id = ?", societyID, userID).First(&membership).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		if len(userUpdates) > 0 {
			userUpdates["updated_at"] = time.Now()
			if err := tx.Model(&models.User{}).Where("id = ?", userID).Updates(userUpdates).Error; err != nil {
				return err
			}
		}
		if len(membershipUpdates) > 0 {
			membershipUpdates["updated_at"] = time.Now()
			if err := tx.Model(&models.Membership{}).
				Where("society_id = ? AND user_id = ?", societyID, userID).
				Updates(membershipUpdates).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// DeleteMember removes the membership and the login user behind it. Users
// belong to exactly one society in practice, so the user row goes too.
func (r *societyRepository) DeleteMember(ctx context.Context, societyID, userID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("society_id = ? AND user_id = ?", societyID, userID).Delete(&models.Membership{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}

		var remaining int64
		if err := tx.Model(&models.Membership{}).Where("user_id = ?", userID).Count(&remaining).Error; err != nil {
			return err
		}
		if remaining == 0 {
			return tx.Where("id = ?", userID).Delete(&models.User{}).Error
		}
		return nil
	})
}

func (r *societyRepository) UsernameTaken(ctx context.Context, username string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).
		Where("LOWER(username) = ?", strings.ToLower(username)).
		Count(&count).Error
	return count > 0, err
}

func (r *societyRepository) EmailTaken(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).
		Where("LOWER(email) = ?", strings.ToLower(email)).
		Count(&count).Error
	return count > 0, err
}
