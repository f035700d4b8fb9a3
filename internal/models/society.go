package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SubscriptionLevel represents a society's subscription tier
type SubscriptionLevel string

const (
	SubscriptionFree    SubscriptionLevel = "free"
	SubscriptionBasic   SubscriptionLevel = "basic"
	SubscriptionPremium SubscriptionLevel = "premium"
)

// Unlimited marks a plan limit with no cap
const Unlimited = -1

// PlanLimits holds the headcount caps for a subscription level
type PlanLimits struct {
	MaxAdmins int
	MaxUsers  int
}

// SubscriptionLimits maps each subscription level to its headcount caps.
// MaxUsers counts all active users including admins.
var SubscriptionLimits = map[SubscriptionLevel]PlanLimits{
	SubscriptionFree:    {MaxAdmins: 1, MaxUsers: 2},
	SubscriptionBasic:   {MaxAdmins: 2, MaxUsers: 10},
	SubscriptionPremium: {MaxAdmins: Unlimited, MaxUsers: Unlimited},
}

// IsValid reports whether the level is a known subscription level
func (l SubscriptionLevel) IsValid() bool {
	_, ok := SubscriptionLimits[l]
	return ok
}

// Limits returns the headcount caps for the level
func (l SubscriptionLevel) Limits() PlanLimits {
	return SubscriptionLimits[l]
}

// Society represents a tenant organization. All domain data hangs off a society.
type Society struct {
	ID       uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Name     string    `json:"name" gorm:"type:varchar(255);not null;uniqueIndex"`
	Slug     string    `json:"slug" gorm:"type:varchar(255);not null;uniqueIndex"`
	IsActive bool      `json:"isActive" gorm:"default:true"`

	SubscriptionLevel SubscriptionLevel `json:"subscriptionLevel" gorm:"type:varchar(50);not null;default:'free'"`

	// Feature flags, constrained by the subscription level
	CanManageDrawers   bool `json:"canManageDrawers" gorm:"default:false"`
	ShowsDrawersInList bool `json:"showsDrawersInList" gorm:"default:false"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// User is a login identity. Society membership is modeled separately so the
// same credentials cannot leak across tenants.
type User struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Username     string    `json:"username" gorm:"type:varchar(150);not null;index"`
	Email        string    `json:"email" gorm:"type:varchar(255);not null;index"`
	PasswordHash string    `json:"-" gorm:"type:varchar(255);not null"`
	FirstName    string    `json:"firstName" gorm:"type:varchar(150)"`
	LastName     string    `json:"lastName" gorm:"type:varchar(150)"`
	IsActive     bool      `json:"isActive" gorm:"default:true"`

	LastLoginAt *time.Time `json:"lastLoginAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// Membership links a user to a society with a per-society admin flag
type Membership struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID    uuid.UUID `json:"userId" gorm:"type:uuid;not null;uniqueIndex:idx_membership_user_society"`
	SocietyID uuid.UUID `json:"societyId" gorm:"type:uuid;not null;uniqueIndex:idx_membership_user_society;index"`
	IsAdmin   bool      `json:"isAdmin" gorm:"default:false"`

	User    *User    `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Society *Society `json:"society,omitempty" gorm:"foreignKey:SocietyID"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (Society) TableName() string {
	return "societies"
}

func (User) TableName() string {
	return "users"
}

func (Membership) TableName() string {
	return "memberships"
}

// Request/Response models

// RegisterSocietyRequest registers a new society with its initial admin user
type RegisterSocietyRequest struct {
	Name          string `json:"name" binding:"required,min=1,max=255"`
	Slug          string `json:"slug" binding:"required,min=1,max=255"`
	AdminUsername string `json:"adminUsername" binding:"required,min=1,max=150"`
	AdminEmail    string `json:"adminEmail" binding:"required,email"`
	AdminPassword string `json:"adminPassword" binding:"required,min=8"`
	FirstName     string `json:"firstName,omitempty"`
	LastName      string `json:"lastName,omitempty"`
}

// LoginRequest authenticates against a named society
type LoginRequest struct {
	SocietyName string `json:"societyName" binding:"required"`
	Username    string `json:"username" binding:"required"`
	Password    string `json:"password" binding:"required"`
}

// LoginResponse carries the issued token and the authenticated principal
type LoginResponse struct {
	Success   bool      `json:"success"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	User      *User     `json:"user"`
	Society   *Society  `json:"society"`
	IsAdmin   bool      `json:"isAdmin"`
}

// CreateUserRequest creates a user inside the caller's society
type CreateUserRequest struct {
	Username  string `json:"username" binding:"required,min=1,max=150"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	IsAdmin   bool   `json:"isAdmin,omitempty"`
}

// UpdateUserRequest updates a member of the caller's society
type UpdateUserRequest struct {
	Email     *string `json:"email,omitempty" binding:"omitempty,email"`
	Password  *string `json:"password,omitempty" binding:"omitempty,min=8"`
	FirstName *string `json:"firstName,omitempty"`
	LastName  *string `json:"lastName,omitempty"`
	IsAdmin   *bool   `json:"isAdmin,omitempty"`
	IsActive  *bool   `json:"isActive,omitempty"`
}

// MemberInfo is a membership joined with its user for list/detail responses
type MemberInfo struct {
	Membership Membership `json:"membership"`
	User       User       `json:"user"`
}

// MemberListResponse includes the current headcounts against the plan limits
type MemberListResponse struct {
	Success    bool         `json:"success"`
	Data       []MemberInfo `json:"data"`
	TotalUsers int          `json:"totalUsers"`
	AdminUsers int          `json:"adminUsers"`
	MaxUsers   int          `json:"maxUsers"`
	MaxAdmins  int          `json:"maxAdmins"`
}

// UpdateSocietySettingsRequest toggles the drawer feature flags
type UpdateSocietySettingsRequest struct {
	CanManageDrawers   *bool `json:"canManageDrawers,omitempty"`
	ShowsDrawersInList *bool `json:"showsDrawersInList,omitempty"`
}

// ChangeSubscriptionRequest moves the society to another subscription level
type ChangeSubscriptionRequest struct {
	Level SubscriptionLevel `json:"level" binding:"required"`
}

type SocietyResponse struct {
	Success bool     `json:"success"`
	Data    *Society `json:"data,omitempty"`
	Message *string  `json:"message,omitempty"`
}
