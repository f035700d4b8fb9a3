package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// MovementType represents the direction of a stock movement
type MovementType string

const (
	MovementIn  MovementType = "in"
	MovementOut MovementType = "out"
)

// StockItemKind categorizes stock items within a society
type StockItemKind struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	SocietyID   uuid.UUID `json:"societyId" gorm:"type:uuid;not null;uniqueIndex:idx_kind_society_name"`
	Name        string    `json:"name" gorm:"type:varchar(100);not null;uniqueIndex:idx_kind_society_name"`
	Description string    `json:"description" gorm:"type:text"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// StockItem is a trackable inventory entry. CurrentQuantity is the
// authoritative on-hand count; drawer placements are sub-locations and are
// not reconciled against it.
type StockItem struct {
	ID          uuid.UUID  `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	SocietyID   uuid.UUID  `json:"societyId" gorm:"type:uuid;not null;uniqueIndex:idx_item_society_name;index"`
	KindID      *uuid.UUID `json:"kindId,omitempty" gorm:"type:uuid;index"`
	Name        string     `json:"name" gorm:"type:varchar(255);not null;uniqueIndex:idx_item_society_name"`
	Description string     `json:"description" gorm:"type:text"`

	CurrentQuantity int    `json:"currentQuantity" gorm:"not null;default:0;check:current_quantity >= 0"`
	MinimumQuantity int    `json:"minimumQuantity" gorm:"not null;default:0"`
	Unit            string `json:"unit" gorm:"type:varchar(50)"`

	LocationDescription string `json:"locationDescription" gorm:"type:varchar(255)"`
	IsActive            bool   `json:"isActive" gorm:"default:true"`

	Kind *StockItemKind `json:"kind,omitempty" gorm:"foreignKey:KindID"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Drawer is a physical storage coordinate inside a parts cabinet
type Drawer struct {
	ID            uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	SocietyID     uuid.UUID `json:"societyId" gorm:"type:uuid;not null;uniqueIndex:idx_drawer_coordinate;index"`
	CabinetName   string    `json:"cabinetName" gorm:"type:varchar(100);uniqueIndex:idx_drawer_coordinate"`
	DrawerLetterX string    `json:"drawerLetterX" gorm:"type:varchar(1);not null;uniqueIndex:idx_drawer_coordinate"`
	DrawerNumberY int       `json:"drawerNumberY" gorm:"not null;uniqueIndex:idx_drawer_coordinate"`
	Description   string    `json:"description" gorm:"type:text"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Label renders the drawer coordinate for messages and exports
func (d Drawer) Label() string {
	if d.CabinetName == "" {
		return fmt.Sprintf("%s%d", d.DrawerLetterX, d.DrawerNumberY)
	}
	return fmt.Sprintf("%s %s%d", d.CabinetName, d.DrawerLetterX, d.DrawerNumberY)
}

// DrawerPlacement holds the quantity of one item stored in one drawer
type DrawerPlacement struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	SocietyID   uuid.UUID `json:"societyId" gorm:"type:uuid;not null;index"`
	StockItemID uuid.UUID `json:"stockItemId" gorm:"type:uuid;not null;uniqueIndex:idx_placement_item_drawer"`
	DrawerID    uuid.UUID `json:"drawerId" gorm:"type:uuid;not null;uniqueIndex:idx_placement_item_drawer"`
	Quantity    int       `json:"quantity" gorm:"not null;default:0;check:quantity >= 0"`

	StockItem *StockItem `json:"stockItem,omitempty" gorm:"foreignKey:StockItemID"`
	Drawer    *Drawer    `json:"drawer,omitempty" gorm:"foreignKey:DrawerID"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Movement is an immutable ledger row appended as a side effect of every
// stock-mutating operation. It is never updated or deleted.
type Movement struct {
	ID           uuid.UUID    `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	SocietyID    uuid.UUID    `json:"societyId" gorm:"type:uuid;not null;index"`
	StockItemID  uuid.UUID    `json:"stockItemId" gorm:"type:uuid;not null;index"`
	MovementType MovementType `json:"movementType" gorm:"type:varchar(10);not null"`
	Quantity     int          `json:"quantity" gorm:"not null;check:quantity > 0"`
	MovedByID    *uuid.UUID   `json:"movedById,omitempty" gorm:"type:uuid"`
	DrawerID     *uuid.UUID   `json:"drawerId,omitempty" gorm:"type:uuid"`
	Notes        string       `json:"notes" gorm:"type:text"`
	Timestamp    time.Time    `json:"timestamp" gorm:"not null;index"`

	StockItem *StockItem `json:"stockItem,omitempty" gorm:"foreignKey:StockItemID"`
	MovedBy   *User      `json:"movedBy,omitempty" gorm:"foreignKey:MovedByID"`
	Drawer    *Drawer    `json:"drawer,omitempty" gorm:"foreignKey:DrawerID"`
}

// ObjectUser is a stock consumer (a department or person), distinct from a
// login user
type ObjectUser struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	SocietyID   uuid.UUID `json:"societyId" gorm:"type:uuid;not null;uniqueIndex:idx_objectuser_society_name"`
	Name        string    `json:"name" gorm:"type:varchar(255);not null;uniqueIndex:idx_objectuser_society_name"`
	ContactInfo string    `json:"contactInfo" gorm:"type:varchar(255)"`
	Notes       string    `json:"notes" gorm:"type:text"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Usage records an object user consuming a quantity of an item over a period
type Usage struct {
	ID           uuid.UUID  `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	SocietyID    uuid.UUID  `json:"societyId" gorm:"type:uuid;not null;index"`
	StockItemID  uuid.UUID  `json:"stockItemId" gorm:"type:uuid;not null;index"`
	ObjectUserID uuid.UUID  `json:"objectUserId" gorm:"type:uuid;not null;index"`
	QuantityUsed int        `json:"quantityUsed" gorm:"not null;check:quantity_used > 0"`
	StartDate    time.Time  `json:"startDate" gorm:"type:date;not null"`
	EndDate      *time.Time `json:"endDate,omitempty" gorm:"type:date"`
	Notes        string     `json:"notes" gorm:"type:text"`
	LoggedByID   *uuid.UUID `json:"loggedById,omitempty" gorm:"type:uuid"`
	LoggedAt     time.Time  `json:"loggedAt" gorm:"not null;index"`

	StockItem  *StockItem  `json:"stockItem,omitempty" gorm:"foreignKey:StockItemID"`
	ObjectUser *ObjectUser `json:"objectUser,omitempty" gorm:"foreignKey:ObjectUserID"`
	LoggedBy   *User       `json:"loggedBy,omitempty" gorm:"foreignKey:LoggedByID"`
}

// RefillSchedule is a planned restock. Lifecycle is one-way: pending until
// completed, at which point the quantity is applied to stock and a movement
// is appended.
type RefillSchedule struct {
	ID               uuid.UUID  `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	SocietyID        uuid.UUID  `json:"societyId" gorm:"type:uuid;not null;index"`
	StockItemID      uuid.UUID  `json:"stockItemId" gorm:"type:uuid;not null;index"`
	ScheduledDate    time.Time  `json:"scheduledDate" gorm:"type:date;not null"`
	QuantityToRefill int        `json:"quantityToRefill" gorm:"not null;check:quantity_to_refill > 0"`
	IsCompleted      bool       `json:"isCompleted" gorm:"default:false"`
	CompletedDate    *time.Time `json:"completedDate,omitempty" gorm:"type:date"`
	Notes            string     `json:"notes" gorm:"type:text"`

	StockItem *StockItem `json:"stockItem,omitempty" gorm:"foreignKey:StockItemID"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName implementations
func (StockItemKind) TableName() string {
	return "stock_item_kinds"
}

func (StockItem) TableName() string {
	return "stock_items"
}

func (Drawer) TableName() string {
	return "drawers"
}

func (DrawerPlacement) TableName() string {
	return "drawer_placements"
}

func (Movement) TableName() string {
	return "movements"
}

func (ObjectUser) TableName() string {
	return "object_users"
}

func (Usage) TableName() string {
	return "usages"
}

func (RefillSchedule) TableName() string {
	return "refill_schedules"
}

// Request/Response models

type CreateStockItemKindRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=100"`
	Description string `json:"description,omitempty"`
}

type UpdateStockItemKindRequest struct {
	Name        *string `json:"name,omitempty" binding:"omitempty,min=1,max=100"`
	Description *string `json:"description,omitempty"`
}

type CreateStockItemRequest struct {
	Name                string     `json:"name" binding:"required,min=1,max=255"`
	Description         string     `json:"description,omitempty"`
	KindID              *uuid.UUID `json:"kindId,omitempty"`
	CurrentQuantity     *int       `json:"currentQuantity,omitempty" binding:"omitempty,gte=0"`
	MinimumQuantity     *int       `json:"minimumQuantity,omitempty" binding:"omitempty,gte=0"`
	Unit                string     `json:"unit,omitempty"`
	LocationDescription string     `json:"locationDescription,omitempty"`
}

type UpdateStockItemRequest struct {
	Name                *string    `json:"name,omitempty" binding:"omitempty,min=1,max=255"`
	Description         *string    `json:"description,omitempty"`
	KindID              *uuid.UUID `json:"kindId,omitempty"`
	MinimumQuantity     *int       `json:"minimumQuantity,omitempty" binding:"omitempty,gte=0"`
	Unit                *string    `json:"unit,omitempty"`
	LocationDescription *string    `json:"locationDescription,omitempty"`
	IsActive            *bool      `json:"isActive,omitempty"`
}

// StockMovementRequest records a stock in or out operation
type StockMovementRequest struct {
	StockItemID uuid.UUID  `json:"stockItemId" binding:"required"`
	Quantity    int        `json:"quantity" binding:"required,gt=0"`
	DrawerID    *uuid.UUID `json:"drawerId,omitempty"`
	Notes       string     `json:"notes,omitempty"`
}

type CreateDrawerRequest struct {
	CabinetName   string `json:"cabinetName,omitempty" binding:"max=100"`
	DrawerLetterX string `json:"drawerLetterX" binding:"required,len=1"`
	DrawerNumberY int    `json:"drawerNumberY" binding:"required,gte=0"`
	Description   string `json:"description,omitempty"`
}

type UpdateDrawerRequest struct {
	CabinetName   *string `json:"cabinetName,omitempty" binding:"omitempty,max=100"`
	DrawerLetterX *string `json:"drawerLetterX,omitempty" binding:"omitempty,len=1"`
	DrawerNumberY *int    `json:"drawerNumberY,omitempty" binding:"omitempty,gte=0"`
	Description   *string `json:"description,omitempty"`
}

// AssignPlacementRequest places an item into a drawer with a quantity
type AssignPlacementRequest struct {
	StockItemID uuid.UUID `json:"stockItemId" binding:"required"`
	DrawerID    uuid.UUID `json:"drawerId" binding:"required"`
	Quantity    int       `json:"quantity" binding:"gte=0"`
}

type CreateObjectUserRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=255"`
	ContactInfo string `json:"contactInfo,omitempty"`
	Notes       string `json:"notes,omitempty"`
}

type UpdateObjectUserRequest struct {
	Name        *string `json:"name,omitempty" binding:"omitempty,min=1,max=255"`
	ContactInfo *string `json:"contactInfo,omitempty"`
	Notes       *string `json:"notes,omitempty"`
}

// LogUsageRequest records an object user consuming stock
type LogUsageRequest struct {
	StockItemID  uuid.UUID  `json:"stockItemId" binding:"required"`
	ObjectUserID uuid.UUID  `json:"objectUserId" binding:"required"`
	QuantityUsed int        `json:"quantityUsed" binding:"required,gt=0"`
	StartDate    string     `json:"startDate" binding:"required"`
	EndDate      *string    `json:"endDate,omitempty"`
	Notes        string     `json:"notes,omitempty"`
}

type CreateRefillScheduleRequest struct {
	StockItemID      uuid.UUID `json:"stockItemId" binding:"required"`
	ScheduledDate    string    `json:"scheduledDate" binding:"required"`
	QuantityToRefill int       `json:"quantityToRefill" binding:"required,gt=0"`
	Notes            string    `json:"notes,omitempty"`
}

// RefillPrediction is one row of the refill prediction report
type RefillPrediction struct {
	StockItem         StockItem  `json:"stockItem"`
	CurrentQuantity   int        `json:"currentQuantity"`
	MinimumQuantity   int        `json:"minimumQuantity"`
	UsedLast90Days    int        `json:"usedLast90Days"`
	DailyUsage        float64    `json:"dailyUsage"`
	DaysUntilEmpty    *float64   `json:"daysUntilEmpty,omitempty"`
	PredictedDate     *time.Time `json:"predictedDate,omitempty"`
	NeedsRefill       bool       `json:"needsRefill"`
	AlertLevel        AlertLevel `json:"alertLevel"`
	AlertMessage      string     `json:"alertMessage,omitempty"`
}

// AlertLevel tiers the refill prediction alerts
type AlertLevel string

const (
	AlertNone     AlertLevel = ""
	AlertLowStock AlertLevel = "low_stock"
	AlertSoon     AlertLevel = "soon"
	AlertUrgent   AlertLevel = "urgent"
	AlertZero     AlertLevel = "zero_stock"
)

// StockItemListEntry is one stock list row. Placements ride along when the
// society shows drawer locations in the list.
type StockItemListEntry struct {
	StockItem
	Placements []DrawerPlacement `json:"placements,omitempty"`
}

// StockItemDetail is a stock item with its recent activity
type StockItemDetail struct {
	StockItem  StockItem         `json:"stockItem"`
	Movements  []Movement        `json:"movements"`
	Usages     []Usage           `json:"usages"`
	Refills    []RefillSchedule  `json:"refills"`
	Placements []DrawerPlacement `json:"placements,omitempty"`
}

// DashboardSummary is the per-society home view
type DashboardSummary struct {
	TotalStockItems int              `json:"totalStockItems"`
	LowStockItems   int              `json:"lowStockItems"`
	RecentMovements []Movement       `json:"recentMovements"`
	UpcomingRefills []RefillSchedule `json:"upcomingRefills"`
}

// Shared response envelopes

type ErrorResponse struct {
	Success bool  `json:"success"`
	Error   Error `json:"error"`
}

type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type SuccessResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message *string     `json:"message,omitempty"`
}

// PaginationMeta represents pagination metadata
type PaginationMeta struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalItems int64 `json:"totalItems"`
	TotalPages int   `json:"totalPages"`
}

type ListResponse struct {
	Success    bool            `json:"success"`
	Data       interface{}     `json:"data"`
	Pagination *PaginationMeta `json:"pagination,omitempty"`
}
