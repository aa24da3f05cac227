package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base model with common fields. IDs are assigned by the BeforeCreate
// hook rather than a database default so the schema works on both
// postgres and the sqlite test database.
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// BeforeCreate assigns an ID when the database doesn't (e.g. sqlite in tests)
func (b *BaseModel) BeforeCreate(_ *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// User represents an authentication identity
type User struct {
	BaseModel
	Username     string     `gorm:"type:varchar(150);not null;uniqueIndex"`
	Email        string     `gorm:"type:varchar(255);not null"`
	PasswordHash string     `gorm:"type:varchar(255);not null;column:password_hash"`
	IsSuperuser  bool       `gorm:"not null;column:is_superuser"`
	IsActive     bool       `gorm:"not null;column:is_active"`
	LastLoginAt  *time.Time `gorm:"column:last_login_at"`
}

// Department represents an organizational unit owning accounts and stock
type Department struct {
	BaseModel
	Name     string           `gorm:"type:varchar(100);not null;uniqueIndex"`
	Accounts []Account        `gorm:"foreignKey:DepartmentID"`
	Stocks   []AvailableStock `gorm:"foreignKey:DepartmentID;constraint:OnDelete:CASCADE"`
}

// Role represents the permission level of an account
type Role string

const (
	RoleAdmin Role = "admin"
	RoleStaff Role = "staff"
)

// IsValid checks if the Role is a valid enum value
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleStaff:
		return true
	}
	return false
}

// Account links a user identity to a department and role
type Account struct {
	BaseModel
	UserID       uuid.UUID   `gorm:"type:uuid;not null;uniqueIndex;column:user_id"`
	User         *User       `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	DepartmentID *uuid.UUID  `gorm:"type:uuid;index;column:department_id"`
	Department   *Department `gorm:"foreignKey:DepartmentID;constraint:OnDelete:SET NULL"`
	Role         Role        `gorm:"type:varchar(50);not null;default:'staff'"`
	IsActive     bool        `gorm:"not null;column:is_active"`
}

// Category represents a flat item category
type Category struct {
	BaseModel
	Name string `gorm:"type:varchar(100);not null;uniqueIndex"`
}

// StockStatus represents the status of a stock item
type StockStatus string

const (
	StockStatusAvailable   StockStatus = "available"
	StockStatusMaintenance StockStatus = "maintenance"
	StockStatusRetired     StockStatus = "retired"
	StockStatusInUse       StockStatus = "inuse"

	// StockStatusAssigned is no longer an offered choice. The constant is
	// retained because the save-time check in validate.go still guards it.
	StockStatusAssigned StockStatus = "assigned"
)

// IsValid checks if the StockStatus is a currently offered choice
func (s StockStatus) IsValid() bool {
	switch s {
	case StockStatusAvailable, StockStatusMaintenance, StockStatusRetired, StockStatusInUse:
		return true
	}
	return false
}

// AvailableStock represents an inventory item owned by a department
type AvailableStock struct {
	BaseModel
	ItemID       string      `gorm:"type:varchar(50);not null;uniqueIndex;column:item_id"`
	ItemName     string      `gorm:"type:varchar(100);not null;column:item_name"`
	CategoryID   uuid.UUID   `gorm:"type:uuid;not null;index;column:category_id"`
	Category     *Category   `gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE"`
	SerialNo     string      `gorm:"type:varchar(100);not null;uniqueIndex;column:serial_no"`
	DepartmentID uuid.UUID   `gorm:"type:uuid;not null;index:idx_stocks_status_department,priority:2;column:department_id"`
	Department   *Department `gorm:"foreignKey:DepartmentID"`
	Status       StockStatus `gorm:"type:varchar(100);not null;default:'available';index:idx_stocks_status_department,priority:1"`
	Location     string      `gorm:"type:varchar(200);not null"`
	AssignedTo   *string     `gorm:"type:varchar(100);column:assigned_to"`
	Date         time.Time   `gorm:"type:date;not null"`
	Description  string      `gorm:"type:varchar(500)"`
}

// TableName overrides the default table name
func (AvailableStock) TableName() string {
	return "available_stocks"
}

// ComplaintPriority represents the priority level of a complaint
type ComplaintPriority string

const (
	PriorityLow    ComplaintPriority = "low"
	PriorityMedium ComplaintPriority = "medium"
	PriorityHigh   ComplaintPriority = "high"
	PriorityUrgent ComplaintPriority = "urgent"
)

// IsValid checks if the ComplaintPriority is a valid enum value
func (p ComplaintPriority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// ComplaintStatus represents the status of a complaint
type ComplaintStatus string

const (
	ComplaintStatusPending    ComplaintStatus = "pending"
	ComplaintStatusInProgress ComplaintStatus = "in_progress"
	ComplaintStatusResolved   ComplaintStatus = "resolved"
	ComplaintStatusClosed     ComplaintStatus = "closed"
)

// IsValid checks if the ComplaintStatus is a valid enum value
func (s ComplaintStatus) IsValid() bool {
	switch s {
	case ComplaintStatusPending, ComplaintStatusInProgress, ComplaintStatusResolved, ComplaintStatusClosed:
		return true
	}
	return false
}

// Complaint represents an issue submitted by a staff account
type Complaint struct {
	BaseModel
	Title           string             `gorm:"type:varchar(200);not null"`
	Description     string             `gorm:"type:text;not null"`
	SubmittedByID   uuid.UUID          `gorm:"type:uuid;not null;index;column:submitted_by_id"`
	SubmittedBy     *Account           `gorm:"foreignKey:SubmittedByID;constraint:OnDelete:CASCADE"`
	DepartmentID    uuid.UUID          `gorm:"type:uuid;not null;index;column:department_id"`
	Department      *Department        `gorm:"foreignKey:DepartmentID;constraint:OnDelete:CASCADE"`
	Priority        ComplaintPriority  `gorm:"type:varchar(20);not null;default:'medium';index:idx_complaints_status_priority,priority:2"`
	Status          ComplaintStatus    `gorm:"type:varchar(20);not null;default:'pending';index:idx_complaints_status_priority,priority:1"`
	AssignedToID    *uuid.UUID         `gorm:"type:uuid;column:assigned_to_id"`
	AssignedTo      *Account           `gorm:"foreignKey:AssignedToID;constraint:OnDelete:SET NULL"`
	ResolutionDate  *time.Time         `gorm:"column:resolution_date"`
	ResolutionNotes string             `gorm:"type:text;column:resolution_notes"`
	Comments        []ComplaintComment `gorm:"foreignKey:ComplaintID;constraint:OnDelete:CASCADE"`
}

// ComplaintComment represents a comment on a complaint
type ComplaintComment struct {
	BaseModel
	ComplaintID uuid.UUID  `gorm:"type:uuid;not null;index;column:complaint_id"`
	Complaint   *Complaint `gorm:"foreignKey:ComplaintID"`
	AuthorID    uuid.UUID  `gorm:"type:uuid;not null;column:author_id"`
	Author      *Account   `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
	Comment     string     `gorm:"type:text;not null"`
}
