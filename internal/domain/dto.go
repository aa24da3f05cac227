package domain

import (
	"github.com/google/uuid"
)

// PaginatedResponse wraps list results with pagination metadata
type PaginatedResponse struct {
	Data       interface{} `json:"data"`
	Total      int64       `json:"total"`
	Page       int         `json:"page"`
	PageSize   int         `json:"pageSize"`
	TotalPages int         `json:"totalPages"`
}

// ErrorResponse is the simple error envelope used by handlers
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// LoginRequest is the credential payload for password login
type LoginRequest struct {
	Username string `json:"username" validate:"required,max=150"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse carries the issued token and the authenticated identity
type LoginResponse struct {
	Token string  `json:"token"`
	User  UserDTO `json:"user"`
}

// UserDTO represents an authentication identity in responses
type UserDTO struct {
	ID          uuid.UUID `json:"id"`
	Username    string    `json:"username"`
	Email       string    `json:"email"`
	IsSuperuser bool      `json:"isSuperuser"`
	IsActive    bool      `json:"isActive"`
}

// MeResponse describes the acting identity and its linked account
type MeResponse struct {
	User    UserDTO     `json:"user"`
	Account *AccountDTO `json:"account,omitempty"`
}

// CreateDepartmentRequest creates a department
type CreateDepartmentRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

// UpdateDepartmentRequest renames a department
type UpdateDepartmentRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

// DepartmentDTO represents a department with usage counts
type DepartmentDTO struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	AccountCount int       `json:"accountCount"`
	StockCount   int       `json:"stockCount"`
	CreatedAt    string    `json:"createdAt"`
	UpdatedAt    string    `json:"updatedAt"`
}

// DepartmentChoiceDTO is the minimal shape used by foreign-key pickers
type DepartmentChoiceDTO struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// CreateCategoryRequest creates a category
type CreateCategoryRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

// UpdateCategoryRequest renames a category
type UpdateCategoryRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

// CategoryDTO represents a category
type CategoryDTO struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt string    `json:"createdAt"`
	UpdatedAt string    `json:"updatedAt"`
}

// CreateAccountRequest creates a user identity and its linked account
type CreateAccountRequest struct {
	Username     string     `json:"username" validate:"required,max=150"`
	Email        string     `json:"email" validate:"required,email,max=255"`
	Password     string     `json:"password" validate:"required,min=8"`
	DepartmentID *uuid.UUID `json:"departmentId,omitempty"`
	Role         Role       `json:"role" validate:"omitempty,oneof=admin staff"`
	IsActive     *bool      `json:"isActive,omitempty"`
}

// UpdateAccountRequest updates an account's department, role and active flag
type UpdateAccountRequest struct {
	DepartmentID *uuid.UUID `json:"departmentId,omitempty"`
	Role         Role       `json:"role" validate:"required,oneof=admin staff"`
	IsActive     bool       `json:"isActive"`
}

// AccountDTO represents an account with its user and department names
type AccountDTO struct {
	ID             uuid.UUID  `json:"id"`
	UserID         uuid.UUID  `json:"userId"`
	Username       string     `json:"username"`
	Email          string     `json:"email"`
	DepartmentID   *uuid.UUID `json:"departmentId,omitempty"`
	DepartmentName string     `json:"departmentName,omitempty"`
	Role           Role       `json:"role"`
	IsActive       bool       `json:"isActive"`
	CreatedAt      string     `json:"createdAt"`
	UpdatedAt      string     `json:"updatedAt"`
}

// CreateStockRequest creates a stock item. The assignee is deliberately
// absent: the add form never offers it, matching the register's behavior.
type CreateStockRequest struct {
	ItemID       string      `json:"itemId" validate:"required,max=50"`
	ItemName     string      `json:"itemName" validate:"required,max=100"`
	CategoryID   uuid.UUID   `json:"categoryId" validate:"required"`
	SerialNo     string      `json:"serialNo" validate:"required,max=100"`
	DepartmentID uuid.UUID   `json:"departmentId" validate:"required"`
	Status       StockStatus `json:"status" validate:"omitempty,oneof=available maintenance retired inuse"`
	Location     string      `json:"location" validate:"required,max=200"`
	Description  string      `json:"description" validate:"max=500"`
}

// UpdateStockRequest updates a stock item
type UpdateStockRequest struct {
	ItemName     string      `json:"itemName" validate:"required,max=100"`
	CategoryID   uuid.UUID   `json:"categoryId" validate:"required"`
	SerialNo     string      `json:"serialNo" validate:"required,max=100"`
	DepartmentID uuid.UUID   `json:"departmentId" validate:"required"`
	Status       StockStatus `json:"status" validate:"required,oneof=available maintenance retired inuse"`
	Location     string      `json:"location" validate:"required,max=200"`
	AssignedTo   *string     `json:"assignedTo,omitempty" validate:"omitempty,max=100"`
	Description  string      `json:"description" validate:"max=500"`
}

// StockDTO represents a stock item with resolved names
type StockDTO struct {
	ID             uuid.UUID   `json:"id"`
	ItemID         string      `json:"itemId"`
	ItemName       string      `json:"itemName"`
	CategoryID     uuid.UUID   `json:"categoryId"`
	CategoryName   string      `json:"categoryName,omitempty"`
	SerialNo       string      `json:"serialNo"`
	DepartmentID   uuid.UUID   `json:"departmentId"`
	DepartmentName string      `json:"departmentName,omitempty"`
	Status         StockStatus `json:"status"`
	Location       string      `json:"location"`
	AssignedTo     *string     `json:"assignedTo,omitempty"`
	Date           string      `json:"date"`
	Description    string      `json:"description,omitempty"`
	CreatedAt      string      `json:"createdAt"`
	UpdatedAt      string      `json:"updatedAt"`
}

// CreateComplaintRequest submits a complaint. The submitter is stamped
// from the acting account, never taken from the payload.
type CreateComplaintRequest struct {
	Title        string            `json:"title" validate:"required,max=200"`
	Description  string            `json:"description" validate:"required"`
	DepartmentID uuid.UUID         `json:"departmentId" validate:"required"`
	Priority     ComplaintPriority `json:"priority" validate:"omitempty,oneof=low medium high urgent"`
}

// UpdateComplaintRequest updates a complaint
type UpdateComplaintRequest struct {
	Title           string            `json:"title" validate:"required,max=200"`
	Description     string            `json:"description" validate:"required"`
	DepartmentID    uuid.UUID         `json:"departmentId" validate:"required"`
	Priority        ComplaintPriority `json:"priority" validate:"required,oneof=low medium high urgent"`
	Status          ComplaintStatus   `json:"status" validate:"required,oneof=pending in_progress resolved closed"`
	AssignedToID    *uuid.UUID        `json:"assignedToId,omitempty"`
	ResolutionNotes string            `json:"resolutionNotes"`
}

// ComplaintDTO represents a complaint with resolved names and comment count
type ComplaintDTO struct {
	ID              uuid.UUID         `json:"id"`
	Title           string            `json:"title"`
	Description     string            `json:"description"`
	SubmittedByID   uuid.UUID         `json:"submittedById"`
	SubmittedByName string            `json:"submittedByName,omitempty"`
	DepartmentID    uuid.UUID         `json:"departmentId"`
	DepartmentName  string            `json:"departmentName,omitempty"`
	Priority        ComplaintPriority `json:"priority"`
	Status          ComplaintStatus   `json:"status"`
	AssignedToID    *uuid.UUID        `json:"assignedToId,omitempty"`
	AssignedToName  string            `json:"assignedToName,omitempty"`
	ResolutionDate  *string           `json:"resolutionDate,omitempty"`
	ResolutionNotes string            `json:"resolutionNotes,omitempty"`
	CommentCount    int               `json:"commentCount"`
	CreatedAt       string            `json:"createdAt"`
	UpdatedAt       string            `json:"updatedAt"`
}

// CreateCommentRequest adds a comment to a complaint
type CreateCommentRequest struct {
	Comment string `json:"comment" validate:"required"`
}

// CommentDTO represents a complaint comment
type CommentDTO struct {
	ID          uuid.UUID `json:"id"`
	ComplaintID uuid.UUID `json:"complaintId"`
	AuthorID    uuid.UUID `json:"authorId"`
	AuthorName  string    `json:"authorName,omitempty"`
	Comment     string    `json:"comment"`
	CreatedAt   string    `json:"createdAt"`
}

// BulkIDsRequest selects records for a bulk action
type BulkIDsRequest struct {
	IDs []uuid.UUID `json:"ids" validate:"required,min=1,dive,required"`
}

// BulkUpdateResponse reports how many rows a bulk action touched
type BulkUpdateResponse struct {
	Updated int64 `json:"updated"`
}
