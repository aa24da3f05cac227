package mapper

import (
	"time"

	"github.com/stockregister/stock-api/internal/domain"
)

const timestampLayout = "2006-01-02T15:04:05Z"

func formatTime(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

// ToUserDTO converts a user model to its response shape
func ToUserDTO(u *domain.User) domain.UserDTO {
	return domain.UserDTO{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		IsSuperuser: u.IsSuperuser,
		IsActive:    u.IsActive,
	}
}

// ToDepartmentDTO converts a department model with its usage counts
func ToDepartmentDTO(d *domain.Department, accountCount, stockCount int64) domain.DepartmentDTO {
	return domain.DepartmentDTO{
		ID:           d.ID,
		Name:         d.Name,
		AccountCount: int(accountCount),
		StockCount:   int(stockCount),
		CreatedAt:    formatTime(d.CreatedAt),
		UpdatedAt:    formatTime(d.UpdatedAt),
	}
}

// ToDepartmentChoiceDTO converts a department to the picker shape
func ToDepartmentChoiceDTO(d *domain.Department) domain.DepartmentChoiceDTO {
	return domain.DepartmentChoiceDTO{ID: d.ID, Name: d.Name}
}

// ToCategoryDTO converts a category model to its response shape
func ToCategoryDTO(c *domain.Category) domain.CategoryDTO {
	return domain.CategoryDTO{
		ID:        c.ID,
		Name:      c.Name,
		CreatedAt: formatTime(c.CreatedAt),
		UpdatedAt: formatTime(c.UpdatedAt),
	}
}

// ToAccountDTO converts an account model; preloaded User and Department
// resolve the display names when present
func ToAccountDTO(a *domain.Account) domain.AccountDTO {
	dto := domain.AccountDTO{
		ID:           a.ID,
		UserID:       a.UserID,
		DepartmentID: a.DepartmentID,
		Role:         a.Role,
		IsActive:     a.IsActive,
		CreatedAt:    formatTime(a.CreatedAt),
		UpdatedAt:    formatTime(a.UpdatedAt),
	}
	if a.User != nil {
		dto.Username = a.User.Username
		dto.Email = a.User.Email
	}
	if a.Department != nil {
		dto.DepartmentName = a.Department.Name
	}
	return dto
}

// ToStockDTO converts a stock model; preloaded Category and Department
// resolve the display names when present
func ToStockDTO(s *domain.AvailableStock) domain.StockDTO {
	dto := domain.StockDTO{
		ID:           s.ID,
		ItemID:       s.ItemID,
		ItemName:     s.ItemName,
		CategoryID:   s.CategoryID,
		SerialNo:     s.SerialNo,
		DepartmentID: s.DepartmentID,
		Status:       s.Status,
		Location:     s.Location,
		AssignedTo:   s.AssignedTo,
		Date:         s.Date.Format("2006-01-02"),
		Description:  s.Description,
		CreatedAt:    formatTime(s.CreatedAt),
		UpdatedAt:    formatTime(s.UpdatedAt),
	}
	if s.Category != nil {
		dto.CategoryName = s.Category.Name
	}
	if s.Department != nil {
		dto.DepartmentName = s.Department.Name
	}
	return dto
}

// ToComplaintDTO converts a complaint model with its comment count
func ToComplaintDTO(c *domain.Complaint, commentCount int64) domain.ComplaintDTO {
	dto := domain.ComplaintDTO{
		ID:              c.ID,
		Title:           c.Title,
		Description:     c.Description,
		SubmittedByID:   c.SubmittedByID,
		DepartmentID:    c.DepartmentID,
		Priority:        c.Priority,
		Status:          c.Status,
		AssignedToID:    c.AssignedToID,
		ResolutionNotes: c.ResolutionNotes,
		CommentCount:    int(commentCount),
		CreatedAt:       formatTime(c.CreatedAt),
		UpdatedAt:       formatTime(c.UpdatedAt),
	}
	if c.ResolutionDate != nil {
		formatted := formatTime(*c.ResolutionDate)
		dto.ResolutionDate = &formatted
	}
	if c.SubmittedBy != nil && c.SubmittedBy.User != nil {
		dto.SubmittedByName = c.SubmittedBy.User.Username
	}
	if c.Department != nil {
		dto.DepartmentName = c.Department.Name
	}
	if c.AssignedTo != nil && c.AssignedTo.User != nil {
		dto.AssignedToName = c.AssignedTo.User.Username
	}
	return dto
}

// ToCommentDTO converts a complaint comment model
func ToCommentDTO(c *domain.ComplaintComment) domain.CommentDTO {
	dto := domain.CommentDTO{
		ID:          c.ID,
		ComplaintID: c.ComplaintID,
		AuthorID:    c.AuthorID,
		Comment:     c.Comment,
		CreatedAt:   formatTime(c.CreatedAt),
	}
	if c.Author != nil && c.Author.User != nil {
		dto.AuthorName = c.Author.User.Username
	}
	return dto
}
