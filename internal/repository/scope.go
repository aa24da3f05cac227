package repository

import (
	"context"
	"strings"

	"github.com/stockregister/stock-api/internal/auth"
	"github.com/stockregister/stock-api/internal/domain"
	"gorm.io/gorm"
)

// MaxPageSize is the maximum allowed page size for paginated queries
const MaxPageSize = 200

// SortOrder represents the sort direction
type SortOrder string

const (
	SortOrderAsc  SortOrder = "asc"
	SortOrderDesc SortOrder = "desc"
)

// ParseSortOrder parses a string into SortOrder, defaulting to desc
func ParseSortOrder(s string) SortOrder {
	if strings.ToLower(s) == "asc" {
		return SortOrderAsc
	}
	return SortOrderDesc
}

// denyAll restricts a query to zero rows. Used for every fail-closed
// branch below so an actor without permissions can never see data.
func denyAll(query *gorm.DB) *gorm.DB {
	return query.Where("1 = 0")
}

// ApplyStockScope applies row-level visibility for stock queries:
// superusers and admins see everything, staff see their own department,
// everyone else (no account, staff without department) sees nothing.
func ApplyStockScope(ctx context.Context, query *gorm.DB) *gorm.DB {
	actor, ok := auth.FromContext(ctx)
	if !ok {
		return denyAll(query)
	}
	if actor.IsSuperuser {
		return query
	}
	role, hasAccount := actor.Role()
	if !hasAccount {
		return denyAll(query)
	}
	switch role {
	case domain.RoleAdmin:
		return query
	case domain.RoleStaff:
		if dept := actor.DepartmentID(); dept != nil {
			return query.Where("available_stocks.department_id = ?", *dept)
		}
	}
	return denyAll(query)
}

// ApplyComplaintScope applies row-level visibility for complaint queries:
// superusers and admins see everything, staff see only complaints they
// submitted, everyone else sees nothing.
func ApplyComplaintScope(ctx context.Context, query *gorm.DB) *gorm.DB {
	actor, ok := auth.FromContext(ctx)
	if !ok {
		return denyAll(query)
	}
	if actor.IsSuperuser {
		return query
	}
	role, hasAccount := actor.Role()
	if !hasAccount {
		return denyAll(query)
	}
	switch role {
	case domain.RoleAdmin:
		return query
	case domain.RoleStaff:
		return query.Where("complaints.submitted_by_id = ?", actor.Account.ID)
	}
	return denyAll(query)
}

// ApplyDepartmentChoiceScope limits the department choice set offered by
// foreign-key pickers: staff only ever see their own department.
func ApplyDepartmentChoiceScope(ctx context.Context, query *gorm.DB) *gorm.DB {
	actor, ok := auth.FromContext(ctx)
	if !ok {
		return denyAll(query)
	}
	if actor.IsSuperuser {
		return query
	}
	role, hasAccount := actor.Role()
	if !hasAccount {
		return denyAll(query)
	}
	switch role {
	case domain.RoleAdmin:
		return query
	case domain.RoleStaff:
		if dept := actor.DepartmentID(); dept != nil {
			return query.Where("departments.id = ?", *dept)
		}
	}
	return denyAll(query)
}
