package auth

import (
	"context"

	"github.com/google/uuid"
	"github.com/stockregister/stock-api/internal/domain"
)

// Actor holds the authenticated identity performing a request.
// Account is nil when the user has no linked account row; every
// permission check treats that as having no visible rows (fail closed).
type Actor struct {
	UserID      uuid.UUID
	Username    string
	IsSuperuser bool
	Account     *domain.Account
}

type contextKey string

const actorContextKey contextKey = "actorContext"

// WithActor adds the actor to the context
func WithActor(ctx context.Context, actor *Actor) context.Context {
	return context.WithValue(ctx, actorContextKey, actor)
}

// FromContext extracts the actor from the context
func FromContext(ctx context.Context) (*Actor, bool) {
	actor, ok := ctx.Value(actorContextKey).(*Actor)
	return actor, ok
}

// MustFromContext extracts the actor or panics
func MustFromContext(ctx context.Context) *Actor {
	actor, ok := FromContext(ctx)
	if !ok {
		panic("actor not found in context")
	}
	return actor
}

// HasAccount reports whether the actor has a linked account row
func (a *Actor) HasAccount() bool {
	return a.Account != nil
}

// Role returns the linked account's role, false when no account exists
func (a *Actor) Role() (domain.Role, bool) {
	if a.Account == nil {
		return "", false
	}
	return a.Account.Role, true
}

// IsAdmin reports whether the actor sees and edits everything:
// superusers always, otherwise accounts with the admin role
func (a *Actor) IsAdmin() bool {
	if a.IsSuperuser {
		return true
	}
	return a.Account != nil && a.Account.Role == domain.RoleAdmin
}

// DepartmentID returns the linked account's department, nil when the
// account has none or doesn't exist
func (a *Actor) DepartmentID() *uuid.UUID {
	if a.Account == nil {
		return nil
	}
	return a.Account.DepartmentID
}

// CanEditStock checks edit permission on a single stock row: superusers
// always, anyone else only within their own department
func (a *Actor) CanEditStock(s *domain.AvailableStock) bool {
	if a.IsSuperuser {
		return true
	}
	dept := a.DepartmentID()
	return dept != nil && *dept == s.DepartmentID
}

// CanEditComplaint checks edit permission on a single complaint:
// superusers and admins always, staff only their own while still pending
func (a *Actor) CanEditComplaint(c *domain.Complaint) bool {
	if a.IsSuperuser {
		return true
	}
	role, ok := a.Role()
	if !ok {
		return false
	}
	switch role {
	case domain.RoleAdmin:
		return true
	case domain.RoleStaff:
		return c.SubmittedByID == a.Account.ID && c.Status == domain.ComplaintStatusPending
	}
	return false
}
