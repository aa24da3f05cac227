package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stockregister/stock-api/internal/auth"
	"github.com/stockregister/stock-api/internal/domain"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupTestDB opens an in-memory sqlite database with the full schema.
// Each call returns an isolated database.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "failed to open in-memory test database")

	err = db.AutoMigrate(
		&domain.User{},
		&domain.Department{},
		&domain.Account{},
		&domain.Category{},
		&domain.AvailableStock{},
		&domain.Complaint{},
		&domain.ComplaintComment{},
	)
	require.NoError(t, err, "failed to migrate test schema")

	return db
}

// CreateTestUser creates a user row with a throwaway password hash
func CreateTestUser(t *testing.T, db *gorm.DB, username string, superuser bool) *domain.User {
	t.Helper()
	user := &domain.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "$2a$10$invalidhashforfixturesonly0000000000000000000000000000",
		IsSuperuser:  superuser,
		IsActive:     true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// CreateTestAccount creates an account linked to a fresh user
func CreateTestAccount(t *testing.T, db *gorm.DB, username string, role domain.Role, departmentID *uuid.UUID) *domain.Account {
	t.Helper()
	user := CreateTestUser(t, db, username, false)
	account := &domain.Account{
		UserID:       user.ID,
		DepartmentID: departmentID,
		Role:         role,
		IsActive:     true,
	}
	require.NoError(t, db.Create(account).Error)
	account.User = user
	return account
}

// CreateTestDepartment creates a department row
func CreateTestDepartment(t *testing.T, db *gorm.DB, name string) *domain.Department {
	t.Helper()
	department := &domain.Department{Name: name}
	require.NoError(t, db.Create(department).Error)
	return department
}

// CreateTestCategory creates a category row
func CreateTestCategory(t *testing.T, db *gorm.DB, name string) *domain.Category {
	t.Helper()
	category := &domain.Category{Name: name}
	require.NoError(t, db.Create(category).Error)
	return category
}

// CreateTestStock creates a stock item in the given department and category
func CreateTestStock(t *testing.T, db *gorm.DB, itemID string, categoryID, departmentID uuid.UUID) *domain.AvailableStock {
	t.Helper()
	stock := &domain.AvailableStock{
		ItemID:       itemID,
		ItemName:     "Test Item " + itemID,
		CategoryID:   categoryID,
		SerialNo:     "SN-" + itemID,
		DepartmentID: departmentID,
		Status:       domain.StockStatusAvailable,
		Location:     "Storage Room 1",
		Date:         time.Now().UTC(),
	}
	require.NoError(t, db.Create(stock).Error)
	return stock
}

// CreateTestComplaint creates a pending complaint submitted by the given account
func CreateTestComplaint(t *testing.T, db *gorm.DB, title string, submittedByID, departmentID uuid.UUID) *domain.Complaint {
	t.Helper()
	complaint := &domain.Complaint{
		Title:         title,
		Description:   "test complaint body",
		SubmittedByID: submittedByID,
		DepartmentID:  departmentID,
		Priority:      domain.PriorityMedium,
		Status:        domain.ComplaintStatusPending,
	}
	require.NoError(t, db.Create(complaint).Error)
	return complaint
}

// SuperuserContext returns a context carrying a superuser actor
func SuperuserContext(user *domain.User) context.Context {
	return auth.WithActor(context.Background(), &auth.Actor{
		UserID:      user.ID,
		Username:    user.Username,
		IsSuperuser: true,
	})
}

// ActorContext returns a context carrying an actor with the given account
func ActorContext(account *domain.Account) context.Context {
	actor := &auth.Actor{
		UserID:  account.UserID,
		Account: account,
	}
	if account.User != nil {
		actor.Username = account.User.Username
	}
	return auth.WithActor(context.Background(), actor)
}

// AccountlessContext returns a context carrying an authenticated actor
// with no linked account
func AccountlessContext(user *domain.User) context.Context {
	return auth.WithActor(context.Background(), &auth.Actor{
		UserID:   user.ID,
		Username: user.Username,
	})
}
