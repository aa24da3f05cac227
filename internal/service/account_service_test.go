package service_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stockregister/stock-api/internal/domain"
	"github.com/stockregister/stock-api/internal/repository"
	"github.com/stockregister/stock-api/internal/service"
	"github.com/stockregister/stock-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newAccountService(db *gorm.DB) *service.AccountService {
	return service.NewAccountService(
		repository.NewAccountRepository(db),
		repository.NewUserRepository(db),
		zap.NewNop(),
	)
}

func TestAccountService_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newAccountService(db)

	it := testutil.CreateTestDepartment(t, db, "IT")
	su := testutil.CreateTestUser(t, db, "root", true)
	suCtx := testutil.SuperuserContext(su)

	t.Run("provisions user and account together", func(t *testing.T) {
		dto, err := svc.Create(suCtx, &domain.CreateAccountRequest{
			Username:     "newhire",
			Email:        "newhire@example.com",
			Password:     "correct-horse-battery",
			DepartmentID: &it.ID,
		})
		require.NoError(t, err)
		assert.Equal(t, "newhire", dto.Username)
		assert.Equal(t, domain.RoleStaff, dto.Role, "role defaults to staff")
		assert.True(t, dto.IsActive)
		assert.Equal(t, "IT", dto.DepartmentName)

		var user domain.User
		require.NoError(t, db.First(&user, "username = ?", "newhire").Error)
		assert.NotEqual(t, "correct-horse-battery", user.PasswordHash, "password must be stored hashed")
	})

	t.Run("account requested inactive persists inactive", func(t *testing.T) {
		inactive := false
		dto, err := svc.Create(suCtx, &domain.CreateAccountRequest{
			Username: "dormant",
			Email:    "dormant@example.com",
			Password: "correct-horse-battery",
			IsActive: &inactive,
		})
		require.NoError(t, err)
		assert.False(t, dto.IsActive)

		var account domain.Account
		require.NoError(t, db.First(&account, "id = ?", dto.ID).Error)
		assert.False(t, account.IsActive)

		var user domain.User
		require.NoError(t, db.First(&user, "username = ?", "dormant").Error)
		assert.False(t, user.IsActive)
	})

	t.Run("duplicate username rejected", func(t *testing.T) {
		_, err := svc.Create(suCtx, &domain.CreateAccountRequest{
			Username: "newhire",
			Email:    "other@example.com",
			Password: "correct-horse-battery",
		})
		assert.ErrorIs(t, err, service.ErrConflict)
	})

	t.Run("staff denied everywhere", func(t *testing.T) {
		staff := testutil.CreateTestAccount(t, db, "plain-staff", domain.RoleStaff, &it.ID)
		ctx := testutil.ActorContext(staff)

		_, err := svc.Create(ctx, &domain.CreateAccountRequest{
			Username: "sneaky",
			Email:    "sneaky@example.com",
			Password: "correct-horse-battery",
		})
		assert.ErrorIs(t, err, service.ErrPermissionDenied)

		_, err = svc.List(ctx, 1, 50, nil)
		assert.ErrorIs(t, err, service.ErrPermissionDenied)

		_, err = svc.GetByID(ctx, staff.ID)
		assert.ErrorIs(t, err, service.ErrPermissionDenied)

		err = svc.Delete(ctx, staff.ID)
		assert.ErrorIs(t, err, service.ErrPermissionDenied)
	})
}

func TestAccountService_UpdateAndBulk(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newAccountService(db)

	it := testutil.CreateTestDepartment(t, db, "IT")
	admin := testutil.CreateTestAccount(t, db, "it-lead", domain.RoleAdmin, &it.ID)
	ctx := testutil.ActorContext(admin)

	a := testutil.CreateTestAccount(t, db, "alice", domain.RoleStaff, &it.ID)
	b := testutil.CreateTestAccount(t, db, "bob", domain.RoleStaff, &it.ID)

	t.Run("update role and active flag", func(t *testing.T) {
		dto, err := svc.Update(ctx, a.ID, &domain.UpdateAccountRequest{
			DepartmentID: &it.ID,
			Role:         domain.RoleAdmin,
			IsActive:     false,
		})
		require.NoError(t, err)
		assert.Equal(t, domain.RoleAdmin, dto.Role)
		assert.False(t, dto.IsActive)
	})

	t.Run("unknown account not found", func(t *testing.T) {
		_, err := svc.Update(ctx, uuid.New(), &domain.UpdateAccountRequest{Role: domain.RoleStaff})
		assert.ErrorIs(t, err, service.ErrNotFound)
	})

	t.Run("bulk role change", func(t *testing.T) {
		updated, err := svc.BulkSetRole(ctx, []uuid.UUID{a.ID, b.ID}, domain.RoleStaff)
		require.NoError(t, err)
		assert.Equal(t, int64(2), updated)

		_, err = svc.BulkSetRole(ctx, []uuid.UUID{a.ID}, "manager")
		assert.ErrorIs(t, err, service.ErrInvalidInput)
	})

	t.Run("bulk deactivate and reactivate", func(t *testing.T) {
		updated, err := svc.BulkSetActive(ctx, []uuid.UUID{a.ID, b.ID}, false)
		require.NoError(t, err)
		assert.Equal(t, int64(2), updated)

		var got domain.Account
		require.NoError(t, db.First(&got, "id = ?", b.ID).Error)
		assert.False(t, got.IsActive)

		updated, err = svc.BulkSetActive(ctx, []uuid.UUID{b.ID}, true)
		require.NoError(t, err)
		assert.Equal(t, int64(1), updated)
	})

	t.Run("delete removes the account", func(t *testing.T) {
		require.NoError(t, svc.Delete(ctx, b.ID))
		_, err := svc.GetByID(ctx, b.ID)
		assert.ErrorIs(t, err, service.ErrNotFound)
	})
}
