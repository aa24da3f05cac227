package repository_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stockregister/stock-api/internal/domain"
	"github.com/stockregister/stock-api/internal/repository"
	"github.com/stockregister/stock-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountRepository_CreateWithUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewAccountRepository(db)
	ctx := context.Background()

	it := testutil.CreateTestDepartment(t, db, "IT")

	user := &domain.User{
		Username:     "newhire",
		Email:        "newhire@example.com",
		PasswordHash: "$2a$10$invalidhashforfixturesonly0000000000000000000000000000",
		IsActive:     true,
	}
	account := &domain.Account{
		DepartmentID: &it.ID,
		Role:         domain.RoleStaff,
		IsActive:     true,
	}
	require.NoError(t, repo.CreateWithUser(ctx, user, account))
	assert.Equal(t, user.ID, account.UserID)

	got, err := repo.GetAccountByUserID(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, account.ID, got.ID)
	require.NotNil(t, got.Department)
	assert.Equal(t, "IT", got.Department.Name)
}

func TestAccountRepository_GetAccountByUserID_Missing(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewAccountRepository(db)

	got, err := repo.GetAccountByUserID(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestAccountRepository_Delete_Cascade(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewAccountRepository(db)
	ctx := context.Background()

	it := testutil.CreateTestDepartment(t, db, "IT")
	leaver := testutil.CreateTestAccount(t, db, "leaver", domain.RoleStaff, &it.ID)
	stayer := testutil.CreateTestAccount(t, db, "stayer", domain.RoleStaff, &it.ID)

	submitted := testutil.CreateTestComplaint(t, db, "submitted by leaver", leaver.ID, it.ID)
	kept := testutil.CreateTestComplaint(t, db, "submitted by stayer", stayer.ID, it.ID)
	require.NoError(t, db.Model(kept).Update("assigned_to_id", leaver.ID).Error)

	require.NoError(t, db.Create(&domain.ComplaintComment{
		ComplaintID: submitted.ID,
		AuthorID:    stayer.ID,
		Comment:     "on a dying thread",
	}).Error)
	require.NoError(t, db.Create(&domain.ComplaintComment{
		ComplaintID: kept.ID,
		AuthorID:    leaver.ID,
		Comment:     "authored by leaver",
	}).Error)

	require.NoError(t, repo.Delete(ctx, leaver.ID))

	var count int64
	require.NoError(t, db.Model(&domain.Complaint{}).Where("submitted_by_id = ?", leaver.ID).Count(&count).Error)
	assert.Zero(t, count, "submitted complaints should be gone")

	require.NoError(t, db.Model(&domain.ComplaintComment{}).Count(&count).Error)
	assert.Zero(t, count, "comments on dead threads and authored comments should be gone")

	var survivor domain.Complaint
	require.NoError(t, db.First(&survivor, "id = ?", kept.ID).Error)
	assert.Nil(t, survivor.AssignedToID, "assignment should be cleared, not cascaded")

	_, err := repo.GetByID(ctx, leaver.ID)
	assert.Error(t, err)
}

func TestAccountRepository_ListAndBulk(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewAccountRepository(db)
	ctx := context.Background()

	it := testutil.CreateTestDepartment(t, db, "IT")
	hr := testutil.CreateTestDepartment(t, db, "HR")

	a := testutil.CreateTestAccount(t, db, "alice", domain.RoleStaff, &it.ID)
	b := testutil.CreateTestAccount(t, db, "bob", domain.RoleStaff, &hr.ID)
	testutil.CreateTestAccount(t, db, "carol", domain.RoleAdmin, &it.ID)

	t.Run("filter by role", func(t *testing.T) {
		admin := domain.RoleAdmin
		_, total, err := repo.List(ctx, 1, 50, &repository.AccountFilters{Role: &admin})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
	})

	t.Run("search matches department name", func(t *testing.T) {
		accounts, total, err := repo.List(ctx, 1, 50, &repository.AccountFilters{Search: "hr"})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, accounts, 1)
		assert.Equal(t, b.ID, accounts[0].ID)
	})

	t.Run("bulk role change", func(t *testing.T) {
		affected, err := repo.BulkUpdateFields(ctx, []uuid.UUID{a.ID, b.ID}, map[string]interface{}{
			"role": domain.RoleAdmin,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(2), affected)

		var got domain.Account
		require.NoError(t, db.First(&got, "id = ?", a.ID).Error)
		assert.Equal(t, domain.RoleAdmin, got.Role)
	})

	t.Run("bulk deactivate", func(t *testing.T) {
		affected, err := repo.BulkUpdateFields(ctx, []uuid.UUID{b.ID}, map[string]interface{}{
			"is_active": false,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(1), affected)

		var got domain.Account
		require.NoError(t, db.First(&got, "id = ?", b.ID).Error)
		assert.False(t, got.IsActive)
	})
}
