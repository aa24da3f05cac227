package repository_test

import (
	"testing"

	"github.com/stockregister/stock-api/internal/domain"
	"github.com/stockregister/stock-api/internal/repository"
	"github.com/stockregister/stock-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/google/uuid"
)

func TestStockRepository_Filters(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewStockRepository(db)

	it := testutil.CreateTestDepartment(t, db, "IT")
	hr := testutil.CreateTestDepartment(t, db, "HR")
	laptops := testutil.CreateTestCategory(t, db, "Laptops")
	monitors := testutil.CreateTestCategory(t, db, "Monitors")

	laptop := testutil.CreateTestStock(t, db, "LT-100", laptops.ID, it.ID)
	monitor := testutil.CreateTestStock(t, db, "MN-200", monitors.ID, it.ID)
	testutil.CreateTestStock(t, db, "LT-300", laptops.ID, hr.ID)

	retired := domain.StockStatusRetired
	require.NoError(t, db.Model(monitor).Update("status", retired).Error)

	su := testutil.CreateTestUser(t, db, "root", true)
	ctx := testutil.SuperuserContext(su)

	t.Run("filter by status", func(t *testing.T) {
		stocks, total, err := repo.List(ctx, 1, 50, &repository.StockFilters{Status: &retired})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, stocks, 1)
		assert.Equal(t, monitor.ID, stocks[0].ID)
	})

	t.Run("filter by department", func(t *testing.T) {
		_, total, err := repo.List(ctx, 1, 50, &repository.StockFilters{DepartmentID: &hr.ID})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
	})

	t.Run("filter by category", func(t *testing.T) {
		_, total, err := repo.List(ctx, 1, 50, &repository.StockFilters{CategoryID: &laptops.ID})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
	})

	t.Run("search matches item id case-insensitively", func(t *testing.T) {
		stocks, total, err := repo.List(ctx, 1, 50, &repository.StockFilters{Search: "lt-100"})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, stocks, 1)
		assert.Equal(t, laptop.ID, stocks[0].ID)
	})

	t.Run("uniqueness probes tolerate missing rows", func(t *testing.T) {
		found, err := repo.GetBySerialNo(ctx, "SN-LT-100")
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, laptop.ID, found.ID)

		missing, err := repo.GetBySerialNo(ctx, "SN-NOPE")
		require.NoError(t, err)
		assert.Nil(t, missing)

		missing, err = repo.GetByItemID(ctx, "NOPE")
		require.NoError(t, err)
		assert.Nil(t, missing)
	})
}

func TestStockRepository_BulkUpdateFields(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewStockRepository(db)

	it := testutil.CreateTestDepartment(t, db, "IT")
	hr := testutil.CreateTestDepartment(t, db, "HR")
	laptops := testutil.CreateTestCategory(t, db, "Laptops")

	holder := "carol"
	itStock := testutil.CreateTestStock(t, db, "IT-001", laptops.ID, it.ID)
	hrStock := testutil.CreateTestStock(t, db, "HR-001", laptops.ID, hr.ID)
	require.NoError(t, db.Model(itStock).Updates(map[string]interface{}{
		"status":      domain.StockStatusInUse,
		"assigned_to": &holder,
	}).Error)

	t.Run("scoped bulk update skips out-of-scope ids", func(t *testing.T) {
		staff := testutil.CreateTestAccount(t, db, "it-staff", domain.RoleStaff, &it.ID)
		ctx := testutil.ActorContext(staff)

		affected, err := repo.BulkUpdateFields(ctx, []uuid.UUID{itStock.ID, hrStock.ID}, map[string]interface{}{
			"status":      domain.StockStatusMaintenance,
			"assigned_to": nil,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(1), affected)

		var itRow domain.AvailableStock
		require.NoError(t, db.First(&itRow, "id = ?", itStock.ID).Error)
		assert.Equal(t, domain.StockStatusMaintenance, itRow.Status)
		assert.Nil(t, itRow.AssignedTo)

		var hrRow domain.AvailableStock
		require.NoError(t, db.First(&hrRow, "id = ?", hrStock.ID).Error)
		assert.Equal(t, domain.StockStatusAvailable, hrRow.Status)
	})

	t.Run("out-of-scope row invisible to scoped GetByID", func(t *testing.T) {
		staff := testutil.CreateTestAccount(t, db, "it-staff-2", domain.RoleStaff, &it.ID)
		ctx := testutil.ActorContext(staff)

		_, err := repo.GetByID(ctx, hrStock.ID)
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	})
}
