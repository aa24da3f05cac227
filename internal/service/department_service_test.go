package service_test

import (
	"testing"

	"github.com/stockregister/stock-api/internal/domain"
	"github.com/stockregister/stock-api/internal/repository"
	"github.com/stockregister/stock-api/internal/service"
	"github.com/stockregister/stock-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newDepartmentService(db *gorm.DB) *service.DepartmentService {
	return service.NewDepartmentService(repository.NewDepartmentRepository(db), zap.NewNop())
}

func TestDepartmentService(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newDepartmentService(db)

	su := testutil.CreateTestUser(t, db, "root", true)
	suCtx := testutil.SuperuserContext(su)

	t.Run("create and duplicate name rejected", func(t *testing.T) {
		dto, err := svc.Create(suCtx, &domain.CreateDepartmentRequest{Name: "IT"})
		require.NoError(t, err)
		assert.Equal(t, "IT", dto.Name)

		_, err = svc.Create(suCtx, &domain.CreateDepartmentRequest{Name: "IT"})
		assert.ErrorIs(t, err, service.ErrConflict)
	})

	t.Run("staff denied on writes", func(t *testing.T) {
		it, err := repository.NewDepartmentRepository(db).GetByName(suCtx, "IT")
		require.NoError(t, err)
		require.NotNil(t, it)

		staff := testutil.CreateTestAccount(t, db, "plain-staff", domain.RoleStaff, &it.ID)
		ctx := testutil.ActorContext(staff)

		_, err = svc.Create(ctx, &domain.CreateDepartmentRequest{Name: "Rogue"})
		assert.ErrorIs(t, err, service.ErrPermissionDenied)

		_, err = svc.Update(ctx, it.ID, &domain.UpdateDepartmentRequest{Name: "Renamed"})
		assert.ErrorIs(t, err, service.ErrPermissionDenied)

		err = svc.Delete(ctx, it.ID)
		assert.ErrorIs(t, err, service.ErrPermissionDenied)
	})

	t.Run("list carries member and stock counts", func(t *testing.T) {
		it, err := repository.NewDepartmentRepository(db).GetByName(suCtx, "IT")
		require.NoError(t, err)
		require.NotNil(t, it)

		laptops := testutil.CreateTestCategory(t, db, "Laptops")
		testutil.CreateTestStock(t, db, "LT-100", laptops.ID, it.ID)
		testutil.CreateTestStock(t, db, "LT-101", laptops.ID, it.ID)
		testutil.CreateTestAccount(t, db, "alice", domain.RoleStaff, &it.ID)

		resp, err := svc.List(suCtx, 1, 50, "it")
		require.NoError(t, err)

		dtos, ok := resp.Data.([]domain.DepartmentDTO)
		require.True(t, ok)
		require.Len(t, dtos, 1)
		assert.Equal(t, 2, dtos[0].StockCount)
		// plain-staff and alice both landed in IT
		assert.Equal(t, 2, dtos[0].AccountCount)
	})

	t.Run("delete takes department stock with it", func(t *testing.T) {
		finance, err := svc.Create(suCtx, &domain.CreateDepartmentRequest{Name: "Finance"})
		require.NoError(t, err)

		desks := testutil.CreateTestCategory(t, db, "Desks")
		stock := testutil.CreateTestStock(t, db, "DK-100", desks.ID, finance.ID)

		require.NoError(t, svc.Delete(suCtx, finance.ID))

		var got domain.AvailableStock
		err = db.First(&got, "id = ?", stock.ID).Error
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

		_, err = svc.GetByID(suCtx, finance.ID)
		assert.ErrorIs(t, err, service.ErrNotFound)
	})
}
