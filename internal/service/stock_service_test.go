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

func newStockService(db *gorm.DB) *service.StockService {
	return service.NewStockService(
		repository.NewStockRepository(db),
		repository.NewCategoryRepository(db),
		repository.NewDepartmentRepository(db),
		zap.NewNop(),
	)
}

func TestStockService_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newStockService(db)

	it := testutil.CreateTestDepartment(t, db, "IT")
	hr := testutil.CreateTestDepartment(t, db, "HR")
	laptops := testutil.CreateTestCategory(t, db, "Laptops")

	su := testutil.CreateTestUser(t, db, "root", true)
	suCtx := testutil.SuperuserContext(su)

	t.Run("creates with defaults and resolved names", func(t *testing.T) {
		dto, err := svc.Create(suCtx, &domain.CreateStockRequest{
			ItemID:       "LT-100",
			ItemName:     "ThinkPad T14",
			CategoryID:   laptops.ID,
			SerialNo:     "SN-LT-100",
			DepartmentID: it.ID,
			Location:     "Storage Room 1",
		})
		require.NoError(t, err)
		assert.Equal(t, domain.StockStatusAvailable, dto.Status)
		assert.Equal(t, "Laptops", dto.CategoryName)
		assert.Equal(t, "IT", dto.DepartmentName)
		assert.NotEmpty(t, dto.Date)
	})

	t.Run("duplicate item id rejected", func(t *testing.T) {
		_, err := svc.Create(suCtx, &domain.CreateStockRequest{
			ItemID:       "LT-100",
			ItemName:     "Another",
			CategoryID:   laptops.ID,
			SerialNo:     "SN-OTHER",
			DepartmentID: it.ID,
			Location:     "Storage Room 1",
		})
		assert.ErrorIs(t, err, service.ErrConflict)
	})

	t.Run("duplicate serial number rejected", func(t *testing.T) {
		_, err := svc.Create(suCtx, &domain.CreateStockRequest{
			ItemID:       "LT-101",
			ItemName:     "Another",
			CategoryID:   laptops.ID,
			SerialNo:     "SN-LT-100",
			DepartmentID: it.ID,
			Location:     "Storage Room 1",
		})
		assert.ErrorIs(t, err, service.ErrConflict)
	})

	t.Run("unknown category rejected", func(t *testing.T) {
		_, err := svc.Create(suCtx, &domain.CreateStockRequest{
			ItemID:       "LT-102",
			ItemName:     "Another",
			CategoryID:   uuid.New(),
			SerialNo:     "SN-LT-102",
			DepartmentID: it.ID,
			Location:     "Storage Room 1",
		})
		assert.ErrorIs(t, err, service.ErrInvalidInput)
	})

	t.Run("staff cannot file into another department", func(t *testing.T) {
		staff := testutil.CreateTestAccount(t, db, "it-staff", domain.RoleStaff, &it.ID)
		ctx := testutil.ActorContext(staff)

		_, err := svc.Create(ctx, &domain.CreateStockRequest{
			ItemID:       "LT-103",
			ItemName:     "Smuggled",
			CategoryID:   laptops.ID,
			SerialNo:     "SN-LT-103",
			DepartmentID: hr.ID,
			Location:     "Storage Room 1",
		})
		assert.ErrorIs(t, err, service.ErrPermissionDenied)
	})

	t.Run("staff creates into own department", func(t *testing.T) {
		staff := testutil.CreateTestAccount(t, db, "it-staff-2", domain.RoleStaff, &it.ID)
		ctx := testutil.ActorContext(staff)

		dto, err := svc.Create(ctx, &domain.CreateStockRequest{
			ItemID:       "LT-104",
			ItemName:     "Own dept",
			CategoryID:   laptops.ID,
			SerialNo:     "SN-LT-104",
			DepartmentID: it.ID,
			Location:     "Storage Room 1",
		})
		require.NoError(t, err)
		assert.Equal(t, it.ID, dto.DepartmentID)
	})
}

func TestStockService_Update(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newStockService(db)

	it := testutil.CreateTestDepartment(t, db, "IT")
	hr := testutil.CreateTestDepartment(t, db, "HR")
	laptops := testutil.CreateTestCategory(t, db, "Laptops")

	stock := testutil.CreateTestStock(t, db, "LT-100", laptops.ID, it.ID)
	hrStock := testutil.CreateTestStock(t, db, "HR-100", laptops.ID, hr.ID)

	su := testutil.CreateTestUser(t, db, "root", true)
	suCtx := testutil.SuperuserContext(su)

	baseReq := func(s *domain.AvailableStock) *domain.UpdateStockRequest {
		return &domain.UpdateStockRequest{
			ItemName:     s.ItemName,
			CategoryID:   s.CategoryID,
			SerialNo:     s.SerialNo,
			DepartmentID: s.DepartmentID,
			Status:       s.Status,
			Location:     s.Location,
		}
	}

	t.Run("normalize clears assignee when not in use", func(t *testing.T) {
		req := baseReq(stock)
		holder := "carol"
		req.Status = domain.StockStatusAvailable
		req.AssignedTo = &holder

		dto, err := svc.Update(suCtx, stock.ID, req)
		require.NoError(t, err)
		assert.Nil(t, dto.AssignedTo)
	})

	t.Run("invalid status surfaces as field error", func(t *testing.T) {
		req := baseReq(stock)
		req.Status = "broken"

		_, err := svc.Update(suCtx, stock.ID, req)
		var fe *domain.FieldError
		require.ErrorAs(t, err, &fe)
		assert.Equal(t, "status", fe.Field)
	})

	t.Run("serial collision on change rejected", func(t *testing.T) {
		req := baseReq(stock)
		req.SerialNo = hrStock.SerialNo

		_, err := svc.Update(suCtx, stock.ID, req)
		assert.ErrorIs(t, err, service.ErrConflict)
	})

	t.Run("staff cannot move stock to foreign department", func(t *testing.T) {
		staff := testutil.CreateTestAccount(t, db, "it-staff", domain.RoleStaff, &it.ID)
		ctx := testutil.ActorContext(staff)

		req := baseReq(stock)
		req.DepartmentID = hr.ID

		_, err := svc.Update(ctx, stock.ID, req)
		assert.ErrorIs(t, err, service.ErrPermissionDenied)
	})

	t.Run("out-of-scope stock reads as not found", func(t *testing.T) {
		staff := testutil.CreateTestAccount(t, db, "it-staff-2", domain.RoleStaff, &it.ID)
		ctx := testutil.ActorContext(staff)

		_, err := svc.Update(ctx, hrStock.ID, baseReq(hrStock))
		assert.ErrorIs(t, err, service.ErrNotFound)
	})
}

func TestStockService_BulkMarkStatus(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newStockService(db)

	it := testutil.CreateTestDepartment(t, db, "IT")
	laptops := testutil.CreateTestCategory(t, db, "Laptops")

	holder := "carol"
	stock := testutil.CreateTestStock(t, db, "LT-100", laptops.ID, it.ID)
	require.NoError(t, db.Model(stock).Updates(map[string]interface{}{
		"status":      domain.StockStatusInUse,
		"assigned_to": &holder,
	}).Error)

	t.Run("staff denied", func(t *testing.T) {
		staff := testutil.CreateTestAccount(t, db, "it-staff", domain.RoleStaff, &it.ID)
		_, err := svc.BulkMarkStatus(testutil.ActorContext(staff), []uuid.UUID{stock.ID}, domain.StockStatusRetired)
		assert.ErrorIs(t, err, service.ErrPermissionDenied)
	})

	t.Run("invalid status rejected", func(t *testing.T) {
		admin := testutil.CreateTestAccount(t, db, "it-lead", domain.RoleAdmin, &it.ID)
		_, err := svc.BulkMarkStatus(testutil.ActorContext(admin), []uuid.UUID{stock.ID}, "broken")
		assert.ErrorIs(t, err, service.ErrInvalidInput)
	})

	t.Run("admin bulk clears assignee", func(t *testing.T) {
		admin := testutil.CreateTestAccount(t, db, "it-lead-2", domain.RoleAdmin, &it.ID)
		updated, err := svc.BulkMarkStatus(testutil.ActorContext(admin), []uuid.UUID{stock.ID}, domain.StockStatusMaintenance)
		require.NoError(t, err)
		assert.Equal(t, int64(1), updated)

		var got domain.AvailableStock
		require.NoError(t, db.First(&got, "id = ?", stock.ID).Error)
		assert.Equal(t, domain.StockStatusMaintenance, got.Status)
		assert.Nil(t, got.AssignedTo)
	})
}
