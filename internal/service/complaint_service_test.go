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

func newComplaintService(db *gorm.DB) *service.ComplaintService {
	return service.NewComplaintService(
		repository.NewComplaintRepository(db),
		repository.NewDepartmentRepository(db),
		zap.NewNop(),
	)
}

func TestComplaintService_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newComplaintService(db)

	it := testutil.CreateTestDepartment(t, db, "IT")
	alice := testutil.CreateTestAccount(t, db, "alice", domain.RoleStaff, &it.ID)

	t.Run("submitter stamped from actor", func(t *testing.T) {
		dto, err := svc.Create(testutil.ActorContext(alice), &domain.CreateComplaintRequest{
			Title:        "broken laptop",
			Description:  "screen flickers",
			DepartmentID: it.ID,
		})
		require.NoError(t, err)
		assert.Equal(t, alice.ID, dto.SubmittedByID)
		assert.Equal(t, "alice", dto.SubmittedByName)
		assert.Equal(t, domain.ComplaintStatusPending, dto.Status)
		assert.Equal(t, domain.PriorityMedium, dto.Priority)
	})

	t.Run("no linked account rejected", func(t *testing.T) {
		user := testutil.CreateTestUser(t, db, "ghost", false)
		_, err := svc.Create(testutil.AccountlessContext(user), &domain.CreateComplaintRequest{
			Title:        "no account",
			Description:  "body",
			DepartmentID: it.ID,
		})
		assert.ErrorIs(t, err, service.ErrNoAccount)
	})

	t.Run("unknown department rejected", func(t *testing.T) {
		_, err := svc.Create(testutil.ActorContext(alice), &domain.CreateComplaintRequest{
			Title:        "nowhere",
			Description:  "body",
			DepartmentID: uuid.New(),
		})
		assert.ErrorIs(t, err, service.ErrInvalidInput)
	})
}

func TestComplaintService_Update(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newComplaintService(db)

	it := testutil.CreateTestDepartment(t, db, "IT")
	alice := testutil.CreateTestAccount(t, db, "alice", domain.RoleStaff, &it.ID)
	admin := testutil.CreateTestAccount(t, db, "it-lead", domain.RoleAdmin, &it.ID)
	adminCtx := testutil.ActorContext(admin)

	baseReq := func(c *domain.Complaint) *domain.UpdateComplaintRequest {
		return &domain.UpdateComplaintRequest{
			Title:           c.Title,
			Description:     c.Description,
			DepartmentID:    c.DepartmentID,
			Priority:        c.Priority,
			Status:          c.Status,
			AssignedToID:    c.AssignedToID,
			ResolutionNotes: c.ResolutionNotes,
		}
	}

	t.Run("resolving requires notes", func(t *testing.T) {
		complaint := testutil.CreateTestComplaint(t, db, "needs notes", alice.ID, it.ID)
		req := baseReq(complaint)
		req.Status = domain.ComplaintStatusResolved

		_, err := svc.Update(adminCtx, complaint.ID, req)
		var fe *domain.FieldError
		require.ErrorAs(t, err, &fe)
		assert.Equal(t, "resolutionNotes", fe.Field)
	})

	t.Run("resolution date stamped once", func(t *testing.T) {
		complaint := testutil.CreateTestComplaint(t, db, "stamp once", alice.ID, it.ID)
		req := baseReq(complaint)
		req.Status = domain.ComplaintStatusResolved
		req.ResolutionNotes = "replaced the unit"

		dto, err := svc.Update(adminCtx, complaint.ID, req)
		require.NoError(t, err)
		require.NotNil(t, dto.ResolutionDate)
		first := *dto.ResolutionDate

		req.ResolutionNotes = "replaced the unit, twice"
		dto, err = svc.Update(adminCtx, complaint.ID, req)
		require.NoError(t, err)
		require.NotNil(t, dto.ResolutionDate)
		assert.Equal(t, first, *dto.ResolutionDate)
	})

	t.Run("in_progress requires assignee", func(t *testing.T) {
		complaint := testutil.CreateTestComplaint(t, db, "unassigned", alice.ID, it.ID)
		req := baseReq(complaint)
		req.Status = domain.ComplaintStatusInProgress

		_, err := svc.Update(adminCtx, complaint.ID, req)
		var fe *domain.FieldError
		require.ErrorAs(t, err, &fe)
		assert.Equal(t, "assignedTo", fe.Field)

		req.AssignedToID = &admin.ID
		dto, err := svc.Update(adminCtx, complaint.ID, req)
		require.NoError(t, err)
		assert.Equal(t, "it-lead", dto.AssignedToName)
	})

	t.Run("staff edits own pending complaint only", func(t *testing.T) {
		complaint := testutil.CreateTestComplaint(t, db, "mine", alice.ID, it.ID)
		ctx := testutil.ActorContext(alice)

		req := baseReq(complaint)
		req.Priority = domain.PriorityHigh
		dto, err := svc.Update(ctx, complaint.ID, req)
		require.NoError(t, err)
		assert.Equal(t, domain.PriorityHigh, dto.Priority)

		// once it leaves pending, staff lose edit rights
		req.Status = domain.ComplaintStatusClosed
		req.ResolutionNotes = "done"
		_, err = svc.Update(adminCtx, complaint.ID, req)
		require.NoError(t, err)

		req.Priority = domain.PriorityLow
		_, err = svc.Update(ctx, complaint.ID, req)
		assert.ErrorIs(t, err, service.ErrPermissionDenied)
	})

	t.Run("submitter is immutable across updates", func(t *testing.T) {
		complaint := testutil.CreateTestComplaint(t, db, "fixed submitter", alice.ID, it.ID)

		dto, err := svc.Update(adminCtx, complaint.ID, baseReq(complaint))
		require.NoError(t, err)
		assert.Equal(t, alice.ID, dto.SubmittedByID)
	})

	t.Run("foreign complaint invisible to staff", func(t *testing.T) {
		bob := testutil.CreateTestAccount(t, db, "bob", domain.RoleStaff, &it.ID)
		complaint := testutil.CreateTestComplaint(t, db, "bobs", bob.ID, it.ID)

		_, err := svc.Update(testutil.ActorContext(alice), complaint.ID, baseReq(complaint))
		assert.ErrorIs(t, err, service.ErrNotFound)
	})
}

func TestComplaintService_BulkActions(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newComplaintService(db)

	it := testutil.CreateTestDepartment(t, db, "IT")
	alice := testutil.CreateTestAccount(t, db, "alice", domain.RoleStaff, &it.ID)
	admin := testutil.CreateTestAccount(t, db, "it-lead", domain.RoleAdmin, &it.ID)
	adminCtx := testutil.ActorContext(admin)

	t.Run("staff denied", func(t *testing.T) {
		complaint := testutil.CreateTestComplaint(t, db, "staff try", alice.ID, it.ID)
		_, err := svc.BulkMarkResolved(testutil.ActorContext(alice), []uuid.UUID{complaint.ID})
		assert.ErrorIs(t, err, service.ErrPermissionDenied)
	})

	t.Run("mark in progress assigns the actor", func(t *testing.T) {
		complaint := testutil.CreateTestComplaint(t, db, "take it", alice.ID, it.ID)

		updated, err := svc.BulkMarkInProgress(adminCtx, []uuid.UUID{complaint.ID})
		require.NoError(t, err)
		assert.Equal(t, int64(1), updated)

		var got domain.Complaint
		require.NoError(t, db.First(&got, "id = ?", complaint.ID).Error)
		assert.Equal(t, domain.ComplaintStatusInProgress, got.Status)
		require.NotNil(t, got.AssignedToID)
		assert.Equal(t, admin.ID, *got.AssignedToID)
	})

	t.Run("mark resolved skips the notes requirement", func(t *testing.T) {
		complaint := testutil.CreateTestComplaint(t, db, "quick close", alice.ID, it.ID)

		updated, err := svc.BulkMarkResolved(adminCtx, []uuid.UUID{complaint.ID})
		require.NoError(t, err)
		assert.Equal(t, int64(1), updated)

		var got domain.Complaint
		require.NoError(t, db.First(&got, "id = ?", complaint.ID).Error)
		assert.Equal(t, domain.ComplaintStatusResolved, got.Status)
		assert.NotNil(t, got.ResolutionDate)
		assert.Empty(t, got.ResolutionNotes)
	})

	t.Run("assign to me keeps status", func(t *testing.T) {
		complaint := testutil.CreateTestComplaint(t, db, "just assign", alice.ID, it.ID)

		updated, err := svc.BulkAssignToMe(adminCtx, []uuid.UUID{complaint.ID})
		require.NoError(t, err)
		assert.Equal(t, int64(1), updated)

		var got domain.Complaint
		require.NoError(t, db.First(&got, "id = ?", complaint.ID).Error)
		assert.Equal(t, domain.ComplaintStatusPending, got.Status)
		require.NotNil(t, got.AssignedToID)
		assert.Equal(t, admin.ID, *got.AssignedToID)
	})
}

func TestComplaintService_Comments(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newComplaintService(db)

	it := testutil.CreateTestDepartment(t, db, "IT")
	alice := testutil.CreateTestAccount(t, db, "alice", domain.RoleStaff, &it.ID)
	complaint := testutil.CreateTestComplaint(t, db, "with thread", alice.ID, it.ID)

	t.Run("author stamped from actor", func(t *testing.T) {
		dto, err := svc.AddComment(testutil.ActorContext(alice), complaint.ID, &domain.CreateCommentRequest{
			Comment: "looked at it",
		})
		require.NoError(t, err)
		assert.Equal(t, alice.ID, dto.AuthorID)
		assert.Equal(t, "alice", dto.AuthorName)
	})

	t.Run("no linked account rejected", func(t *testing.T) {
		user := testutil.CreateTestUser(t, db, "ghost", false)
		_, err := svc.AddComment(testutil.AccountlessContext(user), complaint.ID, &domain.CreateCommentRequest{
			Comment: "anonymous",
		})
		assert.ErrorIs(t, err, service.ErrNoAccount)
	})

	t.Run("thread hidden with the complaint", func(t *testing.T) {
		bob := testutil.CreateTestAccount(t, db, "bob", domain.RoleStaff, &it.ID)
		_, err := svc.ListComments(testutil.ActorContext(bob), complaint.ID)
		assert.ErrorIs(t, err, service.ErrNotFound)
	})

	t.Run("only superuser deletes comments", func(t *testing.T) {
		comments, err := svc.ListComments(testutil.ActorContext(alice), complaint.ID)
		require.NoError(t, err)
		require.NotEmpty(t, comments)
		commentID := comments[0].ID

		err = svc.DeleteComment(testutil.ActorContext(alice), complaint.ID, commentID)
		assert.ErrorIs(t, err, service.ErrPermissionDenied)

		su := testutil.CreateTestUser(t, db, "root", true)
		suCtx := testutil.SuperuserContext(su)

		// wrong thread id reads as missing
		err = svc.DeleteComment(suCtx, uuid.New(), commentID)
		assert.ErrorIs(t, err, service.ErrNotFound)

		require.NoError(t, svc.DeleteComment(suCtx, complaint.ID, commentID))

		remaining, err := svc.ListComments(suCtx, complaint.ID)
		require.NoError(t, err)
		assert.Empty(t, remaining)
	})
}
