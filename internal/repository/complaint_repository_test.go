package repository_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stockregister/stock-api/internal/domain"
	"github.com/stockregister/stock-api/internal/repository"
	"github.com/stockregister/stock-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestComplaintRepository_BulkUpdateFields(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewComplaintRepository(db)

	it := testutil.CreateTestDepartment(t, db, "IT")
	alice := testutil.CreateTestAccount(t, db, "alice", domain.RoleStaff, &it.ID)
	bob := testutil.CreateTestAccount(t, db, "bob", domain.RoleStaff, &it.ID)

	mine := testutil.CreateTestComplaint(t, db, "broken laptop", alice.ID, it.ID)
	theirs := testutil.CreateTestComplaint(t, db, "slow network", bob.ID, it.ID)

	t.Run("staff bulk update only reaches own submissions", func(t *testing.T) {
		ctx := testutil.ActorContext(alice)

		affected, err := repo.BulkUpdateFields(ctx, []uuid.UUID{mine.ID, theirs.ID}, map[string]interface{}{
			"status": domain.ComplaintStatusClosed,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(1), affected)

		var mineRow domain.Complaint
		require.NoError(t, db.First(&mineRow, "id = ?", mine.ID).Error)
		assert.Equal(t, domain.ComplaintStatusClosed, mineRow.Status)

		var theirsRow domain.Complaint
		require.NoError(t, db.First(&theirsRow, "id = ?", theirs.ID).Error)
		assert.Equal(t, domain.ComplaintStatusPending, theirsRow.Status)
	})

	t.Run("admin bulk update reaches everything", func(t *testing.T) {
		admin := testutil.CreateTestAccount(t, db, "it-lead", domain.RoleAdmin, &it.ID)
		ctx := testutil.ActorContext(admin)

		affected, err := repo.BulkUpdateFields(ctx, []uuid.UUID{mine.ID, theirs.ID}, map[string]interface{}{
			"status":         domain.ComplaintStatusInProgress,
			"assigned_to_id": admin.ID,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(2), affected)

		var got domain.Complaint
		require.NoError(t, db.First(&got, "id = ?", theirs.ID).Error)
		assert.Equal(t, domain.ComplaintStatusInProgress, got.Status)
		require.NotNil(t, got.AssignedToID)
		assert.Equal(t, admin.ID, *got.AssignedToID)
	})
}

func TestComplaintRepository_Comments(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewComplaintRepository(db)

	it := testutil.CreateTestDepartment(t, db, "IT")
	alice := testutil.CreateTestAccount(t, db, "alice", domain.RoleStaff, &it.ID)

	first := testutil.CreateTestComplaint(t, db, "broken laptop", alice.ID, it.ID)
	second := testutil.CreateTestComplaint(t, db, "missing charger", alice.ID, it.ID)

	ctx := testutil.ActorContext(alice)

	for _, body := range []string{"looked at it", "ordered a part"} {
		require.NoError(t, repo.CreateComment(ctx, &domain.ComplaintComment{
			ComplaintID: first.ID,
			AuthorID:    alice.ID,
			Comment:     body,
		}))
	}

	t.Run("comments listed oldest first with author", func(t *testing.T) {
		comments, err := repo.ListComments(ctx, first.ID)
		require.NoError(t, err)
		require.Len(t, comments, 2)
		assert.Equal(t, "looked at it", comments[0].Comment)
		require.NotNil(t, comments[0].Author)
		assert.Equal(t, "alice", comments[0].Author.User.Username)
	})

	t.Run("comment counts grouped per complaint", func(t *testing.T) {
		counts, err := repo.CommentCounts(ctx, []uuid.UUID{first.ID, second.ID})
		require.NoError(t, err)
		assert.Equal(t, int64(2), counts[first.ID])
		assert.Zero(t, counts[second.ID])
	})

	t.Run("deleting a complaint removes its thread", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, first.ID))

		var remaining int64
		require.NoError(t, db.Model(&domain.ComplaintComment{}).
			Where("complaint_id = ?", first.ID).Count(&remaining).Error)
		assert.Zero(t, remaining)

		var got domain.Complaint
		err := db.First(&got, "id = ?", first.ID).Error
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	})
}
