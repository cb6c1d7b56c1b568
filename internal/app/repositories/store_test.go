package repositories

import (
	"context"
	"testing"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/campuscare/internal/pkg/apperrors"
)

func TestRepositories_WithinTransaction(t *testing.T) {
	t.Run("commits on success", func(t *testing.T) {
		mockDB := newMockPool(t)
		mockDB.ExpectBegin()
		mockDB.ExpectExec("UPDATE counselors").
			WithArgs("s1", "c1", int64(0)).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))
		mockDB.ExpectCommit()

		err := NewRepositories(mockDB).WithinTransaction(context.Background(),
			func(ctx context.Context, _ IStudentRepository, counselors ICounselorRepository) error {
				return counselors.AddMentee(ctx, "c1", "s1", 0)
			})
		require.NoError(t, err)
	})

	t.Run("rolls back and keeps the cause", func(t *testing.T) {
		mockDB := newMockPool(t)
		mockDB.ExpectBegin()
		mockDB.ExpectExec("UPDATE counselors").
			WithArgs("s1", "c1", int64(0)).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))
		mockDB.ExpectQuery("SELECT EXISTS").
			WithArgs("c1").
			WillReturnRows(mockDB.NewRows([]string{"exists"}).AddRow(true))
		mockDB.ExpectRollback()

		err := NewRepositories(mockDB).WithinTransaction(context.Background(),
			func(ctx context.Context, _ IStudentRepository, counselors ICounselorRepository) error {
				return counselors.AddMentee(ctx, "c1", "s1", 0)
			})
		assert.ErrorIs(t, err, apperrors.ErrVersionConflict)
	})
}
