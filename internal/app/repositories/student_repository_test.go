package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/campuscare/internal/app/models"
	"github.com/yigit/campuscare/internal/pkg/apperrors"
)

func newMockPool(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()

	mockDB, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mockDB.ExpectationsWereMet())
		mockDB.Close()
	})
	return mockDB
}

func studentRow(mockDB pgxmock.PgxPoolIface, s *models.Student) *pgxmock.Rows {
	return mockDB.NewRows(studentColumns).AddRow(
		s.ID, s.Email, s.PhoneNumber, s.FirstName, s.LastName,
		s.Password, s.CreatedAt, s.CounselorID, string(s.Color))
}

func TestStudentRepository_FindByEmail(t *testing.T) {
	created := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	want := &models.Student{
		ID:          "s1",
		Email:       "a@x.com",
		PhoneNumber: "+2348012345678",
		FirstName:   "A",
		LastName:    "B",
		Password:    "hash",
		CreatedAt:   created,
		CounselorID: "c1",
		Color:       models.ColorTeal,
	}

	tests := []struct {
		name    string
		setupDB func(pgxmock.PgxPoolIface)
		want    *models.Student
		wantErr error
	}{
		{
			name: "found",
			setupDB: func(mockDB pgxmock.PgxPoolIface) {
				mockDB.ExpectQuery("SELECT (.+) FROM students WHERE email = \\$1 LIMIT 1").
					WithArgs("a@x.com").
					WillReturnRows(studentRow(mockDB, want))
			},
			want: want,
		},
		{
			name: "not found",
			setupDB: func(mockDB pgxmock.PgxPoolIface) {
				mockDB.ExpectQuery("SELECT (.+) FROM students WHERE email = \\$1").
					WithArgs("a@x.com").
					WillReturnRows(mockDB.NewRows(studentColumns))
			},
			wantErr: apperrors.ErrStudentNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockDB := newMockPool(t)
			tt.setupDB(mockDB)

			got, err := NewStudentRepository(mockDB).FindByEmail(context.Background(), "a@x.com")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStudentRepository_FindByPhoneNumber(t *testing.T) {
	mockDB := newMockPool(t)
	s := &models.Student{ID: "s1", PhoneNumber: "+2348012345678", Color: models.ColorRed}
	mockDB.ExpectQuery("SELECT (.+) FROM students WHERE phone_number = \\$1").
		WithArgs("+2348012345678").
		WillReturnRows(studentRow(mockDB, s))

	got, err := NewStudentRepository(mockDB).FindByPhoneNumber(context.Background(), "+2348012345678")
	require.NoError(t, err)
	assert.Equal(t, "s1", got.ID)
	assert.Equal(t, models.ColorRed, got.Color)
}

func TestStudentRepository_ExistsByID(t *testing.T) {
	mockDB := newMockPool(t)
	mockDB.ExpectQuery("SELECT EXISTS \\( SELECT 1 FROM students WHERE id = \\$1 \\)").
		WithArgs("s1").
		WillReturnRows(mockDB.NewRows([]string{"exists"}).AddRow(true))

	exists, err := NewStudentRepository(mockDB).ExistsByID(context.Background(), "s1")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestStudentRepository_Create(t *testing.T) {
	student := &models.Student{
		Email:       "a@x.com",
		PhoneNumber: "+2348012345678",
		FirstName:   "A",
		LastName:    "B",
		Password:    "hash",
		CreatedAt:   time.Now().UTC(),
		CounselorID: "c1",
		Color:       models.ColorBlue,
	}
	args := []any{
		pgxmock.AnyArg(), student.Email, student.PhoneNumber, student.FirstName, student.LastName,
		student.Password, student.CreatedAt, student.CounselorID, "BLUE",
	}

	t.Run("assigns id", func(t *testing.T) {
		mockDB := newMockPool(t)
		mockDB.ExpectExec("INSERT INTO students").
			WithArgs(args...).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		s := *student
		require.NoError(t, NewStudentRepository(mockDB).Create(context.Background(), &s))
		assert.NotEmpty(t, s.ID)
	})

	t.Run("duplicate email", func(t *testing.T) {
		mockDB := newMockPool(t)
		mockDB.ExpectExec("INSERT INTO students").
			WithArgs(args...).
			WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "students_email_key"})

		s := *student
		err := NewStudentRepository(mockDB).Create(context.Background(), &s)
		assert.ErrorIs(t, err, apperrors.ErrEmailAlreadyExists)
		assert.Empty(t, s.ID)
	})

	t.Run("duplicate phone", func(t *testing.T) {
		mockDB := newMockPool(t)
		mockDB.ExpectExec("INSERT INTO students").
			WithArgs(args...).
			WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "students_phone_number_key"})

		s := *student
		err := NewStudentRepository(mockDB).Create(context.Background(), &s)
		assert.ErrorIs(t, err, apperrors.ErrPhoneAlreadyExists)
	})

	t.Run("database error", func(t *testing.T) {
		mockDB := newMockPool(t)
		mockDB.ExpectExec("INSERT INTO students").
			WithArgs(args...).
			WillReturnError(errors.New("boom"))

		s := *student
		err := NewStudentRepository(mockDB).Create(context.Background(), &s)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "error creating student")
	})
}

func TestStudentRepository_ListIDsByCounselor(t *testing.T) {
	mockDB := newMockPool(t)
	mockDB.ExpectQuery("SELECT id FROM students WHERE counselor_id = \\$1 ORDER BY created_at, id").
		WithArgs("c1").
		WillReturnRows(mockDB.NewRows([]string{"id"}).AddRow("s1").AddRow("s2"))

	ids, err := NewStudentRepository(mockDB).ListIDsByCounselor(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, []string{"s1", "s2"}, ids)
}
