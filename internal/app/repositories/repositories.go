package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/yigit/campuscare/internal/app/models"
)

// IStudentRepository defines student persistence. Lookups return
// apperrors.ErrStudentNotFound when nothing matches; uniqueness is enforced
// by the caller.
type IStudentRepository interface {
	FindByID(ctx context.Context, id string) (*models.Student, error)
	FindByEmail(ctx context.Context, email string) (*models.Student, error)
	FindByPhoneNumber(ctx context.Context, phoneNumber string) (*models.Student, error)
	ExistsByID(ctx context.Context, id string) (bool, error)
	// Create stores a new student and sets its ID.
	Create(ctx context.Context, student *models.Student) error
	// ListIDsByCounselor returns the ids of students referencing counselorID.
	ListIDsByCounselor(ctx context.Context, counselorID string) ([]string, error)
}

// ICounselorRepository defines counselor persistence.
type ICounselorRepository interface {
	// ListByRole returns every counselor record with the given role marker in
	// storage enumeration order, mentees included.
	ListByRole(ctx context.Context, role models.RoleType) ([]*models.Counselor, error)
	FindByID(ctx context.Context, id string) (*models.Counselor, error)
	// AddMentee appends studentID and bumps the version if the stored version
	// still equals expectedVersion; otherwise apperrors.ErrVersionConflict.
	AddMentee(ctx context.Context, counselorID, studentID string, expectedVersion int64) error
	// Save inserts or replaces a counselor record.
	Save(ctx context.Context, counselor *models.Counselor) error
}

// TxFn runs inside a storage transaction with repositories bound to it.
type TxFn func(ctx context.Context, students IStudentRepository, counselors ICounselorRepository) error

// Store groups the repositories and the transaction boundary spanning them.
type Store interface {
	Students() IStudentRepository
	Counselors() ICounselorRepository
	// WithinTransaction commits when fn returns nil and rolls back otherwise.
	WithinTransaction(ctx context.Context, fn TxFn) error
}

// DBTX is the query surface shared by pgxpool.Pool, pgx.Tx and pgxmock.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Pool is a DBTX that can open transactions.
type Pool interface {
	DBTX
	Begin(ctx context.Context) (pgx.Tx, error)
}
