package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/campuscare/internal/app/models"
	"github.com/yigit/campuscare/internal/pkg/apperrors"
	"github.com/yigit/campuscare/internal/pkg/dberrors"
	"github.com/yigit/campuscare/internal/pkg/logger"
)

var studentColumns = []string{
	"id", "email", "phone_number", "first_name", "last_name",
	"password", "created_at", "counselor_id", "color",
}

// StudentRepository handles student database operations
type StudentRepository struct {
	db DBTX
	sb squirrel.StatementBuilderType
}

// NewStudentRepository creates a new StudentRepository
func NewStudentRepository(db DBTX) *StudentRepository {
	return &StudentRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// FindByID retrieves a student by ID
func (r *StudentRepository) FindByID(ctx context.Context, id string) (*models.Student, error) {
	return r.findOne(ctx, squirrel.Eq{"id": id})
}

// FindByEmail retrieves a student by email
func (r *StudentRepository) FindByEmail(ctx context.Context, email string) (*models.Student, error) {
	return r.findOne(ctx, squirrel.Eq{"email": email})
}

// FindByPhoneNumber retrieves a student by canonical phone number
func (r *StudentRepository) FindByPhoneNumber(ctx context.Context, phoneNumber string) (*models.Student, error) {
	return r.findOne(ctx, squirrel.Eq{"phone_number": phoneNumber})
}

func (r *StudentRepository) findOne(ctx context.Context, where squirrel.Eq) (*models.Student, error) {
	sql, args, err := r.sb.Select(studentColumns...).
		From("students").
		Where(where).
		Limit(1).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building find student SQL")
		return nil, fmt.Errorf("failed to build find student query: %w", err)
	}

	var s models.Student
	var color string
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&s.ID, &s.Email, &s.PhoneNumber, &s.FirstName, &s.LastName,
		&s.Password, &s.CreatedAt, &s.CounselorID, &color)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrStudentNotFound
		}
		logger.Error().Err(err).Interface("where", where).Msg("Error scanning student row")
		return nil, fmt.Errorf("error retrieving student: %w", err)
	}
	s.Color = models.Color(color)

	return &s, nil
}

// ExistsByID checks if a student with the given ID exists
func (r *StudentRepository) ExistsByID(ctx context.Context, id string) (bool, error) {
	var exists bool
	sql, args, err := r.sb.Select("1").
		From("students").
		Where(squirrel.Eq{"id": id}).
		Prefix("SELECT EXISTS (").
		Suffix(")").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building student exists SQL")
		return false, fmt.Errorf("failed to build student exists query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&exists); err != nil {
		logger.Error().Err(err).Str("studentID", id).Msg("Error checking student existence")
		return false, fmt.Errorf("error checking student existence: %w", err)
	}

	return exists, nil
}

// Create inserts a new student and assigns its ID
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) error {
	id := uuid.NewString()

	sql, args, err := r.sb.Insert("students").
		Columns(studentColumns...).
		Values(id, student.Email, student.PhoneNumber, student.FirstName, student.LastName,
			student.Password, student.CreatedAt, student.CounselorID, string(student.Color)).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create student SQL")
		return fmt.Errorf("failed to build create student query: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		switch {
		case dberrors.IsDuplicateConstraintError(err, "students_email_key"):
			return apperrors.ErrEmailAlreadyExists
		case dberrors.IsDuplicateConstraintError(err, "students_phone_number_key"):
			return apperrors.ErrPhoneAlreadyExists
		}
		logger.Error().Err(err).Str("email", student.Email).Msg("Error executing create student query")
		return fmt.Errorf("error creating student: %w", err)
	}

	student.ID = id
	logger.Info().Str("studentID", id).Str("counselorID", student.CounselorID).Msg("Student created successfully")
	return nil
}

// ListIDsByCounselor returns ids of students assigned to counselorID, oldest first
func (r *StudentRepository) ListIDsByCounselor(ctx context.Context, counselorID string) ([]string, error) {
	sql, args, err := r.sb.Select("id").
		From("students").
		Where(squirrel.Eq{"counselor_id": counselorID}).
		OrderBy("created_at", "id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list students query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("counselorID", counselorID).Msg("Error listing students by counselor")
		return nil, fmt.Errorf("error listing students: %w", err)
	}

	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("error scanning student ids: %w", err)
	}

	return ids, nil
}
