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
	"github.com/yigit/campuscare/internal/pkg/logger"
)

// ErrCounselorNotFound is returned when a counselor id matches no record
var ErrCounselorNotFound = apperrors.NewResourceNotFoundError("counselor not found")

var counselorColumns = []string{"id", "role", "mentee_ids", "version"}

// CounselorRepository handles counselor database operations
type CounselorRepository struct {
	db DBTX
	sb squirrel.StatementBuilderType
}

// NewCounselorRepository creates a new CounselorRepository
func NewCounselorRepository(db DBTX) *CounselorRepository {
	return &CounselorRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// ListByRole returns counselors with the given role in creation order
func (r *CounselorRepository) ListByRole(ctx context.Context, role models.RoleType) ([]*models.Counselor, error) {
	sql, args, err := r.sb.Select(counselorColumns...).
		From("counselors").
		Where(squirrel.Eq{"role": string(role)}).
		OrderBy("created_at", "id").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list counselors SQL")
		return nil, fmt.Errorf("failed to build list counselors query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("role", string(role)).Msg("Error listing counselors")
		return nil, fmt.Errorf("error listing counselors: %w", err)
	}

	counselors, err := pgx.CollectRows(rows, scanCounselor)
	if err != nil {
		return nil, fmt.Errorf("error scanning counselors: %w", err)
	}

	return counselors, nil
}

// FindByID retrieves a counselor by ID
func (r *CounselorRepository) FindByID(ctx context.Context, id string) (*models.Counselor, error) {
	sql, args, err := r.sb.Select(counselorColumns...).
		From("counselors").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build find counselor query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error retrieving counselor: %w", err)
	}

	counselor, err := pgx.CollectOneRow(rows, scanCounselor)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCounselorNotFound
		}
		return nil, fmt.Errorf("error scanning counselor: %w", err)
	}

	return counselor, nil
}

func scanCounselor(row pgx.CollectableRow) (*models.Counselor, error) {
	var c models.Counselor
	var role string
	if err := row.Scan(&c.ID, &role, &c.MenteeIDs, &c.Version); err != nil {
		return nil, err
	}
	c.Role = models.RoleType(role)
	if c.MenteeIDs == nil {
		c.MenteeIDs = []string{}
	}
	return &c, nil
}

// AddMentee appends studentID to the counselor's mentees if the stored
// version still equals expectedVersion
func (r *CounselorRepository) AddMentee(ctx context.Context, counselorID, studentID string, expectedVersion int64) error {
	sql, args, err := r.sb.Update("counselors").
		Set("mentee_ids", squirrel.Expr("array_append(mentee_ids, ?)", studentID)).
		Set("version", squirrel.Expr("version + 1")).
		Where(squirrel.Eq{"id": counselorID, "version": expectedVersion}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building add mentee SQL")
		return fmt.Errorf("failed to build add mentee query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("counselorID", counselorID).Str("studentID", studentID).Msg("Error executing add mentee query")
		return fmt.Errorf("error adding mentee: %w", err)
	}

	if tag.RowsAffected() == 0 {
		exists, err := r.exists(ctx, counselorID)
		if err != nil {
			return err
		}
		if !exists {
			return ErrCounselorNotFound
		}
		return apperrors.ErrVersionConflict
	}

	return nil
}

func (r *CounselorRepository) exists(ctx context.Context, id string) (bool, error) {
	var exists bool
	sql, args, err := r.sb.Select("1").
		From("counselors").
		Where(squirrel.Eq{"id": id}).
		Prefix("SELECT EXISTS (").
		Suffix(")").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build counselor exists query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("error checking counselor existence: %w", err)
	}
	return exists, nil
}

// Save inserts or replaces a counselor record and bumps its version
func (r *CounselorRepository) Save(ctx context.Context, counselor *models.Counselor) error {
	if counselor.ID == "" {
		counselor.ID = uuid.NewString()
	}
	if counselor.Role == "" {
		counselor.Role = models.RoleCounselor
	}
	mentees := counselor.MenteeIDs
	if mentees == nil {
		mentees = []string{}
	}

	sql, args, err := r.sb.Insert("counselors").
		Columns(counselorColumns...).
		Values(counselor.ID, string(counselor.Role), mentees, counselor.Version).
		Suffix("ON CONFLICT (id) DO UPDATE SET role = EXCLUDED.role, mentee_ids = EXCLUDED.mentee_ids, version = counselors.version + 1 RETURNING version").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building save counselor SQL")
		return fmt.Errorf("failed to build save counselor query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&counselor.Version); err != nil {
		logger.Error().Err(err).Str("counselorID", counselor.ID).Msg("Error saving counselor")
		return fmt.Errorf("error saving counselor: %w", err)
	}

	return nil
}
