package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/campuscare/internal/app/models"
	"github.com/yigit/campuscare/internal/app/models/dto"
	"github.com/yigit/campuscare/internal/app/repositories"
	"github.com/yigit/campuscare/internal/pkg/apperrors"
	"github.com/yigit/campuscare/internal/pkg/auth"
	"github.com/yigit/campuscare/internal/pkg/phone"
	"github.com/yigit/campuscare/internal/pkg/validation"
	"golang.org/x/sync/errgroup"
)

// DefaultMaxAssignAttempts bounds how often a registration re-runs counselor
// assignment after losing a concurrent update.
const DefaultMaxAssignAttempts = 5

// StudentServiceConfig holds the tunables of StudentService
type StudentServiceConfig struct {
	StorageTimeout    time.Duration
	MaxAssignAttempts int
}

// StudentService handles student registration, login and profile lookups
type StudentService struct {
	store       repositories.Store
	credentials CredentialIssuer
	provisioner Provisioner
	hasher      *auth.PasswordHasher
	phones      *phone.Normalizer
	config      StudentServiceConfig
	logger      zerolog.Logger
	now         func() time.Time
}

// NewStudentService creates a new StudentService
func NewStudentService(
	store repositories.Store,
	credentials CredentialIssuer,
	provisioner Provisioner,
	hasher *auth.PasswordHasher,
	phones *phone.Normalizer,
	config StudentServiceConfig,
	logger zerolog.Logger,
) *StudentService {
	if config.MaxAssignAttempts <= 0 {
		config.MaxAssignAttempts = DefaultMaxAssignAttempts
	}
	return &StudentService{
		store:       store,
		credentials: credentials,
		provisioner: provisioner,
		hasher:      hasher,
		phones:      phones,
		config:      config,
		logger:      logger,
		now:         time.Now,
	}
}

// RegisterStudent creates a student, pairs them with the least-loaded
// counselor, issues a token and mirrors the identity to Stream.
//
// Once the student and the counselor link are committed they stay committed.
// If a later step fails the committed student is returned together with the
// error.
func (s *StudentService) RegisterStudent(ctx context.Context, req *dto.RegisterStudentRequest) (*models.Student, error) {
	if req == nil {
		return nil, apperrors.NewValidationError("request body is required")
	}

	input := *req
	input.Email = normalizeEmail(input.Email)
	input.PhoneNumber = strings.TrimSpace(input.PhoneNumber)
	input.FirstName = strings.TrimSpace(input.FirstName)
	input.LastName = strings.TrimSpace(input.LastName)
	if err := validation.Struct(&input); err != nil {
		return nil, err
	}

	phoneNumber, err := s.normalizePhone(input.PhoneNumber)
	if err != nil {
		return nil, err
	}

	if err := s.checkUniqueness(ctx, input.Email, phoneNumber); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	student := &models.Student{
		Email:       input.Email,
		PhoneNumber: phoneNumber,
		FirstName:   input.FirstName,
		LastName:    input.LastName,
		Password:    hash,
		Color:       models.RandomColor(),
	}

	if err := s.assignAndPersist(ctx, student); err != nil {
		return nil, err
	}

	// Committed. The caller going away must not strand the remaining steps.
	ctx = context.WithoutCancel(ctx)

	token, err := s.credentials.Issue(ctx, student.ID)
	if err != nil {
		s.logger.Error().Err(err).Str("studentID", student.ID).Msg("Failed to issue token for registered student")
		return student, err
	}
	student.Token = token

	identity := ExternalIdentity{
		ID:    student.ID,
		Name:  student.FullName(),
		Role:  models.RoleExternalUser,
		Color: student.Color,
	}
	if err := s.provisioner.Provision(ctx, identity); err != nil {
		return student, err
	}

	s.logger.Info().
		Str("studentID", student.ID).
		Str("counselorID", student.CounselorID).
		Msg("Student registered")
	return student, nil
}

// checkUniqueness looks up email and phone concurrently. A taken email is
// reported before a taken phone number.
func (s *StudentService) checkUniqueness(ctx context.Context, email, phoneNumber string) error {
	var emailTaken, phoneTaken bool

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		emailTaken, err = s.taken(gctx, func(ctx context.Context) (*models.Student, error) {
			return s.store.Students().FindByEmail(ctx, email)
		})
		return err
	})
	g.Go(func() error {
		var err error
		phoneTaken, err = s.taken(gctx, func(ctx context.Context) (*models.Student, error) {
			return s.store.Students().FindByPhoneNumber(ctx, phoneNumber)
		})
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	switch {
	case emailTaken:
		return apperrors.ErrEmailAlreadyExists
	case phoneTaken:
		return apperrors.ErrPhoneAlreadyExists
	}
	return nil
}

func (s *StudentService) taken(ctx context.Context, find func(context.Context) (*models.Student, error)) (bool, error) {
	ctx, cancel := withTimeout(ctx, s.config.StorageTimeout)
	defer cancel()

	_, err := find(ctx)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, apperrors.ErrStudentNotFound):
		return false, nil
	default:
		return false, err
	}
}

// assignAndPersist stores student and appends it to the least-loaded
// counselor in one transaction. A lost version race rolls the transaction
// back and starts over from a fresh counselor snapshot.
func (s *StudentService) assignAndPersist(ctx context.Context, student *models.Student) error {
	for attempt := 1; attempt <= s.config.MaxAssignAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		var persisted models.Student
		err := s.withStorageTimeout(ctx, func(ctx context.Context) error {
			return s.store.WithinTransaction(ctx, func(ctx context.Context, students repositories.IStudentRepository, counselors repositories.ICounselorRepository) error {
				pool, err := counselors.ListByRole(ctx, models.RoleCounselor)
				if err != nil {
					return err
				}
				counselor, err := SelectLeastLoaded(pool)
				if err != nil {
					return err
				}

				persisted = *student
				persisted.ID = ""
				persisted.CounselorID = counselor.ID
				persisted.CreatedAt = s.now().UTC()
				if err := students.Create(ctx, &persisted); err != nil {
					return err
				}

				return counselors.AddMentee(ctx, counselor.ID, persisted.ID, counselor.Version)
			})
		})
		if err == nil {
			*student = persisted
			return nil
		}
		if !errors.Is(err, apperrors.ErrVersionConflict) {
			return err
		}

		s.logger.Debug().Int("attempt", attempt).Msg("Counselor changed during assignment, retrying")
	}

	s.logger.Warn().Int("attempts", s.config.MaxAssignAttempts).Msg("Giving up counselor assignment")
	return apperrors.ErrAssignmentContention
}

func (s *StudentService) withStorageTimeout(ctx context.Context, fn func(context.Context) error) error {
	ctx, cancel := withTimeout(ctx, s.config.StorageTimeout)
	defer cancel()
	return fn(ctx)
}

// Login authenticates a student by email or, when no email is given, by
// phone number and issues a fresh token.
func (s *StudentService) Login(ctx context.Context, req *dto.LoginRequest) (*models.Student, error) {
	if req == nil {
		return nil, apperrors.NewValidationError("request body is required")
	}

	email := normalizeEmail(req.Email)
	rawPhone := strings.TrimSpace(req.PhoneNumber)
	if email == "" && rawPhone == "" {
		return nil, apperrors.NewValidationError("either phone number or email must be used")
	}
	if req.Password == "" {
		return nil, apperrors.NewFieldValidationError("password", "password cannot be empty")
	}

	var student *models.Student
	err := s.withStorageTimeout(ctx, func(ctx context.Context) error {
		var err error
		if email != "" {
			student, err = s.store.Students().FindByEmail(ctx, email)
			return err
		}
		phoneNumber, err := s.normalizePhone(rawPhone)
		if err != nil {
			return err
		}
		student, err = s.store.Students().FindByPhoneNumber(ctx, phoneNumber)
		return err
	})
	if err != nil {
		return nil, err
	}

	if !s.hasher.Check(student.Password, req.Password) {
		s.logger.Info().Str("studentID", student.ID).Msg("Login rejected: wrong password")
		return nil, apperrors.ErrWrongPassword
	}

	token, err := s.credentials.Issue(ctx, student.ID)
	if err != nil {
		return nil, err
	}
	student.Token = token

	return student, nil
}

// GetStudent returns the stored student with the given id
func (s *StudentService) GetStudent(ctx context.Context, id string) (*models.Student, error) {
	var student *models.Student
	err := s.withStorageTimeout(ctx, func(ctx context.Context) error {
		var err error
		student, err = s.store.Students().FindByID(ctx, id)
		return err
	})
	return student, err
}

// IsStudent reports whether id belongs to a stored student
func (s *StudentService) IsStudent(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := s.withStorageTimeout(ctx, func(ctx context.Context) error {
		var err error
		exists, err = s.store.Students().ExistsByID(ctx, id)
		return err
	})
	return exists, err
}

func (s *StudentService) normalizePhone(raw string) (string, error) {
	normalized, err := s.phones.Normalize(raw)
	if err != nil {
		return "", apperrors.NewFieldValidationError("phoneNumber", "phoneNumber is not a valid phone number")
	}
	return normalized, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
