package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/campuscare/internal/app/repositories"
	"github.com/yigit/campuscare/internal/pkg/apperrors"
)

// CredentialIssuer issues access credentials for stored students.
type CredentialIssuer interface {
	Issue(ctx context.Context, subjectID string) (string, error)
}

// tokenSigner is satisfied by auth.TokenSigner.
type tokenSigner interface {
	Sign(subjectID string) (string, time.Time, error)
}

// CredentialService signs tokens for subjects that exist in the student store
type CredentialService struct {
	students repositories.IStudentRepository
	signer   tokenSigner
	timeout  time.Duration
	logger   zerolog.Logger
}

// NewCredentialService creates a new CredentialService
func NewCredentialService(
	students repositories.IStudentRepository,
	signer tokenSigner,
	timeout time.Duration,
	logger zerolog.Logger,
) *CredentialService {
	return &CredentialService{
		students: students,
		signer:   signer,
		timeout:  timeout,
		logger:   logger,
	}
}

// Issue returns a signed token asserting subjectID. Nothing is signed when the
// subject is not a stored student.
func (s *CredentialService) Issue(ctx context.Context, subjectID string) (string, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	exists, err := s.students.ExistsByID(ctx, subjectID)
	if err != nil {
		return "", fmt.Errorf("failed to check subject: %w", err)
	}
	if !exists {
		s.logger.Warn().Str("subjectID", subjectID).Msg("Refusing to issue token for unknown subject")
		return "", apperrors.ErrSubjectNotFound
	}

	token, expiresAt, err := s.signer.Sign(subjectID)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	s.logger.Debug().Str("subjectID", subjectID).Time("expiresAt", expiresAt).Msg("Token issued")
	return token, nil
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
