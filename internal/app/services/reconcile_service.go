package services

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/campuscare/internal/app/models"
	"github.com/yigit/campuscare/internal/app/repositories"
	"github.com/yigit/campuscare/internal/pkg/apperrors"
)

// MenteeReconciler repairs counselors whose mentee list misses students that
// reference them.
type MenteeReconciler struct {
	store       repositories.Store
	maxAttempts int
	timeout     time.Duration
	logger      zerolog.Logger
}

// NewMenteeReconciler creates a new MenteeReconciler
func NewMenteeReconciler(store repositories.Store, maxAttempts int, timeout time.Duration, logger zerolog.Logger) *MenteeReconciler {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAssignAttempts
	}
	return &MenteeReconciler{
		store:       store,
		maxAttempts: maxAttempts,
		timeout:     timeout,
		logger:      logger,
	}
}

// Reconcile appends every missing student link and returns how many were
// added.
func (r *MenteeReconciler) Reconcile(ctx context.Context) (int, error) {
	listCtx, cancel := withTimeout(ctx, r.timeout)
	counselors, err := r.store.Counselors().ListByRole(listCtx, models.RoleCounselor)
	cancel()
	if err != nil {
		return 0, err
	}

	repaired := 0
	for _, c := range counselors {
		n, err := r.reconcileCounselor(ctx, c.ID)
		repaired += n
		if err != nil {
			return repaired, err
		}
		if n > 0 {
			r.logger.Info().Str("counselorID", c.ID).Int("repaired", n).Msg("Restored missing mentee links")
		}
	}

	return repaired, nil
}

func (r *MenteeReconciler) reconcileCounselor(ctx context.Context, counselorID string) (int, error) {
	for attempt := 1; attempt <= r.maxAttempts; attempt++ {
		added := 0
		txCtx, cancel := withTimeout(ctx, r.timeout)
		err := r.store.WithinTransaction(txCtx, func(ctx context.Context, students repositories.IStudentRepository, counselors repositories.ICounselorRepository) error {
			added = 0
			counselor, err := counselors.FindByID(ctx, counselorID)
			if err != nil {
				return err
			}
			ids, err := students.ListIDsByCounselor(ctx, counselorID)
			if err != nil {
				return err
			}

			version := counselor.Version
			for _, id := range ids {
				if counselor.HasMentee(id) {
					continue
				}
				if err := counselors.AddMentee(ctx, counselorID, id, version); err != nil {
					return err
				}
				version++
				added++
			}
			return nil
		})
		cancel()

		if err == nil {
			return added, nil
		}
		if !errors.Is(err, apperrors.ErrVersionConflict) {
			return 0, err
		}
	}

	return 0, apperrors.ErrAssignmentContention
}
