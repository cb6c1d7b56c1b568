package services

import (
	"cmp"
	"slices"

	"github.com/yigit/campuscare/internal/app/models"
	"github.com/yigit/campuscare/internal/pkg/apperrors"
)

// SelectLeastLoaded returns the counselor with the fewest mentees.
//
// Counselors are ordered by load, highest first, with a stable sort and the
// last one is picked. Among equally idle counselors the one enumerated last
// wins. The input slice is not modified.
func SelectLeastLoaded(counselors []*models.Counselor) (*models.Counselor, error) {
	ordered := make([]*models.Counselor, 0, len(counselors))
	for _, c := range counselors {
		if c != nil {
			ordered = append(ordered, c)
		}
	}
	if len(ordered) == 0 {
		return nil, apperrors.ErrNoCounselorAvailable
	}

	slices.SortStableFunc(ordered, func(a, b *models.Counselor) int {
		return cmp.Compare(b.Load(), a.Load())
	})

	return ordered[len(ordered)-1], nil
}
