package seed

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	appModels "github.com/yigit/campuscare/internal/app/models"
	appRepos "github.com/yigit/campuscare/internal/app/repositories"
)

// CreateDefaultCounselors stores count empty counselor records when no
// counselor exists yet. Existing data is never touched.
func CreateDefaultCounselors(ctx context.Context, store appRepos.Store, count int, lgr zerolog.Logger) (int, error) {
	if count <= 0 {
		return 0, nil
	}

	lgr.Info().Msg("Checking/Creating default counselors...")
	existing, err := store.Counselors().ListByRole(ctx, appModels.RoleCounselor)
	if err != nil {
		lgr.Error().Err(err).Msg("Error listing counselors")
		return 0, err
	}
	if len(existing) > 0 {
		lgr.Info().Int("existing", len(existing)).Msg("Counselors already present, skipping seed")
		return 0, nil
	}

	var finalErr error // collect errors without stopping the loop
	created := 0
	for i := 0; i < count; i++ {
		counselor := &appModels.Counselor{Role: appModels.RoleCounselor, MenteeIDs: []string{}}
		if err := store.Counselors().Save(ctx, counselor); err != nil {
			lgr.Error().Err(err).Int("index", i).Msg("Error creating default counselor")
			finalErr = errors.Join(finalErr, err)
			continue
		}
		created++
	}

	lgr.Info().Int("created", created).Msg("Default counselors created")
	return created, finalErr
}
