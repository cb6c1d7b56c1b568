package services

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/campuscare/internal/app/models"
	"github.com/yigit/campuscare/internal/pkg/apperrors"
	"github.com/yigit/campuscare/internal/pkg/stream"
)

// ExternalIdentity is the profile mirrored to the communication service
type ExternalIdentity struct {
	ID    string
	Name  string
	Image string
	Role  models.RoleType
	Color models.Color
}

// Provisioner creates or updates identities on the communication service.
type Provisioner interface {
	Provision(ctx context.Context, identity ExternalIdentity) error
}

// userUpserter is satisfied by stream.Client.
type userUpserter interface {
	UpsertUsers(ctx context.Context, users ...stream.User) error
}

// StreamProvisioner mirrors identities into Stream
type StreamProvisioner struct {
	client userUpserter
	logger zerolog.Logger
}

// NewStreamProvisioner creates a new StreamProvisioner. The client bounds
// each attempt and the number of attempts, so no overall deadline is added.
func NewStreamProvisioner(client userUpserter, logger zerolog.Logger) *StreamProvisioner {
	return &StreamProvisioner{
		client: client,
		logger: logger,
	}
}

// Provision upserts identity. Any failure is reported as an
// ExternalServiceError wrapping the transport or status error.
func (p *StreamProvisioner) Provision(ctx context.Context, identity ExternalIdentity) error {
	user := toStreamUser(identity)
	if err := p.client.UpsertUsers(ctx, user); err != nil {
		p.logger.Error().Err(err).Str("userID", identity.ID).Msg("Failed to provision external identity")
		return apperrors.NewExternalServiceError("failed to provision external identity", err)
	}

	p.logger.Info().Str("userID", identity.ID).Msg("External identity provisioned")
	return nil
}

func toStreamUser(identity ExternalIdentity) stream.User {
	role := identity.Role
	if role == "" {
		role = models.RoleExternalUser
	}
	return stream.User{
		ID:    identity.ID,
		Name:  identity.Name,
		Image: identity.Image,
		Role:  strings.ToLower(string(role)),
		Custom: map[string]any{
			"color": identity.Color.Lower(),
		},
	}
}
