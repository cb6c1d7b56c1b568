package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	cause := errors.New("dial tcp: timeout")

	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"nil", nil, ""},
		{"validation", NewValidationError("email cannot be empty"), KindValidation},
		{"conflict", ErrEmailAlreadyExists, KindConflict},
		{"not found", ErrNoCounselorAvailable, KindNotFound},
		{"auth", ErrWrongPassword, KindAuth},
		{"external", NewExternalServiceError("provisioning failed", cause), KindExternal},
		{"wrapped", fmt.Errorf("register: %w", ErrPhoneAlreadyExists), KindConflict},
		{"plain", errors.New("boom"), KindInternal},
		{"version conflict stays internal", ErrVersionConflict, KindInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestExternalServiceError_KeepsCause(t *testing.T) {
	cause := errors.New("status 503")
	err := NewExternalServiceError("failed to provision external identity", cause)

	assert.ErrorIs(t, err, ErrExternalService)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "failed to provision external identity", err.Error())
}
