package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/campuscare/internal/pkg/apperrors"
)

func newTestSigner() *TokenSigner {
	return NewTokenSigner(JWTConfig{
		SecretKey:   "test-secret",
		TokenTTL:    24000 * time.Hour,
		TokenIssuer: "campuscare.test",
	})
}

func TestTokenSigner_SignAndValidate(t *testing.T) {
	signer := newTestSigner()

	token, expiresAt, err := signer.Sign("student-1")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(24000*time.Hour), expiresAt, time.Minute)

	claims, err := signer.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "student-1", claims.Subject)
	assert.Equal(t, "student-1", claims.UserID)
	assert.Equal(t, "campuscare.test", claims.Issuer)
	assert.NotEmpty(t, claims.ID)
}

func TestTokenSigner_ValidateExpired(t *testing.T) {
	signer := newTestSigner()
	signer.now = func() time.Time { return time.Now().Add(-25000 * time.Hour) }

	token, _, err := signer.Sign("student-1")
	require.NoError(t, err)

	signer.now = time.Now
	_, err = signer.Validate(token)
	assert.ErrorIs(t, err, apperrors.ErrTokenExpired)
}

func TestTokenSigner_ValidateWrongSecret(t *testing.T) {
	token, _, err := newTestSigner().Sign("student-1")
	require.NoError(t, err)

	other := NewTokenSigner(JWTConfig{SecretKey: "other", TokenTTL: time.Hour})
	_, err = other.Validate(token)
	assert.ErrorIs(t, err, apperrors.ErrTokenInvalid)
}

func TestTokenSigner_RejectsNoneAlgorithm(t *testing.T) {
	claims := &Claims{UserID: "x", RegisteredClaims: jwt.RegisteredClaims{Subject: "x"}}
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = newTestSigner().Validate(unsigned)
	assert.ErrorIs(t, err, apperrors.ErrTokenInvalid)
}

func TestExtractBearerToken(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		want    string
		wantErr bool
	}{
		{name: "bearer prefix", header: "Bearer a.b.c", want: "a.b.c"},
		{name: "raw token", header: "a.b.c", want: "a.b.c"},
		{name: "empty", header: "", wantErr: true},
		{name: "garbage", header: "Basic dXNlcg==", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractBearerToken(tt.header)
			if tt.wantErr {
				assert.ErrorIs(t, err, apperrors.ErrInvalidFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPasswordHasher(t *testing.T) {
	h := NewPasswordHasher(4)

	hash, err := h.Hash("p")
	require.NoError(t, err)
	assert.NotEqual(t, "p", hash)
	assert.True(t, h.Check(hash, "p"))
	assert.False(t, h.Check(hash, "q"))
}

func TestNewPasswordHasher_FallsBackToDefaultCost(t *testing.T) {
	assert.Equal(t, DefaultBcryptCost, NewPasswordHasher(0).cost)
	assert.Equal(t, 4, NewPasswordHasher(4).cost)
}
