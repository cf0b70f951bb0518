package auth_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aisenh037/MBC-sub002/auth"
	apperrors "github.com/Aisenh037/MBC-sub002/errors"
)

func testIssuer() *auth.TokenIssuer {
	return auth.NewTokenIssuer("test-secret", "mbc-test", 15*time.Minute, 24*time.Hour)
}

func baseClaims() auth.Claims {
	return auth.Claims{
		UserID:        "u1",
		Email:         "asha@example.edu",
		Role:          "student",
		InstitutionID: "inst-1",
	}
}

func TestAccessTokenRoundTrip(t *testing.T) {
	issuer := testIssuer()

	token, err := issuer.AccessToken(baseClaims())
	require.NoError(t, err)

	claims, err := issuer.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "student", claims.Role)
	assert.Equal(t, "inst-1", claims.InstitutionID)
	assert.Equal(t, auth.TokenTypeAccess, claims.TokenType)
	assert.Equal(t, "u1", claims.Subject)
}

func TestRefreshTokenType(t *testing.T) {
	issuer := testIssuer()

	token, err := issuer.RefreshToken(baseClaims())
	require.NoError(t, err)

	claims, err := issuer.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, auth.TokenTypeRefresh, claims.TokenType)
}

func TestExpiredTokenIsDistinctFromInvalid(t *testing.T) {
	expired := auth.NewTokenIssuer("test-secret", "mbc-test", -time.Minute, -time.Minute)

	token, err := expired.AccessToken(baseClaims())
	require.NoError(t, err)

	_, err = testIssuer().ParseToken(token)
	assert.ErrorIs(t, err, apperrors.ErrTokenExpired)
}

func TestWrongSecretIsInvalid(t *testing.T) {
	other := auth.NewTokenIssuer("other-secret", "mbc-test", 15*time.Minute, 24*time.Hour)

	token, err := other.AccessToken(baseClaims())
	require.NoError(t, err)

	_, err = testIssuer().ParseToken(token)
	assert.ErrorIs(t, err, apperrors.ErrTokenInvalid)
}

func TestGarbageTokenIsInvalid(t *testing.T) {
	_, err := testIssuer().ParseToken("not.a.token")
	assert.ErrorIs(t, err, apperrors.ErrTokenInvalid)
}
