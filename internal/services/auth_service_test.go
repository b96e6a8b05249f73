package services

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pawsteps/pawsteps-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignUp_IssuesTokensAndDefaultsName(t *testing.T) {
	_, auth, _ := newTestServices(t)

	identity, pair, err := auth.SignUp("rex@example.com", "password123", "")
	require.NoError(t, err)
	require.NotNil(t, pair)

	assert.Equal(t, "rex@example.com", identity.Email)
	assert.Equal(t, "rex", identity.Name)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.NotEqual(t, "password123", identity.PasswordHash)
}

func TestSignUp_DuplicateEmail(t *testing.T) {
	_, auth, _ := newTestServices(t)

	_, _, err := auth.SignUp("rex@example.com", "password123", "Rex")
	require.NoError(t, err)

	_, _, err = auth.SignUp("rex@example.com", "different-pass", "Rex")
	assert.ErrorIs(t, err, ErrAlreadyRegistered)
}

func TestSignUp_RejectsShortPassword(t *testing.T) {
	_, auth, _ := newTestServices(t)

	_, _, err := auth.SignUp("rex@example.com", "short", "Rex")
	assert.Error(t, err)
}

func TestSignIn_WrongPassword(t *testing.T) {
	_, auth, _ := newTestServices(t)

	_, _, err := auth.SignUp("rex@example.com", "password123", "Rex")
	require.NoError(t, err)

	_, _, err = auth.SignIn("rex@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = auth.SignIn("nobody@example.com", "password123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestSignIn_AccessTokenClaims(t *testing.T) {
	_, auth, _ := newTestServices(t)

	identity, pair, err := auth.SignUp("rex@example.com", "password123", "Rex")
	require.NoError(t, err)

	token, err := jwt.Parse(pair.AccessToken, func(tok *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	require.True(t, token.Valid)

	claims := token.Claims.(jwt.MapClaims)
	assert.Equal(t, identity.ID.String(), claims["sub"])
	assert.Equal(t, "rex@example.com", claims["email"])
}

func TestRefresh_RotatesToken(t *testing.T) {
	_, auth, _ := newTestServices(t)

	_, pair, err := auth.SignUp("rex@example.com", "password123", "Rex")
	require.NoError(t, err)

	_, next, err := auth.Refresh(pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, pair.RefreshToken, next.RefreshToken)

	// The presented token was revoked by the rotation.
	_, _, err = auth.Refresh(pair.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidToken)

	// The fresh one still works.
	_, _, err = auth.Refresh(next.RefreshToken)
	assert.NoError(t, err)
}

func TestRefresh_GarbageToken(t *testing.T) {
	_, auth, _ := newTestServices(t)

	_, _, err := auth.Refresh("not-a-real-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestSignOut_RevokesRefreshToken(t *testing.T) {
	db, auth, _ := newTestServices(t)

	identity, pair, err := auth.SignUp("rex@example.com", "password123", "Rex")
	require.NoError(t, err)

	require.NoError(t, auth.SignOut(pair.RefreshToken))

	_, _, err = auth.Refresh(pair.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidToken)

	var stored models.RefreshToken
	require.NoError(t, db.Where("identity_id = ?", identity.ID).First(&stored).Error)
	assert.True(t, stored.Revoked)
}

func TestUpdatePassword_OldCredentialStopsWorking(t *testing.T) {
	_, auth, _ := newTestServices(t)

	identity, _, err := auth.SignUp("rex@example.com", "password123", "Rex")
	require.NoError(t, err)

	require.NoError(t, auth.UpdatePassword(identity.ID, "new-password-456"))

	_, _, err = auth.SignIn("rex@example.com", "password123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = auth.SignIn("rex@example.com", "new-password-456")
	assert.NoError(t, err)
}

func TestVerifyPassword(t *testing.T) {
	_, auth, _ := newTestServices(t)

	identity, _, err := auth.SignUp("rex@example.com", "password123", "Rex")
	require.NoError(t, err)

	assert.NoError(t, auth.VerifyPassword(identity.ID, "password123"))
	assert.ErrorIs(t, auth.VerifyPassword(identity.ID, "nope"), ErrInvalidCredentials)
}
