package services_test

import (
	"strings"
	"testing"
	"time"

	"github.com/random0602/DailyGlow/models"
	"github.com/random0602/DailyGlow/services"
	"github.com/random0602/DailyGlow/testutils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func newAuthService() *services.AuthService {
	return services.NewAuthService(testSecret, time.Hour)
}

func TestSignUp_Success(t *testing.T) {
	db := testutils.SetupTestDB(t)
	auth := newAuthService()

	user, err := auth.SignUp(db, "  alice ", "pw")
	require.NoError(t, err)

	assert.Equal(t, "alice", user.Username)
	assert.NotEqual(t, "pw", user.PasswordHash)
	assert.NoError(t, auth.ComparePasswords(user.PasswordHash, "pw"))

	var stored models.User
	require.NoError(t, db.DB.First(&stored, "id = ?", user.ID).Error)
	assert.Equal(t, "alice", stored.Username)

	assert.Equal(t, []string{"user.created"}, testutils.EventTypes(testutils.PendingEvents(t, db)))
}

func TestSignUp_Validation(t *testing.T) {
	db := testutils.SetupTestDB(t)
	auth := newAuthService()

	_, err := auth.SignUp(db, "   ", "pw")
	assert.ErrorIs(t, err, services.ErrValidation)

	_, err = auth.SignUp(db, "alice", "")
	assert.ErrorIs(t, err, services.ErrValidation)

	_, err = auth.SignUp(db, "alice", strings.Repeat("x", 100))
	assert.ErrorIs(t, err, services.ErrValidation)

	var count int64
	db.DB.Model(&models.User{}).Count(&count)
	assert.Zero(t, count)
}

func TestSignUp_DuplicateUsername(t *testing.T) {
	db := testutils.SetupTestDB(t)
	auth := newAuthService()

	_, err := auth.SignUp(db, "alice", "pw")
	require.NoError(t, err)

	_, err = auth.SignUp(db, "alice", "other")
	assert.ErrorIs(t, err, services.ErrResourceExists)

	var count int64
	db.DB.Model(&models.User{}).Where("username = ?", "alice").Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestSignIn(t *testing.T) {
	db := testutils.SetupTestDB(t)
	auth := newAuthService()

	user, err := auth.SignUp(db, "alice", "pw")
	require.NoError(t, err)

	t.Run("valid credentials", func(t *testing.T) {
		signed, err := auth.SignIn(db, "alice", "pw")
		require.NoError(t, err)

		claims, err := auth.ValidateToken(signed)
		require.NoError(t, err)
		assert.Equal(t, user.ID.String(), claims.Subject)
		assert.Equal(t, "alice", claims.Username)
		assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, 5*time.Second)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := auth.SignIn(db, "alice", "nope")
		assert.ErrorIs(t, err, services.ErrInvalidCredentials)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := auth.SignIn(db, "bob", "pw")
		assert.ErrorIs(t, err, services.ErrInvalidCredentials)
	})
}

func TestValidateToken_Invalid(t *testing.T) {
	auth := newAuthService()
	other := services.NewAuthService("other-secret", time.Hour)

	db := testutils.SetupTestDB(t)
	_, err := other.SignUp(db, "alice", "pw")
	require.NoError(t, err)
	foreign, err := other.SignIn(db, "alice", "pw")
	require.NoError(t, err)

	_, err = auth.ValidateToken(foreign)
	assert.ErrorIs(t, err, services.ErrInvalidToken)

	_, err = auth.ValidateToken("")
	assert.ErrorIs(t, err, services.ErrInvalidToken)
}

func TestSignUp_DatabaseFailure(t *testing.T) {
	db, mock, close := testutils.SetupMockDB()
	defer close()

	mock.ExpectBegin().WillReturnError(assert.AnError)

	_, err := newAuthService().SignUp(db, "alice", "pw")
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
