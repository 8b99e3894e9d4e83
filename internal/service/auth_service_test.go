package service

import (
	"test_portal_backend/internal/config"
	"test_portal_backend/internal/model"
	"test_portal_backend/internal/repository"
	"test_portal_backend/internal/util"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newAuthService(t *testing.T) (*AuthService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	cfg := &config.Config{
		JWT: config.JWTConfig{
			Secret:     "test-secret",
			ExpireTime: time.Hour,
		},
	}
	return NewAuthService(repository.NewUserRepository(db), cfg), db
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _ := newAuthService(t)

	user, token, err := svc.Register(RegisterRequest{
		Name: "Asha", Email: "asha@example.com", Password: "secret1", Mobile: "555-0101",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, model.Student, user.Role)

	claims, err := util.ParseJWT(token, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, model.Student, claims.Role)

	loggedIn, token, err := svc.Login("asha@example.com", "secret1")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, user.ID, loggedIn.ID)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newAuthService(t)

	_, _, err := svc.Register(RegisterRequest{Name: "Asha", Email: "asha@example.com", Password: "secret1"})
	require.NoError(t, err)

	_, _, err = svc.Register(RegisterRequest{Name: "Imposter", Email: "asha@example.com", Password: "secret2"})
	assert.ErrorIs(t, err, util.ErrEmailRegistered)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, _ := newAuthService(t)

	_, _, err := svc.Register(RegisterRequest{Name: "Asha", Email: "asha@example.com", Password: "secret1"})
	require.NoError(t, err)

	_, _, err = svc.Login("asha@example.com", "wrong")
	assert.ErrorIs(t, err, util.ErrInvalidCredentials)

	_, _, err = svc.Login("nobody@example.com", "secret1")
	assert.ErrorIs(t, err, util.ErrInvalidCredentials)
}

func TestListAndDeleteStudents(t *testing.T) {
	svc, db := newAuthService(t)

	_, _, err := svc.Register(RegisterRequest{Name: "Asha", Email: "asha@example.com", Password: "secret1"})
	require.NoError(t, err)
	_, _, err = svc.Register(RegisterRequest{Name: "Ben", Email: "ben@example.com", Password: "secret1"})
	require.NoError(t, err)

	// Admins are not part of the roster.
	require.NoError(t, db.Create(&model.User{
		Name: "Root", Email: "root@example.com", Password: "x", Role: model.Admin,
	}).Error)

	students, err := svc.ListStudents()
	require.NoError(t, err)
	require.Len(t, students, 2)

	require.NoError(t, svc.DeleteStudent(students[0].ID))

	students, err = svc.ListStudents()
	require.NoError(t, err)
	assert.Len(t, students, 1)

	assert.ErrorIs(t, svc.DeleteStudent(4242), util.ErrUserNotFound)
}
