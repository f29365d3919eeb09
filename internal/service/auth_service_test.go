package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/chenwl/attendance-api/internal/models"
	"github.com/chenwl/attendance-api/pkg/config"
	appErrors "github.com/chenwl/attendance-api/pkg/errors"
)

type fakeUserReader struct {
	byEmail    map[string]*models.User
	lastLogins []int64
}

func (f *fakeUserReader) FindByEmail(_ context.Context, email string) (*models.User, error) {
	user, ok := f.byEmail[email]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *user
	return &copied, nil
}

func (f *fakeUserReader) FindByID(_ context.Context, id int64) (*models.User, error) {
	for _, user := range f.byEmail {
		if user.ID == id {
			copied := *user
			return &copied, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeUserReader) UpdateLastLogin(_ context.Context, id int64, _ time.Time) error {
	f.lastLogins = append(f.lastLogins, id)
	return nil
}

func newAuthFixture(t *testing.T) (*AuthService, *fakeUserReader, *fakeAudit) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.MinCost)
	require.NoError(t, err)

	users := &fakeUserReader{byEmail: map[string]*models.User{
		"admin@school.test": {
			ID: 1, Email: "admin@school.test", PasswordHash: string(hash),
			Name: "管理員", Role: models.RoleGASpecialist, Active: true,
		},
		"inactive@school.test": {
			ID: 2, Email: "inactive@school.test", PasswordHash: string(hash),
			Name: "離職", Role: models.RoleTeacher, Active: false,
		},
	}}
	audit := &fakeAudit{}
	svc := NewAuthService(users, audit, config.JWTConfig{
		Secret: "test-secret", Expiration: time.Hour, Issuer: "attendance-api",
	}, nil)
	return svc, users, audit
}

func TestLoginAndValidateToken(t *testing.T) {
	svc, users, audit := newAuthFixture(t)

	result, err := svc.Login(context.Background(), models.LoginRequest{
		Email: "admin@school.test", Password: "correct-horse",
	})
	require.NoError(t, err)
	require.NotEmpty(t, result.AccessToken)
	require.Equal(t, []int64{1}, users.lastLogins)
	require.Len(t, audit.logs, 1)
	require.Equal(t, models.AuditActionLogin, audit.logs[0].Action)

	claims, err := svc.ValidateToken(result.AccessToken)
	require.NoError(t, err)
	require.Equal(t, int64(1), claims.UserID)
	require.Equal(t, models.RoleGASpecialist, claims.Role)
	require.True(t, claims.IsAdmin())
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _, _ := newAuthFixture(t)

	_, err := svc.Login(context.Background(), models.LoginRequest{
		Email: "admin@school.test", Password: "wrong",
	})
	appErr := appErrors.FromError(err)
	require.Equal(t, appErrors.ErrInvalidCredentials.Code, appErr.Code)
}

func TestLoginUnknownEmailSameError(t *testing.T) {
	svc, _, _ := newAuthFixture(t)

	_, err := svc.Login(context.Background(), models.LoginRequest{
		Email: "nobody@school.test", Password: "correct-horse",
	})
	appErr := appErrors.FromError(err)
	require.Equal(t, appErrors.ErrInvalidCredentials.Code, appErr.Code)
}

func TestLoginInactiveAccount(t *testing.T) {
	svc, _, _ := newAuthFixture(t)

	_, err := svc.Login(context.Background(), models.LoginRequest{
		Email: "inactive@school.test", Password: "correct-horse",
	})
	appErr := appErrors.FromError(err)
	require.Equal(t, appErrors.ErrInactiveAccount.Code, appErr.Code)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	svc, _, _ := newAuthFixture(t)

	_, err := svc.ValidateToken("not-a-token")
	require.Error(t, err)

	otherSigner := NewAuthService(&fakeUserReader{byEmail: map[string]*models.User{}}, nil,
		config.JWTConfig{Secret: "other-secret", Expiration: time.Hour}, nil)
	token, err := otherSigner.issueToken(&models.User{ID: 9, Role: models.RoleTeacher}, time.Now().Add(time.Hour))
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	require.Error(t, err)
}
