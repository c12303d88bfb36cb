package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/kwat0g/enrollment/internal/models"
	appErrors "github.com/kwat0g/enrollment/pkg/errors"
)

type authStudentStub struct {
	students map[string]models.Student
}

func (s *authStudentStub) FindByStudentCode(ctx context.Context, code string) (*models.Student, error) {
	student, ok := s.students[code]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &student, nil
}

func (s *authStudentStub) FindByID(ctx context.Context, id int64) (*models.Student, error) {
	for _, student := range s.students {
		if student.ID == id {
			copied := student
			return &copied, nil
		}
	}
	return nil, sql.ErrNoRows
}

type authAdminStub struct {
	admins map[string]models.Admin
}

func (s *authAdminStub) FindByUsername(ctx context.Context, username string) (*models.Admin, error) {
	admin, ok := s.admins[username]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &admin, nil
}

func (s *authAdminStub) FindByID(ctx context.Context, id int64) (*models.Admin, error) {
	for _, admin := range s.admins {
		if admin.ID == id {
			copied := admin
			return &copied, nil
		}
	}
	return nil, sql.ErrNoRows
}

func newAuthService(t *testing.T) (*AuthService, *authStudentStub, *authAdminStub) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("registrar-pass"), bcrypt.MinCost)
	require.NoError(t, err)

	students := &authStudentStub{students: map[string]models.Student{
		"2025-00042": {ID: 7, StudentID: "2025-00042", LastName: "Dela Cruz", CourseID: 1, YearLevel: "1st Year"},
	}}
	admins := &authAdminStub{admins: map[string]models.Admin{
		"registrar": {ID: 2, Username: "registrar", Password: string(hash)},
	}}
	svc := NewAuthService(students, admins, nil, nil, AuthConfig{
		Secret:     "test-secret",
		Expiration: time.Hour,
		Issuer:     "enrollment-api",
	})
	return svc, students, admins
}

func TestStudentLoginMatchesLastNameCaseInsensitively(t *testing.T) {
	svc, _, _ := newAuthService(t)

	resp, err := svc.StudentLogin(context.Background(), models.StudentLoginRequest{
		StudentID: " 2025-00042 ",
		LastName:  "DELA CRUZ",
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Token)

	claims, err := svc.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, models.RoleStudent, claims.Role)
	assert.Equal(t, int64(7), claims.UserID)
	assert.Equal(t, "2025-00042", claims.StudentID)
	assert.Equal(t, int64(1), claims.CourseID)
}

func TestStudentLoginRejectsWrongLastName(t *testing.T) {
	svc, _, _ := newAuthService(t)

	_, err := svc.StudentLogin(context.Background(), models.StudentLoginRequest{
		StudentID: "2025-00042",
		LastName:  "Santos",
	})
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErr.Code)
}

func TestStudentLoginUnknownCodeSameError(t *testing.T) {
	svc, _, _ := newAuthService(t)

	_, err := svc.StudentLogin(context.Background(), models.StudentLoginRequest{
		StudentID: "1999-00001",
		LastName:  "Dela Cruz",
	})
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	// Unknown codes and wrong last names must be indistinguishable.
	assert.Equal(t, "invalid student ID or last name", appErr.Message)
}

func TestAdminLogin(t *testing.T) {
	svc, _, _ := newAuthService(t)

	resp, err := svc.AdminLogin(context.Background(), models.AdminLoginRequest{
		Username: "registrar",
		Password: "registrar-pass",
	})
	require.NoError(t, err)

	claims, err := svc.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, claims.Role)
	assert.Equal(t, "registrar", claims.Username)
}

func TestAdminLoginRejectsWrongPassword(t *testing.T) {
	svc, _, _ := newAuthService(t)

	_, err := svc.AdminLogin(context.Background(), models.AdminLoginRequest{
		Username: "registrar",
		Password: "guess",
	})
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErr.Code)
}

func TestRefreshReloadsAccount(t *testing.T) {
	svc, students, _ := newAuthService(t)

	login, err := svc.StudentLogin(context.Background(), models.StudentLoginRequest{
		StudentID: "2025-00042",
		LastName:  "Dela Cruz",
	})
	require.NoError(t, err)

	refreshed, err := svc.Refresh(context.Background(), models.RefreshTokenRequest{Token: login.Token})
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.Token)

	// A deleted account cannot refresh its session.
	delete(students.students, "2025-00042")
	_, err = svc.Refresh(context.Background(), models.RefreshTokenRequest{Token: login.Token})
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErr.Code)
}

func TestValidateTokenRejectsForeignSecret(t *testing.T) {
	svc, _, _ := newAuthService(t)
	other := NewAuthService(nil, nil, nil, nil, AuthConfig{Secret: "other-secret", Expiration: time.Hour})

	token, _, err := other.generateToken(models.JWTClaims{UserID: 7, Role: models.RoleStudent})
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErr.Code)
}
