package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kwat0g/enrollment/internal/models"
	appErrors "github.com/kwat0g/enrollment/pkg/errors"
)

type freshmanRepoMock struct {
	applications map[int64]models.FreshmanApplication
	accepted     []int64
	acceptCode   string
	acceptErr    error
	statuses     map[int64]models.FreshmanStatus
}

func (m *freshmanRepoMock) List(ctx context.Context, status models.FreshmanStatus) ([]models.FreshmanApplication, error) {
	return nil, nil
}

func (m *freshmanRepoMock) FindByID(ctx context.Context, id int64) (*models.FreshmanApplication, error) {
	application, ok := m.applications[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &application, nil
}

func (m *freshmanRepoMock) Create(ctx context.Context, a *models.FreshmanApplication) error {
	a.ID = int64(len(m.applications) + 1)
	a.Status = models.FreshmanStatusPending
	if m.applications == nil {
		m.applications = map[int64]models.FreshmanApplication{}
	}
	m.applications[a.ID] = *a
	return nil
}

func (m *freshmanRepoMock) Accept(ctx context.Context, id int64, year string) (string, error) {
	if m.acceptErr != nil {
		return "", m.acceptErr
	}
	m.accepted = append(m.accepted, id)
	return m.acceptCode, nil
}

func (m *freshmanRepoMock) UpdateStatus(ctx context.Context, id int64, status models.FreshmanStatus) error {
	if m.statuses == nil {
		m.statuses = map[int64]models.FreshmanStatus{}
	}
	m.statuses[id] = status
	return nil
}

func validApplication() models.FreshmanApplicationRequest {
	return models.FreshmanApplicationRequest{
		FirstName: "Juan",
		LastName:  "Reyes",
		Birthdate: "2007-03-14",
		Sex:       "Male",
		Email:     "juan.reyes@example.com",
		Mobile:    "09171234567",
		YearLevel: "1st Year",
		Consent:   true,
	}
}

func TestSubmitApplication(t *testing.T) {
	repo := &freshmanRepoMock{}
	svc := NewFreshmanService(repo, nil, nil, FreshmanConfig{AdmissionYear: "2025"})

	application, err := svc.Submit(context.Background(), validApplication())
	require.NoError(t, err)
	assert.Equal(t, models.FreshmanStatusPending, application.Status)
	assert.NotZero(t, application.ID)
}

func TestSubmitApplicationRejectsBadMobile(t *testing.T) {
	svc := NewFreshmanService(&freshmanRepoMock{}, nil, nil, FreshmanConfig{})

	for _, mobile := range []string{"0917123456", "091712345678", "+639171234567", "9171234567"} {
		req := validApplication()
		req.Mobile = mobile
		_, err := svc.Submit(context.Background(), req)
		var appErr *appErrors.Error
		require.ErrorAs(t, err, &appErr, mobile)
		assert.Contains(t, appErr.Message, "mobile number", mobile)
	}
}

func TestSubmitApplicationRequiresConsent(t *testing.T) {
	svc := NewFreshmanService(&freshmanRepoMock{}, nil, nil, FreshmanConfig{})

	req := validApplication()
	req.Consent = false
	_, err := svc.Submit(context.Background(), req)
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "consent is required", appErr.Message)
}

func TestAcceptReturnsMintedCode(t *testing.T) {
	repo := &freshmanRepoMock{acceptCode: "2025-00042"}
	svc := NewFreshmanService(repo, nil, nil, FreshmanConfig{AdmissionYear: "2025"})

	code, err := svc.Accept(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, "2025-00042", code)
	assert.Equal(t, []int64{5}, repo.accepted)
}

func TestAcceptPropagatesConflict(t *testing.T) {
	repo := &freshmanRepoMock{
		acceptErr: appErrors.Clone(appErrors.ErrConflict, "application has already been processed"),
	}
	svc := NewFreshmanService(repo, nil, nil, FreshmanConfig{AdmissionYear: "2025"})

	_, err := svc.Accept(context.Background(), 5)
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
}

func TestRejectOnlyPendingApplications(t *testing.T) {
	repo := &freshmanRepoMock{applications: map[int64]models.FreshmanApplication{
		5: {ID: 5, Status: models.FreshmanStatusAccepted},
		6: {ID: 6, Status: models.FreshmanStatusPending},
	}}
	svc := NewFreshmanService(repo, nil, nil, FreshmanConfig{})

	err := svc.Reject(context.Background(), 5)
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)

	require.NoError(t, svc.Reject(context.Background(), 6))
	assert.Equal(t, models.FreshmanStatusRejected, repo.statuses[6])
}
