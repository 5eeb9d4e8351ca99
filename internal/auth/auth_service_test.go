package auth_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"

	"github.com/junicoVilela/people-flow-api-sub000/internal/auth"
	autherrors "github.com/junicoVilela/people-flow-api-sub000/internal/auth/errors"
	authMock "github.com/junicoVilela/people-flow-api-sub000/internal/auth/mock"
	"github.com/junicoVilela/people-flow-api-sub000/internal/employee"
	employeeerrors "github.com/junicoVilela/people-flow-api-sub000/internal/employee/errors"
	employeeMock "github.com/junicoVilela/people-flow-api-sub000/internal/employee/mock"
	rbacMock "github.com/junicoVilela/people-flow-api-sub000/internal/rbac/mock"
)

func TestService_Login(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := authMock.NewMockRepository(ctrl)
	mockRBAC := rbacMock.NewMockService(ctrl)
	mockEmployeeRepo := employeeMock.NewMockRepository(ctrl)

	service := auth.NewService(mockRepo, mockRBAC, mockEmployeeRepo)
	ctx := context.Background()

	password := "password123"
	pw, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)

	userID := uuid.New()
	tenantID := uuid.New()
	employeeID := uuid.New()
	mockUser := &auth.User{
		ID:         userID,
		EmployeeID: &employeeID,
		TenantID:   tenantID,
		Email:      "admin@example.com",
		Password:   string(pw),
	}

	t.Run("Success Login", func(t *testing.T) {
		mockRepo.EXPECT().
			GetByEmail(ctx, mockUser.Email).
			Return(mockUser, nil)

		mockRBAC.EXPECT().
			LoadTenantPolicy(tenantID.String()).
			Return(nil)

		token, refreshToken, resp, err := service.Login(ctx, mockUser.Email, password)

		assert.NoError(t, err)
		assert.NotEmpty(t, token)
		assert.NotEmpty(t, refreshToken)
		assert.Equal(t, mockUser.Email, resp.Email)
		assert.Equal(t, tenantID.String(), resp.TenantID)
	})

	t.Run("Wrong Password", func(t *testing.T) {
		mockRepo.EXPECT().
			GetByEmail(ctx, mockUser.Email).
			Return(mockUser, nil)

		_, _, _, err := service.Login(ctx, mockUser.Email, "wrongpass")
		assert.ErrorIs(t, err, autherrors.ErrInvalidCredentials)
	})

	t.Run("Unknown Email", func(t *testing.T) {
		mockRepo.EXPECT().
			GetByEmail(ctx, "nobody@example.com").
			Return(nil, errors.New("record not found"))

		_, _, _, err := service.Login(ctx, "nobody@example.com", password)
		assert.ErrorIs(t, err, autherrors.ErrInvalidCredentials)
	})
}

func TestService_Register(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := authMock.NewMockRepository(ctrl)
	mockRBAC := rbacMock.NewMockService(ctrl)
	mockEmployeeRepo := employeeMock.NewMockRepository(ctrl)
	service := auth.NewService(mockRepo, mockRBAC, mockEmployeeRepo)
	ctx := context.Background()

	t.Run("Success Register", func(t *testing.T) {
		tID := uuid.New()
		eID := uuid.New()

		req := auth.RegisterRequest{
			EmployeeID: eID.String(),
			Email:      "user@example.com",
			Name:       "João Souza",
			Password:   "password123",
		}

		mockEmployeeRepo.EXPECT().
			FindByID(ctx, eID.String()).
			Return(&employee.Employee{
				ID:       eID,
				TenantID: tID,
				Name:     "João Souza",
			}, nil)

		mockRepo.EXPECT().
			Create(ctx, gomock.Any()).
			Return(nil)

		mockRBAC.EXPECT().
			LoadTenantPolicy(tID.String()).
			Return(nil).
			Times(1)

		resp, err := service.Register(ctx, req)

		assert.NoError(t, err)
		assert.Equal(t, req.Email, resp.Email)
		assert.Equal(t, tID.String(), resp.TenantID)
	})

	t.Run("Employee Not Found", func(t *testing.T) {
		eID := uuid.New().String()
		req := auth.RegisterRequest{
			EmployeeID: eID,
			Password:   "password123",
		}

		mockEmployeeRepo.EXPECT().
			FindByID(ctx, eID).
			Return(nil, errors.New("not found"))

		_, err := service.Register(ctx, req)
		assert.Error(t, err)
		assert.Equal(t, employeeerrors.ErrEmployeeNotFound, err)
	})

	t.Run("Error Register - Duplicate Email", func(t *testing.T) {
		tID := uuid.New()
		eID := uuid.New()
		req := auth.RegisterRequest{
			EmployeeID: eID.String(),
			Email:      "duplicate@example.com",
			Password:   "password123",
		}

		mockEmployeeRepo.EXPECT().
			FindByID(ctx, eID.String()).
			Return(&employee.Employee{ID: eID, TenantID: tID}, nil)

		mockRepo.EXPECT().
			Create(ctx, gomock.Any()).
			Return(errors.New("duplicate key error"))

		_, err := service.Register(ctx, req)
		assert.Error(t, err)
		assert.Equal(t, autherrors.ErrEmailAlreadyRegistered, err)
	})
}

func TestService_RefreshToken_Invalid(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	service := auth.NewService(
		authMock.NewMockRepository(ctrl),
		rbacMock.NewMockService(ctrl),
		employeeMock.NewMockRepository(ctrl),
	)

	_, _, _, err := service.RefreshToken(context.Background(), "garbage-token")
	assert.ErrorIs(t, err, autherrors.ErrInvalidRefreshToken)
}
