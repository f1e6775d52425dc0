package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	apperrors "bites4life/internal/errors"
	"bites4life/internal/model"
)

func TestAdminService_AddAdmin(t *testing.T) {
	tests := []struct {
		name          string
		email         string
		password      string
		setupMock     func(*MockUserRepository)
		expectedError error
	}{
		{
			name:     "created with hashed password",
			email:    " ops@example.com ",
			password: "secret",
			setupMock: func(m *MockUserRepository) {
				m.On("Create", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
					return u.Email == "ops@example.com" &&
						u.Role == model.RoleAdmin &&
						u.LastDevice == model.DeviceNeverLoggedIn &&
						bcrypt.CompareHashAndPassword([]byte(u.Password), []byte("secret")) == nil
				})).Return(nil)
			},
		},
		{
			name:     "duplicate email",
			email:    "ops@example.com",
			password: "secret",
			setupMock: func(m *MockUserRepository) {
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(apperrors.ErrEmailTaken)
			},
			expectedError: apperrors.ErrConflict,
		},
		{
			name:          "missing password",
			email:         "ops@example.com",
			setupMock:     func(m *MockUserRepository) {},
			expectedError: apperrors.ErrBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			tt.setupMock(mockRepo)

			user, err := NewAdminService(mockRepo).AddAdmin(context.Background(), tt.email, tt.password)
			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, user)
			} else {
				require.NoError(t, err)
				assert.Equal(t, model.RoleAdmin, user.Role)
			}
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestAdminService_DeleteAdmin(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockRepo.On("DeleteByIDAndRole", mock.Anything, uint(4), model.RoleAdmin).Return(true, nil)
	mockRepo.On("DeleteByIDAndRole", mock.Anything, uint(99), model.RoleAdmin).Return(false, nil)

	svc := NewAdminService(mockRepo)
	assert.NoError(t, svc.DeleteAdmin(context.Background(), 4))
	assert.ErrorIs(t, svc.DeleteAdmin(context.Background(), 99), apperrors.ErrAdminNotFound)
}

func TestAdminService_EnsureSuperAdmin(t *testing.T) {
	t.Run("seeds when missing", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockRepo.On("CountByRole", mock.Anything, model.RoleSuperAdmin).Return(int64(0), nil)
		mockRepo.On("Create", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
			return u.Email == "super" && u.Role == model.RoleSuperAdmin
		})).Return(nil)

		created, err := NewAdminService(mockRepo).EnsureSuperAdmin(context.Background(), "super", "4343")
		require.NoError(t, err)
		assert.True(t, created)
		mockRepo.AssertExpectations(t)
	})

	t.Run("noop when present", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockRepo.On("CountByRole", mock.Anything, model.RoleSuperAdmin).Return(int64(1), nil)

		created, err := NewAdminService(mockRepo).EnsureSuperAdmin(context.Background(), "super", "4343")
		require.NoError(t, err)
		assert.False(t, created)
		mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}
