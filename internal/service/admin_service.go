package service

import (
	"context"
	"fmt"
	"strings"

	apperrors "bites4life/internal/errors"
	"bites4life/internal/model"
	"bites4life/internal/repository"
)

// AdminService manages admin accounts.
type AdminService interface {
	AddAdmin(ctx context.Context, email, password string) (*model.User, error)
	ListAdmins(ctx context.Context) ([]model.User, error)
	DeleteAdmin(ctx context.Context, id uint) error
	// EnsureSuperAdmin seeds a superadmin when none exists and reports whether it did.
	EnsureSuperAdmin(ctx context.Context, email, password string) (bool, error)
}

type adminService struct {
	repo repository.UserRepository
}

// NewAdminService creates a new admin service.
func NewAdminService(repo repository.UserRepository) AdminService {
	return &adminService{repo: repo}
}

func (s *adminService) AddAdmin(ctx context.Context, email, password string) (*model.User, error) {
	return s.create(ctx, email, password, model.RoleAdmin)
}

func (s *adminService) ListAdmins(ctx context.Context) ([]model.User, error) {
	return s.repo.ListByRole(ctx, model.RoleAdmin)
}

// DeleteAdmin removes an admin. Superadmins are not reachable through it.
func (s *adminService) DeleteAdmin(ctx context.Context, id uint) error {
	deleted, err := s.repo.DeleteByIDAndRole(ctx, id, model.RoleAdmin)
	if err != nil {
		return err
	}
	if !deleted {
		return apperrors.ErrAdminNotFound
	}
	return nil
}

func (s *adminService) EnsureSuperAdmin(ctx context.Context, email, password string) (bool, error) {
	count, err := s.repo.CountByRole(ctx, model.RoleSuperAdmin)
	if err != nil {
		return false, fmt.Errorf("count superadmins: %w", err)
	}
	if count > 0 {
		return false, nil
	}
	if _, err := s.create(ctx, email, password, model.RoleSuperAdmin); err != nil {
		return false, err
	}
	return true, nil
}

func (s *adminService) create(ctx context.Context, email, password, role string) (*model.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, apperrors.BadRequest("email and password are required")
	}

	hashed, err := hashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Email:      email,
		Password:   hashed,
		Role:       role,
		LastDevice: model.DeviceNeverLoggedIn,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
