package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/schoolkart/storefront-backend/pkg/db/models"
	"github.com/schoolkart/storefront-backend/pkg/enums"
	pkgerrors "github.com/schoolkart/storefront-backend/pkg/errors"
	"github.com/schoolkart/storefront-backend/pkg/pagination"
	"gorm.io/gorm"
)

// Service exposes user profile reads and the admin role-management surface.
type Service interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*models.User, error)
	ListUsers(ctx context.Context, params pagination.Params) (*UserList, error)
	UpdateUserRole(ctx context.Context, input UpdateRoleInput) error
	RoleForUser(ctx context.Context, userID uuid.UUID) (enums.UserRole, error)
}

type service struct {
	repo Repository
}

// NewService builds the users service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("users repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) GetProfile(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	return user, nil
}

func (s *service) ListUsers(ctx context.Context, params pagination.Params) (*UserList, error) {
	list, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list users")
	}
	return list, nil
}

func (s *service) UpdateUserRole(ctx context.Context, input UpdateRoleInput) error {
	if input.UserID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	role, err := enums.ParseUserRole(input.Role)
	if err != nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "unknown role")
	}

	if _, err := s.repo.FindByID(ctx, input.UserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	if err := s.repo.UpdateRole(ctx, input.UserID, role); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update role")
	}
	return nil
}

// RoleForUser resolves the caller's persisted role. A missing row surfaces as
// NotFound; the role gate middleware maps that to Forbidden.
func (s *service) RoleForUser(ctx context.Context, userID uuid.UUID) (enums.UserRole, error) {
	if userID == uuid.Nil {
		return "", pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	return user.Role, nil
}
