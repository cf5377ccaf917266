package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/schoolkart/storefront-backend/api/middleware"
	"github.com/schoolkart/storefront-backend/internal/users"
	"github.com/schoolkart/storefront-backend/pkg/enums"
	pkgerrors "github.com/schoolkart/storefront-backend/pkg/errors"
)

func requireUserID(r *http.Request) (uuid.UUID, error) {
	id := middleware.UserUUIDFromContext(r.Context())
	if id == uuid.Nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials")
	}
	return id, nil
}

// optionalUserID returns nil for anonymous (guest) requests.
func optionalUserID(r *http.Request) *uuid.UUID {
	id := middleware.UserUUIDFromContext(r.Context())
	if id == uuid.Nil {
		return nil
	}
	return &id
}

// privilegedActor reports whether the caller's stored role grants staff
// access. The token claim alone is not enough; the users row decides, so a
// demotion takes effect on the next request.
func privilegedActor(r *http.Request, usersSvc users.Service) (bool, error) {
	id := middleware.UserUUIDFromContext(r.Context())
	if id == uuid.Nil || usersSvc == nil {
		return false, nil
	}
	role, err := usersSvc.RoleForUser(r.Context(), id)
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeNotFound {
			return false, nil
		}
		return false, err
	}
	return isStaffRole(role), nil
}

func isStaffRole(role enums.UserRole) bool {
	switch role {
	case enums.UserRoleAdmin, enums.UserRoleManager:
		return true
	default:
		return false
	}
}
