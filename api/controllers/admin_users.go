package controllers

import (
	"net/http"

	"github.com/schoolkart/storefront-backend/api/responses"
	"github.com/schoolkart/storefront-backend/api/validators"
	"github.com/schoolkart/storefront-backend/internal/users"
	pkgerrors "github.com/schoolkart/storefront-backend/pkg/errors"
	"github.com/schoolkart/storefront-backend/pkg/logger"
)

type updateUserRoleRequest struct {
	Role string `json:"role" validate:"required"`
}

func AdminUsersList(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "users service unavailable"))
			return
		}
		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.ListUsers(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// AdminUserRoleUpdate changes a user's role. The stored role takes effect on
// the target's next request, independent of any token they already hold.
func AdminUserRoleUpdate(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "users service unavailable"))
			return
		}
		userID, err := validators.ParseUUIDParam(r, "userId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body updateUserRoleRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		err = svc.UpdateUserRole(r.Context(), users.UpdateRoleInput{
			UserID: userID,
			Role:   body.Role,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"role": body.Role})
	}
}
