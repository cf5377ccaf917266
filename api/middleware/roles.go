package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/schoolkart/storefront-backend/api/responses"
	"github.com/schoolkart/storefront-backend/pkg/enums"
	pkgerrors "github.com/schoolkart/storefront-backend/pkg/errors"
	"github.com/schoolkart/storefront-backend/pkg/logger"
)

// RoleSource resolves the caller's persisted role. The stored role wins over
// whatever the token claims: a role revoked after login takes effect on the
// next request, not the next token refresh.
type RoleSource interface {
	RoleForUser(ctx context.Context, userID uuid.UUID) (enums.UserRole, error)
}

// RequireRoles admits only callers whose current stored role is in the allow
// list. A caller whose user row disappeared is refused.
func RequireRoles(source RoleSource, logg *logger.Logger, allowed ...enums.UserRole) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := UserUUIDFromContext(r.Context())
			if userID == uuid.Nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			role, err := source.RoleForUser(r.Context(), userID)
			if err != nil {
				if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeNotFound {
					responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "role required"))
					return
				}
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve role"))
				return
			}

			for _, want := range allowed {
				if role == want {
					ctx := WithRole(r.Context(), string(role))
					next.ServeHTTP(w, r.WithContext(ctx))
					return
				}
			}

			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "role required"))
		})
	}
}
