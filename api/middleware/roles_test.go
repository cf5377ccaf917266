package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/schoolkart/storefront-backend/pkg/enums"
	pkgerrors "github.com/schoolkart/storefront-backend/pkg/errors"
)

type stubRoleSource struct {
	role enums.UserRole
	err  error
}

func (s stubRoleSource) RoleForUser(context.Context, uuid.UUID) (enums.UserRole, error) {
	return s.role, s.err
}

func rolesTestHandler(source RoleSource, allowed ...enums.UserRole) http.Handler {
	return RequireRoles(source, nil, allowed...)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
}

func TestRequireRolesAdmitsAllowedRole(t *testing.T) {
	handler := rolesTestHandler(stubRoleSource{role: enums.UserRoleWarehouse}, enums.UserRoleWarehouse, enums.UserRoleAdmin)

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req = req.WithContext(WithUserID(req.Context(), uuid.NewString()))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestRequireRolesRefusesWrongRole(t *testing.T) {
	handler := rolesTestHandler(stubRoleSource{role: enums.UserRoleUser}, enums.UserRoleAdmin)

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req = req.WithContext(WithUserID(req.Context(), uuid.NewString()))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", resp.Code)
	}
}

func TestRequireRolesRefusesMissingUserRow(t *testing.T) {
	source := stubRoleSource{err: pkgerrors.New(pkgerrors.CodeNotFound, "user not found")}
	handler := rolesTestHandler(source, enums.UserRoleAdmin)

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req = req.WithContext(WithUserID(req.Context(), uuid.NewString()))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", resp.Code)
	}
}

func TestRequireRolesRefusesAnonymous(t *testing.T) {
	handler := rolesTestHandler(stubRoleSource{role: enums.UserRoleAdmin}, enums.UserRoleAdmin)

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestRequireRolesPrefersStoredRoleOverTokenClaim(t *testing.T) {
	// Token claimed admin, but the stored role was downgraded since login.
	handler := rolesTestHandler(stubRoleSource{role: enums.UserRoleUser}, enums.UserRoleAdmin)

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	ctx := WithUserID(req.Context(), uuid.NewString())
	ctx = WithRole(ctx, string(enums.UserRoleAdmin))
	req = req.WithContext(ctx)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", resp.Code)
	}
}
