package users

import (
	"time"

	"github.com/google/uuid"

	"github.com/schoolkart/storefront-backend/pkg/enums"
)

// UserSummary is the admin list-view shape for a user.
type UserSummary struct {
	ID          uuid.UUID      `json:"id"`
	Email       string         `json:"email"`
	DisplayName string         `json:"display_name"`
	Role        enums.UserRole `json:"role"`
	AuthType    enums.AuthType `json:"auth_type"`
	LastLoginAt *time.Time     `json:"last_login_at,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
}

// UserList wraps the paginated users plus the next page cursor.
type UserList struct {
	Users      []UserSummary `json:"users"`
	NextCursor string        `json:"next_cursor,omitempty"`
}

// UpdateRoleInput is the admin role-change request.
type UpdateRoleInput struct {
	UserID uuid.UUID
	Role   string
}
