package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/schoolkart/storefront-backend/pkg/enums"
)

// User represents the canonical identity entity. Role defaults to "user" at
// construction time rather than relying on a schema default.
type User struct {
	ID               uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Email            string         `gorm:"type:text;not null;uniqueIndex"`
	PasswordHash     *string        `gorm:"column:password_hash"`
	DisplayName      string         `gorm:"column:display_name;not null"`
	Role             enums.UserRole `gorm:"column:role;type:text;not null"`
	AuthType         enums.AuthType `gorm:"column:auth_type;type:text;not null"`
	DefaultAddressID *uuid.UUID     `gorm:"column:default_address_id;type:uuid"`
	LastLoginAt      *time.Time     `gorm:"column:last_login_at"`
	CreatedAt        time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}

// NewUser builds a user with the default role applied.
func NewUser(email, displayName string, authType enums.AuthType) *User {
	return &User{
		Email:       email,
		DisplayName: displayName,
		Role:        enums.UserRoleUser,
		AuthType:    authType,
	}
}
