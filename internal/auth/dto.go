package auth

import (
	"github.com/google/uuid"

	"github.com/schoolkart/storefront-backend/pkg/enums"
)

// RegisterInput creates a password-backed account.
type RegisterInput struct {
	Email       string
	Password    string
	DisplayName string
}

// LoginInput authenticates a password-backed account.
type LoginInput struct {
	Email    string
	Password string
}

// RefreshInput rotates an access/refresh pair. AccessToken is the prior JWT,
// accepted even when expired.
type RefreshInput struct {
	AccessToken  string
	RefreshToken string
}

// TokenPair is returned on register, login, and refresh.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// SessionUser is the authenticated identity echoed back with a token pair.
type SessionUser struct {
	ID          uuid.UUID      `json:"id"`
	Email       string         `json:"email"`
	DisplayName string         `json:"display_name"`
	Role        enums.UserRole `json:"role"`
}

// AuthResult bundles the identity and its tokens.
type AuthResult struct {
	User   SessionUser `json:"user"`
	Tokens TokenPair   `json:"tokens"`
}
