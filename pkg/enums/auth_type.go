package enums

import "fmt"

// AuthType records how a user identity was established.
type AuthType string

const (
	AuthTypePassword AuthType = "password"
	AuthTypeGoogle   AuthType = "google"
	AuthTypeGuest    AuthType = "guest"
)

var validAuthTypes = []AuthType{
	AuthTypePassword,
	AuthTypeGoogle,
	AuthTypeGuest,
}

// String implements fmt.Stringer.
func (a AuthType) String() string {
	return string(a)
}

// IsValid reports whether the value is a known AuthType.
func (a AuthType) IsValid() bool {
	for _, candidate := range validAuthTypes {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseAuthType converts raw input into an AuthType.
func ParseAuthType(value string) (AuthType, error) {
	for _, candidate := range validAuthTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid auth type %q", value)
}
