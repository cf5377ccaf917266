package types

import "strings"

// ShippingAddress is the structured destination snapshot stored on an order.
// Line2 is the only optional field.
type ShippingAddress struct {
	Name       string  `json:"name" validate:"required"`
	Line1      string  `json:"line1" validate:"required"`
	Line2      *string `json:"line2,omitempty"`
	City       string  `json:"city" validate:"required"`
	State      string  `json:"state" validate:"required"`
	Country    string  `json:"country" validate:"required"`
	PostalCode string  `json:"postal_code" validate:"required"`
	Phone      string  `json:"phone" validate:"required"`
	Email      string  `json:"email" validate:"required,email"`
}

// Validate reports the first missing required field, if any.
func (a ShippingAddress) Validate() (string, bool) {
	required := []struct {
		field string
		value string
	}{
		{"name", a.Name},
		{"line1", a.Line1},
		{"city", a.City},
		{"state", a.State},
		{"country", a.Country},
		{"postal_code", a.PostalCode},
		{"phone", a.Phone},
		{"email", a.Email},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return r.field, false
		}
	}
	return "", true
}
