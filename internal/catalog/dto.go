package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductFilters describe the inputs supported by the product list.
type ProductFilters struct {
	CategoryID      *uuid.UUID
	SchoolID        *uuid.UUID
	IncludeInactive bool
}

// SizeSummary is one size variant with its effective price and stock.
type SizeSummary struct {
	ID    uuid.UUID       `json:"id"`
	Label string          `json:"label"`
	Price decimal.Decimal `json:"price"`
	Stock int             `json:"stock"`
}

// ProductSummary is the list-view shape for a product.
type ProductSummary struct {
	ID         uuid.UUID       `json:"id"`
	CategoryID uuid.UUID       `json:"category_id"`
	SchoolID   *uuid.UUID      `json:"school_id,omitempty"`
	Name       string          `json:"name"`
	Price      decimal.Decimal `json:"price"`
	ImageURL   *string         `json:"image_url,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}

// ProductDetail adds the description and size variants.
type ProductDetail struct {
	ProductSummary
	Description *string       `json:"description,omitempty"`
	Sizes       []SizeSummary `json:"sizes"`
}

// ProductList wraps the paginated products plus the next page cursor.
type ProductList struct {
	Products   []ProductSummary `json:"products"`
	NextCursor string           `json:"next_cursor,omitempty"`
}

// CategorySummary is one catalog grouping.
type CategorySummary struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Slug string    `json:"slug"`
}

// SchoolSummary is one institution the catalog stitches uniforms for.
type SchoolSummary struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	City    string    `json:"city"`
	LogoURL *string   `json:"logo_url,omitempty"`
}
