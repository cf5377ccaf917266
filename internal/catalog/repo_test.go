package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/schoolkart/storefront-backend/pkg/db/models"
	"github.com/schoolkart/storefront-backend/pkg/pagination"
)

func setupCatalogTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	schools := `
CREATE TABLE IF NOT EXISTS schools (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  city TEXT NOT NULL,
  logo_url TEXT,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`
	categories := `
CREATE TABLE IF NOT EXISTS categories (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  slug TEXT NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`
	products := `
CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  category_id TEXT NOT NULL,
  school_id TEXT,
  name TEXT NOT NULL,
  description TEXT,
  price NUMERIC NOT NULL,
  image_url TEXT,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`
	productSizes := `
CREATE TABLE IF NOT EXISTS product_sizes (
  id TEXT PRIMARY KEY,
  product_id TEXT NOT NULL,
  label TEXT NOT NULL,
  price_override NUMERIC,
  stock INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(schools).Error)
	require.NoError(t, db.Exec(categories).Error)
	require.NoError(t, db.Exec(products).Error)
	require.NoError(t, db.Exec(productSizes).Error)
	return db
}

func seedCategory(t *testing.T, db *gorm.DB, name string) *models.Category {
	t.Helper()
	cat := &models.Category{ID: uuid.New(), Name: name, Slug: name}
	require.NoError(t, db.Create(cat).Error)
	return cat
}

func seedProduct(t *testing.T, db *gorm.DB, categoryID uuid.UUID, name string, active bool, createdAt time.Time) *models.Product {
	t.Helper()
	product := &models.Product{
		ID:         uuid.New(),
		CategoryID: categoryID,
		Name:       name,
		Price:      decimal.RequireFromString("350.00"),
		IsActive:   true,
		CreatedAt:  createdAt,
		UpdatedAt:  createdAt,
	}
	require.NoError(t, db.Create(product).Error)
	if !active {
		require.NoError(t, db.Model(product).Update("is_active", false).Error)
	}
	return product
}

func TestListProductsFiltersAndPaginates(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	shirts := seedCategory(t, db, "shirts")
	trousers := seedCategory(t, db, "trousers")

	base := time.Now().UTC().Add(-time.Hour)
	seedProduct(t, db, shirts.ID, "shirt-1", true, base)
	seedProduct(t, db, shirts.ID, "shirt-2", true, base.Add(time.Minute))
	seedProduct(t, db, shirts.ID, "shirt-retired", false, base.Add(2*time.Minute))
	seedProduct(t, db, trousers.ID, "trouser-1", true, base.Add(3*time.Minute))

	list, err := repo.ListProducts(ctx, pagination.Params{}, ProductFilters{CategoryID: &shirts.ID})
	require.NoError(t, err)
	require.Len(t, list.Products, 2, "inactive products are hidden by default")

	page1, err := repo.ListProducts(ctx, pagination.Params{Limit: 1}, ProductFilters{CategoryID: &shirts.ID})
	require.NoError(t, err)
	require.Len(t, page1.Products, 1)
	require.NotEmpty(t, page1.NextCursor)
	assert.Equal(t, "shirt-2", page1.Products[0].Name)

	page2, err := repo.ListProducts(ctx, pagination.Params{Limit: 1, Cursor: page1.NextCursor}, ProductFilters{CategoryID: &shirts.ID})
	require.NoError(t, err)
	require.Len(t, page2.Products, 1)
	assert.Equal(t, "shirt-1", page2.Products[0].Name)
}

func TestGetProductDetailResolvesSizePrices(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	svc, err := NewService(repo)
	require.NoError(t, err)
	ctx := context.Background()

	cat := seedCategory(t, db, "shirts")
	product := seedProduct(t, db, cat.ID, "shirt-1", true, time.Now().UTC())

	override := decimal.RequireFromString("400.00")
	sizes := []models.ProductSize{
		{ID: uuid.New(), ProductID: product.ID, Label: "S", Stock: 5},
		{ID: uuid.New(), ProductID: product.ID, Label: "XL", PriceOverride: &override, Stock: 2},
	}
	for i := range sizes {
		require.NoError(t, db.Create(&sizes[i]).Error)
	}

	detail, err := svc.GetProduct(ctx, product.ID)
	require.NoError(t, err)
	require.Len(t, detail.Sizes, 2)

	byLabel := map[string]SizeSummary{}
	for _, s := range detail.Sizes {
		byLabel[s.Label] = s
	}
	assert.True(t, byLabel["S"].Price.Equal(decimal.RequireFromString("350.00")))
	assert.True(t, byLabel["XL"].Price.Equal(decimal.RequireFromString("400.00")))
	assert.Equal(t, 5, byLabel["S"].Stock)
}

func TestGetProductNotFound(t *testing.T) {
	db := setupCatalogTestDB(t)
	svc, err := NewService(NewRepository(db))
	require.NoError(t, err)

	_, err = svc.GetProduct(context.Background(), uuid.New())
	require.Error(t, err)
}

func TestListCategoriesAndSchools(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	seedCategory(t, db, "shirts")
	seedCategory(t, db, "belts")

	school := &models.School{ID: uuid.New(), Name: "DPS Rohini", City: "Delhi", IsActive: true}
	require.NoError(t, db.Create(school).Error)
	closed := &models.School{ID: uuid.New(), Name: "Closed School", City: "Delhi", IsActive: true}
	require.NoError(t, db.Create(closed).Error)
	require.NoError(t, db.Model(closed).Update("is_active", false).Error)

	cats, err := repo.ListCategories(ctx)
	require.NoError(t, err)
	require.Len(t, cats, 2)
	assert.Equal(t, "belts", cats[0].Name, "categories sorted by name")

	schools, err := repo.ListSchools(ctx)
	require.NoError(t, err)
	require.Len(t, schools, 1, "inactive schools are hidden")
	assert.Equal(t, "DPS Rohini", schools[0].Name)
}
