package address

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/schoolkart/storefront-backend/internal/users"
	"github.com/schoolkart/storefront-backend/pkg/db/models"
	"github.com/schoolkart/storefront-backend/pkg/enums"
	pkgerrors "github.com/schoolkart/storefront-backend/pkg/errors"
	"github.com/schoolkart/storefront-backend/pkg/types"
)

type gormTxRunner struct {
	db *gorm.DB
}

func (r gormTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

func setupAddressTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	tables := []string{
		`CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  password_hash TEXT,
  display_name TEXT NOT NULL,
  role TEXT NOT NULL DEFAULT 'user',
  auth_type TEXT NOT NULL DEFAULT 'password',
  default_address_id TEXT,
  last_login_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS addresses (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  name TEXT NOT NULL,
  line1 TEXT NOT NULL,
  line2 TEXT,
  city TEXT NOT NULL,
  state TEXT NOT NULL,
  country TEXT NOT NULL,
  postal_code TEXT NOT NULL,
  phone TEXT NOT NULL,
  email TEXT NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`,
	}
	for _, ddl := range tables {
		require.NoError(t, db.Exec(ddl).Error)
	}
	return db
}

func newAddressService(t *testing.T, db *gorm.DB) (Service, users.Repository) {
	t.Helper()
	usersRepo := users.NewRepository(db)
	svc, err := NewService(NewRepository(db), usersRepo, gormTxRunner{db: db})
	require.NoError(t, err)
	return svc, usersRepo
}

func seedAddressUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	user := &models.User{
		ID:          uuid.New(),
		Email:       email,
		DisplayName: "Test User",
		Role:        enums.UserRoleUser,
		AuthType:    enums.AuthTypePassword,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func sampleAddress() types.ShippingAddress {
	return types.ShippingAddress{
		Name:       "Asha Nair",
		Line1:      "12 Lake View Road",
		City:       "Kochi",
		State:      "Kerala",
		Country:    "IN",
		PostalCode: "682001",
		Phone:      "+919800000001",
		Email:      "asha@example.com",
	}
}

func TestSaveCreateUpdateAndDefault(t *testing.T) {
	db := setupAddressTestDB(t)
	svc, usersRepo := newAddressService(t, db)
	ctx := context.Background()

	user := seedAddressUser(t, db, "asha@example.com")

	saved, err := svc.Save(ctx, SaveInput{UserID: user.ID, Address: sampleAddress(), MakeDefault: true})
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, saved.ID)

	stored, err := usersRepo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.DefaultAddressID)
	assert.Equal(t, saved.ID, *stored.DefaultAddressID)

	updated := sampleAddress()
	updated.City = "Thrissur"
	saved2, err := svc.Save(ctx, SaveInput{UserID: user.ID, AddressID: &saved.ID, Address: updated})
	require.NoError(t, err)
	assert.Equal(t, saved.ID, saved2.ID)

	book, err := svc.List(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, book.Addresses, 1)
	assert.Equal(t, "Thrissur", book.Addresses[0].City)
	require.NotNil(t, book.DefaultAddressID)
	assert.Equal(t, saved.ID, *book.DefaultAddressID)
}

func TestSaveValidationAndOwnership(t *testing.T) {
	db := setupAddressTestDB(t)
	svc, _ := newAddressService(t, db)
	ctx := context.Background()

	user := seedAddressUser(t, db, "asha@example.com")
	other := seedAddressUser(t, db, "ravi@example.com")

	partial := sampleAddress()
	partial.Phone = ""
	_, err := svc.Save(ctx, SaveInput{UserID: user.ID, Address: partial})
	requireAddressCode(t, err, pkgerrors.CodeValidation)

	saved, err := svc.Save(ctx, SaveInput{UserID: user.ID, Address: sampleAddress()})
	require.NoError(t, err)

	// Another user cannot update somebody else's address.
	_, err = svc.Save(ctx, SaveInput{UserID: other.ID, AddressID: &saved.ID, Address: sampleAddress()})
	requireAddressCode(t, err, pkgerrors.CodeNotFound)
}

func TestDeleteClearsDefaultPointer(t *testing.T) {
	db := setupAddressTestDB(t)
	svc, usersRepo := newAddressService(t, db)
	ctx := context.Background()

	user := seedAddressUser(t, db, "asha@example.com")
	saved, err := svc.Save(ctx, SaveInput{UserID: user.ID, Address: sampleAddress(), MakeDefault: true})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, user.ID, saved.ID))

	stored, err := usersRepo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.DefaultAddressID)

	book, err := svc.List(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, book.Addresses)

	err = svc.Delete(ctx, user.ID, saved.ID)
	requireAddressCode(t, err, pkgerrors.CodeNotFound)
}

func TestSetDefaultRequiresOwnedAddress(t *testing.T) {
	db := setupAddressTestDB(t)
	svc, usersRepo := newAddressService(t, db)
	ctx := context.Background()

	user := seedAddressUser(t, db, "asha@example.com")
	other := seedAddressUser(t, db, "ravi@example.com")

	saved, err := svc.Save(ctx, SaveInput{UserID: user.ID, Address: sampleAddress()})
	require.NoError(t, err)

	err = svc.SetDefault(ctx, other.ID, saved.ID)
	requireAddressCode(t, err, pkgerrors.CodeNotFound)

	require.NoError(t, svc.SetDefault(ctx, user.ID, saved.ID))
	stored, err := usersRepo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.DefaultAddressID)
	assert.Equal(t, saved.ID, *stored.DefaultAddressID)
}

func requireAddressCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed, "expected typed error, got %v", err)
	assert.Equal(t, code, typed.Code())
}
