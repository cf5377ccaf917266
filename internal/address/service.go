package address

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/schoolkart/storefront-backend/internal/users"
	"github.com/schoolkart/storefront-backend/pkg/db/models"
	pkgerrors "github.com/schoolkart/storefront-backend/pkg/errors"
	"github.com/schoolkart/storefront-backend/pkg/types"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// AddressBook is a user's saved addresses plus which one is the default.
type AddressBook struct {
	Addresses        []models.Address `json:"addresses"`
	DefaultAddressID *uuid.UUID       `json:"default_address_id,omitempty"`
}

// Service manages a user's saved shipping addresses.
type Service interface {
	Save(ctx context.Context, input SaveInput) (*models.Address, error)
	List(ctx context.Context, userID uuid.UUID) (*AddressBook, error)
	Delete(ctx context.Context, userID, addressID uuid.UUID) error
	SetDefault(ctx context.Context, userID, addressID uuid.UUID) error
}

type service struct {
	repo  Repository
	users users.Repository
	tx    txRunner
}

// NewService builds the address service with its dependencies.
func NewService(repo Repository, usersRepo users.Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("address repository required")
	}
	if usersRepo == nil {
		return nil, fmt.Errorf("users repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, users: usersRepo, tx: tx}, nil
}

func (s *service) Save(ctx context.Context, input SaveInput) (*models.Address, error) {
	if input.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	if field, ok := input.Address.Validate(); !ok {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("address missing %s", field))
	}

	var saved *models.Address
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		usersRepo := s.users.WithTx(tx)

		addr := addressFromInput(input.Address)
		addr.UserID = input.UserID

		if input.AddressID != nil {
			existing, err := repo.FindByID(ctx, input.UserID, *input.AddressID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return pkgerrors.New(pkgerrors.CodeNotFound, "address not found")
				}
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load address")
			}
			addr.ID = existing.ID
			if err := repo.Update(ctx, addr); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update address")
			}
		} else {
			if _, err := repo.Create(ctx, addr); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create address")
			}
		}

		if input.MakeDefault {
			if err := usersRepo.UpdateDefaultAddress(ctx, input.UserID, &addr.ID); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "set default address")
			}
		}
		saved = addr
		return nil
	})
	if err != nil {
		return nil, err
	}
	return saved, nil
}

func (s *service) List(ctx context.Context, userID uuid.UUID) (*AddressBook, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}

	rows, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list addresses")
	}

	book := &AddressBook{Addresses: rows}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
		}
		return book, nil
	}
	book.DefaultAddressID = user.DefaultAddressID
	return book, nil
}

func (s *service) Delete(ctx context.Context, userID, addressID uuid.UUID) error {
	if userID == uuid.Nil || addressID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id and address id required")
	}

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		usersRepo := s.users.WithTx(tx)

		if _, err := repo.FindByID(ctx, userID, addressID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "address not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load address")
		}

		// The default pointer must not survive its address.
		user, err := usersRepo.FindByID(ctx, userID)
		if err == nil && user.DefaultAddressID != nil && *user.DefaultAddressID == addressID {
			if err := usersRepo.UpdateDefaultAddress(ctx, userID, nil); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear default address")
			}
		}

		if err := repo.Delete(ctx, userID, addressID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete address")
		}
		return nil
	})
}

func (s *service) SetDefault(ctx context.Context, userID, addressID uuid.UUID) error {
	if userID == uuid.Nil || addressID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id and address id required")
	}

	if _, err := s.repo.FindByID(ctx, userID, addressID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "address not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load address")
	}
	if err := s.users.UpdateDefaultAddress(ctx, userID, &addressID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "set default address")
	}
	return nil
}

func addressFromInput(in types.ShippingAddress) *models.Address {
	return &models.Address{
		Name:       in.Name,
		Line1:      in.Line1,
		Line2:      in.Line2,
		City:       in.City,
		State:      in.State,
		Country:    in.Country,
		PostalCode: in.PostalCode,
		Phone:      in.Phone,
		Email:      in.Email,
	}
}
