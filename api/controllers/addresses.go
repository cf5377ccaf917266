package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/schoolkart/storefront-backend/api/responses"
	"github.com/schoolkart/storefront-backend/api/validators"
	"github.com/schoolkart/storefront-backend/internal/address"
	pkgerrors "github.com/schoolkart/storefront-backend/pkg/errors"
	"github.com/schoolkart/storefront-backend/pkg/logger"
	"github.com/schoolkart/storefront-backend/pkg/types"
)

type saveAddressRequest struct {
	Address     types.ShippingAddress `json:"address" validate:"required"`
	MakeDefault bool                  `json:"make_default,omitempty"`
}

func AddressesList(svc address.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "address service unavailable"))
			return
		}
		userID, err := requireUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		book, err := svc.List(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, book)
	}
}

func AddressCreate(svc address.Service, logg *logger.Logger) http.HandlerFunc {
	return saveAddress(svc, logg, false)
}

func AddressUpdate(svc address.Service, logg *logger.Logger) http.HandlerFunc {
	return saveAddress(svc, logg, true)
}

func saveAddress(svc address.Service, logg *logger.Logger, withParam bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "address service unavailable"))
			return
		}
		userID, err := requireUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var addressID *uuid.UUID
		if withParam {
			id, err := validators.ParseUUIDParam(r, "addressId")
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			addressID = &id
		}

		var body saveAddressRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		saved, err := svc.Save(r.Context(), address.SaveInput{
			UserID:      userID,
			AddressID:   addressID,
			Address:     body.Address,
			MakeDefault: body.MakeDefault,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if withParam {
			responses.WriteSuccess(w, saved)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, saved)
	}
}

func AddressDelete(svc address.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "address service unavailable"))
			return
		}
		userID, err := requireUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		addressID, err := validators.ParseUUIDParam(r, "addressId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.Delete(r.Context(), userID, addressID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

func AddressSetDefault(svc address.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "address service unavailable"))
			return
		}
		userID, err := requireUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		addressID, err := validators.ParseUUIDParam(r, "addressId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.SetDefault(r.Context(), userID, addressID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "default_set"})
	}
}
