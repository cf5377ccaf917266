package controllers

import (
	"net/http"

	"github.com/schoolkart/storefront-backend/api/responses"
	"github.com/schoolkart/storefront-backend/api/validators"
	"github.com/schoolkart/storefront-backend/internal/checkout"
	"github.com/schoolkart/storefront-backend/internal/users"
	pkgerrors "github.com/schoolkart/storefront-backend/pkg/errors"
	"github.com/schoolkart/storefront-backend/pkg/logger"
	"github.com/schoolkart/storefront-backend/pkg/types"
)

type checkoutRequest struct {
	Items           []checkout.GuestItem  `json:"items,omitempty" validate:"omitempty,dive"`
	ShippingAddress types.ShippingAddress `json:"shipping_address" validate:"required"`
}

// CheckoutCreate places an order from the caller's cart, or from the request
// items when the caller is a guest.
func CheckoutCreate(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		var body checkoutRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Checkout(r.Context(), checkout.Input{
			UserID:          optionalUserID(r),
			Items:           body.Items,
			ShippingAddress: body.ShippingAddress,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}

// OrderCancel cancels an order owned by the caller; admins and managers may
// cancel any order, with their email stamped on the audit row. The stored
// user row decides staff access, not the token claim.
func OrderCancel(svc checkout.Service, usersSvc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		orderID, err := validators.ParseUUIDParam(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := checkout.CancelInput{
			OrderID:     orderID,
			ActorUserID: optionalUserID(r),
		}
		if input.ActorUserID != nil && usersSvc != nil {
			actor, err := usersSvc.GetProfile(r.Context(), *input.ActorUserID)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			input.ActorEmail = actor.Email
			input.Privileged = isStaffRole(actor.Role)
		}

		if err := svc.CancelOrder(r.Context(), input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "cancelled"})
	}
}
