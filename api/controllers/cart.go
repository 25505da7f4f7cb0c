package controllers

import (
	"net/http"

	"github.com/pukpuklouis/blackliving-backend/api/responses"
	"github.com/pukpuklouis/blackliving-backend/api/validators"
	cartsvc "github.com/pukpuklouis/blackliving-backend/internal/cart"
	"github.com/pukpuklouis/blackliving-backend/pkg/logger"
)

func writeCartSnapshot(w http.ResponseWriter, snapshot *cartsvc.Snapshot) {
	w.Header().Set(validators.CartTokenHeader, snapshot.Token)
	responses.WriteSuccess(w, snapshot)
}

// GetCart returns the session cart with its derived totals.
func GetCart(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snapshot, err := svc.Get(r.Context(), validators.CartToken(r))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		writeCartSnapshot(w, snapshot)
	}
}

// AddCartItem adds a product (or variant) to the cart, merging quantities.
func AddCartItem(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload cartsvc.AddItemInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		snapshot, err := svc.AddItem(r.Context(), validators.CartToken(r), payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		writeCartSnapshot(w, snapshot)
	}
}

// UpdateCartItem sets the absolute quantity for a line item. Zero or less
// removes the line.
func UpdateCartItem(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload cartsvc.UpdateQuantityInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		snapshot, err := svc.UpdateQuantity(r.Context(), validators.CartToken(r), payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		writeCartSnapshot(w, snapshot)
	}
}

// RemoveCartItem drops a line item from the cart.
func RemoveCartItem(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload cartsvc.RemoveItemInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		snapshot, err := svc.RemoveItem(r.Context(), validators.CartToken(r), payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		writeCartSnapshot(w, snapshot)
	}
}

// SetCartCheckoutInfo stores the customer contact and shipping address on the
// session so shipping is priced before submission.
func SetCartCheckoutInfo(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload cartsvc.CheckoutInfoInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		snapshot, err := svc.SetCheckoutInfo(r.Context(), validators.CartToken(r), payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		writeCartSnapshot(w, snapshot)
	}
}

// ClearCart empties the cart's line items.
func ClearCart(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snapshot, err := svc.Clear(r.Context(), validators.CartToken(r))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		writeCartSnapshot(w, snapshot)
	}
}
