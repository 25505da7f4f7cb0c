package controllers

import (
	"net/http"

	"github.com/pukpuklouis/blackliving-backend/api/responses"
	"github.com/pukpuklouis/blackliving-backend/api/validators"
	paymentsvc "github.com/pukpuklouis/blackliving-backend/internal/payment"
	pkgerrors "github.com/pukpuklouis/blackliving-backend/pkg/errors"
	"github.com/pukpuklouis/blackliving-backend/pkg/logger"
)

type initiatePaymentRequest struct {
	OrderNo string `json:"orderNumber" validate:"required"`
}

// InitiatePayment restarts the gateway flow for an existing order, typically
// after a failed initiation.
func InitiatePayment(svc paymentsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload initiatePaymentRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		descriptor, err := svc.Initiate(r.Context(), payload.OrderNo)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, descriptor)
	}
}

// PaymentCallback receives the gateway's form-encoded notification, verifies
// its checksum, and settles the order. The gateway expects a bare "0000"
// acknowledgement body.
func PaymentCallback(svc paymentsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid callback form"))
			return
		}

		result, err := svc.HandleCallback(r.Context(), r.PostForm)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if logg != nil {
			ctx := logg.WithOrderNo(r.Context(), result.OrderNo)
			logg.Info(ctx, "payment callback acknowledged")
		}

		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("0000"))
	}
}
