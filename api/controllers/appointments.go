package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pukpuklouis/blackliving-backend/api/responses"
	"github.com/pukpuklouis/blackliving-backend/api/validators"
	apptsvc "github.com/pukpuklouis/blackliving-backend/internal/appointments"
	"github.com/pukpuklouis/blackliving-backend/pkg/enums"
	pkgerrors "github.com/pukpuklouis/blackliving-backend/pkg/errors"
	"github.com/pukpuklouis/blackliving-backend/pkg/logger"
	"github.com/pukpuklouis/blackliving-backend/pkg/pagination"
)

// CreateAppointment books a showroom trial from the storefront.
func CreateAppointment(svc apptsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload apptsvc.CreateInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		appt, err := svc.Create(r.Context(), payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, appt)
	}
}

// AdminListAppointments pages through bookings for the dashboard.
func AdminListAppointments(svc apptsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		params := pagination.Params{
			Limit:  limit,
			Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
		}
		status := strings.TrimSpace(r.URL.Query().Get("status"))

		views, next, err := svc.AdminList(r.Context(), params, status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{
			"appointments": views,
			"nextCursor":   next,
		})
	}
}

type updateAppointmentStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// AdminUpdateAppointmentStatus moves a booking through its state machine.
func AdminUpdateAppointmentStatus(svc apptsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid appointment id"))
			return
		}

		var payload updateAppointmentStatusRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		status, err := enums.ParseAppointmentStatus(strings.TrimSpace(payload.Status))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid appointment status"))
			return
		}

		appt, err := svc.UpdateStatus(r.Context(), id, status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, appt)
	}
}
