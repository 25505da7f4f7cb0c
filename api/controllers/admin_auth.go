package controllers

import (
	"net/http"

	"github.com/pukpuklouis/blackliving-backend/api/responses"
	"github.com/pukpuklouis/blackliving-backend/api/validators"
	authsvc "github.com/pukpuklouis/blackliving-backend/internal/auth"
	"github.com/pukpuklouis/blackliving-backend/pkg/logger"
)

// AdminLogin authenticates a dashboard user and returns a bearer token.
func AdminLogin(svc authsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload authsvc.LoginInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Login(r.Context(), payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
