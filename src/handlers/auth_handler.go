package handlers

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"fintrack-server/src/apperr"
	"fintrack-server/src/models"
	"fintrack-server/src/service"
	"fintrack-server/src/util"
)

func Register(svc *service.AuthService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.RegisterRequest
		if err := decodeBody(w, r, &req); err != nil {
			log.Warn().Err(err).Msg("failed to decode register request body")
			util.WriteError(w, http.StatusBadRequest, "invalid request")
			return
		}

		user, token, err := svc.Register(r.Context(), req)
		if err != nil {
			writeServiceError(w, err, log.With().Str("username", req.Username).Logger(), "failed to register user")
			return
		}

		log.Info().Str("user_id", user.ID).Str("username", user.Username).Msg("successful registration")
		util.WriteJSON(w, http.StatusCreated, map[string]string{"token": token})
	}
}

func Login(svc *service.AuthService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.LoginRequest
		if err := decodeBody(w, r, &req); err != nil {
			log.Warn().Err(err).Msg("failed to decode login request body")
			util.WriteError(w, http.StatusBadRequest, "invalid request")
			return
		}

		user, token, err := svc.Login(r.Context(), req)
		if err != nil {
			if errors.Is(err, apperr.ErrUnauthenticated) {
				log.Warn().Str("username", req.UsernameOrEmail).Str("email", req.Email).Str("remote_addr", r.RemoteAddr).Msg("failed login attempt")
				util.WriteError(w, http.StatusUnauthorized, "invalid credentials")
				return
			}
			writeServiceError(w, err, log.Logger, "failed to log in")
			return
		}

		log.Info().Str("user_id", user.ID).Str("username", user.Username).Msg("successful login")
		util.WriteJSON(w, http.StatusOK, map[string]string{"token": token})
	}
}
