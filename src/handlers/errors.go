package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"fintrack-server/src/apperr"
	"fintrack-server/src/util"
)

const maxBodyBytes = 1 << 20

func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return json.NewDecoder(r.Body).Decode(v)
}

// writeServiceError maps the error taxonomy onto HTTP. Unexpected errors are
// logged with logger and answered with a generic message.
func writeServiceError(w http.ResponseWriter, err error, logger zerolog.Logger, msg string) {
	var verr *apperr.ValidationError
	switch {
	case errors.As(err, &verr):
		util.WriteFieldErrors(w, verr.Fields)
	case errors.Is(err, apperr.ErrUnauthenticated):
		util.WriteError(w, http.StatusUnauthorized, "unauthenticated")
	case errors.Is(err, apperr.ErrNotFound):
		util.WriteError(w, http.StatusNotFound, "transaction not found")
	case errors.Is(err, apperr.ErrConflict):
		util.WriteError(w, http.StatusConflict, "email or username already exists")
	default:
		logger.Error().Err(err).Msg(msg)
		util.WriteError(w, http.StatusInternalServerError, "internal error")
	}
}
