package router

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Surzhikov161/Refferal-App/pkg/errorx"
	"github.com/Surzhikov161/Refferal-App/pkg/logger"
)

var (
	errNotSupportedMethod = errorx.New(errorx.BadRequest, "Not supported method")
	errBadRequest         = errorx.New(errorx.BadRequest, "Unable to bind the request")
)

type response struct {
	Code  errorx.Code `json:"code"`
	Error string      `json:"error,omitempty"`
	Data  any         `json:"data,omitempty"`
}

func writeResponse(w http.ResponseWriter, logger logger.Logger, data any) {
	writeJSON(w, logger, response{Code: 0, Data: data})
}

func writeError(w http.ResponseWriter, logger logger.Logger, err error) {
	var errx errorx.Error
	if !errors.As(err, &errx) {
		errx = errorx.Unknown
	}

	writeJSON(w, logger, response{Code: errx.Code, Error: errx.Message})
}

func writeJSON(w http.ResponseWriter, logger logger.Logger, resp response) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logger.Errorf("Cannot write the response: %v", err)
	}
}
