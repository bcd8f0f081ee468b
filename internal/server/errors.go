package server

import (
	"encoding/json"
	"net/http"

	clamperr "github.com/jmorra/clampgen/pkg/errors"
)

// errorResponse is the JSON body for error replies.
type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// statusForCode maps structured error codes to HTTP status codes.
func statusForCode(code clamperr.Code) int {
	switch code {
	case clamperr.ErrCodeInvalidConfig,
		clamperr.ErrCodeInvalidLayer,
		clamperr.ErrCodeInvalidCell,
		clamperr.ErrCodeInvalidFormat:
		return http.StatusBadRequest
	case clamperr.ErrCodeCellNotFound,
		clamperr.ErrCodeLayerNotFound,
		clamperr.ErrCodePlanNotFound:
		return http.StatusNotFound
	case clamperr.ErrCodeRoutingInfeasible:
		return http.StatusUnprocessableEntity
	case clamperr.ErrCodeUnsupported:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

// writeError replies with the structured code and user message of err.
func writeError(w http.ResponseWriter, err error) {
	code := clamperr.GetCode(err)
	if code == "" {
		code = clamperr.ErrCodeInternal
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusForCode(code))
	_ = json.NewEncoder(w).Encode(errorResponse{
		Code:    string(code),
		Message: clamperr.UserMessage(err),
	})
}
