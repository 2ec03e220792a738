package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	contactsdomain "github.com/aradsms/contacts_services/internal/contacts_service/domain"
	coredomain "github.com/aradsms/contacts_services/internal/core_contacts/domain"
	datasharedomain "github.com/aradsms/contacts_services/internal/datashare_service/domain"
	pickerdomain "github.com/aradsms/contacts_services/internal/picker_service/domain"
)

// ErrorResponse is the body of every non-2xx answer.
type ErrorResponse struct {
	Error      string `json:"error"`
	Code       int    `json:"code,omitempty"`
	ResultCode *int   `json:"result_code,omitempty"`
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"failed to encode response"}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, ErrorResponse{Error: message})
}

func businessStatus(code int) int {
	switch code {
	case coredomain.CodeInvalidParameter:
		return http.StatusBadRequest
	case coredomain.CodeDeviceNotFound:
		return http.StatusNotFound
	case coredomain.CodeUserCancelled:
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

func isDatashareRequestError(err error) bool {
	return errors.Is(err, datasharedomain.ErrUnknownURI) || errors.Is(err, datasharedomain.ErrUnknownColumn) ||
		errors.Is(err, datasharedomain.ErrEmptyValues) || errors.Is(err, datasharedomain.ErrInvalidPredicate)
}

// writeError maps an application error onto a status code and an ErrorResponse.
func writeError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	var bizErr *coredomain.BusinessError
	var rcErr *pickerdomain.ResultCodeError
	switch {
	case errors.As(err, &bizErr):
		respondWithJSON(w, businessStatus(bizErr.Code), ErrorResponse{Error: bizErr.Message, Code: bizErr.Code})
	case errors.As(err, &rcErr):
		rc := rcErr.ResultCode
		respondWithJSON(w, http.StatusBadGateway, ErrorResponse{Error: rcErr.Error(), ResultCode: &rc})
	case errors.Is(err, contactsdomain.ErrNotFound):
		respondWithError(w, http.StatusNotFound, "contact not found")
	case isDatashareRequestError(err):
		respondWithError(w, http.StatusBadRequest, err.Error())
	default:
		logger.ErrorContext(r.Context(), "Unhandled application error", "path", r.URL.Path, "error", err)
		respondWithError(w, http.StatusInternalServerError, coredomain.MsgSystemError)
	}
}
