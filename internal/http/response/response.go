package response

import (
	"encoding/json"
	"errors"
	"net/http"

	"jobboard/internal/common"
)

type errorBody struct {
	Error errorPayload `json:"error"`
}

type errorPayload struct {
	Code    common.Code       `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func JSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// Error writes err as a JSON error body. Errors that are not *common.Error
// are reported as internal without leaking their text.
func Error(w http.ResponseWriter, err error) {
	var appErr *common.Error
	if !errors.As(err, &appErr) {
		JSON(w, http.StatusInternalServerError, errorBody{Error: errorPayload{
			Code:    common.CodeInternal,
			Message: "internal server error",
		}})
		return
	}
	message := appErr.Message
	if appErr.Code == common.CodeInternal {
		message = "internal server error"
	}
	JSON(w, StatusFor(appErr.Code), errorBody{Error: errorPayload{
		Code:    appErr.Code,
		Message: message,
		Fields:  appErr.Fields,
	}})
}

func StatusFor(code common.Code) int {
	switch code {
	case common.CodeValidation, common.CodeDuplicateApplication, common.CodeInvalidAttachment, common.CodeInvalidStatus:
		return http.StatusUnprocessableEntity
	case common.CodeNotFound:
		return http.StatusNotFound
	case common.CodeForbidden:
		return http.StatusForbidden
	case common.CodeUnauthorized:
		return http.StatusUnauthorized
	case common.CodeConflict, common.CodeConstraintViolation:
		return http.StatusConflict
	case common.CodeRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
