package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"jobboard/internal/common"
	"jobboard/internal/domain/user"
	"jobboard/internal/http/middleware"
)

func decodeJSON(r *http.Request, dst any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			return common.NewError(common.CodeValidation, "request body too large", err)
		case errors.Is(err, io.EOF):
			return common.NewError(common.CodeValidation, "request body is empty", err)
		default:
			return common.NewError(common.CodeValidation, "invalid json body", err)
		}
	}
	return nil
}

// idFromPath parses the UUID found at segment index of the request path,
// counting from zero after the leading slash.
func idFromPath(r *http.Request, index int) (common.UUID, error) {
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if index >= len(parts) {
		return "", common.NewError(common.CodeNotFound, "resource not found", nil)
	}
	id, err := common.ParseUUID(parts[index])
	if err != nil {
		return "", common.NewError(common.CodeNotFound, "resource not found", err)
	}
	return id, nil
}

func pageFromQuery(r *http.Request) (int, int) {
	query := r.URL.Query()
	limit, _ := strconv.Atoi(query.Get("limit"))
	offset, _ := strconv.Atoi(query.Get("offset"))
	return limit, offset
}

func currentUser(r *http.Request) (user.User, error) {
	account, ok := middleware.UserFromContext(r.Context())
	if !ok {
		return user.User{}, errUnauthorized()
	}
	return account, nil
}

func optionalUUID(value, field string) (common.UUID, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", nil
	}
	id, err := common.ParseUUID(value)
	if err != nil {
		return "", common.NewValidationError("invalid request", map[string]string{field: "invalid uuid"})
	}
	return id, nil
}

func errUnauthorized() error {
	return common.NewError(common.CodeUnauthorized, "unauthorized", nil)
}
