package handlers

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"jobboard/internal/http/response"
)

const (
	internalAuthHeader    = "Authorization"
	internalAuthAltHeader = "X-Internal-Key"
)

func requireInternalAuth(w http.ResponseWriter, r *http.Request, internalKey string) bool {
	key := strings.TrimSpace(internalKey)
	if key == "" {
		response.Error(w, errUnauthorized())
		return false
	}
	altValue := strings.TrimSpace(r.Header.Get(internalAuthAltHeader))
	value := strings.TrimSpace(r.Header.Get(internalAuthHeader))
	if secureEqual(altValue, key) || secureEqual(value, "Bearer "+key) {
		return true
	}
	response.Error(w, errUnauthorized())
	return false
}

func secureEqual(got, want string) bool {
	return subtle.ConstantTimeCompare([]byte(got), []byte(want)) == 1
}
