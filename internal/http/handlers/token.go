package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"jobboard/internal/common"
	"jobboard/internal/domain/user"
	"jobboard/internal/http/response"
	"jobboard/internal/security"
)

type userLookup interface {
	Get(ctx context.Context, id common.UUID) (*user.User, error)
}

// TokenHandler mints access tokens for existing users on behalf of the
// identity provider.
type TokenHandler struct {
	users       userLookup
	jwt         *security.JWTProvider
	ttl         time.Duration
	internalKey string
}

func NewTokenHandler(users userLookup, jwt *security.JWTProvider, ttl time.Duration, internalKey string) *TokenHandler {
	return &TokenHandler{users: users, jwt: jwt, ttl: ttl, internalKey: internalKey}
}

type issueTokenRequest struct {
	UserID string `json:"user_id"`
}

type issueTokenResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
	User        user.User `json:"user"`
}

func (h *TokenHandler) Issue(w http.ResponseWriter, r *http.Request) {
	if !requireInternalAuth(w, r, h.internalKey) {
		return
	}
	var req issueTokenRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	if strings.TrimSpace(req.UserID) == "" {
		response.Error(w, common.NewValidationError("invalid request", map[string]string{"user_id": "user_id is required"}))
		return
	}
	userID, err := common.ParseUUID(req.UserID)
	if err != nil {
		response.Error(w, common.NewValidationError("invalid request", map[string]string{"user_id": "invalid uuid"}))
		return
	}
	account, err := h.users.Get(r.Context(), userID)
	if err != nil {
		response.Error(w, err)
		return
	}
	token, expiresAt, err := h.jwt.Generate(account.ID, account.Role, h.ttl)
	if err != nil {
		response.Error(w, common.NewError(common.CodeInternal, "failed to issue token", err))
		return
	}
	response.JSON(w, http.StatusCreated, issueTokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresAt:   expiresAt,
		User:        *account,
	})
}
