package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"jobboard/internal/common"
	"jobboard/internal/domain/user"
	"jobboard/internal/security"
)

type fakeUsers struct {
	users map[common.UUID]user.User
}

func (f *fakeUsers) Get(_ context.Context, id common.UUID) (*user.User, error) {
	account, ok := f.users[id]
	if !ok {
		return nil, common.NewError(common.CodeNotFound, "user not found", nil)
	}
	return &account, nil
}

func TestAuthenticateLoadsUser(t *testing.T) {
	jwt := security.NewJWTProvider("secret")
	seeker := user.User{ID: common.NewUUID(), Name: "Jane", Role: user.RoleJobSeeker}
	auth := NewAuthMiddleware(jwt, &fakeUsers{users: map[common.UUID]user.User{seeker.ID: seeker}})
	token, _, err := jwt.Generate(seeker.ID, user.RoleAdmin, time.Minute)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	var got user.User
	handler := auth.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = UserFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))
	req := httptest.NewRequest(http.MethodGet, "/applications", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got.ID != seeker.ID || got.Role != user.RoleJobSeeker {
		t.Fatalf("expected stored role to win, got %+v", got)
	}
}

func TestAuthenticateRejects(t *testing.T) {
	jwt := security.NewJWTProvider("secret")
	auth := NewAuthMiddleware(jwt, &fakeUsers{users: map[common.UUID]user.User{}})
	unknown, _, _ := jwt.Generate(common.NewUUID(), user.RoleAdmin, time.Minute)

	cases := map[string]string{
		"missing":      "",
		"wrong scheme": "Basic abc",
		"bad token":    "Bearer nope",
		"unknown user": "Bearer " + unknown,
	}
	for name, header := range cases {
		req := httptest.NewRequest(http.MethodGet, "/applications", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		auth.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatalf("%s: handler should not run", name)
		})).ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s: expected 401, got %d", name, rec.Code)
		}
	}
}

func TestRequireRole(t *testing.T) {
	handler := RequireRole(user.RoleAdmin)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil)
	req = req.WithContext(WithUser(req.Context(), user.User{ID: common.NewUUID(), Role: user.RoleJobSeeker}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil)
	req = req.WithContext(WithUser(req.Context(), user.User{ID: common.NewUUID(), Role: user.RoleAdmin}))
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
