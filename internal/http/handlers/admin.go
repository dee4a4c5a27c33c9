package handlers

import (
	"net/http"
	"strings"

	"jobboard/internal/app"
	"jobboard/internal/domain/user"
	"jobboard/internal/http/response"
)

type AdminHandler struct {
	postings  *app.JobPostingService
	users     *app.UserService
	dashboard *app.DashboardService
}

func NewAdminHandler(postings *app.JobPostingService, users *app.UserService, dashboard *app.DashboardService) *AdminHandler {
	return &AdminHandler{postings: postings, users: users, dashboard: dashboard}
}

func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	account, err := currentUser(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	dashboard, err := h.dashboard.Get(r.Context(), account)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, dashboard)
}

func (h *AdminHandler) ListPostings(w http.ResponseWriter, r *http.Request) {
	account, err := currentUser(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	limit, offset := pageFromQuery(r)
	page, err := h.postings.ListAdmin(r.Context(), account, limit, offset)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, page)
}

func (h *AdminHandler) CreatePosting(w http.ResponseWriter, r *http.Request) {
	account, err := currentUser(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	var input app.JobPostingInput
	if err := decodeJSON(r, &input); err != nil {
		response.Error(w, err)
		return
	}
	created, err := h.postings.Create(r.Context(), account, input)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, created)
}

func (h *AdminHandler) GetPosting(w http.ResponseWriter, r *http.Request) {
	account, err := currentUser(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	id, err := idFromPath(r, 2)
	if err != nil {
		response.Error(w, err)
		return
	}
	posting, err := h.postings.Get(r.Context(), account, id)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, posting)
}

func (h *AdminHandler) UpdatePosting(w http.ResponseWriter, r *http.Request) {
	account, err := currentUser(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	id, err := idFromPath(r, 2)
	if err != nil {
		response.Error(w, err)
		return
	}
	var input app.JobPostingInput
	if err := decodeJSON(r, &input); err != nil {
		response.Error(w, err)
		return
	}
	updated, err := h.postings.Update(r.Context(), account, id, input)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, updated)
}

func (h *AdminHandler) DeletePosting(w http.ResponseWriter, r *http.Request) {
	account, err := currentUser(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	id, err := idFromPath(r, 2)
	if err != nil {
		response.Error(w, err)
		return
	}
	if err := h.postings.Delete(r.Context(), account, id); err != nil {
		response.Error(w, err)
		return
	}
	response.NoContent(w)
}

func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	account, err := currentUser(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	query := r.URL.Query()
	filter := user.Filter{
		Role:   user.Role(strings.TrimSpace(query.Get("role"))),
		Search: strings.TrimSpace(query.Get("search")),
	}
	limit, offset := pageFromQuery(r)
	page, err := h.users.List(r.Context(), account, filter, limit, offset)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, page)
}

func (h *AdminHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	account, err := currentUser(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	var input app.CreateUserInput
	if err := decodeJSON(r, &input); err != nil {
		response.Error(w, err)
		return
	}
	created, err := h.users.Create(r.Context(), account, input)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, created)
}
