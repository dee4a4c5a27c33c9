package handlers

import (
	"net/http"
	"strings"

	"jobboard/internal/app"
	"jobboard/internal/domain/jobposting"
	"jobboard/internal/http/middleware"
	"jobboard/internal/http/response"
)

type JobHandler struct {
	postings     *app.JobPostingService
	applications *app.ApplicationService
}

func NewJobHandler(postings *app.JobPostingService, applications *app.ApplicationService) *JobHandler {
	return &JobHandler{postings: postings, applications: applications}
}

func (h *JobHandler) Browse(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := jobposting.BrowseFilter{
		Search:         strings.TrimSpace(query.Get("search")),
		Location:       strings.TrimSpace(query.Get("location")),
		EmploymentType: jobposting.EmploymentType(strings.TrimSpace(query.Get("employment_type"))),
	}
	limit, offset := pageFromQuery(r)
	page, err := h.postings.Browse(r.Context(), filter, limit, offset)
	if err != nil {
		response.Error(w, err)
		return
	}
	payload := browseResponse{Page: page}
	if account, ok := middleware.UserFromContext(r.Context()); ok {
		ids, err := h.applications.AppliedPostingIDs(r.Context(), account)
		if err != nil {
			response.Error(w, err)
			return
		}
		payload.AppliedJobIDs = make([]string, 0, len(ids))
		for _, id := range ids {
			payload.AppliedJobIDs = append(payload.AppliedJobIDs, id.String())
		}
	}
	response.JSON(w, http.StatusOK, payload)
}

type browseResponse struct {
	app.Page[jobposting.JobPosting]
	AppliedJobIDs []string `json:"applied_job_ids,omitempty"`
}

type showResponse struct {
	Job        *jobposting.JobPosting `json:"job"`
	HasApplied bool                   `json:"has_applied"`
}

func (h *JobHandler) Show(w http.ResponseWriter, r *http.Request) {
	id, err := idFromPath(r, 1)
	if err != nil {
		response.Error(w, err)
		return
	}
	posting, err := h.postings.Show(r.Context(), id)
	if err != nil {
		response.Error(w, err)
		return
	}
	payload := showResponse{Job: posting}
	if account, ok := middleware.UserFromContext(r.Context()); ok {
		applied, err := h.applications.HasApplied(r.Context(), account, id)
		if err != nil {
			response.Error(w, err)
			return
		}
		payload.HasApplied = applied
	}
	response.JSON(w, http.StatusOK, payload)
}

type homeResponse struct {
	Featured []jobposting.JobPosting `json:"featured_jobs"`
	Stats    *app.PublicStats        `json:"stats"`
}

func (h *JobHandler) Home(w http.ResponseWriter, r *http.Request) {
	featured, err := h.postings.Featured(r.Context())
	if err != nil {
		response.Error(w, err)
		return
	}
	stats, err := h.postings.PublicStats(r.Context())
	if err != nil {
		response.Error(w, err)
		return
	}
	if featured == nil {
		featured = []jobposting.JobPosting{}
	}
	response.JSON(w, http.StatusOK, homeResponse{Featured: featured, Stats: stats})
}
