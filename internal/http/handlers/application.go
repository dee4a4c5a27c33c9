package handlers

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"jobboard/internal/app"
	"jobboard/internal/common"
	"jobboard/internal/domain/application"
	"jobboard/internal/domain/resume"
	"jobboard/internal/http/metrics"
	"jobboard/internal/http/middleware"
	"jobboard/internal/http/response"
)

const multipartMemory = 4 << 20

type ApplicationHandler struct {
	applications *app.ApplicationService
	limiter      middleware.Limiter
	applyLimit   int
	metrics      *metrics.Collector
}

func NewApplicationHandler(applications *app.ApplicationService, limiter middleware.Limiter, applyLimit int, collector *metrics.Collector) *ApplicationHandler {
	return &ApplicationHandler{applications: applications, limiter: limiter, applyLimit: applyLimit, metrics: collector}
}

type submitRequest struct {
	JobPostingID string  `json:"job_posting_id"`
	CoverLetter  *string `json:"cover_letter"`
}

func (h *ApplicationHandler) Submit(w http.ResponseWriter, r *http.Request) {
	account, err := currentUser(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	if h.limiter != nil && h.applyLimit > 0 {
		if !h.limiter.Allow("apply:"+account.ID.String(), h.applyLimit, time.Minute) {
			if h.metrics != nil {
				h.metrics.IncRateLimited()
			}
			response.Error(w, common.NewError(common.CodeRateLimited, "apply rate limit exceeded", nil))
			return
		}
	}
	input, err := submitInputFromRequest(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	created, err := h.applications.Submit(r.Context(), account, input)
	if err != nil {
		response.Error(w, err)
		return
	}
	if h.metrics != nil {
		h.metrics.IncApplications()
	}
	response.JSON(w, http.StatusCreated, created)
}

func (h *ApplicationHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	account, err := currentUser(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	limit, offset := pageFromQuery(r)
	page, err := h.applications.ListForUser(r.Context(), account, limit, offset)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, page)
}

func (h *ApplicationHandler) Get(w http.ResponseWriter, r *http.Request) {
	account, err := currentUser(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	id, err := idFromPath(r, 1)
	if err != nil {
		response.Error(w, err)
		return
	}
	item, err := h.applications.View(r.Context(), account, id)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, item)
}

func (h *ApplicationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	account, err := currentUser(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	id, err := idFromPath(r, 1)
	if err != nil {
		response.Error(w, err)
		return
	}
	if err := h.applications.Remove(r.Context(), account, id); err != nil {
		response.Error(w, err)
		return
	}
	response.NoContent(w)
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

// UpdateStatus serves PATCH /admin/applications/{id}.
func (h *ApplicationHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
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
	var req updateStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	if strings.TrimSpace(req.Status) == "" {
		response.Error(w, common.NewValidationError("invalid request", map[string]string{"status": "The status field is required."}))
		return
	}
	updated, err := h.applications.SetStatus(r.Context(), account, id, application.Status(req.Status))
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, updated)
}

// ListAll serves GET /admin/applications.
func (h *ApplicationHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	account, err := currentUser(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	query := r.URL.Query()
	postingID, err := optionalUUID(query.Get("job_posting_id"), "job_posting_id")
	if err != nil {
		response.Error(w, err)
		return
	}
	filter := app.ListFilter{
		Status:       application.Status(query.Get("status")),
		JobPostingID: postingID,
	}
	limit, offset := pageFromQuery(r)
	page, err := h.applications.ListAll(r.Context(), account, filter, limit, offset)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, page)
}

func submitInputFromRequest(r *http.Request) (app.SubmitInput, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		return submitInputFromMultipart(r)
	}
	var req submitRequest
	if err := decodeJSON(r, &req); err != nil {
		return app.SubmitInput{}, err
	}
	postingID, err := requiredPostingID(req.JobPostingID)
	if err != nil {
		return app.SubmitInput{}, err
	}
	return app.SubmitInput{JobPostingID: postingID, CoverLetter: req.CoverLetter}, nil
}

func submitInputFromMultipart(r *http.Request) (app.SubmitInput, error) {
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return app.SubmitInput{}, app.ErrResumeTooLarge()
		}
		return app.SubmitInput{}, common.NewError(common.CodeValidation, "invalid multipart body", err)
	}
	postingID, err := requiredPostingID(r.FormValue("job_posting_id"))
	if err != nil {
		return app.SubmitInput{}, err
	}
	input := app.SubmitInput{JobPostingID: postingID}
	if values, ok := r.MultipartForm.Value["cover_letter"]; ok && len(values) > 0 {
		coverLetter := values[0]
		input.CoverLetter = &coverLetter
	}

	file, header, err := r.FormFile("resume")
	if errors.Is(err, http.ErrMissingFile) {
		return input, nil
	}
	if err != nil {
		return app.SubmitInput{}, common.NewFieldError(common.CodeInvalidAttachment, "resume", "The resume failed to upload.")
	}
	defer file.Close()
	// One byte past the limit is enough for the service to reject the file.
	content, err := io.ReadAll(io.LimitReader(file, app.MaxResumeSize+1))
	if err != nil {
		return app.SubmitInput{}, common.NewFieldError(common.CodeInvalidAttachment, "resume", "The resume failed to upload.")
	}
	input.Resume = &resume.File{Filename: header.Filename, Content: content}
	return input, nil
}

func requiredPostingID(value string) (common.UUID, error) {
	if strings.TrimSpace(value) == "" {
		return "", common.NewValidationError("invalid application", map[string]string{"job_posting_id": "Job posting is required."})
	}
	id, err := common.ParseUUID(value)
	if err != nil {
		return "", common.NewValidationError("invalid application", map[string]string{"job_posting_id": "The selected job posting is invalid."})
	}
	return id, nil
}
