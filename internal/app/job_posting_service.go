package app

import (
	"context"
	"strings"

	"jobboard/internal/common"
	"jobboard/internal/domain/jobposting"
	"jobboard/internal/domain/user"
)

const (
	defaultBrowsePageSize = 12
	defaultAdminPostings  = 10
	featuredPostings      = 6
)

type JobPostingService struct {
	repo   jobposting.Repository
	logger Logger
}

func NewJobPostingService(repo jobposting.Repository, logger Logger) *JobPostingService {
	return &JobPostingService{repo: repo, logger: loggerOrNop(logger)}
}

type JobPostingInput struct {
	Title          string  `json:"title" validate:"required,max=255"`
	Description    string  `json:"description" validate:"required"`
	Company        string  `json:"company" validate:"required,max=255"`
	Location       string  `json:"location" validate:"required,max=255"`
	SalaryRange    *string `json:"salary_range" validate:"omitempty,max=255"`
	EmploymentType string  `json:"employment_type" validate:"required,oneof=full-time part-time contract"`
	Requirements   *string `json:"requirements"`
	Status         string  `json:"status" validate:"omitempty,oneof=active inactive"`
}

var jobPostingMessages = map[string]string{
	"title.required":           "Job title is required.",
	"description.required":     "Job description is required.",
	"company.required":         "Company name is required.",
	"location.required":        "Job location is required.",
	"employment_type.required": "Employment type is required.",
	"employment_type.oneof":    "Employment type must be full-time, part-time, or contract.",
}

func (in *JobPostingInput) normalize() {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.Company = strings.TrimSpace(in.Company)
	in.Location = strings.TrimSpace(in.Location)
	in.SalaryRange = optionalString(in.SalaryRange)
	in.Requirements = optionalString(in.Requirements)
}

func (s *JobPostingService) Create(ctx context.Context, actor user.User, input JobPostingInput) (*jobposting.JobPosting, error) {
	if !actor.IsAdmin() {
		return nil, errAdminOnly()
	}
	input.normalize()
	if err := validateInput(input, "invalid job posting", jobPostingMessages); err != nil {
		return nil, err
	}
	status := jobposting.Status(input.Status)
	if status == "" {
		status = jobposting.StatusActive
	}
	created, err := s.repo.Create(ctx, jobposting.JobPosting{
		Title:          input.Title,
		Description:    input.Description,
		Company:        input.Company,
		Location:       input.Location,
		SalaryRange:    input.SalaryRange,
		EmploymentType: jobposting.EmploymentType(input.EmploymentType),
		Requirements:   input.Requirements,
		Status:         status,
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("job posting created", "job_posting_id", created.ID.String(), "admin_id", actor.ID.String())
	return created, nil
}

func (s *JobPostingService) Update(ctx context.Context, actor user.User, id common.UUID, input JobPostingInput) (*jobposting.JobPosting, error) {
	if !actor.IsAdmin() {
		return nil, errAdminOnly()
	}
	input.normalize()
	if err := validateInput(input, "invalid job posting", jobPostingMessages); err != nil {
		return nil, err
	}
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	current.Title = input.Title
	current.Description = input.Description
	current.Company = input.Company
	current.Location = input.Location
	current.SalaryRange = input.SalaryRange
	current.EmploymentType = jobposting.EmploymentType(input.EmploymentType)
	current.Requirements = input.Requirements
	if input.Status != "" {
		current.Status = jobposting.Status(input.Status)
	}
	updated, err := s.repo.Update(ctx, *current)
	if err != nil {
		return nil, err
	}
	s.logger.Info("job posting updated", "job_posting_id", updated.ID.String(), "admin_id", actor.ID.String())
	return updated, nil
}

// Delete removes the posting together with all of its applications.
func (s *JobPostingService) Delete(ctx context.Context, actor user.User, id common.UUID) error {
	if !actor.IsAdmin() {
		return errAdminOnly()
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("job posting deleted", "job_posting_id", id.String(), "admin_id", actor.ID.String())
	return nil
}

func (s *JobPostingService) Get(ctx context.Context, actor user.User, id common.UUID) (*jobposting.JobPosting, error) {
	if !actor.IsAdmin() {
		return nil, errAdminOnly()
	}
	return s.repo.GetByID(ctx, id)
}

func (s *JobPostingService) ListAdmin(ctx context.Context, actor user.User, limit, offset int) (Page[jobposting.WithCount], error) {
	if !actor.IsAdmin() {
		return Page[jobposting.WithCount]{}, errAdminOnly()
	}
	limit, offset = clampPage(limit, offset, defaultAdminPostings)
	items, total, err := s.repo.List(ctx, jobposting.Page{Limit: limit, Offset: offset})
	if err != nil {
		return Page[jobposting.WithCount]{}, err
	}
	return newPage(items, total, limit, offset), nil
}

func (s *JobPostingService) Browse(ctx context.Context, filter jobposting.BrowseFilter, limit, offset int) (Page[jobposting.JobPosting], error) {
	filter.Search = strings.TrimSpace(filter.Search)
	filter.Location = strings.TrimSpace(filter.Location)
	filter.EmploymentType = jobposting.EmploymentType(strings.ToLower(strings.TrimSpace(string(filter.EmploymentType))))
	limit, offset = clampPage(limit, offset, defaultBrowsePageSize)
	items, total, err := s.repo.ListActive(ctx, filter, jobposting.Page{Limit: limit, Offset: offset})
	if err != nil {
		return Page[jobposting.JobPosting]{}, err
	}
	return newPage(items, total, limit, offset), nil
}

// Show returns an active posting. Inactive postings are reported as not found.
func (s *JobPostingService) Show(ctx context.Context, id common.UUID) (*jobposting.JobPosting, error) {
	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item.Status != jobposting.StatusActive {
		return nil, common.NewError(common.CodeNotFound, "job posting not found", nil)
	}
	return item, nil
}

func (s *JobPostingService) Featured(ctx context.Context) ([]jobposting.JobPosting, error) {
	items, _, err := s.repo.ListActive(ctx, jobposting.BrowseFilter{}, jobposting.Page{Limit: featuredPostings})
	return items, err
}

type PublicStats struct {
	TotalJobs      int `json:"total_jobs"`
	TotalCompanies int `json:"total_companies"`
}

func (s *JobPostingService) PublicStats(ctx context.Context) (*PublicStats, error) {
	jobs, err := s.repo.Count(ctx, jobposting.StatusActive)
	if err != nil {
		return nil, err
	}
	companies, err := s.repo.CountActiveCompanies(ctx)
	if err != nil {
		return nil, err
	}
	return &PublicStats{TotalJobs: jobs, TotalCompanies: companies}, nil
}

func optionalString(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func errAdminOnly() error {
	return common.NewError(common.CodeForbidden, "admin role required", nil)
}
