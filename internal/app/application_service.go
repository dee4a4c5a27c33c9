package app

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"jobboard/internal/common"
	"jobboard/internal/domain/application"
	"jobboard/internal/domain/jobposting"
	"jobboard/internal/domain/resume"
	"jobboard/internal/domain/user"
)

const (
	MaxCoverLetterLength = 5000
	MaxResumeSize        = 2 << 20

	defaultSeekerPageSize = 10
	defaultAdminPageSize  = 15
)

// ResumeTypes are the accepted resume file extensions.
var ResumeTypes = []string{"pdf", "doc", "docx"}

type ApplicationService struct {
	repo     application.Repository
	postings jobposting.Repository
	resumes  resume.Storage
	logger   Logger
}

func NewApplicationService(repo application.Repository, postings jobposting.Repository, resumes resume.Storage, logger Logger) *ApplicationService {
	return &ApplicationService{repo: repo, postings: postings, resumes: resumes, logger: loggerOrNop(logger)}
}

type SubmitInput struct {
	JobPostingID common.UUID
	CoverLetter  *string
	Resume       *resume.File
}

func (s *ApplicationService) Submit(ctx context.Context, actor user.User, input SubmitInput) (*application.Application, error) {
	if !actor.IsJobSeeker() {
		return nil, common.NewError(common.CodeForbidden, "only job seekers can apply", nil)
	}
	if input.JobPostingID.IsZero() {
		return nil, common.NewValidationError("invalid application", map[string]string{"job_posting_id": "Job posting is required."})
	}
	if _, err := s.postings.GetByID(ctx, input.JobPostingID); err != nil {
		return nil, err
	}
	if _, err := s.repo.FindByUserAndPosting(ctx, actor.ID, input.JobPostingID); err == nil {
		return nil, errAlreadyApplied()
	} else if !common.Is(err, common.CodeNotFound) {
		return nil, err
	}

	coverLetter := optionalString(input.CoverLetter)
	if coverLetter != nil && utf8.RuneCountInString(*coverLetter) > MaxCoverLetterLength {
		return nil, common.NewValidationError("invalid application", map[string]string{"cover_letter": "Cover letter cannot exceed 5000 characters."})
	}

	var resumePath *string
	if input.Resume != nil {
		path, err := s.storeResume(ctx, *input.Resume)
		if err != nil {
			return nil, err
		}
		resumePath = &path
	}

	created, err := s.repo.Create(ctx, application.Application{
		UserID:       actor.ID,
		JobPostingID: input.JobPostingID,
		CoverLetter:  coverLetter,
		ResumePath:   resumePath,
		Status:       application.StatusPending,
	})
	if err != nil {
		if common.Is(err, common.CodeConstraintViolation) {
			return nil, errAlreadyApplied()
		}
		return nil, err
	}
	s.logger.Info("application submitted", "application_id", created.ID.String(), "job_posting_id", created.JobPostingID.String(), "user_id", actor.ID.String())
	return created, nil
}

func (s *ApplicationService) storeResume(ctx context.Context, file resume.File) (string, error) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(file.Filename)), ".")
	if !isResumeType(ext) {
		return "", errInvalidResumeType()
	}
	if file.Size() == 0 {
		return "", common.NewFieldError(common.CodeInvalidAttachment, "resume", "Resume file is empty.")
	}
	if file.Size() > MaxResumeSize {
		return "", ErrResumeTooLarge()
	}
	if s.resumes == nil {
		return "", common.NewError(common.CodeInternal, "resume storage not configured", nil)
	}
	path, err := s.resumes.Store(ctx, file.Filename, file.Content, ResumeTypes, MaxResumeSize)
	if err != nil {
		switch {
		case errors.Is(err, resume.ErrTooLarge):
			return "", ErrResumeTooLarge()
		case errors.Is(err, resume.ErrInvalidType):
			return "", errInvalidResumeType()
		default:
			return "", common.NewError(common.CodeInternal, "failed to store resume", err)
		}
	}
	return path, nil
}

func (s *ApplicationService) SetStatus(ctx context.Context, actor user.User, applicationID common.UUID, status application.Status) (*application.Application, error) {
	if !actor.IsAdmin() {
		return nil, common.NewError(common.CodeForbidden, "only admins can update application status", nil)
	}
	if !status.Valid() {
		return nil, errInvalidStatus()
	}
	current, err := s.repo.GetByID(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if current.Status == status {
		return current, nil
	}
	updated, err := s.repo.UpdateStatus(ctx, applicationID, status)
	if err != nil {
		return nil, err
	}
	s.logger.Info("application status changed", "application_id", updated.ID.String(), "from", string(current.Status), "to", string(status), "admin_id", actor.ID.String())
	return updated, nil
}

// View returns the application with its posting and applicant attached.
func (s *ApplicationService) View(ctx context.Context, actor user.User, applicationID common.UUID) (*application.Detail, error) {
	item, err := s.repo.GetDetail(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if !canAccess(actor, item.Application) {
		return nil, common.NewError(common.CodeForbidden, "application belongs to another user", nil)
	}
	return item, nil
}

func (s *ApplicationService) Remove(ctx context.Context, actor user.User, applicationID common.UUID) error {
	item, err := s.repo.GetByID(ctx, applicationID)
	if err != nil {
		return err
	}
	if !canAccess(actor, *item) {
		return common.NewError(common.CodeForbidden, "application belongs to another user", nil)
	}
	if err := s.repo.Delete(ctx, applicationID); err != nil {
		return err
	}
	s.logger.Info("application removed", "application_id", applicationID.String(), "actor_id", actor.ID.String())
	return nil
}

func (s *ApplicationService) ListForUser(ctx context.Context, account user.User, limit, offset int) (Page[application.Detail], error) {
	limit, offset = clampPage(limit, offset, defaultSeekerPageSize)
	items, total, err := s.repo.List(ctx, application.Filter{UserID: account.ID}, application.Page{Limit: limit, Offset: offset})
	if err != nil {
		return Page[application.Detail]{}, err
	}
	return newPage(items, total, limit, offset), nil
}

type ListFilter struct {
	Status       application.Status
	JobPostingID common.UUID
}

func (s *ApplicationService) ListAll(ctx context.Context, actor user.User, filter ListFilter, limit, offset int) (Page[application.Detail], error) {
	if !actor.IsAdmin() {
		return Page[application.Detail]{}, common.NewError(common.CodeForbidden, "only admins can list all applications", nil)
	}
	if filter.Status != "" && !filter.Status.Valid() {
		return Page[application.Detail]{}, errInvalidStatus()
	}
	limit, offset = clampPage(limit, offset, defaultAdminPageSize)
	items, total, err := s.repo.List(ctx, application.Filter{Status: filter.Status, JobPostingID: filter.JobPostingID}, application.Page{Limit: limit, Offset: offset})
	if err != nil {
		return Page[application.Detail]{}, err
	}
	return newPage(items, total, limit, offset), nil
}

// HasApplied reports whether a job seeker already applied to the posting.
// It is always false for other roles.
func (s *ApplicationService) HasApplied(ctx context.Context, account user.User, jobPostingID common.UUID) (bool, error) {
	if !account.IsJobSeeker() {
		return false, nil
	}
	if _, err := s.repo.FindByUserAndPosting(ctx, account.ID, jobPostingID); err != nil {
		if common.Is(err, common.CodeNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s *ApplicationService) AppliedPostingIDs(ctx context.Context, account user.User) ([]common.UUID, error) {
	if !account.IsJobSeeker() {
		return []common.UUID{}, nil
	}
	return s.repo.ListPostingIDsByUser(ctx, account.ID)
}

func canAccess(actor user.User, item application.Application) bool {
	return actor.IsAdmin() || (!actor.ID.IsZero() && item.OwnedBy(actor.ID))
}

func isResumeType(ext string) bool {
	for _, allowed := range ResumeTypes {
		if ext == allowed {
			return true
		}
	}
	return false
}

func errAlreadyApplied() error {
	return common.NewFieldError(common.CodeDuplicateApplication, "job_posting_id", "You have already applied for this job.")
}

// ErrResumeTooLarge is reported for resumes over MaxResumeSize, including
// uploads cut off by the request body limit.
func ErrResumeTooLarge() error {
	return common.NewFieldError(common.CodeInvalidAttachment, "resume", "Resume file size cannot exceed 2MB.")
}

func errInvalidResumeType() error {
	return common.NewFieldError(common.CodeInvalidAttachment, "resume", "Resume must be a PDF, DOC, or DOCX file.")
}

func errInvalidStatus() error {
	return common.NewFieldError(common.CodeInvalidStatus, "status", "status must be pending, reviewed, accepted, or rejected")
}
