package application

import (
	"time"

	"jobboard/internal/common"
	"jobboard/internal/domain/jobposting"
	"jobboard/internal/domain/user"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusReviewed Status = "reviewed"
	StatusAccepted Status = "accepted"
	StatusRejected Status = "rejected"
)

// Statuses lists every status in display order.
var Statuses = []Status{StatusPending, StatusReviewed, StatusAccepted, StatusRejected}

type Application struct {
	ID           common.UUID `json:"id"`
	UserID       common.UUID `json:"user_id"`
	JobPostingID common.UUID `json:"job_posting_id"`
	CoverLetter  *string     `json:"cover_letter,omitempty"`
	ResumePath   *string     `json:"resume_path,omitempty"`
	Status       Status      `json:"status"`
	AppliedAt    time.Time   `json:"applied_at"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

func (a Application) OwnedBy(userID common.UUID) bool {
	return a.UserID == userID
}

// Detail is an application loaded together with the posting it targets and
// the user who submitted it.
type Detail struct {
	Application
	JobPosting *jobposting.JobPosting `json:"job_posting,omitempty"`
	Applicant  *user.User             `json:"user,omitempty"`
}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusReviewed, StatusAccepted, StatusRejected:
		return true
	default:
		return false
	}
}
