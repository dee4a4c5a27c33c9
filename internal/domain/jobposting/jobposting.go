package jobposting

import (
	"time"

	"jobboard/internal/common"
)

type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

type EmploymentType string

const (
	EmploymentFullTime EmploymentType = "full-time"
	EmploymentPartTime EmploymentType = "part-time"
	EmploymentContract EmploymentType = "contract"
)

type JobPosting struct {
	ID             common.UUID    `json:"id"`
	Title          string         `json:"title"`
	Description    string         `json:"description"`
	Company        string         `json:"company"`
	Location       string         `json:"location"`
	SalaryRange    *string        `json:"salary_range,omitempty"`
	EmploymentType EmploymentType `json:"employment_type"`
	Requirements   *string        `json:"requirements,omitempty"`
	Status         Status         `json:"status"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// WithCount is a posting together with the number of applications it has received.
type WithCount struct {
	JobPosting
	ApplicationsCount int `json:"applications_count"`
}

func (s Status) Valid() bool {
	return s == StatusActive || s == StatusInactive
}

func (e EmploymentType) Valid() bool {
	switch e {
	case EmploymentFullTime, EmploymentPartTime, EmploymentContract:
		return true
	default:
		return false
	}
}
