package app

import (
	"context"

	"jobboard/internal/domain/application"
	"jobboard/internal/domain/jobposting"
	"jobboard/internal/domain/user"
)

const recentApplications = 5

type DashboardService struct {
	postings     jobposting.Repository
	users        user.Repository
	applications application.Repository
}

func NewDashboardService(postings jobposting.Repository, users user.Repository, applications application.Repository) *DashboardService {
	return &DashboardService{postings: postings, users: users, applications: applications}
}

type DashboardStats struct {
	TotalJobs           int `json:"total_jobs"`
	ActiveJobs          int `json:"active_jobs"`
	TotalUsers          int `json:"total_users"`
	TotalApplications   int `json:"total_applications"`
	PendingApplications int `json:"pending_applications"`
}

type Dashboard struct {
	Stats              DashboardStats             `json:"stats"`
	RecentApplications []application.Detail       `json:"recent_applications"`
	ApplicationStats   map[application.Status]int `json:"application_stats"`
}

func (s *DashboardService) Get(ctx context.Context, actor user.User) (*Dashboard, error) {
	if !actor.IsAdmin() {
		return nil, errAdminOnly()
	}
	totalJobs, err := s.postings.Count(ctx, "")
	if err != nil {
		return nil, err
	}
	activeJobs, err := s.postings.Count(ctx, jobposting.StatusActive)
	if err != nil {
		return nil, err
	}
	seekers, err := s.users.CountByRole(ctx, user.RoleJobSeeker)
	if err != nil {
		return nil, err
	}
	byStatus, err := s.applications.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	recent, _, err := s.applications.List(ctx, application.Filter{}, application.Page{Limit: recentApplications})
	if err != nil {
		return nil, err
	}
	total := 0
	for _, count := range byStatus {
		total += count
	}
	return &Dashboard{
		Stats: DashboardStats{
			TotalJobs:           totalJobs,
			ActiveJobs:          activeJobs,
			TotalUsers:          seekers,
			TotalApplications:   total,
			PendingApplications: byStatus[application.StatusPending],
		},
		RecentApplications: recent,
		ApplicationStats:   byStatus,
	}, nil
}
