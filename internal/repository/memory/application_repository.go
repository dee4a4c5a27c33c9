package memory

import (
	"context"
	"sort"

	"jobboard/internal/common"
	"jobboard/internal/domain/application"
)

type ApplicationRepository struct {
	store *Store
}

func (r *ApplicationRepository) Create(ctx context.Context, app application.Application) (*application.Application, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[app.UserID]; !ok {
		return nil, common.NewError(common.CodeNotFound, "user not found", nil)
	}
	if _, ok := s.postings[app.JobPostingID]; !ok {
		return nil, common.NewError(common.CodeNotFound, "job posting not found", nil)
	}
	for _, existing := range s.applications {
		if existing.UserID == app.UserID && existing.JobPostingID == app.JobPostingID {
			return nil, common.NewError(common.CodeConstraintViolation, "application already exists for user and job posting", nil)
		}
	}
	now := s.stamp()
	app.ID = common.NewUUID()
	if app.Status == "" {
		app.Status = application.StatusPending
	}
	if app.AppliedAt.IsZero() {
		app.AppliedAt = now
	}
	app.CreatedAt = now
	app.UpdatedAt = now
	s.applications[app.ID] = cloneApplication(app)
	return ptrApplication(app), nil
}

func (r *ApplicationRepository) GetByID(ctx context.Context, id common.UUID) (*application.Application, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	app, ok := s.applications[id]
	if !ok {
		return nil, common.NewError(common.CodeNotFound, "application not found", nil)
	}
	return ptrApplication(app), nil
}

func (r *ApplicationRepository) GetDetail(ctx context.Context, id common.UUID) (*application.Detail, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	app, ok := s.applications[id]
	if !ok {
		return nil, common.NewError(common.CodeNotFound, "application not found", nil)
	}
	detail := s.detail(app)
	return &detail, nil
}

func (r *ApplicationRepository) FindByUserAndPosting(ctx context.Context, userID, jobPostingID common.UUID) (*application.Application, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, app := range s.applications {
		if app.UserID == userID && app.JobPostingID == jobPostingID {
			return ptrApplication(app), nil
		}
	}
	return nil, common.NewError(common.CodeNotFound, "application not found", nil)
}

func (r *ApplicationRepository) UpdateStatus(ctx context.Context, id common.UUID, status application.Status) (*application.Application, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	app, ok := s.applications[id]
	if !ok {
		return nil, common.NewError(common.CodeNotFound, "application not found", nil)
	}
	app.Status = status
	app.UpdatedAt = s.stamp()
	s.applications[id] = app
	return ptrApplication(app), nil
}

func (r *ApplicationRepository) Delete(ctx context.Context, id common.UUID) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.applications[id]; !ok {
		return common.NewError(common.CodeNotFound, "application not found", nil)
	}
	delete(s.applications, id)
	return nil
}

func (r *ApplicationRepository) List(ctx context.Context, filter application.Filter, page application.Page) ([]application.Detail, int, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]application.Application, 0)
	for _, app := range s.applications {
		if !filter.UserID.IsZero() && app.UserID != filter.UserID {
			continue
		}
		if !filter.JobPostingID.IsZero() && app.JobPostingID != filter.JobPostingID {
			continue
		}
		if filter.Status != "" && app.Status != filter.Status {
			continue
		}
		items = append(items, cloneApplication(app))
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].AppliedAt.Equal(items[j].AppliedAt) {
			return items[i].ID > items[j].ID
		}
		return items[i].AppliedAt.After(items[j].AppliedAt)
	})
	total := len(items)
	items = paginate(items, page.Limit, page.Offset)
	details := make([]application.Detail, 0, len(items))
	for _, app := range items {
		details = append(details, s.detail(app))
	}
	return details, total, nil
}

func (r *ApplicationRepository) ListPostingIDsByUser(ctx context.Context, userID common.UUID) ([]common.UUID, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]common.UUID, 0)
	for _, app := range s.applications {
		if app.UserID == userID {
			ids = append(ids, app.JobPostingID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (r *ApplicationRepository) CountByStatus(ctx context.Context) (map[application.Status]int, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	counts := make(map[application.Status]int)
	for _, app := range s.applications {
		counts[app.Status]++
	}
	return counts, nil
}

// detail joins app with its posting and applicant. Callers hold s.mu.
func (s *Store) detail(app application.Application) application.Detail {
	detail := application.Detail{Application: cloneApplication(app)}
	if posting, ok := s.postings[app.JobPostingID]; ok {
		detail.JobPosting = ptrPosting(posting)
	}
	if account, ok := s.users[app.UserID]; ok {
		detail.Applicant = &account
	}
	return detail
}

func cloneApplication(app application.Application) application.Application {
	app.CoverLetter = cloneString(app.CoverLetter)
	app.ResumePath = cloneString(app.ResumePath)
	return app
}

func ptrApplication(app application.Application) *application.Application {
	cloned := cloneApplication(app)
	return &cloned
}
