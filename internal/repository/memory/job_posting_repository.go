package memory

import (
	"context"
	"sort"
	"strings"

	"jobboard/internal/common"
	"jobboard/internal/domain/jobposting"
)

type JobPostingRepository struct {
	store *Store
}

func (r *JobPostingRepository) Create(ctx context.Context, posting jobposting.JobPosting) (*jobposting.JobPosting, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.stamp()
	posting.ID = common.NewUUID()
	posting.CreatedAt = now
	posting.UpdatedAt = now
	s.postings[posting.ID] = clonePosting(posting)
	return ptrPosting(posting), nil
}

func (r *JobPostingRepository) Update(ctx context.Context, posting jobposting.JobPosting) (*jobposting.JobPosting, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.postings[posting.ID]
	if !ok {
		return nil, common.NewError(common.CodeNotFound, "job posting not found", nil)
	}
	posting.CreatedAt = current.CreatedAt
	posting.UpdatedAt = s.stamp()
	s.postings[posting.ID] = clonePosting(posting)
	return ptrPosting(posting), nil
}

// Delete removes the posting and cascades to its applications.
func (r *JobPostingRepository) Delete(ctx context.Context, id common.UUID) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.postings[id]; !ok {
		return common.NewError(common.CodeNotFound, "job posting not found", nil)
	}
	delete(s.postings, id)
	for appID, app := range s.applications {
		if app.JobPostingID == id {
			delete(s.applications, appID)
		}
	}
	return nil
}

func (r *JobPostingRepository) GetByID(ctx context.Context, id common.UUID) (*jobposting.JobPosting, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	posting, ok := s.postings[id]
	if !ok {
		return nil, common.NewError(common.CodeNotFound, "job posting not found", nil)
	}
	return ptrPosting(posting), nil
}

func (r *JobPostingRepository) List(ctx context.Context, page jobposting.Page) ([]jobposting.WithCount, int, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	counts := make(map[common.UUID]int)
	for _, app := range s.applications {
		counts[app.JobPostingID]++
	}
	items := make([]jobposting.JobPosting, 0, len(s.postings))
	for _, posting := range s.postings {
		items = append(items, clonePosting(posting))
	}
	sortNewestFirst(items)
	total := len(items)
	items = paginate(items, page.Limit, page.Offset)
	result := make([]jobposting.WithCount, 0, len(items))
	for _, posting := range items {
		result = append(result, jobposting.WithCount{JobPosting: posting, ApplicationsCount: counts[posting.ID]})
	}
	return result, total, nil
}

func (r *JobPostingRepository) ListActive(ctx context.Context, filter jobposting.BrowseFilter, page jobposting.Page) ([]jobposting.JobPosting, int, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]jobposting.JobPosting, 0)
	for _, posting := range s.postings {
		if posting.Status != jobposting.StatusActive {
			continue
		}
		if !matchesBrowse(posting, filter) {
			continue
		}
		items = append(items, clonePosting(posting))
	}
	sortNewestFirst(items)
	return paginate(items, page.Limit, page.Offset), len(items), nil
}

func (r *JobPostingRepository) Count(ctx context.Context, status jobposting.Status) (int, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	if status == "" {
		return len(s.postings), nil
	}
	count := 0
	for _, posting := range s.postings {
		if posting.Status == status {
			count++
		}
	}
	return count, nil
}

func (r *JobPostingRepository) CountActiveCompanies(ctx context.Context) (int, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	companies := make(map[string]struct{})
	for _, posting := range s.postings {
		if posting.Status == jobposting.StatusActive {
			companies[posting.Company] = struct{}{}
		}
	}
	return len(companies), nil
}

func matchesBrowse(posting jobposting.JobPosting, filter jobposting.BrowseFilter) bool {
	if filter.Search != "" {
		needle := strings.ToLower(filter.Search)
		if !containsFold(posting.Title, needle) && !containsFold(posting.Company, needle) && !containsFold(posting.Location, needle) && !containsFold(posting.Description, needle) {
			return false
		}
	}
	if filter.Location != "" && !containsFold(posting.Location, strings.ToLower(filter.Location)) {
		return false
	}
	if filter.EmploymentType != "" && posting.EmploymentType != filter.EmploymentType {
		return false
	}
	return true
}

func containsFold(value, lowerNeedle string) bool {
	return strings.Contains(strings.ToLower(value), lowerNeedle)
}

func sortNewestFirst(items []jobposting.JobPosting) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].ID > items[j].ID
		}
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
}

func clonePosting(posting jobposting.JobPosting) jobposting.JobPosting {
	posting.SalaryRange = cloneString(posting.SalaryRange)
	posting.Requirements = cloneString(posting.Requirements)
	return posting
}

func ptrPosting(posting jobposting.JobPosting) *jobposting.JobPosting {
	cloned := clonePosting(posting)
	return &cloned
}
