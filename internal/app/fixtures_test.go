package app

import (
	"context"
	"sync"
	"testing"

	"jobboard/internal/domain/jobposting"
	"jobboard/internal/domain/resume"
	"jobboard/internal/domain/user"
	"jobboard/internal/repository/memory"
)

type fakeResumeStorage struct {
	mu     sync.Mutex
	stored []string
	err    error
}

func (f *fakeResumeStorage) Store(_ context.Context, filename string, content []byte, _ []string, maxSize int64) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	if int64(len(content)) > maxSize {
		return "", resume.ErrTooLarge
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	path := "resumes/" + filename
	f.stored = append(f.stored, path)
	return path, nil
}

func (f *fakeResumeStorage) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.stored)
}

type fixture struct {
	store        *memory.Store
	resumes      *fakeResumeStorage
	applications *ApplicationService
	postings     *JobPostingService
	users        *UserService
	dashboard    *DashboardService
}

func newFixture() *fixture {
	store := memory.NewStore()
	resumes := &fakeResumeStorage{}
	return &fixture{
		store:        store,
		resumes:      resumes,
		applications: NewApplicationService(store.Applications(), store.JobPostings(), resumes, nil),
		postings:     NewJobPostingService(store.JobPostings(), nil),
		users:        NewUserService(store.Users(), nil),
		dashboard:    NewDashboardService(store.JobPostings(), store.Users(), store.Applications()),
	}
}

func (f *fixture) createUser(t *testing.T, name string, role user.Role) user.User {
	t.Helper()
	created, err := f.store.Users().Create(context.Background(), user.User{
		Name:  name,
		Email: name + "@example.com",
		Role:  role,
	})
	if err != nil {
		t.Fatalf("create user %s: %v", name, err)
	}
	return *created
}

func (f *fixture) createPosting(t *testing.T, title string, status jobposting.Status) jobposting.JobPosting {
	t.Helper()
	created, err := f.store.JobPostings().Create(context.Background(), jobposting.JobPosting{
		Title:          title,
		Description:    "Build and run services.",
		Company:        "Acme",
		Location:       "Remote",
		EmploymentType: jobposting.EmploymentFullTime,
		Status:         status,
	})
	if err != nil {
		t.Fatalf("create posting %s: %v", title, err)
	}
	return *created
}

func strPtr(value string) *string {
	return &value
}
