package jobposting

import (
	"context"

	"jobboard/internal/common"
)

// BrowseFilter narrows the public listing. Empty fields do not restrict.
type BrowseFilter struct {
	Search         string
	Location       string
	EmploymentType EmploymentType
}

type Page struct {
	Limit  int
	Offset int
}

type Repository interface {
	Create(ctx context.Context, posting JobPosting) (*JobPosting, error)
	Update(ctx context.Context, posting JobPosting) (*JobPosting, error)
	Delete(ctx context.Context, id common.UUID) error
	GetByID(ctx context.Context, id common.UUID) (*JobPosting, error)
	// List and ListActive also report the total number of matching postings.
	List(ctx context.Context, page Page) ([]WithCount, int, error)
	ListActive(ctx context.Context, filter BrowseFilter, page Page) ([]JobPosting, int, error)
	Count(ctx context.Context, status Status) (int, error)
	CountActiveCompanies(ctx context.Context) (int, error)
}
