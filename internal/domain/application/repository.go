package application

import (
	"context"

	"jobboard/internal/common"
)

// Filter restricts a listing by equality. A zero field places no restriction.
type Filter struct {
	UserID       common.UUID
	JobPostingID common.UUID
	Status       Status
}

type Page struct {
	Limit  int
	Offset int
}

// Repository persists applications. Create must report a duplicate
// (user, job posting) pair as common.CodeConstraintViolation.
type Repository interface {
	Create(ctx context.Context, app Application) (*Application, error)
	GetByID(ctx context.Context, id common.UUID) (*Application, error)
	GetDetail(ctx context.Context, id common.UUID) (*Detail, error)
	FindByUserAndPosting(ctx context.Context, userID, jobPostingID common.UUID) (*Application, error)
	UpdateStatus(ctx context.Context, id common.UUID, status Status) (*Application, error)
	Delete(ctx context.Context, id common.UUID) error
	// List returns one page of matches, newest first, and the number of
	// applications matching filter.
	List(ctx context.Context, filter Filter, page Page) ([]Detail, int, error)
	ListPostingIDsByUser(ctx context.Context, userID common.UUID) ([]common.UUID, error)
	CountByStatus(ctx context.Context) (map[Status]int, error)
}
