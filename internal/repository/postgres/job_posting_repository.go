package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"jobboard/internal/common"
	"jobboard/internal/domain/jobposting"
)

const jobPostingColumns = `id, title, description, company, location, salary_range, employment_type, requirements, status, created_at, updated_at`

type JobPostingRepository struct {
	db *sql.DB
}

func NewJobPostingRepository(db *sql.DB) *JobPostingRepository {
	return &JobPostingRepository{db: db}
}

func (r *JobPostingRepository) Create(ctx context.Context, p jobposting.JobPosting) (*jobposting.JobPosting, error) {
	p.ID = common.NewUUID()
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	_, err := r.db.ExecContext(ctx, `INSERT INTO job_postings (`+jobPostingColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		p.ID, p.Title, p.Description, p.Company, p.Location, p.SalaryRange, p.EmploymentType, p.Requirements, p.Status, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to create job posting", err)
	}
	return &p, nil
}

func (r *JobPostingRepository) Update(ctx context.Context, p jobposting.JobPosting) (*jobposting.JobPosting, error) {
	row := r.db.QueryRowContext(ctx, `UPDATE job_postings SET title = $1, description = $2, company = $3, location = $4, salary_range = $5,
		employment_type = $6, requirements = $7, status = $8, updated_at = $9
		WHERE id = $10
		RETURNING `+jobPostingColumns,
		p.Title, p.Description, p.Company, p.Location, p.SalaryRange, p.EmploymentType, p.Requirements, p.Status, time.Now().UTC(), p.ID)
	return scanJobPostingRow(row)
}

// Delete relies on ON DELETE CASCADE to remove the posting's applications.
func (r *JobPostingRepository) Delete(ctx context.Context, id common.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM job_postings WHERE id = $1`, id)
	if err != nil {
		return common.NewError(common.CodeInternal, "failed to delete job posting", err)
	}
	return deleted(result, "job posting")
}

func (r *JobPostingRepository) GetByID(ctx context.Context, id common.UUID) (*jobposting.JobPosting, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+jobPostingColumns+` FROM job_postings WHERE id = $1`, id)
	return scanJobPostingRow(row)
}

func (r *JobPostingRepository) List(ctx context.Context, page jobposting.Page) ([]jobposting.WithCount, int, error) {
	total, err := r.Count(ctx, "")
	if err != nil {
		return nil, 0, err
	}
	rows, err := r.db.QueryContext(ctx, `SELECT `+qualify("p", jobPostingColumns)+`,
		(SELECT COUNT(*) FROM job_applications a WHERE a.job_posting_id = p.id)
		FROM job_postings p
		ORDER BY p.created_at DESC, p.id DESC
		LIMIT $1 OFFSET $2`, page.Limit, page.Offset)
	if err != nil {
		return nil, 0, common.NewError(common.CodeInternal, "failed to list job postings", err)
	}
	defer rows.Close()
	items := make([]jobposting.WithCount, 0)
	for rows.Next() {
		var item jobposting.WithCount
		if err := rows.Scan(append(jobPostingFields(&item.JobPosting), &item.ApplicationsCount)...); err != nil {
			return nil, 0, common.NewError(common.CodeInternal, "failed to scan job posting", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, common.NewError(common.CodeInternal, "failed to list job postings", err)
	}
	return items, total, nil
}

func (r *JobPostingRepository) ListActive(ctx context.Context, filter jobposting.BrowseFilter, page jobposting.Page) ([]jobposting.JobPosting, int, error) {
	where := activePostingPredicates(filter)
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM job_postings`+where.where(), where.args...).Scan(&total); err != nil {
		return nil, 0, common.NewError(common.CodeInternal, "failed to count job postings", err)
	}
	limit, args := where.paged(page.Limit, page.Offset)
	rows, err := r.db.QueryContext(ctx, `SELECT `+jobPostingColumns+` FROM job_postings`+where.where()+` ORDER BY created_at DESC, id DESC`+limit, args...)
	if err != nil {
		return nil, 0, common.NewError(common.CodeInternal, "failed to list job postings", err)
	}
	defer rows.Close()
	items := make([]jobposting.JobPosting, 0)
	for rows.Next() {
		p, err := scanJobPosting(rows)
		if err != nil {
			return nil, 0, common.NewError(common.CodeInternal, "failed to scan job posting", err)
		}
		items = append(items, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, common.NewError(common.CodeInternal, "failed to list job postings", err)
	}
	return items, total, nil
}

func activePostingPredicates(filter jobposting.BrowseFilter) predicates {
	var where predicates
	where.add("status = $%[1]d", jobposting.StatusActive)
	if filter.Search != "" {
		where.add("(title ILIKE $%[1]d OR company ILIKE $%[1]d OR location ILIKE $%[1]d OR description ILIKE $%[1]d)", containsPattern(filter.Search))
	}
	if filter.Location != "" {
		where.add("location ILIKE $%[1]d", containsPattern(filter.Location))
	}
	if filter.EmploymentType != "" {
		where.add("employment_type = $%[1]d", filter.EmploymentType)
	}
	return where
}

func (r *JobPostingRepository) Count(ctx context.Context, status jobposting.Status) (int, error) {
	var count int
	var err error
	if status == "" {
		err = r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM job_postings`).Scan(&count)
	} else {
		err = r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM job_postings WHERE status = $1`, status).Scan(&count)
	}
	if err != nil {
		return 0, common.NewError(common.CodeInternal, "failed to count job postings", err)
	}
	return count, nil
}

func (r *JobPostingRepository) CountActiveCompanies(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(DISTINCT company) FROM job_postings WHERE status = $1`, jobposting.StatusActive).Scan(&count); err != nil {
		return 0, common.NewError(common.CodeInternal, "failed to count companies", err)
	}
	return count, nil
}

func jobPostingFields(p *jobposting.JobPosting) []any {
	return []any{&p.ID, &p.Title, &p.Description, &p.Company, &p.Location, &p.SalaryRange, &p.EmploymentType, &p.Requirements, &p.Status, &p.CreatedAt, &p.UpdatedAt}
}

func scanJobPosting(row rowScanner) (*jobposting.JobPosting, error) {
	var p jobposting.JobPosting
	if err := row.Scan(jobPostingFields(&p)...); err != nil {
		return nil, err
	}
	return &p, nil
}

func scanJobPostingRow(row *sql.Row) (*jobposting.JobPosting, error) {
	p, err := scanJobPosting(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.NewError(common.CodeNotFound, "job posting not found", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to load job posting", err)
	}
	return p, nil
}
