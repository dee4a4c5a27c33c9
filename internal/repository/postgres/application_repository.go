package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"

	"jobboard/internal/common"
	"jobboard/internal/domain/application"
	"jobboard/internal/domain/jobposting"
	"jobboard/internal/domain/user"
)

const applicationColumns = `id, user_id, job_posting_id, cover_letter, resume_path, status, applied_at, created_at, updated_at`

// applicantColumns leaves out password_hash.
const applicantColumns = `id, name, email, role, created_at, updated_at`

var applicationDetailSelect = `SELECT ` + qualify("a", applicationColumns) + `, ` + qualify("p", jobPostingColumns) + `, ` + qualify("u", applicantColumns) + `
	FROM job_applications a
	JOIN job_postings p ON p.id = a.job_posting_id
	JOIN users u ON u.id = a.user_id`

type ApplicationRepository struct {
	db *sql.DB
}

func NewApplicationRepository(db *sql.DB) *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

func (r *ApplicationRepository) Create(ctx context.Context, app application.Application) (*application.Application, error) {
	app.ID = common.NewUUID()
	now := time.Now().UTC()
	if app.Status == "" {
		app.Status = application.StatusPending
	}
	if app.AppliedAt.IsZero() {
		app.AppliedAt = now
	}
	app.CreatedAt = now
	app.UpdatedAt = now
	_, err := r.db.ExecContext(ctx, `INSERT INTO job_applications (`+applicationColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		app.ID, app.UserID, app.JobPostingID, app.CoverLetter, app.ResumePath, app.Status, app.AppliedAt, app.CreatedAt, app.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, common.NewError(common.CodeConstraintViolation, "application already exists for user and job posting", err)
		}
		if isForeignKeyViolation(err) {
			return nil, common.NewError(common.CodeNotFound, "job posting or user not found", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to create application", err)
	}
	return &app, nil
}

func (r *ApplicationRepository) GetByID(ctx context.Context, id common.UUID) (*application.Application, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+applicationColumns+` FROM job_applications WHERE id = $1`, id)
	return scanApplicationRow(row)
}

func (r *ApplicationRepository) FindByUserAndPosting(ctx context.Context, userID, jobPostingID common.UUID) (*application.Application, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+applicationColumns+` FROM job_applications WHERE user_id = $1 AND job_posting_id = $2`, userID, jobPostingID)
	return scanApplicationRow(row)
}

func (r *ApplicationRepository) UpdateStatus(ctx context.Context, id common.UUID, status application.Status) (*application.Application, error) {
	row := r.db.QueryRowContext(ctx, `UPDATE job_applications SET status = $1, updated_at = $2 WHERE id = $3
		RETURNING `+applicationColumns, status, time.Now().UTC(), id)
	return scanApplicationRow(row)
}

func (r *ApplicationRepository) Delete(ctx context.Context, id common.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM job_applications WHERE id = $1`, id)
	if err != nil {
		return common.NewError(common.CodeInternal, "failed to delete application", err)
	}
	return deleted(result, "application")
}

func (r *ApplicationRepository) GetDetail(ctx context.Context, id common.UUID) (*application.Detail, error) {
	detail, err := scanDetail(r.db.QueryRowContext(ctx, applicationDetailSelect+` WHERE a.id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.NewError(common.CodeNotFound, "application not found", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to load application", err)
	}
	return detail, nil
}

func (r *ApplicationRepository) List(ctx context.Context, filter application.Filter, page application.Page) ([]application.Detail, int, error) {
	where := applicationPredicates(filter)
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM job_applications a`+where.where(), where.args...).Scan(&total); err != nil {
		return nil, 0, common.NewError(common.CodeInternal, "failed to count applications", err)
	}
	limit, args := where.paged(page.Limit, page.Offset)
	rows, err := r.db.QueryContext(ctx, applicationDetailSelect+where.where()+` ORDER BY a.applied_at DESC, a.id DESC`+limit, args...)
	if err != nil {
		return nil, 0, common.NewError(common.CodeInternal, "failed to list applications", err)
	}
	defer rows.Close()
	items := make([]application.Detail, 0)
	for rows.Next() {
		detail, err := scanDetail(rows)
		if err != nil {
			return nil, 0, common.NewError(common.CodeInternal, "failed to scan application", err)
		}
		items = append(items, *detail)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, common.NewError(common.CodeInternal, "failed to list applications", err)
	}
	return items, total, nil
}

func applicationPredicates(filter application.Filter) predicates {
	var where predicates
	if !filter.UserID.IsZero() {
		where.add("a.user_id = $%[1]d", filter.UserID)
	}
	if !filter.JobPostingID.IsZero() {
		where.add("a.job_posting_id = $%[1]d", filter.JobPostingID)
	}
	if filter.Status != "" {
		where.add("a.status = $%[1]d", filter.Status)
	}
	return where
}

func (r *ApplicationRepository) ListPostingIDsByUser(ctx context.Context, userID common.UUID) ([]common.UUID, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT job_posting_id FROM job_applications WHERE user_id = $1 ORDER BY job_posting_id`, userID)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list applied job postings", err)
	}
	defer rows.Close()
	ids := make([]common.UUID, 0)
	for rows.Next() {
		var id common.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, common.NewError(common.CodeInternal, "failed to scan job posting id", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list applied job postings", err)
	}
	return ids, nil
}

func (r *ApplicationRepository) CountByStatus(ctx context.Context) (map[application.Status]int, error) {
	known := make([]string, 0, len(application.Statuses))
	for _, status := range application.Statuses {
		known = append(known, string(status))
	}
	rows, err := r.db.QueryContext(ctx, `SELECT status, COUNT(*) FROM job_applications WHERE status = ANY($1) GROUP BY status`, pq.Array(known))
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to count applications", err)
	}
	defer rows.Close()
	counts := make(map[application.Status]int)
	for rows.Next() {
		var status application.Status
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, common.NewError(common.CodeInternal, "failed to scan application count", err)
		}
		counts[status] = count
	}
	if err := rows.Err(); err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to count applications", err)
	}
	return counts, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func applicationFields(app *application.Application) []any {
	return []any{&app.ID, &app.UserID, &app.JobPostingID, &app.CoverLetter, &app.ResumePath, &app.Status, &app.AppliedAt, &app.CreatedAt, &app.UpdatedAt}
}

func scanApplication(row rowScanner) (*application.Application, error) {
	var app application.Application
	if err := row.Scan(applicationFields(&app)...); err != nil {
		return nil, err
	}
	return &app, nil
}

// scanDetail reads a row selected by applicationDetailSelect.
func scanDetail(row rowScanner) (*application.Detail, error) {
	var detail application.Detail
	var posting jobposting.JobPosting
	var applicant user.User
	fields := applicationFields(&detail.Application)
	fields = append(fields, jobPostingFields(&posting)...)
	fields = append(fields, applicantFields(&applicant)...)
	if err := row.Scan(fields...); err != nil {
		return nil, err
	}
	detail.JobPosting = &posting
	detail.Applicant = &applicant
	return &detail, nil
}

func scanApplicationRow(row *sql.Row) (*application.Application, error) {
	app, err := scanApplication(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.NewError(common.CodeNotFound, "application not found", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to load application", err)
	}
	return app, nil
}
