package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"jobboard/internal/common"
	"jobboard/internal/domain/user"
)

const userColumns = `id, name, email, password_hash, role, created_at, updated_at`

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, account user.User) (*user.User, error) {
	if account.ID.IsZero() {
		account.ID = common.NewUUID()
	}
	now := time.Now().UTC()
	account.CreatedAt = now
	account.UpdatedAt = now
	_, err := r.db.ExecContext(ctx, `INSERT INTO users (`+userColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		account.ID, account.Name, account.Email, account.PasswordHash, account.Role, account.CreatedAt, account.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, common.NewError(common.CodeConstraintViolation, "email already exists", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to create user", err)
	}
	return &account, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id common.UUID) (*user.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUserRow(row)
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1)`, email)
	return scanUserRow(row)
}

func (r *UserRepository) List(ctx context.Context, filter user.Filter, page user.Page) ([]user.Summary, int, error) {
	where := userPredicates(filter)
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users u`+where.where(), where.args...).Scan(&total); err != nil {
		return nil, 0, common.NewError(common.CodeInternal, "failed to count users", err)
	}
	limit, args := where.paged(page.Limit, page.Offset)
	query := `SELECT ` + qualify("u", userColumns) + `,
		(SELECT COUNT(*) FROM job_applications a WHERE a.user_id = u.id)
		FROM users u` + where.where() + ` ORDER BY u.created_at DESC, u.id DESC` + limit

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, common.NewError(common.CodeInternal, "failed to list users", err)
	}
	defer rows.Close()
	items := make([]user.Summary, 0)
	for rows.Next() {
		var item user.Summary
		if err := rows.Scan(append(userFields(&item.User), &item.ApplicationsCount)...); err != nil {
			return nil, 0, common.NewError(common.CodeInternal, "failed to scan user", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, common.NewError(common.CodeInternal, "failed to list users", err)
	}
	return items, total, nil
}

func userPredicates(filter user.Filter) predicates {
	var where predicates
	if filter.Role != "" {
		where.add("u.role = $%[1]d", filter.Role)
	}
	if filter.Search != "" {
		where.add("(u.name ILIKE $%[1]d OR u.email ILIKE $%[1]d)", containsPattern(filter.Search))
	}
	return where
}

func (r *UserRepository) CountByRole(ctx context.Context, role user.Role) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE role = $1`, role).Scan(&count); err != nil {
		return 0, common.NewError(common.CodeInternal, "failed to count users", err)
	}
	return count, nil
}

func userFields(u *user.User) []any {
	return []any{&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt, &u.UpdatedAt}
}

// applicantFields matches applicantColumns.
func applicantFields(u *user.User) []any {
	return []any{&u.ID, &u.Name, &u.Email, &u.Role, &u.CreatedAt, &u.UpdatedAt}
}

func scanUserRow(row *sql.Row) (*user.User, error) {
	var u user.User
	if err := row.Scan(userFields(&u)...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.NewError(common.CodeNotFound, "user not found", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to load user", err)
	}
	return &u, nil
}
