package postgres

import (
	"database/sql"
	"fmt"
	"strings"

	"jobboard/internal/common"
)

// predicates collects AND-joined WHERE clauses and their positional arguments.
type predicates struct {
	clauses []string
	args    []any
}

// add binds value to the next placeholder. The clause names it as %[1]d
// and may reference it more than once.
func (p *predicates) add(clause string, value any) {
	p.args = append(p.args, value)
	p.clauses = append(p.clauses, fmt.Sprintf(clause, len(p.args)))
}

func (p *predicates) where() string {
	if len(p.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(p.clauses, " AND ")
}

// paged returns the LIMIT/OFFSET suffix together with the arguments it needs
// appended to the predicate arguments. p.args is left untouched so the same
// predicates can back a COUNT query.
func (p *predicates) paged(limit, offset int) (string, []any) {
	args := make([]any, 0, len(p.args)+2)
	args = append(args, p.args...)
	args = append(args, limit, offset)
	return fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args)), args
}

// qualify prefixes every column of a comma separated list with alias.
func qualify(alias, columns string) string {
	fields := strings.Split(columns, ", ")
	for i, field := range fields {
		fields[i] = alias + "." + field
	}
	return strings.Join(fields, ", ")
}

// deleted maps the result of a single-row DELETE to the domain errors.
func deleted(result sql.Result, entity string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return common.NewError(common.CodeInternal, "failed to delete "+entity, err)
	}
	if rows == 0 {
		return common.NewError(common.CodeNotFound, entity+" not found", sql.ErrNoRows)
	}
	return nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(value string) string {
	return likeEscaper.Replace(value)
}

func containsPattern(value string) string {
	return "%" + escapeLike(value) + "%"
}
