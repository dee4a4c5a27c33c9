package postgres

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"jobboard/internal/common"
	"jobboard/internal/domain/application"
	"jobboard/internal/domain/jobposting"
	"jobboard/internal/domain/user"
)

func TestApplicationPredicates(t *testing.T) {
	userID := common.NewUUID()
	postingID := common.NewUUID()

	where := applicationPredicates(application.Filter{UserID: userID, JobPostingID: postingID, Status: application.StatusAccepted})
	want := " WHERE a.user_id = $1 AND a.job_posting_id = $2 AND a.status = $3"
	if got := where.where(); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
	if !reflect.DeepEqual(where.args, []any{userID, postingID, application.StatusAccepted}) {
		t.Fatalf("unexpected args %v", where.args)
	}
	limit, args := where.paged(15, 30)
	if limit != " LIMIT $4 OFFSET $5" {
		t.Fatalf("expected placeholders after filters, got %q", limit)
	}
	if len(args) != 5 || args[3] != 15 || args[4] != 30 {
		t.Fatalf("unexpected paged args %v", args)
	}
	if len(where.args) != 3 {
		t.Fatalf("expected count args to stay unpaged, got %v", where.args)
	}
}

func TestApplicationPredicatesSkipZeroFields(t *testing.T) {
	where := applicationPredicates(application.Filter{Status: application.StatusPending})
	if got := where.where(); got != " WHERE a.status = $1" {
		t.Fatalf("expected single status clause, got %q", got)
	}
	empty := applicationPredicates(application.Filter{})
	if got := empty.where(); got != "" {
		t.Fatalf("expected no WHERE clause, got %q", got)
	}
	if limit, args := empty.paged(10, 0); limit != " LIMIT $1 OFFSET $2" || len(args) != 2 {
		t.Fatalf("unexpected paging %q %v", limit, args)
	}
}

func TestActivePostingPredicatesSearch(t *testing.T) {
	where := activePostingPredicates(jobposting.BrowseFilter{Search: "50%_go", Location: "Berlin", EmploymentType: jobposting.EmploymentContract})
	want := " WHERE status = $1 AND (title ILIKE $2 OR company ILIKE $2 OR location ILIKE $2 OR description ILIKE $2) AND location ILIKE $3 AND employment_type = $4"
	if got := where.where(); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
	wantArgs := []any{jobposting.StatusActive, `%50\%\_go%`, "%Berlin%", jobposting.EmploymentContract}
	if !reflect.DeepEqual(where.args, wantArgs) {
		t.Fatalf("expected %v, got %v", wantArgs, where.args)
	}
}

func TestUserPredicates(t *testing.T) {
	where := userPredicates(user.Filter{Role: user.RoleJobSeeker, Search: "jane"})
	want := " WHERE u.role = $1 AND (u.name ILIKE $2 OR u.email ILIKE $2)"
	if got := where.where(); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
	if limit, _ := where.paged(15, 0); limit != " LIMIT $3 OFFSET $4" {
		t.Fatalf("unexpected paging %q", limit)
	}
}

func TestQualify(t *testing.T) {
	if got := qualify("u", "id, name"); got != "u.id, u.name" {
		t.Fatalf("expected qualified columns, got %q", got)
	}
}

func TestScanFieldsMatchColumns(t *testing.T) {
	cases := []struct {
		name    string
		columns string
		fields  int
	}{
		{name: "application", columns: applicationColumns, fields: len(applicationFields(&application.Application{}))},
		{name: "job posting", columns: jobPostingColumns, fields: len(jobPostingFields(&jobposting.JobPosting{}))},
		{name: "user", columns: userColumns, fields: len(userFields(&user.User{}))},
		{name: "applicant", columns: applicantColumns, fields: len(applicantFields(&user.User{}))},
	}
	for _, tc := range cases {
		if columns := len(strings.Split(tc.columns, ", ")); columns != tc.fields {
			t.Fatalf("%s: expected %d scan targets, got %d", tc.name, columns, tc.fields)
		}
	}
	if !strings.Contains(applicationDetailSelect, "JOIN job_postings p ON p.id = a.job_posting_id") || !strings.Contains(applicationDetailSelect, "JOIN users u ON u.id = a.user_id") {
		t.Fatalf("expected detail select to join postings and users, got %q", applicationDetailSelect)
	}
	if strings.Contains(applicationDetailSelect, "password_hash") {
		t.Fatal("expected detail select to leave out password_hash")
	}
}

type stubResult struct {
	rows int64
	err  error
}

func (r stubResult) LastInsertId() (int64, error) { return 0, nil }
func (r stubResult) RowsAffected() (int64, error) { return r.rows, r.err }

func TestDeleted(t *testing.T) {
	if err := deleted(stubResult{rows: 1}, "application"); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if err := deleted(stubResult{}, "application"); !common.Is(err, common.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	driverErr := errors.New("rows affected unsupported")
	err := deleted(stubResult{err: driverErr}, "job posting")
	if !common.Is(err, common.CodeInternal) || !errors.Is(err, driverErr) {
		t.Fatalf("expected wrapped internal error, got %v", err)
	}
}

func TestEscapeLike(t *testing.T) {
	cases := map[string]string{
		"go":      "go",
		"100%":    `100\%`,
		"a_b":     `a\_b`,
		`c:\temp`: `c:\\temp`,
	}
	for input, want := range cases {
		if got := escapeLike(input); got != want {
			t.Fatalf("expected %q for %q, got %q", want, input, got)
		}
	}
}
