package app

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"

	"jobboard/internal/common"
	"jobboard/internal/domain/application"
	"jobboard/internal/domain/jobposting"
	"jobboard/internal/domain/resume"
	"jobboard/internal/domain/user"
)

var pdfContent = []byte("%PDF-1.4\n%%EOF\n")

func TestSubmitCreatesPendingApplication(t *testing.T) {
	f := newFixture()
	seeker := f.createUser(t, "jane", user.RoleJobSeeker)
	posting := f.createPosting(t, "Go Engineer", jobposting.StatusActive)

	created, err := f.applications.Submit(context.Background(), seeker, SubmitInput{
		JobPostingID: posting.ID,
		CoverLetter:  strPtr("  I would love to join.  "),
		Resume:       &resume.File{Filename: "cv.pdf", Content: pdfContent},
	})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if created.Status != application.StatusPending {
		t.Fatalf("expected pending, got %s", created.Status)
	}
	if created.CoverLetter == nil || *created.CoverLetter != "I would love to join." {
		t.Fatalf("expected trimmed cover letter, got %v", created.CoverLetter)
	}
	if created.ResumePath == nil || *created.ResumePath != "resumes/cv.pdf" {
		t.Fatalf("expected stored resume path, got %v", created.ResumePath)
	}
	if created.AppliedAt.IsZero() {
		t.Fatal("expected applied_at to be set")
	}
}

func TestSubmitRequiresJobSeeker(t *testing.T) {
	f := newFixture()
	admin := f.createUser(t, "root", user.RoleAdmin)
	posting := f.createPosting(t, "Go Engineer", jobposting.StatusActive)

	_, err := f.applications.Submit(context.Background(), admin, SubmitInput{JobPostingID: posting.ID})
	if !common.Is(err, common.CodeForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
	_, total, _ := f.store.Applications().List(context.Background(), application.Filter{}, application.Page{})
	if total != 0 {
		t.Fatalf("expected no applications, got %d", total)
	}
}

func TestSubmitUnknownPosting(t *testing.T) {
	f := newFixture()
	seeker := f.createUser(t, "jane", user.RoleJobSeeker)

	_, err := f.applications.Submit(context.Background(), seeker, SubmitInput{JobPostingID: common.NewUUID()})
	if !common.Is(err, common.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestSubmitRejectsLongCoverLetter(t *testing.T) {
	f := newFixture()
	seeker := f.createUser(t, "jane", user.RoleJobSeeker)
	posting := f.createPosting(t, "Go Engineer", jobposting.StatusActive)
	long := string(bytes.Repeat([]byte("é"), MaxCoverLetterLength+1))

	_, err := f.applications.Submit(context.Background(), seeker, SubmitInput{JobPostingID: posting.ID, CoverLetter: &long})
	if !common.Is(err, common.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}

	exact := string(bytes.Repeat([]byte("é"), MaxCoverLetterLength))
	if _, err := f.applications.Submit(context.Background(), seeker, SubmitInput{JobPostingID: posting.ID, CoverLetter: &exact}); err != nil {
		t.Fatalf("expected 5000 characters to be accepted, got %v", err)
	}
}

func TestSubmitRejectsOversizedResume(t *testing.T) {
	f := newFixture()
	seeker := f.createUser(t, "jane", user.RoleJobSeeker)
	posting := f.createPosting(t, "Go Engineer", jobposting.StatusActive)
	content := append(append([]byte{}, pdfContent...), bytes.Repeat([]byte("0"), 3<<20)...)

	_, err := f.applications.Submit(context.Background(), seeker, SubmitInput{
		JobPostingID: posting.ID,
		Resume:       &resume.File{Filename: "cv.pdf", Content: content},
	})
	if !common.Is(err, common.CodeInvalidAttachment) {
		t.Fatalf("expected invalid attachment, got %v", err)
	}
	if f.resumes.count() != 0 {
		t.Fatal("expected no stored resume")
	}
	if applied, _ := f.applications.HasApplied(context.Background(), seeker, posting.ID); applied {
		t.Fatal("expected no application row")
	}
}

func TestSubmitRejectsResumeType(t *testing.T) {
	f := newFixture()
	seeker := f.createUser(t, "jane", user.RoleJobSeeker)
	posting := f.createPosting(t, "Go Engineer", jobposting.StatusActive)

	_, err := f.applications.Submit(context.Background(), seeker, SubmitInput{
		JobPostingID: posting.ID,
		Resume:       &resume.File{Filename: "cv.exe", Content: []byte("MZ")},
	})
	if !common.Is(err, common.CodeInvalidAttachment) {
		t.Fatalf("expected invalid attachment, got %v", err)
	}

	f.resumes.err = resume.ErrInvalidType
	_, err = f.applications.Submit(context.Background(), seeker, SubmitInput{
		JobPostingID: posting.ID,
		Resume:       &resume.File{Filename: "cv.pdf", Content: []byte("not really a pdf")},
	})
	if !common.Is(err, common.CodeInvalidAttachment) {
		t.Fatalf("expected sniffing failure to be invalid attachment, got %v", err)
	}
}

func TestSubmitTwiceIsDuplicate(t *testing.T) {
	f := newFixture()
	seeker := f.createUser(t, "jane", user.RoleJobSeeker)
	posting := f.createPosting(t, "Go Engineer", jobposting.StatusActive)

	if _, err := f.applications.Submit(context.Background(), seeker, SubmitInput{JobPostingID: posting.ID}); err != nil {
		t.Fatalf("expected first submit to succeed, got %v", err)
	}
	_, err := f.applications.Submit(context.Background(), seeker, SubmitInput{JobPostingID: posting.ID})
	if !common.Is(err, common.CodeDuplicateApplication) {
		t.Fatalf("expected duplicate application, got %v", err)
	}
	var appErr *common.Error
	if !errors.As(err, &appErr) || appErr.Fields["job_posting_id"] != "You have already applied for this job." {
		t.Fatalf("expected job_posting_id field message, got %v", err)
	}
}

func TestConcurrentSubmitYieldsOneSuccess(t *testing.T) {
	f := newFixture()
	seeker := f.createUser(t, "jane", user.RoleJobSeeker)
	posting := f.createPosting(t, "Go Engineer", jobposting.StatusActive)

	const attempts = 16
	var wg sync.WaitGroup
	errs := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.applications.Submit(context.Background(), seeker, SubmitInput{JobPostingID: posting.ID})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	successes := 0
	for err := range errs {
		switch {
		case err == nil:
			successes++
		case !common.Is(err, common.CodeDuplicateApplication):
			t.Fatalf("expected duplicate application, got %v", err)
		}
	}
	if successes != 1 {
		t.Fatalf("expected exactly one success, got %d", successes)
	}
}

type racingRepository struct {
	application.Repository
}

func (racingRepository) FindByUserAndPosting(context.Context, common.UUID, common.UUID) (*application.Application, error) {
	return nil, common.NewError(common.CodeNotFound, "application not found", nil)
}

func (racingRepository) Create(context.Context, application.Application) (*application.Application, error) {
	return nil, common.NewError(common.CodeConstraintViolation, "duplicate key", nil)
}

func TestSubmitMapsConstraintViolation(t *testing.T) {
	f := newFixture()
	seeker := f.createUser(t, "jane", user.RoleJobSeeker)
	posting := f.createPosting(t, "Go Engineer", jobposting.StatusActive)
	service := NewApplicationService(racingRepository{}, f.store.JobPostings(), f.resumes, nil)

	_, err := service.Submit(context.Background(), seeker, SubmitInput{JobPostingID: posting.ID})
	if !common.Is(err, common.CodeDuplicateApplication) {
		t.Fatalf("expected duplicate application, got %v", err)
	}
}

func TestSetStatus(t *testing.T) {
	f := newFixture()
	admin := f.createUser(t, "root", user.RoleAdmin)
	seeker := f.createUser(t, "jane", user.RoleJobSeeker)
	posting := f.createPosting(t, "Go Engineer", jobposting.StatusActive)
	created, err := f.applications.Submit(context.Background(), seeker, SubmitInput{JobPostingID: posting.ID})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	first, err := f.applications.SetStatus(context.Background(), admin, created.ID, "reviewed")
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	second, err := f.applications.SetStatus(context.Background(), admin, created.ID, application.StatusReviewed)
	if err != nil {
		t.Fatalf("expected idempotent update, got %v", err)
	}
	if first.Status != application.StatusReviewed || second.Status != application.StatusReviewed {
		t.Fatalf("expected reviewed twice, got %s and %s", first.Status, second.Status)
	}

	// Any state is reachable from any other.
	for _, status := range []application.Status{application.StatusRejected, application.StatusPending, application.StatusAccepted} {
		updated, err := f.applications.SetStatus(context.Background(), admin, created.ID, status)
		if err != nil || updated.Status != status {
			t.Fatalf("expected %s, got %v (%v)", status, updated, err)
		}
	}

	for _, status := range []application.Status{"hired", "Reviewed", "ACCEPTED", " Rejected ", "rejected ", ""} {
		if _, err := f.applications.SetStatus(context.Background(), admin, created.ID, status); !common.Is(err, common.CodeInvalidStatus) {
			t.Fatalf("expected invalid status for %q, got %v", status, err)
		}
	}
	current, err := f.applications.View(context.Background(), admin, created.ID)
	if err != nil || current.Status != application.StatusAccepted {
		t.Fatalf("expected rejected inputs to leave accepted, got %v (%v)", current, err)
	}
	if _, err := f.applications.SetStatus(context.Background(), admin, common.NewUUID(), application.StatusAccepted); !common.Is(err, common.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestSetStatusByNonAdminIsForbidden(t *testing.T) {
	f := newFixture()
	seeker := f.createUser(t, "jane", user.RoleJobSeeker)
	posting := f.createPosting(t, "Go Engineer", jobposting.StatusActive)
	created, err := f.applications.Submit(context.Background(), seeker, SubmitInput{JobPostingID: posting.ID})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	_, err = f.applications.SetStatus(context.Background(), seeker, created.ID, application.StatusAccepted)
	if !common.Is(err, common.CodeForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
	current, err := f.applications.View(context.Background(), seeker, created.ID)
	if err != nil {
		t.Fatalf("view: %v", err)
	}
	if current.Status != application.StatusPending {
		t.Fatalf("expected status unchanged, got %s", current.Status)
	}
}

func TestViewAndRemoveAccess(t *testing.T) {
	f := newFixture()
	admin := f.createUser(t, "root", user.RoleAdmin)
	owner := f.createUser(t, "jane", user.RoleJobSeeker)
	other := f.createUser(t, "john", user.RoleJobSeeker)
	posting := f.createPosting(t, "Go Engineer", jobposting.StatusActive)
	created, err := f.applications.Submit(context.Background(), owner, SubmitInput{JobPostingID: posting.ID})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	if _, err := f.applications.View(context.Background(), other, created.ID); !common.Is(err, common.CodeForbidden) {
		t.Fatalf("expected forbidden view, got %v", err)
	}
	if _, err := f.applications.View(context.Background(), admin, created.ID); err != nil {
		t.Fatalf("expected admin view, got %v", err)
	}
	if err := f.applications.Remove(context.Background(), other, created.ID); !common.Is(err, common.CodeForbidden) {
		t.Fatalf("expected forbidden remove, got %v", err)
	}
	if _, err := f.applications.View(context.Background(), owner, created.ID); err != nil {
		t.Fatalf("expected application intact, got %v", err)
	}
	if err := f.applications.Remove(context.Background(), owner, created.ID); err != nil {
		t.Fatalf("expected owner remove, got %v", err)
	}
	if _, err := f.applications.View(context.Background(), admin, created.ID); !common.Is(err, common.CodeNotFound) {
		t.Fatalf("expected not found after remove, got %v", err)
	}
	if err := f.applications.Remove(context.Background(), admin, created.ID); !common.Is(err, common.CodeNotFound) {
		t.Fatalf("expected not found on second remove, got %v", err)
	}
}

func TestPostingDeleteCascades(t *testing.T) {
	f := newFixture()
	admin := f.createUser(t, "root", user.RoleAdmin)
	posting := f.createPosting(t, "Go Engineer", jobposting.StatusActive)
	ids := make([]common.UUID, 0, 3)
	for _, name := range []string{"a", "b", "c"} {
		seeker := f.createUser(t, name, user.RoleJobSeeker)
		created, err := f.applications.Submit(context.Background(), seeker, SubmitInput{JobPostingID: posting.ID})
		if err != nil {
			t.Fatalf("submit: %v", err)
		}
		ids = append(ids, created.ID)
	}

	if err := f.postings.Delete(context.Background(), admin, posting.ID); err != nil {
		t.Fatalf("delete posting: %v", err)
	}
	for _, id := range ids {
		if _, err := f.applications.View(context.Background(), admin, id); !common.Is(err, common.CodeNotFound) {
			t.Fatalf("expected cascade delete of %s, got %v", id, err)
		}
	}
}

func TestJaneScenario(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	admin := f.createUser(t, "root", user.RoleAdmin)
	jane := f.createUser(t, "jane", user.RoleJobSeeker)
	posting := f.createPosting(t, "Posting 5", jobposting.StatusActive)

	created, err := f.applications.Submit(ctx, jane, SubmitInput{JobPostingID: posting.ID})
	if err != nil || created.Status != application.StatusPending {
		t.Fatalf("expected pending application, got %v (%v)", created, err)
	}
	if _, err := f.applications.Submit(ctx, jane, SubmitInput{JobPostingID: posting.ID}); !common.Is(err, common.CodeDuplicateApplication) {
		t.Fatalf("expected duplicate application, got %v", err)
	}
	if _, err := f.applications.SetStatus(ctx, admin, created.ID, application.StatusAccepted); err != nil {
		t.Fatalf("set status: %v", err)
	}
	viewed, err := f.applications.View(ctx, jane, created.ID)
	if err != nil || viewed.Status != application.StatusAccepted {
		t.Fatalf("expected accepted, got %v (%v)", viewed, err)
	}
	if viewed.JobPosting == nil || viewed.JobPosting.Title != "Posting 5" {
		t.Fatalf("expected the posting attached, got %+v", viewed.JobPosting)
	}
	if viewed.Applicant == nil || viewed.Applicant.Name != "jane" {
		t.Fatalf("expected jane as applicant, got %+v", viewed.Applicant)
	}
	if err := f.postings.Delete(ctx, admin, posting.ID); err != nil {
		t.Fatalf("delete posting: %v", err)
	}
	if _, err := f.applications.View(ctx, jane, created.ID); !common.Is(err, common.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestListForUserNewestFirst(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	jane := f.createUser(t, "jane", user.RoleJobSeeker)
	other := f.createUser(t, "john", user.RoleJobSeeker)
	var last common.UUID
	for _, title := range []string{"one", "two", "three"} {
		posting := f.createPosting(t, title, jobposting.StatusActive)
		created, err := f.applications.Submit(ctx, jane, SubmitInput{JobPostingID: posting.ID})
		if err != nil {
			t.Fatalf("submit: %v", err)
		}
		last = created.ID
		if _, err := f.applications.Submit(ctx, other, SubmitInput{JobPostingID: posting.ID}); err != nil {
			t.Fatalf("submit other: %v", err)
		}
	}

	page, err := f.applications.ListForUser(ctx, jane, 2, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(page.Items) != 2 || page.Total != 3 || page.Limit != 2 {
		t.Fatalf("expected page of 2 out of 3, got %d of %d (limit %d)", len(page.Items), page.Total, page.Limit)
	}
	if page.Items[0].ID != last {
		t.Fatalf("expected newest first, got %s", page.Items[0].ID)
	}
	if page.Items[0].JobPosting == nil || page.Items[0].JobPosting.Title != "three" {
		t.Fatalf("expected the newest posting title, got %+v", page.Items[0].JobPosting)
	}
	for _, item := range page.Items {
		if item.UserID != jane.ID {
			t.Fatalf("expected only jane's applications, got %s", item.UserID)
		}
	}
	defaults, _ := f.applications.ListForUser(ctx, jane, 0, -4)
	if defaults.Limit != 10 || defaults.Offset != 0 {
		t.Fatalf("expected default page 10/0, got %d/%d", defaults.Limit, defaults.Offset)
	}
	ids, err := f.applications.AppliedPostingIDs(ctx, jane)
	if err != nil || len(ids) != 3 {
		t.Fatalf("expected 3 applied postings, got %v (%v)", ids, err)
	}
}

func TestListAllFilters(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	admin := f.createUser(t, "root", user.RoleAdmin)
	jane := f.createUser(t, "jane", user.RoleJobSeeker)
	john := f.createUser(t, "john", user.RoleJobSeeker)
	first := f.createPosting(t, "one", jobposting.StatusActive)
	second := f.createPosting(t, "two", jobposting.StatusActive)

	accepted, err := f.applications.Submit(ctx, jane, SubmitInput{JobPostingID: first.ID})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := f.applications.SetStatus(ctx, admin, accepted.ID, application.StatusAccepted); err != nil {
		t.Fatalf("set status: %v", err)
	}
	for _, pair := range []struct {
		seeker  user.User
		posting jobposting.JobPosting
	}{{john, first}, {jane, second}} {
		if _, err := f.applications.Submit(ctx, pair.seeker, SubmitInput{JobPostingID: pair.posting.ID}); err != nil {
			t.Fatalf("submit: %v", err)
		}
	}

	all, err := f.applications.ListAll(ctx, admin, ListFilter{}, 0, 0)
	if err != nil || len(all.Items) != 3 || all.Total != 3 || all.Limit != 15 {
		t.Fatalf("expected 3 applications on a page of 15, got %d of %d (%v)", len(all.Items), all.Total, err)
	}
	byPosting, _ := f.applications.ListAll(ctx, admin, ListFilter{JobPostingID: first.ID}, 0, 0)
	if len(byPosting.Items) != 2 || byPosting.Total != 2 {
		t.Fatalf("expected 2 for first posting, got %d", len(byPosting.Items))
	}
	byBoth, _ := f.applications.ListAll(ctx, admin, ListFilter{JobPostingID: first.ID, Status: application.StatusAccepted}, 0, 0)
	if len(byBoth.Items) != 1 || byBoth.Items[0].ID != accepted.ID {
		t.Fatalf("expected the accepted application, got %v", byBoth.Items)
	}
	if byBoth.Items[0].Applicant == nil || byBoth.Items[0].Applicant.Name != "jane" || byBoth.Items[0].JobPosting.Title != "one" {
		t.Fatalf("expected jane's application to posting one, got %+v", byBoth.Items[0])
	}
	if _, err := f.applications.ListAll(ctx, admin, ListFilter{Status: "Accepted"}, 0, 0); !common.Is(err, common.CodeInvalidStatus) {
		t.Fatalf("expected invalid status for mixed case filter, got %v", err)
	}
	if _, err := f.applications.ListAll(ctx, admin, ListFilter{Status: "archived"}, 0, 0); !common.Is(err, common.CodeInvalidStatus) {
		t.Fatalf("expected invalid status, got %v", err)
	}
	if _, err := f.applications.ListAll(ctx, jane, ListFilter{}, 0, 0); !common.Is(err, common.CodeForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestHasAppliedIgnoresAdmins(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	admin := f.createUser(t, "root", user.RoleAdmin)
	jane := f.createUser(t, "jane", user.RoleJobSeeker)
	posting := f.createPosting(t, "one", jobposting.StatusActive)
	if _, err := f.applications.Submit(ctx, jane, SubmitInput{JobPostingID: posting.ID}); err != nil {
		t.Fatalf("submit: %v", err)
	}

	if applied, _ := f.applications.HasApplied(ctx, jane, posting.ID); !applied {
		t.Fatal("expected jane to have applied")
	}
	if applied, _ := f.applications.HasApplied(ctx, admin, posting.ID); applied {
		t.Fatal("expected false for admin")
	}
	ids, _ := f.applications.AppliedPostingIDs(ctx, admin)
	if len(ids) != 0 {
		t.Fatalf("expected no ids for admin, got %v", ids)
	}
}
