// Package memory holds in-process repositories used when no database is
// configured and by tests. The repositories share one Store so that the
// relational guarantees of the Postgres schema hold here too: unique
// (user, job posting) applications, unique emails and cascading deletes.
package memory

import (
	"sync"
	"time"

	"jobboard/internal/common"
	"jobboard/internal/domain/application"
	"jobboard/internal/domain/jobposting"
	"jobboard/internal/domain/user"
)

type Store struct {
	mu           sync.RWMutex
	users        map[common.UUID]user.User
	postings     map[common.UUID]jobposting.JobPosting
	applications map[common.UUID]application.Application
	now          func() time.Time
	lastStamp    time.Time
}

func NewStore() *Store {
	return &Store{
		users:        make(map[common.UUID]user.User),
		postings:     make(map[common.UUID]jobposting.JobPosting),
		applications: make(map[common.UUID]application.Application),
		now:          func() time.Time { return time.Now().UTC() },
	}
}

func (s *Store) Users() *UserRepository {
	return &UserRepository{store: s}
}

func (s *Store) JobPostings() *JobPostingRepository {
	return &JobPostingRepository{store: s}
}

func (s *Store) Applications() *ApplicationRepository {
	return &ApplicationRepository{store: s}
}

// stamp returns a strictly increasing timestamp so newest-first ordering is
// deterministic for records created within the same clock reading.
// Callers hold the write lock.
func (s *Store) stamp() time.Time {
	now := s.now()
	if !now.After(s.lastStamp) {
		now = s.lastStamp.Add(time.Microsecond)
	}
	s.lastStamp = now
	return now
}

func paginate[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

func cloneString(value *string) *string {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}
