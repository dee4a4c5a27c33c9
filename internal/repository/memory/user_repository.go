package memory

import (
	"context"
	"sort"
	"strings"

	"jobboard/internal/common"
	"jobboard/internal/domain/user"
)

type UserRepository struct {
	store *Store
}

func (r *UserRepository) Create(ctx context.Context, account user.User) (*user.User, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	email := strings.ToLower(account.Email)
	for _, existing := range s.users {
		if strings.ToLower(existing.Email) == email {
			return nil, common.NewError(common.CodeConstraintViolation, "email already exists", nil)
		}
	}
	now := s.stamp()
	if account.ID.IsZero() {
		account.ID = common.NewUUID()
	}
	account.CreatedAt = now
	account.UpdatedAt = now
	s.users[account.ID] = account
	created := account
	return &created, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id common.UUID) (*user.User, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	account, ok := s.users[id]
	if !ok {
		return nil, common.NewError(common.CodeNotFound, "user not found", nil)
	}
	return &account, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	email = strings.ToLower(email)
	for _, account := range s.users {
		if strings.ToLower(account.Email) == email {
			cloned := account
			return &cloned, nil
		}
	}
	return nil, common.NewError(common.CodeNotFound, "user not found", nil)
}

func (r *UserRepository) List(ctx context.Context, filter user.Filter, page user.Page) ([]user.Summary, int, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	counts := make(map[common.UUID]int)
	for _, app := range s.applications {
		counts[app.UserID]++
	}
	search := strings.ToLower(filter.Search)
	items := make([]user.Summary, 0)
	for _, account := range s.users {
		if filter.Role != "" && account.Role != filter.Role {
			continue
		}
		if search != "" && !containsFold(account.Name, search) && !containsFold(account.Email, search) {
			continue
		}
		items = append(items, user.Summary{User: account, ApplicationsCount: counts[account.ID]})
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].ID > items[j].ID
		}
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	return paginate(items, page.Limit, page.Offset), len(items), nil
}

func (r *UserRepository) CountByRole(ctx context.Context, role user.Role) (int, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, account := range s.users {
		if account.Role == role {
			count++
		}
	}
	return count, nil
}
