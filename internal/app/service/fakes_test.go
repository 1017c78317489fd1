package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"bookreview/internal/common"
	"bookreview/internal/domain/model"
	"bookreview/internal/domain/repository"
)

// memUserRepo is an in-memory UserRepository with the same contract as the
// Postgres implementation, including the (full_name, pin_code) uniqueness
// conflict.
type memUserRepo struct {
	mu    sync.Mutex
	seq   int64
	users map[int64]*model.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[int64]*model.User)}
}

func (r *memUserRepo) Create(_ context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.FullName == user.FullName && u.PinCode == user.PinCode {
			return common.Errorf("duplicate name and PIN: %w", common.ErrConflict)
		}
	}
	r.seq++
	user.ID = r.seq
	user.CreatedAt = time.Now()
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *memUserRepo) FindByName(_ context.Context, fullName string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.FullName == fullName {
			cp := *u
			return &cp, nil
		}
	}
	return nil, common.ErrNotFound
}

func (r *memUserRepo) FindByNameFold(_ context.Context, fullName string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if strings.EqualFold(u.FullName, fullName) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, common.ErrNotFound
}

func (r *memUserRepo) FindByID(_ context.Context, id int64) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, common.ErrNotFound
}

func (r *memUserRepo) ExistsWithPin(_ context.Context, fullName, pin string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.FullName == fullName && u.PinCode == pin {
			return true, nil
		}
	}
	return false, nil
}

func (r *memUserRepo) List(_ context.Context) ([]model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var users []model.User
	for i := int64(1); i <= r.seq; i++ {
		if u, ok := r.users[i]; ok {
			users = append(users, *u)
		}
	}
	return users, nil
}

func (r *memUserRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return common.ErrNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *memUserRepo) setRole(id int64, role string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		u.Role = role
	}
}

var _ repository.UserRepository = (*memUserRepo)(nil)

// memReviewRepo mirrors the Postgres ReviewRepository, filters included.
type memReviewRepo struct {
	mu      sync.Mutex
	seq     int64
	reviews map[int64]*model.Review
	byUser  map[int64]string // user names for the join column
}

func newMemReviewRepo(userNames map[int64]string) *memReviewRepo {
	return &memReviewRepo{reviews: make(map[int64]*model.Review), byUser: userNames}
}

func (r *memReviewRepo) Create(_ context.Context, review *model.Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	review.ID = r.seq
	review.CreatedAt = time.Now()
	review.UpdatedAt = review.CreatedAt
	cp := *review
	r.reviews[review.ID] = &cp
	return nil
}

func (r *memReviewRepo) FindByID(_ context.Context, id int64) (*model.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rv, ok := r.reviews[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	cp := *rv
	cp.UserName = r.byUser[rv.UserID]
	return &cp, nil
}

func (r *memReviewRepo) Update(_ context.Context, review *model.Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.reviews[review.ID]
	if !ok {
		return common.ErrNotFound
	}
	cp := *review
	cp.CreatedAt = stored.CreatedAt
	cp.UpdatedAt = time.Now()
	r.reviews[review.ID] = &cp
	return nil
}

func (r *memReviewRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.reviews[id]; !ok {
		return common.ErrNotFound
	}
	delete(r.reviews, id)
	return nil
}

func (r *memReviewRepo) Archive(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rv, ok := r.reviews[id]
	if !ok {
		return common.ErrNotFound
	}
	rv.IsArchived = true
	rv.UpdatedAt = time.Now()
	return nil
}

func (r *memReviewRepo) List(_ context.Context, filter repository.ReviewFilter) ([]model.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Review
	for i := int64(1); i <= r.seq; i++ {
		rv, ok := r.reviews[i]
		if !ok {
			continue
		}
		if !filter.IncludeArchived && rv.IsArchived {
			continue
		}
		if filter.UserID != 0 && rv.UserID != filter.UserID {
			continue
		}
		if filter.Genre != "" && rv.Genre != filter.Genre {
			continue
		}
		if filter.Rating != 0 && rv.Rating != filter.Rating {
			continue
		}
		if filter.Search != "" {
			s := strings.ToLower(filter.Search)
			if !strings.Contains(strings.ToLower(rv.BookTitle), s) &&
				!strings.Contains(strings.ToLower(rv.Author), s) &&
				!strings.Contains(strings.ToLower(rv.ReviewText), s) {
				continue
			}
		}
		cp := *rv
		cp.UserName = r.byUser[rv.UserID]
		out = append(out, cp)
	}
	if filter.Offset > 0 {
		if filter.Offset >= len(out) {
			return nil, nil
		}
		out = out[filter.Offset:]
	}
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

var _ repository.ReviewRepository = (*memReviewRepo)(nil)
