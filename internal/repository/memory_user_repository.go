package repository

import (
	"context"
	"sync"

	"github.com/brainiacs/portal/internal/model"
)

// MemoryUserRepo keeps users in process memory.  The uniqueness check and the
// insert happen under one lock, so concurrent signups with the same email
// cannot both succeed.
type MemoryUserRepo struct {
	mu      sync.RWMutex
	byID    map[string]model.User
	byEmail map[string]string
}

func NewMemoryUserRepo() *MemoryUserRepo {
	return &MemoryUserRepo{byID: map[string]model.User{}, byEmail: map[string]string{}}
}

func (r *MemoryUserRepo) Create(ctx context.Context, u *model.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	u.Email = model.NormalizeEmail(u.Email)
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, taken := r.byEmail[u.Email]; taken {
		return ErrEmailExists
	}
	r.byID[u.ID] = cloneUser(*u)
	r.byEmail[u.Email] = u.ID
	return nil
}

func (r *MemoryUserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	if err := ctx.Err(); err != nil {
		return model.User{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byEmail[model.NormalizeEmail(email)]
	if !ok {
		return model.User{}, ErrNotFound
	}
	return cloneUser(r.byID[id]), nil
}

func (r *MemoryUserRepo) GetByID(ctx context.Context, id string) (model.User, error) {
	if err := ctx.Err(); err != nil {
		return model.User{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.byID[id]
	if !ok {
		return model.User{}, ErrNotFound
	}
	return cloneUser(u), nil
}

func (r *MemoryUserRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.byEmail[model.NormalizeEmail(email)]
	return ok, nil
}

func (r *MemoryUserRepo) UpdateProfile(ctx context.Context, id string, p model.Profile) (model.User, error) {
	if err := ctx.Err(); err != nil {
		return model.User{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok || p == nil || u.Role != p.Role() {
		return model.User{}, ErrNotFound
	}
	u.Profile = cloneProfile(p)
	r.byID[id] = u
	return cloneUser(u), nil
}

func (r *MemoryUserRepo) CountByRole(ctx context.Context) (map[model.Role]int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := map[model.Role]int64{}
	for _, u := range r.byID {
		out[u.Role]++
	}
	return out, nil
}

func cloneUser(u model.User) model.User {
	u.Profile = cloneProfile(u.Profile)
	return u
}

// cloneProfile deep-copies p.  Empty lists stay empty rather than nil so they
// render as [] and not null.
func cloneProfile(p model.Profile) model.Profile {
	switch v := p.(type) {
	case *model.StudentProfile:
		if v == nil {
			return nil
		}
		cp := *v
		cp.Interests = cloneSlice(v.Interests)
		return &cp
	case *model.TeacherProfile:
		if v == nil {
			return nil
		}
		cp := *v
		cp.Qualifications = cloneSlice(v.Qualifications)
		cp.Courses = cloneSlice(v.Courses)
		return &cp
	}
	return nil
}

func cloneSlice[T any](s []T) []T {
	out := make([]T, len(s))
	copy(out, s)
	return out
}
