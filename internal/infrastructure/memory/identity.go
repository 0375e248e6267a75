package memory

import (
	"context"
	"time"

	"github.com/jhoicas/Gestion-api/internal/domain"
	"github.com/jhoicas/Gestion-api/internal/domain/entity"
)

type companyRepo struct{ s *Store }

func (r companyRepo) GetByID(ctx context.Context, id string) (*entity.Company, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.companies[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r companyRepo) HasActiveModule(ctx context.Context, companyID, moduleName string) (bool, error) {
	if err := ctxErr(ctx); err != nil {
		return false, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	now := time.Now()
	for _, m := range r.s.modules[companyID] {
		if m.ModuleName == moduleName && m.IsActive && (m.ExpiresAt == nil || m.ExpiresAt.After(now)) {
			return true, nil
		}
	}
	return false, nil
}

type userRepo struct{ s *Store }

func (r userRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r userRepo) ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.User, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	list := make([]entity.User, 0)
	for _, u := range r.s.users {
		if u.CompanyID == companyID {
			list = append(list, u)
		}
	}
	r.s.mu.RUnlock()
	newestFirst(list, func(u entity.User) (time.Time, string) { return u.CreatedAt, u.ID })
	out := make([]*entity.User, 0, len(list))
	for _, u := range page(list, limit, offset) {
		out = append(out, &u)
	}
	return out, nil
}

func (r userRepo) UpdateRole(ctx context.Context, id string, from, to entity.Role) error {
	if err := ctxErr(ctx); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	if u.Role != from {
		return &domain.ConflictError{Entity: "user", ID: id}
	}
	u.Role = to
	u.UpdatedAt = time.Now()
	r.s.users[id] = u
	return nil
}

func (r userRepo) Delete(ctx context.Context, id string) error {
	if err := ctxErr(ctx); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.s.users, id)
	for k, o := range r.s.overrides {
		if o.UserID == id {
			delete(r.s.overrides, k)
		}
	}
	return nil
}

type overrideRepo struct{ s *Store }

func overrideKey(userID string, res entity.Resource, act entity.Action) string {
	return userID + "|" + string(res) + "|" + string(act)
}

func (r overrideRepo) ListByUser(ctx context.Context, userID string) ([]*entity.PermissionOverride, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*entity.PermissionOverride, 0)
	for _, o := range r.s.overrides {
		if o.UserID == userID {
			out = append(out, &o)
		}
	}
	return out, nil
}

func (r overrideRepo) Upsert(ctx context.Context, o *entity.PermissionOverride) error {
	if err := ctxErr(ctx); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	key := overrideKey(o.UserID, o.Resource, o.Action)
	if prev, ok := r.s.overrides[key]; ok {
		o.ID = prev.ID
		o.CreatedAt = prev.CreatedAt
	}
	r.s.overrides[key] = *o
	return nil
}

func (r overrideRepo) Delete(ctx context.Context, userID string, resource entity.Resource, action entity.Action) error {
	if err := ctxErr(ctx); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	key := overrideKey(userID, resource, action)
	if _, ok := r.s.overrides[key]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.overrides, key)
	return nil
}
