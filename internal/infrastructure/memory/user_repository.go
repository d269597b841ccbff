package memory

import (
	"context"
	"strings"

	"github.com/jhoicas/pluckd-api/internal/domain"
	"github.com/jhoicas/pluckd-api/internal/domain/entity"
	"github.com/jhoicas/pluckd-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo implementación en memoria de repository.UserRepository.
type UserRepo struct {
	db *Store
}

func (r *UserRepo) Create(ctx context.Context, u *entity.User) error {
	return r.db.view(ctx, func(st *state) error {
		for _, existing := range st.users {
			if strings.EqualFold(existing.Email, u.Email) {
				return domain.ErrEmailAlreadyExists
			}
		}
		st.seq.user++
		u.ID = st.seq.user
		st.users[u.ID] = *u
		return nil
	})
}

func (r *UserRepo) GetByID(ctx context.Context, id int64) (*entity.User, error) {
	var out *entity.User
	err := r.db.view(ctx, func(st *state) error {
		if u, ok := st.users[id]; ok {
			out = &u
		}
		return nil
	})
	return out, err
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	var out *entity.User
	err := r.db.view(ctx, func(st *state) error {
		for _, u := range st.users {
			if strings.EqualFold(u.Email, email) {
				u := u
				out = &u
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *UserRepo) Update(ctx context.Context, u *entity.User) error {
	return r.db.view(ctx, func(st *state) error {
		cur, ok := st.users[u.ID]
		if !ok {
			return domain.ErrUserNotFound
		}
		cur.Name, cur.Phone, cur.Address, cur.UpdatedAt = u.Name, u.Phone, u.Address, u.UpdatedAt
		st.users[u.ID] = cur
		return nil
	})
}

func (r *UserRepo) UpdatePassword(ctx context.Context, id int64, hash string) error {
	return r.db.view(ctx, func(st *state) error {
		cur, ok := st.users[id]
		if !ok {
			return domain.ErrUserNotFound
		}
		cur.PasswordHash = hash
		st.users[id] = cur
		return nil
	})
}

// Delete elimina el usuario; sus órdenes quedan como órdenes sin usuario (ON DELETE SET NULL).
func (r *UserRepo) Delete(ctx context.Context, id int64) error {
	return r.db.view(ctx, func(st *state) error {
		if _, ok := st.users[id]; !ok {
			return domain.ErrUserNotFound
		}
		delete(st.users, id)
		for oid, o := range st.orders {
			if o.UserID != nil && *o.UserID == id {
				o.UserID = nil
				st.orders[oid] = o
			}
		}
		return nil
	})
}

// SetRole cambia el rol del usuario.
func (r *UserRepo) SetRole(ctx context.Context, id int64, role string) error {
	return r.db.view(ctx, func(st *state) error {
		cur, ok := st.users[id]
		if !ok {
			return domain.ErrUserNotFound
		}
		cur.Role = role
		st.users[id] = cur
		return nil
	})
}
