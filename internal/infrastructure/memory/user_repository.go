package memory

import (
	"context"
	"errors"
	"strings"

	"github.com/jhoicas/sweetshop-api/internal/domain"
	"github.com/jhoicas/sweetshop-api/internal/domain/entity"
	"github.com/jhoicas/sweetshop-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo usuarios en memoria.
type UserRepo struct {
	scope
}

// Create inserta comprobando unicidad de email (sin mayúsculas) y username.
func (r *UserRepo) Create(_ context.Context, user *entity.User) error {
	return r.write(func(st *state) error {
		for _, u := range st.users {
			if strings.EqualFold(u.Email, user.Email) {
				return domain.ErrEmailAlreadyExists
			}
			if u.Username == user.Username {
				return domain.ErrUsernameAlreadyExists
			}
		}
		st.users[user.ID] = copyUser(user)
		return nil
	})
}

func (r *UserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	return r.find(func(u *entity.User) bool { return u.ID == id })
}

func (r *UserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	return r.find(func(u *entity.User) bool { return strings.EqualFold(u.Email, email) })
}

func (r *UserRepo) GetByUsername(_ context.Context, username string) (*entity.User, error) {
	return r.find(func(u *entity.User) bool { return u.Username == username })
}

func (r *UserRepo) ExistsUsername(ctx context.Context, username string) (bool, error) {
	_, err := r.GetByUsername(ctx, username)
	if errors.Is(err, domain.ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

// Delete elimina el usuario y anula las referencias (created_by, performed_by).
func (r *UserRepo) Delete(_ context.Context, id string) error {
	return r.write(func(st *state) error {
		if _, ok := st.users[id]; !ok {
			return domain.ErrNotFound
		}
		delete(st.users, id)
		for _, s := range st.sweets {
			if s.CreatedBy != nil && *s.CreatedBy == id {
				s.CreatedBy = nil
			}
		}
		for i, e := range st.events {
			if e.PerformedBy != nil && *e.PerformedBy == id {
				c := copyEvent(e)
				c.PerformedBy = nil
				st.events[i] = c
			}
		}
		return nil
	})
}

func (r *UserRepo) find(match func(*entity.User) bool) (*entity.User, error) {
	var found *entity.User
	err := r.read(func(st *state) error {
		for _, u := range st.users {
			if match(u) {
				found = copyUser(u)
				return nil
			}
		}
		return domain.ErrNotFound
	})
	return found, err
}
