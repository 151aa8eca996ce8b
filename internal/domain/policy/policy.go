// Package policy concentra el predicado de privilegio usado por todas las operaciones de escritura.
package policy

import (
	"github.com/jhoicas/sweetshop-api/internal/domain"
	"github.com/jhoicas/sweetshop-api/internal/domain/entity"
)

// IsPrivileged es verdadero si el usuario es admin, staff o superusuario.
func IsPrivileged(u *entity.User) bool {
	if u == nil {
		return false
	}
	return u.Role == entity.RoleAdmin || u.IsStaff || u.IsSuperuser
}

// RequirePrivileged devuelve domain.ErrForbidden si u no tiene privilegios.
func RequirePrivileged(u *entity.User) error {
	if !IsPrivileged(u) {
		return domain.ErrForbidden
	}
	return nil
}
