package repository

import (
	"context"

	"github.com/jhoicas/sweetshop-api/internal/domain/entity"
)

// UserRepository puerto de persistencia para usuarios.
// Los Get* devuelven domain.ErrNotFound cuando no hay fila.
type UserRepository interface {
	// Create inserta el usuario; devuelve domain.ErrEmailAlreadyExists o
	// domain.ErrUsernameAlreadyExists si choca con un índice único.
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	// GetByEmail compara sin distinguir mayúsculas.
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
	ExistsUsername(ctx context.Context, username string) (bool, error)
	Delete(ctx context.Context, id string) error
}
