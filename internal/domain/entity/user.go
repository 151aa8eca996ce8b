package entity

import "time"

// Roles de usuario.
const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

// User entidad de dominio: cuenta que se autentica contra la tienda.
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	Role         string
	IsStaff      bool
	IsSuperuser  bool
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
