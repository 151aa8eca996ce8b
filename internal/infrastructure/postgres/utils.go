package postgres

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/sweetshop-api/internal/domain"
)

// Códigos SQLSTATE relevantes.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeInvalidText         = "22P02"
)

// Índices únicos y checks declarados en las migraciones.
var constraintErrors = map[string]error{
	"users_email_lower_key":        domain.ErrEmailAlreadyExists,
	"users_username_key":           domain.ErrUsernameAlreadyExists,
	"sweets_name_lower_key":        domain.ErrSweetNameAlreadyExists,
	"sweets_quantity_nonneg":       domain.ErrInsufficientStock,
	"inventory_events_sweet_id_fk": domain.ErrNotFound,
}

// mapError traduce errores de pgx a errores de dominio; el resto se devuelve sin cambios.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	if mapped, ok := constraintErrors[pgErr.ConstraintName]; ok {
		return mapped
	}
	switch pgErr.Code {
	case codeUniqueViolation:
		return domain.ErrAlreadyExists
	case codeInvalidText:
		// id con formato que no es UUID: no puede existir.
		return domain.ErrNotFound
	case codeForeignKeyViolation:
		return domain.ErrNotFound
	}
	return err
}

// escapeLike escapa los comodines de LIKE/ILIKE para buscar el texto literal.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
