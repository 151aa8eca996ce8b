package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrAlreadyExists      = errors.New("el recurso ya existe")
	ErrValidation         = errors.New("datos inválidos")
	ErrInvalidCredentials = errors.New("credenciales inválidas")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrInsufficientStock  = errors.New("stock insuficiente")
)

// Conflictos de unicidad concretos; todos envuelven ErrAlreadyExists.
var (
	ErrEmailAlreadyExists     = fmt.Errorf("email: %w", ErrAlreadyExists)
	ErrUsernameAlreadyExists  = fmt.Errorf("username: %w", ErrAlreadyExists)
	ErrSweetNameAlreadyExists = fmt.Errorf("sweet name: %w", ErrAlreadyExists)
)

// Códigos de FieldError.
const (
	CodeRequired = "required"
	CodeInvalid  = "invalid"
	CodeUnique   = "unique"
	CodeTooShort = "too_short"
	CodeTooLong  = "too_long"
	CodeMin      = "min_value"
)

// FieldError describe un problema de validación sobre un campo concreto.
type FieldError struct {
	Field   string
	Code    string
	Message string
}

// ValidationError agrupa uno o más FieldError. Coincide con ErrValidation vía errors.Is,
// y también con ErrAlreadyExists cuando algún campo falló por unicidad.
type ValidationError struct {
	Errors []FieldError
}

// NewValidationError crea un ValidationError con un único campo.
func NewValidationError(field, code, message string) *ValidationError {
	return &ValidationError{Errors: []FieldError{{Field: field, Code: code, Message: message}}}
}

// Add agrega un FieldError.
func (e *ValidationError) Add(field, code, message string) {
	e.Errors = append(e.Errors, FieldError{Field: field, Code: code, Message: message})
}

// HasErrors indica si hay al menos un campo inválido.
func (e *ValidationError) HasErrors() bool {
	return e != nil && len(e.Errors) > 0
}

// OrNil devuelve nil cuando no hay errores, para poder retornar el acumulador directamente.
func (e *ValidationError) OrNil() error {
	if !e.HasErrors() {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		parts = append(parts, fe.Field+": "+fe.Message)
	}
	return "validación: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() []error {
	errs := []error{ErrValidation}
	for _, fe := range e.Errors {
		if fe.Code == CodeUnique {
			errs = append(errs, ErrAlreadyExists)
			break
		}
	}
	return errs
}

// Fields devuelve los mensajes agrupados por campo (formato de respuesta HTTP).
func (e *ValidationError) Fields() map[string][]string {
	out := make(map[string][]string, len(e.Errors))
	for _, fe := range e.Errors {
		out[fe.Field] = append(out[fe.Field], fe.Message)
	}
	return out
}
