package dto

import (
	"fmt"

	"github.com/jhoicas/sweetshop-api/internal/domain"
	"github.com/jhoicas/sweetshop-api/pkg/validator"
)

// Validate aplica las reglas declaradas en las etiquetas validate y devuelve
// un *domain.ValidationError, o nil si todo es válido.
func Validate(in interface{}) error {
	fes := validator.Struct(in)
	if len(fes) == 0 {
		return nil
	}
	verr := &domain.ValidationError{}
	for _, fe := range fes {
		code, msg := describe(fe)
		verr.Add(fe.Field, code, msg)
	}
	return verr
}

func describe(fe validator.FieldError) (code, msg string) {
	switch fe.Tag {
	case "required":
		return domain.CodeRequired, "este campo es obligatorio"
	case "email":
		return domain.CodeInvalid, "email inválido"
	case "min":
		if fe.Field == "password" {
			return domain.CodeTooShort, fmt.Sprintf("debe tener al menos %s caracteres", fe.Param)
		}
		return domain.CodeMin, fmt.Sprintf("debe ser mayor o igual a %s", fe.Param)
	case "max":
		return domain.CodeTooLong, fmt.Sprintf("no puede superar %s", fe.Param)
	case "oneof":
		return domain.CodeInvalid, fmt.Sprintf("debe ser uno de: %s", fe.Param)
	default:
		return domain.CodeInvalid, "valor inválido"
	}
}
