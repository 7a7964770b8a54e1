// Package validation adapta go-playground/validator a los errores de dominio.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/jhoicas/AgroRegistro-api/internal/domain"
)

// Validator valida DTOs por sus tags `validate` y reporta campos por su nombre JSON.
type Validator struct {
	v *validator.Validate
}

// New construye el validador con las reglas propias registradas.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	// La única forma de que falle es un nombre de tag repetido.
	if err := v.RegisterValidation("phone", isPhone); err != nil {
		panic(err)
	}
	return &Validator{v: v}
}

// Struct valida s. Devuelve *domain.ValidationError si alguna regla falla.
func (val *Validator) Struct(s any) error {
	err := val.v.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			rule := fe.Tag()
			if fe.Param() != "" {
				rule += "=" + fe.Param()
			}
			fields[fe.Field()] = rule
		}
		return &domain.ValidationError{Fields: fields}
	}
	return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
}

// isPhone acepta dígitos, espacios, '+', '-', '.', '(' y ')' con al menos 7 dígitos.
func isPhone(fl validator.FieldLevel) bool {
	digits := 0
	for _, r := range fl.Field().String() {
		switch {
		case unicode.IsDigit(r):
			digits++
		case r == ' ' || r == '+' || r == '-' || r == '.' || r == '(' || r == ')':
		default:
			return false
		}
	}
	return digits >= 7
}
