package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")
	ErrDependency         = errors.New("fallo en almacenamiento o directorio")

	// ErrConcurrencyConflict: la escritura optimista perdió contra otra operación
	// y el recurso sigue perteneciendo al actor; se debe reintentar.
	ErrConcurrencyConflict = errors.New("el recurso fue modificado por otra operación")

	// ErrVersionMismatch lo devuelven los repositorios cuando el compare-and-swap
	// por versión no afectó ninguna fila. Los casos de uso lo reclasifican.
	ErrVersionMismatch = errors.New("versión desactualizada")

	ErrRoleAssignment = errors.New("no se pudo asignar el rol")

	// ErrFarmerProfileMissing marca el estado intermedio de la promoción:
	// la cuenta tiene el rol Farmer pero no existe su perfil. Requiere reparación manual.
	ErrFarmerProfileMissing = errors.New("la cuenta tiene rol de agricultor pero no tiene perfil")
)

// Variantes de conflicto: errors.Is(err, ErrConflict) se cumple para todas.
var (
	ErrDuplicate     = fmt.Errorf("%w: recurso duplicado", ErrConflict)
	ErrAlreadyFarmer = fmt.Errorf("%w: la cuenta ya está designada como agricultor", ErrConflict)
	ErrNotEligible   = fmt.Errorf("%w: la cuenta no es elegible para ser agricultor", ErrConflict)
	ErrAlreadyInRole = fmt.Errorf("%w: la cuenta ya tiene el rol", ErrConflict)
)

// ErrStaleProduct: el producto fue eliminado o cambió de dueño mientras se editaba.
var ErrStaleProduct = fmt.Errorf("%w: el producto fue eliminado o modificado por otra parte", ErrConcurrencyConflict)

// Dependency clasifica un error de almacenamiento o directorio como ErrDependency
// conservando la causa para logs.
func Dependency(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %s: %w", ErrDependency, op, err)
}

// ValidationError agrupa errores de validación por campo (nombre JSON -> regla incumplida).
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError construye un error de un solo campo.
func NewValidationError(field, rule string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: rule}}
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return ErrInvalidInput.Error() + ": " + strings.Join(parts, ", ")
}

// Unwrap permite errors.Is(err, ErrInvalidInput).
func (e *ValidationError) Unwrap() error { return ErrInvalidInput }
