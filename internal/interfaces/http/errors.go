package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/AgroRegistro-api/internal/application/dto"
	"github.com/jhoicas/AgroRegistro-api/internal/domain"
)

// LocalError guarda el error original para el logger de peticiones.
const LocalError = "request_error"

// errorMapping relaciona un error de dominio con su status y código.
// El orden importa: las variantes específicas van antes que su error padre, y
// ErrRoleAssignment antes que ErrNotFound porque puede venir unido a él.
var errorMapping = []struct {
	target  error
	status  int
	code    string
	message string
}{
	{domain.ErrUnauthorized, fiber.StatusUnauthorized, "UNAUTHORIZED", "credenciales inválidas"},
	{domain.ErrRoleAssignment, fiber.StatusInternalServerError, "ROLE_ASSIGNMENT_FAILED", "no se pudo asignar el rol de agricultor"},
	{domain.ErrFarmerProfileMissing, fiber.StatusConflict, "FARMER_PROFILE_MISSING", "la cuenta tiene rol de agricultor pero no tiene perfil; contacte a un empleado"},
	{domain.ErrForbidden, fiber.StatusForbidden, "FORBIDDEN", "acceso denegado"},
	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND", "recurso no encontrado"},
	{domain.ErrEmailAlreadyExists, fiber.StatusConflict, "EMAIL_EXISTS", "el email ya está registrado"},
	{domain.ErrAlreadyFarmer, fiber.StatusConflict, "ALREADY_FARMER", "la cuenta ya está designada como agricultor"},
	{domain.ErrNotEligible, fiber.StatusConflict, "NOT_ELIGIBLE", "la cuenta no es elegible para ser agricultor"},
	{domain.ErrStaleProduct, fiber.StatusConflict, "STALE_PRODUCT", "el producto fue eliminado o modificado por otra parte; recargue la lista"},
	{domain.ErrConcurrencyConflict, fiber.StatusConflict, "CONCURRENCY_CONFLICT", "el producto fue modificado por otra operación; intente de nuevo"},
	{domain.ErrConflict, fiber.StatusConflict, "CONFLICT", "conflicto con el estado actual"},
	{domain.ErrDependency, fiber.StatusServiceUnavailable, "DEPENDENCY_UNAVAILABLE", "servicio temporalmente no disponible"},
}

// writeError traduce un error de los casos de uso a la respuesta JSON.
// Los detalles internos nunca salen al cliente; quedan en c.Locals para el log.
func writeError(c *fiber.Ctx, err error) error {
	c.Locals(LocalError, err)

	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Code:    "VALIDATION",
			Message: "datos inválidos",
			Fields:  verr.Fields,
		})
	}
	if errors.Is(err, domain.ErrInvalidInput) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	}
	for _, m := range errorMapping {
		if errors.Is(err, m.target) {
			return c.Status(m.status).JSON(dto.ErrorResponse{Code: m.code, Message: m.message})
		}
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"})
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_REQUEST", Message: message})
}
