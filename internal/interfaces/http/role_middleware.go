package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/AgroRegistro-api/internal/application/dto"
	"github.com/jhoicas/AgroRegistro-api/internal/domain"
)

// roleChecker es el contrato mínimo que necesita el middleware para verificar roles.
// Lo implementa *access.ScopeService.
type roleChecker interface {
	HasRole(ctx context.Context, accountID, role string) (bool, error)
}

// RequireRole devuelve un middleware Fiber que exige al menos uno de los roles.
// La membresía se consulta al directorio en cada petición, nunca al token.
// Debe usarse DESPUÉS de AuthMiddleware (necesita LocalAccountID).
//
// Comportamiento:
//   - 401 si no hay account_id en el contexto.
//   - 403 si la cuenta no tiene ninguno de los roles.
//   - 503 si el directorio no responde.
func RequireRole(checker roleChecker, roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		accountID := GetAccountID(c)
		if accountID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Code:    "UNAUTHORIZED",
				Message: "account_id no encontrado en el token",
			})
		}
		for _, role := range roles {
			ok, err := checker.HasRole(c.UserContext(), accountID, role)
			if err != nil {
				return writeError(c, domain.Dependency("verificar rol "+role, err))
			}
			if ok {
				return c.Next()
			}
		}
		return writeError(c, domain.ErrForbidden)
	}
}
