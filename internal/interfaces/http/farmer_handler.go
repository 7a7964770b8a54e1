package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/AgroRegistro-api/internal/application/dto"
	"github.com/jhoicas/AgroRegistro-api/internal/application/usecase"
)

// FarmerHandler perfil propio del agricultor.
type FarmerHandler struct {
	uc *usecase.FarmerUseCase
}

// NewFarmerHandler construye el handler.
func NewFarmerHandler(uc *usecase.FarmerUseCase) *FarmerHandler {
	return &FarmerHandler{uc: uc}
}

// GetProfile godoc
// @Summary      Mi perfil de agricultor
// @Tags         farmer
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.FarmerResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/farmer/profile [get]
func (h *FarmerHandler) GetProfile(c *fiber.Ctx) error {
	out, err := h.uc.GetOwnProfile(c.UserContext(), GetAccountID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// UpdateProfile godoc
// @Summary      Actualizar mi perfil
// @Tags         farmer
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.UpdateFarmerProfileRequest  true  "Campos a actualizar"
// @Success      200   {object}  dto.FarmerResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/farmer/profile [put]
func (h *FarmerHandler) UpdateProfile(c *fiber.Ctx) error {
	var in dto.UpdateFarmerProfileRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "cuerpo inválido")
	}
	out, err := h.uc.UpdateOwnProfile(c.UserContext(), GetAccountID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
