package http

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/AgroRegistro-api/internal/application/dto"
	"github.com/jhoicas/AgroRegistro-api/internal/application/usecase"
)

// ProductHandler productos del agricultor autenticado. El dueño siempre sale del token.
type ProductHandler struct {
	uc      *usecase.ProductUseCase
	reports *usecase.ReportUseCase
}

// NewProductHandler construye el handler.
func NewProductHandler(uc *usecase.ProductUseCase, reports *usecase.ReportUseCase) *ProductHandler {
	return &ProductHandler{uc: uc, reports: reports}
}

// Create godoc
// @Summary      Registrar producto
// @Description  El producto queda asociado al perfil del agricultor autenticado; farmer_id del cuerpo se ignora.
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateProductRequest  true  "Datos del producto"
// @Success      201   {object}  dto.ProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/farmer/products [post]
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateProductRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "cuerpo inválido")
	}
	out, err := h.uc.Create(c.UserContext(), GetAccountID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener producto propio
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {object}  dto.ProductResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/farmer/products/{id} [get]
func (h *ProductHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), GetAccountID(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar mis productos
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        category    query  string  false  "Categoría"
// @Param        start_date  query  string  false  "Desde (YYYY-MM-DD)"
// @Param        end_date    query  string  false  "Hasta (YYYY-MM-DD)"
// @Success      200  {object}  dto.ProductListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/farmer/products [get]
func (h *ProductHandler) List(c *fiber.Ctx) error {
	var filter dto.ProductFilterRequest
	if err := c.QueryParser(&filter); err != nil {
		return badRequest(c, "parámetros de consulta inválidos")
	}
	out, err := h.uc.ListOwn(c.UserContext(), GetAccountID(c), filter)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar producto propio
// @Description  Enviar version para detectar ediciones concurrentes (409 CONCURRENCY_CONFLICT o STALE_PRODUCT).
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del producto"
// @Param        body  body  dto.UpdateProductRequest  true  "Datos a actualizar"
// @Success      200   {object}  dto.ProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/farmer/products/{id} [put]
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateProductRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "cuerpo inválido")
	}
	out, err := h.uc.Update(c.UserContext(), GetAccountID(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar producto propio
// @Description  Un producto inexistente responde 200 con deleted=false.
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {object}  dto.DeleteProductResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/farmer/products/{id} [delete]
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	out, err := h.uc.Delete(c.UserContext(), GetAccountID(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Report godoc
// @Summary      Reporte PDF de mis productos
// @Tags         products
// @Security     Bearer
// @Produce      application/pdf
// @Param        category    query  string  false  "Categoría"
// @Param        start_date  query  string  false  "Desde (YYYY-MM-DD)"
// @Param        end_date    query  string  false  "Hasta (YYYY-MM-DD)"
// @Success      200  {file}    binary
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/farmer/products/report [get]
func (h *ProductHandler) Report(c *fiber.Ctx) error {
	var filter dto.ProductFilterRequest
	if err := c.QueryParser(&filter); err != nil {
		return badRequest(c, "parámetros de consulta inválidos")
	}
	pdf, err := h.reports.OwnReport(c.UserContext(), GetAccountID(c), filter)
	if err != nil {
		return writeError(c, err)
	}
	return sendPDF(c, "productos", pdf)
}

// Categories godoc
// @Summary      Categorías sugeridas
// @Description  Categorías por defecto más las que el agricultor autenticado ya usa.
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.CategoriesResponse
// @Router       /api/products/categories [get]
func (h *ProductHandler) Categories(c *fiber.Ctx) error {
	out, err := h.uc.Categories(c.UserContext(), GetAccountID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

func sendPDF(c *fiber.Ctx, prefix string, pdf []byte) error {
	c.Attachment(fmt.Sprintf("%s-%s.pdf", prefix, time.Now().Format("20060102")))
	c.Set(fiber.HeaderContentType, "application/pdf")
	return c.Send(pdf)
}
