package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/AgroRegistro-api/internal/application/dto"
	"github.com/jhoicas/AgroRegistro-api/internal/application/provisioning"
	"github.com/jhoicas/AgroRegistro-api/internal/application/usecase"
	"github.com/jhoicas/AgroRegistro-api/internal/domain/entity"
)

// EmployeeHandler gestión de agricultores por parte de empleados.
type EmployeeHandler struct {
	provisioning *provisioning.Service
	products     *usecase.ProductUseCase
	reports      *usecase.ReportUseCase
}

// NewEmployeeHandler construye el handler.
func NewEmployeeHandler(p *provisioning.Service, products *usecase.ProductUseCase, reports *usecase.ReportUseCase) *EmployeeHandler {
	return &EmployeeHandler{provisioning: p, products: products, reports: reports}
}

// ListFarmers godoc
// @Summary      Listar agricultores
// @Tags         employee
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.FarmerListResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/employee/farmers [get]
func (h *EmployeeHandler) ListFarmers(c *fiber.Ctx) error {
	entries, err := h.provisioning.ListFarmers(c.UserContext(), GetAccountID(c))
	if err != nil {
		return writeError(c, err)
	}
	out := dto.FarmerListResponse{Items: make([]dto.FarmerResponse, 0, len(entries))}
	for _, e := range entries {
		out.Items = append(out.Items, *usecase.ToFarmerResponse(e.Profile, e.Email))
	}
	return c.JSON(out)
}

// ListCandidates godoc
// @Summary      Cuentas elegibles para agricultor
// @Description  Cuentas sin rol Employee ni Farmer y sin perfil, ordenadas por email.
// @Tags         employee
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.CandidateListResponse
// @Router       /api/employee/candidates [get]
func (h *EmployeeHandler) ListCandidates(c *fiber.Ctx) error {
	accounts, err := h.provisioning.EligibleAccounts(c.UserContext(), GetAccountID(c))
	if err != nil {
		return writeError(c, err)
	}
	out := dto.CandidateListResponse{Items: make([]dto.CandidateResponse, 0, len(accounts))}
	for _, a := range accounts {
		out.Items = append(out.Items, toCandidate(a))
	}
	return c.JSON(out)
}

// GetCandidate godoc
// @Summary      Verificar candidato
// @Description  Vuelve a comprobar la elegibilidad antes de mostrar el formulario de designación.
// @Tags         employee
// @Security     Bearer
// @Produce      json
// @Param        accountId  path  string  true  "ID de la cuenta"
// @Success      200  {object}  dto.CandidateResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/employee/candidates/{accountId} [get]
func (h *EmployeeHandler) GetCandidate(c *fiber.Ctx) error {
	account, err := h.provisioning.PromotionCandidate(c.UserContext(), GetAccountID(c), c.Params("accountId"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toCandidate(account))
}

// Promote godoc
// @Summary      Designar agricultor
// @Description  Asigna el rol Farmer y crea el perfil. Si el perfil falla, el rol se revoca.
// @Tags         employee
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.PromoteFarmerRequest  true  "Cuenta y datos del perfil"
// @Success      201   {object}  dto.PromotionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      500   {object}  dto.ErrorResponse
// @Router       /api/employee/farmers [post]
func (h *EmployeeHandler) Promote(c *fiber.Ctx) error {
	var in dto.PromoteFarmerRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "cuerpo inválido")
	}
	res, err := h.provisioning.Promote(c.UserContext(), GetAccountID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.PromotionResponse{
		Farmer: *usecase.ToFarmerResponse(res.Profile, res.Email),
		State:  string(res.State),
	})
}

// Deprovision godoc
// @Summary      Retirar agricultor
// @Description  Elimina el perfil (y sus productos) y revoca el rol Farmer.
// @Tags         employee
// @Security     Bearer
// @Produce      json
// @Param        farmerId  path  string  true  "ID del perfil"
// @Success      200  {object}  dto.DeprovisionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/employee/farmers/{farmerId} [delete]
func (h *EmployeeHandler) Deprovision(c *fiber.Ctx) error {
	profile, err := h.provisioning.Deprovision(c.UserContext(), GetAccountID(c), c.Params("farmerId"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.DeprovisionResponse{FarmerID: profile.ID, AccountID: profile.AccountID})
}

// FarmerProducts godoc
// @Summary      Productos de un agricultor
// @Tags         employee
// @Security     Bearer
// @Produce      json
// @Param        farmerId    path   string  true   "ID del perfil"
// @Param        category    query  string  false  "Categoría"
// @Param        start_date  query  string  false  "Desde (YYYY-MM-DD)"
// @Param        end_date    query  string  false  "Hasta (YYYY-MM-DD)"
// @Success      200  {object}  dto.FarmerProductsResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/employee/farmers/{farmerId}/products [get]
func (h *EmployeeHandler) FarmerProducts(c *fiber.Ctx) error {
	var filter dto.ProductFilterRequest
	if err := c.QueryParser(&filter); err != nil {
		return badRequest(c, "parámetros de consulta inválidos")
	}
	out, err := h.products.ListForFarmer(c.UserContext(), GetAccountID(c), c.Params("farmerId"), filter)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// FarmerReport godoc
// @Summary      Reporte PDF de los productos de un agricultor
// @Tags         employee
// @Security     Bearer
// @Produce      application/pdf
// @Param        farmerId    path   string  true   "ID del perfil"
// @Param        category    query  string  false  "Categoría"
// @Param        start_date  query  string  false  "Desde (YYYY-MM-DD)"
// @Param        end_date    query  string  false  "Hasta (YYYY-MM-DD)"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/employee/farmers/{farmerId}/products/report [get]
func (h *EmployeeHandler) FarmerReport(c *fiber.Ctx) error {
	var filter dto.ProductFilterRequest
	if err := c.QueryParser(&filter); err != nil {
		return badRequest(c, "parámetros de consulta inválidos")
	}
	pdf, err := h.reports.FarmerReport(c.UserContext(), GetAccountID(c), c.Params("farmerId"), filter)
	if err != nil {
		return writeError(c, err)
	}
	return sendPDF(c, "productos-"+c.Params("farmerId"), pdf)
}

// Inconsistencies godoc
// @Summary      Inconsistencias rol/perfil
// @Description  Cuentas con rol Farmer sin perfil o con perfil sin rol; requieren reparación manual.
// @Tags         employee
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.InconsistencyListResponse
// @Router       /api/employee/inconsistencies [get]
func (h *EmployeeHandler) Inconsistencies(c *fiber.Ctx) error {
	list, err := h.provisioning.Inconsistencies(c.UserContext(), GetAccountID(c))
	if err != nil {
		return writeError(c, err)
	}
	out := dto.InconsistencyListResponse{Items: make([]dto.InconsistencyResponse, 0, len(list))}
	for _, i := range list {
		out.Items = append(out.Items, dto.InconsistencyResponse{
			AccountID: i.AccountID,
			Email:     i.Email,
			FarmerID:  i.FarmerID,
			Kind:      i.Kind,
		})
	}
	return c.JSON(out)
}

func toCandidate(a *entity.Account) dto.CandidateResponse {
	return dto.CandidateResponse{AccountID: a.ID, Email: a.Email, EmailConfirmed: a.EmailConfirmed}
}
