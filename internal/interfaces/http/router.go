package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/AgroRegistro-api/internal/application/access"
	"github.com/jhoicas/AgroRegistro-api/internal/application/auth"
	"github.com/jhoicas/AgroRegistro-api/internal/application/provisioning"
	"github.com/jhoicas/AgroRegistro-api/internal/application/usecase"
	"github.com/jhoicas/AgroRegistro-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC       *auth.AuthUseCase
	ProductUC    *usecase.ProductUseCase
	FarmerUC     *usecase.FarmerUseCase
	ReportUC     *usecase.ReportUseCase
	Provisioning *provisioning.Service
	Scope        *access.ScopeService
	JWTSecret    string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	protected.Get("/me", authHandler.Me)

	productHandler := NewProductHandler(deps.ProductUC, deps.ReportUC)
	protected.Get("/products/categories", productHandler.Categories)

	// Agricultor
	farmer := protected.Group("/farmer", RequireRole(deps.Scope, entity.RoleFarmer))
	farmerHandler := NewFarmerHandler(deps.FarmerUC)
	farmer.Get("/profile", farmerHandler.GetProfile)
	farmer.Put("/profile", farmerHandler.UpdateProfile)
	farmer.Get("/products", productHandler.List)
	farmer.Post("/products", productHandler.Create)
	farmer.Get("/products/report", productHandler.Report)
	farmer.Get("/products/:id", productHandler.GetByID)
	farmer.Put("/products/:id", productHandler.Update)
	farmer.Delete("/products/:id", productHandler.Delete)

	// Empleado
	employee := protected.Group("/employee", RequireRole(deps.Scope, entity.RoleEmployee))
	employeeHandler := NewEmployeeHandler(deps.Provisioning, deps.ProductUC, deps.ReportUC)
	employee.Get("/farmers", employeeHandler.ListFarmers)
	employee.Post("/farmers", employeeHandler.Promote)
	employee.Delete("/farmers/:farmerId", employeeHandler.Deprovision)
	employee.Get("/farmers/:farmerId/products", employeeHandler.FarmerProducts)
	employee.Get("/farmers/:farmerId/products/report", employeeHandler.FarmerReport)
	employee.Get("/candidates", employeeHandler.ListCandidates)
	employee.Get("/candidates/:accountId", employeeHandler.GetCandidate)
	employee.Get("/inconsistencies", employeeHandler.Inconsistencies)
}

// Health responde el estado del servicio.
func Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}
