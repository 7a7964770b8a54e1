package usecase

import (
	"context"

	"github.com/jhoicas/AgroRegistro-api/internal/application/access"
	"github.com/jhoicas/AgroRegistro-api/internal/application/dto"
	"github.com/jhoicas/AgroRegistro-api/internal/domain"
	"github.com/jhoicas/AgroRegistro-api/internal/domain/entity"
	"github.com/jhoicas/AgroRegistro-api/internal/domain/repository"
)

// ReportUseCase genera el PDF de productos con el mismo alcance que los listados.
type ReportUseCase struct {
	scope     *access.ScopeService
	products  repository.ProductRepository
	farmers   repository.FarmerRepository
	generator ProductReportGenerator
}

// NewReportUseCase construye el caso de uso de reportes.
func NewReportUseCase(
	scope *access.ScopeService,
	products repository.ProductRepository,
	farmers repository.FarmerRepository,
	generator ProductReportGenerator,
) *ReportUseCase {
	return &ReportUseCase{scope: scope, products: products, farmers: farmers, generator: generator}
}

// OwnReport reporte de los productos del agricultor que actúa.
func (uc *ReportUseCase) OwnReport(ctx context.Context, actingAccountID string, in dto.ProductFilterRequest) ([]byte, error) {
	filter, err := ParseFilter(in)
	if err != nil {
		return nil, err
	}
	profile, err := uc.scope.RequireOwnedProfile(ctx, actingAccountID)
	if err != nil {
		return nil, err
	}
	return uc.render(ctx, profile, filter)
}

// FarmerReport reporte de un agricultor concreto, solo para empleados.
func (uc *ReportUseCase) FarmerReport(ctx context.Context, actingAccountID, farmerID string, in dto.ProductFilterRequest) ([]byte, error) {
	if err := uc.scope.RequireRole(ctx, actingAccountID, entity.RoleEmployee); err != nil {
		return nil, err
	}
	filter, err := ParseFilter(in)
	if err != nil {
		return nil, err
	}
	farmer, err := uc.farmers.GetByID(ctx, farmerID)
	if err != nil {
		return nil, domain.Dependency("leer perfil", err)
	}
	if farmer == nil {
		return nil, domain.ErrNotFound
	}
	return uc.render(ctx, farmer, filter)
}

func (uc *ReportUseCase) render(ctx context.Context, farmer *entity.FarmerProfile, filter entity.ProductFilter) ([]byte, error) {
	list, err := uc.products.ListByFarmer(ctx, farmer.ID, filter)
	if err != nil {
		return nil, domain.Dependency("listar productos", err)
	}
	pdf, err := uc.generator.GenerateProductReport(ctx, farmer, list, filter)
	if err != nil {
		return nil, domain.Dependency("generar reporte", err)
	}
	return pdf, nil
}
