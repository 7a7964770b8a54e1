// Package access resuelve el perfil de agricultor de la cuenta que actúa y decide
// la propiedad de productos. Ningún resultado se cachea: cada llamada consulta el almacén.
package access

import (
	"context"
	"errors"

	"github.com/jhoicas/AgroRegistro-api/internal/domain"
	"github.com/jhoicas/AgroRegistro-api/internal/domain/entity"
	"github.com/jhoicas/AgroRegistro-api/internal/domain/repository"
)

// ScopeService limita cada operación a los datos de la cuenta que actúa.
type ScopeService struct {
	farmers   repository.FarmerRepository
	products  repository.ProductRepository
	directory repository.AccountDirectory
}

// NewScopeService construye el servicio.
func NewScopeService(
	farmers repository.FarmerRepository,
	products repository.ProductRepository,
	directory repository.AccountDirectory,
) *ScopeService {
	return &ScopeService{farmers: farmers, products: products, directory: directory}
}

// ResolveOwnedProfile devuelve el perfil vinculado a accountID o domain.ErrNotFound.
func (s *ScopeService) ResolveOwnedProfile(ctx context.Context, accountID string) (*entity.FarmerProfile, error) {
	if accountID == "" {
		return nil, domain.ErrNotFound
	}
	profile, err := s.farmers.GetByAccountID(ctx, accountID)
	if err != nil {
		return nil, domain.Dependency("resolver perfil", err)
	}
	if profile == nil {
		return nil, domain.ErrNotFound
	}
	return profile, nil
}

// IsOwned informa si productID pertenece al perfil de accountID.
// Sin perfil o sin producto devuelve false sin error.
func (s *ScopeService) IsOwned(ctx context.Context, accountID, productID string) (bool, error) {
	profile, err := s.ResolveOwnedProfile(ctx, accountID)
	if errors.Is(err, domain.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return false, domain.Dependency("leer producto", err)
	}
	if product == nil {
		return false, nil
	}
	return product.FarmerID == profile.ID, nil
}

// RequireOwnedProfile resuelve el perfil para una mutación.
// Sin perfil devuelve domain.ErrForbidden, salvo que la cuenta tenga el rol Farmer:
// en ese caso el estado es inconsistente y se devuelve domain.ErrFarmerProfileMissing.
func (s *ScopeService) RequireOwnedProfile(ctx context.Context, accountID string) (*entity.FarmerProfile, error) {
	profile, err := s.ResolveOwnedProfile(ctx, accountID)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	if accountID == "" {
		return nil, domain.ErrForbidden
	}
	isFarmer, rerr := s.directory.IsInRole(ctx, accountID, entity.RoleFarmer)
	if rerr != nil {
		return nil, domain.Dependency("consultar rol", rerr)
	}
	if isFarmer {
		return nil, domain.ErrFarmerProfileMissing
	}
	return nil, domain.ErrForbidden
}

// RequireRole verifica contra el directorio que accountID tenga role en este momento.
func (s *ScopeService) RequireRole(ctx context.Context, accountID, role string) error {
	if accountID == "" {
		return domain.ErrForbidden
	}
	ok, err := s.directory.IsInRole(ctx, accountID, role)
	if err != nil {
		return domain.Dependency("consultar rol", err)
	}
	if !ok {
		return domain.ErrForbidden
	}
	return nil
}

// HasRole es la variante booleana de RequireRole; la usa el middleware HTTP.
func (s *ScopeService) HasRole(ctx context.Context, accountID, role string) (bool, error) {
	err := s.RequireRole(ctx, accountID, role)
	if errors.Is(err, domain.ErrForbidden) {
		return false, nil
	}
	return err == nil, err
}
