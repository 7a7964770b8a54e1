package usecase

import (
	"context"
	"time"

	"github.com/jhoicas/AgroRegistro-api/internal/application/access"
	"github.com/jhoicas/AgroRegistro-api/internal/application/dto"
	"github.com/jhoicas/AgroRegistro-api/internal/application/validation"
	"github.com/jhoicas/AgroRegistro-api/internal/domain"
	"github.com/jhoicas/AgroRegistro-api/internal/domain/repository"
)

// FarmerUseCase el agricultor consulta y edita su propio perfil.
type FarmerUseCase struct {
	scope    *access.ScopeService
	farmers  repository.FarmerRepository
	validate *validation.Validator
}

// NewFarmerUseCase construye el caso de uso.
func NewFarmerUseCase(scope *access.ScopeService, farmers repository.FarmerRepository, validate *validation.Validator) *FarmerUseCase {
	return &FarmerUseCase{scope: scope, farmers: farmers, validate: validate}
}

// GetOwnProfile devuelve el perfil de la cuenta que actúa.
func (uc *FarmerUseCase) GetOwnProfile(ctx context.Context, actingAccountID string) (*dto.FarmerResponse, error) {
	profile, err := uc.scope.RequireOwnedProfile(ctx, actingAccountID)
	if err != nil {
		return nil, err
	}
	return ToFarmerResponse(profile, ""), nil
}

// UpdateOwnProfile modifica nombre, dirección o teléfono del perfil propio.
func (uc *FarmerUseCase) UpdateOwnProfile(ctx context.Context, actingAccountID string, in dto.UpdateFarmerProfileRequest) (*dto.FarmerResponse, error) {
	trimPtr(in.Name)
	trimPtr(in.Address)
	trimPtr(in.ContactNumber)
	if err := uc.validate.Struct(in); err != nil {
		return nil, err
	}
	profile, err := uc.scope.RequireOwnedProfile(ctx, actingAccountID)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		profile.Name = *in.Name
	}
	if in.Address != nil {
		profile.Address = *in.Address
	}
	if in.ContactNumber != nil {
		profile.ContactNumber = *in.ContactNumber
	}
	profile.UpdatedAt = time.Now()
	if err := uc.farmers.Update(ctx, profile); err != nil {
		return nil, domain.Dependency("actualizar perfil", err)
	}
	return ToFarmerResponse(profile, ""), nil
}
