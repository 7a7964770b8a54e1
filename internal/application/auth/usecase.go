package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/AgroRegistro-api/internal/application/dto"
	"github.com/jhoicas/AgroRegistro-api/internal/application/validation"
	"github.com/jhoicas/AgroRegistro-api/internal/domain"
	"github.com/jhoicas/AgroRegistro-api/internal/domain/entity"
	"github.com/jhoicas/AgroRegistro-api/internal/domain/repository"
	"github.com/jhoicas/AgroRegistro-api/pkg/jwt"
)

// Rutas de inicio según rol.
const (
	LandingEmployee = "/employee/farmers"
	LandingFarmer   = "/farmer/products"
	LandingDefault  = "/"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase casos de uso de autenticación: registro, login y cuenta actual.
type AuthUseCase struct {
	directory   repository.AccountDirectory
	credentials repository.CredentialVerifier
	validate    *validation.Validator
	jwtCfg      JWTConfig
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(
	directory repository.AccountDirectory,
	credentials repository.CredentialVerifier,
	validate *validation.Validator,
	jwtCfg JWTConfig,
) *AuthUseCase {
	return &AuthUseCase{directory: directory, credentials: credentials, validate: validate, jwtCfg: jwtCfg}
}

// Register crea una cuenta sin roles: queda elegible para ser promovida a agricultor.
func (uc *AuthUseCase) Register(ctx context.Context, in dto.RegisterRequest) (*dto.AccountResponse, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := uc.validate.Struct(in); err != nil {
		return nil, err
	}
	account := &entity.Account{
		ID:        uuid.New().String(),
		Email:     in.Email,
		CreatedAt: time.Now(),
	}
	if err := uc.directory.CreateAccount(ctx, account, in.Password); err != nil {
		if errors.Is(err, domain.ErrEmailAlreadyExists) {
			return nil, err
		}
		return nil, domain.Dependency("crear cuenta", err)
	}
	return ToAccountResponse(account), nil
}

// Login verifica credenciales y emite un JWT con la identidad de la cuenta.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	in.Email = strings.TrimSpace(in.Email)
	if err := uc.validate.Struct(in); err != nil {
		return nil, err
	}
	account, err := uc.credentials.CheckPassword(ctx, in.Email, in.Password)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			return nil, err
		}
		return nil, domain.Dependency("verificar credenciales", err)
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, account.ID, account.Email, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{Token: token, Account: *ToAccountResponse(account)}, nil
}

// Me devuelve la cuenta con sus roles leídos del directorio en este momento.
func (uc *AuthUseCase) Me(ctx context.Context, accountID string) (*dto.MeResponse, error) {
	account, err := uc.directory.FindByID(ctx, accountID)
	if err != nil {
		return nil, domain.Dependency("buscar cuenta", err)
	}
	if account == nil {
		return nil, domain.ErrUnauthorized
	}
	return &dto.MeResponse{Account: *ToAccountResponse(account), Landing: Landing(account)}, nil
}

// Landing elige la ruta de inicio: Employee tiene prioridad sobre Farmer.
func Landing(account *entity.Account) string {
	switch {
	case account.HasRole(entity.RoleEmployee):
		return LandingEmployee
	case account.HasRole(entity.RoleFarmer):
		return LandingFarmer
	default:
		return LandingDefault
	}
}

// ToAccountResponse convierte la entidad a DTO.
func ToAccountResponse(a *entity.Account) *dto.AccountResponse {
	if a == nil {
		return nil
	}
	roles := a.Roles
	if roles == nil {
		roles = []string{}
	}
	return &dto.AccountResponse{
		ID:             a.ID,
		Email:          a.Email,
		EmailConfirmed: a.EmailConfirmed,
		Roles:          roles,
		CreatedAt:      a.CreatedAt,
	}
}
