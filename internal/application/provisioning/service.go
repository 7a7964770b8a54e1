// Package provisioning designa cuentas como agricultores y mantiene sincronizados
// el rol Farmer del directorio y el perfil de negocio.
package provisioning

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/AgroRegistro-api/internal/application/access"
	"github.com/jhoicas/AgroRegistro-api/internal/application/dto"
	"github.com/jhoicas/AgroRegistro-api/internal/application/validation"
	"github.com/jhoicas/AgroRegistro-api/internal/domain"
	"github.com/jhoicas/AgroRegistro-api/internal/domain/entity"
	"github.com/jhoicas/AgroRegistro-api/internal/domain/repository"
)

// Tipos de inconsistencia entre rol y perfil.
const (
	KindRoleWithoutProfile = "farmer_role_without_profile"
	KindProfileWithoutRole = "profile_without_farmer_role"
)

// Inconsistency cuenta cuyo rol Farmer y perfil no coinciden.
type Inconsistency struct {
	AccountID string
	Email     string
	FarmerID  string
	Kind      string
}

// FarmerEntry perfil con el email de su cuenta.
type FarmerEntry struct {
	Profile *entity.FarmerProfile
	Email   string
}

// Service orquesta la promoción: asignar rol y luego crear perfil, con revocación compensatoria.
type Service struct {
	directory repository.AccountDirectory
	farmers   repository.FarmerRepository
	scope     *access.ScopeService
	validate  *validation.Validator
	log       zerolog.Logger
	now       func() time.Time
}

// NewService construye el servicio de aprovisionamiento.
func NewService(
	directory repository.AccountDirectory,
	farmers repository.FarmerRepository,
	scope *access.ScopeService,
	validate *validation.Validator,
	log zerolog.Logger,
) *Service {
	return &Service{
		directory: directory,
		farmers:   farmers,
		scope:     scope,
		validate:  validate,
		log:       log,
		now:       time.Now,
	}
}

// EligibleAccounts lista las cuentas que pueden ser promovidas, ordenadas por email.
func (s *Service) EligibleAccounts(ctx context.Context, actingAccountID string) ([]*entity.Account, error) {
	if err := s.scope.RequireRole(ctx, actingAccountID, entity.RoleEmployee); err != nil {
		return nil, err
	}
	all, err := s.directory.ListAccounts(ctx)
	if err != nil {
		return nil, domain.Dependency("listar cuentas", err)
	}
	employees, err := s.directory.UsersInRole(ctx, entity.RoleEmployee)
	if err != nil {
		return nil, domain.Dependency("listar empleados", err)
	}
	farmers, err := s.directory.UsersInRole(ctx, entity.RoleFarmer)
	if err != nil {
		return nil, domain.Dependency("listar agricultores", err)
	}
	linked, err := s.farmers.LinkedAccountIDs(ctx)
	if err != nil {
		return nil, domain.Dependency("listar perfiles", err)
	}
	return ComputeEligible(all, employees, farmers, linked), nil
}

// PromotionCandidate vuelve a verificar la elegibilidad de una cuenta antes de mostrar el formulario.
func (s *Service) PromotionCandidate(ctx context.Context, actingAccountID, accountID string) (*entity.Account, error) {
	if err := s.scope.RequireRole(ctx, actingAccountID, entity.RoleEmployee); err != nil {
		return nil, err
	}
	return s.checkEligible(ctx, strings.TrimSpace(accountID))
}

// checkEligible es la verificación compartida por la lectura y la escritura.
func (s *Service) checkEligible(ctx context.Context, accountID string) (*entity.Account, error) {
	if accountID == "" {
		return nil, domain.ErrNotFound
	}
	account, err := s.directory.FindByID(ctx, accountID)
	if err != nil {
		return nil, domain.Dependency("buscar cuenta", err)
	}
	if account == nil {
		return nil, domain.ErrNotFound
	}
	if account.HasRole(entity.RoleFarmer) {
		return nil, domain.ErrAlreadyFarmer
	}
	profile, err := s.farmers.GetByAccountID(ctx, accountID)
	if err != nil {
		return nil, domain.Dependency("buscar perfil", err)
	}
	if profile != nil {
		return nil, domain.ErrAlreadyFarmer
	}
	if account.HasRole(entity.RoleEmployee) {
		return nil, domain.ErrNotEligible
	}
	return account, nil
}

// Promote designa la cuenta como agricultor.
// El rol se asigna primero; si el perfil no se puede guardar, el rol se revoca.
func (s *Service) Promote(ctx context.Context, actingAccountID string, in dto.PromoteFarmerRequest) (*Result, error) {
	in.AccountID = strings.TrimSpace(in.AccountID)
	in.Name = strings.TrimSpace(in.Name)
	in.Address = strings.TrimSpace(in.Address)
	in.ContactNumber = strings.TrimSpace(in.ContactNumber)
	if err := s.validate.Struct(in); err != nil {
		return nil, err
	}
	if err := s.scope.RequireRole(ctx, actingAccountID, entity.RoleEmployee); err != nil {
		return nil, err
	}
	account, err := s.checkEligible(ctx, in.AccountID)
	if err != nil {
		return nil, err
	}

	log := s.log.With().Str("account_id", account.ID).Str("acting_account_id", actingAccountID).Logger()
	log.Info().Str("state", string(StatePromoting)).Msg("promoción iniciada")

	if err := s.directory.AddToRole(ctx, account.ID, entity.RoleFarmer); err != nil {
		if errors.Is(err, domain.ErrAlreadyInRole) {
			log.Warn().Msg("el rol Farmer fue asignado por otra operación")
			return nil, domain.ErrAlreadyFarmer
		}
		log.Error().Err(err).Str("stage", StageGrantRole).Msg("no se pudo asignar el rol")
		return nil, &PromotionError{
			AccountID: account.ID,
			Stage:     StageGrantRole,
			State:     StateEligible,
			Err:       errors.Join(domain.ErrRoleAssignment, err),
		}
	}

	now := s.now()
	profile := &entity.FarmerProfile{
		ID:            uuid.New().String(),
		AccountID:     account.ID,
		Name:          in.Name,
		Address:       in.Address,
		ContactNumber: in.ContactNumber,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.farmers.Create(ctx, profile); err != nil {
		primary := domain.Dependency("crear perfil", err)
		if errors.Is(err, domain.ErrDuplicate) {
			primary = domain.ErrAlreadyFarmer
		}
		perr := &PromotionError{
			AccountID: account.ID,
			Stage:     StageCreateProfile,
			State:     StateRolledBack,
			Err:       primary,
		}
		if rbErr := s.directory.RemoveFromRole(ctx, account.ID, entity.RoleFarmer); rbErr != nil {
			perr.RollbackErr = rbErr
			log.Error().Err(rbErr).AnErr("cause", err).
				Msg("no se pudo revocar el rol Farmer; la cuenta queda con rol y sin perfil")
		} else {
			log.Warn().Err(err).Str("state", string(StateRolledBack)).Msg("perfil no creado, rol revocado")
		}
		return nil, perr
	}

	log.Info().Str("state", string(StateFarmer)).Str("farmer_id", profile.ID).Msg("promoción completada")
	return &Result{Profile: profile, Email: account.Email, State: StateFarmer}, nil
}

// Deprovision elimina el perfil (y en cascada sus productos) y luego revoca el rol Farmer.
func (s *Service) Deprovision(ctx context.Context, actingAccountID, farmerID string) (*entity.FarmerProfile, error) {
	if err := s.scope.RequireRole(ctx, actingAccountID, entity.RoleEmployee); err != nil {
		return nil, err
	}
	profile, err := s.farmers.GetByID(ctx, farmerID)
	if err != nil {
		return nil, domain.Dependency("buscar perfil", err)
	}
	if profile == nil {
		return nil, domain.ErrNotFound
	}
	if err := s.farmers.Delete(ctx, profile.ID); err != nil {
		return nil, domain.Dependency("eliminar perfil", err)
	}
	if err := s.directory.RemoveFromRole(ctx, profile.AccountID, entity.RoleFarmer); err != nil {
		s.log.Error().Err(err).Str("account_id", profile.AccountID).
			Msg("perfil eliminado pero el rol Farmer sigue asignado")
		return nil, domain.Dependency("revocar rol", err)
	}
	s.log.Info().Str("account_id", profile.AccountID).Str("farmer_id", profile.ID).
		Str("acting_account_id", actingAccountID).Msg("agricultor retirado")
	return profile, nil
}

// ListFarmers lista los perfiles ordenados por nombre con el email de cada cuenta.
func (s *Service) ListFarmers(ctx context.Context, actingAccountID string) ([]FarmerEntry, error) {
	if err := s.scope.RequireRole(ctx, actingAccountID, entity.RoleEmployee); err != nil {
		return nil, err
	}
	profiles, err := s.farmers.List(ctx)
	if err != nil {
		return nil, domain.Dependency("listar perfiles", err)
	}
	emails, err := s.emailsByID(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]FarmerEntry, 0, len(profiles))
	for _, p := range profiles {
		out = append(out, FarmerEntry{Profile: p, Email: emails[p.AccountID]})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Profile.Name < out[j].Profile.Name })
	return out, nil
}

// Inconsistencies reporta cuentas con rol Farmer sin perfil y perfiles cuya cuenta no tiene el rol.
func (s *Service) Inconsistencies(ctx context.Context, actingAccountID string) ([]Inconsistency, error) {
	if err := s.scope.RequireRole(ctx, actingAccountID, entity.RoleEmployee); err != nil {
		return nil, err
	}
	farmers, err := s.directory.UsersInRole(ctx, entity.RoleFarmer)
	if err != nil {
		return nil, domain.Dependency("listar agricultores", err)
	}
	profiles, err := s.farmers.List(ctx)
	if err != nil {
		return nil, domain.Dependency("listar perfiles", err)
	}
	emails, err := s.emailsByID(ctx)
	if err != nil {
		return nil, err
	}

	byAccount := make(map[string]*entity.FarmerProfile, len(profiles))
	for _, p := range profiles {
		byAccount[p.AccountID] = p
	}
	withRole := make(map[string]struct{}, len(farmers))
	var out []Inconsistency
	for _, a := range farmers {
		withRole[a.ID] = struct{}{}
		if _, ok := byAccount[a.ID]; !ok {
			out = append(out, Inconsistency{AccountID: a.ID, Email: a.Email, Kind: KindRoleWithoutProfile})
		}
	}
	for _, p := range profiles {
		if _, ok := withRole[p.AccountID]; !ok {
			out = append(out, Inconsistency{
				AccountID: p.AccountID,
				Email:     emails[p.AccountID],
				FarmerID:  p.ID,
				Kind:      KindProfileWithoutRole,
			})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Email != out[j].Email {
			return out[i].Email < out[j].Email
		}
		return out[i].AccountID < out[j].AccountID
	})
	return out, nil
}

func (s *Service) emailsByID(ctx context.Context) (map[string]string, error) {
	accounts, err := s.directory.ListAccounts(ctx)
	if err != nil {
		return nil, domain.Dependency("listar cuentas", err)
	}
	emails := make(map[string]string, len(accounts))
	for _, a := range accounts {
		emails[a.ID] = a.Email
	}
	return emails, nil
}
