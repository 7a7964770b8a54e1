package provisioning_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/AgroRegistro-api/internal/application/access"
	"github.com/jhoicas/AgroRegistro-api/internal/application/dto"
	"github.com/jhoicas/AgroRegistro-api/internal/application/provisioning"
	"github.com/jhoicas/AgroRegistro-api/internal/application/validation"
	"github.com/jhoicas/AgroRegistro-api/internal/domain"
	"github.com/jhoicas/AgroRegistro-api/internal/domain/entity"
	"github.com/jhoicas/AgroRegistro-api/internal/domain/repository"
	"github.com/jhoicas/AgroRegistro-api/internal/infrastructure/memory"
)

var errStore = errors.New("conexión perdida")

// failingFarmers falla al crear perfiles.
type failingFarmers struct {
	repository.FarmerRepository
}

func (failingFarmers) Create(context.Context, *entity.FarmerProfile) error { return errStore }

// duplicateFarmers simula que otra promoción guardó el perfil de la misma cuenta primero.
type duplicateFarmers struct {
	repository.FarmerRepository
}

func (duplicateFarmers) Create(context.Context, *entity.FarmerProfile) error { return domain.ErrDuplicate }

// brokenDirectory puede fallar al asignar o revocar roles.
// Con grantFirst el rol sí queda asignado antes de devolver addErr, como si otra
// operación lo hubiera asignado en paralelo.
type brokenDirectory struct {
	repository.AccountDirectory
	addErr     error
	grantFirst bool
	failRemove bool
}

func (d brokenDirectory) AddToRole(ctx context.Context, accountID, role string) error {
	if d.addErr != nil {
		if d.grantFirst {
			if err := d.AccountDirectory.AddToRole(ctx, accountID, role); err != nil {
				return err
			}
		}
		return d.addErr
	}
	return d.AccountDirectory.AddToRole(ctx, accountID, role)
}

func (d brokenDirectory) RemoveFromRole(ctx context.Context, accountID, role string) error {
	if d.failRemove {
		return errStore
	}
	return d.AccountDirectory.RemoveFromRole(ctx, accountID, role)
}

type fixture struct {
	store    *memory.Store
	employee *entity.Account
	alice    *entity.Account
	bob      *entity.Account
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	s := memory.New().WithBcryptCost(bcrypt.MinCost)
	dir := s.Directory()
	mk := func(email string, roles ...string) *entity.Account {
		a := &entity.Account{Email: email, Roles: roles}
		require.NoError(t, dir.CreateAccount(ctx, a, "Pass123!"))
		return a
	}
	return &fixture{
		store:    s,
		employee: mk("employee@farm.com", entity.RoleEmployee),
		bob:      mk("bob@farm.com"),
		alice:    mk("alice@farm.com"),
	}
}

func (f *fixture) service(dir repository.AccountDirectory, farmers repository.FarmerRepository) *provisioning.Service {
	if dir == nil {
		dir = f.store.Directory()
	}
	if farmers == nil {
		farmers = f.store.Farmers()
	}
	scope := access.NewScopeService(farmers, f.store.Products(), dir)
	return provisioning.NewService(dir, farmers, scope, validation.New(), zerolog.Nop())
}

func promoteReq(accountID string) dto.PromoteFarmerRequest {
	return dto.PromoteFarmerRequest{AccountID: accountID, Name: "Alice Green", Address: "Farm Rd 1", ContactNumber: "555-1111"}
}

func TestPromote_CuentaElegible(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	svc := f.service(nil, nil)

	res, err := svc.Promote(ctx, f.employee.ID, promoteReq(f.alice.ID))
	require.NoError(t, err)
	assert.Equal(t, provisioning.StateFarmer, res.State)
	assert.Equal(t, f.alice.ID, res.Profile.AccountID)
	assert.Equal(t, "alice@farm.com", res.Email)

	isFarmer, err := f.store.Directory().IsInRole(ctx, f.alice.ID, entity.RoleFarmer)
	require.NoError(t, err)
	assert.True(t, isFarmer)

	profile, err := f.store.Farmers().GetByAccountID(ctx, f.alice.ID)
	require.NoError(t, err)
	require.NotNil(t, profile)
	assert.Equal(t, "Alice Green", profile.Name)

	eligible, err := svc.EligibleAccounts(ctx, f.employee.ID)
	require.NoError(t, err)
	require.Len(t, eligible, 1)
	assert.Equal(t, f.bob.ID, eligible[0].ID)
}

func TestPromote_SegundaVezEsConflicto(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	svc := f.service(nil, nil)

	_, err := svc.Promote(ctx, f.employee.ID, promoteReq(f.alice.ID))
	require.NoError(t, err)

	_, err = svc.Promote(ctx, f.employee.ID, promoteReq(f.alice.ID))
	assert.ErrorIs(t, err, domain.ErrAlreadyFarmer)
	assert.ErrorIs(t, err, domain.ErrConflict)

	list, err := f.store.Farmers().List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1, "no debe crearse un segundo perfil")
}

func TestPromote_EmpleadoNoEsElegible(t *testing.T) {
	f := newFixture(t)
	_, err := f.service(nil, nil).Promote(context.Background(), f.employee.ID, promoteReq(f.employee.ID))
	assert.ErrorIs(t, err, domain.ErrNotEligible)
}

func TestPromote_CuentaInexistente(t *testing.T) {
	f := newFixture(t)
	_, err := f.service(nil, nil).Promote(context.Background(), f.employee.ID, promoteReq("no-existe"))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPromote_ActorSinRolEmployee(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	_, err := f.service(nil, nil).Promote(ctx, f.bob.ID, promoteReq(f.alice.ID))
	assert.ErrorIs(t, err, domain.ErrForbidden)

	isFarmer, _ := f.store.Directory().IsInRole(ctx, f.alice.ID, entity.RoleFarmer)
	assert.False(t, isFarmer)
}

func TestPromote_ValidacionAntesDeMutar(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	req := promoteReq(f.alice.ID)
	req.Name = "   "

	_, err := f.service(nil, nil).Promote(ctx, f.employee.ID, req)
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "required", verr.Fields["name"])

	isFarmer, _ := f.store.Directory().IsInRole(ctx, f.alice.ID, entity.RoleFarmer)
	assert.False(t, isFarmer)
}

func TestPromote_FallaPerfilRevocaRol(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	svc := f.service(nil, failingFarmers{f.store.Farmers()})

	_, err := svc.Promote(ctx, f.employee.ID, promoteReq(f.alice.ID))
	require.Error(t, err)

	var perr *provisioning.PromotionError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, provisioning.StageCreateProfile, perr.Stage)
	assert.Equal(t, provisioning.StateRolledBack, perr.State)
	assert.NoError(t, perr.RollbackErr)
	assert.ErrorIs(t, err, domain.ErrDependency)
	assert.ErrorIs(t, err, errStore)

	isFarmer, _ := f.store.Directory().IsInRole(ctx, f.alice.ID, entity.RoleFarmer)
	assert.False(t, isFarmer, "el rol asignado debe revocarse")

	eligible, err := f.service(nil, nil).EligibleAccounts(ctx, f.employee.ID)
	require.NoError(t, err)
	assert.Len(t, eligible, 2, "la cuenta vuelve a ser elegible")
}

func TestPromote_FallaRevocacionConservaCausaPrincipal(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	dir := brokenDirectory{AccountDirectory: f.store.Directory(), failRemove: true}
	svc := f.service(dir, failingFarmers{f.store.Farmers()})

	_, err := svc.Promote(ctx, f.employee.ID, promoteReq(f.alice.ID))

	var perr *provisioning.PromotionError
	require.ErrorAs(t, err, &perr)
	assert.ErrorIs(t, perr.RollbackErr, errStore)
	assert.ErrorIs(t, err, domain.ErrDependency, "la causa principal decide la clasificación")

	report, err := f.service(nil, nil).Inconsistencies(ctx, f.employee.ID)
	require.NoError(t, err)
	require.Len(t, report, 1)
	assert.Equal(t, provisioning.KindRoleWithoutProfile, report[0].Kind)
	assert.Equal(t, f.alice.ID, report[0].AccountID)
}

func TestPromote_FallaAsignacionDeRol(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	dir := brokenDirectory{AccountDirectory: f.store.Directory(), addErr: errStore}

	_, err := f.service(dir, nil).Promote(ctx, f.employee.ID, promoteReq(f.alice.ID))
	assert.ErrorIs(t, err, domain.ErrRoleAssignment)

	profile, _ := f.store.Farmers().GetByAccountID(ctx, f.alice.ID)
	assert.Nil(t, profile, "sin rol no se crea perfil")
}

func TestPromote_CuentaBorradaAntesDeAsignarRol(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	dir := brokenDirectory{AccountDirectory: f.store.Directory(), addErr: domain.ErrNotFound}

	_, err := f.service(dir, nil).Promote(ctx, f.employee.ID, promoteReq(f.alice.ID))
	assert.ErrorIs(t, err, domain.ErrRoleAssignment)
}

func TestPromote_RolAsignadoEnParaleloEsYaAgricultor(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	dir := brokenDirectory{AccountDirectory: f.store.Directory(), addErr: domain.ErrAlreadyInRole, grantFirst: true}

	_, err := f.service(dir, nil).Promote(ctx, f.employee.ID, promoteReq(f.alice.ID))
	assert.ErrorIs(t, err, domain.ErrAlreadyFarmer)
	assert.NotErrorIs(t, err, domain.ErrRoleAssignment)

	profiles, err := f.store.Farmers().List(ctx)
	require.NoError(t, err)
	assert.Empty(t, profiles, "no se crea perfil")

	isFarmer, err := f.store.Directory().IsInRole(ctx, f.alice.ID, entity.RoleFarmer)
	require.NoError(t, err)
	assert.True(t, isFarmer, "el rol de la otra operación no se toca")
}

func TestPromote_PerfilDuplicadoRevocaRol(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.service(nil, duplicateFarmers{f.store.Farmers()}).Promote(ctx, f.employee.ID, promoteReq(f.alice.ID))
	assert.ErrorIs(t, err, domain.ErrAlreadyFarmer)
	assert.NotErrorIs(t, err, domain.ErrDependency)

	var perr *provisioning.PromotionError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, provisioning.StageCreateProfile, perr.Stage)
	assert.Equal(t, provisioning.StateRolledBack, perr.State)
	assert.NoError(t, perr.RollbackErr)

	profiles, err := f.store.Farmers().List(ctx)
	require.NoError(t, err)
	assert.Empty(t, profiles)

	isFarmer, err := f.store.Directory().IsInRole(ctx, f.alice.ID, entity.RoleFarmer)
	require.NoError(t, err)
	assert.False(t, isFarmer, "el rol asignado se revoca")
}

func TestPromotionCandidate(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	svc := f.service(nil, nil)

	acc, err := svc.PromotionCandidate(ctx, f.employee.ID, f.bob.ID)
	require.NoError(t, err)
	assert.Equal(t, "bob@farm.com", acc.Email)

	_, err = svc.Promote(ctx, f.employee.ID, promoteReq(f.bob.ID))
	require.NoError(t, err)
	_, err = svc.PromotionCandidate(ctx, f.employee.ID, f.bob.ID)
	assert.ErrorIs(t, err, domain.ErrAlreadyFarmer)
}

func TestDeprovision_BorraPerfilProductosYRol(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	svc := f.service(nil, nil)
	res, err := svc.Promote(ctx, f.employee.ID, promoteReq(f.alice.ID))
	require.NoError(t, err)
	require.NoError(t, f.store.Products().Create(ctx, &entity.Product{
		FarmerID: res.Profile.ID, Name: "Organic Apples", Category: "Fruit", ProductionDate: time.Now(),
	}))

	_, err = svc.Deprovision(ctx, f.employee.ID, res.Profile.ID)
	require.NoError(t, err)

	left, err := f.store.Products().ListByFarmer(ctx, res.Profile.ID, entity.ProductFilter{})
	require.NoError(t, err)
	assert.Empty(t, left)
	isFarmer, _ := f.store.Directory().IsInRole(ctx, f.alice.ID, entity.RoleFarmer)
	assert.False(t, isFarmer)

	_, err = svc.Deprovision(ctx, f.employee.ID, res.Profile.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListFarmers_OrdenPorNombreConEmail(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	svc := f.service(nil, nil)
	b := promoteReq(f.bob.ID)
	b.Name = "Bob White"
	_, err := svc.Promote(ctx, f.employee.ID, b)
	require.NoError(t, err)
	_, err = svc.Promote(ctx, f.employee.ID, promoteReq(f.alice.ID))
	require.NoError(t, err)

	list, err := svc.ListFarmers(ctx, f.employee.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Alice Green", list[0].Profile.Name)
	assert.Equal(t, "alice@farm.com", list[0].Email)
	assert.Equal(t, "Bob White", list[1].Profile.Name)

	_, err = svc.ListFarmers(ctx, f.bob.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestComputeEligible(t *testing.T) {
	acc := func(id, email string) *entity.Account { return &entity.Account{ID: id, Email: email} }
	all := []*entity.Account{acc("1", "zed@x.com"), acc("2", "emp@x.com"), acc("3", "farm@x.com"), acc("4", "linked@x.com"), acc("5", "amy@x.com")}

	got := provisioning.ComputeEligible(all, []*entity.Account{all[1]}, []*entity.Account{all[2]}, []string{"4"})

	require.Len(t, got, 2)
	assert.Equal(t, "amy@x.com", got[0].Email)
	assert.Equal(t, "zed@x.com", got[1].Email)
}
