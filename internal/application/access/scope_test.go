package access_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/AgroRegistro-api/internal/application/access"
	"github.com/jhoicas/AgroRegistro-api/internal/domain"
	"github.com/jhoicas/AgroRegistro-api/internal/domain/entity"
	"github.com/jhoicas/AgroRegistro-api/internal/infrastructure/memory"
)

func setup(t *testing.T) (*memory.Store, *access.ScopeService) {
	t.Helper()
	s := memory.New().WithBcryptCost(bcrypt.MinCost)
	return s, access.NewScopeService(s.Farmers(), s.Products(), s.Directory())
}

func account(t *testing.T, s *memory.Store, email string, roles ...string) *entity.Account {
	t.Helper()
	a := &entity.Account{Email: email, Roles: roles}
	require.NoError(t, s.Directory().CreateAccount(context.Background(), a, "Pass123!"))
	return a
}

func TestResolveOwnedProfile(t *testing.T) {
	ctx := context.Background()
	s, scope := setup(t)
	acc := account(t, s, "farmer1@farm.com", entity.RoleFarmer)
	profile := &entity.FarmerProfile{AccountID: acc.ID, Name: "Alice Green"}
	require.NoError(t, s.Farmers().Create(ctx, profile))

	got, err := scope.ResolveOwnedProfile(ctx, acc.ID)
	require.NoError(t, err)
	assert.Equal(t, profile.ID, got.ID)

	_, err = scope.ResolveOwnedProfile(ctx, "otra")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestIsOwned(t *testing.T) {
	ctx := context.Background()
	s, scope := setup(t)
	a := account(t, s, "farmer1@farm.com", entity.RoleFarmer)
	b := account(t, s, "farmer2@farm.com", entity.RoleFarmer)
	pa := &entity.FarmerProfile{AccountID: a.ID, Name: "Alice Green"}
	pb := &entity.FarmerProfile{AccountID: b.ID, Name: "Bob White"}
	require.NoError(t, s.Farmers().Create(ctx, pa))
	require.NoError(t, s.Farmers().Create(ctx, pb))
	p := &entity.Product{FarmerID: pa.ID, Name: "Organic Apples", Category: "Fruit", ProductionDate: time.Now()}
	require.NoError(t, s.Products().Create(ctx, p))

	owned, err := scope.IsOwned(ctx, a.ID, p.ID)
	require.NoError(t, err)
	assert.True(t, owned)

	owned, err = scope.IsOwned(ctx, b.ID, p.ID)
	require.NoError(t, err)
	assert.False(t, owned)

	owned, err = scope.IsOwned(ctx, a.ID, "no-existe")
	require.NoError(t, err)
	assert.False(t, owned)

	owned, err = scope.IsOwned(ctx, "sin-perfil", p.ID)
	require.NoError(t, err)
	assert.False(t, owned)
}

func TestRequireOwnedProfile_DistingueEstadoInconsistente(t *testing.T) {
	ctx := context.Background()
	s, scope := setup(t)
	plain := account(t, s, "nobody@farm.com")
	orphan := account(t, s, "orphan@farm.com", entity.RoleFarmer)

	_, err := scope.RequireOwnedProfile(ctx, plain.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = scope.RequireOwnedProfile(ctx, orphan.ID)
	assert.ErrorIs(t, err, domain.ErrFarmerProfileMissing)

	_, err = scope.RequireOwnedProfile(ctx, "")
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestRequireRole_ConsultaElDirectorioEnCadaLlamada(t *testing.T) {
	ctx := context.Background()
	s, scope := setup(t)
	emp := account(t, s, "employee@farm.com", entity.RoleEmployee)

	require.NoError(t, scope.RequireRole(ctx, emp.ID, entity.RoleEmployee))

	require.NoError(t, s.Directory().RemoveFromRole(ctx, emp.ID, entity.RoleEmployee))
	assert.ErrorIs(t, scope.RequireRole(ctx, emp.ID, entity.RoleEmployee), domain.ErrForbidden)

	ok, err := scope.HasRole(ctx, emp.ID, entity.RoleEmployee)
	require.NoError(t, err)
	assert.False(t, ok)
}
