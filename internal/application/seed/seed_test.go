package seed_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/AgroRegistro-api/internal/application/access"
	"github.com/jhoicas/AgroRegistro-api/internal/application/provisioning"
	"github.com/jhoicas/AgroRegistro-api/internal/application/seed"
	"github.com/jhoicas/AgroRegistro-api/internal/application/usecase"
	"github.com/jhoicas/AgroRegistro-api/internal/application/validation"
	"github.com/jhoicas/AgroRegistro-api/internal/domain/entity"
	"github.com/jhoicas/AgroRegistro-api/internal/infrastructure/memory"
)

func newSeeder(s *memory.Store) *seed.Seeder {
	v := validation.New()
	dir := s.Directory()
	scope := access.NewScopeService(s.Farmers(), s.Products(), dir)
	return seed.New(
		dir, s.Farmers(), s.Products(),
		provisioning.NewService(dir, s.Farmers(), scope, v, zerolog.Nop()),
		usecase.NewProductUseCase(scope, s.Products(), s.Farmers(), s.TxRunner(), v, zerolog.Nop()),
		zerolog.Nop(),
	)
}

func TestSeed_CargaDatosDeDemostracion(t *testing.T) {
	ctx := context.Background()
	s := memory.New().WithBcryptCost(bcrypt.MinCost)

	sum, err := newSeeder(s).Run(ctx, seed.DefaultFarmers)
	require.NoError(t, err)
	assert.Equal(t, seed.Summary{Accounts: 3, Farmers: 2, Products: 6}, sum)

	employee, err := s.Directory().FindByEmail(ctx, seed.EmployeeEmail)
	require.NoError(t, err)
	assert.True(t, employee.HasRole(entity.RoleEmployee))

	alice, err := s.Directory().CheckPassword(ctx, "farmer1@farm.com", seed.DefaultPassword)
	require.NoError(t, err)
	assert.True(t, alice.HasRole(entity.RoleFarmer))

	profile, err := s.Farmers().GetByAccountID(ctx, alice.ID)
	require.NoError(t, err)
	require.NotNil(t, profile)
	assert.Equal(t, "Alice Green", profile.Name)

	products, err := s.Products().ListByFarmer(ctx, profile.ID, entity.ProductFilter{})
	require.NoError(t, err)
	assert.Len(t, products, 3)
}

func TestSeed_Idempotente(t *testing.T) {
	ctx := context.Background()
	s := memory.New().WithBcryptCost(bcrypt.MinCost)

	_, err := newSeeder(s).Run(ctx, seed.DefaultFarmers)
	require.NoError(t, err)

	sum, err := newSeeder(s).Run(ctx, seed.DefaultFarmers)
	require.NoError(t, err)
	assert.Equal(t, seed.Summary{}, sum)

	accounts, err := s.Directory().ListAccounts(ctx)
	require.NoError(t, err)
	assert.Len(t, accounts, 3)
}
