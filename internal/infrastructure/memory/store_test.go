package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/AgroRegistro-api/internal/domain"
	"github.com/jhoicas/AgroRegistro-api/internal/domain/entity"
	"github.com/jhoicas/AgroRegistro-api/internal/domain/repository"
	"github.com/jhoicas/AgroRegistro-api/internal/infrastructure/memory"
)

func newProfile(t *testing.T, s *memory.Store, accountID, name string) *entity.FarmerProfile {
	t.Helper()
	f := &entity.FarmerProfile{AccountID: accountID, Name: name}
	require.NoError(t, s.Farmers().Create(context.Background(), f))
	return f
}

func TestFarmerDelete_EliminaProductosEnCascada(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	alice := newProfile(t, s, "acc-1", "Alice Green")
	bob := newProfile(t, s, "acc-2", "Bob White")

	products := s.Products()
	for _, p := range []*entity.Product{
		{FarmerID: alice.ID, Name: "Organic Apples", Category: "Fruit", ProductionDate: time.Now()},
		{FarmerID: alice.ID, Name: "Fresh Eggs", Category: "Poultry", ProductionDate: time.Now()},
		{FarmerID: bob.ID, Name: "Whole Milk", Category: "Dairy", ProductionDate: time.Now()},
	} {
		require.NoError(t, products.Create(ctx, p))
	}

	require.NoError(t, s.Farmers().Delete(ctx, alice.ID))

	left, err := products.ListByFarmer(ctx, alice.ID, entity.ProductFilter{})
	require.NoError(t, err)
	assert.Empty(t, left, "los productos del perfil eliminado no deben sobrevivir")

	bobs, err := products.ListByFarmer(ctx, bob.ID, entity.ProductFilter{})
	require.NoError(t, err)
	assert.Len(t, bobs, 1)

	p, err := s.Farmers().GetByAccountID(ctx, "acc-1")
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestFarmerCreate_PerfilUnicoPorCuenta(t *testing.T) {
	s := memory.New()
	newProfile(t, s, "acc-1", "Alice Green")

	err := s.Farmers().Create(context.Background(), &entity.FarmerProfile{AccountID: "acc-1", Name: "Otra"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestProductCreate_SinPerfilFallaPorFK(t *testing.T) {
	s := memory.New()
	err := s.Products().Create(context.Background(), &entity.Product{FarmerID: "no-existe", Name: "X", Category: "Other"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProductUpdate_CompareAndSwapPorVersion(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	alice := newProfile(t, s, "acc-1", "Alice Green")
	p := &entity.Product{FarmerID: alice.ID, Name: "Organic Apples", Category: "Fruit", ProductionDate: time.Now()}
	require.NoError(t, s.Products().Create(ctx, p))
	require.Equal(t, 1, p.Version)

	first := *p
	first.Name = "Apples"
	require.NoError(t, s.Products().Update(ctx, &first, 1))
	assert.Equal(t, 2, first.Version)

	second := *p
	second.Name = "Pears"
	assert.ErrorIs(t, s.Products().Update(ctx, &second, 1), domain.ErrVersionMismatch)
}

func TestDirectory_RolesYCredenciales(t *testing.T) {
	ctx := context.Background()
	dir := memory.New().WithBcryptCost(bcrypt.MinCost).Directory()

	acc := &entity.Account{Email: " Farmer1@Farm.com "}
	require.NoError(t, dir.CreateAccount(ctx, acc, "Pass123!"))
	assert.Equal(t, "farmer1@farm.com", acc.Email)
	assert.ErrorIs(t, dir.CreateAccount(ctx, &entity.Account{Email: "farmer1@farm.com"}, "x"), domain.ErrEmailAlreadyExists)

	require.NoError(t, dir.AddToRole(ctx, acc.ID, entity.RoleFarmer))
	assert.ErrorIs(t, dir.AddToRole(ctx, acc.ID, entity.RoleFarmer), domain.ErrAlreadyInRole)

	ok, err := dir.IsInRole(ctx, acc.ID, entity.RoleFarmer)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, dir.RemoveFromRole(ctx, acc.ID, entity.RoleFarmer))
	ok, _ = dir.IsInRole(ctx, acc.ID, entity.RoleFarmer)
	assert.False(t, ok)

	got, err := dir.CheckPassword(ctx, "farmer1@farm.com", "Pass123!")
	require.NoError(t, err)
	assert.Equal(t, acc.ID, got.ID)

	_, err = dir.CheckPassword(ctx, "farmer1@farm.com", "mala")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestTxRunner_BorradoBajoBloqueo(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	alice := newProfile(t, s, "acc-1", "Alice Green")
	p := &entity.Product{FarmerID: alice.ID, Name: "Organic Apples", Category: "Fruit", ProductionDate: time.Now()}
	require.NoError(t, s.Products().Create(ctx, p))

	err := s.TxRunner().RunProducts(ctx, func(repo repository.ProductRepository) error {
		got, err := repo.GetByIDForUpdate(ctx, p.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		return repo.Delete(ctx, p.ID)
	})
	require.NoError(t, err)

	got, err := s.Products().GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}
