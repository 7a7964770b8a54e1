package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/AgroRegistro-api/internal/domain/entity"
	"github.com/jhoicas/AgroRegistro-api/internal/infrastructure/backend"
	"github.com/jhoicas/AgroRegistro-api/internal/infrastructure/memory"
	"github.com/jhoicas/AgroRegistro-api/pkg/config"
	"github.com/jhoicas/AgroRegistro-api/pkg/logger"
)

func testConfig(seedOnStart bool) *config.Config {
	cfg := &config.Config{}
	cfg.App.Name = "agro-registro-test"
	cfg.JWT.Secret = "secret-de-prueba"
	cfg.JWT.Expiration = 60
	cfg.Store.Driver = config.StoreDriverMemory
	cfg.Store.SeedOnStart = seedOnStart
	return cfg
}

func TestWire_SeedOnStart(t *testing.T) {
	ctx := context.Background()
	s := memory.New().WithBcryptCost(bcrypt.MinCost)

	deps, err := wire(ctx, testConfig(true), backend.Memory(s), logger.Nop())
	require.NoError(t, err)
	require.NotNil(t, deps.ProductUC)
	assert.Equal(t, "secret-de-prueba", deps.JWTSecret)

	acc, err := s.Directory().FindByEmail(ctx, "farmer1@farm.com")
	require.NoError(t, err)
	require.NotNil(t, acc)
	assert.True(t, acc.HasRole(entity.RoleFarmer))
}

func TestWire_FallaDelSeedSeDevuelveComoError(t *testing.T) {
	ctx := context.Background()
	s := memory.New().WithBcryptCost(bcrypt.MinCost)
	// Un empleado con el email de un agricultor de demostración no es elegible.
	blocked := &entity.Account{Email: "farmer1@farm.com", Roles: []string{entity.RoleEmployee}}
	require.NoError(t, s.Directory().CreateAccount(ctx, blocked, "Pass123!"))

	_, err := wire(ctx, testConfig(true), backend.Memory(s), logger.Nop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "farmer1@farm.com")
}
