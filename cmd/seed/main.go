// seed carga las cuentas y productos de demostración en PostgreSQL:
// employee@farm.com (Employee), farmer1@farm.com y farmer2@farm.com designados
// agricultores con sus productos. Todas usan la contraseña Pass123!.
//
// Uso: go run ./cmd/seed
package main

import (
	"context"
	"os"

	"github.com/jhoicas/AgroRegistro-api/internal/application/access"
	"github.com/jhoicas/AgroRegistro-api/internal/application/provisioning"
	"github.com/jhoicas/AgroRegistro-api/internal/application/seed"
	"github.com/jhoicas/AgroRegistro-api/internal/application/usecase"
	"github.com/jhoicas/AgroRegistro-api/internal/application/validation"
	"github.com/jhoicas/AgroRegistro-api/internal/infrastructure/backend"
	"github.com/jhoicas/AgroRegistro-api/pkg/config"
	"github.com/jhoicas/AgroRegistro-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})
	if cfg.Store.Driver == config.StoreDriverMemory {
		log.Error().Msg("STORE_DRIVER=memory: use SEED_ON_START=true con la API en su lugar")
		os.Exit(1)
	}

	ctx := context.Background()
	store, err := backend.Open(ctx, cfg, log.Component("backend"))
	if err != nil {
		log.Fatal().Err(err).Msg("abrir almacenamiento")
	}
	defer store.Close()

	validate := validation.New()
	scope := access.NewScopeService(store.Farmers, store.Products, store.Directory)
	seeder := seed.New(
		store.Directory, store.Farmers, store.Products,
		provisioning.NewService(store.Directory, store.Farmers, scope, validate, log.Component("provisioning")),
		usecase.NewProductUseCase(scope, store.Products, store.Farmers, store.Tx, validate, log.Component("products")),
		log.Component("seed"),
	)
	sum, err := seeder.Run(ctx, seed.DefaultFarmers)
	if err != nil {
		log.Error().Err(err).Msg("cargar datos de demostración")
		store.Close()
		os.Exit(1)
	}
	log.Info().Int("accounts", sum.Accounts).Int("farmers", sum.Farmers).Int("products", sum.Products).Msg("seed completado")
}
