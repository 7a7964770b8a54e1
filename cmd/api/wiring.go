package main

import (
	"context"
	"fmt"

	"github.com/jhoicas/AgroRegistro-api/internal/application/access"
	"github.com/jhoicas/AgroRegistro-api/internal/application/auth"
	"github.com/jhoicas/AgroRegistro-api/internal/application/provisioning"
	"github.com/jhoicas/AgroRegistro-api/internal/application/seed"
	"github.com/jhoicas/AgroRegistro-api/internal/application/usecase"
	"github.com/jhoicas/AgroRegistro-api/internal/application/validation"
	"github.com/jhoicas/AgroRegistro-api/internal/infrastructure/backend"
	infrapdf "github.com/jhoicas/AgroRegistro-api/internal/infrastructure/pdf"
	httpRouter "github.com/jhoicas/AgroRegistro-api/internal/interfaces/http"
	"github.com/jhoicas/AgroRegistro-api/pkg/config"
	"github.com/jhoicas/AgroRegistro-api/pkg/logger"
)

// wire arma los casos de uso sobre el almacenamiento abierto y, si SEED_ON_START,
// carga los datos de demostración. No cierra store: eso queda a cargo de quien lo abrió.
func wire(ctx context.Context, cfg *config.Config, store *backend.Backend, log *logger.Logger) (httpRouter.RouterDeps, error) {
	validate := validation.New()
	scope := access.NewScopeService(store.Farmers, store.Products, store.Directory)
	provisioningSvc := provisioning.NewService(store.Directory, store.Farmers, scope, validate, log.Component("provisioning"))
	productUC := usecase.NewProductUseCase(scope, store.Products, store.Farmers, store.Tx, validate, log.Component("products"))
	farmerUC := usecase.NewFarmerUseCase(scope, store.Farmers, validate)
	reportUC := usecase.NewReportUseCase(scope, store.Products, store.Farmers, infrapdf.NewMarotoReportGenerator(cfg.App.Name))
	authUC := auth.NewAuthUseCase(store.Directory, store.Credentials, validate, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	if cfg.Store.SeedOnStart {
		seeder := seed.New(store.Directory, store.Farmers, store.Products, provisioningSvc, productUC, log.Component("seed"))
		if _, err := seeder.Run(ctx, seed.DefaultFarmers); err != nil {
			return httpRouter.RouterDeps{}, fmt.Errorf("cargar datos de demostración: %w", err)
		}
	}

	return httpRouter.RouterDeps{
		AuthUC:       authUC,
		ProductUC:    productUC,
		FarmerUC:     farmerUC,
		ReportUC:     reportUC,
		Provisioning: provisioningSvc,
		Scope:        scope,
		JWTSecret:    cfg.JWT.Secret,
	}, nil
}
