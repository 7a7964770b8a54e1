// Package backend abre el almacenamiento configurado (PostgreSQL o memoria)
// y expone los adaptadores que consumen los casos de uso.
package backend

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/jhoicas/AgroRegistro-api/internal/application/usecase"
	"github.com/jhoicas/AgroRegistro-api/internal/domain/repository"
	"github.com/jhoicas/AgroRegistro-api/internal/infrastructure/memory"
	"github.com/jhoicas/AgroRegistro-api/internal/infrastructure/postgres"
	"github.com/jhoicas/AgroRegistro-api/pkg/config"
)

// Backend adaptadores de persistencia y directorio.
type Backend struct {
	Directory   repository.AccountDirectory
	Credentials repository.CredentialVerifier
	Farmers     repository.FarmerRepository
	Products    repository.ProductRepository
	Tx          usecase.ProductTxRunner

	close func()
}

// Close libera el pool de conexiones, si lo hay.
func (b *Backend) Close() {
	if b.close != nil {
		b.close()
	}
}

// Open conecta con el driver de cfg.Store. Con PostgreSQL aplica las migraciones si DB_AUTO_MIGRATE.
func Open(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Backend, error) {
	switch cfg.Store.Driver {
	case config.StoreDriverMemory:
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
		return Memory(memory.New()), nil
	case config.StoreDriverPostgres:
		if cfg.DB.AutoMigrate {
			if err := postgres.ApplyMigrations(ctx, cfg.DB.ConnectionString()); err != nil {
				return nil, fmt.Errorf("migraciones: %w", err)
			}
			log.Info().Msg("migraciones aplicadas")
		}
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
		}
		directory := postgres.NewAccountDirectory(pool)
		return &Backend{
			Directory:   directory,
			Credentials: directory,
			Farmers:     postgres.NewFarmerRepository(pool),
			Products:    postgres.NewProductRepository(pool),
			Tx:          postgres.NewTxRunner(pool),
			close:       pool.Close,
		}, nil
	default:
		return nil, fmt.Errorf("driver de almacenamiento desconocido: %q", cfg.Store.Driver)
	}
}

// Memory envuelve un almacén en memoria.
func Memory(s *memory.Store) *Backend {
	directory := s.Directory()
	return &Backend{
		Directory:   directory,
		Credentials: directory,
		Farmers:     s.Farmers(),
		Products:    s.Products(),
		Tx:          s.TxRunner(),
	}
}
