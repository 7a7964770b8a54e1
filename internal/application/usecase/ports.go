package usecase

import (
	"context"

	"github.com/jhoicas/AgroRegistro-api/internal/domain/entity"
	"github.com/jhoicas/AgroRegistro-api/internal/domain/repository"
)

// ProductTxRunner ejecuta fn dentro de una transacción con un repositorio de productos atado a ella.
// Las lecturas con GetByIDForUpdate mantienen el bloqueo de fila hasta el Commit.
type ProductTxRunner interface {
	RunProducts(ctx context.Context, fn func(products repository.ProductRepository) error) error
}

// ProductReportGenerator genera el PDF con los productos de un agricultor.
type ProductReportGenerator interface {
	GenerateProductReport(ctx context.Context, farmer *entity.FarmerProfile, products []*entity.Product, filter entity.ProductFilter) ([]byte, error)
}
