package repository

import (
	"context"

	"github.com/jhoicas/AgroRegistro-api/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
type ProductRepository interface {
	// Create falla con ErrNotFound si FarmerID no referencia un perfil existente.
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	// GetByIDForUpdate bloquea la fila hasta el fin de la transacción (solo dentro de TxRunner).
	GetByIDForUpdate(ctx context.Context, id string) (*entity.Product, error)
	// Update escribe si la versión almacenada es expectedVersion e incrementa Version.
	// Devuelve ErrVersionMismatch si ninguna fila coincidió.
	Update(ctx context.Context, product *entity.Product, expectedVersion int) error
	ListByFarmer(ctx context.Context, farmerID string, filter entity.ProductFilter) ([]*entity.Product, error)
	Categories(ctx context.Context, farmerID string) ([]string, error)
	Delete(ctx context.Context, id string) error
}
