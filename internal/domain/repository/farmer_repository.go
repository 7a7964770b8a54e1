package repository

import (
	"context"

	"github.com/jhoicas/AgroRegistro-api/internal/domain/entity"
)

// FarmerRepository define el puerto de persistencia para FarmerProfile (DIP).
// Los Get devuelven (nil, nil) si no hay fila.
type FarmerRepository interface {
	// Create falla con ErrDuplicate si la cuenta ya tiene perfil (índice único).
	Create(ctx context.Context, farmer *entity.FarmerProfile) error
	GetByID(ctx context.Context, id string) (*entity.FarmerProfile, error)
	GetByAccountID(ctx context.Context, accountID string) (*entity.FarmerProfile, error)
	List(ctx context.Context) ([]*entity.FarmerProfile, error)
	LinkedAccountIDs(ctx context.Context) ([]string, error)
	Update(ctx context.Context, farmer *entity.FarmerProfile) error
	// Delete elimina el perfil y en cascada sus productos.
	Delete(ctx context.Context, id string) error
}
