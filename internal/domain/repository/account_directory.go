package repository

import (
	"context"

	"github.com/jhoicas/AgroRegistro-api/internal/domain/entity"
)

// AccountDirectory es el puerto hacia el directorio de identidades (proveedor externo).
// Los métodos de búsqueda devuelven (nil, nil) cuando la cuenta no existe.
type AccountDirectory interface {
	FindByID(ctx context.Context, id string) (*entity.Account, error)
	FindByEmail(ctx context.Context, email string) (*entity.Account, error)
	ListAccounts(ctx context.Context) ([]*entity.Account, error)
	// CreateAccount persiste la cuenta de forma atómica. ErrEmailAlreadyExists si el email existe.
	CreateAccount(ctx context.Context, account *entity.Account, password string) error
	IsInRole(ctx context.Context, accountID, role string) (bool, error)
	UsersInRole(ctx context.Context, role string) ([]*entity.Account, error)
	// AddToRole falla con ErrAlreadyInRole si la cuenta ya tenía el rol.
	AddToRole(ctx context.Context, accountID, role string) error
	RemoveFromRole(ctx context.Context, accountID, role string) error
}

// CredentialVerifier valida credenciales contra el directorio.
// Devuelve ErrUnauthorized si el email no existe o la contraseña no coincide.
type CredentialVerifier interface {
	CheckPassword(ctx context.Context, email, password string) (*entity.Account, error)
}
