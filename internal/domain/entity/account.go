package entity

import "time"

// Roles válidos para Account.
const (
	RoleEmployee = "Employee"
	RoleFarmer   = "Farmer"
)

// Account representa una identidad del directorio de cuentas.
// La identidad es inmutable; el conjunto de roles y la confirmación de email cambian.
type Account struct {
	ID             string
	Email          string
	EmailConfirmed bool
	Roles          []string
	CreatedAt      time.Time
}

// HasRole informa si la cuenta tenía el rol cuando se leyó del directorio.
func (a *Account) HasRole(role string) bool {
	for _, r := range a.Roles {
		if r == role {
			return true
		}
	}
	return false
}
