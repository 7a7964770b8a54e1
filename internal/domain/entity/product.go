package entity

import "time"

// Product es un producto agrícola registrado por un agricultor.
// FarmerID siempre es el perfil del actor que lo creó; Version es el token de concurrencia optimista.
type Product struct {
	ID             string
	FarmerID       string
	Name           string
	Category       string
	ProductionDate time.Time
	Version        int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
