package entity

import "time"

// FarmerProfile es el registro de negocio del agricultor, uno a uno con su Account.
// Solo se crea a través de la promoción; AccountID es único.
type FarmerProfile struct {
	ID            string
	AccountID     string
	Name          string
	Address       string // opcional
	ContactNumber string // opcional
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
