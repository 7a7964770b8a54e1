package dto

import "time"

// PromoteFarmerRequest entrada del empleado para designar una cuenta como agricultor.
type PromoteFarmerRequest struct {
	AccountID     string `json:"account_id" validate:"required,max=64"`
	Name          string `json:"name" validate:"required,max=100"`
	Address       string `json:"address" validate:"omitempty,max=200"`
	ContactNumber string `json:"contact_number" validate:"omitempty,max=50,phone"`
}

// UpdateFarmerProfileRequest el agricultor edita su propio perfil (campos opcionales).
type UpdateFarmerProfileRequest struct {
	Name          *string `json:"name" validate:"omitempty,min=1,max=100"`
	Address       *string `json:"address" validate:"omitempty,max=200"`
	ContactNumber *string `json:"contact_number" validate:"omitempty,max=50,phone"`
}

// FarmerResponse salida de un perfil de agricultor.
type FarmerResponse struct {
	ID            string    `json:"id"`
	AccountID     string    `json:"account_id"`
	Email         string    `json:"email,omitempty"`
	Name          string    `json:"name"`
	Address       string    `json:"address,omitempty"`
	ContactNumber string    `json:"contact_number,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// FarmerListResponse listado de agricultores ordenado por nombre.
type FarmerListResponse struct {
	Items []FarmerResponse `json:"items"`
}

// CandidateResponse cuenta elegible para promoción.
type CandidateResponse struct {
	AccountID      string `json:"account_id"`
	Email          string `json:"email"`
	EmailConfirmed bool   `json:"email_confirmed"`
}

// CandidateListResponse listado de cuentas elegibles, ordenado por email.
type CandidateListResponse struct {
	Items []CandidateResponse `json:"items"`
}

// PromotionResponse resultado de una promoción exitosa.
type PromotionResponse struct {
	Farmer FarmerResponse `json:"farmer"`
	State  string         `json:"state"`
}

// DeprovisionResponse resultado de retirar a un agricultor.
type DeprovisionResponse struct {
	FarmerID  string `json:"farmer_id"`
	AccountID string `json:"account_id"`
}

// InconsistencyResponse cuenta cuyo rol y perfil no están sincronizados.
type InconsistencyResponse struct {
	AccountID string `json:"account_id"`
	Email     string `json:"email,omitempty"`
	FarmerID  string `json:"farmer_id,omitempty"`
	Kind      string `json:"kind"`
}

// InconsistencyListResponse reporte de inconsistencias rol/perfil.
type InconsistencyListResponse struct {
	Items []InconsistencyResponse `json:"items"`
}
