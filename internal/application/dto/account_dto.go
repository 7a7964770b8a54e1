package dto

import "time"

// RegisterRequest entrada para registro: la cuenta nace sin roles y queda elegible para promoción.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email,max=256"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

// LoginRequest entrada para login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AccountResponse salida de una cuenta (sin credenciales).
type AccountResponse struct {
	ID             string    `json:"id"`
	Email          string    `json:"email"`
	EmailConfirmed bool      `json:"email_confirmed"`
	Roles          []string  `json:"roles"`
	CreatedAt      time.Time `json:"created_at"`
}

// LoginResponse salida con token JWT.
type LoginResponse struct {
	Token   string          `json:"token"`
	Account AccountResponse `json:"account"`
}

// MeResponse cuenta autenticada con sus roles vigentes y la ruta de inicio según rol.
type MeResponse struct {
	Account AccountResponse `json:"account"`
	Landing string          `json:"landing"`
}
