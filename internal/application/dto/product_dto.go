package dto

import "time"

// CreateProductRequest entrada para crear un producto.
// FarmerID se acepta en el JSON pero se descarta: el dueño siempre es el perfil del actor.
type CreateProductRequest struct {
	Name           string `json:"name" validate:"required,max=100"`
	Category       string `json:"category" validate:"required,max=50"`
	ProductionDate string `json:"production_date" validate:"required"`
	FarmerID       string `json:"farmer_id,omitempty"`
}

// UpdateProductRequest entrada para actualizar un producto (campos opcionales).
// Version es el token leído por el cliente; si falta se usa la versión actual.
type UpdateProductRequest struct {
	Name           *string `json:"name" validate:"omitempty,min=1,max=100"`
	Category       *string `json:"category" validate:"omitempty,min=1,max=50"`
	ProductionDate *string `json:"production_date"`
	FarmerID       *string `json:"farmer_id,omitempty"`
	Version        *int    `json:"version" validate:"omitempty,min=1"`
}

// ProductFilterRequest filtros de listado (query params).
type ProductFilterRequest struct {
	Category  string `query:"category" json:"category,omitempty"`
	StartDate string `query:"start_date" json:"start_date,omitempty"`
	EndDate   string `query:"end_date" json:"end_date,omitempty"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID             string    `json:"id"`
	FarmerID       string    `json:"farmer_id"`
	Name           string    `json:"name"`
	Category       string    `json:"category"`
	ProductionDate time.Time `json:"production_date"`
	Version        int       `json:"version"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// ProductListResponse lista de productos del agricultor autenticado.
type ProductListResponse struct {
	Items  []ProductResponse    `json:"items"`
	Filter ProductFilterRequest `json:"filter"`
}

// FarmerProductsResponse vista del empleado sobre los productos de un agricultor.
type FarmerProductsResponse struct {
	Farmer     FarmerResponse       `json:"farmer"`
	Items      []ProductResponse    `json:"items"`
	Categories []string             `json:"categories"`
	Filter     ProductFilterRequest `json:"filter"`
}

// DeleteProductResponse resultado de eliminar. Deleted=false significa que ya no existía.
type DeleteProductResponse struct {
	ID      string `json:"id"`
	Deleted bool   `json:"deleted"`
}

// CategoriesResponse categorías sugeridas para formularios.
type CategoriesResponse struct {
	Items []string `json:"items"`
}
