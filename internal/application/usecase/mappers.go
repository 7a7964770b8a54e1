package usecase

import (
	"github.com/jhoicas/AgroRegistro-api/internal/application/dto"
	"github.com/jhoicas/AgroRegistro-api/internal/domain"
	"github.com/jhoicas/AgroRegistro-api/internal/domain/entity"
)

// ParseFilter convierte los query params en un filtro. Las fechas mal formadas son error de validación.
func ParseFilter(in dto.ProductFilterRequest) (entity.ProductFilter, error) {
	f := entity.ProductFilter{Category: in.Category}
	if in.StartDate != "" {
		t, err := dto.ParseDate(in.StartDate)
		if err != nil {
			return f, domain.NewValidationError("start_date", "date")
		}
		f.StartDate = &t
	}
	if in.EndDate != "" {
		t, err := dto.ParseDate(in.EndDate)
		if err != nil {
			return f, domain.NewValidationError("end_date", "date")
		}
		f.EndDate = &t
	}
	return f.Normalized(), nil
}

func filterToDTO(f entity.ProductFilter) dto.ProductFilterRequest {
	out := dto.ProductFilterRequest{Category: f.Category}
	if f.StartDate != nil {
		out.StartDate = f.StartDate.Format(dto.DateLayout)
	}
	if f.EndDate != nil {
		out.EndDate = f.EndDate.Format(dto.DateLayout)
	}
	return out
}

// ToProductResponse convierte la entidad a DTO.
func ToProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	return &dto.ProductResponse{
		ID:             p.ID,
		FarmerID:       p.FarmerID,
		Name:           p.Name,
		Category:       p.Category,
		ProductionDate: p.ProductionDate,
		Version:        p.Version,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

func toProductResponses(list []*entity.Product) []dto.ProductResponse {
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *ToProductResponse(p))
	}
	return items
}

// ToFarmerResponse convierte el perfil a DTO; email puede ir vacío.
func ToFarmerResponse(f *entity.FarmerProfile, email string) *dto.FarmerResponse {
	if f == nil {
		return nil
	}
	return &dto.FarmerResponse{
		ID:            f.ID,
		AccountID:     f.AccountID,
		Email:         email,
		Name:          f.Name,
		Address:       f.Address,
		ContactNumber: f.ContactNumber,
		CreatedAt:     f.CreatedAt,
		UpdatedAt:     f.UpdatedAt,
	}
}
