package usecase

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/AgroRegistro-api/internal/application/access"
	"github.com/jhoicas/AgroRegistro-api/internal/application/dto"
	"github.com/jhoicas/AgroRegistro-api/internal/application/validation"
	"github.com/jhoicas/AgroRegistro-api/internal/domain"
	"github.com/jhoicas/AgroRegistro-api/internal/domain/entity"
	"github.com/jhoicas/AgroRegistro-api/internal/domain/repository"
)

// ProductUseCase ciclo de vida de productos. Toda operación recibe la cuenta que actúa
// y el dueño siempre es el perfil resuelto de esa cuenta.
type ProductUseCase struct {
	scope    *access.ScopeService
	products repository.ProductRepository
	farmers  repository.FarmerRepository
	tx       ProductTxRunner
	validate *validation.Validator
	log      zerolog.Logger
	now      func() time.Time
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(
	scope *access.ScopeService,
	products repository.ProductRepository,
	farmers repository.FarmerRepository,
	tx ProductTxRunner,
	validate *validation.Validator,
	log zerolog.Logger,
) *ProductUseCase {
	return &ProductUseCase{
		scope:    scope,
		products: products,
		farmers:  farmers,
		tx:       tx,
		validate: validate,
		log:      log,
		now:      time.Now,
	}
}

// Create registra un producto del agricultor que actúa. El FarmerID del cliente se ignora.
func (uc *ProductUseCase) Create(ctx context.Context, actingAccountID string, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Category = strings.TrimSpace(in.Category)
	in.ProductionDate = strings.TrimSpace(in.ProductionDate)
	if err := uc.validate.Struct(in); err != nil {
		return nil, err
	}
	date, err := dto.ParseDate(in.ProductionDate)
	if err != nil {
		return nil, domain.NewValidationError("production_date", "date")
	}
	profile, err := uc.scope.RequireOwnedProfile(ctx, actingAccountID)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	product := &entity.Product{
		ID:             uuid.New().String(),
		FarmerID:       profile.ID,
		Name:           in.Name,
		Category:       entity.NormalizeCategory(in.Category),
		ProductionDate: date,
		Version:        1,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := uc.products.Create(ctx, product); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// El perfil desapareció entre la resolución y la inserción.
			return nil, domain.ErrForbidden
		}
		return nil, domain.Dependency("crear producto", err)
	}
	return ToProductResponse(product), nil
}

// Get devuelve un producto propio. ErrNotFound si no existe, ErrForbidden si es de otro agricultor.
func (uc *ProductUseCase) Get(ctx context.Context, actingAccountID, productID string) (*dto.ProductResponse, error) {
	profile, err := uc.scope.RequireOwnedProfile(ctx, actingAccountID)
	if err != nil {
		return nil, err
	}
	product, err := uc.products.GetByID(ctx, productID)
	if err != nil {
		return nil, domain.Dependency("leer producto", err)
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if product.FarmerID != profile.ID {
		uc.denied(actingAccountID, productID, "get")
		return nil, domain.ErrForbidden
	}
	return ToProductResponse(product), nil
}

// ListOwn lista los productos del agricultor que actúa aplicando el filtro.
func (uc *ProductUseCase) ListOwn(ctx context.Context, actingAccountID string, in dto.ProductFilterRequest) (*dto.ProductListResponse, error) {
	filter, err := ParseFilter(in)
	if err != nil {
		return nil, err
	}
	profile, err := uc.scope.RequireOwnedProfile(ctx, actingAccountID)
	if err != nil {
		return nil, err
	}
	list, err := uc.products.ListByFarmer(ctx, profile.ID, filter)
	if err != nil {
		return nil, domain.Dependency("listar productos", err)
	}
	return &dto.ProductListResponse{Items: toProductResponses(list), Filter: filterToDTO(filter)}, nil
}

// ListForFarmer vista de solo lectura del empleado sobre un agricultor concreto,
// con sus categorías distintas para los filtros.
func (uc *ProductUseCase) ListForFarmer(ctx context.Context, actingAccountID, farmerID string, in dto.ProductFilterRequest) (*dto.FarmerProductsResponse, error) {
	if err := uc.scope.RequireRole(ctx, actingAccountID, entity.RoleEmployee); err != nil {
		return nil, err
	}
	filter, err := ParseFilter(in)
	if err != nil {
		return nil, err
	}
	farmer, err := uc.farmers.GetByID(ctx, farmerID)
	if err != nil {
		return nil, domain.Dependency("leer perfil", err)
	}
	if farmer == nil {
		return nil, domain.ErrNotFound
	}
	list, err := uc.products.ListByFarmer(ctx, farmer.ID, filter)
	if err != nil {
		return nil, domain.Dependency("listar productos", err)
	}
	categories, err := uc.products.Categories(ctx, farmer.ID)
	if err != nil {
		return nil, domain.Dependency("listar categorías", err)
	}
	return &dto.FarmerProductsResponse{
		Farmer:     *ToFarmerResponse(farmer, ""),
		Items:      toProductResponses(list),
		Categories: categories,
		Filter:     filterToDTO(filter),
	}, nil
}

// Update modifica un producto propio con compare-and-swap sobre Version.
// Si la versión no coincide se vuelve a verificar la propiedad: si el producto ya no
// es del actor (o no existe) el error es ErrStaleProduct, si sigue siéndolo ErrConcurrencyConflict.
func (uc *ProductUseCase) Update(ctx context.Context, actingAccountID, productID string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	trimPtr(in.Name)
	trimPtr(in.Category)
	trimPtr(in.ProductionDate)
	if err := uc.validate.Struct(in); err != nil {
		return nil, err
	}
	var date *time.Time
	if in.ProductionDate != nil {
		d, err := dto.ParseDate(*in.ProductionDate)
		if err != nil {
			return nil, domain.NewValidationError("production_date", "date")
		}
		date = &d
	}

	profile, err := uc.scope.RequireOwnedProfile(ctx, actingAccountID)
	if err != nil {
		return nil, err
	}
	pre, err := uc.products.GetByID(ctx, productID)
	if err != nil {
		return nil, domain.Dependency("leer producto", err)
	}
	if pre == nil {
		return nil, domain.ErrNotFound
	}
	if pre.FarmerID != profile.ID {
		uc.denied(actingAccountID, productID, "update")
		return nil, domain.ErrForbidden
	}

	next := *pre
	next.FarmerID = profile.ID
	if in.Name != nil {
		next.Name = *in.Name
	}
	if in.Category != nil {
		next.Category = entity.NormalizeCategory(*in.Category)
	}
	if date != nil {
		next.ProductionDate = *date
	}
	next.UpdatedAt = uc.now()
	expected := pre.Version
	if in.Version != nil {
		expected = *in.Version
	}

	err = uc.products.Update(ctx, &next, expected)
	switch {
	case err == nil:
		return ToProductResponse(&next), nil
	case errors.Is(err, domain.ErrVersionMismatch), errors.Is(err, domain.ErrNotFound):
		return nil, uc.classifyStale(ctx, actingAccountID, productID)
	default:
		return nil, domain.Dependency("actualizar producto", err)
	}
}

// classifyStale decide, tras perder el compare-and-swap, si el producto sigue siendo del actor.
func (uc *ProductUseCase) classifyStale(ctx context.Context, actingAccountID, productID string) error {
	owned, err := uc.scope.IsOwned(ctx, actingAccountID, productID)
	if err != nil {
		return err
	}
	if !owned {
		uc.log.Warn().Str("account_id", actingAccountID).Str("product_id", productID).
			Msg("producto eliminado o reasignado durante la edición")
		return domain.ErrStaleProduct
	}
	uc.log.Warn().Str("account_id", actingAccountID).Str("product_id", productID).
		Msg("conflicto de versión en producto propio")
	return domain.ErrConcurrencyConflict
}

// Delete elimina un producto propio. La propiedad se verifica con la fila bloqueada
// justo antes de borrar. Un producto inexistente devuelve Deleted=false sin error.
func (uc *ProductUseCase) Delete(ctx context.Context, actingAccountID, productID string) (*dto.DeleteProductResponse, error) {
	profile, err := uc.scope.RequireOwnedProfile(ctx, actingAccountID)
	if err != nil {
		return nil, err
	}
	out := &dto.DeleteProductResponse{ID: productID}
	err = uc.tx.RunProducts(ctx, func(products repository.ProductRepository) error {
		p, err := products.GetByIDForUpdate(ctx, productID)
		if err != nil {
			return domain.Dependency("bloquear producto", err)
		}
		if p == nil {
			return nil
		}
		if p.FarmerID != profile.ID {
			return domain.ErrForbidden
		}
		if err := products.Delete(ctx, productID); err != nil {
			return domain.Dependency("eliminar producto", err)
		}
		out.Deleted = true
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrForbidden) {
			uc.denied(actingAccountID, productID, "delete")
			return nil, err
		}
		if errors.Is(err, domain.ErrDependency) {
			return nil, err
		}
		return nil, domain.Dependency("transacción de borrado", err)
	}
	return out, nil
}

// Categories categorías sugeridas más las que el agricultor ya usa, sin repetir.
func (uc *ProductUseCase) Categories(ctx context.Context, actingAccountID string) (*dto.CategoriesResponse, error) {
	seen := make(map[string]struct{}, len(entity.DefaultCategories))
	items := make([]string, 0, len(entity.DefaultCategories))
	for _, c := range entity.DefaultCategories {
		seen[c] = struct{}{}
		items = append(items, c)
	}
	profile, err := uc.scope.ResolveOwnedProfile(ctx, actingAccountID)
	if errors.Is(err, domain.ErrNotFound) {
		return &dto.CategoriesResponse{Items: items}, nil
	}
	if err != nil {
		return nil, err
	}
	own, err := uc.products.Categories(ctx, profile.ID)
	if err != nil {
		return nil, domain.Dependency("listar categorías", err)
	}
	var extra []string
	for _, c := range own {
		if _, ok := seen[c]; !ok {
			seen[c] = struct{}{}
			extra = append(extra, c)
		}
	}
	sort.Strings(extra)
	return &dto.CategoriesResponse{Items: append(items, extra...)}, nil
}

func (uc *ProductUseCase) denied(accountID, productID, op string) {
	uc.log.Warn().Str("account_id", accountID).Str("product_id", productID).Str("op", op).
		Msg("acceso denegado a producto ajeno")
}

func trimPtr(s *string) {
	if s != nil {
		*s = strings.TrimSpace(*s)
	}
}
