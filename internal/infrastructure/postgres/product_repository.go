package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/AgroRegistro-api/internal/domain"
	"github.com/jhoicas/AgroRegistro-api/internal/domain/entity"
	"github.com/jhoicas/AgroRegistro-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL.
type ProductRepo struct {
	db Querier
}

// NewProductRepository construye el adaptador; db puede ser el pool o una tx.
func NewProductRepository(db Querier) *ProductRepo {
	return &ProductRepo{db: db}
}

type productRecord struct {
	ID             string    `db:"id"`
	FarmerID       string    `db:"farmer_id"`
	Name           string    `db:"name"`
	Category       string    `db:"category"`
	ProductionDate time.Time `db:"production_date"`
	Version        int       `db:"version"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

func (r productRecord) toEntity() *entity.Product {
	p := entity.Product(r)
	return &p
}

var productColumns = []string{"id", "farmer_id", "name", "category", "production_date", "version", "created_at", "updated_at"}

// applyProductFilter agrega los predicados opcionales: categoría exacta,
// día inicial inclusivo y cota superior exclusiva al inicio del día siguiente a EndDate.
func applyProductFilter(sb squirrel.SelectBuilder, f entity.ProductFilter) squirrel.SelectBuilder {
	f = f.Normalized()
	if f.Category != "" {
		sb = sb.Where(squirrel.Eq{"category": f.Category})
	}
	if lo, ok := f.Lower(); ok {
		sb = sb.Where(squirrel.GtOrEq{"production_date": lo})
	}
	if hi, ok := f.UpperExclusive(); ok {
		sb = sb.Where(squirrel.Lt{"production_date": hi})
	}
	return sb
}

// Create inserta el producto con version=1. ErrNotFound si el perfil no existe (FK).
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	p.Version = 1
	query, args, err := psql.Insert("products").
		Columns(productColumns...).
		Values(p.ID, p.FarmerID, p.Name, p.Category, p.ProductionDate, p.Version, p.CreatedAt, p.UpdatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert product: %w", err)
	}
	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		switch {
		case isForeignKeyViolation(err):
			return domain.ErrNotFound
		case isUniqueViolation(err):
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

func (r *ProductRepo) get(ctx context.Context, id string, forUpdate bool) (*entity.Product, error) {
	sb := psql.Select(productColumns...).From("products").Where(squirrel.Eq{"id": id})
	if forUpdate {
		sb = sb.Suffix("FOR UPDATE")
	}
	query, args, err := sb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select product: %w", err)
	}
	var rec productRecord
	if err := pgxscan.Get(ctx, r.db, &rec, query, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return rec.toEntity(), nil
}

func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	return r.get(ctx, id, false)
}

// GetByIDForUpdate usa SELECT ... FOR UPDATE; solo tiene efecto dentro de una transacción.
func (r *ProductRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	return r.get(ctx, id, true)
}

// Update escribe solo si version = expectedVersion y la incrementa en la misma sentencia.
func (r *ProductRepo) Update(ctx context.Context, p *entity.Product, expectedVersion int) error {
	query, args, err := psql.Update("products").
		Set("farmer_id", p.FarmerID).
		Set("name", p.Name).
		Set("category", p.Category).
		Set("production_date", p.ProductionDate).
		Set("updated_at", p.UpdatedAt).
		Set("version", squirrel.Expr("version + 1")).
		Where(squirrel.Eq{"id": p.ID, "version": expectedVersion}).
		Suffix("RETURNING version").
		ToSql()
	if err != nil {
		return fmt.Errorf("build update product: %w", err)
	}
	var version int
	if err := r.db.QueryRow(ctx, query, args...).Scan(&version); err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			return domain.ErrVersionMismatch
		case isForeignKeyViolation(err):
			return domain.ErrNotFound
		}
		return fmt.Errorf("update product: %w", err)
	}
	p.Version = version
	return nil
}

// ListByFarmer lista los productos del perfil, más recientes primero.
func (r *ProductRepo) ListByFarmer(ctx context.Context, farmerID string, filter entity.ProductFilter) ([]*entity.Product, error) {
	sb := psql.Select(productColumns...).From("products").Where(squirrel.Eq{"farmer_id": farmerID})
	query, args, err := applyProductFilter(sb, filter).OrderBy("production_date DESC", "name").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list products: %w", err)
	}
	var recs []productRecord
	if err := pgxscan.Select(ctx, r.db, &recs, query, args...); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	out := make([]*entity.Product, 0, len(recs))
	for _, rec := range recs {
		out = append(out, rec.toEntity())
	}
	return out, nil
}

// Categories categorías distintas del perfil, ordenadas.
func (r *ProductRepo) Categories(ctx context.Context, farmerID string) ([]string, error) {
	query, args, err := psql.Select("DISTINCT category").
		From("products").
		Where(squirrel.Eq{"farmer_id": farmerID}).
		OrderBy("category").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build categories: %w", err)
	}
	var out []string
	if err := pgxscan.Select(ctx, r.db, &out, query, args...); err != nil {
		return nil, fmt.Errorf("categories: %w", err)
	}
	return out, nil
}

func (r *ProductRepo) Delete(ctx context.Context, id string) error {
	query, args, err := psql.Delete("products").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("build delete product: %w", err)
	}
	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	return nil
}
