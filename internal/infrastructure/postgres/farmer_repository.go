package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/jhoicas/AgroRegistro-api/internal/domain"
	"github.com/jhoicas/AgroRegistro-api/internal/domain/entity"
	"github.com/jhoicas/AgroRegistro-api/internal/domain/repository"
)

var _ repository.FarmerRepository = (*FarmerRepo)(nil)

// FarmerRepo implementación del puerto FarmerRepository sobre PostgreSQL.
type FarmerRepo struct {
	db Querier
}

// NewFarmerRepository construye el adaptador; db puede ser el pool o una tx.
func NewFarmerRepository(db Querier) *FarmerRepo {
	return &FarmerRepo{db: db}
}

type farmerRecord struct {
	ID            string    `db:"id"`
	AccountID     string    `db:"account_id"`
	Name          string    `db:"name"`
	Address       string    `db:"address"`
	ContactNumber string    `db:"contact_number"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

func (r farmerRecord) toEntity() *entity.FarmerProfile {
	f := entity.FarmerProfile(r)
	return &f
}

var farmerColumns = []string{
	"id", "account_id", "name",
	"COALESCE(address, '') AS address",
	"COALESCE(contact_number, '') AS contact_number",
	"created_at", "updated_at",
}

// Create inserta el perfil. La unicidad de account_id la garantiza farmer_profiles_account_id_key.
func (r *FarmerRepo) Create(ctx context.Context, f *entity.FarmerProfile) error {
	query, args, err := psql.Insert("farmer_profiles").
		Columns("id", "account_id", "name", "address", "contact_number", "created_at", "updated_at").
		Values(f.ID, f.AccountID, f.Name,
			squirrel.Expr("NULLIF(?, '')", f.Address),
			squirrel.Expr("NULLIF(?, '')", f.ContactNumber),
			f.CreatedAt, f.UpdatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert farmer: %w", err)
	}
	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert farmer: %w", err)
	}
	return nil
}

func (r *FarmerRepo) getOne(ctx context.Context, where squirrel.Eq) (*entity.FarmerProfile, error) {
	query, args, err := psql.Select(farmerColumns...).From("farmer_profiles").Where(where).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select farmer: %w", err)
	}
	var rec farmerRecord
	if err := pgxscan.Get(ctx, r.db, &rec, query, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get farmer: %w", err)
	}
	return rec.toEntity(), nil
}

func (r *FarmerRepo) GetByID(ctx context.Context, id string) (*entity.FarmerProfile, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id})
}

func (r *FarmerRepo) GetByAccountID(ctx context.Context, accountID string) (*entity.FarmerProfile, error) {
	return r.getOne(ctx, squirrel.Eq{"account_id": accountID})
}

// List devuelve los perfiles ordenados por nombre.
func (r *FarmerRepo) List(ctx context.Context) ([]*entity.FarmerProfile, error) {
	query, args, err := psql.Select(farmerColumns...).From("farmer_profiles").OrderBy("name", "id").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list farmers: %w", err)
	}
	var recs []farmerRecord
	if err := pgxscan.Select(ctx, r.db, &recs, query, args...); err != nil {
		return nil, fmt.Errorf("list farmers: %w", err)
	}
	out := make([]*entity.FarmerProfile, 0, len(recs))
	for _, rec := range recs {
		out = append(out, rec.toEntity())
	}
	return out, nil
}

func (r *FarmerRepo) LinkedAccountIDs(ctx context.Context) ([]string, error) {
	query, args, err := psql.Select("account_id").From("farmer_profiles").OrderBy("account_id").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build linked accounts: %w", err)
	}
	var ids []string
	if err := pgxscan.Select(ctx, r.db, &ids, query, args...); err != nil {
		return nil, fmt.Errorf("linked accounts: %w", err)
	}
	return ids, nil
}

// Update guarda nombre, dirección y teléfono.
func (r *FarmerRepo) Update(ctx context.Context, f *entity.FarmerProfile) error {
	query, args, err := psql.Update("farmer_profiles").
		Set("name", f.Name).
		Set("address", squirrel.Expr("NULLIF(?, '')", f.Address)).
		Set("contact_number", squirrel.Expr("NULLIF(?, '')", f.ContactNumber)).
		Set("updated_at", f.UpdatedAt).
		Where(squirrel.Eq{"id": f.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update farmer: %w", err)
	}
	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update farmer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina el perfil; ON DELETE CASCADE borra sus productos.
func (r *FarmerRepo) Delete(ctx context.Context, id string) error {
	query, args, err := psql.Delete("farmer_profiles").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("build delete farmer: %w", err)
	}
	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("delete farmer: %w", err)
	}
	return nil
}
