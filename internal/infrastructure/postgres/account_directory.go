package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/AgroRegistro-api/internal/domain"
	"github.com/jhoicas/AgroRegistro-api/internal/domain/entity"
	"github.com/jhoicas/AgroRegistro-api/internal/domain/repository"
)

var (
	_ repository.AccountDirectory   = (*AccountDirectory)(nil)
	_ repository.CredentialVerifier = (*AccountDirectory)(nil)
)

// AccountDirectory directorio de cuentas sobre las tablas accounts y account_roles.
type AccountDirectory struct {
	db         DB
	bcryptCost int
}

// NewAccountDirectory construye el adaptador del directorio.
func NewAccountDirectory(db DB) *AccountDirectory {
	return &AccountDirectory{db: db, bcryptCost: bcrypt.DefaultCost}
}

type accountRecord struct {
	ID             string    `db:"id"`
	Email          string    `db:"email"`
	EmailConfirmed bool      `db:"email_confirmed"`
	Roles          []string  `db:"roles"`
	CreatedAt      time.Time `db:"created_at"`
}

func (r accountRecord) toEntity() *entity.Account {
	roles := r.Roles
	if roles == nil {
		roles = []string{}
	}
	return &entity.Account{
		ID:             r.ID,
		Email:          r.Email,
		EmailConfirmed: r.EmailConfirmed,
		Roles:          roles,
		CreatedAt:      r.CreatedAt,
	}
}

// selectAccounts lee cuentas con sus roles agregados en un arreglo.
func selectAccounts() squirrel.SelectBuilder {
	return psql.Select(
		"a.id", "a.email", "a.email_confirmed", "a.created_at",
		"COALESCE(array_agg(r.role ORDER BY r.role) FILTER (WHERE r.role IS NOT NULL), '{}') AS roles",
	).
		From("accounts a").
		LeftJoin("account_roles r ON r.account_id = a.id").
		GroupBy("a.id")
}

func (d *AccountDirectory) getOne(ctx context.Context, where squirrel.Sqlizer) (*entity.Account, error) {
	query, args, err := selectAccounts().Where(where).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select account: %w", err)
	}
	var rec accountRecord
	if err := pgxscan.Get(ctx, d.db, &rec, query, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get account: %w", err)
	}
	return rec.toEntity(), nil
}

func (d *AccountDirectory) list(ctx context.Context, where squirrel.Sqlizer) ([]*entity.Account, error) {
	sb := selectAccounts().OrderBy("a.created_at", "a.email")
	if where != nil {
		sb = sb.Where(where)
	}
	query, args, err := sb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list accounts: %w", err)
	}
	var recs []accountRecord
	if err := pgxscan.Select(ctx, d.db, &recs, query, args...); err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	out := make([]*entity.Account, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.toEntity())
	}
	return out, nil
}

func (d *AccountDirectory) FindByID(ctx context.Context, id string) (*entity.Account, error) {
	return d.getOne(ctx, squirrel.Eq{"a.id": id})
}

func (d *AccountDirectory) FindByEmail(ctx context.Context, email string) (*entity.Account, error) {
	return d.getOne(ctx, squirrel.Expr("lower(a.email) = lower(?)", strings.TrimSpace(email)))
}

func (d *AccountDirectory) ListAccounts(ctx context.Context) ([]*entity.Account, error) {
	return d.list(ctx, nil)
}

func (d *AccountDirectory) UsersInRole(ctx context.Context, role string) ([]*entity.Account, error) {
	return d.list(ctx, squirrel.Expr("a.id IN (SELECT account_id FROM account_roles WHERE role = ?)", role))
}

// CreateAccount inserta la cuenta y sus roles iniciales en una sola transacción.
func (d *AccountDirectory) CreateAccount(ctx context.Context, account *entity.Account, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), d.bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if account.ID == "" {
		account.ID = uuid.New().String()
	}
	if account.CreatedAt.IsZero() {
		account.CreatedAt = time.Now()
	}
	account.Email = strings.ToLower(strings.TrimSpace(account.Email))

	tx, err := d.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	query, args, err := psql.Insert("accounts").
		Columns("id", "email", "password_hash", "email_confirmed", "created_at").
		Values(account.ID, account.Email, string(hash), account.EmailConfirmed, account.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert account: %w", err)
	}
	if _, err := tx.Exec(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailAlreadyExists
		}
		return fmt.Errorf("insert account: %w", err)
	}
	if len(account.Roles) > 0 {
		ib := psql.Insert("account_roles").Columns("account_id", "role")
		for _, role := range account.Roles {
			ib = ib.Values(account.ID, role)
		}
		query, args, err := ib.ToSql()
		if err != nil {
			return fmt.Errorf("build insert roles: %w", err)
		}
		if _, err := tx.Exec(ctx, query, args...); err != nil {
			return fmt.Errorf("insert roles: %w", err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func (d *AccountDirectory) IsInRole(ctx context.Context, accountID, role string) (bool, error) {
	query, args, err := psql.Select("1").
		Prefix("SELECT EXISTS (").
		From("account_roles").
		Where(squirrel.Eq{"account_id": accountID, "role": role}).
		Suffix(")").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build is in role: %w", err)
	}
	var ok bool
	if err := d.db.QueryRow(ctx, query, args...).Scan(&ok); err != nil {
		return false, fmt.Errorf("is in role: %w", err)
	}
	return ok, nil
}

// AddToRole inserta la membresía. Si ya existía no afecta filas y devuelve ErrAlreadyInRole.
func (d *AccountDirectory) AddToRole(ctx context.Context, accountID, role string) error {
	query, args, err := psql.Insert("account_roles").
		Columns("account_id", "role").
		Values(accountID, role).
		Suffix("ON CONFLICT (account_id, role) DO NOTHING").
		ToSql()
	if err != nil {
		return fmt.Errorf("build add to role: %w", err)
	}
	tag, err := d.db.Exec(ctx, query, args...)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("add to role: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAlreadyInRole
	}
	return nil
}

func (d *AccountDirectory) RemoveFromRole(ctx context.Context, accountID, role string) error {
	query, args, err := psql.Delete("account_roles").
		Where(squirrel.Eq{"account_id": accountID, "role": role}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build remove from role: %w", err)
	}
	if _, err := d.db.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("remove from role: %w", err)
	}
	return nil
}

// CheckPassword compara la contraseña con el hash bcrypt almacenado.
func (d *AccountDirectory) CheckPassword(ctx context.Context, email, password string) (*entity.Account, error) {
	query, args, err := psql.Select("id", "password_hash").
		From("accounts").
		Where(squirrel.Expr("lower(email) = lower(?)", strings.TrimSpace(email))).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build check password: %w", err)
	}
	var cred struct {
		ID           string `db:"id"`
		PasswordHash string `db:"password_hash"`
	}
	if err := pgxscan.Get(ctx, d.db, &cred, query, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, domain.ErrUnauthorized
		}
		return nil, fmt.Errorf("check password: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, domain.ErrUnauthorized
		}
		return nil, fmt.Errorf("compare password: %w", err)
	}
	account, err := d.FindByID(ctx, cred.ID)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, domain.ErrUnauthorized
	}
	return account, nil
}
