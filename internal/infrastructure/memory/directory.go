package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/AgroRegistro-api/internal/domain"
	"github.com/jhoicas/AgroRegistro-api/internal/domain/entity"
	"github.com/jhoicas/AgroRegistro-api/internal/domain/repository"
)

var (
	_ repository.AccountDirectory   = (*Directory)(nil)
	_ repository.CredentialVerifier = (*Directory)(nil)
)

// Directory directorio de cuentas en memoria.
type Directory struct {
	s *Store
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (d *Directory) FindByID(_ context.Context, id string) (*entity.Account, error) {
	d.s.mu.RLock()
	defer d.s.mu.RUnlock()
	r, ok := d.s.accounts[id]
	if !ok {
		return nil, nil
	}
	return cloneAccount(r), nil
}

func (d *Directory) FindByEmail(_ context.Context, email string) (*entity.Account, error) {
	d.s.mu.RLock()
	defer d.s.mu.RUnlock()
	id, ok := d.s.byEmail[normalizeEmail(email)]
	if !ok {
		return nil, nil
	}
	return cloneAccount(d.s.accounts[id]), nil
}

func (d *Directory) ListAccounts(_ context.Context) ([]*entity.Account, error) {
	return d.filter(func(*accountRow) bool { return true }), nil
}

func (d *Directory) UsersInRole(_ context.Context, role string) ([]*entity.Account, error) {
	return d.filter(func(r *accountRow) bool {
		_, ok := r.roles[role]
		return ok
	}), nil
}

func (d *Directory) filter(keep func(*accountRow) bool) []*entity.Account {
	d.s.mu.RLock()
	defer d.s.mu.RUnlock()
	rows := make([]*accountRow, 0, len(d.s.accounts))
	for _, r := range d.s.accounts {
		if keep(r) {
			rows = append(rows, r)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].sequence < rows[j].sequence })
	out := make([]*entity.Account, 0, len(rows))
	for _, r := range rows {
		out = append(out, cloneAccount(r))
	}
	return out
}

// CreateAccount guarda la cuenta con sus roles iniciales. Asigna ID y CreatedAt si faltan.
func (d *Directory) CreateAccount(_ context.Context, account *entity.Account, password string) error {
	if account == nil {
		return domain.ErrInvalidInput
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), d.s.bcryptCost)
	if err != nil {
		return err
	}
	email := normalizeEmail(account.Email)

	d.s.mu.Lock()
	defer d.s.mu.Unlock()
	if _, exists := d.s.byEmail[email]; exists {
		return domain.ErrEmailAlreadyExists
	}
	if account.ID == "" {
		account.ID = uuid.New().String()
	}
	if account.CreatedAt.IsZero() {
		account.CreatedAt = time.Now()
	}
	account.Email = email
	roles := make(map[string]struct{}, len(account.Roles))
	for _, r := range account.Roles {
		roles[r] = struct{}{}
	}
	d.s.nextSeq++
	d.s.accounts[account.ID] = &accountRow{
		account:  entity.Account{ID: account.ID, Email: email, EmailConfirmed: account.EmailConfirmed, CreatedAt: account.CreatedAt},
		hash:     hash,
		roles:    roles,
		sequence: d.s.nextSeq,
	}
	d.s.byEmail[email] = account.ID
	return nil
}

func (d *Directory) IsInRole(_ context.Context, accountID, role string) (bool, error) {
	d.s.mu.RLock()
	defer d.s.mu.RUnlock()
	r, ok := d.s.accounts[accountID]
	if !ok {
		return false, nil
	}
	_, in := r.roles[role]
	return in, nil
}

// AddToRole asigna el rol de forma atómica; ErrAlreadyInRole si ya lo tenía.
func (d *Directory) AddToRole(_ context.Context, accountID, role string) error {
	d.s.mu.Lock()
	defer d.s.mu.Unlock()
	r, ok := d.s.accounts[accountID]
	if !ok {
		return domain.ErrNotFound
	}
	if _, in := r.roles[role]; in {
		return domain.ErrAlreadyInRole
	}
	r.roles[role] = struct{}{}
	return nil
}

// RemoveFromRole es idempotente.
func (d *Directory) RemoveFromRole(_ context.Context, accountID, role string) error {
	d.s.mu.Lock()
	defer d.s.mu.Unlock()
	r, ok := d.s.accounts[accountID]
	if !ok {
		return domain.ErrNotFound
	}
	delete(r.roles, role)
	return nil
}

// CheckPassword valida email y contraseña. ErrUnauthorized ante cualquier discrepancia.
func (d *Directory) CheckPassword(_ context.Context, email, password string) (*entity.Account, error) {
	d.s.mu.RLock()
	id, ok := d.s.byEmail[normalizeEmail(email)]
	var r *accountRow
	if ok {
		r = d.s.accounts[id]
	}
	d.s.mu.RUnlock()
	if r == nil {
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword(r.hash, []byte(password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	d.s.mu.RLock()
	defer d.s.mu.RUnlock()
	return cloneAccount(r), nil
}
