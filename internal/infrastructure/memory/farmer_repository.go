package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/AgroRegistro-api/internal/domain"
	"github.com/jhoicas/AgroRegistro-api/internal/domain/entity"
	"github.com/jhoicas/AgroRegistro-api/internal/domain/repository"
)

var _ repository.FarmerRepository = (*FarmerRepository)(nil)

// FarmerRepository perfiles de agricultor en memoria.
type FarmerRepository struct {
	s *Store
}

// Create falla con ErrDuplicate si la cuenta ya tiene perfil.
func (r *FarmerRepository) Create(_ context.Context, f *entity.FarmerProfile) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, exists := r.s.farmerByAccount[f.AccountID]; exists {
		return domain.ErrDuplicate
	}
	if f.ID == "" {
		f.ID = uuid.New().String()
	}
	if _, exists := r.s.farmers[f.ID]; exists {
		return domain.ErrDuplicate
	}
	now := time.Now()
	if f.CreatedAt.IsZero() {
		f.CreatedAt = now
	}
	if f.UpdatedAt.IsZero() {
		f.UpdatedAt = now
	}
	r.s.farmers[f.ID] = *f
	r.s.farmerByAccount[f.AccountID] = f.ID
	return nil
}

func (r *FarmerRepository) GetByID(_ context.Context, id string) (*entity.FarmerProfile, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	f, ok := r.s.farmers[id]
	if !ok {
		return nil, nil
	}
	return &f, nil
}

func (r *FarmerRepository) GetByAccountID(_ context.Context, accountID string) (*entity.FarmerProfile, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	id, ok := r.s.farmerByAccount[accountID]
	if !ok {
		return nil, nil
	}
	f := r.s.farmers[id]
	return &f, nil
}

// List devuelve los perfiles ordenados por nombre.
func (r *FarmerRepository) List(_ context.Context) ([]*entity.FarmerProfile, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*entity.FarmerProfile, 0, len(r.s.farmers))
	for _, f := range r.s.farmers {
		f := f
		out = append(out, &f)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *FarmerRepository) LinkedAccountIDs(_ context.Context) ([]string, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]string, 0, len(r.s.farmerByAccount))
	for accountID := range r.s.farmerByAccount {
		out = append(out, accountID)
	}
	sort.Strings(out)
	return out, nil
}

// Update guarda los campos editables; AccountID no cambia.
func (r *FarmerRepository) Update(_ context.Context, f *entity.FarmerProfile) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.farmers[f.ID]
	if !ok {
		return domain.ErrNotFound
	}
	cur.Name = f.Name
	cur.Address = f.Address
	cur.ContactNumber = f.ContactNumber
	cur.UpdatedAt = f.UpdatedAt
	if cur.UpdatedAt.IsZero() {
		cur.UpdatedAt = time.Now()
	}
	r.s.farmers[f.ID] = cur
	*f = cur
	return nil
}

// Delete elimina el perfil y sus productos. No falla si el perfil no existe.
func (r *FarmerRepository) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	f, ok := r.s.farmers[id]
	if !ok {
		return nil
	}
	for pid, p := range r.s.products {
		if p.FarmerID == id {
			delete(r.s.products, pid)
		}
	}
	delete(r.s.farmerByAccount, f.AccountID)
	delete(r.s.farmers, id)
	return nil
}
