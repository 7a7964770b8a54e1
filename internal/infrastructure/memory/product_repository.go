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

var _ repository.ProductRepository = (*ProductRepository)(nil)

// ProductRepository productos en memoria. Con inTx=true el llamador ya tiene el bloqueo de fila.
type ProductRepository struct {
	s    *Store
	inTx bool
}

func (r *ProductRepository) lockRows() func() {
	if r.inTx {
		return func() {}
	}
	r.s.rowLock.Lock()
	return r.s.rowLock.Unlock
}

// Create falla con ErrNotFound si el perfil dueño no existe.
func (r *ProductRepository) Create(_ context.Context, p *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.farmers[p.FarmerID]; !ok {
		return domain.ErrNotFound
	}
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if _, exists := r.s.products[p.ID]; exists {
		return domain.ErrDuplicate
	}
	now := time.Now()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = now
	}
	p.Version = 1
	r.s.products[p.ID] = *p
	return nil
}

func (r *ProductRepository) GetByID(_ context.Context, id string) (*entity.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

// GetByIDForUpdate equivale a GetByID: el bloqueo lo tiene TxRunner.
func (r *ProductRepository) GetByIDForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	return r.GetByID(ctx, id)
}

// Update aplica el cambio solo si la versión almacenada es expectedVersion.
func (r *ProductRepository) Update(_ context.Context, p *entity.Product, expectedVersion int) error {
	unlock := r.lockRows()
	defer unlock()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.products[p.ID]
	if !ok || cur.Version != expectedVersion {
		return domain.ErrVersionMismatch
	}
	if _, ok := r.s.farmers[p.FarmerID]; !ok {
		return domain.ErrNotFound
	}
	cur.FarmerID = p.FarmerID
	cur.Name = p.Name
	cur.Category = p.Category
	cur.ProductionDate = p.ProductionDate
	cur.UpdatedAt = p.UpdatedAt
	if cur.UpdatedAt.IsZero() {
		cur.UpdatedAt = time.Now()
	}
	cur.Version = expectedVersion + 1
	r.s.products[p.ID] = cur
	*p = cur
	return nil
}

// ListByFarmer aplica el filtro con la misma semántica que la consulta SQL, por fecha y nombre.
func (r *ProductRepository) ListByFarmer(_ context.Context, farmerID string, filter entity.ProductFilter) ([]*entity.Product, error) {
	f := filter.Normalized()
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*entity.Product, 0)
	for _, p := range r.s.products {
		p := p
		if p.FarmerID == farmerID && f.Matches(&p) {
			out = append(out, &p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].ProductionDate.Equal(out[j].ProductionDate) {
			return out[i].ProductionDate.After(out[j].ProductionDate)
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

// Categories devuelve las categorías distintas del agricultor, ordenadas.
func (r *ProductRepository) Categories(_ context.Context, farmerID string) ([]string, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	seen := make(map[string]struct{})
	for _, p := range r.s.products {
		if p.FarmerID == farmerID {
			seen[p.Category] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for c := range seen {
		out = append(out, c)
	}
	sort.Strings(out)
	return out, nil
}

func (r *ProductRepository) Delete(_ context.Context, id string) error {
	unlock := r.lockRows()
	defer unlock()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.products, id)
	return nil
}
