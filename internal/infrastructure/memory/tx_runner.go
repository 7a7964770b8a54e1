package memory

import (
	"context"

	"github.com/jhoicas/AgroRegistro-api/internal/domain/repository"
)

// TxRunner serializa las operaciones bajo bloqueo de fila de productos.
// No hay rollback: los adaptadores en memoria aplican cada escritura de forma atómica.
type TxRunner struct {
	s *Store
}

// RunProducts ejecuta fn con un repositorio que ya posee el bloqueo de filas.
func (t *TxRunner) RunProducts(ctx context.Context, fn func(products repository.ProductRepository) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	t.s.rowLock.Lock()
	defer t.s.rowLock.Unlock()
	return fn(&ProductRepository{s: t.s, inTx: true})
}
