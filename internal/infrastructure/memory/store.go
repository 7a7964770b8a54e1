// Package memory implementa los puertos de persistencia y el directorio de cuentas en memoria.
// Reproduce las restricciones del esquema SQL: perfil único por cuenta, FK de producto
// con borrado en cascada y compare-and-swap por versión.
package memory

import (
	"sync"

	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/AgroRegistro-api/internal/domain/entity"
)

type accountRow struct {
	account  entity.Account
	hash     []byte
	roles    map[string]struct{}
	sequence int
}

// Store contiene todas las tablas. Es seguro para uso concurrente.
type Store struct {
	mu       sync.RWMutex
	accounts map[string]*accountRow
	byEmail  map[string]string
	farmers  map[string]entity.FarmerProfile
	// farmerByAccount es el índice único account_id -> perfil.
	farmerByAccount map[string]string
	products        map[string]entity.Product
	nextSeq         int

	// rowLock serializa los borrados bajo bloqueo con las escrituras de productos.
	rowLock sync.Mutex

	bcryptCost int
}

// New crea un almacén vacío.
func New() *Store {
	return &Store{
		accounts:        make(map[string]*accountRow),
		byEmail:         make(map[string]string),
		farmers:         make(map[string]entity.FarmerProfile),
		farmerByAccount: make(map[string]string),
		products:        make(map[string]entity.Product),
		bcryptCost:      bcrypt.DefaultCost,
	}
}

// WithBcryptCost ajusta el costo de bcrypt (los tests usan bcrypt.MinCost).
func (s *Store) WithBcryptCost(cost int) *Store {
	s.bcryptCost = cost
	return s
}

// Directory devuelve el adaptador del directorio de cuentas.
func (s *Store) Directory() *Directory { return &Directory{s: s} }

// Farmers devuelve el repositorio de perfiles.
func (s *Store) Farmers() *FarmerRepository { return &FarmerRepository{s: s} }

// Products devuelve el repositorio de productos.
func (s *Store) Products() *ProductRepository { return &ProductRepository{s: s} }

// TxRunner devuelve el ejecutor de transacciones de productos.
func (s *Store) TxRunner() *TxRunner { return &TxRunner{s: s} }

func cloneAccount(r *accountRow) *entity.Account {
	a := r.account
	a.Roles = make([]string, 0, len(r.roles))
	for _, role := range []string{entity.RoleEmployee, entity.RoleFarmer} {
		if _, ok := r.roles[role]; ok {
			a.Roles = append(a.Roles, role)
		}
	}
	for role := range r.roles {
		if role != entity.RoleEmployee && role != entity.RoleFarmer {
			a.Roles = append(a.Roles, role)
		}
	}
	return &a
}
