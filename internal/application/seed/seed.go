// Package seed carga las cuentas y productos de demostración.
// Es idempotente: las cuentas, perfiles y productos existentes se conservan.
package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/jhoicas/AgroRegistro-api/internal/application/dto"
	"github.com/jhoicas/AgroRegistro-api/internal/application/provisioning"
	"github.com/jhoicas/AgroRegistro-api/internal/application/usecase"
	"github.com/jhoicas/AgroRegistro-api/internal/domain"
	"github.com/jhoicas/AgroRegistro-api/internal/domain/entity"
	"github.com/jhoicas/AgroRegistro-api/internal/domain/repository"
)

// DefaultPassword contraseña de todas las cuentas de demostración.
const DefaultPassword = "Pass123!"

// EmployeeEmail cuenta de empleado sembrada.
const EmployeeEmail = "employee@farm.com"

// Product producto de demostración.
type Product struct {
	Name           string
	Category       string
	ProductionDate string
}

// Farmer cuenta a designar como agricultor con sus productos.
type Farmer struct {
	Email    string
	Name     string
	Address  string
	Contact  string
	Products []Product
}

// DefaultFarmers datos de demostración.
var DefaultFarmers = []Farmer{
	{
		Email: "farmer1@farm.com", Name: "Alice Green", Address: "12 Orchard Lane", Contact: "+27 21 555 0101",
		Products: []Product{
			{"Organic Apples", "Fruit", "2025-04-01"},
			{"Heirloom Carrots", "Vegetable", "2025-03-20"},
			{"Fresh Eggs", "Poultry", "2025-04-05"},
		},
	},
	{
		Email: "farmer2@farm.com", Name: "Bob White", Address: "7 Meadow Road", Contact: "+27 21 555 0202",
		Products: []Product{
			{"Whole Milk", "Dairy", "2025-04-06"},
			{"Russet Potatoes", "Vegetable", "2025-03-15"},
			{"Wheat Flour", "Grain", "2025-02-28"},
		},
	},
}

// Seeder siembra datos usando los mismos flujos que la API: el rol Farmer
// se asigna con el servicio de aprovisionamiento y los productos con el caso de uso.
type Seeder struct {
	directory    repository.AccountDirectory
	farmers      repository.FarmerRepository
	products     repository.ProductRepository
	provisioning *provisioning.Service
	productUC    *usecase.ProductUseCase
	log          zerolog.Logger
}

// New construye el sembrador.
func New(
	directory repository.AccountDirectory,
	farmers repository.FarmerRepository,
	products repository.ProductRepository,
	prov *provisioning.Service,
	productUC *usecase.ProductUseCase,
	log zerolog.Logger,
) *Seeder {
	return &Seeder{
		directory:    directory,
		farmers:      farmers,
		products:     products,
		provisioning: prov,
		productUC:    productUC,
		log:          log,
	}
}

// Summary conteo de lo creado en una ejecución.
type Summary struct {
	Accounts int
	Farmers  int
	Products int
}

// Run siembra el empleado, los agricultores y sus productos.
func (s *Seeder) Run(ctx context.Context, farmers []Farmer) (Summary, error) {
	var sum Summary
	employee, created, err := s.ensureAccount(ctx, EmployeeEmail, entity.RoleEmployee)
	if err != nil {
		return sum, err
	}
	if created {
		sum.Accounts++
	}
	if !employee.HasRole(entity.RoleEmployee) {
		if err := s.directory.AddToRole(ctx, employee.ID, entity.RoleEmployee); err != nil && !errors.Is(err, domain.ErrAlreadyInRole) {
			return sum, fmt.Errorf("asignar rol Employee: %w", err)
		}
	}

	for _, f := range farmers {
		account, created, err := s.ensureAccount(ctx, f.Email)
		if err != nil {
			return sum, err
		}
		if created {
			sum.Accounts++
		}
		profile, err := s.farmers.GetByAccountID(ctx, account.ID)
		if err != nil {
			return sum, fmt.Errorf("buscar perfil de %s: %w", f.Email, err)
		}
		if profile == nil {
			res, err := s.provisioning.Promote(ctx, employee.ID, dto.PromoteFarmerRequest{
				AccountID:     account.ID,
				Name:          f.Name,
				Address:       f.Address,
				ContactNumber: f.Contact,
			})
			if err != nil {
				return sum, fmt.Errorf("designar %s: %w", f.Email, err)
			}
			profile = res.Profile
			sum.Farmers++
		}

		existing, err := s.products.ListByFarmer(ctx, profile.ID, entity.ProductFilter{})
		if err != nil {
			return sum, fmt.Errorf("listar productos de %s: %w", f.Email, err)
		}
		if len(existing) > 0 {
			continue
		}
		for _, p := range f.Products {
			_, err := s.productUC.Create(ctx, account.ID, dto.CreateProductRequest{
				Name:           p.Name,
				Category:       p.Category,
				ProductionDate: p.ProductionDate,
			})
			if err != nil {
				return sum, fmt.Errorf("crear producto %q: %w", p.Name, err)
			}
			sum.Products++
		}
	}

	s.log.Info().Int("accounts", sum.Accounts).Int("farmers", sum.Farmers).Int("products", sum.Products).
		Msg("datos de demostración cargados")
	return sum, nil
}

func (s *Seeder) ensureAccount(ctx context.Context, email string, roles ...string) (*entity.Account, bool, error) {
	account, err := s.directory.FindByEmail(ctx, email)
	if err != nil {
		return nil, false, fmt.Errorf("buscar cuenta %s: %w", email, err)
	}
	if account != nil {
		return account, false, nil
	}
	account = &entity.Account{Email: email, EmailConfirmed: true, Roles: roles}
	if err := s.directory.CreateAccount(ctx, account, DefaultPassword); err != nil {
		return nil, false, fmt.Errorf("crear cuenta %s: %w", email, err)
	}
	return account, true, nil
}
