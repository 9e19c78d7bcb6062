package usecase

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farmaven/farmacia-api/internal/application/dto"
	"github.com/farmaven/farmacia-api/internal/domain"
	"github.com/farmaven/farmacia-api/internal/domain/entity"
	"github.com/farmaven/farmacia-api/internal/domain/repository"
	"github.com/farmaven/farmacia-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
// ──────────────────────────────────────────────────────────────────────────────

type fakeProductRepo struct {
	products   map[string]*entity.Product
	inInvoices map[string]bool // productID → tiene líneas de factura
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{
		products:   make(map[string]*entity.Product),
		inInvoices: make(map[string]bool),
	}
}

func (f *fakeProductRepo) Create(p *entity.Product) error {
	f.products[p.ID] = p
	return nil
}

func (f *fakeProductRepo) GetByID(id string) (*entity.Product, error) {
	return f.products[id], nil
}

func (f *fakeProductRepo) GetByCode(code string) (*entity.Product, error) {
	for _, p := range f.products {
		if p.Code == code {
			return p, nil
		}
	}
	return nil, nil
}

func (f *fakeProductRepo) Update(p *entity.Product) error {
	f.products[p.ID] = p
	return nil
}

func (f *fakeProductRepo) AdjustStock(productID string, delta int) (int, error) {
	p := f.products[productID]
	p.Stock += delta
	return p.Stock, nil
}

func (f *fakeProductRepo) List() ([]*entity.Product, error) {
	out := make([]*entity.Product, 0, len(f.products))
	for _, p := range f.products {
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeProductRepo) Search(term string) ([]*entity.Product, error) {
	return nil, nil
}

func (f *fakeProductRepo) ListLowStock() ([]*entity.Product, error) {
	var out []*entity.Product
	for _, p := range f.products {
		if p.LowStock() {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeProductRepo) CountByCategory(name string) (int, error) {
	n := 0
	for _, p := range f.products {
		if p.Category == name {
			n++
		}
	}
	return n, nil
}

func (f *fakeProductRepo) CountByLaboratory(name string) (int, error) {
	n := 0
	for _, p := range f.products {
		if p.Laboratory == name {
			n++
		}
	}
	return n, nil
}

func (f *fakeProductRepo) HasInvoiceLines(productID string) (bool, error) {
	return f.inInvoices[productID], nil
}

func (f *fakeProductRepo) Delete(id string) error {
	delete(f.products, id)
	return nil
}

type fakeCustomerRepo struct {
	customers  map[string]*entity.Customer
	inInvoices map[string]bool
}

func newFakeCustomerRepo() *fakeCustomerRepo {
	return &fakeCustomerRepo{
		customers:  make(map[string]*entity.Customer),
		inInvoices: make(map[string]bool),
	}
}

func (f *fakeCustomerRepo) Create(c *entity.Customer) error {
	f.customers[c.ID] = c
	return nil
}

func (f *fakeCustomerRepo) GetByID(id string) (*entity.Customer, error) {
	return f.customers[id], nil
}

func (f *fakeCustomerRepo) List() ([]*entity.Customer, error) {
	out := make([]*entity.Customer, 0, len(f.customers))
	for _, c := range f.customers {
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeCustomerRepo) Update(c *entity.Customer) error {
	f.customers[c.ID] = c
	return nil
}

func (f *fakeCustomerRepo) HasInvoices(customerID string) (bool, error) {
	return f.inInvoices[customerID], nil
}

func (f *fakeCustomerRepo) Delete(id string) error {
	delete(f.customers, id)
	return nil
}

type fakeUserRepo struct {
	users      map[string]*entity.User
	inInvoices map[string]bool
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users:      make(map[string]*entity.User),
		inInvoices: make(map[string]bool),
	}
}

func (f *fakeUserRepo) Create(u *entity.User) error {
	f.users[u.ID] = u
	return nil
}

func (f *fakeUserRepo) GetByID(id string) (*entity.User, error) {
	return f.users[id], nil
}

func (f *fakeUserRepo) GetByEmail(email string) (*entity.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) List() ([]*entity.User, error) {
	out := make([]*entity.User, 0, len(f.users))
	for _, u := range f.users {
		out = append(out, u)
	}
	return out, nil
}

func (f *fakeUserRepo) Update(u *entity.User) error {
	f.users[u.ID] = u
	return nil
}

func (f *fakeUserRepo) UpdatePassword(id, passwordHash string) error {
	f.users[id].PasswordHash = passwordHash
	return nil
}

func (f *fakeUserRepo) SetActive(id string, active bool) error {
	f.users[id].Active = active
	return nil
}

func (f *fakeUserRepo) HasInvoices(userID string) (bool, error) {
	return f.inInvoices[userID], nil
}

func (f *fakeUserRepo) Delete(id string) error {
	delete(f.users, id)
	return nil
}

var (
	_ repository.ProductRepository  = (*fakeProductRepo)(nil)
	_ repository.CustomerRepository = (*fakeCustomerRepo)(nil)
	_ repository.UserRepository     = (*fakeUserRepo)(nil)
)

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Env: "development", Level: "error"})
}

// ──────────────────────────────────────────────────────────────────────────────
// Productos
// ──────────────────────────────────────────────────────────────────────────────

// Caso 1: código de producto repetido → ErrDuplicate.
func TestProductCreate_CodigoRepetido(t *testing.T) {
	repo := newFakeProductRepo()
	uc := NewProductUseCase(repo, testLogger())

	in := dto.CreateProductRequest{
		Code:  "PARA-500",
		Name:  "Paracetamol 500mg",
		Price: decimal.NewFromFloat(4.00),
	}
	_, err := uc.Create(in)
	require.NoError(t, err)

	_, err = uc.Create(in)
	assert.ErrorIs(t, err, domain.ErrDuplicate,
		"el mismo código dos veces debe rechazarse")
}

// Caso 2: precio negativo → ErrInvalidInput.
func TestProductCreate_PrecioNegativo(t *testing.T) {
	uc := NewProductUseCase(newFakeProductRepo(), testLogger())

	_, err := uc.Create(dto.CreateProductRequest{
		Code:  "IBU-400",
		Name:  "Ibuprofeno 400mg",
		Price: decimal.NewFromFloat(-1.00),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// Caso 3: producto con líneas de factura no se borra → ErrConflictInUse.
func TestProductDelete_ConFacturas_Bloqueado(t *testing.T) {
	repo := newFakeProductRepo()
	repo.products["p1"] = &entity.Product{ID: "p1", Code: "PARA-500", Name: "Paracetamol"}
	repo.inInvoices["p1"] = true
	uc := NewProductUseCase(repo, testLogger())

	err := uc.Delete("p1")
	assert.ErrorIs(t, err, domain.ErrConflictInUse)
	assert.NotNil(t, repo.products["p1"], "el producto debe seguir existiendo")
}

// Caso 4: producto sin facturas sí se borra.
func TestProductDelete_SinFacturas(t *testing.T) {
	repo := newFakeProductRepo()
	repo.products["p1"] = &entity.Product{ID: "p1", Code: "PARA-500", Name: "Paracetamol"}
	uc := NewProductUseCase(repo, testLogger())

	require.NoError(t, uc.Delete("p1"))
	assert.Nil(t, repo.products["p1"])
}

// Caso 5: la respuesta marca bajo stock cuando stock <= stock_minimo.
func TestProductGetByID_MarcaBajoStock(t *testing.T) {
	repo := newFakeProductRepo()
	repo.products["p1"] = &entity.Product{
		ID: "p1", Code: "A", Name: "Amoxicilina", Stock: 3, StockMinimum: 5,
		CreatedAt: time.Now(),
	}
	uc := NewProductUseCase(repo, testLogger())

	out, err := uc.GetByID("p1")
	require.NoError(t, err)
	assert.True(t, out.LowStock)
}

// ──────────────────────────────────────────────────────────────────────────────
// Clientes
// ──────────────────────────────────────────────────────────────────────────────

// Caso 1: cliente con facturas no se borra → ErrConflictInUse.
func TestCustomerDelete_ConFacturas_Bloqueado(t *testing.T) {
	repo := newFakeCustomerRepo()
	repo.customers["c1"] = &entity.Customer{ID: "c1", Name: "Ana Pérez", Document: "V-12345678"}
	repo.inInvoices["c1"] = true
	uc := NewCustomerUseCase(repo, testLogger())

	err := uc.Delete("c1")
	assert.ErrorIs(t, err, domain.ErrConflictInUse)
	assert.NotNil(t, repo.customers["c1"])
}

// Caso 2: cliente sin facturas sí se borra.
func TestCustomerDelete_SinFacturas(t *testing.T) {
	repo := newFakeCustomerRepo()
	repo.customers["c1"] = &entity.Customer{ID: "c1", Name: "Ana Pérez", Document: "V-12345678"}
	uc := NewCustomerUseCase(repo, testLogger())

	require.NoError(t, uc.Delete("c1"))
	assert.Nil(t, repo.customers["c1"])
}

// Caso 3: cliente inexistente → ErrNotFound.
func TestCustomerDelete_Inexistente(t *testing.T) {
	uc := NewCustomerUseCase(newFakeCustomerRepo(), testLogger())
	assert.ErrorIs(t, uc.Delete("no-existe"), domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Usuarios
// ──────────────────────────────────────────────────────────────────────────────

// Caso 1: usuario con facturas emitidas no se borra → ErrConflictInUse.
func TestUserDelete_ConFacturas_Bloqueado(t *testing.T) {
	repo := newFakeUserRepo()
	repo.users["u1"] = &entity.User{ID: "u1", Email: "cajero@farmacia.local", Role: entity.RoleVendedor, Active: true}
	repo.inInvoices["u1"] = true
	uc := NewUserUseCase(repo, testLogger())

	err := uc.Delete("u1")
	assert.ErrorIs(t, err, domain.ErrConflictInUse)
	assert.NotNil(t, repo.users["u1"], "se debe desactivar, no borrar")
}

// Caso 2: ToggleActive alterna el estado y lo persiste.
func TestUserToggleActive_Alterna(t *testing.T) {
	repo := newFakeUserRepo()
	repo.users["u1"] = &entity.User{ID: "u1", Email: "cajero@farmacia.local", Role: entity.RoleVendedor, Active: true}
	uc := NewUserUseCase(repo, testLogger())

	out, err := uc.ToggleActive("u1")
	require.NoError(t, err)
	assert.False(t, out.Active)
	assert.False(t, repo.users["u1"].Active)

	out, err = uc.ToggleActive("u1")
	require.NoError(t, err)
	assert.True(t, out.Active)
}

// Caso 3: cambio de email a uno ya usado → ErrEmailAlreadyExists.
func TestUserUpdate_EmailRepetido(t *testing.T) {
	repo := newFakeUserRepo()
	repo.users["u1"] = &entity.User{ID: "u1", Name: "Uno", Email: "uno@farmacia.local", Role: entity.RoleAdmin}
	repo.users["u2"] = &entity.User{ID: "u2", Name: "Dos", Email: "dos@farmacia.local", Role: entity.RoleVendedor}
	uc := NewUserUseCase(repo, testLogger())

	_, err := uc.Update("u2", dto.UpdateUserRequest{
		Name:  "Dos",
		Email: "uno@farmacia.local",
		Role:  "vendedor",
	})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

// Caso 4: rol desconocido → ErrInvalidInput.
func TestUserUpdate_RolInvalido(t *testing.T) {
	repo := newFakeUserRepo()
	repo.users["u1"] = &entity.User{ID: "u1", Name: "Uno", Email: "uno@farmacia.local", Role: entity.RoleAdmin}
	uc := NewUserUseCase(repo, testLogger())

	_, err := uc.Update("u1", dto.UpdateUserRequest{
		Name:  "Uno",
		Email: "uno@farmacia.local",
		Role:  "gerente",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
