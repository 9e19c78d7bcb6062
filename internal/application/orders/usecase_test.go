package orders_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farmaven/farmacia-api/internal/application/dto"
	"github.com/farmaven/farmacia-api/internal/application/orders"
	"github.com/farmaven/farmacia-api/internal/domain"
	"github.com/farmaven/farmacia-api/internal/domain/entity"
	"github.com/farmaven/farmacia-api/internal/domain/repository"
	"github.com/farmaven/farmacia-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
// ──────────────────────────────────────────────────────────────────────────────

type memStore struct {
	orders   map[string]*entity.PurchaseOrder
	lines    map[string][]*entity.OrderLine
	products map[string]*entity.Product
}

func newMemStore() *memStore {
	return &memStore{
		orders:   map[string]*entity.PurchaseOrder{},
		lines:    map[string][]*entity.OrderLine{},
		products: map[string]*entity.Product{},
	}
}

func (s *memStore) snapshot() *memStore {
	cp := newMemStore()
	for k, v := range s.orders {
		o := *v
		cp.orders[k] = &o
	}
	for k, v := range s.lines {
		ls := make([]*entity.OrderLine, len(v))
		for i, l := range v {
			line := *l
			ls[i] = &line
		}
		cp.lines[k] = ls
	}
	for k, v := range s.products {
		p := *v
		cp.products[k] = &p
	}
	return cp
}

type memOrderRepo struct{ s *memStore }

func (r *memOrderRepo) Create(o *entity.PurchaseOrder) error {
	for _, existing := range r.s.orders {
		if existing.Number == o.Number {
			return domain.ErrDuplicate
		}
	}
	cp := *o
	r.s.orders[o.ID] = &cp
	return nil
}

func (r *memOrderRepo) CreateLine(l *entity.OrderLine) error {
	cp := *l
	r.s.lines[l.OrderID] = append(r.s.lines[l.OrderID], &cp)
	return nil
}

func (r *memOrderRepo) GetByID(id string) (*entity.PurchaseOrder, error) {
	if o, ok := r.s.orders[id]; ok {
		cp := *o
		return &cp, nil
	}
	return nil, nil
}

func (r *memOrderRepo) GetByIDForUpdate(id string) (*entity.PurchaseOrder, error) {
	return r.GetByID(id)
}

func (r *memOrderRepo) GetLinesByOrderID(orderID string) ([]*entity.OrderLine, error) {
	return r.s.lines[orderID], nil
}

func (r *memOrderRepo) UpdateStatus(id, status string) error {
	if o, ok := r.s.orders[id]; ok {
		o.Status = status
	}
	return nil
}

func (r *memOrderRepo) CountByDay(day time.Time) (int, error) {
	n := 0
	for _, o := range r.s.orders {
		if o.CreatedAt.Format("20060102") == day.Format("20060102") {
			n++
		}
	}
	return n, nil
}

func (r *memOrderRepo) List() ([]*repository.OrderListItem, error) {
	var out []*repository.OrderListItem
	for _, o := range r.s.orders {
		out = append(out, &repository.OrderListItem{Order: *o})
	}
	return out, nil
}

type memProductRepo struct{ s *memStore }

func (r *memProductRepo) Create(p *entity.Product) error { return nil }

func (r *memProductRepo) GetByID(id string) (*entity.Product, error) {
	if p, ok := r.s.products[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, nil
}

func (r *memProductRepo) GetByCode(string) (*entity.Product, error) { return nil, nil }
func (r *memProductRepo) Update(*entity.Product) error              { return nil }

func (r *memProductRepo) AdjustStock(productID string, delta int) (int, error) {
	p, ok := r.s.products[productID]
	if !ok {
		return 0, domain.ErrNotFound
	}
	p.Stock += delta
	return p.Stock, nil
}

func (r *memProductRepo) List() ([]*entity.Product, error)         { return nil, nil }
func (r *memProductRepo) Search(string) ([]*entity.Product, error) { return nil, nil }
func (r *memProductRepo) ListLowStock() ([]*entity.Product, error) { return nil, nil }
func (r *memProductRepo) CountByCategory(string) (int, error)      { return 0, nil }
func (r *memProductRepo) CountByLaboratory(string) (int, error)    { return 0, nil }
func (r *memProductRepo) HasInvoiceLines(string) (bool, error)     { return false, nil }
func (r *memProductRepo) Delete(string) error                      { return nil }

type fakeTxRunner struct{ s *memStore }

func (t *fakeTxRunner) RunOrder(_ context.Context, fn func(
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
) error) error {
	before := t.s.snapshot()
	if err := fn(&memOrderRepo{s: t.s}, &memProductRepo{s: t.s}); err != nil {
		t.s.orders, t.s.lines, t.s.products = before.orders, before.lines, before.products
		return err
	}
	return nil
}

func newTestUseCase(t *testing.T) (*orders.UseCase, *memStore) {
	t.Helper()
	s := newMemStore()
	s.products["p1"] = &entity.Product{ID: "p1", Code: "MED-001", Name: "Paracetamol 500mg", Stock: 3}
	s.products["p2"] = &entity.Product{ID: "p2", Code: "MED-002", Name: "Ibuprofeno 400mg", Stock: 0}
	log := logger.New(logger.Config{Env: "development", Level: "error"})
	uc := orders.NewUseCase(&fakeTxRunner{s: s}, &memOrderRepo{s: s}, &memProductRepo{s: s}, log)
	return uc, s
}

func createOrder(t *testing.T, uc *orders.UseCase) *dto.OrderResponse {
	t.Helper()
	resp, err := uc.Create(context.Background(), "u1", dto.CreateOrderRequest{
		Supplier: "Droguería Central",
		Items: []dto.OrderItemRequest{
			{ProductID: "p1", Quantity: 10, PurchasePrice: decimal.NewFromFloat(1.50)},
			{ProductID: "p2", Quantity: 5, PurchasePrice: decimal.NewFromFloat(2.00)},
		},
	})
	require.NoError(t, err)
	return resp
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────────────────────────────────

// Caso 1: crear un pedido no toca el stock; queda pendiente con número PED-.
func TestCreateOrder_NoTocaStock(t *testing.T) {
	uc, s := newTestUseCase(t)

	resp := createOrder(t, uc)

	today := time.Now().Format("20060102")
	assert.Equal(t, fmt.Sprintf("PED-%s-0001", today), resp.Number)
	assert.Equal(t, entity.OrderStatusPending, resp.Status)
	assert.True(t, resp.Total.Equal(decimal.NewFromFloat(25.00)), "10*1.50 + 5*2.00")
	assert.Equal(t, 3, s.products["p1"].Stock, "crear pedido no debe tocar stock")
	assert.Equal(t, 0, s.products["p2"].Stock)
}

// Caso 2: recibir incrementa el stock por línea y marca recibido.
func TestReceiveOrder_IncrementaStock(t *testing.T) {
	uc, s := newTestUseCase(t)
	order := createOrder(t, uc)

	resp, err := uc.Receive(context.Background(), order.ID)
	require.NoError(t, err)

	assert.Equal(t, entity.OrderStatusReceived, resp.Status)
	assert.Equal(t, 13, s.products["p1"].Stock, "3 + 10")
	assert.Equal(t, 5, s.products["p2"].Stock, "0 + 5")
}

// Caso 3: una segunda recepción es rechazada y el stock no se incrementa dos veces.
func TestReceiveOrder_SegundaRecepcionRechazada(t *testing.T) {
	uc, s := newTestUseCase(t)
	order := createOrder(t, uc)

	_, err := uc.Receive(context.Background(), order.ID)
	require.NoError(t, err)

	_, err = uc.Receive(context.Background(), order.ID)
	assert.ErrorIs(t, err, domain.ErrOrderAlreadyReceived)

	assert.Equal(t, 13, s.products["p1"].Stock, "el stock no debe duplicarse")
	assert.Equal(t, 5, s.products["p2"].Stock)
}

// Caso 4: pedido cancelado no se puede recibir.
func TestReceiveOrder_CanceladoRechazado(t *testing.T) {
	uc, s := newTestUseCase(t)
	order := createOrder(t, uc)
	s.orders[order.ID].Status = entity.OrderStatusCancelled

	_, err := uc.Receive(context.Background(), order.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, 3, s.products["p1"].Stock)
}

// Caso 5: cambiar estado a "recibido" vía UpdateStatus delega en Receive.
func TestUpdateStatus_RecibidoDelegaEnReceive(t *testing.T) {
	uc, s := newTestUseCase(t)
	order := createOrder(t, uc)

	resp, err := uc.UpdateStatus(context.Background(), order.ID, dto.UpdateOrderStatusRequest{
		Status: entity.OrderStatusReceived,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusReceived, resp.Status)
	assert.Equal(t, 13, s.products["p1"].Stock, "debe incrementar stock como Receive")
}

// Caso 6: estado desconocido responde ErrInvalidInput.
func TestUpdateStatus_EstadoInvalido(t *testing.T) {
	uc, _ := newTestUseCase(t)
	order := createOrder(t, uc)

	_, err := uc.UpdateStatus(context.Background(), order.ID, dto.UpdateOrderStatusRequest{
		Status: "entregado",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// Caso 7: el consecutivo de pedidos es incremental por día.
func TestCreateOrder_ConsecutivoDiario(t *testing.T) {
	uc, _ := newTestUseCase(t)

	first := createOrder(t, uc)
	second := createOrder(t, uc)

	today := time.Now().Format("20060102")
	assert.Equal(t, fmt.Sprintf("PED-%s-0001", today), first.Number)
	assert.Equal(t, fmt.Sprintf("PED-%s-0002", today), second.Number)
}
