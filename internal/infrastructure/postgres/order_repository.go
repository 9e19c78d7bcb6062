package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/farmaven/farmacia-api/internal/domain"
	"github.com/farmaven/farmacia-api/internal/domain/entity"
	"github.com/farmaven/farmacia-api/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

const orderColumns = `id, number, user_id, supplier, delivery_date, total, status, created_at`

// OrderRepo implementación de OrderRepository (usable con pool o tx).
type OrderRepo struct {
	q Querier
}

// NewOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

// Create persiste la cabecera del pedido.
func (r *OrderRepo) Create(o *entity.PurchaseOrder) error {
	query := `
		INSERT INTO purchase_orders (id, number, user_id, supplier, delivery_date, total, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		o.ID, o.Number, o.UserID, o.Supplier, o.DeliveryDate, o.Total, o.Status, o.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

// CreateLine persiste una línea del pedido.
func (r *OrderRepo) CreateLine(line *entity.OrderLine) error {
	query := `
		INSERT INTO order_lines (id, order_id, product_id, quantity, purchase_price)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.q.Exec(context.Background(), query,
		line.ID, line.OrderID, line.ProductID, line.Quantity, line.PurchasePrice,
	)
	if err != nil {
		return fmt.Errorf("insert order line: %w", err)
	}
	return nil
}

// GetByID obtiene un pedido por ID.
func (r *OrderRepo) GetByID(id string) (*entity.PurchaseOrder, error) {
	return r.getOne(`SELECT `+orderColumns+` FROM purchase_orders WHERE id = $1`, id)
}

// GetByIDForUpdate obtiene el pedido bloqueando la fila. Debe usarse dentro de
// una transacción: serializa recepciones concurrentes del mismo pedido.
func (r *OrderRepo) GetByIDForUpdate(id string) (*entity.PurchaseOrder, error) {
	return r.getOne(`SELECT `+orderColumns+` FROM purchase_orders WHERE id = $1 FOR UPDATE`, id)
}

func (r *OrderRepo) getOne(query string, arg any) (*entity.PurchaseOrder, error) {
	var o entity.PurchaseOrder
	err := r.q.QueryRow(context.Background(), query, arg).Scan(
		&o.ID, &o.Number, &o.UserID, &o.Supplier, &o.DeliveryDate, &o.Total, &o.Status, &o.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	return &o, nil
}

// GetLinesByOrderID obtiene todas las líneas de un pedido.
func (r *OrderRepo) GetLinesByOrderID(orderID string) ([]*entity.OrderLine, error) {
	query := `
		SELECT id, order_id, product_id, quantity, purchase_price
		FROM order_lines WHERE order_id = $1 ORDER BY id`
	rows, err := r.q.Query(context.Background(), query, orderID)
	if err != nil {
		return nil, fmt.Errorf("list order lines: %w", err)
	}
	defer rows.Close()
	var list []*entity.OrderLine
	for rows.Next() {
		var l entity.OrderLine
		if err := rows.Scan(&l.ID, &l.OrderID, &l.ProductID, &l.Quantity, &l.PurchasePrice); err != nil {
			return nil, fmt.Errorf("scan order line: %w", err)
		}
		list = append(list, &l)
	}
	return list, rows.Err()
}

// UpdateStatus cambia el estado del pedido.
func (r *OrderRepo) UpdateStatus(id, status string) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE purchase_orders SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	return nil
}

// CountByDay cuenta los pedidos del día calendario dado (consecutivo diario).
func (r *OrderRepo) CountByDay(day time.Time) (int, error) {
	var n int
	err := r.q.QueryRow(context.Background(),
		`SELECT COUNT(*) FROM purchase_orders WHERE created_at::date = $1::date`, day,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count orders by day: %w", err)
	}
	return n, nil
}

// List lista pedidos con nombre del cajero y sus líneas (nombre de producto unido),
// los más recientes primero.
func (r *OrderRepo) List() ([]*repository.OrderListItem, error) {
	query := `
		SELECT o.id, o.number, o.user_id, o.supplier, o.delivery_date, o.total, o.status, o.created_at,
		       COALESCE(u.name, '')
		FROM purchase_orders o
		LEFT JOIN users u ON o.user_id = u.id
		ORDER BY o.created_at DESC`
	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()
	var list []*repository.OrderListItem
	for rows.Next() {
		var it repository.OrderListItem
		if err := rows.Scan(
			&it.Order.ID, &it.Order.Number, &it.Order.UserID, &it.Order.Supplier,
			&it.Order.DeliveryDate, &it.Order.Total, &it.Order.Status, &it.Order.CreatedAt,
			&it.CashierName,
		); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		list = append(list, &it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, it := range list {
		lines, err := r.listLineDetails(it.Order.ID)
		if err != nil {
			return nil, err
		}
		it.Lines = lines
	}
	return list, nil
}

func (r *OrderRepo) listLineDetails(orderID string) ([]repository.OrderLineDetail, error) {
	query := `
		SELECT l.id, l.order_id, l.product_id, l.quantity, l.purchase_price, COALESCE(p.name, '')
		FROM order_lines l
		JOIN products p ON l.product_id = p.id
		WHERE l.order_id = $1 ORDER BY l.id`
	rows, err := r.q.Query(context.Background(), query, orderID)
	if err != nil {
		return nil, fmt.Errorf("list order line details: %w", err)
	}
	defer rows.Close()
	var list []repository.OrderLineDetail
	for rows.Next() {
		var d repository.OrderLineDetail
		if err := rows.Scan(&d.Line.ID, &d.Line.OrderID, &d.Line.ProductID, &d.Line.Quantity, &d.Line.PurchasePrice, &d.ProductName); err != nil {
			return nil, fmt.Errorf("scan order line detail: %w", err)
		}
		list = append(list, d)
	}
	return list, rows.Err()
}
