package repository

import (
	"time"

	"github.com/farmaven/farmacia-api/internal/domain/entity"
)

// OrderLineDetail es una línea de pedido con el nombre del producto unido.
type OrderLineDetail struct {
	Line        entity.OrderLine
	ProductName string
}

// OrderListItem es una fila de listado de pedidos con el nombre del cajero y sus líneas.
type OrderListItem struct {
	Order       entity.PurchaseOrder
	CashierName string
	Lines       []OrderLineDetail
}

// OrderRepository define el puerto de persistencia para PurchaseOrder y sus líneas.
type OrderRepository interface {
	Create(order *entity.PurchaseOrder) error
	CreateLine(line *entity.OrderLine) error
	// GetByIDForUpdate obtiene el pedido bloqueando la fila (SELECT FOR UPDATE)
	// para que el chequeo de estado y el incremento de stock sean un solo paso lógico.
	GetByIDForUpdate(id string) (*entity.PurchaseOrder, error)
	GetByID(id string) (*entity.PurchaseOrder, error)
	GetLinesByOrderID(orderID string) ([]*entity.OrderLine, error)
	UpdateStatus(id, status string) error
	CountByDay(day time.Time) (int, error)
	List() ([]*OrderListItem, error)
}
