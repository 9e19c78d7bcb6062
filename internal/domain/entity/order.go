package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderNumberPrefix es el prefijo del consecutivo diario de pedidos a proveedor.
const OrderNumberPrefix = "PED"

// Estados de un pedido a proveedor. La recepción es de una sola vía:
// pendiente/en_proceso -> recibido.
const (
	OrderStatusPending   = "pendiente"
	OrderStatusInProcess = "en_proceso"
	OrderStatusReceived  = "recibido"
	OrderStatusCancelled = "cancelado"
)

// PurchaseOrder representa un pedido de reposición a un proveedor.
// Su creación no toca stock; la recepción incrementa el stock por línea.
type PurchaseOrder struct {
	ID           string
	Number       string // PED-YYYYMMDD-NNNN, único
	UserID       string
	Supplier     string
	DeliveryDate time.Time
	Total        decimal.Decimal
	Status       string
	CreatedAt    time.Time
}

// OrderLine es una línea de detalle de pedido.
type OrderLine struct {
	ID            string
	OrderID       string
	ProductID     string
	Quantity      int
	PurchasePrice decimal.Decimal
}
