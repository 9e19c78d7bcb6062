package dto

import "github.com/shopspring/decimal"

// CreateOrderRequest body para POST /api/pedidos.
type CreateOrderRequest struct {
	Supplier     string             `json:"supplier" validate:"required"`
	DeliveryDate string             `json:"delivery_date,omitempty"` // "2006-01-02"
	Items        []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
}

// OrderItemRequest línea del pedido de compra.
type OrderItemRequest struct {
	ProductID     string          `json:"product_id" validate:"required"`
	Quantity      int             `json:"quantity" validate:"required,min=1"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
}

// OrderResponse pedido con detalle.
type OrderResponse struct {
	ID           string              `json:"id"`
	Number       string              `json:"number"`
	Supplier     string              `json:"supplier"`
	DeliveryDate string              `json:"delivery_date,omitempty"`
	CashierName  string              `json:"cashier_name,omitempty"`
	Total        decimal.Decimal     `json:"total"`
	Status       string              `json:"status"`
	CreatedAt    string              `json:"created_at"`
	Items        []OrderItemResponse `json:"items,omitempty"`
}

// OrderItemResponse línea de pedido en la respuesta.
type OrderItemResponse struct {
	ID            string          `json:"id"`
	ProductID     string          `json:"product_id"`
	ProductName   string          `json:"product_name,omitempty"`
	Quantity      int             `json:"quantity"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
}

// UpdateOrderStatusRequest body para PUT /api/pedidos/:id/estado.
type UpdateOrderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}
