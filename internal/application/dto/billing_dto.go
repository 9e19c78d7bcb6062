package dto

import "github.com/shopspring/decimal"

// CreateInvoiceRequest body para POST /api/facturas.
// Los totales se calculan en el servidor; el cliente solo manda líneas.
type CreateInvoiceRequest struct {
	CustomerID string               `json:"customer_id" validate:"required"`
	Items      []InvoiceItemRequest `json:"items" validate:"required,min=1,dive"`
}

// InvoiceItemRequest línea de factura (producto y cantidad).
// UnitPrice opcional; si va en cero se toma el precio vigente del producto.
type InvoiceItemRequest struct {
	ProductID string          `json:"product_id" validate:"required"`
	Quantity  int             `json:"quantity" validate:"required,min=1"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// InvoiceResponse factura con detalle para GET /api/facturas/:id.
type InvoiceResponse struct {
	ID           string                `json:"id"`
	Number       string                `json:"number"`
	CustomerID   string                `json:"customer_id"`
	CustomerName string                `json:"customer_name,omitempty"`
	CashierName  string                `json:"cashier_name,omitempty"`
	Subtotal     decimal.Decimal       `json:"subtotal"`
	Tax          decimal.Decimal       `json:"tax"`
	Total        decimal.Decimal       `json:"total"`
	Status       string                `json:"status"`
	CreatedAt    string                `json:"created_at"`
	Items        []InvoiceItemResponse `json:"items,omitempty"`
}

// InvoiceItemResponse línea de detalle en la respuesta.
type InvoiceItemResponse struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}
