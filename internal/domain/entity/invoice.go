package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceNumberPrefix es el prefijo del consecutivo diario de facturas.
// Formato completo: FAC-YYYYMMDD-NNNN.
const InvoiceNumberPrefix = "FAC"

// Invoice representa la cabecera de una factura de venta.
type Invoice struct {
	ID         string
	Number     string // FAC-YYYYMMDD-NNNN, único
	CustomerID string
	UserID     string // cajero que emitió la factura
	Subtotal   decimal.Decimal
	Tax        decimal.Decimal // IVA 16%
	Total      decimal.Decimal
	Status     string // "emitida" | "anulada"
	CreatedAt  time.Time
}

// InvoiceLine es una línea de detalle de factura.
type InvoiceLine struct {
	ID        string
	InvoiceID string
	ProductID string
	Quantity  int
	UnitPrice decimal.Decimal
	Subtotal  decimal.Decimal
}

// Estados de factura.
const (
	InvoiceStatusIssued = "emitida"
	InvoiceStatusVoided = "anulada"
)
