package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un medicamento o producto de la farmacia.
// Stock se muta solo vía facturación (salida) y recepción de pedidos (entrada).
type Product struct {
	ID                   string
	Code                 string // código único
	Name                 string
	Description          string
	Price                decimal.Decimal
	Stock                int
	StockMinimum         int // umbral de alerta de bajo stock
	Category             string
	Laboratory           string
	RequiresPrescription bool
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// LowStock informa si el producto está en o por debajo del umbral de alerta.
func (p *Product) LowStock() bool {
	return p.Stock <= p.StockMinimum
}
