package dto

import "github.com/shopspring/decimal"

// CreateProductRequest body para POST /api/productos.
type CreateProductRequest struct {
	Code                 string          `json:"code" validate:"required"`
	Name                 string          `json:"name" validate:"required"`
	Description          string          `json:"description,omitempty"`
	Price                decimal.Decimal `json:"price"`
	Stock                int             `json:"stock" validate:"min=0"`
	StockMinimum         int             `json:"stock_minimum" validate:"min=0"`
	Category             string          `json:"category,omitempty"`
	Laboratory           string          `json:"laboratory,omitempty"`
	RequiresPrescription bool            `json:"requires_prescription"`
}

// UpdateProductRequest body para PUT /api/productos/:id.
type UpdateProductRequest struct {
	Code                 string          `json:"code" validate:"required"`
	Name                 string          `json:"name" validate:"required"`
	Description          string          `json:"description,omitempty"`
	Price                decimal.Decimal `json:"price"`
	Stock                int             `json:"stock" validate:"min=0"`
	StockMinimum         int             `json:"stock_minimum" validate:"min=0"`
	Category             string          `json:"category,omitempty"`
	Laboratory           string          `json:"laboratory,omitempty"`
	RequiresPrescription bool            `json:"requires_prescription"`
}

// ProductResponse producto en respuestas.
type ProductResponse struct {
	ID                   string          `json:"id"`
	Code                 string          `json:"code"`
	Name                 string          `json:"name"`
	Description          string          `json:"description,omitempty"`
	Price                decimal.Decimal `json:"price"`
	Stock                int             `json:"stock"`
	StockMinimum         int             `json:"stock_minimum"`
	Category             string          `json:"category,omitempty"`
	Laboratory           string          `json:"laboratory,omitempty"`
	RequiresPrescription bool            `json:"requires_prescription"`
	LowStock             bool            `json:"low_stock"`
	CreatedAt            string          `json:"created_at"`
}

// VerifyCodeResponse respuesta de GET /api/productos/verificar-codigo/:code.
type VerifyCodeResponse struct {
	Exists bool `json:"exists"`
}
