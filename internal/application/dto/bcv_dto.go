package dto

import "github.com/shopspring/decimal"

// RateResponse tasas de cambio Bs por divisa para GET /api/bcv/tasa.
type RateResponse struct {
	USD       decimal.Decimal `json:"usd"`
	EUR       decimal.Decimal `json:"eur"`
	Source    string          `json:"source"`     // "bcv" o "fallback"
	FetchedAt string          `json:"fetched_at"` // RFC 3339
}
