// Package bcv consulta la tasa de cambio oficial (Bs por divisa) con una
// caché en memoria. Si el servicio remoto no responde se sirve la última
// tasa conocida aunque esté vencida, y en último término valores fijos.
package bcv

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/farmaven/farmacia-api/internal/application/dto"
	"github.com/farmaven/farmacia-api/pkg/logger"
)

// Tasas de último recurso cuando nunca se ha podido consultar el servicio.
var (
	fallbackUSD = decimal.NewFromFloat(396.37)
	fallbackEUR = decimal.NewFromFloat(470.28)
)

// Client cliente HTTP del servicio de tasas con caché TTL.
type Client struct {
	url  string
	ttl  time.Duration
	http *http.Client
	log  *logger.Logger

	mu        sync.Mutex
	cached    *dto.RateResponse
	fetchedAt time.Time
}

// NewClient construye el cliente. ttlMinutes controla la vigencia de la caché.
func NewClient(url string, ttlMinutes int, log *logger.Logger) *Client {
	return &Client{
		url:  url,
		ttl:  time.Duration(ttlMinutes) * time.Minute,
		http: &http.Client{Timeout: 10 * time.Second},
		log:  log,
	}
}

// ratesPayload forma del JSON del servicio remoto.
type ratesPayload struct {
	USD decimal.Decimal `json:"usd"`
	EUR decimal.Decimal `json:"eur"`
}

// GetRate devuelve la tasa vigente. Orden de resolución: caché fresca,
// servicio remoto, caché vencida, valores fijos.
func (c *Client) GetRate() (*dto.RateResponse, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cached != nil && time.Since(c.fetchedAt) < c.ttl {
		return c.cached, nil
	}

	rates, err := c.fetch()
	if err != nil {
		c.log.Warn().Err(err).Msg("no se pudo consultar la tasa BCV")
		if c.cached != nil {
			// Tasa vencida es mejor que ninguna.
			return c.cached, nil
		}
		now := time.Now()
		return &dto.RateResponse{
			USD:       fallbackUSD,
			EUR:       fallbackEUR,
			Source:    "fallback",
			FetchedAt: now.Format(time.RFC3339),
		}, nil
	}

	now := time.Now()
	c.cached = &dto.RateResponse{
		USD:       rates.USD,
		EUR:       rates.EUR,
		Source:    "bcv",
		FetchedAt: now.Format(time.RFC3339),
	}
	c.fetchedAt = now
	c.log.Info().Str("usd", rates.USD.String()).Str("eur", rates.EUR.String()).Msg("tasa BCV actualizada")
	return c.cached, nil
}

func (c *Client) fetch() (*ratesPayload, error) {
	resp, err := c.http.Get(c.url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("bcv: status %d", resp.StatusCode)
	}

	var payload ratesPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("bcv: decodificar respuesta: %w", err)
	}
	if payload.USD.IsZero() || payload.USD.IsNegative() {
		return nil, fmt.Errorf("bcv: tasa USD inválida")
	}
	return &payload, nil
}
