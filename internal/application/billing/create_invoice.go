package billing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/farmaven/farmacia-api/internal/application/dto"
	"github.com/farmaven/farmacia-api/internal/domain"
	"github.com/farmaven/farmacia-api/internal/domain/entity"
	"github.com/farmaven/farmacia-api/internal/domain/repository"
	"github.com/farmaven/farmacia-api/pkg/logger"
	"github.com/farmaven/farmacia-api/pkg/validate"
)

// Tasa de IVA aplicada a toda factura.
var taxRate = decimal.NewFromFloat(0.16)

// Reintentos ante colisión del consecutivo diario bajo concurrencia.
const maxNumberRetries = 3

// InvoiceUseCase crea facturas y descuenta el stock en una sola transacción.
type InvoiceUseCase struct {
	txRunner     TxRunner
	invoiceRepo  repository.InvoiceRepository
	productRepo  repository.ProductRepository
	customerRepo repository.CustomerRepository
	log          *logger.Logger
}

// NewInvoiceUseCase construye el caso de uso.
func NewInvoiceUseCase(
	txRunner TxRunner,
	invoiceRepo repository.InvoiceRepository,
	productRepo repository.ProductRepository,
	customerRepo repository.CustomerRepository,
	log *logger.Logger,
) *InvoiceUseCase {
	return &InvoiceUseCase{
		txRunner:     txRunner,
		invoiceRepo:  invoiceRepo,
		productRepo:  productRepo,
		customerRepo: customerRepo,
		log:          log,
	}
}

// Create emite una factura: valida cliente y productos, calcula totales en el
// servidor (IVA 16%), asigna el consecutivo FAC-YYYYMMDD-NNNN y descuenta el
// stock de cada línea, todo dentro de una transacción. Si el consecutivo
// colisiona con otra emisión concurrente, reintenta la transacción completa.
//
// El stock puede quedar negativo: la venta en mostrador no se bloquea por un
// inventario desactualizado, se registra la advertencia para cuadrar después.
func (uc *InvoiceUseCase) Create(ctx context.Context, userID string, in dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error) {
	if err := validate.Struct(in); err != nil {
		return nil, domain.ErrInvalidInput
	}

	customer, err := uc.customerRepo.GetByID(in.CustomerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, domain.ErrNotFound
	}

	// Validar productos y resolver precios fuera de la tx (solo lectura).
	productsByID := make(map[string]*entity.Product, len(in.Items))
	for i := range in.Items {
		item := &in.Items[i]
		if item.Quantity <= 0 {
			return nil, domain.ErrInvalidInput
		}
		product, err := uc.productRepo.GetByID(item.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, domain.ErrNotFound
		}
		productsByID[item.ProductID] = product
		if item.UnitPrice.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		if item.UnitPrice.IsZero() {
			item.UnitPrice = product.Price
		}
	}

	var inv *entity.Invoice
	var lines []*entity.InvoiceLine

	for attempt := 0; ; attempt++ {
		inv, lines = nil, nil
		err = uc.txRunner.RunInvoice(ctx, func(
			invoiceRepo repository.InvoiceRepository,
			productRepo repository.ProductRepository,
		) error {
			now := time.Now()

			// Consecutivo diario. El conteo dentro de la tx es una primera
			// aproximación; el constraint único sobre number es la guardia
			// autoritativa y dispara el reintento si dos emisiones compiten.
			count, err := invoiceRepo.CountByDay(now)
			if err != nil {
				return err
			}
			number := fmt.Sprintf("%s-%s-%04d", entity.InvoiceNumberPrefix, now.Format("20060102"), count+1)

			var subtotal decimal.Decimal
			for _, item := range in.Items {
				subtotal = subtotal.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
			}
			tax := subtotal.Mul(taxRate).Round(2)
			total := subtotal.Add(tax)

			inv = &entity.Invoice{
				ID:         uuid.New().String(),
				Number:     number,
				CustomerID: in.CustomerID,
				UserID:     userID,
				Subtotal:   subtotal,
				Tax:        tax,
				Total:      total,
				Status:     entity.InvoiceStatusIssued,
				CreatedAt:  now,
			}
			if err := invoiceRepo.Create(inv); err != nil {
				return err
			}

			for _, item := range in.Items {
				line := &entity.InvoiceLine{
					ID:        uuid.New().String(),
					InvoiceID: inv.ID,
					ProductID: item.ProductID,
					Quantity:  item.Quantity,
					UnitPrice: item.UnitPrice,
					Subtotal:  item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))),
				}
				if err := invoiceRepo.CreateLine(line); err != nil {
					return err
				}
				lines = append(lines, line)

				stock, err := productRepo.AdjustStock(item.ProductID, -item.Quantity)
				if err != nil {
					return err
				}
				if stock < 0 {
					uc.log.Warn().Str("product_id", item.ProductID).Int("stock", stock).
						Msg("stock negativo tras facturar")
				}
			}
			return nil
		})

		if err == nil {
			break
		}
		if errors.Is(err, domain.ErrDuplicate) && attempt < maxNumberRetries-1 {
			uc.log.Warn().Int("attempt", attempt+1).Msg("colisión de consecutivo de factura, reintentando")
			continue
		}
		return nil, err
	}

	uc.log.Info().Str("number", inv.Number).Str("customer_id", inv.CustomerID).
		Str("total", inv.Total.StringFixed(2)).Msg("factura emitida")
	return uc.toResponse(inv, customer.Name, "", lines), nil
}

// Get obtiene una factura por ID con su detalle completo.
func (uc *InvoiceUseCase) Get(id string) (*dto.InvoiceResponse, error) {
	inv, err := uc.invoiceRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	lines, err := uc.invoiceRepo.GetLinesByInvoiceID(id)
	if err != nil {
		return nil, err
	}
	customerName := ""
	if customer, err := uc.customerRepo.GetByID(inv.CustomerID); err == nil && customer != nil {
		customerName = customer.Name
	}
	return uc.toResponse(inv, customerName, "", lines), nil
}

// List lista las facturas con nombres de cliente y cajero, sin detalle.
func (uc *InvoiceUseCase) List() ([]dto.InvoiceResponse, error) {
	items, err := uc.invoiceRepo.List()
	if err != nil {
		return nil, err
	}
	out := make([]dto.InvoiceResponse, 0, len(items))
	for _, it := range items {
		out = append(out, *uc.toResponse(&it.Invoice, it.CustomerName, it.CashierName, nil))
	}
	return out, nil
}

func (uc *InvoiceUseCase) toResponse(inv *entity.Invoice, customerName, cashierName string, lines []*entity.InvoiceLine) *dto.InvoiceResponse {
	resp := &dto.InvoiceResponse{
		ID:           inv.ID,
		Number:       inv.Number,
		CustomerID:   inv.CustomerID,
		CustomerName: customerName,
		CashierName:  cashierName,
		Subtotal:     inv.Subtotal,
		Tax:          inv.Tax,
		Total:        inv.Total,
		Status:       inv.Status,
		CreatedAt:    inv.CreatedAt.Format(time.RFC3339),
	}
	for _, l := range lines {
		resp.Items = append(resp.Items, dto.InvoiceItemResponse{
			ID:        l.ID,
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
			Subtotal:  l.Subtotal,
		})
	}
	return resp
}
