package billing

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/farmaven/farmacia-api/internal/domain/entity"
	"github.com/farmaven/farmacia-api/internal/domain/repository"
)

// TxRunner ejecuta una función con repos de facturación y productos ligados
// a una misma transacción. Si fn retorna error se hace rollback completo:
// cabecera, líneas y descuentos de stock se confirman o revierten juntos.
type TxRunner interface {
	RunInvoice(ctx context.Context, fn func(
		invoiceRepo repository.InvoiceRepository,
		productRepo repository.ProductRepository,
	) error) error
}

// InvoiceLineForPDF línea de factura con el nombre del producto resuelto,
// lista para pintar en la tabla del PDF.
type InvoiceLineForPDF struct {
	ProductName string
	Quantity    int
	UnitPrice   decimal.Decimal
	Subtotal    decimal.Decimal
}

// InvoicePDFGenerator genera la representación gráfica (PDF) de una factura.
type InvoicePDFGenerator interface {
	GenerateInvoicePDF(
		ctx context.Context,
		invoice *entity.Invoice,
		customerName string,
		lines []InvoiceLineForPDF,
	) ([]byte, error)
}
