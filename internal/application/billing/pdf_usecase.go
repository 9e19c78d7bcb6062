package billing

import (
	"context"
	"fmt"

	"github.com/farmaven/farmacia-api/internal/domain"
	"github.com/farmaven/farmacia-api/internal/domain/repository"
)

// PDFUseCase genera la representación gráfica (PDF) de una factura emitida.
type PDFUseCase struct {
	invoiceRepo  repository.InvoiceRepository
	customerRepo repository.CustomerRepository
	productRepo  repository.ProductRepository
	generator    InvoicePDFGenerator
}

// NewPDFUseCase construye el caso de uso inyectando sus dependencias.
func NewPDFUseCase(
	invoiceRepo repository.InvoiceRepository,
	customerRepo repository.CustomerRepository,
	productRepo repository.ProductRepository,
	generator InvoicePDFGenerator,
) *PDFUseCase {
	return &PDFUseCase{
		invoiceRepo:  invoiceRepo,
		customerRepo: customerRepo,
		productRepo:  productRepo,
		generator:    generator,
	}
}

// DownloadInvoicePDF carga la factura completa y genera el PDF.
// Retorna (pdfBytes, filename, nil) o domain.ErrNotFound si no existe.
func (uc *PDFUseCase) DownloadInvoicePDF(ctx context.Context, invoiceID string) ([]byte, string, error) {
	inv, err := uc.invoiceRepo.GetByID(invoiceID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener factura: %w", err)
	}
	if inv == nil {
		return nil, "", domain.ErrNotFound
	}

	customerName := ""
	if customer, err := uc.customerRepo.GetByID(inv.CustomerID); err == nil && customer != nil {
		customerName = customer.Name
	}

	rawLines, err := uc.invoiceRepo.GetLinesByInvoiceID(invoiceID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener líneas: %w", err)
	}
	lines := make([]InvoiceLineForPDF, 0, len(rawLines))
	for _, l := range rawLines {
		name := l.ProductID
		if product, err := uc.productRepo.GetByID(l.ProductID); err == nil && product != nil {
			name = product.Name
		}
		lines = append(lines, InvoiceLineForPDF{
			ProductName: name,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			Subtotal:    l.Subtotal,
		})
	}

	pdfBytes, err := uc.generator.GenerateInvoicePDF(ctx, inv, customerName, lines)
	if err != nil {
		return nil, "", err
	}
	return pdfBytes, inv.Number + ".pdf", nil
}
