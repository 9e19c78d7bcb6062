package repository

import (
	"time"

	"github.com/farmaven/farmacia-api/internal/domain/entity"
)

// InvoiceListItem es una fila de listado con los nombres de cliente y cajero ya unidos.
type InvoiceListItem struct {
	Invoice      entity.Invoice
	CustomerName string
	CashierName  string
}

// InvoiceRepository define el puerto de persistencia para Invoice y sus líneas.
type InvoiceRepository interface {
	Create(invoice *entity.Invoice) error
	CreateLine(line *entity.InvoiceLine) error
	GetByID(id string) (*entity.Invoice, error)
	GetLinesByInvoiceID(invoiceID string) ([]*entity.InvoiceLine, error)
	// CountByDay cuenta las facturas creadas en el día calendario dado (consecutivo diario).
	CountByDay(day time.Time) (int, error)
	List() ([]*InvoiceListItem, error)
}
