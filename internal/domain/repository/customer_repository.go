package repository

import "github.com/farmaven/farmacia-api/internal/domain/entity"

// CustomerRepository define el puerto de persistencia para Customer (facturación).
type CustomerRepository interface {
	Create(customer *entity.Customer) error
	GetByID(id string) (*entity.Customer, error)
	List() ([]*entity.Customer, error)
	Update(customer *entity.Customer) error
	// HasInvoices informa si el cliente tiene al menos una factura (guardia de borrado).
	HasInvoices(customerID string) (bool, error)
	Delete(id string) error
}
