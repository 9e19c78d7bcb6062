package repository

import "github.com/farmaven/farmacia-api/internal/domain/entity"

// ProductRepository define el puerto de persistencia para Product (DIP).
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	GetByCode(code string) (*entity.Product, error)
	Update(product *entity.Product) error
	// AdjustStock aplica un delta atómico sobre el stock (UPDATE ... SET stock = stock + delta)
	// y devuelve el stock resultante. El bloqueo de fila lo toma el propio UPDATE.
	AdjustStock(productID string, delta int) (int, error)
	List() ([]*entity.Product, error)
	// Search filtra por nombre/código normalizados (sin acentos, case-insensitive).
	Search(term string) ([]*entity.Product, error)
	ListLowStock() ([]*entity.Product, error)
	CountByCategory(categoryName string) (int, error)
	CountByLaboratory(laboratoryName string) (int, error)
	HasInvoiceLines(productID string) (bool, error)
	Delete(id string) error
}
