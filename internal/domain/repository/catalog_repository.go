package repository

import "github.com/farmaven/farmacia-api/internal/domain/entity"

// CategoryWithCount es una categoría con el total de productos que la usan.
type CategoryWithCount struct {
	Category entity.Category
	Products int
}

// LaboratoryWithCount es un laboratorio con el total de productos que lo usan.
type LaboratoryWithCount struct {
	Laboratory entity.Laboratory
	Products   int
}

// CategoryRepository define el puerto de persistencia para Category.
type CategoryRepository interface {
	Create(category *entity.Category) error
	GetByID(id string) (*entity.Category, error)
	GetByName(name string) (*entity.Category, error)
	List() ([]*CategoryWithCount, error)
	Update(category *entity.Category) error
	Delete(id string) error
}

// LaboratoryRepository define el puerto de persistencia para Laboratory.
type LaboratoryRepository interface {
	Create(laboratory *entity.Laboratory) error
	GetByID(id string) (*entity.Laboratory, error)
	GetByName(name string) (*entity.Laboratory, error)
	List() ([]*LaboratoryWithCount, error)
	Update(laboratory *entity.Laboratory) error
	Delete(id string) error
}
