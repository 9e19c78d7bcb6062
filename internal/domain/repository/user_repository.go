package repository

import "github.com/farmaven/farmacia-api/internal/domain/entity"

// UserRepository define el puerto de persistencia para User.
type UserRepository interface {
	Create(user *entity.User) error
	GetByID(id string) (*entity.User, error)
	GetByEmail(email string) (*entity.User, error)
	List() ([]*entity.User, error)
	Update(user *entity.User) error
	UpdatePassword(id, passwordHash string) error
	SetActive(id string, active bool) error
	// HasInvoices informa si el usuario emitió al menos una factura (guardia de borrado).
	HasInvoices(userID string) (bool, error)
	Delete(id string) error
}
