package entity

import "time"

// Category agrupa productos por tipo (analgésicos, antibióticos, ...).
// No se puede eliminar mientras productos la referencien por nombre.
type Category struct {
	ID          string
	Name        string // único
	Description string
	CreatedAt   time.Time
}

// Laboratory es el fabricante de un producto. Misma regla de borrado que Category.
type Laboratory struct {
	ID          string
	Name        string // único
	Description string
	CreatedAt   time.Time
}
