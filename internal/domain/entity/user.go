package entity

import "time"

// User representa un usuario del sistema (cajero, farmacéutico o admin).
type User struct {
	ID           string
	Name         string
	Email        string // único
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Role         Role
	Active       bool
	CreatedAt    time.Time
}
