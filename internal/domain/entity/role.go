package entity

// Role es el rol de un usuario. Conjunto cerrado: no se persiste como entidad.
type Role string

// Roles válidos del sistema.
const (
	RoleAdmin        Role = "admin"
	RoleFarmaceutico Role = "farmaceutico"
	RoleVendedor     Role = "vendedor"
)

// Valid informa si el rol pertenece al conjunto cerrado.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleFarmaceutico, RoleVendedor:
		return true
	}
	return false
}

// Action es una acción sobre un módulo, verificable por el motor RBAC.
type Action string

// Acciones verificables por módulo.
const (
	ActionView   Action = "ver"
	ActionCreate Action = "crear"
	ActionEdit   Action = "editar"
	ActionDelete Action = "eliminar"
)

// Valid informa si la acción es una de las cuatro conocidas.
func (a Action) Valid() bool {
	switch a {
	case ActionView, ActionCreate, ActionEdit, ActionDelete:
		return true
	}
	return false
}
