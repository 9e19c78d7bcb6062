package entity

// Module representa un área navegable de la aplicación (Productos, Facturación, ...).
// Se siembra en la instalación y es la unidad de granularidad de permisos.
type Module struct {
	ID     string
	Name   string // clave usada por el motor RBAC (ej. "productos")
	Route  string // ruta del frontend (ej. "/productos")
	Icon   string
	Order  int
	Active bool
}

// Permission agrupa los cuatro flags de un rol sobre un módulo.
// Invariante: a lo sumo una fila por (rol, módulo); el rol admin nunca tiene filas.
type Permission struct {
	ID        string
	Role      Role
	ModuleID  string
	CanView   bool
	CanCreate bool
	CanEdit   bool
	CanDelete bool
}

// Allows devuelve el flag correspondiente a la acción.
func (p *Permission) Allows(action Action) bool {
	switch action {
	case ActionView:
		return p.CanView
	case ActionCreate:
		return p.CanCreate
	case ActionEdit:
		return p.CanEdit
	case ActionDelete:
		return p.CanDelete
	}
	return false
}
