package dto

// ModuleResponse módulo del sistema en respuestas.
type ModuleResponse struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Route  string `json:"route"`
	Icon   string `json:"icon,omitempty"`
	Order  int    `json:"order"`
	Active bool   `json:"active"`
}

// PermissionResponse fila de permiso de un rol sobre un módulo.
type PermissionResponse struct {
	ID        string         `json:"id,omitempty"`
	Role      string         `json:"role"`
	Module    ModuleResponse `json:"module"`
	CanView   bool           `json:"can_view"`
	CanCreate bool           `json:"can_create"`
	CanEdit   bool           `json:"can_edit"`
	CanDelete bool           `json:"can_delete"`
}

// UpsertPermissionRequest body para POST /api/roles/permiso.
type UpsertPermissionRequest struct {
	Role      string `json:"role" validate:"required"`
	ModuleID  string `json:"module_id" validate:"required"`
	CanView   bool   `json:"can_view"`
	CanCreate bool   `json:"can_create"`
	CanEdit   bool   `json:"can_edit"`
	CanDelete bool   `json:"can_delete"`
}

// UpdatePermissionRequest body para PUT /api/roles/permiso/:id.
type UpdatePermissionRequest struct {
	CanView   bool `json:"can_view"`
	CanCreate bool `json:"can_create"`
	CanEdit   bool `json:"can_edit"`
	CanDelete bool `json:"can_delete"`
}
