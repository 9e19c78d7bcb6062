package repository

import "github.com/farmaven/farmacia-api/internal/domain/entity"

// ModulePermission es un módulo activo con los flags efectivos de un rol.
// Un módulo sin fila de permiso aparece con los cuatro flags en false.
type ModulePermission struct {
	Module     entity.Module
	Permission entity.Permission
}

// ModuleRepository define el puerto de persistencia para Module.
type ModuleRepository interface {
	ListActive() ([]*entity.Module, error)
	GetByID(id string) (*entity.Module, error)
	GetByName(name string) (*entity.Module, error)
}

// PermissionRepository define el puerto de persistencia para Permission.
// La base de datos garantiza unicidad de (rol, módulo); el motor RBAC hace
// lookup-then-write como camino rápido.
type PermissionRepository interface {
	Create(permission *entity.Permission) error
	Update(permission *entity.Permission) error
	GetByID(id string) (*entity.Permission, error)
	GetByRoleAndModule(role entity.Role, moduleID string) (*entity.Permission, error)
	GetByRoleAndModuleName(role entity.Role, moduleName string) (*entity.Permission, error)
	ListByRole(role entity.Role) ([]*ModulePermission, error)
}
