package rbac

import (
	"github.com/google/uuid"

	"github.com/farmaven/farmacia-api/internal/application/dto"
	"github.com/farmaven/farmacia-api/internal/domain"
	"github.com/farmaven/farmacia-api/internal/domain/entity"
	"github.com/farmaven/farmacia-api/internal/domain/repository"
	"github.com/farmaven/farmacia-api/pkg/logger"
	"github.com/farmaven/farmacia-api/pkg/validate"
)

// Engine motor de autorización por rol y módulo.
// admin no tiene filas en la tabla de permisos: siempre pasa y sus permisos
// se sintetizan al listarlos.
type Engine struct {
	moduleRepo     repository.ModuleRepository
	permissionRepo repository.PermissionRepository
	log            *logger.Logger
}

// NewEngine construye el motor con los puertos de persistencia.
func NewEngine(moduleRepo repository.ModuleRepository, permissionRepo repository.PermissionRepository, log *logger.Logger) *Engine {
	return &Engine{moduleRepo: moduleRepo, permissionRepo: permissionRepo, log: log}
}

// Check decide si el rol puede ejecutar la acción sobre el módulo.
// Cerrado por defecto: rol desconocido, módulo inexistente o inactivo,
// fila ausente o flag en false niegan el acceso. admin pasa siempre.
func (e *Engine) Check(role entity.Role, moduleName string, action entity.Action) (bool, error) {
	if !role.Valid() || !action.Valid() {
		return false, nil
	}
	if role == entity.RoleAdmin {
		return true, nil
	}

	perm, err := e.permissionRepo.GetByRoleAndModuleName(role, moduleName)
	if err != nil {
		return false, err
	}
	if perm == nil {
		return false, nil
	}
	return perm.Allows(action), nil
}

// ListModules lista los módulos activos del sistema.
func (e *Engine) ListModules() ([]dto.ModuleResponse, error) {
	modules, err := e.moduleRepo.ListActive()
	if err != nil {
		return nil, err
	}
	out := make([]dto.ModuleResponse, 0, len(modules))
	for _, m := range modules {
		out = append(out, moduleToResponse(m))
	}
	return out, nil
}

// ListPermissions lista los permisos del rol módulo por módulo.
// Para admin no hay filas persistidas: se sintetiza todo en true sobre los
// módulos activos. Para los demás roles, módulo sin fila sale todo en false.
func (e *Engine) ListPermissions(role entity.Role) ([]dto.PermissionResponse, error) {
	if !role.Valid() {
		return nil, domain.ErrInvalidInput
	}

	if role == entity.RoleAdmin {
		modules, err := e.moduleRepo.ListActive()
		if err != nil {
			return nil, err
		}
		out := make([]dto.PermissionResponse, 0, len(modules))
		for _, m := range modules {
			out = append(out, dto.PermissionResponse{
				Role:      string(entity.RoleAdmin),
				Module:    moduleToResponse(m),
				CanView:   true,
				CanCreate: true,
				CanEdit:   true,
				CanDelete: true,
			})
		}
		return out, nil
	}

	items, err := e.permissionRepo.ListByRole(role)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PermissionResponse, 0, len(items))
	for _, it := range items {
		out = append(out, dto.PermissionResponse{
			ID:        it.Permission.ID,
			Role:      string(role),
			Module:    moduleToResponse(&it.Module),
			CanView:   it.Permission.CanView,
			CanCreate: it.Permission.CanCreate,
			CanEdit:   it.Permission.CanEdit,
			CanDelete: it.Permission.CanDelete,
		})
	}
	return out, nil
}

// UpsertPermission crea o actualiza la fila de permiso de (rol, módulo).
// Los permisos de admin son inmutables. El constraint único (role, module_id)
// es la guardia autoritativa: si dos upserts compiten, el perdedor relee la
// fila y la actualiza.
func (e *Engine) UpsertPermission(in dto.UpsertPermissionRequest) (*dto.PermissionResponse, error) {
	if err := validate.Struct(in); err != nil {
		return nil, domain.ErrInvalidInput
	}
	role := entity.Role(in.Role)
	if !role.Valid() {
		return nil, domain.ErrInvalidInput
	}
	if role == entity.RoleAdmin {
		return nil, domain.ErrPermissionImmutable
	}

	module, err := e.moduleRepo.GetByID(in.ModuleID)
	if err != nil {
		return nil, err
	}
	if module == nil {
		return nil, domain.ErrNotFound
	}

	perm, err := e.permissionRepo.GetByRoleAndModule(role, in.ModuleID)
	if err != nil {
		return nil, err
	}
	if perm == nil {
		perm = &entity.Permission{
			ID:        uuid.New().String(),
			Role:      role,
			ModuleID:  in.ModuleID,
			CanView:   in.CanView,
			CanCreate: in.CanCreate,
			CanEdit:   in.CanEdit,
			CanDelete: in.CanDelete,
		}
		err = e.permissionRepo.Create(perm)
		if err == domain.ErrDuplicate {
			// Otro upsert ganó la carrera: releer y actualizar esa fila.
			perm, err = e.permissionRepo.GetByRoleAndModule(role, in.ModuleID)
			if err != nil {
				return nil, err
			}
			if perm == nil {
				return nil, domain.ErrNotFound
			}
			perm.CanView, perm.CanCreate, perm.CanEdit, perm.CanDelete = in.CanView, in.CanCreate, in.CanEdit, in.CanDelete
			err = e.permissionRepo.Update(perm)
		}
		if err != nil {
			return nil, err
		}
	} else {
		perm.CanView, perm.CanCreate, perm.CanEdit, perm.CanDelete = in.CanView, in.CanCreate, in.CanEdit, in.CanDelete
		if err := e.permissionRepo.Update(perm); err != nil {
			return nil, err
		}
	}

	e.log.Info().Str("role", string(role)).Str("module", module.Name).Msg("permiso actualizado")
	return &dto.PermissionResponse{
		ID:        perm.ID,
		Role:      string(role),
		Module:    moduleToResponse(module),
		CanView:   perm.CanView,
		CanCreate: perm.CanCreate,
		CanEdit:   perm.CanEdit,
		CanDelete: perm.CanDelete,
	}, nil
}

// UpdatePermission actualiza los flags de una fila existente por ID.
func (e *Engine) UpdatePermission(id string, in dto.UpdatePermissionRequest) (*dto.PermissionResponse, error) {
	perm, err := e.permissionRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if perm == nil {
		return nil, domain.ErrNotFound
	}
	if perm.Role == entity.RoleAdmin {
		return nil, domain.ErrPermissionImmutable
	}

	module, err := e.moduleRepo.GetByID(perm.ModuleID)
	if err != nil {
		return nil, err
	}
	if module == nil {
		return nil, domain.ErrNotFound
	}

	perm.CanView, perm.CanCreate, perm.CanEdit, perm.CanDelete = in.CanView, in.CanCreate, in.CanEdit, in.CanDelete
	if err := e.permissionRepo.Update(perm); err != nil {
		return nil, err
	}

	return &dto.PermissionResponse{
		ID:        perm.ID,
		Role:      string(perm.Role),
		Module:    moduleToResponse(module),
		CanView:   perm.CanView,
		CanCreate: perm.CanCreate,
		CanEdit:   perm.CanEdit,
		CanDelete: perm.CanDelete,
	}, nil
}

// ListPermissionsForUser lista los permisos del rol de un usuario (para el frontend).
func (e *Engine) ListPermissionsForUser(userRepo repository.UserRepository, userID string) ([]dto.PermissionResponse, error) {
	user, err := userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	return e.ListPermissions(user.Role)
}

func moduleToResponse(m *entity.Module) dto.ModuleResponse {
	return dto.ModuleResponse{
		ID:     m.ID,
		Name:   m.Name,
		Route:  m.Route,
		Icon:   m.Icon,
		Order:  m.Order,
		Active: m.Active,
	}
}
