package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/farmaven/farmacia-api/internal/domain"
	"github.com/farmaven/farmacia-api/internal/domain/entity"
	"github.com/farmaven/farmacia-api/internal/domain/repository"
)

var _ repository.ModuleRepository = (*ModuleRepo)(nil)
var _ repository.PermissionRepository = (*PermissionRepo)(nil)

// ModuleRepo implementación del puerto ModuleRepository sobre PostgreSQL.
type ModuleRepo struct {
	q Querier
}

// NewModuleRepository construye el adaptador de módulos.
func NewModuleRepository(q Querier) *ModuleRepo {
	return &ModuleRepo{q: q}
}

const moduleColumns = `id, name, route, icon, display_order, active`

// ListActive lista los módulos activos en orden de presentación.
func (r *ModuleRepo) ListActive() ([]*entity.Module, error) {
	rows, err := r.q.Query(context.Background(),
		`SELECT `+moduleColumns+` FROM modules WHERE active = true ORDER BY display_order`)
	if err != nil {
		return nil, fmt.Errorf("list modules: %w", err)
	}
	defer rows.Close()
	var list []*entity.Module
	for rows.Next() {
		var m entity.Module
		if err := rows.Scan(&m.ID, &m.Name, &m.Route, &m.Icon, &m.Order, &m.Active); err != nil {
			return nil, fmt.Errorf("scan module: %w", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}

// GetByID obtiene un módulo por ID.
func (r *ModuleRepo) GetByID(id string) (*entity.Module, error) {
	return r.getOne(`SELECT `+moduleColumns+` FROM modules WHERE id = $1`, id)
}

// GetByName obtiene un módulo por su clave de nombre.
func (r *ModuleRepo) GetByName(name string) (*entity.Module, error) {
	return r.getOne(`SELECT `+moduleColumns+` FROM modules WHERE name = $1`, name)
}

func (r *ModuleRepo) getOne(query string, arg any) (*entity.Module, error) {
	var m entity.Module
	err := r.q.QueryRow(context.Background(), query, arg).Scan(
		&m.ID, &m.Name, &m.Route, &m.Icon, &m.Order, &m.Active,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get module: %w", err)
	}
	return &m, nil
}

// PermissionRepo implementación del puerto PermissionRepository sobre PostgreSQL.
// La tabla lleva UNIQUE (role, module_id): guardia autoritativa contra duplicados.
type PermissionRepo struct {
	q Querier
}

// NewPermissionRepository construye el adaptador de permisos.
func NewPermissionRepository(q Querier) *PermissionRepo {
	return &PermissionRepo{q: q}
}

const permissionColumns = `id, role, module_id, can_view, can_create, can_edit, can_delete`

// Create persiste una fila de permiso nueva.
func (r *PermissionRepo) Create(p *entity.Permission) error {
	query := `
		INSERT INTO role_permissions (id, role, module_id, can_view, can_create, can_edit, can_delete)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(context.Background(), query,
		p.ID, string(p.Role), p.ModuleID, p.CanView, p.CanCreate, p.CanEdit, p.CanDelete,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert permission: %w", err)
	}
	return nil
}

// Update actualiza los cuatro flags en sitio, preservando el id.
func (r *PermissionRepo) Update(p *entity.Permission) error {
	query := `
		UPDATE role_permissions
		SET can_view = $2, can_create = $3, can_edit = $4, can_delete = $5
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		p.ID, p.CanView, p.CanCreate, p.CanEdit, p.CanDelete,
	)
	if err != nil {
		return fmt.Errorf("update permission: %w", err)
	}
	return nil
}

// GetByID obtiene una fila de permiso por ID.
func (r *PermissionRepo) GetByID(id string) (*entity.Permission, error) {
	return r.getOne(`SELECT `+permissionColumns+` FROM role_permissions WHERE id = $1`, id)
}

// GetByRoleAndModule obtiene la fila de permiso de (rol, módulo).
func (r *PermissionRepo) GetByRoleAndModule(role entity.Role, moduleID string) (*entity.Permission, error) {
	query := `SELECT ` + permissionColumns + ` FROM role_permissions WHERE role = $1 AND module_id = $2`
	var p entity.Permission
	var roleStr string
	err := r.q.QueryRow(context.Background(), query, string(role), moduleID).Scan(
		&p.ID, &roleStr, &p.ModuleID, &p.CanView, &p.CanCreate, &p.CanEdit, &p.CanDelete,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get permission: %w", err)
	}
	p.Role = entity.Role(roleStr)
	return &p, nil
}

// GetByRoleAndModuleName resuelve Module.name -> module_id y obtiene la fila de permiso.
func (r *PermissionRepo) GetByRoleAndModuleName(role entity.Role, moduleName string) (*entity.Permission, error) {
	query := `
		SELECT p.id, p.role, p.module_id, p.can_view, p.can_create, p.can_edit, p.can_delete
		FROM role_permissions p
		JOIN modules m ON p.module_id = m.id
		WHERE p.role = $1 AND m.name = $2 AND m.active = true`
	var p entity.Permission
	var roleStr string
	err := r.q.QueryRow(context.Background(), query, string(role), moduleName).Scan(
		&p.ID, &roleStr, &p.ModuleID, &p.CanView, &p.CanCreate, &p.CanEdit, &p.CanDelete,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get permission by module name: %w", err)
	}
	p.Role = entity.Role(roleStr)
	return &p, nil
}

func (r *PermissionRepo) getOne(query string, arg any) (*entity.Permission, error) {
	var p entity.Permission
	var roleStr string
	err := r.q.QueryRow(context.Background(), query, arg).Scan(
		&p.ID, &roleStr, &p.ModuleID, &p.CanView, &p.CanCreate, &p.CanEdit, &p.CanDelete,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get permission: %w", err)
	}
	p.Role = entity.Role(roleStr)
	return &p, nil
}

// ListByRole une los módulos activos con la fila de permiso del rol, en orden de
// presentación. Módulo sin fila aparece con los cuatro flags en false.
func (r *PermissionRepo) ListByRole(role entity.Role) ([]*repository.ModulePermission, error) {
	query := `
		SELECT m.id, m.name, m.route, m.icon, m.display_order, m.active,
		       COALESCE(p.id, ''), COALESCE(p.can_view, false), COALESCE(p.can_create, false),
		       COALESCE(p.can_edit, false), COALESCE(p.can_delete, false)
		FROM modules m
		LEFT JOIN role_permissions p ON p.module_id = m.id AND p.role = $1
		WHERE m.active = true
		ORDER BY m.display_order`
	rows, err := r.q.Query(context.Background(), query, string(role))
	if err != nil {
		return nil, fmt.Errorf("list permissions by role: %w", err)
	}
	defer rows.Close()
	var list []*repository.ModulePermission
	for rows.Next() {
		var mp repository.ModulePermission
		if err := rows.Scan(
			&mp.Module.ID, &mp.Module.Name, &mp.Module.Route, &mp.Module.Icon, &mp.Module.Order, &mp.Module.Active,
			&mp.Permission.ID, &mp.Permission.CanView, &mp.Permission.CanCreate,
			&mp.Permission.CanEdit, &mp.Permission.CanDelete,
		); err != nil {
			return nil, fmt.Errorf("scan module permission: %w", err)
		}
		mp.Permission.Role = role
		mp.Permission.ModuleID = mp.Module.ID
		list = append(list, &mp)
	}
	return list, rows.Err()
}
