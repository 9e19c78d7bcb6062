package rbac_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farmaven/farmacia-api/internal/application/dto"
	"github.com/farmaven/farmacia-api/internal/application/rbac"
	"github.com/farmaven/farmacia-api/internal/domain"
	"github.com/farmaven/farmacia-api/internal/domain/entity"
	"github.com/farmaven/farmacia-api/internal/domain/repository"
	"github.com/farmaven/farmacia-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
// ──────────────────────────────────────────────────────────────────────────────

type fakeModuleRepo struct {
	modules []*entity.Module
}

func (f *fakeModuleRepo) ListActive() ([]*entity.Module, error) {
	var out []*entity.Module
	for _, m := range f.modules {
		if m.Active {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeModuleRepo) GetByID(id string) (*entity.Module, error) {
	for _, m := range f.modules {
		if m.ID == id {
			return m, nil
		}
	}
	return nil, nil
}

func (f *fakeModuleRepo) GetByName(name string) (*entity.Module, error) {
	for _, m := range f.modules {
		if m.Name == name {
			return m, nil
		}
	}
	return nil, nil
}

type fakePermissionRepo struct {
	perms   []*entity.Permission
	modules *fakeModuleRepo
}

func (f *fakePermissionRepo) Create(p *entity.Permission) error {
	for _, existing := range f.perms {
		if existing.Role == p.Role && existing.ModuleID == p.ModuleID {
			return domain.ErrDuplicate
		}
	}
	cp := *p
	f.perms = append(f.perms, &cp)
	return nil
}

func (f *fakePermissionRepo) Update(p *entity.Permission) error {
	for _, existing := range f.perms {
		if existing.ID == p.ID {
			*existing = *p
			return nil
		}
	}
	return nil
}

func (f *fakePermissionRepo) GetByID(id string) (*entity.Permission, error) {
	for _, p := range f.perms {
		if p.ID == id {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakePermissionRepo) GetByRoleAndModule(role entity.Role, moduleID string) (*entity.Permission, error) {
	for _, p := range f.perms {
		if p.Role == role && p.ModuleID == moduleID {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakePermissionRepo) GetByRoleAndModuleName(role entity.Role, moduleName string) (*entity.Permission, error) {
	m, _ := f.modules.GetByName(moduleName)
	if m == nil || !m.Active {
		return nil, nil
	}
	return f.GetByRoleAndModule(role, m.ID)
}

func (f *fakePermissionRepo) ListByRole(role entity.Role) ([]*repository.ModulePermission, error) {
	active, _ := f.modules.ListActive()
	var out []*repository.ModulePermission
	for _, m := range active {
		mp := &repository.ModulePermission{Module: *m}
		mp.Permission.Role = role
		mp.Permission.ModuleID = m.ID
		if p, _ := f.GetByRoleAndModule(role, m.ID); p != nil {
			mp.Permission = *p
		}
		out = append(out, mp)
	}
	return out, nil
}

func newTestEngine() (*rbac.Engine, *fakeModuleRepo, *fakePermissionRepo) {
	modules := &fakeModuleRepo{modules: []*entity.Module{
		{ID: "m-productos", Name: "productos", Route: "/productos", Order: 1, Active: true},
		{ID: "m-clientes", Name: "clientes", Route: "/clientes", Order: 2, Active: true},
		{ID: "m-facturacion", Name: "facturacion", Route: "/facturacion", Order: 3, Active: true},
		{ID: "m-reportes", Name: "reportes", Route: "/reportes", Order: 4, Active: false},
	}}
	perms := &fakePermissionRepo{modules: modules}
	log := logger.New(logger.Config{Env: "development", Level: "error"})
	return rbac.NewEngine(modules, perms, log), modules, perms
}

// ──────────────────────────────────────────────────────────────────────────────
// Check
// ──────────────────────────────────────────────────────────────────────────────

// Caso 1: admin pasa siempre, tenga o no filas de permiso.
func TestCheck_AdminSiemprePasa(t *testing.T) {
	engine, _, _ := newTestEngine()

	for _, action := range []entity.Action{entity.ActionView, entity.ActionCreate, entity.ActionEdit, entity.ActionDelete} {
		ok, err := engine.Check(entity.RoleAdmin, "productos", action)
		require.NoError(t, err)
		assert.True(t, ok, "admin debe pasar la acción %s sin fila de permiso", action)
	}
}

// Caso 2: rol sin fila de permiso es denegado (cerrado por defecto).
func TestCheck_SinFilaDeniega(t *testing.T) {
	engine, _, _ := newTestEngine()

	ok, err := engine.Check(entity.RoleVendedor, "productos", entity.ActionView)
	require.NoError(t, err)
	assert.False(t, ok, "vendedor sin fila debe ser denegado")
}

// Caso 3: la fila concede exactamente los flags en true.
func TestCheck_FlagsPorAccion(t *testing.T) {
	engine, _, perms := newTestEngine()
	perms.perms = append(perms.perms, &entity.Permission{
		ID: "p1", Role: entity.RoleVendedor, ModuleID: "m-productos",
		CanView: true, CanCreate: false, CanEdit: true, CanDelete: false,
	})

	cases := []struct {
		action entity.Action
		want   bool
	}{
		{entity.ActionView, true},
		{entity.ActionCreate, false},
		{entity.ActionEdit, true},
		{entity.ActionDelete, false},
	}
	for _, tc := range cases {
		ok, err := engine.Check(entity.RoleVendedor, "productos", tc.action)
		require.NoError(t, err)
		assert.Equal(t, tc.want, ok, "acción %s", tc.action)
	}
}

// Caso 4: módulo inactivo o inexistente deniega aunque exista la fila.
func TestCheck_ModuloInactivoDeniega(t *testing.T) {
	engine, _, perms := newTestEngine()
	perms.perms = append(perms.perms, &entity.Permission{
		ID: "p1", Role: entity.RoleFarmaceutico, ModuleID: "m-reportes",
		CanView: true, CanCreate: true, CanEdit: true, CanDelete: true,
	})

	ok, err := engine.Check(entity.RoleFarmaceutico, "reportes", entity.ActionView)
	require.NoError(t, err)
	assert.False(t, ok, "módulo inactivo debe denegar")

	ok, err = engine.Check(entity.RoleFarmaceutico, "inexistente", entity.ActionView)
	require.NoError(t, err)
	assert.False(t, ok, "módulo inexistente debe denegar")
}

// Caso 5: rol o acción fuera del conjunto cerrado deniegan sin error.
func TestCheck_RolOAccionDesconocidosDeniegan(t *testing.T) {
	engine, _, _ := newTestEngine()

	ok, err := engine.Check(entity.Role("gerente"), "productos", entity.ActionView)
	require.NoError(t, err)
	assert.False(t, ok, "rol desconocido debe denegar")

	ok, err = engine.Check(entity.RoleVendedor, "productos", entity.Action("exportar"))
	require.NoError(t, err)
	assert.False(t, ok, "acción desconocida debe denegar")
}

// ──────────────────────────────────────────────────────────────────────────────
// ListPermissions
// ──────────────────────────────────────────────────────────────────────────────

// Caso 6: para admin se sintetizan permisos todo-en-true sobre los módulos activos.
func TestListPermissions_AdminSintetizado(t *testing.T) {
	engine, _, _ := newTestEngine()

	out, err := engine.ListPermissions(entity.RoleAdmin)
	require.NoError(t, err)
	require.Len(t, out, 3, "solo módulos activos")
	for _, p := range out {
		assert.True(t, p.CanView && p.CanCreate && p.CanEdit && p.CanDelete,
			"admin debe tener todo en true sobre %s", p.Module.Name)
		assert.Empty(t, p.ID, "los permisos de admin no se persisten")
	}
}

// Caso 7: rol normal lista todos los módulos activos; sin fila sale todo en false.
func TestListPermissions_RolNormalCompleto(t *testing.T) {
	engine, _, perms := newTestEngine()
	perms.perms = append(perms.perms, &entity.Permission{
		ID: "p1", Role: entity.RoleVendedor, ModuleID: "m-facturacion",
		CanView: true, CanCreate: true,
	})

	out, err := engine.ListPermissions(entity.RoleVendedor)
	require.NoError(t, err)
	require.Len(t, out, 3)

	byModule := map[string]dto.PermissionResponse{}
	for _, p := range out {
		byModule[p.Module.Name] = p
	}
	assert.True(t, byModule["facturacion"].CanView)
	assert.True(t, byModule["facturacion"].CanCreate)
	assert.False(t, byModule["facturacion"].CanDelete)
	assert.False(t, byModule["productos"].CanView, "módulo sin fila sale en false")
}

// ──────────────────────────────────────────────────────────────────────────────
// UpsertPermission
// ──────────────────────────────────────────────────────────────────────────────

// Caso 8: los permisos de admin son inmutables.
func TestUpsertPermission_AdminInmutable(t *testing.T) {
	engine, _, _ := newTestEngine()

	_, err := engine.UpsertPermission(dto.UpsertPermissionRequest{
		Role: "admin", ModuleID: "m-productos", CanView: false,
	})
	assert.ErrorIs(t, err, domain.ErrPermissionImmutable)
}

// Caso 9: crea la fila si no existe y la actualiza si ya existe (a lo sumo una por rol+módulo).
func TestUpsertPermission_CreaYActualiza(t *testing.T) {
	engine, _, perms := newTestEngine()

	first, err := engine.UpsertPermission(dto.UpsertPermissionRequest{
		Role: "vendedor", ModuleID: "m-productos", CanView: true,
	})
	require.NoError(t, err)
	assert.True(t, first.CanView)
	assert.Len(t, perms.perms, 1)

	second, err := engine.UpsertPermission(dto.UpsertPermissionRequest{
		Role: "vendedor", ModuleID: "m-productos", CanView: true, CanEdit: true,
	})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID, "debe actualizar la fila existente, no crear otra")
	assert.True(t, second.CanEdit)
	assert.Len(t, perms.perms, 1, "a lo sumo una fila por (rol, módulo)")
}

// Caso 10: módulo inexistente responde ErrNotFound.
func TestUpsertPermission_ModuloInexistente(t *testing.T) {
	engine, _, _ := newTestEngine()

	_, err := engine.UpsertPermission(dto.UpsertPermissionRequest{
		Role: "vendedor", ModuleID: "m-nada", CanView: true,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
