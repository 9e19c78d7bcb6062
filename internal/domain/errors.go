package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound             = errors.New("recurso no encontrado")
	ErrUserNotFound         = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists   = errors.New("el email ya está registrado")
	ErrInvalidInput         = errors.New("entrada inválida")
	ErrDuplicate            = errors.New("recurso duplicado")
	ErrUnauthorized         = errors.New("no autorizado")
	ErrForbidden            = errors.New("acceso denegado")
	ErrConflictInUse        = errors.New("el recurso tiene registros asociados")
	ErrPermissionImmutable  = errors.New("los permisos del rol admin no se pueden modificar")
	ErrOrderAlreadyReceived = errors.New("el pedido ya fue recibido")
	ErrExternalTool         = errors.New("fallo en herramienta externa")
)
