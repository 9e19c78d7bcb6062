package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/farmaven/farmacia-api/internal/application/auth"
	"github.com/farmaven/farmacia-api/internal/application/backup"
	"github.com/farmaven/farmacia-api/internal/application/billing"
	"github.com/farmaven/farmacia-api/internal/application/orders"
	"github.com/farmaven/farmacia-api/internal/application/rbac"
	"github.com/farmaven/farmacia-api/internal/application/usecase"
	"github.com/farmaven/farmacia-api/internal/domain/entity"
	"github.com/farmaven/farmacia-api/internal/domain/repository"
	"github.com/farmaven/farmacia-api/internal/infrastructure/bcv"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC     *auth.UseCase
	UserUC     *usecase.UserUseCase
	ProductUC  *usecase.ProductUseCase
	CustomerUC *usecase.CustomerUseCase
	CatalogUC  *usecase.CatalogUseCase
	InvoiceUC  *billing.InvoiceUseCase
	PDFUC      *billing.PDFUseCase
	OrderUC    *orders.UseCase
	BackupUC   *backup.UseCase
	Scheduler  *backup.Scheduler
	Engine     *rbac.Engine
	UserRepo   repository.UserRepository
	BCVClient  *bcv.Client
	JWTSecret  string
}

// Router registra las rutas de la API. Los módulos operativos van detrás de
// permisos por rol; la administración (usuarios, roles, backups) solo admin.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth: login público, registro solo admin
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/register", AuthMiddleware(deps.JWTSecret), RequireRole("admin"), authHandler.Register)

	// Tasa BCV (público)
	bcvHandler := NewBCVHandler(deps.BCVClient)
	api.Get("/bcv/tasa", bcvHandler.GetRate)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Productos (permisos del módulo "productos")
	products := protected.Group("/productos")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Get("/", RequirePermission("productos", entity.ActionView, deps.Engine), productHandler.List)
	products.Get("/bajo-stock", RequirePermission("productos", entity.ActionView, deps.Engine), productHandler.ListLowStock)
	products.Get("/verificar-codigo/:code", RequirePermission("productos", entity.ActionView, deps.Engine), productHandler.VerifyCode)
	products.Get("/:id", RequirePermission("productos", entity.ActionView, deps.Engine), productHandler.GetByID)
	products.Post("/", RequirePermission("productos", entity.ActionCreate, deps.Engine), productHandler.Create)
	products.Put("/:id", RequirePermission("productos", entity.ActionEdit, deps.Engine), productHandler.Update)
	products.Delete("/:id", RequirePermission("productos", entity.ActionDelete, deps.Engine), productHandler.Delete)

	// Clientes
	customers := protected.Group("/clientes")
	customerHandler := NewCustomerHandler(deps.CustomerUC)
	customers.Get("/", RequirePermission("clientes", entity.ActionView, deps.Engine), customerHandler.List)
	customers.Get("/:id", RequirePermission("clientes", entity.ActionView, deps.Engine), customerHandler.GetByID)
	customers.Post("/", RequirePermission("clientes", entity.ActionCreate, deps.Engine), customerHandler.Create)
	customers.Put("/:id", RequirePermission("clientes", entity.ActionEdit, deps.Engine), customerHandler.Update)
	customers.Delete("/:id", RequirePermission("clientes", entity.ActionDelete, deps.Engine), customerHandler.Delete)

	// Alerta de inventario (cualquier usuario autenticado)
	protected.Get("/alertas/bajo-stock", productHandler.ListLowStock)

	// Categorías y laboratorios (el borrado queda reservado a admin)
	catalogHandler := NewCatalogHandler(deps.CatalogUC)
	categories := protected.Group("/categorias")
	categories.Get("/", RequirePermission("categorias", entity.ActionView, deps.Engine), catalogHandler.ListCategories)
	categories.Post("/", RequirePermission("categorias", entity.ActionCreate, deps.Engine), catalogHandler.CreateCategory)
	categories.Put("/:id", RequirePermission("categorias", entity.ActionEdit, deps.Engine), catalogHandler.UpdateCategory)
	categories.Delete("/:id", RequireRole("admin"), catalogHandler.DeleteCategory)

	laboratories := protected.Group("/laboratorios")
	laboratories.Get("/", RequirePermission("laboratorios", entity.ActionView, deps.Engine), catalogHandler.ListLaboratories)
	laboratories.Post("/", RequirePermission("laboratorios", entity.ActionCreate, deps.Engine), catalogHandler.CreateLaboratory)
	laboratories.Put("/:id", RequirePermission("laboratorios", entity.ActionEdit, deps.Engine), catalogHandler.UpdateLaboratory)
	laboratories.Delete("/:id", RequireRole("admin"), catalogHandler.DeleteLaboratory)

	// Facturación
	invoices := protected.Group("/facturas")
	invoiceHandler := NewInvoiceHandler(deps.InvoiceUC, deps.PDFUC)
	invoices.Get("/", RequirePermission("facturacion", entity.ActionView, deps.Engine), invoiceHandler.List)
	invoices.Get("/:id", RequirePermission("facturacion", entity.ActionView, deps.Engine), invoiceHandler.GetByID)
	invoices.Get("/:id/pdf", RequirePermission("facturacion", entity.ActionView, deps.Engine), invoiceHandler.DownloadPDF)
	invoices.Post("/", RequirePermission("facturacion", entity.ActionCreate, deps.Engine), invoiceHandler.Create)

	// Pedidos a proveedores (admin y farmacéutico)
	ordersGroup := protected.Group("/pedidos", RequireRole("admin", "farmaceutico"))
	orderHandler := NewOrderHandler(deps.OrderUC)
	ordersGroup.Get("/", orderHandler.List)
	ordersGroup.Get("/:id", orderHandler.GetByID)
	ordersGroup.Post("/", orderHandler.Create)
	ordersGroup.Put("/:id/estado", orderHandler.UpdateStatus)
	ordersGroup.Put("/:id/recibir", orderHandler.Receive)

	// Usuarios (solo admin)
	users := protected.Group("/usuarios", RequireRole("admin"))
	userHandler := NewUserHandler(deps.UserUC, deps.AuthUC)
	users.Get("/", userHandler.List)
	users.Get("/:id", userHandler.GetByID)
	users.Post("/", userHandler.Create)
	users.Put("/:id", userHandler.Update)
	users.Put("/:id/password", userHandler.ChangePassword)
	users.Put("/:id/estado", userHandler.ToggleActive)
	users.Delete("/:id", userHandler.Delete)

	// Roles y permisos: la consulta del propio usuario es para cualquier
	// autenticado (el frontend arma su menú con ella); el resto solo admin.
	rbacHandler := NewRBACHandler(deps.Engine, deps.UserRepo)
	protected.Get("/roles/usuario/:usuarioId", rbacHandler.ListPermissionsForUser)
	roles := protected.Group("/roles", RequireRole("admin"))
	roles.Get("/modulos", rbacHandler.ListModules)
	roles.Get("/permisos/:rol", rbacHandler.ListPermissions)
	roles.Post("/permiso", rbacHandler.UpsertPermission)
	roles.Put("/permiso/:id", rbacHandler.UpdatePermission)

	// Backups (solo admin)
	backups := protected.Group("/backups", RequireRole("admin"))
	backupHandler := NewBackupHandler(deps.BackupUC, deps.Scheduler)
	backups.Get("/configuraciones", backupHandler.ListConfigs)
	backups.Post("/configuraciones", backupHandler.CreateConfig)
	backups.Put("/configuraciones/:id", backupHandler.UpdateConfig)
	backups.Delete("/configuraciones/:id", backupHandler.DeleteConfig)
	backups.Post("/ejecutar", backupHandler.Run)
	backups.Get("/historial", backupHandler.History)
	backups.Get("/descargar/:id", backupHandler.Download)
	backups.Post("/restaurar/:id", backupHandler.Restore)
}
