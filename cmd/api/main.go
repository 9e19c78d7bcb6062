package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/farmaven/farmacia-api/internal/application/auth"
	appbackup "github.com/farmaven/farmacia-api/internal/application/backup"
	"github.com/farmaven/farmacia-api/internal/application/billing"
	"github.com/farmaven/farmacia-api/internal/application/orders"
	"github.com/farmaven/farmacia-api/internal/application/rbac"
	"github.com/farmaven/farmacia-api/internal/application/usecase"
	"github.com/farmaven/farmacia-api/internal/infrastructure/bcv"
	infrapdf "github.com/farmaven/farmacia-api/internal/infrastructure/pdf"
	"github.com/farmaven/farmacia-api/internal/infrastructure/postgres"
	"github.com/farmaven/farmacia-api/internal/infrastructure/shell"
	httpRouter "github.com/farmaven/farmacia-api/internal/interfaces/http"
	"github.com/farmaven/farmacia-api/pkg/config"
	"github.com/farmaven/farmacia-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	userRepo := postgres.NewUserRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	customerRepo := postgres.NewCustomerRepository(pool)
	categoryRepo := postgres.NewCategoryRepository(pool)
	laboratoryRepo := postgres.NewLaboratoryRepository(pool)
	invoiceRepo := postgres.NewInvoiceRepository(pool)
	orderRepo := postgres.NewOrderRepository(pool)
	moduleRepo := postgres.NewModuleRepository(pool)
	permissionRepo := postgres.NewPermissionRepository(pool)
	backupConfigRepo := postgres.NewBackupConfigRepository(pool)
	backupRecordRepo := postgres.NewBackupRecordRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	authUC := auth.NewUseCase(userRepo, auth.TokenConfig{
		Secret:     cfg.JWT.Secret,
		Issuer:     cfg.JWT.Issuer,
		Expiration: cfg.JWT.Expiration,
	}, log)
	userUC := usecase.NewUserUseCase(userRepo, log)
	productUC := usecase.NewProductUseCase(productRepo, log)
	customerUC := usecase.NewCustomerUseCase(customerRepo, log)
	catalogUC := usecase.NewCatalogUseCase(categoryRepo, laboratoryRepo, productRepo, log)
	invoiceUC := billing.NewInvoiceUseCase(txRunner, invoiceRepo, productRepo, customerRepo, log)
	orderUC := orders.NewUseCase(txRunner, orderRepo, productRepo, log)
	engine := rbac.NewEngine(moduleRepo, permissionRepo, log)

	// PDF: representación imprimible de la factura
	pdfGenerator := infrapdf.NewMarotoPDFGenerator(cfg.App.Name)
	pdfUC := billing.NewPDFUseCase(invoiceRepo, customerRepo, productRepo, pdfGenerator)

	// Respaldos: pg_dump/psql/gzip del sistema, programados con cron
	dsn := cfg.DB.ConnectionString()
	backupUC := appbackup.NewUseCase(
		backupConfigRepo,
		backupRecordRepo,
		shell.NewPgDump(cfg.Backup.PgDumpPath, dsn),
		shell.NewPsql(cfg.Backup.PsqlPath, dsn),
		shell.NewGzip(cfg.Backup.GzipPath, cfg.Backup.GunzipPath),
		cfg.Backup.Dir,
		log,
	)
	scheduler := appbackup.NewScheduler(backupUC, log)
	if err := scheduler.Start(); err != nil {
		log.Error().Err(err).Msg("programador de respaldos no inició")
	}

	bcvClient := bcv.NewClient(cfg.BCV.URL, cfg.BCV.TTLMinutes, log)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(cors.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Farmacia API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:     authUC,
		UserUC:     userUC,
		ProductUC:  productUC,
		CustomerUC: customerUC,
		CatalogUC:  catalogUC,
		InvoiceUC:  invoiceUC,
		PDFUC:      pdfUC,
		OrderUC:    orderUC,
		BackupUC:   backupUC,
		Scheduler:  scheduler,
		Engine:     engine,
		UserRepo:   userRepo,
		BCVClient:  bcvClient,
		JWTSecret:  cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}
	scheduler.Stop()

	log.Info().Msg("aplicación detenida")
}
