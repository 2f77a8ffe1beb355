// @title           Negocio API
// @version         1.0
// @description     Empresas, sucursales, inventario por libro de movimientos y facturación.
// @BasePath        /
// @securityDefinitions.apikey  Bearer
// @in                          header
// @name                        Authorization
// @description                 Bearer <token>
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	_ "github.com/jhoicas/Negocio-api/docs"
	"github.com/jhoicas/Negocio-api/internal/application/auth"
	"github.com/jhoicas/Negocio-api/internal/application/authz"
	"github.com/jhoicas/Negocio-api/internal/application/billing"
	"github.com/jhoicas/Negocio-api/internal/application/inventory"
	"github.com/jhoicas/Negocio-api/internal/application/usecase"
	"github.com/jhoicas/Negocio-api/internal/domain/repository"
	"github.com/jhoicas/Negocio-api/internal/infrastructure/memory"
	"github.com/jhoicas/Negocio-api/internal/infrastructure/metrics"
	infrapdf "github.com/jhoicas/Negocio-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Negocio-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Negocio-api/internal/infrastructure/storage"
	httpRouter "github.com/jhoicas/Negocio-api/internal/interfaces/http"
	"github.com/jhoicas/Negocio-api/pkg/config"
	"github.com/jhoicas/Negocio-api/pkg/jwt"
	"github.com/jhoicas/Negocio-api/pkg/logger"
)

const swaggerFile = "./docs/swagger.json"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.Storage.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()

	var (
		store repository.Store
		tx    repository.TxRunner
	)
	switch cfg.Storage.Driver {
	case config.DriverMemory:
		mem := memory.New()
		store, tx = mem, mem
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB, log)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		store, tx = postgres.NewStore(pool), postgres.NewTxRunner(pool)
	}

	// Imágenes de producto: sin bucket configurado la subida responde INVALID_STATE.
	var images usecase.ObjectStorage
	if cfg.S3.Enabled() {
		s3, err := storage.NewS3Storage(ctx, cfg.S3)
		if err != nil {
			log.Fatal().Err(err).Msg("cliente S3")
		}
		images = s3
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New()
	if err := m.Register(reg); err != nil {
		log.Fatal().Err(err).Msg("registrar métricas")
	}

	ledger := inventory.NewLedger(store, tx, log, m)
	guard := authz.NewGuard(store.Users(), store.Memberships(), func(token string) (string, string, error) {
		return jwt.Parse(cfg.JWT.Secret, token)
	})
	authUC := auth.NewAuthUseCase(store.Users(), auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	}, cfg.App.AdminEmail)

	app := httpRouter.NewApp(cfg.App.Name, log.Component("http"))

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "Negocio API",
		}))
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		Guard:        guard,
		AuthUC:       authUC,
		CompanyUC:    usecase.NewCompanyUseCase(store, tx),
		MembershipUC: usecase.NewMembershipUseCase(store),
		BranchUC:     usecase.NewBranchUseCase(store),
		ProductUC:    usecase.NewProductUseCase(store, images),
		CustomerUC:   billing.NewCustomerUseCase(store),
		InvoiceUC:    billing.NewInvoiceUseCase(store, tx, log, m),
		InvoicePDF:   billing.NewPDFUseCase(store, infrapdf.NewMarotoPDFGenerator()),
		Ledger:       ledger,
		Log:          log.Component("http"),
		Requests:     m,
		Metrics:      promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		ServiceName:  cfg.App.Name,
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

	log.Info().Msg("aplicación detenida")
}
