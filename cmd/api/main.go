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
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/jhoicas/Provisiona-api/docs"
	"github.com/jhoicas/Provisiona-api/internal/application/auth"
	"github.com/jhoicas/Provisiona-api/internal/application/ports"
	"github.com/jhoicas/Provisiona-api/internal/application/usecase"
	infraai "github.com/jhoicas/Provisiona-api/internal/infrastructure/ai"
	"github.com/jhoicas/Provisiona-api/internal/infrastructure/jobs"
	infrapdf "github.com/jhoicas/Provisiona-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Provisiona-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Provisiona-api/internal/infrastructure/storage"
	httpRouter "github.com/jhoicas/Provisiona-api/internal/interfaces/http"
	"github.com/jhoicas/Provisiona-api/pkg/config"
	"github.com/jhoicas/Provisiona-api/pkg/logger"
)

// @title                       Provisiona API
// @version                     1.0
// @description                 Provisión mensual de renta e IVA para trabajadores independientes en Colombia.
// @BasePath                    /
// @securityDefinitions.apikey  Bearer
// @in                          header
// @name                        Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
		App:   cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("ai_provider", cfg.AI.Provider).
		Msg("iniciando aplicación")

	// Los meses se cuentan en hora de Colombia, sin importar la zona del servidor.
	loc, err := time.LoadLocation("America/Bogota")
	if err != nil {
		loc = time.FixedZone("COT", -5*3600)
	}
	now := func() time.Time { return time.Now().In(loc) }

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if cfg.DB.AutoMigrate {
		applied, err := postgres.Migrate(ctx, pool)
		if err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
		log.Info().Strs("files", applied).Msg("migraciones aplicadas")
	}

	userRepo := postgres.NewUserRepository(pool)
	profileRepo := postgres.NewTaxProfileRepository(pool)
	monthlyRepo := postgres.NewMonthlyInputRepository(pool)
	chatRepo := postgres.NewChatMessageRepository(pool)
	documentRepo := postgres.NewDocumentRepository(pool)

	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	profileUC := usecase.NewProfileUseCase(profileRepo, now)
	monthlyUC := usecase.NewMonthlyInputUseCase(monthlyRepo, now)

	// PDF: reporte de provisión con estimación del mes e historial
	pdfGenerator := infrapdf.NewMarotoReportGenerator()
	provisionUC := usecase.NewProvisionUseCase(profileRepo, monthlyRepo, userRepo, pdfGenerator, now)

	llm := newLLM(ctx, cfg.AI, log)
	chatUC := usecase.NewChatUseCase(llm, chatRepo, provisionUC, cfg.AI.Timeout(), log.Zerolog())

	// Documentos: solo si hay bucket configurado; sin él las rutas responden 503.
	var documentUC *usecase.DocumentUseCase
	if cfg.Storage.Bucket != "" {
		store, err := storage.NewS3Storage(ctx, cfg.Storage)
		if err != nil {
			log.Fatal().Err(err).Msg("almacenamiento S3")
		}
		documentUC = usecase.NewDocumentUseCase(documentRepo, store, cfg.Storage.MaxBytes, log.Zerolog())
	} else {
		log.Warn().Msg("S3_BUCKET vacío: documentos deshabilitados")
	}

	rateLimit := httpRouter.RateLimitConfig{Max: cfg.RateLimit.Max, Window: cfg.RateLimit.Window()}
	var rateLimitStore *postgres.RateLimitStore
	if cfg.RateLimit.Store == "postgres" {
		rateLimitStore = postgres.NewRateLimitStore(pool)
		rateLimit.Storage = rateLimitStore
	}

	scheduler := jobs.NewScheduler(log.Zerolog(), loc)
	var purger jobs.RateLimitPurger
	if rateLimitStore != nil {
		purger = rateLimitStore
	}
	retention := jobs.NewRetentionJob(chatRepo, purger, cfg.Jobs.ChatRetentionDays, log.Zerolog())
	if err := scheduler.AddJob(cfg.Jobs.RetentionCron, retention); err != nil {
		log.Fatal().Err(err).Str("cron", cfg.Jobs.RetentionCron).Msg("RETENTION_CRON inválido")
	}
	scheduler.Start()

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 60,
		IdleTimeout:  time.Second * 60,
		BodyLimit:    int(cfg.Storage.MaxBytes) + 1<<20,
		ErrorHandler: httpRouter.ErrorHandler,
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(httpRouter.RequestLogger(log.Zerolog()))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.HTTP.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath:    "/",
		FileContent: docs.SwaggerJSON,
		Path:        "docs",
		Title:       "Provisiona API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "assistant": llm != nil, "documents": documentUC != nil})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:      authUC,
		ProfileUC:   profileUC,
		MonthlyUC:   monthlyUC,
		ProvisionUC: provisionUC,
		ChatUC:      chatUC,
		DocumentUC:  documentUC,
		JWTSecret:   cfg.JWT.Secret,
		RateLimit:   rateLimit,
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
	scheduler.Stop(shutdownCtx)

	log.Info().Msg("aplicación detenida")
}

// newLLM elige el proveedor del asistente. Sin API key el chat queda deshabilitado (503).
func newLLM(ctx context.Context, cfg config.AIConfig, log *logger.Logger) ports.LLMService {
	switch cfg.Provider {
	case config.AIProviderGemini:
		if cfg.GeminiAPIKey == "" {
			log.Warn().Msg("GEMINI_API_KEY vacío: asistente deshabilitado")
			return nil
		}
		svc, err := infraai.NewGeminiService(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			log.Error().Err(err).Msg("cliente Gemini: asistente deshabilitado")
			return nil
		}
		return svc
	default:
		if cfg.AnthropicAPIKey == "" {
			log.Warn().Msg("ANTHROPIC_API_KEY vacío: asistente deshabilitado")
			return nil
		}
		return infraai.NewAnthropicService(cfg.AnthropicAPIKey, cfg.AnthropicModel)
	}
}
