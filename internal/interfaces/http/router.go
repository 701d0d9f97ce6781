package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Provisiona-api/internal/application/auth"
	"github.com/jhoicas/Provisiona-api/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.AuthUseCase
	ProfileUC   *usecase.ProfileUseCase
	MonthlyUC   *usecase.MonthlyInputUseCase
	ProvisionUC *usecase.ProvisionUseCase
	ChatUC      *usecase.ChatUseCase
	DocumentUC  *usecase.DocumentUseCase // nil si no hay bucket configurado
	JWTSecret   string
	RateLimit   RateLimitConfig
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público, con límite por IP)
	authGroup := api.Group("/auth", RateLimit("auth", deps.RateLimit))
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token). El middleware se monta por prefijo
	// para que una ruta desconocida bajo /api responda 404 y no 401.
	authed := AuthMiddleware(deps.JWTSecret)
	api.Get("/me", authed, authHandler.Me)

	profile := api.Group("/profile", authed)
	profileHandler := NewProfileHandler(deps.ProfileUC)
	profile.Get("/", profileHandler.Get)
	profile.Put("/", profileHandler.Put)

	monthly := api.Group("/monthly-inputs", authed)
	monthlyHandler := NewMonthlyInputHandler(deps.MonthlyUC)
	monthly.Put("/", monthlyHandler.Put)
	monthly.Get("/", monthlyHandler.List)
	monthly.Get("/:year/:month", monthlyHandler.Get)

	prov := api.Group("/provision", authed)
	provisionHandler := NewProvisionHandler(deps.ProvisionUC)
	prov.Get("/estimate", provisionHandler.Estimate)
	prov.Get("/history", provisionHandler.History)
	prov.Get("/report.pdf", provisionHandler.Report)

	// Chat (límite por usuario)
	chat := api.Group("/chat", authed, RateLimit("chat", deps.RateLimit))
	chatHandler := NewChatHandler(deps.ChatUC)
	chat.Post("/", chatHandler.Send)
	chat.Get("/messages", chatHandler.History)
	chat.Delete("/messages", chatHandler.Clear)

	docs := api.Group("/documents", authed)
	if deps.DocumentUC == nil {
		docs.Use(storageUnavailable)
		return
	}
	documentHandler := NewDocumentHandler(deps.DocumentUC)
	docs.Post("/", documentHandler.Upload)
	docs.Get("/", documentHandler.List)
	docs.Get("/:id", documentHandler.Download)
	docs.Delete("/:id", documentHandler.Delete)
}
