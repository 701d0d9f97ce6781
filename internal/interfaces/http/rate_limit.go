package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/jhoicas/Provisiona-api/internal/application/dto"
)

// RateLimitConfig parámetros del limitador. Storage nil usa la memoria del proceso;
// para varias réplicas se inyecta un almacenamiento compartido (postgres.RateLimitStore).
type RateLimitConfig struct {
	Max     int
	Window  time.Duration
	Storage fiber.Storage
}

// RateLimit limita peticiones por usuario autenticado o, si no hay token, por IP.
// scope separa los contadores de cada grupo de rutas.
func RateLimit(scope string, cfg RateLimitConfig) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        cfg.Max,
		Expiration: cfg.Window,
		Storage:    cfg.Storage,
		KeyGenerator: func(c *fiber.Ctx) string {
			if uid := GetUserID(c); uid != "" {
				return scope + ":user:" + uid
			}
			return scope + ":ip:" + c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(dto.ErrorResponse{
				Code: "RATE_LIMITED", Message: "demasiadas peticiones; intenta más tarde",
			})
		},
	})
}
