package middleware

import (
	"time"

	"homescout-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/rs/zerolog/log"
)

// SecurityHeaders sets the helmet defaults. The API serves JSON only, so the
// cross-origin resource policy is relaxed for the admin console.
func SecurityHeaders() fiber.Handler {
	return helmet.New(helmet.Config{
		CrossOriginResourcePolicy: "cross-origin",
	})
}

// RateLimit allows max requests per minute per client IP and scope.
func RateLimit(scope string, max int) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP() + "|" + scope
		},
		LimitReached: func(c *fiber.Ctx) error {
			log.Warn().Str("trace_id", GetTraceID(c)).Str("ip", c.IP()).Str("scope", scope).Msg("rate limit hit")
			return response.Error(c, "Too many requests, please retry shortly", fiber.StatusTooManyRequests, nil)
		},
	})
}
