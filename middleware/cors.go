package middleware

import (
	"localserve/config"

	"github.com/gofiber/fiber/v2/middleware/cors"
)

// CORSConfig builds the cross-origin policy from config. Fiber refuses a
// wildcard origin combined with credentials, so under the wildcard default
// the policy is credential-less; a concrete FRONTEND_URL gets cookies.
func CORSConfig(cfg *config.Config) cors.Config {
	return cors.Config{
		AllowOrigins:     cfg.FrontendURL,
		AllowMethods:     "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: cfg.FrontendURL != "*",
	}
}
