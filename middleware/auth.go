package middleware

import (
	"strings"

	"localserve/config"
	userModel "localserve/models/user"
	authService "localserve/services/auth"
	"localserve/types"

	"github.com/gofiber/fiber/v2"
)

// Authenticate verifies the bearer access token and stores the claims in
// the request context.
func Authenticate(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(types.ApiResponse{
				Code:    "NO_TOKEN",
				Message: "Authorization token required",
				Status:  fiber.StatusUnauthorized,
			})
		}

		tokenParts := strings.Split(authHeader, " ")
		if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
			return c.Status(fiber.StatusUnauthorized).JSON(types.ApiResponse{
				Code:    "NO_TOKEN",
				Message: "Invalid authorization header format",
				Status:  fiber.StatusUnauthorized,
			})
		}

		claims, err := authService.ParseToken(tokenParts[1], cfg.JWTAccessSecret)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(types.ApiResponse{
				Code:    "INVALID_TOKEN",
				Message: "Invalid or expired token.",
				Status:  fiber.StatusUnauthorized,
			})
		}

		c.Locals("user", claims)
		return c.Next()
	}
}

// Authorize allows only the given roles past. Must run after Authenticate.
func Authorize(roles ...userModel.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims := CurrentUser(c)
		if claims == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(types.ApiResponse{
				Code:    "NO_TOKEN",
				Message: "Authorization token required",
				Status:  fiber.StatusUnauthorized,
			})
		}

		for _, role := range roles {
			if claims.Role == role {
				return c.Next()
			}
		}

		return c.Status(fiber.StatusForbidden).JSON(types.ApiResponse{
			Code:    "FORBIDDEN",
			Message: "You are not permitted to perform this action.",
			Status:  fiber.StatusForbidden,
		})
	}
}

// CurrentUser returns the authenticated claims, or nil.
func CurrentUser(c *fiber.Ctx) *authService.Claims {
	claims, ok := c.Locals("user").(*authService.Claims)
	if !ok {
		return nil
	}
	return claims
}

// Maintenance rejects requests while the injected maintenance flag is set.
// The flag is read per request off the config value, never off a mutable
// package global.
func Maintenance(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if cfg.MaintenanceMode {
			return c.Status(fiber.StatusServiceUnavailable).JSON(types.ApiResponse{
				Code:    "MAINTENANCE",
				Message: "Service is under maintenance. Please try again later.",
				Status:  fiber.StatusServiceUnavailable,
			})
		}
		return c.Next()
	}
}
