package middleware

import (
	"strings"

	"github.com/campuseats/backend/internal/authz"
	"github.com/campuseats/backend/internal/config"
	"github.com/campuseats/backend/internal/dto"
	"github.com/gofiber/fiber/v2"
)

// RequireRole gates a route to the given roles. Emails listed in
// ADMIN_EMAILS pass regardless of stored role, so a fresh deployment has a
// way to reach the admin endpoints before any role has been assigned.
// Must run after RequireUser.
func RequireRole(cfg *config.Config, roles ...string) fiber.Handler {
	adminEmails := parseCSV(cfg.AdminEmails)

	return func(c *fiber.Ctx) error {
		user, err := authz.User(c)
		if err != nil {
			return notAuthorized(c)
		}

		if contains(adminEmails, user.Email) {
			return c.Next()
		}
		if contains(roles, user.Role) {
			return c.Next()
		}

		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Error: true, Message: "Insufficient permissions",
		})
	}
}

func parseCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func contains(list []string, val string) bool {
	for _, item := range list {
		if item == val {
			return true
		}
	}
	return false
}
