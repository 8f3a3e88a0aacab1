package middleware

import (
	"errors"
	"strings"
	"time"

	"github.com/campuseats/backend/internal/authz"
	"github.com/campuseats/backend/internal/config"
	"github.com/campuseats/backend/internal/dto"
	"github.com/campuseats/backend/internal/models"
	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Protected verifies the bearer token on a route. Expired and malformed
// tokens get distinct machine-readable codes; a missing token gets the
// bare "no token" message. User resolution happens in RequireUser.
func Protected(cfg *config.Config) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey:   jwtware.SigningKey{Key: []byte(cfg.JWTSecret)},
		ErrorHandler: authErrorHandler,
	})
}

func authErrorHandler(c *fiber.Ctx, err error) error {
	header := c.Get(fiber.HeaderAuthorization)
	if header == "" || !strings.HasPrefix(header, "Bearer ") {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.AuthErrorResponse{
			Message: "Not authorized, no token",
		})
	}

	if errors.Is(err, jwt.ErrTokenExpired) {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.AuthErrorResponse{
			Message:   "Not authorized, token expired",
			Code:      dto.CodeTokenExpired,
			ExpiredAt: expiryOf(strings.TrimPrefix(header, "Bearer ")),
		})
	}

	return c.Status(fiber.StatusUnauthorized).JSON(dto.AuthErrorResponse{
		Message: "Not authorized, token failed",
		Code:    dto.CodeTokenInvalid,
	})
}

// expiryOf recovers the exp claim from an already-rejected token so the
// client can tell an expired session from a tampered one. The token is not
// trusted here; it only feeds the diagnostic field.
func expiryOf(raw string) *time.Time {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return nil
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return nil
	}
	t := exp.Time
	return &t
}

// RequireUser resolves the verified token's subject against the user
// directory and attaches the record to the request context. Runs after
// Protected, so a missing or unparsable subject means a token minted
// for an account that no longer exists.
func RequireUser(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tok, ok := c.Locals("user").(*jwt.Token)
		if !ok || tok == nil {
			return notAuthorized(c)
		}

		claims, ok := tok.Claims.(jwt.MapClaims)
		if !ok {
			return notAuthorized(c)
		}

		sub, _ := claims["sub"].(string)
		userID, err := uuid.Parse(sub)
		if err != nil {
			return notAuthorized(c)
		}

		var user models.User
		if err := db.Omit("password").First(&user, "id = ?", userID).Error; err != nil {
			// Account deleted after the token was issued.
			return notAuthorized(c)
		}

		if user.IsBanned {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Error: true, Message: "Account suspended",
			})
		}

		authz.SetUser(c, &user)
		return c.Next()
	}
}

func notAuthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.AuthErrorResponse{
		Message: "Not authorized",
	})
}
