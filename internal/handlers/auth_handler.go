package handlers

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"log/slog"
	"net/url"
	"time"

	"github.com/campuseats/backend/internal/authz"
	"github.com/campuseats/backend/internal/config"
	"github.com/campuseats/backend/internal/dto"
	"github.com/campuseats/backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

const stateCookie = "oauth_state"

type AuthHandler struct {
	authService *services.AuthService
	google      services.GoogleAuthenticator
	cfg         *config.Config
}

func NewAuthHandler(authService *services.AuthService, google services.GoogleAuthenticator, cfg *config.Config) *AuthHandler {
	return &AuthHandler{authService: authService, google: google, cfg: cfg}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	resp, err := h.authService.Register(&req)
	if err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(resp)
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	resp, err := h.authService.Login(&req)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		if errors.Is(err, services.ErrAccountBanned) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Internal server error",
		})
	}

	return c.JSON(resp)
}

// GoogleLogin starts the OAuth flow: mint a CSRF state, remember it in a
// short-lived cookie and hand the browser to the consent screen.
func (h *AuthHandler) GoogleLogin(c *fiber.Ctx) error {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Internal server error",
		})
	}
	state := base64.RawURLEncoding.EncodeToString(buf)

	c.Cookie(&fiber.Cookie{
		Name:     stateCookie,
		Value:    state,
		Expires:  time.Now().Add(10 * time.Minute),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})

	return c.Redirect(h.google.LoginURL(state), fiber.StatusFound)
}

// GoogleCallback finishes the OAuth flow. Every failure becomes a redirect
// with an error indicator; raw errors never reach the browser.
func (h *AuthHandler) GoogleCallback(c *fiber.Ctx) error {
	if errParam := c.Query("error"); errParam != "" {
		return h.loginErrorRedirect(c, "access_denied")
	}

	state := c.Query("state")
	if state == "" || state != c.Cookies(stateCookie) {
		return h.loginErrorRedirect(c, "state_mismatch")
	}
	c.ClearCookie(stateCookie)

	code := c.Query("code")
	if code == "" {
		return h.loginErrorRedirect(c, "auth_failed")
	}

	profile, err := h.google.Authenticate(c.Context(), code)
	if err != nil {
		slog.Error("google authentication failed", "error", err)
		return h.loginErrorRedirect(c, "auth_failed")
	}

	resp, err := h.authService.GoogleSignIn(profile)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrIdentityConflict):
			return h.loginErrorRedirect(c, "identity_conflict")
		case errors.Is(err, services.ErrAccountBanned):
			return h.loginErrorRedirect(c, "account_banned")
		default:
			slog.Error("google sign-in failed", "error", err)
			return h.loginErrorRedirect(c, "auth_failed")
		}
	}

	target := h.cfg.FrontendURL + "/auth/callback?token=" + url.QueryEscape(resp.Token)
	return c.Redirect(target, fiber.StatusFound)
}

func (h *AuthHandler) loginErrorRedirect(c *fiber.Ctx, code string) error {
	return c.Redirect(h.cfg.FrontendURL+"/login?error="+code, fiber.StatusFound)
}

// Me returns the user resolved by the access guard.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	user, err := authz.User(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}
	return c.JSON(h.authService.Me(user))
}
