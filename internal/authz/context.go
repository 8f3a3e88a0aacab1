// Package authz holds the per-request authorization context: the user
// resolved by the access guard, stored as a typed value rather than loose
// claims scattered across handlers.
package authz

import (
	"errors"

	"github.com/campuseats/backend/internal/models"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const userKey = "currentUser"

var ErrNoUser = errors.New("no authenticated user in request context")

// SetUser attaches the resolved user to the request. Called only by the
// access guard.
func SetUser(c *fiber.Ctx, user *models.User) {
	c.Locals(userKey, user)
}

// User returns the user resolved by the access guard for this request.
func User(c *fiber.Ctx) (*models.User, error) {
	user, ok := c.Locals(userKey).(*models.User)
	if !ok || user == nil {
		return nil, ErrNoUser
	}
	return user, nil
}

// UserID is a shortcut for handlers that only need the id.
func UserID(c *fiber.Ctx) (uuid.UUID, error) {
	user, err := User(c)
	if err != nil {
		return uuid.Nil, err
	}
	return user.ID, nil
}
