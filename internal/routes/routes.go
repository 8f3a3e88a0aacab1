package routes

import (
	"time"

	"github.com/campuseats/backend/internal/config"
	"github.com/campuseats/backend/internal/handlers"
	"github.com/campuseats/backend/internal/middleware"
	"github.com/campuseats/backend/internal/models"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"gorm.io/gorm"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	db *gorm.DB,
	authHandler *handlers.AuthHandler,
	healthHandler *handlers.HealthHandler,
	campusHandler *handlers.CampusHandler,
	menuHandler *handlers.MenuHandler,
	orderHandler *handlers.OrderHandler,
	adminHandler *handlers.AdminHandler,
) {
	protected := []fiber.Handler{middleware.Protected(cfg), middleware.RequireUser(db)}
	staffOnly := middleware.RequireRole(cfg, models.RoleCampusStore, models.RoleAdmin)
	adminOnly := middleware.RequireRole(cfg, models.RoleAdmin)

	// Auth — mounted at the root, stricter 10 req/min per IP.
	auth := app.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	auth.Get("/google", authHandler.GoogleLogin)
	auth.Get("/google/callback", authHandler.GoogleCallback)
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Get("/me", append(protected, authHandler.Me)...)

	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", healthHandler.Check)

	// Public catalog
	api.Get("/campuses", campusHandler.ListCampuses)
	api.Get("/campuses/:id/canteens", campusHandler.ListCanteens)
	api.Get("/canteens/:id/menu", menuHandler.ListMenu)

	// Orders (any authenticated user)
	orders := api.Group("/orders", protected...)
	orders.Post("/", orderHandler.Create)
	orders.Get("/", orderHandler.ListMine)
	orders.Get("/:id", orderHandler.Get)
	orders.Post("/:id/cancel", orderHandler.Cancel)

	// Canteen staff
	canteen := api.Group("/canteen", append(protected, staffOnly)...)
	canteen.Get("/orders", orderHandler.ListForCanteen)
	canteen.Put("/orders/:id/status", orderHandler.UpdateStatus)
	canteen.Post("/menu", menuHandler.CreateItem)
	canteen.Put("/menu/:id", menuHandler.UpdateItem)
	canteen.Delete("/menu/:id", menuHandler.DeleteItem)

	// Admin
	admin := api.Group("/admin", append(protected, adminOnly)...)
	admin.Post("/campuses", campusHandler.CreateCampus)
	admin.Post("/canteens", campusHandler.CreateCanteen)
	admin.Put("/canteens/:id", campusHandler.UpdateCanteen)
	admin.Get("/users", adminHandler.ListUsers)
	admin.Put("/users/:id/role", adminHandler.SetRole)
	admin.Put("/users/:id/ban", adminHandler.SetBan)
}
