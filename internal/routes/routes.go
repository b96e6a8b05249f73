package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/pawsteps/pawsteps-backend/internal/config"
	"github.com/pawsteps/pawsteps-backend/internal/handlers"
	"github.com/pawsteps/pawsteps-backend/internal/middleware"
	"gorm.io/gorm"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	db *gorm.DB,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	teamHandler *handlers.TeamHandler,
	dogHandler *handlers.DogHandler,
	trainingHandler *handlers.TrainingHandler,
	billingHandler *handlers.BillingHandler,
	healthHandler *handlers.HealthHandler,
) {
	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", healthHandler.Check)

	// Auth — public, with a stricter rate limit: 10 req/min per IP
	auth := api.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	auth.Post("/signup", authHandler.SignUp)
	auth.Post("/signin", authHandler.SignIn)
	auth.Post("/refresh", authHandler.Refresh)
	auth.Post("/signout", authHandler.SignOut)

	// Public pricing and the Stripe browser-redirect completion endpoint.
	// These must stay outside the JWT middleware: the completion redirect
	// arrives from Stripe without a session.
	api.Get("/pricing", billingHandler.GetPricing)
	api.Get("/stripe/checkout", billingHandler.CompleteCheckout)

	// Protected routes (JWT required) - apply middleware to individual routes
	// so it never shadows the public ones above
	jwt := middleware.JWTProtected(cfg)

	api.Get("/user", jwt, userHandler.GetUser)
	api.Put("/user", jwt, userHandler.UpdateAccount)
	api.Put("/user/password", jwt, userHandler.UpdatePassword)
	api.Delete("/user", jwt, userHandler.DeleteAccount)
	api.Get("/activity", jwt, userHandler.GetActivity)

	api.Get("/team", jwt, teamHandler.GetTeam)
	api.Post("/team/invite", jwt, teamHandler.InviteMember)
	api.Delete("/team/members/:id", jwt, teamHandler.RemoveMember)

	api.Get("/dogs", jwt, dogHandler.ListDogs)
	api.Post("/dogs", jwt, dogHandler.CreateDog)
	api.Get("/dogs/:id", jwt, dogHandler.GetDog)
	api.Put("/dogs/:id", jwt, dogHandler.UpdateDog)
	api.Delete("/dogs/:id", jwt, dogHandler.DeleteDog)

	api.Get("/training/sessions", jwt, trainingHandler.ListSessions)
	api.Post("/training/sessions", jwt, trainingHandler.CreateSession)
	api.Put("/training/sessions/:id", jwt, trainingHandler.UpdateSession)
	api.Get("/training/progress", jwt, trainingHandler.ListSkillProgress)
	api.Put("/training/progress", jwt, trainingHandler.UpsertSkillProgress)
	api.Get("/training/content", jwt, trainingHandler.ListContent)
	api.Post("/training/content/:id/progress", jwt, trainingHandler.UpsertContentProgress)
	api.Get("/stats", jwt, trainingHandler.GetStats)

	api.Post("/stripe/checkout", jwt, billingHandler.CreateCheckout)
	api.Post("/stripe/portal", jwt, billingHandler.CreatePortalSession)

	// Admin content management (protected + admin required)
	admin := api.Group("/admin", jwt, middleware.AdminRequired(db, cfg))
	admin.Post("/content", trainingHandler.CreateContent)
	admin.Put("/content/:id", trainingHandler.UpdateContent)
	admin.Delete("/content/:id", trainingHandler.DeactivateContent)
}
