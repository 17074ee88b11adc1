package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/popcorn-picks/backend/internal/config"
	"github.com/popcorn-picks/backend/internal/handlers"
	"github.com/popcorn-picks/backend/internal/middleware"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	authHandler *handlers.AuthHandler,
	healthHandler *handlers.HealthHandler,
	partnerHandler *handlers.PartnerHandler,
	swipeHandler *handlers.SwipeHandler,
	watchlistHandler *handlers.WatchlistHandler,
	recommendationHandler *handlers.RecommendationHandler,
	movieHandler *handlers.MovieHandler,
	chatHandler *handlers.ChatHandler,
	realtimeHandler *handlers.RealtimeHandler,
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
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Post("/refresh", authHandler.Refresh)

	// JWT applied per-route here so it never touches the public routes above
	api.Post("/auth/logout", middleware.JWTProtected(cfg), authHandler.Logout)
	api.Delete("/auth/account", middleware.JWTProtected(cfg), authHandler.DeleteAccount)

	protected := api.Group("/p", middleware.JWTProtected(cfg))

	protected.Get("/me", authHandler.Me)
	protected.Put("/me", authHandler.UpdateProfile)

	// Partner pairing lifecycle
	protected.Post("/partner/requests", partnerHandler.SendRequest)
	protected.Get("/partner/requests", partnerHandler.ListRequests)
	protected.Put("/partner/requests/:id", partnerHandler.Respond)
	protected.Get("/partner", partnerHandler.Current)
	protected.Delete("/partner", partnerHandler.End)

	// Swiping and matches
	protected.Post("/swipes", swipeHandler.Swipe)
	protected.Get("/matches", swipeHandler.ListMatches)
	protected.Get("/matches/check/:movieID", swipeHandler.CheckMatch)
	protected.Delete("/matches/:movieID", swipeHandler.RemoveMatch)

	// Joint watchlist (couple) and personal watchlist
	protected.Post("/couple/watchlist", watchlistHandler.AddJoint)
	protected.Get("/couple/watchlist", watchlistHandler.ListJoint)
	protected.Delete("/couple/watchlist/:movieID", watchlistHandler.RemoveJoint)
	protected.Post("/watchlist", watchlistHandler.AddSolo)
	protected.Get("/watchlist", watchlistHandler.ListSolo)
	protected.Delete("/watchlist/:movieID", watchlistHandler.RemoveSolo)
	protected.Put("/personalize", watchlistHandler.SetPersonalize)
	protected.Get("/personalize", watchlistHandler.GetPersonalize)

	// Recommendations
	protected.Get("/recommendations", recommendationHandler.Solo)
	protected.Get("/recommendations/couple", recommendationHandler.Couple)

	// Catalog proxy
	protected.Get("/movies/search", movieHandler.Search)
	protected.Get("/movies/discover", movieHandler.Discover)
	protected.Get("/movies/genres", movieHandler.Genres)
	protected.Get("/movies/providers", movieHandler.ProvidersList)
	protected.Get("/movies/:movieID", movieHandler.Details)
	protected.Get("/movies/:movieID/providers", movieHandler.Providers)

	// AI chat
	protected.Post("/chat", chatHandler.Chat)
	protected.Post("/chat/mood", chatHandler.MoodSuggestions)

	// Live couple events
	protected.Get("/couple/events", realtimeHandler.Upgrade, realtimeHandler.Serve())
}
