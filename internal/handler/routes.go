package handler

import (
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/gofiber/fiber/v3/middleware/static"

	"anime-catalog-service/internal/metrics"
	"anime-catalog-service/internal/middleware"
)

// JSONBodyLimit caps every request body except uploads.
const JSONBodyLimit = 1 << 20

// NewApp creates the Fiber app with the service-wide middleware stack.
// Upload bodies are streamed and capped by the upload store instead.
func NewApp() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:           "Anime Catalog Service",
		ServerHeader:      "Anime-Catalog-Service",
		BodyLimit:         JSONBodyLimit,
		StreamRequestBody: true,
		ErrorHandler:      ErrorHandler,
	})

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New())
	app.Use(middleware.Metrics())
	app.Use(middleware.BodyLimit(JSONBodyLimit, isUpload))

	return app
}

// Routes bundles the handlers and per-route middleware mounted by Register.
type Routes struct {
	Anime   *AnimeHandler
	History *HistoryHandler
	// User and Upload are optional; their routes are not mounted when nil.
	User   *UserHandler
	Upload *UploadHandler

	// Identity resolves the optional bearer token on every /api request.
	Identity fiber.Handler
	// Limiter guards the routes that accept credentials. Nil disables it.
	Limiter fiber.Handler
	// MediaDir is served under /media when set.
	MediaDir string
}

// Register mounts every route on app.
func (r Routes) Register(app *fiber.App) {
	limit := orNext(r.Limiter)
	identity := orNext(r.Identity)

	app.Get("/health", Health)
	app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))
	if r.MediaDir != "" {
		app.Get("/media*", static.New(r.MediaDir))
	}

	api := app.Group("/api", identity)
	api.Get("/animes", r.Anime.ListAnimes)
	api.Get("/animes/:id", r.Anime.GetAnime)
	api.Get("/episodes/:id", r.Anime.GetEpisode)

	admin := api.Group("/admin", limit)
	admin.Post("/anime", r.Anime.AddAnime)
	admin.Post("/anime/manual", r.Anime.AddManualAnime)
	admin.Delete("/anime/:id", r.Anime.DeleteAnime)

	api.Post("/history", r.History.RecordWatch)
	api.Get("/history", r.History.GetHistory)

	if r.User != nil {
		api.Post("/login", limit, r.User.Login)
		api.Get("/user", r.User.Me)
	}

	if r.Upload != nil {
		api.Post("/uploads/request-url", limit, r.Upload.RequestURL)
		api.Put("/uploads/:key", r.Upload.Upload)
	}
}

func isUpload(c fiber.Ctx) bool {
	return c.Method() == fiber.MethodPut && strings.HasPrefix(c.Path(), "/api/uploads/")
}

func orNext(h fiber.Handler) fiber.Handler {
	if h != nil {
		return h
	}
	return func(c fiber.Ctx) error { return c.Next() }
}
