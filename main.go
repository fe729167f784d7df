package main

import (
	"encoding/json"
	"log"

	"maia-sss/app/config"
	"maia-sss/app/database"
	"maia-sss/app/metrics"
	"maia-sss/app/routes/auth"
	"maia-sss/app/routes/cases"
	"maia-sss/app/routes/dashboard"
	"maia-sss/app/routes/files"
	"maia-sss/app/routes/interventions"
	"maia-sss/app/routes/meetings"
	"maia-sss/app/routes/sessions"
	"maia-sss/app/routes/students"
	"maia-sss/app/routes/users"
	"maia-sss/app/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/template/html/v2"
	"github.com/prometheus/client_golang/prometheus"
)

// customErrorHandler renders error pages for web requests and JSON for
// API requests.
func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	if len(c.Path()) >= 4 && c.Path()[:4] == "/api" {
		return c.Status(code).JSON(fiber.Map{"data": nil, "error": err.Error()})
	}

	switch code {
	case 404:
		return c.Status(404).Render("404", fiber.Map{
			"Title":       "Page Not Found - Maia SSS",
			"CurrentPage": "",
		})
	case 500:
		return c.Status(500).Render("500", fiber.Map{
			"Title":       "Server Error - Maia SSS",
			"CurrentPage": "",
			"ShowRetry":   true,
		})
	default:
		return c.Status(code).Render("error", fiber.Map{
			"Title":        "Error - Maia SSS",
			"CurrentPage":  "",
			"ErrorCode":    code,
			"ErrorMessage": err.Error(),
		})
	}
}

func main() {
	cfg := config.Load()

	config.InitDB()
	defer config.GetDB().Close()

	if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	collector := metrics.NewCollector(prometheus.DefaultRegisterer)

	// Background reminder job
	services.StartReminderScheduler(config.GetDB(), collector)

	engine := html.New("./app/templates", ".html")
	engine.AddFunc("json", func(v interface{}) (string, error) {
		b, err := json.Marshal(v)
		return string(b), err
	})

	app := fiber.New(fiber.Config{
		Views:             engine,
		ViewsLayout:       "layouts/main",
		PassLocalsToViews: true,
		ErrorHandler:      customErrorHandler,
	})

	// Middleware
	app.Use(logger.New())
	app.Use(cors.New())
	app.Use(collector.Middleware())

	// Static files
	app.Static("/static", "./static")

	app.Get("/", func(c *fiber.Ctx) error {
		return c.Redirect("/dashboard")
	})
	app.Get("/metrics", metrics.Handler(prometheus.DefaultGatherer))

	db := config.GetDB()
	auth.SetupAuthRoutes(app, db)
	dashboard.SetupDashboardRoutes(app, db)
	students.SetupStudentsRoutes(app, db)
	cases.SetupCasesRoutes(app, db)
	interventions.SetupInterventionsRoutes(app, db)
	sessions.SetupSessionsRoutes(app, db)
	meetings.SetupMeetingsRoutes(app, db)
	files.SetupFilesRoutes(app, db)
	users.SetupUsersRoutes(app, db)

	log.Printf("Starting server on port %s", cfg.Port)
	log.Fatal(app.Listen(":" + cfg.Port))
}
