package dashboard

import (
	"database/sql"

	"maia-sss/app/database"
	"maia-sss/app/routes/auth"

	"github.com/gofiber/fiber/v2"
)

func SetupDashboardRoutes(app *fiber.App, db *sql.DB) {
	app.Get("/dashboard", auth.AuthMiddleware, func(c *fiber.Ctx) error { return DashboardPage(c, db) })

	api := app.Group("/api/dashboard")
	api.Use(auth.AuthMiddleware)
	api.Get("/stats", func(c *fiber.Ctx) error { return GetStatsAPI(c, db) })
	api.Get("/case-load", func(c *fiber.Ctx) error { return GetCaseLoadAPI(c, db) })
	api.Get("/tier-distribution", func(c *fiber.Ctx) error { return GetTierDistributionAPI(c, db) })
	api.Get("/urgent-cases", func(c *fiber.Ctx) error { return GetUrgentCasesAPI(c, db) })
	api.Get("/my-cases", func(c *fiber.Ctx) error { return GetMyCasesAPI(c, db) })
}

func DashboardPage(c *fiber.Ctx, db *sql.DB) error {
	stats, err := database.GetDashboardStats(db)
	if err != nil {
		return fiber.NewError(500, "Failed to load dashboard")
	}

	urgent, err := database.GetUrgentCases(db)
	if err != nil {
		return fiber.NewError(500, "Failed to load urgent cases")
	}

	myCases, err := database.GetMyCases(db, c.Locals("user_id").(string))
	if err != nil {
		return fiber.NewError(500, "Failed to load case list")
	}

	return c.Render("dashboard/index", fiber.Map{
		"Title":       "Dashboard - Maia SSS",
		"CurrentPage": "dashboard",
		"stats":       stats,
		"urgentCases": urgent,
		"myCases":     myCases,
		"UserEmail":   c.Locals("user_email"),
	})
}
