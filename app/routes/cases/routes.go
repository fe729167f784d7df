package cases

import (
	"database/sql"

	"maia-sss/app/database"
	"maia-sss/app/routes/auth"

	"github.com/gofiber/fiber/v2"
)

func SetupCasesRoutes(app *fiber.App, db *sql.DB) {
	pages := app.Group("/cases")
	pages.Use(auth.AuthMiddleware)
	pages.Get("/", func(c *fiber.Ctx) error { return CasesPage(c, db) })
	pages.Get("/:id", func(c *fiber.Ctx) error { return CaseViewPage(c, db) })

	api := app.Group("/api/cases")
	api.Use(auth.AuthMiddleware)
	api.Get("/", auth.RequireStaff(db, "view cases"), func(c *fiber.Ctx) error { return GetCasesAPI(c, db) })
	api.Get("/:id", auth.RequireStaff(db, "view cases"), func(c *fiber.Ctx) error { return GetCaseByIDAPI(c, db) })
	api.Post("/", auth.RequireStaff(db, "create cases"), func(c *fiber.Ctx) error { return CreateCaseAPI(c, db) })
	api.Patch("/:id", auth.RequireStaff(db, "update cases"), func(c *fiber.Ctx) error { return UpdateCaseAPI(c, db) })
	api.Delete("/:id", auth.RequireStaff(db, "close cases"), func(c *fiber.Ctx) error { return CloseCaseAPI(c, db) })
}

func CasesPage(c *fiber.Ctx, db *sql.DB) error {
	filters := caseFiltersFromQuery(c)
	items, total, err := database.GetCases(db, filters)
	if err != nil {
		return fiber.NewError(500, "Failed to load cases")
	}

	return c.Render("cases/index", fiber.Map{
		"Title":       "Cases - Maia SSS",
		"CurrentPage": "cases",
		"cases":       items,
		"total":       total,
		"UserEmail":   c.Locals("user_email"),
	})
}

func CaseViewPage(c *fiber.Ctx, db *sql.DB) error {
	detail, err := database.GetCaseByID(db, c.Params("id"))
	if err == sql.ErrNoRows {
		return fiber.NewError(404, "Case not found")
	}
	if err != nil {
		return fiber.NewError(500, "Failed to load case")
	}

	return c.Render("cases/view", fiber.Map{
		"Title":       "Case - Maia SSS",
		"CurrentPage": "cases",
		"case":        detail,
		"UserEmail":   c.Locals("user_email"),
	})
}
