package meetings

import (
	"database/sql"

	"maia-sss/app/database"
	"maia-sss/app/routes/auth"

	"github.com/gofiber/fiber/v2"
)

func SetupMeetingsRoutes(app *fiber.App, db *sql.DB) {
	pages := app.Group("/meetings")
	pages.Use(auth.AuthMiddleware)
	pages.Get("/", func(c *fiber.Ctx) error { return MeetingsPage(c, db) })

	api := app.Group("/api/meetings")
	api.Use(auth.AuthMiddleware)
	api.Get("/", auth.RequireStaff(db, "view meetings"), func(c *fiber.Ctx) error { return GetMeetingsAPI(c, db) })
	api.Get("/:id", auth.RequireStaff(db, "view meetings"), func(c *fiber.Ctx) error { return GetMeetingByIDAPI(c, db) })
	api.Post("/", auth.RequireStaff(db, "schedule meetings"), func(c *fiber.Ctx) error { return CreateMeetingAPI(c, db) })
	api.Patch("/:id", auth.RequireStaff(db, "update meetings"), func(c *fiber.Ctx) error { return UpdateMeetingAPI(c, db) })
	api.Delete("/:id", auth.RequireStaff(db, "delete meetings"), func(c *fiber.Ctx) error { return DeleteMeetingAPI(c, db) })
}

func MeetingsPage(c *fiber.Ctx, db *sql.DB) error {
	filters := meetingFiltersFromQuery(c)
	items, total, err := database.GetMeetings(db, filters)
	if err != nil {
		return fiber.NewError(500, "Failed to load meetings")
	}

	return c.Render("meetings/index", fiber.Map{
		"Title":       "Parent Meetings - Maia SSS",
		"CurrentPage": "meetings",
		"meetings":    items,
		"total":       total,
		"UserEmail":   c.Locals("user_email"),
	})
}
