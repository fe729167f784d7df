package sessions

import (
	"database/sql"

	"maia-sss/app/routes/auth"

	"github.com/gofiber/fiber/v2"
)

func SetupSessionsRoutes(app *fiber.App, db *sql.DB) {
	api := app.Group("/api/sessions")
	api.Use(auth.AuthMiddleware)
	api.Get("/", auth.RequireStaff(db, "view sessions"), func(c *fiber.Ctx) error { return GetSessionsAPI(c, db) })
	api.Get("/:id", auth.RequireStaff(db, "view sessions"), func(c *fiber.Ctx) error { return GetSessionByIDAPI(c, db) })
	api.Post("/", auth.RequireStaff(db, "create sessions"), func(c *fiber.Ctx) error { return CreateSessionAPI(c, db) })
	api.Patch("/:id", auth.RequireStaff(db, "update sessions"), func(c *fiber.Ctx) error { return UpdateSessionAPI(c, db) })
	api.Delete("/:id", auth.RequireStaff(db, "delete sessions"), func(c *fiber.Ctx) error { return DeleteSessionAPI(c, db) })
}
