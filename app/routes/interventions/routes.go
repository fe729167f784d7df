package interventions

import (
	"database/sql"

	"maia-sss/app/routes/auth"

	"github.com/gofiber/fiber/v2"
)

func SetupInterventionsRoutes(app *fiber.App, db *sql.DB) {
	api := app.Group("/api/interventions")
	api.Use(auth.AuthMiddleware)
	api.Get("/", auth.RequireStaff(db, "view interventions"), func(c *fiber.Ctx) error { return GetInterventionsAPI(c, db) })
	api.Get("/:id", auth.RequireStaff(db, "view interventions"), func(c *fiber.Ctx) error { return GetInterventionByIDAPI(c, db) })
	api.Post("/", auth.RequireStaff(db, "create interventions"), func(c *fiber.Ctx) error { return CreateInterventionAPI(c, db) })
	api.Patch("/:id", auth.RequireStaff(db, "update interventions"), func(c *fiber.Ctx) error { return UpdateInterventionAPI(c, db) })
	api.Delete("/:id", auth.RequireStaff(db, "delete interventions"), func(c *fiber.Ctx) error { return EndInterventionAPI(c, db) })
}
