package users

import (
	"database/sql"

	"maia-sss/app/database"
	"maia-sss/app/routes/auth"

	"github.com/gofiber/fiber/v2"
)

func SetupUsersRoutes(app *fiber.App, db *sql.DB) {
	app.Get("/settings", auth.AuthMiddleware, func(c *fiber.Ctx) error { return SettingsPage(c, db) })

	api := app.Group("/api/users")
	api.Use(auth.AuthMiddleware)
	api.Get("/", func(c *fiber.Ctx) error { return GetUsersAPI(c, db) })
	api.Post("/onboarding", func(c *fiber.Ctx) error { return OnboardingAPI(c, db) })
	api.Get("/:id", func(c *fiber.Ctx) error { return GetUserAPI(c, db) })
	api.Patch("/:id", func(c *fiber.Ctx) error { return UpdateUserAPI(c, db) })
}

func SettingsPage(c *fiber.Ctx, db *sql.DB) error {
	userID := c.Locals("user_id").(string)

	user, err := database.GetUserByID(db, userID)
	if err == sql.ErrNoRows {
		return c.Redirect("/onboarding")
	}
	if err != nil {
		return fiber.NewError(500, "Failed to load profile")
	}

	return c.Render("users/settings", fiber.Map{
		"Title":       "Settings - Maia SSS",
		"CurrentPage": "settings",
		"user":        user,
		"UserEmail":   user.Email,
	})
}
