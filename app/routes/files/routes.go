package files

import (
	"database/sql"

	"maia-sss/app/routes/auth"

	"github.com/gofiber/fiber/v2"
)

func SetupFilesRoutes(app *fiber.App, db *sql.DB) {
	api := app.Group("/api/files")
	api.Use(auth.AuthMiddleware)
	api.Get("/", auth.RequireStaff(db, "view files"), func(c *fiber.Ctx) error { return GetFilesAPI(c, db) })
	api.Get("/:id", auth.RequireStaff(db, "view files"), func(c *fiber.Ctx) error { return GetFileByIDAPI(c, db) })
	api.Post("/", auth.RequireStaff(db, "upload files"), func(c *fiber.Ctx) error { return CreateFileAPI(c, db) })
	api.Patch("/:id", auth.RequireStaff(db, "update files"), func(c *fiber.Ctx) error { return UpdateFileAPI(c, db) })
	api.Delete("/:id", auth.RequireStaff(db, "delete files"), func(c *fiber.Ctx) error { return DeleteFileAPI(c, db) })
}
