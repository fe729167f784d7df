package students

import (
	"database/sql"

	"maia-sss/app/database"
	"maia-sss/app/routes/auth"

	"github.com/gofiber/fiber/v2"
)

func SetupStudentsRoutes(app *fiber.App, db *sql.DB) {
	pages := app.Group("/students")
	pages.Use(auth.AuthMiddleware)
	pages.Get("/", func(c *fiber.Ctx) error { return StudentsPage(c, db) })
	pages.Get("/:id", func(c *fiber.Ctx) error { return StudentViewPage(c, db) })

	api := app.Group("/api/students")
	api.Use(auth.AuthMiddleware)
	api.Get("/", auth.RequireStaff(db, "view students"), func(c *fiber.Ctx) error { return GetStudentsAPI(c, db) })
	api.Get("/:id", auth.RequireStaff(db, "view students"), func(c *fiber.Ctx) error { return GetStudentByIDAPI(c, db) })
	api.Post("/", auth.RequireStaff(db, "create students"), func(c *fiber.Ctx) error { return CreateStudentAPI(c, db) })
	api.Patch("/:id", auth.RequireStaff(db, "update students"), func(c *fiber.Ctx) error { return UpdateStudentAPI(c, db) })
	api.Delete("/:id", auth.RequireStaff(db, "delete students"), func(c *fiber.Ctx) error { return ArchiveStudentAPI(c, db) })
}

func StudentsPage(c *fiber.Ctx, db *sql.DB) error {
	filters := studentFiltersFromQuery(c)
	items, total, err := database.GetStudents(db, filters)
	if err != nil {
		return fiber.NewError(500, "Failed to load students")
	}

	return c.Render("students/index", fiber.Map{
		"Title":       "Students - Maia SSS",
		"CurrentPage": "students",
		"students":    items,
		"total":       total,
		"UserEmail":   c.Locals("user_email"),
	})
}

func StudentViewPage(c *fiber.Ctx, db *sql.DB) error {
	student, err := database.GetStudentByID(db, c.Params("id"))
	if err == sql.ErrNoRows {
		return fiber.NewError(404, "Student not found")
	}
	if err != nil {
		return fiber.NewError(500, "Failed to load student")
	}

	// Active cases for this student shown alongside the profile.
	cases, _, err := database.GetCases(db, database.CaseFilters{
		StudentID: student.ID,
		Limit:     50,
	})
	if err != nil {
		return fiber.NewError(500, "Failed to load student cases")
	}

	return c.Render("students/view", fiber.Map{
		"Title":       "Student - Maia SSS",
		"CurrentPage": "students",
		"student":     student,
		"cases":       cases,
		"UserEmail":   c.Locals("user_email"),
	})
}
