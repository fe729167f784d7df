package students

import (
	"database/sql"
	"strconv"
	"strings"

	"maia-sss/app/database"

	"github.com/gofiber/fiber/v2"
)

func studentFiltersFromQuery(c *fiber.Ctx) database.StudentFilters {
	filters := database.StudentFilters{
		Grade:            c.Query("grade"),
		PrimaryTeacherID: c.Query("primary_teacher_id"),
		SchoolID:         c.Query("school_id"),
		Search:           c.Query("search"),
		Archived:         c.Query("archived"),
	}

	page, _ := strconv.Atoi(c.Query("page", "1"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(c.Query("limit", "50"))
	if limit < 1 {
		limit = 50
	}
	filters.Limit = limit
	filters.Offset = (page - 1) * limit
	return filters
}

func GetStudentsAPI(c *fiber.Ctx, db *sql.DB) error {
	items, total, err := database.GetStudents(db, studentFiltersFromQuery(c))
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"data": nil, "error": "Database error: " + err.Error()})
	}
	return c.JSON(fiber.Map{"data": items, "error": nil, "count": total})
}

func GetStudentByIDAPI(c *fiber.Ctx, db *sql.DB) error {
	student, err := database.GetStudentByID(db, c.Params("id"))
	if err == sql.ErrNoRows {
		return c.Status(404).JSON(fiber.Map{"data": nil, "error": "Student not found"})
	}
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"data": nil, "error": "Database error: " + err.Error()})
	}
	return c.JSON(fiber.Map{"data": student, "error": nil})
}

func CreateStudentAPI(c *fiber.Ctx, db *sql.DB) error {
	var input database.CreateStudentInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(400).JSON(fiber.Map{"data": nil, "error": "Invalid request body"})
	}

	var missing []string
	if input.Name == "" {
		missing = append(missing, "name")
	}
	if input.Grade == "" {
		missing = append(missing, "grade")
	}
	if len(missing) > 0 {
		return c.Status(400).JSON(fiber.Map{"data": nil, "error": "Missing required fields: " + strings.Join(missing, ", ")})
	}

	created, err := database.CreateStudent(db, input)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"data": nil, "error": "Database error: " + err.Error()})
	}
	return c.Status(201).JSON(fiber.Map{"data": created, "error": nil})
}

func UpdateStudentAPI(c *fiber.Ctx, db *sql.DB) error {
	exists, err := database.StudentExists(db, c.Params("id"))
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"data": nil, "error": "Database error: " + err.Error()})
	}
	if !exists {
		return c.Status(404).JSON(fiber.Map{"data": nil, "error": "Student not found"})
	}

	var fields map[string]interface{}
	if err := c.BodyParser(&fields); err != nil {
		return c.Status(400).JSON(fiber.Map{"data": nil, "error": "Invalid request body"})
	}

	updated, err := database.UpdateStudent(db, c.Params("id"), fields)
	if err == database.ErrNoUpdatableFields {
		return c.Status(400).JSON(fiber.Map{"data": nil, "error": "No valid fields to update"})
	}
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"data": nil, "error": "Database error: " + err.Error()})
	}
	return c.JSON(fiber.Map{"data": updated, "error": nil})
}

// ArchiveStudentAPI handles DELETE on a student. Students are never
// removed; a delete stamps archived_at and hides them from active lists.
func ArchiveStudentAPI(c *fiber.Ctx, db *sql.DB) error {
	exists, err := database.StudentExists(db, c.Params("id"))
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"data": nil, "error": "Database error: " + err.Error()})
	}
	if !exists {
		return c.Status(404).JSON(fiber.Map{"data": nil, "error": "Student not found"})
	}

	archived, err := database.ArchiveStudent(db, c.Params("id"))
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"data": nil, "error": "Database error: " + err.Error()})
	}
	return c.JSON(fiber.Map{"data": archived, "error": nil})
}
