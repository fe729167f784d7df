package cases

import (
	"database/sql"
	"strconv"
	"strings"

	"maia-sss/app/database"
	"maia-sss/app/models"

	"github.com/gofiber/fiber/v2"
)

func caseFiltersFromQuery(c *fiber.Ctx) database.CaseFilters {
	filters := database.CaseFilters{
		Status:        c.Query("status"),
		CaseType:      c.Query("case_type"),
		CaseManagerID: c.Query("case_manager_id"),
		StudentID:     c.Query("student_id"),
		Grade:         c.Query("grade"),
		Search:        c.Query("search"),
		SortBy:        c.Query("sort_by"),
		SortDirection: c.Query("sort_direction"),
	}
	if tier, err := strconv.Atoi(c.Query("tier")); err == nil {
		filters.Tier = &tier
	}
	if urgent := c.Query("is_urgent"); urgent != "" {
		v := urgent == "true"
		filters.IsUrgent = &v
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

func GetCasesAPI(c *fiber.Ctx, db *sql.DB) error {
	items, total, err := database.GetCases(db, caseFiltersFromQuery(c))
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"data": nil, "error": "Database error: " + err.Error()})
	}
	return c.JSON(fiber.Map{"data": items, "error": nil, "count": total})
}

func GetCaseByIDAPI(c *fiber.Ctx, db *sql.DB) error {
	detail, err := database.GetCaseByID(db, c.Params("id"))
	if err == sql.ErrNoRows {
		return c.Status(404).JSON(fiber.Map{"data": nil, "error": "Case not found"})
	}
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"data": nil, "error": "Database error: " + err.Error()})
	}
	return c.JSON(fiber.Map{"data": detail, "error": nil})
}

func CreateCaseAPI(c *fiber.Ctx, db *sql.DB) error {
	var input database.CreateCaseInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(400).JSON(fiber.Map{"data": nil, "error": "Invalid request body"})
	}

	var missing []string
	if input.StudentID == "" {
		missing = append(missing, "student_id")
	}
	if input.CaseType == "" {
		missing = append(missing, "case_type")
	}
	if len(missing) > 0 {
		return c.Status(400).JSON(fiber.Map{"data": nil, "error": "Missing required fields: " + strings.Join(missing, ", ")})
	}

	exists, err := database.StudentExists(db, input.StudentID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"data": nil, "error": "Database error: " + err.Error()})
	}
	if !exists {
		return c.Status(404).JSON(fiber.Map{"data": nil, "error": "Student not found"})
	}

	input.CreatedBy = c.Locals("user_id").(string)

	created, err := database.CreateCase(db, input)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"data": nil, "error": "Database error: " + err.Error()})
	}
	return c.Status(201).JSON(fiber.Map{"data": created, "error": nil})
}

func UpdateCaseAPI(c *fiber.Ctx, db *sql.DB) error {
	exists, err := database.CaseExists(db, c.Params("id"))
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"data": nil, "error": "Database error: " + err.Error()})
	}
	if !exists {
		return c.Status(404).JSON(fiber.Map{"data": nil, "error": "Case not found"})
	}

	var fields map[string]interface{}
	if err := c.BodyParser(&fields); err != nil {
		return c.Status(400).JSON(fiber.Map{"data": nil, "error": "Invalid request body"})
	}

	updated, err := database.UpdateCase(db, c.Params("id"), fields)
	if err == database.ErrNoUpdatableFields {
		return c.Status(400).JSON(fiber.Map{"data": nil, "error": "No valid fields to update"})
	}
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"data": nil, "error": "Database error: " + err.Error()})
	}
	return c.JSON(fiber.Map{"data": updated, "error": nil})
}

// CloseCaseAPI handles DELETE on a case. Cases are never removed; a
// delete closes the case with today's date and the given reason.
func CloseCaseAPI(c *fiber.Ctx, db *sql.DB) error {
	type closeRequest struct {
		ClosureReason string `json:"closure_reason"`
	}
	var req closeRequest
	if err := c.BodyParser(&req); err != nil || req.ClosureReason == "" {
		return c.Status(400).JSON(fiber.Map{"data": nil, "error": "closure_reason is required"})
	}

	status, err := database.GetCaseStatus(db, c.Params("id"))
	if err == sql.ErrNoRows {
		return c.Status(404).JSON(fiber.Map{"data": nil, "error": "Case not found"})
	}
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"data": nil, "error": "Database error: " + err.Error()})
	}
	if status == models.CaseClosed {
		return c.Status(400).JSON(fiber.Map{"data": nil, "error": "Case is already closed"})
	}

	closed, err := database.CloseCase(db, c.Params("id"), req.ClosureReason)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"data": nil, "error": "Database error: " + err.Error()})
	}
	return c.JSON(fiber.Map{"data": closed, "error": nil})
}
