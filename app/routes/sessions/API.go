package sessions

import (
	"database/sql"
	"strconv"
	"strings"

	"maia-sss/app/database"

	"github.com/gofiber/fiber/v2"
)

func sessionFiltersFromQuery(c *fiber.Ctx) database.SessionFilters {
	filters := database.SessionFilters{
		InterventionID: c.Query("intervention_id"),
		FacilitatorID:  c.Query("facilitator_id"),
		DateFrom:       c.Query("session_date_from"),
		DateTo:         c.Query("session_date_to"),
	}
	if attended := c.Query("student_attended"); attended != "" {
		v := attended == "true"
		filters.StudentAttended = &v
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

func GetSessionsAPI(c *fiber.Ctx, db *sql.DB) error {
	items, total, err := database.GetSessions(db, sessionFiltersFromQuery(c))
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"data": nil, "error": "Database error: " + err.Error()})
	}
	return c.JSON(fiber.Map{"data": items, "error": nil, "count": total})
}

func GetSessionByIDAPI(c *fiber.Ctx, db *sql.DB) error {
	session, err := database.GetSessionByID(db, c.Params("id"))
	if err == sql.ErrNoRows {
		return c.Status(404).JSON(fiber.Map{"data": nil, "error": "Session not found"})
	}
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"data": nil, "error": "Database error: " + err.Error()})
	}
	return c.JSON(fiber.Map{"data": session, "error": nil})
}

func CreateSessionAPI(c *fiber.Ctx, db *sql.DB) error {
	var input database.CreateSessionInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(400).JSON(fiber.Map{"data": nil, "error": "Invalid request body"})
	}

	var missing []string
	if input.InterventionID == "" {
		missing = append(missing, "intervention_id")
	}
	if input.SessionDate == nil || *input.SessionDate == "" {
		missing = append(missing, "session_date")
	}
	if len(missing) > 0 {
		return c.Status(400).JSON(fiber.Map{"data": nil, "error": "Missing required fields: " + strings.Join(missing, ", ")})
	}

	exists, err := database.InterventionExists(db, input.InterventionID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"data": nil, "error": "Database error: " + err.Error()})
	}
	if !exists {
		return c.Status(404).JSON(fiber.Map{"data": nil, "error": "Intervention not found"})
	}

	created, err := database.CreateSession(db, input)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"data": nil, "error": "Database error: " + err.Error()})
	}
	return c.Status(201).JSON(fiber.Map{"data": created, "error": nil})
}

func UpdateSessionAPI(c *fiber.Ctx, db *sql.DB) error {
	exists, err := database.SessionExists(db, c.Params("id"))
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"data": nil, "error": "Database error: " + err.Error()})
	}
	if !exists {
		return c.Status(404).JSON(fiber.Map{"data": nil, "error": "Session not found"})
	}

	var fields map[string]interface{}
	if err := c.BodyParser(&fields); err != nil {
		return c.Status(400).JSON(fiber.Map{"data": nil, "error": "Invalid request body"})
	}

	updated, err := database.UpdateSession(db, c.Params("id"), fields)
	if err == database.ErrNoUpdatableFields {
		return c.Status(400).JSON(fiber.Map{"data": nil, "error": "No valid fields to update"})
	}
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"data": nil, "error": "Database error: " + err.Error()})
	}
	return c.JSON(fiber.Map{"data": updated, "error": nil})
}

func DeleteSessionAPI(c *fiber.Ctx, db *sql.DB) error {
	err := database.DeleteSession(db, c.Params("id"))
	if err == sql.ErrNoRows {
		return c.Status(404).JSON(fiber.Map{"data": nil, "error": "Session not found"})
	}
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"data": nil, "error": "Database error: " + err.Error()})
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"id": c.Params("id")}, "error": nil})
}
