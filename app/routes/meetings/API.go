package meetings

import (
	"database/sql"
	"strconv"
	"strings"

	"maia-sss/app/database"

	"github.com/gofiber/fiber/v2"
)

func meetingFiltersFromQuery(c *fiber.Ctx) database.MeetingFilters {
	filters := database.MeetingFilters{
		StudentID:  c.Query("student_id"),
		CaseID:     c.Query("case_id"),
		SSSStaffID: c.Query("sss_staff_id"),
		Status:     c.Query("meeting_status", c.Query("status")),
		DateFrom:   c.Query("meeting_date_from"),
		DateTo:     c.Query("meeting_date_to"),
		Upcoming:   c.Query("upcoming") == "true",
	}
	if scheduled := c.Query("is_scheduled"); scheduled != "" {
		v := scheduled == "true"
		filters.IsScheduled = &v
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

func GetMeetingsAPI(c *fiber.Ctx, db *sql.DB) error {
	items, total, err := database.GetMeetings(db, meetingFiltersFromQuery(c))
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"data": nil, "error": "Database error: " + err.Error()})
	}
	return c.JSON(fiber.Map{"data": items, "error": nil, "count": total})
}

func GetMeetingByIDAPI(c *fiber.Ctx, db *sql.DB) error {
	meeting, err := database.GetMeetingByID(db, c.Params("id"))
	if err == sql.ErrNoRows {
		return c.Status(404).JSON(fiber.Map{"data": nil, "error": "Meeting not found"})
	}
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"data": nil, "error": "Database error: " + err.Error()})
	}
	return c.JSON(fiber.Map{"data": meeting, "error": nil})
}

func CreateMeetingAPI(c *fiber.Ctx, db *sql.DB) error {
	var input database.CreateMeetingInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(400).JSON(fiber.Map{"data": nil, "error": "Invalid request body"})
	}

	var missing []string
	if input.StudentID == "" {
		missing = append(missing, "student_id")
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

	if input.CaseID != nil && *input.CaseID != "" {
		exists, err := database.CaseExists(db, *input.CaseID)
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"data": nil, "error": "Database error: " + err.Error()})
		}
		if !exists {
			return c.Status(404).JSON(fiber.Map{"data": nil, "error": "Case not found"})
		}
	}

	created, err := database.CreateMeeting(db, input)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"data": nil, "error": "Database error: " + err.Error()})
	}
	return c.Status(201).JSON(fiber.Map{"data": created, "error": nil})
}

func UpdateMeetingAPI(c *fiber.Ctx, db *sql.DB) error {
	exists, err := database.MeetingExists(db, c.Params("id"))
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"data": nil, "error": "Database error: " + err.Error()})
	}
	if !exists {
		return c.Status(404).JSON(fiber.Map{"data": nil, "error": "Meeting not found"})
	}

	var fields map[string]interface{}
	if err := c.BodyParser(&fields); err != nil {
		return c.Status(400).JSON(fiber.Map{"data": nil, "error": "Invalid request body"})
	}

	updated, err := database.UpdateMeeting(db, c.Params("id"), fields)
	if err == database.ErrNoUpdatableFields {
		return c.Status(400).JSON(fiber.Map{"data": nil, "error": "No valid fields to update"})
	}
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"data": nil, "error": "Database error: " + err.Error()})
	}
	return c.JSON(fiber.Map{"data": updated, "error": nil})
}

func DeleteMeetingAPI(c *fiber.Ctx, db *sql.DB) error {
	err := database.DeleteMeeting(db, c.Params("id"))
	if err == sql.ErrNoRows {
		return c.Status(404).JSON(fiber.Map{"data": nil, "error": "Meeting not found"})
	}
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"data": nil, "error": "Database error: " + err.Error()})
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"id": c.Params("id")}, "error": nil})
}
