package files

import (
	"database/sql"
	"strconv"

	"maia-sss/app/database"

	"github.com/gofiber/fiber/v2"
)

func fileFiltersFromQuery(c *fiber.Ctx) database.FileFilters {
	filters := database.FileFilters{
		CaseID:           c.Query("case_id"),
		ProtocolStepID:   c.Query("protocol_step_id"),
		SessionID:        c.Query("session_id"),
		EvaluationID:     c.Query("evaluation_id"),
		ActionPlanItemID: c.Query("action_plan_item_id"),
		UploadedBy:       c.Query("uploaded_by"),
		FileType:         c.Query("file_type"),
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

func GetFilesAPI(c *fiber.Ctx, db *sql.DB) error {
	items, total, err := database.GetFiles(db, fileFiltersFromQuery(c))
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"data": nil, "error": "Database error: " + err.Error()})
	}
	return c.JSON(fiber.Map{"data": items, "error": nil, "count": total})
}

func GetFileByIDAPI(c *fiber.Ctx, db *sql.DB) error {
	file, err := database.GetFileByID(db, c.Params("id"))
	if err == sql.ErrNoRows {
		return c.Status(404).JSON(fiber.Map{"data": nil, "error": "File not found"})
	}
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"data": nil, "error": "Database error: " + err.Error()})
	}
	return c.JSON(fiber.Map{"data": file, "error": nil})
}

// CreateFileAPI registers metadata for a blob already uploaded to object
// storage.
func CreateFileAPI(c *fiber.Ctx, db *sql.DB) error {
	var input database.CreateFileInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(400).JSON(fiber.Map{"data": nil, "error": "Invalid request body"})
	}

	if input.FileName == "" || input.FileURL == nil || *input.FileURL == "" {
		return c.Status(400).JSON(fiber.Map{"data": nil, "error": "Missing required fields: file_name, file_url"})
	}

	input.UploadedBy = c.Locals("user_id").(string)

	created, err := database.CreateFile(db, input)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"data": nil, "error": "Database error: " + err.Error()})
	}
	return c.Status(201).JSON(fiber.Map{"data": created, "error": nil})
}

func UpdateFileAPI(c *fiber.Ctx, db *sql.DB) error {
	exists, err := database.FileExists(db, c.Params("id"))
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"data": nil, "error": "Database error: " + err.Error()})
	}
	if !exists {
		return c.Status(404).JSON(fiber.Map{"data": nil, "error": "File not found"})
	}

	var fields map[string]interface{}
	if err := c.BodyParser(&fields); err != nil {
		return c.Status(400).JSON(fiber.Map{"data": nil, "error": "Invalid request body"})
	}

	updated, err := database.UpdateFile(db, c.Params("id"), fields)
	if err == database.ErrNoUpdatableFields {
		return c.Status(400).JSON(fiber.Map{"data": nil, "error": "No valid fields to update"})
	}
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"data": nil, "error": "Database error: " + err.Error()})
	}
	return c.JSON(fiber.Map{"data": updated, "error": nil})
}

// DeleteFileAPI removes the metadata row only. The response echoes the id
// and file_url so the caller can clean up the blob in object storage.
func DeleteFileAPI(c *fiber.Ctx, db *sql.DB) error {
	deleted, err := database.DeleteFile(db, c.Params("id"))
	if err == sql.ErrNoRows {
		return c.Status(404).JSON(fiber.Map{"data": nil, "error": "File not found"})
	}
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"data": nil, "error": "Database error: " + err.Error()})
	}
	return c.JSON(fiber.Map{"data": deleted, "error": nil})
}
