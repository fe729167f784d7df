package interventions

import (
	"database/sql"
	"strconv"
	"strings"

	"maia-sss/app/database"

	"github.com/gofiber/fiber/v2"
)

func interventionFiltersFromQuery(c *fiber.Ctx) database.InterventionFilters {
	filters := database.InterventionFilters{
		CaseID:        c.Query("case_id"),
		Type:          c.Query("type"),
		FacilitatorID: c.Query("facilitator_id"),
	}
	if tier, err := strconv.Atoi(c.Query("tier")); err == nil {
		filters.Tier = &tier
	}
	if active := c.Query("is_active"); active != "" {
		v := active == "true"
		filters.IsActive = &v
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

func GetInterventionsAPI(c *fiber.Ctx, db *sql.DB) error {
	items, total, err := database.GetInterventions(db, interventionFiltersFromQuery(c))
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"data": nil, "error": "Database error: " + err.Error()})
	}
	return c.JSON(fiber.Map{"data": items, "error": nil, "count": total})
}

func GetInterventionByIDAPI(c *fiber.Ctx, db *sql.DB) error {
	iv, err := database.GetInterventionByID(db, c.Params("id"))
	if err == sql.ErrNoRows {
		return c.Status(404).JSON(fiber.Map{"data": nil, "error": "Intervention not found"})
	}
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"data": nil, "error": "Database error: " + err.Error()})
	}
	return c.JSON(fiber.Map{"data": iv, "error": nil})
}

func CreateInterventionAPI(c *fiber.Ctx, db *sql.DB) error {
	var input database.CreateInterventionInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(400).JSON(fiber.Map{"data": nil, "error": "Invalid request body"})
	}

	var missing []string
	if input.CaseID == "" {
		missing = append(missing, "case_id")
	}
	if input.Type == "" {
		missing = append(missing, "type")
	}
	if input.InterventionName == "" {
		missing = append(missing, "intervention_name")
	}
	if input.StartDate == nil || *input.StartDate == "" {
		missing = append(missing, "start_date")
	}
	if len(missing) > 0 {
		return c.Status(400).JSON(fiber.Map{"data": nil, "error": "Missing required fields: " + strings.Join(missing, ", ")})
	}

	exists, err := database.CaseExists(db, input.CaseID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"data": nil, "error": "Database error: " + err.Error()})
	}
	if !exists {
		return c.Status(404).JSON(fiber.Map{"data": nil, "error": "Case not found"})
	}

	created, err := database.CreateIntervention(db, input)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"data": nil, "error": "Database error: " + err.Error()})
	}
	return c.Status(201).JSON(fiber.Map{"data": created, "error": nil})
}

func UpdateInterventionAPI(c *fiber.Ctx, db *sql.DB) error {
	exists, err := database.InterventionExists(db, c.Params("id"))
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"data": nil, "error": "Database error: " + err.Error()})
	}
	if !exists {
		return c.Status(404).JSON(fiber.Map{"data": nil, "error": "Intervention not found"})
	}

	var fields map[string]interface{}
	if err := c.BodyParser(&fields); err != nil {
		return c.Status(400).JSON(fiber.Map{"data": nil, "error": "Invalid request body"})
	}

	updated, err := database.UpdateIntervention(db, c.Params("id"), fields)
	if err == database.ErrNoUpdatableFields {
		return c.Status(400).JSON(fiber.Map{"data": nil, "error": "No valid fields to update"})
	}
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"data": nil, "error": "Database error: " + err.Error()})
	}
	return c.JSON(fiber.Map{"data": updated, "error": nil})
}

// EndInterventionAPI handles DELETE on an intervention. Interventions are
// never removed; a delete deactivates the program and records why it
// ended.
func EndInterventionAPI(c *fiber.Ctx, db *sql.DB) error {
	exists, err := database.InterventionExists(db, c.Params("id"))
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"data": nil, "error": "Database error: " + err.Error()})
	}
	if !exists {
		return c.Status(404).JSON(fiber.Map{"data": nil, "error": "Intervention not found"})
	}

	type endRequest struct {
		ReasonForEnding *string `json:"reason_for_ending"`
	}
	var req endRequest
	_ = c.BodyParser(&req)

	ended, err := database.EndIntervention(db, c.Params("id"), req.ReasonForEnding)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"data": nil, "error": "Database error: " + err.Error()})
	}
	return c.JSON(fiber.Map{"data": ended, "error": nil})
}
