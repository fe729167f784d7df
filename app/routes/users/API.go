package users

import (
	"database/sql"

	"maia-sss/app/database"
	"maia-sss/app/models"

	"github.com/gofiber/fiber/v2"
)

func GetUsersAPI(c *fiber.Ctx, db *sql.DB) error {
	users, err := database.GetUsers(db, c.Query("role"))
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"data": nil, "error": "Database error: " + err.Error()})
	}
	return c.JSON(fiber.Map{"data": users, "error": nil})
}

// resolveProfileID maps the :id path segment to the caller. "me" is an
// alias; any other id must match the caller, profiles are self-only.
func resolveProfileID(c *fiber.Ctx) (string, bool) {
	caller := c.Locals("user_id").(string)
	id := c.Params("id")
	if id == "" || id == "me" || id == caller {
		return caller, true
	}
	return "", false
}

func GetUserAPI(c *fiber.Ctx, db *sql.DB) error {
	userID, ok := resolveProfileID(c)
	if !ok {
		return c.Status(403).JSON(fiber.Map{"data": nil, "error": "Forbidden - You can only view your own profile"})
	}

	user, err := database.GetUserByID(db, userID)
	if err == sql.ErrNoRows {
		return c.Status(404).JSON(fiber.Map{"data": nil, "error": "User not found"})
	}
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"data": nil, "error": "Database error: " + err.Error()})
	}
	return c.JSON(fiber.Map{"data": user, "error": nil})
}

// profileUpdateColumns is the fixed allowlist for self-service profile
// edits. Role and position changes go through onboarding or an admin.
var profileUpdateColumns = map[string]bool{
	"first_name": true,
	"last_name":  true,
	"department": true,
	"phone":      true,
}

func UpdateUserAPI(c *fiber.Ctx, db *sql.DB) error {
	userID, ok := resolveProfileID(c)
	if !ok {
		return c.Status(403).JSON(fiber.Map{"data": nil, "error": "Forbidden - You can only update your own profile"})
	}

	var body map[string]interface{}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(400).JSON(fiber.Map{"data": nil, "error": "Invalid request body"})
	}

	fields := map[string]interface{}{}
	for column, value := range body {
		if profileUpdateColumns[column] {
			fields[column] = value
		}
	}
	if len(fields) == 0 {
		return c.Status(400).JSON(fiber.Map{"data": nil, "error": "No valid fields to update"})
	}

	updated, err := database.UpdateUserProfile(db, userID, fields)
	if err == sql.ErrNoRows {
		return c.Status(404).JSON(fiber.Map{"data": nil, "error": "User not found"})
	}
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"data": nil, "error": "Database error: " + err.Error()})
	}
	return c.JSON(fiber.Map{"data": updated, "error": nil})
}

// OnboardingAPI completes a first sign-in: the caller picks a role and,
// for SSS staff, a position. A role can only be set once this way.
func OnboardingAPI(c *fiber.Ctx, db *sql.DB) error {
	userID := c.Locals("user_id").(string)

	type onboardingRequest struct {
		FirstName   *string `json:"first_name"`
		LastName    *string `json:"last_name"`
		Role        string  `json:"role"`
		SSSPosition *string `json:"sss_position"`
	}
	var req onboardingRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"data": nil, "error": "Invalid request body"})
	}

	switch models.UserRole(req.Role) {
	case models.RoleSSSStaff, models.RoleTeacher, models.RoleParent, models.RolePrincipalAdmin:
	default:
		return c.Status(400).JSON(fiber.Map{"data": nil, "error": "Invalid role"})
	}

	existing, err := database.GetUserByID(db, userID)
	if err == sql.ErrNoRows {
		return c.Status(404).JSON(fiber.Map{"data": nil, "error": "User not found"})
	}
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"data": nil, "error": "Database error: " + err.Error()})
	}
	if existing.Role != nil {
		return c.Status(400).JSON(fiber.Map{"data": nil, "error": "Profile already completed"})
	}

	fields := map[string]interface{}{"role": req.Role}
	if req.FirstName != nil {
		fields["first_name"] = *req.FirstName
	}
	if req.LastName != nil {
		fields["last_name"] = *req.LastName
	}
	if models.UserRole(req.Role) == models.RoleSSSStaff && req.SSSPosition != nil {
		fields["sss_position"] = *req.SSSPosition
	}

	updated, err := database.UpdateUserProfile(db, userID, fields)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"data": nil, "error": "Database error: " + err.Error()})
	}
	return c.JSON(fiber.Map{"data": updated, "error": nil})
}
