package dashboard

import (
	"database/sql"

	"maia-sss/app/database"

	"github.com/gofiber/fiber/v2"
)

func GetStatsAPI(c *fiber.Ctx, db *sql.DB) error {
	stats, err := database.GetDashboardStats(db)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"data": nil, "error": "Database error: " + err.Error()})
	}
	return c.JSON(fiber.Map{"data": stats, "error": nil})
}

// GetCaseLoadAPI reports the caller's active case load.
func GetCaseLoadAPI(c *fiber.Ctx, db *sql.DB) error {
	load, err := database.GetStaffCaseLoad(db, c.Locals("user_id").(string))
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"data": nil, "error": "Database error: " + err.Error()})
	}
	return c.JSON(fiber.Map{"data": load, "error": nil})
}

func GetTierDistributionAPI(c *fiber.Ctx, db *sql.DB) error {
	distribution, err := database.GetTierDistribution(db)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"data": nil, "error": "Database error: " + err.Error()})
	}
	return c.JSON(fiber.Map{"data": distribution, "error": nil})
}

func GetUrgentCasesAPI(c *fiber.Ctx, db *sql.DB) error {
	cases, err := database.GetUrgentCases(db)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"data": nil, "error": "Database error: " + err.Error()})
	}
	return c.JSON(fiber.Map{"data": cases, "error": nil})
}

func GetMyCasesAPI(c *fiber.Ctx, db *sql.DB) error {
	cases, err := database.GetMyCases(db, c.Locals("user_id").(string))
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"data": nil, "error": "Database error: " + err.Error()})
	}
	return c.JSON(fiber.Map{"data": cases, "error": nil})
}
