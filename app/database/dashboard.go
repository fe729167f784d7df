package database

import (
	"database/sql"
	"time"

	"maia-sss/app/models"
)

// GetDashboardStats computes the four headline dashboard counts. The
// upcoming-meetings window runs seven days from local midnight.
func GetDashboardStats(db *sql.DB) (*models.DashboardStats, error) {
	stats := &models.DashboardStats{}
	query := `
		SELECT
			(SELECT COUNT(*) FROM cases WHERE status IN ('OPEN', 'ON_HOLD')),
			(SELECT COUNT(*) FROM cases WHERE status IN ('OPEN', 'ON_HOLD') AND is_urgent),
			(SELECT COUNT(*) FROM interventions WHERE is_active),
			(SELECT COUNT(*) FROM parent_meetings
			 WHERE meeting_status IN ('SCHEDULED', 'RESCHEDULED')
			   AND meeting_date >= CURRENT_DATE
			   AND meeting_date <= CURRENT_DATE + 7)`
	err := db.QueryRow(query).Scan(
		&stats.ActiveCases, &stats.UrgentCases, &stats.ActiveInterventions, &stats.UpcomingMeetings,
	)
	if err != nil {
		return nil, err
	}
	return stats, nil
}

// GetStaffCaseLoad calls the get_staff_case_load database function. A
// staff member with no active cases gets an explicit all-zero row.
func GetStaffCaseLoad(db *sql.DB, staffID string) (*models.CaseLoad, error) {
	load := &models.CaseLoad{}
	err := db.QueryRow(`SELECT * FROM get_staff_case_load($1)`, staffID).Scan(
		&load.TotalCases, &load.OpenCases, &load.OnHoldCases,
		&load.Tier1Cases, &load.Tier2Cases, &load.Tier3Cases, &load.UrgentCases,
	)
	if err == sql.ErrNoRows {
		return &models.CaseLoad{}, nil
	}
	if err != nil {
		return nil, err
	}
	return load, nil
}

// GetTierDistribution calls the get_tier_distribution_by_grade database
// function.
func GetTierDistribution(db *sql.DB) ([]models.TierDistribution, error) {
	rows, err := db.Query(`SELECT * FROM get_tier_distribution_by_grade()`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []models.TierDistribution{}
	for rows.Next() {
		var item models.TierDistribution
		if err := rows.Scan(&item.Grade, &item.Tier1, &item.Tier2, &item.Tier3); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func scanDashboardCases(rows *sql.Rows) ([]models.DashboardCase, error) {
	defer rows.Close()

	now := time.Now()
	items := []models.DashboardCase{}
	for rows.Next() {
		var item models.DashboardCase
		if err := rows.Scan(
			&item.ID, &item.CaseType, &item.Tier, &item.Status, &item.IsUrgent, &item.OpenedDate,
			&item.Student.ID, &item.Student.Name, &item.Student.Grade, &item.Student.StudentID,
		); err != nil {
			return nil, err
		}
		item.DaysOpen = daysOpen(item.OpenedDate, now)
		items = append(items, item)
	}
	return items, rows.Err()
}

// daysOpen is the number of whole days elapsed since the case was opened.
// Cases with no opened date count as opened now, so zero days.
func daysOpen(openedDate *time.Time, now time.Time) int {
	if openedDate == nil {
		return 0
	}
	d := int(now.Sub(*openedDate).Hours() / 24)
	if d < 0 {
		return 0
	}
	return d
}

// GetUrgentCases returns all active urgent cases, oldest first.
func GetUrgentCases(db *sql.DB) ([]models.DashboardCase, error) {
	query := `
		SELECT c.id, c.case_type, c.tier, c.status, c.is_urgent, c.opened_date,
			   s.id, s.name, s.grade, s.student_id
		FROM cases c
		JOIN students s ON s.id = c.student_id
		WHERE c.is_urgent AND c.status IN ('OPEN', 'ON_HOLD')
		ORDER BY c.opened_date ASC`

	rows, err := db.Query(query)
	if err != nil {
		return nil, err
	}
	return scanDashboardCases(rows)
}

// GetMyCases returns the caller's active managed cases, urgent first then
// oldest first.
func GetMyCases(db *sql.DB, staffID string) ([]models.DashboardCase, error) {
	query := `
		SELECT c.id, c.case_type, c.tier, c.status, c.is_urgent, c.opened_date,
			   s.id, s.name, s.grade, s.student_id
		FROM cases c
		JOIN students s ON s.id = c.student_id
		WHERE c.case_manager_id = $1 AND c.status IN ('OPEN', 'ON_HOLD')
		ORDER BY c.is_urgent DESC, c.opened_date ASC`

	rows, err := db.Query(query, staffID)
	if err != nil {
		return nil, err
	}
	return scanDashboardCases(rows)
}
