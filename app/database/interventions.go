package database

import (
	"database/sql"
	"fmt"
	"strings"

	"maia-sss/app/models"
)

// InterventionFilters represents filtering and pagination options for
// interventions.
type InterventionFilters struct {
	CaseID        string
	Type          string
	Tier          *int
	FacilitatorID string
	IsActive      *bool
	Limit         int
	Offset        int
}

// CreateInterventionInput carries the accepted fields for starting an
// intervention under a case.
type CreateInterventionInput struct {
	CaseID                      string  `json:"case_id"`
	Type                        string  `json:"type"`
	Tier                        *int    `json:"tier"`
	InterventionName            string  `json:"intervention_name"`
	Description                 *string `json:"description"`
	StartDate                   *string `json:"start_date"`
	EstimatedEndDate            *string `json:"estimated_end_date"`
	DurationWeeks               *int    `json:"duration_weeks"`
	Frequency                   *string `json:"frequency"`
	DeliveryFormat              *string `json:"delivery_format"`
	FacilitatorID               *string `json:"facilitator_id"`
	Location                    *string `json:"location"`
	IsEscalatableTier           bool    `json:"is_escalatable_tier"`
	EscalatedFromInterventionID *string `json:"escalated_from_intervention_id"`
}

const interventionColumns = `i.id, i.case_id, i.type, i.tier, i.intervention_name, i.description,
	i.start_date, i.estimated_end_date, i.actual_end_date, i.duration_weeks, i.frequency,
	i.delivery_format, i.facilitator_id, i.location, i.is_active, i.reason_for_ending,
	i.is_escalatable_tier, i.escalated_from_intervention_id, i.created_at, i.updated_at`

var interventionReturning = strings.ReplaceAll(interventionColumns, "i.", "")

func scanIntervention(row *sql.Row) (*models.Intervention, error) {
	iv := &models.Intervention{}
	err := row.Scan(
		&iv.ID, &iv.CaseID, &iv.Type, &iv.Tier, &iv.InterventionName, &iv.Description,
		&iv.StartDate, &iv.EstimatedEndDate, &iv.ActualEndDate, &iv.DurationWeeks, &iv.Frequency,
		&iv.DeliveryFormat, &iv.FacilitatorID, &iv.Location, &iv.IsActive, &iv.ReasonForEnding,
		&iv.IsEscalatableTier, &iv.EscalatedFromInterventionID, &iv.CreatedAt, &iv.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return iv, nil
}

// GetInterventions returns the filtered intervention list plus the exact
// total count. Active interventions sort first, newest start date within.
func GetInterventions(db *sql.DB, filters InterventionFilters) ([]models.InterventionListItem, int, error) {
	var conditions []string
	var args []interface{}
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filters.CaseID != "" {
		conditions = append(conditions, "i.case_id = "+arg(filters.CaseID))
	}
	if filters.Type != "" {
		conditions = append(conditions, "i.type = "+arg(filters.Type))
	}
	if filters.Tier != nil {
		conditions = append(conditions, "i.tier = "+arg(*filters.Tier))
	}
	if filters.FacilitatorID != "" {
		conditions = append(conditions, "i.facilitator_id = "+arg(filters.FacilitatorID))
	}
	if filters.IsActive != nil {
		conditions = append(conditions, "i.is_active = "+arg(*filters.IsActive))
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM interventions i %s`, where)
	var total int
	if err := db.QueryRow(countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`
		SELECT i.id, i.case_id, i.type, i.tier, i.intervention_name, i.start_date,
			   i.estimated_end_date, i.facilitator_id, i.is_active, i.created_at, i.updated_at,
			   f.first_name, f.last_name, f.email,
			   (SELECT COUNT(*) FROM sessions se WHERE se.intervention_id = i.id)
		FROM interventions i
		LEFT JOIN users f ON f.id = i.facilitator_id
		%s
		ORDER BY i.is_active DESC, i.start_date DESC
		LIMIT $%d OFFSET $%d`, where, len(args)+1, len(args)+2)
	args = append(args, filters.Limit, filters.Offset)

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	items := []models.InterventionListItem{}
	for rows.Next() {
		var item models.InterventionListItem
		var first, last, email sql.NullString
		if err := rows.Scan(
			&item.ID, &item.CaseID, &item.Type, &item.Tier, &item.InterventionName,
			&item.StartDate, &item.EstimatedEndDate, &item.FacilitatorID, &item.IsActive,
			&item.CreatedAt, &item.UpdatedAt,
			&first, &last, &email,
			&item.SessionCount,
		); err != nil {
			return nil, 0, err
		}
		item.FacilitatorName = displayName(first, last, email)
		items = append(items, item)
	}
	return items, total, rows.Err()
}

// GetInterventionByID returns a single intervention with the facilitator
// expanded.
func GetInterventionByID(db *sql.DB, interventionID string) (*models.Intervention, error) {
	query := `
		SELECT ` + interventionColumns + `,
			   f.id, f.email, f.first_name, f.last_name, f.sss_position
		FROM interventions i
		LEFT JOIN users f ON f.id = i.facilitator_id
		WHERE i.id = $1`

	iv := &models.Intervention{}
	var fID, fEmail, fFirst, fLast, fPosition sql.NullString
	err := db.QueryRow(query, interventionID).Scan(
		&iv.ID, &iv.CaseID, &iv.Type, &iv.Tier, &iv.InterventionName, &iv.Description,
		&iv.StartDate, &iv.EstimatedEndDate, &iv.ActualEndDate, &iv.DurationWeeks, &iv.Frequency,
		&iv.DeliveryFormat, &iv.FacilitatorID, &iv.Location, &iv.IsActive, &iv.ReasonForEnding,
		&iv.IsEscalatableTier, &iv.EscalatedFromInterventionID, &iv.CreatedAt, &iv.UpdatedAt,
		&fID, &fEmail, &fFirst, &fLast, &fPosition,
	)
	if err != nil {
		return nil, err
	}
	iv.Facilitator = userRef(fID, fEmail, fFirst, fLast, fPosition)
	return iv, nil
}

// CreateIntervention starts a new intervention.
func CreateIntervention(db *sql.DB, input CreateInterventionInput) (*models.Intervention, error) {
	query := `
		INSERT INTO interventions (case_id, type, tier, intervention_name, description,
			start_date, estimated_end_date, duration_weeks, frequency, delivery_format,
			facilitator_id, location, is_escalatable_tier, escalated_from_intervention_id,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6::date, $7::date, $8, $9, $10,
			$11, $12, $13, $14, NOW(), NOW())
		RETURNING ` + interventionReturning

	return scanIntervention(db.QueryRow(query,
		input.CaseID, input.Type, input.Tier, input.InterventionName, input.Description,
		input.StartDate, input.EstimatedEndDate, input.DurationWeeks, input.Frequency,
		input.DeliveryFormat, input.FacilitatorID, input.Location,
		input.IsEscalatableTier, input.EscalatedFromInterventionID,
	))
}

// interventionUpdateColumns whitelists the columns a PATCH may touch.
var interventionUpdateColumns = map[string]bool{
	"type":                true,
	"tier":                true,
	"intervention_name":   true,
	"description":         true,
	"start_date":          true,
	"estimated_end_date":  true,
	"actual_end_date":     true,
	"duration_weeks":      true,
	"frequency":           true,
	"delivery_format":     true,
	"facilitator_id":      true,
	"location":            true,
	"is_active":           true,
	"reason_for_ending":   true,
	"is_escalatable_tier": true,
}

// UpdateIntervention applies a partial update and returns the updated row.
func UpdateIntervention(db *sql.DB, interventionID string, fields map[string]interface{}) (*models.Intervention, error) {
	setClauses := make([]string, 0, len(fields)+1)
	args := make([]interface{}, 0, len(fields)+1)
	i := 1
	for column, value := range fields {
		if !interventionUpdateColumns[column] {
			continue
		}
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, i))
		args = append(args, value)
		i++
	}
	if len(setClauses) == 0 {
		return nil, ErrNoUpdatableFields
	}
	setClauses = append(setClauses, "updated_at = NOW()")
	args = append(args, interventionID)

	query := fmt.Sprintf(`UPDATE interventions SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(setClauses, ", "), i, interventionReturning)
	return scanIntervention(db.QueryRow(query, args...))
}

// EndIntervention deactivates an intervention, recording when and why it
// ended.
func EndIntervention(db *sql.DB, interventionID string, reason *string) (*models.Intervention, error) {
	query := `UPDATE interventions
			  SET is_active = FALSE, actual_end_date = CURRENT_DATE, reason_for_ending = $1, updated_at = NOW()
			  WHERE id = $2
			  RETURNING ` + interventionReturning
	return scanIntervention(db.QueryRow(query, reason, interventionID))
}

// InterventionExists reports whether an intervention row exists.
func InterventionExists(db *sql.DB, interventionID string) (bool, error) {
	var id string
	err := db.QueryRow(`SELECT id FROM interventions WHERE id = $1`, interventionID).Scan(&id)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
