package database

import (
	"database/sql"
	"fmt"
	"strings"

	"maia-sss/app/models"

	"github.com/lib/pq"
)

// CaseFilters represents filtering, sorting and pagination options for cases.
type CaseFilters struct {
	Status        string
	CaseType      string
	Tier          *int
	IsUrgent      *bool
	CaseManagerID string
	StudentID     string
	Grade         string
	Search        string
	SortBy        string
	SortDirection string
	Limit         int
	Offset        int
}

// CreateCaseInput carries the accepted fields for creating a case.
type CreateCaseInput struct {
	StudentID           string   `json:"student_id"`
	CaseType            string   `json:"case_type"`
	Tier                *int     `json:"tier"`
	Status              string   `json:"status"`
	InterventionTypes   []string `json:"intervention_types"`
	IsUrgent            bool     `json:"is_urgent"`
	OpenedDate          *string  `json:"opened_date"`
	ExpectedClosureDate *string  `json:"expected_closure_date"`
	CaseManagerID       *string  `json:"case_manager_id"`
	SecondarySupporters []string `json:"secondary_supporters"`
	ReasonForReferral   *string  `json:"reason_for_referral"`
	ReferralSource      *string  `json:"referral_source"`
	InternalNotes       *string  `json:"internal_notes"`
	CreatedBy           string   `json:"-"`
}

const caseColumns = `c.id, c.student_id, c.case_type, c.tier, c.status, c.intervention_types,
	c.is_urgent, c.opened_date, c.expected_closure_date, c.closed_date, c.closure_reason,
	c.case_manager_id, c.secondary_supporters, c.reason_for_referral, c.referral_source,
	c.internal_notes, c.created_by, c.created_at, c.updated_at`

func scanCase(scanner interface{ Scan(...interface{}) error }) (*models.Case, error) {
	cs := &models.Case{}
	var interventionTypes, secondarySupporters pq.StringArray
	var referralSource *string
	err := scanner.Scan(
		&cs.ID, &cs.StudentID, &cs.CaseType, &cs.Tier, &cs.Status, &interventionTypes,
		&cs.IsUrgent, &cs.OpenedDate, &cs.ExpectedClosureDate, &cs.ClosedDate, &cs.ClosureReason,
		&cs.CaseManagerID, &secondarySupporters, &cs.ReasonForReferral, &referralSource,
		&cs.InternalNotes, &cs.CreatedBy, &cs.CreatedAt, &cs.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	cs.InterventionTypes = interventionTypes
	cs.SecondarySupporters = secondarySupporters
	if referralSource != nil {
		rs := models.ReferralSource(*referralSource)
		cs.ReferralSource = &rs
	}
	return cs, nil
}

func buildCaseFilterClauses(filters CaseFilters) ([]string, []interface{}) {
	var conditions []string
	var args []interface{}
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filters.Status != "" {
		conditions = append(conditions, "c.status = "+arg(filters.Status))
	}
	if filters.CaseType != "" {
		conditions = append(conditions, "c.case_type = "+arg(filters.CaseType))
	}
	if filters.Tier != nil {
		conditions = append(conditions, "c.tier = "+arg(*filters.Tier))
	}
	if filters.IsUrgent != nil {
		conditions = append(conditions, "c.is_urgent = "+arg(*filters.IsUrgent))
	}
	if filters.CaseManagerID != "" {
		conditions = append(conditions, "c.case_manager_id = "+arg(filters.CaseManagerID))
	}
	if filters.StudentID != "" {
		conditions = append(conditions, "c.student_id = "+arg(filters.StudentID))
	}
	if filters.Grade != "" {
		conditions = append(conditions, "s.grade = "+arg(filters.Grade))
	}
	if filters.Search != "" {
		conditions = append(conditions, "s.name ILIKE "+arg("%"+filters.Search+"%"))
	}
	return conditions, args
}

// caseSortColumns whitelists the sortable columns for the cases list.
var caseSortColumns = map[string]string{
	"opened_date": "c.opened_date",
	"created_at":  "c.created_at",
	"updated_at":  "c.updated_at",
	"status":      "c.status",
	"tier":        "c.tier",
	"case_type":   "c.case_type",
}

func caseOrderBy(filters CaseFilters) string {
	dir := "DESC"
	if strings.EqualFold(filters.SortDirection, "asc") {
		dir = "ASC"
	}
	switch {
	case filters.SortBy == "" || filters.SortBy == "is_urgent":
		// Urgent cases first, then most recently opened.
		return fmt.Sprintf("ORDER BY c.is_urgent %s, c.opened_date DESC", dir)
	case filters.SortBy == "student_name":
		return fmt.Sprintf("ORDER BY s.name %s", dir)
	default:
		if col, ok := caseSortColumns[filters.SortBy]; ok {
			return fmt.Sprintf("ORDER BY %s %s", col, dir)
		}
		return "ORDER BY c.is_urgent DESC, c.opened_date DESC"
	}
}

// GetCases returns the filtered case list plus the exact total count.
func GetCases(db *sql.DB, filters CaseFilters) ([]models.CaseListItem, int, error) {
	conditions, args := buildCaseFilterClauses(filters)
	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM cases c JOIN students s ON s.id = c.student_id %s`, where)
	var total int
	if err := db.QueryRow(countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`
		SELECT c.id, c.student_id, c.case_type, c.tier, c.status, c.is_urgent,
			   c.opened_date, c.case_manager_id, c.created_at, c.updated_at,
			   s.name, s.grade,
			   m.first_name, m.last_name, m.email,
			   (SELECT COUNT(*) FROM interventions i WHERE i.case_id = c.id)
		FROM cases c
		JOIN students s ON s.id = c.student_id
		LEFT JOIN users m ON m.id = c.case_manager_id
		%s
		%s
		LIMIT $%d OFFSET $%d`, where, caseOrderBy(filters), len(args)+1, len(args)+2)
	args = append(args, filters.Limit, filters.Offset)

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	items := []models.CaseListItem{}
	for rows.Next() {
		var item models.CaseListItem
		var first, last, email sql.NullString
		if err := rows.Scan(
			&item.ID, &item.StudentID, &item.CaseType, &item.Tier, &item.Status, &item.IsUrgent,
			&item.OpenedDate, &item.CaseManagerID, &item.CreatedAt, &item.UpdatedAt,
			&item.StudentName, &item.StudentGrade,
			&first, &last, &email,
			&item.InterventionCount,
		); err != nil {
			return nil, 0, err
		}
		item.CaseManagerName = displayName(first, last, email)
		items = append(items, item)
	}
	return items, total, rows.Err()
}

// getCaseWithRefs loads a single case with its student and case-manager
// projections expanded.
func getCaseWithRefs(db *sql.DB, caseID string) (*models.Case, error) {
	query := `
		SELECT ` + caseColumns + `,
			   s.id, s.name, s.grade, s.student_id,
			   m.id, m.email, m.first_name, m.last_name, m.sss_position
		FROM cases c
		JOIN students s ON s.id = c.student_id
		LEFT JOIN users m ON m.id = c.case_manager_id
		WHERE c.id = $1`

	row := db.QueryRow(query, caseID)
	cs := &models.Case{}
	var interventionTypes, secondarySupporters pq.StringArray
	var referralSource *string
	var student models.StudentRef
	var mID, mEmail, mFirst, mLast, mPosition sql.NullString
	err := row.Scan(
		&cs.ID, &cs.StudentID, &cs.CaseType, &cs.Tier, &cs.Status, &interventionTypes,
		&cs.IsUrgent, &cs.OpenedDate, &cs.ExpectedClosureDate, &cs.ClosedDate, &cs.ClosureReason,
		&cs.CaseManagerID, &secondarySupporters, &cs.ReasonForReferral, &referralSource,
		&cs.InternalNotes, &cs.CreatedBy, &cs.CreatedAt, &cs.UpdatedAt,
		&student.ID, &student.Name, &student.Grade, &student.StudentID,
		&mID, &mEmail, &mFirst, &mLast, &mPosition,
	)
	if err != nil {
		return nil, err
	}
	cs.InterventionTypes = interventionTypes
	cs.SecondarySupporters = secondarySupporters
	if referralSource != nil {
		rs := models.ReferralSource(*referralSource)
		cs.ReferralSource = &rs
	}
	cs.Student = &student
	cs.CaseManager = userRef(mID, mEmail, mFirst, mLast, mPosition)
	return cs, nil
}

// GetCaseByID returns the case detail view with related-record counts.
func GetCaseByID(db *sql.DB, caseID string) (*models.CaseWithRelations, error) {
	cs, err := getCaseWithRefs(db, caseID)
	if err != nil {
		return nil, err
	}

	detail := &models.CaseWithRelations{Case: *cs}
	countQuery := `
		SELECT
			(SELECT COUNT(*) FROM interventions i WHERE i.case_id = $1),
			(SELECT COUNT(*) FROM sessions se JOIN interventions i ON i.id = se.intervention_id WHERE i.case_id = $1),
			(SELECT COUNT(*) FROM parent_meetings pm WHERE pm.case_id = $1)`
	if err := db.QueryRow(countQuery, caseID).Scan(
		&detail.InterventionCount, &detail.SessionCount, &detail.ParentMeetingCount,
	); err != nil {
		return nil, err
	}
	return detail, nil
}

// CreateCase inserts a new case. A missing opened_date defaults to today
// and a missing status defaults to OPEN.
func CreateCase(db *sql.DB, input CreateCaseInput) (*models.Case, error) {
	query := `
		INSERT INTO cases (student_id, case_type, tier, status, intervention_types, is_urgent,
			opened_date, expected_closure_date, case_manager_id, secondary_supporters,
			reason_for_referral, referral_source, internal_notes, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, COALESCE(NULLIF($4, '')::case_status, 'OPEN'), $5, $6,
			COALESCE($7::date, CURRENT_DATE), $8::date, $9, $10, $11, $12::referral_source, $13, $14, NOW(), NOW())
		RETURNING id`

	var id string
	err := db.QueryRow(query,
		input.StudentID, input.CaseType, input.Tier, input.Status,
		pq.Array(input.InterventionTypes), input.IsUrgent,
		input.OpenedDate, input.ExpectedClosureDate, input.CaseManagerID,
		pq.Array(input.SecondarySupporters), input.ReasonForReferral,
		input.ReferralSource, input.InternalNotes, input.CreatedBy,
	).Scan(&id)
	if err != nil {
		return nil, err
	}
	return getCaseWithRefs(db, id)
}

// caseUpdateColumns whitelists the columns a PATCH may touch. Status
// transitions are accepted unconditionally; any value may move to any value.
var caseUpdateColumns = map[string]bool{
	"student_id":            true,
	"case_type":             true,
	"tier":                  true,
	"status":                true,
	"intervention_types":    true,
	"is_urgent":             true,
	"opened_date":           true,
	"expected_closure_date": true,
	"closed_date":           true,
	"closure_reason":        true,
	"case_manager_id":       true,
	"secondary_supporters":  true,
	"reason_for_referral":   true,
	"referral_source":       true,
	"internal_notes":        true,
}

// UpdateCase applies a partial update and returns the updated case with
// its references expanded.
func UpdateCase(db *sql.DB, caseID string, fields map[string]interface{}) (*models.Case, error) {
	setClauses := make([]string, 0, len(fields)+1)
	args := make([]interface{}, 0, len(fields)+1)
	i := 1
	for column, value := range fields {
		if !caseUpdateColumns[column] {
			continue
		}
		if list, ok := value.([]interface{}); ok {
			value = pq.Array(toStringSlice(list))
		}
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, i))
		args = append(args, value)
		i++
	}
	if len(setClauses) == 0 {
		return nil, ErrNoUpdatableFields
	}
	setClauses = append(setClauses, "updated_at = NOW()")
	args = append(args, caseID)

	query := fmt.Sprintf(`UPDATE cases SET %s WHERE id = $%d`, strings.Join(setClauses, ", "), i)
	if _, err := db.Exec(query, args...); err != nil {
		return nil, err
	}
	return getCaseWithRefs(db, caseID)
}

// CloseCase marks a case CLOSED with today's date and the given reason.
func CloseCase(db *sql.DB, caseID, closureReason string) (*models.Case, error) {
	query := `UPDATE cases
			  SET status = 'CLOSED', closed_date = CURRENT_DATE, closure_reason = $1, updated_at = NOW()
			  WHERE id = $2`
	if _, err := db.Exec(query, closureReason, caseID); err != nil {
		return nil, err
	}
	return getCaseWithRefs(db, caseID)
}

// GetCaseStatus returns the current status of a case, or sql.ErrNoRows.
func GetCaseStatus(db *sql.DB, caseID string) (models.CaseStatus, error) {
	var status models.CaseStatus
	err := db.QueryRow(`SELECT status FROM cases WHERE id = $1`, caseID).Scan(&status)
	return status, err
}

// CaseExists reports whether a case row exists.
func CaseExists(db *sql.DB, caseID string) (bool, error) {
	var id string
	err := db.QueryRow(`SELECT id FROM cases WHERE id = $1`, caseID).Scan(&id)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func toStringSlice(list []interface{}) []string {
	out := make([]string, 0, len(list))
	for _, v := range list {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
