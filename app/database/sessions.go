package database

import (
	"database/sql"
	"fmt"
	"strings"

	"maia-sss/app/models"
)

// SessionFilters represents filtering and pagination options for sessions.
type SessionFilters struct {
	InterventionID  string
	FacilitatorID   string
	StudentAttended *bool
	DateFrom        string
	DateTo          string
	Limit           int
	Offset          int
}

// CreateSessionInput carries the accepted fields for logging a session.
type CreateSessionInput struct {
	InterventionID   string  `json:"intervention_id"`
	SessionDate      *string `json:"session_date"`
	SessionTime      *string `json:"session_time"`
	Duration         *int    `json:"duration"`
	FacilitatorID    *string `json:"facilitator_id"`
	StudentAttended  *bool   `json:"student_attended"`
	StudentNotes     *string `json:"student_notes"`
	ObservationNotes *string `json:"observation_notes"`
	StudentProgress  *string `json:"student_progress"`
	Challenges       *string `json:"challenges"`
	TeacherFeedback  *string `json:"teacher_feedback"`
}

const sessionColumns = `se.id, se.intervention_id, se.session_date, se.session_time, se.duration,
	se.facilitator_id, se.student_attended, se.student_notes, se.observation_notes,
	se.student_progress, se.challenges, se.teacher_feedback, se.created_at, se.updated_at`

var sessionReturning = strings.ReplaceAll(sessionColumns, "se.", "")

func scanSession(row *sql.Row) (*models.Session, error) {
	s := &models.Session{}
	err := row.Scan(
		&s.ID, &s.InterventionID, &s.SessionDate, &s.SessionTime, &s.Duration,
		&s.FacilitatorID, &s.StudentAttended, &s.StudentNotes, &s.ObservationNotes,
		&s.StudentProgress, &s.Challenges, &s.TeacherFeedback, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// GetSessions returns the filtered session list plus the exact total count,
// most recent session first.
func GetSessions(db *sql.DB, filters SessionFilters) ([]models.SessionListItem, int, error) {
	var conditions []string
	var args []interface{}
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filters.InterventionID != "" {
		conditions = append(conditions, "se.intervention_id = "+arg(filters.InterventionID))
	}
	if filters.FacilitatorID != "" {
		conditions = append(conditions, "se.facilitator_id = "+arg(filters.FacilitatorID))
	}
	if filters.StudentAttended != nil {
		conditions = append(conditions, "se.student_attended = "+arg(*filters.StudentAttended))
	}
	if filters.DateFrom != "" {
		conditions = append(conditions, "se.session_date >= "+arg(filters.DateFrom)+"::date")
	}
	if filters.DateTo != "" {
		conditions = append(conditions, "se.session_date <= "+arg(filters.DateTo)+"::date")
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM sessions se %s`, where)
	var total int
	if err := db.QueryRow(countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`
		SELECT se.id, se.intervention_id, se.session_date, se.session_time, se.duration,
			   se.facilitator_id, se.student_attended, se.created_at, se.updated_at,
			   f.first_name, f.last_name, f.email
		FROM sessions se
		LEFT JOIN users f ON f.id = se.facilitator_id
		%s
		ORDER BY se.session_date DESC
		LIMIT $%d OFFSET $%d`, where, len(args)+1, len(args)+2)
	args = append(args, filters.Limit, filters.Offset)

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	items := []models.SessionListItem{}
	for rows.Next() {
		var item models.SessionListItem
		var first, last, email sql.NullString
		if err := rows.Scan(
			&item.ID, &item.InterventionID, &item.SessionDate, &item.SessionTime,
			&item.Duration, &item.FacilitatorID, &item.StudentAttended,
			&item.CreatedAt, &item.UpdatedAt,
			&first, &last, &email,
		); err != nil {
			return nil, 0, err
		}
		item.FacilitatorName = displayName(first, last, email)
		items = append(items, item)
	}
	return items, total, rows.Err()
}

// GetSessionByID returns a single session with the facilitator expanded.
func GetSessionByID(db *sql.DB, sessionID string) (*models.Session, error) {
	query := `
		SELECT ` + sessionColumns + `,
			   f.id, f.email, f.first_name, f.last_name, f.sss_position
		FROM sessions se
		LEFT JOIN users f ON f.id = se.facilitator_id
		WHERE se.id = $1`

	s := &models.Session{}
	var fID, fEmail, fFirst, fLast, fPosition sql.NullString
	err := db.QueryRow(query, sessionID).Scan(
		&s.ID, &s.InterventionID, &s.SessionDate, &s.SessionTime, &s.Duration,
		&s.FacilitatorID, &s.StudentAttended, &s.StudentNotes, &s.ObservationNotes,
		&s.StudentProgress, &s.Challenges, &s.TeacherFeedback, &s.CreatedAt, &s.UpdatedAt,
		&fID, &fEmail, &fFirst, &fLast, &fPosition,
	)
	if err != nil {
		return nil, err
	}
	s.Facilitator = userRef(fID, fEmail, fFirst, fLast, fPosition)
	return s, nil
}

// CreateSession logs a session.
func CreateSession(db *sql.DB, input CreateSessionInput) (*models.Session, error) {
	query := `
		INSERT INTO sessions (intervention_id, session_date, session_time, duration,
			facilitator_id, student_attended, student_notes, observation_notes,
			student_progress, challenges, teacher_feedback, created_at, updated_at)
		VALUES ($1, $2::date, $3::time, $4, $5, $6, $7, $8, $9, $10, $11, NOW(), NOW())
		RETURNING ` + sessionReturning

	return scanSession(db.QueryRow(query,
		input.InterventionID, input.SessionDate, input.SessionTime, input.Duration,
		input.FacilitatorID, input.StudentAttended, input.StudentNotes,
		input.ObservationNotes, input.StudentProgress, input.Challenges,
		input.TeacherFeedback,
	))
}

// sessionUpdateColumns whitelists the columns a PATCH may touch.
var sessionUpdateColumns = map[string]bool{
	"session_date":      true,
	"session_time":      true,
	"duration":          true,
	"facilitator_id":    true,
	"student_attended":  true,
	"student_notes":     true,
	"observation_notes": true,
	"student_progress":  true,
	"challenges":        true,
	"teacher_feedback":  true,
}

// UpdateSession applies a partial update and returns the updated row.
func UpdateSession(db *sql.DB, sessionID string, fields map[string]interface{}) (*models.Session, error) {
	setClauses := make([]string, 0, len(fields)+1)
	args := make([]interface{}, 0, len(fields)+1)
	i := 1
	for column, value := range fields {
		if !sessionUpdateColumns[column] {
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
	args = append(args, sessionID)

	query := fmt.Sprintf(`UPDATE sessions SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(setClauses, ", "), i, sessionReturning)
	return scanSession(db.QueryRow(query, args...))
}

// DeleteSession removes a session row outright.
func DeleteSession(db *sql.DB, sessionID string) error {
	result, err := db.Exec(`DELETE FROM sessions WHERE id = $1`, sessionID)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// SessionExists reports whether a session row exists.
func SessionExists(db *sql.DB, sessionID string) (bool, error) {
	var id string
	err := db.QueryRow(`SELECT id FROM sessions WHERE id = $1`, sessionID).Scan(&id)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
