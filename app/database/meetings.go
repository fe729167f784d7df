package database

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"maia-sss/app/models"

	"github.com/lib/pq"
)

// MeetingFilters represents filtering and pagination options for parent
// meetings.
type MeetingFilters struct {
	StudentID   string
	CaseID      string
	SSSStaffID  string
	Status      string
	IsScheduled *bool
	DateFrom    string
	DateTo      string
	Upcoming    bool
	Limit       int
	Offset      int
}

// CreateMeetingInput carries the accepted fields for scheduling a parent
// meeting.
type CreateMeetingInput struct {
	StudentID             string          `json:"student_id"`
	CaseID                *string         `json:"case_id"`
	MeetingDate           *string         `json:"meeting_date"`
	MeetingTime           *string         `json:"meeting_time"`
	ParentIDs             []string        `json:"parent_ids"`
	SSSStaffID            *string         `json:"sss_staff_id"`
	TeacherIDs            []string        `json:"teacher_ids"`
	AdminID               *string         `json:"admin_id"`
	IsScheduled           *bool           `json:"is_scheduled"`
	MeetingStatus         string          `json:"meeting_status"`
	GoogleCalendarEventID *string         `json:"google_calendar_event_id"`
	Agenda                *string         `json:"agenda"`
	AgendaLink            *string         `json:"agenda_link"`
	ActionPlan            json.RawMessage `json:"action_plan"`
	NextMeetingDate       *string         `json:"next_meeting_date"`
	Frequency             *string         `json:"frequency"`
}

const meetingColumns = `pm.id, pm.student_id, pm.case_id, pm.meeting_date, pm.meeting_time,
	pm.parent_ids, pm.sss_staff_id, pm.teacher_ids, pm.admin_id, pm.is_scheduled,
	pm.meeting_status, pm.cancellation_reason, pm.rescheduled_date, pm.google_calendar_event_id,
	pm.agenda, pm.agenda_link, pm.meeting_notes, pm.next_steps, pm.action_plan,
	pm.next_meeting_date, pm.reminder_sent, pm.reminder_sent_date, pm.frequency,
	pm.created_at, pm.updated_at`

var meetingReturning = strings.ReplaceAll(meetingColumns, "pm.", "")

func scanMeeting(scanner interface{ Scan(...interface{}) error }) (*models.ParentMeeting, error) {
	m := &models.ParentMeeting{}
	var parentIDs, teacherIDs pq.StringArray
	var actionPlan []byte
	err := scanner.Scan(
		&m.ID, &m.StudentID, &m.CaseID, &m.MeetingDate, &m.MeetingTime,
		&parentIDs, &m.SSSStaffID, &teacherIDs, &m.AdminID, &m.IsScheduled,
		&m.MeetingStatus, &m.CancellationReason, &m.RescheduledDate, &m.GoogleCalendarEventID,
		&m.Agenda, &m.AgendaLink, &m.MeetingNotes, &m.NextSteps, &actionPlan,
		&m.NextMeetingDate, &m.ReminderSent, &m.ReminderSentDate, &m.Frequency,
		&m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	m.ParentIDs = parentIDs
	m.TeacherIDs = teacherIDs
	m.ActionPlan = actionPlan
	return m, nil
}

// GetMeetings returns the filtered meeting list plus the exact total count,
// soonest meeting first with undated meetings at the end.
func GetMeetings(db *sql.DB, filters MeetingFilters) ([]models.MeetingListItem, int, error) {
	var conditions []string
	var args []interface{}
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filters.StudentID != "" {
		conditions = append(conditions, "pm.student_id = "+arg(filters.StudentID))
	}
	if filters.CaseID != "" {
		conditions = append(conditions, "pm.case_id = "+arg(filters.CaseID))
	}
	if filters.SSSStaffID != "" {
		conditions = append(conditions, "pm.sss_staff_id = "+arg(filters.SSSStaffID))
	}
	if filters.Status != "" {
		conditions = append(conditions, "pm.meeting_status = "+arg(filters.Status))
	}
	if filters.IsScheduled != nil {
		conditions = append(conditions, "pm.is_scheduled = "+arg(*filters.IsScheduled))
	}
	if filters.DateFrom != "" {
		conditions = append(conditions, "pm.meeting_date >= "+arg(filters.DateFrom)+"::date")
	}
	if filters.DateTo != "" {
		conditions = append(conditions, "pm.meeting_date <= "+arg(filters.DateTo)+"::date")
	}
	if filters.Upcoming {
		conditions = append(conditions, "pm.meeting_date >= CURRENT_DATE")
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM parent_meetings pm %s`, where)
	var total int
	if err := db.QueryRow(countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`
		SELECT pm.id, pm.student_id, pm.case_id, pm.meeting_date, pm.meeting_time,
			   pm.meeting_status, pm.sss_staff_id, pm.is_scheduled, pm.created_at, pm.updated_at,
			   u.first_name, u.last_name, u.email,
			   s.name, s.grade
		FROM parent_meetings pm
		JOIN students s ON s.id = pm.student_id
		LEFT JOIN users u ON u.id = pm.sss_staff_id
		%s
		ORDER BY pm.meeting_date ASC NULLS LAST
		LIMIT $%d OFFSET $%d`, where, len(args)+1, len(args)+2)
	args = append(args, filters.Limit, filters.Offset)

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	items := []models.MeetingListItem{}
	for rows.Next() {
		var item models.MeetingListItem
		var first, last, email sql.NullString
		if err := rows.Scan(
			&item.ID, &item.StudentID, &item.CaseID, &item.MeetingDate, &item.MeetingTime,
			&item.MeetingStatus, &item.SSSStaffID, &item.IsScheduled, &item.CreatedAt, &item.UpdatedAt,
			&first, &last, &email,
			&item.StudentName, &item.StudentGrade,
		); err != nil {
			return nil, 0, err
		}
		item.StaffName = displayName(first, last, email)
		items = append(items, item)
	}
	return items, total, rows.Err()
}

// getMeetingWithRefs loads a single meeting with its student and staff
// projections expanded.
func getMeetingWithRefs(db *sql.DB, meetingID string) (*models.ParentMeeting, error) {
	query := `
		SELECT ` + meetingColumns + `,
			   s.id, s.name, s.grade, s.student_id,
			   u.id, u.email, u.first_name, u.last_name, u.sss_position
		FROM parent_meetings pm
		JOIN students s ON s.id = pm.student_id
		LEFT JOIN users u ON u.id = pm.sss_staff_id
		WHERE pm.id = $1`

	row := db.QueryRow(query, meetingID)
	m := &models.ParentMeeting{}
	var parentIDs, teacherIDs pq.StringArray
	var actionPlan []byte
	var student models.StudentRef
	var uID, uEmail, uFirst, uLast, uPosition sql.NullString
	err := row.Scan(
		&m.ID, &m.StudentID, &m.CaseID, &m.MeetingDate, &m.MeetingTime,
		&parentIDs, &m.SSSStaffID, &teacherIDs, &m.AdminID, &m.IsScheduled,
		&m.MeetingStatus, &m.CancellationReason, &m.RescheduledDate, &m.GoogleCalendarEventID,
		&m.Agenda, &m.AgendaLink, &m.MeetingNotes, &m.NextSteps, &actionPlan,
		&m.NextMeetingDate, &m.ReminderSent, &m.ReminderSentDate, &m.Frequency,
		&m.CreatedAt, &m.UpdatedAt,
		&student.ID, &student.Name, &student.Grade, &student.StudentID,
		&uID, &uEmail, &uFirst, &uLast, &uPosition,
	)
	if err != nil {
		return nil, err
	}
	m.ParentIDs = parentIDs
	m.TeacherIDs = teacherIDs
	m.ActionPlan = actionPlan
	m.Student = &student
	m.SSSStaff = userRef(uID, uEmail, uFirst, uLast, uPosition)
	return m, nil
}

// GetMeetingByID returns a single meeting with its references expanded.
func GetMeetingByID(db *sql.DB, meetingID string) (*models.ParentMeeting, error) {
	return getMeetingWithRefs(db, meetingID)
}

// CreateMeeting schedules a parent meeting. A missing status defaults to
// SCHEDULED.
func CreateMeeting(db *sql.DB, input CreateMeetingInput) (*models.ParentMeeting, error) {
	var actionPlan interface{}
	if len(input.ActionPlan) > 0 {
		actionPlan = []byte(input.ActionPlan)
	}

	query := `
		INSERT INTO parent_meetings (student_id, case_id, meeting_date, meeting_time,
			parent_ids, sss_staff_id, teacher_ids, admin_id, is_scheduled, meeting_status,
			google_calendar_event_id, agenda, agenda_link, action_plan, next_meeting_date,
			frequency, created_at, updated_at)
		VALUES ($1, $2, $3::date, $4::time, $5, $6, $7, $8, $9,
			COALESCE(NULLIF($10, '')::meeting_status, 'SCHEDULED'),
			$11, $12, $13, $14, $15::date, $16, NOW(), NOW())
		RETURNING id`

	var id string
	err := db.QueryRow(query,
		input.StudentID, input.CaseID, input.MeetingDate, input.MeetingTime,
		pq.Array(input.ParentIDs), input.SSSStaffID, pq.Array(input.TeacherIDs),
		input.AdminID, input.IsScheduled, input.MeetingStatus,
		input.GoogleCalendarEventID, input.Agenda, input.AgendaLink, actionPlan,
		input.NextMeetingDate, input.Frequency,
	).Scan(&id)
	if err != nil {
		return nil, err
	}
	return getMeetingWithRefs(db, id)
}

// meetingUpdateColumns whitelists the columns a PATCH may touch.
var meetingUpdateColumns = map[string]bool{
	"case_id":                  true,
	"meeting_date":             true,
	"meeting_time":             true,
	"parent_ids":               true,
	"sss_staff_id":             true,
	"teacher_ids":              true,
	"admin_id":                 true,
	"is_scheduled":             true,
	"meeting_status":           true,
	"cancellation_reason":      true,
	"rescheduled_date":         true,
	"google_calendar_event_id": true,
	"agenda":                   true,
	"agenda_link":              true,
	"meeting_notes":            true,
	"next_steps":               true,
	"action_plan":              true,
	"next_meeting_date":        true,
	"reminder_sent":            true,
	"frequency":                true,
}

// UpdateMeeting applies a partial update and returns the updated meeting
// with its references expanded.
func UpdateMeeting(db *sql.DB, meetingID string, fields map[string]interface{}) (*models.ParentMeeting, error) {
	setClauses := make([]string, 0, len(fields)+1)
	args := make([]interface{}, 0, len(fields)+1)
	i := 1
	for column, value := range fields {
		if !meetingUpdateColumns[column] {
			continue
		}
		switch v := value.(type) {
		case []interface{}:
			value = pq.Array(toStringSlice(v))
		case map[string]interface{}:
			encoded, err := json.Marshal(v)
			if err != nil {
				return nil, err
			}
			value = encoded
		}
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, i))
		args = append(args, value)
		i++
	}
	if len(setClauses) == 0 {
		return nil, ErrNoUpdatableFields
	}
	setClauses = append(setClauses, "updated_at = NOW()")
	args = append(args, meetingID)

	query := fmt.Sprintf(`UPDATE parent_meetings SET %s WHERE id = $%d`, strings.Join(setClauses, ", "), i)
	if _, err := db.Exec(query, args...); err != nil {
		return nil, err
	}
	return getMeetingWithRefs(db, meetingID)
}

// DeleteMeeting removes a meeting row outright.
func DeleteMeeting(db *sql.DB, meetingID string) error {
	result, err := db.Exec(`DELETE FROM parent_meetings WHERE id = $1`, meetingID)
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

// MeetingExists reports whether a meeting row exists.
func MeetingExists(db *sql.DB, meetingID string) (bool, error) {
	var id string
	err := db.QueryRow(`SELECT id FROM parent_meetings WHERE id = $1`, meetingID).Scan(&id)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// MeetingsNeedingReminder returns tomorrow's scheduled meetings that have
// not had a reminder recorded yet.
func MeetingsNeedingReminder(db *sql.DB) ([]models.MeetingListItem, error) {
	query := `
		SELECT pm.id, pm.student_id, pm.case_id, pm.meeting_date, pm.meeting_time,
			   pm.meeting_status, pm.sss_staff_id, pm.is_scheduled, pm.created_at, pm.updated_at,
			   u.first_name, u.last_name, u.email,
			   s.name, s.grade
		FROM parent_meetings pm
		JOIN students s ON s.id = pm.student_id
		LEFT JOIN users u ON u.id = pm.sss_staff_id
		WHERE pm.meeting_date = CURRENT_DATE + 1
		  AND pm.meeting_status IN ('SCHEDULED', 'RESCHEDULED')
		  AND (pm.reminder_sent IS NOT TRUE)`

	rows, err := db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []models.MeetingListItem{}
	for rows.Next() {
		var item models.MeetingListItem
		var first, last, email sql.NullString
		if err := rows.Scan(
			&item.ID, &item.StudentID, &item.CaseID, &item.MeetingDate, &item.MeetingTime,
			&item.MeetingStatus, &item.SSSStaffID, &item.IsScheduled, &item.CreatedAt, &item.UpdatedAt,
			&first, &last, &email,
			&item.StudentName, &item.StudentGrade,
		); err != nil {
			return nil, err
		}
		item.StaffName = displayName(first, last, email)
		items = append(items, item)
	}
	return items, rows.Err()
}

// MarkReminderSent stamps a meeting's reminder as sent.
func MarkReminderSent(db *sql.DB, meetingID string) error {
	_, err := db.Exec(`UPDATE parent_meetings
					   SET reminder_sent = TRUE, reminder_sent_date = NOW(), updated_at = NOW()
					   WHERE id = $1`, meetingID)
	return err
}
