package database

import (
	"database/sql"
	"fmt"
	"strings"

	"maia-sss/app/models"
)

// StudentFilters represents filtering and pagination options for students.
// Archived is tri-state: empty excludes archived rows, "all" includes them,
// "only" returns nothing else.
type StudentFilters struct {
	Grade            string
	PrimaryTeacherID string
	SchoolID         string
	Search           string
	Archived         string
	Limit            int
	Offset           int
}

// CreateStudentInput carries the accepted fields for enrolling a student.
type CreateStudentInput struct {
	Name             string  `json:"name"`
	Grade            string  `json:"grade"`
	DateOfBirth      *string `json:"date_of_birth"`
	StudentID        *string `json:"student_id"`
	Nationality      *string `json:"nationality"`
	MotherTongue     *string `json:"mother_tongue"`
	StartDateAtAtlas *string `json:"start_date_at_atlas"`
	PreviousSchool   *string `json:"previous_school"`
	PrimaryTeacherID *string `json:"primary_teacher_id"`
	SchoolID         *string `json:"school_id"`
}

const studentColumns = `s.id, s.name, s.grade, s.date_of_birth, s.student_id, s.nationality,
	s.mother_tongue, s.start_date_at_atlas, s.previous_school, s.primary_teacher_id,
	s.school_id, s.created_at, s.updated_at, s.archived_at`

var studentReturning = strings.ReplaceAll(studentColumns, "s.", "")

func scanStudent(row *sql.Row) (*models.Student, error) {
	st := &models.Student{}
	err := row.Scan(
		&st.ID, &st.Name, &st.Grade, &st.DateOfBirth, &st.StudentID, &st.Nationality,
		&st.MotherTongue, &st.StartDateAtAtlas, &st.PreviousSchool, &st.PrimaryTeacherID,
		&st.SchoolID, &st.CreatedAt, &st.UpdatedAt, &st.ArchivedAt,
	)
	if err != nil {
		return nil, err
	}
	return st, nil
}

// GetStudents returns the filtered student roster plus the exact total count,
// sorted by name.
func GetStudents(db *sql.DB, filters StudentFilters) ([]models.StudentListItem, int, error) {
	var conditions []string
	var args []interface{}
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	switch filters.Archived {
	case "all":
	case "only":
		conditions = append(conditions, "s.archived_at IS NOT NULL")
	default:
		conditions = append(conditions, "s.archived_at IS NULL")
	}
	if filters.Grade != "" {
		conditions = append(conditions, "s.grade = "+arg(filters.Grade))
	}
	if filters.PrimaryTeacherID != "" {
		conditions = append(conditions, "s.primary_teacher_id = "+arg(filters.PrimaryTeacherID))
	}
	if filters.SchoolID != "" {
		conditions = append(conditions, "s.school_id = "+arg(filters.SchoolID))
	}
	if filters.Search != "" {
		p := arg("%" + filters.Search + "%")
		conditions = append(conditions, fmt.Sprintf("(s.name ILIKE %s OR s.student_id ILIKE %s)", p, p))
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM students s %s`, where)
	var total int
	if err := db.QueryRow(countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`
		SELECT s.id, s.name, s.grade, s.student_id, s.primary_teacher_id,
			   s.created_at, s.updated_at, s.archived_at,
			   t.first_name, t.last_name, t.email
		FROM students s
		LEFT JOIN users t ON t.id = s.primary_teacher_id
		%s
		ORDER BY s.name ASC
		LIMIT $%d OFFSET $%d`, where, len(args)+1, len(args)+2)
	args = append(args, filters.Limit, filters.Offset)

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	items := []models.StudentListItem{}
	for rows.Next() {
		var item models.StudentListItem
		var first, last, email sql.NullString
		if err := rows.Scan(
			&item.ID, &item.Name, &item.Grade, &item.StudentID, &item.PrimaryTeacherID,
			&item.CreatedAt, &item.UpdatedAt, &item.ArchivedAt,
			&first, &last, &email,
		); err != nil {
			return nil, 0, err
		}
		item.PrimaryTeacherName = displayName(first, last, email)
		items = append(items, item)
	}
	return items, total, rows.Err()
}

// GetStudentByID returns a single student with the primary teacher expanded.
func GetStudentByID(db *sql.DB, studentID string) (*models.Student, error) {
	query := `
		SELECT ` + studentColumns + `,
			   t.id, t.email, t.first_name, t.last_name, t.sss_position
		FROM students s
		LEFT JOIN users t ON t.id = s.primary_teacher_id
		WHERE s.id = $1`

	st := &models.Student{}
	var tID, tEmail, tFirst, tLast, tPosition sql.NullString
	err := db.QueryRow(query, studentID).Scan(
		&st.ID, &st.Name, &st.Grade, &st.DateOfBirth, &st.StudentID, &st.Nationality,
		&st.MotherTongue, &st.StartDateAtAtlas, &st.PreviousSchool, &st.PrimaryTeacherID,
		&st.SchoolID, &st.CreatedAt, &st.UpdatedAt, &st.ArchivedAt,
		&tID, &tEmail, &tFirst, &tLast, &tPosition,
	)
	if err != nil {
		return nil, err
	}
	st.PrimaryTeacher = userRef(tID, tEmail, tFirst, tLast, tPosition)
	return st, nil
}

// CreateStudent enrolls a new student.
func CreateStudent(db *sql.DB, input CreateStudentInput) (*models.Student, error) {
	query := `
		INSERT INTO students (name, grade, date_of_birth, student_id, nationality,
			mother_tongue, start_date_at_atlas, previous_school, primary_teacher_id,
			school_id, created_at, updated_at)
		VALUES ($1, $2, $3::date, $4, $5, $6, $7::date, $8, $9, $10, NOW(), NOW())
		RETURNING ` + studentReturning

	return scanStudent(db.QueryRow(query,
		input.Name, input.Grade, input.DateOfBirth, input.StudentID, input.Nationality,
		input.MotherTongue, input.StartDateAtAtlas, input.PreviousSchool,
		input.PrimaryTeacherID, input.SchoolID,
	))
}

// studentUpdateColumns whitelists the columns a PATCH may touch.
var studentUpdateColumns = map[string]bool{
	"name":                true,
	"grade":               true,
	"date_of_birth":       true,
	"student_id":          true,
	"nationality":         true,
	"mother_tongue":       true,
	"start_date_at_atlas": true,
	"previous_school":     true,
	"primary_teacher_id":  true,
	"school_id":           true,
}

// UpdateStudent applies a partial update and returns the updated row.
func UpdateStudent(db *sql.DB, studentID string, fields map[string]interface{}) (*models.Student, error) {
	setClauses := make([]string, 0, len(fields)+1)
	args := make([]interface{}, 0, len(fields)+1)
	i := 1
	for column, value := range fields {
		if !studentUpdateColumns[column] {
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
	args = append(args, studentID)

	query := fmt.Sprintf(`UPDATE students SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(setClauses, ", "), i, studentReturning)
	return scanStudent(db.QueryRow(query, args...))
}

// ArchiveStudent soft-deletes a student by stamping archived_at. The row
// and its case history remain intact.
func ArchiveStudent(db *sql.DB, studentID string) (*models.Student, error) {
	query := `UPDATE students SET archived_at = NOW(), updated_at = NOW()
			  WHERE id = $1
			  RETURNING ` + studentReturning
	return scanStudent(db.QueryRow(query, studentID))
}

// StudentExists reports whether a student row exists.
func StudentExists(db *sql.DB, studentID string) (bool, error) {
	var id string
	err := db.QueryRow(`SELECT id FROM students WHERE id = $1`, studentID).Scan(&id)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
