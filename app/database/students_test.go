package database

import (
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetStudents_ExcludesArchivedByDefault(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM students s WHERE s.archived_at IS NULL")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	now := time.Now()
	rows := sqlmock.NewRows([]string{
		"id", "name", "grade", "student_id", "primary_teacher_id",
		"created_at", "updated_at", "archived_at",
		"first_name", "last_name", "email",
	}).
		AddRow("student-1", "Amal Hassan", "4", "S-1001", "teacher-1", now, now, nil, "Ben", "Okafor", "ben@school.org").
		AddRow("student-2", "Zoe Lim", "5", nil, nil, now, now, nil, nil, nil, nil)
	mock.ExpectQuery("SELECT s.id, s.name, s.grade").
		WithArgs(50, 0).
		WillReturnRows(rows)

	items, total, err := GetStudents(db, StudentFilters{Limit: 50})
	require.NoError(t, err)

	assert.Equal(t, 2, total)
	require.Len(t, items, 2)
	require.NotNil(t, items[0].PrimaryTeacherName)
	assert.Equal(t, "Ben Okafor", *items[0].PrimaryTeacherName)
	assert.Nil(t, items[1].PrimaryTeacherName)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetStudents_SearchMatchesNameAndStudentID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("(s.name ILIKE $1 OR s.student_id ILIKE $1)")).
		WithArgs("%amal%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery("SELECT s.id").
		WithArgs("%amal%", 50, 0).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "name", "grade", "student_id", "primary_teacher_id",
			"created_at", "updated_at", "archived_at",
			"first_name", "last_name", "email",
		}))

	_, total, err := GetStudents(db, StudentFilters{Search: "amal", Limit: 50})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStudent_RejectsUnknownColumns(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	_, err = UpdateStudent(db, "student-1", map[string]interface{}{"archived_at": "2026-01-01"})
	assert.ErrorIs(t, err, ErrNoUpdatableFields)
}

func TestArchiveStudent_StampsArchivedAt(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now()
	rows := sqlmock.NewRows([]string{
		"id", "name", "grade", "date_of_birth", "student_id", "nationality",
		"mother_tongue", "start_date_at_atlas", "previous_school", "primary_teacher_id",
		"school_id", "created_at", "updated_at", "archived_at",
	}).AddRow("student-1", "Amal Hassan", "4", nil, nil, nil, nil, nil, nil, nil, nil, now, now, now)

	mock.ExpectQuery(regexp.QuoteMeta("UPDATE students SET archived_at = NOW()")).
		WithArgs("student-1").
		WillReturnRows(rows)

	st, err := ArchiveStudent(db, "student-1")
	require.NoError(t, err)
	require.NotNil(t, st.ArchivedAt)
	assert.Equal(t, "Amal Hassan", st.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}
