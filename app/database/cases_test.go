package database

import (
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetCases_ReturnsItemsAndExactCount(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM cases c JOIN students s ON s.id = c.student_id")).
		WithArgs("OPEN").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(137))

	opened := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	now := time.Now()
	rows := sqlmock.NewRows([]string{
		"id", "student_id", "case_type", "tier", "status", "is_urgent",
		"opened_date", "case_manager_id", "created_at", "updated_at",
		"name", "grade", "first_name", "last_name", "email", "count",
	}).AddRow(
		"case-1", "student-1", "SEL", 2, "OPEN", true,
		opened, "manager-1", now, now,
		"Amal Hassan", "4", "Dana", "Reyes", "dana@school.org", 3,
	)
	mock.ExpectQuery("SELECT c.id, c.student_id, c.case_type").
		WithArgs("OPEN", 50, 0).
		WillReturnRows(rows)

	items, total, err := GetCases(db, CaseFilters{Status: "OPEN", Limit: 50})
	require.NoError(t, err)

	assert.Equal(t, 137, total)
	require.Len(t, items, 1)
	assert.Equal(t, "case-1", items[0].ID)
	assert.Equal(t, "Amal Hassan", items[0].StudentName)
	assert.Equal(t, 3, items[0].InterventionCount)
	require.NotNil(t, items[0].CaseManagerName)
	assert.Equal(t, "Dana Reyes", *items[0].CaseManagerName)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetCases_ManagerNameFallsBackToEmail(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*)")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	now := time.Now()
	rows := sqlmock.NewRows([]string{
		"id", "student_id", "case_type", "tier", "status", "is_urgent",
		"opened_date", "case_manager_id", "created_at", "updated_at",
		"name", "grade", "first_name", "last_name", "email", "count",
	}).AddRow(
		"case-1", "student-1", "ACADEMIC_SUPPORT", nil, "OPEN", false,
		nil, "manager-1", now, now,
		"Amal Hassan", "4", nil, nil, "dana@school.org", 0,
	)
	mock.ExpectQuery("SELECT c.id").WithArgs(50, 0).WillReturnRows(rows)

	items, _, err := GetCases(db, CaseFilters{Limit: 50})
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.NotNil(t, items[0].CaseManagerName)
	assert.Equal(t, "dana@school.org", *items[0].CaseManagerName)
}

func TestCaseOrderBy(t *testing.T) {
	tests := []struct {
		name    string
		filters CaseFilters
		want    string
	}{
		{"default", CaseFilters{}, "ORDER BY c.is_urgent DESC, c.opened_date DESC"},
		{"student name asc", CaseFilters{SortBy: "student_name", SortDirection: "asc"}, "ORDER BY s.name ASC"},
		{"whitelisted column", CaseFilters{SortBy: "opened_date", SortDirection: "asc"}, "ORDER BY c.opened_date ASC"},
		{"unknown column falls back", CaseFilters{SortBy: "internal_notes; DROP TABLE cases"}, "ORDER BY c.is_urgent DESC, c.opened_date DESC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, caseOrderBy(tt.filters))
		})
	}
}

func TestUpdateCase_NoRecognizedColumns(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	_, err = UpdateCase(db, "case-1", map[string]interface{}{"id": "x", "created_by": "y"})
	assert.ErrorIs(t, err, ErrNoUpdatableFields)
}

func TestCloseCase_StampsClosureAndReason(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("SET status = 'CLOSED', closed_date = CURRENT_DATE, closure_reason = $1")).
		WithArgs("Goals met", "case-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	closed := time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC)
	now := time.Now()
	rows := sqlmock.NewRows([]string{
		"id", "student_id", "case_type", "tier", "status", "intervention_types",
		"is_urgent", "opened_date", "expected_closure_date", "closed_date", "closure_reason",
		"case_manager_id", "secondary_supporters", "reason_for_referral", "referral_source",
		"internal_notes", "created_by", "created_at", "updated_at",
		"s_id", "s_name", "s_grade", "s_student_id",
		"m_id", "m_email", "m_first", "m_last", "m_position",
	}).AddRow(
		"case-1", "student-1", "SEL", 2, "CLOSED", nil,
		false, nil, nil, closed, "Goals met",
		nil, nil, nil, nil,
		nil, nil, now, now,
		"student-1", "Amal Hassan", "4", nil,
		nil, nil, nil, nil, nil,
	)
	mock.ExpectQuery("SELECT c.id, c.student_id").WithArgs("case-1").WillReturnRows(rows)

	cs, err := CloseCase(db, "case-1", "Goals met")
	require.NoError(t, err)

	assert.Equal(t, "CLOSED", string(cs.Status))
	require.NotNil(t, cs.ClosureReason)
	assert.Equal(t, "Goals met", *cs.ClosureReason)
	require.NotNil(t, cs.Student)
	assert.Equal(t, "Amal Hassan", cs.Student.Name)
	assert.Nil(t, cs.CaseManager)

	assert.NoError(t, mock.ExpectationsWereMet())
}
