package services

import (
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var reminderRows = []string{
	"id", "student_id", "case_id", "meeting_date", "meeting_time",
	"meeting_status", "sss_staff_id", "is_scheduled", "created_at", "updated_at",
	"first_name", "last_name", "email",
	"name", "grade",
}

func TestSendMeetingReminders_MarksEachMeeting(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now()
	tomorrow := now.AddDate(0, 0, 1)

	mock.ExpectQuery("SELECT pm.id").
		WillReturnRows(sqlmock.NewRows(reminderRows).
			AddRow("meeting-1", "student-1", nil, tomorrow, "09:00:00",
				"SCHEDULED", "staff-1", true, now, now,
				"Dana", "Reyes", "dana@school.org",
				"Lina K", "G4").
			AddRow("meeting-2", "student-2", "case-9", tomorrow, nil,
				"RESCHEDULED", nil, nil, now, now,
				nil, nil, nil,
				"Omar B", "G7"))

	mock.ExpectExec("UPDATE parent_meetings").
		WithArgs("meeting-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE parent_meetings").
		WithArgs("meeting-2").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, SendMeetingReminders(db, nil))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSendMeetingReminders_NoMeetingsDue(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT pm.id").
		WillReturnRows(sqlmock.NewRows(reminderRows))

	require.NoError(t, SendMeetingReminders(db, nil))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSendMeetingReminders_ContinuesPastMarkFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now()
	tomorrow := now.AddDate(0, 0, 1)

	mock.ExpectQuery("SELECT pm.id").
		WillReturnRows(sqlmock.NewRows(reminderRows).
			AddRow("meeting-1", "student-1", nil, tomorrow, nil,
				"SCHEDULED", nil, nil, now, now,
				nil, nil, nil, "Lina K", "G4").
			AddRow("meeting-2", "student-2", nil, tomorrow, nil,
				"SCHEDULED", nil, nil, now, now,
				nil, nil, nil, "Omar B", "G7"))

	mock.ExpectExec("UPDATE parent_meetings").
		WithArgs("meeting-1").
		WillReturnError(errors.New("deadlock detected"))
	mock.ExpectExec("UPDATE parent_meetings").
		WithArgs("meeting-2").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, SendMeetingReminders(db, nil))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSendMeetingReminders_QueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT pm.id").
		WillReturnError(errors.New("connection refused"))

	assert.Error(t, SendMeetingReminders(db, nil))
}
