package models

import (
	"encoding/json"
	"time"
)

// ParentMeeting is a scheduled (or held) meeting with a student's parents,
// optionally tied to a case.
type ParentMeeting struct {
	ID                    string          `json:"id"`
	StudentID             string          `json:"student_id"`
	CaseID                *string         `json:"case_id"`
	MeetingDate           *time.Time      `json:"meeting_date"`
	MeetingTime           *string         `json:"meeting_time"`
	ParentIDs             []string        `json:"parent_ids"`
	SSSStaffID            *string         `json:"sss_staff_id"`
	TeacherIDs            []string        `json:"teacher_ids"`
	AdminID               *string         `json:"admin_id"`
	IsScheduled           *bool           `json:"is_scheduled"`
	MeetingStatus         MeetingStatus   `json:"meeting_status"`
	CancellationReason    *string         `json:"cancellation_reason"`
	RescheduledDate       *time.Time      `json:"rescheduled_date"`
	GoogleCalendarEventID *string         `json:"google_calendar_event_id"`
	Agenda                *string         `json:"agenda"`
	AgendaLink            *string         `json:"agenda_link"`
	MeetingNotes          *string         `json:"meeting_notes"`
	NextSteps             *string         `json:"next_steps"`
	ActionPlan            json.RawMessage `json:"action_plan"`
	NextMeetingDate       *time.Time      `json:"next_meeting_date"`
	ReminderSent          *bool           `json:"reminder_sent"`
	ReminderSentDate      *time.Time      `json:"reminder_sent_date"`
	Frequency             *string         `json:"frequency"`
	CreatedAt             time.Time       `json:"created_at"`
	UpdatedAt             time.Time       `json:"updated_at"`

	Student  *StudentRef `json:"student,omitempty"`
	SSSStaff *UserRef    `json:"sss_staff,omitempty"`
}

// MeetingListItem is the flattened row for the meetings list.
type MeetingListItem struct {
	ID            string        `json:"id"`
	StudentID     string        `json:"student_id"`
	CaseID        *string       `json:"case_id"`
	MeetingDate   *time.Time    `json:"meeting_date"`
	MeetingTime   *string       `json:"meeting_time"`
	MeetingStatus MeetingStatus `json:"meeting_status"`
	SSSStaffID    *string       `json:"sss_staff_id"`
	StaffName     *string       `json:"staff_name"`
	StudentName   string        `json:"student_name"`
	StudentGrade  string        `json:"student_grade"`
	IsScheduled   *bool         `json:"is_scheduled"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}
