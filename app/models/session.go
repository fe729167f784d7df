package models

import "time"

// Session is one concrete occurrence of an intervention.
type Session struct {
	ID               string     `json:"id"`
	InterventionID   string     `json:"intervention_id"`
	SessionDate      time.Time  `json:"session_date"`
	SessionTime      *string    `json:"session_time"`
	Duration         *int       `json:"duration"`
	FacilitatorID    *string    `json:"facilitator_id"`
	StudentAttended  *bool      `json:"student_attended"`
	StudentNotes     *string    `json:"student_notes"`
	ObservationNotes *string    `json:"observation_notes"`
	StudentProgress  *string    `json:"student_progress"`
	Challenges       *string    `json:"challenges"`
	TeacherFeedback  *string    `json:"teacher_feedback"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`

	Facilitator *UserRef `json:"facilitator,omitempty"`
}

// SessionListItem is the flattened row for the sessions list.
type SessionListItem struct {
	ID              string    `json:"id"`
	InterventionID  string    `json:"intervention_id"`
	SessionDate     time.Time `json:"session_date"`
	SessionTime     *string   `json:"session_time"`
	Duration        *int      `json:"duration"`
	FacilitatorID   *string   `json:"facilitator_id"`
	FacilitatorName *string   `json:"facilitator_name"`
	StudentAttended *bool     `json:"student_attended"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
