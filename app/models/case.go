package models

import "time"

// Case is a tracked student-support episode. A case has exactly one
// student and at most one case manager at a time.
type Case struct {
	ID                  string          `json:"id"`
	StudentID           string          `json:"student_id"`
	CaseType            CaseType        `json:"case_type"`
	Tier                *int            `json:"tier"`
	Status              CaseStatus      `json:"status"`
	InterventionTypes   []string        `json:"intervention_types"`
	IsUrgent            bool            `json:"is_urgent"`
	OpenedDate          *time.Time      `json:"opened_date"`
	ExpectedClosureDate *time.Time      `json:"expected_closure_date"`
	ClosedDate          *time.Time      `json:"closed_date"`
	ClosureReason       *string         `json:"closure_reason"`
	CaseManagerID       *string         `json:"case_manager_id"`
	SecondarySupporters []string        `json:"secondary_supporters"`
	ReasonForReferral   *string         `json:"reason_for_referral"`
	ReferralSource      *ReferralSource `json:"referral_source"`
	InternalNotes       *string         `json:"internal_notes"`
	CreatedBy           *string         `json:"created_by"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`

	Student     *StudentRef `json:"student,omitempty"`
	CaseManager *UserRef    `json:"case_manager,omitempty"`
}

// CaseListItem is the flattened row returned by the cases list endpoint.
type CaseListItem struct {
	ID                string     `json:"id"`
	StudentID         string     `json:"student_id"`
	StudentName       string     `json:"student_name"`
	StudentGrade      string     `json:"student_grade"`
	CaseType          CaseType   `json:"case_type"`
	Tier              *int       `json:"tier"`
	Status            CaseStatus `json:"status"`
	IsUrgent          bool       `json:"is_urgent"`
	OpenedDate        *time.Time `json:"opened_date"`
	CaseManagerID     *string    `json:"case_manager_id"`
	CaseManagerName   *string    `json:"case_manager_name"`
	InterventionCount int        `json:"intervention_count"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// CaseWithRelations is the detail view of a case plus related-record counts.
type CaseWithRelations struct {
	Case
	InterventionCount  int `json:"intervention_count"`
	SessionCount       int `json:"session_count"`
	ParentMeetingCount int `json:"parent_meeting_count"`
}

// DashboardCase is a case row on the dashboard widgets with the
// computed days-open figure.
type DashboardCase struct {
	ID         string     `json:"id"`
	CaseType   CaseType   `json:"case_type"`
	Tier       *int       `json:"tier"`
	Status     CaseStatus `json:"status"`
	IsUrgent   bool       `json:"is_urgent"`
	OpenedDate *time.Time `json:"opened_date"`
	Student    StudentRef `json:"student"`
	DaysOpen   int        `json:"daysOpen"`
}
