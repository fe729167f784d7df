package models

import "time"

// Intervention is a bounded program of support activity under a case.
// An escalated intervention keeps a pointer to the one it replaced.
type Intervention struct {
	ID                           string           `json:"id"`
	CaseID                       string           `json:"case_id"`
	Type                         InterventionType `json:"type"`
	Tier                         *int             `json:"tier"`
	InterventionName             string           `json:"intervention_name"`
	Description                  *string          `json:"description"`
	StartDate                    time.Time        `json:"start_date"`
	EstimatedEndDate             *time.Time       `json:"estimated_end_date"`
	ActualEndDate                *time.Time       `json:"actual_end_date"`
	DurationWeeks                *int             `json:"duration_weeks"`
	Frequency                    *string          `json:"frequency"`
	DeliveryFormat               *string          `json:"delivery_format"`
	FacilitatorID                *string          `json:"facilitator_id"`
	Location                     *string          `json:"location"`
	IsActive                     bool             `json:"is_active"`
	ReasonForEnding              *string          `json:"reason_for_ending"`
	IsEscalatableTier            bool             `json:"is_escalatable_tier"`
	EscalatedFromInterventionID  *string          `json:"escalated_from_intervention_id"`
	CreatedAt                    time.Time        `json:"created_at"`
	UpdatedAt                    time.Time        `json:"updated_at"`

	Facilitator *UserRef `json:"facilitator,omitempty"`
}

// InterventionListItem is the flattened row for the interventions list.
type InterventionListItem struct {
	ID               string           `json:"id"`
	CaseID           string           `json:"case_id"`
	Type             InterventionType `json:"type"`
	Tier             *int             `json:"tier"`
	InterventionName string           `json:"intervention_name"`
	StartDate        time.Time        `json:"start_date"`
	EstimatedEndDate *time.Time       `json:"estimated_end_date"`
	FacilitatorID    *string          `json:"facilitator_id"`
	FacilitatorName  *string          `json:"facilitator_name"`
	IsActive         bool             `json:"is_active"`
	SessionCount     int              `json:"session_count"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}
