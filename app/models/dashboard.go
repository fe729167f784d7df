package models

// DashboardStats holds the four headline counts on the dashboard.
type DashboardStats struct {
	ActiveCases         int `json:"activeCases"`
	UrgentCases         int `json:"urgentCases"`
	ActiveInterventions int `json:"activeInterventions"`
	UpcomingMeetings    int `json:"upcomingMeetings"`
}

// CaseLoad is one staff member's case-load breakdown as returned by the
// get_staff_case_load database function.
type CaseLoad struct {
	TotalCases  int `json:"total_cases"`
	OpenCases   int `json:"open_cases"`
	OnHoldCases int `json:"on_hold_cases"`
	Tier1Cases  int `json:"tier_1_cases"`
	Tier2Cases  int `json:"tier_2_cases"`
	Tier3Cases  int `json:"tier_3_cases"`
	UrgentCases int `json:"urgent_cases"`
}

// TierDistribution is one grade's active-case counts by tier, as returned
// by the get_tier_distribution_by_grade database function.
type TierDistribution struct {
	Grade string `json:"grade"`
	Tier1 int    `json:"tier_1"`
	Tier2 int    `json:"tier_2"`
	Tier3 int    `json:"tier_3"`
}
