package models

// UserRole defines the possible roles for a user profile.
type UserRole string

const (
	RoleSSSStaff       UserRole = "SSS_STAFF"
	RoleTeacher        UserRole = "TEACHER"
	RoleParent         UserRole = "PARENT"
	RolePrincipalAdmin UserRole = "PRINCIPAL_ADMIN"
)

// CaseType defines the possible categories for a support case.
type CaseType string

const (
	CaseAcademicSupport    CaseType = "ACADEMIC_SUPPORT"
	CaseSEL                CaseType = "SEL"
	CaseDistinctions       CaseType = "DISTINCTIONS"
	CaseConflictResolution CaseType = "CONFLICT_RESOLUTION"
	CaseBullying           CaseType = "BULLYING"
	CaseChildProtection    CaseType = "CHILD_PROTECTION"
	CaseUrgent             CaseType = "URGENT"
)

// CaseStatus defines the lifecycle status of a case.
type CaseStatus string

const (
	CaseOpen        CaseStatus = "OPEN"
	CaseOnHold      CaseStatus = "ON_HOLD"
	CaseClosed      CaseStatus = "CLOSED"
	CaseReferredOut CaseStatus = "REFERRED_OUT"
)

// ReferralSource defines where a case referral came from.
type ReferralSource string

const (
	ReferralKidTalk      ReferralSource = "KID_TALK"
	ReferralBehaviorForm ReferralSource = "BEHAVIOR_FORM"
	ReferralSelf         ReferralSource = "SELF"
	ReferralParent       ReferralSource = "PARENT"
	ReferralAdmin        ReferralSource = "ADMIN"
)

// InterventionType defines the program category of an intervention.
type InterventionType string

const (
	InterventionAcademic     InterventionType = "ACADEMIC"
	InterventionSEL          InterventionType = "SEL"
	InterventionDistinctions InterventionType = "DISTINCTIONS"
)

// MeetingStatus defines the scheduling status of a parent meeting.
type MeetingStatus string

const (
	MeetingScheduled   MeetingStatus = "SCHEDULED"
	MeetingCompleted   MeetingStatus = "COMPLETED"
	MeetingCancelled   MeetingStatus = "CANCELLED"
	MeetingRescheduled MeetingStatus = "RESCHEDULED"
)
