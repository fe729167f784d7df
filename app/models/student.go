package models

import "time"

// Student represents an enrolled student. Archival is a soft delete:
// a non-null ArchivedAt hides the student from active lists.
type Student struct {
	ID               string     `json:"id"`
	Name             string     `json:"name"`
	Grade            string     `json:"grade"`
	DateOfBirth      *time.Time `json:"date_of_birth"`
	StudentID        *string    `json:"student_id"`
	Nationality      *string    `json:"nationality"`
	MotherTongue     *string    `json:"mother_tongue"`
	StartDateAtAtlas *time.Time `json:"start_date_at_atlas"`
	PreviousSchool   *string    `json:"previous_school"`
	PrimaryTeacherID *string    `json:"primary_teacher_id"`
	SchoolID         *string    `json:"school_id"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
	ArchivedAt       *time.Time `json:"archived_at"`

	PrimaryTeacher *UserRef `json:"primary_teacher,omitempty"`
}

// StudentListItem is the flattened row returned by the students list endpoint.
type StudentListItem struct {
	ID                 string     `json:"id"`
	Name               string     `json:"name"`
	Grade              string     `json:"grade"`
	StudentID          *string    `json:"student_id"`
	PrimaryTeacherID   *string    `json:"primary_teacher_id"`
	PrimaryTeacherName *string    `json:"primary_teacher_name"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
	ArchivedAt         *time.Time `json:"archived_at"`
}

// UserRef is the fixed join projection used when a related user is
// expanded inside another resource.
type UserRef struct {
	ID          string  `json:"id"`
	Email       string  `json:"email"`
	FirstName   *string `json:"first_name"`
	LastName    *string `json:"last_name"`
	SSSPosition *string `json:"sss_position,omitempty"`
}

// StudentRef is the projection of a student embedded in cases and meetings.
type StudentRef struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Grade     string  `json:"grade"`
	StudentID *string `json:"student_id,omitempty"`
}
