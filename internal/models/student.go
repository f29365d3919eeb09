package models

import "time"

// StudentStatus enumerates enrollment lifecycle states. Transitions are
// one-directional: active students leave as graduated, transferred_out,
// or suspended and never return to active.
type StudentStatus string

const (
	StudentStatusActive         StudentStatus = "active"
	StudentStatusTransferredOut StudentStatus = "transferred_out"
	StudentStatusGraduated      StudentStatus = "graduated"
	StudentStatusSuspended      StudentStatus = "suspended"
)

// Student is one person on the roster.
type Student struct {
	ID              int64         `db:"id" json:"id"`
	StudentCode     string        `db:"student_code" json:"student_code"`
	Name            string        `db:"name" json:"name"`
	Birthday        time.Time     `db:"birthday" json:"birthday"`
	Gender          string        `db:"gender" json:"gender"`
	Status          StudentStatus `db:"status" json:"status"`
	EnrollmentDate  time.Time     `db:"enrollment_date" json:"enrollment_date"`
	DepartureDate   *time.Time    `db:"departure_date" json:"departure_date,omitempty"`
	DepartureReason *string       `db:"departure_reason" json:"departure_reason,omitempty"`
	CreatedAt       time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time     `db:"updated_at" json:"updated_at"`
}

// StudentFilter narrows list queries.
type StudentFilter struct {
	Status             StudentStatus
	IncludeEnrollments bool
	Page               int
	PageSize           int
}
