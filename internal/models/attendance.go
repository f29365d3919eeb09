package models

import "time"

// AttendanceStatus enumerates per-day attendance outcomes.
type AttendanceStatus string

const (
	AttendanceStatusPresent AttendanceStatus = "present"
	AttendanceStatusAbsent  AttendanceStatus = "absent"
	AttendanceStatusLate    AttendanceStatus = "late"
	AttendanceStatusLeave   AttendanceStatus = "leave"
)

// AttendanceRecord is one student-day attendance entry. Written by the
// attendance front end, read by reporting; the promotion workflow never
// touches it.
type AttendanceRecord struct {
	ID          int64            `db:"id" json:"id"`
	StudentID   int64            `db:"student_id" json:"student_id"`
	Date        time.Time        `db:"date" json:"date"`
	Status      AttendanceStatus `db:"status" json:"status"`
	LeaveTypeID *int64           `db:"leave_type_id" json:"leave_type_id,omitempty"`
	Note        *string          `db:"note" json:"note,omitempty"`
	CreatedAt   time.Time        `db:"created_at" json:"created_at"`
}

// LeaveRequestStatus enumerates the leave approval workflow states.
type LeaveRequestStatus string

const (
	LeaveRequestStatusPending  LeaveRequestStatus = "pending"
	LeaveRequestStatusApproved LeaveRequestStatus = "approved"
	LeaveRequestStatusRejected LeaveRequestStatus = "rejected"
)

// LeaveRequest is a student's request for excused absence.
type LeaveRequest struct {
	ID          int64              `db:"id" json:"id"`
	StudentID   int64              `db:"student_id" json:"student_id"`
	StartDate   time.Time          `db:"start_date" json:"start_date"`
	EndDate     time.Time          `db:"end_date" json:"end_date"`
	LeaveTypeID *int64             `db:"leave_type_id" json:"leave_type_id,omitempty"`
	Status      LeaveRequestStatus `db:"status" json:"status"`
	Reason      string             `db:"reason" json:"reason"`
	CreatedAt   time.Time          `db:"created_at" json:"created_at"`
}
