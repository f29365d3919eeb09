package dto

import (
	"time"

	"github.com/chenwl/attendance-api/internal/models"
)

// AttendanceReportFilter selects attendance rows by date range, grade,
// and status.
type AttendanceReportFilter struct {
	StartDate time.Time
	EndDate   time.Time
	GradeID   int
	Status    models.AttendanceStatus
}

// AttendanceReportRow is one attendance entry joined to roster context.
type AttendanceReportRow struct {
	RecordID    int64                   `db:"record_id" json:"record_id"`
	Date        time.Time               `db:"date" json:"date"`
	Status      models.AttendanceStatus `db:"status" json:"status"`
	StudentID   int64                   `db:"student_id" json:"student_id"`
	StudentName string                  `db:"student_name" json:"student_name"`
	ClassName   string                  `db:"class_name" json:"class_name"`
	GradeID     int                     `db:"grade_id" json:"grade_id"`
	GradeName   string                  `db:"grade_name" json:"grade_name"`
}

// PendingLeaveFilter selects unapproved leave requests older than a
// number of days, optionally per grade.
type PendingLeaveFilter struct {
	OlderThanDays int
	GradeID       int
}

// PendingLeaveRow is one pending leave request joined to roster context.
type PendingLeaveRow struct {
	RequestID   int64     `db:"request_id" json:"request_id"`
	StudentID   int64     `db:"student_id" json:"student_id"`
	StudentName string    `db:"student_name" json:"student_name"`
	ClassName   string    `db:"class_name" json:"class_name"`
	GradeID     int       `db:"grade_id" json:"grade_id"`
	StartDate   time.Time `db:"start_date" json:"start_date"`
	EndDate     time.Time `db:"end_date" json:"end_date"`
	Reason      string    `db:"reason" json:"reason"`
	AgeDays     int       `db:"age_days" json:"age_days"`
}

// UnresolvedAbsenceRow is an absent record with no approved leave
// covering its date.
type UnresolvedAbsenceRow struct {
	RecordID    int64     `db:"record_id" json:"record_id"`
	Date        time.Time `db:"date" json:"date"`
	StudentID   int64     `db:"student_id" json:"student_id"`
	StudentName string    `db:"student_name" json:"student_name"`
	ClassName   string    `db:"class_name" json:"class_name"`
	GradeID     int       `db:"grade_id" json:"grade_id"`
}
