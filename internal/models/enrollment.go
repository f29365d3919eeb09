package models

import "time"

// Enrollment places a student in a class for one school year. A student
// holds at most one enrollment per school year in correct operation;
// the (student_id, school_year) unique constraint backs the promotion
// workflow's insert-or-ignore semantics.
type Enrollment struct {
	ID         int64 `db:"id" json:"id"`
	StudentID  int64 `db:"student_id" json:"student_id"`
	ClassID    int64 `db:"class_id" json:"class_id"`
	SchoolYear int   `db:"school_year" json:"school_year"`
}

// EnrollmentDetail joins class and grade context for display.
type EnrollmentDetail struct {
	Enrollment
	ClassName string `db:"class_name" json:"class_name"`
	GradeID   int    `db:"grade_id" json:"grade_id"`
	GradeName string `db:"grade_name" json:"grade_name"`
}

// ActiveEnrollment is one row of the promotion working set: an active
// student's placement in the previous school year, joined to its grade.
type ActiveEnrollment struct {
	EnrollmentID int64  `db:"enrollment_id"`
	StudentID    int64  `db:"student_id"`
	StudentName  string `db:"student_name"`
	ClassID      int64  `db:"class_id"`
	GradeID      int    `db:"grade_id"`
}

// TeacherAssignment links a teacher to a class for a school year.
type TeacherAssignment struct {
	ID         int64      `db:"id" json:"id"`
	TeacherID  int64      `db:"teacher_id" json:"teacher_id"`
	ClassID    int64      `db:"class_id" json:"class_id"`
	SchoolYear string     `db:"school_year" json:"school_year"`
	StartDate  *time.Time `db:"start_date" json:"start_date,omitempty"`
	EndDate    *time.Time `db:"end_date" json:"end_date,omitempty"`
	IsActive   bool       `db:"is_active" json:"is_active"`
	Notes      *string    `db:"notes" json:"notes,omitempty"`
}

// TeacherAssignmentDetail joins the teacher name.
type TeacherAssignmentDetail struct {
	TeacherAssignment
	TeacherName string `db:"teacher_name" json:"teacher_name"`
}
