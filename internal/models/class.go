package models

// Grade is static reference data seeded once (1..12).
type Grade struct {
	ID   int    `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

// Class is a homeroom scoped to exactly one grade and one school year.
// (grade_id, school_year) is deliberately not unique: a grade may carry
// zero, one, or many classes within a year.
type Class struct {
	ID         int64  `db:"id" json:"id"`
	Name       string `db:"name" json:"name"`
	GradeID    int    `db:"grade_id" json:"grade_id"`
	SchoolYear int    `db:"school_year" json:"school_year"`
}

// ClassDetail joins the grade name for list endpoints.
type ClassDetail struct {
	Class
	GradeName string `db:"grade_name" json:"grade_name"`
}
