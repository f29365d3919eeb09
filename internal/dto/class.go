package dto

type CreateClassRequest struct {
	Name       string `json:"name" validate:"required,max=100"`
	GradeID    int    `json:"grade_id" validate:"required,gte=1"`
	SchoolYear int    `json:"school_year" validate:"required,gte=1900,lte=9999"`
}

type UpdateClassRequest struct {
	Name    string `json:"name" validate:"required,max=100"`
	GradeID int    `json:"grade_id" validate:"required,gte=1"`
}

type AssignTeacherRequest struct {
	TeacherID  int64   `json:"teacher_id" validate:"required"`
	SchoolYear string  `json:"school_year" validate:"required,max=20"`
	StartDate  *string `json:"start_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	EndDate    *string `json:"end_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Notes      *string `json:"notes,omitempty" validate:"omitempty,max=500"`
}
