package dto

type CreateEnrollmentRequest struct {
	StudentID  int64 `json:"student_id" validate:"required"`
	ClassID    int64 `json:"class_id" validate:"required"`
	SchoolYear int   `json:"school_year" validate:"required,gte=1900,lte=9999"`
}

type UpdateEnrollmentRequest struct {
	ClassID int64 `json:"class_id" validate:"required"`
}
