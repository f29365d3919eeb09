package dto

type CreateStudentRequest struct {
	StudentCode    string `json:"student_code" validate:"required,max=20"`
	Name           string `json:"name" validate:"required,max=100"`
	Birthday       string `json:"birthday" validate:"required,datetime=2006-01-02"`
	Gender         string `json:"gender" validate:"required,oneof=male female"`
	EnrollmentDate string `json:"enrollment_date" validate:"required,datetime=2006-01-02"`
}

type UpdateStudentRequest struct {
	StudentCode     string  `json:"student_code" validate:"required,max=20"`
	Name            string  `json:"name" validate:"required,max=100"`
	Birthday        string  `json:"birthday" validate:"required,datetime=2006-01-02"`
	Gender          string  `json:"gender" validate:"required,oneof=male female"`
	Status          string  `json:"status" validate:"required,oneof=active transferred_out graduated suspended"`
	EnrollmentDate  string  `json:"enrollment_date" validate:"required,datetime=2006-01-02"`
	DepartureDate   *string `json:"departure_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	DepartureReason *string `json:"departure_reason,omitempty" validate:"omitempty,max=200"`
}
