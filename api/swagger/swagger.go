package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Attendance API",
        "description": "School attendance tracking backend",
        "version": "0.1.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Auth", "description": "Authentication"},
        {"name": "Academic", "description": "Academic years, seasons, holidays, promotion"},
        {"name": "Students", "description": "Student roster"},
        {"name": "Enrollments", "description": "Class placements"},
        {"name": "Classes", "description": "Class and teacher assignment management"},
        {"name": "Reports", "description": "Attendance reporting"}
    ],
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Authenticate and receive a bearer token",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials"}
                }
            }
        },
        "/academic/years": {
            "get": {
                "tags": ["Academic"],
                "summary": "List academic years",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Academic"],
                "summary": "Create academic year",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateAcademicYearRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Year already exists"}
                }
            }
        },
        "/academic/years/active": {
            "get": {
                "tags": ["Academic"],
                "summary": "Get the currently active academic year",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "No active academic year"}
                }
            }
        },
        "/academic/years/{id}": {
            "get": {
                "tags": ["Academic"],
                "summary": "Get academic year",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found"}
                }
            },
            "put": {
                "tags": ["Academic"],
                "summary": "Update academic year",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateAcademicYearRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Academic"],
                "summary": "Delete academic year",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}],
                "responses": {
                    "204": {"description": "Deleted"}
                }
            }
        },
        "/academic/years/{id}/promote": {
            "post": {
                "tags": ["Academic"],
                "summary": "Promote students into the academic year",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/PromotionResponse"}},
                    "404": {"description": "Academic year not found"}
                }
            }
        },
        "/academic/years/by-year/{year}/promote": {
            "post": {
                "tags": ["Academic"],
                "summary": "Promote students by calendar year",
                "parameters": [{"name": "year", "in": "path", "required": true, "type": "integer"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/PromotionResponse"}},
                    "404": {"description": "Academic year not found"}
                }
            }
        },
        "/academic/seasons": {
            "get": {
                "tags": ["Academic"],
                "summary": "List seasons of an academic year",
                "parameters": [{"name": "academic_year_id", "in": "query", "required": true, "type": "integer"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Academic"],
                "summary": "Create season",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateSeasonRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/academic/seasons/{id}": {
            "get": {
                "tags": ["Academic"],
                "summary": "Get season",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}],
                "responses": {"200": {"description": "OK"}}
            },
            "put": {
                "tags": ["Academic"],
                "summary": "Update season",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateSeasonRequest"}}
                ],
                "responses": {"200": {"description": "OK"}}
            },
            "delete": {
                "tags": ["Academic"],
                "summary": "Delete season and its holidays",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}],
                "responses": {"204": {"description": "Deleted"}}
            }
        },
        "/academic/holidays": {
            "get": {
                "tags": ["Academic"],
                "summary": "List holidays of a season",
                "parameters": [{"name": "season_id", "in": "query", "required": true, "type": "integer"}],
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["Academic"],
                "summary": "Create holiday",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateHolidayRequest"}}
                ],
                "responses": {"201": {"description": "Created"}}
            }
        },
        "/academic/holidays/{id}": {
            "get": {
                "tags": ["Academic"],
                "summary": "Get holiday",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}],
                "responses": {"200": {"description": "OK"}}
            },
            "delete": {
                "tags": ["Academic"],
                "summary": "Delete holiday",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}],
                "responses": {"204": {"description": "Deleted"}}
            }
        },
        "/students": {
            "get": {
                "tags": ["Students"],
                "summary": "List students",
                "parameters": [
                    {"name": "status", "in": "query", "type": "string"},
                    {"name": "include_enrollments", "in": "query", "type": "boolean"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "page_size", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Students"],
                "summary": "Register a student",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateStudentRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created"},
                    "409": {"description": "Student code already in use"}
                }
            }
        },
        "/students/{id}": {
            "get": {
                "tags": ["Students"],
                "summary": "Get student",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}
            },
            "put": {
                "tags": ["Students"],
                "summary": "Update student",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateStudentRequest"}}
                ],
                "responses": {"200": {"description": "OK"}}
            },
            "delete": {
                "tags": ["Students"],
                "summary": "Delete student and all dependent records",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}],
                "responses": {"204": {"description": "Deleted"}}
            }
        },
        "/students/{id}/enrollments": {
            "get": {
                "tags": ["Students"],
                "summary": "List a student's enrollments",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}],
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["Students"],
                "summary": "Enroll a student into a class",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateEnrollmentRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created"},
                    "409": {"description": "Already enrolled for the year"}
                }
            }
        },
        "/enrollments/{id}": {
            "put": {
                "tags": ["Enrollments"],
                "summary": "Move an enrollment to another class",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateEnrollmentRequest"}}
                ],
                "responses": {"200": {"description": "OK"}}
            },
            "delete": {
                "tags": ["Enrollments"],
                "summary": "Delete enrollment",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}],
                "responses": {"204": {"description": "Deleted"}}
            }
        },
        "/classes": {
            "get": {
                "tags": ["Classes"],
                "summary": "List classes visible to the caller",
                "parameters": [{"name": "school_year", "in": "query", "type": "integer"}],
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["Classes"],
                "summary": "Create class",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateClassRequest"}}
                ],
                "responses": {"201": {"description": "Created"}, "403": {"description": "Forbidden"}}
            }
        },
        "/classes/{id}": {
            "put": {
                "tags": ["Classes"],
                "summary": "Update class",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateClassRequest"}}
                ],
                "responses": {"200": {"description": "OK"}}
            },
            "delete": {
                "tags": ["Classes"],
                "summary": "Delete an empty class",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}],
                "responses": {
                    "204": {"description": "Deleted"},
                    "409": {"description": "Class still has enrollments"}
                }
            }
        },
        "/classes/{id}/teachers": {
            "get": {
                "tags": ["Classes"],
                "summary": "List teacher assignments",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}],
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["Classes"],
                "summary": "Assign a teacher",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AssignTeacherRequest"}}
                ],
                "responses": {"201": {"description": "Created"}, "422": {"description": "Not an active teacher"}}
            }
        },
        "/reports/attendance": {
            "get": {
                "tags": ["Reports"],
                "summary": "Attendance report for a date range",
                "parameters": [
                    {"name": "start_date", "in": "query", "required": true, "type": "string"},
                    {"name": "end_date", "in": "query", "required": true, "type": "string"},
                    {"name": "grade_id", "in": "query", "type": "integer"},
                    {"name": "status", "in": "query", "type": "string"}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/reports/attendance/export": {
            "get": {
                "tags": ["Reports"],
                "summary": "Export the attendance report as CSV or PDF",
                "parameters": [
                    {"name": "start_date", "in": "query", "required": true, "type": "string"},
                    {"name": "end_date", "in": "query", "required": true, "type": "string"},
                    {"name": "grade_id", "in": "query", "type": "integer"},
                    {"name": "status", "in": "query", "type": "string"},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {"200": {"description": "File"}}
            }
        },
        "/reports/leave-requests/pending": {
            "get": {
                "tags": ["Reports"],
                "summary": "Leave requests still pending after N days",
                "parameters": [
                    {"name": "older_than_days", "in": "query", "type": "integer"},
                    {"name": "grade_id", "in": "query", "type": "integer"}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/reports/absences/unresolved": {
            "get": {
                "tags": ["Reports"],
                "summary": "Absences with no approved leave covering them",
                "parameters": [{"name": "grade_id", "in": "query", "type": "integer"}],
                "responses": {"200": {"description": "OK"}}
            }
        }
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "CreateAcademicYearRequest": {
            "type": "object",
            "required": ["year", "name", "start_date", "end_date"],
            "properties": {
                "year": {"type": "integer"},
                "name": {"type": "string"},
                "start_date": {"type": "string"},
                "end_date": {"type": "string"},
                "is_active": {"type": "boolean"},
                "auto_promote_students": {"type": "boolean"}
            }
        },
        "UpdateAcademicYearRequest": {
            "type": "object",
            "required": ["name", "start_date", "end_date"],
            "properties": {
                "name": {"type": "string"},
                "start_date": {"type": "string"},
                "end_date": {"type": "string"},
                "is_active": {"type": "boolean"}
            }
        },
        "CreateSeasonRequest": {
            "type": "object",
            "required": ["name", "type", "start_date", "end_date", "academic_year_id"],
            "properties": {
                "name": {"type": "string"},
                "type": {"type": "string", "enum": ["semester", "break"]},
                "start_date": {"type": "string"},
                "end_date": {"type": "string"},
                "academic_year_id": {"type": "integer"},
                "is_active": {"type": "boolean"}
            }
        },
        "UpdateSeasonRequest": {
            "type": "object",
            "required": ["name", "type", "start_date", "end_date"],
            "properties": {
                "name": {"type": "string"},
                "type": {"type": "string", "enum": ["semester", "break"]},
                "start_date": {"type": "string"},
                "end_date": {"type": "string"},
                "is_active": {"type": "boolean"}
            }
        },
        "CreateHolidayRequest": {
            "type": "object",
            "required": ["date", "description", "season_id"],
            "properties": {
                "date": {"type": "string"},
                "description": {"type": "string"},
                "season_id": {"type": "integer"}
            }
        },
        "CreateStudentRequest": {
            "type": "object",
            "required": ["student_code", "name", "birthday", "gender", "enrollment_date"],
            "properties": {
                "student_code": {"type": "string"},
                "name": {"type": "string"},
                "birthday": {"type": "string"},
                "gender": {"type": "string", "enum": ["male", "female"]},
                "enrollment_date": {"type": "string"}
            }
        },
        "UpdateStudentRequest": {
            "type": "object",
            "required": ["student_code", "name", "birthday", "gender", "status", "enrollment_date"],
            "properties": {
                "student_code": {"type": "string"},
                "name": {"type": "string"},
                "birthday": {"type": "string"},
                "gender": {"type": "string"},
                "status": {"type": "string", "enum": ["active", "transferred_out", "graduated", "suspended"]},
                "enrollment_date": {"type": "string"},
                "departure_date": {"type": "string"},
                "departure_reason": {"type": "string"}
            }
        },
        "CreateEnrollmentRequest": {
            "type": "object",
            "required": ["class_id", "school_year"],
            "properties": {
                "student_id": {"type": "integer"},
                "class_id": {"type": "integer"},
                "school_year": {"type": "integer"}
            }
        },
        "UpdateEnrollmentRequest": {
            "type": "object",
            "required": ["class_id"],
            "properties": {
                "class_id": {"type": "integer"}
            }
        },
        "CreateClassRequest": {
            "type": "object",
            "required": ["name", "grade_id", "school_year"],
            "properties": {
                "name": {"type": "string"},
                "grade_id": {"type": "integer"},
                "school_year": {"type": "integer"}
            }
        },
        "UpdateClassRequest": {
            "type": "object",
            "required": ["name", "grade_id"],
            "properties": {
                "name": {"type": "string"},
                "grade_id": {"type": "integer"}
            }
        },
        "AssignTeacherRequest": {
            "type": "object",
            "required": ["teacher_id", "school_year"],
            "properties": {
                "teacher_id": {"type": "integer"},
                "school_year": {"type": "string"},
                "start_date": {"type": "string"},
                "end_date": {"type": "string"},
                "notes": {"type": "string"}
            }
        },
        "PromotionResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "promoted": {"type": "integer"},
                "graduated": {"type": "integer"},
                "message": {"type": "string"}
            }
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "pagination": {"$ref": "#/definitions/Pagination"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
