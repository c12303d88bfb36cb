package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Enrollment API",
        "description": "School enrollment management backend",
        "version": "1.0.0"
    },
    "basePath": "/api",
    "schemes": [
        "http"
    ],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "tags": [
        {"name": "Auth", "description": "Student and admin authentication"},
        {"name": "Freshmen", "description": "Public admission applications"},
        {"name": "Enrollments", "description": "Enrollment submission and review"},
        {"name": "Sections", "description": "Section management"},
        {"name": "Subjects", "description": "Subject catalogue"},
        {"name": "Schedules", "description": "Schedules, templates and assignment"},
        {"name": "Students", "description": "Student records"},
        {"name": "Courses", "description": "Course catalogue"},
        {"name": "Rooms", "description": "Room management"},
        {"name": "Notifications", "description": "Student notification inbox"},
        {"name": "Accountabilities", "description": "Clearance accountabilities"},
        {"name": "Grades", "description": "Grade recording and viewing"}
    ],
    "paths": {
        "/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Student login with student ID and last name",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/StudentLoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials"}
                }
            }
        },
        "/admin/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Admin login with username and password",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AdminLoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials"}
                }
            }
        },
        "/refresh": {
            "post": {
                "tags": ["Auth"],
                "summary": "Exchange a valid token for a fresh one",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Unauthorized"}
                }
            }
        },
        "/freshman-enrollments": {
            "post": {
                "tags": ["Freshmen"],
                "summary": "Submit a freshman admission application",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/FreshmanApplicationRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation error"}
                }
            }
        },
        "/student/sections": {
            "get": {
                "tags": ["Sections"],
                "summary": "Open sections for the authenticated student",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/student/enroll": {
            "post": {
                "tags": ["Enrollments"],
                "summary": "Submit a regular enrollment",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SubmitEnrollmentRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Already enrolled or section closed"}
                }
            }
        },
        "/student/enroll/irregular": {
            "post": {
                "tags": ["Enrollments"],
                "summary": "Submit an irregular enrollment with per-subject choices",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SubmitIrregularRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/student/enrollment": {
            "get": {
                "tags": ["Enrollments"],
                "summary": "Current enrollment of the authenticated student",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/student/enrollment/form.pdf": {
            "get": {
                "tags": ["Enrollments"],
                "summary": "Registration form PDF of the approved enrollment",
                "security": [{"BearerAuth": []}],
                "produces": ["application/pdf"],
                "responses": {
                    "200": {"description": "PDF document"},
                    "404": {"description": "No approved enrollment"}
                }
            }
        },
        "/student/notifications": {
            "get": {
                "tags": ["Notifications"],
                "summary": "Notifications of the authenticated student",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/student/accountabilities": {
            "get": {
                "tags": ["Accountabilities"],
                "summary": "Accountabilities of the authenticated student",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/student/grades": {
            "get": {
                "tags": ["Grades"],
                "summary": "Grades of the authenticated student",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "school_year", "in": "query", "type": "string"},
                    {"name": "semester", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/admin/enrollments": {
            "get": {
                "tags": ["Enrollments"],
                "summary": "Pending enrollments for review",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/admin/enrollments/export.csv": {
            "get": {
                "tags": ["Enrollments"],
                "summary": "Export enrollments as CSV",
                "security": [{"BearerAuth": []}],
                "produces": ["text/csv"],
                "parameters": [
                    {"name": "status", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "CSV document"}
                }
            }
        },
        "/admin/enrollments/{id}/approve": {
            "post": {
                "tags": ["Enrollments"],
                "summary": "Approve an enrollment and stamp its reference number",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found"}
                }
            }
        },
        "/admin/enrollments/{id}/reject": {
            "post": {
                "tags": ["Enrollments"],
                "summary": "Reject an enrollment",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/admin/sections": {
            "get": {
                "tags": ["Sections"],
                "summary": "List sections",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "course_id", "in": "query", "type": "integer"},
                    {"name": "year_level", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Sections"],
                "summary": "Create section",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SectionRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/admin/sections/{id}/status": {
            "post": {
                "tags": ["Sections"],
                "summary": "Open or close a section",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SectionStatusRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Lifecycle guard rejected the change"}
                }
            }
        },
        "/admin/sections/{id}/subjects": {
            "post": {
                "tags": ["Schedules"],
                "summary": "Assign subjects to a section",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AssignSubjectsRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Section locked or schedule conflict"}
                }
            }
        },
        "/admin/subjects": {
            "get": {
                "tags": ["Subjects"],
                "summary": "List subjects",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "course_id", "in": "query", "type": "integer"},
                    {"name": "year_level", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Subjects"],
                "summary": "Create subject",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateSubjectRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/admin/students": {
            "get": {
                "tags": ["Students"],
                "summary": "List students",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Students"],
                "summary": "Create student",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/StudentRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/admin/freshman-enrollments/{id}/accept": {
            "put": {
                "tags": ["Freshmen"],
                "summary": "Accept an application and mint the student code",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Already processed"}
                }
            }
        }
    },
    "definitions": {
        "StudentLoginRequest": {
            "type": "object",
            "properties": {
                "student_id": {"type": "string"},
                "last_name": {"type": "string"}
            },
            "required": ["student_id", "last_name"]
        },
        "AdminLoginRequest": {
            "type": "object",
            "properties": {
                "username": {"type": "string"},
                "password": {"type": "string"}
            },
            "required": ["username", "password"]
        },
        "SubmitEnrollmentRequest": {
            "type": "object",
            "properties": {
                "section_id": {"type": "integer"},
                "school_year": {"type": "string"},
                "semester": {"type": "string"}
            },
            "required": ["section_id", "school_year", "semester"]
        },
        "SubmitIrregularRequest": {
            "type": "object",
            "properties": {
                "school_year": {"type": "string"},
                "semester": {"type": "string"},
                "enrollment_id": {"type": "integer"},
                "subject_schedules": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/IrregularSubjectInput"}
                }
            },
            "required": ["school_year", "semester", "subject_schedules"]
        },
        "IrregularSubjectInput": {
            "type": "object",
            "properties": {
                "subject_id": {"type": "integer"},
                "section_id": {"type": "integer"},
                "schedule_id": {"type": "integer"}
            },
            "required": ["subject_id", "section_id", "schedule_id"]
        },
        "SectionRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "course_id": {"type": "integer"},
                "year_level": {"type": "string"},
                "schedule_type": {"type": "string"}
            },
            "required": ["name", "course_id", "year_level"]
        },
        "SectionStatusRequest": {
            "type": "object",
            "properties": {
                "status": {"type": "string", "enum": ["open", "closed"]}
            },
            "required": ["status"]
        },
        "AssignSubjectsRequest": {
            "type": "object",
            "properties": {
                "subject_ids": {"type": "array", "items": {"type": "integer"}},
                "mode": {"type": "string", "enum": ["add", "replace"]},
                "instructors": {"type": "object", "additionalProperties": {"type": "string"}},
                "validate_only": {"type": "boolean"}
            },
            "required": ["subject_ids"]
        },
        "CreateSubjectRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "category": {"type": "string", "enum": ["major", "minor"]},
                "course_id": {"type": "integer"},
                "year_level": {"type": "string"},
                "code": {"type": "string"},
                "units": {"type": "integer"},
                "type": {"type": "string", "enum": ["Lec", "Lab"]}
            },
            "required": ["name", "category", "course_id", "year_level"]
        },
        "StudentRequest": {
            "type": "object",
            "properties": {
                "student_id": {"type": "string"},
                "first_name": {"type": "string"},
                "middle_name": {"type": "string"},
                "last_name": {"type": "string"},
                "suffix": {"type": "string"},
                "gender": {"type": "string"},
                "course_id": {"type": "integer"},
                "year_level": {"type": "string"},
                "email": {"type": "string"},
                "contact_number": {"type": "string"},
                "address": {"type": "string"}
            },
            "required": ["first_name", "last_name", "course_id", "year_level"]
        },
        "FreshmanApplicationRequest": {
            "type": "object",
            "properties": {
                "course_id": {"type": "integer"},
                "first_name": {"type": "string"},
                "middle_name": {"type": "string"},
                "last_name": {"type": "string"},
                "birthdate": {"type": "string"},
                "sex": {"type": "string"},
                "email": {"type": "string"},
                "mobile": {"type": "string"},
                "year_level": {"type": "string"},
                "consent": {"type": "boolean"}
            },
            "required": ["first_name", "last_name", "birthdate", "sex", "email", "mobile", "year_level"]
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
                "pagination": {"$ref": "#/definitions/Pagination"},
                "meta": {"type": "object"}
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
