package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Phong Dao Tao API",
        "description": "Training department administration service",
        "version": "1.0.0"
    },
    "basePath": "/api",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Courses", "description": "Course catalog"},
        {"name": "Curriculum", "description": "Per-semester curriculum layout"},
        {"name": "Classes", "description": "Class offerings and timetables"},
        {"name": "Schedules", "description": "Weekly timetable slots"},
        {"name": "Assignments", "description": "Teacher to class assignments"},
        {"name": "Registrations", "description": "Registration approval workflow"},
        {"name": "Regulations", "description": "Regulation documents"},
        {"name": "Notifications", "description": "Broadcast notifications"},
        {"name": "Reports", "description": "Grade reports and exports"},
        {"name": "Dashboard", "description": "Summary counters"},
        {"name": "Users", "description": "Read-only roster"}
    ],
    "paths": {
        "/health": {
            "get": {
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/ready": {
            "get": {
                "summary": "Readiness check",
                "responses": {
                    "200": {"description": "Ready"}
                }
            }
        },
        "/courses": {
            "get": {
                "tags": ["Courses"],
                "summary": "List courses",
                "parameters": [
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "active", "in": "query", "type": "boolean"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            },
            "post": {
                "tags": ["Courses"],
                "summary": "Create course",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"type": "object"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/Envelope"}},
                    "409": {"description": "Code already in use", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            }
        },
        "/course-registrations/decide": {
            "post": {
                "tags": ["Registrations"],
                "summary": "Approve or reject one pending course registration",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/DecideRequest"}}
                ],
                "responses": {
                    "200": {"description": "Decision applied", "schema": {"$ref": "#/definitions/Envelope"}},
                    "404": {"description": "Registration not found", "schema": {"$ref": "#/definitions/Envelope"}},
                    "409": {"description": "Registration already decided", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            }
        },
        "/course-registrations/decide/bulk": {
            "post": {
                "tags": ["Registrations"],
                "summary": "Apply one decision to many course registrations",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/BulkDecideRequest"}}
                ],
                "responses": {
                    "200": {"description": "Per-item outcomes", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            }
        },
        "/reports/grades": {
            "get": {
                "tags": ["Reports"],
                "summary": "Grade report with distribution and per-course summaries",
                "parameters": [
                    {"name": "course_id", "in": "query", "type": "string"},
                    {"name": "class_id", "in": "query", "type": "string"},
                    {"name": "semester", "in": "query", "type": "string"},
                    {"name": "academic_year", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            }
        },
        "/reports/test-scores": {
            "get": {
                "tags": ["Reports"],
                "summary": "Test score report with range distribution and per-type averages",
                "parameters": [
                    {"name": "course_id", "in": "query", "type": "string"},
                    {"name": "class_id", "in": "query", "type": "string"},
                    {"name": "test_type", "in": "query", "type": "string"},
                    {"name": "semester", "in": "query", "type": "string"},
                    {"name": "academic_year", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            }
        },
        "/dashboard": {
            "get": {
                "tags": ["Dashboard"],
                "summary": "Summary counters",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            }
        }
    },
    "definitions": {
        "DecideRequest": {
            "type": "object",
            "required": ["registration_id", "status"],
            "properties": {
                "registration_id": {"type": "string"},
                "status": {"type": "string", "enum": ["approved", "rejected"]}
            }
        },
        "BulkDecideRequest": {
            "type": "object",
            "required": ["registration_ids", "status"],
            "properties": {
                "registration_ids": {"type": "array", "items": {"type": "string"}},
                "status": {"type": "string", "enum": ["approved", "rejected"]}
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
        "Envelope": {
            "type": "object",
            "properties": {
                "status": {"type": "string", "enum": ["success", "error"]},
                "data": {"type": "object"},
                "message": {"type": "string"},
                "code": {"type": "string"},
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
