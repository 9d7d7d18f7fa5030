package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Poly Routine API",
        "description": "Class-routine scheduling engine for polytechnic institutes",
        "version": "0.1.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Routines", "description": "Weekly routine grids and batch editing"},
        {"name": "Reference", "description": "Departments and teacher roster"}
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
        "/api/v1/routines": {
            "get": {
                "tags": ["Routines"],
                "summary": "Weekly routine grid for a department/semester/shift",
                "parameters": [
                    {"name": "department", "in": "query", "type": "string", "required": true},
                    {"name": "semester", "in": "query", "type": "integer", "required": true},
                    {"name": "shift", "in": "query", "type": "string", "required": true, "enum": ["MORNING", "DAY", "EVENING"]},
                    {"name": "session", "in": "query", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "Grid", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid filter"}
                }
            },
            "put": {
                "tags": ["Routines"],
                "summary": "Save an edited routine grid",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"type": "object"}}
                ],
                "responses": {
                    "200": {"description": "Saved; fresh grid returned"},
                    "409": {"description": "Conflict or partial batch failure; edits retained"},
                    "422": {"description": "Scheduling-rule violations; no operations applied"},
                    "503": {"description": "Storage unavailable; retry"}
                }
            }
        },
        "/api/v1/routines/teacher/{id}": {
            "get": {
                "tags": ["Routines"],
                "summary": "Weekly routine grid for a teacher",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true},
                    {"name": "shift", "in": "query", "type": "string", "required": true},
                    {"name": "session", "in": "query", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "Grid"}
                }
            }
        },
        "/api/v1/departments": {
            "get": {
                "tags": ["Reference"],
                "summary": "List departments",
                "responses": {
                    "200": {"description": "Departments"}
                }
            }
        },
        "/api/v1/teachers": {
            "get": {
                "tags": ["Reference"],
                "summary": "List teachers",
                "parameters": [
                    {"name": "department", "in": "query", "type": "string"},
                    {"name": "active", "in": "query", "type": "boolean"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "Teachers"}
                }
            }
        }
    },
    "definitions": {
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
