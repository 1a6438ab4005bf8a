package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Course Console API",
        "description": "JSON endpoints behind the course console views: blur validation and update-form edit sessions.",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Validation", "description": "Course form rules"},
        {"name": "Sessions", "description": "Update-form edit sessions with debounced autosave"}
    ],
    "paths": {
        "/validate": {
            "post": {
                "tags": ["Validation"],
                "summary": "Validate course form values",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CourseForm"}}
                ],
                "responses": {
                    "200": {"description": "Validation result", "schema": {"$ref": "#/definitions/ValidationEnvelope"}},
                    "400": {"description": "Malformed body", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/sessions": {
            "post": {
                "tags": ["Sessions"],
                "summary": "Open an edit session",
                "description": "Fetches the course and snapshots it as the autosave baseline. On failure meta.redirect names the page to return to.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/OpenSessionRequest"}}
                ],
                "responses": {
                    "201": {"description": "Session opened", "schema": {"$ref": "#/definitions/SessionEnvelope"}},
                    "404": {"description": "Course not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "502": {"description": "Course API unavailable", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/sessions/{sid}": {
            "get": {
                "tags": ["Sessions"],
                "summary": "Get edit session state",
                "description": "Notices are delivered once.",
                "produces": ["application/json"],
                "parameters": [
                    {"name": "sid", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/SessionEnvelope"}},
                    "404": {"description": "Unknown session", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Sessions"],
                "summary": "Close an edit session",
                "description": "Cancels the pending autosave and discards the result of an in-flight one.",
                "parameters": [
                    {"name": "sid", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "Closed"}
                }
            }
        },
        "/sessions/{sid}/fields": {
            "patch": {
                "tags": ["Sessions"],
                "summary": "Apply a field change",
                "description": "Stores the value immediately and re-arms the autosave timer.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"name": "sid", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/FieldChangeRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/SessionEnvelope"}},
                    "400": {"description": "Unknown field or malformed value", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "410": {"description": "Session closed", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/sessions/{sid}/validate": {
            "post": {
                "tags": ["Sessions"],
                "summary": "Validate the session's current values",
                "produces": ["application/json"],
                "parameters": [
                    {"name": "sid", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Validation result", "schema": {"$ref": "#/definitions/ValidationEnvelope"}},
                    "410": {"description": "Session closed", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/sessions/{sid}/close": {
            "post": {
                "tags": ["Sessions"],
                "summary": "Close an edit session (navigator.sendBeacon form)",
                "parameters": [
                    {"name": "sid", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "Closed"}
                }
            }
        }
    },
    "definitions": {
        "CourseForm": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "major": {"type": "string"},
                "credit": {"type": "string", "example": "3"},
                "mandatory": {"type": "boolean"}
            }
        },
        "OpenSessionRequest": {
            "type": "object",
            "required": ["course_id"],
            "properties": {
                "course_id": {"type": "string"}
            }
        },
        "FieldChangeRequest": {
            "type": "object",
            "required": ["field"],
            "properties": {
                "field": {"type": "string", "enum": ["name", "major", "credit", "mandatory"]},
                "value": {"type": "string"}
            }
        },
        "FieldStatus": {
            "type": "object",
            "properties": {
                "valid": {"type": "boolean"},
                "reason": {"type": "string"}
            }
        },
        "ValidationResult": {
            "type": "object",
            "properties": {
                "valid": {"type": "boolean"},
                "fields": {"type": "object", "additionalProperties": {"$ref": "#/definitions/FieldStatus"}}
            }
        },
        "SessionState": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "course_id": {"type": "string"},
                "status": {"type": "string", "enum": ["ready", "closed"]},
                "fields": {"$ref": "#/definitions/CourseForm"},
                "validation": {"$ref": "#/definitions/ValidationResult"},
                "change_count": {"type": "integer"},
                "pending": {"type": "boolean"},
                "notices": {"type": "array", "items": {"type": "string"}}
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
                "meta": {"type": "object"}
            }
        },
        "ValidationEnvelope": {
            "type": "object",
            "properties": {
                "data": {"$ref": "#/definitions/ValidationResult"}
            }
        },
        "SessionEnvelope": {
            "type": "object",
            "properties": {
                "data": {"$ref": "#/definitions/SessionState"}
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
