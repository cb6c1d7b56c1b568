// Package docs holds the OpenAPI document served under /swagger.
// Regenerate with: swag init -g cmd/api/main.go
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "termsOfService": "http://swagger.io/terms/",
        "contact": {
            "name": "API Support",
            "email": "support@campuscare.example"
        },
        "license": {
            "name": "MIT",
            "url": "https://opensource.org/licenses/MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/students/register": {
            "post": {
                "description": "Creates a student, assigns the least-loaded counselor, issues an access token and mirrors the student to Stream.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["students"],
                "summary": "Register a new student",
                "parameters": [
                    {
                        "description": "Student registration information",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/dto.RegisterStudentRequest"}
                    }
                ],
                "responses": {
                    "201": {"description": "Student registered", "schema": {"$ref": "#/definitions/dto.StudentEnvelope"}},
                    "400": {"description": "Missing or invalid field", "schema": {"$ref": "#/definitions/dto.APIResponse"}},
                    "404": {"description": "No counselor available", "schema": {"$ref": "#/definitions/dto.APIResponse"}},
                    "409": {"description": "Email or phone number already exists", "schema": {"$ref": "#/definitions/dto.APIResponse"}},
                    "502": {"description": "Registered, but Stream provisioning failed", "schema": {"$ref": "#/definitions/dto.StudentEnvelope"}}
                }
            }
        },
        "/students/login": {
            "post": {
                "description": "Authenticates by email, or by phone number when no email is given, and returns a fresh access token.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["students"],
                "summary": "Log a student in",
                "parameters": [
                    {
                        "description": "Login credentials",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/dto.LoginRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.StudentEnvelope"}},
                    "400": {"description": "Neither email nor phone number given", "schema": {"$ref": "#/definitions/dto.APIResponse"}},
                    "401": {"description": "Wrong password", "schema": {"$ref": "#/definitions/dto.APIResponse"}},
                    "404": {"description": "Student not found", "schema": {"$ref": "#/definitions/dto.APIResponse"}}
                }
            }
        },
        "/students/me": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["students"],
                "summary": "Current student",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.StudentEnvelope"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/dto.APIResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/dto.APIResponse"}}
                }
            }
        }
    },
    "definitions": {
        "dto.APIResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean", "example": true},
                "data": {},
                "error": {"$ref": "#/definitions/dto.ErrorDetail"},
                "timestamp": {"type": "string", "example": "2025-04-23T12:01:05.123Z"}
            }
        },
        "dto.StudentEnvelope": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean", "example": true},
                "data": {"$ref": "#/definitions/dto.StudentResponse"},
                "error": {"$ref": "#/definitions/dto.ErrorDetail"},
                "timestamp": {"type": "string", "example": "2025-04-23T12:01:05.123Z"}
            }
        },
        "dto.ErrorDetail": {
            "type": "object",
            "properties": {
                "code": {"type": "string", "example": "RES_002"},
                "kind": {"type": "string", "example": "ConflictError"},
                "message": {"type": "string", "example": "email already exists"},
                "field": {"type": "string", "example": "email"},
                "severity": {"type": "string", "example": "ERROR"},
                "details": {}
            }
        },
        "dto.LoginRequest": {
            "type": "object",
            "required": ["password"],
            "properties": {
                "email": {"type": "string", "example": "ada@example.com"},
                "phoneNumber": {"type": "string", "example": "08012345678"},
                "password": {"type": "string"}
            }
        },
        "dto.RegisterStudentRequest": {
            "type": "object",
            "required": ["email", "firstName", "lastName", "password", "phoneNumber"],
            "properties": {
                "email": {"type": "string", "example": "ada@example.com"},
                "phoneNumber": {"type": "string", "example": "08012345678"},
                "firstName": {"type": "string", "example": "Ada"},
                "lastName": {"type": "string", "example": "Obi"},
                "password": {"type": "string"}
            }
        },
        "dto.StudentResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "email": {"type": "string"},
                "phoneNumber": {"type": "string"},
                "firstName": {"type": "string"},
                "lastName": {"type": "string"},
                "createdAt": {"type": "string"},
                "counselor": {"type": "string"},
                "color": {"type": "string"},
                "token": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "JWT token for authorization",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api/v1",
	Schemes:          []string{"http", "https"},
	Title:            "CampusCare API",
	Description:      "API for CampusCare student onboarding and counselor assignment",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
