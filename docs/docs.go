// Package docs registers the OpenAPI document served under /swagger.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Service health",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.HealthResponse"}}
                }
            }
        },
        "/auth/register": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Register a member",
                "parameters": [
                    {"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.RegisterRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.AuthResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}}
                }
            }
        },
        "/auth/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Log in with email and password",
                "parameters": [
                    {"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.AuthResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}}
                }
            }
        },
        "/auth/google": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Sign in a Google user",
                "parameters": [
                    {"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.GoogleRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.AuthResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}}
                }
            }
        },
        "/auth/refresh": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Exchange a refresh token for an access token",
                "parameters": [
                    {"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.RefreshRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.AuthResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}}
                }
            }
        },
        "/auth/logout": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Revoke the session tokens",
                "parameters": [
                    {"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.LogoutRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.SuccessResponse"}}
                }
            }
        },
        "/config": {
            "get": {
                "produces": ["application/json"],
                "tags": ["config"],
                "summary": "Public app configuration",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/workouts": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["workouts"],
                "summary": "List workouts",
                "parameters": [
                    {"type": "string", "enum": ["Home", "Gym"], "name": "category", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/model.Workout"}}}
                }
            }
        },
        "/workouts/{id}/exercises": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["workouts"],
                "summary": "List the exercises of a workout",
                "parameters": [
                    {"type": "integer", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/model.Exercise"}}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}}
                }
            }
        },
        "/challenges": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["workouts"],
                "summary": "List challenges",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/model.Challenge"}}}
                }
            }
        },
        "/progress": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["progress"],
                "summary": "Daily progress of the current member",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/model.Progress"}}}
                }
            }
        },
        "/progress/water": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["progress"],
                "summary": "Add water intake for today",
                "parameters": [
                    {"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.WaterRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.SuccessResponse"}}
                }
            }
        },
        "/progress/weight": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["progress"],
                "summary": "Log today's weight",
                "parameters": [
                    {"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.WeightRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.SuccessResponse"}}
                }
            }
        },
        "/progress/workout": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["progress"],
                "summary": "Mark a workout completed today",
                "parameters": [
                    {"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.CompleteWorkoutRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.SuccessResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}}
                }
            }
        },
        "/profile": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["profile"],
                "summary": "Current member profile",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.User"}}
                }
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["profile"],
                "summary": "Update the current member profile",
                "parameters": [
                    {"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.UpdateProfileRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.User"}}
                }
            }
        },
        "/profile/photo": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["profile"],
                "summary": "Upload a profile photo",
                "parameters": [
                    {"type": "file", "name": "photo", "in": "formData", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.User"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}}
                }
            }
        },
        "/admin/config": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "Set a configuration value",
                "parameters": [
                    {"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.SetConfigRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.SuccessResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}}
                }
            }
        },
        "/admin/stats": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "User and workout counts",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/service.Stats"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}}
                }
            }
        },
        "/admin/workouts": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "Create a workout",
                "parameters": [
                    {"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.CreateWorkoutRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/model.Workout"}}
                }
            }
        },
        "/admin/workouts/{id}": {
            "delete": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "Delete a workout and its exercises",
                "parameters": [
                    {"type": "integer", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.SuccessResponse"}}
                }
            }
        }
    },
    "definitions": {
        "errors.ErrorResponse": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "error": {"type": "string"}
            }
        },
        "handler.HealthResponse": {
            "type": "object",
            "properties": {
                "database": {"type": "boolean"},
                "env": {"type": "string"},
                "status": {"type": "string"}
            }
        },
        "handler.SuccessResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"}
            }
        },
        "handler.RegisterRequest": {
            "type": "object",
            "required": ["email", "name", "password"],
            "properties": {
                "email": {"type": "string"},
                "name": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "handler.LoginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "handler.GoogleRequest": {
            "type": "object",
            "required": ["email", "id"],
            "properties": {
                "email": {"type": "string"},
                "id": {"type": "string"},
                "name": {"type": "string"}
            }
        },
        "handler.RefreshRequest": {
            "type": "object",
            "required": ["refresh_token"],
            "properties": {
                "refresh_token": {"type": "string"}
            }
        },
        "handler.LogoutRequest": {
            "type": "object",
            "required": ["refresh_token"],
            "properties": {
                "refresh_token": {"type": "string"}
            }
        },
        "handler.AuthResponse": {
            "type": "object",
            "properties": {
                "refresh_token": {"type": "string"},
                "token": {"type": "string"},
                "user": {"$ref": "#/definitions/model.User"}
            }
        },
        "handler.WaterRequest": {
            "type": "object",
            "properties": {
                "amount": {"type": "integer"}
            }
        },
        "handler.WeightRequest": {
            "type": "object",
            "required": ["weight"],
            "properties": {
                "weight": {"type": "number"}
            }
        },
        "handler.CompleteWorkoutRequest": {
            "type": "object",
            "required": ["workout_id"],
            "properties": {
                "workout_id": {"type": "integer"}
            }
        },
        "handler.UpdateProfileRequest": {
            "type": "object",
            "properties": {
                "goal": {"type": "string"},
                "height": {"type": "number"},
                "language": {"type": "string", "enum": ["pt", "en", "es"]},
                "name": {"type": "string"},
                "weight": {"type": "number"}
            }
        },
        "handler.SetConfigRequest": {
            "type": "object",
            "required": ["key"],
            "properties": {
                "key": {"type": "string"},
                "value": {"type": "string"}
            }
        },
        "handler.CreateWorkoutRequest": {
            "type": "object",
            "required": ["category", "name", "type"],
            "properties": {
                "category": {"type": "string", "enum": ["Home", "Gym"]},
                "description": {"type": "string"},
                "duration": {"type": "string"},
                "name": {"type": "string"},
                "order_index": {"type": "integer"},
                "series": {"type": "string"},
                "tips": {"type": "string"},
                "type": {"type": "string"},
                "video_url": {"type": "string"}
            }
        },
        "model.User": {
            "type": "object",
            "properties": {
                "created_at": {"type": "string"},
                "email": {"type": "string"},
                "goal": {"type": "string"},
                "height": {"type": "string"},
                "id": {"type": "integer"},
                "language": {"type": "string"},
                "name": {"type": "string"},
                "photo_url": {"type": "string"},
                "role": {"type": "string"},
                "updated_at": {"type": "string"},
                "weight": {"type": "string"}
            }
        },
        "model.Workout": {
            "type": "object",
            "properties": {
                "category": {"type": "string"},
                "created_at": {"type": "string"},
                "description": {"type": "string"},
                "duration": {"type": "string"},
                "id": {"type": "integer"},
                "name": {"type": "string"},
                "order_index": {"type": "integer"},
                "series": {"type": "string"},
                "tips": {"type": "string"},
                "type": {"type": "string"},
                "updated_at": {"type": "string"},
                "video_url": {"type": "string"}
            }
        },
        "model.Exercise": {
            "type": "object",
            "properties": {
                "created_at": {"type": "string"},
                "description": {"type": "string"},
                "id": {"type": "integer"},
                "name": {"type": "string"},
                "order_index": {"type": "integer"},
                "tips": {"type": "string"},
                "updated_at": {"type": "string"},
                "video_url": {"type": "string"},
                "workout_id": {"type": "integer"}
            }
        },
        "model.Challenge": {
            "type": "object",
            "properties": {
                "created_at": {"type": "string"},
                "description": {"type": "string"},
                "duration_days": {"type": "integer"},
                "id": {"type": "integer"},
                "order_index": {"type": "integer"},
                "title": {"type": "string"}
            }
        },
        "model.Progress": {
            "type": "object",
            "properties": {
                "created_at": {"type": "string"},
                "date": {"type": "string"},
                "id": {"type": "integer"},
                "updated_at": {"type": "string"},
                "user_id": {"type": "integer"},
                "water_intake": {"type": "integer"},
                "weight": {"type": "string"},
                "workout_completed_id": {"type": "integer"}
            }
        },
        "service.Stats": {
            "type": "object",
            "properties": {
                "users": {"type": "integer"},
                "workouts": {"type": "integer"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Type \"Bearer\" followed by a space and JWT token.",
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
	BasePath:         "/api",
	Schemes:          []string{"http"},
	Title:            "Kelfit API",
	Description:      "Fitness tracking API with workouts, daily progress, profiles and JWT authentication.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
