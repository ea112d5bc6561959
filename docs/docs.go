// Package docs registers the OpenAPI description of the pocketchat HTTP API
// with swag. Served by the Swagger UI in builds tagged `swagger`.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/formats": {
            "get": {
                "produces": ["application/json"],
                "summary": "List selectable model formats",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/types.FormatsResponse"}}}
            }
        },
        "/format": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "summary": "Select a format and list its artifacts",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/types.SelectFormatRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.ArtifactsResponse"}},
                    "404": {"description": "Unknown format", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
                    "409": {"description": "Busy", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
                    "502": {"description": "Catalog unreachable", "schema": {"$ref": "#/definitions/types.ErrorResponse"}}
                }
            }
        },
        "/artifacts": {
            "get": {
                "produces": ["application/json"],
                "summary": "Artifacts listed for the selected format",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/types.ArtifactsResponse"}}}
            }
        },
        "/artifact": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "summary": "Select an artifact for download",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/types.SelectArtifactRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.StatusResponse"}},
                    "404": {"description": "Not listed", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
                    "409": {"description": "Busy or out of order", "schema": {"$ref": "#/definitions/types.ErrorResponse"}}
                }
            }
        },
        "/artifact/confirm": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "summary": "Confirm or decline the pending download",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/types.ConfirmRequest"}}],
                "responses": {
                    "200": {"description": "Declined", "schema": {"$ref": "#/definitions/types.ConfirmResponse"}},
                    "202": {"description": "Download started", "schema": {"$ref": "#/definitions/types.ConfirmResponse"}},
                    "409": {"description": "Busy or nothing pending", "schema": {"$ref": "#/definitions/types.ErrorResponse"}}
                }
            }
        },
        "/unload": {
            "post": {
                "produces": ["application/json"],
                "summary": "Release the loaded model",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/types.StatusResponse"}}}
            }
        },
        "/status": {
            "get": {
                "produces": ["application/json"],
                "summary": "Lifecycle status",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/types.StatusResponse"}}}
            }
        },
        "/events": {
            "get": {
                "produces": ["application/json"],
                "summary": "Recent lifecycle events, oldest first",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/types.EventsResponse"}}}
            }
        },
        "/local": {
            "get": {
                "produces": ["application/json"],
                "summary": "Artifacts on local disk",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/types.LocalResponse"}}}
            }
        },
        "/chat": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json", "application/x-ndjson"],
                "summary": "Send a message to the loaded model",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/types.ChatRequest"}}],
                "responses": {
                    "200": {"description": "Reply, or NDJSON fragments when streaming", "schema": {"$ref": "#/definitions/types.ChatResponse"}},
                    "400": {"description": "Empty message", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
                    "503": {"description": "No model loaded", "schema": {"$ref": "#/definitions/types.ErrorResponse"}}
                }
            }
        },
        "/transcript": {
            "get": {
                "produces": ["application/json"],
                "summary": "Current transcript",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/types.TranscriptResponse"}}}
            },
            "delete": {
                "produces": ["application/json"],
                "summary": "Start a new transcript",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/types.TranscriptResponse"}}}
            }
        }
    },
    "definitions": {
        "types.Artifact": {"type": "object", "properties": {"filename": {"type": "string"}, "repository": {"type": "string"}}},
        "types.ArtifactsResponse": {"type": "object", "properties": {"format": {"type": "string"}, "artifacts": {"type": "array", "items": {"$ref": "#/definitions/types.Artifact"}}}},
        "types.ChatRequest": {"type": "object", "properties": {"message": {"type": "string"}, "stream": {"type": "boolean"}}},
        "types.ChatResponse": {"type": "object", "properties": {"reply": {"$ref": "#/definitions/types.Message"}}},
        "types.ConfirmRequest": {"type": "object", "properties": {"accept": {"type": "boolean"}}},
        "types.ConfirmResponse": {"type": "object", "properties": {"attempt": {"type": "integer"}, "state": {"type": "string"}}},
        "types.DownloadStatus": {"type": "object", "properties": {"is_downloading": {"type": "boolean"}, "progress_percent": {"type": "integer"}}},
        "types.ErrorResponse": {"type": "object", "properties": {"error": {"type": "string"}, "code": {"type": "integer"}}},
        "types.FormatsResponse": {"type": "object", "properties": {"formats": {"type": "array", "items": {"type": "string"}}}},
        "types.LocalArtifact": {"type": "object", "properties": {"filename": {"type": "string"}, "path": {"type": "string"}, "size_bytes": {"type": "integer"}, "size": {"type": "string"}}},
        "types.Event": {"type": "object", "properties": {"name": {"type": "string"}, "model": {"type": "string"}, "fields": {"type": "object"}}},
        "types.EventsResponse": {"type": "object", "properties": {"events": {"type": "array", "items": {"$ref": "#/definitions/types.Event"}}}},
        "types.LocalResponse": {"type": "object", "properties": {"artifacts": {"type": "array", "items": {"$ref": "#/definitions/types.LocalArtifact"}}}},
        "types.Message": {"type": "object", "properties": {"role": {"type": "string"}, "content": {"type": "string"}}},
        "types.SelectArtifactRequest": {"type": "object", "properties": {"filename": {"type": "string"}}},
        "types.SelectFormatRequest": {"type": "object", "properties": {"format": {"type": "string"}}},
        "types.StatusResponse": {"type": "object", "properties": {
            "state": {"type": "string"}, "page": {"type": "string"}, "format": {"type": "string"},
            "artifacts": {"type": "array", "items": {"$ref": "#/definitions/types.Artifact"}},
            "pending": {"type": "string"}, "current": {"type": "string"},
            "download": {"$ref": "#/definitions/types.DownloadStatus"},
            "session": {"type": "string"}, "last_error": {"type": "string"}, "attempt": {"type": "integer"},
            "uptime_seconds": {"type": "integer"}, "server_time_unix": {"type": "integer"}, "loads_total": {"type": "integer"}
        }},
        "types.TranscriptResponse": {"type": "object", "properties": {"conversation_id": {"type": "string"}, "messages": {"type": "array", "items": {"$ref": "#/definitions/types.Message"}}}}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{"http"},
	Title:            "pocketchat API",
	Description:      "HTTP API for local model acquisition and chat.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
