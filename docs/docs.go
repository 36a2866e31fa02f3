// Package docs provides the swagger specification served at /swagger.
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
        "/calculations": {
            "post": {
                "summary": "Compute the equal-split settlement for a session",
                "tags": ["calculations"],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/calculations/custom-split": {
            "post": {
                "summary": "Compute a settlement with caller-supplied percentages",
                "tags": ["calculations"],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}
            }
        },
        "/calculations/tip": {
            "post": {
                "summary": "Compute a settlement with a tip distributed equally or proportionally",
                "tags": ["calculations"],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}
            }
        },
        "/calculations/transfers": {
            "post": {
                "summary": "Suggest settling transfers for a session",
                "tags": ["calculations"],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/calculations/evaluate": {
            "post": {
                "summary": "Evaluate arithmetic expression text",
                "tags": ["calculations"],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/sessions": {
            "get": {
                "summary": "List saved sessions",
                "tags": ["sessions"],
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "summary": "Save a session with its computed totals",
                "tags": ["sessions"],
                "responses": {"201": {"description": "Created"}}
            }
        },
        "/sessions/{id}": {
            "get": {
                "summary": "Get a saved session",
                "tags": ["sessions"],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            },
            "delete": {
                "summary": "Delete a saved session",
                "tags": ["sessions"],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            }
        },
        "/analytics": {
            "get": {
                "summary": "Aggregate analytics across saved sessions",
                "tags": ["analytics"],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/exports/text": {
            "post": {
                "summary": "Export a settlement as plain text",
                "tags": ["exports"],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/exports/csv": {
            "post": {
                "summary": "Export a settlement as CSV",
                "tags": ["exports"],
                "responses": {"200": {"description": "OK"}}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Patungan API",
	Description:      "Bill-splitting settlement calculator",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
