// Package docs registers the orderkit API swagger spec with swag.
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
        "/login": {
            "post": {
                "description": "Authenticates user and sets session cookie",
                "consumes": ["application/json"],
                "summary": "Login",
                "parameters": [
                    {
                        "description": "Credentials",
                        "name": "creds",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/main.loginRequest"}
                    }
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/orders": {
            "get": {
                "security": [{"ApiKeyAuth": []}],
                "produces": ["application/json"],
                "summary": "List orders",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"type": "array", "items": {"$ref": "#/definitions/order.Snapshot"}}
                    }
                }
            },
            "post": {
                "security": [{"ApiKeyAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "summary": "Create order",
                "parameters": [
                    {
                        "description": "Order",
                        "name": "order",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/main.createOrderRequest"}
                    }
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/order.Snapshot"}}
                }
            }
        },
        "/orders/{id}": {
            "get": {
                "security": [{"ApiKeyAuth": []}],
                "produces": ["application/json"],
                "summary": "Get order",
                "parameters": [
                    {"type": "string", "description": "Order ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/order.Snapshot"}}
                }
            }
        },
        "/records/convert": {
            "post": {
                "security": [{"ApiKeyAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "summary": "Convert records",
                "parameters": [
                    {"type": "boolean", "description": "Drop the last character of each line", "name": "legacyTrim", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/record.Document"}}
                }
            }
        },
        "/records/parse": {
            "post": {
                "security": [{"ApiKeyAuth": []}],
                "consumes": ["text/plain"],
                "produces": ["application/json"],
                "summary": "Parse CSV",
                "parameters": [
                    {"type": "boolean", "description": "Store empty fields as null", "name": "emptyAsAbsent", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"type": "object"}}}
                }
            }
        }
    },
    "definitions": {
        "main.customerRequest": {
            "type": "object",
            "properties": {
                "address": {"type": "string"},
                "id": {"type": "string"},
                "subscription": {"type": "string"}
            }
        },
        "main.createOrderRequest": {
            "type": "object",
            "properties": {
                "customer": {"$ref": "#/definitions/main.customerRequest"},
                "id": {"type": "string"},
                "productIds": {"type": "array", "items": {"type": "string"}}
            }
        },
        "main.loginRequest": {
            "type": "object",
            "properties": {
                "password": {"type": "string"},
                "username": {"type": "string"}
            }
        },
        "order.Snapshot": {
            "type": "object",
            "properties": {
                "customerAddress": {"type": "string"},
                "customerId": {"type": "string"},
                "deliveryDays": {"type": "integer"},
                "id": {"type": "string"},
                "productIds": {"type": "array", "items": {"type": "string"}},
                "tier": {"type": "string"},
                "variant": {"type": "string"}
            }
        },
        "record.Document": {
            "type": "object",
            "properties": {
                "headers": {"type": "string"},
                "lines": {"type": "array", "items": {"type": "string"}}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8443",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "orderkit API",
	Description:      "Orders with tier-based delivery, plus CSV record conversion",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
