// Package swagger holds the OpenAPI document served at /swagger/. It follows
// the layout `swag init -g cmd/api/main.go -o docs/swagger` writes, so running
// the generator replaces this file.
package swagger

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
        "/s3-retrieve": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "Lists every image of a group owned by the caller, each with a presigned URL valid for one hour.",
                "produces": ["application/json"],
                "tags": ["images"],
                "summary": "List images",
                "parameters": [
                    {"type": "string", "description": "Listing path, e.g. images/group/{groupId}/filename", "name": "path", "in": "query"},
                    {"type": "string", "description": "Group id (alternative to path)", "name": "groupId", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/gallery.imagesResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.ErrorBody"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/response.ErrorBody"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.ErrorBody"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/response.ErrorBody"}}
                }
            }
        },
        "/s3-upload": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Uploads one image into a group owned by the caller.",
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["images"],
                "summary": "Upload image",
                "parameters": [
                    {"type": "file", "description": "Image file", "name": "file", "in": "formData", "required": true},
                    {"type": "string", "description": "Group id", "name": "groupId", "in": "formData", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/gallery.uploadResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.ErrorBody"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/response.ErrorBody"}},
                    "413": {"description": "Request Entity Too Large", "schema": {"$ref": "#/definitions/response.ErrorBody"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/response.ErrorBody"}}
                }
            }
        },
        "/s3-delete": {
            "delete": {
                "security": [{"BearerAuth": []}],
                "description": "Deletes one image by filePath, or every image of a group by groupId.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["images"],
                "summary": "Delete images",
                "parameters": [
                    {"description": "Target", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/gallery.deleteObjectsRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Result"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.ErrorBody"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/response.ErrorBody"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.ErrorBody"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/response.ErrorBody"}}
                }
            }
        },
        "/user-groups": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["groups"],
                "summary": "List groups",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/group.groupsResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/response.ErrorBody"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.ErrorBody"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/response.ErrorBody"}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["groups"],
                "summary": "Create group",
                "parameters": [
                    {"description": "Group", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/group.createGroupRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/group.groupResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.ErrorBody"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/response.ErrorBody"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.ErrorBody"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/response.ErrorBody"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "description": "Deletes a group owned by the caller and then every image stored under it.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["groups"],
                "summary": "Delete group",
                "parameters": [
                    {"description": "Group", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/gallery.deleteGroupRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Result"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.ErrorBody"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/response.ErrorBody"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.ErrorBody"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/response.ErrorBody"}}
                }
            }
        },
        "/users/me": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Get current user",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/user.meResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/response.ErrorBody"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.ErrorBody"}}
                }
            }
        },
        "/webhooks/identity": {
            "post": {
                "description": "Receives signed user lifecycle events. user.created creates the user with a default group; user.deleted removes the user and their groups.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["webhooks"],
                "summary": "Identity webhook",
                "parameters": [
                    {"type": "string", "description": "Message id", "name": "svix-id", "in": "header", "required": true},
                    {"type": "string", "description": "Unix timestamp", "name": "svix-timestamp", "in": "header", "required": true},
                    {"type": "string", "description": "Signature list", "name": "svix-signature", "in": "header", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Result"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.ErrorBody"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/response.ErrorBody"}}
                }
            }
        }
    },
    "definitions": {
        "gallery.deleteGroupRequest": {
            "type": "object",
            "properties": {"groupId": {"type": "string", "example": "0b7c1f1e-0a3e-4b7e-9a55-8f3e0c6b2d41"}}
        },
        "gallery.deleteObjectsRequest": {
            "type": "object",
            "properties": {
                "filePath": {"type": "string", "example": "images/group/0b7c1f1e-0a3e-4b7e-9a55-8f3e0c6b2d41/filename/a.jpg"},
                "groupId": {"type": "string", "example": "0b7c1f1e-0a3e-4b7e-9a55-8f3e0c6b2d41"}
            }
        },
        "gallery.imageBody": {
            "type": "object",
            "properties": {
                "date": {"type": "string", "example": "2025-02-03"},
                "key": {"type": "string", "example": "images/group/0b7c.../filename/a.jpg"},
                "name": {"type": "string", "example": "a.jpg"},
                "size": {"type": "integer", "example": 20480},
                "url": {"type": "string"}
            }
        },
        "gallery.imagesResponse": {
            "type": "object",
            "properties": {"images": {"type": "array", "items": {"$ref": "#/definitions/gallery.imageBody"}}}
        },
        "gallery.uploadResponse": {
            "type": "object",
            "properties": {
                "fileName": {"type": "string", "example": "a.jpg"},
                "success": {"type": "boolean", "example": true}
            }
        },
        "group.Group": {
            "type": "object",
            "properties": {
                "createdAt": {"type": "string"},
                "id": {"type": "string"},
                "name": {"type": "string"},
                "userId": {"type": "string"}
            }
        },
        "group.createGroupRequest": {
            "type": "object",
            "properties": {"name": {"type": "string", "example": "Trips"}}
        },
        "group.groupResponse": {
            "type": "object",
            "properties": {"group": {"$ref": "#/definitions/group.Group"}}
        },
        "group.groupsResponse": {
            "type": "object",
            "properties": {"groups": {"type": "array", "items": {"$ref": "#/definitions/group.Group"}}}
        },
        "response.ErrorBody": {
            "type": "object",
            "properties": {"error": {"type": "string", "example": "Group ID is required"}}
        },
        "response.Result": {
            "type": "object",
            "properties": {
                "message": {"type": "string", "example": "File deleted successfully"},
                "success": {"type": "boolean", "example": true}
            }
        },
        "user.User": {
            "type": "object",
            "properties": {
                "createdAt": {"type": "string"},
                "email": {"type": "string"},
                "externalId": {"type": "string"},
                "id": {"type": "string"},
                "name": {"type": "string"},
                "updatedAt": {"type": "string"}
            }
        },
        "user.meResponse": {
            "type": "object",
            "properties": {"user": {"$ref": "#/definitions/user.User"}}
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "JWT Bearer token issued by the identity provider. Format: **Bearer {token}**",
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
	Schemes:          []string{},
	Title:            "ImageVault API",
	Description:      "Group-scoped image storage: users organise images into groups backed by an S3-compatible bucket.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
