// Package docs registers the OpenAPI document served at /swagger.
// Keep it in sync with the handler annotations (`swag init -g cmd/api/main.go` regenerates it).
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
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "paths": {
        "/posts": {"get": {"tags": ["posts"], "summary": "List posts", "produces": ["application/json"],
            "parameters": [
                {"type": "integer", "name": "page", "in": "query"},
                {"type": "integer", "name": "page_size", "in": "query"},
                {"type": "string", "name": "category", "in": "query"},
                {"type": "boolean", "name": "featured", "in": "query"},
                {"type": "string", "name": "q", "in": "query"}
            ],
            "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.PaginationPostDTO"}}}}},
        "/posts/breaking": {"get": {"tags": ["posts"], "summary": "Current breaking news",
            "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.PostDTO"}}, "204": {"description": "No breaking post"}}}},
        "/posts/{slug}": {"get": {"tags": ["posts"], "summary": "Get post by slug",
            "parameters": [{"type": "string", "name": "slug", "in": "path", "required": true}],
            "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.PostDTO"}}, "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/dto.ErrorResponseDTO"}}}}},
        "/posts/{slug}/view": {"post": {"tags": ["posts"], "summary": "Increment post view count",
            "parameters": [{"type": "string", "name": "slug", "in": "path", "required": true}],
            "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.MessageResponseDTO"}}}}},
        "/categories": {"get": {"tags": ["posts"], "summary": "List categories", "responses": {"200": {"description": "OK"}}}},
        "/quotes": {"get": {"tags": ["media"], "summary": "Market quotes", "responses": {"200": {"description": "OK"}}}},
        "/image-proxy": {"get": {"tags": ["media"], "summary": "Image proxy",
            "parameters": [{"type": "string", "name": "url", "in": "query", "required": true}],
            "responses": {"200": {"description": "Image bytes"}, "400": {"description": "Bad Request"}, "415": {"description": "Not an image"}}}},
        "/push/subscribe": {"post": {"tags": ["notifications"], "summary": "Subscribe to web push", "responses": {"201": {"description": "Created"}}}},
        "/push/unsubscribe": {"post": {"tags": ["notifications"], "summary": "Unsubscribe from web push", "responses": {"200": {"description": "OK"}}}},
        "/push/vapid-public-key": {"get": {"tags": ["notifications"], "summary": "VAPID public key", "responses": {"200": {"description": "OK"}}}},
        "/newsletter/subscribe": {"post": {"tags": ["notifications"], "summary": "Subscribe to the newsletter", "responses": {"201": {"description": "Created"}}}},
        "/newsletter/unsubscribe": {"post": {"tags": ["notifications"], "summary": "Unsubscribe from the newsletter", "responses": {"200": {"description": "OK"}}}},
        "/collect": {"post": {"tags": ["collection"], "summary": "Run one collection", "security": [{"BearerAuth": []}],
            "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}, "500": {"description": "Run failed"}}}},
        "/admin/posts": {
            "get": {"tags": ["admin"], "summary": "List posts for admin", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.PaginationPostDTO"}}}},
            "post": {"tags": ["admin"], "summary": "Create a post", "security": [{"BearerAuth": []}], "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/dto.PostDTO"}}}}},
        "/admin/posts/{id}": {
            "get": {"tags": ["admin"], "summary": "Get post by id", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}},
            "put": {"tags": ["admin"], "summary": "Update a post", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}},
            "delete": {"tags": ["admin"], "summary": "Delete a post", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}},
        "/admin/posts/{id}/featured": {"patch": {"tags": ["admin"], "summary": "Toggle featured", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}},
        "/admin/posts/{id}/breaking": {"patch": {"tags": ["admin"], "summary": "Toggle breaking news", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}},
        "/admin/search": {"post": {"tags": ["ai"], "summary": "Search source articles", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}},
        "/admin/revise": {"post": {"tags": ["ai"], "summary": "Revise a draft", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}, "400": {"description": "Invalid text"}, "502": {"description": "Upstream failure"}}}},
        "/admin/generate/stream": {"post": {"tags": ["ai"], "summary": "Stream a generated article", "produces": ["text/event-stream"], "security": [{"BearerAuth": []}], "responses": {"200": {"description": "SSE stream"}}}},
        "/admin/collection/logs": {"get": {"tags": ["collection"], "summary": "List collection logs", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}},
        "/admin/collection/config": {
            "get": {"tags": ["collection"], "summary": "List collection config rows", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["collection"], "summary": "Create collection config row", "security": [{"BearerAuth": []}], "responses": {"201": {"description": "Created"}}}},
        "/admin/collection/config/{id}": {
            "patch": {"tags": ["collection"], "summary": "Update collection config row", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}},
            "delete": {"tags": ["collection"], "summary": "Delete collection config row", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}},
        "/admin/push/send": {"post": {"tags": ["notifications"], "summary": "Send a manual push", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}}
    },
    "definitions": {
        "dto.ErrorResponseDTO": {"type": "object", "properties": {"error": {"type": "string", "example": "invalid_token"}}},
        "dto.MessageResponseDTO": {"type": "object", "properties": {"message": {"type": "string"}}},
        "dto.PostDTO": {"type": "object", "properties": {
            "id": {"type": "string"}, "title": {"type": "string"}, "slug": {"type": "string"},
            "excerpt": {"type": "string"}, "content": {"type": "string"}, "cover_image": {"type": "string"},
            "category": {"type": "string"}, "author": {"type": "string"},
            "is_featured": {"type": "boolean"}, "is_breaking": {"type": "boolean"}, "is_sensitive": {"type": "boolean"},
            "scheduled_at": {"type": "string"}, "sources": {"type": "array", "items": {"type": "string"}},
            "view_count": {"type": "integer"}, "created_at": {"type": "string"}, "updated_at": {"type": "string"}}},
        "dto.PaginationPostDTO": {"type": "object", "properties": {
            "data": {"type": "array", "items": {"$ref": "#/definitions/dto.PostDTO"}},
            "page": {"type": "integer"}, "page_size": {"type": "integer"}, "total": {"type": "integer"}}}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Portal de Notícias API",
	Description:      "News portal backend: public posts, admin CMS, AI-assisted collection and notifications",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
