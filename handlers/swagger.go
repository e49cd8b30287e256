package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterSwagger registers minimal Swagger/OpenAPI endpoints for the demo service.
// - GET /swagger/index.html  -> a small HTML page that loads the OpenAPI JSON
// - GET /swagger/doc.json    -> machine-readable OpenAPI JSON
func RegisterSwagger(rg *gin.Engine) {
	rg.GET("/swagger/index.html", func(c *gin.Context) {
		c.Header("Content-Type", "text/html; charset=utf-8")
		c.String(http.StatusOK, swaggerHTML)
	})

	rg.GET("/swagger/doc.json", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json", []byte(swaggerJSON))
	})
}

const swaggerHTML = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>prezentic-demo — Swagger</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@4/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@4/swagger-ui-bundle.js"></script>
    <script>
      window.ui = SwaggerUIBundle({
        url: '/swagger/doc.json',
        dom_id: '#swagger-ui',
      })
    </script>
  </body>
</html>`

// Minimal OpenAPI document describing the demo-mode endpoints.
const swaggerJSON = `{
  "openapi": "3.0.0",
  "info": { "title": "prezentic-demo", "version": "v0.1.0" },
  "paths": {
    "/api/presentations": {
      "get": { "summary": "List the owner's presentations, most recently updated first", "parameters": [{"name":"owner","in":"query","schema":{"type":"string"}}], "responses": { "200": { "description": "summary records" } } },
      "post": { "summary": "Create a presentation from a document", "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"title":{"type":"string"},"slides":{"type":"array"}}}}}}, "responses": { "201": { "description": "new id" } } }
    },
    "/api/presentations/{id}": {
      "get": { "summary": "Load the full document (counts a view)", "responses": { "200": { "description": "document" }, "404": { "description": "unknown id" } } },
      "patch": { "summary": "Merge a partial update into the presentation", "responses": { "200": { "description": "updated" }, "422": { "description": "invalid status transition" } } },
      "delete": { "summary": "Delete both records (idempotent)", "responses": { "204": { "description": "deleted" } } }
    },
    "/api/presentations/{id}/duplicate": {
      "post": { "summary": "Copy the presentation under a new id", "responses": { "201": { "description": "new id" }, "404": { "description": "unknown id" } } }
    },
    "/api/presentations/{id}/share": {
      "post": { "summary": "Mint the deterministic share URL", "responses": { "200": { "description": "share url" } } }
    },
    "/api/presentations/{id}/export": {
      "get": { "summary": "Export as json, html or txt", "parameters": [{"name":"format","in":"query","schema":{"type":"string"}},{"name":"publish","in":"query","schema":{"type":"string"}}], "responses": { "200": { "description": "payload or presigned url" }, "400": { "description": "unsupported format" } } }
    },
    "/api/demo/user": {
      "get": { "summary": "Active demo identity", "responses": { "200": { "description": "user record" } } },
      "put": { "summary": "Set the active demo identity", "responses": { "200": { "description": "stored" } } }
    },
    "/api/demo/reset": {
      "post": { "summary": "Clear all demo storage", "responses": { "204": { "description": "cleared" } } }
    },
    "/health": { "get": { "summary": "Liveness check", "responses": { "200": { "description": "healthy" } } } },
    "/ready": { "get": { "summary": "Readiness check", "responses": { "200": { "description": "ready" }, "503": { "description": "not ready" } } } }
  }
}`
