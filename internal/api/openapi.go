package api

import (
	"encoding/json"
	"net/http"
)

// handleOpenAPI handles GET /openapi.json (no auth).
func (s *Server) handleOpenAPI(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(buildOpenAPIDoc())
}

// buildOpenAPIDoc returns an OpenAPI 3.1 document covering the daemon's
// maintenance surface.
func buildOpenAPIDoc() map[string]any {
	secured := []any{map[string]any{"BearerAuth": []string{}}}

	return map[string]any{
		"openapi": "3.1.0",
		"info": map[string]any{
			"title":   "VoiceTypr Daemon",
			"version": "1.0",
		},
		"paths": map[string]any{
			"/healthz": map[string]any{
				"get": map[string]any{
					"operationId": "healthz",
					"summary":     "Liveness probe",
					"responses": map[string]any{
						"200": map[string]any{"description": "Daemon is up"},
					},
				},
			},
			"/v1/reset": map[string]any{
				"post": map[string]any{
					"operationId": "resetAppData",
					"summary":     "Tear down all persisted and in-memory application state",
					"security":    secured,
					"responses": map[string]any{
						"200": map[string]any{"description": "Aggregate reset report"},
						"401": map[string]any{"description": "Missing or invalid API key"},
					},
				},
			},
			"/v1/logs/sweep": map[string]any{
				"post": map[string]any{
					"operationId": "sweepLogs",
					"summary":     "Delete log files older than the retention window",
					"security":    secured,
					"parameters": []any{map[string]any{
						"name":   "days",
						"in":     "query",
						"schema": map[string]any{"type": "integer", "minimum": 0},
					}},
					"responses": map[string]any{
						"200": map[string]any{"description": "Sweep report"},
						"400": map[string]any{"description": "Invalid days parameter"},
						"401": map[string]any{"description": "Missing or invalid API key"},
					},
				},
			},
			"/v1/logs/dir": map[string]any{
				"get": map[string]any{
					"operationId": "logDirectory",
					"summary":     "Resolved log directory path",
					"security":    secured,
					"responses": map[string]any{
						"200": map[string]any{"description": "Directory path"},
						"401": map[string]any{"description": "Missing or invalid API key"},
					},
				},
			},
			"/v1/logs/open": map[string]any{
				"post": map[string]any{
					"operationId": "openLogFolder",
					"summary":     "Reveal the log directory in the OS file browser",
					"security":    secured,
					"responses": map[string]any{
						"200": map[string]any{"description": "Folder opened"},
						"401": map[string]any{"description": "Missing or invalid API key"},
					},
				},
			},
			"/v1/events": map[string]any{
				"get": map[string]any{
					"operationId": "streamEvents",
					"summary":     "Server-sent event stream with Last-Event-ID replay",
					"security":    secured,
					"responses": map[string]any{
						"200": map[string]any{"description": "SSE stream"},
						"401": map[string]any{"description": "Missing or invalid API key"},
					},
				},
			},
		},
		"components": map[string]any{
			"securitySchemes": map[string]any{
				"BearerAuth": map[string]any{
					"type":   "http",
					"scheme": "bearer",
				},
			},
		},
	}
}
