// Package handlers exposes the location and booking tools over plain REST
// and over an MCP JSON-RPC envelope, both backed by the same two operations.
package handlers

import (
	"encoding/json"
	"net/http"
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func jsonError(w http.ResponseWriter, message string, status int) {
	writeJSON(w, status, map[string]any{
		"success": false,
		"message": message,
	})
}
