package api

import (
	"encoding/json"
	"net/http"
)

// writeJSON encodes v as JSON and writes it with the given status code.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// errorResponse is the standard error envelope.
type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// notFoundResponse is the negative envelope for user lookups.
type notFoundResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

func writeUserNotFound(w http.ResponseWriter) {
	writeJSON(w, http.StatusNotFound, notFoundResponse{OK: false, Error: "user not found"})
}
