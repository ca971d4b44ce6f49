package handlers

import (
	"encoding/json"
	"net/http"
)

const maxBodyBytes = 64 << 10

type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// MethodNotAllowed answers every route with the JSON error shape.
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusMethodNotAllowed, Response{Success: false, Message: "Method not allowed"})
}

func NotFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, Response{Success: false, Message: "Not found"})
}

// Options answers CORS-less OPTIONS probes; preflights are handled by the
// cors middleware before they get here.
func Options(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}
