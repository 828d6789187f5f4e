// Package errors provides the JSON error surface shared by all
// features, plus an ErrorLogger that ties handler failures to the
// structured log.
package errors

import (
	"encoding/json"
	"net/http"
)

type errorBody struct {
	Error string `json:"error"`
}

// JSON writes v with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// RenderError writes {"error": msg} with the given status.
func RenderError(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, errorBody{Error: msg})
}

// RenderBadRequest writes a 400 with the given message.
func RenderBadRequest(w http.ResponseWriter, msg string) {
	RenderError(w, http.StatusBadRequest, msg)
}

// RenderNotFound writes a 404 with the given message.
func RenderNotFound(w http.ResponseWriter, msg string) {
	RenderError(w, http.StatusNotFound, msg)
}

// RenderServerError writes a 500 with the given message.
func RenderServerError(w http.ResponseWriter, msg string) {
	RenderError(w, http.StatusInternalServerError, msg)
}

// NotFoundHandler is the router's fallback for unknown paths.
func NotFoundHandler(w http.ResponseWriter, r *http.Request) {
	RenderError(w, http.StatusNotFound, "Not found.")
}

// MethodNotAllowedHandler is the router's fallback for bad methods.
func MethodNotAllowedHandler(w http.ResponseWriter, r *http.Request) {
	RenderError(w, http.StatusMethodNotAllowed, "Method not allowed.")
}
