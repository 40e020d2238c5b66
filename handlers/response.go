package handlers

import (
	"encoding/json"
	"net/http"

	"smartstudy/models"
)

func writeJSONResponse(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

func writeErrorResponse(w http.ResponseWriter, statusCode int, message string) {
	writeJSONResponse(w, statusCode, models.ErrorResponse{Error: message})
}

func writeErrorDetail(w http.ResponseWriter, statusCode int, message, detail string) {
	writeJSONResponse(w, statusCode, models.ErrorResponse{Error: message, Message: detail})
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
}

func notFound(w http.ResponseWriter, r *http.Request) {
	writeErrorResponse(w, http.StatusNotFound, "Not found")
}
