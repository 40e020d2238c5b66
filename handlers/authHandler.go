package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"smartstudy/logger"
	"smartstudy/models"
	"smartstudy/services/auth"

	"github.com/gorilla/mux"
)

type AuthHandler struct {
	service *auth.Service
	log     *logger.Logger
}

func NewAuthHandler(service *auth.Service, log *logger.Logger) *AuthHandler {
	return &AuthHandler{service: service, log: log}
}

func (h *AuthHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/auth", h.Login).Methods("POST")
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Warn("Failed to decode login request", "error", err)
		writeErrorResponse(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	resp, err := h.service.Login(req)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		writeJSONResponse(w, http.StatusUnauthorized, models.LoginResponse{Success: false, Message: "Invalid credentials"})
		return
	}
	if err != nil {
		h.log.Error("Login failed", "error", err)
		writeErrorDetail(w, http.StatusInternalServerError, "Failed to process request", err.Error())
		return
	}

	writeJSONResponse(w, http.StatusOK, resp)
}
