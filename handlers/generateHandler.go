package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"smartstudy/logger"
	"smartstudy/models"
	"smartstudy/services/study"

	"github.com/gorilla/mux"
)

type GenerateHandler struct {
	service *study.Service
	log     *logger.Logger
}

func NewGenerateHandler(service *study.Service, log *logger.Logger) *GenerateHandler {
	return &GenerateHandler{service: service, log: log}
}

func (h *GenerateHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/generate", requireBearer(h.Generate)).Methods("POST")
}

var errUnknownAction = errors.New("unknown action")

// Generate dispatches one action envelope to the study service.
func (h *GenerateHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req models.GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Warn("Failed to decode generate request", "error", err)
		writeErrorResponse(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	log := h.log.With("action", req.Action, "requestId", w.Header().Get("X-Request-ID"))
	log.Info("Received generate request")

	data, err := h.dispatch(r.Context(), req)
	switch {
	case errors.Is(err, errUnknownAction):
		writeErrorResponse(w, http.StatusBadRequest, "Invalid action")
	case errors.Is(err, study.ErrInvalidRequest):
		log.Warn("Rejected generate request", "error", err)
		writeErrorDetail(w, http.StatusBadRequest, "Invalid request", err.Error())
	case err != nil:
		log.Error("Generate request failed", "error", err)
		writeErrorDetail(w, http.StatusInternalServerError, "Failed to process request", err.Error())
	default:
		log.Info("Generate request completed")
		writeJSONResponse(w, http.StatusOK, models.GenerateResponse{Success: true, Data: data})
	}
}

func (h *GenerateHandler) dispatch(ctx context.Context, req models.GenerateRequest) (any, error) {
	switch req.Action {
	case models.ActionGenerateQuiz:
		var p models.GenerateQuizPayload
		if err := decodePayload(req.Payload, &p); err != nil {
			return nil, err
		}
		return h.service.GenerateQuiz(ctx, p)
	case models.ActionGeneratePPT:
		var p models.GeneratePPTPayload
		if err := decodePayload(req.Payload, &p); err != nil {
			return nil, err
		}
		return h.service.GeneratePresentation(ctx, p)
	case models.ActionChat:
		var p models.ChatPayload
		if err := decodePayload(req.Payload, &p); err != nil {
			return nil, err
		}
		return h.service.Chat(ctx, p)
	case models.ActionExplainCode:
		var p models.ExplainCodePayload
		if err := decodePayload(req.Payload, &p); err != nil {
			return nil, err
		}
		return h.service.ExplainCode(ctx, p)
	case models.ActionGeneratePerformanceReport:
		var p models.PerformanceReportPayload
		if err := decodePayload(req.Payload, &p); err != nil {
			return nil, err
		}
		return h.service.GeneratePerformanceReport(ctx, p)
	case models.ActionGenerateStudyGuide:
		var p models.StudyGuidePayload
		if err := decodePayload(req.Payload, &p); err != nil {
			return nil, err
		}
		return h.service.GenerateStudyGuide(ctx, p)
	}
	return nil, fmt.Errorf("%w: %q", errUnknownAction, req.Action)
}

func decodePayload(raw json.RawMessage, out any) error {
	if len(raw) == 0 {
		return fmt.Errorf("%w: missing payload", study.ErrInvalidRequest)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: payload: %v", study.ErrInvalidRequest, err)
	}
	return nil
}
