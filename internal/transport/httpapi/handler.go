// Package httpapi exposes the chat core over HTTP. It owns request
// validation and JSON encoding; all turn semantics live in the orchestrator.
package httpapi

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"assistant-chatbot/internal/chatbot"
	stderrors "assistant-chatbot/internal/common/errors"
	"assistant-chatbot/internal/common/logger"
	"assistant-chatbot/internal/common/validation"
	"assistant-chatbot/internal/session"
)

const maxRequestBodyBytes = 64 * 1024

// ChatRequest is the transport-level request for one turn.
type ChatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id,omitempty"`
	UserID    string `json:"user_id,omitempty"`
}

type errorResponse struct {
	Error   string   `json:"error"`
	Details []string `json:"details,omitempty"`
}

// Handler serves the chat API routes.
type Handler struct {
	orchestrator *chatbot.Orchestrator
	sessions     *session.Manager
	logger       logger.Logger
}

func NewHandler(orchestrator *chatbot.Orchestrator, sessions *session.Manager, log logger.Logger) *Handler {
	return &Handler{
		orchestrator: orchestrator,
		sessions:     sessions,
		logger:       log.With(map[string]interface{}{"component": "httpapi"}),
	}
}

// Register attaches the API routes to mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/api/v1/chat", h.handleChat)
	mux.HandleFunc("/api/v1/sessions/", h.handleSession)
	mux.HandleFunc("/healthz", h.handleHealth)
}

func (h *Handler) handleChat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", nil)
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read request body", nil)
		return
	}

	var req ChatRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed JSON body", nil)
		return
	}

	result, err := validation.ValidateJSON(body, validation.ChatRequestSchema)
	if err != nil {
		h.logger.WithError(err).Error("request validation errored", nil)
		writeError(w, http.StatusInternalServerError, "validation failed", nil)
		return
	}
	if !result.Valid {
		writeError(w, http.StatusBadRequest, "invalid request", result.GetErrorMessages())
		return
	}

	response, err := h.orchestrator.HandleTurn(r.Context(), req.SessionID, req.UserID, req.Message)
	if err != nil {
		stdErr := stderrors.AsStandard(err)
		h.logger.WithError(err).Error("turn failed", map[string]interface{}{
			"code": string(stdErr.Code),
		})
		writeError(w, http.StatusInternalServerError, stdErr.Message, nil)
		return
	}

	writeJSON(w, http.StatusOK, response)
}

// handleSession serves lookup and deletion of a stored session by id.
func (h *Handler) handleSession(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/v1/sessions/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusNotFound, "not found", nil)
		return
	}

	switch r.Method {
	case http.MethodGet:
		sess, err := h.sessions.Get(id)
		if err != nil {
			stdErr := stderrors.AsStandard(err)
			h.logger.WithError(err).Error("session lookup failed", map[string]interface{}{
				"sessionId": id,
			})
			writeError(w, http.StatusInternalServerError, stdErr.Message, nil)
			return
		}
		if sess == nil {
			notFound := stderrors.NewSessionNotFoundError(id)
			writeError(w, http.StatusNotFound, notFound.Message, nil)
			return
		}
		writeJSON(w, http.StatusOK, sess)

	case http.MethodDelete:
		if err := h.sessions.Delete(id); err != nil {
			stdErr := stderrors.AsStandard(err)
			writeError(w, http.StatusInternalServerError, stdErr.Message, nil)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", nil)
	}
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string, details []string) {
	writeJSON(w, status, errorResponse{Error: message, Details: details})
}
