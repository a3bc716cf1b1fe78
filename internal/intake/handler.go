package intake

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/tusabogados/intake-platform/pkg/logging"
)

// Handler wires the chat endpoint to the intake service.
type Handler struct {
	service Service
	logger  *logging.Logger
}

// NewHandler creates the chat HTTP handler.
func NewHandler(service Service, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{service: service, logger: logger}
}

type chatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id"`
}

type chatResponse struct {
	Response  string `json:"response"`
	SessionID string `json:"session_id"`
	Stage     string `json:"stage"`
	EndCall   bool   `json:"end_call,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Chat handles POST /api/chat. Missing or empty messages are rejected here
// with a client error; the dialogue engine never sees them.
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "no message provided"})
		return
	}

	resp, err := h.service.ProcessMessage(r.Context(), MessageRequest{
		SessionID: req.SessionID,
		Message:   req.Message,
	})
	if err != nil {
		if errors.Is(err, ErrEmptyMessage) {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "no message provided"})
			return
		}
		h.logger.Error("chat: failed to process message", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{
			Error: "Lo sentimos, ocurrió un error. Intente de nuevo en unos momentos.",
		})
		return
	}

	writeJSON(w, http.StatusOK, chatResponse{
		Response:  resp.Message,
		SessionID: resp.SessionID,
		Stage:     string(resp.Stage),
		EndCall:   resp.EndCall,
	})
}

// History handles GET /api/chat/{sessionID}/history.
func (h *Handler) History(w http.ResponseWriter, r *http.Request, sessionID string) {
	if strings.TrimSpace(sessionID) == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "session id required"})
		return
	}
	msgs, err := h.service.GetHistory(r.Context(), sessionID)
	if err != nil {
		h.logger.Error("chat: failed to load history", "session_id", sessionID, "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to load history"})
		return
	}
	if msgs == nil {
		msgs = []TranscriptMessage{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"messages": msgs})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
