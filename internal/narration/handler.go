package narration

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/tusabogados/intake-platform/pkg/logging"
)

// Recorder counts narration outcomes. Satisfied by the intake metrics; nil
// disables recording.
type Recorder interface {
	ObserveNarration(engine string, fallback bool)
}

// Handler exposes the narration endpoint. The dialogue engine never calls
// this; the client requests narration separately for the text it received.
type Handler struct {
	narrator Narrator
	recorder Recorder
	logger   *logging.Logger
}

// NewHandler creates the narration HTTP handler.
func NewHandler(narrator Narrator, recorder Recorder, logger *logging.Logger) *Handler {
	if narrator == nil {
		narrator = BrowserFallback{}
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{narrator: narrator, recorder: recorder, logger: logger}
}

type narrateRequest struct {
	Text string `json:"text"`
}

// Narrate handles POST /api/narrate. Successful synthesis streams audio;
// otherwise a JSON body tells the client to fall back to local speech.
func (h *Handler) Narrate(w http.ResponseWriter, r *http.Request) {
	var req narrateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		http.Error(w, `{"error":"no text provided"}`, http.StatusBadRequest)
		return
	}

	result, err := h.narrator.Narrate(r.Context(), req.Text)
	if err != nil {
		// Narrators degrade rather than fail; treat an error the same way.
		h.logger.Error("narration: unexpected narrator error", "error", err)
		result = Result{UseLocalFallback: true, Engine: EngineBrowser}
	}

	if h.recorder != nil {
		h.recorder.ObserveNarration(string(result.Engine), result.UseLocalFallback)
	}

	if result.UseLocalFallback {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(result)
		return
	}

	w.Header().Set("Content-Type", result.ContentType)
	w.Header().Set("X-Narration-Engine", string(result.Engine))
	_, _ = w.Write(result.Audio)
}
