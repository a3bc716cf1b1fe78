package archive

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/tusabogados/intake-platform/pkg/logging"
)

// Handler exposes archived intakes to the back office.
type Handler struct {
	store  *Store
	logger *logging.Logger
}

// NewHandler creates the archive HTTP handler.
func NewHandler(store *Store, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{store: store, logger: logger}
}

// ListIntakes handles GET /admin/intakes?limit=N.
func (h *Handler) ListIntakes(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		http.Error(w, `{"error":"archive disabled"}`, http.StatusServiceUnavailable)
		return
	}

	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	records, err := h.store.ListRecent(r.Context(), limit)
	if err != nil {
		h.logger.Error("archive: list failed", "error", err)
		http.Error(w, `{"error":"failed to list intakes"}`, http.StatusInternalServerError)
		return
	}
	if records == nil {
		records = []Record{}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"intakes": records})
}
