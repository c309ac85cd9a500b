package calculation

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"biofuel_tea/pkg/core/engine"
	"biofuel_tea/pkg/core/pipeline"
	"biofuel_tea/pkg/core/units"
	"biofuel_tea/pkg/models"
)

// Handler serves the calculation endpoint.
type Handler struct {
	orch   *pipeline.Orchestrator
	logger *zap.Logger
}

// NewHandler builds the handler. logger may be nil.
func NewHandler(orch *pipeline.Orchestrator, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{orch: orch, logger: logger}
}

// HandleCalculate runs one techno-economic calculation.
// POST /api/calculate, body: models.CalculationRequest.
func (h *Handler) HandleCalculate(w http.ResponseWriter, r *http.Request) {
	// CORS
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req models.CalculationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	res, err := h.orch.Run(r.Context(), req)
	if err != nil {
		// Validation failures carry a specific reason and reject the
		// whole request; anything else is an internal fault.
		var verr *engine.ValidationError
		var uerr *units.UnknownUnitError
		if errors.As(err, &verr) || errors.As(err, &uerr) {
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}
		h.logger.Error("calculation failed", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(res); err != nil {
		h.logger.Error("failed to encode result", zap.Error(err))
	}
}

// HandleBatch runs several calculations on the bounded worker pool.
// POST /api/calculate/batch, body: {"requests": [...], "workers": n}.
func (h *Handler) HandleBatch(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var body struct {
		Requests []models.CalculationRequest `json:"requests"`
		Workers  int                         `json:"workers"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	results, err := h.orch.RunBatch(r.Context(), body.Requests, body.Workers)
	if err != nil {
		var verr *engine.ValidationError
		if errors.As(err, &verr) {
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}
		h.logger.Error("batch calculation failed", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(results); err != nil {
		h.logger.Error("failed to encode batch results", zap.Error(err))
	}
}
