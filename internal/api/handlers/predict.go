// Package handlers contains the HTTP endpoint handlers.
package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/jugesdebnath7/powercast/internal/inference"
	"github.com/jugesdebnath7/powercast/pkg/logger"
)

// Forecaster produces the forecast served by the API.
type Forecaster interface {
	Run(ctx context.Context) ([]inference.Prediction, error)
}

// PredictHandler serves forecast requests.
type PredictHandler struct {
	service Forecaster
	log     *logger.Logger
}

// NewPredictHandler creates a predict handler.
func NewPredictHandler(service Forecaster, log *logger.Logger) *PredictHandler {
	return &PredictHandler{service: service, log: log}
}

// PredictResponse is the /predict response body.
type PredictResponse struct {
	Predictions []inference.Prediction `json:"predictions"`
}

// GetPredictions runs the forecast and returns every prediction.
// GET /predict
func (h *PredictHandler) GetPredictions(w http.ResponseWriter, r *http.Request) {
	preds, err := h.service.Run(r.Context())
	if err != nil {
		h.log.WithError(err).Error("Forecast request failed")
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, PredictResponse{Predictions: preds})
}

// respondJSON writes a JSON response with the given status.
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// respondError writes a JSON error response.
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
