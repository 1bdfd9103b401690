// internal/controller/ml_controller.go
package controller

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/adityarw/nasabah-scoring-backend/internal/features"
	"github.com/adityarw/nasabah-scoring-backend/internal/ml"
)

// MLController exposes the raw scoring passthrough plus the composite
// health probe. It holds the concrete client because the probes are not
// part of the Scorer contract.
type MLController struct {
	ML *ml.Client
}

// Predict validates a full feature payload and forwards it to the
// scoring API without persisting anything.
func (c *MLController) Predict(w http.ResponseWriter, r *http.Request) {
	var raw map[string]any
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	norm := features.Normalize(raw)
	if err := features.ValidatePrediction(norm); err != nil {
		writeError(w, err)
		return
	}

	result, err := c.ML.Score(r.Context(), features.FromCanonical(norm))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":        true,
		"prediction":     result.Label,
		"probability":    result.Probability,
		"threshold":      result.Threshold,
		"raw_prediction": result.Raw,
	})
}

// PredictBatch forwards a list of prospects synchronously.
func (c *MLController) PredictBatch(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Clients []map[string]any `json:"clients"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	if body.Clients == nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"success": false,
			"error":   `Request body must contain "clients" array`,
		})
		return
	}
	if len(body.Clients) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"success": false,
			"error":   "Clients array cannot be empty",
		})
		return
	}

	list := make([]features.FeatureSet, len(body.Clients))
	for i, client := range body.Clients {
		list[i] = features.FromCanonical(features.Normalize(client))
	}

	result, err := c.ML.ScoreBatch(r.Context(), list)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":     true,
		"predictions": result.Predictions,
		"count":       len(result.Predictions),
	})
}

// Health reports backend status plus scoring API reachability and model
// metadata. Purely operational; failures here never block scoring writes.
func (c *MLController) Health(w http.ResponseWriter, r *http.Request) {
	mlStatus := "connected"
	health, err := c.ML.Health(r.Context())
	if err != nil {
		mlStatus = "disconnected"
		health = nil
	}

	var info map[string]any
	if modelInfo, err := c.ML.ModelInfo(r.Context()); err == nil {
		info = modelInfo
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":        "healthy",
		"backend":       "online",
		"ml_api":        mlStatus,
		"ml_api_status": health,
		"model_info":    info,
		"timestamp":     time.Now().Format(time.RFC3339),
	})
}
